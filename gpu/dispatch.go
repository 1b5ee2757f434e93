/*
 * valkyrie - GPU command processor fetch/dispatch loop
 *
 * Copyright 2026, Valkyrie Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package gpu

import (
	"log/slog"

	"github.com/valkyrie-emu/valkyrie/bus"
	"github.com/valkyrie-emu/valkyrie/debugtrace"
	"github.com/valkyrie-emu/valkyrie/hkerr"
	"github.com/valkyrie-emu/valkyrie/irqfabric"
)

const numOpcodes = 512

// OpFlags describes the per-opcode metadata the dispatch loop needs: whether
// the handler supplies its own PC (jumps/calls), and where the opcode falls
// relative to a mesh region (begin/continue/static).
type OpFlags uint8

const (
	FlagJump OpFlags = 1 << iota
	FlagBegin
	FlagContinue
	FlagStatic
)

// OpHandler executes one CP instruction. It receives the 32-bit-aligned
// words of the instruction (length implied by size_log) and the CP. A
// returned error is fatal to the CP: it stops the command processor and
// surfaces as a GpuError rather than being retried or skipped.
type OpHandler func(cp *CP, words []uint32) error

type opEntry struct {
	Handler OpHandler
	Flags   OpFlags
	Name    string
}

var opTable [numOpcodes]*opEntry

func register(opcode int, name string, flags OpFlags, h OpHandler) {
	if opTable[opcode] != nil {
		panic("gpu: opcode table collision at " + name + " vs " + opTable[opcode].Name)
	}
	opTable[opcode] = &opEntry{Handler: h, Flags: flags, Name: name}
}

// CP wraps the object State with the fetch/execute machinery: the
// backing buffers, the interrupt fabric and a trace log.
type CP struct {
	*State

	CmdRAM   *bus.Buffer
	SlaveRAM *bus.Buffer
	Fabric   *irqfabric.Fabric
	Log      *slog.Logger
	Trace    *debugtrace.Ring
}

func NewCP(st *State, cmdRAM, slaveRAM *bus.Buffer, fab *irqfabric.Fabric, log *slog.Logger) *CP {
	return &CP{State: st, CmdRAM: cmdRAM, SlaveRAM: slaveRAM, Fabric: fab, Log: log, Trace: debugtrace.NewRing(64)}
}

// backingBuffer resolves PC's upper byte to CMDRAM or slave RAM: the CP can
// fetch and execute instructions out of either window.
func (cp *CP) backingBuffer(pc uint32) (*bus.Buffer, uint32, error) {
	top := pc >> 24
	switch top {
	case 0x40, 0x41:
		return cp.SlaveRAM, pc & 0x00FFFFFF, nil
	case 0x48, 0x4C:
		return cp.CmdRAM, pc & 0x00FFFFFF, nil
	default:
		return nil, 0, hkerr.GpuError("gpu", pc, "PC in unknown memory")
	}
}

// Step executes exactly one CP instruction if the CP is running. The
// machine calls it once per cycle of a line's budget (the command
// processor is treated as single-cycle-per-instruction at this level of
// fidelity).
func (cp *CP) Step() {
	if !cp.Running {
		return
	}
	if err := cp.execOne(); err != nil {
		if cp.Log != nil {
			cp.Log.Warn("gpu cp halted", "err", err, "trace", cp.Trace.Dump())
		}
		cp.Running = false
		if cp.Fabric != nil {
			cp.Fabric.Raise(irqfabric.BitGpuDone)
		}
	}
}

func (cp *CP) execOne() error {
	buf, off, err := cp.backingBuffer(cp.PC)
	if err != nil {
		return err
	}
	if off+4 > uint32(buf.Len()) {
		return hkerr.GpuError("gpu", cp.PC, "fetch out of bounds")
	}
	first := uint32(buf.Get(4, off))
	opcode := int(first & 0x1FF)
	sizeLog := 2 + ((first>>4)&3)
	size := uint32(1) << sizeLog

	entry := opTable[opcode]
	if entry == nil {
		return hkerr.GpuError("gpu", cp.PC, "invalid opcode")
	}

	words := make([]uint32, size/4)
	for i := range words {
		wOff := off + uint32(i)*4
		if wOff+4 > uint32(buf.Len()) {
			return hkerr.GpuError("gpu", cp.PC, "instruction extends past buffer")
		}
		words[i] = uint32(buf.Get(4, wOff))
	}

	if debugtrace.Enabled(debugtrace.GPU) {
		cp.Trace.Push(cp.PC, first, entry.Name)
	}

	cp.updateMeshBoundary(entry.Flags)

	if err := entry.Handler(cp, words); err != nil {
		return err
	}
	if entry.Flags&FlagJump == 0 {
		cp.PC += size
	}
	return nil
}

// updateMeshBoundary emits begin_mesh/end_mesh transitions before the
// instruction executes: a begin-flagged opcode opens a mesh region if one
// isn't already open, and any opcode that isn't begin- or continue-flagged
// closes one that is.
func (cp *CP) updateMeshBoundary(flags OpFlags) {
	if flags&FlagBegin != 0 && !cp.InMesh {
		cp.Renderer.BeginMesh(cp.PC, flags&FlagStatic != 0)
		cp.InMesh = true
		return
	}
	if cp.InMesh && flags&FlagContinue == 0 && flags&FlagBegin == 0 {
		cp.Renderer.EndMesh(cp.PC)
		cp.InMesh = false
	}
}

// ArmState holds an armed flag for the reg15.58 start condition. Nothing
// in this module sets or reads it: the machine's reg15.58 write handler
// calls ArmedStart directly.
type ArmState struct {
	Armed bool
}

// ArmedStart sets PC/SP[0]/SP[1] to the given values and sets Running.
// The machine calls it from the reg15.58 write handler at the moment a
// value with both low bits set is written, passing the CP's current PC
// and SPs; the start is not deferred to vblank-in.
func (cp *CP) ArmedStart(pc, sp0, sp1 uint32) {
	cp.PC = pc
	cp.SP[0] = sp0
	cp.SP[1] = sp1
	cp.Running = true
}
