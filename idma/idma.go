/*
 * valkyrie - Texture indirect DMA engine
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

// Package idma implements the texture indirect DMA engine: it walks a
// descriptor table in CMDRAM and copies each entry's texel data into
// texture RAM at a slot-specified destination.
package idma

import (
	"io"
	"log/slog"

	"github.com/valkyrie-emu/valkyrie/bus"
	"github.com/valkyrie-emu/valkyrie/hkerr"
	"github.com/valkyrie-emu/valkyrie/irqfabric"
)

const slotPixels = 16

// Regs mirrors the GPU's reg15 block fields the engine reads/writes:
// reg15.14 (active bit 0), reg15.10 (remaining count), reg15.0C
// (current entry address).
type Regs struct {
	Active  bool
	Count   uint32
	EntryPC uint32
}

// Engine holds the live register state plus the buffers it reads entries
// and texels from, and the texture RAM it writes to.
type Engine struct {
	Name    string
	Log     *slog.Logger
	Fabric  *irqfabric.Fabric
	CmdRAM  *bus.Buffer
	SlaveRAM *bus.Buffer
	TexRAM  *bus.Buffer // one bank; the machine owns one Engine per bank

	Regs Regs
}

func New(name string, cmdRAM, slaveRAM, texRAM *bus.Buffer, fab *irqfabric.Fabric, log *slog.Logger) *Engine {
	return &Engine{Name: name, CmdRAM: cmdRAM, SlaveRAM: slaveRAM, TexRAM: texRAM, Fabric: fab, Log: log}
}

// SaveState packs Regs: active flag, count, entry PC, little-endian.
func (e *Engine) SaveState(w io.Writer) error {
	var out [9]byte
	if e.Regs.Active {
		out[0] = 1
	}
	putLE32(out[1:5], e.Regs.Count)
	putLE32(out[5:9], e.Regs.EntryPC)
	_, err := w.Write(out[:])
	return err
}

func (e *Engine) LoadState(r io.Reader) error {
	var b [9]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return hkerr.IdmaError(e.Name, 0, "truncated savestate payload")
	}
	e.Regs.Active = b[0]&1 != 0
	e.Regs.Count = getLE32(b[1:5])
	e.Regs.EntryPC = getLE32(b[5:9])
	return nil
}

func putLE32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

func getLE32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Tick processes at most one descriptor entry if the engine is active:
// the descriptor pointer (reg15.0C) advances by 16 bytes and the
// remaining count (reg15.10) decrements by one.
func (e *Engine) Tick() {
	if !e.Regs.Active || e.Regs.Count == 0 {
		return
	}
	if err := e.processEntry(e.Regs.EntryPC & 0x00FFFFFF); err != nil {
		if e.Log != nil {
			e.Log.Warn("idma entry error, skipping", "engine", e.Name, "err", err)
		}
	}
	e.Regs.EntryPC += 16
	e.Regs.Count--
	if e.Regs.Count == 0 {
		e.Regs.Active = false
		if e.Fabric != nil {
			e.Fabric.Raise(irqfabric.BitIDMADone)
		}
	}
}

type entry struct {
	busAddr uint32
	size    uint32
	packed  uint32
	bank    uint32
}

func (e *Engine) readEntry(off uint32) (entry, error) {
	if off+16 > uint32(e.CmdRAM.Len()) {
		return entry{}, hkerr.IdmaError(e.Name, off, "entry out of bounds")
	}
	return entry{
		busAddr: uint32(e.CmdRAM.Get(4, off)),
		size:    uint32(e.CmdRAM.Get(4, off+4)),
		packed:  uint32(e.CmdRAM.Get(4, off+8)),
		bank:    uint32(e.CmdRAM.Get(4, off+12)) & 1,
	}, nil
}

func (e *Engine) processEntry(off uint32) error {
	ent, err := e.readEntry(off)
	if err != nil {
		return err
	}
	slotX := int((ent.packed >> 0) & 0xFF)
	slotY := int((ent.packed >> 8) & 0xFF)
	width := 16 << ((ent.packed >> 16) & 7)
	height := 16 << ((ent.packed >> 19) & 7)

	src, srcOff, err := e.routeSource(ent.busAddr)
	if err != nil {
		return err
	}
	if srcOff+uint32(width*height*2) > uint32(src.Len()) {
		return hkerr.IdmaError(e.Name, ent.busAddr, "source range out of bounds")
	}

	rowBase := (slotY - 0xC0) * slotPixels
	colBase := (slotX - 0x80) * slotPixels
	if rowBase < 0 || colBase < 0 {
		return hkerr.IdmaError(e.Name, ent.busAddr, "slot coordinates below texram origin")
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			texel := src.Get(2, srcOff+uint32((y*width+x)*2))
			dstOff := uint32((rowBase+y)*2048 + (colBase+x)*2)
			if dstOff+2 > uint32(e.TexRAM.Len()) {
				continue
			}
			e.TexRAM.Put(2, dstOff, texel)
		}
	}
	return nil
}

func (e *Engine) routeSource(busAddr uint32) (*bus.Buffer, uint32, error) {
	top := busAddr >> 24
	offs := busAddr & 0x00FFFFFF
	switch {
	case top == 0x48 || top == 0x4C:
		return e.CmdRAM, offs, nil
	case top == 0x40 || top == 0x41:
		return e.SlaveRAM, offs, nil
	default:
		return nil, 0, hkerr.IdmaError(e.Name, busAddr, "unrecognized source area")
	}
}
