/*
 * valkyrie - SH interpreter register/state model
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

// Package sh implements the shared SH-2/SH-4 instruction interpreter core:
// register state, the prebuilt opcode dispatch table, delay slots, and
// the IRQ-entry sequence. One CPU struct is built per Hikaru board CPU
// (master, slave); the SH-4 extension fields are simply unused on an
// SH-2-variant CPU, which aborts if an SH-4-only opcode ever dispatches.
package sh

import (
	"log/slog"

	"github.com/valkyrie-emu/valkyrie/bus"
	"github.com/valkyrie-emu/valkyrie/debugtrace"
	"github.com/valkyrie-emu/valkyrie/hostio"
)

// Variant distinguishes the SH-2-compatible subset core from the SH-4.
type Variant int

const (
	VariantSH2 Variant = iota
	VariantSH4
)

// RunState is the CPU's power state: running, stopped (fatal halt),
// sleeping, or standby.
type RunState int

const (
	StateRun RunState = iota
	StateSleep
	StateStandby
	StateStop
)

// SR bit positions, shared by SH-2 and SH-4 (SH-4 adds FD/BL/RB/MD).
const (
	srT  = 1 << 0
	srS  = 1 << 1
	srI0 = 1 << 4
	srIMask = 0xF << 4
	srQ  = 1 << 8
	srM  = 1 << 9
	srFD = 1 << 15
	srBL = 1 << 28
	srRB = 1 << 29
	srMD = 1 << 30

	sh2SRMask = 0x3F3
	sh4SRMask = 0x700083F3
)

// FPSCR bit positions (SH-4 only).
const (
	fpscrRMMask     = 0x3
	fpscrFlagMask   = 0x1F << 2
	fpscrEnableMask = 0x1F << 7
	fpscrCauseMask  = 0x3F << 12
	fpscrDN         = 1 << 18
	fpscrPR         = 1 << 19
	fpscrSZ         = 1 << 20
	fpscrFR         = 1 << 21
	fpscrMask       = 0x003FFFFF
)

// irqLevel is one entry of the per-level IRQ table: 0..16.
type irqLevel struct {
	raised bool
	vector uint32
}

// CPU holds the complete architectural state for one SH-2/SH-4 core plus
// the bookkeeping the interpreter needs (dispatch table, delay-slot flag,
// trace ring, bus, host hooks).
type CPU struct {
	Name    string
	Variant Variant
	ID      hostio.CPUID
	Host    hostio.Host
	Bus     *bus.Mmap
	Log     *slog.Logger
	Trace   *debugtrace.Ring

	R      [16]uint32
	RBank  [8]uint32 // SH-4 alternate bank for R0..R7
	PC     uint32
	PR     uint32
	GBR    uint32
	VBR    uint32
	SPC    uint32
	SSR    uint32
	SGR    uint32
	DBR    uint32
	MAC    uint64 // MACH = MAC>>32, MACL = MAC&0xffffffff
	SR     uint32
	FPSCR  uint32
	FR     [16]uint32 // single-precision bank, also read as 8 doubles
	XF     [16]uint32
	FPUL   uint32

	inSlot bool

	irq        [17]irqLevel
	irqPending bool
	icrNMIB    bool

	cycles int
	state  RunState

	table *DecodeTable

	vectorOffset uint32 // configured IRL vector offset, default 0x600
}

// New creates a CPU of the given variant bound to bus and host hooks. The
// decode table is built once per variant and shared by all CPUs of that
// variant, since it's read-only after construction and per-CPU copies
// would just waste memory.
func New(name string, variant Variant, id hostio.CPUID, b *bus.Mmap, host hostio.Host, log *slog.Logger) (*CPU, error) {
	table, err := TableFor(variant)
	if err != nil {
		return nil, err
	}
	c := &CPU{
		Name: name, Variant: variant, ID: id, Host: host, Bus: b, Log: log,
		Trace: debugtrace.NewRing(64), table: table, vectorOffset: 0x600,
	}
	c.Reset()
	return c, nil
}

// Reset clears architectural state to power-on values. Buffers are
// cleared separately by the machine; Reset only touches CPU registers.
func (c *CPU) Reset() {
	c.R = [16]uint32{}
	c.RBank = [8]uint32{}
	c.PC, c.PR, c.GBR, c.VBR = 0, 0, 0, 0
	c.SPC, c.SSR, c.SGR, c.DBR = 0, 0, 0, 0
	c.MAC = 0
	c.SR = srMD | srBL | srIMask // privileged, IRQ-blocked, mask=0xF, per SH-4 reset
	c.FPSCR = 1 << 19            // PR=0... actually reset clears PR; keep simple: 0x40001 (FR=0,SZ=0,PR=0,RM=1)
	c.FPSCR = 0x00040001
	c.FR = [16]uint32{}
	c.XF = [16]uint32{}
	c.FPUL = 0
	c.inSlot = false
	c.irq = [17]irqLevel{}
	c.irqPending = false
	c.cycles = 0
	c.state = StateRun
}

// SetCycles sets the remaining-cycles budget before the next Step call stops.
func (c *CPU) SetCycles(n int) { c.cycles = n }

// RemainingCycles reports how many cycles are left in the current budget.
func (c *CPU) RemainingCycles() int { return c.cycles }

// RunState reports whether the CPU is able to execute instructions.
func (c *CPU) RunState() RunState { return c.state }

// T returns the SR.T bit as 0 or 1.
func (c *CPU) T() uint32 {
	if c.SR&srT != 0 {
		return 1
	}
	return 0
}

// SetT sets or clears SR.T.
func (c *CPU) SetT(v bool) {
	if v {
		c.SR |= srT
	} else {
		c.SR &^= srT
	}
}

// MACH/MACL aliases.
func (c *CPU) MACH() uint32 { return uint32(c.MAC >> 32) }
func (c *CPU) MACL() uint32 { return uint32(c.MAC) }
func (c *CPU) SetMACH(v uint32) { c.MAC = uint64(v)<<32 | uint64(uint32(c.MAC)) }
func (c *CPU) SetMACL(v uint32) { c.MAC = c.MAC&0xFFFFFFFF00000000 | uint64(v) }

// writeSR applies the variant's status-register mask and its side effects:
// a bank swap on RB change, and a pending-IRQ recompute on I/BL change.
func (c *CPU) writeSR(v uint32) {
	mask := uint32(sh2SRMask)
	if c.Variant == VariantSH4 {
		mask = sh4SRMask
	}
	v &= mask
	changedRB := (c.SR & srRB) != (v & srRB)
	changedIBL := (c.SR&(srIMask|srBL)) != (v & (srIMask | srBL))
	c.SR = v
	if changedRB && c.Variant == VariantSH4 {
		for i := 0; i < 8; i++ {
			c.R[i], c.RBank[i] = c.RBank[i], c.R[i]
		}
	}
	if changedIBL {
		c.recomputePending()
	}
}

// writeFPSCR applies the documented mask, bank-swap and SZ/PR assertion.
func (c *CPU) writeFPSCR(v uint32) {
	v &= fpscrMask
	changedFR := (c.FPSCR & fpscrFR) != (v & fpscrFR)
	c.FPSCR = v
	if changedFR {
		c.FR, c.XF = c.XF, c.FR
	}
	if v&fpscrSZ != 0 && v&fpscrPR != 0 {
		if c.Log != nil {
			c.Log.Warn("FPSCR asserts both SZ and PR", "cpu", c.Name)
		}
	}
}

func (c *CPU) fpscrPR() bool { return c.FPSCR&fpscrPR != 0 }
func (c *CPU) fpscrSZ() bool { return c.FPSCR&fpscrSZ != 0 }
