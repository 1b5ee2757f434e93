/*
 * valkyrie - Fetch/dispatch loop, delay slots, IRQ entry
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

package sh

import (
	"github.com/valkyrie-emu/valkyrie/debugtrace"
	"github.com/valkyrie-emu/valkyrie/hkerr"
)

// Step fetches, decodes and executes one instruction, honoring the
// remaining-cycles budget. It returns the number of cycles actually
// consumed (always 1 for a successful step, 0 if the CPU is not
// runnable) and any fatal error, which the caller (machine) treats by
// halting this CPU.
func (c *CPU) Step() (int, error) {
	if c.state != StateRun {
		return 0, nil
	}
	c.processIRQs()
	if c.state != StateRun {
		return 0, nil
	}
	if err := c.execOne(); err != nil {
		c.state = StateStop
		if c.Log != nil {
			c.Log.Error("cpu halted", "cpu", c.Name, "err", err, "trace", c.Trace.Dump())
		}
		return 0, err
	}
	c.cycles--
	return 1, nil
}

// execOne fetches and dispatches exactly one instruction at PC, advancing
// PC by 2 unless the handler already set it (a JUMP-style instruction).
func (c *CPU) execOne() error {
	inst, err := c.fetch(c.PC)
	if err != nil {
		return err
	}
	desc := c.table.Lookup(inst)
	if desc == nil {
		return hkerr.InvalidInstruction("sh:"+c.Name, c.PC, "unpopulated opcode slot")
	}
	if desc.SH4Only && c.Variant != VariantSH4 {
		return hkerr.InvalidInstruction("sh:"+c.Name, c.PC, "SH-4 only opcode on SH-2 core")
	}
	if debugtrace.Enabled(debugtrace.SH) {
		c.Trace.Push(c.PC, uint32(inst), desc.Name)
	}
	jumped := desc.Handler(c, inst)
	if !jumped {
		c.PC += 2
	}
	return nil
}

func (c *CPU) fetch(addr uint32) (uint16, error) {
	v, err := c.Bus.Get(2, addr)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// runDelaySlot executes exactly one instruction, the one at PC+2, with
// inSlot set. Any control-transfer handler invoked while inSlot is already
// true is a fatal InvalidCpState: delay slots do not nest, and the CPU is
// halted with the error logged.
func (c *CPU) runDelaySlot() error {
	if c.inSlot {
		err := hkerr.InvalidCpStateError("sh:"+c.Name, c.PC, "nested delay slot")
		c.state = StateStop
		if c.Log != nil {
			c.Log.Error("cpu halted", "cpu", c.Name, "err", err, "trace", c.Trace.Dump())
		}
		return err
	}
	c.inSlot = true
	defer func() { c.inSlot = false }()
	c.PC += 2
	return c.execOne()
}

// Read/Write helpers shared by load/store handlers. Errors halt the CPU
// (the caller lets them propagate up through Step).
func (c *CPU) readByte(addr uint32) (uint32, error) {
	v, err := c.Bus.Get(1, addr)
	return uint32(v), err
}
func (c *CPU) readWord(addr uint32) (uint32, error) {
	v, err := c.Bus.Get(2, addr)
	return uint32(v), err
}
func (c *CPU) readLong(addr uint32) (uint32, error) {
	v, err := c.Bus.Get(4, addr)
	return uint32(v), err
}
func (c *CPU) writeByte(addr, v uint32) error  { return c.Bus.Put(1, addr, uint64(v)) }
func (c *CPU) writeWord(addr, v uint32) error  { return c.Bus.Put(2, addr, uint64(v)) }
func (c *CPU) writeLong(addr, v uint32) error  { return c.Bus.Put(4, addr, uint64(v)) }

// recomputePending refreshes the cached "any IRQ can preempt" bool used
// to skip processIRQs's level scan on the fast path.
func (c *CPU) recomputePending() {
	c.irqPending = false
	for lvl := 16; lvl >= 1; lvl-- {
		if c.irq[lvl].raised {
			c.irqPending = true
			return
		}
	}
}

// PostIRQ is called by the interrupt fabric (through the machine) to set
// or clear one priority level's pending state.
func (c *CPU) PostIRQ(level int, raised bool, vector uint32) {
	if level < 0 || level > 16 {
		return
	}
	c.irq[level].raised = raised
	c.irq[level].vector = vector
	c.recomputePending()
}

// processIRQs enters the highest raised level above SR.I (NMI, level 16,
// always qualifies). On SH-4 with SR.BL set, only an NMI with ICR.NMIB set
// or a sleeping/standby CPU is entered.
func (c *CPU) processIRQs() {
	if !c.irqPending {
		return
	}
	blocked := c.Variant == VariantSH4 && c.SR&srBL != 0
	curMask := int((c.SR & srIMask) >> 4)
	for lvl := 16; lvl >= 1; lvl-- {
		if !c.irq[lvl].raised {
			continue
		}
		isNMI := lvl == 16
		if blocked {
			// NMI escapes BL only if ICR.NMIB is set, or the CPU is parked.
			if !(isNMI && (c.icrNMIB || c.state == StateSleep || c.state == StateStandby)) {
				continue
			}
		} else if !isNMI && lvl <= curMask {
			continue
		}
		c.enterIRQ(lvl, c.irq[lvl].vector)
		c.irq[lvl].raised = false
		c.recomputePending()
		return
	}
}

func (c *CPU) enterIRQ(level int, vector uint32) {
	if c.Variant == VariantSH4 {
		c.SPC = c.PC
		c.SSR = c.SR
		c.SGR = c.R[15]
	} else {
		// SH-2: push SR then PC onto the stack pointed to by R15.
		c.R[15] -= 4
		_ = c.writeLong(c.R[15], c.SR)
		c.R[15] -= 4
		_ = c.writeLong(c.R[15], c.PC)
	}
	newPC := c.VBR + vector
	c.writeSR(c.SR | srBL | srMD | srRB)
	if c.state == StateSleep || c.state == StateStandby {
		c.state = StateRun
	}
	c.PC = newPC
}
