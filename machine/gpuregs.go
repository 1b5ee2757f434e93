/*
 * valkyrie - GPU-adjacent MMIO register blocks (reg15, reg1A)
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

package machine

import (
	"github.com/valkyrie-emu/valkyrie/hkerr"
	"github.com/valkyrie-emu/valkyrie/irqfabric"
)

// reg15 implements the GPU's own control register block: CP arming
// (offset 0x58), IDMA source/count registers (0x0C/0x10/0x14), and the
// interrupt status/mask pair (0x88/0x84).
type reg15 struct {
	m *Machine
}

const (
	reg15Size    = 0x100
	offArm       = 0x58
	offIdmaPC    = 0x0C
	offIdmaCount = 0x10
	offIdmaCtl   = 0x14
	offIrqStatus = 0x88
	offIrqMask   = 0x84
)

func (r reg15) Get(size int, addr uint32) (uint64, error) {
	switch addr {
	case offArm:
		if r.m.GPU.Running {
			return 3, nil
		}
		return 0, nil
	case offIdmaPC:
		return uint64(r.m.IDMA[0].Regs.EntryPC), nil
	case offIdmaCount:
		return uint64(r.m.IDMA[0].Regs.Count), nil
	case offIdmaCtl:
		if r.m.IDMA[0].Regs.Active {
			return 1, nil
		}
		return 0, nil
	case offIrqStatus:
		return uint64(r.m.Fabric.Status()), nil
	default:
		return 0, nil
	}
}

func (r reg15) Put(size int, addr uint32, value uint64) error {
	switch addr {
	case offArm:
		if value&3 == 3 {
			r.m.GPU.ArmedStart(r.m.GPU.PC, r.m.GPU.SP[0], r.m.GPU.SP[1])
		} else {
			r.m.GPU.Running = false
		}
	case offIdmaPC:
		r.m.IDMA[0].Regs.EntryPC = uint32(value)
	case offIdmaCount:
		r.m.IDMA[0].Regs.Count = uint32(value)
	case offIdmaCtl:
		r.m.IDMA[0].Regs.Active = value&1 != 0
	case offIrqMask:
		r.m.Fabric.SetMask(uint8(value))
	default:
		return hkerr.BusError("gpuregs.reg15", addr, "unmapped offset")
	}
	return nil
}

// reg1A implements the second GPU-adjacent block: the four interrupt
// source registers (0x08/0x0C/0x10/0x14), their OR mirror (0x18), and the
// FB DMA register quad.
type reg1A struct {
	m *Machine
}

const (
	offSrc08    = 0x08
	offSrc0C    = 0x0C
	offSrc10    = 0x10
	offSrc14    = 0x14
	offMirror18 = 0x18
	offFBSrc    = 0x20
	offFBDst    = 0x24 // read low bit doubles as the transfer-busy flag
	offFBSize   = 0x28
	offFBCtl    = 0x2C
)

func (r reg1A) Get(size int, addr uint32) (uint64, error) {
	switch addr {
	case offMirror18:
		return uint64(r.m.Fabric.Mirror()), nil
	case offFBDst:
		v := uint64(r.m.FBDMA.DstX) | uint64(r.m.FBDMA.DstY)<<16
		if r.m.FBDMA.Busy() {
			v |= 1
		}
		return v, nil
	default:
		return 0, nil
	}
}

func (r reg1A) Put(size int, addr uint32, value uint64) error {
	switch addr {
	case offSrc08:
		r.m.Fabric.RaiseSource(irqfabric.Source08, uint8(value))
	case offSrc0C:
		r.m.Fabric.RaiseSource(irqfabric.Source0C, uint8(value))
	case offSrc10:
		r.m.Fabric.RaiseSource(irqfabric.Source10, uint8(value))
	case offSrc14:
		r.m.Fabric.RaiseSource(irqfabric.Source14, uint8(value))
	case offFBSrc:
		r.m.FBDMA.SrcX, r.m.FBDMA.SrcY = uint16(value), uint16(value>>16)
	case offFBDst:
		r.m.FBDMA.DstX, r.m.FBDMA.DstY = uint16(value), uint16(value>>16)
	case offFBSize:
		r.m.FBDMA.Width, r.m.FBDMA.Height = uint16(value), uint16(value>>16)
	case offFBCtl:
		r.m.FBDMA.Ctl = uint32(value)
	default:
		return hkerr.BusError("gpuregs.reg1A", addr, "unmapped offset")
	}
	return nil
}
