/*
 * valkyrie - Aperture bank translation and ROM/RAM DMA engine
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

// Package memctl implements the Hikaru board memory controller: aperture
// bank translation for the CPU's 02/03/16/17/18 address ranges, and the
// ROM/RAM DMA engine, which moves 32-bit words, fed by the bank registers.
package memctl

import (
	"io"
	"log/slog"

	"github.com/valkyrie-emu/valkyrie/bus"
	"github.com/valkyrie-emu/valkyrie/hkerr"
	"github.com/valkyrie-emu/valkyrie/hostio"
)

const (
	regSize     = 0x40
	offStatus   = 0x04
	offBankBase = 0x10
	offDMADst   = 0x30
	offDMASrc   = 0x34
	offDMALen   = 0x38
)

// RomConfig is the per-game bank configuration, loaded from the game list
// entry that selected this machine.
type RomConfig struct {
	EEPROMBank    uint8
	EPROMBankLo   uint8
	EPROMBankHi   uint8
	MaskROMBankLo uint8
	MaskROMBankHi uint8
}

// Controller is the memory controller device: it implements bus.Device so
// it can be mapped directly into a CPU's Mmap at the control-register
// window, and it separately exposes Translate for the aperture windows
// that alias into other regions.
type Controller struct {
	Name string
	Host hostio.Host
	CPU  hostio.CPUID
	Log  *slog.Logger
	cfg  RomConfig

	regs [regSize]byte

	// Targets that DMA/Translate can route bus addresses to, populated
	// by the machine after construction.
	SlaveRAM  *bus.Buffer
	MasterRAM *bus.Buffer
	EPROM     *bus.Buffer
	MaskROM   *bus.Buffer
}

func New(name string, cpu hostio.CPUID, host hostio.Host, log *slog.Logger, cfg RomConfig) *Controller {
	return &Controller{Name: name, CPU: cpu, Host: host, Log: log, cfg: cfg}
}

func (m *Controller) Reset(kind int) {
	m.regs = [regSize]byte{}
}

func (m *Controller) bank(area int) uint8 {
	return m.regs[offBankBase+area]
}

func (m *Controller) SaveState(w io.Writer) error {
	_, err := w.Write(m.regs[:])
	return err
}

func (m *Controller) LoadState(r io.Reader) error {
	if _, err := io.ReadFull(r, m.regs[:]); err != nil {
		return hkerr.StateError(m.Name, "truncated payload")
	}
	return nil
}

// Translate maps a CPU aperture address (area<<24 | offs) to a bus
// address (bank<<24 | offs), using that area's current bank register.
func (m *Controller) Translate(area int, offs uint32) uint32 {
	return uint32(m.bank(area))<<24 | offs
}

// RouteBus resolves a bus address to a backing buffer and an offset into
// it, using the per-game ROM bank ranges.
func (m *Controller) RouteBus(addr uint32) (*bus.Buffer, uint32, error) {
	top := uint8(addr >> 24)
	offs := addr & 0x00FFFFFF
	switch {
	case top == 0x40 && m.SlaveRAM != nil:
		return m.SlaveRAM, offs, nil
	case top == 0x70 && m.MasterRAM != nil:
		return m.MasterRAM, offs, nil
	case top >= 0x90 && top <= 0x9F && m.EPROM != nil:
		return m.EPROM, offs, nil
	case top >= 0xA0 && top <= 0xAF && m.MaskROM != nil:
		return m.MaskROM, offs, nil
	default:
		return nil, 0, hkerr.DmaError(m.Name, addr, "no bus route for address")
	}
}

func (m *Controller) Get(size int, addr uint32) (uint64, error) {
	if int(addr)+size > regSize {
		return 0, hkerr.BusError(m.Name, addr, "register read out of range")
	}
	var v uint64
	for i := 0; i < size; i++ {
		v |= uint64(m.regs[int(addr)+i]) << (8 * i)
	}
	return v, nil
}

func (m *Controller) Put(size int, addr uint32, value uint64) error {
	if int(addr)+size > regSize {
		return hkerr.BusError(m.Name, addr, "register write out of range")
	}
	prevStatus := m.regs[offStatus]
	for i := 0; i < size; i++ {
		m.regs[int(addr)+i] = byte(value >> (8 * i))
	}
	if int(addr) == offStatus {
		// A write to status clears bits, it never sets them: the new
		// value is ANDed with what was already latched.
		m.regs[offStatus] = prevStatus & byte(value)
	}
	if int(addr) >= offDMALen && int(addr) < offDMALen+4 {
		m.maybeStartDMA()
	}
	return nil
}

func (m *Controller) dmaLen() uint32 {
	return uint32(m.regs[offDMALen]) | uint32(m.regs[offDMALen+1])<<8 |
		uint32(m.regs[offDMALen+2])<<16
}
func (m *Controller) dmaCtl() byte { return m.regs[offDMALen+3] }
func (m *Controller) setDMALen(v uint32) {
	m.regs[offDMALen] = byte(v)
	m.regs[offDMALen+1] = byte(v >> 8)
	m.regs[offDMALen+2] = byte(v >> 16)
}
func (m *Controller) clearDMACtl() { m.regs[offDMALen+3] = 0 }

func (m *Controller) dmaDst() uint32 { return le32(m.regs[offDMADst:]) }
func (m *Controller) dmaSrc() uint32 { return le32(m.regs[offDMASrc:]) }
func (m *Controller) setDMASrc(v uint32) { putLe32(m.regs[offDMASrc:], v) }
func (m *Controller) setDMADst(v uint32) { putLe32(m.regs[offDMADst:], v) }

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
func putLe32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

func (m *Controller) maybeStartDMA() {
	// Recognized only as a trigger; Exec drives the per-cycle transfer.
}

// Exec transfers up to cycles 32-bit words from src to dst while ctl bit
// 0 is set. On completion it clears ctl and posts the DMA-done status
// plus the master IRL1 intent.
func (m *Controller) Exec(cycles int) int {
	if m.dmaCtl()&1 == 0 {
		return 0
	}
	remaining := m.dmaLen()
	if remaining == 0 {
		m.finishDMA()
		return 0
	}
	n := uint32(cycles)
	if n > remaining {
		n = remaining
	}
	src, dst := m.dmaSrc(), m.dmaDst()
	for i := uint32(0); i < n; i++ {
		word, err := m.readWord(src)
		if err != nil {
			// A faulting source word advances the pointers as if the
			// transfer succeeded but writes nothing for this word.
			src += 4
			dst += 4
			continue
		}
		_ = m.writeWord(dst, word)
		src += 4
		dst += 4
	}
	m.setDMASrc(src)
	m.setDMADst(dst)
	remaining -= n
	m.setDMALen(remaining)
	if remaining == 0 {
		m.finishDMA()
	}
	return int(n)
}

func (m *Controller) finishDMA() {
	m.clearDMACtl()
	m.regs[offStatus] |= 0x01 // DMA done, no error
	if m.Host != nil {
		m.Host.PostIRQ(hostio.IRQIntent{CPU: hostio.Master, Level: 1, State: hostio.IRQRaised})
	}
}

func (m *Controller) readWord(addr uint32) (uint32, error) {
	buf, off, err := m.RouteBus(addr)
	if err != nil {
		return 0, err
	}
	if off+4 > uint32(buf.Len()) {
		return 0, hkerr.DmaError(m.Name, addr, "dma read out of bounds")
	}
	return uint32(buf.Get(4, off)), nil
}
func (m *Controller) writeWord(addr, v uint32) error {
	buf, off, err := m.RouteBus(addr)
	if err != nil {
		return err
	}
	if off+4 > uint32(buf.Len()) {
		return hkerr.DmaError(m.Name, addr, "dma write out of bounds")
	}
	buf.Put(4, off, uint64(v))
	return nil
}
