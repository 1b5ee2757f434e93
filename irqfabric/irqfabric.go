/*
 * valkyrie - Interrupt fabric: GPU/board IRQ status aggregation
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

// Package irqfabric implements the cross-component interrupt aggregation
// registers (reg15.88/reg1A.18 and their source bits) and propagates a
// raised, masked bit to the machine's master-CPU IRL2 line and Port A.
package irqfabric

import (
	"io"

	"github.com/valkyrie-emu/valkyrie/hkerr"
	"github.com/valkyrie-emu/valkyrie/hostio"
)

// Source identifies one of the four bits feeding reg1A.18.
type Source int

const (
	Source08 Source = iota
	Source0C
	Source10
	Source14
)

const (
	BitIDMADone  = 1 << 0
	BitDMADone   = 1 << 1
	BitFrameDone = 1 << 2
	BitGpuDone   = 1 << 3
	Bit1AMirror  = 1 << 7
)

// Fabric holds reg15.88 (status), reg15.84 (mask) and the four reg1A
// source registers plus their OR, reg1A.18.
type Fabric struct {
	Host hostio.Host

	status uint8 // reg15.88
	mask   uint8 // reg15.84
	src    [4]uint8
	mirror uint8 // reg1A.18
}

func New(host hostio.Host) *Fabric { return &Fabric{Host: host} }

func (f *Fabric) Reset() {
	f.status, f.mask, f.mirror = 0, 0, 0
	f.src = [4]uint8{}
}

// Raise sets bits of reg15.88 directly (GPU-local sources).
func (f *Fabric) Raise(bits uint8) {
	f.status |= bits
	f.recompute()
}

// RaiseSource ORs bits into one of the four reg1A source registers.
func (f *Fabric) RaiseSource(s Source, bits uint8) {
	f.src[s] |= bits
	f.recompute()
}

func (f *Fabric) ClearSource(s Source, bits uint8) {
	f.src[s] &^= bits
	f.recompute()
}

func (f *Fabric) SetMask(m uint8) { f.mask = m; f.recompute() }

func (f *Fabric) Status() uint8 { return f.status }
func (f *Fabric) Mirror() uint8 { return f.mirror }

func (f *Fabric) Name() string { return "irqfabric" }

// SaveState packs status, mask, the four source bytes and the mirror
// byte, in that field order.
func (f *Fabric) SaveState(w io.Writer) error {
	_, err := w.Write([]byte{f.status, f.mask, f.src[0], f.src[1], f.src[2], f.src[3], f.mirror})
	return err
}

func (f *Fabric) LoadState(r io.Reader) error {
	var b [7]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return hkerr.StateError("irqfabric", "truncated payload")
	}
	f.status, f.mask = b[0], b[1]
	f.src[0], f.src[1], f.src[2], f.src[3] = b[2], b[3], b[4], b[5]
	f.mirror = b[6]
	return nil
}

// recompute ORs the four source bytes into reg1A.18, mirrors "any bit
// set" into reg15.88 bit 7, and if the masked status is non-zero, raises
// master IRL2 and clears Port A bit 5.
func (f *Fabric) recompute() {
	var m uint8
	for _, s := range f.src {
		m |= s
	}
	f.mirror = m
	if m != 0 {
		f.status |= Bit1AMirror
	} else {
		f.status &^= Bit1AMirror
	}
	if f.status&f.mask != 0 && f.Host != nil {
		f.Host.PostIRQ(hostio.IRQIntent{CPU: hostio.Master, Level: 2, State: hostio.IRQRaised})
		pa := f.Host.PortAGet(hostio.Master)
		f.Host.PortAPut(hostio.Master, pa&^(1<<5))
	}
}
