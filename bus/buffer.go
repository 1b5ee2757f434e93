/*
 * valkyrie - Low level memory buffers
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

// Package bus implements the Hikaru CPU address-decode layer: fixed-size
// byte Buffers, the Regions that map CPU address windows onto them or onto
// MMIO Devices, and the per-CPU Mmap that resolves an access to one of the
// two.
package bus

import (
	"encoding/binary"
	"io"
)

// Buffer is a heap-allocated byte array with little-endian accessors.
// Buffers are owned by the machine and borrowed by Regions and Devices;
// they are cleared on reset, not reallocated.
type Buffer struct {
	name string
	data []byte
}

// NewBuffer allocates a zeroed buffer of size bytes.
func NewBuffer(name string, size int) *Buffer {
	return &Buffer{name: name, data: make([]byte, size)}
}

// Name returns the buffer's registration name, used by savestate ordering.
func (b *Buffer) Name() string { return b.name }

// Len returns the buffer's size in bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Bytes exposes the raw backing slice, for DMA engines and savestate I/O.
func (b *Buffer) Bytes() []byte { return b.data }

// Clear zeroes the buffer, as happens on machine reset.
func (b *Buffer) Clear() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// Get reads size (1/2/4/8) little-endian bytes at offset off. The caller
// (Region) is responsible for bounds/permission checks; Get panics on an
// out-of-range offset, matching the invariant offset+size <= buffer.size.
func (b *Buffer) Get(size int, off uint32) uint64 {
	switch size {
	case 1:
		return uint64(b.data[off])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b.data[off:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b.data[off:]))
	case 8:
		return binary.LittleEndian.Uint64(b.data[off:])
	default:
		panic("bus: unsupported buffer access size")
	}
}

// Put writes size little-endian bytes of value at offset off.
func (b *Buffer) Put(size int, off uint32, value uint64) {
	switch size {
	case 1:
		b.data[off] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(b.data[off:], uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(b.data[off:], uint32(value))
	case 8:
		binary.LittleEndian.PutUint64(b.data[off:], value)
	default:
		panic("bus: unsupported buffer access size")
	}
}

// InBounds reports whether a size-byte access at off stays inside the buffer.
func (b *Buffer) InBounds(size int, off uint32) bool {
	return uint64(off)+uint64(size) <= uint64(len(b.data))
}

// SaveState writes the buffer's raw bytes, satisfying savestate.Registrant.
func (b *Buffer) SaveState(w io.Writer) error {
	_, err := w.Write(b.data)
	return err
}

// LoadState replaces the buffer's raw bytes in place.
func (b *Buffer) LoadState(r io.Reader) error {
	_, err := io.ReadFull(r, b.data)
	return err
}
