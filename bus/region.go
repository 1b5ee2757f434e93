/*
 * valkyrie - Address region descriptors
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

package bus

// Permission/size bits for a Region.
const (
	PermRead  = 1 << 0
	PermWrite = 1 << 1

	Size8  = 1 << 0
	Size16 = 1 << 1
	Size32 = 1 << 2
	Size64 = 1 << 3
)

// Device is the MMIO side of a Region: a polymorphic entity that owns its
// own register state and is consulted on every access that lands in one
// of its regions.
type Device interface {
	Get(size int, addr uint32) (uint64, error)
	Put(size int, addr uint32, value uint64) error
}

// Region is an inclusive CPU-address window [Lo, Hi] decoded by the owning
// Mmap. Exactly one of {Buffer, NOP, Device} is active.
type Region struct {
	Lo, Hi   uint32
	Mask     uint32
	Perm     int // PermRead | PermWrite
	Sizes    int // bitset of Size8|Size16|Size32|Size64
	Buffer   *Buffer
	NOP      bool
	Device   Device
	BufOff   uint32 // constant offset added after masking, for sub-mapped buffers
	LogAcc   bool   // optional read/write logging
}

// Contains reports whether addr falls in [Lo, Hi].
func (r *Region) Contains(addr uint32) bool {
	return addr >= r.Lo && addr <= r.Hi
}

// AllowsSize reports whether size is in the region's legal-size bitset.
func (r *Region) AllowsSize(size int) bool {
	switch size {
	case 1:
		return r.Sizes&Size8 != 0
	case 2:
		return r.Sizes&Size16 != 0
	case 4:
		return r.Sizes&Size32 != 0
	case 8:
		return r.Sizes&Size64 != 0
	default:
		return false
	}
}

// Offset computes the buffer offset for a direct region.
func (r *Region) Offset(addr uint32) uint32 {
	return (addr & r.Mask) + r.BufOff
}
