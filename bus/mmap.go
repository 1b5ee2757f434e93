/*
 * valkyrie - Per-CPU region table and bus access entry points
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

import (
	"log/slog"

	"github.com/valkyrie-emu/valkyrie/hkerr"
)

// Mmap is an ordered collection of Regions belonging to one CPU. Lookup is
// linear, first match on (addr in [Lo,Hi]) and the requested permission
// bit. Two Mmaps exist per machine (master, slave) and may share the same
// underlying Buffers for RAM areas.
type Mmap struct {
	name    string
	regions []*Region
	log     *slog.Logger
}

// NewMmap creates an empty region table, name is used only for logging.
func NewMmap(name string, log *slog.Logger) *Mmap {
	return &Mmap{name: name, log: log}
}

// Add appends a region to the table; regions are matched in the order added.
func (m *Mmap) Add(r *Region) { m.regions = append(m.regions, r) }

func (m *Mmap) find(addr uint32, perm int) *Region {
	for _, r := range m.regions {
		if r.Contains(addr) && r.Perm&perm != 0 {
			return r
		}
	}
	return nil
}

// Get performs a CPU read of size bytes at addr, decoding through the
// region table. BusError covers NoRegion/PermissionDenied/UnsupportedSize;
// a Device failure is surfaced as-is (already a *hkerr.Error).
func (m *Mmap) Get(size int, addr uint32) (uint64, error) {
	if size != 1 && size != 2 && size != 4 && size != 8 {
		return 0, hkerr.BusError(m.name, addr, "unsupported access size")
	}
	r := m.find(addr, PermRead)
	if r == nil {
		return 0, hkerr.BusError(m.name, addr, "no readable region")
	}
	if !r.AllowsSize(size) {
		return 0, hkerr.BusError(m.name, addr, "unsupported size for region")
	}
	switch {
	case r.NOP:
		return 0, nil
	case r.Device != nil:
		v, err := r.Device.Get(size, r.Offset(addr))
		if err != nil {
			return 0, err
		}
		if r.LogAcc && m.log != nil {
			m.log.Debug("mmio read", "mmap", m.name, "addr", addr, "size", size, "value", v)
		}
		return v, nil
	default:
		off := r.Offset(addr)
		if !r.Buffer.InBounds(size, off) {
			return 0, hkerr.BusError(m.name, addr, "buffer overrun")
		}
		return r.Buffer.Get(size, off), nil
	}
}

// Put performs a CPU write of size bytes at addr.
func (m *Mmap) Put(size int, addr uint32, value uint64) error {
	if size != 1 && size != 2 && size != 4 && size != 8 {
		return hkerr.BusError(m.name, addr, "unsupported access size")
	}
	r := m.find(addr, PermWrite)
	if r == nil {
		return hkerr.BusError(m.name, addr, "no writable region")
	}
	if !r.AllowsSize(size) {
		return hkerr.BusError(m.name, addr, "unsupported size for region")
	}
	switch {
	case r.NOP:
		return nil
	case r.Device != nil:
		if r.LogAcc && m.log != nil {
			m.log.Debug("mmio write", "mmap", m.name, "addr", addr, "size", size, "value", value)
		}
		return r.Device.Put(size, r.Offset(addr), value)
	default:
		off := r.Offset(addr)
		if !r.Buffer.InBounds(size, off) {
			return hkerr.BusError(m.name, addr, "buffer overrun")
		}
		r.Buffer.Put(size, off, value)
		return nil
	}
}
