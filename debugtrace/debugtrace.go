/*
 * valkyrie - Per-component debug levels and instruction trace rings
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

package debugtrace

import (
	"fmt"
	"strings"
)

// Mask bits, one per traceable subsystem. Components check Enabled(Mask)
// before formatting a trace line so the hot path skips the fmt.Sprintf
// entirely when tracing is off.
const (
	Bus       = 1 << 0
	MemCtl    = 1 << 1
	SH        = 1 << 2
	GPU       = 1 << 3
	IDMA      = 1 << 4
	FBDMA     = 1 << 5
	IRQFabric = 1 << 6
	Machine   = 1 << 7
)

var active int

// SetMask replaces the active debug mask, e.g. parsed from "-d sh,gpu".
func SetMask(mask int) { active = mask }

// Enabled reports whether any bit of mask is currently active.
func Enabled(mask int) bool { return active&mask != 0 }

// ParseMask turns a comma-separated list of subsystem names into a mask.
func ParseMask(s string) int {
	names := map[string]int{
		"bus": Bus, "memctl": MemCtl, "sh": SH, "gpu": GPU,
		"idma": IDMA, "fbdma": FBDMA, "irqfabric": IRQFabric, "machine": Machine,
	}
	mask := 0
	for _, tok := range strings.Split(s, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if tok == "all" {
			return Bus | MemCtl | SH | GPU | IDMA | FBDMA | IRQFabric | Machine
		}
		mask |= names[tok]
	}
	return mask
}

// Entry is one slot of an instruction/opcode trace ring.
type Entry struct {
	PC    uint32
	Word  uint32
	Text  string
}

// Ring is a fixed-capacity circular trace buffer, one per CPU or per GPU
// command processor, dumped on a fatal fault to show recent history
// without unbounded memory growth.
type Ring struct {
	buf  []Entry
	next int
	n    int
}

// NewRing allocates a ring able to hold cap entries.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{buf: make([]Entry, capacity)}
}

// Push records one trace entry, overwriting the oldest once full.
func (r *Ring) Push(pc, word uint32, text string) {
	r.buf[r.next] = Entry{PC: pc, Word: word, Text: text}
	r.next = (r.next + 1) % len(r.buf)
	if r.n < len(r.buf) {
		r.n++
	}
}

// Dump renders the ring oldest-first as a multi-line string.
func (r *Ring) Dump() string {
	var b strings.Builder
	start := (r.next - r.n + len(r.buf)) % len(r.buf)
	for i := 0; i < r.n; i++ {
		e := r.buf[(start+i)%len(r.buf)]
		fmt.Fprintf(&b, "%08x: %08x  %s\n", e.PC, e.Word, e.Text)
	}
	return b.String()
}
