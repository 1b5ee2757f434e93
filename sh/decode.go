/*
 * valkyrie - SH opcode descriptor table builder
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

import "fmt"

// Handler executes one decoded instruction. It returns true if it already
// set PC to its final value (a control-transfer instruction); the step
// loop otherwise advances PC by 2 on return.
type Handler func(c *CPU, inst uint16) (jumped bool)

// Descriptor is one opcode family: match/mask select which 16-bit words
// dispatch to Handler. Bits clear in Mask are operand fields and are
// wildcarded when the table is built.
type Descriptor struct {
	Mask, Match uint16
	Name        string
	Handler     Handler
	SH4Only     bool
}

// DecodeTable is a prebuilt 65536-entry array keyed by the raw 16-bit
// instruction word, built once per variant at machine construction.
type DecodeTable struct {
	slots [65536]*Descriptor
}

var (
	tableSH2 *DecodeTable
	tableSH4 *DecodeTable
)

// TableFor returns the shared decode table for variant, building it (and
// caching it) on first use. SH-2 gets only the base descriptor list; SH-4
// gets the base list plus the SH-4 extension descriptors layered on top,
// applied in sequence so an SH-4 opcode can't shadow a base one.
func TableFor(variant Variant) (*DecodeTable, error) {
	switch variant {
	case VariantSH2:
		if tableSH2 == nil {
			t, err := build(baseDescriptors())
			if err != nil {
				return nil, err
			}
			tableSH2 = t
		}
		return tableSH2, nil
	case VariantSH4:
		if tableSH4 == nil {
			descs := append(append([]Descriptor{}, baseDescriptors()...), sh4Descriptors()...)
			t, err := build(descs)
			if err != nil {
				return nil, err
			}
			tableSH4 = t
		}
		return tableSH4, nil
	default:
		return nil, fmt.Errorf("sh: unknown variant %d", variant)
	}
}

// build expands every descriptor's wildcard bits and writes its handler
// into every matching slot. A slot written twice is a fatal build error
// (descriptor collision); no descriptor takes priority over another.
func build(descs []Descriptor) (*DecodeTable, error) {
	t := &DecodeTable{}
	for i := range descs {
		d := &descs[i]
		wildcard := ^d.Mask
		// Enumerate every value the wildcard bits can take.
		bits := wildcardBitPositions(wildcard)
		n := 1 << len(bits)
		for v := 0; v < n; v++ {
			slot := d.Match
			for b, pos := range bits {
				if v&(1<<b) != 0 {
					slot |= 1 << pos
				}
			}
			if t.slots[slot] != nil {
				return nil, fmt.Errorf("sh: opcode table collision at %#04x between %q and %q",
					slot, t.slots[slot].Name, d.Name)
			}
			t.slots[slot] = d
		}
	}
	return t, nil
}

func wildcardBitPositions(wildcard uint16) []int {
	var bits []int
	for pos := 0; pos < 16; pos++ {
		if wildcard&(1<<pos) != 0 {
			bits = append(bits, pos)
		}
	}
	return bits
}

// Lookup returns the descriptor for a raw instruction word, or nil if the
// slot was never populated (an invalid-instruction fault).
func (t *DecodeTable) Lookup(inst uint16) *Descriptor {
	return t.slots[inst]
}

// Operand field extraction helpers, shared by every handler.
func rn(inst uint16) int   { return int(inst>>8) & 0xF }
func rm(inst uint16) int   { return int(inst>>4) & 0xF }
func uimm8(inst uint16) uint32 { return uint32(inst & 0xFF) }
func simm8(inst uint16) int32  { return int32(int8(inst & 0xFF)) }
func simm12(inst uint16) int32 {
	v := inst & 0xFFF
	if v&0x800 != 0 {
		return int32(v) - 0x1000
	}
	return int32(v)
}
func disp4(inst uint16) uint32 { return uint32(inst & 0xF) }
func disp8(inst uint16) uint32 { return uint32(inst & 0xFF) }
