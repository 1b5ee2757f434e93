/*
 * valkyrie - Bit-pattern mini-DSL for opcode descriptors
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

// pat turns a 16-character template of '0'/'1' (fixed bits) and any other
// letter (operand field, wildcarded) into a Mask/Match pair, so opcode
// tables can be written the way the manual prints them instead of as
// hand-computed hex.
func pat(template string) (mask, match uint16) {
	if len(template) != 16 {
		panic(fmt.Sprintf("sh: bad opcode template %q", template))
	}
	for i := 0; i < 16; i++ {
		bit := uint16(1) << (15 - i)
		switch template[i] {
		case '0':
			mask |= bit
		case '1':
			mask |= bit
			match |= bit
		default:
			// operand field bit: left wildcarded (mask bit stays 0)
		}
	}
	return mask, match
}

// d builds a Descriptor from a template, name and handler.
func d(template, name string, h Handler) Descriptor {
	mask, match := pat(template)
	return Descriptor{Mask: mask, Match: match, Name: name, Handler: h}
}

// d4 is d for an SH-4-only opcode.
func d4(template, name string, h Handler) Descriptor {
	desc := d(template, name, h)
	desc.SH4Only = true
	return desc
}
