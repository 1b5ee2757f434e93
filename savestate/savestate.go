/*
 * valkyrie - Savestate file format
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

// Package savestate implements the persisted-state file format: a fixed
// 32-byte ASCII header followed by the concatenated
// payloads of every registered buffer then every registered device, in
// machine-construction order.
package savestate

import (
	"fmt"
	"io"

	"github.com/valkyrie-emu/valkyrie/hkerr"
)

const (
	Version    = 1
	headerSize = 32
)

func header() [headerSize]byte {
	var h [headerSize]byte
	s := fmt.Sprintf("valkyrie state %016x\n", Version)
	copy(h[:], s)
	return h
}

// Registrant is anything with state to persist: a Buffer or a device's
// register file. Save/Load stream directly rather than round-tripping
// through an intermediate []byte, so a large buffer's bytes never need
// a second copy in memory.
type Registrant interface {
	Name() string
	SaveState(w io.Writer) error
	LoadState(r io.Reader) error
}

// Save writes the header, then each registrant's SaveState output, in
// order, to w.
func Save(w io.Writer, regs []Registrant) error {
	h := header()
	if _, err := w.Write(h[:]); err != nil {
		return err
	}
	for _, r := range regs {
		if err := r.SaveState(w); err != nil {
			return fmt.Errorf("savestate: saving %s: %w", r.Name(), err)
		}
	}
	return nil
}

// Load verifies the header exactly and replays each registrant's payload
// in the same order Save wrote them. Any mismatch or truncation is a
// StateError; the caller is expected to fall back to a hard reset.
func Load(r io.Reader, regs []Registrant) error {
	want := header()
	var got [headerSize]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return hkerr.StateError("savestate", "truncated header")
	}
	if got != want {
		return hkerr.StateError("savestate", "header mismatch")
	}
	for _, reg := range regs {
		if err := reg.LoadState(r); err != nil {
			return fmt.Errorf("savestate: loading %s: %w", reg.Name(), err)
		}
	}
	return nil
}
