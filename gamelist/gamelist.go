/*
 * valkyrie - Game list document parsing and section assembly
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

// Package gamelist parses the vk-games.json document and implements the
// section-combination rule that turns a ROM entry's
// component files into the flat section buffers the machine constructor
// wants. File I/O and board construction stay in the cmd package; this
// package only knows the document shape and the pure byte-combination
// functions, so it can be exercised with in-memory fixtures.
package gamelist

import (
	"encoding/json"
	"fmt"
	"io"
)

const SupportedVersion = 1

// CombineKind is how a section's component files combine into one buffer.
type CombineKind string

const (
	Alternative CombineKind = "alternative"
	Interleave  CombineKind = "interleave"
	Concatenate CombineKind = "concatenate"
)

// DataFile names one component file and its expected size in bytes.
type DataFile struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Section is one named buffer a machine's RomConfig addresses, built
// from one or more component files per Type.
type Section struct {
	Name string      `json:"name"`
	Type CombineKind `json:"type"`
	Endn string      `json:"endn"` // "little" or "big"; empty means native file order
	Data []DataFile  `json:"data"`
}

// Rom is one selectable game entry.
type Rom struct {
	Name     string    `json:"name"`
	Mach     string    `json:"mach"`
	Sections []Section `json:"sections"`
}

// Document is the top-level vk-games.json shape.
type Document struct {
	Version int   `json:"version"`
	Roms    []Rom `json:"roms"`
}

// Parse decodes and validates a vk-games.json document from r.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("gamelist: %w", err)
	}
	if doc.Version != SupportedVersion {
		return nil, fmt.Errorf("gamelist: unsupported version %d (want %d)", doc.Version, SupportedVersion)
	}
	return &doc, nil
}

// Find returns the Rom entry with the given name, or false.
func (d *Document) Find(name string) (Rom, bool) {
	for _, r := range d.Roms {
		if r.Name == name {
			return r, true
		}
	}
	return Rom{}, false
}

// FileSource resolves a DataFile's name to its raw bytes. The cmd package
// supplies an implementation that reads from the ROM directory; tests
// supply an in-memory map.
type FileSource func(name string) ([]byte, error)

// Combine builds one section's buffer from its component files according to
// the section's combination type: alternative uses the first file,
// interleave interleaves the files byte-by-byte, concatenate appends them
// in order. Every listed file must load, whatever the type.
func Combine(sec Section, load FileSource) ([]byte, error) {
	parts := make([][]byte, len(sec.Data))
	for i, d := range sec.Data {
		b, err := load(d.Name)
		if err != nil {
			return nil, fmt.Errorf("gamelist: section %q: %w", sec.Name, err)
		}
		if d.Size != 0 && len(b) != d.Size {
			return nil, fmt.Errorf("gamelist: section %q: file %q is %d bytes, want %d", sec.Name, d.Name, len(b), d.Size)
		}
		parts[i] = b
	}
	switch sec.Type {
	case Concatenate:
		return concatenate(parts), nil
	case Alternative:
		return alternative(parts)
	case Interleave:
		return interleave(parts), nil
	default:
		return nil, fmt.Errorf("gamelist: section %q: unknown combine type %q", sec.Name, sec.Type)
	}
}

// concatenate appends every part in order.
func concatenate(parts [][]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// alternative treats every part as an equally valid whole buffer
// (different dump sources for the same section); the first part wins.
func alternative(parts [][]byte) ([]byte, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("gamelist: alternative section has no data files")
	}
	return parts[0], nil
}

// interleave byte-interleaves equal-length parts: out[i*n+k] = parts[k][i].
func interleave(parts [][]byte) []byte {
	if len(parts) == 0 {
		return nil
	}
	n := len(parts)
	size := len(parts[0])
	for _, p := range parts {
		if len(p) < size {
			size = len(p)
		}
	}
	out := make([]byte, size*n)
	for i := 0; i < size; i++ {
		for k, p := range parts {
			out[i*n+k] = p[i]
		}
	}
	return out
}
