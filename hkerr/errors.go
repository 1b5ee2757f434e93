/*
 * valkyrie - Typed error kinds for the core emulator
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

// Package hkerr defines the typed error kinds raised by the bus, CPU, GPU
// and DMA engines. Components return these instead of panicking on
// data-driven faults; programmer errors (invariant violations) still panic.
package hkerr

import "fmt"

// Kind identifies which of the documented fault categories an error belongs to.
type Kind int

const (
	KindBus             Kind = iota // No region, permission denied, or unsupported size.
	KindInvalidInstr                // Dispatch hit an unpopulated opcode slot or a privileged/FPU-disabled opcode.
	KindInvalidCpState               // Control flow in a delay slot, unaligned jump, odd FPU register pair.
	KindGpu                          // CP PC in unknown memory, unknown opcode, self-loop branch.
	KindIdma                         // Out-of-bounds slot or malformed texhead entry.
	KindDma                          // Unknown source or destination area.
	KindState                        // Savestate header mismatch or truncated payload.
)

func (k Kind) String() string {
	switch k {
	case KindBus:
		return "BusError"
	case KindInvalidInstr:
		return "InvalidInstruction"
	case KindInvalidCpState:
		return "InvalidCpState"
	case KindGpu:
		return "GpuError"
	case KindIdma:
		return "IdmaError"
	case KindDma:
		return "DmaError"
	case KindState:
		return "StateError"
	default:
		return "UnknownError"
	}
}

// Error is the concrete error type carried by every fault in the core.
// Component and Detail give enough context to log without re-deriving it
// from the caller's stack.
type Error struct {
	Kind      Kind
	Component string
	Addr      uint32
	Detail    string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s at %#08x", e.Kind, e.Component, e.Addr)
	}
	return fmt.Sprintf("%s: %s at %#08x: %s", e.Kind, e.Component, e.Addr, e.Detail)
}

// Is lets errors.Is(err, hkerr.Bus) etc. match on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newKind(kind Kind) *Error { return &Error{Kind: kind} }

// Sentinel values usable with errors.Is(err, hkerr.Bus).
var (
	Bus             = newKind(KindBus)
	InvalidInstr    = newKind(KindInvalidInstr)
	InvalidCpState  = newKind(KindInvalidCpState)
	Gpu             = newKind(KindGpu)
	Idma            = newKind(KindIdma)
	Dma             = newKind(KindDma)
	State           = newKind(KindState)
)

// BusError builds a KindBus error for the given component/address.
func BusError(component string, addr uint32, detail string) *Error {
	return &Error{Kind: KindBus, Component: component, Addr: addr, Detail: detail}
}

// InvalidInstruction builds a KindInvalidInstr error.
func InvalidInstruction(component string, addr uint32, detail string) *Error {
	return &Error{Kind: KindInvalidInstr, Component: component, Addr: addr, Detail: detail}
}

// InvalidCpStateError builds a KindInvalidCpState error.
func InvalidCpStateError(component string, addr uint32, detail string) *Error {
	return &Error{Kind: KindInvalidCpState, Component: component, Addr: addr, Detail: detail}
}

// GpuError builds a KindGpu error.
func GpuError(component string, addr uint32, detail string) *Error {
	return &Error{Kind: KindGpu, Component: component, Addr: addr, Detail: detail}
}

// IdmaError builds a KindIdma error.
func IdmaError(component string, addr uint32, detail string) *Error {
	return &Error{Kind: KindIdma, Component: component, Addr: addr, Detail: detail}
}

// DmaError builds a KindDma error.
func DmaError(component string, addr uint32, detail string) *Error {
	return &Error{Kind: KindDma, Component: component, Addr: addr, Detail: detail}
}

// StateError builds a KindState error.
func StateError(component string, detail string) *Error {
	return &Error{Kind: KindState, Component: component, Detail: detail}
}
