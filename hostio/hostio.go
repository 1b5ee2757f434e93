/*
 * valkyrie - Host-facing CPU hooks (Port A, IRQ line control)
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

// Package hostio defines the narrow surface machines with an external
// Port A (and similar board-level pins) expose to devices, and the
// typed IRQ-raise intents devices hand back to the scheduler instead of
// holding a back-pointer to the CPU that owns them — avoiding what would
// otherwise be a reference cycle between a device and its owning CPU.
package hostio

// CPUID distinguishes the two Hikaru SH CPUs for addressing IRQ intents
// and Port A hooks.
type CPUID int

const (
	Master CPUID = iota
	Slave
)

// IRQState is the value side of set_irq_state(cpu, level, state, vector).
type IRQState int

const (
	IRQCleared IRQState = iota
	IRQRaised
)

// IRQIntent is what a device hands the scheduler instead of calling the
// CPU directly: "raise/clear level on cpu with this exception vector".
type IRQIntent struct {
	CPU    CPUID
	Level  int
	State  IRQState
	Vector uint32
}

// Host is implemented by the machine/scheduler; devices that need to
// touch Port A or post an IRQ intent receive a Host instead of a pointer
// to the CPU or machine itself.
type Host interface {
	PortAGet(cpu CPUID) uint16
	PortAPut(cpu CPUID, value uint16)
	PostIRQ(intent IRQIntent)
}
