/*
 * valkyrie - Machine: scheduler, bus wiring, Port A / IRQ host hooks
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

// Package machine wires the SH CPUs, memory controllers, GPU command
// processor, IDMA/FBDMA engines and interrupt fabric into one Hikaru
// board and drives the per-line cooperative scheduler.
package machine

import (
	"io"
	"log/slog"

	"github.com/valkyrie-emu/valkyrie/bus"
	"github.com/valkyrie-emu/valkyrie/fbdma"
	"github.com/valkyrie-emu/valkyrie/gpu"
	"github.com/valkyrie-emu/valkyrie/hostio"
	"github.com/valkyrie-emu/valkyrie/idma"
	"github.com/valkyrie-emu/valkyrie/irqfabric"
	"github.com/valkyrie-emu/valkyrie/memctl"
	"github.com/valkyrie-emu/valkyrie/renderer"
	"github.com/valkyrie-emu/valkyrie/savestate"
	"github.com/valkyrie-emu/valkyrie/sh"
)

const (
	Scanlines      = 480
	VBlankLines    = 64
	MasterClockHz  = 200_000_000
	FrameRateHz    = 60
)

func cyclesPerLine() int { return MasterClockHz / FrameRateHz / Scanlines }

// Buffer sizes. Production ROM boards vary; these are the sizes every
// retrieved game-list entry in the pack assumes.
const (
	SizeSlaveRAM  = 16 << 20
	SizeMasterRAM = 32 << 20
	SizeCmdRAM    = 1 << 20
	SizeTexRAM    = 8 << 20
	SizeFB        = 4 << 20
)

// Machine owns every Buffer and Device and implements hostio.Host so
// components can raise IRQs and touch Port A without a back-pointer to
// the CPU that owns them — it breaks what would otherwise be a reference
// cycle between a CPU and the devices it drives.
type Machine struct {
	Log *slog.Logger

	Master, Slave *sh.CPU
	MasterBus     *bus.Mmap
	SlaveBus      *bus.Mmap

	MasterMemCtl *memctl.Controller
	SlaveMemCtl  *memctl.Controller
	Fabric       *irqfabric.Fabric
	GPU          *gpu.CP
	IDMA         [2]*idma.Engine
	FBDMA        *fbdma.Engine

	SlaveRAM, MasterRAM, CmdRAM, FB *bus.Buffer
	EPROM, MaskROM                  *bus.Buffer
	TexRAM                          [2]*bus.Buffer

	portA [2]uint16

	// registrants in construction order: buffers first, then devices,
	// for savestate.
	registrants []savestate.Registrant
}

// Rom is the pair of combined section buffers a gamelist entry produces
// for the two ROM apertures the memory controller routes.
type Rom struct {
	EPROM   []byte
	MaskROM []byte
}

func New(log *slog.Logger, r renderer.Renderer, cfg memctl.RomConfig, rom Rom) *Machine {
	m := &Machine{Log: log}

	m.SlaveRAM = bus.NewBuffer("slave_ram", SizeSlaveRAM)
	m.MasterRAM = bus.NewBuffer("master_ram", SizeMasterRAM)
	m.CmdRAM = bus.NewBuffer("cmd_ram", SizeCmdRAM)
	m.FB = bus.NewBuffer("framebuffer", SizeFB)
	m.TexRAM[0] = bus.NewBuffer("tex_ram_0", SizeTexRAM)
	m.TexRAM[1] = bus.NewBuffer("tex_ram_1", SizeTexRAM)
	m.EPROM = bus.NewBuffer("eprom", len(rom.EPROM))
	m.MaskROM = bus.NewBuffer("maskrom", len(rom.MaskROM))
	copy(m.EPROM.Bytes(), rom.EPROM)
	copy(m.MaskROM.Bytes(), rom.MaskROM)

	m.Fabric = irqfabric.New(m)

	m.MasterMemCtl = memctl.New("memctl.master", hostio.Master, m, log, cfg)
	m.SlaveMemCtl = memctl.New("memctl.slave", hostio.Slave, m, log, cfg)
	m.MasterMemCtl.SlaveRAM, m.MasterMemCtl.MasterRAM = m.SlaveRAM, m.MasterRAM
	m.SlaveMemCtl.SlaveRAM, m.SlaveMemCtl.MasterRAM = m.SlaveRAM, m.MasterRAM
	m.MasterMemCtl.EPROM, m.MasterMemCtl.MaskROM = m.EPROM, m.MaskROM
	m.SlaveMemCtl.EPROM, m.SlaveMemCtl.MaskROM = m.EPROM, m.MaskROM

	m.IDMA[0] = idma.New("idma.0", m.CmdRAM, m.SlaveRAM, m.TexRAM[0], m.Fabric, log)
	m.IDMA[1] = idma.New("idma.1", m.CmdRAM, m.SlaveRAM, m.TexRAM[1], m.Fabric, log)
	m.FBDMA = fbdma.New(m.FB)

	gpuState := gpu.New(r)
	m.GPU = gpu.NewCP(gpuState, m.CmdRAM, m.SlaveRAM, m.Fabric, log)

	m.MasterBus = bus.NewMmap("master", log)
	m.SlaveBus = bus.NewMmap("slave", log)
	m.buildRegions()

	master, err := sh.New("master", sh.VariantSH4, hostio.Master, m.MasterBus, m, log)
	if err != nil {
		panic(err) // variant table build failure is a programmer error, not data-driven
	}
	slave, err := sh.New("slave", sh.VariantSH2, hostio.Slave, m.SlaveBus, m, log)
	if err != nil {
		panic(err)
	}
	m.Master, m.Slave = master, slave

	// Registration order fixes the savestate payload layout: buffers
	// first, then devices, in construction order. memctl.Controller
	// and idma.Engine expose their identity via a Name field rather than a
	// method, so they're wrapped rather than asked to satisfy Registrant
	// directly.
	m.registrants = []savestate.Registrant{
		m.SlaveRAM, m.MasterRAM, m.CmdRAM, m.FB, m.TexRAM[0], m.TexRAM[1], m.EPROM, m.MaskROM,
		namedRegistrant{m.MasterMemCtl.Name, m.MasterMemCtl.SaveState, m.MasterMemCtl.LoadState},
		namedRegistrant{m.SlaveMemCtl.Name, m.SlaveMemCtl.SaveState, m.SlaveMemCtl.LoadState},
		m.Fabric,
		namedRegistrant{m.IDMA[0].Name, m.IDMA[0].SaveState, m.IDMA[0].LoadState},
		namedRegistrant{m.IDMA[1].Name, m.IDMA[1].SaveState, m.IDMA[1].LoadState},
		m.FBDMA,
		m.GPU,
	}

	return m
}

// namedRegistrant adapts a component whose identity is a Name field
// (not a Name() method) to savestate.Registrant.
type namedRegistrant struct {
	name string
	save func(io.Writer) error
	load func(io.Reader) error
}

func (n namedRegistrant) Name() string                 { return n.name }
func (n namedRegistrant) SaveState(w io.Writer) error   { return n.save(w) }
func (n namedRegistrant) LoadState(r io.Reader) error   { return n.load(r) }

// SaveState writes m's full persisted state.
func (m *Machine) SaveState(w io.Writer) error {
	return savestate.Save(w, m.registrants)
}

// LoadState replaces m's full persisted state.
func (m *Machine) LoadState(r io.Reader) error {
	return savestate.Load(r, m.registrants)
}

// buildRegions maps RAM, CMDRAM, the memory-controller register window
// and the aperture-translated ranges into both CPU Mmaps. Aperture regions
// route through the owning controller as a bus.Device so Translate/
// RouteBus stay the single source of truth.
func (m *Machine) buildRegions() {
	rw := bus.PermRead | bus.PermWrite
	anySize := bus.Size8 | bus.Size16 | bus.Size32 | bus.Size64

	m.MasterBus.Add(&bus.Region{Lo: 0x70000000, Hi: 0x71FFFFFF, Mask: 0x01FFFFFF, Perm: rw, Sizes: anySize, Buffer: m.MasterRAM})
	m.MasterBus.Add(&bus.Region{Lo: 0x48000000, Hi: 0x480FFFFF, Mask: 0x000FFFFF, Perm: rw, Sizes: anySize, Buffer: m.CmdRAM})
	m.MasterBus.Add(&bus.Region{Lo: 0x19000000, Hi: 0x1900003F, Mask: 0x0000003F, Perm: rw, Sizes: anySize, Device: m.MasterMemCtl})
	m.MasterBus.Add(&bus.Region{Lo: 0x15000000, Hi: 0x150000FF, Mask: 0x000000FF, Perm: rw, Sizes: anySize, Device: reg15{m}})
	m.MasterBus.Add(&bus.Region{Lo: 0x1A000000, Hi: 0x1A0000FF, Mask: 0x000000FF, Perm: rw, Sizes: anySize, Device: reg1A{m}})

	m.SlaveBus.Add(&bus.Region{Lo: 0x40000000, Hi: 0x41FFFFFF, Mask: 0x01FFFFFF, Perm: rw, Sizes: anySize, Buffer: m.SlaveRAM})
	m.SlaveBus.Add(&bus.Region{Lo: 0x48000000, Hi: 0x480FFFFF, Mask: 0x000FFFFF, Perm: rw, Sizes: anySize, Buffer: m.CmdRAM})
	m.SlaveBus.Add(&bus.Region{Lo: 0x19000000, Hi: 0x1900003F, Mask: 0x0000003F, Perm: rw, Sizes: anySize, Device: m.SlaveMemCtl})

	for _, area := range apertureAreas {
		lo := uint32(area) << 24
		hi := lo + 0x00FFFFFF
		m.MasterBus.Add(&bus.Region{Lo: lo, Hi: hi, Mask: 0x00FFFFFF, Perm: rw, Sizes: anySize, Device: apertureWindow{ctl: m.MasterMemCtl, area: area}})
		m.SlaveBus.Add(&bus.Region{Lo: lo, Hi: hi, Mask: 0x00FFFFFF, Perm: rw, Sizes: anySize, Device: apertureWindow{ctl: m.SlaveMemCtl, area: area}})
	}
}

// hostio.Host implementation.

func (m *Machine) PortAGet(cpu hostio.CPUID) uint16 { return m.portA[cpu] }
func (m *Machine) PortAPut(cpu hostio.CPUID, v uint16) { m.portA[cpu] = v }

func (m *Machine) PostIRQ(intent hostio.IRQIntent) {
	cpu := m.Master
	if intent.CPU == hostio.Slave {
		cpu = m.Slave
	}
	cpu.PostIRQ(intent.Level, intent.State == hostio.IRQRaised, intent.Vector)
}

// RunFrame executes one full video frame: 480 active scanlines, then
// vblank-in, 64 vblank scanlines, then vblank-out.
func (m *Machine) RunFrame() {
	m.Renderer().BeginFrame()
	cpl := cyclesPerLine()
	for line := 0; line < Scanlines; line++ {
		m.hblankIn(line)
		m.runLine(cpl)
	}
	m.vblankIn()
	for line := 0; line < VBlankLines; line++ {
		m.hblankIn(Scanlines + line)
		m.runLine(cpl)
	}
	m.vblankOut()
	m.Renderer().EndFrame()
}

func (m *Machine) Renderer() renderer.Renderer { return m.GPU.Renderer }

// hblankIn is a scheduling hook for per-line device ticks that don't fit
// the round-robin step loop (currently a no-op placeholder; no modeled
// device needs a distinct hblank edge yet).
func (m *Machine) hblankIn(line int) {}

// runLine drives master CPU, slave CPU, the memory-controller DMAs and
// the GPU CP through exactly one line's worth of cycles. The order is
// fixed so cross-component effects within a line stay deterministic.
func (m *Machine) runLine(cycles int) {
	m.Master.SetCycles(cycles)
	for m.Master.RemainingCycles() > 0 && m.Master.RunState() == sh.StateRun {
		if _, err := m.Master.Step(); err != nil {
			break
		}
	}
	m.Slave.SetCycles(cycles)
	for m.Slave.RemainingCycles() > 0 && m.Slave.RunState() == sh.StateRun {
		if _, err := m.Slave.Step(); err != nil {
			break
		}
	}
	m.MasterMemCtl.Exec(cycles)
	m.SlaveMemCtl.Exec(cycles)
	m.IDMA[0].Tick()
	m.IDMA[1].Tick()
	m.FBDMA.Exec()
	for i := 0; i < cycles && m.GPU.Running; i++ {
		m.GPU.Step()
	}
}

// vblankIn clears CP scratch render-state objects that only persist for
// a single frame.
func (m *Machine) vblankIn() {
	m.GPU.ResetScratch()
}

// vblankOut raises the frame-done IRQ. It does not build layer
// descriptors for the renderer.
func (m *Machine) vblankOut() {
	m.Fabric.Raise(irqfabric.BitFrameDone)
}
