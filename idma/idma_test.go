package idma

import (
	"bytes"
	"testing"

	"github.com/valkyrie-emu/valkyrie/bus"
	"github.com/valkyrie-emu/valkyrie/irqfabric"
)

// TestSingleTextureEntryMatchesScenarioS5 runs one descriptor entry
// through Tick and checks the texel copy, register drain and done IRQ.
func TestSingleTextureEntryMatchesScenarioS5(t *testing.T) {
	cmdRAM := bus.NewBuffer("cmd_ram", 0x20000)
	slaveRAM := bus.NewBuffer("slave_ram", 0x1000)
	texRAM := bus.NewBuffer("tex_ram_0", 256*1024)
	fab := irqfabric.New(nil)
	e := New("idma.0", cmdRAM, slaveRAM, texRAM, fab, nil)

	const (
		entryOff = 0x1000
		srcOff   = 0x10000
		width    = 64
		height   = 64
	)
	packed := uint32(0x80) | uint32(0xC0)<<8 | uint32(2)<<16 | uint32(2)<<19
	cmdRAM.Put(4, entryOff, uint64(0x48000000|srcOff)) // bus_addr
	cmdRAM.Put(4, entryOff+4, uint64(width*height*2))  // size (informational)
	cmdRAM.Put(4, entryOff+8, uint64(packed))
	cmdRAM.Put(4, entryOff+12, uint64(0)) // bank 0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cmdRAM.Put(2, uint32(srcOff+(y*width+x)*2), uint64(y*width+x))
		}
	}

	e.Regs = Regs{Active: true, Count: 1, EntryPC: entryOff}
	e.Tick()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dstOff := uint32(y*2048 + x*2)
			got := texRAM.Get(2, dstOff)
			want := uint64(y*width + x)
			if got != want {
				t.Fatalf("texel (%d,%d) = %#x, want %#x", x, y, got, want)
			}
		}
	}
	if e.Regs.Active {
		t.Fatal("expected Active cleared after the one queued entry drains")
	}
	if e.Regs.Count != 0 {
		t.Fatalf("Count = %d, want 0", e.Regs.Count)
	}
	if fab.Status()&irqfabric.BitIDMADone == 0 {
		t.Fatal("expected IDMA-done bit set in fabric status")
	}
}

func TestTickIsNoopWhenInactive(t *testing.T) {
	cmdRAM := bus.NewBuffer("cmd_ram", 0x1000)
	slaveRAM := bus.NewBuffer("slave_ram", 0x1000)
	texRAM := bus.NewBuffer("tex_ram_0", 0x1000)
	e := New("idma.0", cmdRAM, slaveRAM, texRAM, nil, nil)
	e.Tick() // must not panic or touch Regs
	if e.Regs.Active || e.Regs.Count != 0 {
		t.Fatalf("expected untouched regs, got %+v", e.Regs)
	}
}

func TestSaveLoadStateRoundTrips(t *testing.T) {
	cmdRAM := bus.NewBuffer("cmd_ram", 0x1000)
	slaveRAM := bus.NewBuffer("slave_ram", 0x1000)
	texRAM := bus.NewBuffer("tex_ram_0", 0x1000)
	e := New("idma.0", cmdRAM, slaveRAM, texRAM, nil, nil)
	e.Regs = Regs{Active: true, Count: 7, EntryPC: 0x4242}

	var buf bytes.Buffer
	if err := e.SaveState(&buf); err != nil {
		t.Fatalf("save: %v", err)
	}

	e2 := New("idma.1", cmdRAM, slaveRAM, texRAM, nil, nil)
	if err := e2.LoadState(&buf); err != nil {
		t.Fatalf("load: %v", err)
	}
	if e2.Regs != e.Regs {
		t.Fatalf("loaded regs = %+v, want %+v", e2.Regs, e.Regs)
	}
}
