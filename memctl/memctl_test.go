package memctl

import (
	"bytes"
	"testing"

	"github.com/valkyrie-emu/valkyrie/bus"
	"github.com/valkyrie-emu/valkyrie/hostio"
)

func TestTranslateUsesBankRegister(t *testing.T) {
	m := New("memctl.test", hostio.Master, nil, nil, RomConfig{})
	if err := m.Put(1, offBankBase+0x02, 0x90); err != nil {
		t.Fatalf("bank write: %v", err)
	}
	got := m.Translate(0x02, 0x1234)
	want := uint32(0x90)<<24 | 0x1234
	if got != want {
		t.Fatalf("Translate = %#x, want %#x", got, want)
	}
}

func TestRegisterAccessOutOfRangeErrors(t *testing.T) {
	m := New("memctl.test", hostio.Master, nil, nil, RomConfig{})
	if _, err := m.Get(4, regSize-1); err == nil {
		t.Fatal("expected error reading past register file")
	}
	if err := m.Put(4, regSize-1, 0); err == nil {
		t.Fatal("expected error writing past register file")
	}
}

func TestStatusWriteAndsErrorBits(t *testing.T) {
	m := New("memctl.test", hostio.Master, nil, nil, RomConfig{})
	m.regs[offStatus] = 0xFF // latched error bits; a CPU write cannot set them
	if err := m.Put(1, offStatus, 0xFF); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := m.Put(1, offStatus, 0x0F); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, _ := m.Get(1, offStatus)
	if got != 0x0F {
		t.Fatalf("status = %#x, want 0x0f (0xff & 0x0f)", got)
	}
}

type fakeHost struct {
	intents []hostio.IRQIntent
}

func (h *fakeHost) PortAGet(hostio.CPUID) uint16        { return 0 }
func (h *fakeHost) PortAPut(hostio.CPUID, uint16)       {}
func (h *fakeHost) PostIRQ(intent hostio.IRQIntent)     { h.intents = append(h.intents, intent) }

func TestExecDrainsDMAAndPostsDone(t *testing.T) {
	host := &fakeHost{}
	m := New("memctl.test", hostio.Master, host, nil, RomConfig{})
	slave := bus.NewBuffer("slave_ram", 0x1000)
	master := bus.NewBuffer("master_ram", 0x1000)
	m.SlaveRAM = slave
	m.MasterRAM = master

	slave.Put(4, 0, 0xDEADBEEF)

	m.Put(4, offDMASrc, uint64(0x40000000))
	m.Put(4, offDMADst, uint64(0x70000000))
	m.Put(4, offDMALen, uint64(1)) // 1 word; ctl bit 0 set below
	m.Put(1, offDMALen+3, 1)

	n := m.Exec(10)
	if n != 1 {
		t.Fatalf("Exec transferred %d words, want 1", n)
	}
	if got := master.Get(4, 0); got != 0xDEADBEEF {
		t.Fatalf("dst word = %#x, want 0xdeadbeef", got)
	}
	if m.dmaCtl()&1 != 0 {
		t.Fatal("expected ctl bit cleared after completion")
	}
	if len(host.intents) != 1 {
		t.Fatalf("PostIRQ called %d times, want 1", len(host.intents))
	}
	if host.intents[0].CPU != hostio.Master || host.intents[0].Level != 1 {
		t.Fatalf("intent = %+v, want {Master 1 ...}", host.intents[0])
	}
}

func TestSaveLoadStateRoundTrips(t *testing.T) {
	m := New("memctl.test", hostio.Master, nil, nil, RomConfig{})
	m.Put(1, offBankBase+0x02, 0x42)

	var buf bytes.Buffer
	if err := m.SaveState(&buf); err != nil {
		t.Fatalf("save: %v", err)
	}

	m2 := New("memctl.test2", hostio.Master, nil, nil, RomConfig{})
	if err := m2.LoadState(&buf); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, _ := m2.Get(1, offBankBase+0x02); got != 0x42 {
		t.Fatalf("loaded bank register = %#x, want 0x42", got)
	}
}

func TestLoadStateRejectsTruncatedPayload(t *testing.T) {
	m := New("memctl.test", hostio.Master, nil, nil, RomConfig{})
	err := m.LoadState(bytes.NewReader([]byte{1, 2, 3}))
	if err == nil {
		t.Fatal("expected error loading a truncated payload")
	}
}
