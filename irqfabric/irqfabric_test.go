package irqfabric

import (
	"bytes"
	"testing"

	"github.com/valkyrie-emu/valkyrie/hostio"
)

// fakeHost records PostIRQ calls and keeps a tiny Port A register per CPU.
type fakeHost struct {
	portA   [2]uint16
	intents []hostio.IRQIntent
}

func (h *fakeHost) PortAGet(cpu hostio.CPUID) uint16 { return h.portA[cpu] }
func (h *fakeHost) PortAPut(cpu hostio.CPUID, v uint16) { h.portA[cpu] = v }
func (h *fakeHost) PostIRQ(intent hostio.IRQIntent) {
	h.intents = append(h.intents, intent)
}

func TestRaiseSourceMirrorsAndPropagatesWhenMasked(t *testing.T) {
	host := &fakeHost{portA: [2]uint16{1 << 5, 0}}
	f := New(host)
	f.SetMask(Bit1AMirror)

	f.RaiseSource(Source08, BitIDMADone)

	if f.Mirror() != BitIDMADone {
		t.Fatalf("Mirror() = %#x, want %#x", f.Mirror(), BitIDMADone)
	}
	if f.Status()&Bit1AMirror == 0 {
		t.Fatal("expected Bit1AMirror set in status")
	}
	if len(host.intents) != 1 {
		t.Fatalf("PostIRQ called %d times, want 1", len(host.intents))
	}
	got := host.intents[0]
	if got.CPU != hostio.Master || got.Level != 2 || got.State != hostio.IRQRaised {
		t.Fatalf("intent = %+v, want {Master 2 IRQRaised}", got)
	}
	if host.portA[hostio.Master]&(1<<5) != 0 {
		t.Fatal("expected Port A bit 5 cleared on master")
	}
}

func TestRaiseWithoutMaskDoesNotPostIRQ(t *testing.T) {
	host := &fakeHost{}
	f := New(host)

	f.Raise(BitGpuDone)

	if f.Status()&BitGpuDone == 0 {
		t.Fatal("expected status bit set")
	}
	if len(host.intents) != 0 {
		t.Fatalf("PostIRQ called %d times, want 0 (mask is zero)", len(host.intents))
	}
}

func TestClearSourceDropsMirrorBit(t *testing.T) {
	f := New(nil)
	f.RaiseSource(Source0C, BitDMADone)
	if f.Mirror() == 0 {
		t.Fatal("expected nonzero mirror after raise")
	}
	f.ClearSource(Source0C, BitDMADone)
	if f.Mirror() != 0 {
		t.Fatalf("Mirror() = %#x, want 0 after clear", f.Mirror())
	}
	if f.Status()&Bit1AMirror != 0 {
		t.Fatal("expected Bit1AMirror cleared once all sources are clear")
	}
}

func TestNilHostNeverPanics(t *testing.T) {
	f := New(nil)
	f.SetMask(0xFF)
	f.RaiseSource(Source14, BitFrameDone) // must not panic despite Host == nil
	if f.Mirror() != BitFrameDone {
		t.Fatalf("Mirror() = %#x, want %#x", f.Mirror(), BitFrameDone)
	}
}

func TestSaveLoadStateRoundTrips(t *testing.T) {
	f := New(nil)
	f.SetMask(0x55)
	f.RaiseSource(Source08, 0x01)
	f.RaiseSource(Source10, 0x02)
	f.Raise(0x80)

	var buf bytes.Buffer
	if err := f.SaveState(&buf); err != nil {
		t.Fatalf("save: %v", err)
	}

	f2 := New(nil)
	if err := f2.LoadState(&buf); err != nil {
		t.Fatalf("load: %v", err)
	}
	if f2.Status() != f.Status() || f2.Mirror() != f.Mirror() {
		t.Fatalf("loaded fabric status/mirror = %#x/%#x, want %#x/%#x",
			f2.Status(), f2.Mirror(), f.Status(), f.Mirror())
	}
}

func TestLoadStateRejectsTruncatedPayload(t *testing.T) {
	f := New(nil)
	err := f.LoadState(bytes.NewReader([]byte{1, 2, 3}))
	if err == nil {
		t.Fatal("expected error loading a truncated payload")
	}
}
