package gpu

import (
	"math"
	"testing"

	"github.com/valkyrie-emu/valkyrie/bus"
	"github.com/valkyrie-emu/valkyrie/renderer"
)

// trackingRenderer counts BeginMesh/EndMesh calls so dispatch tests can
// check the mesh-boundary rule without a real backend.
type trackingRenderer struct {
	renderer.NullRenderer
	begins, ends []uint32
	statics      []bool
}

func (r *trackingRenderer) BeginMesh(pc uint32, isStatic bool) {
	r.begins = append(r.begins, pc)
	r.statics = append(r.statics, isStatic)
}
func (r *trackingRenderer) EndMesh(pc uint32) { r.ends = append(r.ends, pc) }

func newTestCP(t *testing.T, r renderer.Renderer) *CP {
	t.Helper()
	cmdRAM := bus.NewBuffer("cmd_ram", 0x1000)
	slaveRAM := bus.NewBuffer("slave_ram", 0x1000)
	return NewCP(New(r), cmdRAM, slaveRAM, nil, nil)
}

func bits(f float32) uint32 { return math.Float32bits(f) }

func TestMaterialCommitRecallRoundTrip(t *testing.T) {
	cp := newTestCP(t, nil)
	if err := opMaterialColor(cp, []uint32{0, bits(3.5)}); err != nil {
		t.Fatalf("material color: %v", err)
	}
	if err := opMaterialCommit(cp, []uint32{5 << 16}); err != nil {
		t.Fatalf("material commit: %v", err)
	}
	cp.Material.Scratch = Material{}
	if err := opMaterialRecall(cp, []uint32{5 << 16}); err != nil {
		t.Fatalf("material recall: %v", err)
	}
	if cp.Material.Scratch.Color0[0] != 3.5 {
		t.Fatalf("recalled Color0[0] = %v, want 3.5", cp.Material.Scratch.Color0[0])
	}
}

func TestTexHeadCommitRecallRoundTrip(t *testing.T) {
	cp := newTestCP(t, nil)
	// format word: width=32 (index1<<16), height=64 (index2<<19), format=1
	w := uint32(1)<<16 | uint32(2)<<19 | uint32(1)<<26
	if err := opTexHeadFormat(cp, []uint32{w}); err != nil {
		t.Fatalf("texhead format: %v", err)
	}
	if err := opTexHeadCommit(cp, []uint32{9 << 16}); err != nil {
		t.Fatalf("texhead commit: %v", err)
	}
	cp.TexHead.Scratch = TexHead{}
	if err := opTexHeadRecall(cp, []uint32{9 << 16}); err != nil {
		t.Fatalf("texhead recall: %v", err)
	}
	if cp.TexHead.Scratch.Width != 32 || cp.TexHead.Scratch.Height != 64 {
		t.Fatalf("recalled dims = %dx%d, want 32x64", cp.TexHead.Scratch.Width, cp.TexHead.Scratch.Height)
	}
}

func TestLightCommitRecallRoundTrip(t *testing.T) {
	cp := newTestCP(t, nil)
	if err := opLightAtten(cp, []uint32{2 << 16, bits(1.5), bits(2.5)}); err != nil {
		t.Fatalf("light atten: %v", err)
	}
	if err := opLightCommit(cp, []uint32{3 << 16}); err != nil {
		t.Fatalf("light commit: %v", err)
	}
	cp.Light.Scratch = Light{}
	cp.Light.Recall(3)
	if cp.Light.Scratch.AttenType != 2 || cp.Light.Scratch.AttenP != 1.5 {
		t.Fatalf("recalled light = %+v, want AttenType=2 AttenP=1.5", cp.Light.Scratch)
	}
}

func TestLightsetCommitRecallRoundTrip(t *testing.T) {
	cp := newTestCP(t, nil)
	if err := opLightsetCommit(cp, []uint32{4 << 16, 0x11, 0x22, 0x33, 0x44}); err != nil {
		t.Fatalf("lightset commit: %v", err)
	}
	cp.Lightset.Scratch = Lightset{}
	if err := opLightsetRecall(cp, []uint32{4 << 16}); err != nil {
		t.Fatalf("lightset recall: %v", err)
	}
	want := [4]uint32{0x11, 0x22, 0x33, 0x44}
	if cp.Lightset.Scratch.Lights != want {
		t.Fatalf("recalled lights = %v, want %v", cp.Lightset.Scratch.Lights, want)
	}
}

func TestViewportCommitRecallRoundTrip(t *testing.T) {
	cp := newTestCP(t, nil)
	if err := opViewport(cp, []uint32{0, bits(-1), bits(1), bits(2)}); err != nil {
		t.Fatalf("viewport clip: %v", err)
	}
	if err := opViewportCommit(cp, []uint32{7 << 16}); err != nil {
		t.Fatalf("viewport commit: %v", err)
	}
	cp.Viewport.Scratch = Viewport{}
	if err := opViewportRecall(cp, []uint32{7 << 16}); err != nil {
		t.Fatalf("viewport recall: %v", err)
	}
	if !cp.Viewport.Scratch.HasClip || cp.Viewport.Scratch.T != 2 {
		t.Fatalf("recalled viewport = %+v, want HasClip=true T=2", cp.Viewport.Scratch)
	}
}

// TestObjectSetRecallReportsFalseOnlyOutOfRange checks ObjectSet.Recall
// directly. An in-bounds but never-committed slot still reports true (the
// index exists, it just holds a zero-valued entry) and yields a zeroed
// scratch; only an out-of-bounds index reports false. Whether a slot was
// ever actually set is its own Set field, which opViewportRecall checks
// before it recalls.
func TestObjectSetRecallReportsFalseOnlyOutOfRange(t *testing.T) {
	cp := newTestCP(t, nil)
	cp.Viewport.Scratch.HasClip = true // something to be clobbered

	if ok := cp.Viewport.Recall(4); !ok {
		t.Fatal("expected an in-bounds recall to report true even when never committed")
	}
	if cp.Viewport.Scratch.Set || cp.Viewport.Scratch.HasClip {
		t.Fatalf("expected a zeroed scratch for a never-committed slot, got %+v", cp.Viewport.Scratch)
	}

	if cp.Viewport.Recall(999) {
		t.Fatal("expected an out-of-bounds recall to report false")
	}
}

// TestViewportPushPopRestoresScratch checks that opViewportRecall's push
// sub-opcode (2) saves the current scratch and a later pop (4) restores
// it, even across an intervening recall that would otherwise clobber it.
func TestViewportPushPopRestoresScratch(t *testing.T) {
	cp := newTestCP(t, nil)
	if err := opViewportCommit(cp, []uint32{0}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	cp.Viewport.Scratch.T = 42
	cp.Viewport.Scratch.HasClip = true

	// sub-opcode 2: push then recall index 0 (committed above with T=0).
	if err := opViewportRecall(cp, []uint32{0<<16 | 2<<9}); err != nil {
		t.Fatalf("push+recall: %v", err)
	}
	if cp.Viewport.Scratch.T != 0 {
		t.Fatalf("recall after push did not clear scratch: T = %v", cp.Viewport.Scratch.T)
	}

	// sub-opcode 4: pop restores what was pushed.
	if err := opViewportRecall(cp, []uint32{4 << 9}); err != nil {
		t.Fatalf("pop: %v", err)
	}
	if cp.Viewport.Scratch.T != 42 || !cp.Viewport.Scratch.HasClip {
		t.Fatalf("pop did not restore pre-push scratch: got %+v", cp.Viewport.Scratch)
	}
}

func TestJumpDetectsSelfJump(t *testing.T) {
	cp := newTestCP(t, nil)
	cp.PC = 0x48000010
	err := opJump(cp, []uint32{0, 0x48000010})
	if err == nil {
		t.Fatal("expected self-jump error")
	}
}

func TestCallDetectsSelfJump(t *testing.T) {
	cp := newTestCP(t, nil)
	cp.PC = 0x48000010
	cp.SP[0] = 0x100
	err := opCall(cp, []uint32{0, 0x48000010})
	if err == nil {
		t.Fatal("expected self-jump error")
	}
}

// TestMeshBoundaryEmittedOncePerRun dispatches a run of vertex_static
// instructions (mesh begin, sustained) followed by a kill (mesh end),
// through the real fetch/dispatch loop, and checks BeginMesh/EndMesh are
// each emitted exactly once rather than per-instruction.
func TestMeshBoundaryEmittedOncePerRun(t *testing.T) {
	track := &trackingRenderer{}
	cp := newTestCP(t, track)
	cp.Running = true
	cp.PC = 0x48000000

	// Three back-to-back vertex_static instructions (opcode 0x120, 4
	// words/16 bytes each per its own size-log bits), then one kill
	// (opcode 0x1C2, 1 word/4 bytes).
	off := uint32(0)
	for i := 0; i < 3; i++ {
		cp.CmdRAM.Put(4, off+0, uint64(0x120))
		cp.CmdRAM.Put(4, off+4, uint64(0))
		cp.CmdRAM.Put(4, off+8, uint64(0))
		cp.CmdRAM.Put(4, off+12, uint64(0))
		off += 16
	}
	cp.CmdRAM.Put(4, off, uint64(0x1C2))

	for i := 0; i < 4; i++ {
		cp.Step()
	}

	if len(track.begins) != 1 {
		t.Fatalf("BeginMesh called %d times, want 1", len(track.begins))
	}
	if !track.statics[0] {
		t.Fatal("expected the static vertex run to report isStatic=true")
	}
	if len(track.ends) != 1 {
		t.Fatalf("EndMesh called %d times, want 1", len(track.ends))
	}
	if cp.Running {
		t.Fatal("expected kill to stop the CP")
	}
}

func TestResetScratchClearsModelviewStack(t *testing.T) {
	cp := newTestCP(t, nil)
	cp.Modelview.PushNew()
	cp.Modelview.PushNew()
	if len(cp.Modelview.Stack) != 3 {
		t.Fatalf("stack depth = %d, want 3", len(cp.Modelview.Stack))
	}
	cp.ResetScratch()
	if len(cp.Modelview.Stack) != 1 {
		t.Fatalf("stack depth after ResetScratch = %d, want 1", len(cp.Modelview.Stack))
	}
}
