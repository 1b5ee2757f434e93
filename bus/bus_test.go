package bus

import "testing"

func newRAMMmap() (*Mmap, *Buffer) {
	buf := NewBuffer("ram", 0x1000)
	m := NewMmap("test", nil)
	m.Add(&Region{
		Lo: 0, Hi: 0xFFF, Mask: 0xFFF,
		Perm: PermRead | PermWrite, Sizes: Size8 | Size16 | Size32 | Size64,
		Buffer: buf,
	})
	return m, buf
}

func TestWriteReadRoundTrip(t *testing.T) {
	m, _ := newRAMMmap()
	for _, size := range []int{1, 2, 4, 8} {
		if err := m.Put(size, 0x10, 0x1122334455667788>>((8-uint(size))*8)); err != nil {
			t.Fatalf("put size %d: %v", size, err)
		}
		v, err := m.Get(size, 0x10)
		if err != nil {
			t.Fatalf("get size %d: %v", size, err)
		}
		want := uint64(0x1122334455667788) >> ((8 - uint(size)) * 8)
		if v != want {
			t.Fatalf("size %d: got %#x want %#x", size, v, want)
		}
	}
}

func TestLittleEndianByteOrder(t *testing.T) {
	m, _ := newRAMMmap()
	if err := m.Put(4, 0x20, 0x11223344); err != nil {
		t.Fatal(err)
	}
	want := []uint64{0x44, 0x33, 0x22, 0x11}
	for i, w := range want {
		v, err := m.Get(1, 0x20+uint32(i))
		if err != nil {
			t.Fatal(err)
		}
		if v != w {
			t.Fatalf("byte %d: got %#x want %#x", i, v, w)
		}
	}
}

func TestNoRegionIsBusError(t *testing.T) {
	m, _ := newRAMMmap()
	if _, err := m.Get(4, 0x8000_0000); err == nil {
		t.Fatal("expected bus error for unmapped address")
	}
}

func TestUnsupportedSize(t *testing.T) {
	m, _ := newRAMMmap()
	if _, err := m.Get(3, 0x10); err == nil {
		t.Fatal("expected bus error for unsupported size")
	}
}

func TestPermissionDenied(t *testing.T) {
	buf := NewBuffer("rom", 0x100)
	m := NewMmap("test", nil)
	m.Add(&Region{Lo: 0, Hi: 0xFF, Mask: 0xFF, Perm: PermRead, Sizes: Size32, Buffer: buf})
	if err := m.Put(4, 0x10, 1); err == nil {
		t.Fatal("expected bus error writing read-only region")
	}
}
