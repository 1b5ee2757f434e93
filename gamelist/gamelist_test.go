package gamelist

import (
	"strings"
	"testing"
)

const fixture = `{
  "version": 1,
  "roms": [
    {
      "name": "demo",
      "mach": "hikaru",
      "sections": [
        {"name": "eprom", "type": "concatenate", "endn": "little",
         "data": [{"name": "ic1.bin", "size": 4}, {"name": "ic2.bin", "size": 4}]},
        {"name": "maskrom", "type": "alternative", "endn": "little",
         "data": [{"name": "alt1.bin", "size": 2}]},
        {"name": "slave_ram_init", "type": "interleave", "endn": "little",
         "data": [{"name": "even.bin", "size": 2}, {"name": "odd.bin", "size": 2}]}
      ]
    }
  ]
}`

func TestParseRejectsWrongVersion(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"version":2,"roms":[]}`))
	if err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestParseAndFind(t *testing.T) {
	doc, err := Parse(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rom, ok := doc.Find("demo")
	if !ok {
		t.Fatal("expected to find rom \"demo\"")
	}
	if len(rom.Sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(rom.Sections))
	}
}

func TestCombineConcatenate(t *testing.T) {
	doc, _ := Parse(strings.NewReader(fixture))
	rom, _ := doc.Find("demo")
	files := map[string][]byte{
		"ic1.bin": {1, 2, 3, 4},
		"ic2.bin": {5, 6, 7, 8},
	}
	src := func(name string) ([]byte, error) { return files[name], nil }
	out, err := Combine(rom.Sections[0], src)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if string(out) != string(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
}

func TestCombineAlternative(t *testing.T) {
	doc, _ := Parse(strings.NewReader(fixture))
	rom, _ := doc.Find("demo")
	files := map[string][]byte{"alt1.bin": {0xAA, 0xBB}}
	src := func(name string) ([]byte, error) { return files[name], nil }
	out, err := Combine(rom.Sections[1], src)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if len(out) != 2 || out[0] != 0xAA {
		t.Fatalf("got %v", out)
	}
}

func TestCombineInterleave(t *testing.T) {
	doc, _ := Parse(strings.NewReader(fixture))
	rom, _ := doc.Find("demo")
	files := map[string][]byte{
		"even.bin": {0x01, 0x03},
		"odd.bin":  {0x02, 0x04},
	}
	src := func(name string) ([]byte, error) { return files[name], nil }
	out, err := Combine(rom.Sections[2], src)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	want := []byte{0x01, 0x02, 0x03, 0x04}
	if string(out) != string(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
}

func TestCombineSizeMismatch(t *testing.T) {
	doc, _ := Parse(strings.NewReader(fixture))
	rom, _ := doc.Find("demo")
	files := map[string][]byte{
		"ic1.bin": {1, 2, 3}, // wrong size, declared 4
		"ic2.bin": {5, 6, 7, 8},
	}
	src := func(name string) ([]byte, error) { return files[name], nil }
	if _, err := Combine(rom.Sections[0], src); err == nil {
		t.Fatal("expected size mismatch error")
	}
}
