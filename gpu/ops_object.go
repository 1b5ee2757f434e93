/*
 * valkyrie - GPU object category opcodes: viewport, material, texhead, light
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

package gpu

import (
	"math"

	"github.com/valkyrie-emu/valkyrie/renderer"
)

func f32(bits uint32) float32 { return math.Float32frombits(bits) }

func subop(words []uint32) uint32 { return (words[0] >> 9) & 0x1F }
func index16(words []uint32) uint32 { return words[0] >> 16 }

// opViewport: opcode 021, sub-opcodes 0/2/4/6 (clip, offset, depth, queue).
func opViewport(cp *CP, words []uint32) error {
	v := &cp.Viewport.Scratch
	switch subop(words) {
	case 0:
		if len(words) >= 4 {
			v.L, v.R, v.B, v.T = f32(words[1]), f32(words[2]), f32(words[0]), f32(words[3])
		}
		v.HasClip = true
	case 2:
		if len(words) >= 3 {
			v.OffX, v.OffY = f32(words[1]), f32(words[2])
		}
		v.HasOffset = true
	case 4:
		if len(words) >= 3 {
			v.DepthMin, v.DepthMax = f32(words[1]), f32(words[2])
			v.DepthFunc = words[0] >> 16
		}
		v.HasDepth = true
	case 6:
		if len(words) >= 2 {
			v.QueueType = words[0] >> 16 & 0xF
			v.QueueEnabled = words[0]&(1<<20) != 0
			v.QueueDensity = f32(words[1])
		}
		v.HasQueue = true
	}
	return nil
}

func opAmbientColor(cp *CP, words []uint32) error {
	v := &cp.Viewport.Scratch
	if len(words) >= 2 {
		v.Ambient[0] = f32(words[1])
	}
	return nil
}

func opClearColor(cp *CP, words []uint32) error {
	if len(words) >= 1 {
		cp.Viewport.Scratch.ClearColor = words[0]
	}
	return nil
}

func opViewportCommit(cp *CP, words []uint32) error {
	cp.Viewport.Scratch.Set = true
	cp.Viewport.Commit(index16(words))
	return nil
}

func opViewportRecall(cp *CP, words []uint32) error {
	idx := index16(words)
	slot := cp.Viewport.Base + idx
	committed := int(slot) < len(cp.Viewport.Table) && cp.Viewport.Table[slot].Set
	switch subop(words) {
	case 0:
		if committed {
			cp.Viewport.Recall(idx)
		} else if cp.Log != nil {
			cp.Log.Warn("recalled viewport was not set", "index", idx)
		}
	case 2:
		cp.Viewport.Push()
		if committed {
			cp.Viewport.Recall(idx)
		} else if cp.Log != nil {
			cp.Log.Warn("recalled viewport was not set", "index", idx)
		}
	case 4:
		cp.Viewport.Pop()
	}
	return nil
}

// opModelview: opcode 161 sub-opcodes 1/5/9/B (row load, LOD probe,
// light direction/position).
func opModelview(cp *CP, words []uint32) error {
	s := subop(words)
	switch s {
	case 0:
		return opModelviewPush(cp, words)
	case 1:
		row := (words[0] >> 14) & 3
		m := cp.Modelview.Current()
		for c := 0; c < 4 && int(c)+1 < len(words); c++ {
			m[row][c] = f32(words[c+1])
		}
	case 2:
		return opLODProbe(cp, words)
	case 5:
		if len(words) >= 4 {
			cp.LOD.Value = float32(math.Sqrt(float64(f32(words[1])*f32(words[1]) +
				f32(words[2])*f32(words[2]) + f32(words[3])*f32(words[3]))))
		}
	case 9, 0xB:
		l := &cp.Light.Scratch
		if len(words) >= 4 {
			vec := [3]float32{f32(words[1]), f32(words[2]), f32(words[3])}
			if s == 9 {
				l.Direction, l.HasDir = vec, true
			} else {
				l.Position, l.HasPos = vec, true
			}
		}
	}
	return nil
}

// opModelviewPush: the 161/elem=0 push/reset instruction.
func opModelviewPush(cp *CP, words []uint32) error {
	if words[0]&(1<<31) != 0 {
		cp.Modelview.PushNew()
	} else {
		cp.Modelview.ResetToBase()
	}
	return nil
}

func opMaterialColor(cp *CP, words []uint32) error {
	m := &cp.Material.Scratch
	if len(words) < 2 {
		return nil
	}
	switch subop(words) {
	case 0:
		m.Color0 = [4]float32{f32(words[1]), 0, 0, 0}
	case 2:
		m.Specular[0] = f32(words[1])
		if len(words) >= 3 {
			m.ShininessExp = f32(words[2])
		}
	case 4:
		m.Color1 = [4]float32{f32(words[1]), 0, 0, 0}
	case 6:
		m.MaterialColor[0] = f32(words[1])
	}
	return nil
}

func opMaterialFlags(cp *CP, words []uint32) error {
	m := &cp.Material.Scratch
	w := words[0]
	switch subop(words) {
	case 0:
		m.ShadingMode = (w >> 10) & 3
		m.DepthBlendFog = w&(1<<12) != 0
	case 8:
		m.Textured = w&(1<<13) != 0
		m.Alpha = w&(1<<14) != 0
		m.Highlight = w&(1<<15) != 0
	case 0xA:
		m.BlendMode = (w >> 16) & 0xF
	case 0xC:
		m.AlphaThreshIndex = (w >> 16) & 0x3F
	}
	return nil
}

func opMaterialCommit(cp *CP, words []uint32) error {
	cp.Material.Scratch.Set = true
	cp.Material.Commit(index16(words))
	return nil
}

func opMaterialRecall(cp *CP, words []uint32) error {
	if words[0]&(1<<12) != 0 {
		cp.Material.SetBase(index16(words))
		return nil
	}
	cp.Material.Recall(index16(words))
	return nil
}

func opTexHeadBias(cp *CP, words []uint32) error { return nil }

func opTexHeadFormat(cp *CP, words []uint32) error {
	t := &cp.TexHead.Scratch
	w := words[0]
	t.Width = 16 << ((w >> 16) & 7)
	t.Height = 16 << ((w >> 19) & 7)
	format := (w >> 26) & 7
	if format < 5 {
		t.Format = renderer.TextureFormat(format)
	}
	t.WrapU = w&(1<<22) != 0
	t.WrapV = w&(1<<23) != 0
	t.RepeatU = w&(1<<24) != 0
	t.RepeatV = w&(1<<25) != 0
	return nil
}

func opTexHeadSlot(cp *CP, words []uint32) error {
	t := &cp.TexHead.Scratch
	w := words[0]
	t.SlotX = int(w>>16) & 0xFF
	t.SlotY = int(w>>24) & 0xFF
	t.Bank = int(w>>8) & 1
	return nil
}

func opTexHeadCommit(cp *CP, words []uint32) error {
	cp.TexHead.Scratch.Set = true
	cp.TexHead.Commit(index16(words))
	return nil
}

func opTexHeadRecall(cp *CP, words []uint32) error {
	if words[0]&(1<<12) != 0 {
		cp.TexHead.SetBase(index16(words))
		return nil
	}
	cp.TexHead.Recall(index16(words))
	return nil
}

func opLightAtten(cp *CP, words []uint32) error {
	l := &cp.Light.Scratch
	l.AttenType = int(words[0]>>16) & 3
	if len(words) >= 3 {
		l.AttenP, l.AttenQ = f32(words[1]), f32(words[2])
	}
	return nil
}

func opLightColor(cp *CP, words []uint32) error {
	l := &cp.Light.Scratch
	w := words[0]
	chans := [3]uint16{uint16(w >> 0 & 0x3FF), uint16(w >> 10 & 0x3FF), uint16(w >> 20 & 0x3FF)}
	switch subop(words) {
	case 0:
		l.Diffuse = chans
	case 4:
		l.Specular = chans
	}
	return nil
}

func opLightCommit(cp *CP, words []uint32) error {
	cp.Light.Scratch.Set = true
	cp.Light.Commit(index16(words))
	return nil
}

func opLightsetCommit(cp *CP, words []uint32) error {
	ls := &cp.Lightset.Scratch
	ls.Set = true
	for i := 0; i < 4 && i+1 < len(words); i++ {
		ls.Lights[i] = words[i+1]
	}
	cp.Lightset.Commit(index16(words))
	return nil
}

func opLightsetRecall(cp *CP, words []uint32) error {
	cp.Lightset.Recall(index16(words))
	cp.Lightset.Scratch.Enable = uint8(words[0]>>24) & 0xF
	return nil
}

func opAlphaThreshold(cp *CP, words []uint32) error {
	idx := index16(words) & 0x3F
	if len(words) >= 2 {
		cp.AlphaThresh[idx] = AlphaThreshold{Lo: uint8(words[1]), Hi: uint8(words[1] >> 8)}
	}
	return nil
}

func opLightRamp(cp *CP, words []uint32) error {
	if len(words) < 2 {
		return nil
	}
	idx := index16(words)
	row, col := int(idx>>5)&3, int(idx)&0x1F
	cp.LightRamp[row][col] = [2]uint16{uint16(words[1]), uint16(words[1] >> 16)}
	return nil
}

// opFBBlend: opcodes 181/781 both decode to the low-9-bit opcode 0x181;
// bits 9-10 (the part of the word outside the dispatch field) pick the
// blend unit.
func opFBBlend(cp *CP, words []uint32) error {
	unit := (words[0] >> 9) & 3
	if unit > 1 {
		unit = 1
	}
	cp.FBBlend[unit] = words[0]
	return nil
}

// opTexHead: opcode 0C1, sub-opcodes 0 (bias), 2 (format/wrap/dims), 4 (slot).
func opTexHead(cp *CP, words []uint32) error {
	switch subop(words) {
	case 0:
		return opTexHeadBias(cp, words)
	case 2:
		return opTexHeadFormat(cp, words)
	case 4:
		return opTexHeadSlot(cp, words)
	}
	return nil
}
