/*
 * valkyrie - GPU vertex assembly and mesh emission
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

import "github.com/valkyrie-emu/valkyrie/renderer"

const tricapFull = 7

// pushVertex advances the three-element assembly ring (index 2 is most
// recent) and hands the vertex to the renderer. It does not assemble
// triangles itself, even when the vertex's tricap field reads 7.
func (cp *CP) pushVertex(v renderer.Vertex, mask renderer.VertexMask) {
	cp.vertRing[0] = cp.vertRing[1]
	cp.vertRing[1] = cp.vertRing[2]
	cp.vertRing[2] = v
	if cp.vertCount < 3 {
		cp.vertCount++
	}
	cp.Renderer.PushVertex(v, mask)

	tricap := (v.Info >> 0) & 7
	if tricap != tricapFull || cp.vertCount < 3 {
		return
	}
	winding := v.Info&(1<<8) != 0
	ppivot := v.Info&(1<<9) != 0
	_ = winding
	_ = ppivot
	// Triangle finalization itself (winding order, pivot substitution)
	// is the renderer's responsibility once it has all three vertices;
	// the CP's role ends at delivering them with the info bits intact.
}

// opVertexStatic: opcode family 12X, single static vertex with packed
// int16 position/normal fields.
func opVertexStatic(cp *CP, words []uint32) error {
	if len(words) < 2 {
		return nil
	}
	posX := int16(words[0] >> 16)
	posY := int16(words[1])
	posZ := int16(words[1] >> 16)
	prec := cp.MeshPrecision
	if prec == 0 {
		prec = 1
	}
	v := renderer.Vertex{
		Pos:  [3]float32{float32(posX) * prec, float32(posY) * prec, float32(posZ) * prec},
		Info: words[0] & 0xFFFF,
	}
	if len(words) >= 3 {
		nx := int32(words[2]<<22) >> 22
		ny := int32(words[2]<<12) >> 22
		nz := int32(words[2]<<2) >> 22
		const scale = 1.0 / 16384.0
		v.Normal = [3]float32{float32(nx) * scale, float32(ny) * scale, float32(nz) * scale}
	}
	cp.pushVertex(v, renderer.MaskPos|renderer.MaskNrm)
	return nil
}

// opVertexDynamicPos: opcode 1AC, dynamic position only.
func opVertexDynamicPos(cp *CP, words []uint32) error {
	if len(words) < 4 {
		return nil
	}
	v := renderer.Vertex{
		Pos:  [3]float32{f32(words[1]), f32(words[2]), f32(words[3])},
		Info: words[0] & 0xFFFF,
	}
	cp.pushVertex(v, renderer.MaskPos)
	return nil
}

// opVertexDynamicFull: opcode family 1BX, dynamic position + texcoord +
// normal.
func opVertexDynamicFull(cp *CP, words []uint32) error {
	if len(words) < 6 {
		return nil
	}
	u := int16(words[4])
	vv := int16(words[4] >> 16)
	vert := renderer.Vertex{
		Pos:    [3]float32{f32(words[1]), f32(words[2]), f32(words[3])},
		UV:     [2]float32{float32(u) / 16, float32(vv) / 16},
		Normal: [3]float32{f32(words[5]), 0, 0},
		Info:   words[0] & 0xFFFF,
	}
	cp.pushVertex(vert, renderer.MaskPos|renderer.MaskTxc|renderer.MaskNrm)
	return nil
}

// opTexCoordTriple: opcode 0E8, overwrites texcoords of the last three
// pushed vertices.
func opTexCoordTriple(cp *CP, words []uint32) error {
	for i := 0; i < 3 && i+1 < len(words); i++ {
		u := int16(words[i+1])
		v := int16(words[i+1] >> 16)
		cp.vertRing[i].UV = [2]float32{float32(u) / 16, float32(v) / 16}
		cp.Renderer.PushVertex(cp.vertRing[i], renderer.MaskTxc)
	}
	return nil
}

// opTexCoordSingle: opcode 158, overwrites texcoords of the last pushed vertex.
func opTexCoordSingle(cp *CP, words []uint32) error {
	if len(words) < 2 {
		return nil
	}
	u := int16(words[1])
	v := int16(words[1] >> 16)
	cp.vertRing[2].UV = [2]float32{float32(u) / 16, float32(v) / 16}
	cp.Renderer.PushVertex(cp.vertRing[2], renderer.MaskTxc)
	return nil
}
