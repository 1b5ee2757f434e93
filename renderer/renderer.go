/*
 * valkyrie - Renderer-facing event interface
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

// Package renderer defines the stable event surface the GPU command
// processor, IDMA engine and scheduler push into. The GL-based renderer
// itself is out of scope for this core; anything satisfying Renderer can
// consume these events (a test double, a software rasterizer, a GL backend).
package renderer

// VertexMask selects which fields of a pushed vertex are valid in a given
// PushVertex call (the 0E8 texcoord-override opcode updates only TXC on
// up to three already-pushed vertices).
type VertexMask uint8

const (
	MaskPos VertexMask = 1 << 0
	MaskNrm VertexMask = 1 << 1
	MaskTxc VertexMask = 1 << 2
)

// Vertex is one entry of the assembly window or the output mesh buffer.
type Vertex struct {
	Pos      [3]float32
	Normal   [3]float32
	Color    [4]float32
	UV       [2]float32
	Info     uint32 // alpha, tricap, winding and pivot bits, per spec §3
}

// LayerDescriptor is one framebuffer 2D overlay rectangle.
type LayerDescriptor struct {
	Unit, Bank     int
	Enabled        bool
	X0, Y0         int
	X1, Y1         int
	Format         TextureFormat
}

// TextureFormat enumerates the texel formats the GPU object model knows.
type TextureFormat int

const (
	FormatABGR1555 TextureFormat = iota
	FormatABGR4444
	FormatABGR1111
	FormatAlpha8
	FormatABGR8888
)

// TexHead carries exactly the fields a renderer needs to decode/cache a
// texture. Texture decoding itself belongs to the renderer implementation,
// not this package; TexHead is the typed payload handed to it.
type TexHead struct {
	Bank        int
	SlotX, SlotY int
	Width, Height int
	Format      TextureFormat
	WrapU, WrapV   bool
	MirrorU, MirrorV bool
	Mipmap      bool
}

// Renderer is the stable consumer-facing interface. The core never
// assumes anything about the implementation beyond these calls.
type Renderer interface {
	BeginFrame()
	EndFrame()
	Reset()

	BeginMesh(pc uint32, isStatic bool)
	EndMesh(pc uint32)
	PushVertex(v Vertex, mask VertexMask)

	DrawLayer(l LayerDescriptor)

	InvalidateTextureCache(bank, slotX, slotY, w, h int)
	DecodeTexture(t TexHead) (handle uintptr)
}

// NullRenderer discards every event; useful for running the core headless
// (tests, the scheduler's own unit tests) without a real backend.
type NullRenderer struct{}

func (NullRenderer) BeginFrame()                                    {}
func (NullRenderer) EndFrame()                                      {}
func (NullRenderer) Reset()                                         {}
func (NullRenderer) BeginMesh(pc uint32, isStatic bool)              {}
func (NullRenderer) EndMesh(pc uint32)                               {}
func (NullRenderer) PushVertex(v Vertex, mask VertexMask)            {}
func (NullRenderer) DrawLayer(l LayerDescriptor)                     {}
func (NullRenderer) InvalidateTextureCache(bank, sx, sy, w, h int)   {}
func (NullRenderer) DecodeTexture(t TexHead) uintptr                 { return 0 }
