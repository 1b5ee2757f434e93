/*
 * valkyrie - GPU command processor object model
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

// Package gpu implements the Hikaru GPU command processor: a display-list
// interpreter that walks 32-bit command words from CMDRAM or slave RAM,
// mutating scratch/table render-state objects and emitting vertices and
// mesh boundaries to a renderer.Renderer.
package gpu

import "github.com/valkyrie-emu/valkyrie/renderer"

const (
	NumViewports      = 8
	NumModelviewDepth = 256
	NumMaterials      = 16384
	NumTexheads       = 16384
	NumLights         = 1024
	NumLightsets      = 256
	NumAlphaThresh    = 64
	NumLightRampRows  = 4
	NumLightRampCols  = 32
	ModelviewStackCap = NumModelviewDepth
)

// Viewport is scratch/table object category "viewport".
type Viewport struct {
	Set bool

	L, R, B, T, N, F float32
	OffX, OffY       float32
	DepthMin, DepthMax float32
	DepthFunc        uint32
	QueueType        uint32
	QueueEnabled     bool
	QueueDensity     float32
	QueueBias        float32
	QueueMask        uint32
	Ambient          [3]float32
	ClearColor       uint32

	HasClip, HasOffset, HasDepth, HasQueue bool
}

// Material is scratch/table object category "material".
type Material struct {
	Set bool

	Color0, Color1   [4]float32
	Specular         [3]float32
	ShininessExp     float32
	MaterialColor    [3]float32
	ShadingMode      uint32 // unlit, gouraud, flat
	DepthBlendFog    bool
	Textured         bool
	Alpha            bool
	Highlight        bool
	BlendMode        uint32
	AlphaThreshIndex uint32
}

const (
	ShadeUnlit = iota
	ShadeGouraud
	ShadeFlat
)

// TexHead is scratch/table object category "texhead".
type TexHead struct {
	Set bool

	Bank   int
	SlotX, SlotY int
	Width, Height int
	Format renderer.TextureFormat
	WrapU, WrapV   bool
	RepeatU, RepeatV bool
	MirrorU, MirrorV bool
	Mipmap bool
	BusAddr uint32
}

// Light is scratch/table object category "light".
type Light struct {
	Set bool

	AttenType int // 0..3
	AttenP, AttenQ float32
	Position  [3]float32
	HasPos    bool
	Direction [3]float32
	HasDir    bool
	Diffuse   [3]uint16 // 10 bits/channel
	Specular  [3]uint16
}

// Lightset groups four lights with a per-light enable mask.
type Lightset struct {
	Set bool

	Lights [4]uint32
	Enable uint8 // 4 bits
}

// AlphaThreshold is the lo/hi 8-bit pair table.
type AlphaThreshold struct {
	Lo, Hi uint8
}

// ObjectSet is the generic {table, scratch, base, stack} shape shared by
// the indexed GPU object categories (viewport, material, texhead, light,
// lightset; modelview is a ModelviewStack instead): a scratch register
// written by the CP's SET commands, committed into an indexed table by a
// COMMIT command, loaded back by RECALL, and optionally pushed/popped on a
// private stack.
type ObjectSet[T any] struct {
	Table  []T
	Scratch T
	Base   uint32
	PushStack  []T
}

func newObjectSet[T any](n int) ObjectSet[T] {
	return ObjectSet[T]{Table: make([]T, n)}
}

// Commit copies Scratch into Table[Base+index].
func (o *ObjectSet[T]) Commit(index uint32) {
	i := o.Base + index
	if int(i) >= len(o.Table) {
		return
	}
	o.Table[i] = o.Scratch
}

// Recall loads Table[Base+index] into Scratch and returns true. An
// out-of-range index zeroes Scratch and returns false. An in-range slot
// that was never committed loads its zero value and still returns true;
// whether a slot was committed is its entry's own Set field.
func (o *ObjectSet[T]) Recall(index uint32) bool {
	i := o.Base + index
	if int(i) >= len(o.Table) {
		var zero T
		o.Scratch = zero
		return false
	}
	o.Scratch = o.Table[i]
	return true
}

// SetBase points Base at index without touching Scratch.
func (o *ObjectSet[T]) SetBase(index uint32) { o.Base = index }

// Push saves Scratch onto the object's private stack.
func (o *ObjectSet[T]) Push() { o.PushStack = append(o.PushStack, o.Scratch) }

// Pop restores Scratch from the object's private stack.
func (o *ObjectSet[T]) Pop() bool {
	if len(o.PushStack) == 0 {
		return false
	}
	n := len(o.PushStack) - 1
	o.Scratch = o.PushStack[n]
	o.PushStack = o.PushStack[:n]
	return true
}

// Matrix4 is a row-major 4x4 transform.
type Matrix4 [4][4]float32

func identity4() Matrix4 {
	var m Matrix4
	for i := 0; i < 4; i++ {
		m[i][i] = 1
	}
	return m
}

// ModelviewStack is the modelview object: a stack of 4x4 matrices plus a
// "total" count used to request instanced drawing.
type ModelviewStack struct {
	Stack []Matrix4
	Total int
}

func newModelviewStack() ModelviewStack {
	return ModelviewStack{Stack: []Matrix4{identity4()}}
}

func (m *ModelviewStack) Current() *Matrix4 { return &m.Stack[len(m.Stack)-1] }

// PushNew advances stack depth by duplicating the current top.
func (m *ModelviewStack) PushNew() {
	if len(m.Stack) >= ModelviewStackCap {
		return
	}
	top := *m.Current()
	m.Stack = append(m.Stack, top)
}

// ResetToBase resets stack depth to 1, recording the previous depth in
// Total so the renderer can draw the pushed matrices as instances.
func (m *ModelviewStack) ResetToBase() {
	m.Total = len(m.Stack)
	m.Stack = m.Stack[:1]
}

// LODState tracks the GPU's level-of-detail branch condition inputs.
type LODState struct {
	Value    float32
	BranchID uint32
	Cond     bool
}

// State is the complete CP execution state: program counter, call
// stack pointers, run flag, current draw attributes and object tables.
type State struct {
	PC        uint32
	SP        [2]uint32
	Running   bool
	PolyType  uint32
	PolyAlpha float32
	MeshPrecision float32 // 1/(2^k)
	LOD       LODState
	InMesh    bool
	FrameParity int

	Viewport ObjectSet[Viewport]
	Modelview ModelviewStack
	Material ObjectSet[Material]
	TexHead  ObjectSet[TexHead]
	Light    ObjectSet[Light]
	Lightset ObjectSet[Lightset]

	AlphaThresh [NumAlphaThresh]AlphaThreshold
	LightRamp   [NumLightRampRows][NumLightRampCols][2]uint16

	FBBlend [2]uint32 // 181/781 raw config words

	vertRing  [3]renderer.Vertex
	vertCount int

	Renderer renderer.Renderer
}

// New builds a CP with every object table allocated to its documented size.
func New(r renderer.Renderer) *State {
	if r == nil {
		r = renderer.NullRenderer{}
	}
	return &State{
		Viewport: newObjectSet[Viewport](NumViewports),
		Modelview: newModelviewStack(),
		Material: newObjectSet[Material](NumMaterials),
		TexHead:  newObjectSet[TexHead](NumTexheads),
		Light:    newObjectSet[Light](NumLights),
		Lightset: newObjectSet[Lightset](NumLightsets),
		Renderer: r,
	}
}

// ResetScratch clears every scratch object, as happens at vblank-in.
func (s *State) ResetScratch() {
	s.Viewport.Scratch = Viewport{}
	s.Material.Scratch = Material{}
	s.TexHead.Scratch = TexHead{}
	s.Light.Scratch = Light{}
	s.Lightset.Scratch = Lightset{}
	s.Modelview = newModelviewStack()
}
