/*
 * valkyrie - GPU command processor savestate payload
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
	"encoding/json"
	"io"

	"github.com/valkyrie-emu/valkyrie/hkerr"
)

// snapshot mirrors State minus the Renderer handle, which is a live
// connection supplied at New() time rather than persisted state.
type snapshot struct {
	PC            uint32
	SP            [2]uint32
	Running       bool
	PolyType      uint32
	PolyAlpha     float32
	MeshPrecision float32
	LOD           LODState
	InMesh        bool
	FrameParity   int

	Viewport  ObjectSet[Viewport]
	Modelview ModelviewStack
	Material  ObjectSet[Material]
	TexHead   ObjectSet[TexHead]
	Light     ObjectSet[Light]
	Lightset  ObjectSet[Lightset]

	AlphaThresh [NumAlphaThresh]AlphaThreshold
	LightRamp   [NumLightRampRows][NumLightRampCols][2]uint16

	FBBlend [2]uint32
}

func (cp *CP) Name() string { return "gpu" }

// length-prefixed: a uint32 LE byte count, then the JSON document. The
// nested ObjectSet/stack shape has no fixed-width layout the way the
// board's register-file devices do, so this is the one component that
// reaches for encoding/json rather than a packed binary form.

func (cp *CP) SaveState(w io.Writer) error {
	s := snapshot{
		PC: cp.PC, SP: cp.SP, Running: cp.Running,
		PolyType: cp.PolyType, PolyAlpha: cp.PolyAlpha,
		MeshPrecision: cp.MeshPrecision, LOD: cp.LOD,
		InMesh: cp.InMesh, FrameParity: cp.FrameParity,
		Viewport: cp.Viewport, Modelview: cp.Modelview,
		Material: cp.Material, TexHead: cp.TexHead,
		Light: cp.Light, Lightset: cp.Lightset,
		AlphaThresh: cp.AlphaThresh, LightRamp: cp.LightRamp,
		FBBlend: cp.FBBlend,
	}
	b, err := json.Marshal(s)
	if err != nil {
		panic("gpu: savestate snapshot does not marshal: " + err.Error())
	}
	var n [4]byte
	n[0], n[1], n[2], n[3] = byte(len(b)), byte(len(b)>>8), byte(len(b)>>16), byte(len(b)>>24)
	if _, err := w.Write(n[:]); err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func (cp *CP) LoadState(r io.Reader) error {
	var n [4]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return hkerr.StateError("gpu", "truncated savestate length")
	}
	size := uint32(n[0]) | uint32(n[1])<<8 | uint32(n[2])<<16 | uint32(n[3])<<24
	b := make([]byte, size)
	if _, err := io.ReadFull(r, b); err != nil {
		return hkerr.StateError("gpu", "truncated savestate payload")
	}
	var s snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return hkerr.StateError("gpu", "malformed savestate payload: "+err.Error())
	}
	cp.PC, cp.SP, cp.Running = s.PC, s.SP, s.Running
	cp.PolyType, cp.PolyAlpha = s.PolyType, s.PolyAlpha
	cp.MeshPrecision, cp.LOD = s.MeshPrecision, s.LOD
	cp.InMesh, cp.FrameParity = s.InMesh, s.FrameParity
	cp.Viewport, cp.Modelview = s.Viewport, s.Modelview
	cp.Material, cp.TexHead = s.Material, s.TexHead
	cp.Light, cp.Lightset = s.Light, s.Lightset
	cp.AlphaThresh, cp.LightRamp = s.AlphaThresh, s.LightRamp
	cp.FBBlend = s.FBBlend
	return nil
}
