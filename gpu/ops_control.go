/*
 * valkyrie - GPU control flow: jumps, call stack, LOD branching
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

	"github.com/valkyrie-emu/valkyrie/hkerr"
	"github.com/valkyrie-emu/valkyrie/irqfabric"
)

// opLODProbe: opcode 561, sets LOD.Value to the Euclidean norm of the
// instruction's vector transformed by the current modelview matrix.
func opLODProbe(cp *CP, words []uint32) error {
	if len(words) < 4 {
		return nil
	}
	v := [3]float32{f32(words[1]), f32(words[2]), f32(words[3])}
	m := cp.Modelview.Current()
	var out [3]float32
	for r := 0; r < 3; r++ {
		out[r] = m[r][0]*v[0] + m[r][1]*v[1] + m[r][2]*v[2] + m[r][3]
	}
	cp.LOD.Value = float32(math.Sqrt(float64(out[0]*out[0] + out[1]*out[1] + out[2]*out[2])))
	return nil
}

// condTrue evaluates the 4-bit condition field against branch-id and LOD
// state.
func condTrue(cp *CP, cond uint32, branchOperand uint32) bool {
	switch cond {
	case 0:
		return true
	case 1:
		return cp.LOD.BranchID == branchOperand
	case 0xD:
		return cp.LOD.BranchID != branchOperand
	case 5, 9:
		return cp.LOD.Cond
	case 6, 4:
		return !cp.LOD.Cond
	case 7, 8:
		return cp.LOD.Cond
	default:
		return false
	}
}

// opJump: opcode 000, unconditional PC = absolute target encoded in the
// instruction's second word.
func opJump(cp *CP, words []uint32) error {
	if len(words) < 2 {
		return hkerr.GpuError("gpu", cp.PC, "jump instruction too short")
	}
	target := words[1]
	if target == cp.PC {
		return hkerr.GpuError("gpu", cp.PC, "self-jump detected")
	}
	cp.PC = target
	return nil
}

// opCondJump: opcode 052/082, conditional variants of opJump.
func opCondJump(cp *CP, words []uint32) error {
	if len(words) < 2 {
		return hkerr.GpuError("gpu", cp.PC, "conditional jump too short")
	}
	cond := (words[0] >> 20) & 0xF
	operand := words[0] & 0xFF
	if !condTrue(cp, cond, operand) {
		cp.PC += 4 * uint32(len(words))
		return nil
	}
	target := words[1]
	if target == cp.PC {
		return hkerr.GpuError("gpu", cp.PC, "self-jump detected")
	}
	cp.PC = target
	return nil
}

// callReturnBit selects return (set) vs call (clear) within opcode 012;
// the spec's fixed JUMP opcode list (000, 012, 052, 082, 1C2) has no
// separate return entry, so call/return share a dispatch slot the way
// 181/781 share one for FB blend and 961/B61 share one for modelview.
const callReturnBit = 1 << 9

// opCall: opcode 012. With callReturnBit clear, pushes the return
// address on SP[0] and jumps; with it set, pops and returns.
func opCall(cp *CP, words []uint32) error {
	if words[0]&callReturnBit != 0 {
		return opReturn(cp, words)
	}
	if len(words) < 2 {
		return hkerr.GpuError("gpu", cp.PC, "call instruction too short")
	}
	ret := cp.PC + 4*uint32(len(words))
	sp := cp.SP[0] & 0x3FFFFFF
	if sp+4 > uint32(cp.CmdRAM.Len()) {
		return hkerr.GpuError("gpu", cp.PC, "call stack overflow")
	}
	cp.CmdRAM.Put(4, sp, uint64(ret))
	cp.SP[0] -= 4
	target := words[1]
	if target == cp.PC {
		return hkerr.GpuError("gpu", cp.PC, "self-jump detected")
	}
	cp.PC = target
	return nil
}

// opReturn: returns to the address saved by the last opCall.
func opReturn(cp *CP, words []uint32) error {
	cp.SP[0] += 4
	sp := cp.SP[0] & 0x3FFFFFF
	if sp+4 > uint32(cp.CmdRAM.Len()) {
		return hkerr.GpuError("gpu", cp.PC, "call stack underflow")
	}
	ret := uint32(cp.CmdRAM.Get(4, sp))
	cp.PC = ret + 8
	return nil
}

// opKill: opcode 1C2, the CP "done" instruction.
func opKill(cp *CP, words []uint32) error {
	cp.Running = false
	if cp.Fabric != nil {
		cp.Fabric.Raise(irqfabric.BitGpuDone)
	}
	return nil
}

// opLODSetLower: opcode 005.
func opLODSetLower(cp *CP, words []uint32) error {
	if len(words) < 2 {
		return nil
	}
	thresh := f32(words[1])
	cp.LOD.Cond = cp.LOD.Value < thresh*8
	return nil
}

// opLODSetThreshold: opcode 055.
func opLODSetThreshold(cp *CP, words []uint32) error {
	if len(words) < 2 {
		return nil
	}
	thresh := f32(words[1])
	cp.LOD.Cond = cp.LOD.Value < thresh*4
	return nil
}

// opLODSetBranchID: opcode 095.
func opLODSetBranchID(cp *CP, words []uint32) error {
	cond := (words[0] >> 16) & 0xF
	if condTrue(cp, cond, 0) {
		cp.LOD.BranchID = words[0] & 0xFF
	}
	return nil
}
