/*
 * valkyrie - GPU opcode table registration
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

// init populates opTable once at package load. register() panics on a
// collision, so a duplicate opcode below fails fast at process start
// rather than silently overwriting a handler.
func init() {
	register(0x000, "jump", FlagJump, opJump)
	register(0x052, "cond_jump_52", FlagJump, opCondJump)
	register(0x082, "cond_jump_82", FlagJump, opCondJump)
	register(0x012, "call", FlagJump, opCall)
	register(0x1C2, "kill", FlagJump, opKill)

	register(0x005, "lod_set_lower", 0, opLODSetLower)
	register(0x055, "lod_set_threshold", 0, opLODSetThreshold)
	register(0x095, "lod_set_branch_id", 0, opLODSetBranchID)

	register(0x021, "viewport", 0, opViewport)
	register(0x011, "ambient_color", 0, opAmbientColor)
	register(0x191, "clear_color", 0, opClearColor)
	register(0x004, "viewport_commit", 0, opViewportCommit)
	register(0x003, "viewport_recall", 0, opViewportRecall)

	register(0x161, "modelview", 0, opModelview)

	register(0x091, "material_color", 0, opMaterialColor)
	register(0x081, "material_flags", 0, opMaterialFlags)
	register(0x084, "material_commit", 0, opMaterialCommit)
	register(0x083, "material_recall", 0, opMaterialRecall)

	register(0x0C1, "texhead", 0, opTexHead)
	register(0x0C4, "texhead_commit", 0, opTexHeadCommit)
	register(0x0C3, "texhead_recall", 0, opTexHeadRecall)

	register(0x061, "light_atten", 0, opLightAtten)
	register(0x051, "light_color", 0, opLightColor)
	register(0x104, "light_commit", 0, opLightCommit)
	register(0x064, "lightset_commit", 0, opLightsetCommit)
	register(0x043, "lightset_recall", 0, opLightsetRecall)

	register(0x154, "alpha_threshold", 0, opAlphaThreshold)
	register(0x194, "light_ramp", 0, opLightRamp)
	register(0x181, "fb_blend", 0, opFBBlend)

	for op := 0x120; op <= 0x12F; op++ {
		register(op, "vertex_static", FlagBegin|FlagStatic, opVertexStatic)
	}
	register(0x1AC, "vertex_dynamic_pos", FlagBegin, opVertexDynamicPos)
	for op := 0x1B0; op <= 0x1BF; op++ {
		register(op, "vertex_dynamic_full", FlagBegin, opVertexDynamicFull)
	}
	register(0x0E8, "texcoord_triple", FlagContinue, opTexCoordTriple)
	register(0x158, "texcoord_single", FlagContinue, opTexCoordSingle)
}
