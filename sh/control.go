/*
 * valkyrie - Branch, call, system-register and privileged instructions
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

package sh

// Branch targets are relative to PC+4, the address just past the delay
// slot instruction (which sits at PC+2), per the SH manual.

func opBT(c *CPU, inst uint16) bool {
	if c.T() == 0 {
		return false
	}
	c.PC = c.PC + 4 + uint32(simm8(inst))*2
	return true
}
func opBF(c *CPU, inst uint16) bool {
	if c.T() != 0 {
		return false
	}
	c.PC = c.PC + 4 + uint32(simm8(inst))*2
	return true
}

func opBTS(c *CPU, inst uint16) bool {
	if c.T() == 0 {
		return false
	}
	target := c.PC + 4 + uint32(simm8(inst))*2
	_ = c.runDelaySlot()
	c.PC = target
	return true
}
func opBFS(c *CPU, inst uint16) bool {
	if c.T() != 0 {
		return false
	}
	target := c.PC + 4 + uint32(simm8(inst))*2
	_ = c.runDelaySlot()
	c.PC = target
	return true
}

func opBRA(c *CPU, inst uint16) bool {
	target := c.PC + 4 + uint32(simm12(inst))*2
	_ = c.runDelaySlot()
	c.PC = target
	return true
}

func opBSR(c *CPU, inst uint16) bool {
	c.PR = c.PC + 4
	target := c.PC + 4 + uint32(simm12(inst))*2
	_ = c.runDelaySlot()
	c.PC = target
	return true
}

func opBRAF(c *CPU, inst uint16) bool {
	target := c.PC + 4 + c.R[rn(inst)]
	_ = c.runDelaySlot()
	c.PC = target
	return true
}

func opBSRF(c *CPU, inst uint16) bool {
	c.PR = c.PC + 4
	target := c.PC + 4 + c.R[rn(inst)]
	_ = c.runDelaySlot()
	c.PC = target
	return true
}

func opJMP(c *CPU, inst uint16) bool {
	target := c.R[rn(inst)]
	_ = c.runDelaySlot()
	c.PC = target
	return true
}

func opJSR(c *CPU, inst uint16) bool {
	c.PR = c.PC + 4
	target := c.R[rn(inst)]
	_ = c.runDelaySlot()
	c.PC = target
	return true
}

func opRTS(c *CPU, inst uint16) bool {
	target := c.PR
	_ = c.runDelaySlot()
	c.PC = target
	return true
}

// opRTE restores SR (and, on SH-4, leaves the bank per the restored SR.RB)
// then resumes at the saved PC. Runs its delay slot first per the manual.
func opRTE(c *CPU, inst uint16) bool {
	if c.Variant == VariantSH4 {
		target := c.SPC
		savedSR := c.SSR
		_ = c.runDelaySlot()
		c.writeSR(savedSR)
		c.PC = target
		return true
	}
	savedPC, _ := c.readLong(c.R[15])
	c.R[15] += 4
	savedSR, _ := c.readLong(c.R[15])
	c.R[15] += 4
	_ = c.runDelaySlot()
	c.writeSR(savedSR)
	c.PC = savedPC
	return true
}

func opMOVA(c *CPU, inst uint16) bool {
	base := (c.PC + 4) &^ 3
	c.R[0] = base + uimm8(inst)*4
	return false
}

// opTRAPA pushes SR/PC (SH-2) or SPC/SSR (SH-4) and vectors through
// VBR+(imm<<2), the same path a hardware exception takes.
func opTRAPA(c *CPU, inst uint16) bool {
	vec := uimm8(inst) << 2
	if c.Variant == VariantSH4 {
		c.SPC = c.PC + 2
		c.SSR = c.SR
	} else {
		c.R[15] -= 4
		_ = c.writeLong(c.R[15], c.SR)
		c.R[15] -= 4
		_ = c.writeLong(c.R[15], c.PC+2)
	}
	c.writeSR(c.SR | srBL | srMD)
	c.PC = c.VBR + vec
	return true
}

func opNOP(c *CPU, inst uint16) bool  { return false }
func opSLEEP(c *CPU, inst uint16) bool {
	if c.SR&srBL != 0 {
		c.state = StateStandby
	} else {
		c.state = StateSleep
	}
	return false
}

// --- LDC/STC: control register moves, privileged on SH-4 outside the
// GBR variants (the unprivileged GBR forms are listed separately in
// baseDescriptors/sh4Descriptors with SH4Only left false where the part
// is common to SH-2).

func opLDCSR(c *CPU, inst uint16) bool { c.writeSR(c.R[rn(inst)]); return false }
func opSTCSR(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.SR; return false }
func opLDCGBR(c *CPU, inst uint16) bool { c.GBR = c.R[rn(inst)]; return false }
func opSTCGBR(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.GBR; return false }
func opLDCVBR(c *CPU, inst uint16) bool { c.VBR = c.R[rn(inst)]; return false }
func opSTCVBR(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.VBR; return false }

func opLDCSSR(c *CPU, inst uint16) bool { c.SSR = c.R[rn(inst)]; return false }
func opSTCSSR(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.SSR; return false }
func opLDCSPC(c *CPU, inst uint16) bool { c.SPC = c.R[rn(inst)]; return false }
func opSTCSPC(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.SPC; return false }
func opLDCDBR(c *CPU, inst uint16) bool { c.DBR = c.R[rn(inst)]; return false }
func opSTCDBR(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.DBR; return false }

// opLDCRBANK/opSTCRBANK address the SH-4 alternate R0..R7 bank directly,
// bypassing the SR.RB-indexed swap that writeSR performs.
func opLDCRBANK(c *CPU, inst uint16) bool {
	bank := rm(inst) & 7
	c.RBank[bank] = c.R[rn(inst)]
	return false
}
func opSTCRBANK(c *CPU, inst uint16) bool {
	bank := rm(inst) & 7
	c.R[rn(inst)] = c.RBank[bank]
	return false
}

func opLDSMACH(c *CPU, inst uint16) bool { c.SetMACH(c.R[rn(inst)]); return false }
func opSTSMACH(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.MACH(); return false }
func opLDSMACL(c *CPU, inst uint16) bool { c.SetMACL(c.R[rn(inst)]); return false }
func opSTSMACL(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.MACL(); return false }
func opLDSPR(c *CPU, inst uint16) bool  { c.PR = c.R[rn(inst)]; return false }
func opSTSPR(c *CPU, inst uint16) bool  { c.R[rn(inst)] = c.PR; return false }
func opLDSFPUL(c *CPU, inst uint16) bool { c.FPUL = c.R[rn(inst)]; return false }
func opSTSFPUL(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.FPUL; return false }
func opLDSFPSCR(c *CPU, inst uint16) bool { c.writeFPSCR(c.R[rn(inst)]); return false }
func opSTSFPSCR(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.FPSCR; return false }

// @Rm+ / @-Rn postincrement/predecrement variants of LDC/LDS/STC.STS,
// used heavily by context switch prologues/epilogues.

func opLDCSRInc(c *CPU, inst uint16) bool {
	v, err := c.readLong(c.R[rn(inst)])
	if err != nil {
		return false
	}
	c.R[rn(inst)] += 4
	c.writeSR(v)
	return false
}
func opSTCSRDec(c *CPU, inst uint16) bool {
	c.R[rn(inst)] -= 4
	_ = c.writeLong(c.R[rn(inst)], c.SR)
	return false
}
func opLDCGBRInc(c *CPU, inst uint16) bool {
	v, err := c.readLong(c.R[rn(inst)])
	if err != nil {
		return false
	}
	c.R[rn(inst)] += 4
	c.GBR = v
	return false
}
func opSTCGBRDec(c *CPU, inst uint16) bool {
	c.R[rn(inst)] -= 4
	_ = c.writeLong(c.R[rn(inst)], c.GBR)
	return false
}
func opLDCVBRInc(c *CPU, inst uint16) bool {
	v, err := c.readLong(c.R[rn(inst)])
	if err != nil {
		return false
	}
	c.R[rn(inst)] += 4
	c.VBR = v
	return false
}
func opSTCVBRDec(c *CPU, inst uint16) bool {
	c.R[rn(inst)] -= 4
	_ = c.writeLong(c.R[rn(inst)], c.VBR)
	return false
}
func opLDSMACHInc(c *CPU, inst uint16) bool {
	v, err := c.readLong(c.R[rn(inst)])
	if err != nil {
		return false
	}
	c.R[rn(inst)] += 4
	c.SetMACH(v)
	return false
}
func opSTSMACHDec(c *CPU, inst uint16) bool {
	c.R[rn(inst)] -= 4
	_ = c.writeLong(c.R[rn(inst)], c.MACH())
	return false
}
func opLDSMACLInc(c *CPU, inst uint16) bool {
	v, err := c.readLong(c.R[rn(inst)])
	if err != nil {
		return false
	}
	c.R[rn(inst)] += 4
	c.SetMACL(v)
	return false
}
func opSTSMACLDec(c *CPU, inst uint16) bool {
	c.R[rn(inst)] -= 4
	_ = c.writeLong(c.R[rn(inst)], c.MACL())
	return false
}
func opLDSPRInc(c *CPU, inst uint16) bool {
	v, err := c.readLong(c.R[rn(inst)])
	if err != nil {
		return false
	}
	c.R[rn(inst)] += 4
	c.PR = v
	return false
}
func opSTSPRDec(c *CPU, inst uint16) bool {
	c.R[rn(inst)] -= 4
	_ = c.writeLong(c.R[rn(inst)], c.PR)
	return false
}
