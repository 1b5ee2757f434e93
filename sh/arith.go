/*
 * valkyrie - Integer ALU, shift/rotate and multiply-accumulate instructions
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

// opADD: Rn = Rn + Rm (ordinary 32-bit wrap).
func opADD(c *CPU, inst uint16) bool {
	c.R[rn(inst)] += c.R[rm(inst)]
	return false
}

// opADDI: Rn = Rn + sign-extend(imm8).
func opADDI(c *CPU, inst uint16) bool {
	c.R[rn(inst)] += uint32(simm8(inst))
	return false
}

// opADDC: Rn = Rn + Rm + T; T' = carry out. The two additions are summed
// through an intermediate so either one overflowing sets the carry.
func opADDC(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	rnv, rmv, t := c.R[n], c.R[m], c.T()
	s1 := rnv + rmv
	s2 := s1 + t
	c.R[n] = s2
	carry := s1 < rnv || s2 < s1
	c.SetT(carry)
	return false
}

// opADDV: signed-overflow-detecting add; T = overflow occurred.
func opADDV(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	rnv, rmv := int32(c.R[n]), int32(c.R[m])
	sum := rnv + rmv
	overflow := (rnv >= 0 && rmv >= 0 && sum < 0) || (rnv < 0 && rmv < 0 && sum >= 0)
	c.R[n] = uint32(sum)
	c.SetT(overflow)
	return false
}

func opSUB(c *CPU, inst uint16) bool {
	c.R[rn(inst)] -= c.R[rm(inst)]
	return false
}

// opSUBC: Rn = Rn - Rm - T; T' = borrow out.
func opSUBC(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	rnv, rmv, t := c.R[n], c.R[m], c.T()
	s1 := rnv - rmv
	s2 := s1 - t
	c.R[n] = s2
	borrow := rnv < s1 || s1 < s2
	c.SetT(borrow)
	return false
}

func opSUBV(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	rnv, rmv := int32(c.R[n]), int32(c.R[m])
	diff := rnv - rmv
	overflow := (rnv >= 0 && rmv < 0 && diff < 0) || (rnv < 0 && rmv >= 0 && diff >= 0)
	c.R[n] = uint32(diff)
	c.SetT(overflow)
	return false
}

func opNEG(c *CPU, inst uint16) bool {
	c.R[rn(inst)] = -c.R[rm(inst)]
	return false
}

func opNEGC(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	t := c.T()
	tmp := -c.R[m]
	c.R[n] = tmp - t
	borrow := (0 < tmp) || (tmp < c.R[n])
	c.SetT(borrow)
	return false
}

func opNOT(c *CPU, inst uint16) bool {
	c.R[rn(inst)] = ^c.R[rm(inst)]
	return false
}

func opAND(c *CPU, inst uint16) bool { c.R[rn(inst)] &= c.R[rm(inst)]; return false }
func opOR(c *CPU, inst uint16) bool  { c.R[rn(inst)] |= c.R[rm(inst)]; return false }
func opXOR(c *CPU, inst uint16) bool { c.R[rn(inst)] ^= c.R[rm(inst)]; return false }

func opANDI(c *CPU, inst uint16) bool { c.R[0] &= uimm8(inst); return false }
func opORI(c *CPU, inst uint16) bool  { c.R[0] |= uimm8(inst); return false }
func opXORI(c *CPU, inst uint16) bool { c.R[0] ^= uimm8(inst); return false }

func opTST(c *CPU, inst uint16) bool {
	c.SetT(c.R[rn(inst)]&c.R[rm(inst)] == 0)
	return false
}
func opTSTI(c *CPU, inst uint16) bool {
	c.SetT(c.R[0]&uimm8(inst) == 0)
	return false
}

func opCMPEQ(c *CPU, inst uint16) bool { c.SetT(c.R[rn(inst)] == c.R[rm(inst)]); return false }
func opCMPHS(c *CPU, inst uint16) bool { c.SetT(c.R[rn(inst)] >= c.R[rm(inst)]); return false }
func opCMPHI(c *CPU, inst uint16) bool { c.SetT(c.R[rn(inst)] > c.R[rm(inst)]); return false }
func opCMPGE(c *CPU, inst uint16) bool {
	c.SetT(int32(c.R[rn(inst)]) >= int32(c.R[rm(inst)]))
	return false
}
func opCMPGT(c *CPU, inst uint16) bool {
	c.SetT(int32(c.R[rn(inst)]) > int32(c.R[rm(inst)]))
	return false
}
func opCMPPZ(c *CPU, inst uint16) bool { c.SetT(int32(c.R[rn(inst)]) >= 0); return false }
func opCMPPL(c *CPU, inst uint16) bool { c.SetT(int32(c.R[rn(inst)]) > 0); return false }
func opCMPIM(c *CPU, inst uint16) bool { c.SetT(int32(c.R[0]) == simm8(inst)); return false }
func opCMPSTR(c *CPU, inst uint16) bool {
	diff := c.R[rn(inst)] ^ c.R[rm(inst)]
	eq := (diff&0xFF == 0) || (diff&0xFF00 == 0) || (diff&0xFF0000 == 0) || (diff&0xFF000000 == 0)
	c.SetT(eq)
	return false
}

// opDT: decrement Rn; T = (Rn == 0) after decrement.
func opDT(c *CPU, inst uint16) bool {
	n := rn(inst)
	c.R[n]--
	c.SetT(c.R[n] == 0)
	return false
}

func opMOVT(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.T(); return false }
func opCLRT(c *CPU, inst uint16) bool { c.SetT(false); return false }
func opSETT(c *CPU, inst uint16) bool { c.SetT(true); return false }
func opCLRMAC(c *CPU, inst uint16) bool { c.MAC = 0; return false }

func opEXTUB(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.R[rm(inst)] & 0xFF; return false }
func opEXTUW(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.R[rm(inst)] & 0xFFFF; return false }
func opEXTSB(c *CPU, inst uint16) bool {
	c.R[rn(inst)] = uint32(int32(int8(c.R[rm(inst)])))
	return false
}
func opEXTSW(c *CPU, inst uint16) bool {
	c.R[rn(inst)] = uint32(int32(int16(c.R[rm(inst)])))
	return false
}

func opSWAPB(c *CPU, inst uint16) bool {
	v := c.R[rm(inst)]
	c.R[rn(inst)] = (v & 0xFFFF0000) | (v&0xFF)<<8 | (v>>8)&0xFF
	return false
}
func opSWAPW(c *CPU, inst uint16) bool {
	v := c.R[rm(inst)]
	c.R[rn(inst)] = v<<16 | v>>16
	return false
}
func opXTRCT(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	c.R[n] = (c.R[n]>>16)&0xFFFF | (c.R[m]&0xFFFF)<<16
	return false
}

func opTASB(c *CPU, inst uint16) bool {
	addr := c.R[rn(inst)]
	v, err := c.readByte(addr)
	if err != nil {
		return false
	}
	c.SetT(v == 0)
	_ = c.writeByte(addr, v|0x80)
	return false
}

// --- Shifts and rotates ---

func opSHAL(c *CPU, inst uint16) bool {
	n := rn(inst)
	c.SetT(c.R[n]&0x80000000 != 0)
	c.R[n] <<= 1
	return false
}
func opSHAR(c *CPU, inst uint16) bool {
	n := rn(inst)
	c.SetT(c.R[n]&1 != 0)
	c.R[n] = uint32(int32(c.R[n]) >> 1)
	return false
}
func opSHLL(c *CPU, inst uint16) bool {
	n := rn(inst)
	c.SetT(c.R[n]&0x80000000 != 0)
	c.R[n] <<= 1
	return false
}
func opSHLR(c *CPU, inst uint16) bool {
	n := rn(inst)
	c.SetT(c.R[n]&1 != 0)
	c.R[n] >>= 1
	return false
}
func shiftConstShl(bits uint) Handler {
	return func(c *CPU, inst uint16) bool { c.R[rn(inst)] <<= bits; return false }
}
func shiftConstShr(bits uint) Handler {
	return func(c *CPU, inst uint16) bool { c.R[rn(inst)] >>= bits; return false }
}

func opROTL(c *CPU, inst uint16) bool {
	n := rn(inst)
	bit := c.R[n] & 0x80000000
	c.SetT(bit != 0)
	c.R[n] = c.R[n]<<1 | bit>>31
	return false
}
func opROTR(c *CPU, inst uint16) bool {
	n := rn(inst)
	bit := c.R[n] & 1
	c.SetT(bit != 0)
	c.R[n] = c.R[n]>>1 | bit<<31
	return false
}
func opROTCL(c *CPU, inst uint16) bool {
	n := rn(inst)
	t := c.T()
	newT := c.R[n] & 0x80000000
	c.R[n] = c.R[n]<<1 | t
	c.SetT(newT != 0)
	return false
}
func opROTCR(c *CPU, inst uint16) bool {
	n := rn(inst)
	t := c.T()
	newT := c.R[n] & 1
	c.R[n] = c.R[n]>>1 | t<<31
	c.SetT(newT != 0)
	return false
}

// opSHAD: Rm is a signed shift count for Rn; bit31 = direction, low 5
// bits = magnitude. Magnitude 0 with the sign bit set saturates to the
// arithmetic sign-extension of Rn.
func opSHAD(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	count := int32(c.R[m])
	mag := uint32(count) & 0x1F
	switch {
	case count >= 0:
		if mag == 0 {
			// count==0 exactly: no shift.
		}
		c.R[n] <<= mag
	case mag == 0:
		if int32(c.R[n]) < 0 {
			c.R[n] = 0xFFFFFFFF
		} else {
			c.R[n] = 0
		}
	default:
		c.R[n] = uint32(int32(c.R[n]) >> mag)
	}
	return false
}

// opSHLD: logical variant of SHAD; saturates to zero, never sign-extends.
func opSHLD(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	count := int32(c.R[m])
	mag := uint32(count) & 0x1F
	switch {
	case count >= 0:
		c.R[n] <<= mag
	case mag == 0:
		c.R[n] = 0
	default:
		c.R[n] >>= mag
	}
	return false
}

// --- Divide step ---

func opDIV0U(c *CPU, inst uint16) bool {
	c.SR &^= srQ | srM
	c.SetT(false)
	return false
}

func opDIV0S(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	q := c.R[n]&0x80000000 != 0
	mm := c.R[m]&0x80000000 != 0
	if q {
		c.SR |= srQ
	} else {
		c.SR &^= srQ
	}
	if mm {
		c.SR |= srM
	} else {
		c.SR &^= srM
	}
	c.SetT(q != mm)
	return false
}

// opDIV1 performs one non-restoring-division step: one bit of quotient
// per invocation, iterated by the caller for a full division.
func opDIV1(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	q := c.SR&srQ != 0
	mbit := c.SR&srM != 0
	oldQ := q
	rn32 := c.R[n]
	t := rn32 >> 31
	rn32 = rn32<<1 | c.T()
	var carry, mb uint32
	if mbit {
		mb = 1
	}
	if q == mbit {
		old := rn32
		rn32 -= c.R[m]
		if rn32 > old {
			carry = 1
		}
	} else {
		old := rn32
		rn32 += c.R[m]
		if rn32 < old {
			carry = 1
		}
	}
	q = (t ^ carry ^ mb) != 0
	_ = oldQ
	c.R[n] = rn32
	if q {
		c.SR |= srQ
	} else {
		c.SR &^= srQ
	}
	c.SetT(q == mbit)
	return false
}

// --- Multiply / multiply-accumulate ---

func opMULL(c *CPU, inst uint16) bool {
	c.SetMACL(c.R[rn(inst)] * c.R[rm(inst)])
	return false
}
func opMULSW(c *CPU, inst uint16) bool {
	c.SetMACL(uint32(int16(c.R[rn(inst)])) * uint32(int16(c.R[rm(inst)])))
	return false
}
func opMULUW(c *CPU, inst uint16) bool {
	c.SetMACL((c.R[rn(inst)] & 0xFFFF) * (c.R[rm(inst)] & 0xFFFF))
	return false
}

func opDMULS(c *CPU, inst uint16) bool {
	p := int64(int32(c.R[rn(inst)])) * int64(int32(c.R[rm(inst)]))
	c.MAC = uint64(p)
	return false
}
func opDMULU(c *CPU, inst uint16) bool {
	c.MAC = uint64(c.R[rn(inst)]) * uint64(c.R[rm(inst)])
	return false
}

// opMACL: MAC.L @Rm+,@Rn+ -- signed 64-bit product of two post-incremented
// 32-bit memory operands, added to MAC, saturated to 48 bits if SR.S.
func opMACL(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	av, err1 := c.readLong(c.R[n])
	bv, err2 := c.readLong(c.R[m])
	if err1 != nil || err2 != nil {
		return false
	}
	c.R[n] += 4
	if n != m {
		c.R[m] += 4
	}
	prod := int64(int32(av)) * int64(int32(bv))
	sum := int64(c.MAC) + prod
	if c.SR&srS != 0 {
		const lo = -0x800000000000
		const hi = 0x7FFFFFFFFFFF
		if sum < lo {
			sum = lo
		} else if sum > hi {
			sum = hi
		}
	}
	c.MAC = uint64(sum)
	return false
}

// opMACW: MAC.W @Rm+,@Rn+ -- 16-bit variant.
func opMACW(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	av, err1 := c.readWord(c.R[n])
	bv, err2 := c.readWord(c.R[m])
	if err1 != nil || err2 != nil {
		return false
	}
	c.R[n] += 2
	if n != m {
		c.R[m] += 2
	}
	prod := int64(int16(av)) * int64(int16(bv))
	c.MAC = uint64(int64(c.MAC) + prod)
	return false
}
