/*
 * valkyrie - SH-4 floating point unit instructions
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

import "math"

func fr32(c *CPU, i int) float32 { return math.Float32frombits(c.FR[i]) }
func setFr32(c *CPU, i int, v float32) { c.FR[i] = math.Float32bits(v) }

// dr reads a double-precision register pair (even index holds the high
// word) when FPSCR.PR is set, per the SH-4 manual's DR/FR aliasing.
func dr64(c *CPU, i int) float64 {
	hi := uint64(c.FR[i])
	lo := uint64(c.FR[i+1])
	return math.Float64frombits(hi<<32 | lo)
}
func setDr64(c *CPU, i int, v float64) {
	bits := math.Float64bits(v)
	c.FR[i] = uint32(bits >> 32)
	c.FR[i+1] = uint32(bits)
}

func opFADD(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	if c.fpscrPR() {
		setDr64(c, n&^1, dr64(c, n&^1)+dr64(c, m&^1))
	} else {
		setFr32(c, n, fr32(c, n)+fr32(c, m))
	}
	return false
}
func opFSUB(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	if c.fpscrPR() {
		setDr64(c, n&^1, dr64(c, n&^1)-dr64(c, m&^1))
	} else {
		setFr32(c, n, fr32(c, n)-fr32(c, m))
	}
	return false
}
func opFMUL(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	if c.fpscrPR() {
		setDr64(c, n&^1, dr64(c, n&^1)*dr64(c, m&^1))
	} else {
		setFr32(c, n, fr32(c, n)*fr32(c, m))
	}
	return false
}
func opFDIV(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	if c.fpscrPR() {
		setDr64(c, n&^1, dr64(c, n&^1)/dr64(c, m&^1))
	} else {
		setFr32(c, n, fr32(c, n)/fr32(c, m))
	}
	return false
}

// opFMAC: FRn = FR0*FRm + FRn, single precision only.
func opFMAC(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	setFr32(c, n, fr32(c, 0)*fr32(c, m)+fr32(c, n))
	return false
}

func opFSQRT(c *CPU, inst uint16) bool {
	n := rn(inst)
	if c.fpscrPR() {
		setDr64(c, n&^1, math.Sqrt(dr64(c, n&^1)))
	} else {
		setFr32(c, n, float32(math.Sqrt(float64(fr32(c, n)))))
	}
	return false
}

func opFNEG(c *CPU, inst uint16) bool {
	n := rn(inst)
	if c.fpscrPR() {
		setDr64(c, n&^1, -dr64(c, n&^1))
	} else {
		setFr32(c, n, -fr32(c, n))
	}
	return false
}
func opFABS(c *CPU, inst uint16) bool {
	n := rn(inst)
	if c.fpscrPR() {
		setDr64(c, n&^1, math.Abs(dr64(c, n&^1)))
	} else {
		setFr32(c, n, float32(math.Abs(float64(fr32(c, n)))))
	}
	return false
}

func opFCMPEQ(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	if c.fpscrPR() {
		c.SetT(dr64(c, n&^1) == dr64(c, m&^1))
	} else {
		c.SetT(fr32(c, n) == fr32(c, m))
	}
	return false
}
func opFCMPGT(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	if c.fpscrPR() {
		c.SetT(dr64(c, n&^1) > dr64(c, m&^1))
	} else {
		c.SetT(fr32(c, n) > fr32(c, m))
	}
	return false
}

func opFLDI0(c *CPU, inst uint16) bool { setFr32(c, rn(inst), 0); return false }
func opFLDI1(c *CPU, inst uint16) bool { setFr32(c, rn(inst), 1); return false }

func opFLDS(c *CPU, inst uint16) bool { c.FPUL = c.FR[rn(inst)]; return false }
func opFSTS(c *CPU, inst uint16) bool { c.FR[rn(inst)] = c.FPUL; return false }

func opFLOAT(c *CPU, inst uint16) bool {
	n := rn(inst)
	v := float32(int32(c.FPUL))
	if c.fpscrPR() {
		setDr64(c, n&^1, float64(v))
	} else {
		setFr32(c, n, v)
	}
	return false
}
func opFTRC(c *CPU, inst uint16) bool {
	n := rn(inst)
	var v float64
	if c.fpscrPR() {
		v = dr64(c, n&^1)
	} else {
		v = float64(fr32(c, n))
	}
	c.FPUL = uint32(int32(v))
	return false
}

func opFCNVDS(c *CPU, inst uint16) bool {
	n := rn(inst)
	c.FPUL = math.Float32bits(float32(dr64(c, n&^1)))
	return false
}
func opFCNVSD(c *CPU, inst uint16) bool {
	n := rn(inst)
	setDr64(c, n&^1, float64(math.Float32frombits(c.FPUL)))
	return false
}

func opFMOV(c *CPU, inst uint16) bool {
	n, m := rn(inst), rm(inst)
	if c.fpscrSZ() {
		c.FR[n], c.FR[n+1] = c.FR[m], c.FR[m+1]
	} else {
		c.FR[n] = c.FR[m]
	}
	return false
}
// opFMOVS stores FRn (or the FRn/FRn+1 pair in double-size mode) to the
// address held in Rn, the form used when FMOV's memory operand is the
// destination.
func opFMOVS(c *CPU, inst uint16) bool {
	n, addr := rm(inst), c.R[rn(inst)]
	if c.fpscrSZ() {
		if err := c.writeLong(addr, c.FR[n]); err != nil {
			return false
		}
		_ = c.writeLong(addr+4, c.FR[n+1])
	} else {
		_ = c.writeLong(addr, c.FR[n])
	}
	return false
}

// opFSCA evaluates sin/cos of FPUL (treated as a 16.16 fraction of a full
// turn, per the SH-4 manual) into the double-size register pair FRn/FRn+1.
func opFSCA(c *CPU, inst uint16) bool {
	n := rn(inst) &^ 1
	frac := float64(int32(c.FPUL)&0xFFFF) / 65536.0
	angle := frac * 2 * math.Pi
	setFr32(c, n, float32(math.Sin(angle)))
	setFr32(c, n+1, float32(math.Cos(angle)))
	return false
}

func opFSRRA(c *CPU, inst uint16) bool {
	n := rn(inst)
	setFr32(c, n, float32(1/math.Sqrt(float64(fr32(c, n)))))
	return false
}

// opFIPR: inner product of vector FVn (FRn..FRn+3) and FVm, stored to
// FRn+3.
func opFIPR(c *CPU, inst uint16) bool {
	n := (rn(inst) &^ 3)
	m := (rm(inst) &^ 3)
	var sum float32
	for i := 0; i < 4; i++ {
		sum += fr32(c, n+i) * fr32(c, m+i)
	}
	setFr32(c, n+3, sum)
	return false
}

// opFTRV: 4x4 matrix (XF0..XF15) times vector FVn, result to FVn.
func opFTRV(c *CPU, inst uint16) bool {
	n := rn(inst) &^ 3
	var v [4]float32
	for i := 0; i < 4; i++ {
		v[i] = fr32(c, n+i)
	}
	for row := 0; row < 4; row++ {
		var sum float32
		for col := 0; col < 4; col++ {
			sum += math.Float32frombits(c.XF[col*4+row]) * v[col]
		}
		setFr32(c, n+row, sum)
	}
	return false
}
