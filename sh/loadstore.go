/*
 * valkyrie - MOV load/store addressing mode instructions
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

// opMOV: Rn = Rm.
func opMOV(c *CPU, inst uint16) bool { c.R[rn(inst)] = c.R[rm(inst)]; return false }

func opMOVI(c *CPU, inst uint16) bool { c.R[rn(inst)] = uint32(simm8(inst)); return false }

// opMOVWI/opMOVLI: PC-relative literal loads. These are illegal inside a
// delay slot on real hardware; the interpreter does not separately enforce
// that (no SH program is expected to do it), so a delay-slotted literal
// load here just computes against the delay slot's own PC+4 rather than
// faulting.
func opMOVWI(c *CPU, inst uint16) bool {
	addr := (c.PC + 4) &^ 1 + disp8(inst)*2
	v, err := c.readWord(addr)
	if err != nil {
		return false
	}
	c.R[rn(inst)] = uint32(int32(int16(v)))
	return false
}
func opMOVLI(c *CPU, inst uint16) bool {
	addr := (c.PC+4)&^3 + disp8(inst)*4
	v, err := c.readLong(addr)
	if err != nil {
		return false
	}
	c.R[rn(inst)] = v
	return false
}

func opMOVBS(c *CPU, inst uint16) bool {
	_ = c.writeByte(c.R[rn(inst)], c.R[rm(inst)]&0xFF)
	return false
}
func opMOVWS(c *CPU, inst uint16) bool {
	_ = c.writeWord(c.R[rn(inst)], c.R[rm(inst)]&0xFFFF)
	return false
}
func opMOVLS(c *CPU, inst uint16) bool {
	_ = c.writeLong(c.R[rn(inst)], c.R[rm(inst)])
	return false
}

func opMOVBL(c *CPU, inst uint16) bool {
	v, err := c.readByte(c.R[rm(inst)])
	if err != nil {
		return false
	}
	c.R[rn(inst)] = uint32(int32(int8(v)))
	return false
}
func opMOVWL(c *CPU, inst uint16) bool {
	v, err := c.readWord(c.R[rm(inst)])
	if err != nil {
		return false
	}
	c.R[rn(inst)] = uint32(int32(int16(v)))
	return false
}
func opMOVLL(c *CPU, inst uint16) bool {
	v, err := c.readLong(c.R[rm(inst)])
	if err != nil {
		return false
	}
	c.R[rn(inst)] = v
	return false
}

// @Rm+ postincrement loads (n is dest, m is addr+inc). Rm is incremented
// before the loaded value is written to Rn, so when n==m the register
// ends up holding the loaded value.
func opMOVBLInc(c *CPU, inst uint16) bool {
	addr := c.R[rm(inst)]
	v, err := c.readByte(addr)
	if err != nil {
		return false
	}
	c.R[rm(inst)] += 1
	c.R[rn(inst)] = uint32(int32(int8(v)))
	return false
}
func opMOVWLInc(c *CPU, inst uint16) bool {
	addr := c.R[rm(inst)]
	v, err := c.readWord(addr)
	if err != nil {
		return false
	}
	c.R[rm(inst)] += 2
	c.R[rn(inst)] = uint32(int32(int16(v)))
	return false
}
func opMOVLLInc(c *CPU, inst uint16) bool {
	addr := c.R[rm(inst)]
	v, err := c.readLong(addr)
	if err != nil {
		return false
	}
	c.R[rm(inst)] += 4
	c.R[rn(inst)] = v
	return false
}

// @-Rn predecrement stores.
func opMOVBSDec(c *CPU, inst uint16) bool {
	addr := c.R[rn(inst)] - 1
	if err := c.writeByte(addr, c.R[rm(inst)]&0xFF); err != nil {
		return false
	}
	c.R[rn(inst)] = addr
	return false
}
func opMOVWSDec(c *CPU, inst uint16) bool {
	addr := c.R[rn(inst)] - 2
	if err := c.writeWord(addr, c.R[rm(inst)]&0xFFFF); err != nil {
		return false
	}
	c.R[rn(inst)] = addr
	return false
}
func opMOVLSDec(c *CPU, inst uint16) bool {
	addr := c.R[rn(inst)] - 4
	if err := c.writeLong(addr, c.R[rm(inst)]); err != nil {
		return false
	}
	c.R[rn(inst)] = addr
	return false
}

// Indexed R0-offset forms: @(R0,Rm) / @(R0,Rn).
func opMOVBS0(c *CPU, inst uint16) bool {
	_ = c.writeByte(c.R[rn(inst)]+c.R[0], c.R[rm(inst)]&0xFF)
	return false
}
func opMOVWS0(c *CPU, inst uint16) bool {
	_ = c.writeWord(c.R[rn(inst)]+c.R[0], c.R[rm(inst)]&0xFFFF)
	return false
}
func opMOVLS0(c *CPU, inst uint16) bool {
	_ = c.writeLong(c.R[rn(inst)]+c.R[0], c.R[rm(inst)])
	return false
}
func opMOVBL0(c *CPU, inst uint16) bool {
	v, err := c.readByte(c.R[rm(inst)] + c.R[0])
	if err != nil {
		return false
	}
	c.R[rn(inst)] = uint32(int32(int8(v)))
	return false
}
func opMOVWL0(c *CPU, inst uint16) bool {
	v, err := c.readWord(c.R[rm(inst)] + c.R[0])
	if err != nil {
		return false
	}
	c.R[rn(inst)] = uint32(int32(int16(v)))
	return false
}
func opMOVLL0(c *CPU, inst uint16) bool {
	v, err := c.readLong(c.R[rm(inst)] + c.R[0])
	if err != nil {
		return false
	}
	c.R[rn(inst)] = v
	return false
}

// GBR-relative forms.
func opMOVBLG(c *CPU, inst uint16) bool {
	v, err := c.readByte(c.GBR + disp8(inst))
	if err != nil {
		return false
	}
	c.R[0] = uint32(int32(int8(v)))
	return false
}
func opMOVWLG(c *CPU, inst uint16) bool {
	v, err := c.readWord(c.GBR + disp8(inst)*2)
	if err != nil {
		return false
	}
	c.R[0] = uint32(int32(int16(v)))
	return false
}
func opMOVLLG(c *CPU, inst uint16) bool {
	v, err := c.readLong(c.GBR + disp8(inst)*4)
	if err != nil {
		return false
	}
	c.R[0] = v
	return false
}
func opMOVBSG(c *CPU, inst uint16) bool {
	_ = c.writeByte(c.GBR+disp8(inst), c.R[0]&0xFF)
	return false
}
func opMOVWSG(c *CPU, inst uint16) bool {
	_ = c.writeWord(c.GBR+disp8(inst)*2, c.R[0]&0xFFFF)
	return false
}
func opMOVLSG(c *CPU, inst uint16) bool {
	_ = c.writeLong(c.GBR+disp8(inst)*4, c.R[0])
	return false
}

// Rn-relative 4-bit displacement forms.
func opMOVBS4(c *CPU, inst uint16) bool {
	_ = c.writeByte(c.R[rn(inst)]+disp4(inst), c.R[0]&0xFF)
	return false
}
func opMOVWS4(c *CPU, inst uint16) bool {
	_ = c.writeWord(c.R[rn(inst)]+disp4(inst)*2, c.R[0]&0xFFFF)
	return false
}
func opMOVLS4(c *CPU, inst uint16) bool {
	_ = c.writeLong(c.R[rn(inst)]+disp4(inst)*4, c.R[rm(inst)])
	return false
}
func opMOVBL4(c *CPU, inst uint16) bool {
	v, err := c.readByte(c.R[rm(inst)] + disp4(inst))
	if err != nil {
		return false
	}
	c.R[0] = uint32(int32(int8(v)))
	return false
}
func opMOVWL4(c *CPU, inst uint16) bool {
	v, err := c.readWord(c.R[rm(inst)] + disp4(inst)*2)
	if err != nil {
		return false
	}
	c.R[0] = uint32(int32(int16(v)))
	return false
}
func opMOVLL4(c *CPU, inst uint16) bool {
	v, err := c.readLong(c.R[rm(inst)] + disp4(inst)*4)
	if err != nil {
		return false
	}
	c.R[rn(inst)] = v
	return false
}
