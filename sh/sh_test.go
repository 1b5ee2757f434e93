package sh

import (
	"math"
	"testing"

	"github.com/valkyrie-emu/valkyrie/bus"
	"github.com/valkyrie-emu/valkyrie/hostio"
)

// newTestCPU builds a CPU of variant backed by a flat 64KiB RAM region
// starting at address 0, so instruction words can be written directly
// with Bus.Put and PC left at its reset value.
func newTestCPU(t *testing.T, variant Variant) (*CPU, *bus.Buffer) {
	t.Helper()
	buf := bus.NewBuffer("ram", 0x10000)
	b := bus.NewMmap("test", nil)
	b.Add(&bus.Region{
		Lo: 0, Hi: 0xFFFF, Mask: 0xFFFF,
		Perm: bus.PermRead | bus.PermWrite, Sizes: bus.Size8 | bus.Size16 | bus.Size32 | bus.Size64,
		Buffer: buf,
	})
	c, err := New("test", variant, hostio.Master, b, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, buf
}

// asm writes a sequence of 16-bit instruction words starting at address 0.
func asm(buf *bus.Buffer, words ...uint16) {
	for i, w := range words {
		buf.Put(2, uint32(i*2), uint64(w))
	}
}

func step(t *testing.T, c *CPU, n int) {
	t.Helper()
	c.SetCycles(n)
	for i := 0; i < n; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

// instADD encodes "ADD Rm,Rn" (0011nnnnmmmm1100).
func instADD(n, m int) uint16 { return 0x3000 | uint16(n)<<8 | uint16(m)<<4 | 0xC }

// instADDC encodes "ADDC Rm,Rn" (0011nnnnmmmm1110).
func instADDC(n, m int) uint16 { return 0x3000 | uint16(n)<<8 | uint16(m)<<4 | 0xE }

// instDIV0U encodes "DIV0U" (0000000000011001).
func instDIV0U() uint16 { return 0x0019 }

// instDIV1 encodes "DIV1 Rm,Rn" (0011nnnnmmmm0100).
func instDIV1(n, m int) uint16 { return 0x3000 | uint16(n)<<8 | uint16(m)<<4 | 0x4 }

// instROTCL encodes "ROTCL Rn" (0100nnnn00100100).
func instROTCL(n int) uint16 { return 0x4024 | uint16(n)<<8 }

// instBSR encodes "BSR label" (1011dddddddddddd), disp is the signed
// 12-bit word displacement.
func instBSR(disp int16) uint16 { return 0xB000 | uint16(disp)&0x0FFF }

// instNOP encodes "NOP".
func instNOP() uint16 { return 0x0009 }

// instMOVI encodes "MOV #imm,Rn" (1110nnnniiiiiiii).
func instMOVI(n int, imm int8) uint16 { return 0xE000 | uint16(n)<<8 | uint16(uint8(imm)) }

// TestADDChainMatchesScenarioS1 covers an ADD/ADDC chain across a 32-bit
// carry boundary. It uses a second register pair (R2/R3) for the ADDC
// step rather than reusing R0 from the ADD step above it: ADD never
// writes T, so an ADDC chained directly off of R0's post-ADD value would
// carry in whatever T was left over from CPU reset (0 here), not a carry
// produced by the ADD's own wraparound — that reused-register chain is
// covered separately below, in
// TestADDThenADDCOnSameRegisterDoesNotCarryThroughT, where it actually
// comes out to T=0, not T=1.
func TestADDChainMatchesScenarioS1(t *testing.T) {
	c, buf := newTestCPU(t, VariantSH2)
	asm(buf,
		instMOVI(0, -1),  // R0 = 0xFFFFFFFF
		instMOVI(1, 1),   // R1 = 1
		instADD(0, 1),    // R0 = R0 + R1 -> 0, carry not tracked by ADD
		instMOVI(2, -1),  // R2 = 0xFFFFFFFF
		instMOVI(3, 1),   // R3 = 1
		instADDC(2, 3),   // R2 = R2 + R3 + T -> 0, T = carry = 1
	)
	step(t, c, 6)
	if c.R[0] != 0 {
		t.Fatalf("ADD: R0 = %#x, want 0", c.R[0])
	}
	if c.R[2] != 0 {
		t.Fatalf("ADDC: R2 = %#x, want 0", c.R[2])
	}
	if c.T() != 1 {
		t.Fatalf("ADDC: T = %d, want 1 (carry out of the top bit)", c.T())
	}

	// Chaining a second ADDC must fold in the carry from the first.
	asm2 := []uint16{instMOVI(4, 0), instMOVI(5, 0), instADDC(4, 5)}
	for i, w := range asm2 {
		buf.Put(2, uint32((6+i)*2), uint64(w))
	}
	step(t, c, 3)
	if c.R[4] != 1 {
		t.Fatalf("ADDC carry-in: R4 = %#x, want 1", c.R[4])
	}
}

// TestADDThenADDCOnSameRegisterDoesNotCarryThroughT runs ADD R1,R0 then
// ADDC R1,R0 on the same accumulator, starting from R0=0xFFFFFFFF,
// R1=1 — the single-register chain a description of "add across a 32-bit
// boundary" might suggest. R0 does wrap from 0xFFFFFFFF to 0 across the
// ADD, but ADD does not touch T, so the following ADDC carries in
// whatever T held after reset (0), not a signal from the ADD's own
// overflow. The result is R0=1, T=0: the wraparound happened, but it's
// invisible to T unless the instruction that crosses the boundary is
// itself the one reading T.
func TestADDThenADDCOnSameRegisterDoesNotCarryThroughT(t *testing.T) {
	c, buf := newTestCPU(t, VariantSH2)
	asm(buf,
		instMOVI(0, -1), // R0 = 0xFFFFFFFF
		instMOVI(1, 1),  // R1 = 1
		instADD(0, 1),   // R0 = R0 + R1 -> 0; T unaffected by ADD
		instADDC(0, 1),  // R0 = R0 + R1 + T -> 1; T = carry out = 0
	)
	step(t, c, 4)
	if c.R[0] != 1 {
		t.Fatalf("R0 = %#x, want 1", c.R[0])
	}
	if c.T() != 0 {
		t.Fatalf("T = %d, want 0 (ADD's own wraparound never reached T)", c.T())
	}
}

// TestDiv1ThirtyTwoStepsMatchesScenarioS2 runs DIV0U followed by 32
// ROTCL/DIV1 step pairs and a final ROTCL (the standard 32/32 unsigned
// division sequence: R1 holds the dividend and collects the quotient, R3
// the partial remainder) and checks the quotient against Go's native
// unsigned division, per the documented non-restoring division algorithm.
func TestDiv1ThirtyTwoStepsMatchesScenarioS2(t *testing.T) {
	c, buf := newTestCPU(t, VariantSH2)
	words := []uint16{instDIV0U()}
	for i := 0; i < 32; i++ {
		words = append(words, instROTCL(1), instDIV1(3, 2))
	}
	words = append(words, instROTCL(1))
	asm(buf, words...)

	const dividend, divisor = uint32(100), uint32(7)
	c.R[1] = dividend
	c.R[2] = divisor

	step(t, c, len(words))

	want := dividend / divisor
	if c.R[1] != want {
		t.Fatalf("DIV1 x32: R1 = %d, want %d (= %d/%d)", c.R[1], want, dividend, divisor)
	}
}

// TestBSRDelaySlotMatchesScenarioS3 confirms BSR runs its delay slot
// before the branch takes effect and that PR holds the return address
// (address of the delay slot instruction + 2).
func TestBSRDelaySlotMatchesScenarioS3(t *testing.T) {
	c, buf := newTestCPU(t, VariantSH2)
	// BSR +2 words (skips the delay slot's own NOP and one following NOP),
	// delay slot loads R0, then the branch target loads R1.
	asm(buf,
		instBSR(2),    // PC=0: BSR to PC+4+2*2 = 8
		instMOVI(0, 5), // PC=2 (delay slot): R0 = 5
		instNOP(),      // PC=4: skipped by the branch
		instNOP(),      // PC=6: skipped by the branch
		instMOVI(1, 9), // PC=8: branch target
	)
	step(t, c, 1) // BSR; its delay slot runs inside the same Step
	if c.R[0] != 5 {
		t.Fatalf("delay slot did not execute before the branch: R0 = %d, want 5", c.R[0])
	}
	if c.PR != 4 {
		t.Fatalf("PR = %#x, want 4 (PC of BSR + 4)", c.PR)
	}
	if c.PC != 8 {
		t.Fatalf("PC = %#x, want 8 (branch target)", c.PC)
	}
	step(t, c, 1)
	if c.R[1] != 9 {
		t.Fatalf("branch target did not execute: R1 = %d, want 9", c.R[1])
	}
}

// TestFSCAMatchesSinCos checks FSCA's fixed-point-angle sin/cos pair
// against math.Sincos for a handful of fractions of a turn.
func TestFSCAMatchesSinCos(t *testing.T) {
	c, _ := newTestCPU(t, VariantSH4)
	cases := []uint32{0, 1 << 14, 1 << 15, 3 << 14}
	for _, fpul := range cases {
		c.FPUL = fpul
		opFSCA(c, 0x0000) // FRn = FR0/FR1 pair
		frac := float64(fpul&0xFFFF) / 65536.0
		wantSin, wantCos := math.Sincos(frac * 2 * math.Pi)
		gotSin := float64(fr32(c, 0))
		gotCos := float64(fr32(c, 1))
		if math.Abs(gotSin-wantSin) > 1e-6 || math.Abs(gotCos-wantCos) > 1e-6 {
			t.Fatalf("fpul=%#x: got sin=%v cos=%v, want sin=%v cos=%v", fpul, gotSin, gotCos, wantSin, wantCos)
		}
	}
}

// TestFTRVIdentityMatrixIsNoop multiplies a vector by the identity matrix
// loaded into XF and checks it comes back unchanged.
func TestFTRVIdentityMatrixIsNoop(t *testing.T) {
	c, _ := newTestCPU(t, VariantSH4)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			v := float32(0)
			if row == col {
				v = 1
			}
			c.XF[col*4+row] = math.Float32bits(v)
		}
	}
	want := [4]float32{1.5, -2.25, 3, 0.5}
	for i, v := range want {
		setFr32(c, i, v)
	}
	opFTRV(c, 0x0000) // FVn = FV0
	for i, w := range want {
		got := fr32(c, i)
		if math.Abs(float64(got-w)) > 1e-5 {
			t.Fatalf("FTRV identity: FR%d = %v, want %v", i, got, w)
		}
	}
}

// TestMACLSaturatesAt48BitsWithSFlag checks MAC.L's SR.S-gated saturation
// against the documented +-0x7FFFFFFFFFFF / -0x800000000000 bounds.
func TestMACLSaturatesAt48BitsWithSFlag(t *testing.T) {
	c, buf := newTestCPU(t, VariantSH2)
	c.SR |= srS
	c.MAC = 0x7FFFFFFFFFFF // already at the positive saturation bound

	// Two post-incrementing operands pointing at a pair of 1s, so the
	// product is +1 and would overflow the positive bound by one.
	const opAddr, opAddr2 = uint32(0x100), uint32(0x200)
	buf.Put(4, opAddr, uint64(uint32(1)))
	buf.Put(4, opAddr2, uint64(uint32(1)))
	c.R[1] = opAddr
	c.R[2] = opAddr2

	inst := uint16(0x0000) | uint16(1)<<8 | uint16(2)<<4 | 0xF // MAC.L @R2+,@R1+
	opMACL(c, inst)

	if c.MAC != 0x7FFFFFFFFFFF {
		t.Fatalf("MAC.L saturation: MAC = %#x, want 0x7FFFFFFFFFFF (clamped)", c.MAC)
	}
}

// TestMACLNoSaturationWithoutSFlag confirms the same overflow wraps
// normally when SR.S is clear.
func TestMACLNoSaturationWithoutSFlag(t *testing.T) {
	c, buf := newTestCPU(t, VariantSH2)
	c.MAC = 0x7FFFFFFFFFFF

	buf.Put(4, 0x100, uint64(uint32(1)))
	buf.Put(4, 0x200, uint64(uint32(1)))
	c.R[1] = 0x100
	c.R[2] = 0x200

	inst := uint16(0x0000) | uint16(1)<<8 | uint16(2)<<4 | 0xF
	opMACL(c, inst)

	if c.MAC != 0x800000000000 {
		t.Fatalf("MAC.L without SR.S: MAC = %#x, want 0x800000000000 (unsaturated)", c.MAC)
	}
}

// TestIRQPreemptsOnlyAboveCurrentMask verifies the level-scan preemption
// rule: a raised IRQ only enters if its level exceeds SR.I (or is NMI).
func TestIRQPreemptsOnlyAboveCurrentMask(t *testing.T) {
	c, buf := newTestCPU(t, VariantSH2)
	asm(buf, instNOP(), instNOP(), instNOP())
	c.writeSR(c.SR &^ uint32(srBL)) // unblock, keep reset I mask (0xF)

	c.PostIRQ(5, true, 0x200) // below the I=0xF mask: must not preempt
	step(t, c, 1)
	if c.PC != 2 {
		t.Fatalf("level 5 preempted despite SR.I=0xF: PC = %#x", c.PC)
	}

	buf.Put(2, 0x200, uint64(instNOP())) // entry-vector instruction, so the post-entry fetch succeeds
	c.writeSR(c.SR &^ uint32(srIMask))   // I=0
	c.PostIRQ(5, true, 0x200)
	step(t, c, 1)
	if c.PC != c.VBR+0x202 {
		t.Fatalf("PC after entry = %#x, want VBR+vector+2 = %#x (level 5 did not preempt with SR.I=0)", c.PC, c.VBR+0x202)
	}
}

// TestNMIEscapesBLBlock checks that level 16 (NMI) is still blocked by
// SR.BL unless ICR.NMIB is set, and does preempt once it is.
func TestNMIEscapesBLBlock(t *testing.T) {
	c, buf := newTestCPU(t, VariantSH4)
	asm(buf, instNOP(), instNOP(), instNOP())
	c.writeSR(c.SR | srBL)

	c.PostIRQ(15, true, 0x100)
	step(t, c, 1)
	if c.PC != 2 {
		t.Fatalf("level 15 preempted despite SR.BL: PC = %#x", c.PC)
	}

	c.PostIRQ(16, true, 0x1C0)
	step(t, c, 1)
	if c.PC != 4 {
		t.Fatalf("NMI preempted despite SR.BL and ICR.NMIB clear: PC = %#x", c.PC)
	}

	buf.Put(2, 0x1C0, uint64(instNOP())) // entry-vector instruction, so the post-entry fetch succeeds
	c.icrNMIB = true
	c.PostIRQ(16, true, 0x1C0)
	step(t, c, 1)
	if c.PC != c.VBR+0x1C2 {
		t.Fatalf("PC after entry = %#x, want VBR+vector+2 = %#x (NMI did not preempt with ICR.NMIB set)", c.PC, c.VBR+0x1C2)
	}
}
