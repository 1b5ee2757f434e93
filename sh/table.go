/*
 * valkyrie - Opcode descriptor lists for the SH-2 base set and the SH-4 extension
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

// baseDescriptors returns every opcode common to the SH-2 subset Hikaru's
// master/slave cores run (the integer ALU, load/store and branch
// instructions). sh4Descriptors layers the FPU and privileged extension
// opcodes on top of this list for the SH-4 table.
func baseDescriptors() []Descriptor {
	return []Descriptor{
		// Data transfer
		d("1110nnnniiiiiiii", "MOV #imm,Rn", opMOVI),
		d("1001nnnndddddddd", "MOV.W @(disp,PC),Rn", opMOVWI),
		d("1101nnnndddddddd", "MOV.L @(disp,PC),Rn", opMOVLI),
		d("0110nnnnmmmm0011", "MOV Rm,Rn", opMOV),
		d("0010nnnnmmmm0000", "MOV.B Rm,@Rn", opMOVBS),
		d("0010nnnnmmmm0001", "MOV.W Rm,@Rn", opMOVWS),
		d("0010nnnnmmmm0010", "MOV.L Rm,@Rn", opMOVLS),
		d("0110nnnnmmmm0000", "MOV.B @Rm,Rn", opMOVBL),
		d("0110nnnnmmmm0001", "MOV.W @Rm,Rn", opMOVWL),
		d("0110nnnnmmmm0010", "MOV.L @Rm,Rn", opMOVLL),
		d("0010nnnnmmmm0100", "MOV.B Rm,@-Rn", opMOVBSDec),
		d("0010nnnnmmmm0101", "MOV.W Rm,@-Rn", opMOVWSDec),
		d("0010nnnnmmmm0110", "MOV.L Rm,@-Rn", opMOVLSDec),
		d("0110nnnnmmmm0100", "MOV.B @Rm+,Rn", opMOVBLInc),
		d("0110nnnnmmmm0101", "MOV.W @Rm+,Rn", opMOVWLInc),
		d("0110nnnnmmmm0110", "MOV.L @Rm+,Rn", opMOVLLInc),
		d("0000nnnnmmmm0100", "MOV.B Rm,@(R0,Rn)", opMOVBS0),
		d("0000nnnnmmmm0101", "MOV.W Rm,@(R0,Rn)", opMOVWS0),
		d("0000nnnnmmmm0110", "MOV.L Rm,@(R0,Rn)", opMOVLS0),
		d("0000nnnnmmmm1100", "MOV.B @(R0,Rm),Rn", opMOVBL0),
		d("0000nnnnmmmm1101", "MOV.W @(R0,Rm),Rn", opMOVWL0),
		d("0000nnnnmmmm1110", "MOV.L @(R0,Rm),Rn", opMOVLL0),
		d("11000000dddddddd", "MOV.B R0,@(disp,GBR)", opMOVBSG),
		d("11000001dddddddd", "MOV.W R0,@(disp,GBR)", opMOVWSG),
		d("11000010dddddddd", "MOV.L R0,@(disp,GBR)", opMOVLSG),
		d("11000100dddddddd", "MOV.B @(disp,GBR),R0", opMOVBLG),
		d("11000101dddddddd", "MOV.W @(disp,GBR),R0", opMOVWLG),
		d("11000110dddddddd", "MOV.L @(disp,GBR),R0", opMOVLLG),
		d("10000000nnnndddd", "MOV.B R0,@(disp,Rn)", opMOVBS4),
		d("10000001nnnndddd", "MOV.W R0,@(disp,Rn)", opMOVWS4),
		d("0001nnnnmmmmdddd", "MOV.L Rm,@(disp,Rn)", opMOVLS4),
		d("10000100mmmmdddd", "MOV.B @(disp,Rm),R0", opMOVBL4),
		d("10000101mmmmdddd", "MOV.W @(disp,Rm),R0", opMOVWL4),
		d("0101nnnnmmmmdddd", "MOV.L @(disp,Rm),Rn", opMOVLL4),
		d("0000nnnn00101001", "MOVT Rn", opMOVT),
		d("11000111dddddddd", "MOVA @(disp,PC),R0", opMOVA),

		// ALU
		d("0111nnnniiiiiiii", "ADD #imm,Rn", opADDI),
		d("0011nnnnmmmm1100", "ADD Rm,Rn", opADD),
		d("0011nnnnmmmm1110", "ADDC Rm,Rn", opADDC),
		d("0011nnnnmmmm1111", "ADDV Rm,Rn", opADDV),
		d("0011nnnnmmmm1000", "SUB Rm,Rn", opSUB),
		d("0011nnnnmmmm1010", "SUBC Rm,Rn", opSUBC),
		d("0011nnnnmmmm1011", "SUBV Rm,Rn", opSUBV),
		d("0110nnnnmmmm1011", "NEG Rm,Rn", opNEG),
		d("0110nnnnmmmm1010", "NEGC Rm,Rn", opNEGC),
		d("0110nnnnmmmm0111", "NOT Rm,Rn", opNOT),
		d("0010nnnnmmmm1001", "AND Rm,Rn", opAND),
		d("11001001iiiiiiii", "AND #imm,R0", opANDI),
		d("0010nnnnmmmm1011", "OR Rm,Rn", opOR),
		d("11001011iiiiiiii", "OR #imm,R0", opORI),
		d("0010nnnnmmmm1010", "XOR Rm,Rn", opXOR),
		d("11001010iiiiiiii", "XOR #imm,R0", opXORI),
		d("0010nnnnmmmm1000", "TST Rm,Rn", opTST),
		d("11001000iiiiiiii", "TST #imm,R0", opTSTI),
		d("0011nnnnmmmm0000", "CMP/EQ Rm,Rn", opCMPEQ),
		d("0011nnnnmmmm0010", "CMP/HS Rm,Rn", opCMPHS),
		d("0011nnnnmmmm0110", "CMP/HI Rm,Rn", opCMPHI),
		d("0011nnnnmmmm0011", "CMP/GE Rm,Rn", opCMPGE),
		d("0011nnnnmmmm0111", "CMP/GT Rm,Rn", opCMPGT),
		d("0100nnnn00010101", "CMP/PL Rn", opCMPPL),
		d("0100nnnn00010001", "CMP/PZ Rn", opCMPPZ),
		d("10001000iiiiiiii", "CMP/EQ #imm,R0", opCMPIM),
		d("0010nnnnmmmm1100", "CMP/STR Rm,Rn", opCMPSTR),
		d("0100nnnn00010000", "DT Rn", opDT),
		d("0000000000001000", "CLRT", opCLRT),
		d("0000000000011000", "SETT", opSETT),
		d("0000000000101000", "CLRMAC", opCLRMAC),
		d("0110nnnnmmmm1100", "EXTU.B Rm,Rn", opEXTUB),
		d("0110nnnnmmmm1101", "EXTU.W Rm,Rn", opEXTUW),
		d("0110nnnnmmmm1110", "EXTS.B Rm,Rn", opEXTSB),
		d("0110nnnnmmmm1111", "EXTS.W Rm,Rn", opEXTSW),
		d("0110nnnnmmmm1000", "SWAP.B Rm,Rn", opSWAPB),
		d("0110nnnnmmmm1001", "SWAP.W Rm,Rn", opSWAPW),
		d("0010nnnnmmmm1101", "XTRCT Rm,Rn", opXTRCT),
		d("0100nnnn00011011", "TAS.B @Rn", opTASB),

		// Shifts and rotates
		d("0100nnnn00100000", "SHAL Rn", opSHAL),
		d("0100nnnn00100001", "SHAR Rn", opSHAR),
		d("0100nnnn00000000", "SHLL Rn", opSHLL),
		d("0100nnnn00000001", "SHLR Rn", opSHLR),
		d("0100nnnn00001000", "SHLL2 Rn", shiftConstShl(2)),
		d("0100nnnn00001001", "SHLR2 Rn", shiftConstShr(2)),
		d("0100nnnn00011000", "SHLL8 Rn", shiftConstShl(8)),
		d("0100nnnn00011001", "SHLR8 Rn", shiftConstShr(8)),
		d("0100nnnn00101000", "SHLL16 Rn", shiftConstShl(16)),
		d("0100nnnn00101001", "SHLR16 Rn", shiftConstShr(16)),
		d("0100nnnn00000100", "ROTL Rn", opROTL),
		d("0100nnnn00000101", "ROTR Rn", opROTR),
		d("0100nnnn00100100", "ROTCL Rn", opROTCL),
		d("0100nnnn00100101", "ROTCR Rn", opROTCR),
		d("0100nnnnmmmm1100", "SHAD Rm,Rn", opSHAD),
		d("0100nnnnmmmm1101", "SHLD Rm,Rn", opSHLD),

		// Divide step
		d("0000000000011001", "DIV0U", opDIV0U),
		d("0010nnnnmmmm0111", "DIV0S Rm,Rn", opDIV0S),
		d("0011nnnnmmmm0100", "DIV1 Rm,Rn", opDIV1),

		// Multiply / MAC
		d("0000nnnnmmmm0111", "MUL.L Rm,Rn", opMULL),
		d("0010nnnnmmmm1111", "MULS.W Rm,Rn", opMULSW),
		d("0010nnnnmmmm1110", "MULU.W Rm,Rn", opMULUW),
		d("0011nnnnmmmm1101", "DMULS.L Rm,Rn", opDMULS),
		d("0011nnnnmmmm0101", "DMULU.L Rm,Rn", opDMULU),
		d("0000nnnnmmmm1111", "MAC.L @Rm+,@Rn+", opMACL),
		d("0100nnnnmmmm1111", "MAC.W @Rm+,@Rn+", opMACW),

		// Branch / call
		d("10001001dddddddd", "BT label", opBT),
		d("10001011dddddddd", "BF label", opBF),
		d("10001101dddddddd", "BT/S label", opBTS),
		d("10001111dddddddd", "BF/S label", opBFS),
		d("1010dddddddddddd", "BRA label", opBRA),
		d("1011dddddddddddd", "BSR label", opBSR),
		d("0000nnnn00100011", "BRAF Rn", opBRAF),
		d("0000nnnn00000011", "BSRF Rn", opBSRF),
		d("0100nnnn00101011", "JMP @Rn", opJMP),
		d("0100nnnn00001011", "JSR @Rn", opJSR),
		d("0000000000001011", "RTS", opRTS),
		d("0000000000101011", "RTE", opRTE),
		d("11000011iiiiiiii", "TRAPA #imm", opTRAPA),
		d("0000000000001001", "NOP", opNOP),
		d("0000000000011011", "SLEEP", opSLEEP),

		// Control register transfer (SH-2 subset: SR, GBR, VBR, MAC, PR)
		d("0100nnnn00001110", "LDC Rn,SR", opLDCSR),
		d("0000nnnn00000010", "STC SR,Rn", opSTCSR),
		d("0100nnnn00011110", "LDC Rn,GBR", opLDCGBR),
		d("0000nnnn00010010", "STC GBR,Rn", opSTCGBR),
		d("0100nnnn00101110", "LDC Rn,VBR", opLDCVBR),
		d("0000nnnn00100010", "STC VBR,Rn", opSTCVBR),
		d("0100nnnn00000111", "LDC.L @Rn+,SR", opLDCSRInc),
		d("0100nnnn00000011", "STC.L SR,@-Rn", opSTCSRDec),
		d("0100nnnn00010111", "LDC.L @Rn+,GBR", opLDCGBRInc),
		d("0100nnnn00010011", "STC.L GBR,@-Rn", opSTCGBRDec),
		d("0100nnnn00100111", "LDC.L @Rn+,VBR", opLDCVBRInc),
		d("0100nnnn00100011", "STC.L VBR,@-Rn", opSTCVBRDec),
		d("0100nnnn00001010", "LDS Rn,MACH", opLDSMACH),
		d("0000nnnn00001010", "STS MACH,Rn", opSTSMACH),
		d("0100nnnn00011010", "LDS Rn,MACL", opLDSMACL),
		d("0000nnnn00011010", "STS MACL,Rn", opSTSMACL),
		d("0100nnnn00101010", "LDS Rn,PR", opLDSPR),
		d("0000nnnn00101010", "STS PR,Rn", opSTSPR),
		d("0100nnnn00000110", "LDS.L @Rn+,MACH", opLDSMACHInc),
		d("0100nnnn00000010", "STS.L MACH,@-Rn", opSTSMACHDec),
		d("0100nnnn00010110", "LDS.L @Rn+,MACL", opLDSMACLInc),
		d("0100nnnn00010010", "STS.L MACL,@-Rn", opSTSMACLDec),
		d("0100nnnn00100110", "LDS.L @Rn+,PR", opLDSPRInc),
		d("0100nnnn00100010", "STS.L PR,@-Rn", opSTSPRDec),
	}
}

// sh4Descriptors layers the SH-4-only FPU and privileged-mode extension
// opcodes on top of baseDescriptors.
func sh4Descriptors() []Descriptor {
	return []Descriptor{
		d4("0100nnnn00111110", "LDC Rn,SSR", opLDCSSR),
		d4("0000nnnn00110010", "STC SSR,Rn", opSTCSSR),
		d4("0100nnnn01001110", "LDC Rn,SPC", opLDCSPC),
		d4("0000nnnn01000010", "STC SPC,Rn", opSTCSPC),
		d4("0100nnnn11111010", "LDC Rn,DBR", opLDCDBR),
		d4("0000nnnn11111010", "STC DBR,Rn", opSTCDBR),
		d4("0100nnnn1mmm1110", "LDC Rn,Rm_BANK", opLDCRBANK),
		d4("0000nnnn1mmm0010", "STC Rm_BANK,Rn", opSTCRBANK),
		d4("0100nnnn01011010", "LDS Rn,FPUL", opLDSFPUL),
		d4("0000nnnn01011010", "STS FPUL,Rn", opSTSFPUL),
		d4("0100nnnn01101010", "LDS Rn,FPSCR", opLDSFPSCR),
		d4("0000nnnn01100010", "STS FPSCR,Rn", opSTSFPSCR),

		d4("1111nnnnmmmm0000", "FADD FRm,FRn", opFADD),
		d4("1111nnnnmmmm0001", "FSUB FRm,FRn", opFSUB),
		d4("1111nnnnmmmm0010", "FMUL FRm,FRn", opFMUL),
		d4("1111nnnnmmmm0011", "FDIV FRm,FRn", opFDIV),
		d4("1111nnnnmmmm1110", "FMAC FR0,FRm,FRn", opFMAC),
		d4("1111nnnn01101101", "FSQRT FRn", opFSQRT),
		d4("1111nnnn01001101", "FNEG FRn", opFNEG),
		d4("1111nnnn01011101", "FABS FRn", opFABS),
		d4("1111nnnnmmmm0100", "FCMP/EQ FRm,FRn", opFCMPEQ),
		d4("1111nnnnmmmm0101", "FCMP/GT FRm,FRn", opFCMPGT),
		d4("1111nnnn10001101", "FLDI0 FRn", opFLDI0),
		d4("1111nnnn10011101", "FLDI1 FRn", opFLDI1),
		d4("1111nnnn00011101", "FLDS FRn,FPUL", opFLDS),
		d4("1111nnnn00001101", "FSTS FPUL,FRn", opFSTS),
		d4("1111nnnn00101101", "FLOAT FPUL,FRn", opFLOAT),
		d4("1111nnnn00111101", "FTRC FRn,FPUL", opFTRC),
		d4("1111nnnn10111101", "FCNVDS DRn,FPUL", opFCNVDS),
		d4("1111nnnn10101101", "FCNVSD FPUL,DRn", opFCNVSD),
		d4("1111nnnnmmmm1100", "FMOV FRm,FRn", opFMOV),
		d4("1111nnnnmmmm1010", "FMOVS FRm,@Rn", opFMOVS),
		d4("1111nnnn11111101", "FSCA FPUL,DRn", opFSCA),
		d4("1111nnnn01111101", "FSRRA FRn", opFSRRA),
		d4("1111nnnnmmmm1001", "FIPR FVm,FVn", opFIPR),
		d4("1111nnnn01111111", "FTRV XMTRX,FVn", opFTRV),
	}
}
