package benchmarks

import (
	"encoding/binary"

	"github.com/sarchlab/a32sim/insts"
)

// condAL is the always condition in bits [31:28].
const condAL = uint32(insts.CondAL) << 28

var dpOpcodes = map[insts.Op]uint32{
	insts.OpAND: 0b0000, insts.OpEOR: 0b0001, insts.OpSUB: 0b0010, insts.OpRSB: 0b0011,
	insts.OpADD: 0b0100, insts.OpADC: 0b0101, insts.OpSBC: 0b0110, insts.OpRSC: 0b0111,
	insts.OpTST: 0b1000, insts.OpTEQ: 0b1001, insts.OpCMP: 0b1010, insts.OpCMN: 0b1011,
	insts.OpORR: 0b1100, insts.OpMOV: 0b1101, insts.OpBIC: 0b1110, insts.OpMVN: 0b1111,
}

var multiplyOpcodes = map[insts.Op]uint32{
	insts.OpMUL: 0b000, insts.OpMLA: 0b001, insts.OpUMAAL: 0b010, insts.OpMLS: 0b011,
	insts.OpUMULL: 0b100, insts.OpUMLAL: 0b101, insts.OpSMULL: 0b110, insts.OpSMLAL: 0b111,
}

// BuildProgram assembles instruction words into a little-endian byte slice.
func BuildProgram(instrs ...uint32) []byte {
	program := make([]byte, 0, len(instrs)*4)
	for _, inst := range instrs {
		program = binary.LittleEndian.AppendUint32(program, inst)
	}
	return program
}

func sBit(setFlags bool) uint32 {
	if setFlags {
		return 1 << 20
	}
	return 0
}

// EncodeDPImm encodes a data-processing instruction with a modified
// immediate: op{s} rd, rn, #imm12.
func EncodeDPImm(op insts.Op, setFlags bool, rd, rn uint8, imm12 uint16) uint32 {
	return condAL | 1<<25 | dpOpcodes[op]<<21 | sBit(setFlags) |
		uint32(rn&0xF)<<16 | uint32(rd&0xF)<<12 | uint32(imm12&0xFFF)
}

// EncodeDPReg encodes op{s} rd, rn, rm, <shift> #amount.
func EncodeDPReg(op insts.Op, setFlags bool, rd, rn, rm uint8, shift insts.ShiftType, amount uint8) uint32 {
	return condAL | dpOpcodes[op]<<21 | sBit(setFlags) |
		uint32(rn&0xF)<<16 | uint32(rd&0xF)<<12 |
		uint32(amount&0x1F)<<7 | uint32(shift&0x3)<<5 | uint32(rm&0xF)
}

// EncodeDPRegShift encodes op{s} rd, rn, rm, <shift> rs.
func EncodeDPRegShift(op insts.Op, setFlags bool, rd, rn, rm uint8, shift insts.ShiftType, rs uint8) uint32 {
	return condAL | dpOpcodes[op]<<21 | sBit(setFlags) |
		uint32(rn&0xF)<<16 | uint32(rd&0xF)<<12 |
		uint32(rs&0xF)<<8 | uint32(shift&0x3)<<5 | 1<<4 | uint32(rm&0xF)
}

// EncodeMultiply encodes the multiply family. For MUL, MLA and MLS, hi is
// Rd and lo is Ra; for the long forms they are RdHi and RdLo.
func EncodeMultiply(op insts.Op, setFlags bool, hi, lo, rn, rm uint8) uint32 {
	return condAL | multiplyOpcodes[op]<<21 | sBit(setFlags) |
		uint32(hi&0xF)<<16 | uint32(lo&0xF)<<12 |
		uint32(rm&0xF)<<8 | 0b1001<<4 | uint32(rn&0xF)
}

// EncodeB encodes B{cond} with a byte offset relative to PC+8.
func EncodeB(cond insts.Cond, offset int32) uint32 {
	return uint32(cond)<<28 | 0b101<<25 | uint32(offset>>2)&0xFFFFFF
}

// EncodeBL encodes BL with a byte offset relative to PC+8.
func EncodeBL(offset int32) uint32 {
	return condAL | 0b1011<<24 | uint32(offset>>2)&0xFFFFFF
}

// EncodeSVC encodes SVC #imm24.
func EncodeSVC(imm uint32) uint32 {
	return condAL | 0b1111<<24 | imm&0xFFFFFF
}
