package insts

import "github.com/sarchlab/a32sim/bitfield"

// Decoder decodes A32 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new A32 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// field returns bits [start, end) of word.
func field(word uint32, start, end int) uint32 {
	v, _ := bitfield.ExtractBits(bitfield.Word(word), start, end)
	return uint32(v)
}

// Decode decodes a 32-bit A32 instruction word.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Op: OpUnknown, Format: FormatUnknown}

	inst.Cond = Cond(field(word, 28, 32))
	if inst.Cond == CondNV {
		// Unconditional space (BLX, PLD, ...) is not supported.
		return inst
	}

	switch {
	case d.isMultiply(word):
		d.decodeMultiply(word, inst)
	case d.isDataProcessingImm(word):
		d.decodeDataProcessingImm(word, inst)
	case d.isDataProcessingReg(word):
		d.decodeDataProcessingReg(word, inst)
	case d.isBranch(word):
		d.decodeBranch(word, inst)
	case d.isSVC(word):
		d.decodeSVC(word, inst)
	}

	return inst
}

// isMultiply checks for the multiply encodings.
// Format: cond | 0000 | op[23:21] | S | Rd | Ra | Rm | 1001 | Rn
func (d *Decoder) isMultiply(word uint32) bool {
	return field(word, 24, 28) == 0b0000 && field(word, 4, 8) == 0b1001
}

// decodeMultiply decodes MUL/MLA/MLS and the long multiply family.
func (d *Decoder) decodeMultiply(word uint32, inst *Instruction) {
	op := field(word, 21, 24)        // bits [23:21]
	s := field(word, 20, 21) == 1    // bit 20
	hi := uint8(field(word, 16, 20)) // bits [19:16]: Rd or RdHi
	lo := uint8(field(word, 12, 16)) // bits [15:12]: Ra or RdLo

	inst.Rm = uint8(field(word, 8, 12)) // bits [11:8]
	inst.Rn = uint8(field(word, 0, 4))  // bits [3:0]
	inst.SetFlags = s

	switch op {
	case 0b000:
		inst.Op = OpMUL
	case 0b001:
		inst.Op = OpMLA
	case 0b010:
		if s {
			return
		}
		inst.Op = OpUMAAL
	case 0b011:
		if s {
			return
		}
		inst.Op = OpMLS
	case 0b100:
		inst.Op = OpUMULL
	case 0b101:
		inst.Op = OpUMLAL
	case 0b110:
		inst.Op = OpSMULL
	case 0b111:
		inst.Op = OpSMLAL
	}

	if inst.Op == OpUnknown {
		return
	}

	switch inst.Op {
	case OpMUL, OpMLA, OpMLS:
		inst.Format = FormatMultiply
		inst.Rd = hi
		inst.Ra = lo
	default:
		inst.Format = FormatMultiplyLong
		inst.RdHi = hi
		inst.RdLo = lo
	}
}

// isDataProcessingImm checks for data processing with a modified immediate.
// Format: cond | 001 | opcode | S | Rn | Rd | imm12
func (d *Decoder) isDataProcessingImm(word uint32) bool {
	return field(word, 25, 28) == 0b001
}

// decodeDataProcessingImm decodes data processing (immediate) instructions.
func (d *Decoder) decodeDataProcessingImm(word uint32, inst *Instruction) {
	opcode := field(word, 21, 25) // bits [24:21]
	s := field(word, 20, 21) == 1 // bit 20

	if !d.setDataProcessingOp(opcode, s, inst) {
		return
	}

	inst.Format = FormatDPImm
	inst.Rn = uint8(field(word, 16, 20))
	inst.Rd = uint8(field(word, 12, 16))
	inst.Imm12 = bitfield.NewImm12(field(word, 0, 12))

	// ADD/SUB Rd, PC, #imm without S is the ADR alias.
	if inst.Rn == 15 && !s && (inst.Op == OpADD || inst.Op == OpSUB) {
		inst.Add = inst.Op == OpADD
		inst.Op = OpADR
		inst.Format = FormatADR
	}
}

// isDataProcessingReg checks for data processing with a register operand.
// Immediate shift:  cond | 000 | opcode | S | Rn | Rd | imm5 | type | 0 | Rm
// Register shift:   cond | 000 | opcode | S | Rn | Rd | Rs | 0 | type | 1 | Rm
func (d *Decoder) isDataProcessingReg(word uint32) bool {
	if field(word, 25, 28) != 0b000 {
		return false
	}
	// bit 4 set with bit 7 set is the multiply/extra load-store space
	return field(word, 4, 5) == 0 || field(word, 7, 8) == 0
}

// decodeDataProcessingReg decodes data processing (register) instructions.
func (d *Decoder) decodeDataProcessingReg(word uint32, inst *Instruction) {
	opcode := field(word, 21, 25)
	s := field(word, 20, 21) == 1

	if !d.setDataProcessingOp(opcode, s, inst) {
		return
	}

	inst.Rn = uint8(field(word, 16, 20))
	inst.Rd = uint8(field(word, 12, 16))
	inst.Rm = uint8(field(word, 0, 4))
	inst.ShiftType = ShiftType(field(word, 5, 7))

	if field(word, 4, 5) == 0 {
		inst.Format = FormatDPImmShift
		inst.ShiftAmount = uint8(field(word, 7, 12))
	} else {
		inst.Format = FormatDPRegShift
		inst.Rs = uint8(field(word, 8, 12))
	}
}

// setDataProcessingOp fills in the Op and S bit. Compare forms without S
// belong to the miscellaneous space and are rejected.
func (d *Decoder) setDataProcessingOp(opcode uint32, s bool, inst *Instruction) bool {
	op := dataProcessingOps[opcode&0xF]
	if op.IsCompare() && !s {
		return false
	}

	inst.Op = op
	inst.SetFlags = s

	return true
}

// isBranch checks for B and BL.
// Format: cond | 101 | L | imm24
func (d *Decoder) isBranch(word uint32) bool {
	return field(word, 25, 28) == 0b101
}

// decodeBranch decodes B and BL instructions.
func (d *Decoder) decodeBranch(word uint32, inst *Instruction) {
	inst.Format = FormatBranch

	imm24 := field(word, 0, 24)

	// Sign-extend imm24 and multiply by 4
	offset := int32(imm24<<8) >> 6
	inst.BranchOffset = offset

	if field(word, 24, 25) == 0 {
		inst.Op = OpB
	} else {
		inst.Op = OpBL
	}
}

// isSVC checks for supervisor call.
// Format: cond | 1111 | imm24
func (d *Decoder) isSVC(word uint32) bool {
	return field(word, 24, 28) == 0b1111
}

// decodeSVC decodes the SVC instruction.
func (d *Decoder) decodeSVC(word uint32, inst *Instruction) {
	inst.Format = FormatSVC
	inst.Op = OpSVC
	inst.Imm = field(word, 0, 24)
}
