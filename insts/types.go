package insts

import "github.com/sarchlab/a32sim/bitfield"

// Op represents an A32 opcode.
type Op uint16

// A32 opcodes.
const (
	OpUnknown Op = iota
	OpAND
	OpEOR
	OpSUB
	OpRSB
	OpADD
	OpADC
	OpSBC
	OpRSC
	OpTST
	OpTEQ
	OpCMP
	OpCMN
	OpORR
	OpMOV
	OpBIC
	OpMVN
	OpADR
	OpMUL
	OpMLA
	OpMLS
	OpUMAAL
	OpUMULL
	OpUMLAL
	OpSMULL
	OpSMLAL
	OpB
	OpBL
	OpSVC
)

var opNames = [...]string{
	OpUnknown: "unknown",
	OpAND:     "and",
	OpEOR:     "eor",
	OpSUB:     "sub",
	OpRSB:     "rsb",
	OpADD:     "add",
	OpADC:     "adc",
	OpSBC:     "sbc",
	OpRSC:     "rsc",
	OpTST:     "tst",
	OpTEQ:     "teq",
	OpCMP:     "cmp",
	OpCMN:     "cmn",
	OpORR:     "orr",
	OpMOV:     "mov",
	OpBIC:     "bic",
	OpMVN:     "mvn",
	OpADR:     "adr",
	OpMUL:     "mul",
	OpMLA:     "mla",
	OpMLS:     "mls",
	OpUMAAL:   "umaal",
	OpUMULL:   "umull",
	OpUMLAL:   "umlal",
	OpSMULL:   "smull",
	OpSMLAL:   "smlal",
	OpB:       "b",
	OpBL:      "bl",
	OpSVC:     "svc",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "unknown"
}

// dataProcessingOps maps the 4-bit data-processing opcode field to an Op.
var dataProcessingOps = [16]Op{
	OpAND, OpEOR, OpSUB, OpRSB, OpADD, OpADC, OpSBC, OpRSC,
	OpTST, OpTEQ, OpCMP, OpCMN, OpORR, OpMOV, OpBIC, OpMVN,
}

// IsCompare returns true for the flag-only forms that discard their result.
func (op Op) IsCompare() bool {
	switch op {
	case OpTST, OpTEQ, OpCMP, OpCMN:
		return true
	default:
		return false
	}
}

// IsLogical returns true for operations whose carry comes from the shifter.
func (op Op) IsLogical() bool {
	switch op {
	case OpAND, OpEOR, OpTST, OpTEQ, OpORR, OpMOV, OpBIC, OpMVN:
		return true
	default:
		return false
	}
}

// IsUnary returns true for operations that ignore Rn.
func (op Op) IsUnary() bool {
	return op == OpMOV || op == OpMVN
}

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatDPImmShift   // Data processing, register shifted by immediate
	FormatDPRegShift   // Data processing, register shifted by register
	FormatDPImm        // Data processing, modified immediate
	FormatADR          // ADD/SUB immediate with Rn = PC
	FormatMultiply     // MUL, MLA, MLS
	FormatMultiplyLong // UMAAL, UMULL, UMLAL, SMULL, SMLAL
	FormatBranch       // B, BL
	FormatSVC          // Supervisor call
)

// Cond represents an A32 condition code.
type Cond uint8

// A32 condition codes.
const (
	CondEQ Cond = 0b0000 // Equal (Z == 1)
	CondNE Cond = 0b0001 // Not Equal (Z == 0)
	CondCS Cond = 0b0010 // Carry Set / Unsigned higher or same (C == 1)
	CondCC Cond = 0b0011 // Carry Clear / Unsigned lower (C == 0)
	CondMI Cond = 0b0100 // Minus / Negative (N == 1)
	CondPL Cond = 0b0101 // Plus / Positive or zero (N == 0)
	CondVS Cond = 0b0110 // Overflow (V == 1)
	CondVC Cond = 0b0111 // No overflow (V == 0)
	CondHI Cond = 0b1000 // Unsigned higher (C == 1 && Z == 0)
	CondLS Cond = 0b1001 // Unsigned lower or same (C == 0 || Z == 1)
	CondGE Cond = 0b1010 // Signed greater than or equal (N == V)
	CondLT Cond = 0b1011 // Signed less than (N != V)
	CondGT Cond = 0b1100 // Signed greater than (Z == 0 && N == V)
	CondLE Cond = 0b1101 // Signed less than or equal (Z == 1 || N != V)
	CondAL Cond = 0b1110 // Always (unconditional)
	CondNV Cond = 0b1111 // Unconditional instruction space
)

// ShiftType represents a shift type for register operands.
type ShiftType uint8

// Shift types. ShiftROR with an amount of zero is RRX.
const (
	ShiftLSL ShiftType = 0b00 // Logical shift left
	ShiftLSR ShiftType = 0b01 // Logical shift right
	ShiftASR ShiftType = 0b10 // Arithmetic shift right
	ShiftROR ShiftType = 0b11 // Rotate right
)

var shiftNames = [...]string{"lsl", "lsr", "asr", "ror"}

func (t ShiftType) String() string {
	if int(t) < len(shiftNames) {
		return shiftNames[t]
	}
	return "unknown"
}

// Valid reports whether t is one of the four shift types.
func (t ShiftType) Valid() bool {
	return t <= ShiftROR
}

// Instruction represents a decoded A32 instruction.
type Instruction struct {
	Op     Op     // Operation code
	Format Format // Encoding format
	Cond   Cond   // Condition field

	// Common fields
	SetFlags bool  // true if instruction sets condition flags (S suffix)
	Rd       uint8 // Destination register
	Rn       uint8 // First source register
	Rm       uint8 // Second source register

	// Register-specified shift and multiply operands
	Rs   uint8 // Shift-amount register
	Ra   uint8 // Accumulator register (MLA, MLS)
	RdHi uint8 // High destination (long multiply)
	RdLo uint8 // Low destination (long multiply)

	// Immediate operand
	Imm12 bitfield.Imm12 // Modified immediate
	Imm   uint32         // SVC comment field
	Add   bool           // ADR direction: true adds the offset to the aligned PC

	// Branch fields
	BranchOffset int32 // Signed branch offset in bytes, relative to PC+8

	// Shift for register operand
	ShiftType   ShiftType // Type of shift applied to Rm
	ShiftAmount uint8     // Literal shift amount (imm5)
}
