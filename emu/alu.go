package emu

import (
	"tlog.app/go/errors"

	"github.com/sarchlab/a32sim/bitfield"
	"github.com/sarchlab/a32sim/insts"
)

// ALU implements A32 data-processing and multiply operations.
//
// The ALU holds no state. Every operation takes the current flags as an
// explicit input (the carry feeds the shifter and ADC/SBC/RSC, the
// overflow is carried through by logical operations) and returns a
// candidate flag set. Committing the candidate is left to the caller.
type ALU struct{}

// NewALU creates a new ALU.
func NewALU() *ALU {
	return &ALU{}
}

// Result is the value and candidate flags of a data-processing operation.
type Result struct {
	Value uint32
	Flags Flags
}

// logical builds the result of a bitwise operation: C from the shifter,
// V unchanged.
func logical(value uint32, shifterCarry bool, cur Flags) Result {
	return Result{Value: value, Flags: resultFlags(value, shifterCarry, cur.V)}
}

// arithmetic builds the result of an AddWithCarry-based operation.
func arithmetic(x, y uint32, carryIn bool) Result {
	value, carry, overflow := AddWithCarry(x, y, carryIn)
	return Result{Value: value, Flags: resultFlags(value, carry, overflow)}
}

// bitwise returns the value of a logical op. MVN and MOV ignore rn.
func bitwise(op insts.Op, rn, op2 uint32) uint32 {
	switch op {
	case insts.OpAND, insts.OpTST:
		return rn & op2
	case insts.OpEOR, insts.OpTEQ:
		return rn ^ op2
	case insts.OpORR:
		return rn | op2
	case insts.OpBIC:
		return rn &^ op2
	case insts.OpMVN:
		return ^op2
	default: // insts.OpMOV
		return op2
	}
}

// compute applies op to rn and the already shifted or expanded operand.
func compute(op insts.Op, rn, op2 uint32, shifterCarry bool, cur Flags) (Result, error) {
	if op.IsLogical() {
		return logical(bitwise(op, rn, op2), shifterCarry, cur), nil
	}

	switch op {
	case insts.OpSUB, insts.OpCMP:
		return arithmetic(rn, ^op2, true), nil
	case insts.OpRSB:
		return arithmetic(^rn, op2, true), nil
	case insts.OpADD, insts.OpCMN:
		return arithmetic(rn, op2, false), nil
	case insts.OpADC:
		return arithmetic(rn, op2, cur.C), nil
	case insts.OpSBC:
		return arithmetic(rn, ^op2, cur.C), nil
	case insts.OpRSC:
		return arithmetic(^rn, op2, cur.C), nil
	default:
		return Result{}, errors.Wrap(ErrUnknownInstruction, "%v is not a data-processing operation", op)
	}
}

// DataProcessing executes op with a shifted register second operand.
func (a *ALU) DataProcessing(op insts.Op, rn, rm uint32, sh Shift, cur Flags) (Result, error) {
	op2, carry, err := sh.Apply(rm, cur.C)
	if err != nil {
		return Result{}, err
	}

	return compute(op, rn, op2, carry, cur)
}

// DataProcessingImm executes op with a modified-immediate second operand.
func (a *ALU) DataProcessingImm(op insts.Op, rn uint32, imm bitfield.Imm12, cur Flags) (Result, error) {
	op2, carry := ExpandImm12(imm, cur.C)

	return compute(op, rn, op2, carry, cur)
}

// mustCompute is used by the named immediate forms, whose op is always a
// data-processing operation. It panics if that ever stops holding.
func mustCompute(r Result, err error) Result {
	if err != nil {
		panic(err)
	}
	return r
}

// AND performs Rd = Rn AND shift(Rm).
func (a *ALU) AND(rn, rm uint32, sh Shift, cur Flags) (Result, error) {
	return a.DataProcessing(insts.OpAND, rn, rm, sh, cur)
}

// EOR performs Rd = Rn EOR shift(Rm).
func (a *ALU) EOR(rn, rm uint32, sh Shift, cur Flags) (Result, error) {
	return a.DataProcessing(insts.OpEOR, rn, rm, sh, cur)
}

// SUB performs Rd = Rn - shift(Rm).
func (a *ALU) SUB(rn, rm uint32, sh Shift, cur Flags) (Result, error) {
	return a.DataProcessing(insts.OpSUB, rn, rm, sh, cur)
}

// RSB performs Rd = shift(Rm) - Rn.
func (a *ALU) RSB(rn, rm uint32, sh Shift, cur Flags) (Result, error) {
	return a.DataProcessing(insts.OpRSB, rn, rm, sh, cur)
}

// ADD performs Rd = Rn + shift(Rm).
func (a *ALU) ADD(rn, rm uint32, sh Shift, cur Flags) (Result, error) {
	return a.DataProcessing(insts.OpADD, rn, rm, sh, cur)
}

// ADC performs Rd = Rn + shift(Rm) + C.
func (a *ALU) ADC(rn, rm uint32, sh Shift, cur Flags) (Result, error) {
	return a.DataProcessing(insts.OpADC, rn, rm, sh, cur)
}

// SBC performs Rd = Rn - shift(Rm) - NOT(C).
func (a *ALU) SBC(rn, rm uint32, sh Shift, cur Flags) (Result, error) {
	return a.DataProcessing(insts.OpSBC, rn, rm, sh, cur)
}

// RSC performs Rd = shift(Rm) - Rn - NOT(C).
func (a *ALU) RSC(rn, rm uint32, sh Shift, cur Flags) (Result, error) {
	return a.DataProcessing(insts.OpRSC, rn, rm, sh, cur)
}

// ORR performs Rd = Rn OR shift(Rm).
func (a *ALU) ORR(rn, rm uint32, sh Shift, cur Flags) (Result, error) {
	return a.DataProcessing(insts.OpORR, rn, rm, sh, cur)
}

// BIC performs Rd = Rn AND NOT shift(Rm).
func (a *ALU) BIC(rn, rm uint32, sh Shift, cur Flags) (Result, error) {
	return a.DataProcessing(insts.OpBIC, rn, rm, sh, cur)
}

// MVN performs Rd = NOT shift(Rm).
func (a *ALU) MVN(rm uint32, sh Shift, cur Flags) (Result, error) {
	return a.DataProcessing(insts.OpMVN, 0, rm, sh, cur)
}

// MOV performs Rd = shift(Rm).
func (a *ALU) MOV(rm uint32, sh Shift, cur Flags) (Result, error) {
	return a.DataProcessing(insts.OpMOV, 0, rm, sh, cur)
}

// ANDImm performs Rd = Rn AND imm.
func (a *ALU) ANDImm(rn uint32, imm bitfield.Imm12, cur Flags) Result {
	return mustCompute(a.DataProcessingImm(insts.OpAND, rn, imm, cur))
}

// EORImm performs Rd = Rn EOR imm.
func (a *ALU) EORImm(rn uint32, imm bitfield.Imm12, cur Flags) Result {
	return mustCompute(a.DataProcessingImm(insts.OpEOR, rn, imm, cur))
}

// SUBImm performs Rd = Rn - imm.
func (a *ALU) SUBImm(rn uint32, imm bitfield.Imm12, cur Flags) Result {
	return mustCompute(a.DataProcessingImm(insts.OpSUB, rn, imm, cur))
}

// RSBImm performs Rd = imm - Rn.
func (a *ALU) RSBImm(rn uint32, imm bitfield.Imm12, cur Flags) Result {
	return mustCompute(a.DataProcessingImm(insts.OpRSB, rn, imm, cur))
}

// ADDImm performs Rd = Rn + imm.
func (a *ALU) ADDImm(rn uint32, imm bitfield.Imm12, cur Flags) Result {
	return mustCompute(a.DataProcessingImm(insts.OpADD, rn, imm, cur))
}

// ADCImm performs Rd = Rn + imm + C.
func (a *ALU) ADCImm(rn uint32, imm bitfield.Imm12, cur Flags) Result {
	return mustCompute(a.DataProcessingImm(insts.OpADC, rn, imm, cur))
}

// SBCImm performs Rd = Rn - imm - NOT(C).
func (a *ALU) SBCImm(rn uint32, imm bitfield.Imm12, cur Flags) Result {
	return mustCompute(a.DataProcessingImm(insts.OpSBC, rn, imm, cur))
}

// RSCImm performs Rd = imm - Rn - NOT(C).
func (a *ALU) RSCImm(rn uint32, imm bitfield.Imm12, cur Flags) Result {
	return mustCompute(a.DataProcessingImm(insts.OpRSC, rn, imm, cur))
}

// ORRImm performs Rd = Rn OR imm.
func (a *ALU) ORRImm(rn uint32, imm bitfield.Imm12, cur Flags) Result {
	return mustCompute(a.DataProcessingImm(insts.OpORR, rn, imm, cur))
}

// BICImm performs Rd = Rn AND NOT imm.
func (a *ALU) BICImm(rn uint32, imm bitfield.Imm12, cur Flags) Result {
	return mustCompute(a.DataProcessingImm(insts.OpBIC, rn, imm, cur))
}

// MVNImm performs Rd = NOT imm.
func (a *ALU) MVNImm(imm bitfield.Imm12, cur Flags) Result {
	return mustCompute(a.DataProcessingImm(insts.OpMVN, 0, imm, cur))
}

// MOVImm performs Rd = imm.
func (a *ALU) MOVImm(imm bitfield.Imm12, cur Flags) Result {
	return mustCompute(a.DataProcessingImm(insts.OpMOV, 0, imm, cur))
}

// TST sets flags on Rn AND shift(Rm).
func (a *ALU) TST(rn, rm uint32, sh Shift, cur Flags) (Flags, error) {
	r, err := a.DataProcessing(insts.OpTST, rn, rm, sh, cur)
	return r.Flags, err
}

// TEQ sets flags on Rn EOR shift(Rm).
func (a *ALU) TEQ(rn, rm uint32, sh Shift, cur Flags) (Flags, error) {
	r, err := a.DataProcessing(insts.OpTEQ, rn, rm, sh, cur)
	return r.Flags, err
}

// CMP sets flags on Rn - shift(Rm).
func (a *ALU) CMP(rn, rm uint32, sh Shift, cur Flags) (Flags, error) {
	r, err := a.DataProcessing(insts.OpCMP, rn, rm, sh, cur)
	return r.Flags, err
}

// CMN sets flags on Rn + shift(Rm).
func (a *ALU) CMN(rn, rm uint32, sh Shift, cur Flags) (Flags, error) {
	r, err := a.DataProcessing(insts.OpCMN, rn, rm, sh, cur)
	return r.Flags, err
}

// TSTImm sets flags on Rn AND imm.
func (a *ALU) TSTImm(rn uint32, imm bitfield.Imm12, cur Flags) Flags {
	return mustCompute(a.DataProcessingImm(insts.OpTST, rn, imm, cur)).Flags
}

// TEQImm sets flags on Rn EOR imm.
func (a *ALU) TEQImm(rn uint32, imm bitfield.Imm12, cur Flags) Flags {
	return mustCompute(a.DataProcessingImm(insts.OpTEQ, rn, imm, cur)).Flags
}

// CMPImm sets flags on Rn - imm.
func (a *ALU) CMPImm(rn uint32, imm bitfield.Imm12, cur Flags) Flags {
	return mustCompute(a.DataProcessingImm(insts.OpCMP, rn, imm, cur)).Flags
}

// CMNImm sets flags on Rn + imm.
func (a *ALU) CMNImm(rn uint32, imm bitfield.Imm12, cur Flags) Flags {
	return mustCompute(a.DataProcessingImm(insts.OpCMN, rn, imm, cur)).Flags
}

// ADR computes a PC-relative address: the word-aligned PC plus or minus
// the expanded immediate. It produces no flags.
func (a *ALU) ADR(pc uint32, imm bitfield.Imm12, add bool) uint32 {
	base := pc &^ 3
	offset, _ := ExpandImm12(imm, false)

	if add {
		return base + offset
	}
	return base - offset
}
