package emu

import "github.com/sarchlab/a32sim/insts"

// BranchUnit implements A32 branch operations.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// B performs a PC-relative branch. The offset is relative to PC+8.
func (b *BranchUnit) B(offset int32) {
	b.regFile.SetPC(b.target(offset))
}

// BL performs a branch with link. The return address (PC + 4) is saved
// to the link register.
func (b *BranchUnit) BL(offset int32) {
	target := b.target(offset)
	b.regFile.WriteReg(RegLR, b.regFile.PC()+4)
	b.regFile.SetPC(target)
}

func (b *BranchUnit) target(offset int32) uint32 {
	return uint32(int32(b.regFile.PC()+8) + offset)
}

// CheckCondition evaluates a condition code against the committed flags.
func (b *BranchUnit) CheckCondition(cond insts.Cond) bool {
	return ConditionPassed(cond, b.regFile.Flags())
}

// ConditionPassed evaluates an A32 condition code against a flag set.
func ConditionPassed(cond insts.Cond, f Flags) bool {
	switch cond {
	case insts.CondEQ:
		return f.Z
	case insts.CondNE:
		return !f.Z
	case insts.CondCS:
		return f.C
	case insts.CondCC:
		return !f.C
	case insts.CondMI:
		return f.N
	case insts.CondPL:
		return !f.N
	case insts.CondVS:
		return f.V
	case insts.CondVC:
		return !f.V
	case insts.CondHI:
		return f.C && !f.Z
	case insts.CondLS:
		return !f.C || f.Z
	case insts.CondGE:
		return f.N == f.V
	case insts.CondLT:
		return f.N != f.V
	case insts.CondGT:
		return !f.Z && (f.N == f.V)
	case insts.CondLE:
		return f.Z || (f.N != f.V)
	case insts.CondAL, insts.CondNV:
		return true
	default:
		return false
	}
}
