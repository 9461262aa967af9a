// Package latency provides instruction timing models for the A32 timing core.
//
// The latency values can be configured via TimingConfig.
package latency

import (
	"github.com/sarchlab/a32sim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given instruction.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch {
	case t.IsLongMultiplyOp(inst):
		return t.config.LongMultiplyLatency
	case t.IsMultiplyOp(inst):
		return t.config.MultiplyLatency
	case t.IsBranchOp(inst):
		return t.config.BranchLatency
	case inst.Op == insts.OpSVC:
		return t.config.SyscallLatency
	case inst.Format == insts.FormatDPRegShift:
		return t.config.RegisterShiftLatency
	case inst.Format == insts.FormatDPImmShift, inst.Format == insts.FormatDPImm,
		inst.Format == insts.FormatADR:
		return t.config.ALULatency
	default:
		return 1
	}
}

// IsMultiplyOp returns true for every multiply instruction, 32- or 64-bit.
func (t *Table) IsMultiplyOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Format == insts.FormatMultiply || inst.Format == insts.FormatMultiplyLong
}

// IsLongMultiplyOp returns true if the instruction produces a 64-bit result.
func (t *Table) IsLongMultiplyOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Format == insts.FormatMultiplyLong
}

// IsBranchOp returns true if the instruction is a branch operation.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpB || inst.Op == insts.OpBL
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
