package latency

import (
	"encoding/json"
	"os"

	"tlog.app/go/errors"
)

// TimingConfig holds latency values for different instruction classes.
// Values approximate a simple in-order ARMv7-A core.
type TimingConfig struct {
	// ALULatency is the execution latency for data-processing instructions
	// with an immediate or immediate-shifted register operand. Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// RegisterShiftLatency is the latency for data-processing instructions
	// whose shift amount comes from a register. Default: 2 cycles.
	RegisterShiftLatency uint64 `json:"register_shift_latency"`

	// MultiplyLatency is the latency for MUL, MLA and MLS. Default: 3 cycles.
	MultiplyLatency uint64 `json:"multiply_latency"`

	// LongMultiplyLatency is the latency for the 64-bit multiply family.
	// Default: 4 cycles.
	LongMultiplyLatency uint64 `json:"long_multiply_latency"`

	// BranchLatency is the execution latency for B and BL. Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// BranchTakenPenalty is the extra cycles paid when a branch, or a write
	// to the PC, redirects fetch. Default: 2 cycles.
	BranchTakenPenalty uint64 `json:"branch_taken_penalty"`

	// SyscallLatency is the latency for SVC (handling is external).
	// Default: 1 cycle.
	SyscallLatency uint64 `json:"syscall_latency"`

	// ICacheHitLatency is the instruction fetch latency on a cache hit.
	// Default: 1 cycle.
	ICacheHitLatency uint64 `json:"icache_hit_latency"`

	// MemoryLatency is the main memory access latency paid on an
	// instruction cache miss. Default: 100 cycles.
	MemoryLatency uint64 `json:"memory_latency"`
}

// DefaultTimingConfig returns a TimingConfig with default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:           1,
		RegisterShiftLatency: 2,
		MultiplyLatency:      3,
		LongMultiplyLatency:  4,
		BranchLatency:        1,
		BranchTakenPenalty:   2,
		SyscallLatency:       1,
		ICacheHitLatency:     1,
		MemoryLatency:        100,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read timing config file")
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse timing config")
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to serialize timing config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write timing config file")
	}

	return nil
}

// Validate checks that all execution latencies are valid (> 0).
func (c *TimingConfig) Validate() error {
	if c.ALULatency == 0 {
		return errors.New("alu_latency must be > 0")
	}
	if c.RegisterShiftLatency < c.ALULatency {
		return errors.New("register_shift_latency must be >= alu_latency")
	}
	if c.MultiplyLatency == 0 {
		return errors.New("multiply_latency must be > 0")
	}
	if c.LongMultiplyLatency < c.MultiplyLatency {
		return errors.New("long_multiply_latency must be >= multiply_latency")
	}
	if c.BranchLatency == 0 {
		return errors.New("branch_latency must be > 0")
	}
	if c.SyscallLatency == 0 {
		return errors.New("syscall_latency must be > 0")
	}
	if c.ICacheHitLatency == 0 {
		return errors.New("icache_hit_latency must be > 0")
	}
	return nil
}

// Clone returns a copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
