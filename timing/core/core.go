// Package core provides an in-order timing model for A32 programs.
// It drives the functional emulator one instruction at a time and charges
// fetch latency from an instruction cache and execute latency from a
// latency table.
package core

import (
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/sarchlab/a32sim/emu"
	"github.com/sarchlab/a32sim/timing/cache"
	"github.com/sarchlab/a32sim/timing/latency"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// FetchHits is the number of instruction fetches that hit in the i-cache.
	FetchHits uint64
	// FetchMisses is the number of instruction fetches that missed.
	FetchMisses uint64
	// Redirects is the number of instructions that changed control flow.
	Redirects uint64
}

// CPI returns cycles per retired instruction, or 0 before the first one.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Core is an in-order, one-instruction-at-a-time timing core.
type Core struct {
	emulator *emu.Emulator
	icache   *cache.Cache
	table    *latency.Table

	stats    Stats
	halted   bool
	exitCode int64
}

// NewCore creates a core around an emulator. The i-cache geometry comes from
// cacheConfig; its hit and miss latencies come from the timing config.
func NewCore(
	emulator *emu.Emulator,
	timing *latency.TimingConfig,
	cacheConfig cache.Config,
) (*Core, error) {
	if err := timing.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid timing config")
	}

	cacheConfig.HitLatency = timing.ICacheHitLatency
	cacheConfig.MissLatency = timing.ICacheHitLatency + timing.MemoryLatency

	icache, err := cache.New(cacheConfig, cache.NewMemoryBacking(emulator.Memory()))
	if err != nil {
		return nil, err
	}

	return &Core{
		emulator: emulator,
		icache:   icache,
		table:    latency.NewTableWithConfig(timing),
	}, nil
}

// Emulator returns the functional emulator the core drives.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// ICache returns the instruction cache.
func (c *Core) ICache() *cache.Cache {
	return c.icache
}

// Halted returns true if the program has exited.
func (c *Core) Halted() bool {
	return c.halted
}

// ExitCode returns the exit code if the core has halted.
func (c *Core) ExitCode() int64 {
	return c.exitCode
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	return c.stats
}

// Step retires one instruction and returns the cycles it cost.
func (c *Core) Step() (uint64, error) {
	if c.halted {
		return 0, nil
	}

	regFile := c.emulator.RegFile()
	pc := regFile.PC()

	fetch := c.icache.Fetch(pc)
	if fetch.Hit {
		c.stats.FetchHits++
	} else {
		c.stats.FetchMisses++
		tlog.V("timing").Printw("icache miss", "pc", pc, "evicted", fetch.Evicted)
	}

	result := c.emulator.Step()
	if result.Err != nil {
		return 0, result.Err
	}

	cycles := fetch.Latency + c.table.GetLatency(result.Inst)

	if result.Exited {
		c.halted = true
		c.exitCode = result.ExitCode
	} else if regFile.PC() != pc+4 {
		c.stats.Redirects++
		cycles += c.table.Config().BranchTakenPenalty
	}

	c.stats.Instructions++
	c.stats.Cycles += cycles

	return cycles, nil
}

// Run executes until the program exits or an error occurs.
func (c *Core) Run() (int64, error) {
	for !c.halted {
		if _, err := c.Step(); err != nil {
			return -1, err
		}
	}

	return c.exitCode, nil
}

// RunCycles executes whole instructions until at least the given number of
// cycles has elapsed. It returns true if the core is still running.
func (c *Core) RunCycles(cycles uint64) (bool, error) {
	target := c.stats.Cycles + cycles

	for !c.halted && c.stats.Cycles < target {
		if _, err := c.Step(); err != nil {
			return false, err
		}
	}

	return !c.halted, nil
}

// Reset clears statistics, halt state and the i-cache. Architectural state
// in the emulator is left alone.
func (c *Core) Reset() {
	c.icache.Reset()
	c.stats = Stats{}
	c.halted = false
	c.exitCode = 0
}
