// Package main provides the command-line entry point for A32Sim.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/xyproto/env/v2"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/sarchlab/a32sim/emu"
	"github.com/sarchlab/a32sim/loader"
	"github.com/sarchlab/a32sim/timing/cache"
	"github.com/sarchlab/a32sim/timing/core"
	"github.com/sarchlab/a32sim/timing/latency"
)

// settings holds the resolved command-line configuration.
type settings struct {
	timing          bool
	configPath      string
	verbose         bool
	maxInstructions uint64
	trace           string
}

var (
	timingFlag = flag.Bool("timing", false, "Enable timing simulation mode")
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	verbose    = flag.Bool("v", false, "Verbose output")
	maxInsts   = flag.Uint64("max-instructions", 0, "Stop after this many instructions (0 means no limit)")
	trace      = flag.String("trace", "", "Comma-separated trace topics (exec, timing)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: a32sim [options] <program.elf>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := applyEnv(settings{
		timing:          *timingFlag,
		configPath:      *configPath,
		verbose:         *verbose,
		maxInstructions: *maxInsts,
		trace:           *trace,
	})

	if s.trace != "" {
		tlog.SetVerbosity(s.trace)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if s.verbose {
		tlog.Printw("loaded", "path", programPath, "entry", prog.EntryPoint, "segments", len(prog.Segments))
	}

	var exitCode int64
	if s.timing {
		exitCode, err = runTiming(prog, programPath, s, os.Stdout)
	} else {
		exitCode, err = runEmulation(prog, programPath, s, os.Stdout)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	os.Exit(int(exitCode))
}

// applyEnv overrides settings with the A32SIM_* environment variables that
// are set. It reads env's cached snapshot of the environment, so a change
// made with os.Setenv is only seen after env.Load.
func applyEnv(s settings) settings {
	if env.Has("A32SIM_CONFIG") {
		s.configPath = env.Str("A32SIM_CONFIG")
	}
	if env.Has("A32SIM_TIMING") {
		s.timing = env.Bool("A32SIM_TIMING")
	}
	if env.Has("A32SIM_VERBOSE") {
		s.verbose = env.Bool("A32SIM_VERBOSE")
	}
	if env.Has("A32SIM_MAX_INSTRUCTIONS") {
		// 0 restores unlimited; an unparsable value keeps the flag.
		s.maxInstructions = env.UInt64("A32SIM_MAX_INSTRUCTIONS", s.maxInstructions)
	}
	if env.Has("A32SIM_TRACE") {
		s.trace = env.Str("A32SIM_TRACE")
	}

	return s
}

// loadTimingConfig returns the timing config at path, or the defaults when
// path is empty.
func loadTimingConfig(path string) (*latency.TimingConfig, error) {
	if path == "" {
		return latency.DefaultTimingConfig(), nil
	}

	config, err := latency.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "timing config %s", path)
	}

	return config, nil
}

// newEmulator builds an emulator with every loadable segment copied into
// memory and the BSS tail of each segment zero-filled.
func newEmulator(prog *loader.Program, s settings, stdout io.Writer) *emu.Emulator {
	memory := emu.NewMemory()

	for _, seg := range prog.Segments {
		memory.LoadProgram(seg.VirtAddr, seg.Data)
		for i := uint32(len(seg.Data)); i < seg.MemSize; i++ {
			memory.Write8(seg.VirtAddr+i, 0)
		}
	}

	emulator := emu.NewEmulator(
		emu.WithStdout(stdout),
		emu.WithStackPointer(prog.InitialSP),
		emu.WithMaxInstructions(s.maxInstructions),
	)
	emulator.LoadProgram(prog.EntryPoint, memory)

	return emulator
}

// runEmulation runs the program in functional emulation mode.
func runEmulation(prog *loader.Program, programPath string, s settings, out io.Writer) (int64, error) {
	emulator := newEmulator(prog, s, out)

	for {
		result := emulator.Step()
		if result.Err != nil {
			return -1, errors.Wrap(result.Err, "emulating %s", programPath)
		}

		if result.Exited {
			if s.verbose {
				fmt.Fprintf(out, "\nProgram: %s\n", programPath)
				fmt.Fprintf(out, "Exit code: %d\n", result.ExitCode)
				fmt.Fprintf(out, "Instructions executed: %d\n", emulator.InstructionCount())
			}

			return result.ExitCode, nil
		}
	}
}

// runTiming runs the program on the timing core and prints a report.
func runTiming(prog *loader.Program, programPath string, s settings, out io.Writer) (int64, error) {
	timingConfig, err := loadTimingConfig(s.configPath)
	if err != nil {
		return -1, err
	}

	c, err := core.NewCore(newEmulator(prog, s, out), timingConfig, cache.DefaultConfig())
	if err != nil {
		return -1, err
	}

	exitCode, err := c.Run()
	if err != nil {
		return -1, errors.Wrap(err, "simulating %s", programPath)
	}

	printReport(out, programPath, exitCode, c)

	return exitCode, nil
}

func printReport(out io.Writer, programPath string, exitCode int64, c *core.Core) {
	stats := c.Stats()
	icache := c.ICache().Stats()

	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "Program: %s\n", programPath)
	fmt.Fprintf(out, "Exit code: %d\n", exitCode)
	fmt.Fprintf(out, "Total Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(out, "Total Cycles: %d\n", stats.Cycles)
	fmt.Fprintf(out, "CPI: %.2f\n", stats.CPI())
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "Instruction cache:\n")
	fmt.Fprintf(out, "  Hits:      %d\n", stats.FetchHits)
	fmt.Fprintf(out, "  Misses:    %d\n", stats.FetchMisses)
	fmt.Fprintf(out, "  Evictions: %d\n", icache.Evictions)
	fmt.Fprintf(out, "  Hit rate:  %5.1f%%\n", 100*icache.HitRate())
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "Control flow redirects: %d\n", stats.Redirects)
}
