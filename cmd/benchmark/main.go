// Command benchmark runs the A32Sim timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv         Output results in CSV format (default: human-readable)
//	-json        Output results as a JSON report
//	-core        Run only the three core benchmarks
//	-config      Timing configuration JSON file
//	-cpuprofile  Write a CPU profile of the run to a file
//
// The exit status is 1 when any benchmark fails or exits with an unexpected
// code.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"tlog.app/go/tlog"

	"github.com/sarchlab/a32sim/benchmarks"
	"github.com/sarchlab/a32sim/timing/latency"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as a JSON report")
	coreOnly := flag.Bool("core", false, "Run only the core benchmarks")
	configPath := flag.String("config", "", "Path to timing configuration JSON file")
	cpuProfile := flag.String("cpuprofile", "", "Write CPU profile to file")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	config := benchmarks.DefaultConfig()
	config.Output = os.Stdout

	if *configPath != "" {
		timing, err := latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		config.Timing = timing
	}

	harness := benchmarks.NewHarness(config)
	bench := benchmarks.GetMicrobenchmarks()
	if *coreOnly {
		bench = benchmarks.GetCoreBenchmarks()
	}
	harness.AddBenchmarks(bench)

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
		summary := benchmarks.Summarize(results)
		fmt.Println("=== Summary ===")
		fmt.Printf("Benchmarks:   %d\n", summary.TotalBenchmarks)
		fmt.Printf("Cycles:       %d\n", summary.TotalCycles)
		fmt.Printf("Instructions: %d\n", summary.TotalInstructions)
		fmt.Printf("Average CPI:  %.3f\n", summary.AverageCPI)
	}

	failed := false
	for i, r := range results {
		if r.Error != "" || r.ExitCode != bench[i].ExpectedExit {
			tlog.Printw("benchmark failed", "name", r.Name, "exit", r.ExitCode,
				"expected", bench[i].ExpectedExit, "err", r.Error)
			failed = true
		}
	}

	if failed {
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}
