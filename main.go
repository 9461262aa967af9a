// Package main provides the entry point for A32Sim.
// A32Sim is a functional and timing simulator for 32-bit ARM (A32) programs
// built on Akita.
//
// For the full CLI, use: go run ./cmd/a32sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("A32Sim - 32-bit ARM Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: a32sim [options] <program.elf>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -timing            Enable timing simulation mode")
	fmt.Println("  -config            Path to timing configuration JSON file")
	fmt.Println("  -max-instructions  Stop after this many instructions")
	fmt.Println("  -trace             Comma-separated trace topics (exec, timing)")
	fmt.Println("  -v                 Verbose output")
	fmt.Println("")
	fmt.Println("Environment: A32SIM_CONFIG, A32SIM_TIMING, A32SIM_VERBOSE,")
	fmt.Println("             A32SIM_MAX_INSTRUCTIONS, A32SIM_TRACE")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/a32sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/a32sim' instead.")
	}
}
