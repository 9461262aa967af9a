package benchmarks

import (
	"github.com/sarchlab/a32sim/emu"
	"github.com/sarchlab/a32sim/insts"
)

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each one
// targets a single latency class of the timing table.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		registerShiftChain(),
		multiplyChain(),
		longMultiplyAccumulate(),
		branchTaken(),
		countdownLoop(),
		functionCalls(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation: a loop,
// a multiply chain and branch-heavy code.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		countdownLoop(),
		multiplyChain(),
		branchTaken(),
	}
}

// exitSetup puts the exit syscall number in r7.
func exitSetup(extra func(regFile *emu.RegFile)) func(*emu.RegFile, *emu.Memory) {
	return func(regFile *emu.RegFile, _ *emu.Memory) {
		regFile.WriteReg(7, emu.SyscallExit)
		if extra != nil {
			extra(regFile)
		}
	}
}

func addImm(rd, rn uint8, imm uint16) uint32 {
	return EncodeDPImm(insts.OpADD, false, rd, rn, imm)
}

func arithmeticSequential() Benchmark {
	var prog []uint32
	for i := 0; i < 4; i++ {
		for r := uint8(0); r < 5; r++ {
			prog = append(prog, addImm(r, r, 1))
		}
	}
	prog = append(prog, EncodeSVC(0))

	return Benchmark{
		Name:         "arithmetic_sequential",
		Description:  "20 independent ADD #imm across r0-r4 - measures ALU latency",
		Setup:        exitSetup(nil),
		Program:      BuildProgram(prog...),
		ExpectedExit: 4,
	}
}

func dependencyChain() Benchmark {
	prog := make([]uint32, 0, 21)
	for i := 0; i < 20; i++ {
		prog = append(prog, addImm(0, 0, 1))
	}
	prog = append(prog, EncodeSVC(0))

	return Benchmark{
		Name:         "dependency_chain",
		Description:  "20 dependent ADDs (r0 = r0 + 1)",
		Setup:        exitSetup(nil),
		Program:      BuildProgram(prog...),
		ExpectedExit: 20,
	}
}

func registerShiftChain() Benchmark {
	prog := make([]uint32, 0, 11)
	for i := 0; i < 10; i++ {
		// add r0, r0, r1, lsl r2
		prog = append(prog, EncodeDPRegShift(insts.OpADD, false, 0, 0, 1, insts.ShiftLSL, 2))
	}
	prog = append(prog, EncodeSVC(0))

	return Benchmark{
		Name:        "register_shift_chain",
		Description: "10 ADDs with a register-controlled shift",
		Setup: exitSetup(func(regFile *emu.RegFile) {
			regFile.WriteReg(1, 1)
			regFile.WriteReg(2, 2)
		}),
		Program:      BuildProgram(prog...),
		ExpectedExit: 40,
	}
}

func multiplyChain() Benchmark {
	mul := EncodeMultiply(insts.OpMUL, false, 0, 0, 0, 1) // mul r0, r0, r1

	return Benchmark{
		Name:        "multiply_chain",
		Description: "4 dependent MULs (r0 = r0 * 3)",
		Setup: exitSetup(func(regFile *emu.RegFile) {
			regFile.WriteReg(0, 1)
			regFile.WriteReg(1, 3)
		}),
		Program:      BuildProgram(mul, mul, mul, mul, EncodeSVC(0)),
		ExpectedExit: 81,
	}
}

func longMultiplyAccumulate() Benchmark {
	umlal := EncodeMultiply(insts.OpUMLAL, false, 1, 0, 2, 3) // umlal r0, r1, r2, r3

	return Benchmark{
		Name:        "long_multiply_accumulate",
		Description: "5 UMLALs adding 2^32 each; exits with the high word",
		Setup: exitSetup(func(regFile *emu.RegFile) {
			regFile.WriteReg(2, 0x10000)
			regFile.WriteReg(3, 0x10000)
		}),
		Program: BuildProgram(
			umlal, umlal, umlal, umlal, umlal,
			EncodeDPReg(insts.OpMOV, false, 0, 0, 1, insts.ShiftLSL, 0), // mov r0, r1
			EncodeSVC(0),
		),
		ExpectedExit: 5,
	}
}

func branchTaken() Benchmark {
	var prog []uint32
	for i := 0; i < 5; i++ {
		prog = append(prog,
			EncodeB(insts.CondAL, 0), // skip the next instruction
			addImm(0, 0, 100),
			addImm(0, 0, 1),
		)
	}
	prog = append(prog, EncodeSVC(0))

	return Benchmark{
		Name:         "branch_taken",
		Description:  "5 taken branches each skipping one ADD",
		Setup:        exitSetup(nil),
		Program:      BuildProgram(prog...),
		ExpectedExit: 5,
	}
}

func countdownLoop() Benchmark {
	return Benchmark{
		Name:        "countdown_loop",
		Description: "SUBS/BNE loop of 10 iterations",
		Setup: exitSetup(func(regFile *emu.RegFile) {
			regFile.WriteReg(1, 10)
		}),
		Program: BuildProgram(
			addImm(0, 0, 2),
			EncodeDPImm(insts.OpSUB, true, 1, 1, 1), // subs r1, r1, #1
			EncodeB(insts.CondNE, -16),
			EncodeSVC(0),
		),
		ExpectedExit: 20,
	}
}

func functionCalls() Benchmark {
	return Benchmark{
		Name:        "function_calls",
		Description: "3 BL calls to a leaf that returns with mov pc, lr",
		Setup:       exitSetup(nil),
		Program: BuildProgram(
			EncodeBL(8),
			EncodeBL(4),
			EncodeBL(0),
			EncodeSVC(0),
			addImm(0, 0, 3),
			EncodeDPReg(insts.OpMOV, false, emu.RegPC, 0, emu.RegLR, insts.ShiftLSL, 0),
		),
		ExpectedExit: 9,
	}
}
