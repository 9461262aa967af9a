package emu

import (
	"fmt"
	"io"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/sarchlab/a32sim/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Exited is true if the program terminated (via exit syscall).
	Exited bool

	// ExitCode is the exit status if Exited is true.
	ExitCode int64

	// Err is set if an error occurred during execution.
	Err error

	// Inst is the decoded instruction, nil if nothing was fetched.
	Inst *insts.Instruction
}

// Emulator executes A32 instructions functionally.
type Emulator struct {
	regFile        *RegFile
	memory         *Memory
	decoder        *insts.Decoder
	syscallHandler SyscallHandler

	// Execution units
	alu        *ALU
	branchUnit *BranchUnit

	// I/O
	stdout io.Writer
	stderr io.Writer

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStdout sets a custom stdout writer.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stdout = w
	}
}

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stderr = w
	}
}

// WithSyscallHandler sets a custom syscall handler.
func WithSyscallHandler(handler SyscallHandler) EmulatorOption {
	return func(e *Emulator) {
		e.syscallHandler = handler
	}
}

// WithStackPointer sets the initial stack pointer value.
func WithStackPointer(sp uint32) EmulatorOption {
	return func(e *Emulator) {
		e.regFile.WriteReg(RegSP, sp)
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new A32 emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	regFile := &RegFile{}

	e := &Emulator{
		regFile: regFile,
		memory:  NewMemory(),
		decoder: insts.NewDecoder(),
		alu:     NewALU(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	// Apply options first (may set stdout/stderr)
	for _, opt := range opts {
		opt(e)
	}

	e.branchUnit = NewBranchUnit(regFile)

	// If no syscall handler was provided, create a default one
	if e.syscallHandler == nil {
		e.syscallHandler = NewDefaultSyscallHandler(regFile, e.memory, e.stdout, e.stderr)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// ALU returns the emulator's ALU.
func (e *Emulator) ALU() *ALU {
	return e.alu
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram loads a program into memory and sets the entry point.
// The program can be either a []byte or a *Memory.
func (e *Emulator) LoadProgram(entry uint32, program interface{}) {
	switch p := program.(type) {
	case []byte:
		e.memory.LoadProgram(entry, p)
	case *Memory:
		e.memory = p
		e.syscallHandler = NewDefaultSyscallHandler(e.regFile, e.memory, e.stdout, e.stderr)
	}
	e.regFile.SetPC(entry)
}

// Step executes a single instruction.
// Returns a StepResult indicating whether execution should continue.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: errors.Wrap(ErrMaxInstructions, "limit %d", e.maxInstructions),
		}
	}

	pc := e.regFile.PC()

	// 1. Fetch
	word := e.memory.Read32(pc)

	// 2. Decode
	inst := e.decoder.Decode(word)

	tlog.V("exec").Printw("step", "pc", pc, "word", word, "op", inst.Op.String(), "flags", e.regFile.Flags().String())

	// 3. Execute
	result := e.execute(inst)
	result.Inst = inst

	e.instructionCount++

	return result
}

// Run executes instructions until the program exits or an error occurs.
// Returns the exit code (-1 if error).
func (e *Emulator) Run() int64 {
	for {
		result := e.Step()
		if result.Exited {
			return result.ExitCode
		}
		if result.Err != nil {
			_, _ = fmt.Fprintf(e.stderr, "Emulation error: %v\n", result.Err)
			return -1
		}
	}
}

// execute dispatches and executes a decoded instruction.
func (e *Emulator) execute(inst *insts.Instruction) StepResult {
	pc := e.regFile.PC()

	if inst.Op == insts.OpUnknown {
		return StepResult{
			Err: errors.Wrap(ErrUnknownInstruction, "PC=0x%X", pc),
		}
	}

	if !e.branchUnit.CheckCondition(inst.Cond) {
		e.regFile.SetPC(pc + 4)
		return StepResult{}
	}

	var (
		branched bool
		err      error
	)

	switch inst.Format {
	case insts.FormatDPImmShift, insts.FormatDPRegShift, insts.FormatDPImm:
		branched, err = e.executeDataProcessing(inst)
	case insts.FormatADR:
		addr := e.alu.ADR(e.regFile.ReadReg(RegPC), inst.Imm12, inst.Add)
		branched = e.writeResult(inst.Rd, addr)
	case insts.FormatMultiply:
		e.executeMultiply(inst)
	case insts.FormatMultiplyLong:
		e.executeMultiplyLong(inst)
	case insts.FormatBranch:
		e.executeBranch(inst)
		return StepResult{} // PC already updated by branch
	case insts.FormatSVC:
		return e.executeSVC()
	default:
		err = errors.Wrap(ErrUnknownInstruction, "unimplemented format %d at PC=0x%X", inst.Format, pc)
	}

	if err != nil {
		return StepResult{Err: err}
	}

	if !branched {
		e.regFile.SetPC(pc + 4)
	}

	return StepResult{}
}

// writeResult writes an ALU result to rd. Writing the PC is a branch.
func (e *Emulator) writeResult(rd uint8, value uint32) (branched bool) {
	if rd == RegPC {
		e.regFile.SetPC(value &^ 3)
		return true
	}

	e.regFile.WriteReg(rd, value)

	return false
}

// operandShift builds the shift for a register-operand instruction.
func (e *Emulator) operandShift(inst *insts.Instruction) Shift {
	if inst.Format == insts.FormatDPRegShift {
		return RegShift(inst.ShiftType, e.regFile.ReadReg(inst.Rs))
	}

	amount := uint32(inst.ShiftAmount)

	// LSR #32 and ASR #32 are encoded with imm5 = 0 and have no literal form.
	if amount == 0 && (inst.ShiftType == insts.ShiftLSR || inst.ShiftType == insts.ShiftASR) {
		return RegShift(inst.ShiftType, 32)
	}

	return ImmShift(inst.ShiftType, amount)
}

// executeDataProcessing executes the data-processing formats and commits
// the candidate flags when the S bit is set.
func (e *Emulator) executeDataProcessing(inst *insts.Instruction) (bool, error) {
	cur := e.regFile.Flags()

	var rn uint32
	if !inst.Op.IsUnary() {
		rn = e.regFile.ReadReg(inst.Rn)
	}

	var (
		res Result
		err error
	)

	if inst.Format == insts.FormatDPImm {
		res, err = e.alu.DataProcessingImm(inst.Op, rn, inst.Imm12, cur)
	} else {
		res, err = e.alu.DataProcessing(inst.Op, rn, e.regFile.ReadReg(inst.Rm), e.operandShift(inst), cur)
	}

	if err != nil {
		return false, errors.Wrap(err, "%v at PC=0x%X", inst.Op, e.regFile.PC())
	}

	if inst.SetFlags {
		e.regFile.CommitFlags(res.Flags)
	}

	if inst.Op.IsCompare() {
		return false, nil
	}

	return e.writeResult(inst.Rd, res.Value), nil
}

// executeMultiply executes MUL, MLA and MLS.
func (e *Emulator) executeMultiply(inst *insts.Instruction) {
	cur := e.regFile.Flags()
	rn := e.regFile.ReadReg(inst.Rn)
	rm := e.regFile.ReadReg(inst.Rm)
	ra := e.regFile.ReadReg(inst.Ra)

	var res Result

	switch inst.Op {
	case insts.OpMUL:
		res = e.alu.MUL(rn, rm, cur)
	case insts.OpMLA:
		res = e.alu.MLA(rn, rm, ra, cur)
	case insts.OpMLS:
		res = e.alu.MLS(rn, rm, ra, cur)
	}

	e.regFile.WriteReg(inst.Rd, res.Value)

	if inst.SetFlags {
		e.regFile.CommitFlags(res.Flags)
	}
}

// executeMultiplyLong executes the 64-bit multiply family.
func (e *Emulator) executeMultiplyLong(inst *insts.Instruction) {
	cur := e.regFile.Flags()
	rn := e.regFile.ReadReg(inst.Rn)
	rm := e.regFile.ReadReg(inst.Rm)
	rdHi := e.regFile.ReadReg(inst.RdHi)
	rdLo := e.regFile.ReadReg(inst.RdLo)

	var res LongResult

	switch inst.Op {
	case insts.OpUMAAL:
		res.Hi, res.Lo = e.alu.UMAAL(rn, rm, rdHi, rdLo)
	case insts.OpUMULL:
		res = e.alu.UMULL(rn, rm, cur)
	case insts.OpUMLAL:
		res = e.alu.UMLAL(rn, rm, rdHi, rdLo, cur)
	case insts.OpSMULL:
		res = e.alu.SMULL(rn, rm, cur)
	case insts.OpSMLAL:
		res = e.alu.SMLAL(rn, rm, rdHi, rdLo, cur)
	}

	e.regFile.WriteReg(inst.RdLo, res.Lo)
	e.regFile.WriteReg(inst.RdHi, res.Hi)

	if inst.SetFlags && inst.Op != insts.OpUMAAL {
		e.regFile.CommitFlags(res.Flags)
	}
}

// executeBranch executes B and BL.
func (e *Emulator) executeBranch(inst *insts.Instruction) {
	if inst.Op == insts.OpBL {
		e.branchUnit.BL(inst.BranchOffset)
		return
	}
	e.branchUnit.B(inst.BranchOffset)
}

// executeSVC handles the SVC (supervisor call) instruction.
func (e *Emulator) executeSVC() StepResult {
	// Return address is the next instruction
	e.regFile.SetPC(e.regFile.PC() + 4)

	syscallResult := e.syscallHandler.Handle()

	return StepResult{
		Exited:   syscallResult.Exited,
		ExitCode: syscallResult.ExitCode,
	}
}
