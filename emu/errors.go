package emu

import "tlog.app/go/errors"

var (
	// ErrShiftAmountOutOfRange is returned for a literal shift amount of 32
	// or more. No literal shift encoding produces one.
	ErrShiftAmountOutOfRange = errors.New("shift amount out of range")

	// ErrUnknownShiftType is returned when a shift type is outside
	// LSL, LSR, ASR and ROR.
	ErrUnknownShiftType = errors.New("unknown shift type")

	// ErrUnknownInstruction is returned when a word does not decode to a
	// supported instruction.
	ErrUnknownInstruction = errors.New("unknown instruction")

	// ErrMaxInstructions is returned when the instruction limit is reached.
	ErrMaxInstructions = errors.New("max instructions reached")
)
