package emu

// Register aliases.
const (
	RegSP uint8 = 13 // Stack pointer
	RegLR uint8 = 14 // Link register
	RegPC uint8 = 15 // Program counter
)

// RegFile represents the A32 register file.
// It contains 16 general-purpose registers (R0-R15, with R15 the PC) and
// the committed condition flags.
type RegFile struct {
	// R holds registers R0-R15.
	R [16]uint32

	// flags holds the committed NZCV flags. CommitFlags is the only
	// mutator.
	flags Flags
}

// ReadReg reads a register as an instruction operand. Reading the PC
// yields the address of the current instruction plus 8.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	if reg == RegPC {
		return r.R[RegPC] + 8
	}
	return r.R[reg&0xF]
}

// WriteReg writes a value to a register.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	r.R[reg&0xF] = value
}

// PC returns the address of the current instruction.
func (r *RegFile) PC() uint32 {
	return r.R[RegPC]
}

// SetPC sets the address of the next instruction to execute.
func (r *RegFile) SetPC(pc uint32) {
	r.R[RegPC] = pc
}

// Flags returns the committed condition flags.
func (r *RegFile) Flags() Flags {
	return r.flags
}

// CommitFlags replaces the committed condition flags.
func (r *RegFile) CommitFlags(f Flags) {
	r.flags = f
}
