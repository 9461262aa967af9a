package emu

import (
	"math/bits"

	"tlog.app/go/errors"

	"github.com/sarchlab/a32sim/insts"
)

// ShiftC is the barrel shifter. It returns the shifted value and the
// shifter carry-out.
//
// An amount of zero leaves the value and carry untouched, except for ROR
// where it selects RRX. Amounts of 32 or more flush LSL and LSR to zero
// with a clear carry, saturate ASR to the sign, and wrap ROR modulo 32.
func ShiftC(x uint32, t insts.ShiftType, amount uint32, carryIn bool) (uint32, bool, error) {
	if !t.Valid() {
		return 0, false, errors.Wrap(ErrUnknownShiftType, "type %d", uint8(t))
	}

	if amount == 0 {
		if t == insts.ShiftROR {
			result, carry := rrx(x, carryIn)
			return result, carry, nil
		}
		return x, carryIn, nil
	}

	switch t {
	case insts.ShiftLSL:
		if amount >= 32 {
			return 0, false, nil
		}
		return x << amount, (x>>(32-amount))&1 == 1, nil

	case insts.ShiftLSR:
		if amount >= 32 {
			return 0, false, nil
		}
		return x >> amount, (x>>(amount-1))&1 == 1, nil

	case insts.ShiftASR:
		if amount >= 32 {
			if x>>31 == 1 {
				return 0xFFFFFFFF, true, nil
			}
			return 0, false, nil
		}
		return uint32(int32(x) >> amount), (x>>(amount-1))&1 == 1, nil

	default: // insts.ShiftROR
		result := bits.RotateLeft32(x, -int(amount%32))
		return result, result>>31 == 1, nil
	}
}

// rrx rotates right by one through the carry.
func rrx(x uint32, carryIn bool) (uint32, bool) {
	return x>>1 | bit(carryIn)<<31, x&1 == 1
}

// Shift describes the shift applied to the register operand of a
// data-processing instruction.
type Shift struct {
	Type   insts.ShiftType
	Amount uint32

	// ByRegister marks an amount taken from the bottom byte of a register.
	ByRegister bool
}

// NoShift passes the operand through unchanged.
var NoShift = Shift{Type: insts.ShiftLSL}

// ImmShift returns a shift by a literal amount in [0, 31].
func ImmShift(t insts.ShiftType, amount uint32) Shift {
	return Shift{Type: t, Amount: amount}
}

// RegShift returns a shift by the bottom byte of rs.
func RegShift(t insts.ShiftType, rs uint32) Shift {
	return Shift{Type: t, Amount: rs & 0xFF, ByRegister: true}
}

// Apply shifts x and returns the shifter carry-out.
//
// A register-sourced amount of zero applies no shift at all, so ROR by a
// zero register is not RRX.
func (s Shift) Apply(x uint32, carryIn bool) (uint32, bool, error) {
	if !s.ByRegister {
		if s.Amount >= 32 {
			return 0, false, errors.Wrap(ErrShiftAmountOutOfRange,
				"%v #%d", s.Type, s.Amount)
		}
		return ShiftC(x, s.Type, s.Amount, carryIn)
	}

	amount := s.Amount & 0xFF
	if amount == 0 {
		if !s.Type.Valid() {
			return 0, false, errors.Wrap(ErrUnknownShiftType, "type %d", uint8(s.Type))
		}
		return x, carryIn, nil
	}

	return ShiftC(x, s.Type, amount, carryIn)
}
