package emu

import (
	"github.com/sarchlab/a32sim/bitfield"
	"github.com/sarchlab/a32sim/insts"
)

// AddWithCarry returns x + y + carryIn truncated to 32 bits, the unsigned
// carry-out, and the signed overflow.
func AddWithCarry(x, y uint32, carryIn bool) (result uint32, carry, overflow bool) {
	c := bit(carryIn)

	unsignedSum := uint64(x) + uint64(y) + uint64(c)
	signedSum := int64(int32(x)) + int64(int32(y)) + int64(c)

	result = uint32(unsignedSum)
	carry = uint64(result) != unsignedSum
	overflow = int64(int32(result)) != signedSum

	return result, carry, overflow
}

// ExpandImm12 expands an A32 modified immediate: the base byte rotated
// right by twice the rotation nibble. With a zero rotation the carry is
// passed through, otherwise it is bit 31 of the rotated value.
func ExpandImm12(imm bitfield.Imm12, carryIn bool) (uint32, bool) {
	rotation, _ := bitfield.ExtractBits(imm, 8, 12)
	base, _ := bitfield.ExtractBits(imm, 0, 8)

	if rotation == 0 {
		return uint32(base), carryIn
	}

	// ROR is always a valid shift type and the amount is at least 2.
	result, carry, _ := ShiftC(uint32(base), insts.ShiftROR, uint32(rotation)*2, carryIn)

	return result, carry
}
