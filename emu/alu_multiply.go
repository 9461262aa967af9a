package emu

import "math/bits"

// LongResult is the 64-bit result of a widening multiply split into halves.
type LongResult struct {
	Hi    uint32
	Lo    uint32
	Flags Flags
}

// multiplyFlags sets N and Z from a 32-bit result and keeps C and V.
func multiplyFlags(result uint32, cur Flags) Flags {
	return resultFlags(result, cur.C, cur.V)
}

// longResult splits a 64-bit product and sets N and Z from it, keeping
// C and V.
func longResult(product uint64, cur Flags) LongResult {
	hi := uint32(product >> 32)
	lo := uint32(product)

	return LongResult{
		Hi: hi,
		Lo: lo,
		Flags: Flags{
			N: hi>>31 == 1,
			Z: product == 0,
			C: cur.C,
			V: cur.V,
		},
	}
}

// MUL performs Rd = Rn * Rm, keeping the low 32 bits.
func (a *ALU) MUL(rn, rm uint32, cur Flags) Result {
	result := uint32(int32(rn) * int32(rm))
	return Result{Value: result, Flags: multiplyFlags(result, cur)}
}

// MLA performs Rd = Rn * Rm + Ra.
func (a *ALU) MLA(rn, rm, ra uint32, cur Flags) Result {
	result := uint32(int32(rn)*int32(rm) + int32(ra))
	return Result{Value: result, Flags: multiplyFlags(result, cur)}
}

// MLS performs Rd = Ra - Rn * Rm.
func (a *ALU) MLS(rn, rm, ra uint32, cur Flags) Result {
	result := uint32(int32(ra) - int32(rn)*int32(rm))
	return Result{Value: result, Flags: multiplyFlags(result, cur)}
}

// UMULL performs RdHi:RdLo = Rn * Rm, unsigned.
func (a *ALU) UMULL(rn, rm uint32, cur Flags) LongResult {
	hi, lo := bits.Mul32(rn, rm)
	return longResult(uint64(hi)<<32|uint64(lo), cur)
}

// SMULL performs RdHi:RdLo = Rn * Rm, signed.
func (a *ALU) SMULL(rn, rm uint32, cur Flags) LongResult {
	product := int64(int32(rn)) * int64(int32(rm))
	return longResult(uint64(product), cur)
}

// UMLAL performs RdHi:RdLo = Rn * Rm + RdHi:RdLo, unsigned, wrapping
// modulo 2^64.
func (a *ALU) UMLAL(rn, rm, rdHi, rdLo uint32, cur Flags) LongResult {
	acc := uint64(rdHi)<<32 | uint64(rdLo)
	return longResult(uint64(rn)*uint64(rm)+acc, cur)
}

// SMLAL performs RdHi:RdLo = Rn * Rm + RdHi:RdLo, signed, wrapping
// modulo 2^64.
func (a *ALU) SMLAL(rn, rm, rdHi, rdLo uint32, cur Flags) LongResult {
	acc := int64(uint64(rdHi)<<32 | uint64(rdLo))
	product := int64(int32(rn)) * int64(int32(rm))
	return longResult(uint64(product+acc), cur)
}

// UMAAL performs RdHi:RdLo = Rn * Rm + RdHi + RdLo, where RdHi and RdLo
// are two separate unsigned 32-bit addends. It produces no flags.
func (a *ALU) UMAAL(rn, rm, rdHi, rdLo uint32) (hi, lo uint32) {
	sum := uint64(rn)*uint64(rm) + uint64(rdHi) + uint64(rdLo)
	return uint32(sum >> 32), uint32(sum)
}
