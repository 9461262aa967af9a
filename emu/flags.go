// Package emu provides functional A32 emulation.
package emu

import "strings"

// Flags holds the NZCV condition flags.
type Flags struct {
	// N is the negative flag.
	N bool
	// Z is the zero flag.
	Z bool
	// C is the carry flag.
	C bool
	// V is the overflow flag.
	V bool
}

// FlagsFromBits unpacks NZCV from bits [31:28] of a CPSR-style word.
func FlagsFromBits(word uint32) Flags {
	return Flags{
		N: word&(1<<31) != 0,
		Z: word&(1<<30) != 0,
		C: word&(1<<29) != 0,
		V: word&(1<<28) != 0,
	}
}

// Bits packs the flags into bits [31:28] of a CPSR-style word.
func (f Flags) Bits() uint32 {
	return bit(f.N)<<31 | bit(f.Z)<<30 | bit(f.C)<<29 | bit(f.V)<<28
}

func (f Flags) String() string {
	s := strings.Builder{}

	for _, fl := range []struct {
		set  bool
		name rune
	}{{f.N, 'N'}, {f.Z, 'Z'}, {f.C, 'C'}, {f.V, 'V'}} {
		if fl.set {
			s.WriteRune(fl.name)
		} else {
			s.WriteRune(fl.name + ('a' - 'A'))
		}
	}

	return s.String()
}

// resultFlags builds a flag set with N and Z taken from result.
func resultFlags(result uint32, c, v bool) Flags {
	return Flags{
		N: result>>31 == 1,
		Z: result == 0,
		C: c,
		V: v,
	}
}

func bit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
