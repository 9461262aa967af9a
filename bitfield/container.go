// Package bitfield provides fixed-width binary containers and generic
// bit-field accessors over them.
//
// The accessors only depend on the Container capability: a declared bit
// width, byte-addressable reads, the raw backing integer, and bitwise
// equality. Word and Imm12 are the two concrete containers the A32 ALU
// consumes.
package bitfield

// Container is a fixed-width binary value.
type Container interface {
	// BitWidth returns the declared width in bits (at most 64).
	BitWidth() int

	// ByteAt returns byte i, where byte 0 holds bits [0,8).
	// Bytes beyond the width read as zero.
	ByteAt(i int) byte

	// Raw returns the backing integer.
	Raw() uint64

	// Equal reports whether other has the same width and bits.
	Equal(other Container) bool
}

// Word is a 32-bit value.
type Word uint32

// BitWidth returns 32.
func (w Word) BitWidth() int { return 32 }

// ByteAt returns byte i of the word.
func (w Word) ByteAt(i int) byte {
	if i < 0 || i >= 4 {
		return 0
	}
	return byte(uint32(w) >> (8 * i))
}

// Raw returns the word as a uint64.
func (w Word) Raw() uint64 { return uint64(w) }

// Equal reports whether other is a 32-bit container holding the same bits.
func (w Word) Equal(other Container) bool { return equal(w, other) }

// Imm12 is the 12-bit A32 modified-immediate field: a rotation nibble in
// bits [11:8] and a base byte in bits [7:0].
type Imm12 uint16

// NewImm12 truncates v to 12 bits.
func NewImm12(v uint32) Imm12 {
	return Imm12(v & 0xFFF)
}

// BitWidth returns 12.
func (i Imm12) BitWidth() int { return 12 }

// ByteAt returns byte n of the immediate.
func (i Imm12) ByteAt(n int) byte {
	switch n {
	case 0:
		return byte(i)
	case 1:
		return byte(i>>8) & 0x0F
	default:
		return 0
	}
}

// Raw returns the immediate as a uint64.
func (i Imm12) Raw() uint64 { return uint64(i & 0xFFF) }

// Equal reports whether other is a 12-bit container holding the same bits.
func (i Imm12) Equal(other Container) bool { return equal(i, other) }

func equal(a, b Container) bool {
	if b == nil || a.BitWidth() != b.BitWidth() {
		return false
	}
	return a.Raw() == b.Raw()
}
