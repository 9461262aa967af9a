package bitfield

import (
	"encoding/binary"

	"tlog.app/go/errors"
)

// ErrBitRange is returned when a field's start is after its end or its end
// lies beyond the container's width.
var ErrBitRange = errors.New("bit range out of bounds")

// ExtractBits returns the unsigned value of bits [start, end) of c, where
// bit 0 is the least significant bit.
func ExtractBits(c Container, start, end int) (uint64, error) {
	if err := checkRange(c, start, end); err != nil {
		return 0, err
	}

	return (read(c) >> uint(start)) & mask(end-start), nil
}

// ExtractAll returns bits [0, width) of c.
func ExtractAll(c Container) uint64 {
	v, _ := ExtractBits(c, 0, c.BitWidth())
	return v
}

// WriteBits returns the backing integer of c with bits [start, end)
// replaced by content. Content is masked to the field length and all bits
// outside the field are preserved.
func WriteBits(c Container, content uint64, start, end int) (uint64, error) {
	if err := checkRange(c, start, end); err != nil {
		return 0, err
	}

	m := mask(end-start) << uint(start)

	return (c.Raw() &^ m) | ((content << uint(start)) & m), nil
}

// CountBits returns the number of set bits in v.
func CountBits(v uint32) int {
	n := 0
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}

func checkRange(c Container, start, end int) error {
	width := c.BitWidth()
	if start < 0 || start > end || end > width || width > 64 {
		return errors.Wrap(ErrBitRange, "[%d,%d) in %d-bit container", start, end, width)
	}
	return nil
}

// read assembles the container's bytes into the smallest unsigned type
// that holds its width and masks off anything above the width.
func read(c Container) uint64 {
	width := c.BitWidth()
	n := (width + 7) / 8

	var buf [8]byte
	for i := 0; i < n; i++ {
		buf[i] = c.ByteAt(i)
	}

	var v uint64
	switch {
	case n <= 1:
		v = uint64(buf[0])
	case n <= 2:
		v = uint64(binary.LittleEndian.Uint16(buf[:2]))
	case n <= 4:
		v = uint64(binary.LittleEndian.Uint32(buf[:4]))
	default:
		v = binary.LittleEndian.Uint64(buf[:])
	}

	return v & mask(width)
}

func mask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}
