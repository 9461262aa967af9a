package emu

import "encoding/binary"

const pageBits = 12

const pageSize = 1 << pageBits

// Memory is a sparse, little-endian, byte-addressable 32-bit address space.
// Unwritten bytes read as zero.
type Memory struct {
	pages map[uint32]*[pageSize]byte
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{pages: make(map[uint32]*[pageSize]byte)}
}

func (m *Memory) page(addr uint32, create bool) *[pageSize]byte {
	p, ok := m.pages[addr>>pageBits]
	if !ok && create {
		p = new([pageSize]byte)
		m.pages[addr>>pageBits] = p
	}
	return p
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint32) byte {
	p := m.page(addr, false)
	if p == nil {
		return 0
	}
	return p[addr&(pageSize-1)]
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint32, value byte) {
	m.page(addr, true)[addr&(pageSize-1)] = value
}

// Read16 reads a little-endian halfword.
func (m *Memory) Read16(addr uint32) uint16 {
	var buf [2]byte
	m.read(addr, buf[:])
	return binary.LittleEndian.Uint16(buf[:])
}

// Write16 writes a little-endian halfword.
func (m *Memory) Write16(addr uint32, value uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], value)
	m.write(addr, buf[:])
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint32) uint32 {
	var buf [4]byte
	m.read(addr, buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint32, value uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	m.write(addr, buf[:])
}

// LoadProgram copies program into memory starting at addr.
func (m *Memory) LoadProgram(addr uint32, program []byte) {
	m.write(addr, program)
}

func (m *Memory) read(addr uint32, buf []byte) {
	for i := range buf {
		buf[i] = m.Read8(addr + uint32(i))
	}
}

func (m *Memory) write(addr uint32, buf []byte) {
	for i, b := range buf {
		m.Write8(addr+uint32(i), b)
	}
}
