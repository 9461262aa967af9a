package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/a32sim/emu"
	"github.com/sarchlab/a32sim/insts"
)

var _ = Describe("Flags", func() {
	It("should pack into bits 31 to 28", func() {
		f := emu.Flags{N: true, C: true}
		Expect(f.Bits()).To(Equal(uint32(0xA0000000)))
		Expect(emu.FlagsFromBits(0xA0000000)).To(Equal(f))
		Expect(emu.FlagsFromBits(0x0FFFFFFF)).To(Equal(emu.Flags{}))
	})

	It("should round-trip every flag combination", func() {
		for nzcv := uint32(0); nzcv < 16; nzcv++ {
			f := emu.FlagsFromBits(nzcv << 28)
			Expect(f.Bits()).To(Equal(nzcv << 28))
		}
	})

	It("should print set flags in upper case", func() {
		Expect(emu.Flags{N: true, C: true}.String()).To(Equal("NzCv"))
		Expect(emu.Flags{}.String()).To(Equal("nzcv"))
	})
})

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	It("should read the PC as the current instruction plus 8", func() {
		regFile.SetPC(0x1000)
		Expect(regFile.PC()).To(Equal(uint32(0x1000)))
		Expect(regFile.ReadReg(emu.RegPC)).To(Equal(uint32(0x1008)))
	})

	It("should read and write general registers", func() {
		regFile.WriteReg(3, 0xDEADBEEF)
		Expect(regFile.ReadReg(3)).To(Equal(uint32(0xDEADBEEF)))
		Expect(regFile.R[3]).To(Equal(uint32(0xDEADBEEF)))
	})

	It("should replace the flags only through CommitFlags", func() {
		Expect(regFile.Flags()).To(Equal(emu.Flags{}))

		regFile.CommitFlags(emu.Flags{Z: true, V: true})
		Expect(regFile.Flags()).To(Equal(emu.Flags{Z: true, V: true}))

		regFile.CommitFlags(emu.Flags{N: true})
		Expect(regFile.Flags()).To(Equal(emu.Flags{N: true}))
	})

	It("should not change the flags when the ALU computes", func() {
		regFile.CommitFlags(emu.Flags{C: true})

		res := emu.NewALU().MOVImm(0, regFile.Flags())
		Expect(res.Flags.Z).To(BeTrue())
		Expect(regFile.Flags()).To(Equal(emu.Flags{C: true}))
	})
})

var _ = Describe("Conditions", func() {
	DescribeTable("ConditionPassed",
		func(cond insts.Cond, f emu.Flags, want bool) {
			Expect(emu.ConditionPassed(cond, f)).To(Equal(want))
		},
		Entry("EQ with Z", insts.CondEQ, emu.Flags{Z: true}, true),
		Entry("EQ without Z", insts.CondEQ, emu.Flags{}, false),
		Entry("NE without Z", insts.CondNE, emu.Flags{}, true),
		Entry("CS with C", insts.CondCS, emu.Flags{C: true}, true),
		Entry("CC with C", insts.CondCC, emu.Flags{C: true}, false),
		Entry("MI with N", insts.CondMI, emu.Flags{N: true}, true),
		Entry("PL with N", insts.CondPL, emu.Flags{N: true}, false),
		Entry("VS with V", insts.CondVS, emu.Flags{V: true}, true),
		Entry("VC with V", insts.CondVC, emu.Flags{V: true}, false),
		Entry("HI with C and not Z", insts.CondHI, emu.Flags{C: true}, true),
		Entry("HI with C and Z", insts.CondHI, emu.Flags{C: true, Z: true}, false),
		Entry("LS with Z", insts.CondLS, emu.Flags{C: true, Z: true}, true),
		Entry("GE with N equal to V", insts.CondGE, emu.Flags{N: true, V: true}, true),
		Entry("LT with N not equal to V", insts.CondLT, emu.Flags{N: true}, true),
		Entry("GT with Z", insts.CondGT, emu.Flags{Z: true}, false),
		Entry("GT without Z, N equal to V", insts.CondGT, emu.Flags{}, true),
		Entry("LE with Z", insts.CondLE, emu.Flags{Z: true}, true),
		Entry("AL", insts.CondAL, emu.Flags{}, true),
	)
})

var _ = Describe("BranchUnit", func() {
	var (
		regFile *emu.RegFile
		unit    *emu.BranchUnit
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		unit = emu.NewBranchUnit(regFile)
		regFile.SetPC(0x1000)
	})

	It("should branch relative to PC+8", func() {
		unit.B(0x20)
		Expect(regFile.PC()).To(Equal(uint32(0x1028)))
	})

	It("should branch backwards", func() {
		unit.B(-8)
		Expect(regFile.PC()).To(Equal(uint32(0x1000)))
	})

	It("should save the return address for BL", func() {
		unit.BL(0x100)
		Expect(regFile.PC()).To(Equal(uint32(0x1108)))
		Expect(regFile.R[emu.RegLR]).To(Equal(uint32(0x1004)))
	})

	It("should check conditions against the committed flags", func() {
		Expect(unit.CheckCondition(insts.CondEQ)).To(BeFalse())
		regFile.CommitFlags(emu.Flags{Z: true})
		Expect(unit.CheckCondition(insts.CondEQ)).To(BeTrue())
	})
})

var _ = Describe("Memory", func() {
	var memory *emu.Memory

	BeforeEach(func() {
		memory = emu.NewMemory()
	})

	It("should read unwritten memory as zero", func() {
		Expect(memory.Read32(0xBEEF0000)).To(BeZero())
		Expect(memory.Read8(0)).To(BeZero())
	})

	It("should store words little-endian", func() {
		memory.Write32(0x2000, 0x11223344)
		Expect(memory.Read8(0x2000)).To(Equal(byte(0x44)))
		Expect(memory.Read8(0x2003)).To(Equal(byte(0x11)))
		Expect(memory.Read16(0x2002)).To(Equal(uint16(0x1122)))
	})

	It("should handle accesses across a page boundary", func() {
		memory.Write32(0x2FFE, 0xAABBCCDD)
		Expect(memory.Read32(0x2FFE)).To(Equal(uint32(0xAABBCCDD)))
		Expect(memory.Read16(0x3000)).To(Equal(uint16(0xAABB)))
	})

	It("should load a program image", func() {
		memory.LoadProgram(0x8000, []byte{0x01, 0x02, 0x03, 0x04})
		Expect(memory.Read32(0x8000)).To(Equal(uint32(0x04030201)))

		memory.Write16(0x8000, 0xFFFF)
		Expect(memory.Read32(0x8000)).To(Equal(uint32(0x0403FFFF)))
	})
})
