package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/a32sim/emu"
	"github.com/sarchlab/a32sim/insts"
)

var _ = Describe("Barrel shifter", func() {
	Describe("ShiftC", func() {
		DescribeTable("amounts 1 to 31",
			func(x uint32, t insts.ShiftType, amount uint32, want uint32, wantCarry bool) {
				got, carry, err := emu.ShiftC(x, t, amount, false)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(want))
				Expect(carry).To(Equal(wantCarry))
			},
			Entry("LSL shifts out bit 31", uint32(0x80000001), insts.ShiftLSL, uint32(1), uint32(0x00000002), true),
			Entry("LSL by 31", uint32(0x00000003), insts.ShiftLSL, uint32(31), uint32(0x80000000), true),
			Entry("LSR shifts out bit 0", uint32(0x00000003), insts.ShiftLSR, uint32(1), uint32(0x00000001), true),
			Entry("LSR zero-fills", uint32(0x80000000), insts.ShiftLSR, uint32(31), uint32(0x00000001), false),
			Entry("ASR sign-extends", uint32(0x80000000), insts.ShiftASR, uint32(4), uint32(0xF8000000), false),
			Entry("ASR of a positive value", uint32(0x7FFFFFF8), insts.ShiftASR, uint32(3), uint32(0x0FFFFFFF), false),
			Entry("ROR by 1", uint32(0x00000001), insts.ShiftROR, uint32(1), uint32(0x80000000), true),
			Entry("ROR by 8", uint32(0x12345678), insts.ShiftROR, uint32(8), uint32(0x78123456), false),
		)

		DescribeTable("amount 0 leaves value and carry alone",
			func(t insts.ShiftType, carryIn bool) {
				got, carry, err := emu.ShiftC(0xDEADBEEF, t, 0, carryIn)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(uint32(0xDEADBEEF)))
				Expect(carry).To(Equal(carryIn))
			},
			Entry("LSL, carry clear", insts.ShiftLSL, false),
			Entry("LSL, carry set", insts.ShiftLSL, true),
			Entry("LSR, carry set", insts.ShiftLSR, true),
			Entry("ASR, carry clear", insts.ShiftASR, false),
		)

		It("should rotate through the carry for ROR #0", func() {
			got, carry, err := emu.ShiftC(1, insts.ShiftROR, 0, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(uint32(0x80000000)))
			Expect(carry).To(BeTrue())

			got, carry, err = emu.ShiftC(2, insts.ShiftROR, 0, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(uint32(1)))
			Expect(carry).To(BeFalse())
		})

		DescribeTable("amounts of 32 or more",
			func(x uint32, t insts.ShiftType, amount uint32, want uint32, wantCarry bool) {
				got, carry, err := emu.ShiftC(x, t, amount, true)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(want))
				Expect(carry).To(Equal(wantCarry))
			},
			Entry("LSL #32", uint32(0xFFFFFFFF), insts.ShiftLSL, uint32(32), uint32(0), false),
			Entry("LSL #200", uint32(0xFFFFFFFF), insts.ShiftLSL, uint32(200), uint32(0), false),
			Entry("LSR #32", uint32(0x80000000), insts.ShiftLSR, uint32(32), uint32(0), false),
			Entry("LSR #40", uint32(0xFFFFFFFF), insts.ShiftLSR, uint32(40), uint32(0), false),
			Entry("ASR of a negative value", uint32(0x80000000), insts.ShiftASR, uint32(32), uint32(0xFFFFFFFF), true),
			Entry("ASR of a positive value", uint32(0x7FFFFFFF), insts.ShiftASR, uint32(100), uint32(0), false),
			Entry("ROR wraps modulo 32", uint32(0x12345678), insts.ShiftROR, uint32(40), uint32(0x78123456), false),
			Entry("ROR #32 is identity with carry from bit 31", uint32(0x80000001), insts.ShiftROR, uint32(32),
				uint32(0x80000001), true),
		)

		It("should reject an unknown shift type at any amount", func() {
			_, _, err := emu.ShiftC(1, insts.ShiftType(4), 3, false)
			Expect(err).To(MatchError(emu.ErrUnknownShiftType))

			_, _, err = emu.ShiftC(1, insts.ShiftType(7), 0, false)
			Expect(err).To(MatchError(emu.ErrUnknownShiftType))
		})
	})

	Describe("Shift.Apply", func() {
		It("should pass the operand through for NoShift", func() {
			got, carry, err := emu.NoShift.Apply(0x1234, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(uint32(0x1234)))
			Expect(carry).To(BeTrue())
		})

		It("should reject literal amounts of 32 or more", func() {
			for _, amount := range []uint32{32, 33, 255} {
				_, _, err := emu.ImmShift(insts.ShiftLSL, amount).Apply(1, false)
				Expect(err).To(MatchError(emu.ErrShiftAmountOutOfRange))
			}
		})

		It("should treat a literal ROR #0 as RRX", func() {
			got, carry, err := emu.ImmShift(insts.ShiftROR, 0).Apply(1, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeZero())
			Expect(carry).To(BeTrue())
		})

		It("should apply no shift for a zero register amount", func() {
			got, carry, err := emu.RegShift(insts.ShiftROR, 0).Apply(1, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(uint32(1)))
			Expect(carry).To(BeFalse())
		})

		It("should use only the bottom byte of the register", func() {
			// 0x100 has a zero bottom byte
			got, carry, err := emu.RegShift(insts.ShiftLSL, 0x100).Apply(5, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(uint32(5)))
			Expect(carry).To(BeTrue())

			got, _, err = emu.RegShift(insts.ShiftLSL, 0xFFFFFF04).Apply(1, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(uint32(16)))
		})

		It("should accept register amounts of 32 and above", func() {
			got, carry, err := emu.RegShift(insts.ShiftASR, 200).Apply(0x80000000, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(uint32(0xFFFFFFFF)))
			Expect(carry).To(BeTrue())
		})

		It("should reject an unknown shift type from a zero register", func() {
			_, _, err := emu.RegShift(insts.ShiftType(5), 0).Apply(1, false)
			Expect(err).To(MatchError(emu.ErrUnknownShiftType))
		})
	})
})
