package bitfield_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/a32sim/bitfield"
)

var _ = Describe("Containers", func() {
	Describe("Word", func() {
		It("should expose little-endian bytes", func() {
			w := bitfield.Word(0x11223344)
			Expect(w.BitWidth()).To(Equal(32))
			Expect(w.ByteAt(0)).To(Equal(byte(0x44)))
			Expect(w.ByteAt(3)).To(Equal(byte(0x11)))
			Expect(w.ByteAt(4)).To(Equal(byte(0)))
			Expect(w.Raw()).To(Equal(uint64(0x11223344)))
		})

		It("should compare by width and bits", func() {
			Expect(bitfield.Word(0x208).Equal(bitfield.Word(0x208))).To(BeTrue())
			Expect(bitfield.Word(0x208).Equal(bitfield.NewImm12(0x208))).To(BeFalse())
			Expect(bitfield.Word(1).Equal(nil)).To(BeFalse())
		})
	})

	Describe("Imm12", func() {
		It("should truncate to 12 bits at construction", func() {
			imm := bitfield.NewImm12(0xABCD)
			Expect(imm.Raw()).To(Equal(uint64(0xBCD)))
			Expect(imm.BitWidth()).To(Equal(12))
		})

		It("should expose the rotation nibble in the high byte", func() {
			imm := bitfield.NewImm12(0x4FF)
			Expect(imm.ByteAt(0)).To(Equal(byte(0xFF)))
			Expect(imm.ByteAt(1)).To(Equal(byte(0x04)))
			Expect(imm.ByteAt(2)).To(Equal(byte(0)))
		})
	})
})
