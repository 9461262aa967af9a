package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/a32sim/insts"
	"github.com/sarchlab/a32sim/timing/latency"
)

var _ = Describe("Latency", func() {
	var (
		table   *latency.Table
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		table = latency.NewTable()
		decoder = insts.NewDecoder()
	})

	Describe("Default Timing Values", func() {
		It("should have correct ALU latency", func() {
			Expect(table.Config().ALULatency).To(Equal(uint64(1)))
		})

		It("should charge more for a register-specified shift", func() {
			config := table.Config()
			Expect(config.RegisterShiftLatency).To(Equal(uint64(2)))
		})

		It("should have correct multiply latencies", func() {
			config := table.Config()
			Expect(config.MultiplyLatency).To(Equal(uint64(3)))
			Expect(config.LongMultiplyLatency).To(Equal(uint64(4)))
		})

		It("should have correct memory latency", func() {
			Expect(table.Config().MemoryLatency).To(Equal(uint64(100)))
		})
	})

	DescribeTable("GetLatency",
		func(word uint32, expected uint64) {
			inst := decoder.Decode(word)
			Expect(inst.Op).NotTo(Equal(insts.OpUnknown))
			Expect(table.GetLatency(inst)).To(Equal(expected))
		},
		Entry("ADD r0, r1, #42", uint32(0xE281002A), uint64(1)),
		Entry("ADD r0, r1, r2", uint32(0xE0810002), uint64(1)),
		Entry("ADD r0, r1, r2, LSL r3", uint32(0xE0810312), uint64(2)),
		Entry("ADR r0, #8", uint32(0xE28F0008), uint64(1)),
		Entry("MOVS r0, r1, ROR #4", uint32(0xE1B00261), uint64(1)),
		Entry("MUL r0, r1, r2", uint32(0xE0000291), uint64(3)),
		Entry("MLA r0, r1, r2, r3", uint32(0xE0203291), uint64(3)),
		Entry("UMULL r0, r1, r2, r3", uint32(0xE0810392), uint64(4)),
		Entry("UMAAL r0, r1, r2, r3", uint32(0xE0410392), uint64(4)),
		Entry("B #0", uint32(0xEA000000), uint64(1)),
		Entry("BL #0", uint32(0xEB000000), uint64(1)),
		Entry("SVC #0", uint32(0xEF000000), uint64(1)),
	)

	Describe("Instruction Type Detection", func() {
		It("should detect multiply operations", func() {
			mul := decoder.Decode(0xE0000291)
			umull := decoder.Decode(0xE0810392)
			add := decoder.Decode(0xE0810002)

			Expect(table.IsMultiplyOp(mul)).To(BeTrue())
			Expect(table.IsMultiplyOp(umull)).To(BeTrue())
			Expect(table.IsMultiplyOp(add)).To(BeFalse())

			Expect(table.IsLongMultiplyOp(umull)).To(BeTrue())
			Expect(table.IsLongMultiplyOp(mul)).To(BeFalse())
		})

		It("should detect branch operations", func() {
			b := decoder.Decode(0xEA000000)
			bl := decoder.Decode(0xEB000000)
			add := decoder.Decode(0xE0810002)

			Expect(table.IsBranchOp(b)).To(BeTrue())
			Expect(table.IsBranchOp(bl)).To(BeTrue())
			Expect(table.IsBranchOp(add)).To(BeFalse())
		})
	})

	Describe("Nil Instruction Handling", func() {
		It("should return 1 for nil instruction", func() {
			Expect(table.GetLatency(nil)).To(Equal(uint64(1)))
		})

		It("should return false for nil instruction checks", func() {
			Expect(table.IsMultiplyOp(nil)).To(BeFalse())
			Expect(table.IsLongMultiplyOp(nil)).To(BeFalse())
			Expect(table.IsBranchOp(nil)).To(BeFalse())
		})
	})

	Describe("Custom Configuration", func() {
		It("should use custom config values", func() {
			config := latency.DefaultTimingConfig()
			config.ALULatency = 2
			config.RegisterShiftLatency = 3
			config.LongMultiplyLatency = 7
			config.BranchLatency = 5
			customTable := latency.NewTableWithConfig(config)

			Expect(customTable.GetLatency(decoder.Decode(0xE281002A))).To(Equal(uint64(2)))
			Expect(customTable.GetLatency(decoder.Decode(0xE0810312))).To(Equal(uint64(3)))
			Expect(customTable.GetLatency(decoder.Decode(0xE0C10392))).To(Equal(uint64(7)))
			Expect(customTable.GetLatency(decoder.Decode(0xEA000000))).To(Equal(uint64(5)))
		})
	})
})

var _ = Describe("TimingConfig", func() {
	Describe("Default Config", func() {
		It("should create valid default config", func() {
			Expect(latency.DefaultTimingConfig().Validate()).To(Succeed())
		})
	})

	Describe("Validation", func() {
		It("should reject zero ALU latency", func() {
			config := latency.DefaultTimingConfig()
			config.ALULatency = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject a register shift cheaper than a plain ALU op", func() {
			config := latency.DefaultTimingConfig()
			config.ALULatency = 3
			config.RegisterShiftLatency = 1
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject a long multiply cheaper than a multiply", func() {
			config := latency.DefaultTimingConfig()
			config.LongMultiplyLatency = 1
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject zero branch latency", func() {
			config := latency.DefaultTimingConfig()
			config.BranchLatency = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject zero i-cache hit latency", func() {
			config := latency.DefaultTimingConfig()
			config.ICacheHitLatency = 0
			Expect(config.Validate()).To(HaveOccurred())
		})
	})

	Describe("Clone", func() {
		It("should create independent copy", func() {
			original := latency.DefaultTimingConfig()
			clone := original.Clone()

			clone.ALULatency = 100

			Expect(original.ALULatency).To(Equal(uint64(1)))
			Expect(clone.ALULatency).To(Equal(uint64(100)))
		})
	})

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "latency-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := latency.DefaultTimingConfig()
			original.ALULatency = 5
			original.RegisterShiftLatency = 6

			path := filepath.Join(tempDir, "timing.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})

		It("should keep defaults for fields missing from the file", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"multiply_latency": 9, "long_multiply_latency": 12}`), 0644)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.MultiplyLatency).To(Equal(uint64(9)))
			Expect(loaded.ALULatency).To(Equal(uint64(1)))
			Expect(loaded.Validate()).To(Succeed())
		})

		It("should return error for non-existent file", func() {
			_, err := latency.LoadConfig("/nonexistent/path/timing.json")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to read"))
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			Expect(os.WriteFile(path, []byte("not valid json"), 0644)).To(Succeed())

			_, err := latency.LoadConfig(path)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to parse"))
		})
	})
})
