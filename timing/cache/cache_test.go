package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/a32sim/emu"
	"github.com/sarchlab/a32sim/timing/cache"
)

var _ = Describe("Cache", func() {
	var (
		c      *cache.Cache
		memory *emu.Memory
	)

	// 1KB, 2-way, 32B lines: 16 sets, so lines 0x200 apart share a set.
	config := cache.Config{
		Size:          1024,
		Associativity: 2,
		BlockSize:     32,
		HitLatency:    1,
		MissLatency:   10,
	}

	BeforeEach(func() {
		memory = emu.NewMemory()

		var err error
		c, err = cache.New(config, cache.NewMemoryBacking(memory))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Fetch", func() {
		It("should miss on cold cache", func() {
			memory.Write32(0x1000, 0xE3A0002A)

			result := c.Fetch(0x1000)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Latency).To(Equal(uint64(10)))
			Expect(result.Word).To(Equal(uint32(0xE3A0002A)))

			stats := c.Stats()
			Expect(stats.Fetches).To(Equal(uint64(1)))
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.Hits).To(BeZero())
		})

		It("should hit on a resident line", func() {
			memory.Write32(0x1000, 0xE0810002)

			c.Fetch(0x1000)
			result := c.Fetch(0x1000)

			Expect(result.Hit).To(BeTrue())
			Expect(result.Latency).To(Equal(uint64(1)))
			Expect(result.Word).To(Equal(uint32(0xE0810002)))
			Expect(c.Stats().HitRate()).To(BeNumerically("==", 0.5))
		})

		It("should hit on the other words of a fetched line", func() {
			for i := uint32(0); i < 8; i++ {
				memory.Write32(0x1000+4*i, 0xE3A00000|i)
			}

			c.Fetch(0x1000)

			for i := uint32(1); i < 8; i++ {
				result := c.Fetch(0x1000 + 4*i)
				Expect(result.Hit).To(BeTrue())
				Expect(result.Word).To(Equal(0xE3A00000 | i))
			}
		})

		It("should align the fetch address to a word", func() {
			memory.Write32(0x1004, 0xEF000000)

			Expect(c.Fetch(0x1006).Word).To(Equal(uint32(0xEF000000)))
		})
	})

	Describe("Replacement", func() {
		It("should evict the least recently used line of a full set", func() {
			memory.Write32(0x0000, 0x11111111)
			memory.Write32(0x0200, 0x22222222)
			memory.Write32(0x0400, 0x33333333)

			c.Fetch(0x0000)
			c.Fetch(0x0200)
			c.Fetch(0x0000) // 0x0200 is now LRU

			result := c.Fetch(0x0400)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Evicted).To(BeTrue())
			Expect(result.EvictedAddr).To(Equal(uint32(0x0200)))
			Expect(result.Word).To(Equal(uint32(0x33333333)))

			Expect(c.Contains(0x0000)).To(BeTrue())
			Expect(c.Contains(0x0200)).To(BeFalse())
			Expect(c.Stats().Evictions).To(Equal(uint64(1)))
		})

		It("should not evict across sets", func() {
			c.Fetch(0x0000)
			c.Fetch(0x0020)
			c.Fetch(0x0040)

			Expect(c.Stats().Evictions).To(BeZero())
		})
	})

	Describe("Invalidation", func() {
		It("should refetch a line after Invalidate", func() {
			memory.Write32(0x2000, 0xE3A00001)
			c.Fetch(0x2000)

			memory.Write32(0x2000, 0xE3A00002)
			Expect(c.Fetch(0x2000).Word).To(Equal(uint32(0xE3A00001)))

			c.Invalidate(0x2000)
			result := c.Fetch(0x2000)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Word).To(Equal(uint32(0xE3A00002)))
		})

		It("should drop every line a range overlaps", func() {
			c.Fetch(0x3000)
			c.Fetch(0x3020)
			c.Fetch(0x3040)

			c.InvalidateRange(0x301C, 8)

			Expect(c.Contains(0x3000)).To(BeFalse())
			Expect(c.Contains(0x3020)).To(BeFalse())
			Expect(c.Contains(0x3040)).To(BeTrue())
		})

		It("should clear lines and statistics on Reset", func() {
			c.Fetch(0x4000)
			c.Reset()

			Expect(c.Contains(0x4000)).To(BeFalse())
			Expect(c.Stats()).To(Equal(cache.Statistics{}))
		})
	})

	Describe("Config", func() {
		It("should accept the default configuration", func() {
			Expect(cache.DefaultConfig().Validate()).To(Succeed())
		})

		DescribeTable("should reject bad geometry",
			func(cfg cache.Config) {
				_, err := cache.New(cfg, nil)
				Expect(err).To(HaveOccurred())
			},
			Entry("zero ways", cache.Config{Size: 1024, Associativity: 0, BlockSize: 32}),
			Entry("line not a power of two", cache.Config{Size: 1152, Associativity: 3, BlockSize: 24}),
			Entry("partial set", cache.Config{Size: 1000, Associativity: 2, BlockSize: 32}),
		)

		It("should fill lines with zeros without a backing store", func() {
			bare, err := cache.New(config, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(bare.Fetch(0x100).Word).To(BeZero())
		})
	})
})
