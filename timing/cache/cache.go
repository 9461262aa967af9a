// Package cache provides an instruction cache model built on the Akita
// cache directory.
package cache

import (
	"encoding/binary"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
	"tlog.app/go/errors"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize in bytes (cache line size)
	BlockSize int
	// HitLatency in cycles
	HitLatency uint64
	// MissLatency in cycles (includes memory access time)
	MissLatency uint64
}

// DefaultConfig returns the default L1 instruction cache configuration:
// 32KB, 4-way, 32B lines.
func DefaultConfig() Config {
	return Config{
		Size:          32 * 1024,
		Associativity: 4,
		BlockSize:     32,
		HitLatency:    1,
		MissLatency:   100,
	}
}

// Validate checks that the geometry describes at least one whole set and
// that lines can hold an aligned instruction word.
func (c Config) Validate() error {
	if c.Associativity <= 0 || c.BlockSize <= 0 {
		return errors.New("associativity and block size must be > 0")
	}
	if c.BlockSize%4 != 0 || c.BlockSize&(c.BlockSize-1) != 0 {
		return errors.New("block size %d must be a power of two multiple of 4", c.BlockSize)
	}
	if c.Size < c.Associativity*c.BlockSize || c.Size%(c.Associativity*c.BlockSize) != 0 {
		return errors.New("size %d is not a whole number of %d-way sets of %dB lines",
			c.Size, c.Associativity, c.BlockSize)
	}
	return nil
}

// FetchResult contains the result of an instruction fetch.
type FetchResult struct {
	// Hit indicates whether the fetch was a cache hit.
	Hit bool
	// Latency is the number of cycles this fetch takes.
	Latency uint64
	// Word is the instruction word read.
	Word uint32
	// Evicted is true if a valid line was replaced.
	Evicted bool
	// EvictedAddr is the address of the replaced line (if Evicted is true).
	EvictedAddr uint32
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Fetches   uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits over fetches, or 0 before the first fetch.
func (s Statistics) HitRate() float64 {
	if s.Fetches == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Fetches)
}

// BackingStore is the next level in the memory hierarchy.
type BackingStore interface {
	// Read fetches size bytes starting at addr.
	Read(addr uint32, size int) []byte
}

// Cache is a read-only instruction cache. Lines are never dirty, so a
// replacement never writes back.
type Cache struct {
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Line storage indexed by (setID * associativity + wayID)
	dataStore [][]byte

	stats   Statistics
	backing BackingStore
}

// New creates a new cache with the given configuration.
func New(config Config, backing BackingStore) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid cache config")
	}

	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}, nil
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint32) uint32 {
	return addr &^ uint32(c.config.BlockSize-1)
}

// Fetch reads the instruction word at addr. The address is word-aligned
// first, so a fetch never straddles two lines.
func (c *Cache) Fetch(addr uint32) FetchResult {
	c.stats.Fetches++

	addr &^= 3
	blockAddr := c.blockAddr(addr)
	offset := addr - blockAddr

	block := c.directory.Lookup(0, uint64(blockAddr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		line := c.dataStore[c.blockIndex(block)]

		return FetchResult{
			Hit:     true,
			Latency: c.config.HitLatency,
			Word:    binary.LittleEndian.Uint32(line[offset:]),
		}
	}

	c.stats.Misses++

	return c.handleMiss(blockAddr, offset)
}

// handleMiss fills a victim line from the backing store.
func (c *Cache) handleMiss(blockAddr, offset uint32) FetchResult {
	result := FetchResult{Latency: c.config.MissLatency}

	victim := c.directory.FindVictim(uint64(blockAddr))
	if victim == nil {
		return result
	}

	line := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = uint32(victim.Tag)
	}

	if c.backing != nil {
		copy(line, c.backing.Read(blockAddr, c.config.BlockSize))
	} else {
		clear(line)
	}

	victim.Tag = uint64(blockAddr)
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	result.Word = binary.LittleEndian.Uint32(line[offset:])

	return result
}

// Contains reports whether the line holding addr is resident. It does not
// count as an access and does not touch LRU state.
func (c *Cache) Contains(addr uint32) bool {
	block := c.directory.Lookup(0, uint64(c.blockAddr(addr)))
	return block != nil && block.IsValid
}

// Invalidate drops the line holding addr, if resident. Callers use it after
// writing to memory that may hold code.
func (c *Cache) Invalidate(addr uint32) {
	block := c.directory.Lookup(0, uint64(c.blockAddr(addr)))
	if block != nil && block.IsValid {
		block.IsValid = false
	}
}

// InvalidateRange drops every line overlapping [addr, addr+size).
func (c *Cache) InvalidateRange(addr uint32, size int) {
	if size <= 0 {
		return
	}

	end := uint64(addr) + uint64(size)
	for line := uint64(c.blockAddr(addr)); line < end; line += uint64(c.config.BlockSize) {
		c.Invalidate(uint32(line))
	}
}

// Reset invalidates all cache lines and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
