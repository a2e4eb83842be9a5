package filter

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// BloomFilter front-loads resolution: a negative answer means the code was
// never issued, so the resolver can 404 without touching cache or store.
// Positive answers carry the configured false-positive rate and must still
// be confirmed downstream.
type BloomFilter struct {
	filter *bloom.BloomFilter
	mu     sync.RWMutex
}

func NewBloomFilter(capacity uint, fpRate float64) *BloomFilter {
	return &BloomFilter{
		filter: bloom.NewWithEstimates(capacity, fpRate),
	}
}

func (bf *BloomFilter) Add(shortCode string) {
	bf.mu.Lock()
	defer bf.mu.Unlock()
	bf.filter.AddString(shortCode)
}

// MayContain reports whether shortCode might have been issued. False is
// definitive; true is probabilistic.
func (bf *BloomFilter) MayContain(shortCode string) bool {
	bf.mu.RLock()
	defer bf.mu.RUnlock()
	return bf.filter.TestString(shortCode)
}

func (bf *BloomFilter) AddBatch(shortCodes []string) {
	bf.mu.Lock()
	defer bf.mu.Unlock()
	for _, code := range shortCodes {
		bf.filter.AddString(code)
	}
}
