package testutil

import (
	"fmt"
	"sync"

	"github.com/studyloop/lessonstore/internal/storage"
)

// MemoryKV is an in-memory storage.KV with a simulated byte capacity.
// A Set that would exceed Limit fails with storage.ErrCapacityExceeded
// and leaves the stored value unchanged, like the real provider.
type MemoryKV struct {
	Limit int // max total stored bytes, 0 means unlimited

	mu       sync.Mutex
	data     map[string]string
	setCalls int
}

// NewMemoryKV creates an empty in-memory key-value provider.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]string{}}
}

// Get implements storage.KV.
func (kv *MemoryKV) Get(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	value, ok := kv.data[key]
	return value, ok
}

// Set implements storage.KV.
func (kv *MemoryKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.setCalls++

	if kv.Limit > 0 {
		total := len(key) + len(value)
		for k, v := range kv.data {
			if k == key {
				continue
			}
			total += len(k) + len(v)
		}
		if total > kv.Limit {
			return fmt.Errorf("set %q: %w", key, storage.ErrCapacityExceeded)
		}
	}

	kv.data[key] = value
	return nil
}

// SetCalls returns how many Set calls the provider has seen.
func (kv *MemoryKV) SetCalls() int {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	return kv.setCalls
}
