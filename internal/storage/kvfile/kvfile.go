// Package kvfile is a synchronous key-value provider backed by a single
// JSON file with an enforced byte capacity. It plays the role the fallback
// backend expects from a small client key-value store.
package kvfile

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/studyloop/lessonstore/internal/storage"
)

// KV is a file-backed key-value store. Every Set rewrites the file
// synchronously; a Set that would push the serialized file past the
// configured limit fails without touching the stored data.
type KV struct {
	path  string
	limit int // max serialized bytes, 0 means unlimited

	mu   sync.Mutex
	data map[string]string
}

// Open loads the store at path, creating an empty one if the file does not
// exist. limit caps the serialized file size in bytes; 0 disables the cap.
func Open(path string, limit int) (*KV, error) {
	kv := &KV{
		path:  path,
		limit: limit,
		data:  map[string]string{},
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return kv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &kv.data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return kv, nil
}

// Get returns the value stored under key.
func (kv *KV) Get(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	value, ok := kv.data[key]
	return value, ok
}

// Set stores value under key and persists the file before returning.
// Exceeding the capacity limit fails with an error wrapping
// storage.ErrCapacityExceeded and leaves both the in-memory map and the
// file unchanged.
func (kv *KV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	next := make(map[string]string, len(kv.data)+1)
	for k, v := range kv.data {
		next[k] = v
	}
	next[key] = value

	encoded, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if kv.limit > 0 && len(encoded) > kv.limit {
		return fmt.Errorf("writing %q (%d bytes > %d limit): %w",
			key, len(encoded), kv.limit, storage.ErrCapacityExceeded)
	}

	if err := os.WriteFile(kv.path, encoded, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", kv.path, err)
	}
	kv.data = next
	return nil
}
