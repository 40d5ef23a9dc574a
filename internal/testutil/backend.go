// Package testutil provides in-memory doubles for the storage providers.
//
// The fakes count their calls so tests can assert on interaction shape,
// not just final state: single open attempt under concurrent
// initialization, zero copy operations on a second migration pass, and so
// on.
package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/studyloop/lessonstore/internal/lesson"
	"github.com/studyloop/lessonstore/internal/storage"
)

// MemoryBackend is an in-memory storage.Backend preserving insertion
// order. Error fields, when set, are returned by the corresponding
// operations to exercise the façade's error policies.
type MemoryBackend struct {
	ReadErr  error // returned by GetLesson/GetAllLessons/GetMetadata
	WriteErr error // returned by PutLesson/DeleteLesson/ReplaceAllLessons/PutMetadata

	mu       sync.Mutex
	lessons  []lesson.Lesson
	metadata map[string]json.RawMessage

	putCalls int
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{metadata: map[string]json.RawMessage{}}
}

// Name implements storage.Backend.
func (b *MemoryBackend) Name() string { return "memory" }

// PutCalls returns how many PutLesson calls the backend has seen.
func (b *MemoryBackend) PutCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.putCalls
}

// PutLesson implements storage.Backend.
func (b *MemoryBackend) PutLesson(ctx context.Context, l lesson.Lesson) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.putCalls++
	if b.WriteErr != nil {
		return b.WriteErr
	}
	for i, existing := range b.lessons {
		if existing.ID == l.ID {
			b.lessons[i] = l
			return nil
		}
	}
	b.lessons = append(b.lessons, l)
	return nil
}

// GetLesson implements storage.Backend.
func (b *MemoryBackend) GetLesson(ctx context.Context, id string) (lesson.Lesson, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ReadErr != nil {
		return lesson.Lesson{}, b.ReadErr
	}
	for _, l := range b.lessons {
		if l.ID == id {
			return l, nil
		}
	}
	return lesson.Lesson{}, storage.ErrNotFound
}

// GetAllLessons implements storage.Backend.
func (b *MemoryBackend) GetAllLessons(ctx context.Context) ([]lesson.Lesson, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ReadErr != nil {
		return nil, b.ReadErr
	}
	out := make([]lesson.Lesson, len(b.lessons))
	copy(out, b.lessons)
	return out, nil
}

// DeleteLesson implements storage.Backend.
func (b *MemoryBackend) DeleteLesson(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.WriteErr != nil {
		return b.WriteErr
	}
	for i, l := range b.lessons {
		if l.ID == id {
			b.lessons = append(b.lessons[:i], b.lessons[i+1:]...)
			return nil
		}
	}
	return nil
}

// ReplaceAllLessons implements storage.Backend.
func (b *MemoryBackend) ReplaceAllLessons(ctx context.Context, lessons []lesson.Lesson) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.WriteErr != nil {
		return b.WriteErr
	}
	b.lessons = make([]lesson.Lesson, len(lessons))
	copy(b.lessons, lessons)
	return nil
}

// PutMetadata implements storage.Backend.
func (b *MemoryBackend) PutMetadata(ctx context.Context, key string, value json.RawMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.WriteErr != nil {
		return b.WriteErr
	}
	b.metadata[key] = value
	return nil
}

// GetMetadata implements storage.Backend.
func (b *MemoryBackend) GetMetadata(ctx context.Context, key string) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ReadErr != nil {
		return nil, b.ReadErr
	}
	value, ok := b.metadata[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return value, nil
}
