// Package fallback implements the quota-limited lesson storage backend.
//
// The whole lesson collection lives in one serialized array under a fixed
// key of a synchronous key-value provider, mirroring how small client
// environments keep state when no real database is available. Every write
// rewrites the full array.
package fallback

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/studyloop/lessonstore/internal/lesson"
	"github.com/studyloop/lessonstore/internal/storage"
)

// LessonsKey is the fixed provider key holding the serialized lesson
// array. Legacy data written by earlier versions lives under the same key,
// which is what the migration runner reads.
const LessonsKey = "lessons"

// Backend stores lessons in a synchronous key-value provider.
type Backend struct {
	kv storage.KV
}

// New creates a fallback backend over the given provider.
func New(kv storage.KV) *Backend {
	return &Backend{kv: kv}
}

// Name implements storage.Backend.
func (b *Backend) Name() string {
	return "fallback"
}

// PutLesson upserts a record by id, rewriting the whole array.
func (b *Backend) PutLesson(ctx context.Context, l lesson.Lesson) error {
	lessons, err := b.GetAllLessons(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range lessons {
		if existing.ID == l.ID {
			lessons[i] = l
			replaced = true
			break
		}
	}
	if !replaced {
		lessons = append(lessons, l)
	}

	return b.writeAll(lessons)
}

// GetLesson scans the array for the given id.
func (b *Backend) GetLesson(ctx context.Context, id string) (lesson.Lesson, error) {
	lessons, err := b.GetAllLessons(ctx)
	if err != nil {
		return lesson.Lesson{}, err
	}
	for _, l := range lessons {
		if l.ID == id {
			return l, nil
		}
	}
	return lesson.Lesson{}, storage.ErrNotFound
}

// GetAllLessons deserializes the array entry. An absent entry is an empty
// collection, not an error.
func (b *Backend) GetAllLessons(ctx context.Context) ([]lesson.Lesson, error) {
	value, ok := b.kv.Get(LessonsKey)
	if !ok {
		return []lesson.Lesson{}, nil
	}
	return lesson.DecodeArray([]byte(value))
}

// DeleteLesson filters the array and re-saves it. Deleting an absent id is
// a no-op that skips the rewrite.
func (b *Backend) DeleteLesson(ctx context.Context, id string) error {
	lessons, err := b.GetAllLessons(ctx)
	if err != nil {
		return err
	}

	filtered := lessons[:0]
	for _, l := range lessons {
		if l.ID != id {
			filtered = append(filtered, l)
		}
	}
	if len(filtered) == len(lessons) {
		return nil
	}

	return b.writeAll(filtered)
}

// ReplaceAllLessons stores exactly the given records. A payload over the
// provider's capacity fails with storage.QuotaExceededError and leaves the
// previously stored value unchanged; other errors propagate as-is.
func (b *Backend) ReplaceAllLessons(ctx context.Context, lessons []lesson.Lesson) error {
	if err := b.writeAll(lessons); err != nil {
		if errors.Is(err, storage.ErrCapacityExceeded) {
			return &storage.QuotaExceededError{Err: err}
		}
		return err
	}
	return nil
}

// PutMetadata is an accepted no-op: metadata has no meaning without the
// transactional backend.
func (b *Backend) PutMetadata(ctx context.Context, key string, value json.RawMessage) error {
	return nil
}

// GetMetadata always reports absent, for the same reason.
func (b *Backend) GetMetadata(ctx context.Context, key string) (json.RawMessage, error) {
	return nil, storage.ErrNotFound
}

func (b *Backend) writeAll(lessons []lesson.Lesson) error {
	data, err := lesson.EncodeArray(lessons)
	if err != nil {
		return err
	}
	return b.kv.Set(LessonsKey, string(data))
}
