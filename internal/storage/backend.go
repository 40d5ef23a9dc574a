package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/studyloop/lessonstore/internal/lesson"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")

	// ErrCapacityExceeded is the signal a synchronous key-value provider
	// returns (possibly wrapped) when a write would exceed its capacity.
	ErrCapacityExceeded = errors.New("storage capacity exceeded")
)

// Backend is the uniform capability set both storage variants expose.
// The façade holds exactly one Backend, chosen at initialization.
type Backend interface {
	// Name identifies the backend in diagnostics ("sqlite" or "fallback").
	Name() string

	// PutLesson upserts a single record by id.
	PutLesson(ctx context.Context, l lesson.Lesson) error

	// GetLesson returns the record with the given id, or ErrNotFound.
	GetLesson(ctx context.Context, id string) (lesson.Lesson, error)

	// GetAllLessons returns every stored record.
	GetAllLessons(ctx context.Context) ([]lesson.Lesson, error)

	// DeleteLesson removes the record with the given id. Deleting an
	// absent id is a no-op, not an error.
	DeleteLesson(ctx context.Context, id string) error

	// ReplaceAllLessons clears the collection and stores exactly the
	// given records, in order.
	ReplaceAllLessons(ctx context.Context, lessons []lesson.Lesson) error

	// PutMetadata upserts a metadata value by key.
	PutMetadata(ctx context.Context, key string, value json.RawMessage) error

	// GetMetadata returns the metadata value for key, or ErrNotFound.
	GetMetadata(ctx context.Context, key string) (json.RawMessage, error)
}

// Provider opens the transactional backend. A nil Provider models an
// environment where the transactional store API is absent entirely.
type Provider interface {
	Open(ctx context.Context) (Backend, error)
}

// KV is the synchronous key-value provider contract the fallback backend
// builds on. Set may fail with an error wrapping ErrCapacityExceeded when
// the write would exceed the provider's capacity; a failed Set must leave
// the previously stored value unchanged.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// QuotaExceededError is returned by SaveAllLessons under the fallback
// backend when the serialized payload exceeds the provider's capacity.
// This is the only error kind callers are expected to handle explicitly.
type QuotaExceededError struct {
	Err error // underlying capacity failure from the provider
}

// Error implements the error interface with user-facing guidance.
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("lesson storage is full: %v; delete some lessons or enable the database-backed store", e.Err)
}

// Unwrap exposes the provider's capacity error for errors.Is chains.
func (e *QuotaExceededError) Unwrap() error {
	return e.Err
}

// IsQuotaExceeded reports whether err is a QuotaExceededError.
// Uses errors.As to handle wrapped errors.
func IsQuotaExceeded(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}
