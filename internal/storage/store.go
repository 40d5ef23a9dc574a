package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/studyloop/lessonstore/internal/lesson"
)

// Options configures a Store. Both storage providers are injected so tests
// can substitute fakes.
type Options struct {
	// Transactional opens the preferred backend. Nil means the
	// transactional store is unavailable in this environment and the
	// Store goes straight to the fallback.
	Transactional Provider

	// Fallback is the quota-limited backend used when the transactional
	// store is absent or fails to open. It also holds any legacy data the
	// migration runner copies forward. Required.
	Fallback Backend

	// Logger receives diagnostics for absorbed errors. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Store is the CRUD façade. A single process-wide instance is expected to
// be shared by all callers; the zero value is not usable, construct with
// New.
type Store struct {
	provider Provider
	fallback Backend
	log      *slog.Logger

	initOnce sync.Once
	backend  Backend

	// migrationDone is closed when the background migration finishes
	// (immediately when no migration runs). Set during init.
	migrationDone chan struct{}
}

// New creates a Store. No backend is touched until the first operation.
func New(opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		provider: opts.Transactional,
		fallback: opts.Fallback,
		log:      log,
	}
}

// init selects the backend exactly once. Concurrent first calls block here
// and all observe the same outcome; the open attempt runs at most once.
func (s *Store) init() {
	s.initOnce.Do(func() {
		s.migrationDone = make(chan struct{})

		if s.provider == nil {
			s.log.Info("transactional store unavailable, using fallback backend")
			s.backend = s.fallback
			close(s.migrationDone)
			return
		}

		backend, err := s.provider.Open(context.Background())
		if err != nil {
			// Degrade silently: the open failure never reaches the caller.
			s.log.Error("failed to open transactional store, using fallback backend", "err", err)
			s.backend = s.fallback
			close(s.migrationDone)
			return
		}

		s.backend = backend
		go func() {
			defer close(s.migrationDone)
			s.migrateLegacyData(context.Background())
		}()
	})
}

// AwaitMigration blocks until the one-time legacy migration has finished.
// Callers that read immediately after startup and need a settled view can
// wait here; everyone else may race the copy and observe it mid-flight.
func (s *Store) AwaitMigration() {
	s.init()
	<-s.migrationDone
}

// SaveLesson upserts a single record by id. Write failures propagate.
func (s *Store) SaveLesson(ctx context.Context, l lesson.Lesson) error {
	s.init()
	return s.backend.PutLesson(ctx, l)
}

// GetLesson returns the record with the given id. Missing records and
// lookup failures both report ok=false; lookups never fail loudly.
func (s *Store) GetLesson(ctx context.Context, id string) (lesson.Lesson, bool) {
	s.init()
	l, err := s.backend.GetLesson(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return lesson.Lesson{}, false
	}
	if err != nil {
		s.log.Warn("lesson lookup failed, treating as not found", "id", id, "err", err)
		return lesson.Lesson{}, false
	}
	return l, true
}

// GetAllLessons returns every stored record. Read failures are absorbed
// into an empty result.
func (s *Store) GetAllLessons(ctx context.Context) []lesson.Lesson {
	s.init()
	lessons, err := s.backend.GetAllLessons(ctx)
	if err != nil {
		s.log.Warn("reading lessons failed, returning none", "err", err)
		return nil
	}
	return lessons
}

// DeleteLesson removes the record with the given id. Deleting an absent id
// is a no-op. Write failures propagate.
func (s *Store) DeleteLesson(ctx context.Context, id string) error {
	s.init()
	return s.backend.DeleteLesson(ctx, id)
}

// SaveAllLessons replaces the entire collection with the given records.
// Under the fallback backend a payload over capacity fails with
// QuotaExceededError and leaves the stored value unchanged.
//
// The replace is not atomic: a concurrent reader may observe an empty or
// partial collection between the clear and the last insert.
func (s *Store) SaveAllLessons(ctx context.Context, lessons []lesson.Lesson) error {
	s.init()
	return s.backend.ReplaceAllLessons(ctx, lessons)
}

// SaveMetadata upserts a metadata value by key. Under the fallback backend
// this is an accepted no-op: metadata has no meaning without the
// transactional store.
func (s *Store) SaveMetadata(ctx context.Context, key string, value any) error {
	s.init()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.backend.PutMetadata(ctx, key, data)
}

// GetMetadata returns the metadata value for key. Missing keys and lookup
// failures both report ok=false.
func (s *Store) GetMetadata(ctx context.Context, key string) (json.RawMessage, bool) {
	s.init()
	value, err := s.backend.GetMetadata(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.log.Warn("metadata lookup failed, treating as absent", "key", key, "err", err)
		return nil, false
	}
	return value, true
}

// Info describes the active backend and the current record count.
type Info struct {
	Backend string `json:"backend"`
	Lessons int    `json:"lessons"`
}

// Info reports which backend is active and how many lessons it holds at
// the time of the call.
func (s *Store) Info(ctx context.Context) Info {
	s.init()
	return Info{
		Backend: s.backend.Name(),
		Lessons: len(s.GetAllLessons(ctx)),
	}
}
