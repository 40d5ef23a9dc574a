package storage

import (
	"context"
	"encoding/json"
)

// migratedKey is the metadata key guarding the one-time legacy migration.
// Once set true it is never cleared, so the copy runs at most once per
// database lifetime.
const migratedKey = "migrated"

// migrateLegacyData copies records held by the fallback store into the
// transactional backend, exactly once. Runs detached after the first
// successful open; every failure here is logged and absorbed so migration
// can never affect CRUD availability.
func (s *Store) migrateLegacyData(ctx context.Context) {
	if s.isMigrated(ctx) {
		return
	}

	legacy, err := s.fallback.GetAllLessons(ctx)
	if err != nil {
		// A corrupt legacy entry leaves the flag unset so a later start
		// can retry once the data is readable again.
		s.log.Error("migration aborted: reading legacy lessons failed", "err", err)
		return
	}

	copied := 0
	for _, l := range legacy {
		// Records are copied in order and independently: one failed save
		// does not abort the rest.
		if err := s.backend.PutLesson(ctx, l); err != nil {
			s.log.Error("migration: copying lesson failed", "id", l.ID, "err", err)
			continue
		}
		copied++
	}

	// The flag is persisted even when there was nothing to copy, so cold
	// starts never re-run the scan.
	if err := s.backend.PutMetadata(ctx, migratedKey, json.RawMessage("true")); err != nil {
		s.log.Error("migration: persisting migrated flag failed", "err", err)
		return
	}

	if len(legacy) > 0 {
		s.log.Info("migrated legacy lessons", "copied", copied, "total", len(legacy))
	}
}

// isMigrated reads the persisted migration flag. Lookup failures count as
// not migrated; the copy path is idempotent enough to tolerate a rerun.
func (s *Store) isMigrated(ctx context.Context) bool {
	value, err := s.backend.GetMetadata(ctx, migratedKey)
	if err != nil {
		return false
	}
	var migrated bool
	if err := json.Unmarshal(value, &migrated); err != nil {
		return false
	}
	return migrated
}
