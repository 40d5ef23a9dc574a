package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/studyloop/lessonstore/internal/lesson"
	"github.com/studyloop/lessonstore/internal/storage"
)

func openTestBackend(t *testing.T) *Backend {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lessons.db")
	b, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func testLesson(t *testing.T, raw string) lesson.Lesson {
	t.Helper()
	l, err := lesson.New([]byte(raw))
	if err != nil {
		t.Fatalf("lesson.New(%q) failed: %v", raw, err)
	}
	return l
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lessons.db")

	b, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer b.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lessons.db")

	for i := 0; i < 3; i++ {
		b, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		b.Close()
	}

	b, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer b.Close()

	// Verify both collections exist
	for _, table := range []string{"lessons", "metadata"} {
		var name string
		err := b.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}

	var version int
	if err := b.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("get user_version: %v", err)
	}
	if version != schemaVersion {
		t.Errorf("user_version = %d, expected %d", version, schemaVersion)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(context.Background(), "/nonexistent/dir/lessons.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestOpen_KeepsExistingData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lessons.db")

	b1, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	if err := b1.PutLesson(ctx, testLesson(t, `{"id":"a"}`)); err != nil {
		t.Fatalf("PutLesson() failed: %v", err)
	}
	b1.Close()

	b2, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer b2.Close()

	lessons, err := b2.GetAllLessons(ctx)
	if err != nil {
		t.Fatalf("GetAllLessons() failed: %v", err)
	}
	if len(lessons) != 1 || lessons[0].ID != "a" {
		t.Errorf("expected the saved lesson to survive reopen, got %v", lessons)
	}
}

func TestPutLesson_UpsertsByID(t *testing.T) {
	ctx := context.Background()
	b := openTestBackend(t)

	if err := b.PutLesson(ctx, testLesson(t, `{"id":"a","rev":1}`)); err != nil {
		t.Fatalf("first PutLesson() failed: %v", err)
	}
	if err := b.PutLesson(ctx, testLesson(t, `{"id":"a","rev":2}`)); err != nil {
		t.Fatalf("second PutLesson() failed: %v", err)
	}

	lessons, err := b.GetAllLessons(ctx)
	if err != nil {
		t.Fatalf("GetAllLessons() failed: %v", err)
	}
	if len(lessons) != 1 {
		t.Fatalf("expected 1 lesson after upsert, got %d", len(lessons))
	}
	if string(lessons[0].Raw) != `{"id":"a","rev":2}` {
		t.Errorf("upsert did not replace record: %s", lessons[0].Raw)
	}
}

func TestGetLesson_NotFound(t *testing.T) {
	b := openTestBackend(t)

	_, err := b.GetLesson(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected storage.ErrNotFound, got %v", err)
	}
}

func TestGetAllLessons_EmptyIsNotNil(t *testing.T) {
	b := openTestBackend(t)

	lessons, err := b.GetAllLessons(context.Background())
	if err != nil {
		t.Fatalf("GetAllLessons() failed: %v", err)
	}
	if lessons == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(lessons) != 0 {
		t.Errorf("expected no lessons, got %d", len(lessons))
	}
}

func TestGetAllLessons_OrderedByID(t *testing.T) {
	ctx := context.Background()
	b := openTestBackend(t)

	for _, raw := range []string{`{"id":"c"}`, `{"id":"a"}`, `{"id":"b"}`} {
		if err := b.PutLesson(ctx, testLesson(t, raw)); err != nil {
			t.Fatalf("PutLesson() failed: %v", err)
		}
	}

	lessons, err := b.GetAllLessons(ctx)
	if err != nil {
		t.Fatalf("GetAllLessons() failed: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if lessons[i].ID != id {
			t.Errorf("lessons[%d].ID = %q, expected %q", i, lessons[i].ID, id)
		}
	}
}

func TestDeleteLesson(t *testing.T) {
	ctx := context.Background()
	b := openTestBackend(t)

	if err := b.PutLesson(ctx, testLesson(t, `{"id":"a"}`)); err != nil {
		t.Fatalf("PutLesson() failed: %v", err)
	}
	if err := b.DeleteLesson(ctx, "a"); err != nil {
		t.Fatalf("DeleteLesson() failed: %v", err)
	}
	if _, err := b.GetLesson(ctx, "a"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected lesson gone, got %v", err)
	}

	// Absent id is a no-op
	if err := b.DeleteLesson(ctx, "missing"); err != nil {
		t.Errorf("deleting absent id should be a no-op, got %v", err)
	}
}

func TestReplaceAllLessons(t *testing.T) {
	ctx := context.Background()
	b := openTestBackend(t)

	if err := b.PutLesson(ctx, testLesson(t, `{"id":"old"}`)); err != nil {
		t.Fatalf("PutLesson() failed: %v", err)
	}

	err := b.ReplaceAllLessons(ctx, []lesson.Lesson{
		testLesson(t, `{"id":"n1"}`),
		testLesson(t, `{"id":"n2"}`),
	})
	if err != nil {
		t.Fatalf("ReplaceAllLessons() failed: %v", err)
	}

	lessons, err := b.GetAllLessons(ctx)
	if err != nil {
		t.Fatalf("GetAllLessons() failed: %v", err)
	}
	if len(lessons) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(lessons))
	}
	if lessons[0].ID != "n1" || lessons[1].ID != "n2" {
		t.Errorf("unexpected ids after replace: %v", lessons)
	}
}

func TestMetadata_RoundTrip(t *testing.T) {
	ctx := context.Background()
	b := openTestBackend(t)

	if _, err := b.GetMetadata(ctx, "migrated"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected storage.ErrNotFound for missing key, got %v", err)
	}

	if err := b.PutMetadata(ctx, "migrated", []byte("true")); err != nil {
		t.Fatalf("PutMetadata() failed: %v", err)
	}
	value, err := b.GetMetadata(ctx, "migrated")
	if err != nil {
		t.Fatalf("GetMetadata() failed: %v", err)
	}
	if string(value) != "true" {
		t.Errorf("GetMetadata() = %q, expected \"true\"", value)
	}

	// Upsert
	if err := b.PutMetadata(ctx, "migrated", []byte("false")); err != nil {
		t.Fatalf("second PutMetadata() failed: %v", err)
	}
	value, err = b.GetMetadata(ctx, "migrated")
	if err != nil {
		t.Fatalf("second GetMetadata() failed: %v", err)
	}
	if string(value) != "false" {
		t.Errorf("GetMetadata() = %q, expected \"false\"", value)
	}
}
