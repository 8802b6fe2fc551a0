package database

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// seedPost inserts a post with its own author. Timestamps are truncated to
// seconds so stored values compare cleanly.
func seedPost(t *testing.T, db *DB, id int64, sentiment float64, createdAt time.Time) {
	t.Helper()

	users := NewUserRepo(db)
	posts := NewPostRepo(db)

	user, err := users.Create(fmt.Sprintf("user-%d", id))
	if err != nil {
		t.Fatalf("Failed to create user for post %d: %v", id, err)
	}

	post := &Post{
		ID:        id,
		UserID:    user.ID,
		Text:      "post text",
		Sentiment: &sentiment,
		CreatedAt: createdAt.UTC().Truncate(time.Second),
	}
	if err := posts.Create(post); err != nil {
		t.Fatalf("Failed to create post %d: %v", id, err)
	}
}

// recordOccurrences creates the subject and attaches it to the post the
// given number of times.
func recordOccurrences(t *testing.T, db *DB, postID int64, subject string, subjectType SubjectType, count int) {
	t.Helper()

	subjects := NewSubjectRepo(db)
	if err := subjects.Create(subject, subjectType); err != nil {
		t.Fatalf("Failed to create subject %q: %v", subject, err)
	}
	for i := 0; i < count; i++ {
		if err := subjects.RecordOccurrence(postID, subject); err != nil {
			t.Fatalf("Failed to record occurrence of %q: %v", subject, err)
		}
	}
}
