package database

import (
	"testing"
	"time"
)

func TestPostRepo_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepo(db)

	createdAt := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	seedPost(t, db, 100, -0.5, createdAt)

	post, err := repo.Find(100)
	if err != nil {
		t.Fatalf("Failed to find post: %v", err)
	}
	if post == nil {
		t.Fatal("Expected to find the created post")
	}
	if post.UserName != "user-100" {
		t.Errorf("Expected user name 'user-100', got %q", post.UserName)
	}
	if post.Sentiment == nil || *post.Sentiment != -0.5 {
		t.Errorf("Expected sentiment -0.5, got %v", post.Sentiment)
	}
	if !post.CreatedAt.UTC().Equal(createdAt) {
		t.Errorf("Expected created_at %v, got %v", createdAt, post.CreatedAt)
	}
}

func TestPostRepo_ZeroSentimentIsNotNull(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepo(db)

	seedPost(t, db, 101, 0.0, time.Now())

	post, err := repo.Find(101)
	if err != nil {
		t.Fatalf("Failed to find post: %v", err)
	}
	if post.Sentiment == nil {
		t.Fatal("Expected sentiment 0.0 to round-trip as a value, not NULL")
	}
	if *post.Sentiment != 0.0 {
		t.Errorf("Expected sentiment 0.0, got %g", *post.Sentiment)
	}
}

func TestPostRepo_FindMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepo(db)

	post, err := repo.Find(999)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if post != nil {
		t.Errorf("Expected nil for a missing post, got %+v", post)
	}
}

func TestPostRepo_Exists(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepo(db)

	exists, err := repo.Exists(102)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if exists {
		t.Error("Expected post to not exist yet")
	}

	seedPost(t, db, 102, 0.5, time.Now())

	exists, err = repo.Exists(102)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !exists {
		t.Error("Expected post to exist after creation")
	}
}

func TestPostRepo_DeleteOlderThan(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepo(db)

	now := time.Now()
	seedPost(t, db, 103, 0.0, now.Add(-48*time.Hour))
	seedPost(t, db, 104, 0.0, now.Add(-30*time.Hour))
	seedPost(t, db, 105, 0.0, now.Add(-1*time.Hour))

	recordOccurrences(t, db, 103, "old-topic", SubjectWord, 2)
	recordOccurrences(t, db, 105, "fresh-topic", SubjectWord, 1)

	deleted, err := repo.DeleteOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatalf("Failed to delete aged posts: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted posts, got %d", deleted)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Failed to count posts: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 remaining post, got %d", count)
	}

	subjects := NewSubjectRepo(db)
	occurrences, err := subjects.OccurrenceCount("old-topic")
	if err != nil {
		t.Fatalf("Failed to count occurrences: %v", err)
	}
	if occurrences != 0 {
		t.Errorf("Expected occurrences of purged posts to be gone, got %d", occurrences)
	}

	occurrences, err = subjects.OccurrenceCount("fresh-topic")
	if err != nil {
		t.Fatalf("Failed to count occurrences: %v", err)
	}
	if occurrences != 1 {
		t.Errorf("Expected surviving post's occurrence to remain, got %d", occurrences)
	}
}
