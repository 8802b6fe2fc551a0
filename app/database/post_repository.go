package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ PostRepository = (*PostRepo)(nil)

// PostRepo handles database operations for posts
type PostRepo struct {
	db *DB
}

func NewPostRepo(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

// Create inserts a post under its source-assigned id. Posts are immutable:
// callers are expected to check Exists first, a second insert for the same
// id fails.
func (r *PostRepo) Create(post *Post) error {
	_, err := r.db.Exec(`
		INSERT INTO posts (id, user_id, text, sentiment, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, post.ID, post.UserID, post.Text, post.Sentiment, post.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create post %d: %w", post.ID, err)
	}
	return nil
}

func (r *PostRepo) Exists(id int64) (bool, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM posts WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check post %d: %w", id, err)
	}
	return count > 0, nil
}

// Find returns nil without error when the post does not exist.
func (r *PostRepo) Find(id int64) (*Post, error) {
	var post Post
	err := r.db.Get(&post, `
		SELECT p.id, p.user_id, p.text, p.sentiment, p.created_at, u.name AS user_name
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.id = ?
	`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post %d: %w", id, err)
	}
	return &post, nil
}

// DeleteOlderThan purges posts (and their occurrence rows) older than age.
// Archived subject_days rows are the surviving record for purged windows.
func (r *PostRepo) DeleteOlderThan(age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)

	_, err := r.db.Exec(`
		DELETE FROM post_subjects
		WHERE post_id IN (SELECT id FROM posts WHERE created_at < ?)
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete aged occurrences: %w", err)
	}

	res, err := r.db.Exec(`DELETE FROM posts WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete aged posts: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted posts: %w", err)
	}
	return deleted, nil
}

func (r *PostRepo) Count() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM posts`); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}
