package database

import (
	"fmt"
	"time"
)

var _ SubjectRepository = (*SubjectRepo)(nil)

// SubjectRepo handles database operations for subjects, their occurrences,
// and the trailing-24h window aggregations the reporting layer reads.
type SubjectRepo struct {
	db *DB
}

func NewSubjectRepo(db *DB) *SubjectRepo {
	return &SubjectRepo{db: db}
}

// Create registers a subject. The first insertion fixes the type: a later
// appearance of the same text under a different classification is ignored.
func (r *SubjectRepo) Create(subject string, subjectType SubjectType) error {
	_, err := r.db.Exec(`INSERT OR IGNORE INTO subjects (subject, type) VALUES (?, ?)`,
		subject, subjectType)
	if err != nil {
		return fmt.Errorf("failed to create subject %q: %w", subject, err)
	}
	return nil
}

func (r *SubjectRepo) Exists(subject string) (bool, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM subjects WHERE subject = ?`, subject)
	if err != nil {
		return false, fmt.Errorf("failed to check subject %q: %w", subject, err)
	}
	return count > 0, nil
}

// RecordOccurrence appends one occurrence row. There is deliberately no
// dedup against (post, subject): repeated sightings each count.
func (r *SubjectRepo) RecordOccurrence(postID int64, subject string) error {
	_, err := r.db.Exec(`INSERT INTO post_subjects (post_id, subject) VALUES (?, ?)`,
		postID, subject)
	if err != nil {
		return fmt.Errorf("failed to record occurrence of %q on post %d: %w", subject, postID, err)
	}
	return nil
}

// windowSelect is the shared base of the live-window reports: occurrences
// joined to their post's sentiment, restricted to the trailing 24 hours.
const windowSelect = `
	SELECT s.subject AS subject, s.type AS type,
	       COUNT(*) AS num_posts,
	       COALESCE(SUM(p.sentiment), 0) AS sentiment_sum,
	       COALESCE(AVG(p.sentiment), 0) AS sentiment_avg
	FROM post_subjects ps
	JOIN posts p ON ps.post_id = p.id
	JOIN subjects s ON ps.subject = s.subject
	WHERE p.created_at >= ?`

// Top orders the window by sentiment sum, with occurrence count as the
// tie-break.
func (r *SubjectRepo) Top(now time.Time, n int, dir SortDirection, subjectType SubjectType) ([]SubjectReport, error) {
	order := fmt.Sprintf(" ORDER BY sentiment_sum %s, num_posts %s LIMIT ?", dir, dir)
	return r.report(now, subjectType, order, n)
}

// Hot orders the window purely by occurrence count.
func (r *SubjectRepo) Hot(now time.Time, n int, dir SortDirection, subjectType SubjectType) ([]SubjectReport, error) {
	order := fmt.Sprintf(" ORDER BY num_posts %s LIMIT ?", dir)
	return r.report(now, subjectType, order, n)
}

func (r *SubjectRepo) report(now time.Time, subjectType SubjectType, order string, n int) ([]SubjectReport, error) {
	query := windowSelect
	args := []any{now.UTC().Add(-24 * time.Hour)}

	if subjectType != SubjectAll {
		query += " AND s.type = ?"
		args = append(args, subjectType)
	}

	query += " GROUP BY ps.subject" + order
	args = append(args, n)

	var reports []SubjectReport
	if err := r.db.Select(&reports, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query subject window: %w", err)
	}
	return reports, nil
}

// TrendCandidates buckets the trailing-24h occurrences per subject into
// hours. Buckets from the most recent trendHours hours (the current hour
// inclusive) form the "recent" partition; the rest form the baseline, whose
// per-hour counts feed the mean and the trend_stdev aggregate. Subjects with
// no recent activity are excluded here; the z-score itself is computed by
// the caller.
func (r *SubjectRepo) TrendCandidates(now time.Time, trendHours int, subjectType SubjectType) ([]TrendCandidate, error) {
	if trendHours < 1 {
		trendHours = 1
	}
	now = now.UTC()
	recentBucket := now.Truncate(time.Hour).Unix()/3600 - int64(trendHours-1)
	windowStart := now.Add(-24 * time.Hour)

	query := `
	SELECT subject, type,
	       COALESCE(SUM(CASE WHEN hour_bucket >= ? THEN bucket_count END), 0) AS recent_count,
	       SUM(bucket_count) AS total_count,
	       COALESCE(SUM(bucket_sentiment), 0) AS sentiment_sum,
	       AVG(CASE WHEN hour_bucket < ? THEN bucket_count END) AS baseline_mean,
	       trend_stdev(CASE WHEN hour_bucket < ? THEN bucket_count END) AS baseline_stdev
	FROM (
		SELECT ps.subject AS subject, s.type AS type,
		       CAST(strftime('%s', p.created_at) AS INTEGER) / 3600 AS hour_bucket,
		       COUNT(*) AS bucket_count,
		       COALESCE(SUM(p.sentiment), 0) AS bucket_sentiment
		FROM post_subjects ps
		JOIN posts p ON ps.post_id = p.id
		JOIN subjects s ON ps.subject = s.subject
		WHERE p.created_at >= ?`
	args := []any{recentBucket, recentBucket, recentBucket, windowStart}

	if subjectType != SubjectAll {
		query += `
		  AND s.type = ?`
		args = append(args, subjectType)
	}

	query += `
		GROUP BY ps.subject, hour_bucket
	)
	GROUP BY subject
	HAVING recent_count > 0`

	var candidates []TrendCandidate
	if err := r.db.Select(&candidates, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query trend candidates: %w", err)
	}
	return candidates, nil
}

func (r *SubjectRepo) Count() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM subjects`); err != nil {
		return 0, fmt.Errorf("failed to count subjects: %w", err)
	}
	return count, nil
}

func (r *SubjectRepo) OccurrenceCount(subject string) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM post_subjects WHERE subject = ?`, subject)
	if err != nil {
		return 0, fmt.Errorf("failed to count occurrences of %q: %w", subject, err)
	}
	return count, nil
}
