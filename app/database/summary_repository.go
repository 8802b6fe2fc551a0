package database

import (
	"fmt"
	"time"
)

var _ SummaryRepository = (*SummaryRepo)(nil)

// SummaryRepo handles the append-only subject_days ledger.
type SummaryRepo struct {
	db *DB
}

func NewSummaryRepo(db *DB) *SummaryRepo {
	return &SummaryRepo{db: db}
}

// ArchiveDay aggregates the trailing 24h window ending at windowEnd and
// appends one row per subject under the given day key. Subjects seen only
// once in the window are noise and are not archived. A re-run for an
// already-archived day fails with ErrDuplicateArchive and leaves the
// existing rows untouched.
func (r *SummaryRepo) ArchiveDay(day string, windowEnd time.Time) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO subject_days (subject, day, type, num_posts, sentiment_sum, sentiment_avg)
		SELECT ps.subject, ?, s.type,
		       COUNT(*),
		       COALESCE(SUM(p.sentiment), 0),
		       COALESCE(AVG(p.sentiment), 0)
		FROM post_subjects ps
		JOIN posts p ON ps.post_id = p.id
		JOIN subjects s ON ps.subject = s.subject
		WHERE p.created_at >= ?
		GROUP BY ps.subject
		HAVING COUNT(*) > 1
	`, day, windowEnd.UTC().Add(-24*time.Hour))
	if err != nil {
		if isConstraintViolation(err) {
			return 0, fmt.Errorf("failed to archive day %s: %w", day, ErrDuplicateArchive)
		}
		return 0, fmt.Errorf("failed to archive day %s: %w", day, err)
	}

	archived, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count archived rows: %w", err)
	}
	return archived, nil
}

func (r *SummaryRepo) Insert(summary DaySummary) error {
	_, err := r.db.Exec(`
		INSERT INTO subject_days (subject, day, type, num_posts, sentiment_sum, sentiment_avg)
		VALUES (?, ?, ?, ?, ?, ?)
	`, summary.Subject, summary.Day, summary.Type, summary.NumPosts,
		summary.SentimentSum, summary.SentimentAvg)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("failed to insert summary %q/%s: %w", summary.Subject, summary.Day, ErrDuplicateArchive)
		}
		return fmt.Errorf("failed to insert summary %q/%s: %w", summary.Subject, summary.Day, err)
	}
	return nil
}

// Summaries reads the ledger for the trailing days (yesterday backwards) and
// groups the rows per day. With limit <= 0 every row above minOccurrences is
// returned; with a positive limit each day is paginated independently, so
// the result holds up to days*limit rows.
func (r *SummaryRepo) Summaries(now time.Time, days, limit int, dir SortDirection, minOccurrences int) ([]DaySummaries, error) {
	if days < 1 {
		days = 1
	}
	now = now.UTC()

	if limit <= 0 {
		return r.summariesUnbounded(now, days, dir, minOccurrences)
	}

	var grouped []DaySummaries
	order := fmt.Sprintf(" ORDER BY num_posts %s, sentiment_sum %s LIMIT ?", dir, dir)
	for offset := 1; offset <= days; offset++ {
		day := now.AddDate(0, 0, -offset).Format("2006-01-02")

		var rows []DaySummary
		err := r.db.Select(&rows, `
			SELECT subject, day, type, num_posts, sentiment_sum, sentiment_avg
			FROM subject_days
			WHERE day = ? AND num_posts > ?`+order,
			day, minOccurrences, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to query summaries for %s: %w", day, err)
		}

		if len(rows) > 0 {
			grouped = append(grouped, DaySummaries{Day: day, Subjects: rows})
		}
	}
	return grouped, nil
}

func (r *SummaryRepo) summariesUnbounded(now time.Time, days int, dir SortDirection, minOccurrences int) ([]DaySummaries, error) {
	firstDay := now.AddDate(0, 0, -days).Format("2006-01-02")

	var rows []DaySummary
	query := fmt.Sprintf(`
		SELECT subject, day, type, num_posts, sentiment_sum, sentiment_avg
		FROM subject_days
		WHERE day >= ? AND num_posts > ?
		ORDER BY day DESC, num_posts %s, sentiment_sum %s`, dir, dir)
	if err := r.db.Select(&rows, query, firstDay, minOccurrences); err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}

	var grouped []DaySummaries
	for _, row := range rows {
		if len(grouped) == 0 || grouped[len(grouped)-1].Day != row.Day {
			grouped = append(grouped, DaySummaries{Day: row.Day})
		}
		last := &grouped[len(grouped)-1]
		last.Subjects = append(last.Subjects, row)
	}
	return grouped, nil
}

func (r *SummaryRepo) Count() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM subject_days`); err != nil {
		return 0, fmt.Errorf("failed to count summaries: %w", err)
	}
	return count, nil
}
