package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/willfx/sitegeist/app/database"
)

// ArchiveTask rolls the finished day's subject window into the summary
// ledger, and optionally purges posts that have aged out of the live window
// afterwards. The purge only runs after a successful archive so a failed
// roll-up never loses its source rows.
type ArchiveTask struct {
	Task
	Day         string
	WindowEnd   time.Time
	summaryRepo database.SummaryRepository
	postRepo    database.PostRepository
	purge       bool
}

// NewArchiveTask builds a task archiving the day that ended at the most
// recent midnight before now.
func NewArchiveTask(now time.Time, summaryRepo database.SummaryRepository,
	postRepo database.PostRepository, purge bool) *ArchiveTask {
	utc := now.UTC()
	windowEnd := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	day := windowEnd.AddDate(0, 0, -1).Format("2006-01-02")

	return &ArchiveTask{
		Task:        NewTask(TaskTypeArchive, day),
		Day:         day,
		WindowEnd:   windowEnd,
		summaryRepo: summaryRepo,
		postRepo:    postRepo,
		purge:       purge,
	}
}

func (t *ArchiveTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	rows, err := t.summaryRepo.ArchiveDay(t.Day, t.WindowEnd)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateArchive) {
			// Retrying cannot succeed; a second run of the same day is a
			// scheduling bug, not a transient failure.
			slog.Error("Day already archived, refusing to overwrite", "day", t.Day)
			return nil
		}
		return fmt.Errorf("failed to archive day %s: %w", t.Day, err)
	}

	slog.Info("Task completed",
		"type", "Archive",
		"day", t.Day,
		"duration", t.GetDuration(),
		"subjects", rows)

	if !t.purge {
		return nil
	}

	deleted, err := t.postRepo.DeleteOlderThan(24 * time.Hour)
	if err != nil {
		return fmt.Errorf("failed to purge aged posts: %w", err)
	}
	slog.Info("Aged posts purged", "day", t.Day, "posts", deleted)

	return nil
}
