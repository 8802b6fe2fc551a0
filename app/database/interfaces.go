package database

import (
	"time"
)

type UserRepository interface {
	Create(name string) (*User, error)
	FindByName(name string) (*User, error)
	Exists(name string) (bool, error)
}

type PostRepository interface {
	Create(post *Post) error
	Exists(id int64) (bool, error)
	Find(id int64) (*Post, error)

	DeleteOlderThan(age time.Duration) (int64, error)
	Count() (int, error)
}

type SubjectRepository interface {
	Create(subject string, subjectType SubjectType) error
	Exists(subject string) (bool, error)
	RecordOccurrence(postID int64, subject string) error

	Top(now time.Time, n int, dir SortDirection, subjectType SubjectType) ([]SubjectReport, error)
	Hot(now time.Time, n int, dir SortDirection, subjectType SubjectType) ([]SubjectReport, error)
	TrendCandidates(now time.Time, trendHours int, subjectType SubjectType) ([]TrendCandidate, error)

	Count() (int, error)
	OccurrenceCount(subject string) (int, error)
}

type SummaryRepository interface {
	// ArchiveDay rolls the trailing 24h window (anchored at windowEnd) into
	// the ledger under the given day key. Subjects with a single occurrence
	// are dropped as noise. Returns ErrDuplicateArchive if the day was
	// already archived for any surviving subject.
	ArchiveDay(day string, windowEnd time.Time) (int64, error)

	// Insert appends a single ledger row; same duplicate semantics.
	Insert(summary DaySummary) error

	Summaries(now time.Time, days, limit int, dir SortDirection, minOccurrences int) ([]DaySummaries, error)
	Count() (int, error)
}
