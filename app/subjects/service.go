package subjects

import (
	"errors"
	"time"

	"github.com/willfx/sitegeist/app/database"
)

// ErrBadSubjectType reports a subject type name the API does not know.
var ErrBadSubjectType = errors.New("Bad subject type.")

// Service answers subject queries over the repositories. It holds no state
// of its own; every call reads the current window.
type Service struct {
	subjects  database.SubjectRepository
	summaries database.SummaryRepository
}

func NewService(subjects database.SubjectRepository, summaries database.SummaryRepository) *Service {
	return &Service{subjects: subjects, summaries: summaries}
}

// ParseType maps an API type name to its storage value. The empty string
// means no filter.
func ParseType(name string) (database.SubjectType, error) {
	switch name {
	case "", "all":
		return database.SubjectAll, nil
	case "word":
		return database.SubjectWord, nil
	case "hashtag":
		return database.SubjectHashtag, nil
	case "mention":
		return database.SubjectMention, nil
	case "entity":
		return database.SubjectEntity, nil
	case "emoji":
		return database.SubjectEmoji, nil
	case "phrase":
		return database.SubjectPhrase, nil
	}
	return database.SubjectAll, ErrBadSubjectType
}

// ParseDirection defaults to descending; only an explicit "asc" flips it.
func ParseDirection(dir string) database.SortDirection {
	if dir == "asc" || dir == "ASC" {
		return database.Ascending
	}
	return database.Descending
}

// Top returns the n subjects with the highest (or lowest) summed sentiment
// over the trailing 24h window.
func (s *Service) Top(now time.Time, n int, dir database.SortDirection, subjectType database.SubjectType) ([]database.SubjectReport, error) {
	return s.subjects.Top(now, clamp(n), dir, subjectType)
}

// Hot returns the n most (or least) mentioned subjects over the trailing
// 24h window.
func (s *Service) Hot(now time.Time, n int, dir database.SortDirection, subjectType database.SubjectType) ([]database.SubjectReport, error) {
	return s.subjects.Hot(now, clamp(n), dir, subjectType)
}

// Summaries returns archived day summaries going back the given number of
// days. A limit of zero or less means all qualifying rows per day.
func (s *Service) Summaries(now time.Time, days, limit int, dir database.SortDirection, minOccurrences int) ([]database.DaySummaries, error) {
	if days < 1 {
		days = 1
	}
	if minOccurrences < 0 {
		minOccurrences = 0
	}
	return s.summaries.Summaries(now, days, limit, dir, minOccurrences)
}

func clamp(n int) int {
	if n < 1 {
		return 1
	}
	if n > 100 {
		return 100
	}
	return n
}
