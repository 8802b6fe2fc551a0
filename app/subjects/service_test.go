package subjects

import (
	"errors"
	"testing"
	"time"

	"github.com/willfx/sitegeist/app/database"
)

// fakeSubjectRepo serves canned data and records the parameters it was
// called with.
type fakeSubjectRepo struct {
	reports    []database.SubjectReport
	candidates []database.TrendCandidate

	lastN    int
	lastDir  database.SortDirection
	lastType database.SubjectType
}

func (f *fakeSubjectRepo) Create(string, database.SubjectType) error { return nil }
func (f *fakeSubjectRepo) Exists(string) (bool, error)               { return false, nil }
func (f *fakeSubjectRepo) RecordOccurrence(int64, string) error      { return nil }
func (f *fakeSubjectRepo) Count() (int, error)                       { return len(f.reports), nil }
func (f *fakeSubjectRepo) OccurrenceCount(string) (int, error)       { return 0, nil }

func (f *fakeSubjectRepo) Top(now time.Time, n int, dir database.SortDirection, subjectType database.SubjectType) ([]database.SubjectReport, error) {
	f.lastN, f.lastDir, f.lastType = n, dir, subjectType
	return f.reports, nil
}

func (f *fakeSubjectRepo) Hot(now time.Time, n int, dir database.SortDirection, subjectType database.SubjectType) ([]database.SubjectReport, error) {
	f.lastN, f.lastDir, f.lastType = n, dir, subjectType
	return f.reports, nil
}

func (f *fakeSubjectRepo) TrendCandidates(now time.Time, trendHours int, subjectType database.SubjectType) ([]database.TrendCandidate, error) {
	f.lastType = subjectType
	return f.candidates, nil
}

type fakeSummaryRepo struct {
	days []database.DaySummaries

	lastDays  int
	lastLimit int
	lastMin   int
}

func (f *fakeSummaryRepo) ArchiveDay(string, time.Time) (int64, error) { return 0, nil }
func (f *fakeSummaryRepo) Insert(database.DaySummary) error            { return nil }
func (f *fakeSummaryRepo) Count() (int, error)                         { return 0, nil }

func (f *fakeSummaryRepo) Summaries(now time.Time, days, limit int, dir database.SortDirection, minOccurrences int) ([]database.DaySummaries, error) {
	f.lastDays, f.lastLimit, f.lastMin = days, limit, minOccurrences
	return f.days, nil
}

func TestParseType(t *testing.T) {
	cases := []struct {
		input    string
		expected database.SubjectType
	}{
		{"", database.SubjectAll},
		{"all", database.SubjectAll},
		{"word", database.SubjectWord},
		{"hashtag", database.SubjectHashtag},
		{"mention", database.SubjectMention},
		{"entity", database.SubjectEntity},
		{"emoji", database.SubjectEmoji},
		{"phrase", database.SubjectPhrase},
	}

	for _, tc := range cases {
		parsed, err := ParseType(tc.input)
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", tc.input, err)
			continue
		}
		if parsed != tc.expected {
			t.Errorf("Expected %v for %q, got %v", tc.expected, tc.input, parsed)
		}
	}
}

func TestParseType_Unknown(t *testing.T) {
	_, err := ParseType("verb")
	if !errors.Is(err, ErrBadSubjectType) {
		t.Errorf("Expected ErrBadSubjectType, got %v", err)
	}
	if err.Error() != "Bad subject type." {
		t.Errorf("Expected message 'Bad subject type.', got %q", err.Error())
	}
}

func TestParseDirection(t *testing.T) {
	if ParseDirection("asc") != database.Ascending {
		t.Error("Expected 'asc' to parse as ascending")
	}
	if ParseDirection("desc") != database.Descending {
		t.Error("Expected 'desc' to parse as descending")
	}
	if ParseDirection("") != database.Descending {
		t.Error("Expected empty direction to default to descending")
	}
	if ParseDirection("sideways") != database.Descending {
		t.Error("Expected unknown direction to default to descending")
	}
}

func TestService_TopClampsN(t *testing.T) {
	repo := &fakeSubjectRepo{}
	service := NewService(repo, &fakeSummaryRepo{})

	if _, err := service.Top(time.Now(), 0, database.Descending, database.SubjectAll); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if repo.lastN != 1 {
		t.Errorf("Expected n clamped to 1, got %d", repo.lastN)
	}

	if _, err := service.Top(time.Now(), 5000, database.Descending, database.SubjectAll); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if repo.lastN != 100 {
		t.Errorf("Expected n clamped to 100, got %d", repo.lastN)
	}
}

func TestService_SummariesClampsDays(t *testing.T) {
	summaries := &fakeSummaryRepo{}
	service := NewService(&fakeSubjectRepo{}, summaries)

	if _, err := service.Summaries(time.Now(), 0, 10, database.Descending, -3); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if summaries.lastDays != 1 {
		t.Errorf("Expected days clamped to 1, got %d", summaries.lastDays)
	}
	if summaries.lastMin != 0 {
		t.Errorf("Expected min occurrences clamped to 0, got %d", summaries.lastMin)
	}
}
