package database

import (
	"fmt"
	"time"
)

// SubjectType classifies what kind of token a subject was extracted as.
// The stored values 0-2 predate the richer annotation categories and are
// kept stable; All is a query-side wildcard and is never stored.
type SubjectType int

const (
	SubjectWord    SubjectType = 0
	SubjectHashtag SubjectType = 1
	SubjectMention SubjectType = 2
	SubjectEntity  SubjectType = 3
	SubjectEmoji   SubjectType = 4
	SubjectPhrase  SubjectType = 5
	SubjectAll     SubjectType = -1
)

func (t SubjectType) String() string {
	switch t {
	case SubjectWord:
		return "word"
	case SubjectHashtag:
		return "hashtag"
	case SubjectMention:
		return "mention"
	case SubjectEntity:
		return "entity"
	case SubjectEmoji:
		return "emoji"
	case SubjectPhrase:
		return "phrase"
	case SubjectAll:
		return "all"
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// MarshalJSON renders the type by name so API consumers never see the raw
// storage value.
func (t SubjectType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// SortDirection is a closed enum because it is interpolated into ORDER BY
// clauses; arbitrary caller input never reaches the SQL text.
type SortDirection string

const (
	Ascending  SortDirection = "ASC"
	Descending SortDirection = "DESC"
)

// User is a post author, created lazily on first sighting and never updated.
type User struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Post is a single ingested post. The id is assigned by the upstream source
// and is externally unique; rows are immutable once written.
type Post struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	UserName  string    `db:"user_name"`
	Text      string    `db:"text"`
	Sentiment *float64  `db:"sentiment"`
	CreatedAt time.Time `db:"created_at"`
}

// SubjectReport is one row of the windowed top/hot aggregations.
type SubjectReport struct {
	Subject      string      `db:"subject" json:"subject"`
	Type         SubjectType `db:"type" json:"type"`
	NumPosts     int         `db:"num_posts" json:"num_posts"`
	SentimentSum float64     `db:"sentiment_sum" json:"sentiment_sum"`
	SentimentAvg float64     `db:"sentiment_avg" json:"sentiment_avg"`
}

// TrendCandidate is one subject's hour-bucketed statistics over the trailing
// 24h window. BaselineMean/BaselineStdev are NULL when the subject has no
// baseline buckets (or, for the stdev, fewer than 3 of them).
type TrendCandidate struct {
	Subject       string        `db:"subject"`
	Type          SubjectType   `db:"type"`
	RecentCount   int           `db:"recent_count"`
	TotalCount    int           `db:"total_count"`
	SentimentSum  float64       `db:"sentiment_sum"`
	BaselineMean  NullableFloat `db:"baseline_mean"`
	BaselineStdev NullableFloat `db:"baseline_stdev"`
}

// NullableFloat mirrors sql.NullFloat64 with a smaller surface.
type NullableFloat struct {
	Float64 float64
	Valid   bool
}

func (n *NullableFloat) Scan(value any) error {
	if value == nil {
		n.Float64, n.Valid = 0, false
		return nil
	}
	switch v := value.(type) {
	case float64:
		n.Float64, n.Valid = v, true
	case int64:
		n.Float64, n.Valid = float64(v), true
	default:
		return fmt.Errorf("failed to scan %T into NullableFloat", value)
	}
	return nil
}

// DaySummary is one archived (subject, day) ledger row.
type DaySummary struct {
	Subject      string      `db:"subject" json:"subject"`
	Day          string      `db:"day" json:"day"`
	Type         SubjectType `db:"type" json:"type"`
	NumPosts     int         `db:"num_posts" json:"num_posts"`
	SentimentSum float64     `db:"sentiment_sum" json:"sentiment_sum"`
	SentimentAvg float64     `db:"sentiment_avg" json:"sentiment_avg"`
}

// DaySummaries groups one day's archived rows for per-day pagination.
type DaySummaries struct {
	Day      string       `json:"day"`
	Subjects []DaySummary `json:"subjects"`
}
