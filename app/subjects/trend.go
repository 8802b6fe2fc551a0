package subjects

import (
	"math"
	"sort"
	"time"

	"github.com/willfx/sitegeist/app/database"
)

// TrendReport is one trending subject. ZScore is nil when the score is
// undefined (no usable baseline) or not representable in JSON (infinite).
type TrendReport struct {
	Subject      string               `json:"subject"`
	Type         database.SubjectType `json:"type"`
	NumPosts     int                  `json:"num_posts"`
	SentimentSum float64              `json:"sentiment_sum"`
	ZScore       *float64             `json:"z_score"`
}

// computeZ scores a candidate's recent activity against its hourly baseline.
// The second return is false when the score is undefined: the baseline stdev
// could not be computed. A zero stdev with recent activity above the mean
// yields +Inf, which is a defined (maximally trending) score.
func computeZ(c database.TrendCandidate) (float64, bool) {
	if !c.BaselineStdev.Valid || !c.BaselineMean.Valid {
		return 0, false
	}
	z := (float64(c.RecentCount) - c.BaselineMean.Float64) / c.BaselineStdev.Float64
	return z, true
}

// Trend ranks subjects by how far their recent activity sits above their own
// baseline. Subjects scoring at or below zero are dropped; NaN and -Inf are
// never surfaced. Undefined scores are kept (a subject too new for a
// baseline may still be trending) and sort after every defined score in
// either direction.
func (s *Service) Trend(now time.Time, n int, dir database.SortDirection, subjectType database.SubjectType, trendHours int) ([]TrendReport, error) {
	if trendHours < 1 {
		trendHours = 1
	}
	candidates, err := s.subjects.TrendCandidates(now, trendHours, subjectType)
	if err != nil {
		return nil, err
	}

	type scored struct {
		report  TrendReport
		z       float64
		defined bool
	}

	var results []scored
	for _, c := range candidates {
		z, defined := computeZ(c)
		if defined && (math.IsNaN(z) || z <= 0) {
			continue
		}

		report := TrendReport{
			Subject:      c.Subject,
			Type:         c.Type,
			NumPosts:     c.TotalCount,
			SentimentSum: c.SentimentSum,
		}
		if defined && !math.IsInf(z, 0) {
			score := z
			report.ZScore = &score
		}
		results = append(results, scored{report: report, z: z, defined: defined})
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.defined != b.defined {
			return a.defined
		}
		if a.defined && a.z != b.z {
			if dir == database.Ascending {
				return a.z < b.z
			}
			return a.z > b.z
		}
		if dir == database.Ascending {
			return a.report.NumPosts < b.report.NumPosts
		}
		return a.report.NumPosts > b.report.NumPosts
	})

	n = clamp(n)
	if len(results) > n {
		results = results[:n]
	}

	reports := make([]TrendReport, 0, len(results))
	for _, r := range results {
		reports = append(reports, r.report)
	}
	return reports, nil
}
