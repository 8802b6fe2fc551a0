package source

import (
	"context"
	"fmt"
	"time"
)

// RawPost is one record from the upstream stream, before any processing.
type RawPost struct {
	ID          int64     `json:"id"`
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
	InReplyToID *int64    `json:"in_reply_to_id,omitempty"`
	QuotedID    *int64    `json:"quoted_id,omitempty"`
	IsQuote     bool      `json:"is_quote,omitempty"`
}

// ParentID returns the post this one replies to or quotes, if any. Quotes
// win over replies when both are present.
func (p *RawPost) ParentID() (int64, bool) {
	if p.IsQuote && p.QuotedID != nil {
		return *p.QuotedID, true
	}
	if p.InReplyToID != nil {
		return *p.InReplyToID, true
	}
	return 0, false
}

// Source produces the live geofenced post stream and resolves individual
// posts by id (for reply/quote parents). The stream is infinite and
// non-restartable: a Next error means the connection is gone and the
// consumer must treat it as fatal. A Lookup error only affects the one post.
type Source interface {
	Next(ctx context.Context) (*RawPost, error)
	Lookup(ctx context.Context, id int64) (*RawPost, error)
}

// Geofence is the bounding box the stream is filtered by, as two corners.
type Geofence struct {
	Lat1, Lon1 float64
	Lat2, Lon2 float64
}

func (g Geofence) Validate() error {
	for _, lat := range []float64{g.Lat1, g.Lat2} {
		if lat > 90 || lat < -90 {
			return fmt.Errorf("latitude ranges from -90 to 90 (%g)", lat)
		}
	}
	for _, lon := range []float64{g.Lon1, g.Lon2} {
		if lon > 180 || lon < -180 {
			return fmt.Errorf("longitude ranges from -180 to 180 (%g)", lon)
		}
	}
	return nil
}

// Corners returns the box as [[lat1, lon1], [lat2, lon2]], the shape the
// map front end consumes.
func (g Geofence) Corners() [2][2]float64 {
	return [2][2]float64{{g.Lat1, g.Lon1}, {g.Lat2, g.Lon2}}
}

// locationsParam renders the box as the lon,lat pair list the stream API
// expects.
func (g Geofence) locationsParam() string {
	return fmt.Sprintf("%f,%f,%f,%f", g.Lon1, g.Lat1, g.Lon2, g.Lat2)
}
