package annotator

import (
	"context"
)

// Annotation is the structured result of analysing one post's text. The
// slices may overlap across categories; the ingestion pipeline applies the
// cross-category exclusions before anything is stored.
type Annotation struct {
	Entities  []string `json:"entities"`
	Words     []string `json:"words"`
	Phrases   []string `json:"phrases"`
	Emoji     []string `json:"emoji"`
	Hashtags  []string `json:"hashtags"`
	Mentions  []string `json:"mentions"`
	Sentiment float64  `json:"sentiment"`
}

// Annotator turns a post's display text into candidate subjects and a
// sentiment score. Implementations may be slow or remote; a failure (or
// timeout) for one post is recoverable and only skips that post.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*Annotation, error)
}
