package annotator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var _ Annotator = (*Remote)(nil)

// Remote calls an external annotation service over HTTP. The service owns
// the linguistic heavy lifting (NER, noun phrases, sentiment); this client
// only ships text and decodes the bundle. The configured timeout bounds one
// post's annotation, and hitting it is a recoverable per-post failure.
type Remote struct {
	client    *http.Client
	url       string
	userAgent string
}

func NewRemote(url, userAgent string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Remote{
		client:    &http.Client{Timeout: timeout},
		url:       url,
		userAgent: userAgent,
	}
}

type annotateRequest struct {
	Text string `json:"text"`
}

func (r *Remote) Annotate(ctx context.Context, text string) (*Annotation, error) {
	body, err := json.Marshal(annotateRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build annotation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to annotate text: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("annotation service returned HTTP %d: %s", resp.StatusCode, snippet)
	}

	var ann Annotation
	if err := json.NewDecoder(resp.Body).Decode(&ann); err != nil {
		return nil, fmt.Errorf("failed to decode annotation response: %w", err)
	}
	return &ann, nil
}
