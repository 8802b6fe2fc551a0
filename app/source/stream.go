package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var _ Source = (*Stream)(nil)

// Stream reads line-delimited JSON posts from a filtered streaming endpoint
// and resolves single posts against a lookup endpoint. It is built for one
// consumer: Next is not safe for concurrent use.
type Stream struct {
	streamClient *http.Client
	lookupClient *http.Client
	streamURL    string
	lookupURL    string
	token        string
	userAgent    string
	fence        Geofence

	body    io.ReadCloser
	scanner *bufio.Scanner
}

func NewStream(streamURL, lookupURL, token, userAgent string, fence Geofence) *Stream {
	return &Stream{
		// The stream connection stays open indefinitely, so no client
		// timeout; lookups are bounded.
		streamClient: &http.Client{},
		lookupClient: &http.Client{Timeout: 15 * time.Second},
		streamURL:    streamURL,
		lookupURL:    lookupURL,
		token:        token,
		userAgent:    userAgent,
		fence:        fence,
	}
}

func (s *Stream) connect(ctx context.Context) error {
	u, err := url.Parse(s.streamURL)
	if err != nil {
		return fmt.Errorf("failed to parse stream URL: %w", err)
	}
	q := u.Query()
	q.Set("locations", s.fence.locationsParam())
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build stream request: %w", err)
	}
	s.decorate(req)

	resp, err := s.streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("stream returned HTTP %d", resp.StatusCode)
	}

	s.body = resp.Body
	s.scanner = bufio.NewScanner(resp.Body)
	s.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	slog.Info("Post stream connected", "url", s.streamURL, "locations", s.fence.locationsParam())
	return nil
}

// Next blocks until the next post arrives. Blank keep-alive lines and lines
// that fail to decode are skipped; a broken connection surfaces as an error
// and is fatal to the consumer.
func (s *Stream) Next(ctx context.Context) (*RawPost, error) {
	if s.scanner == nil {
		if err := s.connect(ctx); err != nil {
			return nil, err
		}
	}

	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var post RawPost
		if err := json.Unmarshal(line, &post); err != nil {
			slog.Warn("Skipping undecodable stream line", "error", err)
			continue
		}
		return &post, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("post stream connection lost: %w", err)
	}
	return nil, fmt.Errorf("post stream closed by server")
}

func (s *Stream) Lookup(ctx context.Context, id int64) (*RawPost, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.lookupURL+"/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}
	s.decorate(req)

	resp, err := s.lookupClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to look up post %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup of post %d returned HTTP %d", id, resp.StatusCode)
	}

	var post RawPost
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, fmt.Errorf("failed to decode post %d: %w", id, err)
	}
	return &post, nil
}

func (s *Stream) Close() error {
	if s.body != nil {
		return s.body.Close()
	}
	return nil
}

func (s *Stream) decorate(req *http.Request) {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
}
