package languagetool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultMaxSuggestions caps the replacements kept per match.
	DefaultMaxSuggestions = 5

	defaultTimeout = 60 * time.Second
)

// Client talks to a LanguageTool server over its HTTP API. It is safe for
// concurrent use; its configuration never changes after construction.
type Client struct {
	client         *http.Client
	endpoint       string
	maxSuggestions int
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithMaxSuggestions caps the replacements kept per match. Zero or less keeps all.
func WithMaxSuggestions(n int) Option {
	return func(c *Client) { c.maxSuggestions = n }
}

// NewClient creates a client for the server at host:port. A host without a
// scheme is reached over plain http.
func NewClient(host string, port int, opts ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(host), "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}

	c := &Client{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		endpoint:       fmt.Sprintf("%s:%d/v2/check", base, port),
		maxSuggestions: DefaultMaxSuggestions,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint is the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Check submits one text. Any transport, status or decoding failure is
// returned as an error; nothing is retried.
func (c *Client) Check(ctx context.Context, r Request) (*Response, error) {
	form := url.Values{}
	form.Set("text", r.Text)
	form.Set("language", r.Language)
	level := r.Level
	if level == "" {
		level = LevelDefault
	}
	form.Set("level", string(level))
	if len(r.DisabledRules) > 0 {
		form.Set("disabledRules", strings.Join(r.DisabledRules, ","))
	}
	if len(r.DisabledCategories) > 0 {
		form.Set("disabledCategories", strings.Join(r.DisabledCategories, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("languagetool check request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if err := validateResponse(raw); err != nil {
		return nil, err
	}

	var parsed checkResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode languagetool response: %w", err)
	}

	return c.convert(r.Text, parsed), nil
}

func (c *Client) convert(text string, parsed checkResponse) *Response {
	index := newOffsetIndex(text)
	out := &Response{
		Language: parsed.Language.Code,
		Matches:  make([]Match, 0, len(parsed.Matches)),
	}

	for _, m := range parsed.Matches {
		replacements := make([]string, 0, len(m.Replacements))
		for _, r := range m.Replacements {
			if c.maxSuggestions > 0 && len(replacements) == c.maxSuggestions {
				break
			}
			replacements = append(replacements, r.Value)
		}

		// Offsets that do not land on a character boundary are kept
		// negative so the caller reports them instead of guessing.
		start, okStart := index.byteOffset(m.Offset)
		end, okEnd := index.byteOffset(m.Offset + m.Length)
		offset, length := -1, 0
		if okStart && okEnd {
			offset, length = start, end-start
		}

		out.Matches = append(out.Matches, Match{
			Offset:       offset,
			Length:       length,
			ShortMessage: m.ShortMessage,
			Message:      m.Message,
			Replacements: replacements,
			RuleID:       m.Rule.ID,
			CategoryID:   m.Rule.Category.ID,
			Context:      m.Context.Text,
		})
	}
	return out
}
