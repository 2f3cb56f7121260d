package summary

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	SummaryPath = "/rag/summary"
	HealthPath  = "/health/"
	TopicParam  = "topic"
)

// Paper is one supporting item returned next to a summary.
type Paper struct {
	ID        string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title     string   `json:"title" yaml:"title"`
	Abstract  string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Published string   `json:"published,omitempty" yaml:"published,omitempty"`
	Authors   []string `json:"authors,omitempty" yaml:"authors,omitempty"`
}

// Result is the decoded answer of the summary endpoint. Papers is nil when the
// server did not send any.
type Result struct {
	Topic   string  `json:"topic,omitempty" yaml:"topic,omitempty"`
	Summary string  `json:"summary" yaml:"summary"`
	Papers  []Paper `json:"papers,omitempty" yaml:"papers,omitempty"`
}

type wireResult struct {
	Topic   string  `json:"topic"`
	Summary *string `json:"summary"`
	Papers  []Paper `json:"papers"`
}

// RequestFailure is the only error kind the client returns. Transport errors,
// unexpected statuses and undecodable bodies are not told apart by callers.
type RequestFailure struct {
	Topic string
	Err   error
}

func (e *RequestFailure) Error() string {
	if e.Topic == "" {
		return "summary request failed: " + e.Err.Error()
	}
	return "summary request for " + e.Topic + " failed: " + e.Err.Error()
}

func (e *RequestFailure) Unwrap() error {
	return e.Err
}

// Client talks to the summarization service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func NewClient(baseURL string, options ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("summary base URL is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid summary base URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("unsupported summary URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.Errorf("summary URL %q has no host", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""

	c := &Client{
		baseURL:    u,
		httpClient: http.DefaultClient,
	}
	for _, o := range options {
		o(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SummaryURL builds the request URL for a topic. The topic is sent as a single
// escaped query parameter.
func (c *Client) SummaryURL(topic string) string {
	u := *c.baseURL
	u.Path = u.Path + SummaryPath
	u.RawQuery = url.Values{TopicParam: []string{topic}}.Encode()
	return u.String()
}

// Summarize issues exactly one GET for topic. There is no retry and no timeout
// besides what the http.Client carries.
func (c *Client) Summarize(ctx context.Context, topic string) (*Result, error) {
	body, err := c.get(ctx, c.SummaryURL(topic))
	if err != nil {
		return nil, &RequestFailure{Topic: topic, Err: err}
	}

	var wr wireResult
	if err := json.Unmarshal(body, &wr); err != nil {
		return nil, &RequestFailure{Topic: topic, Err: errors.Wrap(err, "failed to parse response body")}
	}
	if wr.Summary == nil {
		return nil, &RequestFailure{Topic: topic, Err: errors.New("response has no summary field")}
	}

	log.Debug().
		Str("topic", topic).
		Int("papers", len(wr.Papers)).
		Msg("summary received")

	return &Result{
		Topic:   wr.Topic,
		Summary: *wr.Summary,
		Papers:  wr.Papers,
	}, nil
}

// Health checks that the service answers its health route with status ok.
func (c *Client) Health(ctx context.Context) error {
	u := *c.baseURL
	u.Path = u.Path + HealthPath
	body, err := c.get(ctx, u.String())
	if err != nil {
		return &RequestFailure{Err: err}
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return &RequestFailure{Err: errors.Wrap(err, "failed to parse health response")}
	}
	if resp.Status != "ok" {
		return &RequestFailure{Err: errors.Errorf("unexpected health status %q", resp.Status)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("non-200 response received: %d", resp.StatusCode)
	}
	return body, nil
}
