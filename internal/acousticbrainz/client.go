package acousticbrainz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"absubmit/internal/services"
)

// DefaultBaseURL is the public AcousticBrainz API root.
const DefaultBaseURL = "https://acousticbrainz.org/api/v1"

const (
	defaultHTTPTimeout = 30 * time.Second
	maxErrorBody       = 64 * 1024
)

// HTTPDoer describes the HTTP client used for submissions.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// OutcomeKind classifies a submission attempt.
type OutcomeKind int

const (
	// OutcomeAccepted means the server answered 200.
	OutcomeAccepted OutcomeKind = iota
	// OutcomeRejected means the server answered with any other status, or
	// the report could not be encoded.
	OutcomeRejected
	// OutcomeUnreachable means no HTTP response was received.
	OutcomeUnreachable
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeUnreachable:
		return "unreachable"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome describes one submission attempt.
type Outcome struct {
	Kind       OutcomeKind
	StatusCode int
	Message    string
	Err        error
}

// Success reports whether the report was accepted.
func (o Outcome) Success() bool {
	return o.Kind == OutcomeAccepted
}

// AsError returns the outcome as an error tagged services.ErrSubmission, or nil
// when the submission succeeded.
func (o Outcome) AsError() error {
	if o.Success() {
		return nil
	}
	msg := o.Message
	if o.StatusCode != 0 {
		msg = fmt.Sprintf("status %d: %s", o.StatusCode, o.Message)
	}
	return services.Wrap(services.ErrSubmission, "acousticbrainz", o.Kind.String(), msg, o.Err)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each submission.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(agent)
	}
}

// Client posts reports to the low-level endpoint. It is safe for concurrent
// use.
type Client struct {
	baseURL   string
	http      HTTPDoer
	userAgent string
}

// New constructs a client rooted at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "acousticbrainz", "parse base url", base, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, services.Wrap(services.ErrConfiguration, "acousticbrainz", "parse base url",
			fmt.Sprintf("unsupported scheme %q", parsed.Scheme), nil)
	}

	client := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SubmitURL returns the low-level endpoint for mbid.
func (c *Client) SubmitURL(mbid string) string {
	return fmt.Sprintf("%s/%s/low-level", c.baseURL, url.PathEscape(strings.TrimSpace(mbid)))
}

// Submit posts report for mbid. It makes exactly one attempt.
func (c *Client) Submit(ctx context.Context, mbid string, report any) Outcome {
	body, err := json.Marshal(report)
	if err != nil {
		return Outcome{Kind: OutcomeRejected, Message: "encode report", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.SubmitURL(mbid), bytes.NewReader(body))
	if err != nil {
		return Outcome{Kind: OutcomeUnreachable, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Outcome{Kind: OutcomeUnreachable, Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Outcome{Kind: OutcomeAccepted, StatusCode: resp.StatusCode}
	}
	return Outcome{
		Kind:       OutcomeRejected,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp.Body),
	}
}

type errorBody struct {
	Message *string `json:"message"`
}

func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return fallbackMessage(err.Error())
	}
	var payload errorBody
	if err := json.Unmarshal(data, &payload); err != nil {
		return fallbackMessage(err.Error())
	}
	if payload.Message == nil {
		return fallbackMessage("response has no message field")
	}
	return *payload.Message
}

func fallbackMessage(reason string) string {
	return "unable to get error message: " + reason
}

func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return "request failed"
}
