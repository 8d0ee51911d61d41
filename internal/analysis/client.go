package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrorKind classifies an analysis call failure.
type ErrorKind int

const (
	// KindUpstream is a non-success status from the analysis service; the
	// status and body are relayed verbatim.
	KindUpstream ErrorKind = iota
	// KindReported means the service answered with a success status whose
	// body is an error report rather than a result.
	KindReported
	// KindTimeout means the call exceeded the configured bound.
	KindTimeout
	// KindCanceled means the caller canceled before the bound was hit.
	KindCanceled
	// KindUnreachable means the service could not be reached at all.
	KindUnreachable
	// KindParse means a success response could not be deserialized.
	KindParse
	// KindEmpty means a success response carried no usable result.
	KindEmpty
)

// Error is a classified failure from Client.Analyze.
type Error struct {
	Kind    ErrorKind
	Message string
	Details string

	// Upstream response, set for KindUpstream and KindReported.
	UpstreamStatus      int
	UpstreamBody        []byte
	UpstreamContentType string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Client calls the external analysis service. Each Analyze call issues
// exactly one POST bounded by Timeout; there are no retries and no caching.
type Client struct {
	analyzeURL string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a Client for the given analyze endpoint URL. The
// timeout is enforced through the request context independently of the
// transport, so the bound fires even if the transport never gives up.
func NewClient(analyzeURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		analyzeURL: analyzeURL,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// Analyze forwards one request to the analysis service and returns the
// parsed result. All failures come back as *Error.
func (c *Client) Analyze(ctx context.Context, req Request) (Result, error) {
	var result Result

	payload, err := json.Marshal(req)
	if err != nil {
		return result, &Error{Kind: KindParse, Message: "failed to encode analysis request", Details: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.analyzeURL, bytes.NewReader(payload))
	if err != nil {
		return result, &Error{Kind: KindUnreachable, Message: "failed to build analysis request", Details: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return result, c.classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, c.classifyTransportError(ctx, err)
	}

	slog.Info("analysis service responded",
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start).Round(time.Millisecond)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			Kind:                KindUpstream,
			Message:             fmt.Sprintf("analysis service returned status %d", resp.StatusCode),
			UpstreamStatus:      resp.StatusCode,
			UpstreamBody:        body,
			UpstreamContentType: resp.Header.Get("Content-Type"),
		}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return result, &Error{Kind: KindEmpty, Message: "analysis service returned an empty or invalid result"}
	}

	// A success status can still carry an error body; the service reports
	// "no posts found" that way. Surface it instead of letting it decode
	// into an empty result.
	var report struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(trimmed, &report); err == nil && report.Error != "" {
		return result, &Error{
			Kind:                KindReported,
			Message:             report.Error,
			Details:             report.Details,
			UpstreamStatus:      resp.StatusCode,
			UpstreamBody:        body,
			UpstreamContentType: resp.Header.Get("Content-Type"),
		}
	}

	// encoding/json matches fields case-insensitively, which the analysis
	// service contract relies on.
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return result, &Error{
			Kind:    KindParse,
			Message: "failed to parse analysis service response",
			Details: err.Error(),
		}
	}

	result.normalize()
	return result, nil
}

func (c *Client) classifyTransportError(ctx context.Context, err error) *Error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &Error{
			Kind:    KindTimeout,
			Message: fmt.Sprintf("analysis timed out after %s", c.timeout),
			Details: "the query may match too many posts; retry with a narrower query or a smaller maxResults",
		}
	case errors.Is(ctx.Err(), context.Canceled):
		return &Error{Kind: KindCanceled, Message: "analysis request was canceled"}
	default:
		return &Error{
			Kind:    KindUnreachable,
			Message: "analysis service is unreachable",
			Details: err.Error(),
		}
	}
}
