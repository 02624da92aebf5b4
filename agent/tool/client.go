package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

const maxResponseSizeBytes = 2 << 20

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http status=%d body=%s", e.Code, e.Body)
}

// doJSON issues one GET with the client's bounded timeout and decodes
// the body into out. Non-2xx statuses come back as *statusError so the
// caller can map them to failure kinds.
func doJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &statusError{Code: resp.StatusCode, Body: string(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapTransportFailure normalizes a doJSON error into the declared
// failure kinds: 429 is RateLimited, 404 is NotFound, a deadline is
// Timeout, everything else is UpstreamError.
func mapTransportFailure(tool, subject string, err error) contractx.ToolResult {
	var se *statusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests:
			return contractx.Fail(tool, contractx.FailureRateLimited, "the data source is rate limiting requests")
		case http.StatusNotFound:
			return contractx.Fail(tool, contractx.FailureNotFound, "no data found for %q", subject)
		default:
			return contractx.Fail(tool, contractx.FailureUpstream, "the data source returned status %d", se.Code)
		}
	}
	if isTimeout(err) {
		return contractx.Fail(tool, contractx.FailureTimeout, "the data source took too long to respond")
	}
	return contractx.Fail(tool, contractx.FailureUpstream, "the data source could not be reached")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
