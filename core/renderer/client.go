package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	retry "github.com/avast/retry-go/v5"
)

const (
	// retryDelay and retryJitter bound the randomized pause between request
	// attempts while the freshly spawned server is not yet accepting
	// connections.
	retryDelay  = 5 * time.Millisecond
	retryJitter = 5 * time.Millisecond

	// retryBudget is the total elapsed time allowed for one render request
	// including all retries.
	retryBudget = 10 * time.Second
)

// Request is the JSON payload sent to the render server. Zero-valued fields
// are omitted rather than sent as null; the server applies its own defaults
// for absent keys.
type Request struct {
	Figure any     `json:"figure"`
	Format string  `json:"format,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
}

// Client issues render requests to the supervised server over local HTTP.
type Client struct {
	sup  *Supervisor
	http *http.Client
}

// NewClient creates a render client bound to a supervisor.
func NewClient(sup *Supervisor) *Client {
	return &Client{
		sup:  sup,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// Render posts the request to the running server and returns the raw image
// bytes. Connection-level failures are retried with randomized backoff until
// the retry budget is exhausted; this absorbs the window between process
// spawn and the server socket becoming ready. A failure response from the
// server is not retried and surfaces immediately as a RenderError.
func (c *Client) Render(ctx context.Context, req Request) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode render request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, retryBudget)
	defer cancel()

	data, err := retry.NewWithData[[]byte](
		retry.Context(ctx),
		retry.UntilSucceeded(),
		retry.Delay(retryDelay),
		retry.MaxJitter(retryJitter),
		retry.DelayType(retry.CombineDelay(retry.FixedDelay, retry.RandomDelay)),
		retry.LastErrorOnly(true),
	).Do(func() ([]byte, error) { return c.attempt(ctx, body) })
	if err != nil {
		var renderErr *RenderError
		if errors.As(err, &renderErr) {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, &RenderError{Message: fmt.Sprintf(
				"no response from the render server within %s", retryBudget)}
		}
		return nil, err
	}
	return data, nil
}

// attempt performs a single request. It re-runs EnsureRunning each time: a
// server that lost the ephemeral-port race dies right after spawning, and the
// next attempt then relaunches it on a fresh port.
func (c *Client) attempt(ctx context.Context, body []byte) ([]byte, error) {
	if err := c.sup.EnsureRunning(ctx); err != nil {
		// A missing executable or a spawn failure will not resolve itself.
		return nil, retry.Unrecoverable(err)
	}

	url := fmt.Sprintf("http://localhost:%d/", c.sup.Status().Port)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		// Connection-level failure: the server socket may not be ready yet.
		return nil, fmt.Errorf("render server not reachable: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to read render response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, retry.Unrecoverable(&RenderError{
			StatusCode: resp.StatusCode,
			Message:    string(payload),
		})
	}
	return payload, nil
}
