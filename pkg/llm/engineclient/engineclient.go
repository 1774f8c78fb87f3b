// Package engineclient provides the shared HTTP plumbing for concrete engine
// clients. Embed EngineClient in an engine struct to get request building,
// JSON round trips with retry and backoff, line streaming, and a short-timeout
// reachability probe. Concrete engines translate their native wire shapes on
// top of these helpers.
package engineclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lada-dev/lada/pkg/llm"
)

const (
	probeTimeout = 5 * time.Second

	retryInitialInterval = time.Second
	retryMultiplier      = 2.0
	retryMaxInterval     = 30 * time.Second

	// Streamed lines can carry whole JSON documents.
	maxLineBytes = 1 << 20
)

// ErrStop is returned from a StreamLines callback to end the stream cleanly.
var ErrStop = errors.New("engineclient: stop stream")

// EngineClient holds connection settings for one engine endpoint. One
// instance serves all requests against a given (engine, configuration) pair.
type EngineClient struct {
	Engine     llm.EngineKind
	Host       string // base URL, no trailing slash
	MaxRetries int    // retries after the first attempt, for retriable failures

	Client *http.Client // request client; carries the configured timeout

	// probeClient answers reachability checks on its own short timeout so a
	// long generation timeout never slows a probe down.
	probeClient *http.Client

	// newBackOff builds the retry policy for one call. Overridable in tests.
	newBackOff func() backoff.BackOff
}

// New creates an EngineClient for the given endpoint. A zero timeout means no
// client-side deadline beyond the request context.
func New(engine llm.EngineKind, host string, timeout time.Duration, maxRetries int) EngineClient {
	return EngineClient{
		Engine:      engine,
		Host:        strings.TrimRight(host, "/"),
		MaxRetries:  maxRetries,
		Client:      &http.Client{Timeout: timeout},
		probeClient: &http.Client{Timeout: probeTimeout},
	}
}

// SetBackOffFunc overrides the retry backoff policy (for testing).
func (c *EngineClient) SetBackOffFunc(fn func() backoff.BackOff) { c.newBackOff = fn }

func (c *EngineClient) backOff(ctx context.Context) backoff.BackOff {
	fn := c.newBackOff
	if fn == nil {
		fn = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = retryInitialInterval
			b.Multiplier = retryMultiplier
			b.MaxInterval = retryMaxInterval
			b.MaxElapsedTime = 0
			return b
		}
	}

	return backoff.WithContext(backoff.WithMaxRetries(fn(), uint64(max(c.MaxRetries, 0))), ctx)
}

// NewRequest builds an *http.Request against the engine host.
func (c *EngineClient) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.Host+path, body)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// PostJSON sends payload to path and decodes the response into dest, retrying
// retriable failures (connection errors, timeouts, 5xx) with exponential
// backoff. Definitive engine failures (4xx, undecodable body) come back as
// *llm.EngineError without retry; exhausted retries come back as
// *llm.ConnectionError or *llm.TimeoutError carrying the attempt count.
func (c *EngineClient) PostJSON(ctx context.Context, path, model string, payload, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("engineclient: marshal payload: %w", err)
	}

	return c.withRetry(ctx, model, func() error {
		req, err := c.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
		if err != nil {
			return err
		}

		return c.roundTrip(req, model, dest)
	})
}

// GetJSON fetches path and decodes the response into dest, with the same
// retry and error classification as PostJSON.
func (c *EngineClient) GetJSON(ctx context.Context, path, model string, dest any) error {
	return c.withRetry(ctx, model, func() error {
		req, err := c.NewRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}

		return c.roundTrip(req, model, dest)
	})
}

// StreamLines posts payload to path and invokes fn once per non-empty
// response line, in arrival order. fn returning ErrStop ends the stream
// cleanly; any other error (or context cancellation) aborts it. The response
// body is closed before StreamLines returns, so an aborted stream releases
// its connection promptly. Only the initial connection is retried; an
// interrupted stream is not restartable.
func (c *EngineClient) StreamLines(ctx context.Context, path, model string, payload any, fn func(line []byte) error) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("engineclient: marshal payload: %w", err)
	}

	var resp *http.Response

	err = c.withRetry(ctx, model, func() error {
		req, err := c.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
		if err != nil {
			return err
		}

		r, err := c.Client.Do(req)
		if err != nil {
			return err
		}

		if err := checkStatus(r, c.Engine, model); err != nil {
			_ = r.Body.Close()
			return err
		}

		resp = r

		return nil
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if err := fn(line); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}

			return err
		}
	}

	if err := scanner.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		return &llm.ConnectionError{Engine: c.Engine, Model: model, Attempts: 1, Err: err}
	}

	return nil
}

// Probe reports whether a GET on path answers 2xx within probeTimeout. It
// never returns an error; any failure maps to false.
func (c *EngineClient) Probe(ctx context.Context, path string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Host+path, nil)
	if err != nil {
		return false
	}

	resp, err := c.probeClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// withRetry runs op under the retry policy and classifies the terminal error.
func (c *EngineClient) withRetry(ctx context.Context, model string, op func() error) error {
	attempts := 0

	wrapped := func() error {
		attempts++

		err := op()
		if err == nil {
			return nil
		}

		var engineErr *llm.EngineError
		if errors.As(err, &engineErr) {
			return backoff.Permanent(err)
		}

		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		return err
	}

	err := backoff.Retry(wrapped, c.backOff(ctx))
	if err == nil {
		return nil
	}

	return c.classify(err, model, attempts)
}

// classify maps a terminal transport error to the llm error taxonomy.
func (c *EngineClient) classify(err error, model string, attempts int) error {
	var engineErr *llm.EngineError
	if errors.As(err, &engineErr) {
		return engineErr
	}

	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}

	if isTimeout(err) {
		return &llm.TimeoutError{Engine: c.Engine, Model: model, Attempts: attempts, Err: err}
	}

	return &llm.ConnectionError{Engine: c.Engine, Model: model, Attempts: attempts, Err: err}
}

// roundTrip sends req, checks the status, and decodes the body into dest.
func (c *EngineClient) roundTrip(req *http.Request, model string, dest any) error {
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp, c.Engine, model); err != nil {
		return err
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &llm.EngineError{Engine: c.Engine, Model: model, Message: fmt.Sprintf("decode response: %v", err)}
	}

	return nil
}

// checkStatus classifies non-2xx statuses: 5xx stays a plain (retriable)
// error, everything else is a definitive *llm.EngineError.
func checkStatus(resp *http.Response, engine llm.EngineKind, model string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))

	if resp.StatusCode >= 500 {
		return fmt.Errorf("engineclient: server status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return &llm.EngineError{
		Engine:     engine,
		Model:      model,
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}

// isTimeout reports whether err is a deadline-style failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}
