// Package api is the single HTTP gateway to the task REST API.
package api

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

	"go.uber.org/zap"

	"github.com/and161185/taskdesk/internal/convert"
	"github.com/and161185/taskdesk/internal/errs"
)

// DefaultTimeout bounds a single request when no HTTP client is supplied.
const DefaultTimeout = 30 * time.Second

const maxErrorBody = 64 << 10

// TokenSource yields the current bearer token; "" means unauthenticated.
type TokenSource interface {
	Token() string
}

// Client issues exactly one HTTP attempt per call. Failures are classified
// as *errs.Error and always returned to the caller; logging is a side effect.
type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
}

// WithHTTPClient replaces the underlying HTTP client. Its transport is wrapped.
func WithHTTPClient(c *http.Client) Option { return func(o *clientOptions) { o.httpClient = c } }

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option { return func(o *clientOptions) { o.timeout = d } }

// New constructs a Client for baseURL. tokens may be nil.
func New(baseURL string, tokens TokenSource, log *zap.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("api base url is empty")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q: scheme must be http or https", baseURL)
	}
	if base.Path == "" {
		base.Path = "/"
	}
	if log == nil {
		log = zap.NewNop()
	}

	o := clientOptions{timeout: DefaultTimeout}
	for _, fn := range opts {
		fn(&o)
	}
	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: o.timeout}
	}
	cp := *hc
	cp.Transport = &bearerTransport{next: hc.Transport, tokens: tokens}

	return &Client{base: base, http: &cp, log: log}, nil
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string { return c.base.String() }

// do performs one request. in is JSON-encoded when non-nil; out is decoded
// from a 2xx body when non-nil.
func (c *Client) do(ctx context.Context, op, method string, pathElems []string, query url.Values, in, out any) error {
	u := c.base.JoinPath(pathElems...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &errs.Error{Kind: errs.ErrValidation, Op: op, Message: "encode request", Err: err}
		}
		body = bytes.NewReader(b)
	}

	ctx, reqID := ensureRequestID(ctx)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &errs.Error{Kind: errs.ErrNetwork, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		e := errs.FromTransport(op, err)
		c.logFailure(e, method, u.Path, reqID, start)
		return e
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := errs.FromStatus(op, resp.StatusCode, errorText(resp.Body))
		c.logFailure(e, method, u.Path, reqID, start)
		return e
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		e := &errs.Error{Kind: errs.ErrServer, Op: op, Status: resp.StatusCode, Message: "invalid response body", Err: err}
		c.logFailure(e, method, u.Path, reqID, start)
		return e
	}
	c.log.Debug("api",
		zap.String("method", method),
		zap.String("path", u.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
		zap.Duration("dur", time.Since(start)),
	)
	return nil
}

func (c *Client) logFailure(e *errs.Error, method, path, reqID string, start time.Time) {
	c.log.Warn("api request failed",
		zap.String("op", e.Op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", e.Status),
		zap.String("kind", e.Kind.Error()),
		zap.String("request_id", reqID),
		zap.Duration("dur", time.Since(start)),
		zap.Error(e),
	)
}

// errorText extracts the server message from a failure body.
func errorText(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ""
	}
	var dto convert.ErrorDTO
	if err := json.Unmarshal(b, &dto); err == nil {
		return dto.Text()
	}
	if b[0] == '<' || len(b) > 200 {
		return ""
	}
	return string(b)
}
