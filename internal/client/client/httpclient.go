package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/greenhub/internal/common"
	"github.com/dmitrijs2005/greenhub/internal/logging"
	"github.com/google/uuid"
)

const maxBodySize = 10 << 20

type HTTPClient struct {
	base    *url.URL
	hc      *http.Client
	timeout time.Duration
	maxBody int64
	headers http.Header
	log     logging.Logger
	metrics *Metrics
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.hc = hc }
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

// WithHeaders adds headers sent on every request.
func WithHeaders(h map[string]string) Option {
	return func(c *HTTPClient) {
		for k, v := range h {
			c.headers.Set(k, v)
		}
	}
}

// WithMaxBodySize caps response bodies. Larger bodies fail with
// ErrBodyTooLarge.
func WithMaxBodySize(n int64) Option {
	return func(c *HTTPClient) { c.maxBody = n }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *HTTPClient) { c.metrics = m }
}

// NewHTTPClient creates a client for the origin baseURL (scheme and host,
// optionally a path prefix such as "/api").
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}

	c := &HTTPClient{
		base:    base,
		hc:      &http.Client{},
		maxBody: maxBodySize,
		headers: make(http.Header),
		log:     logging.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the origin requests are resolved against.
func (c *HTTPClient) BaseURL() string {
	return c.base.String()
}

// Do sends req. It returns an error only when no response was received; any
// status code, including 4xx and 5xx, comes back as a Response.
func (c *HTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := c.resolve(req)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set(common.AcceptHeaderName, common.JSONMimeType)
	for k, vs := range c.headers {
		httpReq.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range req.Header {
		httpReq.Header[k] = append([]string(nil), vs...)
	}
	if contentType != "" {
		httpReq.Header.Set(common.ContentTypeHeaderName, contentType)
	}
	if req.Token != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+req.Token)
	}
	httpReq.Header.Set(common.RequestIDHeaderName, requestID)

	start := time.Now()
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		c.metrics.observe(req.Method, "transport_error", time.Since(start))
		terr := &TransportError{Op: req.Method, URL: target, Err: err, Timeout: isTimeout(err)}
		c.log.Debug(ctx, "request failed", "method", req.Method, "url", target, "request_id", requestID, "err", err)
		return nil, terr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		c.metrics.observe(req.Method, "transport_error", time.Since(start))
		return nil, &TransportError{Op: req.Method, URL: target, Err: fmt.Errorf("read body: %w", err), Timeout: isTimeout(err)}
	}
	if int64(len(raw)) > c.maxBody {
		c.metrics.observe(req.Method, "body_too_large", time.Since(start))
		c.log.Warn(ctx, "response body too large",
			"method", req.Method, "url", target, "limit", c.maxBody, "request_id", requestID)
		return nil, fmt.Errorf("%s %s: %w", req.Method, target, ErrBodyTooLarge)
	}

	elapsed := time.Since(start)
	c.metrics.observe(req.Method, strconv.Itoa(resp.StatusCode), elapsed)
	c.log.Debug(ctx, "request done",
		"method", req.Method, "url", target, "status", resp.StatusCode,
		"duration", elapsed, "request_id", requestID)

	out := &Response{Status: resp.StatusCode, Header: resp.Header, Raw: raw}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && json.Valid(trimmed) {
		out.Body = json.RawMessage(trimmed)
	}
	return out, nil
}

func (c *HTTPClient) resolve(req *Request) (string, error) {
	var u *url.URL
	if parsed, err := url.Parse(req.Path); err == nil && parsed.IsAbs() {
		u = parsed
	} else {
		path, rawQuery, _ := strings.Cut(req.Path, "?")
		u = c.base.JoinPath(path)
		u.RawQuery = rawQuery
	}

	if len(req.Query) > 0 {
		q := u.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeBody(req *Request) (io.Reader, string, error) {
	switch {
	case req.Form != nil:
		r, ct, err := req.Form.Encode()
		if err != nil {
			return nil, "", fmt.Errorf("encode form: %w", err)
		}
		return r, ct, nil
	case req.Body != nil:
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		return bytes.NewReader(b), common.JSONMimeType, nil
	default:
		return nil, "", nil
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
