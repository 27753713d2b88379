package gameapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	AuthHeader      = "X-Authorization"
	RequestIDHeader = "X-Request-Id"
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 4 << 10

type Client struct {
	baseURL   *url.URL
	http      *http.Client
	log       *slog.Logger
	requestID func(ctx context.Context) string
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client (its timeout is kept as is).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRequestID forwards the id returned by fn on every outgoing call.
func WithRequestID(fn func(ctx context.Context) string) Option {
	return func(c *Client) {
		c.requestID = fn
	}
}

func New(log *slog.Logger, baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	const op = "gameapi.New"

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidBaseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// request describes one call to the remote API.
type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	token       string
	body        any
	raw         []byte
	contentType string
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = u.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) send(ctx context.Context, req request) (*http.Response, error) {
	var body io.Reader
	contentType := req.contentType

	switch {
	case req.raw != nil:
		body = bytes.NewReader(req.raw)
	case req.body != nil:
		buf, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", req.op, err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.endpoint(req.path, req.query), body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.op, err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.token != "" {
		httpReq.Header.Set(AuthHeader, req.token)
	}
	if c.requestID != nil {
		if id := c.requestID(ctx); id != "" {
			httpReq.Header.Set(RequestIDHeader, id)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Error(req.op+" failed",
			slog.String("method", req.method),
			slog.String("path", req.path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", req.op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		apiErr := readAPIError(req.op, resp)
		c.log.Warn(req.op+" rejected",
			slog.String("method", req.method),
			slog.String("path", req.path),
			slog.Int("status", apiErr.Status),
			slog.String("error", apiErr.Message))
		return nil, apiErr
	}

	return resp, nil
}

// do sends req and decodes a JSON response into out when out is not nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Error(req.op+" decode failed", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w: %w", req.op, ErrDecode, err)
	}

	return nil
}

func readAPIError(op string, resp *http.Response) *APIError {
	apiErr := &APIError{Op: op, Status: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		apiErr.Message = payload.Message
	} else if text := strings.TrimSpace(string(data)); !strings.HasPrefix(text, "<") {
		apiErr.Message = text
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
