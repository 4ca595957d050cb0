package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ugcgo/ugcgo-backend/internal/config"
)

const (
	restPrefix = "/rest/v1/"
	authPrefix = "/auth/v1/"
)

// Observer records store call latency.
type Observer interface {
	ObserveStoreRequest(op string, elapsed time.Duration)
}

// APIError is a non-2xx response from Supabase.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client talks to Supabase auth and PostgREST with the service-role key.
type Client struct {
	baseURL    string
	serviceKey string
	apiKey     string
	http       *http.Client
	observer   Observer
}

type Option func(*Client)

// WithHTTPClient overrides the transport. No timeout is set by default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func NewClient(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.SupabaseURL, "/"),
		serviceKey: cfg.SupabaseServiceKey,
		apiKey:     cfg.SupabaseAPIKey(),
		http:       http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close is a no-op; the client holds no connections of its own.
func (c *Client) Close() error {
	return nil
}

type request struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
	// bearer overrides the service-role key in the Authorization header.
	bearer string
}

func (c *Client) do(ctx context.Context, r request) (*http.Response, []byte, error) {
	if c.observer != nil {
		start := time.Now()
		defer func() { c.observer.ObserveStoreRequest(r.op, time.Since(start)) }()
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, nil, fmt.Errorf("supabase %s: marshal body: %w", r.op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, nil, fmt.Errorf("supabase %s: build request: %w", r.op, err)
	}

	bearer := r.bearer
	if bearer == "" {
		bearer = c.serviceKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("supabase %s: %w", r.op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("supabase %s: read body: %w", r.op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, data, &APIError{Op: r.op, StatusCode: resp.StatusCode, Body: string(data)}
	}
	return resp, data, nil
}

func (c *Client) getJSON(ctx context.Context, r request, out any) (*http.Response, error) {
	r.method = http.MethodGet
	resp, data, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("supabase %s: decode: %w", r.op, err)
	}
	return resp, nil
}

func eq(v string) string {
	return "eq." + v
}

// likeEscaper keeps LIKE wildcards literal; "_" is common in addresses.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ilike is a case-insensitive exact match.
func ilike(v string) string {
	return "ilike." + likeEscaper.Replace(v)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseContentRange returns N from "a-b/N" or "*/N".
func parseContentRange(h string) (int64, bool) {
	i := strings.LastIndexByte(h, '/')
	if i < 0 || i == len(h)-1 {
		return 0, false
	}
	n, err := strconv.ParseInt(h[i+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseTime accepts the timestamp formats PostgREST and GoTrue emit.
// Unparseable values yield the zero time.
func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05.999999-07"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
