// Package platform is the narrow interface to the managed backend: a
// PostgREST-style data API, an RPC endpoint for the atomic multi-table
// create, and an object storage API. A Client is constructed per request,
// bound to the caller's bearer token, so every table access runs under the
// caller's row-level security context. Clients hold no shared state.
package platform

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/dentara/api/internal/config"
	"github.com/dentara/api/pkg/metrics"
)

type Client struct {
	rest      *resty.Client
	cfg       config.PlatformConfig
	log       *zap.Logger
	collector *metrics.Collector
}

// New builds a client bound to one caller. authorization is the incoming
// Authorization header value (e.g. "Bearer eyJ..."); pass the service key
// as "Bearer <key>" for the background audit writer.
func New(cfg config.PlatformConfig, authorization string, log *zap.Logger) *Client {
	rest := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.AnonKey).
		SetHeader("Accept", "application/json")
	if authorization != "" {
		rest.SetHeader("Authorization", authorization)
	}

	return &Client{rest: rest, cfg: cfg, log: log}
}

// WithCollector attaches request-latency metrics. A nil collector leaves
// the client unmetered.
func (c *Client) WithCollector(collector *metrics.Collector) *Client {
	c.collector = collector
	return c
}

// BaseURL returns the platform root, without a trailing slash.
func (c *Client) BaseURL() string {
	return strings.TrimRight(c.cfg.URL, "/")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, headers map[string]string, body any) (*resty.Response, error) {
	req := c.rest.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if headers != nil {
		req.SetHeaders(headers)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if c.collector != nil {
		c.collector.PlatformRequestDuration.
			WithLabelValues(metricOperation(method, path)).
			Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, &Error{Status: 0, Message: err.Error()}
	}
	if resp.IsError() {
		perr := parseErrorBody(resp.StatusCode(), resp.Body())
		c.log.Debug("platform request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", perr.Status),
		)
		return nil, perr
	}
	return resp, nil
}

// Select fetches rows from a table. query uses PostgREST operators
// (e.g. "id" -> "eq.<id>", "order" -> "created_at.desc").
func (c *Client) Select(ctx context.Context, table string, query url.Values, out any) error {
	resp, err := c.do(ctx, "GET", "/rest/v1/"+table, query, nil, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(resp.Body(), out)
}

// SelectWithCount is Select plus an exact total row count, for paginated
// list envelopes. The count rides the Content-Range response header.
func (c *Client) SelectWithCount(ctx context.Context, table string, query url.Values, out any) (int64, error) {
	headers := map[string]string{"Prefer": "count=exact"}
	resp, err := c.do(ctx, "GET", "/rest/v1/"+table, query, headers, nil)
	if err != nil {
		return 0, err
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return 0, err
	}
	return parseContentRangeTotal(resp.Header().Get("Content-Range")), nil
}

// SelectSingle fetches exactly one row, returning ErrNotFound when the
// filter matches nothing.
func (c *Client) SelectSingle(ctx context.Context, table string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("limit", "1")
	resp, err := c.do(ctx, "GET", "/rest/v1/"+table, query, nil, nil)
	if err != nil {
		return err
	}
	return decodeSingle(resp.Body(), out)
}

// Insert creates one row and decodes the created representation into out
// when out is non-nil.
func (c *Client) Insert(ctx context.Context, table string, body any, out any) error {
	headers := map[string]string{"Prefer": "return=representation"}
	if out == nil {
		headers["Prefer"] = "return=minimal"
	}
	resp, err := c.do(ctx, "POST", "/rest/v1/"+table, nil, headers, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeSingle(resp.Body(), out)
}

// Update patches rows matching the filter and decodes the first updated
// row into out. ErrNotFound when the filter matched nothing.
func (c *Client) Update(ctx context.Context, table string, query url.Values, body any, out any) error {
	headers := map[string]string{"Prefer": "return=representation"}
	resp, err := c.do(ctx, "PATCH", "/rest/v1/"+table, query, headers, body)
	if err != nil {
		return err
	}
	return decodeSingle(resp.Body(), out)
}

// Delete removes rows matching the filter and decodes the first deleted
// row into out. ErrNotFound when the filter matched nothing.
func (c *Client) Delete(ctx context.Context, table string, query url.Values, out any) error {
	headers := map[string]string{"Prefer": "return=representation"}
	resp, err := c.do(ctx, "DELETE", "/rest/v1/"+table, query, headers, nil)
	if err != nil {
		return err
	}
	return decodeSingle(resp.Body(), out)
}

// RPC invokes a database procedure. The atomic patient create hangs off
// this; the procedure's all-or-nothing guarantee is the platform's.
func (c *Client) RPC(ctx context.Context, fn string, args any, out any) error {
	resp, err := c.do(ctx, "POST", "/rest/v1/rpc/"+fn, nil, nil, args)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	body := resp.Body()
	// Procedures returning SETOF come back as an array; single-record
	// procedures come back bare. Accept both.
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		return decodeSingle(body, out)
	}
	return json.Unmarshal(body, out)
}

// decodeSingle unwraps a PostgREST array response into one record.
func decodeSingle(body []byte, out any) error {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return json.Unmarshal(rows[0], out)
}

// metricOperation collapses a request path to a bounded-cardinality
// operation label: object paths and row filters never reach the metric.
func metricOperation(method, path string) string {
	parts := strings.SplitN(strings.TrimLeft(path, "/"), "/", 4)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return method + " /" + strings.Join(parts, "/")
}

// parseContentRangeTotal parses "0-24/57" into 57. Returns -1 when the
// total is unknown ("*") or the header is absent.
func parseContentRangeTotal(header string) int64 {
	idx := strings.LastIndex(header, "/")
	if idx < 0 {
		return -1
	}
	totalPart := header[idx+1:]
	if totalPart == "*" || totalPart == "" {
		return -1
	}
	total, err := strconv.ParseInt(totalPart, 10, 64)
	if err != nil {
		return -1
	}
	return total
}
