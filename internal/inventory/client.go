// Package inventory is the HTTP client for the inventory REST backend.
//
// Every call is a single attempt bounded by the configured timeout. Identical
// in-flight item searches are collapsed; nothing is cached once a call returns.
package inventory

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

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/stockpilot/stockbot-go/internal/errors"
	"github.com/stockpilot/stockbot-go/internal/logger"
	"github.com/stockpilot/stockbot-go/internal/metrics"
)

// Endpoint labels used for metrics, spans and errors.
const (
	EndpointSearch   = "items_search"
	EndpointLowStock = "reports_low_stock"
	EndpointSales    = "reports_sales"
	EndpointAdjust   = "items_adjust_stock"
	EndpointPing     = "ping"
)

const tracerName = "github.com/stockpilot/stockbot-go/internal/inventory"

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
}

// Client talks to the inventory backend.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	tracer     trace.Tracer
	metrics    *metrics.Metrics
	logger     *logger.Logger
	flight     singleflight.Group
}

// NewClient creates a backend client. The http.Client carries no timeout of
// its own; each call is bounded through its context instead.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewWithWriter("error", io.Discard)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		timeout:    opts.Timeout,
		httpClient: httpClient,
		tracer:     otel.Tracer(tracerName),
		metrics:    opts.Metrics,
		logger:     log.WithModule("inventory"),
	}
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FindItem returns the best match of the fuzzy item search, which is the
// first element of the result list. An empty list yields ErrNotFound.
func (c *Client) FindItem(ctx context.Context, token, name string) (*Item, error) {
	key := token + "\x00" + name
	// Shared by joined callers: detached from the first caller's
	// cancellation, bounded by the client timeout inside do.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(key, func() (any, error) {
		var items []Item
		query := url.Values{"search": {name}}
		if err := c.do(flightCtx, http.MethodGet, EndpointSearch, "/items/", query, token, nil, &items); err != nil {
			return nil, err
		}
		return items, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared && c.metrics != nil {
			c.metrics.RecordSingleflightDedup(EndpointSearch)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		items, _ := res.Val.([]Item)
		if len(items) == 0 {
			return nil, fmt.Errorf("item %q: %w", name, errors.ErrNotFound)
		}
		item := items[0]
		return &item, nil
	}
}

// LowStockReport fetches the number of items below their reorder level.
func (c *Client) LowStockReport(ctx context.Context, token string) (*LowStockReport, error) {
	var report LowStockReport
	if err := c.do(ctx, http.MethodGet, EndpointLowStock, "/reports/low-stock/", nil, token, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SalesReport fetches the sales totals for one window.
func (c *Client) SalesReport(ctx context.Context, token string, r Range) (*SalesReport, error) {
	var report SalesReport
	query := url.Values{"range": {string(r)}}
	if err := c.do(ctx, http.MethodGet, EndpointSales, "/reports/sales/", query, token, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SalesReports fetches several windows concurrently. It fails as a whole if
// any single window fails; results are in the order of ranges.
func (c *Client) SalesReports(ctx context.Context, token string, ranges ...Range) ([]SalesReport, error) {
	reports := make([]SalesReport, len(ranges))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		g.Go(func() error {
			report, err := c.SalesReport(gctx, token, r)
			if err != nil {
				return fmt.Errorf("sales report %s: %w", r, err)
			}
			reports[i] = *report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// AdjustStock changes an item's quantity by delta and returns the updated item.
func (c *Client) AdjustStock(ctx context.Context, token string, itemID int64, delta int, description string) (*Item, error) {
	body := adjustRequest{QuantityChange: delta, Description: description}
	path := "/items/" + strconv.FormatInt(itemID, 10) + "/adjust_stock/"

	var item Item
	if err := c.do(ctx, http.MethodPost, EndpointAdjust, path, nil, token, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Ping checks that the backend answers HTTP at all. Any status counts as
// reachable since the probe carries no credentials.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return errors.NewBackendError(EndpointPing, 0, err)
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(EndpointPing, "error", start)
		return errors.NewBackendError(EndpointPing, 0, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	c.record(EndpointPing, strconv.Itoa(resp.StatusCode), start)
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// do performs one JSON request. Any status other than 200 is a BackendError
// carrying that status; transport and decode failures carry status 0.
func (c *Client) do(ctx context.Context, method, endpoint, path string, query url.Values, token string, in, out any) (err error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	ctx, span := c.tracer.Start(ctx, "inventory."+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", target),
	)

	var body io.Reader
	if in != nil {
		payload, marshalErr := json.Marshal(in)
		if marshalErr != nil {
			return errors.NewBackendError(endpoint, 0, fmt.Errorf("encode request: %w", marshalErr))
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return errors.NewBackendError(endpoint, 0, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, zstd")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(endpoint, "error", start)
		c.logger.WithError(err).WithField("endpoint", endpoint).Warn("Backend request failed")
		return errors.NewBackendError(endpoint, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.record(endpoint, strconv.Itoa(resp.StatusCode), start)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.logger.WithField("endpoint", endpoint).
			WithField("status", resp.StatusCode).
			Warn("Backend returned non-200 status")
		return errors.NewBackendError(endpoint, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	reader, closeFn, err := decodedBody(resp)
	if err != nil {
		return errors.NewBackendError(endpoint, 0, err)
	}
	defer closeFn()

	if err := json.NewDecoder(reader).Decode(out); err != nil {
		c.logger.WithError(err).WithField("endpoint", endpoint).Warn("Backend returned malformed JSON")
		return errors.NewBackendError(endpoint, 0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) record(endpoint, status string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordBackendRequest(endpoint, status, time.Since(start).Seconds())
	}
}

// decodedBody unwraps gzip or zstd content encoding.
func decodedBody(resp *http.Response) (io.Reader, func(), error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decompress gzip: %w", err)
		}
		return gz, func() { _ = gz.Close() }, nil
	case "zstd":
		zr, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decompress zstd: %w", err)
		}
		return zr, zr.Close, nil
	default:
		return resp.Body, func() {}, nil
	}
}
