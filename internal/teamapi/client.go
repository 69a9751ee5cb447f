// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package teamapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/holomush/teamauth/internal/observability"
	"github.com/holomush/teamauth/internal/team"
)

const tracerName = "github.com/holomush/teamauth/internal/teamapi"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 64 << 20

// Client talks to the Team API rooted at <base URL>/api.
type Client struct {
	baseURL string
	http    *http.Client
	auth    *Authenticator
	metrics *observability.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout   time.Duration
	userAgent string
	base      http.RoundTripper
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// WithTimeout bounds every request. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) { o.userAgent = ua }
}

// WithBaseTransport replaces the underlying round tripper.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.base = rt }
}

// WithMetrics records request counts and latency.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithLogger sets the logger for request tracing at DEBUG.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// New returns a client for the server at baseURL, for example
// "http://localhost:8001". The /api suffix is appended here.
func New(baseURL string, opts ...Option) *Client {
	o := clientOptions{userAgent: "teamauth", logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	baseURL = strings.TrimRight(baseURL, "/")
	var host string
	if u, err := url.Parse(baseURL); err == nil {
		host = u.Host
	}

	auth := &Authenticator{}
	return &Client{
		baseURL: baseURL + "/api",
		http: &http.Client{
			Timeout: o.timeout,
			Transport: &Transport{
				Base:          o.base,
				Authenticator: auth,
				UserAgent:     o.userAgent,
				Host:          host,
			},
		},
		auth:    auth,
		metrics: o.metrics,
		logger:  o.logger.With("component", "teamapi"),
		tracer:  otel.Tracer(tracerName),
	}
}

// Authenticator returns the client's token holder.
func (c *Client) Authenticator() *Authenticator {
	return c.auth
}

// BaseURL returns the API root including the /api suffix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one Team API request.
type call struct {
	op       string
	method   string
	path     string
	fallback string
	body     any
	out      any
}

// do performs c and translates every failure into a *team.Error.
func (c *Client) do(ctx context.Context, req call) error {
	ctx, span := c.tracer.Start(ctx, "teamapi."+req.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.method),
			attribute.String("url.path", req.path),
		))
	defer span.End()

	start := time.Now()
	status, err := c.roundTrip(ctx, req)
	elapsed := time.Since(start)

	c.metrics.ObserveRequest(req.op, status, elapsed)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.DebugContext(ctx, "team api request failed",
			"operation", req.op, "status", status, "elapsed", elapsed, "error", err.Error())
		return err
	}
	c.logger.DebugContext(ctx, "team api request",
		"operation", req.op, "status", status, "elapsed", elapsed)
	return nil
}

func (c *Client) roundTrip(ctx context.Context, req call) (int, error) {
	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return 0, c.networkError(req, oops.Code("TEAMAPI_ENCODE_FAILED").Wrap(err))
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return 0, c.networkError(req, oops.Code("TEAMAPI_REQUEST_FAILED").Wrap(err))
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, c.networkError(req, oops.Code("TEAMAPI_REQUEST_FAILED").Wrap(err))
	}
	defer resp.Body.Close() //nolint:errcheck // read errors are reported below

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, c.networkError(req, oops.Code("TEAMAPI_READ_FAILED").With("status", resp.StatusCode).Wrap(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, team.NewAuthError(req.op, resp.StatusCode, detailOr(data, req.fallback))
	}

	if req.out != nil {
		if err := json.Unmarshal(data, req.out); err != nil {
			return resp.StatusCode, c.networkError(req, oops.Code("TEAMAPI_DECODE_FAILED").With("status", resp.StatusCode).Wrap(err))
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) networkError(req call, cause error) error {
	cause = oops.With("operation", req.op).With("method", req.method).With("path", req.path).Wrap(cause)
	return team.NewNetworkError(req.op, req.fallback, cause)
}

// detailOr returns the JSON "detail" string of an error body, or fallback
// when it is missing, empty or not a string.
func detailOr(body []byte, fallback string) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return fallback
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil || strings.TrimSpace(detail) == "" {
		return fallback
	}
	return detail
}

// IsNetwork reports whether err means no usable response arrived.
func IsNetwork(err error) bool {
	var teamErr *team.Error
	return errors.As(err, &teamErr) && teamErr.Kind == team.KindNetwork
}
