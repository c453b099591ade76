package client

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

	"gold-catalog/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

var HttpClientTracer = otel.Tracer("HttpClient")

// HTTPClient is a small JSON-oriented wrapper around http.Client that propagates
// trace context and logs every outgoing request.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	headers map[string]string
}

type RequestOptions struct {
	Method      string
	URL         string
	Headers     map[string]string
	QueryParams url.Values
	Body        any
	Timeout     time.Duration
	Context     context.Context
}

// Response carries the decoded body plus the raw bytes and status.
type Response[T any] struct {
	Data       T
	StatusCode int
	Headers    http.Header
	RawBody    []byte
}

// NewHTTPClient returns a client rooted at baseURL. A zero timeout keeps the
// transport default.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return NewHTTPClientWith(&http.Client{Timeout: timeout}, baseURL)
}

// NewHTTPClientWith wraps an existing http.Client.
func NewHTTPClientWith(hc *http.Client, baseURL string) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{
		client:  hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: make(map[string]string),
	}
}

func (c *HTTPClient) SetDefaultHeader(key, value string) {
	c.headers[key] = value
}

func (c *HTTPClient) SetDefaultHeaders(headers map[string]string) {
	for k, v := range headers {
		c.headers[k] = v
	}
}

// Do performs the request and returns the raw response. Decoding is left to the
// caller so that non-2xx bodies can be inspected.
func (c *HTTPClient) Do(opts RequestOptions) (*Response[[]byte], error) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	fullURL, err := c.buildURL(opts.URL, opts.QueryParams)
	if err != nil {
		logger.Error(ctx, "Failed to build URL", slog.String("error", err.Error()))
		return nil, fmt.Errorf("build URL: %w", err)
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		bodyBytes, err := encodeBody(opts.Body)
		if err != nil {
			logger.Error(ctx, "Failed to encode body", slog.String("error", err.Error()))
			return nil, fmt.Errorf("encode body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	ctx, span := HttpClientTracer.Start(ctx, "HttpClient "+opts.Method)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, opts.Method, fullURL, bodyReader)
	if err != nil {
		logger.Error(ctx, "Failed to create request", slog.String("error", err.Error()))
		return nil, fmt.Errorf("create request: %w", err)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	c.setHeaders(req, opts.Headers)
	if span.SpanContext().IsValid() {
		req.Header.Set("X-Trace-ID", span.SpanContext().TraceID().String())
	}
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", req.URL.Redacted()),
	)

	logger.Info(ctx, "HttpClient request", logger.LogHTTPRequest(ctx, req, "outgoing::request")...)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		logger.Error(ctx, "Failed to execute request", slog.String("error", err.Error()))
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body failed")
		logger.Error(ctx, "Failed to read response body", slog.String("error", err.Error()))
		return nil, fmt.Errorf("read response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
	}
	logger.Info(ctx, "HttpClient response",
		logger.LogHTTPResponse(ctx, req, resp.Header, resp.StatusCode, bytes.NewReader(rawBody), time.Since(start), "outgoing::response")...)

	return &Response[[]byte]{
		Data:       rawBody,
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		RawBody:    rawBody,
	}, nil
}

// Get performs a GET and decodes a JSON body into T. The response is returned
// even when decoding fails so the caller can report the status.
func Get[T any](c *HTTPClient, endpoint string, opts ...RequestOptions) (*Response[T], error) {
	reqOpts := RequestOptions{Method: http.MethodGet, URL: endpoint}
	if len(opts) > 0 {
		reqOpts = mergeOptions(reqOpts, opts[0])
	}

	raw, err := c.Do(reqOpts)
	if err != nil {
		return nil, err
	}

	out := &Response[T]{StatusCode: raw.StatusCode, Headers: raw.Headers, RawBody: raw.RawBody}
	if !out.IsSuccess() || len(raw.RawBody) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw.RawBody, &out.Data); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func (c *HTTPClient) buildURL(endpoint string, queryParams url.Values) (string, error) {
	var fullURL string
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		fullURL = endpoint
	} else if endpoint == "" {
		fullURL = c.baseURL
	} else {
		fullURL = c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	}

	u, err := url.Parse(fullURL)
	if err != nil {
		return "", err
	}
	if len(queryParams) > 0 {
		q := u.Query()
		for k, vs := range queryParams {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case io.Reader:
		return io.ReadAll(v)
	default:
		return json.Marshal(body)
	}
}

func (c *HTTPClient) setHeaders(req *http.Request, headers map[string]string) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

func mergeOptions(base, override RequestOptions) RequestOptions {
	if override.Method != "" {
		base.Method = override.Method
	}
	if override.URL != "" {
		base.URL = override.URL
	}
	if override.Body != nil {
		base.Body = override.Body
	}
	if override.Context != nil {
		base.Context = override.Context
	}
	if override.Timeout > 0 {
		base.Timeout = override.Timeout
	}

	if base.Headers == nil {
		base.Headers = make(map[string]string)
	}
	for k, v := range override.Headers {
		base.Headers[k] = v
	}

	if base.QueryParams == nil {
		base.QueryParams = url.Values{}
	}
	for k, vs := range override.QueryParams {
		base.QueryParams[k] = append(base.QueryParams[k], vs...)
	}

	return base
}

func (r *Response[T]) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response[T]) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response[T]) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response[T]) GetHeader(key string) string {
	return r.Headers.Get(key)
}
