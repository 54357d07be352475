package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTimeout   = 10 * time.Second
	defaultRetryWait = 200 * time.Millisecond
)

// Client is the HTTP gateway to the seat-management REST API.
type Client struct {
	http     *resty.Client
	logger   *zap.Logger
	metrics  *Metrics
	validate *validator.Validate
}

// settings collects transport options before the resty client is built, so
// options apply regardless of the order they are passed in.
type settings struct {
	httpClient *http.Client
	timeout    time.Duration
	retryWait  time.Duration
}

type Option func(*Client, *settings)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client, _ *settings) { c.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client, _ *settings) { c.metrics = m }
}

func WithTimeout(d time.Duration) Option {
	return func(_ *Client, s *settings) { s.timeout = d }
}

// WithRetryWait sets the pause before the single retry.
func WithRetryWait(d time.Duration) Option {
	return func(_ *Client, s *settings) { s.retryWait = d }
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(_ *Client, s *settings) { s.httpClient = hc }
}

// New creates a gateway for the API rooted at baseURL (e.g. http://localhost:8080/api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		logger:   zap.NewNop(),
		validate: validator.New(),
	}
	set := settings{timeout: DefaultTimeout, retryWait: defaultRetryWait}
	for _, opt := range opts {
		opt(c, &set)
	}
	c.http = newResty(baseURL, set)
	c.http.SetLogger(c.logger.Sugar())
	return c
}

func newResty(baseURL string, set settings) *resty.Client {
	rc := resty.New()
	if set.httpClient != nil {
		rc = resty.NewWithClient(set.httpClient)
	}
	return rc.
		SetBaseURL(baseURL).
		SetTimeout(set.timeout).
		SetRetryCount(1).
		SetRetryWaitTime(set.retryWait).
		SetRetryMaxWaitTime(set.retryWait).
		AddRetryCondition(retryTransportGET).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			r.SetHeader("X-Request-ID", uuid.New().String())
			return nil
		})
}

// retryTransportGET retries idempotent reads that failed before a response arrived.
func retryTransportGET(resp *resty.Response, err error) bool {
	if err == nil || resp == nil || resp.Request == nil {
		return false
	}
	return resp.Request.Method == http.MethodGet
}

type call struct {
	resource string
	method   string
	path     string
	query    map[string]string
	body     any
	accept   string
}

// do executes the call and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	start := time.Now()

	req := c.http.R().SetContext(ctx)
	if cl.query != nil {
		req.SetQueryParams(cl.query)
	}
	if cl.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(cl.body)
	}
	if cl.accept != "" {
		req.SetHeader("Accept", cl.accept)
	}

	resp, err := req.Execute(cl.method, cl.path)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		c.metrics.observe(cl.resource, cl.method, "transport_error", elapsed)
		c.logger.Warn("api request failed",
			zap.String("method", cl.method),
			zap.String("path", cl.path),
			zap.Error(err),
		)
		return nil, &Error{Kind: KindTransport, Method: cl.method, Path: cl.path, Message: err.Error(), Err: err}
	}

	if !resp.IsSuccess() {
		kind := KindStatus
		if resp.StatusCode() == http.StatusNotFound {
			kind = KindNotFound
		}
		c.metrics.observe(cl.resource, cl.method, kind.String(), elapsed)
		c.logger.Warn("api returned error status",
			zap.String("method", cl.method),
			zap.String("path", cl.path),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, &Error{
			Kind:    kind,
			Method:  cl.method,
			Path:    cl.path,
			Status:  resp.StatusCode(),
			Message: serverMessage(resp.Body()),
		}
	}

	c.metrics.observe(cl.resource, cl.method, "ok", elapsed)
	c.logger.Debug("api request",
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.Int("status_code", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp.Body(), nil
}

// doJSON executes the call and decodes a JSON body into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, cl call, out any) error {
	body, err := c.do(ctx, cl)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{
			Kind:    KindMalformed,
			Method:  cl.method,
			Path:    cl.path,
			Message: fmt.Sprintf("failed to decode response: %v", err),
			Err:     err,
		}
	}
	return nil
}
