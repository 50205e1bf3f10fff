package services

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/payment-router/internal/errs"
)

// HTTPClient is the transport collaborator. It accepts a transport-ready
// request and returns the raw status code and body, or an ApiClientError.
// Connection pooling, TLS and proxy settings are its responsibility; the
// executor never touches them. The client enforces the per-call timeout
// and surfaces it as a timeout-kind ApiClientError.
type HTTPClient interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// ClientConfig configures the production HTTP client.
type ClientConfig struct {
	Timeout  time.Duration
	ProxyURL string
}

const defaultClientTimeout = 10 * time.Second

// Client is the production HTTPClient backed by net/http.
type Client struct {
	inner  *http.Client
	logger *zap.Logger
}

// NewClient builds the transport client. A malformed proxy URL fails
// with InvalidProxyConfiguration.
func NewClient(cfg ClientConfig, logger *zap.Logger) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, errs.NewApiClientError(errs.InvalidProxyConfiguration, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &Client{
		inner:  &http.Client{Timeout: timeout, Transport: transport},
		logger: logger,
	}, nil
}

// Send dispatches the request and returns the raw response regardless of
// its status code. Network-level failures surface as typed
// ApiClientErrors; they never masquerade as connector outcomes.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, errs.NewApiClientError(errs.URLEncodingFailed, err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", string(req.ContentType))
	}

	httpResp, err := c.inner.Do(httpReq)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, errs.NewApiClientError(errs.RequestTimeoutReceived, err)
		}
		return nil, errs.NewApiClientError(errs.RequestNotSent, err)
	}
	defer httpResp.Body.Close()

	body, err := readAll(httpResp)
	if err != nil {
		return nil, errs.NewApiClientError(errs.ResponseDecodingFailed, err)
	}

	c.logger.Debug("connector response received",
		zap.String("url", req.URL),
		zap.Int("status", httpResp.StatusCode),
		zap.Int("body_bytes", len(body)),
	)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
	}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func readAll(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
