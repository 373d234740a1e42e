package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/freshmart-lab/commerce-core/pkg/logger"
)

// Options tunes the HTTP client. Zero values fall back to defaults
// suitable for an in-cluster catalog.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
}

// HTTPClient is the production Client backed by the catalog REST API.
type HTTPClient struct {
	rc *resty.Client
}

// NewHTTPClient builds a resty client with a per-call timeout and
// bounded retry. Retries fire only for transport failures and 5xx
// responses; a 404 is a definitive answer, not a transient one.
func NewHTTPClient(opts Options) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	if opts.RetryCount < 0 {
		opts.RetryCount = 0
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = 200 * time.Millisecond
	}

	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(opts.RetryWait * 8).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= http.StatusInternalServerError
		})

	return &HTTPClient{rc: rc}
}

// Resolve fetches the current product record. The error is one of
// ErrNotFound, ErrUnavailable, or a context error.
func (c *HTTPClient) Resolve(ctx context.Context, productID string) (*Product, error) {
	var product Product
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&product).
		Get("/api/products/" + productID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("catalog request failed", zap.String("product_id", productID), zap.Error(err))
		return nil, ErrUnavailable
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
		return &product, nil
	case resp.StatusCode() == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		logger.Warn("catalog returned unexpected status",
			zap.String("product_id", productID), zap.Int("status", resp.StatusCode()))
		return nil, ErrUnavailable
	}
}
