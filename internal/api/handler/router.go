package handler

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/freshmart-lab/commerce-core/pkg/response"
)

// RouterOptions carries the middleware knobs main reads from config.
type RouterOptions struct {
	ServiceName string
	RateLimit   float64 // requests/second, 0 disables the limiter
	RateBurst   int
	Tracing     bool
}

// NewRouter wires middlewares and the full route table.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	if opts.RateLimit > 0 {
		r.Use(rateLimiter(rate.Limit(opts.RateLimit), opts.RateBurst))
	}
	r.Use(sentryCapture())

	r.GET("/api/v1/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "up"})
	})

	v1 := r.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", h.CreateOrder)
			orders.GET("", h.ListOrders)
			orders.GET("/:id", h.GetOrder)
			orders.PATCH("/:id/status", h.UpdateOrderStatus)
			orders.DELETE("/:id", h.DeleteOrder)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/reports/sales", h.GenerateSalesReport)
			admin.POST("/forecasts", h.GenerateForecast)
			admin.POST("/sales-data/process", h.ProcessDailySalesData)
		}
	}
	return r
}

// rateLimiter applies a process-wide token bucket. Requests over the
// budget get 429 instead of queueing.
func rateLimiter(limit rate.Limit, burst int) gin.HandlerFunc {
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(limit, burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Response{
				Code:    http.StatusTooManyRequests,
				Message: "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// sentryCapture reports request errors to Sentry when a DSN was
// configured; with Sentry disabled CaptureException is a no-op.
func sentryCapture() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		for _, ginErr := range c.Errors {
			sentry.CaptureException(ginErr.Err)
		}
		if c.Writer.Status() >= http.StatusInternalServerError && len(c.Errors) == 0 {
			sentry.CaptureMessage("server error on " + c.FullPath())
		}
	}
}
