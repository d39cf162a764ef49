package cors

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Options configures the CORS middleware. Zero values fall back to what the
// timetable UI needs.
type Options struct {
	AllowedOrigins []string
	AllowedHeaders []string
	AllowedMethods []string
	ExposedHeaders []string
	MaxAge         time.Duration
}

var (
	defaultHeaders = []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID", "X-Session-Token"}
	defaultMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	defaultExposed = []string{"X-Request-ID", "Content-Disposition"}
)

// New returns a CORS middleware restricted to allowedOrigins. An empty list
// allows every origin.
func New(allowedOrigins []string) gin.HandlerFunc {
	return WithOptions(Options{AllowedOrigins: allowedOrigins})
}

// WithOptions builds the middleware from explicit options.
func WithOptions(opts Options) gin.HandlerFunc {
	policy := newPolicy(opts)

	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Add("Vary", "Origin")

		if allowed, ok := policy.allowOrigin(c.GetHeader("Origin")); ok {
			header.Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				header.Set("Access-Control-Allow-Credentials", "true")
			}
		}
		header.Set("Access-Control-Expose-Headers", policy.exposed)

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}

		header.Set("Access-Control-Allow-Headers", policy.headers)
		header.Set("Access-Control-Allow-Methods", policy.methods)
		header.Set("Access-Control-Max-Age", policy.maxAge)
		c.AbortWithStatus(http.StatusNoContent)
	}
}

type policy struct {
	origins map[string]struct{}
	headers string
	methods string
	exposed string
	maxAge  string
}

func newPolicy(opts Options) policy {
	p := policy{
		headers: strings.Join(orDefault(opts.AllowedHeaders, defaultHeaders), ", "),
		methods: strings.Join(orDefault(opts.AllowedMethods, defaultMethods), ", "),
		exposed: strings.Join(orDefault(opts.ExposedHeaders, defaultExposed), ", "),
		maxAge:  "600",
	}
	if opts.MaxAge > 0 {
		p.maxAge = strconv.Itoa(int(opts.MaxAge / time.Second))
	}
	if len(opts.AllowedOrigins) > 0 {
		p.origins = make(map[string]struct{}, len(opts.AllowedOrigins))
		for _, origin := range opts.AllowedOrigins {
			p.origins[normalizeOrigin(origin)] = struct{}{}
		}
	}
	return p
}

// allowOrigin returns the value for Access-Control-Allow-Origin, or false when
// the origin is not permitted.
func (p policy) allowOrigin(origin string) (string, bool) {
	if p.origins == nil {
		if origin == "" {
			return "*", true
		}
		return origin, true
	}
	if origin == "" {
		return "", false
	}
	if _, ok := p.origins[normalizeOrigin(origin)]; ok {
		return origin, true
	}
	return "", false
}

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}
