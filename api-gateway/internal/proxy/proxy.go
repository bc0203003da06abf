// Package proxy forwards HTTP requests to an upstream service unchanged.
package proxy

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
)

// hopHeaders are connection-scoped and never forwarded.
var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade",
}

type Proxy struct {
	name        string
	target      string
	stripPrefix string
	client      *http.Client
	log         zerolog.Logger
}

// New proxies to the service called name at target, removing stripPrefix
// from the request path first.
func New(name, target, stripPrefix string, timeout time.Duration, log zerolog.Logger) *Proxy {
	return &Proxy{
		name:        name,
		target:      strings.TrimSuffix(target, "/"),
		stripPrefix: stripPrefix,
		client:      &http.Client{Timeout: timeout},
		log:         log.With().Str("component", "proxy").Str("target", target).Logger(),
	}
}

func (p *Proxy) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		targetURL := p.target + strings.TrimPrefix(c.Request.URL.Path, p.stripPrefix)
		if c.Request.URL.RawQuery != "" {
			targetURL += "?" + c.Request.URL.RawQuery
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, bytes.NewReader(bodyBytes))
		if err != nil {
			middleware.RespondWithError(c, apperr.Internal(err))
			return
		}
		req.Header = c.Request.Header.Clone()
		for _, h := range hopHeaders {
			req.Header.Del(h)
		}
		if rid := c.Writer.Header().Get("X-Request-ID"); rid != "" {
			req.Header.Set("X-Request-ID", rid)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			p.log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("upstream request failed")
			middleware.RespondWithError(c, apperr.ServiceUnavailable(p.name+" service unavailable").WithCause(err))
			return
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			middleware.RespondWithError(c, apperr.ServiceUnavailable("Failed to read upstream response").WithCause(err))
			return
		}

		for key, values := range resp.Header {
			if key == "Content-Length" || isHop(key) {
				continue
			}
			for _, value := range values {
				c.Writer.Header().Add(key, value)
			}
		}
		c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), respBody)
	}
}

func isHop(key string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(h, key) {
			return true
		}
	}
	return false
}
