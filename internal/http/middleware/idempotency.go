// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for the POST endpoints that write
// money or shop-visit records (crear-factura, ingresos). It validates the
// Idempotency-Key request header, optionally consults a persistence-backed
// lookup to detect a previously completed request, and annotates the request
// context so downstream handlers can read the key (GetIdempotencyKey), detect
// replays (IsReplay), and the rate limiter can wave replays through.
//
// The middleware never serves a cached payload itself; handlers stay in
// control of how a replay is answered.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header clients use to convey an
// idempotency key for unsafe operations. The value must be stable per
// semantic operation so retries deduplicate.
const HeaderIdempotencyKey = "Idempotency-Key"

// Context keys used to stash idempotency state; accessed via the helpers.
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

// GetIdempotencyKey returns the validated idempotency key stored in the Gin
// context by IdempotencyValidator. The second return value is presence.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the middleware detected a previously completed
// operation for this key.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures header validation. TTL enforcement belongs
// in the lookup, not here.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters; defaults to a conservative
	// token pattern: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
}

// IdempotencyLookup answers whether a successful, still-valid record exists
// for (userID, scope, key) at the given time. Scope names the operation
// family ("crear-factura", "ingresos") so the same key can be reused across
// different endpoints without colliding.
type IdempotencyLookup func(ctx context.Context, userID, scope, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator validates the Idempotency-Key header when present,
// stashes it in the context, and marks replay + rate-bypass when the lookup
// finds a prior completed request in the given scope. Absent header: no-op.
// Invalid header: 400.
func IdempotencyValidator(scope string, opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "bad_idempotency_key",
				"message": "invalid Idempotency-Key",
			})
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			now := time.Now().UTC()
			if exists, _ := lookup(c.Request.Context(), clientIdentity(c), scope, key, now); exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}

// clientIdentity scopes idempotency records per caller. Without
// authentication the client IP is the only identity available.
func clientIdentity(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}
