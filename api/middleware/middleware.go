/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package middleware
import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jerry-enebeli/caixa/config"
)

// SecretKeyHeader carries the server secret when the server runs in secure
// mode. "Authorization: Bearer <secret>" is accepted as well.
const SecretKeyHeader = "X-Caixa-Key"

// HealthPath answers load balancer checks and is never limited or
// authenticated.
const HealthPath = "/"

const defaultLimiterTTL = time.Hour

// abort writes the same {"error", "code"} body the API handlers use.
func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}

func exempt(c *gin.Context) bool {
	return c.Request.URL.Path == HealthPath
}

// RateLimitMiddleware limits each client address to the configured rate.
// With no rate or burst configured every request passes.
func RateLimitMiddleware(conf *config.Configuration) gin.HandlerFunc {
	rl := conf.RateLimit
	if rl.RequestsPerSecond == nil || rl.Burst == nil {
		return func(c *gin.Context) { c.Next() }
	}

	ttl := defaultLimiterTTL
	if rl.CleanupIntervalSec != nil && *rl.CleanupIntervalSec > 0 {
		ttl = time.Duration(*rl.CleanupIntervalSec) * time.Second
	}
	lmt := tollbooth.NewLimiter(*rl.RequestsPerSecond, &limiter.ExpirableOptions{DefaultExpirationTTL: ttl})
	lmt.SetBurst(*rl.Burst)

	return func(c *gin.Context) {
		if exempt(c) {
			c.Next()
			return
		}
		client := c.ClientIP()
		if httpErr := tollbooth.LimitByKeys(lmt, []string{client}); httpErr != nil {
			logrus.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"client": client,
			}).Warn("request rate limited")
			c.Header("Retry-After", "1")
			abort(c, httpErr.StatusCode, "RATE_LIMITED", "too many requests, slow down")
			return
		}
		c.Next()
	}
}

// SecretKeyAuthMiddleware rejects requests that do not present the server
// secret. A secure server without a secret refuses everything.
func SecretKeyAuthMiddleware(conf *config.Configuration) gin.HandlerFunc {
	secret := conf.Server.SecretKey
	if secret == "" {
		logrus.Error("secure mode is on but server.secret_key is empty; every request will be refused")
	}

	return func(c *gin.Context) {
		if exempt(c) {
			c.Next()
			return
		}
		if secret == "" {
			abort(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "secret key is not configured")
			return
		}
		presented := presentedKey(c)
		if presented == "" {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing secret key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(secret), []byte(presented)) != 1 {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid secret key")
			return
		}
		c.Next()
	}
}

func presentedKey(c *gin.Context) string {
	if key := c.GetHeader(SecretKeyHeader); key != "" {
		return key
	}
	auth := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
