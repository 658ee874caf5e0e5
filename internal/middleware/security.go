package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Security sets standard hardening headers. The introspection server
// only ever returns JSON, so CSP is pared down to "default-src 'none'"
// rather than allowances meant for an HTML-serving API.
func Security() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Next()
	}
}

// RateLimit caps polling of the introspection server at 100 requests per
// client per minute, guarding against a misbehaving dashboard polling
// loop rather than hostile traffic (the server is meant to bind to
// loopback only).
func RateLimit() gin.HandlerFunc {
	clients := make(map[string][]time.Time)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		now := time.Now()

		if timestamps, exists := clients[clientIP]; exists {
			var kept []time.Time
			for _, ts := range timestamps {
				if now.Sub(ts) < time.Minute {
					kept = append(kept, ts)
				}
			}
			clients[clientIP] = kept
		}

		if len(clients[clientIP]) >= 100 {
			c.JSON(429, gin.H{
				"error":   "rate limit exceeded",
				"message": "too many requests, try again later",
			})
			c.Abort()
			return
		}

		clients[clientIP] = append(clients[clientIP], now)
		c.Next()
	}
}
