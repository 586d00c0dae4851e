package middleware

// identity.go holds small helpers shared by the cache and rate-limit
// middleware for keying requests per user.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// userID returns a stable identifier for the requester: the JWT subject
// when JWTAuth ran earlier in the chain, "guest" otherwise.  Cache and
// rate-limit keys use it so authenticated users do not share buckets
// with anonymous traffic.
func userID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "guest"
	}
	switch id := v.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64: // jwt.MapClaims decodes numbers as float64
		return fmt.Sprintf("%.0f", id)
	case uint64:
		return fmt.Sprintf("%d", id)
	}
	return "guest"
}
