package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultTake = 10
	MaxTake     = 100
)

// Pagination reads ?skip= and ?take=. Missing or malformed values fall back
// to 0 and DefaultTake; take is capped at MaxTake.
func Pagination(c *gin.Context) (skip, take int) {
	return ClampPage(atoi(c.Query("skip"), 0), atoi(c.Query("take"), DefaultTake))
}

// ClampPage normalizes a requested page window.
func ClampPage(skip, take int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if take <= 0 {
		take = DefaultTake
	}
	if take > MaxTake {
		take = MaxTake
	}
	return skip, take
}

func atoi(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
