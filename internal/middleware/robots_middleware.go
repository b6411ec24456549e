package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const apiRobotsDirectives = "noindex, nofollow, noarchive"

// RobotsTagMiddleware marks API responses as not indexable. Blank directives are
// dropped; with none left the API default is used.
func RobotsTagMiddleware(directives ...string) gin.HandlerFunc {
	cleaned := make([]string, 0, len(directives))
	for _, directive := range directives {
		if directive = strings.TrimSpace(directive); directive != "" {
			cleaned = append(cleaned, directive)
		}
	}

	value := apiRobotsDirectives
	if len(cleaned) > 0 {
		value = strings.Join(cleaned, ", ")
	}

	return func(c *gin.Context) {
		c.Header("X-Robots-Tag", value)
		c.Next()
	}
}
