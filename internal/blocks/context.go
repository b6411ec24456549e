package blocks

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// RenderContext exposes the minimal capabilities required by slot renderers.
type RenderContext interface {
	// SanitizeHTML cleans potentially unsafe markup before it is embedded.
	SanitizeHTML(input string) string
}

type policyContext struct {
	policy *bluemonday.Policy
}

// NewRenderContext returns a render context backed by the given bluemonday policy.
// A nil policy falls back to the UGC policy.
func NewRenderContext(policy *bluemonday.Policy) RenderContext {
	if policy == nil {
		policy = bluemonday.UGCPolicy()
	}
	return &policyContext{policy: policy}
}

func (c *policyContext) SanitizeHTML(input string) string {
	return c.policy.Sanitize(input)
}

var (
	defaultContextOnce sync.Once
	defaultContext     RenderContext
)

// DefaultRenderContext returns the shared UGC-policy render context.
func DefaultRenderContext() RenderContext {
	defaultContextOnce.Do(func() {
		defaultContext = NewRenderContext(nil)
	})
	return defaultContext
}

var iconInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)

// normalizeIcon reduces an icon keyword to the characters allowed in an icon-font class.
func normalizeIcon(icon string) string {
	return iconInvalidChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(icon)), "")
}

// hasText mirrors string truthiness: only the empty string is blank.
func hasText(value string) bool {
	return value != ""
}
