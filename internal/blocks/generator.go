package blocks

import (
	"strconv"
	"time"

	"block-builder-backend/internal/models"
)

const blockIDPrefix = "block-"

// Generator turns block configurations into minified, class-scoped HTML and CSS.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	registry *Registry
	ctx      RenderContext
	now      func() time.Time
}

type Option func(*Generator)

// WithRegistry replaces the built-in template registry.
func WithRegistry(reg *Registry) Option {
	return func(g *Generator) {
		if reg != nil {
			g.registry = reg
		}
	}
}

// WithRenderContext replaces the sanitizing render context.
func WithRenderContext(ctx RenderContext) Option {
	return func(g *Generator) {
		if ctx != nil {
			g.ctx = ctx
		}
	}
}

// WithClock replaces the time source used for scoping ids.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		registry: DefaultRegistry(),
		ctx:      DefaultRenderContext(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Registry exposes the template registry backing the generator.
func (g *Generator) Registry() *Registry {
	return g.registry
}

// BlockID returns the scoping class name for the given instant.
func BlockID(t time.Time) string {
	return blockIDPrefix + strconv.FormatInt(t.UnixMilli(), 10)
}

// BuildHTML renders the unminified markup for the template type, falling back to custom.
func (g *Generator) BuildHTML(blockID string, cfg *models.BlockConfigData, templateType string) string {
	desc, _ := g.registry.Lookup(templateType)
	if desc == nil {
		return `<div class="` + blockID + `"></div>`
	}
	return desc.Render(g.ctx, blockID, cfg)
}

// Generate produces the minified HTML and CSS for a configuration.
func (g *Generator) Generate(cfg models.BlockConfigData, templateType string) models.GeneratedCode {
	blockID := BlockID(g.now())

	css := SynthesizeStyle(blockID, &cfg)
	html := g.BuildHTML(blockID, &cfg, templateType)

	return models.GeneratedCode{
		HTML: MinifyHTML(html),
		CSS:  MinifyCSS(css),
	}
}

var defaultGenerator = NewGenerator()

// GenerateBlockCode renders a configuration with the built-in templates.
func GenerateBlockCode(cfg models.BlockConfigData, templateType string) models.GeneratedCode {
	return defaultGenerator.Generate(cfg, templateType)
}
