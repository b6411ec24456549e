package blocks

import (
	"strconv"
	"strings"

	"block-builder-backend/internal/models"
)

type declaration struct {
	property string
	value    string
}

type cssRule struct {
	selector     string
	declarations []declaration
}

func px(value float64) string {
	return formatNumber(value) + "px"
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// scoped prefixes every selector with the block class.
func scoped(blockID string, selectors ...string) string {
	if len(selectors) == 0 {
		return "." + blockID
	}
	parts := make([]string, len(selectors))
	for i, selector := range selectors {
		parts[i] = "." + blockID + " " + selector
	}
	return strings.Join(parts, ", ")
}

func writeRule(sb *strings.Builder, indent string, rule cssRule) {
	sb.WriteString(indent + rule.selector + " {\n")
	for _, decl := range rule.declarations {
		sb.WriteString(indent + "  " + decl.property + ": " + decl.value + ";\n")
	}
	sb.WriteString(indent + "}\n")
}

// SynthesizeStyle builds the scoped, unminified stylesheet for a block.
func SynthesizeStyle(blockID string, cfg *models.BlockConfigData) string {
	colors := cfg.Colors
	typography := cfg.Typography
	spacing := cfg.Spacing
	effects := cfg.Effects

	background := colors.Background
	if colors.BackgroundGradient != "" {
		background = colors.BackgroundGradient
	}

	rules := []cssRule{
		{
			selector: scoped(blockID),
			declarations: []declaration{
				{"--primary-color", colors.TextPrimary},
				{"--secondary-color", colors.TextSecondary},
				{"--accent-color", colors.AccentColor},
				{"--bg-color", colors.Background},
				{"--border-color", colors.BorderColor},
				{"--font-family", typography.FontFamily},
				{"--title-size", px(typography.TitleSize)},
				{"--subtitle-size", px(typography.SubtitleSize)},
				{"--body-size", px(typography.BodySize)},
				{"--line-height", formatNumber(typography.LineHeight)},
				{"--padding", px(spacing.Padding)},
				{"--margin", px(spacing.Margin)},
				{"--border-radius", px(spacing.BorderRadius)},
				{"--gap", px(spacing.Gap)},
				{"--shadow", effects.Shadow},
				{"--opacity", formatNumber(effects.Opacity)},
				{"--border-width", px(effects.BorderWidth)},
				{"font-family", "var(--font-family)"},
				{"background", background},
				{"color", "var(--primary-color)"},
				{"padding", "var(--padding)"},
				{"margin", "var(--margin)"},
				{"border-radius", "var(--border-radius)"},
				{"box-shadow", "var(--shadow)"},
				{"opacity", "var(--opacity)"},
			},
		},
		{
			selector: scoped(blockID, "h1", "h2", "h3"),
			declarations: []declaration{
				{"font-size", "var(--title-size)"},
				{"color", "var(--primary-color)"},
				{"margin-bottom", "var(--gap)"},
			},
		},
		{
			selector: scoped(blockID, "h2"),
			declarations: []declaration{
				{"font-size", "var(--subtitle-size)"},
			},
		},
		{
			selector: scoped(blockID, "p", "span"),
			declarations: []declaration{
				{"font-size", "var(--body-size)"},
				{"line-height", "var(--line-height)"},
				{"color", "var(--secondary-color)"},
			},
		},
		{
			selector: scoped(blockID, ".item"),
			declarations: []declaration{
				{"display", "flex"},
				{"align-items", "center"},
				{"gap", "var(--gap)"},
				{"margin-bottom", "var(--gap)"},
			},
		},
		{
			selector: scoped(blockID, ".item-icon"),
			declarations: []declaration{
				{"color", "var(--accent-color)"},
				{"flex-shrink", "0"},
			},
		},
		{
			selector: scoped(blockID, "button"),
			declarations: []declaration{
				{"background-color", "var(--accent-color)"},
				{"color", "white"},
				{"border", "var(--border-width) solid var(--accent-color)"},
				{"border-radius", "var(--border-radius)"},
				{"padding", "var(--padding)"},
				{"cursor", "pointer"},
				{"font-family", "var(--font-family)"},
				{"font-size", "var(--body-size)"},
				{"transition", "all 0.3s ease"},
			},
		},
		{
			selector: scoped(blockID, "button:hover"),
			declarations: []declaration{
				{"opacity", "0.9"},
				{"transform", "translateY(-2px)"},
			},
		},
		{
			selector: scoped(blockID, ".list"),
			declarations: []declaration{
				{"list-style", "none"},
				{"padding", "0"},
				{"margin", "0"},
			},
		},
		{
			selector: scoped(blockID, ".list li"),
			declarations: []declaration{
				{"display", "flex"},
				{"align-items", "center"},
				{"gap", "var(--gap)"},
				{"margin-bottom", "var(--gap)"},
			},
		},
	}

	if override, ok := buttonOverrideRule(blockID, cfg.Content.Button); ok {
		rules = append(rules, override)
	}

	var sb strings.Builder
	for _, rule := range rules {
		writeRule(&sb, "", rule)
		sb.WriteString("\n")
	}

	sb.WriteString("@media (max-width: 768px) {\n")
	writeRule(&sb, "  ", cssRule{
		selector:     scoped(blockID),
		declarations: []declaration{{"padding", "calc(var(--padding) * 0.75)"}},
	})
	sb.WriteString("\n")
	writeRule(&sb, "  ", cssRule{
		selector:     scoped(blockID, "h1", "h2", "h3"),
		declarations: []declaration{{"font-size", "calc(var(--title-size) * 0.85)"}},
	})
	sb.WriteString("}\n")

	return strings.TrimSpace(sb.String())
}

// buttonOverrideRule emits the per-button declarations that differ from the block defaults.
func buttonOverrideRule(blockID string, button *models.BlockButton) (cssRule, bool) {
	if !button.HasStyleOverrides() {
		return cssRule{}, false
	}

	var decls []declaration
	if button.BackgroundColor != nil {
		decls = append(decls, declaration{"background-color", *button.BackgroundColor})
	}
	if button.Color != nil {
		decls = append(decls, declaration{"color", *button.Color})
	}
	if button.BorderColor != nil {
		decls = append(decls, declaration{"border-color", *button.BorderColor})
	}
	if button.BorderRadius != nil {
		decls = append(decls, declaration{"border-radius", px(*button.BorderRadius)})
	}
	if button.Padding != nil {
		decls = append(decls, declaration{"padding", px(*button.Padding) + " var(--padding)"})
	}

	return cssRule{selector: scoped(blockID, "button"), declarations: decls}, true
}
