package blocks

import (
	"strings"

	"block-builder-backend/internal/models"
)

func titleField(cfg *models.BlockConfigData) string       { return cfg.Title }
func subtitleField(cfg *models.BlockConfigData) string    { return cfg.Subtitle }
func descriptionField(cfg *models.BlockConfigData) string { return cfg.Description }

func openTag(tag, class string) string {
	if class == "" {
		return "<" + tag + ">"
	}
	return "<" + tag + ` class="` + class + `">`
}

// textSlot wraps a text field in the given tag, omitting it when the field is blank.
func textSlot(tag, class string, field func(*models.BlockConfigData) string) Slot {
	return func(ctx RenderContext, cfg *models.BlockConfigData) string {
		value := field(cfg)
		if !hasText(value) {
			return ""
		}
		return openTag(tag, class) + ctx.SanitizeHTML(value) + "</" + tag + ">"
	}
}

func headingSlot(tag string) Slot {
	return textSlot(tag, "", titleField)
}

func paragraphSlot(class string, field func(*models.BlockConfigData) string) Slot {
	return textSlot("p", class, field)
}

func buttonSlot(ctx RenderContext, cfg *models.BlockConfigData) string {
	button := cfg.Content.Button
	if button == nil {
		return ""
	}
	return "<button>" + ctx.SanitizeHTML(button.Text) + "</button>"
}

func iconMarkup(icon string) string {
	icon = normalizeIcon(icon)
	if icon == "" {
		return ""
	}
	return `<i class="fas fa-` + icon + `"></i>`
}

func itemIcon(item models.BlockItem) string {
	markup := iconMarkup(item.Icon)
	if markup == "" {
		return ""
	}
	return `<span class="item-icon">` + markup + `</span>`
}

// listSlot renders content items as icon + text list entries.
func listSlot(ctx RenderContext, cfg *models.BlockConfigData) string {
	items := cfg.Content.Items
	if len(items) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<ul class="list">`)
	for _, item := range items {
		sb.WriteString(`<li class="item">`)
		sb.WriteString(itemIcon(item))
		if hasText(item.Content) {
			sb.WriteString("<span>" + ctx.SanitizeHTML(item.Content) + "</span>")
		}
		sb.WriteString(`</li>`)
	}
	sb.WriteString(`</ul>`)
	return sb.String()
}

// featureListSlot renders items with a strong label and the first child as a secondary line.
func featureListSlot(ctx RenderContext, cfg *models.BlockConfigData) string {
	items := cfg.Content.Items
	if len(items) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<ul class="list">`)
	for _, item := range items {
		sb.WriteString(`<li class="item">`)
		sb.WriteString(itemIcon(item))

		var body strings.Builder
		if hasText(item.Content) {
			body.WriteString("<strong>" + ctx.SanitizeHTML(item.Content) + "</strong>")
		}
		if child := item.FirstChildContent(); hasText(child) {
			body.WriteString("<p>" + ctx.SanitizeHTML(child) + "</p>")
		}
		if body.Len() > 0 {
			sb.WriteString("<div>" + body.String() + "</div>")
		}

		sb.WriteString(`</li>`)
	}
	sb.WriteString(`</ul>`)
	return sb.String()
}

func quoteSlot(ctx RenderContext, cfg *models.BlockConfigData) string {
	if !hasText(cfg.Description) {
		return ""
	}
	return `<p class="quote">"` + ctx.SanitizeHTML(cfg.Description) + `"</p>`
}

func authorSlot(ctx RenderContext, cfg *models.BlockConfigData) string {
	if !hasText(cfg.Title) {
		return ""
	}
	return `<p class="author">— ` + ctx.SanitizeHTML(cfg.Title) + `</p>`
}

// ratingSlot shows the first item's content as plain text; icons are ignored here.
// The container is emitted whenever there are items and pads its text with spaces.
func ratingSlot(ctx RenderContext, cfg *models.BlockConfigData) string {
	items := cfg.Content.Items
	if len(items) == 0 {
		return ""
	}
	return `<div class="rating"> ` + ctx.SanitizeHTML(items[0].Content) + ` </div>`
}

func serviceIconSlot(_ RenderContext, cfg *models.BlockConfigData) string {
	items := cfg.Content.Items
	if len(items) == 0 {
		return ""
	}
	markup := iconMarkup(items[0].Icon)
	if markup == "" {
		return ""
	}
	return `<div class="icon">` + markup + `</div>`
}
