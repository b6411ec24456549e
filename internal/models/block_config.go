package models

import (
	"time"

	"gorm.io/datatypes"
)

// TemplateType selects the markup archetype a configuration is rendered into.
type TemplateType string

const (
	TemplatePricingCard TemplateType = "pricing_card"
	TemplateFeatureList TemplateType = "feature_list"
	TemplateHeroSection TemplateType = "hero_section"
	TemplateTestimonial TemplateType = "testimonial"
	TemplateCTASection  TemplateType = "cta_section"
	TemplateTeamMember  TemplateType = "team_member"
	TemplateServiceCard TemplateType = "service_card"
	TemplateCustom      TemplateType = "custom"
)

// TemplateTypes lists the closed set of template types in display order.
func TemplateTypes() []TemplateType {
	return []TemplateType{
		TemplatePricingCard,
		TemplateFeatureList,
		TemplateHeroSection,
		TemplateTestimonial,
		TemplateCTASection,
		TemplateTeamMember,
		TemplateServiceCard,
		TemplateCustom,
	}
}

func (t TemplateType) IsValid() bool {
	for _, known := range TemplateTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// BlockConfigData is the flat block configuration consumed by the code generator.
type BlockConfigData struct {
	Title       string              `json:"title" binding:"max=500"`
	Subtitle    string              `json:"subtitle,omitempty" binding:"max=500"`
	Description string              `json:"description,omitempty" binding:"max=5000"`
	Colors      BlockColors         `json:"colors"`
	Typography  BlockTypography     `json:"typography"`
	Spacing     BlockSpacing        `json:"spacing"`
	Effects     BlockEffects        `json:"effects"`
	Content     BlockContent        `json:"content"`
	Responsive  *ResponsiveSettings `json:"responsive,omitempty"`
}

type BlockColors struct {
	Background         string `json:"background" binding:"required,css_value"`
	BackgroundGradient string `json:"backgroundGradient,omitempty" binding:"omitempty,css_value"`
	TextPrimary        string `json:"textPrimary" binding:"required,css_value"`
	TextSecondary      string `json:"textSecondary" binding:"required,css_value"`
	AccentColor        string `json:"accentColor" binding:"required,css_value"`
	BorderColor        string `json:"borderColor" binding:"required,css_value"`
}

// BlockTypography sizes are pixel magnitudes, LineHeight is a unitless ratio.
type BlockTypography struct {
	FontFamily   string  `json:"fontFamily" binding:"required,css_value"`
	TitleSize    float64 `json:"titleSize" binding:"gte=0"`
	SubtitleSize float64 `json:"subtitleSize" binding:"gte=0"`
	BodySize     float64 `json:"bodySize" binding:"gte=0"`
	LineHeight   float64 `json:"lineHeight" binding:"gte=0"`
}

type BlockSpacing struct {
	Padding      float64 `json:"padding" binding:"gte=0"`
	Margin       float64 `json:"margin"`
	BorderRadius float64 `json:"borderRadius" binding:"gte=0"`
	Gap          float64 `json:"gap" binding:"gte=0"`
}

// BlockEffects.Shadow is a raw box-shadow value or "none".
type BlockEffects struct {
	Shadow      string  `json:"shadow" binding:"required,css_value"`
	Opacity     float64 `json:"opacity" binding:"gte=0,lte=1"`
	BorderWidth float64 `json:"borderWidth" binding:"gte=0"`
}

type BlockContent struct {
	Items  []BlockItem  `json:"items" binding:"max=100,dive"`
	Button *BlockButton `json:"button,omitempty"`
}

type BlockItemType string

const (
	BlockItemText BlockItemType = "text"
	BlockItemStat BlockItemType = "stat"
	BlockItemIcon BlockItemType = "icon"
)

// BlockItem.Icon is a bare icon keyword such as "check"; only the first child is ever rendered.
type BlockItem struct {
	ID       string        `json:"id" binding:"max=64"`
	Type     BlockItemType `json:"type,omitempty" binding:"omitempty,oneof=text stat icon"`
	Content  string        `json:"content" binding:"max=2000"`
	Icon     string        `json:"icon,omitempty" binding:"omitempty,icon_name"`
	Children []BlockItem   `json:"children,omitempty" binding:"omitempty,max=20,dive"`
}

// FirstChildContent returns the content of the first nested item, if any.
func (i BlockItem) FirstChildContent() string {
	if len(i.Children) == 0 {
		return ""
	}
	return i.Children[0].Content
}

type BlockButton struct {
	Text            string   `json:"text" binding:"required,max=200"`
	Color           *string  `json:"color,omitempty" binding:"omitempty,css_value"`
	BackgroundColor *string  `json:"backgroundColor,omitempty" binding:"omitempty,css_value"`
	BorderColor     *string  `json:"borderColor,omitempty" binding:"omitempty,css_value"`
	BorderRadius    *float64 `json:"borderRadius,omitempty" binding:"omitempty,gte=0"`
	Padding         *float64 `json:"padding,omitempty" binding:"omitempty,gte=0"`
}

// HasStyleOverrides reports whether any button style differs from the block defaults.
func (b *BlockButton) HasStyleOverrides() bool {
	if b == nil {
		return false
	}
	return b.Color != nil || b.BackgroundColor != nil || b.BorderColor != nil ||
		b.BorderRadius != nil || b.Padding != nil
}

// ResponsiveSettings is only consumed by the editing UI.
type ResponsiveSettings struct {
	MobileView  bool `json:"mobileView"`
	TabletView  bool `json:"tabletView"`
	DesktopView bool `json:"desktopView"`
}

// BlockConfig is a stored block configuration owned by a user.
type BlockConfig struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID        uint                                `gorm:"not null;index" json:"userId"`
	Name          string                              `gorm:"type:varchar(255);not null" json:"name"`
	Description   string                              `gorm:"type:text" json:"description"`
	TemplateType  TemplateType                        `gorm:"type:varchar(32);not null;default:'custom'" json:"templateType"`
	Config        datatypes.JSONType[BlockConfigData] `gorm:"not null" json:"config"`
	GeneratedHTML string                              `gorm:"column:generated_html;type:text" json:"generatedHtml"`
	GeneratedCSS  string                              `gorm:"column:generated_css;type:text" json:"generatedCss"`
	IsPublic      bool                                `gorm:"default:false" json:"isPublic"`
}

type CreateBlockConfigRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=255,no_html"`
	Description   string          `json:"description" binding:"max=5000"`
	TemplateType  TemplateType    `json:"templateType" binding:"required,template_type"`
	Config        BlockConfigData `json:"config"`
	GeneratedHTML *string         `json:"generatedHtml,omitempty"`
	GeneratedCSS  *string         `json:"generatedCss,omitempty"`
	IsPublic      bool            `json:"isPublic"`
}

// UpdateBlockConfigRequest is a partial update; nil fields are left untouched.
type UpdateBlockConfigRequest struct {
	Name          *string          `json:"name,omitempty" binding:"omitempty,min=1,max=255,no_html"`
	Description   *string          `json:"description,omitempty" binding:"omitempty,max=5000"`
	TemplateType  *TemplateType    `json:"templateType,omitempty" binding:"omitempty,template_type"`
	Config        *BlockConfigData `json:"config,omitempty"`
	GeneratedHTML *string          `json:"generatedHtml,omitempty"`
	GeneratedCSS  *string          `json:"generatedCss,omitempty"`
	IsPublic      *bool            `json:"isPublic,omitempty"`
}

// GenerateCodeRequest carries a free-form template type; unknown values fall back to custom.
type GenerateCodeRequest struct {
	Config       BlockConfigData `json:"config"`
	TemplateType string          `json:"templateType" binding:"max=64"`
}

type GeneratedCode struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}
