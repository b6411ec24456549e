package blocks

import "block-builder-backend/internal/models"

// DefaultRegistry returns a registry pre-populated with the built-in templates.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	RegisterDefaults(reg)
	return reg
}

// RegisterDefaults adds the eight built-in templates to the provided registry.
func RegisterDefaults(reg *Registry) {
	if reg == nil {
		return
	}
	for _, desc := range defaultTemplates() {
		reg.MustRegister(desc)
	}
}

func defaultTemplates() []*TemplateDescriptor {
	return []*TemplateDescriptor{
		{
			Metadata: TemplateMetadata{
				Type:        models.TemplatePricingCard,
				Name:        "Pricing Card",
				Description: "Plan title, price line, feature list and purchase button",
				Category:    "commerce",
				Icon:        "tag",
			},
			WrapperClass: "pricing-card",
			Slots: []Slot{
				headingSlot("h2"),
				paragraphSlot("subtitle", subtitleField),
				paragraphSlot("description", descriptionField),
				listSlot,
				buttonSlot,
			},
		},
		{
			Metadata: TemplateMetadata{
				Type:        models.TemplateFeatureList,
				Name:        "Feature List",
				Description: "Heading followed by features with optional secondary lines",
				Category:    "content",
				Icon:        "list-check",
			},
			Slots: []Slot{
				headingSlot("h2"),
				featureListSlot,
			},
		},
		{
			Metadata: TemplateMetadata{
				Type:        models.TemplateHeroSection,
				Name:        "Hero Section",
				Description: "Large headline with supporting copy and a call to action",
				Category:    "marketing",
				Icon:        "star",
			},
			WrapperClass: "hero-content",
			Slots: []Slot{
				headingSlot("h1"),
				paragraphSlot("subtitle", subtitleField),
				paragraphSlot("description", descriptionField),
				buttonSlot,
			},
		},
		{
			Metadata: TemplateMetadata{
				Type:        models.TemplateTestimonial,
				Name:        "Testimonial",
				Description: "Quoted statement with author line and rating",
				Category:    "social-proof",
				Icon:        "quote-left",
			},
			WrapperClass: "testimonial",
			Slots: []Slot{
				quoteSlot,
				authorSlot,
				ratingSlot,
			},
		},
		{
			Metadata: TemplateMetadata{
				Type:        models.TemplateCTASection,
				Name:        "Call to Action",
				Description: "Section heading with supporting copy and a button",
				Category:    "marketing",
				Icon:        "bullhorn",
			},
			WrapperClass: "cta-section",
			Slots: []Slot{
				headingSlot("h2"),
				paragraphSlot("subtitle", subtitleField),
				paragraphSlot("description", descriptionField),
				buttonSlot,
			},
		},
		{
			Metadata: TemplateMetadata{
				Type:        models.TemplateTeamMember,
				Name:        "Team Member",
				Description: "Name, role and short bio",
				Category:    "people",
				Icon:        "user",
			},
			WrapperClass: "team-member",
			Slots: []Slot{
				headingSlot("h3"),
				paragraphSlot("role", subtitleField),
				paragraphSlot("bio", descriptionField),
			},
		},
		{
			Metadata: TemplateMetadata{
				Type:        models.TemplateServiceCard,
				Name:        "Service Card",
				Description: "Icon, service name and description",
				Category:    "content",
				Icon:        "briefcase",
			},
			WrapperClass: "service-card",
			Slots: []Slot{
				serviceIconSlot,
				headingSlot("h3"),
				paragraphSlot("", descriptionField),
			},
		},
		{
			Metadata: TemplateMetadata{
				Type:        models.TemplateCustom,
				Name:        "Custom",
				Description: "Heading, paragraph and icon list",
				Category:    "content",
				Icon:        "shapes",
			},
			Slots: []Slot{
				headingSlot("h2"),
				paragraphSlot("", descriptionField),
				listSlot,
			},
		},
	}
}
