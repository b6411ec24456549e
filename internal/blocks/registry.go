package blocks

import (
	"fmt"
	"strings"
	"sync"

	"block-builder-backend/internal/models"
)

// Slot renders one optional part of a template. An empty result emits nothing.
type Slot func(ctx RenderContext, cfg *models.BlockConfigData) string

// TemplateMetadata describes a template type for discovery endpoints.
type TemplateMetadata struct {
	Type        models.TemplateType `json:"type"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Icon        string              `json:"icon,omitempty"`
}

// TemplateDescriptor is the declarative form of one markup archetype: an optional
// inner wrapper class and the ordered slots rendered inside it.
type TemplateDescriptor struct {
	Metadata     TemplateMetadata
	WrapperClass string
	Slots        []Slot
}

// Render assembles the descriptor's slots inside the scoping element.
func (d *TemplateDescriptor) Render(ctx RenderContext, blockID string, cfg *models.BlockConfigData) string {
	var sb strings.Builder
	sb.WriteString(`<div class="` + blockID + `">`)
	if d.WrapperClass != "" {
		sb.WriteString(`<div class="` + d.WrapperClass + `">`)
	}
	for _, slot := range d.Slots {
		sb.WriteString(slot(ctx, cfg))
	}
	if d.WrapperClass != "" {
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// Registry stores the mapping between template types and their descriptors.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[models.TemplateType]*TemplateDescriptor
	order       []models.TemplateType
	fallback    models.TemplateType
}

// NewRegistry creates an empty registry falling back to the custom template.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[models.TemplateType]*TemplateDescriptor),
		fallback:    models.TemplateCustom,
	}
}

func normalizeTemplateType(value string) models.TemplateType {
	return models.TemplateType(strings.TrimSpace(strings.ToLower(value)))
}

// Register associates a descriptor with its template type. It returns an error when the input is invalid.
func (r *Registry) Register(desc *TemplateDescriptor) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if desc == nil {
		return fmt.Errorf("descriptor is nil")
	}

	templateType := normalizeTemplateType(string(desc.Metadata.Type))
	if templateType == "" {
		return fmt.Errorf("template type is empty")
	}
	if len(desc.Slots) == 0 {
		return fmt.Errorf("template %s has no slots", templateType)
	}
	desc.Metadata.Type = templateType

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descriptors[templateType]; !exists {
		r.order = append(r.order, templateType)
	}
	r.descriptors[templateType] = desc
	return nil
}

// MustRegister registers the descriptor and panics if registration fails.
func (r *Registry) MustRegister(desc *TemplateDescriptor) {
	if err := r.Register(desc); err != nil {
		panic(err)
	}
}

// Get retrieves the descriptor registered for the template type, if any.
// The type must match a registered key exactly.
func (r *Registry) Get(templateType string) (*TemplateDescriptor, bool) {
	if r == nil {
		return nil, false
	}

	key := models.TemplateType(templateType)
	if key == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.descriptors[key]
	return desc, ok
}

// Lookup returns the descriptor for the template type, falling back to the
// custom template for any value that is not an exact registered key. The boolean reports whether the
// requested type was matched exactly.
func (r *Registry) Lookup(templateType string) (*TemplateDescriptor, bool) {
	if desc, ok := r.Get(templateType); ok {
		return desc, true
	}
	desc, _ := r.Get(string(r.fallback))
	return desc, false
}

// ListMetadata returns metadata for all registered templates in registration order.
func (r *Registry) ListMetadata() []TemplateMetadata {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]TemplateMetadata, 0, len(r.order))
	for _, key := range r.order {
		result = append(result, r.descriptors[key].Metadata)
	}
	return result
}
