package formatter

import "fmt"

// Preset represents a template preset with name, template string, and description.
type Preset struct {
	Name        string
	Template    string
	Description string
}

// PresetRegistry manages template presets.
type PresetRegistry interface {
	// Get returns a preset by name.
	Get(name string) (*Preset, error)

	// List returns all available presets.
	List() []Preset

	// Register adds a new preset.
	Register(preset Preset) error
}

type presetRegistry struct {
	presets map[string]Preset
	order   []string
}

// NewPresetRegistry creates a new preset registry with all default presets.
func NewPresetRegistry() PresetRegistry {
	registry := &presetRegistry{presets: make(map[string]Preset)}
	for _, preset := range []Preset{
		{
			Name:        "compact",
			Template:    "[{{pending-count}}] {{latest-order}} {{latest-customer}}",
			Description: "Pending count and the newest order",
		},
		{
			Name:        "detailed",
			Template:    "{{total-count}} orders, {{pending-count}} pending, revenue {{revenue}} | Latest: {{latest-order}} {{latest-amount}}",
			Description: "Counts, revenue and the newest order",
		},
		{
			Name:        "json",
			Template:    `{"total":{{total-count}},"pending":{{pending-count}},"latest":"{{latest-order}}"}`,
			Description: "JSON for programmatic consumption",
		},
		{
			Name:        "count-only",
			Template:    "{{pending-count}}",
			Description: "Only the pending count",
		},
		{
			Name:        "pipeline",
			Template:    "P:{{placed-count}} C:{{confirmed-count}} S:{{shipped-count}} D:{{delivered-count}}",
			Description: "Orders per open lifecycle stage",
		},
		{
			Name:        "revenue",
			Template:    "{{revenue}} from {{total-count}} orders",
			Description: "Revenue of the order set",
		},
	} {
		_ = registry.Register(preset)
	}
	return registry
}

// Get returns a preset by name, or an error if not found.
func (pr *presetRegistry) Get(name string) (*Preset, error) {
	preset, ok := pr.presets[name]
	if !ok {
		return nil, fmt.Errorf("preset not found: %s", name)
	}
	return &preset, nil
}

// List returns all available presets in registration order.
func (pr *presetRegistry) List() []Preset {
	result := make([]Preset, 0, len(pr.order))
	for _, name := range pr.order {
		result = append(result, pr.presets[name])
	}
	return result
}

// Register adds a new preset or overwrites an existing one.
func (pr *presetRegistry) Register(preset Preset) error {
	if preset.Name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}
	if preset.Template == "" {
		return fmt.Errorf("preset template cannot be empty")
	}
	if _, exists := pr.presets[preset.Name]; !exists {
		pr.order = append(pr.order, preset.Name)
	}
	pr.presets[preset.Name] = preset
	return nil
}

// Render resolves format as a preset name, or uses it as a template.
func Render(format string, ctx VariableContext) (string, error) {
	if preset, err := NewPresetRegistry().Get(format); err == nil {
		format = preset.Template
	}
	return NewTemplateEngine().Substitute(format, ctx)
}
