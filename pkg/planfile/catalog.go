package planfile

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/attackplan/pkg/plan"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

var validate = validator.New()

// PhaseEntry is a phase offered by the palette.
type PhaseEntry struct {
	ID    string `yaml:"id" validate:"required"`
	Name  string `yaml:"name" validate:"required"`
	Label string `yaml:"label,omitempty"`
	Icon  string `yaml:"icon,omitempty"`
	Order int    `yaml:"order" validate:"gte=0"`
}

// TechniqueEntry is a technique offered by the palette.
type TechniqueEntry struct {
	ID          string   `yaml:"id" validate:"required"`
	MitreID     string   `yaml:"mitre_id,omitempty" validate:"omitempty,startswith=T"`
	Title       string   `yaml:"title" validate:"required"`
	Description string   `yaml:"description,omitempty"`
	Phase       string   `yaml:"phase" validate:"required"`
	Category    string   `yaml:"category,omitempty"`
	Tags        []string `yaml:"tags,omitempty" validate:"dive,required"`
}

// Catalog is the palette of phases and techniques that can be dropped on
// the canvas.
type Catalog struct {
	Phases     []PhaseEntry     `yaml:"phases" validate:"dive"`
	Techniques []TechniqueEntry `yaml:"techniques" validate:"dive"`
}

// ParseCatalog parses and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalog reads a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// DefaultCatalog returns the built-in palette.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(err) // embedded file is checked by tests
	}
	return c
}

// Validate checks field constraints and that ids are unique within each
// list.
func (c *Catalog) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	seen := make(map[string]bool)
	for _, p := range c.Phases {
		if seen["phase:"+p.ID] {
			return fmt.Errorf("invalid catalog: duplicate phase id %q", p.ID)
		}
		seen["phase:"+p.ID] = true
	}
	for _, t := range c.Techniques {
		if seen["technique:"+t.ID] {
			return fmt.Errorf("invalid catalog: duplicate technique id %q", t.ID)
		}
		seen["technique:"+t.ID] = true
	}
	return nil
}

// Entry is one palette row.
type Entry struct {
	Label      string
	Detail     string
	Descriptor plan.Descriptor
}

// Entries lists phases then techniques as palette rows.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.Phases)+len(c.Techniques))
	for _, p := range c.Phases {
		d := p.Data()
		out = append(out, Entry{
			Label:      d.DisplayLabel(),
			Detail:     p.ID,
			Descriptor: plan.Descriptor{Kind: plan.KindPhase, Data: &d},
		})
	}
	for _, t := range c.Techniques {
		d := t.Data()
		out = append(out, Entry{
			Label:      t.Title,
			Detail:     t.MitreID,
			Descriptor: plan.Descriptor{Kind: plan.KindTechnique, Data: &d},
		})
	}
	return out
}

// Descriptors returns the encoded drag payload of every entry.
func (c *Catalog) Descriptors() ([][]byte, error) {
	entries := c.Entries()
	out := make([][]byte, 0, len(entries))
	for _, e := range entries {
		b, err := plan.EncodeDescriptor(e.Descriptor)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Data converts the entry to a node payload.
func (p PhaseEntry) Data() plan.PhaseData {
	return plan.PhaseData{
		PhaseID:    p.ID,
		Name:       p.Name,
		Label:      p.Label,
		IconName:   p.Icon,
		OrderIndex: p.Order,
	}
}

// Data converts the entry to a node payload.
func (t TechniqueEntry) Data() plan.TechniqueData {
	return plan.TechniqueData{
		TechniqueID: t.ID,
		MitreID:     t.MitreID,
		Title:       t.Title,
		Description: t.Description,
		Phase:       t.Phase,
		Category:    t.Category,
		Tags:        append([]string(nil), t.Tags...),
	}
}
