package plan

// Payload is the variant-specific data of a node. The set of variants is
// closed: only PhaseData, TechniqueData and TextData implement it.
type Payload interface {
	Kind() Kind
	clone() Payload
}

// PhaseData is the read-only display data of a phase marker.
type PhaseData struct {
	PhaseID    string `json:"phaseId"`
	Name       string `json:"name"`
	Label      string `json:"label,omitempty"`
	IconName   string `json:"iconName"`
	OrderIndex int    `json:"orderIndex"`
}

func (*PhaseData) Kind() Kind { return KindPhase }

func (d *PhaseData) clone() Payload {
	if d == nil {
		return d
	}
	c := *d
	return &c
}

// DisplayLabel prefers the explicit label over the raw name.
func (d *PhaseData) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Name
}

// TechniqueData is the read-only display data of a technique reference,
// sourced from an external catalog.
type TechniqueData struct {
	TechniqueID string   `json:"techniqueId"`
	MitreID     string   `json:"mitreId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Phase       string   `json:"phase"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

func (*TechniqueData) Kind() Kind { return KindTechnique }

func (d *TechniqueData) clone() Payload {
	if d == nil {
		return d
	}
	c := *d
	c.Tags = append([]string(nil), d.Tags...)
	return &c
}

// FontSize is the text node font size step.
type FontSize string

const (
	FontSm   FontSize = "sm"
	FontBase FontSize = "base"
	FontLg   FontSize = "lg"
	FontXl   FontSize = "xl"
)

// FontSizes lists sizes in ascending order.
var FontSizes = []FontSize{FontSm, FontBase, FontLg, FontXl}

// Valid reports whether s is a known size.
func (s FontSize) Valid() bool {
	for _, v := range FontSizes {
		if v == s {
			return true
		}
	}
	return false
}

// FontWeight is the text node font weight.
type FontWeight string

const (
	WeightNormal   FontWeight = "normal"
	WeightMedium   FontWeight = "medium"
	WeightSemibold FontWeight = "semibold"
	WeightBold     FontWeight = "bold"
)

// FontWeights lists weights from lightest to heaviest.
var FontWeights = []FontWeight{WeightNormal, WeightMedium, WeightSemibold, WeightBold}

// Valid reports whether w is a known weight.
func (w FontWeight) Valid() bool {
	for _, v := range FontWeights {
		if v == w {
			return true
		}
	}
	return false
}

// DefaultTextContent is the content of a freshly added text box.
const DefaultTextContent = "Enter your text here..."

// TextData is the user-authored payload of a text node. Content is markdown
// and is never validated.
type TextData struct {
	Content    string     `json:"content"`
	FontSize   FontSize   `json:"fontSize"`
	FontWeight FontWeight `json:"fontWeight"`
	Editing    bool       `json:"editing"`
}

// DefaultTextData returns the payload of a new text box.
func DefaultTextData() TextData {
	return TextData{
		Content:    DefaultTextContent,
		FontSize:   FontBase,
		FontWeight: WeightNormal,
	}
}

func (*TextData) Kind() Kind { return KindText }

func (d *TextData) clone() Payload {
	if d == nil {
		return d
	}
	c := *d
	return &c
}

// Normalize replaces unknown style values with the defaults.
func (d *TextData) Normalize() {
	if !d.FontSize.Valid() {
		d.FontSize = FontBase
	}
	if !d.FontWeight.Valid() {
		d.FontWeight = WeightNormal
	}
}
