package render

import (
	"strings"

	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/lucasb-eyer/go-colorful"
)

// Slug lowercases s and strips everything that is not an ASCII letter.
// It accepts any input.
func Slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ClassName joins prefix and the slug of s, e.g. "phase-initialaccess".
func ClassName(prefix, s string) string {
	slug := Slug(s)
	if slug == "" {
		return prefix
	}
	return prefix + "-" + slug
}

// DefaultIcon is shown for unknown icon names.
const DefaultIcon = "●"

var icons = map[string]string{
	"target":   "◎",
	"search":   "⌕",
	"shield":   "⛨",
	"key":      "⚿",
	"terminal": "›_",
	"database": "⛁",
	"network":  "⇄",
	"lock":     "🔒",
	"eye":      "◉",
	"bolt":     "ϟ",
	"upload":   "⇪",
	"flag":     "⚑",
}

// Icon maps an icon name to its glyph, falling back to DefaultIcon.
func Icon(name string) string {
	if g, ok := icons[strings.ToLower(strings.TrimSpace(name))]; ok {
		return g
	}
	return DefaultIcon
}

var (
	// TextAccent is the fixed minimap colour of text nodes.
	TextAccent = colorful.MustParseHex("#8b5cf6")
	// FallbackColor is used for unrecognised phases.
	FallbackColor = colorful.MustParseHex("#64748b")
	// Background is the canvas background used when blending.
	Background = colorful.MustParseHex("#0f172a")
)

// phaseColors is keyed by phase slug.
var phaseColors = map[string]colorful.Color{
	"reconnaissance":      colorful.MustParseHex("#0ea5e9"),
	"resourcedevelopment": colorful.MustParseHex("#06b6d4"),
	"initialaccess":       colorful.MustParseHex("#22c55e"),
	"execution":           colorful.MustParseHex("#eab308"),
	"persistence":         colorful.MustParseHex("#f97316"),
	"privilegeescalation": colorful.MustParseHex("#ef4444"),
	"defenseevasion":      colorful.MustParseHex("#a855f7"),
	"credentialaccess":    colorful.MustParseHex("#ec4899"),
	"discovery":           colorful.MustParseHex("#14b8a6"),
	"lateralmovement":     colorful.MustParseHex("#6366f1"),
	"collection":          colorful.MustParseHex("#84cc16"),
	"commandandcontrol":   colorful.MustParseHex("#f43f5e"),
	"exfiltration":        colorful.MustParseHex("#d946ef"),
	"impact":              colorful.MustParseHex("#dc2626"),
}

// PhaseColor returns the colour of a phase name, or FallbackColor.
func PhaseColor(phase string) colorful.Color {
	if c, ok := phaseColors[Slug(phase)]; ok {
		return c
	}
	return FallbackColor
}

// MinimapColor derives a node's minimap colour: text nodes use the fixed
// accent, others the colour of their phase.
func MinimapColor(n plan.Node) colorful.Color {
	switch n.Kind() {
	case plan.KindText:
		return TextAccent
	case plan.KindTechnique:
		if d, ok := n.AsTechnique(); ok {
			return PhaseColor(d.Phase)
		}
	case plan.KindPhase:
		if d, ok := n.AsPhase(); ok {
			return PhaseColor(d.Name)
		}
	}
	return FallbackColor
}

// Muted blends c towards the background, for de-emphasised anchors.
func Muted(c colorful.Color) colorful.Color {
	return c.BlendLab(Background, 0.65).Clamped()
}
