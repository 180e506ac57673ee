package render

import (
	"testing"

	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/textedit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Initial Access", "initialaccess"},
		{"Command-and-Control", "commandandcontrol"},
		{"T1059.001", "t"},
		{"", ""},
		{"Ünïcode 42", "ncode"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestClassName(t *testing.T) {
	assert.Equal(t, "phase-initialaccess", ClassName("phase", "Initial Access"))
	assert.Equal(t, "phase", ClassName("phase", "123"))
}

func TestIconFallback(t *testing.T) {
	assert.Equal(t, "◎", Icon("target"))
	assert.Equal(t, "◎", Icon(" Target "))
	assert.Equal(t, DefaultIcon, Icon("no-such-icon"))
	assert.Equal(t, DefaultIcon, Icon(""))
}

func TestPhaseColor(t *testing.T) {
	assert.Equal(t, PhaseColor("initialaccess"), PhaseColor("Initial Access"))
	assert.Equal(t, FallbackColor, PhaseColor("made up"))
}

func TestMinimapColor(t *testing.T) {
	text := plan.NewTextNode(plan.Point{})
	assert.Equal(t, TextAccent, MinimapColor(text))

	tech := plan.NewTechniqueNode(plan.Point{}, plan.TechniqueData{Phase: "Execution"})
	assert.Equal(t, PhaseColor("execution"), MinimapColor(tech))

	bare, err := plan.RestoreNode("x", plan.KindPhase, plan.Point{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, FallbackColor, MinimapColor(bare))
}

func TestPlaceholdersForMissingPayload(t *testing.T) {
	tests := []struct {
		kind  plan.Kind
		title string
	}{
		{plan.KindPhase, UnknownPhase},
		{plan.KindTechnique, UnknownTechnique},
		{plan.KindText, UnknownText},
	}
	reg := DefaultRegistry()
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			n, err := plan.RestoreNode("n1", tt.kind, plan.Point{}, nil, nil)
			require.NoError(t, err)
			var v View
			assert.NotPanics(t, func() { v = reg.Render(n, Context{}) })
			assert.True(t, v.Placeholder)
			assert.Equal(t, tt.title, v.Title)
		})
	}
}

func TestRenderPhase(t *testing.T) {
	n := plan.NewPhaseNode(plan.Point{}, plan.PhaseData{
		PhaseID:    "TA0001",
		Name:       "Initial Access",
		Label:      "Get in",
		IconName:   "target",
		OrderIndex: 2,
	})
	v := RenderPhase(n, Context{})
	assert.Equal(t, "phase-initialaccess", v.Class)
	assert.Equal(t, "Get in", v.Title)
	assert.Equal(t, "Initial Access", v.Subtitle)
	assert.Equal(t, "◎", v.Icon)
	assert.Equal(t, []string{"#2"}, v.Badges)
	assert.True(t, v.HasAnchor(plan.AnchorTop))
	assert.True(t, v.HasAnchor(plan.AnchorBottom))
	assert.False(t, v.HasAnchor(plan.AnchorLeft))
}

func TestRenderTechnique(t *testing.T) {
	n := plan.NewTechniqueNode(plan.Point{}, plan.TechniqueData{
		TechniqueID: "t-1",
		MitreID:     "T1566",
		Title:       "Phishing",
		Description: "Send a crafted email with a malicious attachment",
		Phase:       "Initial Access",
		Category:    "Social",
		Tags:        []string{"email"},
	})
	v := RenderTechnique(n, Context{Columns: 10})
	assert.Equal(t, "technique-initialaccess", v.Class)
	assert.Equal(t, "Phishing", v.Title)
	assert.Equal(t, []string{"T1566", "#email"}, v.Badges)
	require.Len(t, v.Body, 2)
	assert.True(t, v.Body[0].Spans[0].Italic)
	assert.Equal(t, "Send a cr…", v.Body[1].Text())
}

func TestTextAnchorsAndToolbar(t *testing.T) {
	n := plan.NewTextNode(plan.Point{})

	v := RenderText(n, Context{})
	assert.Len(t, v.Anchors, 4)
	assert.True(t, v.AnchorsMuted)
	assert.Nil(t, v.Toolbar)
	assert.False(t, v.Resizable)
	assert.Equal(t, "text-base-normal", v.Class)

	v = RenderText(n, Context{Hovered: true})
	assert.False(t, v.AnchorsMuted)

	v = RenderText(n, Context{Selected: true})
	require.NotNil(t, v.Toolbar)
	assert.True(t, v.Resizable)
	assert.Equal(t, []Action{ActionEdit, ActionFontSize, ActionFontWeight, ActionDelete}, v.Toolbar.Actions)
}

func TestTextEditingView(t *testing.T) {
	n := plan.NewTextNode(plan.Point{})
	d, _ := n.AsText()
	ed := textedit.New(*d, nil)
	ed.Begin()
	ed.Insert("line one\n**two**")
	ed.SetFontSize(plan.FontXl)

	v := RenderText(n, Context{Editor: ed})
	assert.True(t, v.Editing)
	assert.False(t, v.AnchorsMuted)
	require.NotNil(t, v.Toolbar)
	assert.Contains(t, v.Toolbar.Actions, ActionSave)
	assert.Contains(t, v.Toolbar.Actions, ActionBold)
	assert.Equal(t, plan.FontXl, v.FontSize)
	require.Len(t, v.Body, 2)
	assert.Equal(t, "**two**", v.Body[1].Text(), "raw source while editing")
	assert.Equal(t, 1, v.CaretLine)
	assert.Equal(t, 7, v.CaretCol)
}

func TestRegistryFallback(t *testing.T) {
	reg := Registry{}
	n := plan.NewTextNode(plan.Point{})
	v := reg.Render(n, Context{})
	assert.True(t, v.Placeholder)
	assert.Equal(t, "Unknown node", v.Title)
}

func TestMarkdown(t *testing.T) {
	lines := Markdown("# Title\n\nuse **hello** and *em* `x`\n\n- one\n- two")
	var texts []string
	for _, l := range lines {
		texts = append(texts, l.Text())
	}
	assert.Equal(t, []string{"Title", "", "use hello and em x", "", "• one", "• two"}, texts)
	assert.Equal(t, 1, lines[0].Heading)

	styles := map[string]Span{}
	for _, s := range lines[2].Spans {
		styles[s.Text] = s
	}
	assert.True(t, styles["hello"].Bold)
	assert.True(t, styles["em"].Italic)
	assert.True(t, styles["x"].Code)
	assert.False(t, styles["use "].Bold)

	assert.True(t, lines[4].Bullet)
	assert.Equal(t, 1, lines[4].Indent)
}

func TestMarkdownEmpty(t *testing.T) {
	assert.Nil(t, Markdown("  \n"))
}

func TestWrap(t *testing.T) {
	lines := Wrap([]Line{{Spans: []Span{{Text: "alpha beta "}, {Text: "gamma", Bold: true}}}}, 10)
	require.Len(t, lines, 2)
	assert.Equal(t, "alpha beta", lines[0].Text())
	assert.Equal(t, "gamma", lines[1].Text())
	assert.True(t, lines[1].Spans[0].Bold)

	long := Wrap([]Line{Plain("abcdefghij")}, 4)
	require.Len(t, long, 3)
	assert.Equal(t, "abcd", long[0].Text())
	assert.Equal(t, "ij", long[2].Text())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "", Truncate("anything", 0))
	assert.Equal(t, "漢…", Truncate("漢字漢字", 3))
}
