package textedit

import (
	"testing"

	"github.com/ha1tch/attackplan/pkg/input"
	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditor(content string) (*Editor, *[]plan.TextData) {
	var commits []plan.TextData
	d := plan.DefaultTextData()
	d.Content = content
	return New(d, func(td plan.TextData) { commits = append(commits, td) }), &commits
}

func TestBeginSelectsAll(t *testing.T) {
	e, _ := newEditor("hello world")
	assert.Equal(t, Viewing, e.State())
	e.Begin()
	require.True(t, e.Editing())
	start, end := e.Selection()
	assert.Equal(t, 0, start)
	assert.Equal(t, 11, end)

	e.Insert("x")
	assert.Equal(t, "x", e.Text(), "typing replaces the full selection")
}

func TestCancelRestoresContent(t *testing.T) {
	e, commits := newEditor("original **text**")
	e.Begin()
	e.Insert("something else")
	e.SetFontSize(plan.FontXl)
	e.SetFontWeight(plan.WeightBold)

	assert.Equal(t, Canceled, e.HandleKey(input.Press(input.KeyEscape)))
	assert.Equal(t, Viewing, e.State())
	assert.Equal(t, "original **text**", e.Text())
	assert.Equal(t, plan.FontBase, e.FontSize())
	assert.Equal(t, plan.WeightNormal, e.FontWeight())
	assert.Empty(t, *commits)
}

func TestCommitWithCtrlEnter(t *testing.T) {
	e, commits := newEditor("")
	e.Begin()
	for _, r := range "plan" {
		e.HandleKey(input.Rune(r))
	}
	e.SetFontSize(plan.FontLg)

	res := e.HandleKey(input.Key{Code: input.KeyEnter, Ctrl: true})
	assert.Equal(t, Committed, res)
	assert.Equal(t, Viewing, e.State())
	require.Len(t, *commits, 1)
	assert.Equal(t, plan.TextData{Content: "plan", FontSize: plan.FontLg, FontWeight: plan.WeightNormal}, (*commits)[0])
}

func TestCommitWithCmdEnter(t *testing.T) {
	e, commits := newEditor("a")
	e.Begin()
	assert.Equal(t, Committed, e.HandleKey(input.Key{Code: input.KeyEnter, Meta: true}))
	assert.Len(t, *commits, 1)
}

func TestPlainEnterInsertsNewline(t *testing.T) {
	e, _ := newEditor("ab")
	e.Begin()
	e.SetCaret(1)
	e.HandleKey(input.Press(input.KeyEnter))
	assert.Equal(t, "a\nb", e.Text())
	assert.True(t, e.Editing())
}

func TestBoldWrapsSelectionThenCommit(t *testing.T) {
	e, commits := newEditor("use hello here")
	e.Begin()
	e.Select(4, 9)
	e.Bold()
	assert.Equal(t, "use **hello** here", e.Text())
	assert.Equal(t, 11, e.Caret(), "caret sits inside the closing marker")
	assert.False(t, e.HasSelection())

	e.HandleKey(input.Key{Code: input.KeyEnter, Ctrl: true})
	require.Len(t, *commits, 1)
	assert.Contains(t, (*commits)[0].Content, "**hello**")
	assert.Equal(t, Viewing, e.State())
}

func TestFormattingWithoutSelection(t *testing.T) {
	tests := []struct {
		name      string
		apply     func(*Editor)
		want      string
		wantCaret int
	}{
		{"bold", (*Editor).Bold, "ab****", 4},
		{"italic", (*Editor).Italic, "ab**", 3},
		{"bullet mid-line", (*Editor).Bullet, "ab\n- ", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEditor("ab")
			e.Begin()
			e.SetCaret(2)
			tt.apply(e)
			assert.Equal(t, tt.want, e.Text())
			assert.Equal(t, tt.wantCaret, e.Caret())
		})
	}
}

func TestBulletAtLineStart(t *testing.T) {
	e, _ := newEditor("x\n")
	e.Begin()
	e.SetCaret(2)
	e.Bullet()
	assert.Equal(t, "x\n- ", e.Text())
	assert.Equal(t, 4, e.Caret())
}

func TestItalicWrapsSelection(t *testing.T) {
	e, _ := newEditor("abc")
	e.Begin()
	e.Select(0, 3)
	e.HandleKey(input.Key{Code: input.KeyRune, Rune: 'i', Ctrl: true})
	assert.Equal(t, "*abc*", e.Text())
	assert.Equal(t, 4, e.Caret())
}

func TestBackspaceRemovesGraphemeCluster(t *testing.T) {
	e, _ := newEditor("ok👍🏽")
	e.Begin()
	e.SetCaret(len([]rune("ok👍🏽")))
	e.Backspace()
	assert.Equal(t, "ok", e.Text())
}

func TestCaretMovement(t *testing.T) {
	e, _ := newEditor("abc\nde\nfghij")
	e.Begin()
	e.SetCaret(2)
	e.MoveDown(false)
	assert.Equal(t, 6, e.Caret(), "column clamps to shorter line")
	e.MoveDown(false)
	assert.Equal(t, 9, e.Caret())
	e.MoveUp(false)
	assert.Equal(t, 6, e.Caret())
	e.Home(false)
	assert.Equal(t, 4, e.Caret())
	e.End(true)
	start, end := e.Selection()
	assert.Equal(t, 4, start)
	assert.Equal(t, 6, end)

	line, col := e.CaretLineCol()
	assert.Equal(t, 1, line)
	assert.Equal(t, 2, col)
}

func TestViewingIgnoresKeys(t *testing.T) {
	e, _ := newEditor("x")
	assert.Equal(t, Ignored, e.HandleKey(input.Press(input.KeyBackspace)))
	assert.Equal(t, "x", e.Text())
}

func TestStyleChangeWhileViewingPersistsOnNextCommit(t *testing.T) {
	e, commits := newEditor("x")
	e.CycleFontWeight(1)
	assert.Equal(t, plan.WeightMedium, e.FontWeight())
	assert.Equal(t, plan.WeightNormal, e.Committed().FontWeight)

	e.Begin()
	e.Commit()
	require.Len(t, *commits, 1)
	assert.Equal(t, plan.WeightMedium, (*commits)[0].FontWeight)
}

func TestCycleFontSizeWraps(t *testing.T) {
	e, _ := newEditor("x")
	e.SetFontSize(plan.FontXl)
	e.CycleFontSize(1)
	assert.Equal(t, plan.FontSm, e.FontSize())
	e.CycleFontSize(-1)
	assert.Equal(t, plan.FontXl, e.FontSize())
}

func TestSyncIgnoredWhileEditing(t *testing.T) {
	e, _ := newEditor("draft")
	e.Begin()
	e.Sync(plan.TextData{Content: "external"})
	assert.Equal(t, "draft", e.Text())
	e.Cancel()
	e.Sync(plan.TextData{Content: "external"})
	assert.Equal(t, "external", e.Text())
}
