package render

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

// FuzzMarkdownWrap renders arbitrary markdown and wraps it. No wrapped
// line may be wider than the limit unless it holds a single glyph that is.
func FuzzMarkdownWrap(f *testing.F) {
	f.Add("# Title\n\n**bold** and *italic* and `code`", 20)
	f.Add("- one\n- two\n  - nested", 5)
	f.Add("漢字漢字漢字", 3)
	f.Add("", 1)
	f.Add("a very long wordwithoutanyspacesatall", 4)

	f.Fuzz(func(t *testing.T, src string, width int) {
		if width <= 0 || width > 200 {
			return
		}
		for _, l := range Wrap(Markdown(src), width) {
			w := 0
			for _, s := range l.Spans {
				w += runewidth.StringWidth(s.Text)
			}
			if w > width && len(l.Spans) > 1 {
				t.Fatalf("line of width %d exceeds %d: %+v", w, width, l)
			}
		}
	})
}
