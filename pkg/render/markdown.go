package render

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"gitlab.com/golang-commonmark/markdown"
)

var md = markdown.New(markdown.HTML(false), markdown.Linkify(false), markdown.Typographer(false))

// Markdown converts user content into styled lines. Content has no schema;
// anything the parser cannot handle is shown as plain text.
func Markdown(src string) (lines []Line) {
	defer func() {
		if recover() != nil {
			lines = plainLines(src)
		}
	}()
	if strings.TrimSpace(src) == "" {
		return nil
	}
	return convert(md.Parse([]byte(src)))
}

func plainLines(src string) []Line {
	var out []Line
	for _, l := range strings.Split(src, "\n") {
		out = append(out, Plain(l))
	}
	return out
}

type listState struct {
	ordered bool
	next    int
}

func convert(tokens []markdown.Token) []Line {
	var (
		out       []Line
		heading   int
		lists     []listState
		itemStart bool
		marker    string
	)
	blank := func() {
		if len(lists) == 0 && len(out) > 0 && len(out[len(out)-1].Spans) > 0 {
			out = append(out, Line{})
		}
	}
	for _, tok := range tokens {
		switch t := tok.(type) {
		case *markdown.HeadingOpen:
			heading = t.HLevel
		case *markdown.HeadingClose:
			heading = 0
			blank()
		case *markdown.ParagraphClose:
			blank()
		case *markdown.BulletListOpen:
			lists = append(lists, listState{})
		case *markdown.OrderedListOpen:
			lists = append(lists, listState{ordered: true, next: t.Order})
		case *markdown.BulletListClose, *markdown.OrderedListClose:
			if len(lists) > 0 {
				lists = lists[:len(lists)-1]
			}
			blank()
		case *markdown.ListItemOpen:
			itemStart = true
			marker = "• "
			if n := len(lists); n > 0 && lists[n-1].ordered {
				marker = strconv.Itoa(lists[n-1].next) + ". "
				lists[n-1].next++
			}
		case *markdown.Inline:
			for i, l := range inlineLines(t.Children) {
				l.Heading = heading
				l.Indent = len(lists)
				if i == 0 && itemStart {
					l.Bullet = true
					l.Spans = append([]Span{{Text: marker}}, l.Spans...)
					itemStart = false
				}
				out = append(out, l)
			}
		case *markdown.Fence:
			for _, l := range strings.Split(strings.TrimRight(t.Content, "\n"), "\n") {
				out = append(out, Line{Spans: []Span{{Text: l, Code: true}}})
			}
			blank()
		case *markdown.CodeBlock:
			for _, l := range strings.Split(strings.TrimRight(t.Content, "\n"), "\n") {
				out = append(out, Line{Spans: []Span{{Text: l, Code: true}}})
			}
			blank()
		case *markdown.Hr:
			out = append(out, Plain("───"))
		}
	}
	for len(out) > 0 && len(out[len(out)-1].Spans) == 0 {
		out = out[:len(out)-1]
	}
	return out
}

func inlineLines(tokens []markdown.Token) []Line {
	var (
		lines        = []Line{{}}
		bold, italic bool
	)
	push := func(s Span) {
		l := &lines[len(lines)-1]
		l.Spans = append(l.Spans, s)
	}
	for _, tok := range tokens {
		switch t := tok.(type) {
		case *markdown.Text:
			push(Span{Text: t.Content, Bold: bold, Italic: italic})
		case *markdown.CodeInline:
			push(Span{Text: t.Content, Code: true})
		case *markdown.StrongOpen:
			bold = true
		case *markdown.StrongClose:
			bold = false
		case *markdown.EmphasisOpen:
			italic = true
		case *markdown.EmphasisClose:
			italic = false
		case *markdown.Softbreak, *markdown.Hardbreak:
			lines = append(lines, Line{})
		case *markdown.Image:
			push(Span{Text: "[image]", Italic: true})
		case *markdown.HTMLInline:
			push(Span{Text: t.Content})
		}
	}
	return lines
}

// Truncate shortens s to at most width display cells, ending with an
// ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Wrap breaks lines so none exceeds width display cells. Styling is kept
// per span; words longer than width are split.
func Wrap(lines []Line, width int) []Line {
	if width <= 0 {
		return lines
	}
	var out []Line
	for _, l := range lines {
		out = append(out, wrapLine(l, width)...)
	}
	return out
}

func wrapLine(l Line, width int) []Line {
	cur := Line{Heading: l.Heading, Bullet: l.Bullet, Indent: l.Indent}
	used := 0
	var out []Line
	flush := func() {
		out = append(out, cur)
		cur = Line{Heading: l.Heading, Indent: l.Indent}
		used = 0
	}
	for _, s := range l.Spans {
		for _, word := range splitKeepSpaces(s.Text) {
			w := runewidth.StringWidth(word)
			if used+w > width && used > 0 {
				flush()
				word = strings.TrimLeft(word, " ")
				w = runewidth.StringWidth(word)
			}
			for w > width {
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					break
				}
				cur.Spans = append(cur.Spans, Span{Text: head, Bold: s.Bold, Italic: s.Italic, Code: s.Code})
				flush()
				word = strings.TrimPrefix(word, head)
				w = runewidth.StringWidth(word)
			}
			if word == "" {
				continue
			}
			cur.Spans = append(cur.Spans, Span{Text: word, Bold: s.Bold, Italic: s.Italic, Code: s.Code})
			used += w
		}
	}
	out = append(out, cur)
	return out
}

// splitKeepSpaces splits s before each space so words carry their leading
// separator.
func splitKeepSpaces(s string) []string {
	var out []string
	start := 0
	for i := 1; i < len(s); i++ {
		if s[i] == ' ' && s[i-1] != ' ' {
			out = append(out, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
