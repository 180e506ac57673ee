// Native PNG rendering for plans.
// Mirrors the SVG export using Go's image packages.

package planfile

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/render"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width    int // maximum width in pixels, 0 = natural size
	Padding  int
	FontSize int
	Title    string
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:    1600,
		Padding:  40,
		FontSize: 13,
	}
}

// supersample is the factor the image is drawn at before downsampling.
const supersample = 4

// Colors used in rendering
var (
	colorPage    = color.RGBA{15, 23, 42, 255}   // #0f172a
	colorCard    = color.RGBA{30, 41, 59, 255}   // #1e293b
	colorNote    = color.RGBA{30, 27, 75, 255}   // #1e1b4b
	colorInk     = color.RGBA{226, 232, 240, 255} // #e2e8f0
	colorMuted   = color.RGBA{148, 163, 184, 255} // #94a3b8
	colorConnect = color.RGBA{148, 163, 184, 255} // #94a3b8
)

type faceStyle int

const (
	faceRegular faceStyle = iota
	faceBold
	faceItalic
	faceMono
)

var fontData = map[faceStyle][]byte{
	faceRegular: goregular.TTF,
	faceBold:    gobold.TTF,
	faceItalic:  goitalic.TTF,
	faceMono:    gomono.TTF,
}

type faceKey struct {
	style faceStyle
	size  float64
}

// renderContext holds rendering parameters including scale
type renderContext struct {
	img       *image.RGBA
	scale     float64 // sheet units to pixels
	lineWidth float64 // base line width (scaled)
	fonts     map[faceStyle]*opentype.Font
	faces     map[faceKey]font.Face
}

func newRenderContext(img *image.RGBA, scale float64) *renderContext {
	ctx := &renderContext{
		img:       img,
		scale:     scale,
		lineWidth: scale * 2, // 2px base line width
		fonts:     make(map[faceStyle]*opentype.Font),
		faces:     make(map[faceKey]font.Face),
	}
	for style, data := range fontData {
		fnt, err := opentype.Parse(data)
		if err != nil {
			panic(err) // embedded fonts always parse
		}
		ctx.fonts[style] = fnt
	}
	return ctx
}

// face returns a face at size sheet units, rendered at the context scale.
func (ctx *renderContext) face(style faceStyle, size float64) font.Face {
	k := faceKey{style, size}
	if f, ok := ctx.faces[k]; ok {
		return f
	}
	f, err := opentype.NewFace(ctx.fonts[style], &opentype.FaceOptions{
		Size:    size * ctx.scale,
		DPI:     72,
		Hinting: font.HintingNone, // supersampled instead
	})
	if err != nil {
		panic(err)
	}
	ctx.faces[k] = f
	return f
}

// RenderPNG renders a plan to PNG format.
// Uses 4x supersampling for smoother output.
func RenderPNG(g *plan.Graph, w io.Writer, opts PNGOptions) error {
	if opts.FontSize == 0 {
		opts.FontSize = 13
	}
	top := 0.0
	if opts.Title != "" {
		top = float64(opts.FontSize+4) * 2
	}
	s := layoutSheet(g, float64(opts.Padding), top, float64(opts.Width))
	width := int(math.Ceil(s.width))
	height := int(math.Ceil(s.height))

	largeImg := renderPNGInternal(s, opts, width*supersample, height*supersample)

	// Downsample to target size using high-quality interpolation
	finalImg := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(finalImg, finalImg.Bounds(), largeImg, largeImg.Bounds(), draw.Over, nil)

	return png.Encode(w, finalImg)
}

func renderPNGInternal(s sheet, opts PNGOptions, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	ctx := newRenderContext(img, supersample)

	draw.Draw(img, img.Bounds(), image.NewUniform(colorPage), image.Point{}, draw.Src)

	if opts.Title != "" {
		size := float64(opts.FontSize + 4)
		drawText(ctx, faceBold, size, float64(opts.Padding), float64(opts.Padding)+size, opts.Title, colorInk)
	}

	for _, route := range s.edges {
		for i := 1; i < len(route); i++ {
			a, b := route[i-1], route[i]
			if i == len(route)-1 {
				drawArrowLine(ctx, a.X, a.Y, b.X, b.Y, colorConnect)
			} else {
				drawLine(ctx, a.X, a.Y, b.X, b.Y, colorConnect)
			}
		}
	}

	registry := render.DefaultRegistry()
	fontSize := float64(opts.FontSize) * s.scale
	for _, p := range s.nodes {
		cols := int((p.rect.W - 24*s.scale) / (fontSize * 0.6))
		view := registry.Render(p.node, render.Context{Columns: cols})
		drawNode(ctx, p, view, fontSize, s.scale)
	}
	return img
}

func drawNode(ctx *renderContext, p placed, v render.View, fontSize, scale float64) {
	r := p.rect
	accent := color.Color(v.Accent)
	if v.Placeholder {
		accent = render.FallbackColor
	}

	switch v.Kind {
	case plan.KindPhase:
		fillRect(ctx, r.X, r.Y, r.W, r.H, accent)
		strokeRect(ctx, r.X, r.Y, r.W, r.H, darken(v.Accent))
		drawText(ctx, faceBold, fontSize, r.X+12*scale, r.Center().Y+fontSize/3, v.Icon+"  "+v.Title, colorInk)
		return
	case plan.KindText:
		fillRect(ctx, r.X, r.Y, r.W, r.H, colorNote)
	default:
		fillRect(ctx, r.X, r.Y, r.W, r.H, colorCard)
	}
	strokeRect(ctx, r.X, r.Y, r.W, r.H, accent)

	x := r.X + 12*scale
	y := r.Y + 10*scale + fontSize
	step := fontSize * 1.4
	bottom := r.Y + r.H - 6*scale
	if v.Subtitle != "" {
		drawText(ctx, faceRegular, fontSize*0.85, x, y, v.Subtitle, colorMuted)
		y += step
	}
	if v.Title != "" {
		drawText(ctx, faceBold, fontSize, x, y, v.Title, colorInk)
		y += step
	}
	for _, l := range v.Body {
		if y > bottom {
			break
		}
		size := fontSize
		if l.Heading > 0 {
			size = fontSize * (1 + 0.4/float64(l.Heading))
		}
		lx := x + float64(l.Indent-1)*12*scale
		if l.Indent == 0 {
			lx = x
		}
		for _, sp := range l.Spans {
			style := faceRegular
			switch {
			case sp.Code:
				style = faceMono
			case sp.Bold || l.Heading > 0:
				style = faceBold
			case sp.Italic:
				style = faceItalic
			}
			lx += drawText(ctx, style, size, lx, y, sp.Text, colorInk)
		}
		y += step
	}
	if len(v.Badges) > 0 && y <= bottom {
		drawText(ctx, faceRegular, fontSize*0.85, x, bottom-2*scale, strings.Join(v.Badges, "  "), colorMuted)
	}
}

func fillRect(ctx *renderContext, x, y, w, h float64, c color.Color) {
	k := ctx.scale
	rect := image.Rect(int(x*k), int(y*k), int((x+w)*k), int((y+h)*k))
	draw.Draw(ctx.img, rect, image.NewUniform(c), image.Point{}, draw.Over)
}

func strokeRect(ctx *renderContext, x, y, w, h float64, c color.Color) {
	drawLine(ctx, x, y, x+w, y, c)
	drawLine(ctx, x+w, y, x+w, y+h, c)
	drawLine(ctx, x+w, y+h, x, y+h, c)
	drawLine(ctx, x, y+h, x, y, c)
}

// drawLine draws a thick line between two sheet points.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	img := ctx.img
	k := ctx.scale
	x1, y1, x2, y2 = x1*k, y1*k, x2*k, y2*k

	dx := x2 - x1
	dy := y2 - y1
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		steps = 1
	}

	halfThick := ctx.lineWidth / 2

	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}

	perpX := -dy / dist
	perpY := dx / dist

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := x1 + dx*t
		cy := y1 + dy*t

		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

// drawArrowLine draws a line with a filled arrowhead at (x2, y2).
func drawArrowLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	drawLine(ctx, x1, y1, x2, y2, c)

	dx := x2 - x1
	dy := y2 - y1
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		return
	}

	nx := dx / dist
	ny := dy / dist

	arrowLen := 8.0
	arrowWidth := 4.0

	ax1 := x2 - nx*arrowLen + ny*arrowWidth
	ay1 := y2 - ny*arrowLen - nx*arrowWidth
	ax2 := x2 - nx*arrowLen - ny*arrowWidth
	ay2 := y2 - ny*arrowLen + nx*arrowWidth

	for t := 0.0; t <= 1.0; t += 0.05 {
		mx := ax1 + (ax2-ax1)*t
		my := ay1 + (ay2-ay1)*t
		drawLine(ctx, x2, y2, mx, my, c)
	}
}

// drawText draws text with its baseline at (x, y) in sheet units and
// returns the advance in sheet units.
func drawText(ctx *renderContext, style faceStyle, size, x, y float64, text string, c color.Color) float64 {
	if text == "" {
		return 0
	}
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face(style, size),
		Dot: fixed.Point26_6{
			X: fixed.I(int(x * ctx.scale)),
			Y: fixed.I(int(y * ctx.scale)),
		},
	}
	adv := d.MeasureString(text)
	d.DrawString(text)
	return float64(adv.Ceil()) / ctx.scale
}
