// Native PNG rendering of automaton diagrams, so a picture can be produced
// without an external Graphviz install.

package fsmfile

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/tocc/pkg/fsm"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width       int
	Height      int
	Padding     int
	StateRadius int
	FontSize    int
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:       800,
		Height:      600,
		Padding:     60,
		StateRadius: 30,
		FontSize:    14,
	}
}

// Colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorBlack     = color.RGBA{51, 51, 51, 255}    // #333
	colorGray      = color.RGBA{102, 102, 102, 255} // #666
	colorInitial   = color.RGBA{232, 245, 233, 255} // #e8f5e9
	colorAccepting = color.RGBA{255, 243, 224, 255} // #fff3e0
)

type renderContext struct {
	img       *image.RGBA
	scale     float64 // multiplier for line thickness, arrow size, etc.
	lineWidth float64
	face      font.Face
}

func newRenderContext(img *image.RGBA, scale, fontSize int) (*renderContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * scale),
		DPI:     72,
		Hinting: font.HintingNone, // supersampled instead
	})
	if err != nil {
		return nil, err
	}
	return &renderContext{
		img:       img,
		scale:     float64(scale),
		lineWidth: float64(scale) * 2,
		face:      face,
	}, nil
}

// RenderPNG renders the automaton's transition graph to PNG.
// Uses 4x supersampling for smoother output.
func RenderPNG(a *fsm.Automaton, w io.Writer, opts PNGOptions) error {
	const scale = 4

	large := image.NewRGBA(image.Rect(0, 0, opts.Width*scale, opts.Height*scale))
	ctx, err := newRenderContext(large, scale, opts.FontSize)
	if err != nil {
		return err
	}
	renderGraph(ctx, a, opts, scale)

	final := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return png.Encode(w, final)
}

// circularLayout places states on a circle, the start state at the top and
// the rest clockwise in canonical order.
func circularLayout(states []string, width, height, padding float64) map[string][2]float64 {
	positions := make(map[string][2]float64, len(states))
	cx, cy := width/2, height/2
	if len(states) == 1 {
		positions[states[0]] = [2]float64{cx, cy}
		return positions
	}
	rx := math.Max(width/2-padding, 1)
	ry := math.Max(height/2-padding, 1)
	for i, name := range states {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(len(states))
		positions[name] = [2]float64{cx + rx*math.Cos(angle), cy + ry*math.Sin(angle)}
	}
	return positions
}

func renderGraph(ctx *renderContext, a *fsm.Automaton, opts PNGOptions, scale int) {
	s := float64(scale)
	draw.Draw(ctx.img, ctx.img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	states := a.States()
	radius := float64(opts.StateRadius) * s
	pos := circularLayout(states, float64(opts.Width)*s, float64(opts.Height)*s, float64(opts.Padding)*s)

	// Merge labels of parallel edges.
	type edge struct{ from, to string }
	labels := make(map[edge][]string)
	var order []edge
	for _, t := range a.Transitions() {
		e := edge{t.From, t.To}
		if _, ok := labels[e]; !ok {
			order = append(order, e)
		}
		labels[e] = append(labels[e], string(t.Symbol))
	}

	for _, e := range order {
		label := strings.Join(labels[e], ", ")
		p1, p2 := pos[e.from], pos[e.to]

		if e.from == e.to {
			drawSelfLoop(ctx, p1[0], p1[1], radius, label)
			continue
		}

		dx, dy := p2[0]-p1[0], p2[1]-p1[1]
		dist := math.Hypot(dx, dy)
		nx, ny := dx/dist, dy/dist
		x1, y1 := ellipseEdgePoint(p1[0], p1[1], radius, radius, nx, ny)
		x2, y2 := ellipseEdgePoint(p2[0], p2[1], radius, radius, -nx, -ny)

		// Bend every edge to the same side so opposite edges separate.
		bend := 0.15 * dist
		mx, my := (x1+x2)/2-ny*bend, (y1+y2)/2+nx*bend
		drawQuadBezierArrow(ctx, x1, y1, mx, my, x2, y2, colorGray)
		drawTextCentered(ctx, int(mx-ny*8*s), int(my+nx*8*s), label, colorBlack)
	}

	// Start marker comes in from the left.
	start := pos[a.Start()]
	drawArrowLine(ctx, start[0]-radius*2.2, start[1], start[0]-radius, start[1], colorBlack)

	for _, name := range states {
		p := pos[name]
		fill := color.Color(colorWhite)
		switch {
		case name == a.Start():
			fill = colorInitial
		case a.IsAccepting(name):
			fill = colorAccepting
		}
		drawEllipse(ctx, p[0], p[1], radius, radius, fill, colorBlack)
		if a.IsAccepting(name) {
			drawEllipse(ctx, p[0], p[1], radius-5*s, radius-5*s, color.Transparent, colorBlack)
		}
		drawTextCentered(ctx, int(p[0]), int(p[1]), name, colorBlack)
	}
}

// drawEllipse draws an ellipse outline and optional fill.
func drawEllipse(ctx *renderContext, cx, cy, rx, ry float64, fill, stroke color.Color) {
	img := ctx.img
	thickness := ctx.lineWidth

	if fill != color.Transparent {
		for dy := -ry; dy <= ry; dy++ {
			yNorm := dy / ry
			if yNorm*yNorm <= 1 {
				xExtent := rx * math.Sqrt(1-yNorm*yNorm)
				for dx := -xExtent; dx <= xExtent; dx++ {
					img.Set(int(cx+dx), int(cy+dy), fill)
				}
			}
		}
	}

	for angle := 0.0; angle < 2*math.Pi; angle += 0.005 {
		nx, ny := math.Cos(angle), math.Sin(angle)
		x, y := cx+rx*nx, cy+ry*ny
		for t := -thickness / 2; t <= thickness/2; t += 0.5 {
			img.Set(int(x+nx*t), int(y+ny*t), stroke)
		}
	}
}

// drawLine draws a line between two points with thickness from context.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	half := ctx.lineWidth / 2
	if dist < 1 {
		for ty := -half; ty <= half; ty++ {
			for tx := -half; tx <= half; tx++ {
				ctx.img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}

	perpX, perpY := -dy/dist, dx/dist
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		px, py := x1+dx*t, y1+dy*t
		for offset := -half; offset <= half; offset += 0.5 {
			ctx.img.Set(int(px+perpX*offset), int(py+perpY*offset), c)
		}
	}
}

// drawArrowHead draws a filled arrowhead at (x, y) pointing along (nx, ny).
func drawArrowHead(ctx *renderContext, x, y, nx, ny float64, c color.Color) {
	arrowLen := 8.0 * ctx.scale
	arrowWidth := 4.0 * ctx.scale

	ax1 := x - nx*arrowLen + ny*arrowWidth
	ay1 := y - ny*arrowLen - nx*arrowWidth
	ax2 := x - nx*arrowLen - ny*arrowWidth
	ay2 := y - ny*arrowLen + nx*arrowWidth

	for t := 0.0; t <= 1.0; t += 0.05 {
		drawLine(ctx, x, y, ax1+(ax2-ax1)*t, ay1+(ay2-ay1)*t, c)
	}
}

// drawArrowLine draws a line with an arrowhead at the end.
func drawArrowLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	drawLine(ctx, x1, y1, x2, y2, c)
	dist := math.Hypot(x2-x1, y2-y1)
	if dist < 1 {
		return
	}
	drawArrowHead(ctx, x2, y2, (x2-x1)/dist, (y2-y1)/dist, c)
}

// drawQuadBezierArrow draws a quadratic Bezier curve with arrowhead.
func drawQuadBezierArrow(ctx *renderContext, x1, y1, cx, cy, x2, y2 float64, c color.Color) {
	const steps = 100.0
	prevX, prevY := x1, y1
	for i := 1.0; i <= steps; i++ {
		t := i / steps
		x := (1-t)*(1-t)*x1 + 2*(1-t)*t*cx + t*t*x2
		y := (1-t)*(1-t)*y1 + 2*(1-t)*t*cy + t*t*y2
		drawLine(ctx, prevX, prevY, x, y, c)
		prevX, prevY = x, y
	}

	tx, ty := x2-cx, y2-cy
	dist := math.Hypot(tx, ty)
	if dist < 1 {
		return
	}
	drawArrowHead(ctx, x2, y2, tx/dist, ty/dist, c)
}

// drawSelfLoop draws a loop above the state with its label on top.
func drawSelfLoop(ctx *renderContext, x, y, r float64, label string) {
	loopR := r * 0.6
	cy := y - r - loopR*0.6
	for angle := 0.0; angle < 2*math.Pi; angle += 0.01 {
		px, py := x+loopR*math.Cos(angle), cy+loopR*math.Sin(angle)
		if math.Hypot(px-x, py-y) < r {
			continue
		}
		drawLine(ctx, px, py, px, py, colorGray)
	}
	// Arrow re-enters the state at its upper right.
	ex, ey := ellipseEdgePoint(x, y, r, r, math.Cos(-math.Pi/3), math.Sin(-math.Pi/3))
	drawArrowHead(ctx, ex, ey, -0.5, 0.866, colorGray)
	drawTextCentered(ctx, int(x), int(cy-loopR-8*ctx.scale), label, colorBlack)
}

// drawTextCentered draws text centred at the given position using Go Regular.
func drawTextCentered(ctx *renderContext, x, y int, text string, c color.Color) {
	width := font.MeasureString(ctx.face, text).Ceil()
	ascent := ctx.face.Metrics().Ascent.Ceil()

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot: fixed.Point26_6{
			X: fixed.I(x - width/2),
			Y: fixed.I(y + int(float64(ascent)*0.35)),
		},
	}
	d.DrawString(text)
}

// ellipseEdgePoint calculates the point on an ellipse edge in a given direction.
func ellipseEdgePoint(cx, cy, rx, ry, nx, ny float64) (float64, float64) {
	t := 1.0 / math.Sqrt((nx*nx)/(rx*rx)+(ny*ny)/(ry*ry))
	return cx + nx*t, cy + ny*t
}

