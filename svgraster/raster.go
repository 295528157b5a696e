// Implements a raster backend to render notes,
// by wrapping rasterx.
package svgraster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/inknote/stroke"
	"github.com/benoitkugler/inknote/svgdraw"
	"github.com/benoitkugler/inknote/svgnote"
	"github.com/benoitkugler/inknote/svgpath"
)

// Options controls the look of the rendered strokes.
type Options struct {
	LineWidth  float64
	Color      color.Color
	Background color.Color // nil for a transparent image
	// Scale is applied to the coordinates and the line width,
	// 0 meaning 1.
	Scale float64
}

// DefaultOptions draws black strokes on a white background.
func DefaultOptions() Options {
	return Options{LineWidth: 10, Color: color.Black, Background: color.White, Scale: 1}
}

func (opts Options) scale() float64 {
	if opts.Scale <= 0 {
		return 1
	}
	return opts.Scale
}

// Renderer draws paths with round caps and joins.
type Renderer struct {
	dasher *rasterx.Dasher
	scale  float64
}

// NewRenderer returns a renderer with default values.
// In addition to rasterizing lines like a Scanner,
// it can also rasterize quadratic and cubic bezier curves.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	return &Renderer{dasher: rasterx.NewDasher(width, height, scanner), scale: 1}
}

// SetStroke sets the width and color of the following paths.
func (rd *Renderer) SetStroke(lineWidth float64, c color.Color) {
	rd.dasher.SetStroke(
		svgpath.ToFixed(lineWidth*rd.scale), 4*64, rasterx.RoundCap, rasterx.RoundCap,
		rasterx.RoundGap, rasterx.Round, nil, 0,
	)
	rd.dasher.Scanner.SetColor(c)
}

func (rd *Renderer) tr(p fixed.Point26_6) fixed.Point26_6 {
	if rd.scale == 1 {
		return p
	}
	return svgpath.ToFixedP(svgpath.ToFloat(p.X)*rd.scale, svgpath.ToFloat(p.Y)*rd.scale)
}

// DrawPath strokes the path. A path reduced to a
// single point is drawn as a dot.
func (rd *Renderer) DrawPath(path svgpath.Path) {
	rd.dasher.Clear()
	var (
		start    fixed.Point26_6
		segments int
	)
	flushDot := func() {
		if segments == 0 { // lone MoveTo: a tiny segment shows the caps
			rd.dasher.Line(start.Add(fixed.Point26_6{X: 1}))
		}
	}
	for i, op := range path {
		switch op := op.(type) {
		case svgpath.MoveTo:
			if i != 0 {
				flushDot()
				rd.dasher.Stop(false)
			}
			start, segments = rd.tr(fixed.Point26_6(op)), 0
			rd.dasher.Start(start)
			continue
		case svgpath.LineTo:
			rd.dasher.Line(rd.tr(fixed.Point26_6(op)))
		case svgpath.QuadTo:
			rd.dasher.QuadBezier(rd.tr(op[0]), rd.tr(op[1]))
		case svgpath.CubicTo:
			rd.dasher.CubeBezier(rd.tr(op[0]), rd.tr(op[1]), rd.tr(op[2]))
		case svgpath.Close:
			rd.dasher.Stop(true)
		}
		segments++
	}
	if len(path) != 0 {
		flushDot()
		rd.dasher.Stop(false)
	}
	rd.dasher.Draw()
}

// RasterStrokes renders the strokes into a new image of the given size.
func RasterStrokes(strokes []stroke.Stroke, width, height int, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if opts.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}
	if opts.Color == nil {
		opts.Color = color.Black
	}

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	renderer := NewRenderer(width, height, scanner)
	renderer.scale = opts.scale()
	renderer.SetStroke(opts.LineWidth, opts.Color)
	svgdraw.Draw(renderer, strokes)
	return img
}

// WritePNG renders the strokes as a PNG image.
func WritePNG(w io.Writer, strokes []stroke.Stroke, width, height int, opts Options) error {
	return png.Encode(w, RasterStrokes(strokes, width, height, opts))
}

// RasterNote decodes a note document and renders it, at its
// dimensions multiplied by opts.Scale.
func RasterNote(doc io.Reader, codec svgnote.Codec, opts Options) (*image.RGBA, error) {
	note, err := codec.Decode(doc)
	if err != nil {
		return nil, err
	}
	s := opts.scale()
	w, h := int(math.Ceil(note.Width*s)), int(math.Ceil(note.Height*s))
	if w <= 0 || h <= 0 { // no dimensions: fit the strokes
		w, h = fitStrokes(note.Strokes, s)
	}
	return RasterStrokes(note.Strokes, w, h, opts), nil
}

// fitStrokes returns an image size containing all the strokes
func fitStrokes(strokes []stroke.Stroke, scale float64) (int, int) {
	var maxX, maxY float64
	for _, st := range strokes {
		if st.Empty() {
			continue
		}
		_, max := st.Bounds()
		maxX, maxY = math.Max(maxX, max.X), math.Max(maxY, max.Y)
	}
	return int(math.Ceil(maxX*scale)) + 1, int(math.Ceil(maxY*scale)) + 1
}
