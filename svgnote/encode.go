// Implements the storage format of a note: a standalone SVG
// document with one <path> element per stroke.
//
// The format is lossy: strokes are re-sampled at a fixed step
// when encoded, and their style is not stored.
package svgnote

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/inknote/stroke"
	"github.com/benoitkugler/inknote/svgpath"
)

const (
	xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`
	footer    = `</svg>`
)

// Codec holds the encoding and decoding parameters.
type Codec struct {
	// Step is the re-sampling step used when encoding.
	// It defaults to stroke.DefaultStep.
	Step float64

	// Curves controls how curves found when decoding
	// are converted to points.
	Curves svgpath.Flattener

	// ErrorMode is passed to svgpath.Compile.
	ErrorMode svgpath.ErrorMode
}

// DefaultCodec re-samples at stroke.DefaultStep, keeps
// the end points of curves and logs the diagnostics.
var DefaultCodec = Codec{Step: stroke.DefaultStep, ErrorMode: svgpath.WarnErrorMode}

func formatDim(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// formatCoord rounds v to 1/64, the precision of decoded paths.
func formatCoord(v float64) string {
	r := math.Round(v*64) / 64
	if r == 0 { // no "-0"
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// writePolyline writes `M x0,y0 L x1,y1 ...`
func writePolyline(out *bufio.Writer, points []stroke.Point) {
	for i, p := range points {
		if i == 0 {
			out.WriteString("M ")
		} else {
			out.WriteString(" L ")
		}
		out.WriteString(formatCoord(p.X))
		out.WriteByte(',')
		out.WriteString(formatCoord(p.Y))
	}
}

// Encode writes the SVG document for the given strokes.
// Each stroke is re-sampled and written as a polyline:
// empty strokes are skipped.
func (c Codec) Encode(w io.Writer, strokes []stroke.Stroke, width, height float64) error {
	out := bufio.NewWriter(w)
	out.WriteString(xmlHeader + "\n")
	out.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="` + formatDim(width) +
		`" height="` + formatDim(height) + `" color="black">` + "\n")
	for _, st := range strokes {
		points := stroke.Resample(st.Points, c.Step)
		if len(points) == 0 {
			continue
		}
		out.WriteString(`<path d="`)
		writePolyline(out, points)
		out.WriteString(`" fill="none" stroke="black"/>` + "\n")
	}
	out.WriteString(footer + "\n")
	return out.Flush()
}

// EncodeString is the same as Encode, returning the document.
func (c Codec) EncodeString(strokes []stroke.Stroke, width, height float64) string {
	var b strings.Builder
	_ = c.Encode(&b, strokes, width, height) // strings.Builder never fails
	return b.String()
}

// Encode uses DefaultCodec to return the document for `strokes`.
func Encode(strokes []stroke.Stroke, width, height float64) string {
	return DefaultCodec.EncodeString(strokes, width, height)
}
