// Implements a PDF backend to export notes,
// by wrapping github.com/jung-kurt/gofpdf.
package svgpdf

import (
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/inknote/stroke"
	"github.com/benoitkugler/inknote/svgdraw"
	"github.com/benoitkugler/inknote/svgnote"
	"github.com/benoitkugler/inknote/svgpath"
)

// Options controls the exported document.
type Options struct {
	LineWidth float64 // in points, as the canvas units
	Title     string
	// CreationDate is written in the document metadata.
	// The zero value uses the current time.
	CreationDate time.Time
}

// DefaultOptions draws 10 points wide lines.
func DefaultOptions() Options { return Options{LineWidth: 10} }

// pather writes path commands to the pdf
type pather struct {
	pdf       *gofpdf.Fpdf
	lineWidth float64
}

func fixedTof(a fixed.Point26_6) (float64, float64) {
	return svgpath.ToFloat(a.X), svgpath.ToFloat(a.Y)
}

func (p pather) Start(a fixed.Point26_6) {
	p.pdf.MoveTo(fixedTof(a))
}

func (p pather) Line(b fixed.Point26_6) {
	p.pdf.LineTo(fixedTof(b))
}

func (p pather) QuadBezier(b fixed.Point26_6, c fixed.Point26_6) {
	cx, cy := fixedTof(b)
	x, y := fixedTof(c)
	p.pdf.CurveTo(cx, cy, x, y)
}

func (p pather) CubeBezier(b fixed.Point26_6, c fixed.Point26_6, d fixed.Point26_6) {
	cx0, cy0 := fixedTof(b)
	cx1, cy1 := fixedTof(c)
	x, y := fixedTof(d)
	p.pdf.CurveBezierCubicTo(cx0, cy0, cx1, cy1, x, y)
}

func (p pather) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.ClosePath()
	}
}

// DrawPath strokes the path. A single point is
// drawn as a dot, as wide as the line.
func (p pather) DrawPath(path svgpath.Path) {
	if len(path) == 1 {
		if start, ok := path[0].(svgpath.MoveTo); ok {
			x, y := fixedTof(fixed.Point26_6(start))
			p.pdf.Circle(x, y, p.lineWidth/2, "F")
			return
		}
	}
	svgdraw.Replay(p, path)
	p.pdf.DrawPath("D")
}

// newDocument returns a one page document of the given size, in points
func newDocument(width, height float64, opts Options) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	date := opts.CreationDate
	if date.IsZero() {
		date = time.Now()
	}
	pdf.SetCreationDate(date)
	pdf.SetProducer("inknote", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(0, 0, 0)
	pdf.SetLineWidth(opts.LineWidth)
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	return pdf
}

// Export writes a one page PDF document with the strokes,
// the page having the dimensions of the canvas.
func Export(w io.Writer, strokes []stroke.Stroke, width, height float64, opts Options) error {
	pdf := newDocument(width, height, opts)
	svgdraw.Draw(pather{pdf: pdf, lineWidth: opts.LineWidth}, strokes)
	return pdf.Output(w)
}

// ExportFile is the same as Export, writing to the given file.
func ExportFile(filename string, strokes []stroke.Stroke, width, height float64, opts Options) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = Export(f, strokes, width, height, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportNote decodes a note document and exports it, using
// the dimensions of the document.
func ExportNote(w io.Writer, doc io.Reader, codec svgnote.Codec, opts Options) error {
	note, err := codec.Decode(doc)
	if err != nil {
		return err
	}
	return Export(w, note.Strokes, note.Width, note.Height, opts)
}
