package svgnote

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/benoitkugler/inknote/stroke"
	"github.com/benoitkugler/inknote/svgpath"
)

// ErrDecode is returned when the document can't be read, or
// has neither an <svg> element nor a <path> element.
var ErrDecode = errors.New("svgnote: invalid document")

// matches the `d` attribute of <path> elements, whatever its position
var rePathData = regexp.MustCompile(`<path\s(?:[^>]*?\s)?d\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// Diagnostic is a path diagnostic, with the index of
// its <path> element in the document.
type Diagnostic struct {
	Path int
	svgpath.Diagnostic
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("path %d: %s", d.Path, d.Diagnostic)
}

// Note is the content of a decoded document.
type Note struct {
	// Width and Height are the dimensions found on the root
	// element, or 0 if missing.
	Width, Height float64

	Strokes     []stroke.Stroke
	Diagnostics []Diagnostic
}

// Decode reads an SVG document and returns the strokes
// found in its <path> elements, in document order.
// Each path produces one stroke, or nothing if it has no point.
// Elements other than <path> are ignored.
// The document does not need to be well formed XML: the strokes of
// a truncated document are still returned.
// Malformed path data does not fail the decoding: see svgpath.Compile.
// Errors wrap ErrDecode.
func (c Codec) Decode(r io.Reader) (Note, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Note{}, fmt.Errorf("%w: reading: %v", ErrDecode, err)
	}
	text, note, hasRoot := readHeader(data)
	matches := rePathData.FindAllStringSubmatch(text, -1)
	if !hasRoot && len(matches) == 0 {
		return Note{}, fmt.Errorf("%w: no <svg> or <path> element", ErrDecode)
	}

	for i, match := range matches {
		d := match[1]
		if d == "" {
			d = match[2]
		}
		path, diags, err := svgpath.Compile(d, c.ErrorMode)
		for _, diag := range diags {
			note.Diagnostics = append(note.Diagnostics, Diagnostic{Path: i, Diagnostic: diag})
		}
		if err != nil { // StrictErrorMode
			return Note{}, fmt.Errorf("%w: path %d: %w", ErrDecode, i, err)
		}
		points := c.Curves.Flatten(path)
		if len(points) == 0 {
			continue
		}
		note.Strokes = append(note.Strokes, stroke.Stroke{Points: points, Style: stroke.Ink})
	}
	return note, nil
}

// DecodeString is the same as Decode, for an in-memory document.
func (c Codec) DecodeString(text string) (Note, error) {
	return c.Decode(strings.NewReader(text))
}

// Decode uses DefaultCodec to read the given document.
func Decode(r io.Reader) (Note, error) { return DefaultCodec.Decode(r) }

// DecodeString uses DefaultCodec to read the given document.
func DecodeString(text string) (Note, error) { return DefaultCodec.DecodeString(text) }

// readHeader finds the charset and the dimensions of the <svg>
// element. The XML is read leniently and syntax errors are not
// fatal: the paths are found by pattern matching anyway.
// It returns the document as UTF-8 text, and whether an <svg>
// element was found.
func readHeader(data []byte) (string, Note, bool) {
	var (
		note     Note
		encoding string
		hasRoot  bool
	)
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = false
	decoder.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		encoding = label
		return charset.NewReaderLabel(label, input)
	}
	for !hasRoot {
		t, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := t.(xml.StartElement)
		if !ok || se.Name.Local != "svg" {
			continue
		}
		hasRoot = true
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "width":
				note.Width, _ = strconv.ParseFloat(strings.TrimSpace(attr.Value), 64)
			case "height":
				note.Height, _ = strconv.ParseFloat(strings.TrimSpace(attr.Value), 64)
			}
		}
	}

	if encoding == "" {
		return string(data), note, hasRoot
	}
	// the regexp works on UTF-8 text
	rd, err := charset.NewReaderLabel(encoding, bytes.NewReader(data))
	if err != nil { // unknown label: use the raw bytes
		return string(data), note, hasRoot
	}
	decoded, err := io.ReadAll(rd)
	if err != nil {
		return string(data), note, hasRoot
	}
	return string(decoded), note, hasRoot
}
