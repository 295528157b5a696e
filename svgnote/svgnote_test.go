package svgnote

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/benoitkugler/inknote/stroke"
	"github.com/benoitkugler/inknote/svgpath"
)

var quiet = Codec{Step: 1, ErrorMode: svgpath.IgnoreErrorMode}

func TestEncodeFormat(t *testing.T) {
	strokes := []stroke.Stroke{
		stroke.New(stroke.Pt(0, 0), stroke.Pt(2, 0)),
		{},
		stroke.New(stroke.Pt(5, 5)),
	}
	got := quiet.EncodeString(strokes, 1080, 720.5)
	exp := `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="1080" height="720.5" color="black">
<path d="M 0,0 L 1,0 L 2,0" fill="none" stroke="black"/>
<path d="M 5,5" fill="none" stroke="black"/>
</svg>
`
	if got != exp {
		t.Errorf("expected\n%s\ngot\n%s", exp, got)
	}

	empty := Encode(nil, 10, 10)
	if !strings.HasSuffix(empty, "color=\"black\">\n</svg>\n") {
		t.Errorf("unexpected empty document %s", empty)
	}
}

func TestEncodeLargeCoordinates(t *testing.T) {
	strokes := []stroke.Stroke{stroke.New(stroke.Pt(4e7, 0), stroke.Pt(4e7, 1)), stroke.New(stroke.Pt(-0.001, 2.5))}
	got := quiet.EncodeString(strokes, 10, 10)
	for _, path := range []string{`d="M 40000000,0 L 40000000,1"`, `d="M 0,2.5"`} {
		if !strings.Contains(got, path) {
			t.Errorf("expected %s in\n%s", path, got)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	strokes := []stroke.Stroke{
		stroke.New(stroke.Pt(10.3, 20.7), stroke.Pt(50.1, 20.7), stroke.Pt(50.1, 80.2)),
		stroke.New(stroke.Pt(0, 0), stroke.Pt(3.3, 4.4)),
	}
	note, err := quiet.DecodeString(quiet.EncodeString(strokes, 200, 100))
	if err != nil {
		t.Fatal(err)
	}
	if note.Width != 200 || note.Height != 100 {
		t.Errorf("unexpected dimensions %g x %g", note.Width, note.Height)
	}
	if len(note.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics %v", note.Diagnostics)
	}
	if len(note.Strokes) != len(strokes) {
		t.Fatalf("expected %d strokes, got %d", len(strokes), len(note.Strokes))
	}
	for i, st := range strokes {
		got := note.Strokes[i]
		if d := got.Start().Dist(st.Start()); d > quiet.Step {
			t.Errorf("stroke %d: start moved by %g", i, d)
		}
		if d := got.End().Dist(st.End()); d > quiet.Step {
			t.Errorf("stroke %d: end moved by %g", i, d)
		}
		if got.Style != stroke.Ink {
			t.Errorf("unexpected style %v", got.Style)
		}
	}
}

func TestDecodeDiagnostics(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
<path d="M 0,0 L 10,10" fill="none" stroke="black"/>
<path d="A 5 5 0 0 1 10 10" fill="none" stroke="black"/>
</svg>`
	note, err := quiet.DecodeString(doc)
	if err != nil {
		t.Fatalf("diagnostics should not be errors: %s", err)
	}
	if len(note.Strokes) != 1 {
		t.Errorf("expected 1 stroke, got %v", note.Strokes)
	}
	if len(note.Diagnostics) != 1 || note.Diagnostics[0].Path != 1 || note.Diagnostics[0].Command != 'A' {
		t.Errorf("unexpected diagnostics %v", note.Diagnostics)
	}
}

func TestDecodeIgnoresOtherElements(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
	<title>my note</title>
	<rect x="0" y="0" width="10" height="10"/>
	<g><path stroke="black" id="p1" d='M 1,1 L 2,2 C 0,0 0,0 3,3'/></g>
	<circle cx="5" cy="5" r="2"/>
	</svg>`
	note, err := quiet.DecodeString(doc)
	if err != nil {
		t.Fatal(err)
	}
	exp := []stroke.Stroke{{Points: []stroke.Point{stroke.Pt(1, 1), stroke.Pt(2, 2), stroke.Pt(3, 3)}}}
	if !reflect.DeepEqual(note.Strokes, exp) {
		t.Errorf("expected %v, got %v", exp, note.Strokes)
	}
}

func TestDecodeCurves(t *testing.T) {
	doc := `<svg><path d="M 0,0 Q 5,10 10,0"/></svg>`
	c := quiet
	c.Curves = svgpath.Tessellate(8)
	note, err := c.DecodeString(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(note.Strokes) != 1 || len(note.Strokes[0].Points) != 9 {
		t.Errorf("expected a tessellated curve, got %v", note.Strokes)
	}
}

func TestDecodeEmptyPaths(t *testing.T) {
	note, err := quiet.DecodeString(`<svg><path d=""/><path d="Z"/><path d="M 1,1"/></svg>`)
	if err != nil {
		t.Fatal(err)
	}
	if len(note.Strokes) != 1 || len(note.Strokes[0].Points) != 1 {
		t.Errorf("expected only the single point stroke, got %v", note.Strokes)
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, doc := range []string{
		"",
		"not xml at all",
		`<html><body>no drawing</body></html>`,
		`<?xml version="1.0" encoding="UTF-8"?>`,
	} {
		_, err := quiet.DecodeString(doc)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("%q: expected ErrDecode, got %v", doc, err)
		}
	}
}

func TestDecodeMalformedXML(t *testing.T) {
	truncated := `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="100" height="50" color="black">
<path d="M 0,0 L 1,0 L 2,0" fill="none" stroke="black"/>
<path d="M 5,5 L 5,6" fill="none" stroke="black"/>
`
	for _, test := range []struct {
		doc           string
		strokes       int
		width, height float64
	}{
		{truncated, 2, 100, 50},
		{truncated[:len(truncated)-30], 1, 100, 50}, // cut in the second path
		{`<svg width="10" height="20"><title>A & B</title><path d="M 0,0 L 1,1"/></svg>`, 1, 10, 20},
		{`<svg><path d="M 0,0" </svg>`, 1, 0, 0},
		{`<html><path d="M 0,0 L 1,1"/></html>`, 1, 0, 0},
		{`<svg width="3" height="4">`, 0, 3, 4},
	} {
		note, err := quiet.DecodeString(test.doc)
		if err != nil {
			t.Errorf("%q: unexpected error %v", test.doc, err)
			continue
		}
		if len(note.Strokes) != test.strokes {
			t.Errorf("%q: expected %d strokes, got %v", test.doc, test.strokes, note.Strokes)
		}
		if note.Width != test.width || note.Height != test.height {
			t.Errorf("%q: unexpected dimensions %g x %g", test.doc, note.Width, note.Height)
		}
	}
}

func TestDecodeStrict(t *testing.T) {
	c := quiet
	c.ErrorMode = svgpath.StrictErrorMode
	_, err := c.DecodeString(`<svg><path d="M 0,0 A 1 1"/></svg>`)
	if !errors.Is(err, ErrDecode) || !errors.Is(err, svgpath.ErrMalformed) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk failure") }

func TestDecodeReadFailure(t *testing.T) {
	if _, err := quiet.Decode(failingReader{}); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestDecodeLatin1(t *testing.T) {
	// 0xe9 is 'é' in ISO-8859-1, and is invalid UTF-8
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<svg width=\"10\" height=\"20\"><title>caf\xe9</title><path d=\"M 1,2 L 3,4\"/></svg>"
	note, err := quiet.DecodeString(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(note.Strokes) != 1 || note.Strokes[0].End() != stroke.Pt(3, 4) {
		t.Errorf("unexpected strokes %v", note.Strokes)
	}
	if note.Width != 10 || note.Height != 20 {
		t.Errorf("unexpected dimensions %g x %g", note.Width, note.Height)
	}
}

func TestClearThenDecodeRestores(t *testing.T) {
	strokes := []stroke.Stroke{stroke.New(stroke.Pt(0, 0), stroke.Pt(4, 3))}
	doc := quiet.EncodeString(strokes, 50, 50)

	var s stroke.Store
	_ = s.Begin(stroke.Pt(9, 9))
	s.Commit()
	s.Clear()

	note, err := quiet.DecodeString(doc)
	if err != nil {
		t.Fatal(err)
	}
	s.Replace(note.Strokes)
	if got := s.Strokes(); !reflect.DeepEqual(got, note.Strokes) {
		t.Errorf("expected %v, got %v", note.Strokes, got)
	}
}
