package svgpath

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
)

// ErrorMode is the strategy used when malformed path data is found.
type ErrorMode uint8

const (
	// IgnoreErrorMode only reports the diagnostics to the caller.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode also logs each diagnostic.
	WarnErrorMode
	// StrictErrorMode aborts on the first diagnostic.
	StrictErrorMode
)

// ErrMalformed is returned by Compile in StrictErrorMode.
var ErrMalformed = errors.New("svgpath: malformed path data")

// Diagnostic describes a part of the path data which has been skipped.
type Diagnostic struct {
	Offset  int  // byte offset of the command (or token) in the data
	Command byte // 0 for coordinates found before any command
	Msg     string
}

func (d Diagnostic) String() string {
	if d.Command == 0 {
		return fmt.Sprintf("offset %d: %s", d.Offset, d.Msg)
	}
	return fmt.Sprintf("offset %d: command %c: %s", d.Offset, d.Command, d.Msg)
}

// MaxCoordinate is the largest absolute coordinate
// representable by a 26.6 fixed point.
const MaxCoordinate = float64(math.MaxInt32 / 64)

// number of coordinates expected by each supported command
var commandArity = map[byte]int{
	'M': 2,
	'L': 2,
	'Q': 4,
	'C': 6,
	'Z': 0,
}

// pathCursor accumulates the coordinates of the current
// command and emits path operations
type pathCursor struct {
	path      Path
	points    []float64
	diags     []Diagnostic
	errorMode ErrorMode

	cmd       byte // 0 before the first command
	cmdOffset int
	badNumber bool // an invalid number was found for the current command
	hasStart  bool // a MoveTo has been emitted
}

func (c *pathCursor) diag(offset int, cmd byte, format string, args ...interface{}) {
	d := Diagnostic{Offset: offset, Command: cmd, Msg: fmt.Sprintf(format, args...)}
	if c.errorMode == WarnErrorMode {
		log.Println("svg path:", d)
	}
	c.diags = append(c.diags, d)
}

// Compile parses the content of a `d` attribute.
// Only the absolute commands M, L, C, Q and Z are supported: other commands,
// commands with missing coordinates and invalid numbers are skipped and reported
// as diagnostics, and parsing continues with the next command.
// Extra coordinates repeat the previous command, a MoveTo being
// followed by implicit LineTo.
// An error is only returned in StrictErrorMode, wrapping ErrMalformed.
func Compile(d string, errMode ErrorMode) (Path, []Diagnostic, error) {
	c := pathCursor{errorMode: errMode}
	for i := 0; i < len(d); {
		ch := d[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == ',':
			i++
		case isCommand(ch):
			c.flush()
			c.cmd, c.cmdOffset = ch, i
			i++
		default:
			end := scanNumber(d, i)
			if end == i { // not even the start of a number
				c.diag(i, c.cmd, "invalid character %q", ch)
				c.badNumber = true
				i++
				continue
			}
			f, err := strconv.ParseFloat(d[i:end], 64)
			if err != nil {
				c.diag(i, c.cmd, "invalid number %q", d[i:end])
				c.badNumber = true
			} else if math.Abs(f) > MaxCoordinate {
				c.diag(i, c.cmd, "coordinate %q out of range", d[i:end])
				c.badNumber = true
			} else {
				c.points = append(c.points, f)
			}
			i = end
		}
	}
	c.flush()

	if errMode == StrictErrorMode && len(c.diags) != 0 {
		return nil, c.diags, fmt.Errorf("%w (%s)", ErrMalformed, c.diags[0])
	}
	return c.path, c.diags, nil
}

// isCommand returns true for ASCII letters, except
// the exponent markers.
func isCommand(ch byte) bool {
	if ch == 'e' || ch == 'E' {
		return false
	}
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

// scanNumber returns the end of the number starting at `start`,
// or `start` if there is none.
// A number is an optional sign, digits with an optional decimal point,
// and an optional exponent, so that "1-2" and "0.5.5" are two numbers.
func scanNumber(d string, start int) int {
	i := start
	if i < len(d) && (d[i] == '+' || d[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(d) && isDigit(d[i]); i++ {
		digits++
	}
	if i < len(d) && d[i] == '.' {
		i++
		for ; i < len(d) && isDigit(d[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return start
	}
	if i < len(d) && (d[i] == 'e' || d[i] == 'E') {
		j := i + 1
		if j < len(d) && (d[j] == '+' || d[j] == '-') {
			j++
		}
		if j < len(d) && isDigit(d[j]) {
			for j < len(d) && isDigit(d[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

// flush emits the operations for the current command
// and resets the coordinates.
func (c *pathCursor) flush() {
	defer func() {
		c.points = c.points[:0]
		c.badNumber = false
	}()

	if c.cmd == 0 {
		if len(c.points) != 0 {
			c.diag(c.cmdOffset, 0, "%d coordinates without command", len(c.points))
		}
		return
	}
	arity, ok := commandArity[c.cmd]
	if !ok {
		c.diag(c.cmdOffset, c.cmd, "unsupported command")
		return
	}
	if c.badNumber {
		c.diag(c.cmdOffset, c.cmd, "skipped because of invalid coordinates")
		return
	}

	if arity == 0 { // Z
		if len(c.points) != 0 {
			c.diag(c.cmdOffset, c.cmd, "%d unexpected coordinates", len(c.points))
		}
		if c.hasStart {
			c.path.Stop(true)
		}
		return
	}

	groups := len(c.points) / arity
	if groups == 0 {
		c.diag(c.cmdOffset, c.cmd, "expected %d coordinates, got %d", arity, len(c.points))
		return
	}
	for g := 0; g < groups; g++ {
		c.addSegment(g, c.points[g*arity:(g+1)*arity])
	}
	if rem := len(c.points) % arity; rem != 0 {
		c.diag(c.cmdOffset, c.cmd, "%d trailing coordinates ignored", rem)
	}
}

// addSegment emits the operation for one group of coordinates,
// the `index`-th of the current command.
func (c *pathCursor) addSegment(index int, pts []float64) {
	end := ToFixedP(pts[len(pts)-2], pts[len(pts)-1])
	if c.cmd == 'M' && index == 0 {
		c.path.Start(end)
		c.hasStart = true
		return
	}
	if !c.hasStart {
		c.diag(c.cmdOffset, c.cmd, "no current point: starting the path at %v,%v",
			pts[len(pts)-2], pts[len(pts)-1])
		c.path.Start(end)
		c.hasStart = true
		return
	}
	switch c.cmd {
	case 'M', 'L':
		c.path.Line(end)
	case 'Q':
		c.path.QuadBezier(ToFixedP(pts[0], pts[1]), end)
	case 'C':
		c.path.CubeBezier(ToFixedP(pts[0], pts[1]), ToFixedP(pts[2], pts[3]), end)
	}
}
