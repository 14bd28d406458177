package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Geometry tags recognised in text mesh files.
const (
	TagVertex = "v"
	TagNormal = "vn"
)

// MeshLine is a single line of a text mesh file.
type MeshLine struct {
	// Raw is the line exactly as read, without the trailing newline.
	Raw string

	// Tag is "v" or "vn" for geometry lines, empty otherwise.
	Tag string

	// Coords holds the parsed x, y, z of a geometry line.
	Coords [3]float64
}

// IsGeometry reports whether the line carries scalable coordinates.
func (l MeshLine) IsGeometry() bool {
	return l.Tag != ""
}

// MeshDocument is the ordered sequence of lines of a text mesh file.
// Line order and count survive any transformation; only geometry lines
// are ever re-emitted.
type MeshDocument struct {
	Lines []MeshLine
}

// ParseMesh splits content on '\n' and classifies every line.
// Empty lines and a trailing empty line are kept so Text reproduces the
// exact line count.
func ParseMesh(content string) *MeshDocument {
	parts := strings.Split(content, "\n")
	doc := &MeshDocument{Lines: make([]MeshLine, len(parts))}
	for i, raw := range parts {
		doc.Lines[i] = classifyLine(raw)
	}
	return doc
}

func classifyLine(raw string) MeshLine {
	line := MeshLine{Raw: raw}

	fields := strings.Fields(raw)
	if len(fields) < 4 {
		return line
	}
	tag := fields[0]
	if (tag != TagVertex && tag != TagNormal) || !strings.HasPrefix(raw, tag) {
		return line
	}

	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return line
		}
		line.Coords[i] = v
	}
	line.Tag = tag
	return line
}

// ScaleFactor is the uniform multiplier applied to mesh coordinates.
type ScaleFactor float64

// NewScaleFactor computes real / uncalibrated. The result must be a finite
// positive number.
func NewScaleFactor(uncalibrated, real float64) (ScaleFactor, error) {
	if uncalibrated == 0 {
		return 0, fmt.Errorf("%w: uncalibrated measurement must not be zero", ErrInvalidInput)
	}
	f := real / uncalibrated
	if !(f > 0) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: scale factor %v/%v must be positive", ErrInvalidInput, real, uncalibrated)
	}
	return ScaleFactor(f), nil
}

// Scale multiplies the coordinates of every geometry line by f.
// Opaque lines are untouched.
func (d *MeshDocument) Scale(f ScaleFactor) {
	for i := range d.Lines {
		l := &d.Lines[i]
		if !l.IsGeometry() {
			continue
		}
		for j := range l.Coords {
			l.Coords[j] *= float64(f)
		}
		l.Raw = formatGeometry(l.Tag, l.Coords, strings.HasSuffix(l.Raw, "\r"))
	}
}

// GeometryCount returns the number of geometry lines in the document.
func (d *MeshDocument) GeometryCount() int {
	n := 0
	for _, l := range d.Lines {
		if l.IsGeometry() {
			n++
		}
	}
	return n
}

// Text joins the lines back with '\n'.
func (d *MeshDocument) Text() string {
	raws := make([]string, len(d.Lines))
	for i, l := range d.Lines {
		raws[i] = l.Raw
	}
	return strings.Join(raws, "\n")
}

func formatGeometry(tag string, c [3]float64, crlf bool) string {
	s := tag + " " + FormatCoordinate(c[0]) + " " + FormatCoordinate(c[1]) + " " + FormatCoordinate(c[2])
	if crlf {
		s += "\r"
	}
	return s
}

// FormatCoordinate renders v in its shortest round-trip decimal form,
// keeping a ".0" suffix on integral values (2 renders as "2.0").
func FormatCoordinate(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
