package goslide

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// ShapeKind names the kind of a slide shape.
type ShapeKind string

const (
	ShapeRectangle  ShapeKind = "Rectangle"
	ShapeRightArrow ShapeKind = "RightArrow"
	ShapeLeftArrow  ShapeKind = "LeftArrow"
	ShapeUpArrow    ShapeKind = "UpArrow"
	ShapeDownArrow  ShapeKind = "DownArrow"
)

// supportedKinds lists every kind with a paint strategy. Adding a kind means
// adding it here and to paintFor.
var supportedKinds = []ShapeKind{
	ShapeRectangle,
	ShapeRightArrow,
	ShapeLeftArrow,
	ShapeUpArrow,
	ShapeDownArrow,
}

// ParseShapeKind matches s case-insensitively against the supported kinds.
func ParseShapeKind(s string) (ShapeKind, error) {
	for _, k := range supportedKinds {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShapeKind, s)
}

// IsSupported reports whether k has a paint strategy.
func (k ShapeKind) IsSupported() bool {
	for _, sk := range supportedKinds {
		if k == sk {
			return true
		}
	}
	return false
}

// Shape is one visual slide element: a positioned box with an optional fill
// and text.
type Shape struct {
	ID   string
	Name string
	Kind ShapeKind

	// Geometry in pixels relative to the canvas origin. Left and Top may be
	// negative; Width and Height must not.
	Left   float64
	Top    float64
	Width  float64
	Height float64

	// ZIndex orders painting; ties keep document order.
	ZIndex int
	// Rotation in degrees, clockwise.
	Rotation float64
	// Opacity in [0,1]; nil means fully opaque.
	Opacity *float64

	Fill   Color
	Border *Border
	// Font holds shape-level default run properties.
	Font RunProps

	Paragraphs []Paragraph
	Metadata   map[string]string
}

// Paragraph is an ordered list of runs sharing alignment and indentation.
type Paragraph struct {
	Align HorizontalAlignment
	// Indent is the left indent in pixels.
	Indent float64
	// Level is the list indent level; each level adds Options.IndentStep.
	Level int
	// Bullet, when non-empty, is prefixed to the first run.
	Bullet string
	// Font holds paragraph-level default run properties.
	Font RunProps
	Runs []TextRun
}

// TextRun is a span of text sharing one style.
type TextRun struct {
	Text string
	RunProps
}

// CreateParagraph appends an empty left-aligned paragraph and returns it.
func (s *Shape) CreateParagraph() *Paragraph {
	s.Paragraphs = append(s.Paragraphs, Paragraph{Align: AlignLeft})
	return &s.Paragraphs[len(s.Paragraphs)-1]
}

// CreateTextRun appends a run with the given text to the paragraph.
func (p *Paragraph) CreateTextRun(text string) *TextRun {
	p.Runs = append(p.Runs, TextRun{Text: text})
	return &p.Runs[len(p.Runs)-1]
}

// SetSize sets the run font size in pixels.
func (r *TextRun) SetSize(px float64) *TextRun { r.FontSize = px; return r }

// SetColor sets the run color.
func (r *TextRun) SetColor(c Color) *TextRun { r.Color = c; return r }

// SetFamily sets the run font family.
func (r *TextRun) SetFamily(name string) *TextRun { r.FontFamily = name; return r }

// SetBold sets the run weight.
func (r *TextRun) SetBold(bold bool) *TextRun {
	r.Weight = WeightNormal
	if bold {
		r.Weight = WeightBold
	}
	return r
}

// SetItalic sets the run slant.
func (r *TextRun) SetItalic(italic bool) *TextRun {
	r.Style = StyleNormal
	if italic {
		r.Style = StyleItalic
	}
	return r
}

// RawShape is an untyped shape record as produced by an importer.
type RawShape struct {
	ID       string
	Name     string
	Kind     string
	Left     float64
	Top      float64
	Width    float64
	Height   float64
	ZIndex   int
	Rotation float64
	Opacity  *float64
	// Fill is a hex color, "transparent", or empty for the default.
	Fill       string
	Border     *Border
	Font       RunProps
	Paragraphs []Paragraph
	Metadata   map[string]string
}

// NewShape validates a raw record into a Shape. The shape shares no storage
// with raw. It fails with ErrUnknownShapeKind, ErrInvalidGeometry,
// ErrInvalidOpacity or ErrInvalidFontSize.
func NewShape(raw RawShape) (Shape, error) {
	kind, err := ParseShapeKind(raw.Kind)
	if err != nil {
		return Shape{}, &ShapeError{Index: -1, ID: raw.ID, Err: err}
	}
	s := Shape{
		ID:         raw.ID,
		Name:       raw.Name,
		Kind:       kind,
		Left:       raw.Left,
		Top:        raw.Top,
		Width:      raw.Width,
		Height:     raw.Height,
		ZIndex:     raw.ZIndex,
		Rotation:   normalizeDegrees(raw.Rotation),
		Font:       raw.Font,
		Paragraphs: cloneParagraphs(raw.Paragraphs),
		Metadata:   maps.Clone(raw.Metadata),
	}
	if raw.Opacity != nil {
		op := *raw.Opacity
		s.Opacity = &op
	}
	if raw.Border != nil {
		b := *raw.Border
		s.Border = &b
	}
	if raw.Fill != "" {
		c, ok := ParseColor(raw.Fill)
		if !ok {
			return Shape{}, &ShapeError{Index: -1, ID: raw.ID, Err: fmt.Errorf("invalid fill color %q", raw.Fill)}
		}
		s.Fill = c
	}
	if errs := validateShape(&s); len(errs) > 0 {
		return Shape{}, &ShapeError{Index: -1, ID: raw.ID, Err: errs[0]}
	}
	return s, nil
}

// cloneParagraphs copies paragraphs and their runs so a shape never shares
// storage with the record it was built from.
func cloneParagraphs(in []Paragraph) []Paragraph {
	if in == nil {
		return nil
	}
	out := make([]Paragraph, len(in))
	for i, p := range in {
		p.Runs = slices.Clone(p.Runs)
		out[i] = p
	}
	return out
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
