package goslide

import (
	"strings"
)

// Color represents an ARGB color. The zero value means "not specified" and is
// replaced by a default during style resolution.
type Color struct {
	ARGB string // 8-character hex string, e.g., "FF000000" for black
}

// Predefined colors.
var (
	ColorBlack       = Color{ARGB: "FF000000"}
	ColorWhite       = Color{ARGB: "FFFFFFFF"}
	ColorTransparent = Color{ARGB: "00000000"}
	// ColorDefaultFill is the fill used for shapes that do not specify one.
	ColorDefaultFill = Color{ARGB: "FFF0F0F0"}
)

// NewColor creates a Color from a hex string.
// Accepts "#RGB", "RRGGBB" or "AARRGGBB", with or without a leading "#",
// and the keyword "transparent". Anything else yields the zero Color.
func NewColor(s string) Color {
	c, _ := ParseColor(s)
	return c
}

// ParseColor is like NewColor but reports whether s was understood.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "transparent") {
		return ColorTransparent, true
	}
	s = strings.ToUpper(strings.TrimPrefix(s, "#"))
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
		fallthrough
	case 6:
		s = "FF" + s
	}
	if !isValidARGB(s) {
		return Color{}, false
	}
	return Color{ARGB: s}, true
}

// RGBA builds a Color from its components.
func RGBA(r, g, b, a uint8) Color {
	const digits = "0123456789ABCDEF"
	buf := make([]byte, 0, 8)
	for _, v := range []uint8{a, r, g, b} {
		buf = append(buf, digits[v>>4], digits[v&0x0F])
	}
	return Color{ARGB: string(buf)}
}

// isValidARGB checks that s is exactly 8 upper-case hex characters.
func isValidARGB(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// IsSet reports whether the color was specified.
func (c Color) IsSet() bool { return c.ARGB != "" }

// IsTransparent reports whether the color is fully transparent.
func (c Color) IsTransparent() bool { return c.IsSet() && c.GetAlpha() == 0 }

// GetRed returns the red component (0-255).
func (c Color) GetRed() uint8 { return parseHexByte(c.ARGB, 2) }

// GetGreen returns the green component (0-255).
func (c Color) GetGreen() uint8 { return parseHexByte(c.ARGB, 4) }

// GetBlue returns the blue component (0-255).
func (c Color) GetBlue() uint8 { return parseHexByte(c.ARGB, 6) }

// GetAlpha returns the alpha component (0-255).
func (c Color) GetAlpha() uint8 { return parseHexByte(c.ARGB, 0) }

// Hex returns the color as "#RRGGBB", or "transparent" when alpha is zero.
func (c Color) Hex() string {
	if !c.IsSet() {
		return ""
	}
	if c.IsTransparent() {
		return "transparent"
	}
	return "#" + c.ARGB[2:]
}

func (c Color) String() string { return c.Hex() }

// parseHexByte parses two hex characters at offset into a uint8.
// Returns 0 on any error (out of range, invalid chars).
func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	h := hexVal(s[offset])
	l := hexVal(s[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// FontWeight is the run weight. The empty value means unspecified.
type FontWeight string

const (
	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"
)

// FontStyle is the run slant. The empty value means unspecified.
type FontStyle string

const (
	StyleNormal FontStyle = "normal"
	StyleItalic FontStyle = "italic"
)

// HorizontalAlignment represents horizontal paragraph alignment.
type HorizontalAlignment string

const (
	AlignLeft    HorizontalAlignment = "left"
	AlignCenter  HorizontalAlignment = "center"
	AlignRight   HorizontalAlignment = "right"
	AlignJustify HorizontalAlignment = "justify"
)

// ParseAlignment maps a source alignment name to a HorizontalAlignment.
// Unknown and empty names map to AlignLeft.
func ParseAlignment(s string) HorizontalAlignment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "centre", "ctr":
		return AlignCenter
	case "right", "r":
		return AlignRight
	case "justify", "just", "distributed", "dist":
		return AlignJustify
	default:
		return AlignLeft
	}
}

// BorderStyle represents the border line style.
type BorderStyle string

const (
	BorderNone   BorderStyle = "none"
	BorderSolid  BorderStyle = "solid"
	BorderDashed BorderStyle = "dashed"
	BorderDotted BorderStyle = "dotted"
)

// Border represents a shape outline.
type Border struct {
	Style BorderStyle
	Width float64 // in pixels
	Color Color
}

// RunProps are the optionally specified visual attributes of a text run.
// They are used on runs and as paragraph- and shape-level defaults.
type RunProps struct {
	FontFamily string
	FontSize   float64 // pixels; 0 means unspecified
	Color      Color
	Weight     FontWeight
	Style      FontStyle
}

// ShapeStyle is the fully resolved box style of a shape.
type ShapeStyle struct {
	Fill    Color
	Border  Border
	Opacity float64
}

// RunStyle is the fully resolved style of a text run. Every field is populated.
type RunStyle struct {
	FontStack []string
	FontSize  float64
	Color     Color
	Weight    FontWeight
	Style     FontStyle
}

// Bold reports whether the run is bold.
func (s RunStyle) Bold() bool { return s.Weight == WeightBold }

// Italic reports whether the run is italic.
func (s RunStyle) Italic() bool { return s.Style == StyleItalic }

// ResolveShapeStyle resolves the box style of a shape with DefaultOptions.
func ResolveShapeStyle(s *Shape) ShapeStyle {
	return DefaultOptions().ResolveShapeStyle(s)
}

// ResolveRunStyle resolves the style of a run with DefaultOptions.
func ResolveRunStyle(run *TextRun, para *Paragraph, s *Shape) RunStyle {
	return DefaultOptions().ResolveRunStyle(run, para, s)
}

// ResolveShapeStyle merges the shape fill with the configured default.
func (o *Options) ResolveShapeStyle(s *Shape) ShapeStyle {
	st := ShapeStyle{
		Fill:    s.Fill,
		Border:  Border{Style: BorderNone},
		Opacity: 1,
	}
	if !st.Fill.IsSet() {
		st.Fill = o.DefaultFill
	}
	if s.Border != nil && s.Border.Style != BorderNone && s.Border.Style != "" {
		st.Border = *s.Border
		if st.Border.Width <= 0 {
			st.Border.Width = 1
		}
		if !st.Border.Color.IsSet() {
			st.Border.Color = ColorBlack
		}
	}
	if s.Opacity != nil {
		st.Opacity = clamp01(*s.Opacity)
	}
	return st
}

// ResolveRunStyle merges run, paragraph and shape properties with the
// configured defaults. The first specified value wins in that order.
// para and s may be nil.
func (o *Options) ResolveRunStyle(run *TextRun, para *Paragraph, s *Shape) RunStyle {
	layers := make([]RunProps, 0, 3)
	if run != nil {
		layers = append(layers, run.RunProps)
	}
	if para != nil {
		layers = append(layers, para.Font)
	}
	if s != nil {
		layers = append(layers, s.Font)
	}

	var family string
	st := RunStyle{}
	for _, l := range layers {
		if family == "" {
			family = l.FontFamily
		}
		if st.FontSize <= 0 && l.FontSize > 0 {
			st.FontSize = l.FontSize
		}
		if !st.Color.IsSet() {
			st.Color = l.Color
		}
		if st.Weight == "" {
			st.Weight = l.Weight
		}
		if st.Style == "" {
			st.Style = l.Style
		}
	}

	st.FontStack = o.fontStack(family)
	if st.FontSize <= 0 {
		st.FontSize = o.DefaultFontSize
	}
	if !st.Color.IsSet() {
		st.Color = o.DefaultTextColor
	}
	if st.Weight == "" {
		st.Weight = WeightNormal
	}
	if st.Style == "" {
		st.Style = StyleNormal
	}
	return st
}

// fontStack expands a family name into a prioritized fallback list.
func (o *Options) fontStack(family string) []string {
	family = strings.TrimSpace(family)
	if family == "" {
		return append([]string(nil), o.FontStack...)
	}
	for name, stack := range o.FontSubstitutes {
		if strings.EqualFold(name, family) {
			return append([]string(nil), stack...)
		}
	}
	stack := []string{family}
	for _, f := range o.FontFallbacks {
		dup := false
		for _, have := range stack {
			if strings.EqualFold(have, f) {
				dup = true
				break
			}
		}
		if !dup {
			stack = append(stack, f)
		}
	}
	return stack
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
