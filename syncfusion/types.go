package syncfusion

import (
	"encoding/json"
	"fmt"
	"strings"

	goslide "github.com/VantageDataChat/GoSlide"
)

// item is one Syncfusion slide item.
type item struct {
	SlideItemType string
	AutoShapeType string
	ShapeId       *int
	Name          string
	Left          *float64
	Top           *float64
	Width         *float64
	Height        *float64
	Rotation      *float64
	Opacity       *float64 // percent
	ZIndex        *int
	TextBody      *textBody
	FillFormat    *fillFormat
	LineFormat    *lineFormat
	Info          string

	extra map[string]string
}

// knownFields are interpreted, or deliberately ignored, by the importer.
// Every other scalar field ends up in the shape metadata.
var knownFields = map[string]bool{
	"SlideItemType": true,
	"AutoShapeType": true,
	"ShapeId":       true,
	"Name":          true,
	"Left":          true,
	"Top":           true,
	"Width":         true,
	"Height":        true,
	"Rotation":      true,
	"Opacity":       true,
	"ZIndex":        true,
	"TextBody":      true,
	"FillFormat":    true,
	"LineFormat":    true,
	"ImageData":     true,
	"ShadowFormat":  true,
	"Info":          true,
}

const circularReference = "Circular reference detected"

func (it *item) skip() bool {
	return strings.Contains(it.Info, circularReference)
}

func shapeID(n int) string {
	return fmt.Sprintf("shape_%d", n)
}

// kind names the shape kind: the auto shape type for auto shapes, the item
// type otherwise. Untyped items are plain rectangles.
func (it *item) kind() string {
	switch {
	case it.AutoShapeType != "" && (it.SlideItemType == "" || it.SlideItemType == "AutoShape"):
		return it.AutoShapeType
	case it.SlideItemType != "" && it.SlideItemType != "AutoShape":
		return it.SlideItemType
	}
	return string(goslide.ShapeRectangle)
}

type textBody struct {
	Paragraphs []paragraph
}

type paragraph struct {
	Text                string
	HorizontalAlignment string
	TextParts           []textPart
	ListFormat          *listFormat
	IndentLevelNumber   int
	Font                *fontData
}

type textPart struct {
	Text string
	Font *fontData
}

type listFormat struct {
	Type            string
	BulletCharacter string
}

type fontData struct {
	Color    *colorValue
	FontName string
	FontSize float64
	Bold     *bool
	Italic   *bool
}

// colorValue is a color given either as a string ("#156082", "black") or
// as an object with R, G, B and optional A components.
type colorValue struct {
	text string
	rgba *goslide.Color
}

func (c *colorValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.text = s
		return nil
	}
	var obj struct {
		R, G, B uint8
		A       *uint8
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	a := uint8(255)
	if obj.A != nil {
		a = *obj.A
	}
	col := goslide.RGBA(obj.R, obj.G, obj.B, a)
	c.rgba = &col
	return nil
}

var namedColors = map[string]goslide.Color{
	"black": goslide.ColorBlack,
	"white": goslide.ColorWhite,
	"red":   goslide.RGBA(255, 0, 0, 255),
	"green": goslide.RGBA(0, 128, 0, 255),
	"blue":  goslide.RGBA(0, 0, 255, 255),
	"gray":  goslide.RGBA(128, 128, 128, 255),
	"grey":  goslide.RGBA(128, 128, 128, 255),
}

func (c *colorValue) parse() (goslide.Color, error) {
	if c.rgba != nil {
		return *c.rgba, nil
	}
	if col, ok := namedColors[strings.ToLower(strings.TrimSpace(c.text))]; ok {
		return col, nil
	}
	col, ok := goslide.ParseColor(c.text)
	if !ok {
		return goslide.Color{}, fmt.Errorf("invalid color %q", c.text)
	}
	return col, nil
}

// fillFormat is either a bare color or an object with a fill type and color.
type fillFormat struct {
	Type  string
	Color *colorValue
}

func (f *fillFormat) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Color = &colorValue{text: s}
		return nil
	}
	type plain fillFormat
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	*f = fillFormat(p)
	return nil
}

// color returns the fill as an ARGB hex string, or "" for the default fill.
func (f *fillFormat) color() (string, error) {
	switch strings.ToLower(f.Type) {
	case "none", "nofill":
		return goslide.ColorTransparent.ARGB, nil
	}
	if f.Color == nil {
		return "", nil
	}
	c, err := f.Color.parse()
	if err != nil {
		return "", err
	}
	return c.ARGB, nil
}

type lineFormat struct {
	Color *colorValue
	Width *float64 // points
	Style string
}

func (l *lineFormat) border(pixels func(float64) float64) (*goslide.Border, error) {
	b := &goslide.Border{
		Style: borderStyle(l.Style),
		Width: pixels(deref(l.Width, 1)),
		Color: goslide.ColorBlack,
	}
	if l.Color != nil {
		c, err := l.Color.parse()
		if err != nil {
			return nil, err
		}
		b.Color = c
	}
	return b, nil
}

func borderStyle(s string) goslide.BorderStyle {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "none" || s == "nofill":
		return goslide.BorderNone
	case strings.Contains(s, "dot"):
		return goslide.BorderDotted
	case strings.Contains(s, "dash"):
		return goslide.BorderDashed
	}
	return goslide.BorderSolid
}
