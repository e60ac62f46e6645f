// Package syncfusion builds goslide documents from Syncfusion slide JSON:
// the list of slide items a Syncfusion presentation exports for one slide.
//
// Positions, sizes and line widths are given in points and converted to
// pixels. Font sizes are carried as given unless Options.FontScale says
// otherwise.
package syncfusion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	goslide "github.com/VantageDataChat/GoSlide"
)

// ErrUnsupportedJSON is returned when the input is neither a JSON array nor
// a JSON object.
var ErrUnsupportedJSON = errors.New("unsupported slide JSON")

// Options configures the importer.
type Options struct {
	// PixelsPerPoint converts item geometry. Default: 96/72.
	PixelsPerPoint float64
	// FontScale multiplies font sizes. Default: 1.
	FontScale float64
	// CanvasWidth and CanvasHeight size the slide in pixels. Default: 960x720.
	CanvasWidth  float64
	CanvasHeight float64
	// Background paints the slide. Default: white.
	Background goslide.Color
	// SkipUnsupported drops items whose kind has no paint strategy instead of
	// failing.
	SkipUnsupported bool
}

// DefaultOptions returns the default importer options.
func DefaultOptions() *Options {
	return &Options{
		PixelsPerPoint: goslide.PixelsPerPoint,
		FontScale:      1,
		CanvasWidth:    goslide.DefaultCanvasWidth,
		CanvasHeight:   goslide.DefaultCanvasHeight,
		Background:     goslide.ColorWhite,
	}
}

func (o *Options) withDefaults() *Options {
	d := DefaultOptions()
	if o == nil {
		return d
	}
	c := *o
	if c.PixelsPerPoint <= 0 {
		c.PixelsPerPoint = d.PixelsPerPoint
	}
	if c.FontScale <= 0 {
		c.FontScale = d.FontScale
	}
	if c.CanvasWidth <= 0 {
		c.CanvasWidth = d.CanvasWidth
	}
	if c.CanvasHeight <= 0 {
		c.CanvasHeight = d.CanvasHeight
	}
	if !c.Background.IsSet() {
		c.Background = d.Background
	}
	return &c
}

// ReadFile decodes the slide JSON file at path.
func ReadFile(path string, opts *Options) (*goslide.SlideDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Read decodes slide JSON from r.
func Read(r io.Reader, opts *Options) (*goslide.SlideDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data, opts)
}

// Decode builds a document from slide JSON. The input may be an array of
// items, a single item, or an object holding the array under one of the
// keys slides, items or content (in either case).
func Decode(data []byte, opts *Options) (*goslide.SlideDocument, error) {
	o := opts.withDefaults()
	items, err := topLevelItems(data)
	if err != nil {
		return nil, err
	}

	var flat []*item
	for i, msg := range items {
		its, err := flatten(msg)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		for _, it := range its {
			if it.skip() {
				goslide.Logger().Debug("skipping slide item", slog.String("info", it.Info))
				continue
			}
			flat = append(flat, it)
		}
	}

	ids := assignIDs(flat)
	raws := make([]goslide.RawShape, 0, len(flat))
	for i, it := range flat {
		raw, err := o.toRawShape(it, ids[i])
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		if o.SkipUnsupported {
			if _, err := goslide.ParseShapeKind(raw.Kind); err != nil {
				goslide.Logger().Warn("skipping unsupported slide item",
					slog.String("id", raw.ID), slog.String("kind", raw.Kind))
				continue
			}
		}
		raws = append(raws, raw)
	}

	doc, err := goslide.NewDocument(o.CanvasWidth, o.CanvasHeight, raws)
	if err != nil {
		return nil, err
	}
	doc.Background = o.Background
	goslide.Logger().Debug("decoded slide JSON", slog.Int("shapes", len(doc.Shapes)))
	return doc, nil
}

var wrapperKeys = []string{"slides", "Slides", "items", "Items", "content", "Content"}

func topLevelItems(data []byte) ([]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnsupportedJSON)
	}
	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode slide items: %w", err)
		}
		return items, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("decode slide object: %w", err)
		}
		for _, key := range wrapperKeys {
			var items []json.RawMessage
			if v, ok := obj[key]; ok && json.Unmarshal(v, &items) == nil {
				return items, nil
			}
		}
		return []json.RawMessage{data}, nil
	}
	return nil, fmt.Errorf("%w: starts with %q", ErrUnsupportedJSON, data[0])
}

// flatten decodes one entry, expanding container entries that hold their
// items under items or Items.
func flatten(msg json.RawMessage) ([]*item, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		return nil, fmt.Errorf("decode slide item: %w", err)
	}
	for _, key := range []string{"items", "Items"} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		var nested []json.RawMessage
		if err := json.Unmarshal(v, &nested); err != nil {
			return nil, fmt.Errorf("decode nested %s: %w", key, err)
		}
		var out []*item
		for _, n := range nested {
			its, err := flatten(n)
			if err != nil {
				return nil, err
			}
			out = append(out, its...)
		}
		return out, nil
	}

	it := new(item)
	if err := json.Unmarshal(msg, it); err != nil {
		return nil, fmt.Errorf("decode slide item: %w", err)
	}
	it.extra = extraFields(fields)
	return []*item{it}, nil
}

// extraFields keeps the scalar fields the importer does not interpret.
func extraFields(fields map[string]json.RawMessage) map[string]string {
	var extra map[string]string
	for k, v := range fields {
		if knownFields[k] {
			continue
		}
		s, ok := scalarString(v)
		if !ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[strings.ToLower(k)] = s
	}
	return extra
}

func scalarString(v json.RawMessage) (string, bool) {
	var x any
	if err := json.Unmarshal(v, &x); err != nil {
		return "", false
	}
	switch t := x.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}

// assignIDs names every item: "shape_<ShapeId>" when the item carries one,
// otherwise "shape_<position>", moving past numbers already taken.
func assignIDs(items []*item) []string {
	ids := make([]string, len(items))
	taken := make(map[string]bool, len(items))
	for i, it := range items {
		if it.ShapeId != nil {
			ids[i] = shapeID(*it.ShapeId)
			taken[ids[i]] = true
		}
	}
	for i := range items {
		if ids[i] != "" {
			continue
		}
		n := i + 1
		for taken[shapeID(n)] {
			n++
		}
		ids[i] = shapeID(n)
		taken[ids[i]] = true
	}
	return ids
}

// pixels converts a length in points.
func (o *Options) pixels(pt float64) float64 {
	if o.PixelsPerPoint == goslide.PixelsPerPoint {
		return goslide.Point(pt)
	}
	return pt * o.PixelsPerPoint
}

func (o *Options) toRawShape(it *item, id string) (goslide.RawShape, error) {
	raw := goslide.RawShape{
		ID:       id,
		Name:     it.Name,
		Kind:     it.kind(),
		Left:     o.pixels(deref(it.Left, 0)),
		Top:      o.pixels(deref(it.Top, 0)),
		Width:    o.pixels(deref(it.Width, 100)),
		Height:   o.pixels(deref(it.Height, 50)),
		Rotation: deref(it.Rotation, 0),
		ZIndex:   deref(it.ZIndex, 0),
		Metadata: it.extra,
	}
	if it.SlideItemType != "" {
		if raw.Metadata == nil {
			raw.Metadata = make(map[string]string)
		}
		raw.Metadata["slide_item_type"] = it.SlideItemType
	}
	if it.Opacity != nil {
		op := *it.Opacity / 100
		raw.Opacity = &op
	}

	if it.FillFormat != nil {
		fill, err := it.FillFormat.color()
		if err != nil {
			return raw, fmt.Errorf("shape %s: fill: %w", raw.ID, err)
		}
		raw.Fill = fill
	}
	if it.LineFormat != nil {
		b, err := it.LineFormat.border(o.pixels)
		if err != nil {
			return raw, fmt.Errorf("shape %s: line: %w", raw.ID, err)
		}
		raw.Border = b
	}
	if it.TextBody != nil {
		paras, err := o.paragraphs(it.TextBody.Paragraphs)
		if err != nil {
			return raw, fmt.Errorf("shape %s: %w", raw.ID, err)
		}
		raw.Paragraphs = paras
	}
	return raw, nil
}

func (o *Options) paragraphs(in []paragraph) ([]goslide.Paragraph, error) {
	out := make([]goslide.Paragraph, 0, len(in))
	for i, pd := range in {
		para := goslide.Paragraph{
			Align: goslide.ParseAlignment(pd.HorizontalAlignment),
			Level: pd.IndentLevelNumber,
		}
		if pd.ListFormat != nil && strings.EqualFold(pd.ListFormat.Type, "Bulleted") {
			para.Bullet = pd.ListFormat.BulletCharacter
			if para.Bullet == "" {
				para.Bullet = "•"
			}
		}
		if pd.Font != nil {
			props, err := o.runProps(pd.Font)
			if err != nil {
				return nil, fmt.Errorf("paragraph %d: %w", i+1, err)
			}
			para.Font = props
		}
		for k, part := range pd.TextParts {
			run := goslide.TextRun{Text: part.Text}
			if part.Font != nil {
				props, err := o.runProps(part.Font)
				if err != nil {
					return nil, fmt.Errorf("paragraph %d part %d: %w", i+1, k+1, err)
				}
				run.RunProps = props
			}
			para.Runs = append(para.Runs, run)
		}
		// a paragraph without parts still carries its plain text
		if len(pd.TextParts) == 0 && strings.TrimSpace(pd.Text) != "" {
			para.Runs = append(para.Runs, goslide.TextRun{Text: pd.Text})
		}
		out = append(out, para)
	}
	return out, nil
}

func (o *Options) runProps(f *fontData) (goslide.RunProps, error) {
	props := goslide.RunProps{
		FontFamily: f.FontName,
		FontSize:   f.FontSize * o.FontScale,
	}
	if f.Color != nil {
		c, err := f.Color.parse()
		if err != nil {
			return props, fmt.Errorf("font color: %w", err)
		}
		props.Color = c
	}
	if f.Bold != nil {
		props.Weight = goslide.WeightNormal
		if *f.Bold {
			props.Weight = goslide.WeightBold
		}
	}
	if f.Italic != nil {
		props.Style = goslide.StyleNormal
		if *f.Italic {
			props.Style = goslide.StyleItalic
		}
	}
	return props, nil
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
