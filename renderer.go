package goslide

import (
	"cmp"
	"log/slog"
	"maps"
	"slices"

	"seehuhn.de/go/geom/path"
)

// Options configures style defaults for resolution, composition and
// rendering.
type Options struct {
	// DefaultFill is used for shapes without a fill. Default: #F0F0F0.
	DefaultFill Color
	// DefaultTextColor is used for runs without a color. Default: black.
	DefaultTextColor Color
	// DefaultFontSize in pixels for runs without a size. Default: 18.
	DefaultFontSize float64
	// FontStack is the prioritized font list for runs without a family.
	FontStack []string
	// FontFallbacks are appended after an explicit family.
	FontFallbacks []string
	// FontSubstitutes replaces a family (matched case-insensitively) with a
	// whole stack.
	FontSubstitutes map[string][]string
	// IndentStep is the indent in pixels added per paragraph level. Default: 20.
	IndentStep float64
	// ArrowGlyphs maps an arrow kind to the glyph centered in arrows that
	// carry no text. Default: → ← ↑ ↓.
	ArrowGlyphs map[ShapeKind]string
	// ArrowGlyphColor paints the arrow glyph. Default: white.
	ArrowGlyphColor Color
	// Background is used when the document does not set one. Default: white.
	Background Color
}

// DefaultFontStack is the stack used for runs that name no font family.
var DefaultFontStack = []string{"Segoe UI", "Roboto", "Helvetica", "Arial", "sans-serif"}

// DefaultOptions returns the default options.
func DefaultOptions() *Options {
	return &Options{
		DefaultFill:      ColorDefaultFill,
		DefaultTextColor: ColorBlack,
		DefaultFontSize:  18,
		FontStack:        slices.Clone(DefaultFontStack),
		FontFallbacks:    []string{"Arial", "sans-serif"},
		FontSubstitutes: map[string][]string{
			"Aptos": slices.Clone(DefaultFontStack),
		},
		IndentStep: 20,
		ArrowGlyphs: map[ShapeKind]string{
			ShapeRightArrow: "→",
			ShapeLeftArrow:  "←",
			ShapeUpArrow:    "↑",
			ShapeDownArrow:  "↓",
		},
		ArrowGlyphColor: ColorWhite,
		Background:      ColorWhite,
	}
}

// VisualTree is the output of a render: one canvas-sized root holding one node
// per shape in paint order.
type VisualTree struct {
	Width      float64
	Height     float64
	Background Color
	// Children in paint order; later nodes cover earlier ones.
	Children []Node
}

// Node is one positioned, fully styled shape.
type Node struct {
	ID       string
	Name     string
	Kind     ShapeKind
	Paint    PaintStrategy
	Box      BoxRect
	Clip     ClipState
	ZIndex   int
	Rotation float64
	Style    ShapeStyle
	// Outline is the filled region in canvas pixels, before rotation.
	Outline *path.Data
	// Glyph is painted centered in the box when non-empty.
	Glyph      string
	GlyphColor Color
	Lines      []Line
	Metadata   map[string]string
}

// Render renders doc with DefaultOptions.
func Render(doc *SlideDocument) (*VisualTree, error) {
	return DefaultOptions().Render(doc)
}

// Render projects doc into a visual tree. Children are ordered by z-index,
// ties keeping document order. Any invalid shape aborts the render with that
// shape's error and no tree. doc is not modified.
func (o *Options) Render(doc *SlideDocument) (*VisualTree, error) {
	log := Logger()
	if err := doc.firstProblem(); err != nil {
		log.Debug("render failed", slog.Any("error", err))
		return nil, err
	}

	canvas := doc.Canvas()
	tree := &VisualTree{
		Width:      doc.Width,
		Height:     doc.Height,
		Background: doc.Background,
		Children:   make([]Node, 0, len(doc.Shapes)),
	}
	if !tree.Background.IsSet() {
		tree.Background = o.Background
	}

	for i := range doc.Shapes {
		node, err := o.renderShape(&doc.Shapes[i], canvas)
		if err != nil {
			log.Debug("render failed", slog.Int("shape", i+1), slog.String("id", doc.Shapes[i].ID), slog.Any("error", err))
			return nil, &ShapeError{Index: i, ID: doc.Shapes[i].ID, Err: err}
		}
		tree.Children = append(tree.Children, node)
	}

	slices.SortStableFunc(tree.Children, func(a, b Node) int {
		return cmp.Compare(a.ZIndex, b.ZIndex)
	})

	log.Debug("rendered slide",
		slog.Int("shapes", len(tree.Children)),
		slog.Float64("width", tree.Width),
		slog.Float64("height", tree.Height))
	return tree, nil
}

func (o *Options) renderShape(s *Shape, canvas Canvas) (Node, error) {
	box, clip, err := Resolve(s, canvas)
	if err != nil {
		return Node{}, err
	}
	paint, unit, err := paintFor(s.Kind)
	if err != nil {
		return Node{}, err
	}
	node := Node{
		ID:       s.ID,
		Name:     s.Name,
		Kind:     s.Kind,
		Paint:    paint,
		Box:      box,
		Clip:     clip,
		ZIndex:   s.ZIndex,
		Rotation: s.Rotation,
		Style:    o.ResolveShapeStyle(s),
		Outline:  outlinePath(unit, box),
		Lines:    o.Compose(s),
		Metadata: maps.Clone(s.Metadata),
	}
	if paint.IsArrow() && len(s.Paragraphs) == 0 {
		node.Glyph = o.ArrowGlyphs[s.Kind]
		node.GlyphColor = o.ArrowGlyphColor
	}
	if clip == ClipFull {
		Logger().Debug("shape outside canvas", slog.String("id", s.ID))
	}
	return node, nil
}

// Node returns the child with the given identifier, or nil.
func (t *VisualTree) Node(id string) *Node {
	for i := range t.Children {
		if t.Children[i].ID == id {
			return &t.Children[i]
		}
	}
	return nil
}
