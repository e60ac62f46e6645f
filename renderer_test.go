package goslide

import (
	"errors"
	"reflect"
	"testing"
)

func titleDoc() *SlideDocument {
	return &SlideDocument{
		Width:  DefaultCanvasWidth,
		Height: DefaultCanvasHeight,
		Shapes: []Shape{{
			ID:     "shape_4",
			Kind:   ShapeRectangle,
			Left:   65.6,
			Top:    49.8,
			Width:  158.3,
			Height: 51.7,
			Fill:   NewColor("#f0f0f0"),
			Paragraphs: []Paragraph{{
				Align: AlignLeft,
				Runs: []TextRun{{
					Text:     "Title here",
					RunProps: RunProps{Color: NewColor("#156082"), FontSize: 26},
				}},
			}},
		}},
	}
}

// sampleDoc mirrors the hand-authored slide: titles, sections, a bulleted
// list, a header bar and an arrow.
func sampleDoc() *SlideDocument {
	blue := NewColor("#156082")
	green := NewColor("#4EA72E")
	item := func(level int, text string, props RunProps) Paragraph {
		return Paragraph{Level: level, Bullet: "•", Runs: []TextRun{{Text: text, RunProps: props}}}
	}
	return &SlideDocument{
		Width:  960,
		Height: 720,
		Shapes: []Shape{
			titleDoc().Shapes[0],
			{ID: "shape_5", Kind: ShapeRectangle, Left: 64.6, Top: 158.2, Width: 81.3, Height: 32.3,
				Paragraphs: []Paragraph{{Runs: []TextRun{{Text: "Section", RunProps: RunProps{Color: blue, FontSize: 14}}}}}},
			{ID: "shape_7", Kind: ShapeRectangle, Left: 456.3, Top: 157.4, Width: 81.3, Height: 32.3,
				Paragraphs: []Paragraph{{Runs: []TextRun{{Text: "Section", RunProps: RunProps{Color: blue, FontSize: 14}}}}}},
			{ID: "shape_8", Kind: ShapeRectangle, Left: 65.2, Top: 241.4, Width: 164.5, Height: 145.4,
				Font: RunProps{Color: green, FontSize: 14},
				Paragraphs: []Paragraph{
					item(0, "Bullet points", RunProps{}),
					item(1, "Indent 1", RunProps{}),
					item(1, "Indent 2", RunProps{}),
					item(0, "Bullet points", RunProps{Weight: WeightBold}),
					item(0, "Bullet points", RunProps{Color: blue, Style: StyleItalic}),
				}},
			{ID: "shape_2", Kind: ShapeRectangle, Left: 683.4, Top: 306.3, Width: 484.6, Height: 62.9,
				Paragraphs: []Paragraph{{Align: AlignCenter, Runs: []TextRun{{Text: "Header text", RunProps: RunProps{Color: ColorWhite, FontSize: 18}}}}}},
			{ID: "shape_3", Kind: ShapeRightArrow, Left: 297.1, Top: 512, Width: 158.9, Height: 60.6},
		},
	}
}

func TestRender_TitleRectangle(t *testing.T) {
	tree, err := Render(titleDoc())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if tree.Width != 960 || tree.Height != 720 {
		t.Errorf("canvas = %gx%g, want 960x720", tree.Width, tree.Height)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 node, got %d", len(tree.Children))
	}
	n := tree.Children[0]
	want := BoxRect{Left: 65.6, Top: 49.8, Width: 158.3, Height: 51.7}
	if n.Box != want {
		t.Errorf("box = %+v, want %+v", n.Box, want)
	}
	if n.Paint != PaintRectangle {
		t.Errorf("paint = %v, want rectangle", n.Paint)
	}
	if n.Style.Fill.Hex() != "#F0F0F0" {
		t.Errorf("fill = %s, want #F0F0F0", n.Style.Fill.Hex())
	}
	if len(n.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(n.Lines))
	}
	if got := n.Lines[0].Text(); got != "Title here" {
		t.Errorf("line text = %q", got)
	}
	st := n.Lines[0].Runs[0].Style
	if st.Color.Hex() != "#156082" || st.FontSize != 26 {
		t.Errorf("run style = %+v", st)
	}
	if n.Glyph != "" {
		t.Errorf("rectangle should carry no glyph, got %q", n.Glyph)
	}
}

func TestRender_ZOrderStable(t *testing.T) {
	doc := sampleDoc()
	tree, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var ids []string
	for _, n := range tree.Children {
		ids = append(ids, n.ID)
	}
	want := []string{"shape_4", "shape_5", "shape_7", "shape_8", "shape_2", "shape_3"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("paint order = %v, want %v", ids, want)
	}
}

func TestRender_ZIndexOrdering(t *testing.T) {
	doc := &SlideDocument{Width: 100, Height: 100, Shapes: []Shape{
		{ID: "top", Kind: ShapeRectangle, Width: 10, Height: 10, ZIndex: 5},
		{ID: "a", Kind: ShapeRectangle, Width: 10, Height: 10},
		{ID: "below", Kind: ShapeRectangle, Width: 10, Height: 10, ZIndex: -1},
		{ID: "b", Kind: ShapeRightArrow, Width: 10, Height: 10},
		{ID: "top2", Kind: ShapeRectangle, Width: 10, Height: 10, ZIndex: 5},
	}}
	tree, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var ids []string
	for _, n := range tree.Children {
		ids = append(ids, n.ID)
	}
	want := []string{"below", "a", "b", "top", "top2"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("paint order = %v, want %v", ids, want)
	}
	// input order is untouched
	if doc.Shapes[0].ID != "top" || doc.Shapes[2].ID != "below" {
		t.Error("Render reordered the document shapes")
	}
}

func TestRender_UnknownKind(t *testing.T) {
	doc := titleDoc()
	doc.Shapes = append(doc.Shapes, Shape{ID: "shape_9", Kind: ShapeKind("Ellipse"), Width: 10, Height: 10})
	tree, err := Render(doc)
	if !errors.Is(err, ErrUnknownShapeKind) {
		t.Fatalf("expected ErrUnknownShapeKind, got %v", err)
	}
	if tree != nil {
		t.Error("expected no tree on failure")
	}
	var se *ShapeError
	if !errors.As(err, &se) || se.ID != "shape_9" || se.Index != 1 {
		t.Errorf("unexpected error location: %v", err)
	}
}

func TestRender_NegativeWidth(t *testing.T) {
	doc := titleDoc()
	doc.Shapes[0].Width = -1
	tree, err := Render(doc)
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
	if tree != nil {
		t.Error("expected no tree on failure")
	}
}

func TestRender_DuplicateID(t *testing.T) {
	doc := titleDoc()
	doc.Shapes = append(doc.Shapes, doc.Shapes[0])
	if _, err := Render(doc); !errors.Is(err, ErrDuplicateShapeID) {
		t.Fatalf("expected ErrDuplicateShapeID, got %v", err)
	}
}

func TestRender_InvalidCanvas(t *testing.T) {
	doc := titleDoc()
	doc.Height = 0
	if _, err := Render(doc); !errors.Is(err, ErrInvalidCanvas) {
		t.Fatalf("expected ErrInvalidCanvas, got %v", err)
	}
}

func TestRender_ArrowWithoutText(t *testing.T) {
	doc := &SlideDocument{Width: 960, Height: 720, Shapes: []Shape{
		{ID: "shape_3", Kind: ShapeRightArrow, Left: 297.1, Top: 512, Width: 158.9, Height: 60.6},
	}}
	tree, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	n := tree.Children[0]
	if n.Paint != PaintRightArrow {
		t.Errorf("paint = %v, want right-arrow", n.Paint)
	}
	if len(n.Lines) != 0 {
		t.Errorf("expected no lines, got %d", len(n.Lines))
	}
	if n.Glyph != "→" || n.GlyphColor != ColorWhite {
		t.Errorf("glyph = %q %v", n.Glyph, n.GlyphColor)
	}
	if pts := Polygon(n.Outline); len(pts) != 7 {
		t.Errorf("expected 7 outline points, got %d", len(pts))
	}
}

func TestRender_ArrowDirections(t *testing.T) {
	tests := []struct {
		kind  ShapeKind
		paint PaintStrategy
		glyph string
	}{
		{ShapeRightArrow, PaintRightArrow, "→"},
		{ShapeLeftArrow, PaintLeftArrow, "←"},
		{ShapeUpArrow, PaintUpArrow, "↑"},
		{ShapeDownArrow, PaintDownArrow, "↓"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			doc := &SlideDocument{Width: 960, Height: 720, Shapes: []Shape{
				{ID: "a", Kind: tt.kind, Left: 10, Top: 10, Width: 100, Height: 100},
			}}
			tree, err := Render(doc)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			n := tree.Children[0]
			if n.Paint != tt.paint || !n.Paint.IsArrow() {
				t.Errorf("paint = %v, want %v", n.Paint, tt.paint)
			}
			if n.Glyph != tt.glyph || n.GlyphColor != ColorWhite {
				t.Errorf("glyph = %q %v, want %q", n.Glyph, n.GlyphColor, tt.glyph)
			}
			if pts := Polygon(n.Outline); len(pts) != 7 {
				t.Errorf("expected 7 outline points, got %d", len(pts))
			}
		})
	}
}

func TestRender_ArrowWithText(t *testing.T) {
	doc := &SlideDocument{Width: 960, Height: 720, Shapes: []Shape{
		{ID: "a", Kind: ShapeRightArrow, Width: 100, Height: 40,
			Paragraphs: []Paragraph{{Runs: []TextRun{{Text: "Next"}}}}},
	}}
	tree, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	n := tree.Children[0]
	if n.Glyph != "" {
		t.Errorf("arrow with text should not carry a glyph, got %q", n.Glyph)
	}
	if n.Paint != PaintRightArrow || len(n.Lines) != 1 {
		t.Errorf("unexpected node %+v", n)
	}
}

func TestRender_Deterministic(t *testing.T) {
	doc := sampleDoc()
	a, err := Render(doc)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	b, err := Render(doc)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two renders of the same document differ")
	}
	c, err := Render(sampleDoc())
	if err != nil {
		t.Fatalf("third render: %v", err)
	}
	if !reflect.DeepEqual(a, c) {
		t.Error("renders of equal documents differ")
	}
}

func TestRender_DoesNotMutate(t *testing.T) {
	doc := sampleDoc()
	doc.Shapes[0].Metadata = map[string]string{"bullet_indent_class": "True"}
	if _, err := Render(doc); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := sampleDoc()
	want.Shapes[0].Metadata = map[string]string{"bullet_indent_class": "True"}
	if !reflect.DeepEqual(doc, want) {
		t.Error("Render modified its input")
	}
}

func TestRender_MetadataIsCopied(t *testing.T) {
	doc := titleDoc()
	doc.Shapes[0].Metadata = map[string]string{"slide_item_type": "AutoShape"}
	tree, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	tree.Children[0].Metadata["slide_item_type"] = "changed"
	if doc.Shapes[0].Metadata["slide_item_type"] != "AutoShape" {
		t.Error("node metadata aliases the document")
	}
}

func TestRender_OffCanvasIsClipped(t *testing.T) {
	doc := sampleDoc()
	tree, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// shape_2 runs past the right edge (683.4 + 484.6 > 960)
	if n := tree.Node("shape_2"); n == nil || n.Clip != ClipPartial {
		t.Errorf("shape_2 clip = %v, want partial", n)
	}
	if n := tree.Node("shape_4"); n == nil || n.Clip != ClipNone {
		t.Errorf("shape_4 clip = %v, want none", n)
	}
}

func TestRender_BackgroundDefault(t *testing.T) {
	tree, err := Render(titleDoc())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if tree.Background != ColorWhite {
		t.Errorf("background = %v, want white", tree.Background)
	}
	doc := titleDoc()
	doc.Background = NewColor("003366")
	tree, err = Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if tree.Background.Hex() != "#003366" {
		t.Errorf("background = %v, want #003366", tree.Background)
	}
}

func TestOptions_CustomDefaults(t *testing.T) {
	opts := DefaultOptions()
	opts.DefaultFill = NewColor("#FF6600")
	opts.ArrowGlyphs[ShapeRightArrow] = ">"
	doc := &SlideDocument{Width: 10, Height: 10, Shapes: []Shape{
		{ID: "a", Kind: ShapeRightArrow, Width: 10, Height: 10},
	}}
	tree, err := opts.Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	n := tree.Children[0]
	if n.Style.Fill.Hex() != "#FF6600" || n.Glyph != ">" {
		t.Errorf("custom options not applied: fill=%v glyph=%q", n.Style.Fill, n.Glyph)
	}
}
