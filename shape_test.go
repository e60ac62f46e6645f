package goslide

import (
	"errors"
	"math"
	"testing"
)

func TestParseShapeKind(t *testing.T) {
	for in, want := range map[string]ShapeKind{
		"Rectangle":    ShapeRectangle,
		"rectangle":    ShapeRectangle,
		"RightArrow":   ShapeRightArrow,
		" rightarrow ": ShapeRightArrow,
		"LeftArrow":    ShapeLeftArrow,
		"uparrow":      ShapeUpArrow,
		"DOWNARROW":    ShapeDownArrow,
	} {
		got, err := ParseShapeKind(in)
		if err != nil || got != want {
			t.Errorf("ParseShapeKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseShapeKind("Ellipse"); !errors.Is(err, ErrUnknownShapeKind) {
		t.Errorf("expected ErrUnknownShapeKind, got %v", err)
	}
}

func TestNewShape(t *testing.T) {
	s, err := NewShape(RawShape{
		ID:       "shape_4",
		Kind:     "Rectangle",
		Left:     65.6,
		Top:      49.8,
		Width:    158.3,
		Height:   51.7,
		Rotation: -90,
		Fill:     "#f0f0f0",
		Metadata: map[string]string{"k": "v"},
	})
	if err != nil {
		t.Fatalf("NewShape: %v", err)
	}
	if s.Kind != ShapeRectangle || s.Fill.Hex() != "#F0F0F0" {
		t.Errorf("unexpected shape %+v", s)
	}
	if s.Rotation != 270 {
		t.Errorf("rotation = %g, want 270", s.Rotation)
	}
}

func TestNewShape_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  RawShape
		want error
	}{
		{"unknown kind", RawShape{ID: "a", Kind: "Star", Width: 1, Height: 1}, ErrUnknownShapeKind},
		{"negative width", RawShape{ID: "a", Kind: "Rectangle", Width: -1, Height: 1}, ErrInvalidGeometry},
		{"bad font size", RawShape{ID: "a", Kind: "Rectangle", Font: RunProps{FontSize: -2}}, ErrInvalidFontSize},
		{"nan opacity", RawShape{ID: "a", Kind: "Rectangle", Opacity: ptr(math.NaN())}, ErrInvalidOpacity},
		{"nan rotation", RawShape{ID: "a", Kind: "Rectangle", Rotation: math.NaN()}, ErrInvalidGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShape(tt.raw)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			var se *ShapeError
			if !errors.As(err, &se) || se.ID != "a" {
				t.Errorf("expected ShapeError for %q, got %v", "a", err)
			}
		})
	}
	if _, err := NewShape(RawShape{ID: "a", Kind: "Rectangle", Fill: "nope"}); err == nil {
		t.Error("expected error for invalid fill")
	}
}

func ptr[T any](v T) *T { return &v }

func TestNewShape_CopiesRecord(t *testing.T) {
	raw := RawShape{
		ID: "a", Kind: "Rectangle", Width: 10, Height: 10,
		Opacity: ptr(0.5),
		Border:  &Border{Style: BorderSolid, Width: 2, Color: ColorBlack},
		Paragraphs: []Paragraph{
			{Bullet: "•", Runs: []TextRun{{Text: "first"}}},
		},
	}
	doc, err := NewDocument(960, 720, []RawShape{raw})
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	raw.Paragraphs[0].Runs[0].Text = "changed"
	raw.Paragraphs[0].Bullet = "-"
	*raw.Opacity = 1
	raw.Border.Width = 9

	s := doc.GetShape("a")
	if got := s.Paragraphs[0].Runs[0].Text; got != "first" {
		t.Errorf("run text = %q, want first", got)
	}
	if s.Paragraphs[0].Bullet != "•" {
		t.Errorf("bullet = %q", s.Paragraphs[0].Bullet)
	}
	if *s.Opacity != 0.5 || s.Border.Width != 2 {
		t.Errorf("opacity/border shared with record: %g %g", *s.Opacity, s.Border.Width)
	}
}

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument(960, 720, []RawShape{
		{ID: "shape_4", Kind: "Rectangle", Width: 10, Height: 10},
		{ID: "shape_3", Kind: "RightArrow", Width: 10, Height: 10},
	})
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	if doc.GetShapeCount() != 2 {
		t.Errorf("shape count = %d", doc.GetShapeCount())
	}
	if s := doc.GetShape("shape_3"); s == nil || s.Kind != ShapeRightArrow {
		t.Errorf("GetShape(shape_3) = %+v", s)
	}
	if doc.GetShape("missing") != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestNewDocument_Errors(t *testing.T) {
	_, err := NewDocument(960, 720, []RawShape{
		{ID: "a", Kind: "Rectangle"},
		{ID: "a", Kind: "RightArrow"},
	})
	if !errors.Is(err, ErrDuplicateShapeID) {
		t.Errorf("expected ErrDuplicateShapeID, got %v", err)
	}
	var se *ShapeError
	if !errors.As(err, &se) || se.Index != 1 {
		t.Errorf("expected error at index 1, got %v", err)
	}

	_, err = NewDocument(960, 720, []RawShape{
		{ID: "a", Kind: "Rectangle"},
		{ID: "b", Kind: "Hexagon"},
	})
	if !errors.As(err, &se) || se.Index != 1 || !errors.Is(err, ErrUnknownShapeKind) {
		t.Errorf("expected unknown kind at index 1, got %v", err)
	}

	if _, err := NewDocument(0, 720, nil); !errors.Is(err, ErrInvalidCanvas) {
		t.Errorf("expected ErrInvalidCanvas, got %v", err)
	}
}

func TestShapeBuilders(t *testing.T) {
	s := &Shape{ID: "s", Kind: ShapeRectangle}
	p := s.CreateParagraph()
	p.CreateTextRun("Hello").SetSize(26).SetColor(NewColor("#156082")).SetBold(true).SetItalic(true).SetFamily("Aptos")
	if len(s.Paragraphs) != 1 || len(s.Paragraphs[0].Runs) != 1 {
		t.Fatalf("unexpected structure %+v", s.Paragraphs)
	}
	r := s.Paragraphs[0].Runs[0]
	if r.FontSize != 26 || r.Weight != WeightBold || r.Style != StyleItalic || r.FontFamily != "Aptos" {
		t.Errorf("run = %+v", r)
	}
	if s.Paragraphs[0].Align != AlignLeft {
		t.Errorf("align = %q", s.Paragraphs[0].Align)
	}
}
