package goslide

import (
	"testing"
)

func TestCompose_OneLinePerParagraph(t *testing.T) {
	s := &Shape{Kind: ShapeRectangle, Paragraphs: []Paragraph{
		{Runs: []TextRun{{Text: "Hello "}, {Text: "world", RunProps: RunProps{Weight: WeightBold}}}},
		{Align: AlignCenter, Runs: []TextRun{{Text: "Second"}}},
	}}
	lines := Compose(s)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text() != "Hello world" {
		t.Errorf("line 0 = %q", lines[0].Text())
	}
	if len(lines[0].Runs) != 2 || !lines[0].Runs[1].Style.Bold() || lines[0].Runs[0].Style.Bold() {
		t.Errorf("run styles not kept apart: %+v", lines[0].Runs)
	}
	if lines[0].Align != AlignLeft || lines[1].Align != AlignCenter {
		t.Errorf("aligns = %q, %q", lines[0].Align, lines[1].Align)
	}
}

func TestCompose_NoWrap(t *testing.T) {
	long := "A very long line of text that is much wider than its tiny box"
	s := &Shape{Kind: ShapeRectangle, Width: 10, Height: 5, Paragraphs: []Paragraph{
		{Runs: []TextRun{{Text: long}}},
	}}
	lines := Compose(s)
	if len(lines) != 1 || lines[0].Text() != long {
		t.Errorf("expected a single unwrapped line, got %+v", lines)
	}
}

func TestCompose_EmptyParagraph(t *testing.T) {
	s := &Shape{Kind: ShapeRectangle, Paragraphs: []Paragraph{
		{Runs: []TextRun{{Text: "Above"}}},
		{},
		{Runs: []TextRun{{Text: "Below"}}},
	}}
	lines := Compose(s)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !lines[1].IsEmpty() || lines[1].Runs == nil || len(lines[1].Runs) != 0 {
		t.Errorf("empty paragraph line = %+v", lines[1])
	}
}

func TestCompose_NoParagraphs(t *testing.T) {
	if lines := Compose(&Shape{Kind: ShapeRightArrow}); len(lines) != 0 {
		t.Errorf("expected no lines, got %d", len(lines))
	}
}

func TestCompose_BulletAndLevel(t *testing.T) {
	s := &Shape{Kind: ShapeRectangle, Paragraphs: []Paragraph{
		{Level: 1, Bullet: "•", Runs: []TextRun{{Text: "Indent 1"}, {Text: " tail"}}},
		{Level: 0, Bullet: "•", Runs: []TextRun{{Text: "Top"}}},
		{Level: 2, Indent: 5, Runs: []TextRun{{Text: "Deep"}}},
		{Bullet: "•"},
	}}
	lines := Compose(s)
	if lines[0].Indent != 20 {
		t.Errorf("level 1 indent = %g, want 20", lines[0].Indent)
	}
	if lines[0].Runs[0].Text != "• Indent 1" || lines[0].Runs[1].Text != " tail" {
		t.Errorf("bullet runs = %q, %q", lines[0].Runs[0].Text, lines[0].Runs[1].Text)
	}
	if lines[1].Indent != 0 || lines[1].Text() != "• Top" {
		t.Errorf("line 1 = %+v", lines[1])
	}
	if lines[2].Indent != 45 {
		t.Errorf("level 2 indent = %g, want 45", lines[2].Indent)
	}
	if len(lines[3].Runs) != 0 {
		t.Errorf("bullet without runs should emit no text, got %q", lines[3].Text())
	}
}

func TestCompose_CustomIndentStep(t *testing.T) {
	opts := DefaultOptions()
	opts.IndentStep = 36
	lines := opts.Compose(&Shape{Paragraphs: []Paragraph{{Level: 2, Runs: []TextRun{{Text: "x"}}}}})
	if lines[0].Indent != 72 {
		t.Errorf("indent = %g, want 72", lines[0].Indent)
	}
}

func TestCompose_DoesNotAlias(t *testing.T) {
	s := &Shape{Paragraphs: []Paragraph{{Bullet: "-", Runs: []TextRun{{Text: "item"}}}}}
	lines := Compose(s)
	lines[0].Runs[0].Text = "changed"
	if s.Paragraphs[0].Runs[0].Text != "item" {
		t.Error("Compose output aliases the shape")
	}
}

func TestCompose_Direction(t *testing.T) {
	tests := []struct {
		text string
		want Direction
	}{
		{"Hello", DirectionLTR},
		{"שלום", DirectionRTL},
		{"Hello مرحبا World", DirectionMixed},
		{"", DirectionLTR},
	}
	for _, tt := range tests {
		s := &Shape{Paragraphs: []Paragraph{{Runs: []TextRun{{Text: tt.text}}}}}
		if got := Compose(s)[0].Direction; got != tt.want {
			t.Errorf("direction(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
