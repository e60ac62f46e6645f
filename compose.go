package goslide

import (
	"golang.org/x/text/unicode/bidi"
)

// Direction is the dominant writing direction of a composed line.
type Direction int

const (
	DirectionLTR Direction = iota
	DirectionRTL
	// DirectionMixed marks lines holding both left-to-right and
	// right-to-left runs of text.
	DirectionMixed
)

func (d Direction) String() string {
	switch d {
	case DirectionRTL:
		return "rtl"
	case DirectionMixed:
		return "mixed"
	default:
		return "ltr"
	}
}

// ComposedRun is a run of text with its fully resolved style.
type ComposedRun struct {
	Text  string
	Style RunStyle
}

// Line is one visual line of a shape: every run of one paragraph laid side by
// side. Lines never wrap.
type Line struct {
	Align     HorizontalAlignment
	Indent    float64 // pixels, including the indent level
	Direction Direction
	Runs      []ComposedRun
}

// Text returns the concatenated text of the line.
func (l Line) Text() string {
	n := 0
	for _, r := range l.Runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range l.Runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}

// IsEmpty reports whether the line carries no text.
func (l Line) IsEmpty() bool {
	for _, r := range l.Runs {
		if r.Text != "" {
			return false
		}
	}
	return true
}

// Compose lays out the text of a shape with DefaultOptions.
func Compose(s *Shape) []Line {
	return DefaultOptions().Compose(s)
}

// Compose lays out the paragraphs of s in document order, one line per
// paragraph. Empty paragraphs still yield a (run-less) line so vertical
// spacing is kept. The result never aliases s.
func (o *Options) Compose(s *Shape) []Line {
	lines := make([]Line, 0, len(s.Paragraphs))
	for i := range s.Paragraphs {
		para := &s.Paragraphs[i]
		line := Line{
			Align:  para.Align,
			Indent: para.Indent + float64(max(para.Level, 0))*o.IndentStep,
			Runs:   make([]ComposedRun, 0, len(para.Runs)),
		}
		if line.Align == "" {
			line.Align = AlignLeft
		}
		for k := range para.Runs {
			run := &para.Runs[k]
			text := run.Text
			if k == 0 && para.Bullet != "" {
				text = para.Bullet + " " + text
			}
			line.Runs = append(line.Runs, ComposedRun{
				Text:  text,
				Style: o.ResolveRunStyle(run, para, s),
			})
		}
		line.Direction = lineDirection(line.Text())
		lines = append(lines, line)
	}
	return lines
}

// lineDirection classifies text with the Unicode bidirectional algorithm.
func lineDirection(text string) Direction {
	if text == "" {
		return DirectionLTR
	}
	var p bidi.Paragraph
	if _, err := p.SetString(text, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return DirectionLTR
	}
	ordering, err := p.Order()
	if err != nil {
		return DirectionLTR
	}
	var ltr, rtl bool
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		switch run.Direction() {
		case bidi.RightToLeft:
			rtl = true
		case bidi.LeftToRight:
			ltr = true
		}
	}
	switch {
	case rtl && ltr:
		return DirectionMixed
	case rtl:
		return DirectionRTL
	default:
		return DirectionLTR
	}
}
