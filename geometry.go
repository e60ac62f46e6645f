package goslide

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/rect"
)

// BoxRect is an absolute box in canvas pixel space.
type BoxRect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Right returns the x coordinate of the right edge.
func (b BoxRect) Right() float64 { return b.Left + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b BoxRect) Bottom() float64 { return b.Top + b.Height }

// Center returns the center point of the box.
func (b BoxRect) Center() (x, y float64) {
	return b.Left + b.Width/2, b.Top + b.Height/2
}

// Bounds returns the box as a rectangle. Canvas y grows downwards, so LLy is
// the top edge.
func (b BoxRect) Bounds() rect.Rect {
	return rect.Rect{LLx: b.Left, LLy: b.Top, URx: b.Right(), URy: b.Bottom()}
}

// Canvas is the drawable area of a slide, with its origin at the top-left.
type Canvas struct {
	Width  float64
	Height float64
}

// Bounds returns the canvas as a rectangle.
func (c Canvas) Bounds() rect.Rect {
	return rect.Rect{LLx: 0, LLy: 0, URx: c.Width, URy: c.Height}
}

// ClipState describes how much of a box lies outside the canvas.
type ClipState int

const (
	ClipNone    ClipState = iota // fully inside
	ClipPartial                  // overflows at least one edge
	ClipFull                     // entirely outside
)

func (c ClipState) String() string {
	switch c {
	case ClipNone:
		return "none"
	case ClipPartial:
		return "partial"
	case ClipFull:
		return "full"
	}
	return fmt.Sprintf("ClipState(%d)", int(c))
}

// Classify reports how the canvas clips b.
func (c Canvas) Classify(b BoxRect) ClipState {
	box, cv := b.Bounds(), c.Bounds()
	if box.LLx >= cv.LLx && box.URx <= cv.URx && box.LLy >= cv.LLy && box.URy <= cv.URy {
		return ClipNone
	}
	if min(box.URx, cv.URx) > max(box.LLx, cv.LLx) && min(box.URy, cv.URy) > max(box.LLy, cv.LLy) {
		return ClipPartial
	}
	return ClipFull
}

// Resolve returns the absolute box of a shape. Shape coordinates are already
// canvas pixels, so this is the identity plus validation: negative or
// non-finite sizes fail with ErrInvalidGeometry. Boxes outside the canvas are
// legal and only classified against the canvas.
func Resolve(s *Shape, canvas Canvas) (BoxRect, ClipState, error) {
	for _, v := range []float64{s.Left, s.Top, s.Width, s.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return BoxRect{}, ClipNone, fmt.Errorf("%w: non-finite coordinate", ErrInvalidGeometry)
		}
	}
	if s.Width < 0 {
		return BoxRect{}, ClipNone, fmt.Errorf("%w: negative width %g", ErrInvalidGeometry, s.Width)
	}
	if s.Height < 0 {
		return BoxRect{}, ClipNone, fmt.Errorf("%w: negative height %g", ErrInvalidGeometry, s.Height)
	}
	box := BoxRect{Left: s.Left, Top: s.Top, Width: s.Width, Height: s.Height}
	return box, canvas.Classify(box), nil
}
