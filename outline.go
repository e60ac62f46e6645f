package goslide

import (
	"fmt"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// PaintStrategy tells a presentation layer how to paint a shape node.
type PaintStrategy int

const (
	// PaintRectangle fills the whole box.
	PaintRectangle PaintStrategy = iota
	// PaintRightArrow fills a block arrow pointing right and, when the shape
	// has no text, centers the arrow glyph in the box. The other arrow
	// strategies do the same in their own direction.
	PaintRightArrow
	PaintLeftArrow
	PaintUpArrow
	PaintDownArrow
)

func (p PaintStrategy) String() string {
	switch p {
	case PaintRectangle:
		return "rectangle"
	case PaintRightArrow:
		return "right-arrow"
	case PaintLeftArrow:
		return "left-arrow"
	case PaintUpArrow:
		return "up-arrow"
	case PaintDownArrow:
		return "down-arrow"
	}
	return fmt.Sprintf("PaintStrategy(%d)", int(p))
}

// rightArrowPolygon is the block arrow outline in fractions of the box.
var rightArrowPolygon = []vec.Vec2{
	{X: 0, Y: 0.25},
	{X: 0.75, Y: 0.25},
	{X: 0.75, Y: 0},
	{X: 1, Y: 0.5},
	{X: 0.75, Y: 1},
	{X: 0.75, Y: 0.75},
	{X: 0, Y: 0.75},
}

var leftArrowPolygon = []vec.Vec2{
	{X: 0.25, Y: 0},
	{X: 0.25, Y: 0.2},
	{X: 1, Y: 0.2},
	{X: 1, Y: 0.8},
	{X: 0.25, Y: 0.8},
	{X: 0.25, Y: 1},
	{X: 0, Y: 0.5},
}

var upArrowPolygon = []vec.Vec2{
	{X: 0.2, Y: 0.25},
	{X: 0, Y: 0.25},
	{X: 0.5, Y: 0},
	{X: 1, Y: 0.25},
	{X: 0.8, Y: 0.25},
	{X: 0.8, Y: 1},
	{X: 0.2, Y: 1},
}

var downArrowPolygon = []vec.Vec2{
	{X: 0.2, Y: 0},
	{X: 0.2, Y: 0.75},
	{X: 0, Y: 0.75},
	{X: 0.5, Y: 1},
	{X: 1, Y: 0.75},
	{X: 0.8, Y: 0.75},
	{X: 0.8, Y: 0},
}

var rectanglePolygon = []vec.Vec2{
	{X: 0, Y: 0},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
}

// paintFor selects the paint strategy and unit outline of a kind.
func paintFor(k ShapeKind) (PaintStrategy, []vec.Vec2, error) {
	switch k {
	case ShapeRectangle:
		return PaintRectangle, rectanglePolygon, nil
	case ShapeRightArrow:
		return PaintRightArrow, rightArrowPolygon, nil
	case ShapeLeftArrow:
		return PaintLeftArrow, leftArrowPolygon, nil
	case ShapeUpArrow:
		return PaintUpArrow, upArrowPolygon, nil
	case ShapeDownArrow:
		return PaintDownArrow, downArrowPolygon, nil
	}
	return 0, nil, fmt.Errorf("%w: %q", ErrUnknownShapeKind, k)
}

// IsArrow reports whether p paints a block arrow.
func (p PaintStrategy) IsArrow() bool {
	switch p {
	case PaintRightArrow, PaintLeftArrow, PaintUpArrow, PaintDownArrow:
		return true
	}
	return false
}

// UnitOutline returns the outline of a paint strategy as fractions of the box
// (0..1 on both axes). The returned slice is a copy.
func UnitOutline(p PaintStrategy) []vec.Vec2 {
	switch p {
	case PaintRightArrow:
		return append([]vec.Vec2(nil), rightArrowPolygon...)
	case PaintLeftArrow:
		return append([]vec.Vec2(nil), leftArrowPolygon...)
	case PaintUpArrow:
		return append([]vec.Vec2(nil), upArrowPolygon...)
	case PaintDownArrow:
		return append([]vec.Vec2(nil), downArrowPolygon...)
	default:
		return append([]vec.Vec2(nil), rectanglePolygon...)
	}
}

// outlinePath scales a unit polygon into box and returns it as a closed path
// in canvas pixels. Rotation is not applied.
func outlinePath(unit []vec.Vec2, box BoxRect) *path.Data {
	p := &path.Data{}
	for i, u := range unit {
		pt := vec.Vec2{X: box.Left + u.X*box.Width, Y: box.Top + u.Y*box.Height}
		if i == 0 {
			p = p.MoveTo(pt)
		} else {
			p = p.LineTo(pt)
		}
	}
	return p.Close()
}

// Polygon returns the vertices of a closed outline path. Curves do not occur
// in outlines built by this package; their end points are kept.
func Polygon(p *path.Data) []vec.Vec2 {
	if p == nil {
		return nil
	}
	var pts []vec.Vec2
	idx := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo, path.CmdLineTo:
			pts = append(pts, p.Coords[idx])
			idx++
		case path.CmdQuadTo:
			pts = append(pts, p.Coords[idx+1])
			idx += 2
		case path.CmdCubeTo:
			pts = append(pts, p.Coords[idx+2])
			idx += 3
		}
	}
	return pts
}
