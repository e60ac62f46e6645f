// Package goslide turns a declarative slide document (an ordered set of
// positioned rectangles and arrows carrying styled text) into a visual tree of
// absolutely positioned, fully styled boxes.
//
// The package is pure: it performs no I/O and never mutates its input. The
// raster and markup sub-packages hand the tree to an image or to HTML; the
// syncfusion sub-package builds documents from Syncfusion slide JSON.
//
// See the Version variable for the current library version.
package goslide

import (
	"errors"
	"fmt"
)

// Default canvas size in pixels (a 4:3 slide of 720x540 pt).
const (
	DefaultCanvasWidth  = 960
	DefaultCanvasHeight = 720
)

// SlideDocument is an immutable description of one slide.
type SlideDocument struct {
	Width  float64
	Height float64
	// Background paints the canvas; the zero value means white.
	Background Color
	// Shapes in document order. Order breaks z-index ties.
	Shapes []Shape
}

// NewDocument builds a document from raw shape records. It validates every
// record and rejects duplicate identifiers.
func NewDocument(width, height float64, raws []RawShape) (*SlideDocument, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidCanvas, width, height)
	}
	doc := &SlideDocument{
		Width:  width,
		Height: height,
		Shapes: make([]Shape, 0, len(raws)),
	}
	seen := make(map[string]int, len(raws))
	for i, raw := range raws {
		s, err := NewShape(raw)
		if err != nil {
			var se *ShapeError
			if errors.As(err, &se) {
				se.Index = i
			}
			return nil, err
		}
		if first, dup := seen[s.ID]; dup {
			return nil, &ShapeError{Index: i, ID: s.ID, Err: fmt.Errorf("%w: also used by shape %d", ErrDuplicateShapeID, first+1)}
		}
		seen[s.ID] = i
		doc.Shapes = append(doc.Shapes, s)
	}
	return doc, nil
}

// Canvas returns the document canvas.
func (d *SlideDocument) Canvas() Canvas {
	return Canvas{Width: d.Width, Height: d.Height}
}

// GetShape returns the shape with the given identifier, or nil.
func (d *SlideDocument) GetShape(id string) *Shape {
	for i := range d.Shapes {
		if d.Shapes[i].ID == id {
			return &d.Shapes[i]
		}
	}
	return nil
}

// GetShapeCount returns the number of shapes.
func (d *SlideDocument) GetShapeCount() int {
	return len(d.Shapes)
}
