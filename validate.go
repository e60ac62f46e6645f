package goslide

import (
	"errors"
	"fmt"
	"math"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalidGeometry  = errors.New("invalid geometry")
	ErrUnknownShapeKind = errors.New("unknown shape kind")
	ErrDuplicateShapeID = errors.New("duplicate shape id")
	ErrInvalidCanvas    = errors.New("invalid canvas size")
	ErrInvalidFontSize  = errors.New("invalid font size")
	ErrInvalidOpacity   = errors.New("invalid opacity")
)

// ShapeError locates a failure on one shape of a document.
type ShapeError struct {
	Index int // position in the document, -1 when unknown
	ID    string
	Err   error
}

func (e *ShapeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("shape %q: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("shape %d (%q): %v", e.Index+1, e.ID, e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// Validate checks the document and returns every problem found joined into
// one error, or nil if the document can be rendered.
func (d *SlideDocument) Validate() error {
	return errors.Join(d.problems(false)...)
}

// firstProblem returns the first problem in document order, or nil.
func (d *SlideDocument) firstProblem() error {
	if errs := d.problems(true); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (d *SlideDocument) problems(stopEarly bool) []error {
	var errs []error
	if !(d.Width > 0) || !(d.Height > 0) {
		errs = append(errs, fmt.Errorf("%w: %gx%g", ErrInvalidCanvas, d.Width, d.Height))
		if stopEarly {
			return errs
		}
	}

	seen := make(map[string]int, len(d.Shapes))
	for i := range d.Shapes {
		s := &d.Shapes[i]
		for _, err := range validateShape(s) {
			errs = append(errs, &ShapeError{Index: i, ID: s.ID, Err: err})
			if stopEarly {
				return errs
			}
		}
		if first, dup := seen[s.ID]; dup {
			errs = append(errs, &ShapeError{Index: i, ID: s.ID, Err: fmt.Errorf("%w: also used by shape %d", ErrDuplicateShapeID, first+1)})
			if stopEarly {
				return errs
			}
			continue
		}
		seen[s.ID] = i
	}
	return errs
}

// validateShape checks a single shape in isolation.
func validateShape(s *Shape) []error {
	var errs []error
	if !s.Kind.IsSupported() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownShapeKind, s.Kind))
	}
	if _, _, err := Resolve(s, Canvas{}); err != nil {
		errs = append(errs, err)
	}
	if !isFinite(s.Rotation) {
		errs = append(errs, fmt.Errorf("%w: non-finite rotation", ErrInvalidGeometry))
	}
	if s.Opacity != nil && !isFinite(*s.Opacity) {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidOpacity, *s.Opacity))
	}
	errs = append(errs, validateParagraphs(s)...)
	return errs
}

// validateParagraphs rejects explicitly set font sizes that are not positive.
// An unset size is zero and picks up a default.
func validateParagraphs(s *Shape) []error {
	var errs []error
	if s.Font.FontSize < 0 || math.IsNaN(s.Font.FontSize) {
		errs = append(errs, fmt.Errorf("%w: shape default %g", ErrInvalidFontSize, s.Font.FontSize))
	}
	for i, para := range s.Paragraphs {
		if para.Font.FontSize < 0 || math.IsNaN(para.Font.FontSize) {
			errs = append(errs, fmt.Errorf("%w: paragraph %d default %g", ErrInvalidFontSize, i+1, para.Font.FontSize))
		}
		for k, run := range para.Runs {
			if run.FontSize < 0 || math.IsNaN(run.FontSize) {
				errs = append(errs, fmt.Errorf("%w: paragraph %d run %d: %g", ErrInvalidFontSize, i+1, k+1, run.FontSize))
			}
		}
	}
	return errs
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
