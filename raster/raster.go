// Package raster paints a goslide visual tree into an image.
//
// Shapes are filled as anti-aliased polygons, rotated about their center.
// Text is drawn with the fonts found by a FontCache, falling back to a
// built-in bitmap face, one unwrapped line per paragraph.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	goslide "github.com/VantageDataChat/GoSlide"
)

// ImageFormat represents the output image format.
type ImageFormat int

const (
	FormatPNG ImageFormat = iota
	FormatJPEG
)

func (f ImageFormat) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	default:
		return "png"
	}
}

// ParseFormat maps a format name or file extension to an ImageFormat.
func ParseFormat(s string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return FormatPNG, fmt.Errorf("unsupported image format %q", s)
}

// ErrImageTooLarge is returned when the output would exceed MaxPixels.
var ErrImageTooLarge = errors.New("image too large")

// MaxPixels bounds the size of a rasterized slide.
const MaxPixels = 1 << 26

// Options configures rasterization.
type Options struct {
	// Width is the output image width in pixels. Height follows the canvas
	// aspect ratio. Zero means the canvas width.
	Width int
	// Format is the output image format used by Encode and SaveImage.
	Format ImageFormat
	// JPEGQuality is the JPEG quality (1-100). Default: 90.
	JPEGQuality int
	// BackgroundColor overrides the tree background when non-nil.
	BackgroundColor *color.RGBA
	// GlyphSize is the pixel size of the arrow glyph. Default: 16.
	GlyphSize float64
	// FontDirs specifies additional directories to search for TrueType/OpenType fonts.
	// System font directories are always searched automatically.
	FontDirs []string
	// FontCache allows sharing a pre-configured FontCache across sequential
	// renders. If nil, a new FontCache is created using FontDirs.
	FontCache *FontCache
}

// DefaultOptions returns default rasterization options.
func DefaultOptions() *Options {
	return &Options{
		Format:      FormatPNG,
		JPEGQuality: 90,
		GlyphSize:   16,
	}
}

// RenderDocument renders doc with the default goslide options and paints the
// result.
func RenderDocument(doc *goslide.SlideDocument, opts *Options) (*image.RGBA, error) {
	tree, err := goslide.Render(doc)
	if err != nil {
		return nil, err
	}
	return Rasterize(tree, opts)
}

// Rasterize paints tree into a new image. opts may be nil.
func Rasterize(tree *goslide.VisualTree, opts *Options) (*image.RGBA, error) {
	if tree == nil {
		return nil, errors.New("raster: nil visual tree")
	}
	o := DefaultOptions()
	if opts != nil {
		o = new(Options)
		*o = *opts
	}
	if !(tree.Width > 0) || !(tree.Height > 0) {
		return nil, fmt.Errorf("%w: %gx%g", goslide.ErrInvalidCanvas, tree.Width, tree.Height)
	}
	if o.Width <= 0 {
		o.Width = int(math.Round(tree.Width))
	}
	if o.GlyphSize <= 0 {
		o.GlyphSize = 16
	}
	scale := float64(o.Width) / tree.Width
	imgW := o.Width
	imgH := int(math.Round(tree.Height * scale))
	if imgH < 1 {
		imgH = 1
	}
	if imgW*imgH > MaxPixels || imgW > MaxPixels || imgH > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, imgW, imgH)
	}

	img := image.NewRGBA(image.Rect(0, 0, imgW, imgH))
	bg := toRGBA(tree.Background, 1)
	if !tree.Background.IsSet() {
		bg = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if o.BackgroundColor != nil {
		bg = *o.BackgroundColor
	}
	xdraw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)

	r := &renderer{
		img:       img,
		scale:     scale,
		fontCache: o.FontCache,
		glyphSize: o.GlyphSize,
		z:         vector.NewRasterizer(imgW, imgH),
	}
	if r.fontCache == nil {
		r.fontCache = NewFontCache(o.FontDirs...)
	}

	for i := range tree.Children {
		n := &tree.Children[i]
		if n.Clip == goslide.ClipFull {
			continue
		}
		r.paintNode(n)
	}
	goslide.Logger().Debug("rasterized slide",
		slog.Int("width", imgW),
		slog.Int("height", imgH),
		slog.Int("nodes", len(tree.Children)))
	return img, nil
}

// Encode writes img to w in the format selected by opts.
func Encode(w io.Writer, img image.Image, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	switch opts.Format {
	case FormatJPEG:
		quality := opts.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = 90
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	default:
		return png.Encode(w, img)
	}
}

// SaveImage encodes img into the file at path, creating parent directories.
func SaveImage(img image.Image, path string, opts *Options) (err error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, img, opts)
}

// --- renderer ---

type renderer struct {
	img       *image.RGBA
	scale     float64
	fontCache *FontCache
	glyphSize float64
	z         *vector.Rasterizer
}

func (r *renderer) paintNode(n *goslide.Node) {
	alpha := n.Style.Opacity
	if alpha <= 0 {
		return
	}
	outline := r.transform(goslide.Polygon(n.Outline), n)

	if !n.Style.Fill.IsTransparent() {
		r.fillPolygon(outline, toRGBA(n.Style.Fill, alpha))
	}
	if b := n.Style.Border; b.Style != goslide.BorderNone && b.Style != "" && !b.Color.IsTransparent() {
		w := math.Max(b.Width*r.scale, 1)
		r.strokePolygon(outline, w, dashPattern(b.Style, w), toRGBA(b.Color, alpha))
	}

	if n.Glyph != "" {
		face := r.fontCache.Face(goslide.DefaultFontStack, r.glyphSize*r.scale, false, false)
		r.drawStringCentered(n.Glyph, face, toRGBA(n.GlyphColor, alpha), r.pixelBox(n.Box))
	}
	if len(n.Lines) > 0 {
		r.drawLines(n, alpha)
	}
}

// transform maps canvas points to image pixels and applies the node
// rotation about the box center.
func (r *renderer) transform(pts []vec.Vec2, n *goslide.Node) []vec.Vec2 {
	cx, cy := n.Box.Center()
	m := matrix.Identity
	if n.Rotation != 0 {
		m = matrix.RotateDeg(n.Rotation)
	}
	out := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		x, y := p.X-cx, p.Y-cy
		out[i] = vec.Vec2{
			X: (m[0]*x + m[2]*y + cx) * r.scale,
			Y: (m[1]*x + m[3]*y + cy) * r.scale,
		}
	}
	return out
}

func (r *renderer) pixelBox(b goslide.BoxRect) image.Rectangle {
	return image.Rect(
		int(math.Round(b.Left*r.scale)),
		int(math.Round(b.Top*r.scale)),
		int(math.Round(b.Right()*r.scale)),
		int(math.Round(b.Bottom()*r.scale)),
	)
}

// --- Drawing primitives ---

// coordLimit keeps coordinates within the range of the rasterizer's fixed
// point math.
const coordLimit = 1 << 20

func clampCoord(v float64) float32 {
	return float32(math.Max(-coordLimit, math.Min(coordLimit, v)))
}

func (r *renderer) fillPolygon(pts []vec.Vec2, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	r.addPolygon(pts)
	r.z.Draw(r.img, b, image.NewUniform(c), image.Point{})
}

func (r *renderer) addPolygon(pts []vec.Vec2) {
	r.z.MoveTo(clampCoord(pts[0].X), clampCoord(pts[0].Y))
	for _, p := range pts[1:] {
		r.z.LineTo(clampCoord(p.X), clampCoord(p.Y))
	}
	r.z.ClosePath()
}

// strokePolygon outlines a closed polygon with lines of width w, centered on
// the edges. dash alternates on and off lengths; nil draws a solid line.
func (r *renderer) strokePolygon(pts []vec.Vec2, w float64, dash []float64, c color.RGBA) {
	if len(pts) < 2 {
		return
	}
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	for i := range pts {
		a, e := pts[i], pts[(i+1)%len(pts)]
		for _, seg := range dashSegments(a, e, dash) {
			r.addQuad(seg[0], seg[1], w)
		}
	}
	r.z.Draw(r.img, b, image.NewUniform(c), image.Point{})
}

// addQuad adds the rectangle covering the segment a-b with the given width.
// Every quad has the same winding so overlaps do not cancel.
func (r *renderer) addQuad(a, b vec.Vec2, w float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*w/2, dx/l*w/2
	r.addPolygon([]vec.Vec2{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	})
}

func dashPattern(s goslide.BorderStyle, w float64) []float64 {
	switch s {
	case goslide.BorderDashed:
		return []float64{3 * w, 2 * w}
	case goslide.BorderDotted:
		return []float64{w, w}
	}
	return nil
}

// dashSegments splits a-b into the "on" parts of the dash pattern. The
// pattern restarts on every edge.
func dashSegments(a, b vec.Vec2, dash []float64) [][2]vec.Vec2 {
	if len(dash) == 0 {
		return [][2]vec.Vec2{{a, b}}
	}
	l := math.Hypot(b.X-a.X, b.Y-a.Y)
	if l == 0 {
		return nil
	}
	at := func(t float64) vec.Vec2 {
		return vec.Vec2{X: a.X + (b.X-a.X)*t/l, Y: a.Y + (b.Y-a.Y)*t/l}
	}
	var segs [][2]vec.Vec2
	pos := 0.0
	for i := 0; pos < l; i++ {
		d := dash[i%len(dash)]
		if d <= 0 {
			return [][2]vec.Vec2{{a, b}}
		}
		end := math.Min(pos+d, l)
		if i%2 == 0 {
			segs = append(segs, [2]vec.Vec2{at(pos), at(end)})
		}
		pos = end
	}
	return segs
}

// --- Text rendering ---

// textRun holds rendering info for a single text run.
type textRun struct {
	text  string
	face  font.Face
	color color.RGBA
}

// textLine is one composed line ready to draw.
type textLine struct {
	runs   []textRun
	width  int
	height int
	indent int
	align  goslide.HorizontalAlignment
}

func (r *renderer) buildLine(l goslide.Line, alpha float64) textLine {
	line := textLine{
		indent: int(math.Round(l.Indent * r.scale)),
		align:  l.Align,
	}
	for _, cr := range l.Runs {
		st := cr.Style
		face := r.fontCache.Face(st.FontStack, st.FontSize*r.scale, st.Bold(), st.Italic())
		line.runs = append(line.runs, textRun{text: cr.Text, face: face, color: toRGBA(st.Color, alpha)})
		line.width += font.MeasureString(face, cr.Text).Ceil()
		if h := face.Metrics().Height.Ceil(); h > line.height {
			line.height = h
		}
	}
	if line.height <= 0 {
		// an empty paragraph keeps the height of a default line
		line.height = int(math.Ceil(18 * 1.2 * r.scale))
	}
	return line
}

// drawLines draws the composed lines top to bottom from the top of the box.
// Lines are not rotated and may overflow the box.
func (r *renderer) drawLines(n *goslide.Node, alpha float64) {
	box := r.pixelBox(n.Box)
	curY := box.Min.Y
	for _, l := range n.Lines {
		line := r.buildLine(l, alpha)
		ascent := 0
		for _, run := range line.runs {
			ascent = max(ascent, run.face.Metrics().Ascent.Ceil())
		}
		drawX := box.Min.X + line.indent
		switch line.align {
		case goslide.AlignCenter:
			drawX = box.Min.X + line.indent + (box.Dx()-line.indent-line.width)/2
		case goslide.AlignRight:
			drawX = box.Max.X - line.width
		}
		for _, run := range line.runs {
			d := &font.Drawer{
				Dst:  r.img,
				Src:  image.NewUniform(run.color),
				Face: run.face,
				Dot:  fixed.P(drawX, curY+ascent),
			}
			d.DrawString(run.text)
			drawX += font.MeasureString(run.face, run.text).Ceil()
		}
		curY += line.height
		if curY > r.img.Bounds().Max.Y {
			break
		}
	}
}

func (r *renderer) drawStringCentered(text string, face font.Face, c color.RGBA, rect image.Rectangle) {
	textW := font.MeasureString(face, text).Ceil()
	m := face.Metrics()
	x := rect.Min.X + (rect.Dx()-textW)/2
	y := rect.Min.Y + (rect.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2

	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// toRGBA converts c to a premultiplied color with its alpha scaled by
// opacity.
func toRGBA(c goslide.Color, opacity float64) color.RGBA {
	a := float64(c.GetAlpha()) * opacity / 255
	return color.RGBA{
		R: uint8(math.Round(float64(c.GetRed()) * a)),
		G: uint8(math.Round(float64(c.GetGreen()) * a)),
		B: uint8(math.Round(float64(c.GetBlue()) * a)),
		A: uint8(math.Round(255 * a)),
	}
}
