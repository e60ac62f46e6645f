// Package markup serializes a goslide visual tree as HTML: one relatively
// positioned slide element holding one absolutely positioned element per
// shape, styled inline.
package markup

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"seehuhn.de/go/geom/vec"

	goslide "github.com/VantageDataChat/GoSlide"
)

// Options configures HTML output.
type Options struct {
	// ClassPrefix names the CSS classes: "<prefix>-slide" on the root and
	// "<prefix>-shape" on every shape. Default: "syncfusion".
	ClassPrefix string
	// FontFamily is the inherited font of the slide. Default: "Arial, sans-serif".
	FontFamily string
	// FullDocument wraps the slide in a complete HTML document.
	FullDocument bool
	// Title is the document title when FullDocument is set.
	Title string
}

// DefaultOptions returns the default HTML options.
func DefaultOptions() *Options {
	return &Options{
		ClassPrefix: "syncfusion",
		FontFamily:  "Arial, sans-serif",
		Title:       "Slide",
	}
}

func (o *Options) withDefaults() *Options {
	d := DefaultOptions()
	if o == nil {
		return d
	}
	c := *o
	if c.ClassPrefix == "" {
		c.ClassPrefix = d.ClassPrefix
	}
	if c.FontFamily == "" {
		c.FontFamily = d.FontFamily
	}
	if c.Title == "" {
		c.Title = d.Title
	}
	return &c
}

// Build returns the slide element for tree.
func Build(tree *goslide.VisualTree, opts *Options) *html.Node {
	o := opts.withDefaults()
	root := element(atom.Div,
		attr("class", o.ClassPrefix+"-slide"),
		attr("style", css(
			"position", "relative",
			"width", px(tree.Width),
			"height", px(tree.Height),
			"background-color", cssColor(tree.Background),
			"overflow", "hidden",
			"box-sizing", "border-box",
			"font-family", o.FontFamily,
		)),
	)
	for i := range tree.Children {
		root.AppendChild(buildShape(&tree.Children[i], o))
	}
	return root
}

// Render writes tree as HTML to w. opts may be nil.
func Render(w io.Writer, tree *goslide.VisualTree, opts *Options) error {
	if tree == nil {
		return fmt.Errorf("markup: nil visual tree")
	}
	o := opts.withDefaults()
	n := Build(tree, o)
	if o.FullDocument {
		n = wrapDocument(n, o.Title)
		if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
			return err
		}
	}
	if err := html.Render(w, n); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	goslide.Logger().Debug("rendered markup", slog.Int("nodes", len(tree.Children)))
	return nil
}

// RenderString is Render into a string.
func RenderString(tree *goslide.VisualTree, opts *Options) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, tree, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderDocument renders doc with the default goslide options and serializes
// the result.
func RenderDocument(doc *goslide.SlideDocument, opts *Options) (string, error) {
	tree, err := goslide.Render(doc)
	if err != nil {
		return "", err
	}
	return RenderString(tree, opts)
}

func wrapDocument(slide *html.Node, title string) *html.Node {
	titleNode := element(atom.Title)
	titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	head.AppendChild(titleNode)
	body := element(atom.Body)
	body.AppendChild(slide)
	doc := element(atom.Html)
	doc.AppendChild(head)
	doc.AppendChild(body)
	return doc
}

func buildShape(n *goslide.Node, o *Options) *html.Node {
	style := []string{
		"position", "absolute",
		"left", px(n.Box.Left),
		"top", px(n.Box.Top),
		"width", px(n.Box.Width),
		"height", px(n.Box.Height),
		"z-index", strconv.Itoa(n.ZIndex),
		"background-color", cssColor(n.Style.Fill),
	}
	if n.Rotation != 0 {
		style = append(style, "transform", "rotate("+num(n.Rotation)+"deg)")
	}
	if n.Style.Opacity < 1 {
		style = append(style, "opacity", num(n.Style.Opacity))
	}
	if b := n.Style.Border; b.Style != goslide.BorderNone && b.Style != "" {
		style = append(style, "border", px(b.Width)+" "+string(b.Style)+" "+cssColor(b.Color))
	}
	if n.Paint.IsArrow() {
		style = append(style, "clip-path", clipPolygon(goslide.UnitOutline(n.Paint)))
	}

	el := element(atom.Div,
		attr("id", n.ID),
		attr("class", o.ClassPrefix+"-shape shape-"+strings.ToLower(string(n.Kind))),
		attr("style", css(style...)),
		attr("data-shape-type", string(n.Kind)),
	)
	if n.Name != "" {
		el.Attr = append(el.Attr, attr("data-name", n.Name))
	}
	el.Attr = append(el.Attr, metadataAttrs(n)...)

	if n.Glyph != "" {
		g := element(atom.Div, attr("style", css(
			"display", "flex",
			"justify-content", "center",
			"align-items", "center",
			"height", "100%",
			"color", cssColor(n.GlyphColor),
		)))
		g.AppendChild(&html.Node{Type: html.TextNode, Data: n.Glyph})
		el.AppendChild(g)
	}
	for _, line := range n.Lines {
		el.AppendChild(buildLine(line))
	}
	return el
}

func buildLine(l goslide.Line) *html.Node {
	style := []string{"text-align", string(l.Align)}
	if l.Indent != 0 {
		style = append(style, "margin-left", px(l.Indent))
	}
	div := element(atom.Div, attr("style", css(style...)))
	switch l.Direction {
	case goslide.DirectionRTL:
		div.Attr = append(div.Attr, attr("dir", "rtl"))
	case goslide.DirectionMixed:
		div.Attr = append(div.Attr, attr("dir", "auto"))
	}
	if len(l.Runs) == 0 {
		div.AppendChild(element(atom.Br))
		return div
	}
	for _, r := range l.Runs {
		span := element(atom.Span, attr("style", runCSS(r.Style)))
		span.AppendChild(&html.Node{Type: html.TextNode, Data: r.Text})
		div.AppendChild(span)
	}
	return div
}

func runCSS(st goslide.RunStyle) string {
	decl := []string{
		"color", cssColor(st.Color),
		"font-family", fontFamily(st.FontStack),
		"font-size", px(st.FontSize),
	}
	if st.Bold() {
		decl = append(decl, "font-weight", "bold")
	}
	if st.Italic() {
		decl = append(decl, "font-style", "italic")
	}
	return css(decl...)
}

// genericFamilies are the CSS generic font keywords, which must stay unquoted.
var genericFamilies = map[string]bool{
	"serif": true, "sans-serif": true, "monospace": true, "cursive": true,
	"fantasy": true, "system-ui": true, "ui-serif": true, "ui-sans-serif": true,
	"ui-monospace": true, "ui-rounded": true, "emoji": true, "math": true,
	"fangsong": true,
}

// fontFamily formats a font stack as a CSS font-family value, quoting every
// family name that is not a generic keyword.
func fontFamily(stack []string) string {
	parts := make([]string, 0, len(stack))
	for _, f := range stack {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if genericFamilies[strings.ToLower(f)] {
			parts = append(parts, strings.ToLower(f))
			continue
		}
		q := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(f)
		parts = append(parts, `"`+q+`"`)
	}
	return strings.Join(parts, ", ")
}

// --- helpers ---

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// css joins property/value pairs into an inline style declaration.
func css(pairs ...string) string {
	var sb strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(pairs[i])
		sb.WriteString(": ")
		sb.WriteString(pairs[i+1])
	}
	return sb.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func px(v float64) string { return num(v) + "px" }

// cssColor formats c as a lowercase hex color, rgba() when partially
// transparent, or "transparent".
func cssColor(c goslide.Color) string {
	switch {
	case !c.IsSet():
		return "transparent"
	case c.IsTransparent():
		return "transparent"
	case c.GetAlpha() < 255:
		a := math.Round(float64(c.GetAlpha())/255*1000) / 1000
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.GetRed(), c.GetGreen(), c.GetBlue(), num(a))
	}
	return strings.ToLower(c.Hex())
}

// metadataAttrs renders metadata as data-* attributes in key order. A key
// whose name is taken by a fixed attribute or an earlier key moves under
// data-meta-*; one that still collides is dropped.
func metadataAttrs(n *goslide.Node) []html.Attribute {
	used := map[string]bool{"data-shape-type": true, "data-name": true}
	keys := slices.Sorted(maps.Keys(n.Metadata))
	out := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		name := dataAttr(k)
		if used[name] {
			name = "data-meta-" + strings.TrimPrefix(name, "data-")
		}
		if used[name] {
			goslide.Logger().Debug("dropping metadata attribute",
				slog.String("id", n.ID), slog.String("key", k))
			continue
		}
		used[name] = true
		out = append(out, attr(name, n.Metadata[k]))
	}
	return out
}

// dataAttr turns a metadata key into a data-* attribute name:
// "slide_item_type" becomes "data-slide-item-type".
func dataAttr(key string) string {
	var sb strings.Builder
	sb.WriteString("data-")
	for _, r := range strings.ToLower(key) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// clipPolygon formats a unit outline as a CSS clip-path polygon.
func clipPolygon(pts []vec.Vec2) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p.X*100) + "% " + num(p.Y*100) + "%"
	}
	return "polygon(" + strings.Join(parts, ", ") + ")"
}
