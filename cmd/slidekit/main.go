// Command slidekit renders a Syncfusion slide JSON file to HTML, PNG or JPEG.
//
//	slidekit -in slide.json -out slide.png -width 1920
//	slidekit -in slide.json > slide.html
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	goslide "github.com/VantageDataChat/GoSlide"
	"github.com/VantageDataChat/GoSlide/markup"
	"github.com/VantageDataChat/GoSlide/raster"
	"github.com/VantageDataChat/GoSlide/syncfusion"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type config struct {
	in       string
	out      string
	format   string
	width    int
	skip     bool
	fragment bool
	verbose  bool
	version  bool
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("slidekit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := &config{}
	fs.StringVar(&c.in, "in", "", "slide JSON file to read (required)")
	fs.StringVar(&c.out, "out", "", "output file; html goes to stdout when empty")
	fs.StringVar(&c.format, "format", "", "output format: html, png or jpeg (default from -out, else html)")
	fs.IntVar(&c.width, "width", 0, "raster output width in pixels (default: canvas width)")
	fs.BoolVar(&c.skip, "skip-unsupported", false, "drop items of unsupported kind instead of failing")
	fs.BoolVar(&c.fragment, "fragment", false, "emit only the slide element instead of a full HTML page")
	fs.BoolVar(&c.verbose, "v", false, "log debug output to stderr")
	fs.BoolVar(&c.version, "version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.version {
		return c, nil
	}
	if c.in == "" {
		fs.Usage()
		return nil, errors.New("-in is required")
	}
	if c.format == "" {
		c.format = "html"
		if ext := strings.ToLower(filepath.Ext(c.out)); ext != "" && ext != ".html" && ext != ".htm" {
			c.format = ext[1:]
		}
	}
	c.format = strings.ToLower(c.format)
	if c.format != "html" {
		if _, err := raster.ParseFormat(c.format); err != nil {
			return nil, err
		}
		if c.out == "" {
			return nil, fmt.Errorf("-out is required for %s output", c.format)
		}
	}
	if c.width < 0 {
		return nil, fmt.Errorf("invalid -width %d", c.width)
	}
	return c, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	c, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "slidekit: %v\n", err)
		return 2
	}
	if c.version {
		fmt.Fprintf(stdout, "slidekit %s\n", goslide.Version)
		return 0
	}
	if c.verbose {
		goslide.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		defer goslide.SetLogger(nil)
	}

	doc, err := syncfusion.ReadFile(c.in, &syncfusion.Options{SkipUnsupported: c.skip})
	if err != nil {
		fmt.Fprintf(stderr, "read: %v\n", err)
		return 1
	}
	tree, err := goslide.Render(doc)
	if err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}

	if c.format == "html" {
		err = writeHTML(tree, c, stdout)
	} else {
		err = writeImage(tree, c)
	}
	if err != nil {
		fmt.Fprintf(stderr, "write: %v\n", err)
		return 1
	}
	if c.out != "" {
		fmt.Fprintf(stdout, "Rendered %d shapes to %s\n", len(tree.Children), c.out)
	}
	return 0
}

func writeHTML(tree *goslide.VisualTree, c *config, stdout io.Writer) (err error) {
	opts := markup.DefaultOptions()
	opts.FullDocument = !c.fragment
	opts.Title = strings.TrimSuffix(filepath.Base(c.in), filepath.Ext(c.in))
	if c.out == "" {
		return markup.Render(stdout, tree, opts)
	}
	if dir := filepath.Dir(c.out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(c.out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return markup.Render(f, tree, opts)
}

func writeImage(tree *goslide.VisualTree, c *config) error {
	format, err := raster.ParseFormat(c.format)
	if err != nil {
		return err
	}
	opts := raster.DefaultOptions()
	opts.Width = c.width
	opts.Format = format
	img, err := raster.Rasterize(tree, opts)
	if err != nil {
		return err
	}
	return raster.SaveImage(img, c.out, opts)
}
