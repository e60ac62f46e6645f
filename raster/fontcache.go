package raster

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// fontKey identifies a face by family, pixel size and emphasis.
type fontKey struct {
	name   string
	size   float64
	bold   bool
	italic bool
}

// FontCache loads TrueType/OpenType fonts and caches the faces built from
// them. Fonts are found in the OS font directories plus any extra
// directories; nothing is read from disk until the first lookup.
//
// Lookups and loading are safe for concurrent use, but the faces handed out
// are shared and an opentype face must not be used by two goroutines at
// once. Rasterize calls that run concurrently need their own FontCache.
type FontCache struct {
	mu      sync.RWMutex
	dirs    []string
	fonts   map[string]*opentype.Font // lowercase name -> parsed font
	faces   map[fontKey]font.Face
	scanned bool
}

// NewFontCache creates a FontCache that searches extraDirs and the OS
// font directories.
func NewFontCache(extraDirs ...string) *FontCache {
	return &FontCache{
		dirs:  append(systemFontDirs(), extraDirs...),
		fonts: make(map[string]*opentype.Font),
		faces: make(map[fontKey]font.Face),
	}
}

// Face returns a face for the first family of stack that can be found.
// Generic CSS families (sans-serif, serif, monospace) map to common system
// fonts. When nothing matches the bundled 7x13 bitmap face is returned,
// so the result is never nil.
func (fc *FontCache) Face(stack []string, sizePx float64, bold, italic bool) font.Face {
	for _, name := range stack {
		for _, candidate := range expandGeneric(name) {
			if face := fc.GetFace(candidate, sizePx, bold, italic); face != nil {
				return face
			}
		}
	}
	return basicfont.Face7x13
}

// GetFace returns a face for the named font at sizePx pixels, or nil if the
// font is unknown.
func (fc *FontCache) GetFace(name string, sizePx float64, bold, italic bool) font.Face {
	fc.ensureScanned()

	key := fontKey{name: strings.ToLower(name), size: sizePx, bold: bold, italic: italic}

	fc.mu.RLock()
	if face, ok := fc.faces[key]; ok {
		fc.mu.RUnlock()
		return face
	}
	fc.mu.RUnlock()

	f := fc.findFont(key.name, bold, italic)
	if f == nil {
		return nil
	}
	// DPI 72 makes Size a pixel size.
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}

	fc.mu.Lock()
	fc.faces[key] = face
	fc.mu.Unlock()
	return face
}

// Has reports whether a font is registered under name.
func (fc *FontCache) Has(name string) bool {
	fc.ensureScanned()
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	_, ok := fc.fonts[strings.ToLower(name)]
	return ok
}

var (
	boldItalicSuffixes = []string{" bold italic", "bi", " bolditalic", "z"}
	boldSuffixes       = []string{" bold", "bd", "b"}
	italicSuffixes     = []string{" italic", "i", " it"}
)

// findFont looks up a parsed font by lowercase name, trying style-specific
// variants (Windows names them "arialbd", "arialbi", "ariali") first.
func (fc *FontCache) findFont(lower string, bold, italic bool) *opentype.Font {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	var suffixes [][]string
	if bold && italic {
		suffixes = append(suffixes, boldItalicSuffixes)
	}
	if bold {
		suffixes = append(suffixes, boldSuffixes)
	}
	if italic {
		suffixes = append(suffixes, italicSuffixes)
	}
	for _, group := range suffixes {
		for _, suffix := range group {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	return fc.fonts[lower]
}

// genericFamilies maps CSS generic families to installed fonts worth trying.
var genericFamilies = map[string][]string{
	"sans-serif": {"arial", "helvetica", "dejavu sans", "liberation sans", "noto sans"},
	"serif":      {"times new roman", "dejavu serif", "liberation serif", "noto serif"},
	"monospace":  {"consolas", "courier new", "dejavu sans mono", "liberation mono"},
}

func expandGeneric(name string) []string {
	if alts, ok := genericFamilies[strings.ToLower(strings.TrimSpace(name))]; ok {
		return alts
	}
	return []string{strings.TrimSpace(name)}
}

// LoadFont loads a font file and registers it under name and under its
// internal family names.
func (fc *FontCache) LoadFont(name string, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxFontFileSize {
		return fmt.Errorf("font file too large: %d bytes (max %d)", info.Size(), maxFontFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return fc.LoadFontData(name, data)
}

// LoadFontData registers a font from raw bytes.
func (fc *FontCache) LoadFontData(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", name, err)
	}
	fc.mu.Lock()
	fc.fonts[strings.ToLower(name)] = f
	fc.registerByFamilyName(f)
	fc.mu.Unlock()
	return nil
}

func (fc *FontCache) ensureScanned() {
	fc.mu.RLock()
	scanned := fc.scanned
	fc.mu.RUnlock()
	if scanned {
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.scanned {
		return
	}
	fc.scanned = true

	for _, dir := range fc.dirs {
		fc.scanDirDepth(dir, 0)
	}
}

// maxFontScanDepth limits recursive directory traversal when scanning for fonts.
const maxFontScanDepth = 3

// maxFontFileSize limits the size of individual font files loaded into memory.
const maxFontFileSize = 20 << 20

func (fc *FontCache) scanDirDepth(dir string, depth int) {
	if depth > maxFontScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			fc.scanDirDepth(filepath.Join(dir, entry.Name()), depth+1)
			continue
		}
		lower := strings.ToLower(entry.Name())
		ext := filepath.Ext(lower)
		if ext != ".ttf" && ext != ".otf" && ext != ".ttc" && ext != ".otc" {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		base := strings.TrimSuffix(lower, ext)
		if ext == ".ttc" || ext == ".otc" {
			fc.loadCollection(data, base)
		} else {
			fc.loadSingleFont(data, base)
		}
	}
}

func (fc *FontCache) loadSingleFont(data []byte, base string) {
	f, err := opentype.Parse(data)
	if err != nil {
		return
	}
	fc.fonts[base] = f
	fc.registerByFamilyName(f)
}

// loadCollection registers every font of a TTC/OTC collection by family
// name, and the first one also by file name.
func (fc *FontCache) loadCollection(data []byte, base string) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return
	}
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		if i == 0 {
			fc.fonts[base] = f
		}
		fc.registerByFamilyName(f)
	}
}

// registerByFamilyName registers f under its full name, and under its family
// name unless a styled variant would replace the regular face there.
// Callers hold fc.mu.
func (fc *FontCache) registerByFamilyName(f *opentype.Font) {
	if family, err := f.Name(nil, sfnt.NameIDFamily); err == nil && family != "" {
		key := strings.ToLower(family)
		sub, _ := f.Name(nil, sfnt.NameIDSubfamily)
		if _, taken := fc.fonts[key]; !taken || isRegularSubfamily(sub) {
			fc.fonts[key] = f
		}
	}
	if full, err := f.Name(nil, sfnt.NameIDFull); err == nil && full != "" {
		fc.fonts[strings.ToLower(full)] = f
	}
}

func isRegularSubfamily(sub string) bool {
	switch strings.ToLower(strings.TrimSpace(sub)) {
	case "", "regular", "normal", "book", "roman", "standard":
		return true
	}
	return false
}

// systemFontDirs returns OS-specific font directories.
func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
		return dirs
	}
}
