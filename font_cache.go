package slidesmith

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// fontKey uniquely identifies a font face by name, size, bold, and italic.
type fontKey struct {
	name   string
	size   float64
	bold   bool
	italic bool
}

// fontEntry is a parsed font plus the file bytes it came from. data is nil for
// members of a collection, which cannot be embedded on their own.
type fontEntry struct {
	font   *opentype.Font
	data   []byte
	format string // "truetype" or "opentype"
}

// FontCache manages TrueType font loading and face caching.
// It searches its directories for .ttf, .otf and .ttc files, then caches
// parsed fonts and measurement faces.
type FontCache struct {
	mu      sync.RWMutex
	dirs    []string
	fonts   map[string]*fontEntry // lowercase font name -> entry
	faces   map[fontKey]font.Face
	scanned bool
}

// NewFontCache creates a FontCache that searches the OS font directories
// plus extraDirs.
func NewFontCache(extraDirs ...string) *FontCache {
	return NewFontCacheFromDirs(append(systemFontDirs(), extraDirs...)...)
}

// NewFontCacheFromDirs creates a FontCache that searches only dirs.
func NewFontCacheFromDirs(dirs ...string) *FontCache {
	return &FontCache{
		dirs:  dirs,
		fonts: make(map[string]*fontEntry),
		faces: make(map[fontKey]font.Face),
	}
}

// MeasureFace returns an unhinted face for text measurement, or nil when no
// matching font is installed. Unhinted advances match PowerPoint's layout.
func (fc *FontCache) MeasureFace(name string, sizePt float64, bold, italic bool) font.Face {
	fc.ensureScanned()

	key := fontKey{name: strings.ToLower(name), size: sizePt, bold: bold, italic: italic}

	fc.mu.RLock()
	if face, ok := fc.faces[key]; ok {
		fc.mu.RUnlock()
		return face
	}
	fc.mu.RUnlock()

	e := fc.findFont(name, bold, italic)
	if e == nil {
		return nil
	}
	face, err := opentype.NewFace(e.font, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}

	fc.mu.Lock()
	fc.faces[key] = face
	fc.mu.Unlock()
	return face
}

// FontData returns the raw file bytes and CSS format name of a font, for
// embedding as @font-face. ok is false when the font is unknown or came from
// a collection.
func (fc *FontCache) FontData(name string, bold, italic bool) (data []byte, format string, ok bool) {
	fc.ensureScanned()
	e := fc.findFont(name, bold, italic)
	if e == nil || len(e.data) == 0 {
		return nil, "", false
	}
	return e.data, e.format, true
}

var styleSuffixes = struct{ boldItalic, bold, italic []string }{
	boldItalic: []string{" bold italic", "bi", " bolditalic", "z"},
	bold:       []string{" bold", "bd", "b"},
	italic:     []string{" italic", "i", " it"},
}

// findFont looks up a font by name, trying style-specific variants first and
// then metric-compatible substitutes.
func (fc *FontCache) findFont(name string, bold, italic bool) *fontEntry {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	lower := strings.ToLower(strings.TrimSpace(name))
	if e := fc.findFontByKey(lower, bold, italic); e != nil {
		return e
	}
	for _, alt := range fontSubstitutes[lower] {
		if e := fc.findFontByKey(alt, bold, italic); e != nil {
			return e
		}
	}
	return nil
}

// findFontByKey looks up a font by its already-lowercased key, with style variants.
func (fc *FontCache) findFontByKey(lower string, bold, italic bool) *fontEntry {
	var suffixes []string
	if bold && italic {
		suffixes = append(suffixes, styleSuffixes.boldItalic...)
	}
	if bold {
		suffixes = append(suffixes, styleSuffixes.bold...)
	}
	if italic {
		suffixes = append(suffixes, styleSuffixes.italic...)
	}
	for _, suffix := range suffixes {
		if e, ok := fc.fonts[lower+suffix]; ok {
			return e
		}
	}
	if e, ok := fc.fonts[lower]; ok {
		return e
	}
	return nil
}

// LoadFontData registers a TrueType/OpenType font from raw bytes.
func (fc *FontCache) LoadFontData(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return err
	}
	e := &fontEntry{font: f, data: data, format: fontFormat(data)}
	fc.mu.Lock()
	fc.fonts[strings.ToLower(name)] = e
	fc.registerByFamilyName(e)
	fc.mu.Unlock()
	return nil
}

// fontFormat names the CSS src format for an sfnt file.
func fontFormat(data []byte) string {
	if len(data) >= 4 && string(data[:4]) == "OTTO" {
		return "opentype"
	}
	return "truetype"
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
const maxFontFileSize = 20 << 20 // 20 MB

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
		name := entry.Name()
		lower := strings.ToLower(name)
		isTTC := strings.HasSuffix(lower, ".ttc") || strings.HasSuffix(lower, ".otc")
		isSingle := strings.HasSuffix(lower, ".ttf") || strings.HasSuffix(lower, ".otf")
		if !isTTC && !isSingle {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}

		if isTTC {
			fc.loadCollection(data, lower)
		} else {
			fc.loadSingleFont(data, lower)
		}
	}
}

// loadSingleFont registers a TTF/OTF font by both filename and family name.
func (fc *FontCache) loadSingleFont(data []byte, lowerFilename string) {
	f, err := opentype.Parse(data)
	if err != nil {
		return
	}
	e := &fontEntry{font: f, data: data, format: fontFormat(data)}
	baseName := strings.TrimSuffix(lowerFilename, filepath.Ext(lowerFilename))
	fc.fonts[baseName] = e
	fc.registerByFamilyName(e)
}

// loadCollection registers each font of a TTC/OTC collection by family name.
func (fc *FontCache) loadCollection(data []byte, lowerFilename string) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return
	}
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		e := &fontEntry{font: f}
		if i == 0 {
			baseName := strings.TrimSuffix(lowerFilename, filepath.Ext(lowerFilename))
			fc.fonts[baseName] = e
		}
		fc.registerByFamilyName(e)
	}
}

// fontSubstitutes maps Office fonts to metric-compatible free fonts.
var fontSubstitutes = map[string][]string{
	"calibri":         {"carlito"},
	"cambria":         {"caladea"},
	"arial":           {"liberation sans", "arimo", "dejavu sans"},
	"helvetica":       {"liberation sans", "arimo"},
	"times new roman": {"liberation serif", "tinos"},
	"courier new":     {"liberation mono", "cousine"},
	"calibri light":   {"carlito"},
}

// registerByFamilyName registers an entry under the family and full names
// from the font's name table. Existing registrations win.
func (fc *FontCache) registerByFamilyName(e *fontEntry) {
	for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDFull} {
		n, err := e.font.Name(nil, id)
		if err != nil || n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, exists := fc.fonts[key]; !exists {
			fc.fonts[key] = e
		}
	}
}

// systemFontDirs returns OS-specific font directories.
func systemFontDirs() []string {
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			dirs = append(dirs, filepath.Join(localAppData, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home, _ := os.UserHomeDir(); home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home, _ := os.UserHomeDir(); home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
		return dirs
	}
}
