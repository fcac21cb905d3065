package slidesmith

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Reader is the interface for presentation readers.
type Reader interface {
	Read(path string) (*Presentation, error)
	ReadFromReader(r io.ReaderAt, size int64) (*Presentation, error)
}

// ReaderType represents the input format.
type ReaderType string

const (
	ReaderPowerPoint2007 ReaderType = "PowerPoint2007"
)

// NewReader creates a reader for the given format.
func NewReader(format ReaderType) (Reader, error) {
	switch format {
	case ReaderPowerPoint2007:
		return &PPTXReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported reader format: %s", format)
	}
}

// PPTXReader reads PPTX files.
type PPTXReader struct{}

// Read reads a presentation from a file path.
func (r *PPTXReader) Read(path string) (*Presentation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return r.ReadFromReader(f, info.Size())
}

// ReadFromReader reads a presentation from an io.ReaderAt.
func (r *PPTXReader) ReadFromReader(reader io.ReaderAt, size int64) (*Presentation, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid reader size: %d", size)
	}
	if size > int64(maxZipTotalSize) {
		return nil, fmt.Errorf("file size %d exceeds maximum allowed (%d bytes)", size, maxZipTotalSize)
	}

	zr, err := zip.NewReader(reader, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	if len(zr.File) > maxZipEntries {
		return nil, fmt.Errorf("zip archive contains too many entries (%d > %d)", len(zr.File), maxZipEntries)
	}

	pkg := &pptxPackage{zr: zr, files: zipIndex(zr)}
	pres := &Presentation{
		properties: NewDocumentProperties(),
		layout:     NewDocumentLayout(),
		slides:     make([]*Slide, 0),
	}

	// Missing core properties are acceptable.
	_ = pkg.readCoreProperties(pres.properties)

	slideRelIDs, err := pkg.readPresentation(pres)
	if err != nil {
		return nil, err
	}
	presRels, err := pkg.readRelationships("ppt/_rels/presentation.xml.rels")
	if err != nil {
		return nil, err
	}

	layoutIndex, err := pkg.readLayouts(pres, presRels)
	if err != nil {
		return nil, err
	}

	for _, relID := range slideRelIDs {
		rel, ok := findRel(presRels, relID)
		if !ok {
			continue
		}
		target := resolveRelativePath("ppt", rel.Target)
		slide, err := pkg.readSlide(target, pres, layoutIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to read slide %s: %w", target, err)
		}
		pres.slides = append(pres.slides, slide)
	}

	return pres, nil
}

// maxZipEntrySize is the maximum allowed size for a single file extracted from a ZIP.
const maxZipEntrySize = 50 << 20 // 50 MB

// maxZipTotalSize is the cumulative limit for all extracted content from a single ZIP.
const maxZipTotalSize = 200 << 20 // 200 MB

// maxZipEntries is the maximum number of files allowed in a ZIP archive.
const maxZipEntries = 10000

// pptxPackage is an opened package plus the running total of bytes extracted from it.
type pptxPackage struct {
	zr        *zip.Reader
	files     map[string]*zip.File
	extracted int64
}

// zipIndex builds a map from file name to *zip.File for O(1) lookups.
func zipIndex(zr *zip.Reader) map[string]*zip.File {
	m := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		m[f.Name] = f
	}
	return m
}

func (pkg *pptxPackage) has(name string) bool {
	_, ok := pkg.files[name]
	return ok
}

func (pkg *pptxPackage) readFile(name string) ([]byte, error) {
	f, ok := pkg.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found in zip: %s", name)
	}
	if f.UncompressedSize64 > maxZipEntrySize {
		return nil, fmt.Errorf("file %s exceeds maximum allowed size (%d bytes)", name, maxZipEntrySize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in zip: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, int64(maxZipEntrySize)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from zip: %w", name, err)
	}
	if int64(len(data)) > int64(maxZipEntrySize) {
		return nil, fmt.Errorf("file %s actual size exceeds maximum allowed size", name)
	}
	pkg.extracted += int64(len(data))
	if pkg.extracted > maxZipTotalSize {
		return nil, fmt.Errorf("extracted content exceeds maximum allowed total (%d bytes)", maxZipTotalSize)
	}
	return data, nil
}

// --- Relationship reading ---

type xmlRelForRead struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type xmlRelsForRead struct {
	XMLName       xml.Name        `xml:"Relationships"`
	Relationships []xmlRelForRead `xml:"Relationship"`
}

// readRelationships parses a .rels part. A missing part yields no relationships.
func (pkg *pptxPackage) readRelationships(path string) ([]xmlRelForRead, error) {
	if !pkg.has(path) {
		return nil, nil
	}
	data, err := pkg.readFile(path)
	if err != nil {
		return nil, err
	}
	var rels xmlRelsForRead
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships %s: %w", path, err)
	}
	return rels.Relationships, nil
}

func findRel(rels []xmlRelForRead, id string) (xmlRelForRead, bool) {
	for _, rel := range rels {
		if rel.ID == id {
			return rel, true
		}
	}
	return xmlRelForRead{}, false
}

func findRelByType(rels []xmlRelForRead, typ string) (xmlRelForRead, bool) {
	for _, rel := range rels {
		if rel.Type == typ {
			return rel, true
		}
	}
	return xmlRelForRead{}, false
}

// relsPathFor returns the .rels part that belongs to a package part.
func relsPathFor(part string) string {
	dir, file := partDir(part), lastPathComponent(part)
	return dir + "/_rels/" + file + ".rels"
}

func partDir(part string) string {
	if i := strings.LastIndex(part, "/"); i >= 0 {
		return part[:i]
	}
	return ""
}

func lastPathComponent(path string) string {
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

// resolveRelativePath resolves a relationship target against the directory of
// its source part. Results never escape the package root.
func resolveRelativePath(base, rel string) string {
	if strings.HasPrefix(rel, "/") {
		return strings.TrimPrefix(rel, "/")
	}

	result := make([]string, 0, 8)
	if base != "" {
		result = append(result, strings.Split(base, "/")...)
	}
	for _, part := range strings.Split(rel, "/") {
		switch part {
		case "..":
			if len(result) > 0 {
				result = result[:len(result)-1]
			}
		case ".", "":
		default:
			result = append(result, part)
		}
	}
	return strings.Join(result, "/")
}

// --- presentation.xml ---

type xmlPresentationForRead struct {
	// Only the r:id is read; a plain id field would also capture r:id.
	SldIDs []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
	SldSz struct {
		CX   int64  `xml:"cx,attr"`
		CY   int64  `xml:"cy,attr"`
		Type string `xml:"type,attr"`
	} `xml:"sldSz"`
}

// readPresentation reads the slide size and returns slide rel ids in show order.
func (pkg *pptxPackage) readPresentation(pres *Presentation) ([]string, error) {
	data, err := pkg.readFile("ppt/presentation.xml")
	if err != nil {
		return nil, fmt.Errorf("failed to read presentation.xml: %w", err)
	}
	var doc xmlPresentationForRead
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse presentation.xml: %w", err)
	}

	if doc.SldSz.CX > 0 && doc.SldSz.CY > 0 {
		pres.layout.CX, pres.layout.CY = doc.SldSz.CX, doc.SldSz.CY
		pres.layout.Name = layoutNameForSize(doc.SldSz.CX, doc.SldSz.CY)
	}

	ids := make([]string, 0, len(doc.SldIDs))
	for _, s := range doc.SldIDs {
		ids = append(ids, s.RID)
	}
	return ids, nil
}

// layoutNameForSize maps slide dimensions back to a named size.
func layoutNameForSize(cx, cy int64) string {
	for _, name := range []string{LayoutScreen4x3, LayoutScreen16x9, LayoutScreen16x10, LayoutA4} {
		dl := NewDocumentLayout()
		_ = dl.SetLayout(name)
		if dl.CX == cx && dl.CY == cy {
			return name
		}
	}
	return LayoutCustom
}

// --- layouts ---

type xmlSlideMasterForRead struct {
	LayoutIDs []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldLayoutIdLst>sldLayoutId"`
}

type xmlSlideLayoutForRead struct {
	Type string `xml:"type,attr"`
	CSld struct {
		Name string  `xml:"name,attr"`
		Sps  []xmlSp `xml:"spTree>sp"`
	} `xml:"cSld"`
}

// readLayouts loads the first master's layouts in master order. It returns a map
// from layout part name to its index in pres.layouts. Packages without layouts
// fall back to the built-in set.
func (pkg *pptxPackage) readLayouts(pres *Presentation, presRels []xmlRelForRead) (map[string]int, error) {
	index := make(map[string]int)

	masterRel, ok := findRelByType(presRels, relTypeSlideMaster)
	if !ok {
		pres.layouts = DefaultLayouts(pres.layout.CX, pres.layout.CY)
		return index, nil
	}
	masterPath := resolveRelativePath("ppt", masterRel.Target)
	data, err := pkg.readFile(masterPath)
	if err != nil {
		return nil, err
	}
	var master xmlSlideMasterForRead
	if err := xml.Unmarshal(data, &master); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", masterPath, err)
	}
	masterRels, err := pkg.readRelationships(relsPathFor(masterPath))
	if err != nil {
		return nil, err
	}

	for _, lid := range master.LayoutIDs {
		rel, ok := findRel(masterRels, lid.RID)
		if !ok {
			continue
		}
		layoutPath := resolveRelativePath(partDir(masterPath), rel.Target)
		layout, err := pkg.readLayout(layoutPath)
		if err != nil {
			return nil, err
		}
		index[layoutPath] = len(pres.layouts)
		pres.layouts = append(pres.layouts, layout)
	}

	if len(pres.layouts) == 0 {
		pres.layouts = DefaultLayouts(pres.layout.CX, pres.layout.CY)
	}
	return index, nil
}

func (pkg *pptxPackage) readLayout(path string) (*SlideLayout, error) {
	data, err := pkg.readFile(path)
	if err != nil {
		return nil, err
	}
	var doc xmlSlideLayoutForRead
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	layout := &SlideLayout{Name: doc.CSld.Name, Type: doc.Type}
	for _, sp := range doc.CSld.Sps {
		ph := sp.NvSpPr.NvPr.Ph
		if ph == nil {
			continue
		}
		lp := LayoutPlaceholder{
			Type:     ph.placeholderType(),
			Idx:      ph.index(),
			Name:     sp.NvSpPr.CNvPr.Name,
			Vertical: ph.Orient == "vert",
		}
		if x := sp.SpPr.Xfrm; x != nil {
			lp.OffsetX, lp.OffsetY = x.Off.X, x.Off.Y
			lp.Width, lp.Height = x.Ext.CX, x.Ext.CY
		}
		layout.Placeholders = append(layout.Placeholders, lp)
	}
	sort.SliceStable(layout.Placeholders, func(i, j int) bool {
		return layout.Placeholders[i].Idx < layout.Placeholders[j].Idx
	})
	return layout, nil
}

// --- core properties ---

type xmlCorePropsForRead struct {
	Title          string `xml:"title"`
	Subject        string `xml:"subject"`
	Creator        string `xml:"creator"`
	Keywords       string `xml:"keywords"`
	Description    string `xml:"description"`
	LastModifiedBy string `xml:"lastModifiedBy"`
	Revision       string `xml:"revision"`
	Category       string `xml:"category"`
	Created        string `xml:"created"`
	Modified       string `xml:"modified"`
}

func (pkg *pptxPackage) readCoreProperties(props *DocumentProperties) error {
	data, err := pkg.readFile("docProps/core.xml")
	if err != nil {
		return err
	}
	var cp xmlCorePropsForRead
	if err := xml.Unmarshal(data, &cp); err != nil {
		return err
	}

	props.Title = cp.Title
	props.Subject = cp.Subject
	props.Creator = cp.Creator
	props.Keywords = cp.Keywords
	props.Description = cp.Description
	props.LastModifiedBy = cp.LastModifiedBy
	props.Revision = cp.Revision
	props.Category = cp.Category
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(cp.Created)); err == nil {
		props.Created = t
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(cp.Modified)); err == nil {
		props.Modified = t
	}
	return nil
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
