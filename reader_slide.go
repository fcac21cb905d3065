package slidesmith

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// --- DrawingML element shapes shared by slides and layouts ---

type xmlCNvPr struct {
	ID    int    `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr"`
}

type xmlPh struct {
	Type   string `xml:"type,attr"`
	Idx    string `xml:"idx,attr"`
	Orient string `xml:"orient,attr"`
}

// placeholderType maps a ph type attribute; an absent type means a body placeholder.
func (ph *xmlPh) placeholderType() PlaceholderType {
	if ph.Type == "" {
		return PlaceholderBody
	}
	return PlaceholderType(ph.Type)
}

func (ph *xmlPh) index() int {
	return atoiDefault(ph.Idx, 0)
}

type xmlXfrm struct {
	Rot int `xml:"rot,attr"`
	Off struct {
		X int64 `xml:"x,attr"`
		Y int64 `xml:"y,attr"`
	} `xml:"off"`
	Ext struct {
		CX int64 `xml:"cx,attr"`
		CY int64 `xml:"cy,attr"`
	} `xml:"ext"`
}

type xmlSrgb struct {
	Val string `xml:"val,attr"`
}

type xmlSolidFill struct {
	SrgbClr *xmlSrgb `xml:"srgbClr"`
}

func (f *xmlSolidFill) color() (Color, bool) {
	if f == nil || f.SrgbClr == nil || len(f.SrgbClr.Val) != 6 {
		return Color{}, false
	}
	return NewColor("FF" + strings.ToUpper(f.SrgbClr.Val)), true
}

type xmlLn struct {
	W         int64         `xml:"w,attr"`
	SolidFill *xmlSolidFill `xml:"solidFill"`
	NoFill    *struct{}     `xml:"noFill"`
	PrstDash  *xmlSrgb      `xml:"prstDash"`
}

type xmlSpPr struct {
	Xfrm      *xmlXfrm      `xml:"xfrm"`
	PrstGeom  *struct {
		Prst string `xml:"prst,attr"`
	} `xml:"prstGeom"`
	SolidFill *xmlSolidFill `xml:"solidFill"`
	Ln        *xmlLn        `xml:"ln"`
}

type xmlBodyPr struct {
	Wrap        string    `xml:"wrap,attr"`
	Anchor      string    `xml:"anchor,attr"`
	Vert        string    `xml:"vert,attr"`
	NormAutofit *struct{} `xml:"normAutofit"`
}

type xmlRPr struct {
	Sz        int           `xml:"sz,attr"`
	B         string        `xml:"b,attr"`
	I         string        `xml:"i,attr"`
	U         string        `xml:"u,attr"`
	SolidFill *xmlSolidFill `xml:"solidFill"`
	Latin     *struct {
		Typeface string `xml:"typeface,attr"`
	} `xml:"latin"`
}

type xmlPPr struct {
	Algn    string    `xml:"algn,attr"`
	Lvl     int       `xml:"lvl,attr"`
	BuNone  *struct{} `xml:"buNone"`
	BuClr   *struct {
		SrgbClr *xmlSrgb `xml:"srgbClr"`
	} `xml:"buClr"`
	BuSzPct *struct {
		Val int `xml:"val,attr"`
	} `xml:"buSzPct"`
	BuFont *struct {
		Typeface string `xml:"typeface,attr"`
	} `xml:"buFont"`
	BuChar *struct {
		Char string `xml:"char,attr"`
	} `xml:"buChar"`
	BuAutoNum *struct {
		Type    string `xml:"type,attr"`
		StartAt int    `xml:"startAt,attr"`
	} `xml:"buAutoNum"`
}

// xmlParaItem captures r, br and fld children in document order.
type xmlParaItem struct {
	XMLName xml.Name
	RPr     *xmlRPr `xml:"rPr"`
	T       string  `xml:"t"`
}

type xmlPara struct {
	PPr   *xmlPPr       `xml:"pPr"`
	Items []xmlParaItem `xml:",any"`
}

type xmlTxBody struct {
	BodyPr xmlBodyPr `xml:"bodyPr"`
	Paras  []xmlPara `xml:"p"`
}

type xmlSp struct {
	NvSpPr struct {
		CNvPr   xmlCNvPr `xml:"cNvPr"`
		CNvSpPr struct {
			TxBox string `xml:"txBox,attr"`
		} `xml:"cNvSpPr"`
		NvPr struct {
			Ph *xmlPh `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	SpPr   xmlSpPr    `xml:"spPr"`
	TxBody *xmlTxBody `xml:"txBody"`
}

type xmlPic struct {
	NvPicPr struct {
		CNvPr xmlCNvPr `xml:"cNvPr"`
	} `xml:"nvPicPr"`
	BlipFill struct {
		Blip struct {
			Embed string `xml:"embed,attr"`
		} `xml:"blip"`
	} `xml:"blipFill"`
	SpPr xmlSpPr `xml:"spPr"`
}

type xmlTc struct {
	GridSpan int       `xml:"gridSpan,attr"`
	RowSpan  int       `xml:"rowSpan,attr"`
	HMerge   string    `xml:"hMerge,attr"`
	VMerge   string    `xml:"vMerge,attr"`
	TxBody   xmlTxBody `xml:"txBody"`
	TcPr     struct {
		Anchor    string        `xml:"anchor,attr"`
		SolidFill *xmlSolidFill `xml:"solidFill"`
	} `xml:"tcPr"`
}

type xmlTbl struct {
	TblPr struct {
		FirstRow string `xml:"firstRow,attr"`
		BandRow  string `xml:"bandRow,attr"`
	} `xml:"tblPr"`
	GridCols []struct {
		W int64 `xml:"w,attr"`
	} `xml:"tblGrid>gridCol"`
	Rows []struct {
		H   int64   `xml:"h,attr"`
		Tcs []xmlTc `xml:"tc"`
	} `xml:"tr"`
}

type xmlGraphicFrame struct {
	NvGraphicFramePr struct {
		CNvPr xmlCNvPr `xml:"cNvPr"`
	} `xml:"nvGraphicFramePr"`
	Xfrm    xmlXfrm `xml:"xfrm"`
	Graphic struct {
		GraphicData struct {
			URI   string  `xml:"uri,attr"`
			Tbl   *xmlTbl `xml:"tbl"`
			Chart *struct {
				RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
			} `xml:"chart"`
		} `xml:"graphicData"`
	} `xml:"graphic"`
}

func xmlTrue(v string) bool { return v == "1" || v == "true" }

// --- slide parsing ---

// slideContext carries what a slide's shapes need to resolve their parts.
type slideContext struct {
	pkg    *pptxPackage
	path   string
	rels   []xmlRelForRead
	slide  *Slide
	layout *SlideLayout
}

func (pkg *pptxPackage) readSlide(path string, pres *Presentation, layoutIndex map[string]int) (*Slide, error) {
	data, err := pkg.readFile(path)
	if err != nil {
		return nil, err
	}
	rels, err := pkg.readRelationships(relsPathFor(path))
	if err != nil {
		return nil, err
	}

	idx := 0
	if rel, ok := findRelByType(rels, relTypeSlideLayout); ok {
		if i, ok := layoutIndex[resolveRelativePath(partDir(path), rel.Target)]; ok {
			idx = i
		}
	}
	var layout *SlideLayout
	if idx < len(pres.layouts) {
		layout = pres.layouts[idx]
	}

	// Shapes come from the part, not from the layout.
	slide := newSlide(idx, nil)
	slide.layout = layout

	ctx := &slideContext{pkg: pkg, path: path, rels: rels, slide: slide, layout: layout}
	if err := ctx.parseSlideXML(data); err != nil {
		return nil, err
	}

	if rel, ok := findRelByType(rels, relTypeNotesSlide); ok {
		if notes, err := pkg.readFile(resolveRelativePath(partDir(path), rel.Target)); err == nil {
			slide.notes = parseNotesXML(notes)
		}
	}
	return slide, nil
}

// parseSlideXML walks the slide document, decoding each spTree child in order.
func (ctx *slideContext) parseSlideXML(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	inSpTree := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", ctx.path, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "cSld":
				for _, a := range t.Attr {
					if a.Name.Local == "name" {
						ctx.slide.name = a.Value
					}
				}
			case "bg":
				var bg struct {
					SolidFill *xmlSolidFill `xml:"bgPr>solidFill"`
				}
				if err := decoder.DecodeElement(&bg, &t); err != nil {
					return err
				}
				if c, ok := bg.SolidFill.color(); ok {
					ctx.slide.background = NewFill().SetSolid(c)
				}
			case "spTree":
				inSpTree = true
			case "sp":
				if !inSpTree {
					continue
				}
				var sp xmlSp
				if err := decoder.DecodeElement(&sp, &t); err != nil {
					return err
				}
				ctx.slide.addShape(ctx.buildSp(&sp))
			case "pic":
				if !inSpTree {
					continue
				}
				var pic xmlPic
				if err := decoder.DecodeElement(&pic, &t); err != nil {
					return err
				}
				if shape := ctx.buildPic(&pic); shape != nil {
					ctx.slide.addShape(shape)
				}
			case "graphicFrame":
				if !inSpTree {
					continue
				}
				var gf xmlGraphicFrame
				if err := decoder.DecodeElement(&gf, &t); err != nil {
					return err
				}
				if shape := ctx.buildGraphicFrame(&gf); shape != nil {
					ctx.slide.addShape(shape)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "spTree" {
				inSpTree = false
			}
		}
	}
}

func applyCNvPr(b *BaseShape, c xmlCNvPr) {
	b.id = c.ID
	b.name = c.Name
	b.description = c.Descr
}

func applyXfrm(b *BaseShape, x *xmlXfrm) {
	if x == nil {
		return
	}
	b.offsetX, b.offsetY = x.Off.X, x.Off.Y
	b.width, b.height = x.Ext.CX, x.Ext.CY
	if x.Rot != 0 {
		b.SetRotation(x.Rot / 60000)
	}
}

func applyShapeStyle(b *BaseShape, spPr *xmlSpPr) {
	if c, ok := spPr.SolidFill.color(); ok {
		b.fill = NewFill().SetSolid(c)
	}
	if ln := spPr.Ln; ln != nil && ln.NoFill == nil {
		if c, ok := ln.SolidFill.color(); ok {
			border := NewBorder().SetSolid(c, ln.W)
			if ln.PrstDash != nil && ln.PrstDash.Val != "solid" {
				border.Style = BorderDash
			}
			b.border = border
		}
	}
}

func (ctx *slideContext) buildSp(sp *xmlSp) Shape {
	if ph := sp.NvSpPr.NvPr.Ph; ph != nil {
		return ctx.buildPlaceholder(sp, ph)
	}

	prst := ""
	if sp.SpPr.PrstGeom != nil {
		prst = sp.SpPr.PrstGeom.Prst
	}
	if !xmlTrue(sp.NvSpPr.CNvSpPr.TxBox) && prst != "" {
		as := NewAutoShape()
		applyCNvPr(&as.BaseShape, sp.NvSpPr.CNvPr)
		applyXfrm(&as.BaseShape, sp.SpPr.Xfrm)
		applyShapeStyle(&as.BaseShape, &sp.SpPr)
		as.shapeType = AutoShapeType(prst)
		if sp.TxBody != nil {
			as.text = strings.Join(paragraphsText(parseParagraphs(sp.TxBody.Paras)), "\n")
		}
		return as
	}

	rt := NewRichTextShape()
	applyCNvPr(&rt.BaseShape, sp.NvSpPr.CNvPr)
	applyXfrm(&rt.BaseShape, sp.SpPr.Xfrm)
	applyShapeStyle(&rt.BaseShape, &sp.SpPr)
	if sp.TxBody != nil {
		applyBodyPr(rt, sp.TxBody.BodyPr)
		if paras := parseParagraphs(sp.TxBody.Paras); len(paras) > 0 {
			rt.paragraphs = paras
		}
	}
	return rt
}

func applyBodyPr(rt *RichTextShape, bp xmlBodyPr) {
	rt.wordWrap = bp.Wrap != "none"
	rt.autoFit = bp.NormAutofit != nil
	if bp.Anchor != "" {
		rt.textAnchor = TextAnchorType(bp.Anchor)
	}
}

// buildPlaceholder reads a placeholder; a missing xfrm inherits the layout's rectangle.
func (ctx *slideContext) buildPlaceholder(sp *xmlSp, ph *xmlPh) *PlaceholderShape {
	shape := NewPlaceholderShape(ph.placeholderType(), ph.index())
	shape.vertical = ph.Orient == "vert"
	applyCNvPr(&shape.BaseShape, sp.NvSpPr.CNvPr)
	if sp.SpPr.Xfrm != nil {
		applyXfrm(&shape.BaseShape, sp.SpPr.Xfrm)
	} else if ctx.layout != nil {
		if lp, ok := ctx.layout.Placeholder(shape.phIdx); ok {
			shape.SetPosition(lp.OffsetX, lp.OffsetY)
			shape.SetSize(lp.Width, lp.Height)
			shape.vertical = shape.vertical || lp.Vertical
		}
	}
	applyShapeStyle(&shape.BaseShape, &sp.SpPr)
	if sp.TxBody != nil {
		applyBodyPr(&shape.RichTextShape, sp.TxBody.BodyPr)
		if sp.TxBody.BodyPr.Vert != "" && sp.TxBody.BodyPr.Vert != "horz" {
			shape.vertical = true
		}
		if paras := parseParagraphs(sp.TxBody.Paras); len(paras) > 0 {
			shape.paragraphs = paras
		}
	}
	return shape
}

func parseParagraphs(paras []xmlPara) []*Paragraph {
	out := make([]*Paragraph, 0, len(paras))
	for _, xp := range paras {
		p := NewParagraph()
		if ppr := xp.PPr; ppr != nil {
			if ppr.Algn != "" || ppr.Lvl > 0 {
				p.alignment = NewAlignment()
				p.alignment.Horizontal = HorizontalAlignment(ppr.Algn)
				p.alignment.Level = ppr.Lvl
			}
			p.bullet = parseBullet(ppr)
		}
		for _, item := range xp.Items {
			switch item.XMLName.Local {
			case "r", "fld":
				run := &TextRun{text: item.T, font: parseRunFont(item.RPr)}
				p.elements = append(p.elements, run)
			case "br":
				p.elements = append(p.elements, &BreakElement{})
			}
		}
		out = append(out, p)
	}
	return out
}

func parseBullet(ppr *xmlPPr) *Bullet {
	var b *Bullet
	switch {
	case ppr.BuNone != nil:
		return &Bullet{Type: BulletTypeNone}
	case ppr.BuChar != nil:
		b = NewBullet()
		b.Style = ppr.BuChar.Char
		b.Font = ""
		if ppr.BuFont != nil {
			b.Font = ppr.BuFont.Typeface
		}
	case ppr.BuAutoNum != nil:
		b = NewNumericBullet(ppr.BuAutoNum.Type, ppr.BuAutoNum.StartAt)
	default:
		return nil
	}
	if ppr.BuSzPct != nil && ppr.BuSzPct.Val > 0 {
		b.Size = ppr.BuSzPct.Val / 1000
	}
	if ppr.BuClr != nil {
		if c, ok := (&xmlSolidFill{SrgbClr: ppr.BuClr.SrgbClr}).color(); ok {
			b.Color = &c
		}
	}
	return b
}

// parseRunFont keeps unset attributes zero so the run inherits them on rewrite.
func parseRunFont(rpr *xmlRPr) *Font {
	f := inheritedFont()
	if rpr == nil {
		return f
	}
	if rpr.Sz > 0 {
		f.Size = rpr.Sz / 100
	}
	f.Bold = xmlTrue(rpr.B)
	f.Italic = xmlTrue(rpr.I)
	if rpr.U != "" {
		f.Underline = UnderlineType(rpr.U)
	}
	if c, ok := rpr.SolidFill.color(); ok {
		f.Color = c
	}
	if rpr.Latin != nil && !strings.HasPrefix(rpr.Latin.Typeface, "+") {
		f.Name = rpr.Latin.Typeface
	}
	return f
}

func (ctx *slideContext) buildPic(pic *xmlPic) Shape {
	rel, ok := findRel(ctx.rels, pic.BlipFill.Blip.Embed)
	if !ok || rel.TargetMode == "External" {
		return nil
	}
	target := resolveRelativePath(partDir(ctx.path), rel.Target)
	data, err := ctx.pkg.readFile(target)
	if err != nil {
		return nil
	}
	mime := sniffImageMime(data)
	if mime == "" {
		mime = guessMimeFromPath(target)
	}
	if !isValidImageMime(mime) {
		return nil
	}

	ds := NewDrawingShape()
	applyCNvPr(&ds.BaseShape, pic.NvPicPr.CNvPr)
	applyXfrm(&ds.BaseShape, pic.SpPr.Xfrm)
	applyShapeStyle(&ds.BaseShape, &pic.SpPr)
	ds.data = data
	ds.mimeType = mime
	return ds
}

func (ctx *slideContext) buildGraphicFrame(gf *xmlGraphicFrame) Shape {
	gd := gf.Graphic.GraphicData
	switch {
	case gd.Tbl != nil:
		t := buildTable(gd.Tbl)
		if t == nil {
			return nil
		}
		applyCNvPr(&t.BaseShape, gf.NvGraphicFramePr.CNvPr)
		applyXfrm(&t.BaseShape, &gf.Xfrm)
		return t
	case gd.Chart != nil:
		rel, ok := findRel(ctx.rels, gd.Chart.RID)
		if !ok {
			return nil
		}
		data, err := ctx.pkg.readFile(resolveRelativePath(partDir(ctx.path), rel.Target))
		if err != nil {
			return nil
		}
		chart, err := parseChartXML(data)
		if err != nil {
			return nil
		}
		applyCNvPr(&chart.BaseShape, gf.NvGraphicFramePr.CNvPr)
		applyXfrm(&chart.BaseShape, &gf.Xfrm)
		return chart
	}
	return nil
}

func buildTable(tbl *xmlTbl) *TableShape {
	rows, cols := len(tbl.Rows), len(tbl.GridCols)
	if rows == 0 || cols == 0 {
		return nil
	}
	t := NewTableShape(rows, cols)
	t.firstRow = xmlTrue(tbl.TblPr.FirstRow)
	t.bandRow = xmlTrue(tbl.TblPr.BandRow)

	widths := make([]int64, cols)
	for i, gc := range tbl.GridCols {
		widths[i] = gc.W
	}
	_ = t.SetColumnWidths(widths)

	for r, row := range tbl.Rows {
		for c, tc := range row.Tcs {
			if c >= cols {
				break
			}
			cell := t.rows[r][c]
			if tc.GridSpan > 1 {
				cell.gridSpan = tc.GridSpan
			}
			if tc.RowSpan > 1 {
				cell.rowSpan = tc.RowSpan
			}
			cell.hMerge = xmlTrue(tc.HMerge)
			cell.vMerge = xmlTrue(tc.VMerge)
			if paras := parseParagraphs(tc.TxBody.Paras); len(paras) > 0 {
				cell.paragraphs = paras
			}
			if tc.TcPr.Anchor != "" {
				cell.anchor = TextAnchorType(tc.TcPr.Anchor)
			}
			if c, ok := tc.TcPr.SolidFill.color(); ok {
				cell.fill = NewFill().SetSolid(c)
			}
		}
	}
	return t
}

// parseNotesXML returns the text of the notes body placeholder, one line per paragraph.
func parseNotesXML(data []byte) string {
	var doc struct {
		Sps []xmlSp `xml:"cSld>spTree>sp"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return ""
	}
	for _, sp := range doc.Sps {
		ph := sp.NvSpPr.NvPr.Ph
		if ph == nil || ph.placeholderType() != PlaceholderBody || sp.TxBody == nil {
			continue
		}
		return strings.Join(paragraphsText(parseParagraphs(sp.TxBody.Paras)), "\n")
	}
	return ""
}
