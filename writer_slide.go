package slidesmith

import (
	"archive/zip"
	"fmt"
	"strings"
)

// countShapeRels returns the number of relationship IDs consumed by a shape
// (images and charts each consume one).
func countShapeRels(shape Shape) int {
	switch s := shape.(type) {
	case *DrawingShape:
		if len(s.data) > 0 {
			return 1
		}
	case *ChartShape:
		return 1
	}
	return 0
}

// countRelIdxBefore computes the relIdx for a target shape within a slide,
// counting the rels of all shapes before it.
func countRelIdxBefore(shapes []Shape, target Shape) int {
	relIdx := 2 // rId1 is slideLayout
	for _, shape := range shapes {
		if shape == target {
			break
		}
		relIdx += countShapeRels(shape)
	}
	return relIdx
}

func (w *PPTXWriter) writeSlide(zw *zip.Writer, slide *Slide, slideNum int) error {
	var shapesXML strings.Builder
	for _, shape := range slide.shapes {
		switch s := shape.(type) {
		case *PlaceholderShape:
			shapesXML.WriteString(w.writePlaceholderShapeXML(s))
		case *RichTextShape:
			shapesXML.WriteString(w.writeRichTextShapeXML(s))
		case *DrawingShape:
			shapesXML.WriteString(w.writeDrawingShapeXML(s, slide))
		case *TableShape:
			shapesXML.WriteString(w.writeTableShapeXML(s))
		case *AutoShape:
			shapesXML.WriteString(w.writeAutoShapeXML(s))
		case *ChartShape:
			shapesXML.WriteString(w.writeChartShapeXML(s, slide))
		}
	}

	bgXML := ""
	if slide.background != nil && slide.background.Type != FillNone {
		bgXML = "    <p:bg>\n      <p:bgPr>\n"
		bgXML += w.writeFillXML(slide.background)
		bgXML += "        <a:effectLst/>\n      </p:bgPr>\n    </p:bg>\n"
	}

	nameAttr := ""
	if slide.name != "" {
		nameAttr = fmt.Sprintf(` name="%s"`, xmlEscape(slide.name))
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld%s>
%s    <p:spTree>
%s%s    </p:spTree>
  </p:cSld>
  <p:clrMapOvr>
    <a:masterClrMapping/>
  </p:clrMapOvr>
</p:sld>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, nameAttr, bgXML, spTreeHeaderXML, shapesXML.String())

	return writeRawXMLToZip(zw, fmt.Sprintf("ppt/slides/slide%d.xml", slideNum), content)
}

const spTreeHeaderXML = `      <p:nvGrpSpPr>
        <p:cNvPr id="1" name=""/>
        <p:cNvGrpSpPr/>
        <p:nvPr/>
      </p:nvGrpSpPr>
      <p:grpSpPr>
        <a:xfrm>
          <a:off x="0" y="0"/>
          <a:ext cx="0" cy="0"/>
          <a:chOff x="0" y="0"/>
          <a:chExt cx="0" cy="0"/>
        </a:xfrm>
      </p:grpSpPr>
`

func (w *PPTXWriter) writeSlideRels(zw *zip.Writer, slide *Slide, slideNum int) error {
	var rels strings.Builder
	fmt.Fprintf(&rels, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s">
  <Relationship Id="rId1" Type="%s" Target="../slideLayouts/slideLayout%d.xml"/>`,
		nsRelationships, relTypeSlideLayout, slide.layoutIndex+1)

	relIdx := 2
	for _, shape := range slide.shapes {
		switch s := shape.(type) {
		case *DrawingShape:
			if len(s.data) > 0 {
				fmt.Fprintf(&rels, `
  <Relationship Id="rId%d" Type="%s" Target="../media/image%d.%s"/>`,
					relIdx, relTypeImage, w.getImageIndex(s), imageExtension(s.mimeType))
				relIdx++
			}
		case *ChartShape:
			fmt.Fprintf(&rels, `
  <Relationship Id="rId%d" Type="%s" Target="../charts/chart%d.xml"/>`,
				relIdx, relTypeChart, w.getChartIndex(s))
			relIdx++
		}
	}

	if slide.notes != "" {
		fmt.Fprintf(&rels, `
  <Relationship Id="rId%d" Type="%s" Target="../notesSlides/notesSlide%d.xml"/>`,
			relIdx, relTypeNotesSlide, slideNum)
	}

	rels.WriteString(`
</Relationships>`)
	return writeRawXMLToZip(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideNum), rels.String())
}

func (w *PPTXWriter) getImageIndex(target *DrawingShape) int {
	idx := 1
	for _, sl := range w.presentation.slides {
		for _, ds := range collectDrawingShapes(sl.shapes) {
			if ds == target {
				return idx
			}
			idx++
		}
	}
	return idx
}

// collectDrawingShapes returns all pictures with data from a shape list.
func collectDrawingShapes(shapes []Shape) []*DrawingShape {
	var result []*DrawingShape
	for _, shape := range shapes {
		if s, ok := shape.(*DrawingShape); ok && len(s.data) > 0 {
			result = append(result, s)
		}
	}
	return result
}

// xfrmAttrs builds the attribute string for <a:xfrm>.
func xfrmAttrs(b *BaseShape) string {
	if b.rotation != 0 {
		return fmt.Sprintf(` rot="%d"`, b.rotation*60000)
	}
	return ""
}

func cNvPrXML(b *BaseShape) string {
	descrAttr := ""
	if b.description != "" {
		descrAttr = fmt.Sprintf(` descr="%s"`, xmlEscape(b.description))
	}
	return fmt.Sprintf(`<p:cNvPr id="%d" name="%s"%s/>`, b.id, xmlEscape(b.name), descrAttr)
}

func (w *PPTXWriter) writeRichTextShapeXML(s *RichTextShape) string {
	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          %s
          <p:cNvSpPr txBox="1"/>
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
%s%s        </p:spPr>
        <p:txBody>
          <a:bodyPr wrap="%s" rtlCol="0"%s>%s</a:bodyPr>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
`, cNvPrXML(&s.BaseShape), xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		w.writeFillXML(s.fill), w.writeBorderXML(s.border),
		boolToWrap(s.wordWrap), textAnchorAttr(s.textAnchor), autofitXML(s.autoFit),
		w.writeParagraphsXML(s.paragraphs))
}

func boolToWrap(wrap bool) string {
	if wrap {
		return "square"
	}
	return "none"
}

// textAnchorAttr returns the anchor attribute string for <a:bodyPr>.
func textAnchorAttr(anchor TextAnchorType) string {
	if anchor == TextAnchorNone {
		return ""
	}
	return fmt.Sprintf(` anchor="%s"`, string(anchor))
}

func autofitXML(on bool) string {
	if on {
		return "<a:normAutofit/>"
	}
	return "<a:spAutoFit/>"
}

func (w *PPTXWriter) writeParagraphsXML(paras []*Paragraph) string {
	var sb strings.Builder
	for _, para := range paras {
		sb.WriteString(w.writeParagraphXML(para))
	}
	return sb.String()
}

func (w *PPTXWriter) writeParagraphXML(para *Paragraph) string {
	attrs := ""
	if align := para.alignment; align != nil {
		if align.Horizontal != "" {
			attrs = fmt.Sprintf(` algn="%s"`, align.Horizontal)
		}
		if align.Level > 0 {
			attrs += fmt.Sprintf(` lvl="%d"`, align.Level)
		}
	}

	var elementsXML strings.Builder
	for _, elem := range para.elements {
		switch e := elem.(type) {
		case *TextRun:
			elementsXML.WriteString(w.writeTextRunXML(e))
		case *BreakElement:
			elementsXML.WriteString("            <a:br/>\n")
		}
	}

	bulletXML := ""
	if para.bullet != nil {
		bulletXML = w.writeBulletXML(para.bullet)
	}

	return fmt.Sprintf(`          <a:p>
            <a:pPr%s>%s
            </a:pPr>
%s          </a:p>
`, attrs, bulletXML, elementsXML.String())
}

func runPropertiesAttrs(font *Font) string {
	attrs := ` lang="en-US"`
	if font.Size > 0 {
		attrs += fmt.Sprintf(` sz="%d"`, font.Size*100)
	}
	if font.Bold {
		attrs += ` b="1"`
	}
	if font.Italic {
		attrs += ` i="1"`
	}
	if font.Underline != UnderlineNone && font.Underline != "" {
		attrs += fmt.Sprintf(` u="%s"`, font.Underline)
	}
	return attrs + ` dirty="0"`
}

func (w *PPTXWriter) writeTextRunXML(tr *TextRun) string {
	font := tr.font
	if font == nil {
		font = inheritedFont()
	}

	solidFill := ""
	if !font.Color.IsZero() {
		solidFill = fmt.Sprintf(`
                <a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, colorRGB(font.Color))
	}
	latin := ""
	if font.Name != "" {
		latin = fmt.Sprintf(`
                <a:latin typeface="%s"/>`, xmlEscape(font.Name))
	}

	return fmt.Sprintf(`            <a:r>
              <a:rPr%s>%s%s
              </a:rPr>
              <a:t>%s</a:t>
            </a:r>
`, runPropertiesAttrs(font), solidFill, latin, xmlEscape(tr.text))
}

func (w *PPTXWriter) writeDrawingShapeXML(s *DrawingShape, slide *Slide) string {
	if len(s.data) == 0 {
		return ""
	}
	relIdx := countRelIdxBefore(slide.shapes, s)

	return fmt.Sprintf(`      <p:pic>
        <p:nvPicPr>
          %s
          <p:cNvPicPr>
            <a:picLocks noChangeAspect="1"/>
          </p:cNvPicPr>
          <p:nvPr/>
        </p:nvPicPr>
        <p:blipFill>
          <a:blip r:embed="rId%d"/>
          <a:stretch>
            <a:fillRect/>
          </a:stretch>
        </p:blipFill>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
%s        </p:spPr>
      </p:pic>
`, cNvPrXML(&s.BaseShape),
		relIdx,
		xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		w.writeBorderXML(s.border))
}

func (w *PPTXWriter) writeAutoShapeXML(s *AutoShape) string {
	textXML := ""
	if s.text != "" {
		textXML = fmt.Sprintf(`
        <p:txBody>
          <a:bodyPr rtlCol="0" anchor="ctr"/>
          <a:lstStyle/>
          <a:p>
            <a:pPr algn="ctr"/>
            <a:r>
              <a:rPr lang="en-US" dirty="0"/>
              <a:t>%s</a:t>
            </a:r>
          </a:p>
        </p:txBody>`, xmlEscape(s.text))
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          %s
          <p:cNvSpPr/>
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="%s">
            <a:avLst/>
          </a:prstGeom>
%s%s        </p:spPr>
%s%s
      </p:sp>
`, cNvPrXML(&s.BaseShape),
		xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		s.shapeType,
		w.writeFillXML(s.fill), w.writeBorderXML(s.border), autoShapeStyleXML, textXML)
}

// autoShapeStyleXML gives auto shapes the theme's accent1 fill and outline
// unless spPr overrides them.
const autoShapeStyleXML = `        <p:style>
          <a:lnRef idx="1"><a:schemeClr val="accent1"><a:shade val="50000"/></a:schemeClr></a:lnRef>
          <a:fillRef idx="1"><a:schemeClr val="accent1"/></a:fillRef>
          <a:effectRef idx="0"><a:schemeClr val="accent1"/></a:effectRef>
          <a:fontRef idx="minor"><a:schemeClr val="lt1"/></a:fontRef>
        </p:style>`

func (w *PPTXWriter) writeTableShapeXML(s *TableShape) string {
	var gridCols strings.Builder
	for _, cw := range s.ColumnWidths() {
		fmt.Fprintf(&gridCols, "                <a:gridCol w=\"%d\"/>\n", cw)
	}

	rowHeight := s.RowHeight()
	var rowsXML strings.Builder
	for i := 0; i < s.numRows; i++ {
		fmt.Fprintf(&rowsXML, "              <a:tr h=\"%d\">\n", rowHeight)
		for j := 0; j < s.numCols; j++ {
			rowsXML.WriteString(w.writeTableCellXML(s.rows[i][j]))
		}
		rowsXML.WriteString("              </a:tr>\n")
	}

	return fmt.Sprintf(`      <p:graphicFrame>
        <p:nvGraphicFramePr>
          %s
          <p:cNvGraphicFramePr>
            <a:graphicFrameLocks noGrp="1"/>
          </p:cNvGraphicFramePr>
          <p:nvPr/>
        </p:nvGraphicFramePr>
        <p:xfrm>
          <a:off x="%d" y="%d"/>
          <a:ext cx="%d" cy="%d"/>
        </p:xfrm>
        <a:graphic>
          <a:graphicData uri="%s">
            <a:tbl>
              <a:tblPr firstRow="%s" bandRow="%s"/>
              <a:tblGrid>
%s              </a:tblGrid>
%s            </a:tbl>
          </a:graphicData>
        </a:graphic>
      </p:graphicFrame>
`, cNvPrXML(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		uriTable,
		boolToXML(s.firstRow), boolToXML(s.bandRow),
		gridCols.String(), rowsXML.String())
}

func (w *PPTXWriter) writeTableCellXML(cell *TableCell) string {
	attrs := ""
	if cell.gridSpan > 1 {
		attrs += fmt.Sprintf(` gridSpan="%d"`, cell.gridSpan)
	}
	if cell.rowSpan > 1 {
		attrs += fmt.Sprintf(` rowSpan="%d"`, cell.rowSpan)
	}
	if cell.hMerge {
		attrs += ` hMerge="1"`
	}
	if cell.vMerge {
		attrs += ` vMerge="1"`
	}

	tcPrAttrs := textAnchorAttr(cell.anchor)
	cellFill := ""
	if cell.fill != nil && cell.fill.Type == FillSolid {
		cellFill = fmt.Sprintf("\n                    <a:solidFill><a:srgbClr val=\"%s\"/></a:solidFill>\n                  ", colorRGB(cell.fill.Color))
	}

	return fmt.Sprintf(`                <a:tc%s>
                  <a:txBody>
                    <a:bodyPr/>
                    <a:lstStyle/>
%s                  </a:txBody>
                  <a:tcPr%s>%s</a:tcPr>
                </a:tc>
`, attrs, w.writeParagraphsXML(cell.paragraphs), tcPrAttrs, cellFill)
}

func (w *PPTXWriter) writeFillXML(f *Fill) string {
	if f == nil || f.Type != FillSolid {
		return ""
	}
	return fmt.Sprintf("          <a:solidFill><a:srgbClr val=\"%s\"/></a:solidFill>\n", colorRGB(f.Color))
}

func (w *PPTXWriter) writeBorderXML(b *Border) string {
	if b == nil || b.Style == BorderNone {
		return ""
	}
	dashXML := ""
	if b.Style == BorderDash {
		dashXML = `<a:prstDash val="dash"/>`
	}
	return fmt.Sprintf("          <a:ln w=\"%d\"><a:solidFill><a:srgbClr val=\"%s\"/></a:solidFill>%s</a:ln>\n",
		b.Width, colorRGB(b.Color), dashXML)
}

func (w *PPTXWriter) writeMedia(zw *zip.Writer) error {
	imgIdx := 1
	for _, slide := range w.presentation.slides {
		for _, ds := range collectDrawingShapes(slide.shapes) {
			fw, err := zw.Create(fmt.Sprintf("ppt/media/image%d.%s", imgIdx, imageExtension(ds.mimeType)))
			if err != nil {
				return err
			}
			if _, err := fw.Write(ds.data); err != nil {
				return err
			}
			imgIdx++
		}
	}
	return nil
}

func (w *PPTXWriter) getChartIndex(target *ChartShape) int {
	idx := 1
	for _, slide := range w.presentation.slides {
		for _, shape := range slide.shapes {
			if cs, ok := shape.(*ChartShape); ok {
				if cs == target {
					return idx
				}
				idx++
			}
		}
	}
	return idx
}

func (w *PPTXWriter) writeChartShapeXML(s *ChartShape, slide *Slide) string {
	relIdx := countRelIdxBefore(slide.shapes, s)

	return fmt.Sprintf(`      <p:graphicFrame>
        <p:nvGraphicFramePr>
          %s
          <p:cNvGraphicFramePr>
            <a:graphicFrameLocks noGrp="1"/>
          </p:cNvGraphicFramePr>
          <p:nvPr/>
        </p:nvGraphicFramePr>
        <p:xfrm>
          <a:off x="%d" y="%d"/>
          <a:ext cx="%d" cy="%d"/>
        </p:xfrm>
        <a:graphic>
          <a:graphicData uri="%s">
            <c:chart xmlns:c="%s" r:id="rId%d"/>
          </a:graphicData>
        </a:graphic>
      </p:graphicFrame>
`, cNvPrXML(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		nsChart, nsChart, relIdx)
}

// placeholderTag renders <p:ph> for a placeholder type and idx.
func placeholderTag(t PlaceholderType, idx int, vertical bool) string {
	attrs := ""
	if t != PlaceholderBody && t != PlaceholderObject {
		attrs = fmt.Sprintf(` type="%s"`, t)
	}
	if vertical {
		attrs += ` orient="vert"`
	}
	if idx > 0 {
		attrs += fmt.Sprintf(` idx="%d"`, idx)
	}
	return fmt.Sprintf(`<p:ph%s/>`, attrs)
}

func verticalAttr(vertical bool) string {
	if vertical {
		return ` vert="eaVert"`
	}
	return ""
}

func (w *PPTXWriter) writePlaceholderShapeXML(s *PlaceholderShape) string {
	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          %s
          <p:cNvSpPr>
            <a:spLocks noGrp="1"/>
          </p:cNvSpPr>
          <p:nvPr>
            %s
          </p:nvPr>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
        </p:spPr>
        <p:txBody>
          <a:bodyPr%s%s/>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
`, cNvPrXML(&s.BaseShape),
		placeholderTag(s.phType, s.phIdx, s.vertical),
		xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		verticalAttr(s.vertical), textAnchorAttr(s.textAnchor),
		w.writeParagraphsXML(s.paragraphs))
}

func (w *PPTXWriter) writeNotesSlide(zw *zip.Writer, slide *Slide, slideNum int) error {
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:notes xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
    <p:spTree>
%s      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="2" name="Notes Placeholder 1"/>
          <p:cNvSpPr>
            <a:spLocks noGrp="1"/>
          </p:cNvSpPr>
          <p:nvPr>
            <p:ph type="body" idx="1"/>
          </p:nvPr>
        </p:nvSpPr>
        <p:spPr/>
        <p:txBody>
          <a:bodyPr/>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
    </p:spTree>
  </p:cSld>
</p:notes>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, spTreeHeaderXML, notesParagraphsXML(slide.notes))

	if err := writeRawXMLToZip(zw, fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", slideNum), content); err != nil {
		return err
	}

	rels := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s">
  <Relationship Id="rId1" Type="%s" Target="../slides/slide%d.xml"/>
</Relationships>`, nsRelationships, relTypeSlide, slideNum)
	return writeRawXMLToZip(zw, fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", slideNum), rels)
}

// notesParagraphsXML writes one paragraph per line of notes text.
func notesParagraphsXML(notes string) string {
	var sb strings.Builder
	for _, line := range strings.Split(notes, "\n") {
		fmt.Fprintf(&sb, `          <a:p>
            <a:r>
              <a:rPr lang="en-US" dirty="0"/>
              <a:t>%s</a:t>
            </a:r>
          </a:p>
`, xmlEscape(line))
	}
	return sb.String()
}

func (w *PPTXWriter) writeBulletXML(b *Bullet) string {
	if b.Type == BulletTypeNone {
		return "\n              <a:buNone/>"
	}

	var sb strings.Builder
	if b.Color != nil {
		fmt.Fprintf(&sb, "\n              <a:buClr><a:srgbClr val=\"%s\"/></a:buClr>", colorRGB(*b.Color))
	}
	if b.Size > 0 && b.Size != 100 {
		fmt.Fprintf(&sb, "\n              <a:buSzPct val=\"%d000\"/>", b.Size)
	}

	switch b.Type {
	case BulletTypeChar:
		if b.Font != "" {
			fmt.Fprintf(&sb, "\n              <a:buFont typeface=\"%s\"/>", xmlEscape(b.Font))
		}
		fmt.Fprintf(&sb, "\n              <a:buChar char=\"%s\"/>", xmlEscape(b.Style))
	case BulletTypeNumeric:
		fmt.Fprintf(&sb, "\n              <a:buAutoNum type=\"%s\" startAt=\"%d\"/>", b.NumFormat, b.StartAt)
	}
	return sb.String()
}
