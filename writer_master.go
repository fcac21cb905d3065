package slidesmith

import (
	"archive/zip"
	"fmt"
	"strings"
)

// Default text sizes (points) of the master text styles. The SVG exporter uses
// the same values for runs that inherit their size.
const (
	masterTitleSize = 44
	masterBodySize  = 28
)

// masterBodyLevelSize returns the inherited body text size for an outline level.
func masterBodyLevelSize(level int) int {
	switch {
	case level <= 0:
		return masterBodySize
	case level == 1:
		return 24
	default:
		return 20
	}
}

func (w *PPTXWriter) writePresentation(zw *zip.Writer) error {
	p := w.presentation

	var sldIDs strings.Builder
	for i := range p.slides {
		fmt.Fprintf(&sldIDs, "    <p:sldId id=\"%d\" r:id=\"%s\"/>\n", 256+i, slideRelID(i))
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" saveSubsetFonts="1">
  <p:sldMasterIdLst>
    <p:sldMasterId id="2147483648" r:id="rId1"/>
  </p:sldMasterIdLst>
  <p:sldIdLst>
%s  </p:sldIdLst>
  <p:sldSz cx="%d" cy="%d" type="%s"/>
  <p:notesSz cx="6858000" cy="9144000"/>
</p:presentation>`,
		nsDrawingML, nsOfficeDocRels, nsPresentationML,
		sldIDs.String(),
		p.layout.CX, p.layout.CY, p.layout.sizeType())
	return writeRawXMLToZip(zw, "ppt/presentation.xml", content)
}

func (w *PPTXWriter) writePresProps(zw *zip.Writer) error {
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentationPr xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"/>`, nsDrawingML, nsOfficeDocRels, nsPresentationML)
	return writeRawXMLToZip(zw, "ppt/presProps.xml", content)
}

func (w *PPTXWriter) writeViewProps(zw *zip.Writer) error {
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:viewPr xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:normalViewPr>
    <p:restoredLeft sz="15620"/>
    <p:restoredTop sz="94660"/>
  </p:normalViewPr>
  <p:gridSpacing cx="76200" cy="76200"/>
</p:viewPr>`, nsDrawingML, nsOfficeDocRels, nsPresentationML)
	return writeRawXMLToZip(zw, "ppt/viewProps.xml", content)
}

func (w *PPTXWriter) writeTableStyles(zw *zip.Writer) error {
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<a:tblStyleLst xmlns:a="%s" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`, nsDrawingML)
	return writeRawXMLToZip(zw, "ppt/tableStyles.xml", content)
}

// layoutPlaceholderXML renders one placeholder of a layout or master part.
func layoutPlaceholderXML(id int, lp LayoutPlaceholder) string {
	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvSpPr>
            <a:spLocks noGrp="1"/>
          </p:cNvSpPr>
          <p:nvPr>
            %s
          </p:nvPr>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
        </p:spPr>
        <p:txBody>
          <a:bodyPr%s/>
          <a:lstStyle/>
          <a:p>
            <a:r>
              <a:rPr lang="en-US"/>
              <a:t>%s</a:t>
            </a:r>
          </a:p>
        </p:txBody>
      </p:sp>
`, id, xmlEscape(lp.Name), placeholderTag(lp.Type, lp.Idx, lp.Vertical),
		lp.OffsetX, lp.OffsetY, lp.Width, lp.Height,
		verticalAttr(lp.Vertical), promptText(lp.Type))
}

func promptText(t PlaceholderType) string {
	switch t {
	case PlaceholderTitle, PlaceholderCtrTitle:
		return "Click to edit Master title style"
	case PlaceholderSubTitle:
		return "Click to edit Master subtitle style"
	case PlaceholderPicture:
		return "Click icon to add picture"
	}
	return "Click to edit Master text styles"
}

func (w *PPTXWriter) writeSlideLayouts(zw *zip.Writer) error {
	for i, layout := range w.presentation.layouts {
		var shapes strings.Builder
		for j, lp := range layout.Placeholders {
			shapes.WriteString(layoutPlaceholderXML(j+2, lp))
		}
		typeAttr := ""
		if layout.Type != "" {
			typeAttr = fmt.Sprintf(` type="%s"`, layout.Type)
		}
		content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sldLayout xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"%s preserve="1">
  <p:cSld name="%s">
    <p:spTree>
%s%s    </p:spTree>
  </p:cSld>
  <p:clrMapOvr>
    <a:masterClrMapping/>
  </p:clrMapOvr>
</p:sldLayout>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, typeAttr,
			xmlEscape(layout.Name), spTreeHeaderXML, shapes.String())

		if err := writeRawXMLToZip(zw, fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1), content); err != nil {
			return err
		}
		rels := xmlRelationships{
			Xmlns: nsRelationships,
			Relationships: []xmlRelationship{
				{ID: "rId1", Type: relTypeSlideMaster, Target: "../slideMasters/slideMaster1.xml"},
			},
		}
		if err := writeXMLToZip(zw, fmt.Sprintf("ppt/slideLayouts/_rels/slideLayout%d.xml.rels", i+1), rels); err != nil {
			return err
		}
	}
	return nil
}

func bodyLevelXML(level int) string {
	marL := 342900 + level*400050
	return fmt.Sprintf(`      <a:lvl%dpPr marL="%d" indent="-342900" algn="l" rtl="0" eaLnBrk="1" latinLnBrk="0" hangingPunct="1">
        <a:spcBef><a:spcPct val="20000"/></a:spcBef>
        <a:buFont typeface="Arial"/>
        <a:buChar char="&#8226;"/>
        <a:defRPr sz="%d" kern="1200">
          <a:solidFill><a:schemeClr val="tx1"/></a:solidFill>
          <a:latin typeface="+mn-lt"/>
          <a:ea typeface="+mn-ea"/>
          <a:cs typeface="+mn-cs"/>
        </a:defRPr>
      </a:lvl%dpPr>
`, level+1, marL, masterBodyLevelSize(level)*100, level+1)
}

func (w *PPTXWriter) writeSlideMaster(zw *zip.Writer) error {
	p := w.presentation
	cx, cy := p.layout.CX, p.layout.CY

	var shapes strings.Builder
	shapes.WriteString(layoutPlaceholderXML(2, LayoutPlaceholder{
		Type: PlaceholderTitle, Name: "Title Placeholder 1",
		OffsetX: clampEMU(fracTitle.x * float64(cx)), OffsetY: clampEMU(fracTitle.y * float64(cy)),
		Width: clampEMU(fracTitle.w * float64(cx)), Height: clampEMU(fracTitle.h * float64(cy)),
	}))
	shapes.WriteString(layoutPlaceholderXML(3, LayoutPlaceholder{
		Type: PlaceholderBody, Idx: 1, Name: "Text Placeholder 2",
		OffsetX: clampEMU(fracContent.x * float64(cx)), OffsetY: clampEMU(fracContent.y * float64(cy)),
		Width: clampEMU(fracContent.w * float64(cx)), Height: clampEMU(fracContent.h * float64(cy)),
	}))

	var layoutIDs strings.Builder
	for i := range p.layouts {
		fmt.Fprintf(&layoutIDs, "    <p:sldLayoutId id=\"%d\" r:id=\"rId%d\"/>\n", 2147483649+i, i+1)
	}

	var bodyLevels strings.Builder
	for lvl := 0; lvl < 3; lvl++ {
		bodyLevels.WriteString(bodyLevelXML(lvl))
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sldMaster xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
    <p:bg>
      <p:bgRef idx="1001">
        <a:schemeClr val="bg1"/>
      </p:bgRef>
    </p:bg>
    <p:spTree>
%s%s    </p:spTree>
  </p:cSld>
  <p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>
  <p:sldLayoutIdLst>
%s  </p:sldLayoutIdLst>
  <p:txStyles>
    <p:titleStyle>
      <a:lvl1pPr algn="l" defTabSz="914400" rtl="0" eaLnBrk="1" latinLnBrk="0" hangingPunct="1">
        <a:lnSpc><a:spcPct val="90000"/></a:lnSpc>
        <a:spcBef><a:spcPct val="0"/></a:spcBef>
        <a:buNone/>
        <a:defRPr sz="%d" kern="1200">
          <a:solidFill><a:schemeClr val="tx1"/></a:solidFill>
          <a:latin typeface="+mj-lt"/>
          <a:ea typeface="+mj-ea"/>
          <a:cs typeface="+mj-cs"/>
        </a:defRPr>
      </a:lvl1pPr>
    </p:titleStyle>
    <p:bodyStyle>
%s    </p:bodyStyle>
    <p:otherStyle>
      <a:defPPr>
        <a:defRPr lang="en-US"/>
      </a:defPPr>
    </p:otherStyle>
  </p:txStyles>
</p:sldMaster>`, nsDrawingML, nsOfficeDocRels, nsPresentationML,
		spTreeHeaderXML, shapes.String(),
		layoutIDs.String(),
		masterTitleSize*100,
		bodyLevels.String())

	if err := writeRawXMLToZip(zw, "ppt/slideMasters/slideMaster1.xml", content); err != nil {
		return err
	}

	rels := xmlRelationships{Xmlns: nsRelationships}
	for i := range p.layouts {
		rels.Relationships = append(rels.Relationships, xmlRelationship{
			ID:     fmt.Sprintf("rId%d", i+1),
			Type:   relTypeSlideLayout,
			Target: fmt.Sprintf("../slideLayouts/slideLayout%d.xml", i+1),
		})
	}
	rels.Relationships = append(rels.Relationships, xmlRelationship{
		ID:     fmt.Sprintf("rId%d", len(p.layouts)+1),
		Type:   relTypeTheme,
		Target: "../theme/theme1.xml",
	})
	return writeXMLToZip(zw, "ppt/slideMasters/_rels/slideMaster1.xml.rels", rels)
}

// themeColors is the Office theme palette, in clrScheme order after dk1/lt1.
var themeColors = []struct{ name, rgb string }{
	{"dk2", "44546A"},
	{"lt2", "E7E6E6"},
	{"accent1", "4472C4"},
	{"accent2", "ED7D31"},
	{"accent3", "A5A5A5"},
	{"accent4", "FFC000"},
	{"accent5", "5B9BD5"},
	{"accent6", "70AD47"},
	{"hlink", "0563C1"},
	{"folHlink", "954F72"},
}

func (w *PPTXWriter) writeTheme(zw *zip.Writer) error {
	var colors strings.Builder
	for _, c := range themeColors {
		fmt.Fprintf(&colors, "      <a:%s><a:srgbClr val=\"%s\"/></a:%s>\n", c.name, c.rgb, c.name)
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<a:theme xmlns:a="%s" name="Office Theme">
  <a:themeElements>
    <a:clrScheme name="Office">
      <a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>
      <a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>
%s    </a:clrScheme>
    <a:fontScheme name="Office">
      <a:majorFont>
        <a:latin typeface="Calibri Light"/>
        <a:ea typeface=""/>
        <a:cs typeface=""/>
      </a:majorFont>
      <a:minorFont>
        <a:latin typeface="Calibri"/>
        <a:ea typeface=""/>
        <a:cs typeface=""/>
      </a:minorFont>
    </a:fontScheme>
    <a:fmtScheme name="Office">
      <a:fillStyleLst>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"><a:tint val="50000"/></a:schemeClr></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"><a:shade val="80000"/></a:schemeClr></a:solidFill>
      </a:fillStyleLst>
      <a:lnStyleLst>
        <a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
        <a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
        <a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
      </a:lnStyleLst>
      <a:effectStyleLst>
        <a:effectStyle><a:effectLst/></a:effectStyle>
        <a:effectStyle><a:effectLst/></a:effectStyle>
        <a:effectStyle><a:effectLst/></a:effectStyle>
      </a:effectStyleLst>
      <a:bgFillStyleLst>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"><a:tint val="95000"/></a:schemeClr></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"><a:shade val="90000"/></a:schemeClr></a:solidFill>
      </a:bgFillStyleLst>
    </a:fmtScheme>
  </a:themeElements>
  <a:objectDefaults/>
  <a:extraClrSchemeLst/>
</a:theme>`, nsDrawingML, colors.String())
	return writeRawXMLToZip(zw, "ppt/theme/theme1.xml", content)
}
