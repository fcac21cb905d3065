package slidesmith

import (
	"archive/zip"
	"fmt"
	"strconv"
	"strings"
)

func (w *PPTXWriter) writeChartPart(zw *zip.Writer, chart *ChartShape, chartIdx int) error {
	ct := chart.plotArea.chartType
	if ct == nil {
		return fmt.Errorf("chart %q has no chart type", chart.name)
	}

	series := getChartSeries(ct)
	categories := getCategories(series)

	var chartTypeXML string
	switch c := ct.(type) {
	case *BarChart:
		chartTypeXML = w.writeBarChartXML(c, categories)
	case *LineChart:
		chartTypeXML = w.writeLineChartXML(c, categories)
	case *AreaChart:
		chartTypeXML = w.writeAreaChartXML(c, categories)
	case *PieChart:
		chartTypeXML = w.writePieChartXML(c, categories)
	case *DoughnutChart:
		chartTypeXML = w.writeDoughnutChartXML(c, categories)
	case *ScatterChart:
		chartTypeXML = w.writeScatterChartXML(c, categories)
	case *RadarChart:
		chartTypeXML = w.writeRadarChartXML(c, categories)
	default:
		return fmt.Errorf("unsupported chart type %s", ct.GetChartTypeName())
	}

	titleXML := `    <c:autoTitleDeleted val="1"/>
`
	if chart.title.Visible && chart.title.Text != "" {
		titleXML = fmt.Sprintf(`    <c:title>
      <c:tx>
        <c:rich>
          <a:bodyPr/>
          <a:lstStyle/>
          <a:p>
            <a:r>
              <a:rPr lang="en-US" sz="%d" b="%s"/>
              <a:t>%s</a:t>
            </a:r>
          </a:p>
        </c:rich>
      </c:tx>
      <c:overlay val="0"/>
    </c:title>
    <c:autoTitleDeleted val="0"/>
`, chart.title.Font.Size*100, boolToXML(chart.title.Font.Bold), xmlEscape(chart.title.Text))
	}

	legendXML := ""
	if chart.legend.Visible {
		legendXML = fmt.Sprintf(`    <c:legend>
      <c:legendPos val="%s"/>
      <c:overlay val="0"/>
    </c:legend>
`, chart.legend.Position)
	}

	axisXML := ""
	if !isPieType(ct) {
		axisXML = w.writeAxesXML(chart)
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<c:chartSpace xmlns:c="%s" xmlns:a="%s" xmlns:r="%s">
  <c:date1904 val="0"/>
  <c:roundedCorners val="0"/>
  <c:chart>
%s    <c:plotArea>
      <c:layout/>
%s%s    </c:plotArea>
%s    <c:plotVisOnly val="1"/>
    <c:dispBlanksAs val="%s"/>
  </c:chart>
  <c:externalData r:id="rId1">
    <c:autoUpdate val="0"/>
  </c:externalData>
</c:chartSpace>`,
		nsChart, nsDrawingML, nsOfficeDocRels,
		titleXML,
		chartTypeXML, axisXML,
		legendXML,
		chart.displayBlankAs)

	if err := writeRawXMLToZip(zw, fmt.Sprintf("ppt/charts/chart%d.xml", chartIdx), content); err != nil {
		return err
	}
	return w.writeChartRels(zw, chartIdx)
}

func (w *PPTXWriter) writeChartRels(zw *zip.Writer, chartIdx int) error {
	rels := xmlRelationships{
		Xmlns: nsRelationships,
		Relationships: []xmlRelationship{{
			ID:     "rId1",
			Type:   relTypePackage,
			Target: "../embeddings/" + workbookName(chartIdx),
		}},
	}
	return writeXMLToZip(zw, fmt.Sprintf("ppt/charts/_rels/chart%d.xml.rels", chartIdx), rels)
}

func boolToXML(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func (w *PPTXWriter) writeAxesXML(chart *ChartShape) string {
	axX := chart.plotArea.axisX
	axY := chart.plotArea.axisY

	catTag := "c:catAx"
	if _, ok := chart.plotArea.chartType.(*ScatterChart); ok {
		catTag = "c:valAx"
	}
	catPos, valPos := "b", "l"
	if bc, ok := chart.plotArea.chartType.(*BarChart); ok && bc.BarDirection == BarDirectionHorizontal {
		catPos, valPos = "l", "b"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `      <%s>
        <c:axId val="1"/>
        <c:scaling><c:orientation val="%s"/></c:scaling>
        <c:delete val="%s"/>
        <c:axPos val="%s"/>
`, catTag, axisOrientation(axX), boolToXML(!axX.Visible), catPos)
	if axX.MajorGridlines != nil {
		sb.WriteString(gridlinesXML(axX.MajorGridlines))
	}
	if axX.Title != "" {
		sb.WriteString(axisTitleXML(axX.Title))
	}
	fmt.Fprintf(&sb, `        <c:tickLblPos val="%s"/>
        <c:crossAx val="2"/>
        <c:crosses val="%s"/>
      </%s>
`, axX.TickLabelPos, axX.CrossesAt, catTag)

	fmt.Fprintf(&sb, `      <c:valAx>
        <c:axId val="2"/>
        <c:scaling>
          <c:orientation val="%s"/>
`, axisOrientation(axY))
	if axY.MaxBounds != nil {
		fmt.Fprintf(&sb, "          <c:max val=\"%g\"/>\n", *axY.MaxBounds)
	}
	if axY.MinBounds != nil {
		fmt.Fprintf(&sb, "          <c:min val=\"%g\"/>\n", *axY.MinBounds)
	}
	fmt.Fprintf(&sb, `        </c:scaling>
        <c:delete val="%s"/>
        <c:axPos val="%s"/>
`, boolToXML(!axY.Visible), valPos)
	if axY.MajorGridlines != nil {
		sb.WriteString(gridlinesXML(axY.MajorGridlines))
	}
	if axY.Title != "" {
		sb.WriteString(axisTitleXML(axY.Title))
	}
	fmt.Fprintf(&sb, `        <c:numFmt formatCode="General" sourceLinked="1"/>
        <c:tickLblPos val="%s"/>
        <c:crossAx val="1"/>
        <c:crosses val="%s"/>
`, axY.TickLabelPos, axY.CrossesAt)
	if axY.MajorUnit != nil {
		fmt.Fprintf(&sb, "        <c:majorUnit val=\"%g\"/>\n", *axY.MajorUnit)
	}
	sb.WriteString("      </c:valAx>\n")
	return sb.String()
}

func axisTitleXML(title string) string {
	return fmt.Sprintf(`        <c:title><c:tx><c:rich><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r></a:p></c:rich></c:tx><c:overlay val="0"/></c:title>
`, xmlEscape(title))
}

func axisOrientation(ax *ChartAxis) string {
	if ax.ReversedOrder {
		return "maxMin"
	}
	return "minMax"
}

func gridlinesXML(gl *Gridlines) string {
	return fmt.Sprintf(`        <c:majorGridlines>
          <c:spPr>
            <a:ln w="%d">
              <a:solidFill><a:srgbClr val="%s"/></a:solidFill>
            </a:ln>
          </c:spPr>
        </c:majorGridlines>
`, gl.Width*emuPerPoint, colorRGB(gl.Color))
}

// seriesRefs returns the worksheet formulas for a series title, its categories and its values.
func seriesRefs(idx, numCats int) (title, cats, vals string) {
	col := workbookColumn(idx + 2)
	title = fmt.Sprintf("Sheet1!$%s$1", col)
	cats = fmt.Sprintf("Sheet1!$A$2:$A$%d", numCats+1)
	vals = fmt.Sprintf("Sheet1!$%s$2:$%s$%d", col, col, numCats+1)
	return title, cats, vals
}

func writeSeriesHeader(sb *strings.Builder, idx int, s *ChartSeries, titleRef string) {
	fmt.Fprintf(sb, `        <c:ser>
          <c:idx val="%d"/>
          <c:order val="%d"/>
          <c:tx><c:strRef><c:f>%s</c:f><c:strCache><c:ptCount val="1"/><c:pt idx="0"><c:v>%s</c:v></c:pt></c:strCache></c:strRef></c:tx>
`, idx, idx, titleRef, xmlEscape(s.Title))
	if !s.FillColor.IsZero() {
		fmt.Fprintf(sb, "          <c:spPr><a:solidFill><a:srgbClr val=\"%s\"/></a:solidFill></c:spPr>\n", colorRGB(s.FillColor))
	}
}

func writeDataLabelsXML(sb *strings.Builder, s *ChartSeries) {
	if !(s.ShowValue || s.ShowCategoryName || s.ShowPercentage || s.ShowSeriesName) {
		return
	}
	sb.WriteString("          <c:dLbls>\n")
	if s.LabelPosition != "" {
		fmt.Fprintf(sb, "            <c:dLblPos val=\"%s\"/>\n", s.LabelPosition)
	}
	fmt.Fprintf(sb, `            <c:showLegendKey val="0"/>
            <c:showVal val="%s"/>
            <c:showCatName val="%s"/>
            <c:showSerName val="%s"/>
            <c:showPercent val="%s"/>
            <c:showBubbleSize val="0"/>
          </c:dLbls>
`, boolToXML(s.ShowValue), boolToXML(s.ShowCategoryName), boolToXML(s.ShowSeriesName), boolToXML(s.ShowPercentage))
}

func writeNumCache(sb *strings.Builder, values []float64) {
	fmt.Fprintf(sb, "              <c:formatCode>General</c:formatCode>\n              <c:ptCount val=\"%d\"/>\n", len(values))
	for i, v := range values {
		fmt.Fprintf(sb, "              <c:pt idx=\"%d\"><c:v>%s</c:v></c:pt>\n", i, strconv.FormatFloat(v, 'g', -1, 64))
	}
}

// writeSeriesXML renders category/value series. marker is "" to omit the element,
// MarkerNone to suppress markers, or a symbol name.
func (w *PPTXWriter) writeSeriesXML(series []*ChartSeries, categories []string, marker string) string {
	var sb strings.Builder
	for idx, s := range series {
		titleRef, catRef, valRef := seriesRefs(idx, len(categories))
		writeSeriesHeader(&sb, idx, s, titleRef)

		switch {
		case s.Marker != nil:
			fmt.Fprintf(&sb, "          <c:marker><c:symbol val=\"%s\"/><c:size val=\"%d\"/></c:marker>\n", s.Marker.Symbol, s.Marker.Size)
		case marker != "":
			fmt.Fprintf(&sb, "          <c:marker><c:symbol val=\"%s\"/></c:marker>\n", marker)
		}
		writeDataLabelsXML(&sb, s)

		fmt.Fprintf(&sb, "          <c:cat>\n            <c:strRef><c:f>%s</c:f><c:strCache>\n", catRef)
		fmt.Fprintf(&sb, "              <c:ptCount val=\"%d\"/>\n", len(categories))
		for i, cat := range categories {
			fmt.Fprintf(&sb, "              <c:pt idx=\"%d\"><c:v>%s</c:v></c:pt>\n", i, xmlEscape(cat))
		}
		sb.WriteString("            </c:strCache></c:strRef>\n          </c:cat>\n")

		fmt.Fprintf(&sb, "          <c:val>\n            <c:numRef><c:f>%s</c:f><c:numCache>\n", valRef)
		writeNumCache(&sb, s.Values)
		sb.WriteString("            </c:numCache></c:numRef>\n          </c:val>\n")

		sb.WriteString("        </c:ser>\n")
	}
	return sb.String()
}

func (w *PPTXWriter) writeBarChartXML(c *BarChart, cats []string) string {
	return fmt.Sprintf(`      <c:barChart>
        <c:barDir val="%s"/>
        <c:grouping val="%s"/>
        <c:varyColors val="0"/>
%s        <c:gapWidth val="%d"/>
        <c:overlap val="%d"/>
        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:barChart>
`, c.BarDirection, c.BarGrouping, w.writeSeriesXML(c.Series, cats, ""),
		c.GapWidthPercent, c.OverlapPercent)
}

func (w *PPTXWriter) writeLineChartXML(c *LineChart, cats []string) string {
	marker := MarkerNone
	if c.ShowMarkers {
		marker = MarkerCircle
	}
	seriesXML := w.writeSeriesXML(c.Series, cats, marker)
	seriesXML = strings.ReplaceAll(seriesXML, "        </c:ser>",
		fmt.Sprintf("          <c:smooth val=\"%s\"/>\n        </c:ser>", boolToXML(c.IsSmooth)))

	return fmt.Sprintf(`      <c:lineChart>
        <c:grouping val="standard"/>
        <c:varyColors val="0"/>
%s        <c:marker val="1"/>
        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:lineChart>
`, seriesXML)
}

func (w *PPTXWriter) writeAreaChartXML(c *AreaChart, cats []string) string {
	return fmt.Sprintf(`      <c:areaChart>
        <c:grouping val="%s"/>
        <c:varyColors val="0"/>
%s        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:areaChart>
`, c.Grouping, w.writeSeriesXML(c.Series, cats, ""))
}

func (w *PPTXWriter) writePieChartXML(c *PieChart, cats []string) string {
	return fmt.Sprintf(`      <c:pieChart>
        <c:varyColors val="1"/>
%s        <c:firstSliceAng val="0"/>
      </c:pieChart>
`, w.writeSeriesXML(c.Series, cats, ""))
}

func (w *PPTXWriter) writeDoughnutChartXML(c *DoughnutChart, cats []string) string {
	return fmt.Sprintf(`      <c:doughnutChart>
        <c:varyColors val="1"/>
%s        <c:firstSliceAng val="0"/>
        <c:holeSize val="%d"/>
      </c:doughnutChart>
`, w.writeSeriesXML(c.Series, cats, ""), c.HoleSize)
}

func (w *PPTXWriter) writeRadarChartXML(c *RadarChart, cats []string) string {
	marker := MarkerNone
	if c.Style == RadarStyleMarker {
		marker = ""
	}
	return fmt.Sprintf(`      <c:radarChart>
        <c:radarStyle val="%s"/>
        <c:varyColors val="0"/>
%s        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:radarChart>
`, c.Style, w.writeSeriesXML(c.Series, cats, marker))
}

// scatterX parses categories as X values, falling back to 1-based positions.
func scatterX(cats []string) []float64 {
	xs := make([]float64, len(cats))
	for i, cat := range cats {
		v, err := strconv.ParseFloat(strings.TrimSpace(cat), 64)
		if err != nil {
			v = float64(i + 1)
		}
		xs[i] = v
	}
	return xs
}

func (w *PPTXWriter) writeScatterChartXML(c *ScatterChart, cats []string) string {
	xs := scatterX(cats)
	var sb strings.Builder
	for idx, s := range c.Series {
		titleRef, catRef, valRef := seriesRefs(idx, len(cats))
		writeSeriesHeader(&sb, idx, s, titleRef)
		writeDataLabelsXML(&sb, s)

		fmt.Fprintf(&sb, "          <c:xVal>\n            <c:numRef><c:f>%s</c:f><c:numCache>\n", catRef)
		writeNumCache(&sb, xs)
		sb.WriteString("            </c:numCache></c:numRef>\n          </c:xVal>\n")

		fmt.Fprintf(&sb, "          <c:yVal>\n            <c:numRef><c:f>%s</c:f><c:numCache>\n", valRef)
		writeNumCache(&sb, s.Values)
		sb.WriteString("            </c:numCache></c:numRef>\n          </c:yVal>\n")

		fmt.Fprintf(&sb, "          <c:smooth val=\"%s\"/>\n", boolToXML(c.IsSmooth))
		sb.WriteString("        </c:ser>\n")
	}

	return fmt.Sprintf(`      <c:scatterChart>
        <c:scatterStyle val="lineMarker"/>
        <c:varyColors val="0"/>
%s        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:scatterChart>
`, sb.String())
}
