package slidesmith

import (
	"encoding/xml"
	"errors"
	"sort"
	"strconv"
	"strings"
)

type xmlChartVal struct {
	Val string `xml:"val,attr"`
}

type xmlChartPt struct {
	Idx int    `xml:"idx,attr"`
	V   string `xml:"v"`
}

// xmlChartData covers strRef, numRef and literal caches alike.
type xmlChartData struct {
	StrPts []xmlChartPt `xml:"strRef>strCache>pt"`
	NumPts []xmlChartPt `xml:"numRef>numCache>pt"`
	StrLit []xmlChartPt `xml:"strLit>pt"`
	NumLit []xmlChartPt `xml:"numLit>pt"`
}

func (d *xmlChartData) points() []xmlChartPt {
	for _, pts := range [][]xmlChartPt{d.StrPts, d.NumPts, d.StrLit, d.NumLit} {
		if len(pts) > 0 {
			sorted := append([]xmlChartPt(nil), pts...)
			sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Idx < sorted[j].Idx })
			return sorted
		}
	}
	return nil
}

func (d *xmlChartData) strings() []string {
	pts := d.points()
	out := make([]string, len(pts))
	for i, pt := range pts {
		out[i] = pt.V
	}
	return out
}

func (d *xmlChartData) floats() []float64 {
	pts := d.points()
	out := make([]float64, len(pts))
	for i, pt := range pts {
		out[i], _ = strconv.ParseFloat(strings.TrimSpace(pt.V), 64)
	}
	return out
}

type xmlChartSer struct {
	Tx   xmlChartData `xml:"tx"`
	SpPr struct {
		SolidFill *xmlSolidFill `xml:"solidFill"`
	} `xml:"spPr"`
	Marker *struct {
		Symbol xmlChartVal `xml:"symbol"`
		Size   xmlChartVal `xml:"size"`
	} `xml:"marker"`
	DLbls *struct {
		DLblPos     xmlChartVal `xml:"dLblPos"`
		ShowVal     xmlChartVal `xml:"showVal"`
		ShowCatName xmlChartVal `xml:"showCatName"`
		ShowSerName xmlChartVal `xml:"showSerName"`
		ShowPercent xmlChartVal `xml:"showPercent"`
	} `xml:"dLbls"`
	Cat  xmlChartData `xml:"cat"`
	Val  xmlChartData `xml:"val"`
	XVal xmlChartData `xml:"xVal"`
	YVal xmlChartData `xml:"yVal"`
}

// xmlChartGroup is any of the c:*Chart plot groups.
type xmlChartGroup struct {
	XMLName      xml.Name
	BarDir       xmlChartVal   `xml:"barDir"`
	Grouping     xmlChartVal   `xml:"grouping"`
	GapWidth     *xmlChartVal  `xml:"gapWidth"`
	Overlap      *xmlChartVal  `xml:"overlap"`
	HoleSize     *xmlChartVal  `xml:"holeSize"`
	RadarStyle   xmlChartVal   `xml:"radarStyle"`
	ScatterStyle xmlChartVal   `xml:"scatterStyle"`
	Series       []xmlChartSer `xml:"ser"`
}

type xmlChartAxis struct {
	XMLName xml.Name
	Scaling struct {
		Orientation xmlChartVal  `xml:"orientation"`
		Max         *xmlChartVal `xml:"max"`
		Min         *xmlChartVal `xml:"min"`
	} `xml:"scaling"`
	Delete         xmlChartVal  `xml:"delete"`
	AxPos          xmlChartVal  `xml:"axPos"`
	MajorGridlines *struct {
		Ln struct {
			W         int64         `xml:"w,attr"`
			SolidFill *xmlSolidFill `xml:"solidFill"`
		} `xml:"spPr>ln"`
	} `xml:"majorGridlines"`
	Title      *xmlChartTitle `xml:"title"`
	TickLblPos xmlChartVal    `xml:"tickLblPos"`
	Crosses    xmlChartVal    `xml:"crosses"`
	MajorUnit  *xmlChartVal   `xml:"majorUnit"`
}

type xmlChartTitle struct {
	Paras []struct {
		Runs []struct {
			RPr *xmlRPr `xml:"rPr"`
			T   string  `xml:"t"`
		} `xml:"r"`
	} `xml:"tx>rich>p"`
}

func (t *xmlChartTitle) text() string {
	var lines []string
	for _, p := range t.Paras {
		var sb strings.Builder
		for _, r := range p.Runs {
			sb.WriteString(r.T)
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

type xmlChartSpace struct {
	Chart struct {
		Title            *xmlChartTitle `xml:"title"`
		AutoTitleDeleted xmlChartVal    `xml:"autoTitleDeleted"`
		PlotArea         struct {
			Items []xmlChartPlotItem `xml:",any"`
		} `xml:"plotArea"`
		Legend *struct {
			LegendPos xmlChartVal `xml:"legendPos"`
		} `xml:"legend"`
		DispBlanksAs xmlChartVal `xml:"dispBlanksAs"`
	} `xml:"chart"`
}

// xmlChartPlotItem holds one plotArea child; only the fields of its own kind are filled.
type xmlChartPlotItem struct {
	xmlChartGroup
	Axis xmlChartAxis
}

func (it *xmlChartPlotItem) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	switch start.Name.Local {
	case "catAx", "valAx", "dateAx", "serAx":
		return d.DecodeElement(&it.Axis, &start)
	}
	return d.DecodeElement(&it.xmlChartGroup, &start)
}

var errNoChartGroup = errors.New("chart part has no supported plot group")

// parseChartXML rebuilds a ChartShape from a chart part.
func parseChartXML(data []byte) (*ChartShape, error) {
	var doc xmlChartSpace
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	chart := NewChartShape()
	var axes []*xmlChartAxis
	var group *xmlChartGroup
	for i := range doc.Chart.PlotArea.Items {
		it := &doc.Chart.PlotArea.Items[i]
		if it.Axis.XMLName.Local != "" {
			axes = append(axes, &it.Axis)
			continue
		}
		if group == nil && strings.HasSuffix(it.XMLName.Local, "Chart") {
			group = &it.xmlChartGroup
		}
	}
	if group == nil {
		return nil, errNoChartGroup
	}

	ct := buildChartType(group)
	if ct == nil {
		return nil, errNoChartGroup
	}
	chart.plotArea.chartType = ct

	if t := doc.Chart.Title; t != nil && !xmlTrue(doc.Chart.AutoTitleDeleted.Val) {
		chart.title.SetText(t.text())
		if len(t.Paras) > 0 && len(t.Paras[0].Runs) > 0 {
			if rpr := t.Paras[0].Runs[0].RPr; rpr != nil {
				if rpr.Sz > 0 {
					chart.title.Font.Size = rpr.Sz / 100
				}
				chart.title.Font.Bold = xmlTrue(rpr.B)
			}
		}
	}

	if lg := doc.Chart.Legend; lg != nil {
		chart.legend.Visible = true
		if lg.LegendPos.Val != "" {
			chart.legend.Position = LegendPosition(lg.LegendPos.Val)
		}
	} else {
		chart.legend.Visible = false
	}
	if doc.Chart.DispBlanksAs.Val != "" {
		chart.displayBlankAs = doc.Chart.DispBlanksAs.Val
	}

	if len(axes) > 0 {
		applyChartAxis(chart.plotArea.axisX, axes[0])
	}
	if len(axes) > 1 {
		applyChartAxis(chart.plotArea.axisY, axes[1])
	}
	return chart, nil
}

func buildChartType(g *xmlChartGroup) ChartType {
	scatter := g.XMLName.Local == "scatterChart"
	var series []*ChartSeries
	for _, xs := range g.Series {
		series = append(series, buildChartSeries(&xs, scatter))
	}
	// Categories come from the first series; others are aligned to it.
	cats := getCategories(series)
	for _, s := range series {
		s.Categories = cats
		s.Values = NewChartSeriesOrdered("", cats, s.Values).Values
	}

	switch g.XMLName.Local {
	case "barChart", "bar3DChart":
		bc := NewBarChart()
		if g.BarDir.Val != "" {
			bc.SetBarDirection(g.BarDir.Val)
		}
		if g.Grouping.Val != "" && g.Grouping.Val != "standard" {
			bc.SetBarGrouping(g.Grouping.Val)
		}
		if g.GapWidth != nil {
			bc.GapWidthPercent = atoiDefault(g.GapWidth.Val, bc.GapWidthPercent)
		}
		if g.Overlap != nil {
			bc.OverlapPercent = atoiDefault(g.Overlap.Val, bc.OverlapPercent)
		}
		bc.Series = series
		return bc
	case "lineChart", "line3DChart":
		lc := NewLineChart()
		for _, xs := range g.Series {
			if xs.Marker != nil && xs.Marker.Symbol.Val != MarkerNone {
				lc.ShowMarkers = true
			}
		}
		lc.Series = series
		return lc
	case "areaChart", "area3DChart":
		ac := NewAreaChart()
		if g.Grouping.Val != "" {
			ac.Grouping = g.Grouping.Val
		}
		ac.Series = series
		return ac
	case "pieChart", "pie3DChart":
		pc := NewPieChart()
		pc.Series = series
		return pc
	case "doughnutChart":
		dc := NewDoughnutChart()
		if g.HoleSize != nil {
			dc.HoleSize = atoiDefault(g.HoleSize.Val, dc.HoleSize)
		}
		dc.Series = series
		return dc
	case "scatterChart":
		sc := NewScatterChart()
		sc.Series = series
		return sc
	case "radarChart":
		rc := NewRadarChart()
		if g.RadarStyle.Val == RadarStyleMarker {
			rc.Style = RadarStyleMarker
		}
		rc.Series = series
		return rc
	}
	return nil
}

func buildChartSeries(xs *xmlChartSer, scatter bool) *ChartSeries {
	s := &ChartSeries{}
	if titles := xs.Tx.strings(); len(titles) > 0 {
		s.Title = titles[0]
	}
	if scatter {
		s.Categories = xs.XVal.strings()
		s.Values = xs.YVal.floats()
	} else {
		s.Categories = xs.Cat.strings()
		s.Values = xs.Val.floats()
	}
	if c, ok := xs.SpPr.SolidFill.color(); ok {
		s.FillColor = c
	}
	// Only explicitly sized markers are per-series; the rest follow the chart type.
	if m := xs.Marker; m != nil && m.Symbol.Val != "" {
		if size := atoiDefault(m.Size.Val, 0); size > 0 {
			s.Marker = &SeriesMarker{Symbol: m.Symbol.Val, Size: size}
		}
	}
	if dl := xs.DLbls; dl != nil {
		s.ShowValue = xmlTrue(dl.ShowVal.Val)
		s.ShowCategoryName = xmlTrue(dl.ShowCatName.Val)
		s.ShowSeriesName = xmlTrue(dl.ShowSerName.Val)
		s.ShowPercentage = xmlTrue(dl.ShowPercent.Val)
		s.LabelPosition = dl.DLblPos.Val
	}
	return s
}

func applyChartAxis(ax *ChartAxis, x *xmlChartAxis) {
	ax.Visible = !xmlTrue(x.Delete.Val)
	ax.ReversedOrder = x.Scaling.Orientation.Val == "maxMin"
	if x.Scaling.Max != nil {
		if v, err := strconv.ParseFloat(x.Scaling.Max.Val, 64); err == nil {
			ax.SetMaxBounds(v)
		}
	}
	if x.Scaling.Min != nil {
		if v, err := strconv.ParseFloat(x.Scaling.Min.Val, 64); err == nil {
			ax.SetMinBounds(v)
		}
	}
	if x.MajorUnit != nil {
		if v, err := strconv.ParseFloat(x.MajorUnit.Val, 64); err == nil {
			ax.SetMajorUnit(v)
		}
	}
	if x.Title != nil {
		ax.Title = x.Title.text()
	}
	if gl := x.MajorGridlines; gl != nil {
		g := NewGridlines()
		if gl.Ln.W > 0 {
			g.Width = int(gl.Ln.W / emuPerPoint)
		}
		if c, ok := gl.Ln.SolidFill.color(); ok {
			g.Color = c
		}
		ax.MajorGridlines = g
	}
	if x.TickLblPos.Val != "" {
		ax.TickLabelPos = x.TickLblPos.Val
	}
	if x.Crosses.Val != "" {
		ax.CrossesAt = x.Crosses.Val
	}
}
