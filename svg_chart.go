package slidesmith

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// svgSeriesPalette is the theme accent cycle charts colour series with.
var svgSeriesPalette = []string{"#4472C4", "#ED7D31", "#A5A5A5", "#FFC000", "#5B9BD5", "#70AD47"}

const (
	svgChartText  = "#595959"
	svgChartAxis  = "#BFBFBF"
	svgChartLabel = 12 // points
)

func seriesColor(s *ChartSeries, i int) string {
	if s != nil && !s.FillColor.IsZero() {
		return s.FillColor.Hex()
	}
	return svgSeriesPalette[i%len(svgSeriesPalette)]
}

// label writes a single-line chart annotation. anchor is an SVG text-anchor.
func (e *svgExporter) label(text string, x, y, sizePx float64, anchor, color string) {
	if text == "" {
		return
	}
	e.used[svgFontUse{name: "Calibri"}] = true
	fmt.Fprintf(&e.body, `<text x="%s" y="%s" font-family="Calibri" font-size="%s" fill="%s" text-anchor="%s">%s</text>`+"\n",
		px(x), px(y), px(sizePx), color, anchor, xmlEscape(text))
}

func (e *svgExporter) line(x1, y1, x2, y2 float64, color string, width float64) {
	fmt.Fprintf(&e.body, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		px(x1), px(y1), px(x2), px(y2), color, px(width))
}

// formatChartValue prints a value without floating point noise.
func formatChartValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}

// valueScale is a linear value axis.
type valueScale struct {
	min, max, step float64
}

// niceScale picks a zero-based axis with round steps covering lo..hi, then
// applies any fixed bounds from the axis.
func niceScale(lo, hi float64, axis *ChartAxis) valueScale {
	lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	if hi == lo {
		hi = lo + 1
	}
	raw := (hi - lo) / 5
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := 10 * mag
	for _, m := range []float64{1, 2, 5} {
		if raw <= m*mag {
			step = m * mag
			break
		}
	}
	s := valueScale{min: math.Floor(lo/step) * step, max: math.Ceil(hi/step) * step, step: step}
	if axis != nil {
		if axis.MinBounds != nil {
			s.min = *axis.MinBounds
		}
		if axis.MaxBounds != nil {
			s.max = *axis.MaxBounds
		}
		if axis.MajorUnit != nil && *axis.MajorUnit > 0 {
			s.step = *axis.MajorUnit
		}
	}
	if s.max <= s.min {
		s.max = s.min + s.step
	}
	return s
}

// frac maps v to 0..1 along the axis.
func (s valueScale) frac(v float64) float64 {
	return (v - s.min) / (s.max - s.min)
}

func (s valueScale) ticks() []float64 {
	var out []float64
	for v := s.min; v <= s.max+s.step/1e6; v += s.step {
		out = append(out, v)
		if len(out) > 50 {
			break
		}
	}
	return out
}

func (e *svgExporter) drawChart(c *ChartShape, x, y, w, h float64) {
	fmt.Fprintf(&e.body, `<rect x="%s" y="%s" width="%s" height="%s" fill="#FFFFFF"/>`+"\n", px(x), px(y), px(w), px(h))
	labelPx := e.ptPx(svgChartLabel)
	pad := labelPx
	area := box{x + pad, y + pad, w - 2*pad, h - 2*pad}

	if c.title != nil && c.title.Visible && c.title.Text != "" {
		size := 18
		if c.title.Font != nil && c.title.Font.Size > 0 {
			size = c.title.Font.Size
		}
		sizePx := e.ptPx(float64(size))
		e.label(c.title.Text, x+w/2, area.y+sizePx, sizePx, "middle", svgChartText)
		area.y += sizePx * 1.5
		area.h -= sizePx * 1.5
	}

	ct := c.plotArea.chartType
	series := getChartSeries(ct)
	if len(series) == 0 {
		return
	}

	var entries []string
	var colors []string
	if isPieType(ct) {
		for i, cat := range series[0].Categories {
			entries = append(entries, cat)
			colors = append(colors, svgSeriesPalette[i%len(svgSeriesPalette)])
		}
	} else {
		for i, s := range series {
			entries = append(entries, s.Title)
			colors = append(colors, seriesColor(s, i))
		}
	}
	if c.legend != nil && c.legend.Visible {
		area = e.drawLegend(c.legend.Position, area, entries, colors, labelPx)
	}

	switch chart := ct.(type) {
	case *BarChart:
		e.drawBarChart(chart, c.plotArea, area, labelPx)
	case *LineChart:
		e.drawLineChart(chart.Series, chart.ShowMarkers, c.plotArea, area, labelPx)
	case *AreaChart:
		e.drawAreaChart(chart, c.plotArea, area, labelPx)
	case *PieChart:
		e.drawPieChart(chart.Series[0], 0, area, labelPx)
	case *DoughnutChart:
		e.drawPieChart(chart.Series[0], float64(chart.HoleSize)/100, area, labelPx)
	case *ScatterChart:
		e.drawScatterChart(chart.Series, c.plotArea, area, labelPx)
	case *RadarChart:
		e.drawRadarChart(chart, area, labelPx)
	}
}

// drawLegend draws legend entries and returns the area left for the plot.
func (e *svgExporter) drawLegend(pos LegendPosition, area box, entries, colors []string, labelPx float64) box {
	swatch := labelPx * 0.7
	rowH := labelPx * 1.4
	switch pos {
	case LegendRight, LegendLeft, LegendTopRight:
		var widest float64
		for _, t := range entries {
			widest = math.Max(widest, e.measure(t, Font{Name: "Calibri"}, labelPx))
		}
		lw := widest + swatch + labelPx
		lx := area.x + area.w - lw
		if pos == LegendLeft {
			lx = area.x
			area.x += lw
		}
		ly := area.y + (area.h-rowH*float64(len(entries)))/2
		if pos == LegendTopRight {
			ly = area.y
		}
		for i, t := range entries {
			cy := ly + float64(i)*rowH
			fmt.Fprintf(&e.body, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n", px(lx), px(cy), px(swatch), px(swatch), colors[i])
			e.label(t, lx+swatch+labelPx/3, cy+swatch, labelPx, "start", svgChartText)
		}
		area.w -= lw
	default:
		var total float64
		widths := make([]float64, len(entries))
		for i, t := range entries {
			widths[i] = swatch + labelPx/3 + e.measure(t, Font{Name: "Calibri"}, labelPx) + labelPx
			total += widths[i]
		}
		lx := area.x + (area.w-total)/2
		ly := area.y + area.h - rowH
		if pos == LegendTop {
			ly = area.y
			area.y += rowH
		}
		for i, t := range entries {
			fmt.Fprintf(&e.body, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n", px(lx), px(ly), px(swatch), px(swatch), colors[i])
			e.label(t, lx+swatch+labelPx/3, ly+swatch, labelPx, "start", svgChartText)
			lx += widths[i]
		}
		area.h -= rowH
	}
	return area
}

// categoryFrame reserves room for axis labels and draws the value axis
// gridlines. horizontal puts values along x.
func (e *svgExporter) categoryFrame(pa *PlotArea, area box, scale valueScale, horizontal bool, labelPx float64) box {
	var labelW float64
	for _, t := range scale.ticks() {
		labelW = math.Max(labelW, e.measure(formatChartValue(t), Font{Name: "Calibri"}, labelPx))
	}
	plot := box{area.x + labelW + labelPx/2, area.y, area.w - labelW - labelPx/2, area.h - labelPx*1.5}
	if horizontal {
		plot = box{area.x + area.w*0.15, area.y, area.w * 0.85, area.h - labelPx*1.5}
	}

	grid := pa.axisY != nil && pa.axisY.MajorGridlines != nil
	gridColor, gridWidth := "#D9D9D9", 0.75
	if grid {
		gridColor = pa.axisY.MajorGridlines.Color.Hex()
		gridWidth = math.Max(float64(pa.axisY.MajorGridlines.Width)*0.75, 0.5)
	}
	for _, t := range scale.ticks() {
		f := scale.frac(t)
		text := formatChartValue(t)
		if horizontal {
			gx := plot.x + f*plot.w
			if grid {
				e.line(gx, plot.y, gx, plot.y+plot.h, gridColor, gridWidth)
			}
			e.label(text, gx, plot.y+plot.h+labelPx*1.2, labelPx, "middle", svgChartText)
			continue
		}
		gy := plot.y + plot.h - f*plot.h
		if grid {
			e.line(plot.x, gy, plot.x+plot.w, gy, gridColor, gridWidth)
		}
		e.label(text, plot.x-labelPx/3, gy+labelPx/3, labelPx, "end", svgChartText)
	}
	if horizontal {
		e.line(plot.x, plot.y, plot.x, plot.y+plot.h, svgChartAxis, 0.75)
	} else {
		e.line(plot.x, plot.y+plot.h, plot.x+plot.w, plot.y+plot.h, svgChartAxis, 0.75)
	}
	return plot
}

// seriesRange returns the value extent, summing per category when stacked.
func seriesRange(series []*ChartSeries, stacked bool) (lo, hi float64) {
	cats := len(getCategories(series))
	for i := 0; i < cats; i++ {
		var pos, neg float64
		for _, s := range series {
			v := s.Value(i)
			if stacked {
				if v >= 0 {
					pos += v
				} else {
					neg += v
				}
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		if stacked {
			lo, hi = math.Min(lo, neg), math.Max(hi, pos)
		}
	}
	return lo, hi
}

func (e *svgExporter) drawBarChart(c *BarChart, pa *PlotArea, area box, labelPx float64) {
	cats := getCategories(c.Series)
	if len(cats) == 0 {
		return
	}
	stacked := c.BarGrouping == BarGroupingStacked || c.BarGrouping == BarGroupingPercentStacked
	percent := c.BarGrouping == BarGroupingPercentStacked
	horizontal := c.BarDirection == BarDirectionHorizontal

	lo, hi := seriesRange(c.Series, stacked)
	if percent {
		lo, hi = 0, 1
	}
	scale := niceScale(lo, hi, pa.axisY)
	plot := e.categoryFrame(pa, area, scale, horizontal, labelPx)

	n := float64(len(cats))
	slot := plot.w / n
	if horizontal {
		slot = plot.h / n
	}
	gap := float64(c.GapWidthPercent) / 100
	bars := float64(len(c.Series))
	if stacked {
		bars = 1
	}
	barW := slot / (bars + gap)

	for i, cat := range cats {
		start := float64(i)*slot + barW*gap/2
		var total float64
		if percent {
			for _, s := range c.Series {
				total += math.Abs(s.Value(i))
			}
		}
		var pos, neg float64
		for si, s := range c.Series {
			v := s.Value(i)
			if percent && total > 0 {
				v /= total
			}
			base := 0.0
			offset := start
			if stacked {
				if v >= 0 {
					base, pos = pos, pos+v
				} else {
					base, neg = neg, neg+v
				}
			} else {
				offset += float64(si) * barW
			}
			f0, f1 := scale.frac(base), scale.frac(base+v)
			var bx, by, bw, bh float64
			if horizontal {
				// first category sits at the bottom
				by = plot.y + plot.h - offset - barW
				bh = barW
				bx = plot.x + math.Min(f0, f1)*plot.w
				bw = math.Abs(f1-f0) * plot.w
			} else {
				bx = plot.x + offset
				bw = barW
				by = plot.y + plot.h - math.Max(f0, f1)*plot.h
				bh = math.Abs(f1-f0) * plot.h
			}
			fmt.Fprintf(&e.body, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
				px(bx), px(by), px(bw), px(bh), seriesColor(s, si))
			if s.ShowValue {
				if horizontal {
					e.label(formatChartValue(s.Value(i)), bx+bw+labelPx/3, by+bh/2+labelPx/3, labelPx, "start", svgChartText)
				} else {
					e.label(formatChartValue(s.Value(i)), bx+bw/2, by-labelPx/3, labelPx, "middle", svgChartText)
				}
			}
		}
		if horizontal {
			e.label(cat, plot.x-labelPx/3, plot.y+plot.h-float64(i)*slot-slot/2+labelPx/3, labelPx, "end", svgChartText)
		} else {
			e.label(cat, plot.x+float64(i)*slot+slot/2, plot.y+plot.h+labelPx*1.2, labelPx, "middle", svgChartText)
		}
	}
}

// categoryPoints maps values onto category centres.
func categoryPoints(values func(i int) float64, n int, plot box, scale valueScale) []unitPt {
	slot := plot.w / float64(n)
	pts := make([]unitPt, n)
	for i := 0; i < n; i++ {
		pts[i] = unitPt{plot.x + float64(i)*slot + slot/2, plot.y + plot.h - scale.frac(values(i))*plot.h}
	}
	return pts
}

func joinPoints(pts []unitPt) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = px(p.x) + "," + px(p.y)
	}
	return strings.Join(parts, " ")
}

func (e *svgExporter) drawCategoryLabels(cats []string, plot box, labelPx float64) {
	slot := plot.w / float64(len(cats))
	for i, cat := range cats {
		e.label(cat, plot.x+float64(i)*slot+slot/2, plot.y+plot.h+labelPx*1.2, labelPx, "middle", svgChartText)
	}
}

func (e *svgExporter) drawLineChart(series []*ChartSeries, markers bool, pa *PlotArea, area box, labelPx float64) {
	cats := getCategories(series)
	if len(cats) == 0 {
		return
	}
	lo, hi := seriesRange(series, false)
	scale := niceScale(lo, hi, pa.axisY)
	plot := e.categoryFrame(pa, area, scale, false, labelPx)

	for si, s := range series {
		color := seriesColor(s, si)
		pts := categoryPoints(s.Value, len(cats), plot, scale)
		fmt.Fprintf(&e.body, `<polyline points="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linejoin="round"/>`+"\n",
			joinPoints(pts), color, px(e.ptPx(2.25)))
		showMarker := markers || (s.Marker != nil && s.Marker.Symbol != MarkerNone)
		for i, p := range pts {
			if showMarker {
				fmt.Fprintf(&e.body, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n", px(p.x), px(p.y), px(e.ptPx(2.5)), color)
			}
			if s.ShowValue {
				e.label(formatChartValue(s.Value(i)), p.x, p.y-labelPx/2, labelPx, "middle", svgChartText)
			}
		}
	}
	e.drawCategoryLabels(cats, plot, labelPx)
}

func (e *svgExporter) drawAreaChart(c *AreaChart, pa *PlotArea, area box, labelPx float64) {
	cats := getCategories(c.Series)
	if len(cats) == 0 {
		return
	}
	stacked := c.Grouping == "stacked"
	lo, hi := seriesRange(c.Series, stacked)
	scale := niceScale(lo, hi, pa.axisY)
	plot := e.categoryFrame(pa, area, scale, false, labelPx)

	base := make([]float64, len(cats))
	for si, s := range c.Series {
		top := make([]float64, len(cats))
		for i := range cats {
			top[i] = s.Value(i)
			if stacked {
				top[i] += base[i]
			}
		}
		upper := categoryPoints(func(i int) float64 { return top[i] }, len(cats), plot, scale)
		floor := make([]float64, len(cats))
		if stacked {
			copy(floor, base)
		}
		lower := categoryPoints(func(i int) float64 { return floor[i] }, len(cats), plot, scale)
		poly := append([]unitPt{}, upper...)
		for i := len(lower) - 1; i >= 0; i-- {
			poly = append(poly, lower[i])
		}
		fmt.Fprintf(&e.body, `<polygon points="%s" fill="%s" fill-opacity="0.85"/>`+"\n", joinPoints(poly), seriesColor(s, si))
		if stacked {
			base = top
		}
	}
	e.drawCategoryLabels(cats, plot, labelPx)
}

// drawPieChart draws the first series as slices. hole is the doughnut hole
// as a fraction of the radius, zero for a pie.
func (e *svgExporter) drawPieChart(s *ChartSeries, hole float64, area box, labelPx float64) {
	var total float64
	for _, v := range s.Values {
		total += math.Abs(v)
	}
	if total == 0 {
		return
	}
	r := math.Min(area.w, area.h) / 2
	cx, cy := area.x+area.w/2, area.y+area.h/2
	ir := r * hole

	angle := -math.Pi / 2
	for i, v := range s.Values {
		share := math.Abs(v) / total
		sweep := share * 2 * math.Pi
		color := svgSeriesPalette[i%len(svgSeriesPalette)]
		end := angle + sweep
		if share >= 0.9999 {
			fmt.Fprintf(&e.body, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n", px(cx), px(cy), px(r), color)
			if ir > 0 {
				fmt.Fprintf(&e.body, `<circle cx="%s" cy="%s" r="%s" fill="#FFFFFF"/>`+"\n", px(cx), px(cy), px(ir))
			}
		} else {
			large := 0
			if sweep > math.Pi {
				large = 1
			}
			ox0, oy0 := cx+r*math.Cos(angle), cy+r*math.Sin(angle)
			ox1, oy1 := cx+r*math.Cos(end), cy+r*math.Sin(end)
			var d string
			if ir > 0 {
				ix0, iy0 := cx+ir*math.Cos(angle), cy+ir*math.Sin(angle)
				ix1, iy1 := cx+ir*math.Cos(end), cy+ir*math.Sin(end)
				d = fmt.Sprintf("M%s,%s A%s,%s 0 %d 1 %s,%s L%s,%s A%s,%s 0 %d 0 %s,%s Z",
					px(ox0), px(oy0), px(r), px(r), large, px(ox1), px(oy1),
					px(ix1), px(iy1), px(ir), px(ir), large, px(ix0), px(iy0))
			} else {
				d = fmt.Sprintf("M%s,%s L%s,%s A%s,%s 0 %d 1 %s,%s Z",
					px(cx), px(cy), px(ox0), px(oy0), px(r), px(r), large, px(ox1), px(oy1))
			}
			fmt.Fprintf(&e.body, `<path d="%s" fill="%s" stroke="#FFFFFF" stroke-width="1"/>`+"\n", d, color)
		}

		var parts []string
		if s.ShowCategoryName && i < len(s.Categories) {
			parts = append(parts, s.Categories[i])
		}
		if s.ShowValue {
			parts = append(parts, formatChartValue(v))
		}
		if s.ShowPercentage {
			parts = append(parts, fmt.Sprintf("%.0f%%", share*100))
		}
		if len(parts) > 0 {
			mid := angle + sweep/2
			lr := (r + ir) / 2
			if ir == 0 {
				lr = r * 0.65
			}
			e.label(strings.Join(parts, "; "), cx+lr*math.Cos(mid), cy+lr*math.Sin(mid)+labelPx/3, labelPx, "middle", "#FFFFFF")
		}
		angle = end
	}
}

func (e *svgExporter) drawScatterChart(series []*ChartSeries, pa *PlotArea, area box, labelPx float64) {
	xs := func(s *ChartSeries, i int) float64 {
		if i < len(s.Categories) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(s.Categories[i]), 64); err == nil {
				return v
			}
		}
		return float64(i + 1)
	}
	var xlo, xhi float64
	for _, s := range series {
		for i := range s.Values {
			xlo, xhi = math.Min(xlo, xs(s, i)), math.Max(xhi, xs(s, i))
		}
	}
	lo, hi := seriesRange(series, false)
	yScale := niceScale(lo, hi, pa.axisY)
	xScale := niceScale(xlo, xhi, pa.axisX)
	plot := e.categoryFrame(pa, area, yScale, false, labelPx)
	for _, t := range xScale.ticks() {
		e.label(formatChartValue(t), plot.x+xScale.frac(t)*plot.w, plot.y+plot.h+labelPx*1.2, labelPx, "middle", svgChartText)
	}
	for si, s := range series {
		color := seriesColor(s, si)
		for i, v := range s.Values {
			fmt.Fprintf(&e.body, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
				px(plot.x+xScale.frac(xs(s, i))*plot.w), px(plot.y+plot.h-yScale.frac(v)*plot.h), px(e.ptPx(3)), color)
		}
	}
}

func (e *svgExporter) drawRadarChart(c *RadarChart, area box, labelPx float64) {
	cats := getCategories(c.Series)
	if len(cats) < 3 {
		return
	}
	_, hi := seriesRange(c.Series, false)
	scale := niceScale(0, hi, nil)
	r := math.Min(area.w, area.h)/2 - labelPx*1.5
	cx, cy := area.x+area.w/2, area.y+area.h/2
	n := len(cats)
	at := func(i int, f float64) unitPt {
		a := -math.Pi/2 + float64(i)*2*math.Pi/float64(n)
		return unitPt{cx + f*r*math.Cos(a), cy + f*r*math.Sin(a)}
	}

	for _, t := range scale.ticks() {
		ring := make([]unitPt, n)
		for i := range ring {
			ring[i] = at(i, scale.frac(t))
		}
		fmt.Fprintf(&e.body, `<polygon points="%s" fill="none" stroke="#D9D9D9" stroke-width="0.75"/>`+"\n", joinPoints(ring))
	}
	for i, cat := range cats {
		tip := at(i, 1)
		e.line(cx, cy, tip.x, tip.y, "#D9D9D9", 0.75)
		lp := at(i, 1.12)
		e.label(cat, lp.x, lp.y+labelPx/3, labelPx, "middle", svgChartText)
	}
	for si, s := range c.Series {
		color := seriesColor(s, si)
		pts := make([]unitPt, n)
		for i := range pts {
			pts[i] = at(i, scale.frac(s.Value(i)))
		}
		fmt.Fprintf(&e.body, `<polygon points="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n", joinPoints(pts), color, px(e.ptPx(2.25)))
		if c.Style == RadarStyleMarker {
			for _, p := range pts {
				fmt.Fprintf(&e.body, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n", px(p.x), px(p.y), px(e.ptPx(2.5)), color)
			}
		}
	}
}
