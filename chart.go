package slidesmith

import (
	"fmt"
	"strings"
)

// ChartShape represents a chart embedded in a slide.
type ChartShape struct {
	BaseShape
	title          *ChartTitle
	plotArea       *PlotArea
	legend         *ChartLegend
	displayBlankAs string
}

// Chart display blank constants.
const (
	ChartBlankAsGap  = "gap"
	ChartBlankAsZero = "zero"
	ChartBlankAsSpan = "span"
)

func (c *ChartShape) GetType() ShapeType { return ShapeTypeChart }

// NewChartShape creates a new chart shape.
func NewChartShape() *ChartShape {
	return &ChartShape{
		title:          NewChartTitle(),
		plotArea:       NewPlotArea(),
		legend:         NewChartLegend(),
		displayBlankAs: ChartBlankAsGap,
	}
}

// GetTitle returns the chart title.
func (c *ChartShape) GetTitle() *ChartTitle { return c.title }

// GetPlotArea returns the plot area.
func (c *ChartShape) GetPlotArea() *PlotArea { return c.plotArea }

// GetLegend returns the chart legend.
func (c *ChartShape) GetLegend() *ChartLegend { return c.legend }

// SetDataLabels turns value labels on or off for every series.
func (c *ChartShape) SetDataLabels(show bool) {
	for _, s := range getChartSeries(c.plotArea.chartType) {
		s.ShowValue = show
	}
}

// HasDataLabels reports whether any series shows value labels.
func (c *ChartShape) HasDataLabels() bool {
	for _, s := range getChartSeries(c.plotArea.chartType) {
		if s.ShowValue {
			return true
		}
	}
	return false
}

// ChartTitle represents a chart title.
type ChartTitle struct {
	Text    string
	Visible bool
	Font    *Font
}

// NewChartTitle creates a hidden chart title.
func NewChartTitle() *ChartTitle {
	f := NewFont()
	f.Size = 18
	return &ChartTitle{Font: f}
}

// SetText sets the title text and makes the title visible.
func (ct *ChartTitle) SetText(text string) *ChartTitle {
	ct.Text = text
	ct.Visible = text != ""
	return ct
}

// PlotArea represents the chart plot area.
type PlotArea struct {
	chartType ChartType
	axisX     *ChartAxis
	axisY     *ChartAxis
}

// NewPlotArea creates a new plot area.
func NewPlotArea() *PlotArea {
	return &PlotArea{
		axisX: NewChartAxis(),
		axisY: NewChartAxis(),
	}
}

// SetType sets the chart type.
func (pa *PlotArea) SetType(ct ChartType) { pa.chartType = ct }

// GetType returns the chart type.
func (pa *PlotArea) GetType() ChartType { return pa.chartType }

// ChartAxis represents a chart axis.
type ChartAxis struct {
	Title          string
	Visible        bool
	MinBounds      *float64
	MaxBounds      *float64
	MajorUnit      *float64
	CrossesAt      string
	ReversedOrder  bool
	MajorGridlines *Gridlines
	TickLabelPos   string
}

// Axis crossing constants.
const (
	AxisCrossesAuto = "autoZero"
	AxisCrossesMin  = "min"
	AxisCrossesMax  = "max"
)

// Tick label position constants.
const (
	TickLabelPosNextTo = "nextTo"
	TickLabelPosHigh   = "high"
	TickLabelPosLow    = "low"
)

// NewChartAxis creates a new chart axis.
func NewChartAxis() *ChartAxis {
	return &ChartAxis{
		Visible:      true,
		CrossesAt:    AxisCrossesAuto,
		TickLabelPos: TickLabelPosNextTo,
	}
}

// SetTitle sets the axis title.
func (a *ChartAxis) SetTitle(title string) *ChartAxis {
	a.Title = title
	return a
}

// SetMinBounds sets the minimum bounds.
func (a *ChartAxis) SetMinBounds(v float64) *ChartAxis {
	a.MinBounds = &v
	return a
}

// SetMaxBounds sets the maximum bounds.
func (a *ChartAxis) SetMaxBounds(v float64) *ChartAxis {
	a.MaxBounds = &v
	return a
}

// SetMajorUnit sets the major unit.
func (a *ChartAxis) SetMajorUnit(v float64) *ChartAxis {
	a.MajorUnit = &v
	return a
}

// Gridlines represents chart gridlines.
type Gridlines struct {
	Width int // in points
	Color Color
}

// NewGridlines creates light grey gridlines.
func NewGridlines() *Gridlines {
	return &Gridlines{Width: 1, Color: NewColor("D9D9D9")}
}

// ChartLegend represents a chart legend.
type ChartLegend struct {
	Visible  bool
	Position LegendPosition
}

// LegendPosition represents the legend position.
type LegendPosition string

const (
	LegendBottom   LegendPosition = "b"
	LegendTop      LegendPosition = "t"
	LegendLeft     LegendPosition = "l"
	LegendRight    LegendPosition = "r"
	LegendTopRight LegendPosition = "tr"
)

// ParseLegendPosition maps right, left, top, bottom and corner to legend positions.
func ParseLegendPosition(name string) (LegendPosition, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "right":
		return LegendRight, nil
	case "left":
		return LegendLeft, nil
	case "top":
		return LegendTop, nil
	case "bottom":
		return LegendBottom, nil
	case "corner", "top_right":
		return LegendTopRight, nil
	}
	return "", fmt.Errorf("unknown legend position %q", name)
}

// NewChartLegend creates a visible legend on the right.
func NewChartLegend() *ChartLegend {
	return &ChartLegend{
		Visible:  true,
		Position: LegendRight,
	}
}

// ChartType is the interface for chart types.
type ChartType interface {
	GetChartTypeName() string
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Title            string
	Categories       []string
	Values           []float64 // one per category
	FillColor        Color
	ShowCategoryName bool
	ShowPercentage   bool
	ShowSeriesName   bool
	ShowValue        bool
	LabelPosition    string
	Marker           *SeriesMarker
}

// Series label position constants.
const (
	LabelInsideEnd  = "inEnd"
	LabelOutsideEnd = "outEnd"
	LabelCenter     = "ctr"
	LabelBestFit    = "bestFit"
)

// NewChartSeriesOrdered creates a series with ordered categories.
// Missing values default to 0 and extra values are dropped.
func NewChartSeriesOrdered(title string, categories []string, values []float64) *ChartSeries {
	vals := make([]float64, len(categories))
	copy(vals, values)
	return &ChartSeries{
		Title:      title,
		Categories: append([]string(nil), categories...),
		Values:     vals,
	}
}

// Value returns the value at category index i.
func (s *ChartSeries) Value(i int) float64 {
	if i < 0 || i >= len(s.Values) {
		return 0
	}
	return s.Values[i]
}

// SeriesMarker represents a series marker.
type SeriesMarker struct {
	Symbol string
	Size   int
}

// Marker symbol constants.
const (
	MarkerCircle   = "circle"
	MarkerDiamond  = "diamond"
	MarkerSquare   = "square"
	MarkerTriangle = "triangle"
	MarkerNone     = "none"
)

// BarChart represents a bar or column chart.
type BarChart struct {
	Series          []*ChartSeries
	BarGrouping     string
	BarDirection    string
	GapWidthPercent int
	OverlapPercent  int
}

// Bar grouping constants.
const (
	BarGroupingClustered      = "clustered"
	BarGroupingStacked        = "stacked"
	BarGroupingPercentStacked = "percentStacked"
)

// Bar direction constants.
const (
	BarDirectionVertical   = "col"
	BarDirectionHorizontal = "bar"
)

func (b *BarChart) GetChartTypeName() string { return "bar" }

// NewBarChart creates a clustered column chart.
func NewBarChart() *BarChart {
	return &BarChart{
		BarGrouping:     BarGroupingClustered,
		BarDirection:    BarDirectionVertical,
		GapWidthPercent: 150,
	}
}

// AddSeries adds a data series.
func (b *BarChart) AddSeries(s *ChartSeries) *BarChart {
	b.Series = append(b.Series, s)
	return b
}

// SetBarGrouping sets the bar grouping type. Stacked groupings fully overlap.
func (b *BarChart) SetBarGrouping(g string) *BarChart {
	b.BarGrouping = g
	if g == BarGroupingStacked || g == BarGroupingPercentStacked {
		b.OverlapPercent = 100
	} else {
		b.OverlapPercent = 0
	}
	return b
}

// SetBarDirection switches between columns and horizontal bars.
func (b *BarChart) SetBarDirection(d string) *BarChart {
	b.BarDirection = d
	return b
}

// LineChart represents a line chart.
type LineChart struct {
	Series      []*ChartSeries
	IsSmooth    bool
	ShowMarkers bool
}

func (l *LineChart) GetChartTypeName() string { return "line" }

// NewLineChart creates a new line chart without markers.
func NewLineChart() *LineChart {
	return &LineChart{}
}

// AddSeries adds a data series.
func (l *LineChart) AddSeries(s *ChartSeries) *LineChart {
	l.Series = append(l.Series, s)
	return l
}

// SetMarkers toggles point markers on every series.
func (l *LineChart) SetMarkers(v bool) *LineChart {
	l.ShowMarkers = v
	return l
}

// AreaChart represents an area chart.
type AreaChart struct {
	Series   []*ChartSeries
	Grouping string // "standard" or "stacked"
}

func (a *AreaChart) GetChartTypeName() string { return "area" }

// NewAreaChart creates a new area chart.
func NewAreaChart() *AreaChart {
	return &AreaChart{Grouping: "standard"}
}

// AddSeries adds a data series.
func (a *AreaChart) AddSeries(s *ChartSeries) *AreaChart {
	a.Series = append(a.Series, s)
	return a
}

// PieChart represents a pie chart.
type PieChart struct {
	Series []*ChartSeries
}

func (p *PieChart) GetChartTypeName() string { return "pie" }

// NewPieChart creates a new pie chart.
func NewPieChart() *PieChart {
	return &PieChart{}
}

// AddSeries adds a data series.
func (p *PieChart) AddSeries(s *ChartSeries) *PieChart {
	p.Series = append(p.Series, s)
	return p
}

// DoughnutChart represents a doughnut chart.
type DoughnutChart struct {
	Series   []*ChartSeries
	HoleSize int // percentage 10-90
}

func (d *DoughnutChart) GetChartTypeName() string { return "doughnut" }

// NewDoughnutChart creates a new doughnut chart.
func NewDoughnutChart() *DoughnutChart {
	return &DoughnutChart{HoleSize: 50}
}

// AddSeries adds a data series.
func (d *DoughnutChart) AddSeries(s *ChartSeries) *DoughnutChart {
	d.Series = append(d.Series, s)
	return d
}

// ScatterChart represents an XY scatter chart. Categories are parsed as X values.
type ScatterChart struct {
	Series   []*ChartSeries
	IsSmooth bool
}

func (s *ScatterChart) GetChartTypeName() string { return "scatter" }

// NewScatterChart creates a new scatter chart.
func NewScatterChart() *ScatterChart {
	return &ScatterChart{}
}

// AddSeries adds a data series.
func (s *ScatterChart) AddSeries(series *ChartSeries) *ScatterChart {
	s.Series = append(s.Series, series)
	return s
}

// RadarChart represents a radar chart.
type RadarChart struct {
	Series []*ChartSeries
	Style  string // RadarStyleStandard or RadarStyleMarker
}

// Radar style constants.
const (
	RadarStyleStandard = "standard"
	RadarStyleMarker   = "marker"
)

func (r *RadarChart) GetChartTypeName() string { return "radar" }

// NewRadarChart creates a new radar chart.
func NewRadarChart() *RadarChart {
	return &RadarChart{Style: RadarStyleStandard}
}

// AddSeries adds a data series.
func (r *RadarChart) AddSeries(s *ChartSeries) *RadarChart {
	r.Series = append(r.Series, s)
	return r
}

// getChartSeries extracts the series list from any chart type.
func getChartSeries(ct ChartType) []*ChartSeries {
	switch c := ct.(type) {
	case *BarChart:
		return c.Series
	case *LineChart:
		return c.Series
	case *AreaChart:
		return c.Series
	case *PieChart:
		return c.Series
	case *DoughnutChart:
		return c.Series
	case *ScatterChart:
		return c.Series
	case *RadarChart:
		return c.Series
	default:
		return nil
	}
}

// getCategories returns the categories of the first series.
func getCategories(series []*ChartSeries) []string {
	if len(series) == 0 {
		return nil
	}
	return series[0].Categories
}

func isPieType(ct ChartType) bool {
	switch ct.(type) {
	case *PieChart, *DoughnutChart:
		return true
	}
	return false
}
