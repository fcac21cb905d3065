package facade

import (
	"slices"
	"strings"

	"github.com/VantageDataChat/slidesmith"
)

// ChartTypeNames lists the accepted chart types in their documented order.
var ChartTypeNames = []string{
	"column", "stacked_column", "bar", "stacked_bar", "line",
	"line_markers", "pie", "doughnut", "area", "stacked_area",
	"scatter", "radar", "radar_markers",
}

// ChartData is the tabular content of a chart: one value per category for
// every named series.
type ChartData struct {
	Categories   []string
	SeriesNames  []string
	SeriesValues [][]float64
}

// Check enforces the shape of the data before any chart is created.
func (d ChartData) Check() error {
	if len(d.SeriesNames) == 0 && len(d.SeriesValues) == 0 {
		return argErrorf("At least one series is required")
	}
	if len(d.SeriesNames) != len(d.SeriesValues) {
		return argErrorf("Number of series names (%d) must match number of series values (%d)", len(d.SeriesNames), len(d.SeriesValues))
	}
	if len(d.Categories) == 0 {
		return argErrorf("Categories list cannot be empty")
	}
	for i, values := range d.SeriesValues {
		if len(values) != len(d.Categories) {
			return argErrorf("Series '%s' has %d values but there are %d categories", d.SeriesNames[i], len(values), len(d.Categories))
		}
	}
	return nil
}

// CheckChartType reports an error naming every valid type when kind is unknown.
func CheckChartType(kind string) error {
	if !slices.Contains(ChartTypeNames, strings.ToLower(kind)) {
		return argErrorf("Invalid chart type: '%s'. Valid types are: %s", kind, strings.Join(ChartTypeNames, ", "))
	}
	return nil
}

func (d ChartData) series() []*slidesmith.ChartSeries {
	out := make([]*slidesmith.ChartSeries, len(d.SeriesNames))
	for i, name := range d.SeriesNames {
		out[i] = slidesmith.NewChartSeriesOrdered(name, d.Categories, d.SeriesValues[i])
	}
	return out
}

func buildChartType(kind string, series []*slidesmith.ChartSeries) slidesmith.ChartType {
	switch strings.ToLower(kind) {
	case "column", "stacked_column", "bar", "stacked_bar":
		c := slidesmith.NewBarChart()
		if strings.HasSuffix(kind, "bar") {
			c.SetBarDirection(slidesmith.BarDirectionHorizontal)
		}
		if strings.HasPrefix(kind, "stacked_") {
			c.SetBarGrouping(slidesmith.BarGroupingStacked)
		}
		for _, s := range series {
			c.AddSeries(s)
		}
		return c
	case "line", "line_markers":
		c := slidesmith.NewLineChart().SetMarkers(kind == "line_markers")
		for _, s := range series {
			c.AddSeries(s)
		}
		return c
	case "pie":
		c := slidesmith.NewPieChart()
		for _, s := range series {
			c.AddSeries(s)
		}
		return c
	case "doughnut":
		c := slidesmith.NewDoughnutChart()
		for _, s := range series {
			c.AddSeries(s)
		}
		return c
	case "area", "stacked_area":
		c := slidesmith.NewAreaChart()
		if kind == "stacked_area" {
			c.Grouping = "stacked"
		}
		for _, s := range series {
			c.AddSeries(s)
		}
		return c
	case "scatter":
		c := slidesmith.NewScatterChart()
		for _, s := range series {
			c.AddSeries(s)
		}
		return c
	default:
		c := slidesmith.NewRadarChart()
		if kind == "radar_markers" {
			c.Style = slidesmith.RadarStyleMarker
		}
		for _, s := range series {
			c.AddSeries(s)
		}
		return c
	}
}

// AddChart validates kind and data, then places a chart on slide. No shape
// is added when validation fails.
func AddChart(slide *slidesmith.Slide, kind string, r Rect, data ChartData) (*slidesmith.ChartShape, error) {
	if err := CheckChartType(kind); err != nil {
		return nil, err
	}
	if err := data.Check(); err != nil {
		return nil, err
	}
	c := slide.CreateChartShape()
	c.GetPlotArea().SetType(buildChartType(strings.ToLower(kind), data.series()))
	place(c, r)
	return c, nil
}

// ChartFormat holds the display options applied after creation.
type ChartFormat struct {
	HasLegend      bool
	LegendPosition string
	DataLabels     bool
	Title          *string
}

// FormatChart applies legend, labels and title. An unknown legend position
// fails before anything changes.
func FormatChart(c *slidesmith.ChartShape, f ChartFormat) error {
	legend := c.GetLegend()
	if f.HasLegend {
		pos := f.LegendPosition
		if pos == "" {
			pos = "right"
		}
		p, err := slidesmith.ParseLegendPosition(pos)
		if err != nil {
			return err
		}
		legend.Visible = true
		legend.Position = p
	} else {
		legend.Visible = false
	}
	c.SetDataLabels(f.DataLabels)
	if f.Title != nil && *f.Title != "" {
		c.GetTitle().SetText(*f.Title)
	}
	return nil
}
