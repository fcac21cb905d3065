package facade

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VantageDataChat/slidesmith"
)

// ============================================================================
// Helpers
// ============================================================================

func blankSlide(t *testing.T) *slidesmith.Slide {
	t.Helper()
	p := slidesmith.New()
	s, err := p.CreateSlide(6)
	if err != nil {
		t.Fatalf("CreateSlide: %v", err)
	}
	return s
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func ptr[T any](v T) *T { return &v }

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// ============================================================================
// TryInOrder
// ============================================================================

func TestTryInOrder_FirstSuccessWins(t *testing.T) {
	calls := 0
	v, failures, err := TryInOrder("compute",
		Attempt[int]{Description: "a", Run: func() (int, error) { calls++; return 0, errors.New("boom") }},
		Attempt[int]{Description: "b", Run: func() (int, error) { calls++; return 7, nil }},
		Attempt[int]{Description: "c", Run: func() (int, error) { calls++; return 9, nil }},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 7 || calls != 2 {
		t.Errorf("expected 7 after 2 calls, got %d after %d", v, calls)
	}
	if len(failures) != 1 || failures[0].Description != "a" {
		t.Errorf("expected one recorded failure, got %v", failures)
	}
}

func TestTryInOrder_AllFail(t *testing.T) {
	last := errors.New("last")
	_, failures, err := TryInOrder("add image",
		Attempt[int]{Description: "first", Run: func() (int, error) { return 0, errors.New("one") }},
		Attempt[int]{Description: "second", Run: func() (int, error) { panic("kaboom") }},
		Attempt[int]{Description: "third", Run: func() (int, error) { return 0, last }},
	)
	var ae *AttemptsError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *AttemptsError, got %v", err)
	}
	if len(failures) != 3 || len(ae.Failures) != 3 {
		t.Fatalf("expected 3 failures, got %d", len(failures))
	}
	if !errors.Is(err, last) {
		t.Error("expected the last error to be unwrapped")
	}
	for _, want := range []string{"Failed to add image", "first: one", "second: panic: kaboom", "Last error: last"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}

// ============================================================================
// Shapes
// ============================================================================

func TestShapeCode(t *testing.T) {
	if len(ShapeTypeNames()) != 23 {
		t.Errorf("expected 23 shape names, got %d", len(ShapeTypeNames()))
	}
	for _, name := range ShapeTypeNames() {
		code, err := ShapeCode(name)
		if err != nil {
			t.Fatalf("ShapeCode(%s): %v", name, err)
		}
		if _, err := slidesmith.AutoShapeTypeFromMSO(code); err != nil {
			t.Errorf("%s: code %d has no preset: %v", name, code, err)
		}
	}
	if code, _ := ShapeCode("  OVAL "); code != slidesmith.MSOOval {
		t.Errorf("expected case-insensitive lookup, got %d", code)
	}

	_, err := ShapeCode("blob")
	var ae *ArgumentError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *ArgumentError, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Unsupported shape type: 'blob'. Available shape types: arrow, cloud, diamond,") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestAddShape(t *testing.T) {
	slide := blankSlide(t)
	red := slidesmith.NewColorRGB(255, 0, 0)
	s, err := AddShape(slide, "star", Rect{1, 1, 2, 2}, ShapeStyle{Fill: &red, LineWidth: ptr(2.5)})
	if err != nil {
		t.Fatalf("AddShape: %v", err)
	}
	if s.GetAutoShapeType() != slidesmith.AutoShapeStar5 {
		t.Errorf("expected star5, got %s", s.GetAutoShapeType())
	}
	if s.GetFill().Color.ARGB != "FFFF0000" {
		t.Errorf("expected red fill, got %s", s.GetFill().Color.ARGB)
	}
	b := s.GetBorder()
	if b.Width != slidesmith.Point(2.5) || b.Color != slidesmith.ColorBlack {
		t.Errorf("expected 2.5pt black outline, got %d %s", b.Width, b.Color.ARGB)
	}

	if _, err := AddShape(slide, "blob", Rect{0, 0, 1, 1}, ShapeStyle{}); err == nil {
		t.Error("expected error for unknown shape")
	}
	if slide.GetShapeCount() != 1 {
		t.Errorf("expected failed add to leave 1 shape, got %d", slide.GetShapeCount())
	}
}

func TestMoveShape(t *testing.T) {
	slide := blankSlide(t)
	AddTextbox(slide, Rect{0, 0, 1, 1}, "x", TextFormat{})
	left, top, err := MoveShape(slide, 0, 2.0, 3.0)
	if err != nil {
		t.Fatalf("MoveShape: %v", err)
	}
	if !near(left, 2.0) || !near(top, 3.0) {
		t.Errorf("expected (2, 3), got (%f, %f)", left, top)
	}
	if _, _, err := MoveShape(slide, 5, 0, 0); !errors.Is(err, slidesmith.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

// ============================================================================
// Charts
// ============================================================================

func TestChartData_Check(t *testing.T) {
	tests := []struct {
		name string
		data ChartData
		want string
	}{
		{"names vs values", ChartData{[]string{"a"}, []string{"s1", "s2"}, [][]float64{{1}}},
			"Number of series names (2) must match number of series values (1)"},
		{"empty categories", ChartData{nil, []string{"s"}, [][]float64{{}}},
			"Categories list cannot be empty"},
		{"length mismatch", ChartData{[]string{"a", "b"}, []string{"s"}, [][]float64{{1}}},
			"Series 's' has 1 values but there are 2 categories"},
		{"no series", ChartData{[]string{"a"}, nil, nil},
			"At least one series is required"},
		{"empty series lists", ChartData{[]string{"a"}, []string{}, [][]float64{}},
			"At least one series is required"},
	}
	for _, tc := range tests {
		err := tc.data.Check()
		if err == nil || err.Error() != tc.want {
			t.Errorf("%s: expected %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestAddChart_AllTypes(t *testing.T) {
	data := ChartData{
		Categories:   []string{"Q1", "Q2"},
		SeriesNames:  []string{"North", "South"},
		SeriesValues: [][]float64{{1, 2}, {3, 4}},
	}
	slide := blankSlide(t)
	for i, kind := range ChartTypeNames {
		c, err := AddChart(slide, kind, Rect{1, 1, 4, 3}, data)
		if err != nil {
			t.Fatalf("AddChart(%s): %v", kind, err)
		}
		if c.GetPlotArea().GetType() == nil {
			t.Errorf("%s: expected chart type", kind)
		}
		if slide.GetShapeCount() != i+1 {
			t.Errorf("%s: expected %d shapes, got %d", kind, i+1, slide.GetShapeCount())
		}
	}

	bar := slide.GetShapes()[2].(*slidesmith.ChartShape).GetPlotArea().GetType().(*slidesmith.BarChart)
	if bar.BarDirection != slidesmith.BarDirectionHorizontal {
		t.Errorf("expected horizontal bars, got %s", bar.BarDirection)
	}
	stacked := slide.GetShapes()[1].(*slidesmith.ChartShape).GetPlotArea().GetType().(*slidesmith.BarChart)
	if stacked.BarGrouping != slidesmith.BarGroupingStacked || stacked.BarDirection != slidesmith.BarDirectionVertical {
		t.Errorf("expected stacked columns, got %s %s", stacked.BarGrouping, stacked.BarDirection)
	}
}

func TestAddChart_Rejects(t *testing.T) {
	slide := blankSlide(t)
	_, err := AddChart(slide, "bubble", Rect{0, 0, 1, 1}, ChartData{})
	if err == nil || !strings.HasPrefix(err.Error(), "Invalid chart type: 'bubble'. Valid types are: column, stacked_column,") {
		t.Errorf("unexpected error %v", err)
	}
	_, err = AddChart(slide, "pie", Rect{0, 0, 1, 1}, ChartData{[]string{"a"}, []string{"s"}, [][]float64{{1, 2}}})
	if err == nil {
		t.Error("expected series mismatch error")
	}
	if slide.GetShapeCount() != 0 {
		t.Errorf("expected no shapes, got %d", slide.GetShapeCount())
	}
}

func TestFormatChart(t *testing.T) {
	slide := blankSlide(t)
	c, err := AddChart(slide, "column", Rect{0, 0, 4, 3}, ChartData{[]string{"a"}, []string{"s"}, [][]float64{{1}}})
	if err != nil {
		t.Fatalf("AddChart: %v", err)
	}
	if err := FormatChart(c, ChartFormat{HasLegend: true, LegendPosition: "bottom", DataLabels: true, Title: ptr("Sales")}); err != nil {
		t.Fatalf("FormatChart: %v", err)
	}
	if c.GetLegend().Position != slidesmith.LegendBottom || !c.GetLegend().Visible {
		t.Errorf("expected visible bottom legend, got %+v", c.GetLegend())
	}
	if !c.HasDataLabels() || c.GetTitle().Text != "Sales" {
		t.Error("expected data labels and title")
	}

	if err := FormatChart(c, ChartFormat{HasLegend: true, LegendPosition: "sideways"}); err == nil {
		t.Error("expected error for unknown legend position")
	}
	if c.GetLegend().Position != slidesmith.LegendBottom {
		t.Error("expected failed format to leave legend untouched")
	}

	if err := FormatChart(c, ChartFormat{}); err != nil {
		t.Fatalf("FormatChart: %v", err)
	}
	if c.GetLegend().Visible || c.HasDataLabels() {
		t.Error("expected legend and labels off")
	}
}

// ============================================================================
// Text
// ============================================================================

func TestAddTextbox(t *testing.T) {
	slide := blankSlide(t)
	center := slidesmith.HorizontalCenter
	tb := AddTextbox(slide, Rect{1, 2, 3, 1}, "first\nsecond", TextFormat{FontSize: ptr(24), Bold: ptr(true), Alignment: &center})
	if len(tb.GetParagraphs()) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(tb.GetParagraphs()))
	}
	if tb.Text() != "first\nsecond" {
		t.Errorf("unexpected text %q", tb.Text())
	}
	for _, para := range tb.GetParagraphs() {
		if para.GetAlignment().Horizontal != slidesmith.HorizontalCenter {
			t.Error("expected centered paragraphs")
		}
		f := para.TextRuns()[0].GetFont()
		if f.Size != 24 || !f.Bold || f.Name != "Calibri" {
			t.Errorf("unexpected font %+v", f)
		}
	}
	if r := Frame(tb); !near(r.Left, 1) || !near(r.Top, 2) || !near(r.Width, 3) {
		t.Errorf("unexpected frame %+v", r)
	}
}

func TestPlaceholders(t *testing.T) {
	p := slidesmith.New()
	slide, err := p.CreateSlide(1)
	if err != nil {
		t.Fatalf("CreateSlide: %v", err)
	}
	infos := Placeholders(slide)
	if len(infos) != 2 || infos[0].Type != "title" || infos[1].Idx != 1 {
		t.Fatalf("unexpected placeholders %+v", infos)
	}

	if err := PopulatePlaceholder(slide, 0, "Agenda"); err != nil {
		t.Fatalf("PopulatePlaceholder: %v", err)
	}
	if slide.Title() != "Agenda" {
		t.Errorf("expected title Agenda, got %q", slide.Title())
	}
	if err := AddBulletPoints(slide, 1, []string{"one", "two", "three"}); err != nil {
		t.Fatalf("AddBulletPoints: %v", err)
	}
	body, _ := slide.Placeholder(1)
	if body.Text() != "one\ntwo\nthree" {
		t.Errorf("expected bullets in order, got %q", body.Text())
	}
	if err := PopulatePlaceholder(slide, 9, "x"); !errors.Is(err, slidesmith.ErrShapeNotFound) {
		t.Errorf("expected ErrShapeNotFound, got %v", err)
	}
	if !SetTitle(slide, "New") || slide.Title() != "New" {
		t.Error("expected title to be replaced")
	}
	blank := blankSlide(t)
	if SetTitle(blank, "x") {
		t.Error("expected no title placeholder on a blank slide")
	}
}

// ============================================================================
// Tables
// ============================================================================

func TestFillTable(t *testing.T) {
	slide := blankSlide(t)
	table := AddTable(slide, 2, 2, Rect{0, 0, 4, 1})
	warnings := FillTable(table, [][]string{{"a", "b", "c"}, {"d"}, {"e", "f"}})
	want := []string{
		"Ignored excess data in row 0: table has only 2 columns",
		"Ignored excess data: table has only 2 rows but data has 3 rows",
	}
	if strings.Join(warnings, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q, got %q", want, warnings)
	}
	if table.GetCell(0, 1).Text() != "b" || table.GetCell(1, 0).Text() != "d" || table.GetCell(1, 1).Text() != "" {
		t.Error("unexpected cell contents")
	}
}

func TestFormatCell(t *testing.T) {
	slide := blankSlide(t)
	table := AddTable(slide, 2, 2, Rect{0, 0, 4, 1})
	table.GetCell(0, 0).SetText("x")
	grey := slidesmith.NewColorRGB(200, 200, 200)
	middle := slidesmith.TextAnchorMiddle

	warnings, err := FormatCell(table.GetCell(0, 0), CellFormat{
		Text:       TextFormat{Bold: ptr(true)},
		Background: &grey,
		Vertical:   &middle,
	})
	if err != nil || len(warnings) != 0 {
		t.Fatalf("expected clean apply, got %v %v", warnings, err)
	}
	cell := table.GetCell(0, 0)
	if !cell.GetParagraphs()[0].TextRuns()[0].GetFont().Bold || cell.GetFill().Color != grey || cell.GetAnchor() != middle {
		t.Error("expected every aspect applied")
	}
}

func TestFormatCell_PerAspectFallback(t *testing.T) {
	slide := blankSlide(t)
	table := AddTable(slide, 1, 2, Rect{0, 0, 4, 1})
	if err := table.MergeCells(0, 0, 0, 1); err != nil {
		t.Fatalf("MergeCells: %v", err)
	}
	grey := slidesmith.NewColorRGB(200, 200, 200)
	covered := table.GetCell(0, 1)

	warnings, err := FormatCell(covered, CellFormat{Text: TextFormat{Bold: ptr(true)}, Background: &grey})
	if err != nil {
		t.Fatalf("expected partial success, got %v", err)
	}
	if len(warnings) != 1 || !strings.HasPrefix(warnings[0], "Failed to apply text formatting:") {
		t.Errorf("unexpected warnings %q", warnings)
	}
	if covered.GetFill() == nil || covered.GetFill().Color != grey {
		t.Error("expected background to be applied")
	}

	warnings, err = FormatCell(covered, CellFormat{Text: TextFormat{Italic: ptr(true)}})
	if err == nil || len(warnings) != 1 {
		t.Errorf("expected failure when every aspect fails, got %v %v", warnings, err)
	}
}

// ============================================================================
// Images
// ============================================================================

func TestInsertImage(t *testing.T) {
	slide := blankSlide(t)
	data := pngBytes(t, 200, 100)

	pic, failures, err := InsertImage(slide, data, "", ImagePlacement{Left: 1, Top: 1, Width: ptr(2.0)})
	if err != nil {
		t.Fatalf("InsertImage: %v", err)
	}
	if len(failures) != 0 {
		t.Errorf("expected first strategy to win, got %v", failures)
	}
	if r := Frame(pic); !near(r.Width, 2) || !near(r.Height, 1) {
		t.Errorf("expected 2x1 in from the aspect ratio, got %+v", r)
	}

	pic, _, err = InsertImage(slide, data, "", ImagePlacement{Height: ptr(0.5)})
	if err != nil {
		t.Fatalf("InsertImage: %v", err)
	}
	if r := Frame(pic); !near(r.Width, 1) {
		t.Errorf("expected width 1in, got %+v", r)
	}

	pic, _, err = InsertImage(slide, data, "", ImagePlacement{})
	if err != nil {
		t.Fatalf("InsertImage: %v", err)
	}
	if pic.GetWidth() != slidesmith.Pixel(200) || pic.GetHeight() != slidesmith.Pixel(100) {
		t.Errorf("expected native size, got %dx%d", pic.GetWidth(), pic.GetHeight())
	}
	if slide.GetShapeCount() != 3 {
		t.Errorf("expected 3 pictures, got %d", slide.GetShapeCount())
	}
}

func TestInsertImage_AllStrategiesFail(t *testing.T) {
	slide := blankSlide(t)
	_, failures, err := InsertImage(slide, []byte("not an image"), "", ImagePlacement{Width: ptr(1.0)})
	var ae *AttemptsError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *AttemptsError, got %v", err)
	}
	if len(failures) != 3 {
		t.Errorf("expected 3 failures, got %d", len(failures))
	}
	if slide.GetShapeCount() != 0 {
		t.Errorf("expected no shape, got %d", slide.GetShapeCount())
	}
}

func TestExtendedSize(t *testing.T) {
	w, h, err := ExtendedSize(pngBytes(t, 30, 20))
	if err != nil || w != 30 || h != 20 {
		t.Errorf("expected 30x20, got %dx%d %v", w, h, err)
	}
	if _, _, err := ExtendedSize([]byte("junk")); err == nil {
		t.Error("expected error for junk")
	}
}

func TestResolveImagePath(t *testing.T) {
	dir := t.TempDir()
	assets := filepath.Join(dir, "assets")
	if err := os.Mkdir(assets, 0o755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(assets, "logo.png")
	if err := os.WriteFile(target, pngBytes(t, 2, 2), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveImagePath("missing/logo.png", []string{filepath.Join(dir, "images"), assets})
	if err != nil {
		t.Fatalf("ResolveImagePath: %v", err)
	}
	if got != target {
		t.Errorf("expected %s, got %s", target, got)
	}
	if got, _ := ResolveImagePath(target, nil); got != target {
		t.Errorf("expected existing path unchanged, got %s", got)
	}
	_, err = ResolveImagePath("nope.png", []string{dir})
	if !errors.Is(err, ErrImageNotFound) || !strings.HasPrefix(err.Error(), "Image file not found: nope.png. Searched in ") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestDecodeBase64Image(t *testing.T) {
	raw := pngBytes(t, 1, 1)
	enc := base64.StdEncoding.EncodeToString(raw)
	for _, in := range []string{enc, "data:image/png;base64," + enc, " " + enc + "\n"} {
		got, err := DecodeBase64Image(in)
		if err != nil || !bytes.Equal(got, raw) {
			t.Errorf("DecodeBase64Image(%.20q): %v", in, err)
		}
	}
	if _, err := DecodeBase64Image("!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}
