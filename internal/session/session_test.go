package session

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/VantageDataChat/slidesmith"
	"github.com/VantageDataChat/slidesmith/internal/render"
)

// --- helpers ---

func newLoaded(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s := New(opts...)
	if _, err := s.Create(nil); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return s
}

func ptr[T any](v T) *T { return &v }

func wantKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if se.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%s)", kind, se.Kind, se.Msg)
	}
	return se
}

func shapeCount(t *testing.T, s *Session, slide int) int {
	t.Helper()
	sl, err := s.Presentation().GetSlide(slide)
	if err != nil {
		t.Fatalf("GetSlide: %v", err)
	}
	return sl.GetShapeCount()
}

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func sampleChart(slide int) ChartRequest {
	return ChartRequest{
		SlideIndex:   slide,
		ChartType:    "column",
		Left:         1, Top: 1, Width: 5, Height: 3,
		Categories:   []string{"Q1", "Q2", "Q3"},
		SeriesNames:  []string{"Sales"},
		SeriesValues: [][]float64{{1, 2, 3}},
	}
}

// --- lifecycle ---

func TestFreshSessions(t *testing.T) {
	a, b := New(), New()
	if a.ID() == b.ID() {
		t.Fatal("expected distinct session ids")
	}
	for _, s := range []*Session{a, b} {
		res, err := s.Create(nil)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if res.SlideCount != 1 {
			t.Errorf("expected slide_count 1, got %d", res.SlideCount)
		}
		if res.PresentationID != s.ID() {
			t.Errorf("expected presentation id %s, got %s", s.ID(), res.PresentationID)
		}
		if res.Message != "Created new presentation with layout 6: Blank" {
			t.Errorf("unexpected message %q", res.Message)
		}
	}
}

func TestNotLoaded(t *testing.T) {
	s := New()
	checks := map[string]func() error{
		"list_layouts": func() error { _, err := s.ListLayouts(); return err },
		"info":         func() error { _, err := s.PresentationInfo(); return err },
		"slide_info":   func() error { _, err := s.SlideInfo(0); return err },
		"save":         func() error { _, err := s.Save(""); return err },
		"add_table":    func() error { _, err := s.AddTable(TableRequest{Rows: 1, Cols: 1, Width: 1, Height: 1}); return err },
		"move":         func() error { _, err := s.MoveElement(0, 1, 1, nil); return err },
	}
	for name, fn := range checks {
		se := wantKind(t, fn(), KindNotLoaded)
		if se.Msg != "No presentation is currently loaded" {
			t.Errorf("%s: unexpected message %q", name, se.Msg)
		}
	}
}

func TestCreateAppendsAndKeepsID(t *testing.T) {
	s := newLoaded(t)
	id := s.ID()
	res, err := s.Create(ptr(1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.SlideCount != 2 || res.PresentationID != id {
		t.Errorf("unexpected result %+v", res)
	}
	if s.CurrentSlide() != 1 {
		t.Errorf("expected current slide 1, got %d", s.CurrentSlide())
	}

	_, err = s.Create(ptr(99))
	se := wantKind(t, err, KindOutOfRange)
	if se.Msg != "Invalid layout index: 99. Available layouts: 0-10" {
		t.Errorf("unexpected message %q", se.Msg)
	}
	if s.Presentation().GetSlideCount() != 2 {
		t.Error("expected no slide added on failure")
	}

	fresh := New()
	if _, err := fresh.Create(ptr(-1)); err == nil || fresh.Loaded() {
		t.Error("expected failed create to leave session unloaded")
	}
}

func TestPresentationInfo(t *testing.T) {
	s := newLoaded(t)
	info, err := s.PresentationInfo()
	if err != nil {
		t.Fatalf("PresentationInfo: %v", err)
	}
	if info.SlideCount != 1 || len(info.SlideLayouts) != 11 {
		t.Errorf("unexpected info %+v", info)
	}
	if info.SlideLayouts[1].Name != "Title and Content" {
		t.Errorf("unexpected layout name %q", info.SlideLayouts[1].Name)
	}
	if info.CoreProperties.Created == "" {
		t.Error("expected created timestamp")
	}
}

func TestSaveAndReopen(t *testing.T) {
	dir := t.TempDir()
	s := newLoaded(t, WithSaveDir(dir))
	if _, err := s.AddSlide(1, ptr("Agenda")); err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	if _, err := s.AddChart(sampleChart(0)); err != nil {
		t.Fatalf("AddChart: %v", err)
	}

	res, err := s.Save("")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	want := filepath.Join(dir, s.ID()+".pptx")
	if res.FilePath != want || res.Message != "Saved to "+want {
		t.Errorf("unexpected save result %+v", res)
	}

	other := New()
	opened, err := other.Open(res.FilePath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened.SlideCount != 2 {
		t.Errorf("expected 2 slides after reopen, got %d", opened.SlideCount)
	}
	if opened.PresentationID != other.ID() {
		t.Error("expected open to keep the session id")
	}

	_, err = other.Open(filepath.Join(dir, "missing.pptx"))
	wantKind(t, err, KindNotFound)
}

// --- slides and placeholders ---

func TestAddSlide(t *testing.T) {
	s := newLoaded(t)
	res, err := s.AddSlide(1, ptr("Quarterly review"))
	if err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	if res.SlideIndex != 1 || res.LayoutName != "Title and Content" {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Message != "Added slide with layout 'Title and Content'" {
		t.Errorf("unexpected message %q", res.Message)
	}
	if len(res.Placeholders) != 2 {
		t.Errorf("expected 2 placeholders, got %d", len(res.Placeholders))
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", res.Warnings)
	}

	blank, err := s.AddSlide(6, ptr("No title here"))
	if err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	if blank.Status() != KindPartialFailure {
		t.Errorf("expected partial failure status, got %v", blank.Warnings)
	}

	_, err = s.AddSlide(11, nil)
	wantKind(t, err, KindOutOfRange)
}

func TestPlaceholders(t *testing.T) {
	s := newLoaded(t)
	if _, err := s.AddSlide(1, nil); err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	out, err := s.PopulatePlaceholder(1, 0, "Hello")
	if err != nil {
		t.Fatalf("PopulatePlaceholder: %v", err)
	}
	if out.Message != "Populated placeholder 0 in slide 1" {
		t.Errorf("unexpected message %q", out.Message)
	}

	out, err = s.AddBulletPoints(1, 1, []string{"one", "two", "three"})
	if err != nil {
		t.Fatalf("AddBulletPoints: %v", err)
	}
	if out.Message != "Added 3 bullet points to placeholder 1 in slide 1" {
		t.Errorf("unexpected message %q", out.Message)
	}

	_, err = s.PopulatePlaceholder(1, 42, "x")
	se := wantKind(t, err, KindNotFound)
	if se.Msg != "Placeholder with index 42 not found in slide 1" {
		t.Errorf("unexpected message %q", se.Msg)
	}
	_, err = s.AddBulletPoints(0, 1, []string{"x"})
	wantKind(t, err, KindNotFound)
}

func TestSlideInfo(t *testing.T) {
	s := newLoaded(t)
	if _, err := s.AddTable(TableRequest{Rows: 2, Cols: 2, Left: 1, Top: 2, Width: 4, Height: 1}); err != nil {
		t.Fatalf("AddTable: %v", err)
	}
	info, err := s.SlideInfo(0)
	if err != nil {
		t.Fatalf("SlideInfo: %v", err)
	}
	if len(info.Shapes) != 1 {
		t.Fatalf("expected 1 shape, got %d", len(info.Shapes))
	}
	sh := info.Shapes[0]
	if sh.ShapeType != "TABLE" || sh.Left != 1 || sh.Top != 2 || sh.Width != 4 {
		t.Errorf("unexpected shape info %+v", sh)
	}

	_, err = s.SlideInfo(3)
	se := wantKind(t, err, KindOutOfRange)
	if se.Msg != "Invalid slide index: 3. Available slides: 0-0" {
		t.Errorf("unexpected message %q", se.Msg)
	}
}

// --- content ---

func TestOutOfRangeSlideDoesNotMutate(t *testing.T) {
	s := newLoaded(t)
	_, err := s.AddTextbox(TextboxRequest{SlideIndex: 5, Width: 1, Height: 1, Text: "x"})
	wantKind(t, err, KindOutOfRange)
	_, err = s.AddShape(ShapeRequest{SlideIndex: -1, ShapeType: "oval", Width: 1, Height: 1})
	wantKind(t, err, KindOutOfRange)
	if n := shapeCount(t, s, 0); n != 0 {
		t.Errorf("expected no shapes, got %d", n)
	}
}

func TestAddTextbox(t *testing.T) {
	s := newLoaded(t)
	res, err := s.AddTextbox(TextboxRequest{
		Width: 3, Height: 1, Text: "Hello\nWorld",
		Bold: ptr(true), Color: []int{255, 0, 0}, Alignment: ptr("Center"),
	})
	if err != nil {
		t.Fatalf("AddTextbox: %v", err)
	}
	if res.ShapeIndex != 0 || res.Message != "Added textbox to slide 0" {
		t.Errorf("unexpected result %+v", res)
	}

	_, err = s.AddTextbox(TextboxRequest{Width: 1, Height: 1, Text: "x", Alignment: ptr("diagonal")})
	se := wantKind(t, err, KindInvalidArgument)
	if se.Msg != "Parameter 'alignment': must be one of left, center, right, justify" {
		t.Errorf("unexpected message %q", se.Msg)
	}
	_, err = s.AddTextbox(TextboxRequest{Width: 1, Height: 1, Text: "x", Color: []int{1, 2}})
	wantKind(t, err, KindInvalidArgument)
	for _, size := range []int{0, 5000} {
		_, err = s.AddTextbox(TextboxRequest{Width: 1, Height: 1, Text: "x", FontSize: ptr(size)})
		se = wantKind(t, err, KindInvalidArgument)
		if se.Msg != "Parameter 'font_size': must be an integer between 1 and 4000" {
			t.Errorf("font_size %d: unexpected message %q", size, se.Msg)
		}
	}
	if _, err := s.AddTextbox(TextboxRequest{Width: 1, Height: 1, Text: "x", FontSize: ptr(4000)}); err != nil {
		t.Errorf("font_size 4000: %v", err)
	}
	if n := shapeCount(t, s, 0); n != 2 {
		t.Errorf("expected 2 shapes, got %d", n)
	}
}

func TestAddTable(t *testing.T) {
	s := newLoaded(t)
	res, err := s.AddTable(TableRequest{
		Rows: 2, Cols: 2, Left: 1, Top: 1, Width: 4, Height: 2,
		Data: [][]string{{"a", "b", "c"}, {"d"}, {"e"}},
	})
	if err != nil {
		t.Fatalf("AddTable: %v", err)
	}
	if shapeCount(t, s, 0) != 1 {
		t.Fatal("expected exactly one new shape")
	}
	info, _ := s.SlideInfo(0)
	if info.Shapes[0].ShapeType != "TABLE" {
		t.Errorf("expected TABLE, got %s", info.Shapes[0].ShapeType)
	}
	if res.Message != "Added 2x2 table to slide 0" {
		t.Errorf("unexpected message %q", res.Message)
	}
	wantWarnings := []string{
		"Ignored excess data in row 0: table has only 2 columns",
		"Ignored excess data: table has only 2 rows but data has 3 rows",
	}
	if strings.Join(res.Warnings, "|") != strings.Join(wantWarnings, "|") {
		t.Errorf("unexpected warnings %v", res.Warnings)
	}
	if res.Status() != KindPartialFailure {
		t.Error("expected partial failure status")
	}
}

func TestAddTableValidation(t *testing.T) {
	s := newLoaded(t)
	cases := []struct {
		req  TableRequest
		want string
	}{
		{TableRequest{Rows: 0, Cols: 1, Width: 1, Height: 1}, "Parameter 'rows': must be a positive integer"},
		{TableRequest{Rows: 1, Cols: 1, Left: -1, Width: 1, Height: 1}, "Parameter 'left': must be non-negative"},
		{TableRequest{Rows: 1, Cols: 1, Width: 1, Height: 0}, "Parameter 'height': must be positive"},
	}
	for _, tc := range cases {
		_, err := s.AddTable(tc.req)
		se := wantKind(t, err, KindInvalidArgument)
		if se.Msg != tc.want {
			t.Errorf("expected %q, got %q", tc.want, se.Msg)
		}
	}
	if n := shapeCount(t, s, 0); n != 0 {
		t.Errorf("expected no shapes, got %d", n)
	}
}

func TestFormatTableCell(t *testing.T) {
	s := newLoaded(t)
	if _, err := s.AddTextbox(TextboxRequest{Width: 1, Height: 1, Text: "not a table"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddTable(TableRequest{Rows: 2, Cols: 3, Width: 3, Height: 1}); err != nil {
		t.Fatal(err)
	}

	out, err := s.FormatTableCell(CellFormatRequest{
		ShapeIndex: 1, Row: 1, Col: 2,
		FontSize: ptr(14), Bold: ptr(true), BgColor: []int{200, 200, 200},
		Alignment: ptr("right"), VerticalAlignment: ptr("middle"),
	})
	if err != nil {
		t.Fatalf("FormatTableCell: %v", err)
	}
	if out.Message != "Formatted cell at row 1, column 2 in table at shape index 1 on slide 0" {
		t.Errorf("unexpected message %q", out.Message)
	}

	_, err = s.FormatTableCell(CellFormatRequest{ShapeIndex: 0})
	se := wantKind(t, err, KindInvalidArgument)
	if se.Msg != "Shape at index 0 is not a table" {
		t.Errorf("unexpected message %q", se.Msg)
	}
	_, err = s.FormatTableCell(CellFormatRequest{ShapeIndex: 1, Row: 2})
	se = wantKind(t, err, KindOutOfRange)
	if se.Msg != "Invalid row index: 2. Available rows: 0-1" {
		t.Errorf("unexpected message %q", se.Msg)
	}
	_, err = s.FormatTableCell(CellFormatRequest{ShapeIndex: 1, Col: 3})
	wantKind(t, err, KindOutOfRange)
	_, err = s.FormatTableCell(CellFormatRequest{ShapeIndex: 5})
	se = wantKind(t, err, KindOutOfRange)
	if se.Msg != "Invalid shape index: 5. Available shapes: 0-1" {
		t.Errorf("unexpected message %q", se.Msg)
	}
	_, err = s.FormatTableCell(CellFormatRequest{ShapeIndex: 1, VerticalAlignment: ptr("sideways")})
	se = wantKind(t, err, KindInvalidArgument)
	if se.Msg != "Parameter 'vertical_alignment': must be one of top, middle, bottom" {
		t.Errorf("unexpected message %q", se.Msg)
	}
	_, err = s.FormatTableCell(CellFormatRequest{ShapeIndex: 1, BgColor: []int{0, 0, 256}})
	wantKind(t, err, KindInvalidArgument)
	_, err = s.FormatTableCell(CellFormatRequest{ShapeIndex: 1, FontSize: ptr(5000)})
	se = wantKind(t, err, KindInvalidArgument)
	if se.Msg != "Parameter 'font_size': must be an integer between 1 and 4000" {
		t.Errorf("unexpected message %q", se.Msg)
	}
}

func TestAddShape(t *testing.T) {
	s := newLoaded(t)
	res, err := s.AddShape(ShapeRequest{
		ShapeType: "Star", Left: 1, Top: 1, Width: 2, Height: 2,
		FillColor: []int{0, 128, 0}, LineWidth: ptr(2.5),
	})
	if err != nil {
		t.Fatalf("AddShape: %v", err)
	}
	if res.Message != "Added Star shape to slide 0" {
		t.Errorf("unexpected message %q", res.Message)
	}

	_, err = s.AddShape(ShapeRequest{ShapeType: "hexagram", Width: 1, Height: 1})
	se := wantKind(t, err, KindInvalidArgument)
	if !strings.HasPrefix(se.Msg, "Unsupported shape type: 'hexagram'. Available shape types: arrow, cloud,") {
		t.Errorf("unexpected message %q", se.Msg)
	}
	_, err = s.AddShape(ShapeRequest{ShapeType: "oval", Width: 1, Height: 1, LineWidth: ptr(0.0)})
	wantKind(t, err, KindInvalidArgument)
	if n := shapeCount(t, s, 0); n != 1 {
		t.Errorf("expected 1 shape, got %d", n)
	}
}

func TestAddChart(t *testing.T) {
	s := newLoaded(t)
	req := sampleChart(0)
	req.Title = ptr("Revenue")
	res, err := s.AddChart(req)
	if err != nil {
		t.Fatalf("AddChart: %v", err)
	}
	if res.Message != "Added column chart to slide 0" || len(res.Warnings) != 0 {
		t.Errorf("unexpected result %+v", res)
	}

	bad := sampleChart(0)
	bad.SeriesValues = [][]float64{{1, 2}}
	_, err = s.AddChart(bad)
	se := wantKind(t, err, KindInvalidArgument)
	if se.Msg != "Series 'Sales' has 2 values but there are 3 categories" {
		t.Errorf("unexpected message %q", se.Msg)
	}
	bad = sampleChart(0)
	bad.SeriesNames = []string{"a", "b"}
	_, err = s.AddChart(bad)
	wantKind(t, err, KindInvalidArgument)
	bad = sampleChart(0)
	bad.ChartType = "gantt"
	_, err = s.AddChart(bad)
	wantKind(t, err, KindInvalidArgument)
	bad = sampleChart(0)
	bad.SeriesNames, bad.SeriesValues = nil, nil
	_, err = s.AddChart(bad)
	se = wantKind(t, err, KindInvalidArgument)
	if se.Msg != "At least one series is required" {
		t.Errorf("unexpected message %q", se.Msg)
	}
	if n := shapeCount(t, s, 0); n != 1 {
		t.Errorf("expected 1 shape after rejected charts, got %d", n)
	}
	if _, err := s.Save(filepath.Join(t.TempDir(), "charts.pptx")); err != nil {
		t.Errorf("save after rejected charts: %v", err)
	}

	odd := sampleChart(0)
	odd.LegendPosition = "middle"
	res, err = s.AddChart(odd)
	if err != nil {
		t.Fatalf("AddChart: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.HasPrefix(res.Warnings[0], "Chart created but failed to format: ") {
		t.Errorf("expected format warning, got %v", res.Warnings)
	}
	if n := shapeCount(t, s, 0); n != 2 {
		t.Errorf("expected chart kept, got %d shapes", n)
	}
}

func TestAddImageFromBase64(t *testing.T) {
	s := newLoaded(t)
	res, err := s.AddImageFromBase64(Base64ImageRequest{
		Base64String: pngBase64(t, 200, 100), Left: 1, Top: 1, Width: ptr(2.0),
	})
	if err != nil {
		t.Fatalf("AddImageFromBase64: %v", err)
	}
	if math.Abs(res.Width-2) > 1e-6 || math.Abs(res.Height-1) > 1e-6 {
		t.Errorf("expected 2x1 inches, got %vx%v", res.Width, res.Height)
	}
	if res.Message != "Added image to slide 0" {
		t.Errorf("unexpected message %q", res.Message)
	}

	_, err = s.AddImageFromBase64(Base64ImageRequest{Base64String: "!!not base64!!"})
	wantKind(t, err, KindInvalidArgument)
	_, err = s.AddImageFromBase64(Base64ImageRequest{Base64String: base64.StdEncoding.EncodeToString([]byte("plain text"))})
	wantKind(t, err, KindInvalidArgument)
	if n := shapeCount(t, s, 0); n != 1 {
		t.Errorf("expected 1 shape, got %d", n)
	}
}

func TestAddImageSearchDirs(t *testing.T) {
	dir := t.TempDir()
	raw, _ := base64.StdEncoding.DecodeString(pngBase64(t, 10, 10))
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), raw, 0o600); err != nil {
		t.Fatal(err)
	}
	s := newLoaded(t, WithImageDirs(dir))
	res, err := s.AddImage(ImageRequest{ImagePath: "elsewhere/logo.png", Left: 0, Top: 0})
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if res.ShapeIndex != 0 {
		t.Errorf("unexpected shape index %d", res.ShapeIndex)
	}

	_, err = s.AddImage(ImageRequest{ImagePath: "missing.png"})
	se := wantKind(t, err, KindNotFound)
	if se.Msg != "Image file not found: missing.png. Searched in "+dir {
		t.Errorf("unexpected message %q", se.Msg)
	}
}

// --- element operations ---

func TestMoveElement(t *testing.T) {
	s := newLoaded(t)
	if _, err := s.AddShape(ShapeRequest{ShapeType: "oval", Width: 1, Height: 1}); err != nil {
		t.Fatal(err)
	}
	res, err := s.MoveElement(0, 2, 3, nil)
	if err != nil {
		t.Fatalf("MoveElement: %v", err)
	}
	if math.Abs(res.NewLeft-2) > 1e-6 || math.Abs(res.NewTop-3) > 1e-6 {
		t.Errorf("expected (2, 3), got (%v, %v)", res.NewLeft, res.NewTop)
	}
	if res.Message != `Moved shape 0 → (2", 3")` {
		t.Errorf("unexpected message %q", res.Message)
	}

	_, err = s.MoveElement(4, 1, 1, nil)
	wantKind(t, err, KindOutOfRange)
	_, err = s.MoveElement(0, 1, 1, ptr(7))
	wantKind(t, err, KindOutOfRange)
}

func TestRemoveElement(t *testing.T) {
	s := newLoaded(t)
	var ids []int
	for _, kind := range []string{"oval", "diamond", "heart"} {
		res, err := s.AddShape(ShapeRequest{ShapeType: kind, Width: 1, Height: 1})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, res.ShapeID)
	}
	res, err := s.RemoveElement(0, 1)
	if err != nil {
		t.Fatalf("RemoveElement: %v", err)
	}
	if res.ShapeCount != 2 || shapeCount(t, s, 0) != 2 {
		t.Errorf("expected 2 shapes left, got %d", res.ShapeCount)
	}
	info, _ := s.SlideInfo(0)
	if info.Shapes[1].ShapeID != ids[2] {
		t.Errorf("expected later shape to shift down keeping id %d, got %d", ids[2], info.Shapes[1].ShapeID)
	}
	_, err = s.RemoveElement(0, 2)
	wantKind(t, err, KindOutOfRange)
}

// --- rendering ---

func stubPipeline(t *testing.T, body string) *render.Pipeline {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub rasterizer needs a POSIX shell")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "fake-inkscape")
	script := "#!/bin/sh\nout=\"\"\n" +
		"while [ $# -gt 0 ]; do\n" +
		"  if [ \"$1\" = \"--export-filename\" ]; then out=\"$2\"; shift; fi\n" +
		"  shift\ndone\n" + body + "\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return render.New(
		render.WithExporter(render.NewEngineExporter(nil, false)),
		render.WithRasterizer(&render.CommandRasterizer{Binary: bin, TempDir: t.TempDir(), Timeout: 10 * time.Second}),
	)
}

func TestSlideImage(t *testing.T) {
	s := newLoaded(t, WithRenderer(stubPipeline(t, `printf '\211PNG\r\n\032\nstub' > "$out"`)))
	img, err := s.SlideImage(context.Background(), 0, ptr(72))
	if err != nil {
		t.Fatalf("SlideImage: %v", err)
	}
	if img.DPI != 72 || img.MimeType != "image/png" || !bytes.HasPrefix(img.Data, []byte("\x89PNG")) {
		t.Errorf("unexpected image %+v", img)
	}
	_, err = s.SlideImage(context.Background(), 0, ptr(0))
	wantKind(t, err, KindInvalidArgument)
	_, err = s.SlideImage(context.Background(), 2, nil)
	wantKind(t, err, KindOutOfRange)

	broken := newLoaded(t, WithRenderer(stubPipeline(t, `echo "no display" >&2; exit 1`)))
	_, err = broken.SlideImage(context.Background(), 0, nil)
	se := wantKind(t, err, KindExternalToolFailure)
	if !strings.Contains(se.Msg, "no display") {
		t.Errorf("expected stderr in message, got %q", se.Msg)
	}
}

func TestSlideSVG(t *testing.T) {
	s := newLoaded(t, WithRenderer(render.New(render.WithExporter(render.NewEngineExporter(nil, false)))))
	if _, err := s.AddTextbox(TextboxRequest{Width: 3, Height: 1, Text: "Visible"}); err != nil {
		t.Fatal(err)
	}
	res, err := s.SlideSVG(0)
	if err != nil {
		t.Fatalf("SlideSVG: %v", err)
	}
	if strings.Contains(res.SVG, slidesmith.ProvenanceMark) {
		t.Error("expected provenance removed")
	}
	if !strings.Contains(res.SVG, "Visible") {
		t.Error("expected slide text kept")
	}
}
