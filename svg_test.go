package slidesmith

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// helper: export with an empty font cache so measurement uses the fallback face
func exportSVG(t *testing.T, p *Presentation, index int) string {
	t.Helper()
	opts := DefaultSVGOptions()
	opts.FontCache = NewFontCacheFromDirs()
	data, err := p.SlideToSVG(index, opts)
	if err != nil {
		t.Fatalf("SlideToSVG: %v", err)
	}
	if err := xml.Unmarshal(data, new(struct{})); err != nil {
		t.Fatalf("output is not well-formed XML: %v", err)
	}
	return string(data)
}

// helper: text content of every <text> element, in order
func svgTexts(t *testing.T, svg string) []string {
	t.Helper()
	var doc struct {
		Texts []string `xml:"g>text"`
		Top   []string `xml:"text"`
	}
	if err := xml.Unmarshal([]byte(svg), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return append(doc.Texts, doc.Top...)
}

func TestSlideToSVG_BlankSlide(t *testing.T) {
	p := New()
	mustSlide(t, p, 6)
	svg := exportSVG(t, p, 0)

	for _, want := range []string{
		`width="960"`,
		`height="720"`,
		`viewBox="0 0 960 720"`,
		`version="1.1"`,
		`fill="#FFFFFF"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("expected %s in output", want)
		}
	}
}

func TestSlideToSVG_WideSlideAndDPI(t *testing.T) {
	p := New()
	if err := p.SetSlideSize(LayoutScreen16x9); err != nil {
		t.Fatalf("SetSlideSize: %v", err)
	}
	mustSlide(t, p, 6)
	opts := &SVGOptions{DPI: 192, FontCache: NewFontCacheFromDirs()}
	data, err := p.SlideToSVG(0, opts)
	if err != nil {
		t.Fatalf("SlideToSVG: %v", err)
	}
	// 13.333in x 7.5in at 192 px per inch
	if !strings.Contains(string(data), `width="2560"`) || !strings.Contains(string(data), `height="1440"`) {
		t.Errorf("unexpected frame size in %s", string(data)[:200])
	}
}

func TestSlideToSVG_OutOfRange(t *testing.T) {
	p := New()
	if _, err := p.SlideToSVG(0, nil); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestSlideToSVG_Provenance(t *testing.T) {
	p := New()
	mustSlide(t, p, 6)
	svg := exportSVG(t, p, 0)
	if !strings.Contains(svg, ProvenanceMark+" "+Version) {
		t.Error("expected provenance text")
	}

	opts := &SVGOptions{OmitProvenance: true, FontCache: NewFontCacheFromDirs()}
	data, err := p.SlideToSVG(0, opts)
	if err != nil {
		t.Fatalf("SlideToSVG: %v", err)
	}
	if strings.Contains(string(data), ProvenanceMark) {
		t.Error("expected no provenance text")
	}
}

func TestSlideToSVG_PlaceholderText(t *testing.T) {
	p := New()
	slide := mustSlide(t, p, 1)
	slide.TitlePlaceholder().SetText("Results & <Plans>")
	body, _ := slide.Placeholder(1)
	body.AppendParagraph("Revenue")

	svg := exportSVG(t, p, 0)
	texts := svgTexts(t, svg)
	joined := strings.Join(texts, "|")
	if !strings.Contains(joined, "Results & <Plans>") {
		t.Errorf("expected title text, got %q", joined)
	}
	if !strings.Contains(joined, "•") {
		t.Errorf("expected inherited body bullet, got %q", joined)
	}
	if !strings.Contains(joined, "Revenue") {
		t.Errorf("expected body text, got %q", joined)
	}
	// 44pt title at 96 px per inch
	if !strings.Contains(svg, `font-size="58.67"`) {
		t.Error("expected title size from the master style")
	}
	if !strings.Contains(svg, `font-family="Calibri Light"`) {
		t.Error("expected title font from the theme")
	}
}

func TestSlideToSVG_WordWrap(t *testing.T) {
	p := New()
	slide := mustSlide(t, p, 6)
	tb := slide.CreateRichTextShape()
	tb.SetPosition(Inch(1), Inch(1))
	tb.SetSize(Inch(1), Inch(3))
	tb.CreateTextRun("one two three four")

	texts := svgTexts(t, exportSVG(t, p, 0))
	var words []string
	for _, s := range texts {
		if strings.HasPrefix(s, ProvenanceMark) {
			continue
		}
		words = append(words, strings.TrimSpace(s))
	}
	want := []string{"one", "two", "three", "four"}
	if strings.Join(words, ",") != strings.Join(want, ",") {
		t.Errorf("expected one word per line, got %q", words)
	}

	tb.SetWordWrap(false)
	texts = svgTexts(t, exportSVG(t, p, 0))
	if !strings.Contains(strings.Join(texts, "|"), "one two three four") {
		t.Errorf("expected a single unwrapped line, got %q", texts)
	}
}

func TestSlideToSVG_Shapes(t *testing.T) {
	p := New()
	slide := mustSlide(t, p, 6)
	slide.SetBackground(NewFill().SetSolid(NewColor("102030")))

	ellipse := slide.CreateAutoShape()
	ellipse.SetAutoShapeType(AutoShapeEllipse)
	ellipse.SetPosition(Inch(1), Inch(1))
	ellipse.SetSize(Inch(2), Inch(1))
	ellipse.SetText("Go")

	star := slide.CreateAutoShape()
	star.SetAutoShapeType(AutoShapeStar5)
	star.SetPosition(Inch(4), Inch(1))
	star.SetSize(Inch(1), Inch(1))
	star.SetSolidFill(NewColor("FF0000"))
	star.SetRotation(45)

	img := slide.CreateDrawingShape()
	img.SetImageData(testPNG(), "image/png")
	img.SetPosition(Inch(6), Inch(1))
	img.SetSize(Inch(1), Inch(1))

	svg := exportSVG(t, p, 0)
	for _, want := range []string{
		`fill="#102030"`,
		`<ellipse cx="192" cy="144" rx="96" ry="48" fill="#4472C4"`,
		`<polygon points=`,
		`fill="#FF0000"`,
		`transform="rotate(45 432 144)"`,
		`xlink:href="data:image/png;base64,`,
		`>Go</text>`,
		`fill="#FFFFFF"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("expected %s in output", want)
		}
	}
}

func TestSlideToSVG_Table(t *testing.T) {
	p := New()
	slide := mustSlide(t, p, 6)
	table := slide.CreateTableShape(3, 2)
	table.SetPosition(Inch(1), Inch(1))
	table.SetSize(Inch(4), Inch(1.5))
	table.GetCell(0, 0).SetText("Name")
	table.GetCell(1, 0).SetText("Ada")
	table.GetCell(2, 1).SetBackground(NewColor("00FF00"))
	if err := table.MergeCells(1, 0, 1, 1); err != nil {
		t.Fatalf("MergeCells: %v", err)
	}

	svg := exportSVG(t, p, 0)
	if strings.Count(svg, `stroke="#FFFFFF" stroke-width="1"`) != 5 {
		t.Errorf("expected 5 cell rects, got %d", strings.Count(svg, `stroke="#FFFFFF" stroke-width="1"`))
	}
	// merged cell spans both columns
	if !strings.Contains(svg, `<rect x="96" y="144" width="384" height="48" fill="#CFD5EA"`) {
		t.Error("expected merged first body row")
	}
	for _, want := range []string{svgAccent1, "#00FF00", ">Name</text>", ">Ada</text>", `font-weight="bold"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("expected %s in output", want)
		}
	}
}

func TestSlideToSVG_Charts(t *testing.T) {
	p := New()
	slide := mustSlide(t, p, 6)
	bc := NewBarChart()
	bc.AddSeries(quarterSeries("North", 10, 20, 30))
	bc.Series[0].ShowValue = true
	c := addChart(slide, bc)
	c.GetTitle().SetText("Sales")

	pie := NewPieChart()
	pie.AddSeries(quarterSeries("Share", 1, 1, 2))
	pie.Series[0].ShowPercentage = true
	addChart(slide, pie)

	svg := exportSVG(t, p, 0)
	texts := strings.Join(svgTexts(t, svg), "|")
	for _, want := range []string{"Sales", "Q1", "Q3", "North", "30", "50%", "25%"} {
		if !strings.Contains(texts, want) {
			t.Errorf("expected %q among chart labels %q", want, texts)
		}
	}
	if !strings.Contains(svg, `fill="#ED7D31"`) {
		t.Error("expected second pie slice in the second accent")
	}
}

func TestSlideToSVG_EmbedFonts(t *testing.T) {
	fc := NewFontCacheFromDirs()
	if err := fc.LoadFontData("Calibri", goregular.TTF); err != nil {
		t.Fatalf("LoadFontData: %v", err)
	}
	p := New()
	slide := mustSlide(t, p, 6)
	slide.CreateRichTextShape().CreateTextRun("Embedded")

	data, err := p.SlideToSVG(0, &SVGOptions{EmbedFonts: true, FontCache: fc})
	if err != nil {
		t.Fatalf("SlideToSVG: %v", err)
	}
	svg := string(data)
	if !strings.Contains(svg, `@font-face { font-family: "Calibri"; font-weight: normal; font-style: normal; src: url("data:font/ttf;base64,`) {
		t.Error("expected an embedded Calibri face")
	}

	data, err = p.SlideToSVG(0, &SVGOptions{FontCache: fc})
	if err != nil {
		t.Fatalf("SlideToSVG: %v", err)
	}
	if strings.Contains(string(data), "@font-face") {
		t.Error("expected no embedded fonts when disabled")
	}
}

func TestFormatAutoNumber(t *testing.T) {
	tests := []struct {
		format string
		n      int
		want   string
	}{
		{"arabicPeriod", 3, "3."},
		{"arabicParenR", 2, "2)"},
		{"alphaLcPeriod", 1, "a."},
		{"alphaUcPeriod", 28, "AB."},
		{"romanUcPeriod", 14, "XIV."},
		{"romanLcPeriod", 4, "iv."},
		{"", 5, "5."},
	}
	for _, tc := range tests {
		if got := formatAutoNumber(tc.format, tc.n); got != tc.want {
			t.Errorf("formatAutoNumber(%q, %d) = %q, want %q", tc.format, tc.n, got, tc.want)
		}
	}
}

func TestNiceScale(t *testing.T) {
	s := niceScale(0, 27, nil)
	if s.min != 0 || s.max != 30 || s.step != 10 {
		t.Errorf("unexpected scale %+v", s)
	}
	s = niceScale(-3, 8, nil)
	if s.min != -5 || s.max != 10 || s.step != 5 {
		t.Errorf("unexpected scale %+v", s)
	}
	axis := NewChartAxis().SetMinBounds(5).SetMaxBounds(50).SetMajorUnit(15)
	s = niceScale(0, 27, axis)
	if s.min != 5 || s.max != 50 || s.step != 15 {
		t.Errorf("expected fixed bounds, got %+v", s)
	}
	if len(s.ticks()) != 4 {
		t.Errorf("expected 4 ticks, got %v", s.ticks())
	}
}
