package session

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/VantageDataChat/slidesmith"
	"github.com/VantageDataChat/slidesmith/internal/facade"
	"github.com/VantageDataChat/slidesmith/internal/validate"
)

var (
	horizontalAlignments = []string{"left", "center", "right", "justify"}
	verticalAlignments   = []string{"top", "middle", "bottom"}

	fontSizeRule = validate.InRange(1, slidesmith.MaxFontSize,
		fmt.Sprintf("must be an integer between 1 and %d", slidesmith.MaxFontSize))
)

// optRGB keeps an absent colour absent for validate.Check.
func optRGB(c []int) any {
	if c == nil {
		return nil
	}
	return c
}

func colorOf(c []int) *slidesmith.Color {
	if c == nil {
		return nil
	}
	v := facade.RGB(c)
	return &v
}

func alignmentOf(a *string) (*slidesmith.HorizontalAlignment, error) {
	if a == nil {
		return nil, nil
	}
	h, err := slidesmith.ParseHorizontalAlignment(*a)
	if err != nil {
		return nil, &validate.FieldError{Param: "alignment", Message: "must be one of left, center, right, justify"}
	}
	return &h, nil
}

func joinDirs(dirs []string) string {
	if len(dirs) == 0 {
		dirs = facade.DefaultImageDirs
	}
	return strings.Join(dirs, ", ")
}

func shapeResult(slide *slidesmith.Slide, sh slidesmith.Shape, msg string) ShapeResult {
	return ShapeResult{
		Outcome:    Outcome{Message: msg},
		ShapeIndex: slide.GetShapeCount() - 1,
		ShapeID:    sh.GetID(),
	}
}

type TextboxRequest struct {
	SlideIndex int     `json:"slide_index"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Text       string  `json:"text"`
	FontSize   *int    `json:"font_size,omitempty"`
	FontName   *string `json:"font_name,omitempty"`
	Bold       *bool   `json:"bold,omitempty"`
	Italic     *bool   `json:"italic,omitempty"`
	Color      []int   `json:"color,omitempty"`
	Alignment  *string `json:"alignment,omitempty"`
}

func (r TextboxRequest) format() (facade.TextFormat, error) {
	if err := validate.Check(
		validate.P("font_size", r.FontSize, fontSizeRule),
		validate.P("color", optRGB(r.Color), validate.ValidRGB()),
		validate.P("alignment", r.Alignment, validate.InList(horizontalAlignments, "")),
	); err != nil {
		return facade.TextFormat{}, err
	}
	align, err := alignmentOf(r.Alignment)
	if err != nil {
		return facade.TextFormat{}, err
	}
	return facade.TextFormat{
		FontSize:  r.FontSize,
		FontName:  r.FontName,
		Bold:      r.Bold,
		Italic:    r.Italic,
		Color:     colorOf(r.Color),
		Alignment: align,
	}, nil
}

func (s *Session) AddTextbox(r TextboxRequest) (*ShapeResult, error) {
	slide, err := s.slideAt(r.SlideIndex)
	if err != nil {
		return nil, err
	}
	format, err := r.format()
	if err != nil {
		return nil, classify(err, "")
	}
	tb := facade.AddTextbox(slide, facade.Rect{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height}, r.Text, format)
	res := shapeResult(slide, tb, fmt.Sprintf("Added textbox to slide %d", r.SlideIndex))
	return &res, nil
}

// ImageRequest places an image file. A nil Width or Height follows the
// image's aspect ratio.
type ImageRequest struct {
	SlideIndex int      `json:"slide_index"`
	ImagePath  string   `json:"image_path"`
	Left       float64  `json:"left"`
	Top        float64  `json:"top"`
	Width      *float64 `json:"width,omitempty"`
	Height     *float64 `json:"height,omitempty"`
}

type Base64ImageRequest struct {
	SlideIndex   int      `json:"slide_index"`
	Base64String string   `json:"base64_string"`
	Left         float64  `json:"left"`
	Top          float64  `json:"top"`
	Width        *float64 `json:"width,omitempty"`
	Height       *float64 `json:"height,omitempty"`
}

func checkImageSize(width, height *float64) error {
	return validate.Check(
		validate.P("width", width, validate.Positive("must be positive")),
		validate.P("height", height, validate.Positive("must be positive")),
	)
}

func (s *Session) AddImage(r ImageRequest) (*ImageResult, error) {
	slide, err := s.slideAt(r.SlideIndex)
	if err != nil {
		return nil, err
	}
	if err := checkImageSize(r.Width, r.Height); err != nil {
		return nil, classify(err, "")
	}
	path, err := facade.ResolveImagePath(r.ImagePath, s.imageDirs)
	if err != nil {
		return nil, &Error{
			Kind: KindNotFound,
			Msg:  fmt.Sprintf("Image file not found: %s. Searched in %s", r.ImagePath, joinDirs(s.imageDirs)),
			Err:  err,
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, classify(err, "Failed to add image")
	}
	s.logger.Debug("session.image_resolved", "requested", r.ImagePath, "path", path)
	return s.insertImage(slide, r.SlideIndex, data, facade.ImagePlacement{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height})
}

func (s *Session) AddImageFromBase64(r Base64ImageRequest) (*ImageResult, error) {
	slide, err := s.slideAt(r.SlideIndex)
	if err != nil {
		return nil, err
	}
	if err := checkImageSize(r.Width, r.Height); err != nil {
		return nil, classify(err, "")
	}
	data, err := facade.DecodeBase64Image(r.Base64String)
	if err != nil {
		return nil, classify(err, "")
	}
	return s.insertImage(slide, r.SlideIndex, data, facade.ImagePlacement{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height})
}

func (s *Session) insertImage(slide *slidesmith.Slide, slideIndex int, data []byte, at facade.ImagePlacement) (*ImageResult, error) {
	pic, failures, err := facade.InsertImage(slide, data, "", at)
	if err != nil {
		var attempts *facade.AttemptsError
		if errors.As(err, &attempts) || errors.Is(err, slidesmith.ErrNoImageData) {
			return nil, &Error{Kind: KindInvalidArgument, Msg: err.Error(), Err: err}
		}
		return nil, classify(err, "Failed to add image")
	}
	res := &ImageResult{
		ShapeResult: shapeResult(slide, pic, fmt.Sprintf("Added image to slide %d", slideIndex)),
	}
	f := facade.Frame(pic)
	res.Width, res.Height = f.Width, f.Height
	for _, fail := range failures {
		res.Warnings = append(res.Warnings, fail.String())
	}
	s.logger.Info("session.add_image", "slide_index", slideIndex, "mime", pic.GetMimeType(), "fallbacks", len(failures))
	return res, nil
}

type ShapeRequest struct {
	SlideIndex int      `json:"slide_index"`
	ShapeType  string   `json:"shape_type"`
	Left       float64  `json:"left"`
	Top        float64  `json:"top"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	FillColor  []int    `json:"fill_color,omitempty"`
	LineColor  []int    `json:"line_color,omitempty"`
	LineWidth  *float64 `json:"line_width,omitempty"`
}

func (s *Session) AddShape(r ShapeRequest) (*ShapeResult, error) {
	slide, err := s.slideAt(r.SlideIndex)
	if err != nil {
		return nil, err
	}
	if err := validate.Check(
		validate.P("fill_color", optRGB(r.FillColor), validate.ValidRGB()),
		validate.P("line_color", optRGB(r.LineColor), validate.ValidRGB()),
		validate.P("line_width", r.LineWidth, validate.Positive("must be positive")),
	); err != nil {
		return nil, classify(err, "")
	}
	style := facade.ShapeStyle{Fill: colorOf(r.FillColor), Line: colorOf(r.LineColor), LineWidth: r.LineWidth}
	rect := facade.Rect{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height}
	sh, err := facade.AddShape(slide, r.ShapeType, rect, style)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("Failed to add shape '%s'", r.ShapeType))
	}
	res := shapeResult(slide, sh, fmt.Sprintf("Added %s shape to slide %d", r.ShapeType, r.SlideIndex))
	return &res, nil
}

type ChartRequest struct {
	SlideIndex     int         `json:"slide_index"`
	ChartType      string      `json:"chart_type"`
	Left           float64     `json:"left"`
	Top            float64     `json:"top"`
	Width          float64     `json:"width"`
	Height         float64     `json:"height"`
	Categories     []string    `json:"categories"`
	SeriesNames    []string    `json:"series_names"`
	SeriesValues   [][]float64 `json:"series_values"`
	HasLegend      *bool       `json:"has_legend,omitempty"`
	LegendPosition string      `json:"legend_position,omitempty"`
	HasDataLabels  bool        `json:"has_data_labels,omitempty"`
	Title          *string     `json:"title,omitempty"`
}

// AddChart creates the chart, then formats it. A formatting failure keeps
// the chart and becomes a warning.
func (s *Session) AddChart(r ChartRequest) (*ShapeResult, error) {
	slide, err := s.slideAt(r.SlideIndex)
	if err != nil {
		return nil, err
	}
	data := facade.ChartData{Categories: r.Categories, SeriesNames: r.SeriesNames, SeriesValues: r.SeriesValues}
	rect := facade.Rect{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height}
	chart, err := facade.AddChart(slide, r.ChartType, rect, data)
	if err != nil {
		return nil, classify(err, "Failed to add chart")
	}
	res := shapeResult(slide, chart, fmt.Sprintf("Added %s chart to slide %d", r.ChartType, r.SlideIndex))

	hasLegend := true
	if r.HasLegend != nil {
		hasLegend = *r.HasLegend
	}
	format := facade.ChartFormat{
		HasLegend:      hasLegend,
		LegendPosition: r.LegendPosition,
		DataLabels:     r.HasDataLabels,
		Title:          r.Title,
	}
	if err := facade.FormatChart(chart, format); err != nil {
		res.Warnings = append(res.Warnings, "Chart created but failed to format: "+err.Error())
		s.logger.Warn("session.chart_format_failed", "slide_index", r.SlideIndex, "error", err.Error())
	}
	return &res, nil
}
