package mcpserver

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/VantageDataChat/slidesmith/internal/facade"
	"github.com/VantageDataChat/slidesmith/internal/session"
)

func boolPtr(b bool) *bool { return &b }

var (
	horizontalAlignments = []string{"left", "center", "right", "justify"}
	verticalAlignments   = []string{"top", "middle", "bottom"}
	legendPositions      = []string{"right", "left", "top", "bottom", "corner"}
)

func rgbParam(name, desc string) mcp.ToolOption {
	return mcp.WithArray(name,
		mcp.Description(desc),
		mcp.Items(map[string]any{"type": "integer", "minimum": 0, "maximum": 255}),
	)
}

func boxParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("left", mcp.Description("Left edge in inches"), mcp.Required()),
		mcp.WithNumber("top", mcp.Description("Top edge in inches"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Width in inches"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("Height in inches"), mcp.Required()),
	}
}

func slideParam() mcp.ToolOption {
	return mcp.WithNumber("slide_index", mcp.Description("Zero-based slide index"), mcp.Required())
}

func newTool(name, desc string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append([]mcp.ToolOption{mcp.WithDescription(desc)}, opts...)...)
}

func (s *Server) registerTools() {
	// --- presentation ---

	s.addTool(newTool("create_presentation",
		"Create a new presentation, or append a slide to the loaded one, using the given layout (defaults to Blank).",
		mcp.WithNumber("layout_index", mcp.Description("Layout index from list_layouts")),
	), handleCreate)

	s.addTool(newTool("list_layouts",
		"List the slide layouts available in the loaded presentation.",
		mcp.WithReadOnlyHintAnnotation(true),
	), handleListLayouts)

	s.addTool(newTool("get_presentation_info",
		"Get slide count, layouts and core properties of the loaded presentation.",
		mcp.WithReadOnlyHintAnnotation(true),
	), handlePresentationInfo)

	s.addTool(newTool("save_presentation",
		"Save the loaded presentation as PPTX.",
		mcp.WithString("file_path", mcp.Description("Destination path; defaults to <session id>.pptx")),
	), handleSave)

	s.addTool(newTool("open_presentation",
		"Open an existing PPTX file, replacing the loaded presentation.",
		mcp.WithString("file_path", mcp.Description("Path of the .pptx file"), mcp.Required()),
	), handleOpen)

	// --- slides ---

	s.addTool(newTool("add_slide",
		"Append a slide with the given layout and optional title.",
		mcp.WithNumber("layout_index", mcp.Description("Layout index (default 1, Title and Content)")),
		mcp.WithString("title", mcp.Description("Text for the title placeholder")),
	), handleAddSlide)

	s.addTool(newTool("get_slide_info",
		"Describe a slide: layout, placeholders and shapes with positions in inches.",
		slideParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	), handleSlideInfo)

	s.addTool(newTool("populate_placeholder",
		"Set the text of a placeholder.",
		slideParam(),
		mcp.WithNumber("placeholder_idx", mcp.Description("Placeholder idx from get_slide_info"), mcp.Required()),
		mcp.WithString("text", mcp.Description("Text to set"), mcp.Required()),
	), handlePopulatePlaceholder)

	s.addTool(newTool("add_bullet_points",
		"Fill a placeholder with one paragraph per bullet point.",
		slideParam(),
		mcp.WithNumber("placeholder_idx", mcp.Description("Placeholder idx from get_slide_info"), mcp.Required()),
		mcp.WithArray("bullet_points", mcp.Description("Bullet texts"), mcp.WithStringItems(), mcp.Required()),
	), handleBulletPoints)

	// --- content ---

	s.addTool(newTool("add_textbox",
		"Add a text box with optional font formatting.",
		append([]mcp.ToolOption{slideParam()}, append(boxParams(),
			mcp.WithString("text", mcp.Description("Text content"), mcp.Required()),
			mcp.WithNumber("font_size", mcp.Description("Font size in points, 1 to 4000")),
			mcp.WithString("font_name", mcp.Description("Font family")),
			mcp.WithBoolean("bold", mcp.Description("Bold text")),
			mcp.WithBoolean("italic", mcp.Description("Italic text")),
			rgbParam("color", "Text colour as [r, g, b]"),
			mcp.WithString("alignment", mcp.Description("Paragraph alignment"), mcp.Enum(horizontalAlignments...)),
		)...)...,
	), handleAddTextbox)

	s.addTool(newTool("add_image",
		"Add a picture from a file. Relative paths are searched in the configured image directories.",
		slideParam(),
		mcp.WithString("image_path", mcp.Description("Image file path"), mcp.Required()),
		mcp.WithNumber("left", mcp.Description("Left edge in inches"), mcp.Required()),
		mcp.WithNumber("top", mcp.Description("Top edge in inches"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Width in inches; height follows the aspect ratio when omitted")),
		mcp.WithNumber("height", mcp.Description("Height in inches; width follows the aspect ratio when omitted")),
	), handleAddImage)

	s.addTool(newTool("add_image_from_base64",
		"Add a picture from base64 data (a data: URL prefix is accepted).",
		slideParam(),
		mcp.WithString("base64_string", mcp.Description("Base64 image data"), mcp.Required()),
		mcp.WithNumber("left", mcp.Description("Left edge in inches"), mcp.Required()),
		mcp.WithNumber("top", mcp.Description("Top edge in inches"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Width in inches")),
		mcp.WithNumber("height", mcp.Description("Height in inches")),
	), handleAddImageBase64)

	s.addTool(newTool("add_table",
		"Add a table and optionally fill it with data rows.",
		append([]mcp.ToolOption{slideParam(),
			mcp.WithNumber("rows", mcp.Description("Row count"), mcp.Required()),
			mcp.WithNumber("cols", mcp.Description("Column count"), mcp.Required()),
		}, append(boxParams(),
			mcp.WithArray("data", mcp.Description("Rows of cell values"), mcp.Items(map[string]any{"type": "array"})),
		)...)...,
	), handleAddTable)

	s.addTool(newTool("format_table_cell",
		"Format one cell of a table shape.",
		slideParam(),
		mcp.WithNumber("shape_index", mcp.Description("Index of the table shape"), mcp.Required()),
		mcp.WithNumber("row", mcp.Description("Zero-based row"), mcp.Required()),
		mcp.WithNumber("col", mcp.Description("Zero-based column"), mcp.Required()),
		mcp.WithNumber("font_size", mcp.Description("Font size in points, 1 to 4000")),
		mcp.WithString("font_name", mcp.Description("Font family")),
		mcp.WithBoolean("bold", mcp.Description("Bold text")),
		mcp.WithBoolean("italic", mcp.Description("Italic text")),
		rgbParam("color", "Text colour as [r, g, b]"),
		rgbParam("bg_color", "Cell fill as [r, g, b]"),
		mcp.WithString("alignment", mcp.Description("Horizontal alignment"), mcp.Enum(horizontalAlignments...)),
		mcp.WithString("vertical_alignment", mcp.Description("Vertical alignment"), mcp.Enum(verticalAlignments...)),
	), handleFormatCell)

	s.addTool(newTool("add_shape",
		"Add an auto shape.",
		append([]mcp.ToolOption{slideParam(),
			mcp.WithString("shape_type", mcp.Description("Shape name"), mcp.Required(), mcp.Enum(facade.ShapeTypeNames()...)),
		}, append(boxParams(),
			rgbParam("fill_color", "Fill as [r, g, b]"),
			rgbParam("line_color", "Outline as [r, g, b]"),
			mcp.WithNumber("line_width", mcp.Description("Outline width in points")),
		)...)...,
	), handleAddShape)

	s.addTool(newTool("add_chart",
		"Add a chart from categories and one value list per series.",
		append([]mcp.ToolOption{slideParam(),
			mcp.WithString("chart_type", mcp.Description("Chart kind"), mcp.Required(), mcp.Enum(facade.ChartTypeNames...)),
		}, append(boxParams(),
			mcp.WithArray("categories", mcp.Description("Category labels"), mcp.WithStringItems(), mcp.Required()),
			mcp.WithArray("series_names", mcp.Description("Series names"), mcp.WithStringItems(), mcp.Required()),
			mcp.WithArray("series_values", mcp.Description("One list of numbers per series"), mcp.Required(),
				mcp.Items(map[string]any{"type": "array", "items": map[string]any{"type": "number"}})),
			mcp.WithBoolean("has_legend", mcp.Description("Show the legend (default true)")),
			mcp.WithString("legend_position", mcp.Description("Legend position: "+strings.Join(legendPositions, ", "))),
			mcp.WithBoolean("has_data_labels", mcp.Description("Show value labels")),
			mcp.WithString("title", mcp.Description("Chart title")),
		)...)...,
	), handleAddChart)

	// --- elements ---

	s.addTool(newTool("move_element",
		"Move a shape to a new position in inches.",
		mcp.WithNumber("shape_index", mcp.Description("Shape index on the slide"), mcp.Required()),
		mcp.WithNumber("left", mcp.Description("New left edge in inches"), mcp.Required()),
		mcp.WithNumber("top", mcp.Description("New top edge in inches"), mcp.Required()),
		mcp.WithNumber("slide_index", mcp.Description("Slide index; defaults to the current slide")),
	), handleMove)

	s.addTool(newTool("remove_element",
		"Delete a shape from a slide. Later shapes shift down one index.",
		slideParam(),
		mcp.WithNumber("shape_index", mcp.Description("Shape index on the slide"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), handleRemove)

	// --- rendering ---

	s.addTool(newTool("get_slide_image",
		"Render a slide to PNG with the external rasterizer.",
		mcp.WithNumber("slide_index", mcp.Description("Zero-based slide index (default 0)")),
		mcp.WithNumber("dpi", mcp.Description("Resolution, 1 to 2400")),
		mcp.WithReadOnlyHintAnnotation(true),
	), handleSlideImage)

	s.addTool(newTool("get_slide_svg",
		"Export a slide as SVG markup.",
		mcp.WithNumber("slide_index", mcp.Description("Zero-based slide index (default 0)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), handleSlideSVG)
}

// --- argument shapes ---

type layoutArgs struct {
	LayoutIndex *int    `json:"layout_index"`
	Title       *string `json:"title"`
}

type slideArgs struct {
	SlideIndex int `json:"slide_index"`
}

type placeholderArgs struct {
	SlideIndex     int      `json:"slide_index"`
	PlaceholderIdx int      `json:"placeholder_idx"`
	Text           string   `json:"text"`
	BulletPoints   []string `json:"bullet_points"`
}

type fileArgs struct {
	FilePath string `json:"file_path"`
}

type moveArgs struct {
	ShapeIndex int     `json:"shape_index"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	SlideIndex *int    `json:"slide_index"`
}

type removeArgs struct {
	SlideIndex int `json:"slide_index"`
	ShapeIndex int `json:"shape_index"`
}

type renderArgs struct {
	SlideIndex int  `json:"slide_index"`
	DPI        *int `json:"dpi"`
}

// tableArgs accepts cell values of any JSON type.
type tableArgs struct {
	SlideIndex int     `json:"slide_index"`
	Rows       int     `json:"rows"`
	Cols       int     `json:"cols"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Data       [][]any `json:"data"`
}

func (a tableArgs) request() session.TableRequest {
	r := session.TableRequest{
		SlideIndex: a.SlideIndex,
		Rows:       a.Rows,
		Cols:       a.Cols,
		Left:       a.Left,
		Top:        a.Top,
		Width:      a.Width,
		Height:     a.Height,
	}
	for _, row := range a.Data {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellText(v)
		}
		r.Data = append(r.Data, cells)
	}
	return r
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// --- handlers ---

func handleCreate(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var a layoutArgs
	if err := bind(req, &a); err != nil {
		return nil, err
	}
	return sess.Create(a.LayoutIndex)
}

func handleListLayouts(_ context.Context, sess *session.Session, _ mcp.CallToolRequest) (any, error) {
	return sess.ListLayouts()
}

func handlePresentationInfo(_ context.Context, sess *session.Session, _ mcp.CallToolRequest) (any, error) {
	return sess.PresentationInfo()
}

func handleSave(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var a fileArgs
	if err := bind(req, &a); err != nil {
		return nil, err
	}
	return sess.Save(a.FilePath)
}

func handleOpen(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var a fileArgs
	if err := bind(req, &a); err != nil {
		return nil, err
	}
	return sess.Open(a.FilePath)
}

func handleAddSlide(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var a layoutArgs
	if err := bind(req, &a); err != nil {
		return nil, err
	}
	layout := 1
	if a.LayoutIndex != nil {
		layout = *a.LayoutIndex
	}
	return sess.AddSlide(layout, a.Title)
}

func handleSlideInfo(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var a slideArgs
	if err := bind(req, &a); err != nil {
		return nil, err
	}
	return sess.SlideInfo(a.SlideIndex)
}

func handlePopulatePlaceholder(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var a placeholderArgs
	if err := bind(req, &a); err != nil {
		return nil, err
	}
	return sess.PopulatePlaceholder(a.SlideIndex, a.PlaceholderIdx, a.Text)
}

func handleBulletPoints(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var a placeholderArgs
	if err := bind(req, &a); err != nil {
		return nil, err
	}
	return sess.AddBulletPoints(a.SlideIndex, a.PlaceholderIdx, a.BulletPoints)
}

func handleAddTextbox(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var r session.TextboxRequest
	if err := bind(req, &r); err != nil {
		return nil, err
	}
	return sess.AddTextbox(r)
}

func handleAddImage(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var r session.ImageRequest
	if err := bind(req, &r); err != nil {
		return nil, err
	}
	return sess.AddImage(r)
}

func handleAddImageBase64(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var r session.Base64ImageRequest
	if err := bind(req, &r); err != nil {
		return nil, err
	}
	return sess.AddImageFromBase64(r)
}

func handleAddTable(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var a tableArgs
	if err := bind(req, &a); err != nil {
		return nil, err
	}
	return sess.AddTable(a.request())
}

func handleFormatCell(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var r session.CellFormatRequest
	if err := bind(req, &r); err != nil {
		return nil, err
	}
	return sess.FormatTableCell(r)
}

func handleAddShape(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var r session.ShapeRequest
	if err := bind(req, &r); err != nil {
		return nil, err
	}
	return sess.AddShape(r)
}

func handleAddChart(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var r session.ChartRequest
	if err := bind(req, &r); err != nil {
		return nil, err
	}
	return sess.AddChart(r)
}

func handleMove(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var a moveArgs
	if err := bind(req, &a); err != nil {
		return nil, err
	}
	return sess.MoveElement(a.ShapeIndex, a.Left, a.Top, a.SlideIndex)
}

func handleRemove(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var a removeArgs
	if err := bind(req, &a); err != nil {
		return nil, err
	}
	return sess.RemoveElement(a.SlideIndex, a.ShapeIndex)
}

// handleSlideImage returns the PNG as image content next to a JSON summary.
func handleSlideImage(ctx context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var a renderArgs
	if err := bind(req, &a); err != nil {
		return nil, err
	}
	img, err := sess.SlideImage(ctx, a.SlideIndex, a.DPI)
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(img.Data)
	summary := fmt.Sprintf(`{"slide_index":%d,"dpi":%d,"mime_type":%q,"size_bytes":%d}`,
		img.SlideIndex, img.DPI, img.MimeType, len(img.Data))
	return mcp.NewToolResultImage(summary, encoded, img.MimeType), nil
}

func handleSlideSVG(_ context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error) {
	var a renderArgs
	if err := bind(req, &a); err != nil {
		return nil, err
	}
	return sess.SlideSVG(a.SlideIndex)
}

// describeTools renders a one-line summary per tool for the CLI.
func describeTools(tools []mcp.Tool) string {
	var b strings.Builder
	for _, t := range tools {
		fmt.Fprintf(&b, "%-24s %s\n", t.Name, t.Description)
	}
	return b.String()
}
