package session

import "github.com/VantageDataChat/slidesmith/internal/facade"

// Outcome is the message and warnings every mutating operation reports.
type Outcome struct {
	Message  string   `json:"message,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Status is KindPartialFailure when the operation succeeded with warnings.
func (o Outcome) Status() Kind {
	if len(o.Warnings) > 0 {
		return KindPartialFailure
	}
	return ""
}

type LayoutInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type CreateResult struct {
	PresentationID string `json:"presentation_id"`
	Message        string `json:"message"`
	SlideCount     int    `json:"slide_count"`
}

type OpenResult struct {
	PresentationID string `json:"presentation_id"`
	Message        string `json:"message"`
	FilePath       string `json:"file_path"`
	SlideCount     int    `json:"slide_count"`
}

type SaveResult struct {
	Message  string `json:"message"`
	FilePath string `json:"file_path"`
}

type LayoutsResult struct {
	Layouts []LayoutInfo `json:"layouts"`
}

type CoreProperties struct {
	Title          string `json:"title"`
	Subject        string `json:"subject"`
	Author         string `json:"author"`
	Keywords       string `json:"keywords"`
	Category       string `json:"category"`
	Comments       string `json:"comments"`
	LastModifiedBy string `json:"last_modified_by"`
	Revision       string `json:"revision"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
}

type InfoResult struct {
	PresentationID string         `json:"presentation_id"`
	SlideCount     int            `json:"slide_count"`
	SlideLayouts   []LayoutInfo   `json:"slide_layouts"`
	CoreProperties CoreProperties `json:"core_properties"`
}

type AddSlideResult struct {
	Outcome
	SlideIndex   int                      `json:"slide_index"`
	LayoutName   string                   `json:"layout_name"`
	Placeholders []facade.PlaceholderInfo `json:"placeholders"`
}

// ShapeInfo describes one shape; geometry is in inches.
type ShapeInfo struct {
	Index     int     `json:"index"`
	ShapeID   int     `json:"shape_id"`
	Name      string  `json:"name"`
	ShapeType string  `json:"shape_type"`
	Left      float64 `json:"left"`
	Top       float64 `json:"top"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

type SlideInfoResult struct {
	SlideIndex   int                      `json:"slide_index"`
	LayoutName   string                   `json:"layout_name"`
	Placeholders []facade.PlaceholderInfo `json:"placeholders"`
	Shapes       []ShapeInfo              `json:"shapes"`
}

// ShapeResult reports a newly added shape.
type ShapeResult struct {
	Outcome
	ShapeIndex int `json:"shape_index"`
	ShapeID    int `json:"shape_id"`
}

type ImageResult struct {
	ShapeResult
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type MoveResult struct {
	Message string  `json:"message"`
	NewLeft float64 `json:"new_left"`
	NewTop  float64 `json:"new_top"`
}

type RemoveResult struct {
	Message    string `json:"message"`
	ShapeCount int    `json:"shape_count"`
}

type SVGResult struct {
	SlideIndex int    `json:"slide_index"`
	SVG        string `json:"svg"`
}

// ImageData is a rendered slide.
type ImageData struct {
	SlideIndex int
	DPI        int
	MimeType   string
	Data       []byte
}
