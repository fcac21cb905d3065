package slidesmith

import (
	"fmt"
	"time"
)

// DocumentProperties holds the core properties written to docProps/core.xml.
type DocumentProperties struct {
	Creator        string
	LastModifiedBy string
	Created        time.Time
	Modified       time.Time
	Title          string
	Description    string
	Subject        string
	Keywords       string
	Category       string
	Revision       string
}

// NewDocumentProperties creates new document properties with defaults.
func NewDocumentProperties() *DocumentProperties {
	now := time.Now().UTC()
	return &DocumentProperties{
		Creator:        Producer,
		LastModifiedBy: Producer,
		Created:        now,
		Modified:       now,
	}
}

// DocumentLayout represents the slide dimensions.
type DocumentLayout struct {
	CX   int64 // width in EMU
	CY   int64 // height in EMU
	Name string
}

// Standard slide sizes.
const (
	LayoutScreen4x3   = "screen4x3"
	LayoutScreen16x9  = "screen16x9"
	LayoutScreen16x10 = "screen16x10"
	LayoutA4          = "A4"
	LayoutCustom      = "custom"
)

// NewDocumentLayout creates a default 4:3 layout (10 x 7.5 in).
func NewDocumentLayout() *DocumentLayout {
	return &DocumentLayout{
		CX:   9144000,
		CY:   6858000,
		Name: LayoutScreen4x3,
	}
}

// SetLayout switches to a predefined slide size.
func (dl *DocumentLayout) SetLayout(name string) error {
	switch name {
	case LayoutScreen4x3:
		dl.CX, dl.CY = 9144000, 6858000
	case LayoutScreen16x9:
		dl.CX, dl.CY = 12192000, 6858000
	case LayoutScreen16x10:
		dl.CX, dl.CY = 10972800, 6858000
	case LayoutA4:
		dl.CX, dl.CY = 9906000, 6858000
	default:
		return fmt.Errorf("unknown slide size %q", name)
	}
	dl.Name = name
	return nil
}

// sizeType returns the sldSz type attribute for the layout.
func (dl *DocumentLayout) sizeType() string {
	switch dl.Name {
	case LayoutScreen4x3:
		return "screen4x3"
	case LayoutScreen16x10:
		return "screen16x10"
	case LayoutA4:
		return "A4"
	}
	return "custom"
}
