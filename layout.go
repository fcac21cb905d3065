package slidesmith

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// SlideLayout is a named arrangement of placeholders that new slides are built from.
type SlideLayout struct {
	Name         string
	Type         string // ST_SlideLayoutType, e.g. "title", "obj", "blank"
	Placeholders []LayoutPlaceholder
}

// LayoutPlaceholder describes one placeholder a layout stamps onto its slides.
type LayoutPlaceholder struct {
	Type     PlaceholderType
	Idx      int
	Name     string
	OffsetX  int64
	OffsetY  int64
	Width    int64
	Height   int64
	Vertical bool
}

// frac is a placeholder rectangle expressed as fractions of the slide size.
type frac struct{ x, y, w, h float64 }

type layoutSpec struct {
	name, typ string
	phs       []phSpec
}

type phSpec struct {
	typ      PlaceholderType
	idx      int
	name     string
	r        frac
	vertical bool
}

var (
	fracTitle   = frac{0.05, 0.04, 0.90, 0.167}
	fracContent = frac{0.05, 0.233, 0.90, 0.663}
	fracLeft    = frac{0.05, 0.233, 0.442, 0.663}
	fracRight   = frac{0.508, 0.233, 0.442, 0.663}
)

// builtinLayouts mirrors the default Office template, in its order.
var builtinLayouts = []layoutSpec{
	{"Title Slide", "title", []phSpec{
		{PlaceholderCtrTitle, 0, "Title 1", frac{0.075, 0.311, 0.85, 0.215}, false},
		{PlaceholderSubTitle, 1, "Subtitle 2", frac{0.15, 0.567, 0.70, 0.256}, false},
	}},
	{"Title and Content", "obj", []phSpec{
		{PlaceholderTitle, 0, "Title 1", fracTitle, false},
		{PlaceholderBody, 1, "Content Placeholder 2", fracContent, false},
	}},
	{"Section Header", "secHead", []phSpec{
		{PlaceholderTitle, 0, "Title 1", frac{0.072, 0.643, 0.85, 0.199}, false},
		{PlaceholderBody, 1, "Text Placeholder 2", frac{0.072, 0.424, 0.85, 0.219}, false},
	}},
	{"Two Content", "twoObj", []phSpec{
		{PlaceholderTitle, 0, "Title 1", fracTitle, false},
		{PlaceholderBody, 1, "Content Placeholder 2", fracLeft, false},
		{PlaceholderBody, 2, "Content Placeholder 3", fracRight, false},
	}},
	{"Comparison", "twoTxTwoObj", []phSpec{
		{PlaceholderTitle, 0, "Title 1", fracTitle, false},
		{PlaceholderBody, 1, "Text Placeholder 2", frac{0.05, 0.233, 0.442, 0.097}, false},
		{PlaceholderBody, 2, "Content Placeholder 3", frac{0.05, 0.330, 0.442, 0.566}, false},
		{PlaceholderBody, 3, "Text Placeholder 4", frac{0.508, 0.233, 0.442, 0.097}, false},
		{PlaceholderBody, 4, "Content Placeholder 5", frac{0.508, 0.330, 0.442, 0.566}, false},
	}},
	{"Title Only", "titleOnly", []phSpec{
		{PlaceholderTitle, 0, "Title 1", fracTitle, false},
	}},
	{"Blank", "blank", nil},
	{"Content with Caption", "objTx", []phSpec{
		{PlaceholderTitle, 0, "Title 1", frac{0.05, 0.04, 0.329, 0.170}, false},
		{PlaceholderBody, 1, "Content Placeholder 2", frac{0.391, 0.04, 0.559, 0.856}, false},
		{PlaceholderBody, 2, "Text Placeholder 3", frac{0.05, 0.210, 0.329, 0.686}, false},
	}},
	{"Picture with Caption", "picTx", []phSpec{
		{PlaceholderTitle, 0, "Title 1", frac{0.196, 0.70, 0.60, 0.083}, false},
		{PlaceholderPicture, 1, "Picture Placeholder 2", frac{0.196, 0.089, 0.60, 0.60}, false},
		{PlaceholderBody, 2, "Text Placeholder 3", frac{0.196, 0.783, 0.60, 0.117}, false},
	}},
	{"Title and Vertical Text", "vertTx", []phSpec{
		{PlaceholderTitle, 0, "Title 1", fracTitle, false},
		{PlaceholderBody, 1, "Vertical Text Placeholder 2", fracContent, true},
	}},
	{"Vertical Title and Text", "vertTitleAndTx", []phSpec{
		{PlaceholderTitle, 0, "Vertical Title 1", frac{0.725, 0.04, 0.225, 0.856}, true},
		{PlaceholderBody, 1, "Vertical Text Placeholder 2", frac{0.05, 0.04, 0.658, 0.856}, true},
	}},
}

// DefaultLayouts returns the built-in layouts sized for a cx by cy EMU slide.
func DefaultLayouts(cx, cy int64) []*SlideLayout {
	out := make([]*SlideLayout, 0, len(builtinLayouts))
	for _, spec := range builtinLayouts {
		l := &SlideLayout{Name: spec.name, Type: spec.typ}
		for _, ph := range spec.phs {
			l.Placeholders = append(l.Placeholders, LayoutPlaceholder{
				Type:     ph.typ,
				Idx:      ph.idx,
				Name:     ph.name,
				OffsetX:  clampEMU(ph.r.x * float64(cx)),
				OffsetY:  clampEMU(ph.r.y * float64(cy)),
				Width:    clampEMU(ph.r.w * float64(cx)),
				Height:   clampEMU(ph.r.h * float64(cy)),
				Vertical: ph.vertical,
			})
		}
		out = append(out, l)
	}
	return out
}

// Placeholder returns the layout placeholder with the given idx.
func (l *SlideLayout) Placeholder(idx int) (LayoutPlaceholder, bool) {
	for _, ph := range l.Placeholders {
		if ph.Idx == idx {
			return ph, true
		}
	}
	return LayoutPlaceholder{}, false
}

// newPlaceholderShape stamps a layout placeholder onto a slide shape.
func (lp LayoutPlaceholder) newPlaceholderShape() *PlaceholderShape {
	ph := NewPlaceholderShape(lp.Type, lp.Idx)
	ph.SetName(lp.Name)
	ph.SetPosition(lp.OffsetX, lp.OffsetY)
	ph.SetSize(lp.Width, lp.Height)
	ph.vertical = lp.Vertical
	return ph
}

var foldCaser = cases.Fold()

// LayoutIndexByName finds a layout by name, ignoring case and surrounding space.
func (p *Presentation) LayoutIndexByName(name string) (int, error) {
	want := foldCaser.String(strings.TrimSpace(name))
	for i, l := range p.layouts {
		if foldCaser.String(strings.TrimSpace(l.Name)) == want {
			return i, nil
		}
	}
	return -1, fmt.Errorf("layout %q not found", name)
}
