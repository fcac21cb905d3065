package session

import (
	"errors"
	"fmt"

	"github.com/VantageDataChat/slidesmith"
	"github.com/VantageDataChat/slidesmith/internal/facade"
)

// AddSlide appends a slide and writes title into its title placeholder.
// A title that cannot be set is reported as a warning.
func (s *Session) AddSlide(layoutIndex int, title *string) (*AddSlideResult, error) {
	if err := s.requireDoc(); err != nil {
		return nil, err
	}
	if err := checkLayout(s.pres, layoutIndex); err != nil {
		return nil, err
	}
	slide, err := s.pres.CreateSlide(layoutIndex)
	if err != nil {
		return nil, classify(err, "Failed to add slide")
	}
	layoutName := slide.GetLayout().Name
	res := &AddSlideResult{
		Outcome:    Outcome{Message: fmt.Sprintf("Added slide with layout '%s'", layoutName)},
		SlideIndex: s.pres.GetSlideCount() - 1,
		LayoutName: layoutName,
	}
	if title != nil && *title != "" && !facade.SetTitle(slide, *title) {
		res.Warnings = append(res.Warnings, "Slide created but failed to set title: layout has no title placeholder")
	}
	res.Placeholders = facade.Placeholders(slide)
	s.logger.Info("session.add_slide", "slide_index", res.SlideIndex, "layout", layoutName)
	return res, nil
}

func (s *Session) SlideInfo(slideIndex int) (*SlideInfoResult, error) {
	slide, err := s.slideAt(slideIndex)
	if err != nil {
		return nil, err
	}
	shapes := slide.GetShapes()
	infos := make([]ShapeInfo, len(shapes))
	for i, sh := range shapes {
		f := facade.Frame(sh)
		infos[i] = ShapeInfo{
			Index:     i,
			ShapeID:   sh.GetID(),
			Name:      sh.GetName(),
			ShapeType: sh.GetType().String(),
			Left:      f.Left,
			Top:       f.Top,
			Width:     f.Width,
			Height:    f.Height,
		}
	}
	res := &SlideInfoResult{
		SlideIndex:   slideIndex,
		Placeholders: facade.Placeholders(slide),
		Shapes:       infos,
	}
	if l := slide.GetLayout(); l != nil {
		res.LayoutName = l.Name
	}
	return res, nil
}

func placeholderError(err error, idx, slideIndex int) error {
	if errors.Is(err, slidesmith.ErrShapeNotFound) {
		return &Error{
			Kind: KindNotFound,
			Msg:  fmt.Sprintf("Placeholder with index %d not found in slide %d", idx, slideIndex),
			Err:  err,
		}
	}
	return nil
}

func (s *Session) PopulatePlaceholder(slideIndex, placeholderIdx int, text string) (*Outcome, error) {
	slide, err := s.slideAt(slideIndex)
	if err != nil {
		return nil, err
	}
	if err := facade.PopulatePlaceholder(slide, placeholderIdx, text); err != nil {
		if perr := placeholderError(err, placeholderIdx, slideIndex); perr != nil {
			return nil, perr
		}
		return nil, classify(err, "Failed to populate placeholder")
	}
	return &Outcome{Message: fmt.Sprintf("Populated placeholder %d in slide %d", placeholderIdx, slideIndex)}, nil
}

func (s *Session) AddBulletPoints(slideIndex, placeholderIdx int, bullets []string) (*Outcome, error) {
	slide, err := s.slideAt(slideIndex)
	if err != nil {
		return nil, err
	}
	if err := facade.AddBulletPoints(slide, placeholderIdx, bullets); err != nil {
		if perr := placeholderError(err, placeholderIdx, slideIndex); perr != nil {
			return nil, perr
		}
		return nil, classify(err, "Failed to add bullet points")
	}
	return &Outcome{
		Message: fmt.Sprintf("Added %d bullet points to placeholder %d in slide %d", len(bullets), placeholderIdx, slideIndex),
	}, nil
}
