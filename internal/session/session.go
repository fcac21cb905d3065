// Package session owns one presentation per tool client and exposes every
// edit operation as a method that validates its arguments before touching
// the document. Methods return a typed result or an *Error, never both.
package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/VantageDataChat/slidesmith"
	"github.com/VantageDataChat/slidesmith/internal/facade"
	"github.com/VantageDataChat/slidesmith/internal/logging"
	"github.com/VantageDataChat/slidesmith/internal/render"
)

// Session is not safe for concurrent use; the caller serializes access.
type Session struct {
	id        string
	pres      *slidesmith.Presentation
	current   int
	imageDirs []string
	saveDir   string
	renderer  *render.Pipeline
	logger    *slog.Logger
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithImageDirs sets the directories searched for image paths that do not exist.
func WithImageDirs(dirs ...string) Option {
	return func(s *Session) {
		if len(dirs) > 0 {
			s.imageDirs = append([]string(nil), dirs...)
		}
	}
}

// WithSaveDir sets where relative save paths are resolved.
func WithSaveDir(dir string) Option {
	return func(s *Session) { s.saveDir = dir }
}

func WithRenderer(p *render.Pipeline) Option {
	return func(s *Session) { s.renderer = p }
}

func New(opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		imageDirs: facade.DefaultImageDirs,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", s.id)
	if s.renderer == nil {
		s.renderer = render.New(render.WithLogger(s.logger))
	}
	return s
}

func (s *Session) ID() string { return s.id }

// Loaded reports whether a document is open.
func (s *Session) Loaded() bool { return s.pres != nil }

// Presentation returns the open document, or nil.
func (s *Session) Presentation() *slidesmith.Presentation { return s.pres }

// CurrentSlide is the slide move_element targets by default.
func (s *Session) CurrentSlide() int { return s.current }

func (s *Session) requireDoc() error {
	if s.pres == nil {
		return errNotLoaded
	}
	return nil
}

func (s *Session) slideAt(index int) (*slidesmith.Slide, error) {
	if err := s.requireDoc(); err != nil {
		return nil, err
	}
	n := s.pres.GetSlideCount()
	if index < 0 || index >= n {
		return nil, errorf(KindOutOfRange, "Invalid slide index: %d. Available slides: 0-%d", index, n-1)
	}
	slide, err := s.pres.GetSlide(index)
	if err != nil {
		return nil, classify(err, "")
	}
	return slide, nil
}

func checkLayout(pres *slidesmith.Presentation, index int) error {
	n := len(pres.GetSlideLayouts())
	if index < 0 || index >= n {
		return errorf(KindOutOfRange, "Invalid layout index: %d. Available layouts: 0-%d", index, n-1)
	}
	return nil
}

func layoutInfos(pres *slidesmith.Presentation) []LayoutInfo {
	layouts := pres.GetSlideLayouts()
	out := make([]LayoutInfo, len(layouts))
	for i, l := range layouts {
		out[i] = LayoutInfo{Index: i, Name: l.Name}
	}
	return out
}

// Create starts a document with one slide, or appends a slide when a
// document is already open. A nil layout picks the "Blank" layout.
func (s *Session) Create(layoutIndex *int) (*CreateResult, error) {
	pres := s.pres
	if pres == nil {
		pres = slidesmith.New()
	}
	idx := 0
	if layoutIndex != nil {
		idx = *layoutIndex
	} else if i, err := pres.LayoutIndexByName("blank"); err == nil {
		idx = i
	}
	if err := checkLayout(pres, idx); err != nil {
		return nil, err
	}
	if _, err := pres.CreateSlide(idx); err != nil {
		return nil, classify(err, "Failed to create presentation")
	}
	s.pres = pres
	s.current = pres.GetSlideCount() - 1
	layout, _ := pres.GetSlideLayout(idx)
	s.logger.Info("session.create", "layout_index", idx, "slide_count", pres.GetSlideCount())
	return &CreateResult{
		PresentationID: s.id,
		Message:        fmt.Sprintf("Created new presentation with layout %d: %s", idx, layout.Name),
		SlideCount:     pres.GetSlideCount(),
	}, nil
}

// Open replaces the document with the PPTX at path. The session id is kept.
func (s *Session) Open(path string) (*OpenResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errorf(KindInvalidArgument, "Parameter 'file_path': must not be empty")
	}
	pres, err := slidesmith.Open(path)
	if err != nil {
		return nil, classify(err, "Failed to open presentation")
	}
	s.pres = pres
	s.current = 0
	s.logger.Info("session.open", "path", path, "slide_count", pres.GetSlideCount())
	return &OpenResult{
		PresentationID: s.id,
		Message:        fmt.Sprintf("Opened %s", path),
		FilePath:       path,
		SlideCount:     pres.GetSlideCount(),
	}, nil
}

func (s *Session) resolveSavePath(path string) string {
	if strings.TrimSpace(path) == "" {
		path = s.id + ".pptx"
	}
	if !filepath.IsAbs(path) && s.saveDir != "" && s.saveDir != "." {
		path = filepath.Join(s.saveDir, path)
	}
	return path
}

// Save validates and writes the document. An empty path saves to
// <session id>.pptx.
func (s *Session) Save(path string) (*SaveResult, error) {
	if err := s.requireDoc(); err != nil {
		return nil, err
	}
	target := s.resolveSavePath(path)
	if err := s.pres.Validate(); err != nil {
		return nil, &Error{Kind: KindInternal, Msg: "Save failed: " + err.Error(), Err: err}
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &Error{Kind: KindInternal, Msg: "Save failed: " + err.Error(), Err: err}
		}
	}
	if err := s.pres.Save(target); err != nil {
		s.logger.Warn("session.save_failed", "path", target, "error", err.Error())
		return nil, &Error{Kind: KindInternal, Msg: "Save failed: " + err.Error(), Err: err}
	}
	s.logger.Info("session.save", "path", target)
	return &SaveResult{Message: "Saved to " + target, FilePath: target}, nil
}

func (s *Session) ListLayouts() (*LayoutsResult, error) {
	if err := s.requireDoc(); err != nil {
		return nil, err
	}
	return &LayoutsResult{Layouts: layoutInfos(s.pres)}, nil
}

func (s *Session) PresentationInfo() (*InfoResult, error) {
	if err := s.requireDoc(); err != nil {
		return nil, err
	}
	return &InfoResult{
		PresentationID: s.id,
		SlideCount:     s.pres.GetSlideCount(),
		SlideLayouts:   layoutInfos(s.pres),
		CoreProperties: coreProperties(s.pres.GetDocumentProperties()),
	}, nil
}

func coreProperties(p *slidesmith.DocumentProperties) CoreProperties {
	if p == nil {
		return CoreProperties{}
	}
	stamp := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	}
	return CoreProperties{
		Title:          p.Title,
		Subject:        p.Subject,
		Author:         p.Creator,
		Keywords:       p.Keywords,
		Category:       p.Category,
		Comments:       p.Description,
		LastModifiedBy: p.LastModifiedBy,
		Revision:       p.Revision,
		Created:        stamp(p.Created),
		Modified:       stamp(p.Modified),
	}
}
