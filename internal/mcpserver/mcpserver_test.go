package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/VantageDataChat/slidesmith"
	"github.com/VantageDataChat/slidesmith/internal/render"
	"github.com/VantageDataChat/slidesmith/internal/session"
)

// --- helpers ---

func newTestServer(t *testing.T, opts ...session.Option) *Server {
	t.Helper()
	opts = append([]session.Option{session.WithSaveDir(t.TempDir())}, opts...)
	return New(NewRegistry(func() *session.Session { return session.New(opts...) }))
}

func call(t *testing.T, s *Server, tool string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	h, ok := s.handlers[tool]
	if !ok {
		t.Fatalf("tool %q not registered", tool)
	}
	var req mcp.CallToolRequest
	req.Params.Name = tool
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("%s returned transport error: %v", tool, err)
	}
	if res == nil {
		t.Fatalf("%s returned nil result", tool)
	}
	return res
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			return tc.Text
		case *mcp.TextContent:
			return tc.Text
		}
	}
	t.Fatalf("result has no text content: %+v", res.Content)
	return ""
}

// ok decodes a successful result into a generic map.
func ok(t *testing.T, s *Server, tool string, args map[string]any) map[string]any {
	t.Helper()
	res := call(t, s, tool, args)
	text := textOf(t, res)
	if res.IsError {
		t.Fatalf("%s failed: %s", tool, text)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("%s: decode %q: %v", tool, text, err)
	}
	return out
}

// fails decodes an error result and checks its kind.
func fails(t *testing.T, s *Server, tool string, args map[string]any, kind session.Kind) errorBody {
	t.Helper()
	res := call(t, s, tool, args)
	text := textOf(t, res)
	if !res.IsError {
		t.Fatalf("%s: expected error, got %s", tool, text)
	}
	var body errorBody
	if err := json.Unmarshal([]byte(text), &body); err != nil {
		t.Fatalf("%s: decode error %q: %v", tool, text, err)
	}
	if body.ErrorKind != kind {
		t.Errorf("%s: expected kind %s, got %s (%s)", tool, kind, body.ErrorKind, body.Error)
	}
	if body.Error == "" {
		t.Errorf("%s: error message is empty", tool)
	}
	return body
}

func withSession(t *testing.T, s *Server, fn func(*session.Session)) {
	t.Helper()
	s.registry.Get(defaultConnection).Do(fn)
}

// --- registration ---

func TestToolsRegistered(t *testing.T) {
	s := newTestServer(t)
	want := []string{
		"create_presentation", "list_layouts", "get_presentation_info", "save_presentation",
		"open_presentation", "add_slide", "get_slide_info", "populate_placeholder",
		"add_bullet_points", "add_textbox", "add_image", "add_image_from_base64",
		"add_table", "format_table_cell", "add_shape", "add_chart",
		"move_element", "remove_element", "get_slide_image", "get_slide_svg",
	}
	got := s.ToolNames()
	if len(got) != len(want) {
		t.Fatalf("expected %d tools, got %d: %v", len(want), len(got), got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("tool %d: expected %s, got %s", i, name, got[i])
		}
	}
	desc := s.Describe()
	if !strings.Contains(desc, "remove_element") || strings.Count(desc, "\n") != len(want) {
		t.Errorf("unexpected description:\n%s", desc)
	}
}

// --- dispatch ---

func TestNotLoadedErrors(t *testing.T) {
	s := newTestServer(t)
	for _, tool := range []string{"list_layouts", "get_presentation_info", "save_presentation"} {
		body := fails(t, s, tool, nil, session.KindNotLoaded)
		if body.Error != "No presentation is currently loaded" {
			t.Errorf("%s: unexpected message %q", tool, body.Error)
		}
	}
	fails(t, s, "get_slide_info", map[string]any{"slide_index": 0}, session.KindNotLoaded)
}

func TestCreateAndInspect(t *testing.T) {
	s := newTestServer(t)
	created := ok(t, s, "create_presentation", map[string]any{})
	if created["slide_count"] != float64(1) {
		t.Errorf("expected slide_count 1, got %v", created["slide_count"])
	}
	id, _ := created["presentation_id"].(string)
	if id == "" {
		t.Fatalf("missing presentation_id in %v", created)
	}

	layouts := ok(t, s, "list_layouts", nil)
	if list, _ := layouts["layouts"].([]any); len(list) != 11 {
		t.Errorf("expected 11 layouts, got %v", layouts["layouts"])
	}

	slide := ok(t, s, "add_slide", map[string]any{"title": "Quarterly review"})
	if slide["slide_index"] != float64(1) || slide["layout_name"] != "Title and Content" {
		t.Errorf("unexpected add_slide result %v", slide)
	}

	info := ok(t, s, "get_slide_info", map[string]any{"slide_index": 1})
	if shapes, _ := info["shapes"].([]any); len(shapes) == 0 {
		t.Errorf("expected placeholder shapes, got %v", info)
	}

	pres := ok(t, s, "get_presentation_info", nil)
	if pres["presentation_id"] != id || pres["slide_count"] != float64(2) {
		t.Errorf("unexpected info %v", pres)
	}
}

func TestBulletPointsAndPlaceholder(t *testing.T) {
	s := newTestServer(t)
	ok(t, s, "create_presentation", map[string]any{"layout_index": 1})
	ok(t, s, "populate_placeholder", map[string]any{"slide_index": 0, "placeholder_idx": 0, "text": "Agenda"})
	res := ok(t, s, "add_bullet_points", map[string]any{
		"slide_index": 0, "placeholder_idx": 1, "bullet_points": []any{"one", "two", "three"},
	})
	if msg, _ := res["message"].(string); !strings.HasPrefix(msg, "Added 3 bullet points") {
		t.Errorf("unexpected message %q", msg)
	}
	fails(t, s, "populate_placeholder",
		map[string]any{"slide_index": 0, "placeholder_idx": 42, "text": "x"}, session.KindNotFound)
}

func TestAddTableConvertsCells(t *testing.T) {
	s := newTestServer(t)
	ok(t, s, "create_presentation", nil)
	res := ok(t, s, "add_table", map[string]any{
		"slide_index": 0, "rows": 2, "cols": 3,
		"left": 1.0, "top": 1.0, "width": 6.0, "height": 2.0,
		"data": []any{
			[]any{"name", float64(12), true},
			[]any{nil, 2.5},
		},
	})
	if res["shape_index"] != float64(0) {
		t.Errorf("expected shape_index 0, got %v", res["shape_index"])
	}
	withSession(t, s, func(sess *session.Session) {
		slide, err := sess.Presentation().GetSlide(0)
		if err != nil {
			t.Fatal(err)
		}
		table, ok := slide.GetShapes()[0].(*slidesmith.TableShape)
		if !ok {
			t.Fatalf("expected table, got %T", slide.GetShapes()[0])
		}
		want := [][]string{{"name", "12", "true"}, {"", "2.5", ""}}
		for r, row := range want {
			for c, text := range row {
				if got := table.GetCell(r, c).Text(); got != text {
					t.Errorf("cell (%d,%d): expected %q, got %q", r, c, text, got)
				}
			}
		}
	})

	fails(t, s, "add_table", map[string]any{
		"slide_index": 0, "rows": 0, "cols": 3, "left": 1.0, "top": 1.0, "width": 6.0, "height": 2.0,
	}, session.KindInvalidArgument)
	fails(t, s, "add_table", map[string]any{
		"slide_index": 0, "rows": "two", "cols": 3,
	}, session.KindInvalidArgument)
}

func TestChartAndShape(t *testing.T) {
	s := newTestServer(t)
	ok(t, s, "create_presentation", nil)
	ok(t, s, "add_chart", map[string]any{
		"slide_index": 0, "chart_type": "bar",
		"left": 1.0, "top": 1.0, "width": 6.0, "height": 4.0,
		"categories":    []any{"Q1", "Q2"},
		"series_names":  []any{"Sales"},
		"series_values": []any{[]any{10.0, 12.5}},
	})
	fails(t, s, "add_chart", map[string]any{
		"slide_index": 0, "chart_type": "bar",
		"left": 1.0, "top": 1.0, "width": 6.0, "height": 4.0,
		"categories":    []any{"Q1", "Q2"},
		"series_names":  []any{"Sales"},
		"series_values": []any{[]any{10.0}},
	}, session.KindInvalidArgument)

	ok(t, s, "add_shape", map[string]any{
		"slide_index": 0, "shape_type": "rectangle",
		"left": 0.5, "top": 0.5, "width": 1.0, "height": 1.0,
		"fill_color": []any{255, 0, 0},
	})
	fails(t, s, "add_shape", map[string]any{
		"slide_index": 0, "shape_type": "rectangle",
		"left": 0.5, "top": 0.5, "width": 1.0, "height": 1.0,
		"fill_color": []any{300, 0, 0},
	}, session.KindInvalidArgument)
}

func TestMoveAndRemove(t *testing.T) {
	s := newTestServer(t)
	ok(t, s, "create_presentation", nil)
	ok(t, s, "add_textbox", map[string]any{
		"slide_index": 0, "left": 1.0, "top": 1.0, "width": 3.0, "height": 1.0, "text": "hello",
	})
	moved := ok(t, s, "move_element", map[string]any{"shape_index": 0, "left": 2.0, "top": 3.0})
	if l, _ := moved["new_left"].(float64); l < 2-1e-6 || l > 2+1e-6 {
		t.Errorf("expected new_left 2, got %v", moved["new_left"])
	}
	fails(t, s, "move_element", map[string]any{"shape_index": 5, "left": 0.0, "top": 0.0}, session.KindOutOfRange)

	removed := ok(t, s, "remove_element", map[string]any{"slide_index": 0, "shape_index": 0})
	if removed["shape_count"] != float64(0) {
		t.Errorf("expected shape_count 0, got %v", removed["shape_count"])
	}
	fails(t, s, "remove_element", map[string]any{"slide_index": 3, "shape_index": 0}, session.KindOutOfRange)
}

func TestSaveAndOpen(t *testing.T) {
	s := newTestServer(t)
	ok(t, s, "create_presentation", nil)
	ok(t, s, "add_slide", map[string]any{"layout_index": 5, "title": "Second"})
	path := filepath.Join(t.TempDir(), "deck.pptx")
	saved := ok(t, s, "save_presentation", map[string]any{"file_path": path})
	if saved["file_path"] != path {
		t.Errorf("expected file_path %s, got %v", path, saved["file_path"])
	}

	other := newTestServer(t)
	opened := ok(t, other, "open_presentation", map[string]any{"file_path": path})
	if opened["slide_count"] != float64(2) {
		t.Errorf("expected 2 slides after reopen, got %v", opened["slide_count"])
	}
	fails(t, other, "open_presentation", map[string]any{"file_path": filepath.Join(t.TempDir(), "missing.pptx")}, session.KindNotFound)
	fails(t, other, "open_presentation", map[string]any{}, session.KindInvalidArgument)
}

// --- rendering ---

func stubRenderer(t *testing.T, body string) *render.Pipeline {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub rasterizer needs a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "fake-inkscape")
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
	s := newTestServer(t, session.WithRenderer(stubRenderer(t, `printf '\211PNG\r\n\032\nstub' > "$out"`)))
	ok(t, s, "create_presentation", nil)
	res := call(t, s, "get_slide_image", map[string]any{"slide_index": 0, "dpi": 96})
	if res.IsError {
		t.Fatalf("get_slide_image failed: %s", textOf(t, res))
	}
	if !strings.Contains(textOf(t, res), `"dpi":96`) {
		t.Errorf("summary missing dpi: %s", textOf(t, res))
	}
	var img *mcp.ImageContent
	for _, c := range res.Content {
		switch ic := c.(type) {
		case mcp.ImageContent:
			img = &ic
		case *mcp.ImageContent:
			img = ic
		}
	}
	if img == nil {
		t.Fatalf("expected image content, got %+v", res.Content)
	}
	if img.MIMEType != "image/png" || !strings.HasPrefix(img.Data, "iVBORw") {
		t.Errorf("unexpected image content %s %q", img.MIMEType, img.Data)
	}

	fails(t, s, "get_slide_image", map[string]any{"slide_index": 0, "dpi": 5000}, session.KindInvalidArgument)
	fails(t, s, "get_slide_image", map[string]any{"slide_index": 9}, session.KindOutOfRange)
}

func TestSlideImageToolFailure(t *testing.T) {
	s := newTestServer(t, session.WithRenderer(stubRenderer(t, `echo "boom" >&2; exit 3`)))
	ok(t, s, "create_presentation", nil)
	body := fails(t, s, "get_slide_image", map[string]any{}, session.KindExternalToolFailure)
	if !strings.Contains(body.Error, "boom") {
		t.Errorf("expected stderr in error, got %q", body.Error)
	}
}

func TestSlideSVG(t *testing.T) {
	s := newTestServer(t)
	ok(t, s, "create_presentation", nil)
	ok(t, s, "add_textbox", map[string]any{
		"slide_index": 0, "left": 1.0, "top": 1.0, "width": 3.0, "height": 1.0, "text": "visible",
	})
	res := ok(t, s, "get_slide_svg", nil)
	svg, _ := res["svg"].(string)
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "visible") {
		t.Errorf("unexpected svg: %.200s", svg)
	}
	if strings.Contains(svg, slidesmith.ProvenanceMark) {
		t.Errorf("provenance text was not stripped")
	}
}

// --- robustness ---

func TestPanicIsRecovered(t *testing.T) {
	s := newTestServer(t)
	h := s.wrap("explode", func(context.Context, *session.Session, mcp.CallToolRequest) (any, error) {
		panic("kaboom")
	})
	res, err := h(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("expected recovered result, got error %v", err)
	}
	if !res.IsError || !strings.Contains(textOf(t, res), `"error_kind":"internal"`) {
		t.Errorf("unexpected result %s", textOf(t, res))
	}
	// the session lock must be released after a panic
	ok(t, s, "create_presentation", nil)
}

func TestRegistryIsolatesConnections(t *testing.T) {
	reg := NewRegistry(nil)
	a, b := reg.Get("a"), reg.Get("b")
	if a == b {
		t.Fatal("expected distinct entries per connection")
	}
	if reg.Get("a") != a {
		t.Error("expected the same entry for a repeated connection id")
	}
	var idA, idB string
	a.Do(func(s *session.Session) { idA = s.ID() })
	b.Do(func(s *session.Session) { idB = s.ID() })
	if idA == idB {
		t.Errorf("expected different session ids, both %s", idA)
	}
	if a.LastUsed().IsZero() {
		t.Error("expected LastUsed to be set")
	}
	reg.Drop("a")
	if reg.Len() != 1 {
		t.Errorf("expected 1 entry after drop, got %d", reg.Len())
	}
}

func TestConcurrentCallsSerialize(t *testing.T) {
	s := newTestServer(t)
	ok(t, s, "create_presentation", nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var req mcp.CallToolRequest
			req.Params.Arguments = map[string]any{"layout_index": 6}
			if _, err := s.handlers["add_slide"](context.Background(), req); err != nil {
				t.Errorf("add_slide: %v", err)
			}
		}()
	}
	wg.Wait()
	info := ok(t, s, "get_presentation_info", nil)
	if info["slide_count"] != float64(9) {
		t.Errorf("expected 9 slides, got %v", info["slide_count"])
	}
}

func TestCellText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{float64(3), "3"},
		{0.25, "0.25"},
		{false, "false"},
		{map[string]any{}, "map[]"},
	}
	for _, tt := range tests {
		if got := cellText(tt.in); got != tt.want {
			t.Errorf("cellText(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
