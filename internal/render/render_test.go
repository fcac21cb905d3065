package render

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/VantageDataChat/slidesmith"
)

// --- helpers ---

// stubRasterizer writes a shell script that mimics the inkscape CLI. The
// script records its arguments next to itself and runs body.
func stubRasterizer(t *testing.T, body string) (binary, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub rasterizer needs a POSIX shell")
	}
	dir := t.TempDir()
	binary = filepath.Join(dir, "fake-inkscape")
	argsFile = filepath.Join(dir, "args.txt")
	script := "#!/bin/sh\n" +
		"echo \"$@\" > '" + argsFile + "'\n" +
		"out=\"\"\n" +
		"while [ $# -gt 0 ]; do\n" +
		"  if [ \"$1\" = \"--export-filename\" ]; then out=\"$2\"; shift; fi\n" +
		"  shift\n" +
		"done\n" +
		body + "\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return binary, argsFile
}

const writePNG = `printf '\211PNG\r\n\032\nstub' > "$out"`

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected no leftover temp files, found %v", names)
	}
}

type fixedExporter struct {
	svg []byte
	err error
}

func (f fixedExporter) ExportSVG(*slidesmith.Presentation, int) ([]byte, error) {
	return f.svg, f.err
}

func onePagePresentation(t *testing.T) *slidesmith.Presentation {
	t.Helper()
	pres := slidesmith.New()
	if _, err := pres.CreateSlide(6); err != nil {
		t.Fatalf("CreateSlide: %v", err)
	}
	return pres
}

const minimalSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50">
<rect x="0" y="0" width="100" height="50" fill="#FFFFFF"/>
<circle cx="25" cy="25" r="10" fill="#FF0000"/>
<text x="4" y="46">Evaluation only. Created with Aspose.Slides</text>
<g><text x="4" y="20"><tspan>Quarterly</tspan> <tspan>results</tspan></text></g>
</svg>
`

// --- watermark stripping ---

func TestStripWatermarksKeepsShapes(t *testing.T) {
	out, removed, err := StripWatermarks([]byte(minimalSVG), []string{"Aspose"})
	if err != nil {
		t.Fatalf("StripWatermarks: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 element removed, got %d", removed)
	}
	s := string(out)
	if strings.Contains(s, "Aspose") {
		t.Errorf("expected marker text removed, got %s", s)
	}
	for _, want := range []string{"<rect", "<circle", "Quarterly"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q kept", want)
		}
	}
	lines := strings.SplitN(s, "\n", 3)
	if lines[0] != `<?xml version="1.0" encoding="utf-8" standalone="yes"?>` {
		t.Errorf("unexpected declaration %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], `<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN"`) {
		t.Errorf("unexpected doctype %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "<svg") {
		t.Errorf("expected root on third line, got %q", lines[2])
	}
}

func TestStripWatermarksNormalizesText(t *testing.T) {
	// Full-width letters and split spans still match after NFKC and
	// whitespace collapse.
	svg := `<svg xmlns="http://www.w3.org/2000/svg"><text><tspan>Created   with</tspan>
<tspan>ＡＢＣ</tspan></text><text>keep me</text></svg>`
	out, removed, err := StripWatermarks([]byte(svg), []string{"Created with ABC"})
	if err != nil {
		t.Fatalf("StripWatermarks: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if !strings.Contains(string(out), "keep me") {
		t.Error("expected unmatched text kept")
	}
}

func TestStripWatermarksEngineProvenance(t *testing.T) {
	pres := onePagePresentation(t)
	raw, err := pres.SlideToSVG(0, slidesmith.DefaultSVGOptions())
	if err != nil {
		t.Fatalf("SlideToSVG: %v", err)
	}
	out, removed, err := StripWatermarks(raw, []string{slidesmith.ProvenanceMark})
	if err != nil {
		t.Fatalf("StripWatermarks: %v", err)
	}
	if removed != 1 || bytes.Contains(out, []byte(slidesmith.ProvenanceMark)) {
		t.Errorf("expected provenance removed, removed=%d", removed)
	}
}

func TestStripWatermarksRejectsMalformed(t *testing.T) {
	for _, input := range []string{"<svg><<</svg>", "plain text"} {
		if _, _, err := StripWatermarks([]byte(input), []string{"Aspose"}); err == nil {
			t.Errorf("expected parse error for %q", input)
		}
	}
}

// --- rasterizer ---

func TestCommandRasterizerStub(t *testing.T) {
	binary, argsFile := stubRasterizer(t, writePNG)
	tmp := t.TempDir()
	r := &CommandRasterizer{Binary: binary, TempDir: tmp, Timeout: 10 * time.Second}

	png, err := r.Rasterize(context.Background(), []byte(minimalSVG), 150)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if !bytes.HasPrefix(png, pngSignature) {
		t.Errorf("expected PNG signature, got %q", png)
	}
	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	got := string(args)
	if !strings.Contains(got, "--export-type=png --export-filename") || !strings.Contains(got, "--export-dpi 150") {
		t.Errorf("unexpected arguments %q", got)
	}
	if !strings.Contains(got, ".svg ") {
		t.Errorf("expected svg input first, got %q", got)
	}
	assertEmptyDir(t, tmp)
}

func TestCommandRasterizerFailures(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"nonzero exit", `echo "cannot open display" >&2; exit 3`, "cannot open display"},
		{"not png", `printf 'hello' > "$out"`, ErrNotPNG.Error()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			binary, _ := stubRasterizer(t, tc.body)
			tmp := t.TempDir()
			r := &CommandRasterizer{Binary: binary, TempDir: tmp, Timeout: 10 * time.Second}
			png, err := r.Rasterize(context.Background(), []byte(minimalSVG), 300)
			if err == nil {
				t.Fatal("expected error")
			}
			if png != nil {
				t.Error("expected no partial bytes")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected %q in error, got %v", tc.wantErr, err)
			}
			assertEmptyDir(t, tmp)
		})
	}
}

func TestCommandRasterizerTimeout(t *testing.T) {
	binary, _ := stubRasterizer(t, "exec sleep 5")
	tmp := t.TempDir()
	r := &CommandRasterizer{Binary: binary, TempDir: tmp, Timeout: 100 * time.Millisecond}
	_, err := r.Rasterize(context.Background(), []byte(minimalSVG), 300)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	assertEmptyDir(t, tmp)
}

func TestCommandRasterizerInkscape(t *testing.T) {
	if _, err := exec.LookPath("inkscape"); err != nil {
		t.Skip("inkscape not installed")
	}
	r := &CommandRasterizer{Binary: "inkscape", TempDir: t.TempDir(), Timeout: time.Minute}
	png, err := r.Rasterize(context.Background(), []byte(minimalSVG), 96)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if !bytes.HasPrefix(png, pngSignature) {
		t.Error("expected PNG signature")
	}
}

// --- pipeline ---

func TestPipelinePNG(t *testing.T) {
	binary, argsFile := stubRasterizer(t, writePNG)
	tmp := t.TempDir()
	p := New(
		WithRasterizer(&CommandRasterizer{Binary: binary, TempDir: tmp, Timeout: 10 * time.Second}),
		WithExporter(NewEngineExporter(nil, false)),
		WithDPI(120),
	)
	png, err := p.PNG(context.Background(), onePagePresentation(t), 0, 0)
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	if !bytes.HasPrefix(png, pngSignature) {
		t.Error("expected PNG signature")
	}
	args, _ := os.ReadFile(argsFile)
	if !strings.Contains(string(args), "--export-dpi 120") {
		t.Errorf("expected default dpi 120, got %q", args)
	}
	assertEmptyDir(t, tmp)
}

func TestPipelineSVGStripsProvenance(t *testing.T) {
	p := New(WithExporter(NewEngineExporter(nil, false)))
	svg, err := p.SVG(onePagePresentation(t), 0)
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if bytes.Contains(svg, []byte(slidesmith.ProvenanceMark)) {
		t.Error("expected provenance removed")
	}
	if !bytes.Contains(svg, []byte("<rect")) {
		t.Error("expected background rect kept")
	}
}

func TestPipelineStageErrors(t *testing.T) {
	binary, _ := stubRasterizer(t, writePNG)
	tmp := t.TempDir()
	raster := &CommandRasterizer{Binary: binary, TempDir: tmp, Timeout: 10 * time.Second}
	exportErr := errors.New("export exploded")

	cases := []struct {
		name     string
		exporter Exporter
		stage    Stage
	}{
		{"export", fixedExporter{err: exportErr}, StageExporting},
		{"malformed svg", fixedExporter{svg: []byte("<svg><<</svg>")}, StageWatermarkStripping},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New(WithExporter(tc.exporter), WithRasterizer(raster))
			_, err := p.PNG(context.Background(), onePagePresentation(t), 0, 300)
			var se *StageError
			if !errors.As(err, &se) {
				t.Fatalf("expected StageError, got %v", err)
			}
			if se.Stage != tc.stage {
				t.Errorf("expected stage %s, got %s", tc.stage, se.Stage)
			}
			assertEmptyDir(t, tmp)
		})
	}

	p := New(WithExporter(fixedExporter{err: exportErr}), WithRasterizer(raster))
	_, err := p.PNG(context.Background(), onePagePresentation(t), 0, 300)
	if !errors.Is(err, exportErr) {
		t.Errorf("expected wrapped export error, got %v", err)
	}
}

func TestPipelineOutOfRangeSlide(t *testing.T) {
	p := New(WithExporter(NewEngineExporter(nil, false)))
	_, err := p.SVG(onePagePresentation(t), 3)
	if !errors.Is(err, slidesmith.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}
