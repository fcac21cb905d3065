package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// ErrNotPNG is returned when the rasterizer output lacks the PNG signature.
var ErrNotPNG = errors.New("rasterizer output is not a PNG image")

// Rasterizer turns an SVG document into PNG bytes.
type Rasterizer interface {
	Name() string
	Rasterize(ctx context.Context, svg []byte, dpi int) ([]byte, error)
}

// CommandRasterizer shells out to an inkscape-compatible binary.
type CommandRasterizer struct {
	Binary  string
	TempDir string
	Timeout time.Duration
}

func (r *CommandRasterizer) Name() string { return r.Binary }

// IsAvailable reports whether the binary can be found.
func (r *CommandRasterizer) IsAvailable() bool {
	_, err := exec.LookPath(r.Binary)
	return err == nil
}

func (r *CommandRasterizer) Rasterize(ctx context.Context, svg []byte, dpi int) ([]byte, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("invalid dpi %d", dpi)
	}
	in, err := writeTemp(r.TempDir, "slide-*.svg", svg)
	if err != nil {
		return nil, err
	}
	defer os.Remove(in)

	out, err := writeTemp(r.TempDir, "slide-*.png", nil)
	if err != nil {
		return nil, err
	}
	defer os.Remove(out)

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Binary, in,
		"--export-type=png",
		"--export-filename", out,
		"--export-dpi", strconv.Itoa(dpi),
	)
	cmd.WaitDelay = 2 * time.Second
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", r.Binary, ctxErr)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", r.Binary, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", r.Binary, err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, ErrNotPNG
	}
	return data, nil
}

func writeTemp(dir, pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := f.Name()
	if len(data) > 0 {
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(name)
			return "", fmt.Errorf("write temp file: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return name, nil
}
