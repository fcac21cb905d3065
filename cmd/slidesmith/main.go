// Command slidesmith serves presentation editing tools over MCP and renders
// slides from the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/VantageDataChat/slidesmith"
	"github.com/VantageDataChat/slidesmith/internal/config"
	"github.com/VantageDataChat/slidesmith/internal/envfile"
	"github.com/VantageDataChat/slidesmith/internal/logging"
	"github.com/VantageDataChat/slidesmith/internal/render"
	"github.com/VantageDataChat/slidesmith/internal/session"
)

// app carries the resolved configuration and logger to every subcommand.
type app struct {
	cfg    config.Config
	env    envfile.Result
	logger *slog.Logger
	close  func() error

	rasterizer string
	dpi        int
	timeout    time.Duration
	tempDir    string
	imageDirs  []string
	fontDirs   []string
	saveDir    string
	logDir     string
	debug      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newApp() *app {
	return &app{logger: logging.Nop(), close: func() error { return nil }}
}

func newRootCmd() *cobra.Command { return newApp().rootCmd() }

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "slidesmith",
		Short:        "Build and render PowerPoint presentations",
		Long:         `slidesmith edits PPTX presentations through MCP tools and renders slides to SVG or PNG.`,
		Version:      slidesmith.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.rasterizer, "rasterizer", "", "SVG to PNG converter binary (default inkscape)")
	f.IntVar(&a.dpi, "dpi", 0, "Render resolution (default 300)")
	f.DurationVar(&a.timeout, "timeout", 0, "Rasterizer timeout (default 60s)")
	f.StringVar(&a.tempDir, "temp-dir", "", "Directory for transient render files")
	f.StringSliceVar(&a.imageDirs, "image-dir", nil, "Directory searched for relative image paths (repeatable)")
	f.StringSliceVar(&a.fontDirs, "font-dir", nil, "Directory searched for fonts (repeatable)")
	f.StringVar(&a.saveDir, "save-dir", "", "Directory for saves with relative paths")
	f.StringVar(&a.logDir, "log-dir", "", "Directory for the debug log file")
	f.BoolVar(&a.debug, "debug", false, "Write a JSON debug log")

	root.AddCommand(newServeCmd(a), newRenderCmd(a), newLayoutsCmd(), newToolsCmd(a))
	return root
}

// setup resolves configuration (defaults, .env, environment, flags) and
// builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, env, err := config.Load()
	if err != nil {
		return err
	}
	a.env = env
	a.cfg = a.applyFlags(cmd, cfg)
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logSetup, logErr := logging.New(logging.Options{Dir: a.cfg.LogDir, Debug: a.cfg.Debug, Stderr: cmd.ErrOrStderr()})
	a.logger = logSetup.Logger.With("component", "slidesmith", "command", cmd.Name())
	a.close = logSetup.Close
	if logSetup.Enabled {
		a.logger.Info("slidesmith.logging_enabled", "path", logSetup.Path)
	}
	if env.Loaded {
		a.logger.Debug("slidesmith.env_loaded", "path", env.Path, "keys", env.Keys)
	}
	if env.Err != nil {
		a.logger.Warn("slidesmith.env_load_failed", "path", env.Path, "error", env.Err.Error())
	}
	if logErr != nil {
		a.logger.Warn("slidesmith.log_setup_failed", "error", logErr.Error())
	}
	return nil
}

// applyFlags overlays the flags the user actually set.
func (a *app) applyFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	changed := cmd.Flags().Changed
	if changed("rasterizer") {
		cfg.RasterizerPath = a.rasterizer
	}
	if changed("dpi") {
		cfg.DPI = a.dpi
	}
	if changed("timeout") {
		cfg.RenderTimeout = a.timeout
	}
	if changed("temp-dir") {
		cfg.TempDir = a.tempDir
	}
	if changed("image-dir") {
		cfg.ImageSearchDirs = a.imageDirs
	}
	if changed("font-dir") {
		cfg.FontDirs = a.fontDirs
	}
	if changed("save-dir") {
		cfg.SaveDir = a.saveDir
	}
	if changed("log-dir") {
		cfg.LogDir = a.logDir
	}
	if changed("debug") {
		cfg.Debug = a.debug
	}
	return cfg
}

func (a *app) pipeline() *render.Pipeline {
	return render.New(
		render.WithLogger(a.logger),
		render.WithDPI(a.cfg.DPI),
		render.WithMarkers(a.cfg.WatermarkMarkers...),
		render.WithExporter(render.NewEngineExporter(a.cfg.FontDirs, a.cfg.EmbedFonts)),
		render.WithRasterizer(&render.CommandRasterizer{
			Binary:  a.cfg.RasterizerPath,
			TempDir: a.cfg.TempDir,
			Timeout: a.cfg.RenderTimeout,
		}),
	)
}

// newSession returns a factory for per-connection sessions sharing one
// render pipeline.
func (a *app) newSession() func() *session.Session {
	p := a.pipeline()
	return func() *session.Session {
		return session.New(
			session.WithLogger(a.logger),
			session.WithImageDirs(a.cfg.ImageSearchDirs...),
			session.WithSaveDir(a.cfg.SaveDir),
			session.WithRenderer(p),
		)
	}
}
