package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VantageDataChat/slidesmith"
	"github.com/VantageDataChat/slidesmith/internal/mcpserver"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the presentation tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := mcpserver.New(mcpserver.NewRegistry(a.newSession()), mcpserver.WithLogger(a.logger))
			if err := srv.ServeStdio(); err != nil {
				a.logger.Error("mcp.server_error", "error", err.Error())
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		slideIndex int
		outPath    string
		format     string
	)
	cmd := &cobra.Command{
		Use:   "render <file.pptx>",
		Short: "Render one slide to PNG or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "png" && format != "svg" {
				return fmt.Errorf("invalid format: %s (must be png or svg)", format)
			}
			pres, err := slidesmith.Open(args[0])
			if err != nil {
				return fmt.Errorf("open presentation: %w", err)
			}
			if slideIndex < 0 || slideIndex >= pres.GetSlideCount() {
				return fmt.Errorf("invalid slide index: %d (presentation has %d slides)", slideIndex, pres.GetSlideCount())
			}

			p := a.pipeline()
			var data []byte
			if format == "svg" {
				data, err = p.SVG(pres, slideIndex)
			} else {
				data, err = p.PNG(cmd.Context(), pres, slideIndex, a.cfg.DPI)
			}
			if err != nil {
				return err
			}

			if outPath == "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				outPath = fmt.Sprintf("%s-slide%d.%s", base, slideIndex, format)
			}
			if outPath == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			a.logger.Info("slidesmith.rendered", "slide_index", slideIndex, "format", format, "path", outPath, "bytes", len(data))
			fmt.Fprintln(cmd.OutOrStdout(), outPath)
			return nil
		},
	}
	cmd.Flags().IntVarP(&slideIndex, "slide", "s", 0, "Zero-based slide index")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file, or - for stdout (default <name>-slide<N>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "png", "Output format: png or svg")
	return cmd
}

func newLayoutsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layouts [file.pptx]",
		Short: "List slide layouts of a presentation, or the built-in ones",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pres := slidesmith.New()
			if len(args) == 1 {
				var err error
				if pres, err = slidesmith.Open(args[0]); err != nil {
					if errors.Is(err, os.ErrNotExist) {
						return fmt.Errorf("file not found: %s", args[0])
					}
					return fmt.Errorf("open presentation: %w", err)
				}
			}
			for i, l := range pres.GetSlideLayouts() {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i, l.Name)
			}
			return nil
		},
	}
}

func newToolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the MCP tools the server exposes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := mcpserver.New(mcpserver.NewRegistry(a.newSession()), mcpserver.WithLogger(a.logger))
			fmt.Fprint(cmd.OutOrStdout(), srv.Describe())
			return nil
		},
	}
}
