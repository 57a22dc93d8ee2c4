package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/render"
	"github.com/litescript/ls-natal/internal/watch"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		output  string
		watchIt bool
		fo      frameOptions
	)

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a chart JSON file as SVG",
		Long: "Render a chart JSON file (a service response or an exported snapshot) as SVG.\n" +
			"The default output is FILE with an .svg extension.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			out := output
			if out == "" {
				out = strings.TrimSuffix(in, filepath.Ext(in)) + ".svg"
			}

			renderOnce := func() error {
				snap, err := a.loadChartFile(in)
				if err != nil {
					return err
				}
				if err := writeOutput(out, func(w io.Writer) error { return a.writeSVG(w, snap, fo) }); err != nil {
					return err
				}
				if out != "-" {
					a.log.Info("wrote %s", out)
				}
				return nil
			}

			if err := renderOnce(); err != nil {
				return err
			}
			if !watchIt {
				return nil
			}

			w, err := watch.New(in)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()
			a.log.Info("watching %s", w.File)

			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case c, ok := <-w.Changes:
					if !ok {
						return nil
					}
					if c.Kind == watch.ChangeRemoved {
						a.log.Warn("%s was removed; waiting for it to come back", c.File)
						continue
					}
					if err := renderOnce(); err != nil {
						a.log.Error("render: %v", err)
					}
				}
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (- for stdout)")
	cmd.Flags().BoolVarP(&watchIt, "watch", "w", false, "re-render whenever the file changes")
	fo.register(cmd, true)
	return cmd
}

func newAspectsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "aspects FILE",
		Short: "Print the aspect table of a chart file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.loadChartFile(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return chart.ExportSnapshot(snap, time.Now()).WriteJSON(os.Stdout)
			}
			chart.WriteAspectTable(os.Stdout, snap)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full export, aspect table included, as JSON")
	return cmd
}

func newMiniCmd(a *app) *cobra.Command {
	var (
		width    int
		noLegend bool
		fo       frameOptions
	)

	cmd := &cobra.Command{
		Use:   "mini FILE",
		Short: "Print a small ASCII wheel of a chart file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.loadChartFile(args[0])
			if err != nil {
				return err
			}
			f, err := a.frame(snap, fo)
			if err != nil {
				return err
			}

			if width == 0 {
				width = terminalWidth()
			}
			cfg := render.MiniWheelConfigForWidth(width)
			cfg.Legend = !noLegend
			render.WriteMiniWheel(os.Stdout, f, cfg)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "width in columns (default: the terminal width)")
	cmd.Flags().BoolVar(&noLegend, "no-legend", false, "omit the body list")
	fo.register(cmd, false)
	return cmd
}

// terminalWidth returns the width of stdout, or 0 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
