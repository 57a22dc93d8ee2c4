package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/client"
	"github.com/litescript/ls-natal/internal/render"
)

// Output formats for generate.
const (
	formatJSON    = "json"
	formatSummary = "summary"
	formatSVG     = "svg"
	formatAspects = "aspects"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		req    client.Request
		format string
		output string
		fo     frameOptions
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a chart through the chart service",
		Example: `  ls-natal generate --name Ada --date 1815-12-10 --time 13:00 --place London
  ls-natal generate --date 1815-12-10 --time 13:00 --place London --format svg -o ada.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatJSON, formatSummary, formatSVG, formatAspects:
			default:
				return fmt.Errorf("unknown format %q (want json, summary, svg or aspects)", format)
			}

			gen, closeCache := a.newClient(cmd.Context())
			defer closeCache()

			res := gen.Generate(cmd.Context(), req)
			if res.Err != nil {
				return res.Err
			}
			a.log.Info("chart for %s in %v (cached=%v, request %s)",
				res.Request.Name, res.Duration.Round(time.Millisecond), res.Cached, res.RequestID)
			if res.Snapshot.Warning != "" {
				a.log.Warn("%s", res.Snapshot.Warning)
			}

			return writeOutput(output, func(w io.Writer) error {
				return a.writeChart(w, res.Snapshot, format, fo, res.FetchedAt)
			})
		},
	}
	requestFlags(cmd, &req)
	cmd.Flags().StringVar(&format, "format", formatSummary, "output format: json, summary, svg or aspects")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	fo.register(cmd, true)
	return cmd
}

func (a *app) writeChart(w io.Writer, snap *chart.Snapshot, format string, fo frameOptions, at time.Time) error {
	switch format {
	case formatJSON:
		return chart.ExportSnapshot(snap, at).WriteJSON(w)
	case formatAspects:
		chart.WriteAspectTable(w, snap)
		return nil
	case formatSVG:
		return a.writeSVG(w, snap, fo)
	default:
		chart.WriteSummary(w, snap)
		return nil
	}
}

func (a *app) writeSVG(w io.Writer, snap *chart.Snapshot, fo frameOptions) error {
	t, err := a.resolveTheme(fo.theme)
	if err != nil {
		return err
	}
	f, err := a.frame(snap, fo)
	if err != nil {
		return err
	}
	return render.WriteSVG(w, f, t)
}

// writeOutput runs write against stdout ("-" or empty) or the named file.
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
