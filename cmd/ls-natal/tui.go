package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/client"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/ui"
	"github.com/litescript/ls-natal/internal/watch"
	"github.com/litescript/ls-natal/internal/wheel"
)

func newTUICmd(a *app) *cobra.Command {
	var (
		file    string
		prefill client.Request
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive chart wheel (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context(), file, prefill)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "chart JSON file to show and watch")
	requestFlags(cmd, &prefill)
	return cmd
}

func (a *app) runTUI(ctx context.Context, file string, prefill client.Request) error {
	// Log lines would tear the alt screen.
	a.log.SetOutput(io.Discard)

	t, err := a.resolveTheme("")
	if err != nil {
		return err
	}

	stateMgr := state.NewManager(state.DefaultConfig())
	if file != "" {
		snap, err := a.loadChartFile(file)
		if err != nil {
			return err
		}
		stateMgr.Load(snap, file)
	}

	gen, closeCache := a.newClient(ctx)
	defer closeCache()

	model := ui.New(ui.Options{
		Context:   ctx,
		State:     stateMgr,
		Generator: gen,
		Projector: wheel.NewProjector(a.cfg.Wheel),
		Themes:    a.themeStore(),
		Theme:     t,
		Prefill:   prefill,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)

	if file != "" {
		w, err := watch.New(file)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
		go a.forwardChanges(w, p)
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// forwardChanges reloads the watched file into the running program until
// the watcher stops.
func (a *app) forwardChanges(w *watch.Watcher, p *tea.Program) {
	for c := range w.Changes {
		if c.Kind == watch.ChangeRemoved {
			p.Send(ui.ErrorMsg{Error: fmt.Errorf("%s was removed", c.File)})
			continue
		}
		snap, err := a.loadChartFile(c.File)
		if err != nil {
			p.Send(ui.ErrorMsg{Error: err})
			continue
		}
		p.Send(ui.ChartLoadedMsg{Snapshot: snap, Source: c.File})
	}
}

// requestFlags registers the birth data flags.
func requestFlags(cmd *cobra.Command, req *client.Request) {
	cmd.Flags().StringVar(&req.Name, "name", "", "person's name")
	cmd.Flags().StringVar(&req.Date, "date", "", "birth date, YYYY-MM-DD")
	cmd.Flags().StringVar(&req.Time, "time", "", "birth time, HH:MM")
	cmd.Flags().StringVar(&req.Place, "place", "", "birth place")
}
