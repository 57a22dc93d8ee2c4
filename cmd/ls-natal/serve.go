package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/server"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/watch"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr      string
		file      string
		themeName string
		offline   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the current chart as SVG and JSON over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			t, err := a.resolveTheme(themeName)
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

				w, err := watch.New(file)
				if err != nil {
					return err
				}
				if err := w.Start(); err != nil {
					return err
				}
				defer w.Stop()
				go a.reloadInto(ctx, w, stateMgr)
			}

			var gen server.Generator
			if !offline {
				c, closeCache := a.newClient(ctx)
				defer closeCache()
				gen = c
			}

			srv := server.New(server.Options{
				Addr:        addr,
				CORSOrigins: a.cfg.Server.CORSOrigins,
				Wheel:       a.cfg.Wheel,
				Theme:       t,
			}, stateMgr, gen, a.log.With("component", "server"))
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8090)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "chart JSON file to serve and watch")
	cmd.Flags().StringVar(&themeName, "theme", "", "default theme for /chart.svg")
	cmd.Flags().BoolVar(&offline, "offline", false, "disable POST /generate")
	return cmd
}

// reloadInto loads the watched file into st on every change.
func (a *app) reloadInto(ctx context.Context, w *watch.Watcher, st *state.Manager) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-w.Changes:
			if !ok {
				return
			}
			if c.Kind == watch.ChangeRemoved {
				a.log.Warn("%s was removed; keeping the last chart", c.File)
				continue
			}
			snap, err := a.loadChartFile(c.File)
			if err != nil {
				a.log.Error("reload: %v", err)
				st.Fail(err)
				continue
			}
			st.Load(snap, c.File)
			a.log.Info("reloaded %s", c.File)
		}
	}
}
