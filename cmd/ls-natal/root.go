package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/litescript/ls-natal/internal/cache"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/client"
	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/theme"
	"github.com/litescript/ls-natal/internal/wheel"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	v       *viper.Viper
	cfgFile string
	noCache bool

	cfg config.Config
	log *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "ls-natal",
		Short: "Natal chart wheels in the terminal",
		Long: "ls-natal renders natal chart wheels with hoverable bodies and aspects.\n" +
			"Without a subcommand it starts the interactive terminal UI.",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default .ls-natal.yaml)")
	pf.String("api-url", config.DefaultAPIURL, "chart service URL")
	pf.Duration("timeout", config.DefaultTimeout, "chart service request timeout")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("theme-file", theme.DefaultPath(), "where the selected theme is saved")
	pf.String("cache", "", "response cache database (default in the user cache dir)")
	pf.BoolVar(&a.noCache, "no-cache", false, "bypass the response cache")
	pf.Bool("detect", false, "compute aspects locally when a chart has none")

	for key, flag := range map[string]string{
		"api_url":        "api-url",
		"timeout":        "timeout",
		"log_level":      "log-level",
		"theme_file":     "theme-file",
		"cache_path":     "cache",
		"detect_aspects": "detect",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	tui := newTUICmd(a)
	root.RunE = tui.RunE
	root.Flags().AddFlagSet(tui.Flags())

	root.AddCommand(
		tui,
		newGenerateCmd(a),
		newRenderCmd(a),
		newAspectsCmd(a),
		newMiniCmd(a),
		newServeCmd(a),
		newThemeCmd(a),
		newCacheCmd(a),
		newHealthCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(logging.ParseLevel(cfg.LogLevel))
	a.log.Debug("config: api=%s cache=%s detect=%v", cfg.APIURL, cfg.CachePath, cfg.DetectAspects)
	return nil
}

// newClient builds the chart service client. The returned func closes the
// response cache, if one was opened.
func (a *app) newClient(ctx context.Context) (*client.Client, func()) {
	opts := []client.Option{
		client.WithURL(a.cfg.APIURL),
		client.WithTimeout(a.cfg.Timeout),
		client.WithLogger(a.log.With("component", "client")),
		client.WithAspectDetection(a.cfg.DetectAspects),
	}
	closer := func() {}

	if !a.noCache && a.cfg.CachePath != "" {
		store, err := cache.Open(ctx, a.cfg.CachePath, a.cfg.CacheTTL)
		if err != nil {
			// A broken cache must not stop chart generation.
			a.log.Warn("response cache disabled: %v", err)
		} else {
			opts = append(opts, client.WithCache(store))
			closer = func() {
				if err := store.Close(); err != nil {
					a.log.Warn("closing cache: %v", err)
				}
			}
		}
	}
	return client.New(opts...), closer
}

func (a *app) themeStore() theme.Store {
	return theme.Store{Path: a.cfg.ThemeFile}
}

// resolveTheme returns the theme named by flag, or the saved one.
func (a *app) resolveTheme(flag string) (theme.Theme, error) {
	if flag != "" {
		return theme.Parse(flag)
	}
	t, err := a.themeStore().Load()
	if err != nil {
		a.log.Warn("theme: %v", err)
		return theme.Default, nil
	}
	return t, nil
}

// loadChartFile decodes a chart JSON file, either a service response or an
// exported snapshot.
func (a *app) loadChartFile(path string) (*chart.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snap, err := client.DecodeSnapshot(f, client.DecodeOptions{DetectAspects: a.cfg.DetectAspects})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// frameOptions are the flags shared by the commands that draw a wheel.
type frameOptions struct {
	size  float64
	hover string
	theme string
}

func (o *frameOptions) register(cmd *cobra.Command, withTheme bool) {
	cmd.Flags().Float64Var(&o.size, "size", 0, "wheel size in px (default: the configured max size)")
	cmd.Flags().StringVar(&o.hover, "hover", "", `hover target: "body:Sun", "aspect:3" or a body name`)
	if withTheme {
		cmd.Flags().StringVar(&o.theme, "theme", "", "light or dark (default: the saved theme)")
	}
}

// frame lays out snap with the given options.
func (a *app) frame(snap *chart.Snapshot, o frameOptions) (wheel.Frame, error) {
	if o.size != 0 && (o.size < config.MinWheelSize || o.size > config.MaxWheelSize) {
		return wheel.Frame{}, fmt.Errorf("--size must be between %g and %g", config.MinWheelSize, config.MaxWheelSize)
	}
	target, err := wheel.ParseTarget(o.hover)
	if err != nil {
		return wheel.Frame{}, err
	}

	proj := wheel.NewProjector(a.cfg.Wheel)
	proj.Resize(o.size)
	proj.SetChart(snap)
	if target != nil {
		if h := proj.SetHover(target); !h.Active() {
			a.log.Warn("hover %q matches nothing on this chart", o.hover)
		}
	}
	return proj.Frame(), nil
}
