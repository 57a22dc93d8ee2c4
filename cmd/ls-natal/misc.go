package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/cache"
	"github.com/litescript/ls-natal/internal/theme"
	"github.com/litescript/ls-natal/internal/version"
)

func newThemeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the saved theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.themeStore()
			current, err := store.Load()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Println(current)
				return nil
			}

			next := current.Toggle()
			if args[0] != "toggle" {
				if next, err = theme.Parse(args[0]); err != nil {
					return err
				}
			}
			if err := store.Save(next); err != nil {
				return err
			}
			fmt.Println(next)
			return nil
		},
	}
}

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the response cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(cmd.Context(), a.cfg.CachePath, a.cfg.CacheTTL)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Prune(cmd.Context())
			if err != nil {
				return err
			}
			left, err := store.Len(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("pruned %d entries, %d left in %s\n", n, left, a.cfg.CachePath)
			return nil
		},
	})
	return cmd
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the chart service is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeCache := a.newClient(cmd.Context())
			defer closeCache()

			if err := c.Health(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", c.URL(), err)
			}
			fmt.Fprintf(os.Stdout, "%s: OK\n", c.URL())
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("ls-natal " + version.Version)
		},
	}
}
