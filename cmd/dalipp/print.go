package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/dalipp/pkg/dalipp"
	"github.com/randalmurphal/dalipp/pkg/dalipp/snapshot"
)

func newPrintCmd(a *app) *cobra.Command {
	var (
		name     string
		watch    bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "print FILE...",
		Short: "Render the values of snapshot files",
		Long: `Render every value of one or more snapshot files.

Examples:
  # Render all values
  dalipp print scene.yaml

  # Render one value with only the libdali registry
  dalipp print scene.yaml --name position -r libdali

  # Re-render whenever the file changes
  dalipp print scene.yaml --watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.host()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if watch {
				if len(args) != 1 {
					return fmt.Errorf("--watch takes exactly one file")
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				return watchFile(ctx, a.logger, h, args[0], name, debounce, out)
			}

			for _, path := range args {
				snap, err := snapshot.LoadFile(path)
				if err != nil {
					return err
				}
				if err := printSnapshot(cmd.Context(), out, h, snap, name); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "only render the value with this name")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render when the file changes")
	cmd.Flags().DurationVar(&debounce, "debounce", snapshot.DefaultDebounce, "delay before re-rendering a changed file")
	return cmd
}

// printSnapshot writes "name = rendering" for each value of snap, or only
// for the value called name when it is set.
func printSnapshot(ctx context.Context, w io.Writer, h *dalipp.Host, snap *snapshot.Snapshot, name string) error {
	if name != "" {
		v, ok := snap.Value(name)
		if !ok {
			return fmt.Errorf("%q: %w", name, snapshot.ErrValueNotFound)
		}
		_, err := fmt.Fprintf(w, "%s = %s\n", name, h.Render(ctx, v))
		return err
	}
	for _, nv := range snap.Values {
		if _, err := fmt.Fprintf(w, "%s = %s\n", nv.Name, h.Render(ctx, nv.Value)); err != nil {
			return err
		}
	}
	return nil
}

func watchFile(ctx context.Context, logger *slog.Logger, h *dalipp.Host, path, name string, debounce time.Duration, w io.Writer) error {
	snap, err := snapshot.LoadFile(path)
	if err != nil {
		return err
	}
	if err := printSnapshot(ctx, w, h, snap, name); err != nil {
		return err
	}

	return snapshot.Watch(ctx, path, debounce, func(snap *snapshot.Snapshot, err error) {
		if err != nil {
			logger.Warn("reload failed", slog.String("path", path), slog.Any("error", err))
			return
		}
		fmt.Fprintf(w, "--- %s\n", path)
		if err := printSnapshot(ctx, w, h, snap, name); err != nil {
			logger.Warn("render failed", slog.String("path", path), slog.Any("error", err))
		}
	})
}
