package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/dalipp/pkg/dalipp/server"
)

func newServeCmd(a *app) *cobra.Command {
	var noCapture bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the printers over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.host()
			if err != nil {
				return err
			}
			opts := []server.Option{server.WithLogger(a.logger)}
			if !noCapture {
				rec, store, err := a.recorder(h)
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, server.WithRecorder(rec))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.New(h, opts...).Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&noCapture, "no-capture", false, "disable the capture tools")
	return cmd
}
