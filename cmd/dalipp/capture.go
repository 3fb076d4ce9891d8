package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/dalipp/pkg/dalipp/capture"
	"github.com/randalmurphal/dalipp/pkg/dalipp/snapshot"
)

func newCaptureCmd(a *app) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "capture FILE...",
		Short: "Record snapshot values into the capture store",
		Long: `Record every value of the given snapshot files into the capture
store under one session. The session ID is printed on success.

Examples:
  dalipp capture scene.yaml
  dalipp capture scene.yaml --session 3f1c... --capture-path /tmp/dalipp.db`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.host()
			if err != nil {
				return err
			}
			rec, store, err := a.recorder(h)
			if err != nil {
				return err
			}
			defer store.Close()

			if session == "" {
				session = capture.NewSessionID()
			}
			total := 0
			for _, path := range args {
				snap, err := snapshot.LoadFile(path)
				if err != nil {
					return err
				}
				n, err := rec.Record(cmd.Context(), session, snap)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				total += n
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d values)\n", session, total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "session ID (default: a new UUID)")
	return cmd
}

func newReplayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "replay SESSION",
		Short: "Re-render the values of a capture session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.host()
			if err != nil {
				return err
			}
			rec, store, err := a.recorder(h)
			if err != nil {
				return err
			}
			defer store.Close()

			replayed, err := rec.Replay(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(replayed) == 0 {
				return fmt.Errorf("session %q: %w", args[0], capture.ErrNotFound)
			}
			out := cmd.OutOrStdout()
			for _, rep := range replayed {
				fmt.Fprintf(out, "%s = %s\n", rep.Info.Name, rep.Rendered)
			}
			return nil
		},
	}
}

func newSessionsCmd(a *app) *cobra.Command {
	var (
		remove bool
		names  []string
	)

	cmd := &cobra.Command{
		Use:   "sessions [SESSION]",
		Short: "List capture sessions, or the captures of one session",
		Long: `List capture sessions, or the captures of one session.

With --delete the session is removed from the store instead; --name limits
the deletion to the given values.

Examples:
  dalipp sessions
  dalipp sessions 3f1c...
  dalipp sessions 3f1c... --delete --name position`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if remove {
				if len(args) == 0 {
					return fmt.Errorf("--delete needs a SESSION")
				}
				return deleteSession(cmd, a, args[0], names)
			}

			store, err := a.cfg.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				sessions, err := store.Sessions()
				if err != nil {
					return err
				}
				for _, s := range sessions {
					fmt.Fprintln(out, s)
				}
				return nil
			}

			infos, err := store.List(args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tSEQ\tSIZE\tTIME")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
					info.Name, info.TypeName, info.Sequence, info.Size, info.Timestamp.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&remove, "delete", false, "delete the session instead of listing it")
	cmd.Flags().StringSliceVarP(&names, "name", "n", nil, "with --delete, only delete these values")
	return cmd
}

func deleteSession(cmd *cobra.Command, a *app, session string, names []string) error {
	rec, store, err := a.recorder(nil)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := rec.Delete(cmd.Context(), session, names...)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %q: %w", session, capture.ErrNotFound)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d captures from %s\n", n, session)
	return nil
}
