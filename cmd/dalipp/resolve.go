package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/dalipp/pkg/dalipp"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve TYPE...",
		Short: "Show which printer each registry selects for a type name",
		Long: `Show which printer each registry selects for a type name, and by
which rule: exact name, template base name or generic marker.

Examples:
  dalipp resolve 'Dali::Vector<int>' Dali::Actor`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.host()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tREGISTRY\tMATCH\tPRINTER\tENABLED")
			for _, typeName := range args {
				for _, r := range h.Registries() {
					entry, match := r.Resolve(typeName)
					printer, enabled := "-", "-"
					if entry != nil {
						printer = entry.Name()
						enabled = fmt.Sprint(entry.Enabled())
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", typeName, r.Name(), match, printer, enabled)
				}
			}
			return tw.Flush()
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var registry string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed registries and their printers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.host()
			if err != nil {
				return err
			}

			regs := h.Registries()
			if registry != "" {
				r, ok := h.Registry(registry)
				if !ok {
					return fmt.Errorf("no registry named %q", registry)
				}
				regs = []*dalipp.Registry{r}
			}

			out := cmd.OutOrStdout()
			for _, r := range regs {
				fmt.Fprintf(out, "%s (%d printers)\n", r.Name(), r.Len())
				for e := range r.Entries() {
					state := ""
					if !e.Enabled() {
						state = " [disabled]"
					}
					fmt.Fprintf(out, "  %s%s\n", e.Name(), state)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&registry, "only", "", "only list this registry")
	return cmd
}
