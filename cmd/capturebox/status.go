package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"capturebox/internal/app"

	"github.com/spf13/cobra"
)

func statusCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tracker counts and the review backlog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				st, err := a.Capture.Service().GetStatus(ctx)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if jsonOut(cmd) {
					return writeJSON(w, st)
				}

				fmt.Fprintln(w, "capturebox status")
				fmt.Fprintln(w, strings.Repeat("=", 40))
				fmt.Fprintf(w, "  %-16s %d\n", "trackers:", st.Trackers)
				types := make([]string, 0, len(st.ByContextType))
				for k := range st.ByContextType {
					types = append(types, k)
				}
				sort.Strings(types)
				for _, k := range types {
					fmt.Fprintf(w, "    %-14s %d\n", k+":", st.ByContextType[k])
				}
				fmt.Fprintf(w, "  %-16s %d\n", "pending review:", st.PendingReview)
				return nil
			})
		},
	}
}
