package main

import (
	"context"
	"fmt"
	"time"

	"capturebox/internal/app"
	review "capturebox/internal/services/review/domain"

	"github.com/spf13/cobra"
)

func reviewCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Inspect and resolve the review queue",
	}
	cmd.AddCommand(reviewListCmd(open))
	cmd.AddCommand(reviewActionCmd(open, "accept", review.Accept, "Commit an item to its tracker"))
	cmd.AddCommand(reviewActionCmd(open, "reject", review.Reject, "Drop an item without writing it"))
	cmd.AddCommand(reviewActCmd(open))
	return cmd
}

func reviewListCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending and flagged items, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tracker, _ := cmd.Flags().GetString("tracker")
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				items, err := a.Review.Service().GetItemsNeedingReview(ctx, tracker)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if jsonOut(cmd) {
					return writeJSON(w, items)
				}
				if len(items) == 0 {
					fmt.Fprintln(w, "review queue is empty")
					return nil
				}
				for _, it := range items {
					fmt.Fprintf(w, "%s  %-8s %3.0f%%  %s/%s  %s  %s\n",
						it.ID, it.Status, it.Confidence*100, it.CurrentTracker, it.CurrentSection,
						it.Timestamp.Format(time.DateTime), it.Content)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringP("tracker", "t", "", "Only items routed to this tracker")
	return cmd
}

func reviewActionCmd(open opener, use string, action review.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, open, args[0], action, review.Values{})
		},
	}
}

func reviewActCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "act <id> <action>",
		Short: "Apply any review action (accept, reject, edit-priority, edit-tags, edit-type, move)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v review.Values
			v.Priority, _ = cmd.Flags().GetString("priority")
			v.Tags, _ = cmd.Flags().GetStringSlice("tags")
			v.Type, _ = cmd.Flags().GetString("type")
			v.Tracker, _ = cmd.Flags().GetString("tracker")
			v.Section, _ = cmd.Flags().GetString("section")
			return runAction(cmd, open, args[0], review.Action(args[1]), v)
		},
	}
	cmd.Flags().String("priority", "", "New priority for edit-priority")
	cmd.Flags().StringSlice("tags", nil, "New tags for edit-tags")
	cmd.Flags().String("type", "", "New item type for edit-type")
	cmd.Flags().String("tracker", "", "Target tracker for move")
	cmd.Flags().String("section", "", "Target section for move")
	return cmd
}

func runAction(cmd *cobra.Command, open opener, id string, action review.Action, v review.Values) error {
	return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
		it, err := a.Review.Service().ProcessReviewAction(ctx, id, action, v)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOut(cmd) {
			return writeJSON(w, it)
		}
		fmt.Fprintf(w, "%s %s: %s (%s/%s)\n", action, it.ID, it.Status, it.CurrentTracker, it.CurrentSection)
		return nil
	})
}
