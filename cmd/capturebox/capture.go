package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"capturebox/internal/app"
	capture "capturebox/internal/services/capture/domain"

	"github.com/spf13/cobra"
)

var errCaptureFailed = errors.New("capture failed")

func captureCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture [text...]",
		Short: "Classify one note and store it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := capture.Input{Text: strings.Join(args, " ")}
			in.InputType, _ = cmd.Flags().GetString("input-type")
			in.ForceContext, _ = cmd.Flags().GetString("context")

			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				res := a.Capture.Service().Capture(ctx, in)
				if err := printResults(cmd, []capture.Result{res}); err != nil {
					return err
				}
				if !res.Success {
					return errCaptureFailed
				}
				return nil
			})
		},
	}
	cmd.Flags().StringP("context", "c", "", "Prefer this tracker or context type")
	cmd.Flags().String("input-type", "text", "Input type recorded with the capture (text, voice)")
	return cmd
}

func batchCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Capture every non-blank line of stdin in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inputs, err := readLines(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return errors.New("no input lines")
			}
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				results := a.Capture.Service().CaptureBatch(ctx, inputs)
				if err := printResults(cmd, results); err != nil {
					return err
				}
				for _, r := range results {
					if !r.Success {
						return errCaptureFailed
					}
				}
				return nil
			})
		},
	}
}

func readLines(r io.Reader) ([]capture.Input, error) {
	var out []capture.Input
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, capture.Input{Text: line})
		}
	}
	return out, sc.Err()
}

func printResults(cmd *cobra.Command, results []capture.Result) error {
	w := cmd.OutOrStdout()
	if jsonOut(cmd) {
		if len(results) == 1 {
			return writeJSON(w, results[0])
		}
		return writeJSON(w, results)
	}
	for _, r := range results {
		switch {
		case !r.Success:
			fmt.Fprintf(w, "FAILED   %s\n", r.Error)
		case r.Emergency:
			fmt.Fprintf(w, "EMERGENCY -> %s (%s)\n", r.PrimaryTracker, r.Error)
		case r.RequiresReview && r.ReviewID != "":
			fmt.Fprintf(w, "REVIEW   %s (confidence %.0f%%)\n", r.ReviewID, r.Confidence*100)
		default:
			fmt.Fprintf(w, "OK       -> %s (confidence %.0f%%)\n", r.PrimaryTracker, r.Confidence*100)
		}
		for _, c := range r.CompletedTasks {
			if c.Success {
				fmt.Fprintf(w, "  x %s: %s\n", c.Tracker, c.Description)
			}
		}
		for _, it := range r.ItemResults {
			mark := "+"
			if !it.Success {
				mark = "!"
			}
			fmt.Fprintf(w, "  %s %s/%s %s\n", mark, it.Tracker, it.Section, it.FormattedEntry)
		}
	}
	return nil
}
