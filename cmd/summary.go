package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/pulso/internal/config"
	"github.com/okian/pulso/internal/presentation"
	"github.com/okian/pulso/pkg/logger"
	"github.com/spf13/cobra"
)

type summaryFlags struct {
	activities []string
	weekdays   []string
	asJSON     bool
}

func newSummaryCmd(flags *globalFlags) *cobra.Command {
	sf := &summaryFlags{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard metrics for a selection",
		Long: "summary loads the datasets once and prints the metrics and per-category attendance " +
			"for the given activities and weekdays. Omitted filters select every value; an explicit " +
			"empty filter (--activity=) selects nothing.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, err := setup(ctx, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runSummary(ctx, cmd, cfg, log, sf)
		},
	}
	cmd.Flags().StringSliceVar(&sf.activities, "activity", nil, "Activities to include (repeatable or comma separated)")
	cmd.Flags().StringSliceVar(&sf.weekdays, "weekday", nil, "Weekdays to include (repeatable or comma separated)")
	cmd.Flags().BoolVar(&sf.asJSON, "json", false, "Print the full view as JSON")
	return cmd
}

func runSummary(ctx context.Context, cmd *cobra.Command, cfg *config.Config, log logger.Logger, sf *summaryFlags) error {
	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("starting service: %w", err)
	}
	defer svc.Stop()

	sel, err := svc.DefaultSelection(ctx)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("activity") {
		sel.Activities = sf.activities
	}
	if cmd.Flags().Changed("weekday") {
		sel.Weekdays = sf.weekdays
	}

	view, err := svc.Dashboard(ctx, sel)
	if err != nil {
		return err
	}
	if sf.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return printSummary(cmd.OutOrStdout(), view)
}

// printSummary writes a plain-text rendering of view.
func printSummary(out io.Writer, view presentation.View) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, view.Title)
	fmt.Fprintf(tw, "Activities:\t%s\n", joinSelection(view.Selection.Activities))
	fmt.Fprintf(tw, "Weekdays:\t%s\n", joinSelection(view.Selection.Weekdays))
	fmt.Fprintf(tw, "Rows:\t%d\n", view.Rows)
	for _, c := range view.Cards {
		fmt.Fprintf(tw, "%s:\t%s\n", c.Label, c.Display)
	}
	for _, ch := range view.Charts {
		fmt.Fprintf(tw, "\n%s\n", ch.Title)
		if len(ch.Bars) == 0 {
			fmt.Fprintln(tw, "  (no rows)")
		}
		for _, b := range ch.Bars {
			fmt.Fprintf(tw, "  %s\t%s\t(n=%d)\n", b.Label, b.Text, b.Count)
		}
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "%s:\t%s\n", view.Ranking.Title, sectionStatus(view.Ranking))
	fmt.Fprintf(tw, "%s:\t%s\n", view.Predictions.Title, sectionStatus(view.Predictions))
	if view.Quality.Rejected > 0 {
		fmt.Fprintf(tw, "\n%s\n", view.Quality.Note)
	}
	return tw.Flush()
}

func joinSelection(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}

func sectionStatus(s presentation.Section) string {
	if s.Table == nil {
		if s.Reason != "" {
			return s.Status.String() + " (" + s.Reason + ")"
		}
		return s.Status.String()
	}
	return fmt.Sprintf("%s, %d rows", s.Status, len(s.Table.Rows))
}

