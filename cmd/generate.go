package main

import (
	"fmt"

	"github.com/okian/pulso/internal/sampledata"
	"github.com/spf13/cobra"
)

func newGenerateCmd(flags *globalFlags) *cobra.Command {
	gen := sampledata.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write simulated attendance, ranking and prediction files",
		Long: "generate writes a simulated attendance workbook plus the ranking and prediction " +
			"CSV files to the configured paths. The same seed always produces the same files.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, err := setup(ctx, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			gen.AttendancePath = cfg.AttendancePath
			gen.RankingPath = cfg.RankingPath
			gen.PredictionsPath = cfg.PredictionsPath
			gen.Logger = log.Named("sampledata")

			rep, err := sampledata.Generate(ctx, gen)
			if err != nil {
				return fmt.Errorf("generating sample data: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Participants: %d\n", rep.Participants)
			fmt.Fprintf(out, "Rows: %d (%d attended)\n", rep.Rows, rep.Attended)
			for _, f := range rep.Files {
				fmt.Fprintf(out, "Wrote %s\n", f)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&gen.Participants, "participants", gen.Participants, "Number of simulated participants")
	cmd.Flags().IntVar(&gen.Weeks, "weeks", gen.Weeks, "Number of simulated weeks")
	cmd.Flags().Int64Var(&gen.Seed, "seed", gen.Seed, "Random seed")
	cmd.Flags().BoolVar(&gen.SkipRanking, "skip-ranking", false, "Do not write the ranking file")
	cmd.Flags().BoolVar(&gen.SkipPredictions, "skip-predictions", false, "Do not write the predictions file")
	return cmd
}
