package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/pulso/internal/adapters/repository"
	app "github.com/okian/pulso/internal/app"
	"github.com/okian/pulso/internal/config"
	"github.com/okian/pulso/internal/domain/attendance"
	"github.com/okian/pulso/pkg/logger"
	"github.com/spf13/cobra"
)

var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	dotenvPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the bare binary serves the dashboard.
func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "pulso",
		Short:         "Attendance and satisfaction dashboard",
		Long:          "pulso serves an interactive attendance/satisfaction dashboard with optional ranking and absence predictions.",
		Version:       version,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&flags.dotenvPath, "env-file", "", "Path to a .env file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	serve := newServeCmd(flags)
	root.RunE = serve.RunE
	root.AddCommand(serve)
	root.AddCommand(newSummaryCmd(flags))
	root.AddCommand(newGenerateCmd(flags))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "pulso", version)
		},
	}
}

// setup loads configuration and initializes logging to w.
func setup(ctx context.Context, flags *globalFlags, w io.Writer) (*config.Config, logger.Logger, error) {
	var opts []config.LoadOption
	if flags.configPath != "" {
		opts = append(opts, config.WithFile(flags.configPath))
	}
	if flags.dotenvPath != "" {
		opts = append(opts, config.WithDotenv(flags.dotenvPath))
	}
	cfg, err := config.Load(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := logger.Init(logger.WithWriter(w), logger.WithFormat(cfg.LogFormat)); err != nil {
		return nil, nil, fmt.Errorf("initializing logging: %w", err)
	}
	log := logger.Get()

	level := cfg.LogLevel
	if flags.verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, log, nil
}

// newService wires the file-backed repository into a dashboard service.
func newService(cfg *config.Config, log logger.Logger) (*app.Service, error) {
	policy, err := attendance.ParsePolicy(cfg.ValidationPolicy)
	if err != nil {
		return nil, err
	}
	src := repository.NewFileSource(cfg.AttendancePath,
		repository.WithSheet(cfg.AttendanceSheet),
		repository.WithPolicy(policy),
		repository.WithRankingPath(cfg.RankingPath),
		repository.WithPredictionsPath(cfg.PredictionsPath),
		repository.WithLogger(log.Named("repository")),
	)
	return app.New(
		app.WithLoader(repository.NewCache(src)),
		app.WithTopN(cfg.TopN),
		app.WithTitle(cfg.Title),
		app.WithNoDataLabel(cfg.NoDataLabel),
		app.WithSessionTTL(time.Duration(cfg.SessionTTLMinutes)*time.Minute),
		app.WithMaxSessions(cfg.MaxSessions),
		app.WithLogger(log.Named("service")),
	), nil
}
