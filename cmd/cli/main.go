package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"roadmapboard/adapters/db"
	"roadmapboard/app"
	"roadmapboard/domain/roadmap"
	"roadmapboard/internal/aggregate"
	"roadmapboard/internal/config"
	"roadmapboard/internal/container"
	"roadmapboard/internal/errors"
	"roadmapboard/internal/logging"
	"roadmapboard/internal/report"
	"roadmapboard/internal/testkit"
)

type options struct {
	source   string
	logLevel string
}

func main() {
	_ = godotenv.Load()

	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "roadmapboard-cli",
		Short:         "Inspect the mobile credentials rollout roadmap from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.source, "source", "", "workbook URL or path (defaults to WORKBOOK_SOURCE)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(
		newSummaryCmd(opts),
		newDepartmentsCmd(opts),
		newTimelineCmd(opts),
		newReportCmd(opts),
		newJSONCmd(opts),
		newHistoryCmd(opts),
		newMigrateCmd(opts),
		newSampleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// session is a loaded container plus the snapshot of a single reload
type session struct {
	container *container.Container
	snapshot  *roadmap.Snapshot
}

func (s *session) close() {
	_ = s.container.Shutdown(context.Background())
	_ = s.container.Logger.Sync()
}

func loadConfig(opts *options) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if opts.source != "" {
		cfg.Workbook.Source = opts.source
	}
	logger, err := logging.New(opts.logLevel, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// load builds the pipeline and performs one reload
func load(ctx context.Context, opts *options) (*session, error) {
	cfg, logger, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	// The CLI never posts to Slack.
	cfg.Slack = config.SlackConfig{}

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	s := &session{container: c}

	snap, err := c.Dashboard.Reload(ctx, app.TriggerCLI)
	if err != nil {
		s.close()
		return nil, err
	}
	s.snapshot = snap
	return s, nil
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show KPIs, forecast and health",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.close()

			view := report.NewView(s.snapshot, s.container.Dashboard.StatusLine(), aggregate.SortAcronym, aggregate.Asc)
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(view))
			return nil
		},
	}
}

func newDepartmentsCmd(opts *options) *cobra.Command {
	var sortKey, dir string
	cmd := &cobra.Command{
		Use:   "departments",
		Short: "Show the department readiness table",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.close()

			view := report.NewView(s.snapshot, "", aggregate.ParseSortKey(sortKey), aggregate.ParseDirection(dir))
			fmt.Fprintln(cmd.OutOrStdout(), renderDepartments(view))
			return nil
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", string(aggregate.SortAcronym), "sort column")
	cmd.Flags().StringVar(&dir, "dir", string(aggregate.Asc), "sort direction (asc or desc)")
	return cmd
}

func newTimelineCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Show upcoming rollout milestones",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.close()

			view := report.NewView(s.snapshot, "", aggregate.SortAcronym, aggregate.Asc)
			fmt.Fprintln(cmd.OutOrStdout(), renderTimeline(view))
			return nil
		},
	}
}

func newReportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the Markdown status report",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.close()

			fmt.Fprint(cmd.OutOrStdout(), report.Markdown(s.snapshot, s.container.Dashboard.StatusLine()))
			return nil
		},
	}
}

func newJSONCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "json",
		Short: "Print the full snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s.snapshot)
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent workbook loads",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()
			if !cfg.Database.Enabled() {
				return errors.ConfigInvalid("load history is disabled (DATABASE_URL=none)")
			}

			conn, err := db.Open(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer conn.Close()

			records, err := db.NewHistoryRepository(conn).Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(records))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", db.DefaultHistoryLimit, "number of loads to show")
	return cmd
}

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the load history schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			conn, err := db.Open(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer conn.Close()

			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Load history schema is up to date ("+conn.DriverName()+")"))
			return nil
		},
	}
}

func newSampleCmd() *cobra.Command {
	cfg := testkit.DefaultRoadmapConfig()
	var start string

	cmd := &cobra.Command{
		Use:   "sample <path>",
		Short: "Write a synthetic roadmap workbook for demos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if start != "" {
				t, err := time.Parse("2006-01-02", start)
				if err != nil {
					return errors.InvalidInput("start must be YYYY-MM-DD")
				}
				cfg.StartDate = t
			}
			if err := testkit.NewRoadmapGenerator(cfg).WriteFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Wrote %d departments to %s", cfg.DepartmentCount, args[0])))
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.DepartmentCount, "departments", cfg.DepartmentCount, "number of departments")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	cmd.Flags().Float64Var(&cfg.RiskRate, "risk-rate", cfg.RiskRate, "share of rollouts with a delay note")
	cmd.Flags().Float64Var(&cfg.UnscheduledRate, "unscheduled-rate", cfg.UnscheduledRate, "share of departments without a rollout")
	cmd.Flags().StringVar(&start, "start", "", "rollout window start date (default today)")
	return cmd
}
