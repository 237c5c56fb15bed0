package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/clipfuellabs/clipfuel/internal/accrual"
	accrualdomain "github.com/clipfuellabs/clipfuel/internal/accrual/domain"
	"github.com/clipfuellabs/clipfuel/internal/boost"
	"github.com/clipfuellabs/clipfuel/internal/campaign"
	"github.com/clipfuellabs/clipfuel/internal/clock"
	"github.com/clipfuellabs/clipfuel/internal/config"
	"github.com/clipfuellabs/clipfuel/internal/demographics"
	"github.com/clipfuellabs/clipfuel/internal/ledger"
	"github.com/clipfuellabs/clipfuel/internal/migration"
	"github.com/clipfuellabs/clipfuel/internal/observability"
	"github.com/clipfuellabs/clipfuel/internal/redis"
	"github.com/clipfuellabs/clipfuel/internal/scheduler"
	"github.com/clipfuellabs/clipfuel/internal/server"
	"github.com/clipfuellabs/clipfuel/pkg/db"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "clipfuel",
		Short:   "ClipFuel creator-marketing backend",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newServeCmd(), newSchedulerCmd(), newAccrueCmd(), newAllCmd())
	return root
}

func readVersionFromEnv() string {
	if v := os.Getenv("CLIPFUEL_VERSION"); v != "" {
		return v
	}
	return "dev"
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newSchedulerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run the periodic accrual scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			runScheduler()
			return nil
		},
	}
}

func newAccrueCmd() *cobra.Command {
	var sourceType string
	var sourceID string

	cmd := &cobra.Command{
		Use:   "accrue",
		Short: "Execute one accrual run and print the summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccrueOnce(accrualdomain.RunRequest{
				SourceType: sourceType,
				SourceID:   sourceID,
			})
		},
	}
	cmd.Flags().StringVar(&sourceType, "source-type", "", "restrict the run to one source type (campaign|boost)")
	cmd.Flags().StringVar(&sourceID, "source-id", "", "restrict the run to one source id (requires --source-type)")
	return cmd
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run migrations, then the API server and scheduler together",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(); err != nil {
				return err
			}
			runMonolith()
			return nil
		},
	}
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func coreModules() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		redis.Module,

		demographics.Module,
		campaign.Module,
		boost.Module,
		ledger.Module,
		accrual.Module,
	)
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	return app.Stop(context.Background())
}

func runServe() {
	app := fx.New(
		coreModules(),
		server.Module,
	)
	app.Run()
}

func runScheduler() {
	app := fx.New(
		coreModules(),
		scheduler.Module,
		fx.Invoke(startScheduler),
	)
	app.Run()
}

func runMonolith() {
	app := fx.New(
		coreModules(),
		server.Module,
		scheduler.Module,
		fx.Invoke(startScheduler),
	)
	app.Run()
}

func startScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go s.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func runAccrueOnce(req accrualdomain.RunRequest) error {
	var svc accrualdomain.Service

	app := fx.New(
		coreModules(),
		fx.Populate(&svc),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		_ = app.Stop(context.Background())
	}()

	summary, err := svc.Run(context.Background(), req)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
