package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/semperland/events-grabber/internal/chain"
	"github.com/semperland/events-grabber/internal/config"
	"github.com/semperland/events-grabber/internal/db"
	"github.com/semperland/events-grabber/internal/grabber"
	"github.com/semperland/events-grabber/internal/logger"
	"github.com/semperland/events-grabber/internal/metrics"
	"github.com/semperland/events-grabber/internal/migrations"
	"github.com/semperland/events-grabber/pkg/api"
)

const version = "1.0.0"

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "grabber",
	Short: "Events grabber - metaverse contract event indexer",
	Long: `The events grabber follows the on-chain metaverse contracts and keeps a
local, queryable copy of their state: balances, deals, token metadata,
permissions, sponsorships and global parameters. It runs grab cycles
forever, pausing between them.`,
	Version: version,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), false)
	},
}

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single grab cycle and exit",
	Long: `Run one grab cycle: collect every contract event since the stored
checkpoint, apply them in chain order and advance the checkpoint.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), true)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	rootCmd.AddCommand(onceCmd)
}

func run(ctx context.Context, once bool) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Close() }()

	logger.SetDefaultLogger(log)

	log.Info("Connecting to Ethereum node...")

	client, err := chain.Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", cfg.Chain.RPCURL, err)
	}
	defer client.Close()

	log.Info("Running database migrations...")

	if err := migrations.RunMigrations(cfg.DB.Path); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	database, err := db.NewSQLiteDBFromConfig(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	log.Info("Resolving contract addresses...")

	contracts, err := chain.ResolveContracts(ctx, client, cfg.Chain)
	if err != nil {
		return fmt.Errorf("failed to resolve contracts: %w", err)
	}

	for _, contract := range contracts.All() {
		log.Infow("contract resolved", "name", contract.Name, "address", contract.Address.Hex())
	}

	runner := newRunner(cfg, database, client, contracts, log)

	if once {
		result, err := runner.RunCycle(ctx)
		if err != nil {
			return fmt.Errorf("grab cycle failed: %w", err)
		}

		if result.Skipped {
			log.Infow("nothing to grab", "head", result.EndBlock)
		} else {
			log.Infow("grab cycle finished",
				"start", result.StartBlock, "end", result.EndBlock,
				"collected", result.Collected, "applied", result.Applied)
		}

		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return runner.Run(groupCtx)
	})

	if cfg.Metrics != nil {
		metricsServer := metrics.NewServer(cfg.Metrics, log)

		group.Go(func() error {
			return metricsServer.Start(groupCtx)
		})
	}

	if cfg.API != nil {
		apiServer := api.NewServer(cfg.API, database, log)

		group.Go(func() error {
			return apiServer.Start(groupCtx)
		})
	}

	if err := group.Wait(); err != nil && err != context.Canceled {
		return err
	}

	log.Info("Shutdown complete")

	return nil
}

func newRunner(cfg *config.Config, database *sql.DB, client *chain.Client,
	contracts *chain.ContractSet, log *logger.Logger) *grabber.Runner {
	downloader := grabber.NewDownloader(client, contracts.Metaverse, cfg.Grabber.MetadataTimeout, log)

	handlers := []grabber.Handler{
		grabber.NewMetaverseHandler(contracts.Metaverse),
		grabber.NewBrandRegistryHandler(contracts.BrandRegistry, downloader),
		grabber.NewEconomyHandler(contracts.Economy),
		grabber.NewSponsorRegistryHandler(contracts.SponsorRegistry),
		grabber.NewCurrencyDefinitionHandler(contracts.CurrencyDefining, downloader),
		grabber.NewCurrencyMintingHandler(contracts.CurrencyMinting),
	}

	return grabber.NewRunner(database, client, handlers, grabber.RunnerConfig{
		LockPath:        cfg.Grabber.LockPath,
		UseTransactions: cfg.Grabber.UseTransactions,
		Interval:        cfg.Grabber.Interval,
	}, log)
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	level := "info"
	development := false

	if cfg.Logging != nil {
		level = cfg.Logging.Level
		development = cfg.Logging.Development
	}

	return logger.NewLogger(level, development)
}
