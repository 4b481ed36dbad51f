package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"chain-metrics/internal/config"
	"chain-metrics/internal/domain"
	"chain-metrics/internal/ingest"
	"chain-metrics/internal/metrics"
	"chain-metrics/internal/noderpc"
	"chain-metrics/internal/repository"
	"chain-metrics/internal/util"
)

func main() {
	var cfg config.Ingest
	if err := config.Parse(&cfg, os.Args[1:]); err != nil {
		if errors.Is(err, config.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		log.Printf("Ingestion failed (%s): %v", domain.KindOf(err), err)
		os.Exit(1)
	}
}

func run(cfg config.Ingest) error {
	level, err := util.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	util.SetLoggerPath(cfg.Log.Dir)
	if err := util.CheckAndCreateLogFolder(cfg.Log.Dir); err != nil {
		return err
	}
	util.SetCommonLoggerAttributes(level)

	var metricsLogger util.MetricsLogger
	if err := metricsLogger.Init("ingest.log", false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer metricsLogger.DeInit()
	logger := metricsLogger.Zap()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqliteStore := repository.NewSQLiteStore(cfg.Store.DBPath)
	if err := sqliteStore.Init(); err != nil {
		return fmt.Errorf("failed to initialize SQLite store for ingestion: %w", err)
	}
	defer sqliteStore.Close()

	rpcClient, err := noderpc.NewClient(cfg.RPC)
	if err != nil {
		return err
	}
	node := noderpc.NewObservedClient(rpcClient, metrics.NewRPCClient())
	defer node.Shutdown()

	ingester, err := ingest.NewIngester(noderpc.NewFetcher(node, logger), sqliteStore, metrics.NewIngest(), logger)
	if err != nil {
		return err
	}

	snapshot, err := ingester.FetchAndIngest(ctx, ingest.OriginCLI)
	if err != nil {
		return err
	}

	logger.Info("data ingestion complete", zap.Int64("block_height", snapshot.BlockHeight))
	printSnapshot(os.Stdout, snapshot)
	return nil
}

func printSnapshot(w io.Writer, snapshot domain.Snapshot) {
	fmt.Fprintf(w, "Block Height: %d\n", snapshot.BlockHeight)
	fmt.Fprintf(w, "Network Hash Rate: %g\n", snapshot.NetworkHashRate)
	fmt.Fprintf(w, "Difficulty: %g\n", snapshot.Difficulty)
	fmt.Fprintf(w, "Mempool Size: %d\n", snapshot.MempoolSize)
}
