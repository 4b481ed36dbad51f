package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"chain-metrics/internal/config"
	"chain-metrics/internal/ingest"
	"chain-metrics/internal/metrics"
	"chain-metrics/internal/noderpc"
	"chain-metrics/internal/repository"
	"chain-metrics/internal/router"
	"chain-metrics/internal/util"
)

func LoggerInitialize(cfg config.Log) (*util.MetricsLogger, error) {

	metricsLogger := &util.MetricsLogger{}

	if err := ConstructAndCreateLogFolder(cfg); err != nil {
		return nil, err
	}

	if err := metricsLogger.Init("webService.log", false); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	metricsLogger.LogEvent(util.LOG_LEVEL_INFO, "Service started")

	currentTime := time.Now().Format(time.RFC3339)

	fmt.Fprintf(os.Stderr, "\n%s: Chain metrics server started \n", currentTime)

	return metricsLogger, nil
}

func main() {
	var cfg config.API
	if err := config.Parse(&cfg, os.Args[1:]); err != nil {
		if errors.Is(err, config.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	metricsLogger, err := LoggerInitialize(cfg.Log)
	if err != nil {
		fmt.Println("Error while initializing the logger..", err)
		os.Exit(1)
	}
	defer metricsLogger.DeInit()
	logger := metricsLogger.Zap()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := repository.NewSQLiteStore(cfg.Store.DBPath)
	if err := store.Init(); err != nil {
		logger.Fatal("failed to initialize snapshot store", zap.String("path", cfg.Store.DBPath), zap.Error(err))
	}
	defer store.Close()

	rpcClient, err := noderpc.NewClient(cfg.RPC)
	if err != nil {
		logger.Fatal("failed to create bitcoin rpc client", zap.Error(err))
	}
	node := noderpc.NewObservedClient(rpcClient, metrics.NewRPCClient())
	defer node.Shutdown()

	ingestMetrics := metrics.NewIngest()
	ingester, err := ingest.NewIngester(noderpc.NewFetcher(node, logger), store, ingestMetrics, logger)
	if err != nil {
		logger.Fatal("failed to create ingester", zap.Error(err))
	}

	scheduler, err := ingest.NewScheduler(ingester, ingestMetrics, cfg.Server.IngestInterval, logger)
	if err != nil {
		logger.Fatal("failed to create scheduler", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := scheduler.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return router.Run(gctx, cfg.Server.ListenAddr, router.NewHandler(store, ingester, metricsLogger), logger)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

func ConstructAndCreateLogFolder(cfg config.Log) error {
	level, err := util.ParseLogLevel(cfg.Level)
	if err != nil {
		return err
	}

	util.SetLoggerPath(cfg.Dir)
	if err := util.CheckAndCreateLogFolder(cfg.Dir); err != nil {
		return err
	}
	util.SetCommonLoggerAttributes(level)
	return nil
}
