package ingest

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"chain-metrics/internal/domain"
)

// Ingester writes snapshots to the store, either as given or freshly fetched
// from the node. It is shared by the scheduler and the HTTP handlers.
type Ingester struct {
	logger  *zap.Logger
	source  SnapshotSource
	store   SnapshotWriter
	metrics Metrics
}

func NewIngester(source SnapshotSource, store SnapshotWriter, metrics Metrics, logger *zap.Logger) (*Ingester, error) {
	if source == nil {
		return nil, errors.New("snapshot source is required")
	}
	if store == nil {
		return nil, errors.New("snapshot store is required")
	}
	if metrics == nil {
		return nil, errors.New("ingest metrics is required")
	}

	return &Ingester{
		logger:  logger.Named("ingester"),
		source:  source,
		store:   store,
		metrics: metrics,
	}, nil
}

// Ingest stores a caller-supplied snapshot verbatim.
func (i *Ingester) Ingest(ctx context.Context, origin string, snapshot domain.Snapshot) (err error) {
	started := time.Now()
	defer func() {
		i.metrics.ObserveIngest(origin, err, started)
	}()

	return i.store.Insert(ctx, snapshot)
}

// FetchAndIngest queries the node and stores the result. The store is only
// touched after a successful fetch, so a stalled node never holds the store.
func (i *Ingester) FetchAndIngest(ctx context.Context, origin string) (snapshot domain.Snapshot, err error) {
	started := time.Now()
	defer func() {
		i.metrics.ObserveIngest(origin, err, started)
	}()

	snapshot, err = i.source.FetchSnapshot(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if err = i.store.Insert(ctx, snapshot); err != nil {
		return domain.Snapshot{}, err
	}

	i.logger.Debug("snapshot ingested",
		zap.String("origin", origin),
		zap.Int64("block_height", snapshot.BlockHeight),
		zap.Duration("took", time.Since(started)),
	)
	return snapshot, nil
}
