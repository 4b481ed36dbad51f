package noderpc

import (
	"context"

	"go.uber.org/zap"

	"chain-metrics/internal/domain"
)

// Fetcher builds snapshots from four independent node queries. The node may
// advance between queries, so a snapshot can mix values from adjacent tips.
type Fetcher struct {
	client NodeClient
	logger *zap.Logger
}

func NewFetcher(client NodeClient, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		logger: logger.Named("fetcher"),
	}
}

// FetchSnapshot runs the queries in order and stops at the first failure.
// The returned snapshot has no ID or capture time; the store assigns those.
func (f *Fetcher) FetchSnapshot(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, domain.RPCError("fetch", err)
	}

	height, err := f.client.GetBlockCount()
	if err != nil {
		return domain.Snapshot{}, domain.RPCError("getblockcount", err)
	}

	hashRate, err := f.client.GetNetworkHashPS()
	if err != nil {
		return domain.Snapshot{}, domain.RPCError("getnetworkhashps", err)
	}

	difficulty, err := f.client.GetDifficulty()
	if err != nil {
		return domain.Snapshot{}, domain.RPCError("getdifficulty", err)
	}

	mempool, err := f.client.GetRawMempool()
	if err != nil {
		return domain.Snapshot{}, domain.RPCError("getrawmempool", err)
	}

	snapshot := domain.Snapshot{
		BlockHeight:     height,
		NetworkHashRate: hashRate,
		Difficulty:      difficulty,
		MempoolSize:     int64(len(mempool)),
	}
	f.logger.Debug("fetched snapshot",
		zap.Int64("block_height", snapshot.BlockHeight),
		zap.Float64("network_hash_rate", snapshot.NetworkHashRate),
		zap.Float64("difficulty", snapshot.Difficulty),
		zap.Int64("mempool_size", snapshot.MempoolSize),
	)
	return snapshot, nil
}
