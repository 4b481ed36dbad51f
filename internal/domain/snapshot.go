package domain

import (
	"context"
	"time"
)

// Snapshot is one sample of the tracked chain metrics. ID and CapturedAt are
// assigned by the store on insert.
type Snapshot struct {
	ID              int64     `json:"id"`
	BlockHeight     int64     `json:"block_height"`
	NetworkHashRate float64   `json:"network_hash_rate"`
	Difficulty      float64   `json:"difficulty"`
	MempoolSize     int64     `json:"mempool_size"`
	CapturedAt      time.Time `json:"timestamp"`
}

type SnapshotStore interface {
	Init() error
	Insert(ctx context.Context, snapshot Snapshot) error
	// Latest returns the most recently captured snapshot. found is false
	// when nothing has been stored yet.
	Latest(ctx context.Context) (snapshot Snapshot, found bool, err error)
	Close() error
}

type SnapshotSource interface {
	FetchSnapshot(ctx context.Context) (Snapshot, error)
}
