package ingest

import (
	"context"
	"time"

	"chain-metrics/internal/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	SnapshotSource interface {
		FetchSnapshot(ctx context.Context) (domain.Snapshot, error)
	}
	SnapshotWriter interface {
		Insert(ctx context.Context, snapshot domain.Snapshot) error
	}
	Metrics interface {
		ObserveIngest(origin string, err error, started time.Time)
		SetFetching(fetching bool)
	}
	Pipeline interface {
		FetchAndIngest(ctx context.Context, origin string) (domain.Snapshot, error)
	}
)
