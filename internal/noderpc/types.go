package noderpc

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// NodeClient is the subset of the node RPC surface a snapshot needs.
	NodeClient interface {
		GetBlockCount() (int64, error)
		GetNetworkHashPS() (float64, error)
		GetDifficulty() (float64, error)
		GetRawMempool() ([]*chainhash.Hash, error)
	}
	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)
