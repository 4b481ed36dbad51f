package noderpc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
)

// ObservedClient wraps the btcd rpc client with metrics instrumentation.
type ObservedClient struct {
	client     *rpcclient.Client
	rpcMetrics RPCMetrics
}

func NewObservedClient(client *rpcclient.Client, rpcMetrics RPCMetrics) *ObservedClient {
	return &ObservedClient{
		client:     client,
		rpcMetrics: rpcMetrics,
	}
}

func (r *ObservedClient) GetBlockCount() (count int64, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_count", err, started)
	}()
	return r.client.GetBlockCount()
}

// GetNetworkHashPS estimates the network hash rate over the node's default
// window. bitcoind reports it as a JSON float, so the raw result is decoded
// here.
func (r *ObservedClient) GetNetworkHashPS() (rate float64, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_network_hash_ps", err, started)
	}()

	raw, err := r.client.RawRequest("getnetworkhashps", []json.RawMessage{})
	if err != nil {
		return 0, err
	}
	if err = json.Unmarshal(raw, &rate); err != nil {
		return 0, fmt.Errorf("decode getnetworkhashps result: %w", err)
	}
	return rate, nil
}

func (r *ObservedClient) GetDifficulty() (difficulty float64, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_difficulty", err, started)
	}()
	return r.client.GetDifficulty()
}

func (r *ObservedClient) GetRawMempool() (hashes []*chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_raw_mempool", err, started)
	}()
	return r.client.GetRawMempool()
}

// Shutdown stops the underlying client and waits for it to finish.
func (r *ObservedClient) Shutdown() {
	r.client.Shutdown()
	r.client.WaitForShutdown()
}
