package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chain_metrics"

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operations_total",
		Help:      "Count of Bitcoin node RPC operations.",
	}, []string{"operation", "status"})
	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of Bitcoin node RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// RPCClient records the outcome of calls to the Bitcoin node.
type RPCClient struct{}

func NewRPCClient() *RPCClient {
	return &RPCClient{}
}

// Observe records a single RPC call outcome and duration.
func (RPCClient) Observe(operation string, err error, started time.Time) {
	status := statusLabel(err)

	rpcRequestsTotal.WithLabelValues(operation, status).Inc()
	rpcRequestDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
