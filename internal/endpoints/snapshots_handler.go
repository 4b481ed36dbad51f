package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"chain-metrics/internal/domain"
	"chain-metrics/internal/ingest"
	"chain-metrics/internal/util"
)

const (
	maxRequestBodyBytes = 1 << 20

	welcomeMessage       = "Welcome to the Blockchain Server"
	ingestedMessage      = "Data ingested successfully"
	fetchIngestedMessage = "Data fetched and ingested successfully"
)

var (
	errMissingField  = errors.New("missing required field")
	errNegativeField = errors.New("field must not be negative")
	errTrailingData  = errors.New("unexpected data after request body")
)

// IngestRequest is the wire form of a manual ingest. All four fields are
// required; pointers tell a missing field from a zero one.
type IngestRequest struct {
	BlockHeight     *int64   `json:"block_height"`
	NetworkHashRate *float64 `json:"network_hash_rate"`
	Difficulty      *float64 `json:"difficulty"`
	MempoolSize     *int64   `json:"mempool_size"`
}

func (req IngestRequest) Snapshot() (domain.Snapshot, error) {
	if req.BlockHeight == nil || req.NetworkHashRate == nil || req.Difficulty == nil || req.MempoolSize == nil {
		return domain.Snapshot{}, errMissingField
	}
	if *req.BlockHeight < 0 || *req.NetworkHashRate < 0 || *req.Difficulty < 0 || *req.MempoolSize < 0 {
		return domain.Snapshot{}, errNegativeField
	}
	return domain.Snapshot{
		BlockHeight:     *req.BlockHeight,
		NetworkHashRate: *req.NetworkHashRate,
		Difficulty:      *req.Difficulty,
		MempoolSize:     *req.MempoolSize,
	}, nil
}

type Ingester interface {
	Ingest(ctx context.Context, origin string, snapshot domain.Snapshot) error
	FetchAndIngest(ctx context.Context, origin string) (domain.Snapshot, error)
}

type SnapshotReader interface {
	Latest(ctx context.Context) (domain.Snapshot, bool, error)
}

type Snapshots struct {
	Response APIResponse
	logger   *util.MetricsLogger
	store    SnapshotReader
	ingester Ingester
}

func (m *Snapshots) Init(store SnapshotReader, ingester Ingester, webSlogger *util.MetricsLogger) {
	m.store = store
	m.ingester = ingester
	m.logger = webSlogger
}

func (m *Snapshots) IndexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(welcomeMessage))
}

func (m *Snapshots) IngestHandler(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Method Not Allowed. Only POST requests are supported", zap.String("method", r.Method))
		m.Response.WriteErrorResponseWithStatusCode(w, ErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := decodeIngestRequest(w, r)
	if err != nil {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while decoding ingest body", zap.Error(err))
		m.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}

	// A started write runs to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())

	if err := m.ingester.Ingest(ctx, ingest.OriginManual, snapshot); err != nil {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Failed to insert data", zap.String("kind", string(domain.KindOf(err))), zap.Error(err))
		m.Response.WriteErrorResponseWithStatusCode(w, ErrIngestFailed, http.StatusInternalServerError)
		return
	}

	m.Response.WriteResultResponse(w, ingestedMessage)
}

func (m *Snapshots) FetchAndIngestHandler(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Method Not Allowed. Only POST requests are supported", zap.String("method", r.Method))
		m.Response.WriteErrorResponseWithStatusCode(w, ErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	ctx := context.WithoutCancel(r.Context())

	if _, err := m.ingester.FetchAndIngest(ctx, ingest.OriginFetchAndIngest); err != nil {
		kind := domain.KindOf(err)
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Failed to fetch and ingest data", zap.String("kind", string(kind)), zap.Error(err))

		if kind == domain.KindRPC {
			m.Response.WriteErrorResponseWithStatusCode(w, ErrNodeFetchFailed, http.StatusInternalServerError)
			return
		}
		m.Response.WriteErrorResponseWithStatusCode(w, ErrIngestFailed, http.StatusInternalServerError)
		return
	}

	m.Response.WriteResultResponse(w, fetchIngestedMessage)
}

func (m *Snapshots) FetchMetricsHandler(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Method Not Allowed. Only GET requests are supported", zap.String("method", r.Method))
		m.Response.WriteErrorResponseWithStatusCode(w, ErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	snapshot, found, err := m.store.Latest(r.Context())
	if err != nil {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while reading latest snapshot", zap.String("kind", string(domain.KindOf(err))), zap.Error(err))
		m.Response.WriteErrorResponseWithStatusCode(w, ErrStoreReadFailed, http.StatusInternalServerError)
		return
	}

	if !found {
		m.logger.LogEvent(util.LOG_LEVEL_WARN, "No snapshot stored yet")
		m.Response.WriteErrorResponseWithStatusCode(w, ErrNoMetricsAvailable, http.StatusNotFound)
		return
	}

	WriteJSON(w, snapshot)
}

func decodeIngestRequest(w http.ResponseWriter, r *http.Request) (domain.Snapshot, error) {
	var reqBody IngestRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := dec.Decode(&reqBody); err != nil {
		return domain.Snapshot{}, domain.DecodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.Snapshot{}, domain.DecodeError(errTrailingData)
	}

	snapshot, err := reqBody.Snapshot()
	if err != nil {
		return domain.Snapshot{}, domain.DecodeError(err)
	}
	return snapshot, nil
}

// MethodNotAllowedHandler answers requests whose path matched a route but
// whose method did not.
func (m *Snapshots) MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	m.logger.LogEvent(util.LOG_LEVEL_WARN, "Method Not Allowed", zap.String("method", r.Method), zap.String("path", r.URL.Path))
	m.Response.WriteErrorResponseWithStatusCode(w, ErrMethodNotAllowed, http.StatusMethodNotAllowed)
}
