package endpoints

import (
	"errors"
)

const (
	API_SUCCESS = iota + 303000 // 303000
	API_FAILURE                 // 303001 - Generic API failure
)

const (
	METRICS_NOT_AVAILABLE = iota + 101 // 101 - Store holds no snapshot yet
	INVALID_REQUEST_BODY               // 102 - Error decoding request body
	INGEST_FAILED                      // 103 - Snapshot could not be stored
	NODE_FETCH_FAILED                  // 104 - Snapshot could not be fetched from the node
	STORE_READ_FAILED                  // 105 - Latest snapshot could not be read
	METHOD_NOT_ALLOWED                 // 106 - Wrong HTTP method for the route
)

// Generic messages returned to clients. Underlying causes are only logged.
var (
	ErrNoMetricsAvailable = errors.New("no metrics available")
	ErrInvalidRequestBody = errors.New("invalid request body format or missing fields")
	ErrIngestFailed       = errors.New("failed to ingest data")
	ErrNodeFetchFailed    = errors.New("failed to fetch data from bitcoin node")
	ErrStoreReadFailed    = errors.New("failed to read metrics")
	ErrMethodNotAllowed   = errors.New("method not allowed")
)

func GetErrorCode(err error) int {
	if err == nil {
		return API_SUCCESS
	}

	switch {
	case errors.Is(err, ErrNoMetricsAvailable):
		return METRICS_NOT_AVAILABLE
	case errors.Is(err, ErrInvalidRequestBody):
		return INVALID_REQUEST_BODY
	case errors.Is(err, ErrIngestFailed):
		return INGEST_FAILED
	case errors.Is(err, ErrNodeFetchFailed):
		return NODE_FETCH_FAILED
	case errors.Is(err, ErrStoreReadFailed):
		return STORE_READ_FAILED
	case errors.Is(err, ErrMethodNotAllowed):
		return METHOD_NOT_ALLOWED
	default:
		return API_FAILURE // Default for any unhandled error
	}
}
