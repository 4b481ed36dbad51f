package endpoints

import (
	"encoding/json"
	"net/http"
)

type APIResponse struct {
	Status    bool        `json:"status"`
	Value     interface{} `json:"value,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorCode int         `json:"error_code"`
}

// WriteErrorResponseWithStatusCode writes err as a failed envelope. Only
// the package's generic errors should be passed here; their text is sent to
// the client as is.
func (res APIResponse) WriteErrorResponseWithStatusCode(w http.ResponseWriter, err error, StatusCode int) {
	res.Status = false
	res.Error = err.Error()
	res.ErrorCode = GetErrorCode(err)

	errJson, _ := json.Marshal(res)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(StatusCode)
	w.Write(errJson)
}

func (res APIResponse) WriteResultResponse(w http.ResponseWriter, result interface{}) {
	res.Status = true
	res.Value = result
	res.ErrorCode = GetErrorCode(nil)

	resJson, _ := json.Marshal(res)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(resJson)
}

// WriteJSON writes v without the envelope.
func WriteJSON(w http.ResponseWriter, v interface{}) {
	body, _ := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(body)
}
