package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

type errorBody struct {
	OK      bool                `json:"ok"`
	Error   string              `json:"error"`
	Details map[string][]string `json:"details,omitempty"`
}

type okBody struct {
	OK bool `json:"ok"`
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Error("encode response", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	writeJSON(w, logger, status, errorBody{OK: false, Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
