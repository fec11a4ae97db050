package http

import (
	"net/http"

	"go.uber.org/zap"
)

type ProfileHandler struct {
	logger *zap.Logger
}

func NewProfileHandler(logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{logger: logger}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	profile, ok := ProfileFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusNotFound, "Unknown site")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}
