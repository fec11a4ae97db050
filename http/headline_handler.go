package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lo-site/domain"
	"lo-site/service"
)

type HeadlineHandler struct {
	service *service.HeadlineService
	logger  *zap.Logger
}

func NewHeadlineHandler(service *service.HeadlineService, logger *zap.Logger) *HeadlineHandler {
	return &HeadlineHandler{service: service, logger: logger}
}

func (h *HeadlineHandler) SuggestHeadlines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var input domain.HeadlineInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, _ := ProfileFromContext(r.Context())
	result, err := h.service.Suggest(r.Context(), profile, input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidHeadlineInput) {
			writeError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("headline suggestion failed", zap.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}
