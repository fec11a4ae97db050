package http

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"lo-site/domain"
	"lo-site/service"
)

type CalculatorHandler struct {
	service *service.ProgramService
	logger  *zap.Logger
}

func NewCalculatorHandler(service *service.ProgramService, logger *zap.Logger) *CalculatorHandler {
	return &CalculatorHandler{service: service, logger: logger}
}

func (h *CalculatorHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var input domain.LoanScenario
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := h.service.Quote(input)
	if err != nil {
		h.writeProgramError(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, quote)
}

func (h *CalculatorHandler) Refinance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var input domain.RefinanceInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	analysis, err := h.service.Refinance(input)
	if err != nil {
		h.writeProgramError(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, analysis)
}

// PMIRate returns the table entry for ?score=, or the whole table when no
// score is given.
func (h *CalculatorHandler) PMIRate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := r.URL.Query().Get("score")
	if raw == "" {
		writeJSON(w, h.logger, http.StatusOK, service.PMIRateTable())
		return
	}
	score, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "score must be an integer")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, service.PMIRateEntryForScore(score))
}

func (h *CalculatorHandler) writeProgramError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrUnknownProgram) {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("calculation failed", zap.Error(err))
	writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
}
