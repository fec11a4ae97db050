package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lo-site/domain"
	"lo-site/service"
)

type LeadHandler struct {
	service *service.LeadService
	logger  *zap.Logger
}

func NewLeadHandler(service *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{service: service, logger: logger}
}

// SubmitLead answers 200 {ok:true} once the lead passes validation, even
// if the CRM did not take it, unless always-ack is switched off.
func (h *LeadHandler) SubmitLead(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var input domain.LeadInput
	if err := decodeJSON(w, r, &input); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || typeErr.Field == "" {
			writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON")
			return
		}
		// JSON válido con un tipo incorrecto: se reporta por campo
		details := map[string][]string{}
		if verr := h.service.Validate(input); verr != nil {
			details = verr.Details
		}
		details[typeErr.Field] = []string{"has the wrong type (got " + typeErr.Value + ")"}
		if typeErr.Field == "consent" {
			details["consent"] = []string{"must be accepted"}
		}
		writeJSON(w, h.logger, http.StatusUnprocessableEntity, errorBody{
			OK:      false,
			Error:   "Validation failed",
			Details: details,
		})
		return
	}

	tenantID := ""
	if p, ok := ProfileFromContext(r.Context()); ok {
		tenantID = p.ID
		if tenantID == "" {
			tenantID = p.Slug
		}
	}

	_, err := h.service.Submit(r.Context(), tenantID, ClientIP(r), input)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, h.logger, http.StatusUnprocessableEntity, errorBody{
				OK:      false,
				Error:   "Validation failed",
				Details: verr.Details,
			})
		case errors.Is(err, service.ErrLeadForwardFailed):
			writeError(w, h.logger, http.StatusBadGateway, "Unable to submit lead")
		default:
			h.logger.Error("lead submission failed", zap.Error(err))
			writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, h.logger, http.StatusOK, okBody{OK: true})
}
