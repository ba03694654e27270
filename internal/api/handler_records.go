package api

import (
	"net/http"
	"strconv"

	"inferguard/internal/domain"
	"inferguard/internal/middleware"
)

const defaultListLimit = 50

type listResponse struct {
	Records interface{} `json:"records"`
	Count   int         `json:"count"`
}

func limitFromQuery(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, domain.ErrValidation("invalid limit %q", raw)
	}
	return limit, nil
}

// ListAudit returns gateway audit records, newest first. Optional filters:
// caller, blocked, limit.
func (h *APIHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{}
	if caller := r.URL.Query().Get("caller"); caller != "" {
		filter.Caller = &caller
	}
	if raw := r.URL.Query().Get("blocked"); raw != "" {
		blocked, err := strconv.ParseBool(raw)
		if err != nil {
			h.respondError(w, domain.ErrValidation("invalid blocked filter %q", raw))
			return
		}
		filter.Blocked = &blocked
	}
	limit, err := limitFromQuery(r, defaultListLimit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	filter.Limit = limit

	records, err := h.audit.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, listResponse{Records: records, Count: len(records)})
}

// ListHistory returns a caller's recent query history, newest first. Without
// an explicit caller filter it returns the requesting principal's own history.
func (h *APIHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	caller := r.URL.Query().Get("caller")
	if caller == "" {
		caller, _ = middleware.PrincipalFromContext(r.Context())
	}
	if caller == "" {
		h.respondError(w, domain.ErrValidation("caller is required"))
		return
	}
	limit, err := limitFromQuery(r, defaultListLimit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	entries, err := h.history.Recent(r.Context(), caller, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, listResponse{Records: entries, Count: len(entries)})
}
