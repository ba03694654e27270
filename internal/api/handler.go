// Package api provides the HTTP handlers for the disclosure-control REST API.
//
// Handlers are a thin translation layer: each one turns a request into a
// (query, params, caller, credentials) tuple, calls into the protection
// comparator or the attack suite, and serializes the domain result verbatim.
// The caller principal comes from the auth middleware; a request body may
// additionally carry store credentials for stores that enforce their own
// access control.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inferguard/internal/attack"
	"inferguard/internal/domain"
	"inferguard/internal/middleware"
	"inferguard/internal/protect"
)

const maxBodyBytes = 1 << 20

// APIHandler serves the JSON endpoints.
type APIHandler struct {
	comparator *protect.Comparator
	suite      *attack.Suite
	audit      domain.AuditSink
	history    domain.HistoryStore
	logger     *slog.Logger
}

// NewHandler creates an APIHandler over the comparator, attack suite, and
// metastore record views.
func NewHandler(
	comparator *protect.Comparator,
	suite *attack.Suite,
	audit domain.AuditSink,
	history domain.HistoryStore,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		comparator: comparator,
		suite:      suite,
		audit:      audit,
		history:    history,
		logger:     logger.With("component", "api"),
	}
}

// Routes mounts every JSON endpoint on a fresh chi router. Callers wrap it
// with auth and rate limiting before mounting it under /v1.
func (h *APIHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/protect/compare", h.CompareQuery)
	r.Post("/protect/evaluate", h.EvaluateQuery)
	r.Post("/attacks/suite", h.RunSuite)
	r.Post("/attacks/{kind}", h.RunAttack)
	r.Get("/audit", h.ListAudit)
	r.Get("/history", h.ListHistory)
	return r
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// decodeJSON strictly decodes the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for endpoints where an empty body is valid.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}

// identityFromRequest resolves the caller principal set by the auth
// middleware and attaches optional store credentials from the body.
func identityFromRequest(r *http.Request, creds *domain.Credentials) domain.Identity {
	caller, _ := middleware.PrincipalFromContext(r.Context())
	return domain.Identity{Caller: caller, Credentials: creds}
}

func (h *APIHandler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode response failed", "error", err)
	}
}

func (h *APIHandler) respondError(w http.ResponseWriter, err error) {
	status := httpStatusFromDomainError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	h.respondJSON(w, status, errorBody{Code: status, Message: err.Error()})
}
