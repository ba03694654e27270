package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inferguard/internal/domain"
)

// attackRequest is the optional body for the attack endpoints. Attacks run
// the configured scenario targets, so only store credentials can be supplied.
type attackRequest struct {
	Credentials *domain.Credentials `json:"credentials,omitempty"`
}

// attackKindFromPath maps a URL segment to an attack tag. "linear" is
// accepted as shorthand for the linear-system attack.
func attackKindFromPath(seg string) (domain.AttackKind, error) {
	switch seg {
	case "differencing":
		return domain.AttackDifferencing, nil
	case "tracker":
		return domain.AttackTracker, nil
	case "sum":
		return domain.AttackSum, nil
	case "linear", "linear_system":
		return domain.AttackLinearSystem, nil
	}
	return "", domain.ErrValidation("unknown attack kind %q", seg)
}

// RunSuite runs every attack in the fixed demonstration order and returns
// the aggregate result.
func (h *APIHandler) RunSuite(w http.ResponseWriter, r *http.Request) {
	var req attackRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	ident := identityFromRequest(r, req.Credentials)
	h.respondJSON(w, http.StatusOK, h.suite.Run(r.Context(), ident))
}

// RunAttack runs the single attack named in the URL.
func (h *APIHandler) RunAttack(w http.ResponseWriter, r *http.Request) {
	kind, err := attackKindFromPath(chi.URLParam(r, "kind"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req attackRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	ident := identityFromRequest(r, req.Credentials)
	result, err := h.suite.RunOne(r.Context(), kind, ident)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}
