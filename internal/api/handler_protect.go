package api

import (
	"net/http"
	"strings"

	"inferguard/internal/domain"
)

// queryRequest is the body for the protection endpoints. Params feed the
// positional placeholders in the query text in order.
type queryRequest struct {
	Query       string              `json:"query"`
	Params      []interface{}       `json:"params,omitempty"`
	Strategy    string              `json:"strategy,omitempty"`
	Credentials *domain.Credentials `json:"credentials,omitempty"`
}

func (req *queryRequest) toQuery() (domain.Query, error) {
	if strings.TrimSpace(req.Query) == "" {
		return domain.Query{}, domain.ErrValidation("query text is required")
	}
	return domain.NewQuery(req.Query, req.Params...), nil
}

type compareResponse struct {
	Caller   string                                  `json:"caller"`
	Query    string                                  `json:"query"`
	Outcomes map[domain.StrategyKind]*domain.Outcome `json:"outcomes"`
}

// CompareQuery runs the query under every registered strategy and returns
// the outcomes side by side.
func (h *APIHandler) CompareQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	q, err := req.toQuery()
	if err != nil {
		h.respondError(w, err)
		return
	}

	ident := identityFromRequest(r, req.Credentials)
	outcomes := h.comparator.Compare(r.Context(), q, ident)
	h.respondJSON(w, http.StatusOK, compareResponse{
		Caller:   ident.Caller,
		Query:    q.Text(),
		Outcomes: outcomes,
	})
}

// EvaluateQuery runs the query under the single strategy named in the body.
func (h *APIHandler) EvaluateQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	if strings.TrimSpace(req.Strategy) == "" {
		h.respondError(w, domain.ErrValidation("strategy is required"))
		return
	}
	q, err := req.toQuery()
	if err != nil {
		h.respondError(w, err)
		return
	}

	ident := identityFromRequest(r, req.Credentials)
	out, err := h.comparator.EvaluateOne(r.Context(), domain.StrategyKind(req.Strategy), q, ident)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}
