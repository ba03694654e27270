package ui

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"inferguard/internal/domain"
	"inferguard/internal/middleware"
	"inferguard/internal/protect"

	gomponents "maragu.dev/gomponents"
)

// defaultReportQuery seeds the form with an aggregate the demo dataset can
// answer under every strategy.
const defaultReportQuery = "SELECT department, AVG(salary) AS avg_salary, COUNT(*) AS emp_count FROM employees GROUP BY department"

// reportMaxQueryLen bounds the query text accepted from the form.
const reportMaxQueryLen = 4096

// Handler serves the server-rendered report page.
type Handler struct {
	comparator *protect.Comparator
	logger     *slog.Logger
}

func NewHandler(comparator *protect.Comparator, logger *slog.Logger) *Handler {
	return &Handler{
		comparator: comparator,
		logger:     logger.With("component", "ui"),
	}
}

// MountRoutes attaches the report page to the router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/report", h.ReportPage)
}

// ReportPage runs the query under every strategy and renders the outcomes
// side by side. Without a query parameter it compares the default aggregate.
func (h *Handler) ReportPage(w http.ResponseWriter, r *http.Request) {
	queryText := strings.TrimSpace(r.URL.Query().Get("query"))
	if queryText == "" {
		queryText = defaultReportQuery
	}

	caller, _ := middleware.PrincipalFromContext(r.Context())
	if caller == "" {
		caller = "report"
	}

	if len(queryText) > reportMaxQueryLen {
		h.logger.Warn("report query rejected", "caller", caller, "bytes", len(queryText))
		msg := fmt.Sprintf("Query too long: %d bytes (limit %d).", len(queryText), reportMaxQueryLen)
		renderHTML(w, http.StatusOK, reportPage(caller, "", nil, msg))
		return
	}

	byKind := h.comparator.Compare(r.Context(), domain.NewQuery(queryText), domain.Identity{Caller: caller})

	// Present in comparator registration order, not map order.
	outcomes := make([]*domain.Outcome, 0, len(byKind))
	for _, kind := range h.comparator.Kinds() {
		if out, ok := byKind[kind]; ok {
			outcomes = append(outcomes, out)
		}
	}

	h.logger.Info("report rendered", "caller", caller, "strategies", len(outcomes))
	renderHTML(w, http.StatusOK, reportPage(caller, queryText, outcomes, ""))
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}
