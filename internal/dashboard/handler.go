package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mateflow/mateflow/internal/shared"
)

// Handler manages dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stats", h.stats)
	r.Get("/activity", h.activity)
	r.Get("/history", h.history)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	salesRange := r.URL.Query().Get("sales_range")
	if salesRange == "" {
		salesRange = "7d"
	}
	profitRange := r.URL.Query().Get("profit_range")
	if profitRange == "" {
		profitRange = "7d"
	}

	stats, err := h.service.Stats(r.Context(), shared.UserIDFromContext(r.Context()), salesRange, profitRange)
	if err != nil {
		h.logger.Error("dashboard stats", slog.Any("error", err))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	shared.RespondJSON(w, http.StatusOK, stats)
}

func (h *Handler) activity(w http.ResponseWriter, r *http.Request) {
	feed := h.service.RecentActivity(r.Context(), shared.UserIDFromContext(r.Context()))
	if feed == nil {
		feed = []Activity{}
	}
	shared.RespondJSON(w, http.StatusOK, feed)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	feed := h.service.History(r.Context(), shared.UserIDFromContext(r.Context()), r.URL.Query().Get("type"))
	if feed == nil {
		feed = []Activity{}
	}
	shared.RespondJSON(w, http.StatusOK, feed)
}
