package tax

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateflow/mateflow/internal/shared"
)

// Handler manages tax endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers tax routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stats", h.yearlyStats)
	r.Post("/estimate", h.estimate)
}

func (h *Handler) yearlyStats(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			shared.RespondError(w, http.StatusBadRequest, "year must be a number", nil)
			return
		}
		year = parsed
	}

	stats, err := h.service.YearlyStats(r.Context(), shared.UserIDFromContext(r.Context()), year)
	if err != nil {
		h.logger.Error("yearly tax stats", slog.Any("error", err))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	shared.RespondJSON(w, http.StatusOK, stats)
}

type estimateRequest struct {
	NetProfit  float64  `json:"net_profit"`
	Deductions *float64 `json:"deductions"`
	Schedule   Schedule `json:"schedule"`
}

func (h *Handler) estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	switch req.Schedule {
	case "", SchedulePersonal, ScheduleCorporate:
	default:
		shared.RespondError(w, http.StatusUnprocessableEntity, "schedule must be personal or corporate", nil)
		return
	}
	estimate := h.service.Estimate(r.Context(), req.NetProfit, req.Deductions, req.Schedule)
	shared.RespondJSON(w, http.StatusOK, estimate)
}
