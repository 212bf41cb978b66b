package billing

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mateflow/mateflow/internal/shared"
)

// Handler manages bill endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers bill routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listBills)
	r.Post("/", h.createBill)
	r.Get("/{id}", h.getBill)
	r.Patch("/{id}/status", h.updateStatus)
	r.Delete("/{id}", h.deleteBill)
}

func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.service.ListBills(r.Context(), shared.UserIDFromContext(r.Context()))
	if err != nil {
		h.logger.Error("list bills", slog.Any("error", err))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	if bills == nil {
		bills = []Bill{}
	}
	shared.RespondJSON(w, http.StatusOK, bills)
}

func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	bill, err := h.service.GetBill(r.Context(), shared.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("get bill", slog.Any("error", err), slog.String("id", chi.URLParam(r, "id")))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	shared.RespondJSON(w, http.StatusOK, bill)
}

func (h *Handler) createBill(w http.ResponseWriter, r *http.Request) {
	var input CreateBillInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	if err := h.validator.Struct(input); err != nil {
		fields := map[string]string{}
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		shared.RespondError(w, http.StatusUnprocessableEntity, "validation failed", fields)
		return
	}

	bill, err := h.service.CreateBill(r.Context(), shared.UserIDFromContext(r.Context()), input)
	if err != nil {
		h.logger.Error("create bill", slog.Any("error", err))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, bill)
}

type statusUpdateRequest struct {
	Status BillStatus `json:"status" validate:"required"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	if err := h.service.UpdateStatus(r.Context(), shared.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), req.Status); err != nil {
		h.logger.Error("update bill status", slog.Any("error", err))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) deleteBill(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBill(r.Context(), shared.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.logger.Error("delete bill", slog.Any("error", err))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
