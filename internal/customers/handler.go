package customers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mateflow/mateflow/internal/shared"
)

// Handler manages customer endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers customer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), shared.UserIDFromContext(r.Context()))
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	if result == nil {
		result = []Customer{}
	}
	shared.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input CustomerInput
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
	customer, err := h.service.Create(r.Context(), shared.UserIDFromContext(r.Context()), input)
	if err != nil {
		h.logger.Error("create customer", slog.Any("error", err))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, customer)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var input UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	if err := h.service.Update(r.Context(), shared.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), input); err != nil {
		h.logger.Error("update customer", slog.Any("error", err))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), shared.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.logger.Error("delete customer", slog.Any("error", err))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
