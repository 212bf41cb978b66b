package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mateflow/mateflow/internal/shared"
)

// Handler manages authentication endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers authentication routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
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

	user, err := h.service.Register(r.Context(), input)
	if err != nil {
		h.logger.Error("register", slog.Any("error", err))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}

	if session := shared.SessionFromContext(r.Context()); session != nil {
		session.SetUser(user.ID)
	}
	shared.RespondJSON(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	if err := h.validator.Struct(creds); err != nil {
		shared.RespondError(w, http.StatusUnprocessableEntity, "email and password are required", nil)
		return
	}

	user, err := h.service.Authenticate(r.Context(), creds)
	if err != nil {
		h.logger.Warn("login failed", slog.String("email", creds.Email))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}

	if session := shared.SessionFromContext(r.Context()); session != nil {
		session.SetUser(user.ID)
	}
	shared.RespondJSON(w, http.StatusOK, user)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if session := shared.SessionFromContext(r.Context()); session != nil {
		session.Destroy()
	}
	shared.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentUser(r.Context(), shared.UserIDFromContext(r.Context()))
	if err != nil {
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	shared.RespondJSON(w, http.StatusOK, user)
}
