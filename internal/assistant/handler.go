package assistant

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mateflow/mateflow/internal/shared"
)

const maxUploadBytes = 10 << 20

// Handler manages assistant endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers assistant routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/messages", h.list)
	r.Post("/messages", h.send)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.Messages(r.Context(), shared.UserIDFromContext(r.Context()))
	if err != nil {
		h.logger.Error("list messages", slog.Any("error", err))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	if messages == nil {
		messages = []Message{}
	}
	shared.RespondJSON(w, http.StatusOK, messages)
}

// send accepts multipart form data: a "content" field and an optional "file"
// attachment (image or CSV).
func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid multipart body", nil)
		return
	}
	content := r.FormValue("content")
	if content == "" {
		shared.RespondError(w, http.StatusUnprocessableEntity, "message content is required", nil)
		return
	}

	var attachment *Attachment
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			shared.RespondError(w, http.StatusBadRequest, "could not read uploaded file", nil)
			return
		}
		attachment = &Attachment{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	reply, err := h.service.Send(r.Context(), shared.UserIDFromContext(r.Context()), content, attachment)
	if err != nil {
		h.logger.Error("send message", slog.Any("error", err))
		shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, reply)
}
