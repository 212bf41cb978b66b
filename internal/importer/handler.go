package importer

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mateflow/mateflow/internal/shared"
)

const maxUploadBytes = 10 << 20

// Handler manages import endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers import routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/{kind}", h.importFile)
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid multipart body", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "no file provided", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "could not read uploaded file", nil)
		return
	}
	contentType := header.Header.Get("Content-Type")
	userID := shared.UserIDFromContext(r.Context())

	var result Result
	switch kind {
	case "products":
		count, err := h.service.ImportProducts(r.Context(), userID, bytes.NewReader(data))
		if err != nil {
			h.respondErr(w, kind, err)
			return
		}
		result = Result{Imported: count, Message: fmt.Sprintf("Imported %d products successfully", count)}
	case "customers":
		count, err := h.service.ImportCustomers(r.Context(), userID, bytes.NewReader(data))
		if err != nil {
			h.respondErr(w, kind, err)
			return
		}
		result = Result{Imported: count, Message: fmt.Sprintf("Imported %d customers successfully", count)}
	case "expenses":
		count, err := h.service.ImportExpenses(r.Context(), userID, contentType, data)
		if err != nil {
			h.respondErr(w, kind, err)
			return
		}
		result = Result{Imported: count, Message: fmt.Sprintf("Imported %d expenses successfully", count)}
	case "bills":
		result, err = h.service.ImportBills(r.Context(), userID, contentType, data)
		if err != nil {
			h.respondErr(w, kind, err)
			return
		}
	default:
		shared.RespondError(w, http.StatusNotFound, "unknown import kind "+kind, nil)
		return
	}

	shared.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondErr(w http.ResponseWriter, kind string, err error) {
	h.logger.Error("import "+kind, slog.Any("error", err))
	shared.RespondError(w, shared.HTTPStatus(err), shared.UserSafeMessage(err), nil)
}
