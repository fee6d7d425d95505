package files

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/api"
)

// maxUploadBytes bounds the multipart form held in memory.
const maxUploadBytes = 32 << 20

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Analyze handles POST /files/analyze with a multipart "file" field.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		api.HandleError(w, api.NewBadRequestError("File is required"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("File is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		slog.Error("reading upload", "error", err, "filename", header.Filename)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	analysis, err := h.svc.Analyze(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, content)
	if err != nil {
		slog.Error("analyzing file", "error", err, "filename", header.Filename)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, analysis)
}
