package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/your-org/aquavision/internal/media"
)

// HTTPHandler exposes the dashboard workflow over REST.
type HTTPHandler struct {
	service      *Service
	logger       *zap.Logger
	maxSizeBytes int64
	formMemBytes int64
	router       chi.Router
}

// NewHTTPHandler constructs the HTTP handler and wires routes.
func NewHTTPHandler(service *Service, logger *zap.Logger, maxSizeBytes, formMemBytes int64) *HTTPHandler {
	h := &HTTPHandler{
		service:      service,
		logger:       logger,
		maxSizeBytes: maxSizeBytes,
		formMemBytes: formMemBytes,
	}
	h.buildRouter()
	return h
}

func (h *HTTPHandler) buildRouter() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Get("/healthz", h.handleHealth)
	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", h.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.handleSnapshot)
			r.Get("/dashboard", h.handleDashboard)
			r.Post("/uploads", h.handleUpload)
			r.Post("/demo", h.handleDemo)
		})
	})

	h.router = r
}

// Router exposes the configured chi router.
func (h *HTTPHandler) Router() http.Handler {
	return h.router
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Health())
}

func (h *HTTPHandler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.service.CreateSession()
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id":       sess.ID,
		"created_at":       sess.CreatedAt,
		"max_upload_bytes": sess.Intake.MaxSizeBytes(),
		"accepted_kinds":   []media.Kind{media.KindMP4, media.KindAVI, media.KindMOV},
	})
}

func (h *HTTPHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if r.ContentLength > 0 && r.ContentLength > h.maxSizeBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	if err := r.ParseMultipartForm(h.formMemBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxSizeBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file exceeds max size limit")
		return
	}

	receipt, err := h.service.Upload(r.Context(), sessionID, file, header.Size, header.Filename)
	if err != nil {
		h.writeServiceError(w, sessionID, err, "upload failed")
		return
	}

	writeJSON(w, http.StatusAccepted, receipt)
}

func (h *HTTPHandler) handleDemo(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	receipt, err := h.service.Demo(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, sessionID, err, "demo failed")
		return
	}

	writeJSON(w, http.StatusAccepted, receipt)
}

func (h *HTTPHandler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	snap, err := h.service.Snapshot(sessionID)
	if err != nil {
		h.writeServiceError(w, sessionID, err, "snapshot failed")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (h *HTTPHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	view, err := h.service.Dashboard(sessionID)
	if err != nil {
		h.writeServiceError(w, sessionID, err, "dashboard failed")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, sessionID string, err error, fallback string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, media.ErrInvalidFormat):
		writeError(w, http.StatusBadRequest, "invalid file format: accepted kinds are mp4, avi, mov")
	case errors.Is(err, ErrAnalysisInProgress):
		writeError(w, http.StatusConflict, "analysis in progress")
	default:
		h.logger.Error(fallback, zap.String("session_id", sessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
