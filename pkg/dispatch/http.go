package dispatch

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/synaptica-ai/web2lead/pkg/common/logger"
	"github.com/synaptica-ai/web2lead/pkg/common/models"
	"github.com/synaptica-ai/web2lead/pkg/forms"
	"github.com/synaptica-ai/web2lead/pkg/submission"
)

type HTTPHandler struct {
	service *Service
	forms   Forms
	admin   mux.MiddlewareFunc
}

// NewHTTPHandler serves submissions publicly. Form administration and
// previews expose endpoint and organization settings, so they are mounted
// only behind admin; a nil admin leaves them unregistered.
func NewHTTPHandler(service *Service, f Forms, admin mux.MiddlewareFunc) *HTTPHandler {
	return &HTTPHandler{service: service, forms: f, admin: admin}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/submissions", h.handleSubmission).Methods(http.MethodPost)

	if h.admin == nil {
		logger.Log.Warn("form admin routes disabled: no authenticator configured")
		return
	}
	admin := router.NewRoute().Subrouter()
	admin.Use(h.admin)
	admin.HandleFunc("/forms/{id}", h.handleGetForm).Methods(http.MethodGet)
	admin.HandleFunc("/forms/{id}", h.handlePutForm).Methods(http.MethodPut)
	admin.HandleFunc("/forms/{id}/preview", h.handlePreview).Methods(http.MethodPost)
}

func (h *HTTPHandler) handleSubmission(w http.ResponseWriter, r *http.Request) {
	var event models.SubmissionEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		logger.Log.WithError(err).Warn("invalid submission event")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	event.FormID = strings.TrimSpace(event.FormID)
	if err := Validate(event); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	writeJSON(w, http.StatusAccepted, h.service.Process(r.Context(), event))
}

type previewRequest struct {
	Data *submission.Record `json:"data"`
}

func (h *HTTPHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	previews, err := h.service.Preview(r.Context(), mux.Vars(r)["id"], req.Data)
	if err != nil {
		if errors.Is(err, forms.ErrNotFound) {
			http.Error(w, "form not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to build preview")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"previews": previews})
}

func (h *HTTPHandler) handleGetForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.forms.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, forms.ErrNotFound) {
			http.Error(w, "form not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to load form")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *HTTPHandler) handlePutForm(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if h.forms.IsStatic(id) {
		http.Error(w, "form is defined in the static forms file", http.StatusConflict)
		return
	}

	var form forms.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	form.ID = id

	if err := h.forms.Save(r.Context(), &form); err != nil {
		if errors.Is(err, forms.ErrReadOnly) {
			http.Error(w, err.Error(), http.StatusNotImplemented)
			return
		}
		logger.Log.WithError(err).WithField("form_id", id).Error("failed to save form")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Warn("failed to encode response")
	}
}
