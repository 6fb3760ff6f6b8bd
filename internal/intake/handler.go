// internal/intake/handler.go
package intake

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"careers-intake/internal/common/errors"
	"careers-intake/internal/common/logger"
	"careers-intake/internal/common/metrics"
	"careers-intake/internal/models"
)

// memoryThreshold is how much of the multipart body ParseMultipartForm keeps
// in memory before spilling to temp files on disk.
const memoryThreshold = 1 << 20

// Handler decodes multipart submissions and hands them to the pipeline.
type Handler struct {
	pipeline *Pipeline
	maxBytes int64
	logger   logger.Logger
}

func NewHandler(pipeline *Pipeline, maxBytes int64, log logger.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		maxBytes: maxBytes,
		logger:   log.WithFields(map[string]interface{}{"component": "submit-handler"}),
	}
}

// ServeHTTP handles POST /submit. The request body is capped a little above
// the resume limit so legitimate maximum-size uploads still fit alongside the
// text fields and multipart framing.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.writeJSON(w, http.StatusMethodNotAllowed, Response{Success: false, Message: "Method not allowed"})
		return
	}

	requestID := uuid.New().String()
	log := h.logger.WithFields(map[string]interface{}{"requestId": requestID})
	metrics.SubmissionsReceived.Inc()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+memoryThreshold)

	if err := r.ParseMultipartForm(memoryThreshold); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			h.writeError(w, requestID, errors.NewFileRejectedError(
				errors.ErrCodeFileTooLarge, "Upload too large."))
			return
		}
		log.WithError(err).Warn("multipart decode failed", nil)
		h.writeError(w, requestID, errors.NewMalformedRequestError(err))
		return
	}
	// Temp files from large uploads are removed once the request is done.
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	sub := &models.Submission{
		GivenName:   strings.TrimSpace(r.FormValue(fieldGivenName)),
		FamilyName:  strings.TrimSpace(r.FormValue(fieldFamilyName)),
		Email:       strings.TrimSpace(r.FormValue(fieldEmail)),
		Phone:       strings.TrimSpace(r.FormValue(fieldPhone)),
		Country:     strings.TrimSpace(r.FormValue(fieldCountry)),
		DesiredRole: strings.TrimSpace(r.FormValue(fieldDesiredRole)),
		WantsAlerts: parseCheckbox(r.FormValue(fieldWantsAlerts)),
	}

	file, header, err := r.FormFile(fieldResume)
	if err == nil {
		defer file.Close()
		content, readErr := io.ReadAll(file)
		if readErr != nil {
			log.WithError(readErr).Warn("resume read failed", nil)
			h.writeError(w, requestID, errors.NewMalformedRequestError(readErr))
			return
		}
		sub.ResumeFilename = header.Filename
		sub.ResumeSize = int64(len(content))
		sub.ResumeContent = content
	} else if !stderrors.Is(err, http.ErrMissingFile) {
		log.WithError(err).Warn("resume part rejected", nil)
		h.writeError(w, requestID, errors.NewMalformedRequestError(err))
		return
	}

	id, stdErr := h.pipeline.Process(r.Context(), sub)
	if stdErr != nil {
		h.writeError(w, requestID, stdErr)
		return
	}

	h.writeJSON(w, http.StatusOK, Response{
		Success:    true,
		Identifier: id,
		Message:    "Application submitted successfully.",
	})
}

// parseCheckbox accepts the browser checkbox value and the explicit boolean
// form used by non-HTML clients.
func parseCheckbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func (h *Handler) writeError(w http.ResponseWriter, requestID string, stdErr *errors.StandardError) {
	if requestID != "" {
		h.logger.Warn("submission request failed", map[string]interface{}{
			"requestId": requestID,
			"errorCode": string(stdErr.Code),
		})
	}
	h.writeJSON(w, stdErr.HTTPStatus(), Response{
		Success: false,
		Message: stdErr.Message,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Error("response encode failed", nil)
	}
}
