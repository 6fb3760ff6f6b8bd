// internal/admin/handler.go

// Package admin serves the authenticated applicant listing, as JSON for
// tooling and as a small HTML panel for humans.
package admin

import (
	"crypto/subtle"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"careers-intake/internal/common/errors"
	"careers-intake/internal/common/logger"
	"careers-intake/internal/common/metrics"
	"careers-intake/internal/models"
	"careers-intake/internal/repository"
)

// ListResponse is the JSON body for GET /api/applicants.
type ListResponse struct {
	Applicants []models.ApplicantRecord `json:"applicants"`
	Total      int                      `json:"total"`
}

// Handler exposes the listing endpoints behind HTTP basic auth.
type Handler struct {
	repo     repository.ApplicantRepository
	username string
	password string
	logger   logger.Logger
}

func NewHandler(repo repository.ApplicantRepository, username, password string, log logger.Logger) *Handler {
	return &Handler{
		repo:     repo,
		username: username,
		password: password,
		logger:   log.WithFields(map[string]interface{}{"component": "admin-handler"}),
	}
}

// authorize checks basic auth credentials in constant time. On failure it
// writes the 401 challenge itself and reports false.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) bool {
	user, pass, ok := r.BasicAuth()
	userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(h.username)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(h.password)) == 1
	if ok && userMatch && passMatch {
		return true
	}

	metrics.AdminListRequests.WithLabelValues("unauthorized").Inc()
	h.logger.Warn("admin credentials rejected", map[string]interface{}{
		"remoteAddr": r.RemoteAddr,
	})

	stdErr := errors.NewAuthorizationError("missing or invalid basic auth credentials")
	w.Header().Set("WWW-Authenticate", `Basic realm="applicants"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(stdErr.HTTPStatus())
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": stdErr.Message,
	})
	return false
}

// ServeJSON handles GET /api/applicants.
func (h *Handler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	records, err := h.repo.List(r.Context())
	if err != nil {
		h.writeListError(w, err)
		return
	}

	metrics.AdminListRequests.WithLabelValues("ok").Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if encErr := json.NewEncoder(w).Encode(ListResponse{
		Applicants: records,
		Total:      len(records),
	}); encErr != nil {
		h.logger.WithError(encErr).Error("listing encode failed", nil)
	}
}

// ServeHTML handles GET /admin/applicants.
func (h *Handler) ServeHTML(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	records, err := h.repo.List(r.Context())
	if err != nil {
		h.writeListError(w, err)
		return
	}

	metrics.AdminListRequests.WithLabelValues("ok").Inc()

	today := 0
	now := time.Now().UTC()
	for _, rec := range records {
		y, m, d := rec.SubmittedAt.UTC().Date()
		ny, nm, nd := now.Date()
		if y == ny && m == nm && d == nd {
			today++
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if execErr := panelTemplate.Execute(w, panelData{
		Applicants: records,
		Total:      len(records),
		Today:      today,
	}); execErr != nil {
		h.logger.WithError(execErr).Error("panel render failed", nil)
	}
}

func (h *Handler) writeListError(w http.ResponseWriter, err error) {
	stdErr := errors.Normalize(err)
	metrics.AdminListRequests.WithLabelValues("error").Inc()
	h.logger.Error("applicant listing failed", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Could not load applicants right now.",
	})
}

type panelData struct {
	Applicants []models.ApplicantRecord
	Total      int
	Today      int
}

var panelTemplate = template.Must(template.New("panel").Funcs(template.FuncMap{
	"fmtTime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Applicants</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f0f0f0; }
.stats { margin-bottom: 1rem; }
.stats span { margin-right: 2rem; font-weight: bold; }
</style>
</head>
<body>
<h1>Applicants</h1>
<div class="stats">
<span>Total: {{.Total}}</span>
<span>Today: {{.Today}}</span>
</div>
<table>
<tr>
<th>ID</th><th>Name</th><th>Email</th><th>Phone</th><th>Country</th>
<th>Role</th><th>Alerts</th><th>Resume</th><th>Submitted</th>
</tr>
{{range .Applicants}}<tr>
<td>{{.ID}}</td>
<td>{{.GivenName}} {{.FamilyName}}</td>
<td>{{.Email}}</td>
<td>{{.Phone}}</td>
<td>{{.Country}}</td>
<td>{{.DesiredRole}}</td>
<td>{{if .WantsAlerts}}Yes{{else}}No{{end}}</td>
<td>{{.ResumeFilename}}</td>
<td>{{fmtTime .SubmittedAt}}</td>
</tr>
{{end}}</table>
</body>
</html>`))
