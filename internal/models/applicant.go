// internal/models/applicant.go
package models

import "time"

// Submission is one form-plus-resume payload as decoded from the request.
// The resume bytes live only for the duration of the request.
type Submission struct {
	GivenName   string `json:"givenName"`
	FamilyName  string `json:"familyName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Country     string `json:"country"`
	DesiredRole string `json:"desiredRole,omitempty"`
	WantsAlerts bool   `json:"wantsAlerts"`

	ResumeFilename string `json:"-"`
	ResumeSize     int64  `json:"-"`
	ResumeContent  []byte `json:"-"`
}

// NewApplicant is the repository insert input. Identifier and timestamp are
// owned by the repository, never by the caller.
type NewApplicant struct {
	GivenName      string
	FamilyName     string
	Email          string
	Phone          string
	Country        string
	DesiredRole    string
	WantsAlerts    bool
	ResumeFilename string
}

// ApplicantRecord is the persisted row for one accepted submission. Only the
// resume filename is retained, never the binary payload.
type ApplicantRecord struct {
	ID             int64     `json:"id"`
	GivenName      string    `json:"givenName"`
	FamilyName     string    `json:"familyName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Country        string    `json:"country"`
	DesiredRole    string    `json:"desiredRole,omitempty"`
	WantsAlerts    bool      `json:"wantsAlerts"`
	ResumeFilename string    `json:"resumeFilename"`
	SubmittedAt    time.Time `json:"submittedAt"`
}
