// internal/intake/models.go
package intake

// Response is the JSON body returned by the submit endpoint.
type Response struct {
	Success    bool   `json:"success"`
	Identifier int64  `json:"identifier,omitempty"`
	Message    string `json:"message"`
}

// Form field names accepted by POST /submit.
const (
	fieldGivenName   = "givenName"
	fieldFamilyName  = "familyName"
	fieldEmail       = "email"
	fieldPhone       = "phone"
	fieldCountry     = "country"
	fieldDesiredRole = "desiredRole"
	fieldWantsAlerts = "wantsAlerts"
	fieldResume      = "resume"
)
