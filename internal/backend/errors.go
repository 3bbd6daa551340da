package backend

import "fmt"

// APIError represents a structured error response from the AutoAudit backend.
// The backend reports failures as a JSON body of the form {"detail": "..."}.
type APIError struct {
	StatusCode int
	Detail     string
	URL        string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d for '%s'", e.StatusCode, e.URL)
}

// HasDetail reports whether the backend supplied a structured error detail.
func (e *APIError) HasDetail() bool {
	return e.Detail != ""
}
