package httputil

import (
	"encoding/json"
	"net/http"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeProblem = "application/problem+json"
)

// problemTypes maps the statuses the API emits to the RFC section that
// defines them. Anything else is "about:blank".
var problemTypes = map[int]string{
	http.StatusBadRequest:          "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.1",
	http.StatusUnauthorized:        "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.2",
	http.StatusForbidden:           "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.4",
	http.StatusNotFound:            "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.5",
	http.StatusUnprocessableEntity: "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.21",
	http.StatusInternalServerError: "https://datatracker.ietf.org/doc/html/rfc9110#section-15.6.1",
	http.StatusBadGateway:          "https://datatracker.ietf.org/doc/html/rfc9110#section-15.6.3",
}

// Problem is an RFC 7807 error body. Kind and RequestID are extension
// members so clients can branch on the failure class and quote the request.
type Problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// NewProblem fills type and title from status.
func NewProblem(status int, detail string) Problem {
	typ, ok := problemTypes[status]
	if !ok {
		typ = "about:blank"
	}
	return Problem{
		Type:   typ,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// RespondJSON writes data as JSON. The body is encoded before any header goes
// out, so an unencodable value becomes a clean 500.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		WriteProblem(w, NewProblem(http.StatusInternalServerError, "failed to encode response"))
		return
	}
	writeBody(w, status, contentTypeJSON, payload)
}

// WriteProblem writes p with the problem+json media type.
func WriteProblem(w http.ResponseWriter, p Problem) {
	payload, err := json.Marshal(p)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeBody(w, p.Status, contentTypeProblem, payload)
}

func writeBody(w http.ResponseWriter, status int, contentType string, payload []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
