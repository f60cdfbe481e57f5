package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorResponse is the wire shape of every error reply. Code is a stable,
// machine-distinguishable reason string that API clients branch on; Message
// is informational only and carries no internal detail.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a structured error reply with a stable reason code.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorResponse{Code: code, Message: message})
}

// ErrInvalidBody is returned by Decode when the request body is not valid
// JSON for the target type.
var ErrInvalidBody = errors.New("invalid request body")

// Decode unmarshals the JSON request body into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrInvalidBody, err)
	}
	return nil
}
