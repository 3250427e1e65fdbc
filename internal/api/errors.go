package api

import "net/http"

// NonFieldErrors is the key for validation errors that span several fields.
const NonFieldErrors = "non_field_errors"

// Detail is the body of a request-level error, e.g. {"detail": "Not found."}.
type Detail struct {
	Detail string `json:"detail"`
}

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

// Add appends msg to the messages for field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field already has a message.
func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

// WriteDetail writes a {"detail": msg} error with the given status code.
func WriteDetail(w http.ResponseWriter, statusCode int, msg string) {
	WriteJSON(w, statusCode, Detail{Detail: msg})
}

// WriteFieldErrors writes validation errors as a 400 response.
func WriteFieldErrors(w http.ResponseWriter, errs FieldErrors) {
	WriteJSON(w, http.StatusBadRequest, errs)
}
