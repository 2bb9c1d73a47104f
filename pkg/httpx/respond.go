// Package httpx holds the JSON response helpers shared by all handlers.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps the apperr taxonomy onto status codes. External-service
// failures deliberately hide the provider detail from end users.
func WriteError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		WriteJSON(w, http.StatusBadRequest, errorBody{
			Error:  "validation_failed",
			Fields: apperr.FieldsOf(err),
		})
	case apperr.KindNotFound:
		WriteJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: err.Error()})
	case apperr.KindConflict:
		WriteJSON(w, http.StatusConflict, errorBody{Error: "conflict", Message: err.Error()})
	case apperr.KindExternal:
		WriteJSON(w, http.StatusBadGateway, errorBody{
			Error:   "service_unavailable",
			Message: "The service is temporarily unavailable. Please try again later.",
		})
	default:
		WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal_error"})
	}
}
