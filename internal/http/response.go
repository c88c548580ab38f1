package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"careercraft-backend-go/internal/services"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Message: message})
}

// WriteServiceError maps a service-layer error to its HTTP status. Unknown
// errors become an opaque 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	status := services.StatusOf(err)
	if status >= 500 {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteError(w, status, err.Error())
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
