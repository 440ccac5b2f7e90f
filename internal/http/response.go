package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"dashboard-backend-go/internal/services"
)

// Envelope is the uniform response shape every endpoint returns.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}, message string) {
	if message == "" {
		message = "Success"
	}
	writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Message: message})
}

// WriteFailure maps a service error to its status, anything else to a logged
// 500. No error crosses the boundary unformatted.
func WriteFailure(w http.ResponseWriter, err error, fallback string) {
	if serr, ok := err.(services.ServiceError); ok {
		WriteError(w, serr.Status, serr.Message)
		return
	}
	log.Printf("%s: %v", fallback, err)
	WriteError(w, http.StatusInternalServerError, fallback)
}
