package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// errorResponse is the JSON body sent for every error status.
type errorResponse struct {
	Error string `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		msg := logMsg
		if msg == "" {
			msg = userMsg
		}
		log.Printf("%s: %v", msg, err)
	}

	respondWithJSON(w, status, errorResponse{Error: userMsg})
}
