package server

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-2xx JSON reply
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// UsageResponse is the 400 body for requests that select nothing
type UsageResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Usage   Usage  `json:"usage"`
}

type Usage struct {
	SingleCity string `json:"singleCity"`
	AllCities  string `json:"allCities"`
}

// WriteJSONError writes {"success":false,"error":message} with statusCode
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Success: false, Error: message})
}

// RespondWithJSON marshals payload and writes it with code
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
