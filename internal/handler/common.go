package handler

import (
	"encoding/json"
	"net/http"

	"funds-transfer/internal/errors"
)

// maxBodyBytes caps request bodies; transfer payloads are a few dozen bytes.
const maxBodyBytes = 1 << 10

type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := Response{Data: data}
	json.NewEncoder(w).Encode(response)
}

// writeError renders only what Classify lets through.
func writeError(w http.ResponseWriter, err error) {
	appErr := errors.Classify(err)
	if appErr == nil {
		appErr = errors.ErrInternal
	}

	w.Header().Set("Content-Type", "application/json")

	errResponse := Error{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Details: appErr.Details,
	}

	w.WriteHeader(appErr.HTTPStatus())
	json.NewEncoder(w).Encode(Response{Error: &errResponse})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(dst); err != nil {
		return errors.ErrValidation.WithDetails("invalid request body")
	}
	return nil
}
