package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/kapu/zenith-go/pkg/errors"
	"go.uber.org/zap"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, successEnvelope{Success: true, Data: data})
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Error: message})
}

// writeError maps typed application errors to their status. Server-side failures
// are reported with a generic message and logged with the cause.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
		writeErrorMessage(w, status, http.StatusText(status))
		return
	}

	writeErrorMessage(w, status, apperrors.Message(err))
}
