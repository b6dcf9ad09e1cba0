package server

import (
	"encoding/json"
	"net/http"

	"pointledger/metrics"
	"pointledger/service"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps a failure kind to the HTTP status it is reported with
func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindInvalidAmount, service.KindInvalidHandle, service.KindSelfTransfer,
		service.KindSelfRequest, service.KindInvalidRequest:
		return http.StatusBadRequest
	case service.KindRecipientNotFound, service.KindTargetNotFound, service.KindRequestNotFound,
		service.KindNotFound:
		return http.StatusNotFound
	case service.KindNotPayer, service.KindNoPermission:
		return http.StatusForbidden
	case service.KindHandleTaken, service.KindNotPending:
		return http.StatusConflict
	case service.KindInsufficientBalance:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := service.KindOf(err)
	status := statusFor(kind)
	metrics.RecordFailure(string(kind))

	entry := log.WithFields(log.Fields{
		"request_id": GetRequestID(r.Context()),
		"path":       r.URL.Path,
		"kind":       kind,
	})
	if status == http.StatusInternalServerError {
		entry.WithError(err).Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	writeJSON(w, status, errorResponse{Error: string(kind), Message: service.MessageOf(err)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}
