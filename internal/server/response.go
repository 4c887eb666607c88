package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"foodbridge/pkg/types"
)

const storeFailureMessage = "The record store could not complete the operation. Please try again."

func (s *Service) writeJSON(w http.ResponseWriter, status int, resp types.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) writeOK(w http.ResponseWriter, status int, message string, data any) {
	s.writeJSON(w, status, types.Response{Success: true, Message: message, Data: data})
}

// writeError maps err onto a status code. Store failures are logged in full
// but reported to the caller with a generic message.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := types.KindOf(err)

	status := http.StatusInternalServerError
	message := err.Error()

	switch kind {
	case types.ErrInvalidInput, types.ErrIllegalTransition:
		status = http.StatusBadRequest
	case types.ErrNotFound:
		status = http.StatusNotFound
	case types.ErrConflict:
		status = http.StatusConflict
	case types.ErrStoreTimeout:
		status = http.StatusServiceUnavailable
		message = storeFailureMessage
	default:
		message = storeFailureMessage
	}

	entry := s.logger.WithError(err).WithField("path", r.URL.Path).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}

	if errors.Is(kind, types.ErrStoreTimeout) {
		w.Header().Set("Retry-After", "1")
	}

	s.writeJSON(w, status, types.Response{Success: false, Message: message})
}

func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}
