package server

import (
	"net/http"
	"strings"

	"foodbridge/pkg/types"
)

type createRequestInput struct {
	DonationID string `json:"donation_id"`
	NGOEmail   string `json:"ngo_email"`
}

func (s *Service) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var input createRequestInput
	if err := decodeJSON(r, &input); err != nil {
		s.writeJSON(w, http.StatusBadRequest, types.Response{Message: "invalid JSON payload"})
		return
	}

	request, err := s.coordinator.CreateRequestForEmail(r.Context(), input.NGOEmail, strings.TrimSpace(input.DonationID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusCreated, "Request created successfully!", request)
}

func (s *Service) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.coordinator.RequestsByOrganization(r.Context(), r.PathValue("ngoID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusOK, "Requests fetched", requests)
}

func (s *Service) handleUpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	status, err := statusFromRequest(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, types.Response{Message: "invalid status payload"})
		return
	}

	request, err := s.coordinator.TransitionRequest(r.Context(), r.PathValue("id"), types.RequestStatus(status))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusOK, "Request status updated!", request)
}

func (s *Service) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	if err := s.coordinator.DeleteRequest(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusOK, "Request deleted successfully!", nil)
}
