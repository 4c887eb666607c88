package server

import (
	"net/http"
	"strings"

	"foodbridge/pkg/types"
)

type createDonationInput struct {
	UserID     string `json:"user_id"`
	FoodItem   string `json:"food_item"`
	Quantity   int    `json:"quantity"`
	ExpiryDate string `json:"expiry_date"`
}

// statusInput also accepts the id of the record being updated in the body;
// the path parameter stays authoritative.
type statusInput struct {
	Status     string `form:"status" json:"status"`
	DonationID string `form:"-" json:"donation_id"`
	RequestID  string `form:"-" json:"request_id"`
}

// statusFromRequest reads the target status from the query string, falling
// back to a JSON body.
func statusFromRequest(r *http.Request) (string, error) {
	var input statusInput
	if err := decoder.Decode(&input, r.URL.Query()); err != nil {
		return "", err
	}
	if strings.TrimSpace(input.Status) != "" {
		return strings.TrimSpace(input.Status), nil
	}

	if r.ContentLength == 0 {
		return "", nil
	}
	if err := decodeJSON(r, &input); err != nil {
		return "", err
	}
	return strings.TrimSpace(input.Status), nil
}

func (s *Service) handleListDonations(w http.ResponseWriter, r *http.Request) {
	var filter statusInput
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		s.writeJSON(w, http.StatusBadRequest, types.Response{Message: "invalid query parameters"})
		return
	}

	status := types.DonationStatusAvailable
	if filter.Status != "" {
		status = types.DonationStatus(filter.Status)
	}

	donations, err := s.coordinator.DonationsByStatus(r.Context(), status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusOK, "Donations fetched", donations)
}

func (s *Service) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	var input createDonationInput
	if err := decodeJSON(r, &input); err != nil {
		s.writeJSON(w, http.StatusBadRequest, types.Response{Message: "invalid JSON payload"})
		return
	}

	donation, err := s.coordinator.CreateDonation(r.Context(), input.UserID, input.FoodItem, input.Quantity, input.ExpiryDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusCreated, "Donation added successfully!", donation)
}

func (s *Service) handleGetDonation(w http.ResponseWriter, r *http.Request) {
	detail, err := s.coordinator.Donation(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusOK, "Donation fetched", detail)
}

func (s *Service) handleUpdateDonationStatus(w http.ResponseWriter, r *http.Request) {
	status, err := statusFromRequest(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, types.Response{Message: "invalid status payload"})
		return
	}

	donation, err := s.coordinator.TransitionDonation(r.Context(), r.PathValue("id"), types.DonationStatus(status))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusOK, "Donation status updated!", donation)
}

func (s *Service) handleDeleteDonation(w http.ResponseWriter, r *http.Request) {
	if err := s.coordinator.DeleteDonation(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusOK, "Donation deleted successfully!", nil)
}
