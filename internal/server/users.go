package server

import (
	"net/http"

	"foodbridge/pkg/types"
)

type createUserInput struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     types.Role `json:"role"`
}

func (s *Service) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.coordinator.Users(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusOK, "Users fetched", users)
}

func (s *Service) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var input createUserInput
	if err := decodeJSON(r, &input); err != nil {
		s.writeJSON(w, http.StatusBadRequest, types.Response{Message: "invalid JSON payload"})
		return
	}

	user, err := s.coordinator.CreateUser(r.Context(), input.Name, input.Email, input.Password, input.Role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusCreated, "User added successfully!", user)
}

func (s *Service) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.coordinator.User(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusOK, "User fetched", user)
}

func (s *Service) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var update types.UserUpdate
	if err := decodeJSON(r, &update); err != nil {
		s.writeJSON(w, http.StatusBadRequest, types.Response{Message: "invalid JSON payload"})
		return
	}

	user, err := s.coordinator.UpdateUser(r.Context(), r.PathValue("id"), update)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusOK, "User updated successfully!", user)
}

func (s *Service) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.coordinator.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeOK(w, http.StatusOK, "User deleted successfully!", nil)
}
