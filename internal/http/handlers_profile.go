package http

import (
	"net/http"

	"pulse/internal/identity"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.profiles.Get(r.Context(), identity.OwnerID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(u))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	patch, err := parseProfilePatch(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := s.profiles.UpdateName(r.Context(), identity.OwnerID(r.Context()), *patch.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(u))
}

// handleDeleteProfile removes the caller and everything they imported.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.Delete(r.Context(), identity.OwnerID(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully."})
}
