package api

import (
	"net/http"

	"github.com/marinesurvey/inspector/internal/server/models"
	"github.com/marinesurvey/inspector/internal/server/services"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	UserID            string `json:"userId"`
	Email             string `json:"email"`
	IsProfileComplete bool   `json:"isProfileComplete"`
}

type loginResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	Token             string `json:"token"`
	UserID            string `json:"userId"`
	Email             string `json:"email"`
	IsProfileComplete bool   `json:"isProfileComplete"`
	FullName          string `json:"fullName"`
	Title             string `json:"title"`
	Company           string `json:"company"`
}

type userResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.deps.Users.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{
		Success:           true,
		Message:           "Signup successful",
		UserID:            user.ID,
		Email:             user.Email,
		IsProfileComplete: user.IsProfileComplete,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.deps.Users.Login(r.Context(), req.Email, req.Password, services.ClientInfo{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Success:           true,
		Message:           "Login success",
		Token:             res.Token,
		UserID:            res.User.ID,
		Email:             res.User.Email,
		IsProfileComplete: res.User.IsProfileComplete,
		FullName:          res.User.FullName,
		Title:             res.User.Title,
		Company:           res.User.Company,
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized - No token")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Success: true, User: user})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized - No token")
		return
	}

	var upd models.ProfileUpdate
	if err := decodeOptionalJSON(w, r, &upd); err != nil {
		s.fail(w, r, err)
		return
	}

	updated, err := s.deps.Users.UpdateProfile(r.Context(), user, upd)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    updated,
	})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized - No token")
		return
	}

	if err := s.deps.Users.Delete(r.Context(), user.ID); err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Account deleted successfully"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "API is running",
		"status":  "healthy",
	})
}

func (s *Server) handleListLogins(w http.ResponseWriter, r *http.Request) {
	logins, err := s.deps.Logins.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logins)
}

func (s *Server) handleSendQuotation(w http.ResponseWriter, r *http.Request) {
	var q models.QuotationRequest
	if err := decodeJSON(w, r, &q); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.deps.Quotations.Send(r.Context(), q); err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Quotation request sent"})
}
