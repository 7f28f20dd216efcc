package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/claude/workouttracker/internal/auth"
	"github.com/claude/workouttracker/internal/storage"
)

type signupRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /v1/auth/login.
type LoginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Name, surname, email and password are required.")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Surname == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Name, surname, email and password are required.")
		return
	}

	hash, err := auth.HashPassword(req.Password, s.opts.BcryptCost)
	if err != nil {
		s.writeInternal(w, r, "hashing password failed", err)
		return
	}
	_, err = s.store.CreateUser(r.Context(), req.Name, req.Surname, req.Email, hash)
	if errors.Is(err, storage.ErrUserExists) {
		writeMessage(w, http.StatusBadRequest, "User already exists. Please login.")
		return
	}
	if err != nil {
		s.writeInternal(w, r, "creating user failed", err)
		return
	}
	writeMessage(w, http.StatusCreated, "You have registered successfully, please proceed to log in.")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.writeInternal(w, r, "looking up user failed", err)
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.countLogin("failure")
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, exp, err := s.issuer.Issue(user.ID)
	if err != nil {
		s.writeInternal(w, r, "issuing token failed", err)
		return
	}
	s.countLogin("success")

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, LoginResponse{Message: "Logged in successfully", Token: token, ExpiresAt: exp})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Token is missing!")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) countLogin(result string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.CounterLogins.WithLabelValues(result).Inc()
	}
}
