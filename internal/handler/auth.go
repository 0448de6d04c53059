package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/osse101/AdventureAdmin_Go/internal/auth"
	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/logger"
	"github.com/osse101/AdventureAdmin_Go/internal/middleware"
)

// SignUpRequest is the body of POST /api/signup.
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=6,max=128"`
	DisplayName string `json:"displayName" validate:"omitempty,max=100"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

type SessionRequest struct {
	Token string `json:"token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// SignUpResponse carries the new admin's session.
type SignUpResponse struct {
	Message string         `json:"message"`
	Session domain.Session `json:"session"`
}

// SessionResponse reports whether a token is valid.
type SessionResponse struct {
	Valid bool   `json:"valid"`
	UID   string `json:"uid,omitempty"`
	Email string `json:"email,omitempty"`
	Error string `json:"error,omitempty"`
}

// AuthHandler serves the admin account routes.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// HandleSignUp creates an admin account
// @Summary Sign up
// @Description Creates an identity account, writes an Admin profile and signs the new admin in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Account details"
// @Success 201 {object} SignUpResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/signup [post]
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Sign up"); err != nil {
		return
	}

	session, err := h.svc.SignUp(r.Context(), auth.SignUpRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		respondServiceError(w, r, "Sign up", err)
		return
	}

	logger.FromContext(r.Context()).Info("Admin signed up", "uid", session.UID)
	respondJSON(w, http.StatusCreated, SignUpResponse{Message: MsgSignedUp, Session: session})
}

// HandleSignIn exchanges credentials for a session
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Credentials"
// @Success 200 {object} domain.Session
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/signin [post]
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Sign in"); err != nil {
		return
	}

	session, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, "Sign in", err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// HandleSession verifies a bearer token
// @Summary Verify session
// @Description Validates the bearer token, or the token field of the body when no header is sent
// @Tags auth
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {object} SessionResponse
// @Failure 401 {object} SessionResponse
// @Router /api/session [post]
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" && r.ContentLength != 0 {
		var req SessionRequest
		if err := decodeOptional(r, &req); err != nil {
			respondJSON(w, http.StatusBadRequest, SessionResponse{Error: ErrMsgInvalidRequest})
			return
		}
		token = req.Token
	}

	claims, err := h.svc.VerifySession(r.Context(), token)
	if err != nil {
		status, msg := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.FromContext(r.Context()).Error("Session check failed", "error", err)
		}
		respondJSON(w, status, SessionResponse{Valid: false, Error: msg})
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{Valid: true, UID: claims.UID, Email: claims.Email})
}

// HandleForgotPassword sends a password reset email
// @Summary Forgot password
// @Description Always answers 200 so account existence is not revealed
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/forgot-password [post]
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Forgot password"); err != nil {
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		respondServiceError(w, r, "Forgot password", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgResetSent})
}

// HandleLogout revokes the caller's sessions
// @Summary Log out
// @Tags auth
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/logout [post]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), middleware.BearerToken(r)); err != nil {
		respondServiceError(w, r, "Logout", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgLoggedOut})
}

// decodeOptional decodes a JSON body, treating an empty body as zero value.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
