package handler

import (
	"net/http"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/middleware"
	"github.com/osse101/AdventureAdmin_Go/internal/users"
)

// UpdateProfileRequest is the body of PUT /api/user/profile. Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName" validate:"omitempty,max=100"`
	PhotoURL    *string `json:"photoUrl" validate:"omitempty,url,max=2048"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,e164"`
}

// HandleGetProfile returns the caller's profile
// @Summary Get profile
// @Tags profile
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} domain.User
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/user/profile [get]
func HandleGetProfile(svc users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.GetUserID(r.Context())
		if uid == "" {
			respondError(w, http.StatusUnauthorized, domain.ErrMsgMissingToken)
			return
		}

		user, err := svc.GetProfile(r.Context(), uid)
		if err != nil {
			respondServiceError(w, r, "Get profile", err)
			return
		}
		respondJSON(w, http.StatusOK, user)
	}
}

// HandleUpdateProfile changes the caller's profile and mirrors it into the identity account
// @Summary Update profile
// @Tags profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} domain.User
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/user/profile [put]
func HandleUpdateProfile(svc users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.GetUserID(r.Context())
		if uid == "" {
			respondError(w, http.StatusUnauthorized, domain.ErrMsgMissingToken)
			return
		}

		var req UpdateProfileRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Update profile"); err != nil {
			return
		}

		user, err := svc.UpdateProfile(r.Context(), uid, domain.ProfileUpdate{
			DisplayName: req.DisplayName,
			PhotoURL:    req.PhotoURL,
			PhoneNumber: req.PhoneNumber,
		})
		if err != nil {
			respondServiceError(w, r, "Update profile", err)
			return
		}
		respondJSON(w, http.StatusOK, user)
	}
}
