package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"coffee_closer_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles HTTP requests for the member directory
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new UserProfileController instance
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// GetAllProfiles handles listing directory profiles; ?active=true narrows to
// active members only
func (uc *UserProfileController) GetAllProfiles(w http.ResponseWriter, r *http.Request) {
	var err error
	var profiles interface{}

	if r.URL.Query().Get("active") == "true" {
		profiles, err = uc.UserProfileService.GetActiveProfiles(r.Context())
	} else {
		profiles, err = uc.UserProfileService.GetAllProfiles(r.Context())
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch profiles: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"profiles": profiles,
	})
}

// GetProfile handles fetching a single profile by user ID
func (uc *UserProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	profile, err := uc.UserProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch profile: %v", err), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(profile)
}
