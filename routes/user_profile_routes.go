package routes

import (
	"coffee_closer_server/controllers"
	"coffee_closer_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for the member directory under /api/profiles
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()

	profileRouter.HandleFunc("", controller.GetAllProfiles).Methods("GET")
	profileRouter.HandleFunc("/{userId}", controller.GetProfile).Methods("GET")
}
