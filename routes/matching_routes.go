package routes

import (
	"coffee_closer_server/controllers"
	"coffee_closer_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchingRoutes sets up routes for the weekly matching batch under /api/matching
func RegisterMatchingRoutes(r *mux.Router, matching *services.MatchingService, chats *services.ChatService, reports *services.ReportService) {
	controller := controllers.NewMatchingController(matching, chats, reports)

	matchingRouter := r.PathPrefix("/api/matching").Subrouter()

	matchingRouter.HandleFunc("/generate", controller.GenerateMatches).Methods("POST") // ✅ Preview a pairing round
	matchingRouter.HandleFunc("/chats", controller.CreateCoffeeChats).Methods("POST")  // ✅ Commit a match list
	matchingRouter.HandleFunc("/stats", controller.GetMatchingStats).Methods("GET")
}
