package routes

import (
	"coffee_closer_server/controllers"
	"coffee_closer_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for coffee chat records under /api/chats
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService) {
	controller := controllers.NewChatController(chatService)

	chatRouter := r.PathPrefix("/api/chats").Subrouter()

	chatRouter.HandleFunc("", controller.GetAllChats).Methods("GET")
	chatRouter.HandleFunc("/user/{userId}", controller.GetChatsForUser).Methods("GET")
	chatRouter.HandleFunc("/{chatId}", controller.UpdateChatStatus).Methods("PATCH") // ✅ Scheduling/feedback flows
}
