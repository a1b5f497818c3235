package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"coffee_closer_server/services"

	"github.com/gorilla/mux"
)

// ChatController handles HTTP requests for coffee chat records
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController creates a new ChatController instance
func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// GetAllChats handles listing every coffee chat
func (cc *ChatController) GetAllChats(w http.ResponseWriter, r *http.Request) {
	chats, err := cc.ChatService.GetAllChats(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch chats: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"chats": chats,
	})
}

// GetChatsForUser handles listing chats for one member
func (cc *ChatController) GetChatsForUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	chats, err := cc.ChatService.GetChatsForUser(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch chats: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"chats": chats,
	})
}

// UpdateChatStatus handles status/rating updates from the scheduling and
// feedback flows
func (cc *ChatController) UpdateChatStatus(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]
	if chatID == "" {
		http.Error(w, "chatId is required", http.StatusBadRequest)
		return
	}

	var body struct {
		Status string   `json:"status"`
		Rating *float64 `json:"rating,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.Status == "" {
		http.Error(w, "status is required", http.StatusBadRequest)
		return
	}

	chat, err := cc.ChatService.UpdateChatStatus(r.Context(), chatID, body.Status, body.Rating)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to update chat: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(chat)
}
