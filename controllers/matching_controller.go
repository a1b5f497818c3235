package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"coffee_closer_server/services"
)

// MatchingController handles HTTP requests for the weekly matching batch
type MatchingController struct {
	MatchingService *services.MatchingService
	ChatService     *services.ChatService
	ReportService   *services.ReportService
}

// NewMatchingController creates a new MatchingController instance
func NewMatchingController(matching *services.MatchingService, chats *services.ChatService, reports *services.ReportService) *MatchingController {
	return &MatchingController{MatchingService: matching, ChatService: chats, ReportService: reports}
}

// GenerateMatches runs a preview round without persisting anything
func (mc *MatchingController) GenerateMatches(w http.ResponseWriter, r *http.Request) {
	var opts services.MatchOptions
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	result, err := mc.MatchingService.GenerateMatches(r.Context(), opts)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate matches: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// CommitRequest carries a previously generated (or hand-curated) match list
type CommitRequest struct {
	Matches []services.MatchResult   `json:"matches"`
	Stats   services.GenerationStats `json:"stats"`
}

// CreateCoffeeChats persists a match list as chat records. Individual write
// failures are reported in the response, not as an HTTP error.
func (mc *MatchingController) CreateCoffeeChats(w http.ResponseWriter, r *http.Request) {
	var req CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Matches) == 0 {
		http.Error(w, "matches are required", http.StatusBadRequest)
		return
	}

	result := mc.MatchingService.CreateCoffeeChats(r.Context(), req.Matches)

	// Report upload is best effort; the chats are already committed.
	if mc.ReportService != nil {
		report := services.BuildReport(req.Stats, result, time.Now())
		if _, err := mc.ReportService.UploadReport(r.Context(), report); err != nil {
			log.Printf("⚠️ Failed to upload matching report: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// GetMatchingStats returns the aggregate projection over all chats
func (mc *MatchingController) GetMatchingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := mc.ChatService.GetMatchingStats(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to compute stats: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(stats)
}
