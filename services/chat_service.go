package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"coffee_closer_server/models"
	"coffee_closer_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ChatService is the coffee-chat store collaborator
type ChatService struct {
	Dynamo *DynamoService
}

// CreateChat persists a new coffee chat record. A chat ID and creation
// timestamp are assigned here if the caller left them empty.
func (s *ChatService) CreateChat(ctx context.Context, chat models.CoffeeChat) (models.CoffeeChat, error) {
	if chat.Participant1 == "" || chat.Participant2 == "" {
		return models.CoffeeChat{}, fmt.Errorf("coffee chat requires two participants")
	}
	if chat.ChatID == "" {
		chat.ChatID = uuid.NewString()
	}
	if chat.Status == "" {
		chat.Status = models.ChatStatusScheduled
	}
	if chat.CreatedAt == "" {
		chat.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if err := s.Dynamo.PutItem(ctx, models.CoffeeChatsTable, chat); err != nil {
		log.Printf("❌ Failed to store coffee chat %s: %v", chat.ChatID, err)
		return models.CoffeeChat{}, fmt.Errorf("failed to store coffee chat: %w", err)
	}

	log.Printf("✅ Stored coffee chat %s (%s)", chat.ChatID, chat.Title)
	return chat, nil
}

// GetAllChats returns every coffee chat, newest scheduled date first
func (s *ChatService) GetAllChats(ctx context.Context) ([]models.CoffeeChat, error) {
	var chats []models.CoffeeChat
	if err := s.Dynamo.ScanWithFilter(ctx, models.CoffeeChatsTable, nil, &chats); err != nil {
		return nil, fmt.Errorf("failed to fetch coffee chats: %w", err)
	}

	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].ScheduledDate > chats[j].ScheduledDate
	})

	return chats, nil
}

// GetChatsForUser returns chats where the user occupies either participant slot
func (s *ChatService) GetChatsForUser(ctx context.Context, userID string) ([]models.CoffeeChat, error) {
	log.Printf("🔍 Fetching coffee chats for userId: %s", userID)

	var chats []models.CoffeeChat
	err := s.Dynamo.ScanWithFilter(ctx, models.CoffeeChatsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "participant1") == userID ||
			utils.ExtractString(item, "participant2") == userID
	}, &chats)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coffee chats for user %s: %w", userID, err)
	}

	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].ScheduledDate > chats[j].ScheduledDate
	})

	log.Printf("✅ Found %d coffee chats for userId: %s", len(chats), userID)
	return chats, nil
}

// UpdateChatStatus moves a chat through the scheduling/feedback lifecycle and
// optionally records a rating. The matching engine never calls this; it
// belongs to the downstream flows.
func (s *ChatService) UpdateChatStatus(ctx context.Context, chatID, status string, rating *float64) (models.CoffeeChat, error) {
	switch status {
	case models.ChatStatusScheduled, models.ChatStatusCompleted, models.ChatStatusCancelled, models.ChatStatusNoShow:
	default:
		return models.CoffeeChat{}, fmt.Errorf("invalid chat status: %q", status)
	}

	key := map[string]types.AttributeValue{
		"chatId": &types.AttributeValueMemberS{Value: chatID},
	}
	updateExpression := "SET #status = :status"
	expressionValues := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: status},
	}
	expressionNames := map[string]string{
		"#status": "status",
	}
	if rating != nil {
		updateExpression += ", rating = :rating"
		expressionValues[":rating"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%g", *rating)}
	}

	attrs, err := s.Dynamo.UpdateItem(ctx, models.CoffeeChatsTable, updateExpression, key, expressionValues, expressionNames)
	if err != nil {
		return models.CoffeeChat{}, fmt.Errorf("failed to update chat %s: %w", chatID, err)
	}

	var chat models.CoffeeChat
	if err := attributevalue.UnmarshalMap(attrs, &chat); err != nil {
		return models.CoffeeChat{}, fmt.Errorf("failed to parse updated chat %s: %w", chatID, err)
	}

	log.Printf("✅ Chat %s moved to status %s", chatID, status)
	return chat, nil
}

// GetMatchingStats projects aggregate stats over the whole chat collection
func (s *ChatService) GetMatchingStats(ctx context.Context) (models.MatchingStats, error) {
	chats, err := s.GetAllChats(ctx)
	if err != nil {
		return models.MatchingStats{}, err
	}
	return ComputeMatchingStats(chats, time.Now()), nil
}

// ComputeMatchingStats aggregates counts over a chat collection. Upcoming
// means still scheduled with a date after now; cancelled includes no-shows.
// The average covers only chats that carry a rating.
func ComputeMatchingStats(chats []models.CoffeeChat, now time.Time) models.MatchingStats {
	stats := models.MatchingStats{TotalMatches: len(chats)}

	today := now.Format("2006-01-02")
	ratingSum := 0.0
	rated := 0

	for _, chat := range chats {
		switch chat.Status {
		case models.ChatStatusCompleted:
			stats.CompletedMatches++
		case models.ChatStatusCancelled, models.ChatStatusNoShow:
			stats.CancelledMatches++
		case models.ChatStatusScheduled:
			if chat.ScheduledDate > today {
				stats.UpcomingMatches++
			}
		}
		if chat.Rating != nil {
			ratingSum += *chat.Rating
			rated++
		}
	}

	if rated > 0 {
		stats.AverageRating = ratingSum / float64(rated)
	}
	return stats
}
