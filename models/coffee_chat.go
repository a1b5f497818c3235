package models

// CoffeeChat represents one scheduled 1:1 pairing stored in DynamoDB
type CoffeeChat struct {
	ChatID        string   `dynamodbav:"chatId" json:"chatId"` // ✅ Partition Key
	Participant1  string   `dynamodbav:"participant1" json:"participant1"`
	Participant2  string   `dynamodbav:"participant2" json:"participant2"`
	Title         string   `dynamodbav:"title,omitempty" json:"title,omitempty"`
	ScheduledDate string   `dynamodbav:"scheduledDate" json:"scheduledDate"` // YYYY-MM-DD
	WeekOf        string   `dynamodbav:"weekOf,omitempty" json:"weekOf,omitempty"` // YYYY-Www
	Status        string   `dynamodbav:"status" json:"status"`
	AutoGenerated bool     `dynamodbav:"autoGenerated" json:"autoGenerated"`
	Rating        *float64 `dynamodbav:"rating,omitempty" json:"rating,omitempty"` // set by feedback flow
	CreatedAt     string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// CoffeeChatsTable is the DynamoDB table name for coffee chats
const CoffeeChatsTable = "CoffeeChats"

// MatchingStats is a read-side projection over a chat collection
type MatchingStats struct {
	TotalMatches     int     `json:"totalMatches"`
	CompletedMatches int     `json:"completedMatches"`
	CancelledMatches int     `json:"cancelledMatches"`
	UpcomingMatches  int     `json:"upcomingMatches"`
	AverageRating    float64 `json:"averageRating"`
}
