package services

import (
	"context"
	"fmt"
	"log"

	"coffee_closer_server/models"
	"coffee_closer_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserProfileService is the member-directory collaborator. Reads only; the
// CMS admin surface owns profile writes.
type UserProfileService struct {
	Dynamo *DynamoService
}

// GetProfile retrieves a single profile by user ID
func (s *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, fmt.Errorf("user profile not found for userId %s: %w", userID, err)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile for userId %s: %w", userID, err)
	}
	return &profile, nil
}

// GetAllProfiles returns a full snapshot of the member directory
func (s *UserProfileService) GetAllProfiles(ctx context.Context) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := s.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, nil, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}

	log.Printf("✅ Fetched %d profiles from directory", len(profiles))
	return profiles, nil
}

// GetActiveProfiles returns the snapshot filtered to active members. The
// activeMember flag is checked at scan time so inactive profiles never reach
// the matching engine.
func (s *UserProfileService) GetActiveProfiles(ctx context.Context) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := s.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractBool(item, "activeMember")
	}, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active profiles: %w", err)
	}

	log.Printf("✅ Fetched %d active profiles from directory", len(profiles))
	return profiles, nil
}
