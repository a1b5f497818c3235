package models

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// FieldCode is a canonical enum code for a profile field. Older CMS entries
// store these fields as a raw string ("EST"), newer ones as an object
// ({"key": "EST", "value": "Eastern Time"}); both unmarshal to the bare code.
type FieldCode string

func (c FieldCode) String() string { return string(c) }

// UnmarshalDynamoDBAttributeValue accepts both legacy shapes from the store.
func (c *FieldCode) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		*c = FieldCode(v.Value)
		return nil
	case *types.AttributeValueMemberM:
		for _, k := range []string{"key", "code"} {
			if attr, ok := v.Value[k]; ok {
				if s, ok := attr.(*types.AttributeValueMemberS); ok {
					*c = FieldCode(s.Value)
					return nil
				}
			}
		}
		return fmt.Errorf("field code object is missing a string key/code attribute")
	case *types.AttributeValueMemberNULL:
		*c = ""
		return nil
	default:
		return fmt.Errorf("unsupported attribute type %T for field code", av)
	}
}

// MarshalDynamoDBAttributeValue always writes the canonical string form.
func (c FieldCode) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberS{Value: string(c)}, nil
}

// UnmarshalJSON mirrors the attributevalue behaviour for the HTTP surface.
func (c *FieldCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = FieldCode(s)
		return nil
	}
	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("field code must be a string or a {key,value} object")
	}
	for _, k := range []string{"key", "code"} {
		if v, ok := obj[k]; ok {
			*c = FieldCode(v)
			return nil
		}
	}
	return fmt.Errorf("field code object is missing a key/code entry")
}

func (c FieldCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

// UserProfile defines the structure for member profiles
type UserProfile struct {
	UserID          string    `dynamodbav:"userId" json:"userId"` // ✅ Partition Key
	Name            string    `dynamodbav:"name,omitempty" json:"name,omitempty"`
	EmailID         string    `dynamodbav:"emailId,omitempty" json:"emailId,omitempty"`
	JobTitle        string    `dynamodbav:"jobTitle,omitempty" json:"jobTitle,omitempty"`
	Company         string    `dynamodbav:"company,omitempty" json:"company,omitempty"`
	Bio             string    `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	ActiveMember    bool      `dynamodbav:"activeMember" json:"activeMember"`
	Timezone        FieldCode `dynamodbav:"timezone,omitempty" json:"timezone,omitempty"`
	ExperienceLevel FieldCode `dynamodbav:"experienceLevel,omitempty" json:"experienceLevel,omitempty"`
	IndustryFocus   []string  `dynamodbav:"industryFocus,omitempty" json:"industryFocus,omitempty"`
	Availability    []string  `dynamodbav:"availability,omitempty" json:"availability,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "Users"
