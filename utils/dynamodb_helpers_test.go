package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestExtractHelpers(t *testing.T) {
	item := map[string]types.AttributeValue{
		"name":         &types.AttributeValueMemberS{Value: "Alice"},
		"activeMember": &types.AttributeValueMemberBOOL{Value: true},
	}

	if got := ExtractString(item, "name"); got != "Alice" {
		t.Fatalf("expected Alice, got %q", got)
	}
	if got := ExtractString(item, "missing"); got != "" {
		t.Fatalf("missing field should yield empty string, got %q", got)
	}
	if !ExtractBool(item, "activeMember") {
		t.Fatalf("expected activeMember true")
	}
	if ExtractBool(item, "name") {
		t.Fatalf("non-bool attribute should yield false")
	}
}
