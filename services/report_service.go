package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"coffee_closer_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MatchingReport is the weekly artifact dropped in S3 after a batch run
type MatchingReport struct {
	WeekOf      string              `json:"weekOf"`
	GeneratedAt string              `json:"generatedAt"`
	Stats       GenerationStats     `json:"stats"`
	Created     []models.CoffeeChat `json:"created"`
	Failed      []FailedMatch       `json:"failed"`
}

// ReportService uploads weekly matching reports to S3
type ReportService struct {
	Client *s3.Client
	Bucket string
}

// InitializeS3Client initializes the S3 client
func InitializeS3Client() *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return s3.NewFromConfig(cfg)
}

// BuildReport assembles the report body for one committed batch
func BuildReport(stats GenerationStats, created *CreateResult, now time.Time) MatchingReport {
	report := MatchingReport{
		WeekOf:      weekIdentifier(nextMonday(now)),
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Stats:       stats,
	}
	if created != nil {
		report.Created = created.Created
		report.Failed = created.Failed
	}
	return report
}

// UploadReport writes the report as JSON under reports/matching/<week>.json
func (s *ReportService) UploadReport(ctx context.Context, report MatchingReport) (string, error) {
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal matching report: %w", err)
	}

	key := "reports/matching/" + report.WeekOf + ".json"
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload matching report to bucket '%s': %w", s.Bucket, err)
	}

	log.Printf("✅ Uploaded matching report to s3://%s/%s", s.Bucket, key)
	return key, nil
}
