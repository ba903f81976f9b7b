package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/cookpress/backend/config"
)

// ShareService uploads rendered cookbooks to S3 and hands back a public
// URL. Sharing is a delivery mechanism only; the document itself stays
// self-contained.
type ShareService struct {
	s3Config *config.S3Config
}

// NewShareService creates a ShareService on top of an S3 configuration.
func NewShareService(s3Config *config.S3Config) *ShareService {
	return &ShareService{s3Config: s3Config}
}

// Upload stores the rendered document under a fresh key and returns its
// public URL.
func (s *ShareService) Upload(ctx context.Context, data []byte, contentType, extension string) (string, error) {
	key := fmt.Sprintf("cookbooks/%s%s", uuid.New().String(), extension)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[ShareService] uploaded cookbook to %s", publicURL)
	return publicURL, nil
}
