// Package storage provides S3-backed document storage for invoice and
// contract PDFs.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appConfig "freelance-rate-engine/internal/config"
	"freelance-rate-engine/internal/utils"
)

// Service handles document storage operations.
type Service struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucketName string
}

// PresignedURL contains the presigned URL details handed to the client.
type PresignedURL struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewService creates a new storage service.
func NewService(ctx context.Context, appCfg *appConfig.Config) (*Service, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(appCfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return &Service{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucketName: appCfg.S3Bucket,
	}, nil
}

// DocumentKey builds a unique storage key for an owner's document.
// The kind is "invoices" or "contracts"; the uuid prevents collisions
// and key guessing.
func DocumentKey(kind string, ownerID int64) string {
	return fmt.Sprintf("%s/%d/%s.pdf", kind, ownerID, uuid.NewString())
}

// PresignUpload creates a presigned URL for uploading a PDF document.
func (s *Service) PresignUpload(ctx context.Context, key string, expiryMinutes int) (*PresignedURL, error) {
	if expiryMinutes <= 0 {
		expiryMinutes = 15
	}
	expiry := time.Duration(expiryMinutes) * time.Minute

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String("application/pdf"),
	}

	presignedReq, err := s.presigner.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		utils.GetLogger().Error("Failed to presign upload",
			zap.String("bucket", s.bucketName),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &PresignedURL{
		URL:       presignedReq.URL,
		Key:       key,
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

// PresignDownload creates a presigned URL for downloading a stored document.
func (s *Service) PresignDownload(ctx context.Context, key string, expiryMinutes int) (*PresignedURL, error) {
	if expiryMinutes <= 0 {
		expiryMinutes = 15
	}
	expiry := time.Duration(expiryMinutes) * time.Minute

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}

	presignedReq, err := s.presigner.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign download: %w", err)
	}

	return &PresignedURL{
		URL:       presignedReq.URL,
		Key:       key,
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

// Delete removes a stored document.
func (s *Service) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	utils.GetLogger().Info("Deleted document",
		zap.String("bucket", s.bucketName),
		zap.String("key", key),
	)
	return nil
}
