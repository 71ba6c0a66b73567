package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/freshfold/laundry-api/config"
	"github.com/freshfold/laundry-api/utils"
	"go.uber.org/zap"
)

// photoURLExpiry is how long a presigned garment photo URL stays valid
const photoURLExpiry = time.Hour

// S3Interface defines the object storage operations garment photos need
type S3Interface interface {
	UploadFile(ctx context.Context, key string, fileHeader *multipart.FileHeader) error
	GetPresignedURL(ctx context.Context, s3Key string) (string, error)
	DeleteFile(ctx context.Context, s3Key string) error
}

// S3Service stores garment photos in an S3 bucket
type S3Service struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

var s3ServiceInstance S3Interface

// InitS3Service initializes the S3 service with the configured AWS credentials
func InitS3Service(ctx context.Context, cfg *appConfig.Config, logger *zap.Logger) (S3Interface, error) {
	if cfg.AWSS3Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required for photo storage")
	}

	options := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		options = append(options, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3ServiceInstance = &S3Service{
		client: s3.NewFromConfig(awsConfig),
		bucket: cfg.AWSS3Bucket,
		logger: logger,
	}

	return s3ServiceInstance, nil
}

// GetS3Service returns the initialized S3 service instance
func GetS3Service() S3Interface {
	return s3ServiceInstance
}

// SetS3Service sets the S3 service instance (primarily for testing)
func SetS3Service(service S3Interface) {
	s3ServiceInstance = service
}

// UploadFile uploads a photo to S3 under key
func (s *S3Service) UploadFile(ctx context.Context, key string, fileHeader *multipart.FileHeader) error {
	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.logger.Warn("failed to close uploaded file", zap.Error(closeErr))
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(utils.ImageContentType(fileHeader.Filename)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	s.logger.Debug("uploaded photo", zap.String("key", key), zap.Int("bytes", len(content)))
	return nil
}

// GetPresignedURL generates a presigned GET URL for a private photo
func (s *S3Service) GetPresignedURL(ctx context.Context, s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = photoURLExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	s.logger.Debug("presigned photo URL", zap.String("key", s3Key))
	return request.URL, nil
}

// DeleteFile deletes a photo from S3
func (s *S3Service) DeleteFile(ctx context.Context, s3Key string) error {
	if s3Key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}
