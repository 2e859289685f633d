package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PhotoService hands out presigned S3 URLs for profile and spot photos.
// The stored photoUrl fields reference the object key, never the bucket.
type PhotoService struct {
	Bucket    string
	Presigner *s3.PresignClient
	Expiry    time.Duration
}

// NewPhotoService builds the S3 presigner from the ambient AWS config.
func NewPhotoService() (*PhotoService, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &PhotoService{
		Bucket:    os.Getenv("S3_BUCKET_NAME"),
		Presigner: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		Expiry:    5 * time.Minute,
	}, nil
}

// UploadURL returns a presigned PUT URL and the object key the photo will
// live under.
func (ps *PhotoService) UploadURL(ctx context.Context, kind, fileName, fileType string) (string, string, error) {
	key := kind + "/" + time.Now().Format("20060102150405") + "-" + fileName
	presigned, err := ps.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ps.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}, s3.WithPresignExpires(ps.Expiry))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return presigned.URL, key, nil
}

// ReadURL returns a presigned GET URL for a stored photo key.
func (ps *PhotoService) ReadURL(ctx context.Context, key string) (string, error) {
	presigned, err := ps.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ps.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ps.Expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign read: %w", err)
	}
	return presigned.URL, nil
}
