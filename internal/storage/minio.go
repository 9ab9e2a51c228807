package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var Client *minio.Client
var BucketName string

func Init() error {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "minio:9000"
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	if accessKey == "" || secretKey == "" {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required")
	}

	BucketName = os.Getenv("MINIO_BUCKET")
	if BucketName == "" {
		BucketName = "document-scans"
	}

	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	var err error
	Client, err = minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	// Verify bucket exists
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := Client.BucketExists(ctx, BucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", BucketName)
	}

	return nil
}

// UploadScan stores the original scan bytes of a document.
// Path format: scans/YYYY/MM/{filename}
func UploadScan(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	now := time.Now()
	objectName := fmt.Sprintf("scans/%d/%02d/%s", now.Year(), now.Month(), filename)

	_, err := Client.PutObject(ctx, BucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload scan: %w", err)
	}

	// Return the full path for storage in DB
	return fmt.Sprintf("%s/%s", BucketName, objectName), nil
}

// GetPresignedURL generates a presigned URL for viewing a stored scan
func GetPresignedURL(ctx context.Context, objectPath string) (string, error) {
	url, err := Client.PresignedGetObject(ctx, BucketName, trimBucket(objectPath), 24*time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// DeleteScan removes a stored scan
func DeleteScan(ctx context.Context, objectPath string) error {
	return Client.RemoveObject(ctx, BucketName, trimBucket(objectPath), minio.RemoveObjectOptions{})
}

// trimBucket removes the bucket prefix from a stored object path if present
func trimBucket(objectPath string) string {
	return strings.TrimPrefix(objectPath, BucketName+"/")
}

// GetFileExtension extracts file extension from content type
func GetFileExtension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/tiff":
		return ".tif"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
