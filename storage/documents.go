package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DocumentStore holds issued certificates and application attachments in a
// MinIO bucket. Downloads go through short-lived presigned URLs so the
// objects themselves stay private.
type DocumentStore struct {
	client *minio.Client
	bucket string
}

var Documents *DocumentStore

func InitializeDocuments() {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		log.Println("MINIO_ENDPOINT not set, document storage disabled")
		return
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
		Secure: os.Getenv("MINIO_USE_SSL") == "true",
	})
	if err != nil {
		log.Panic("error creating minio client: " + err.Error())
	}

	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "smart-citizen-documents"
	}

	store := &DocumentStore{client: client, bucket: bucket}
	if err := store.ensureBucket(context.Background()); err != nil {
		log.Panic("error preparing document bucket: " + err.Error())
	}

	Documents = store
	log.Println("Document storage initialized, bucket:", bucket)
}

func (s *DocumentStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Put uploads a document and returns nothing; the caller owns the object key.
func (s *DocumentStore) Put(ctx context.Context, objectKey string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload document: %w", err)
	}
	return nil
}

// PresignedURL returns a temporary download link for the object.
func (s *DocumentStore) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign document: %w", err)
	}
	return u.String(), nil
}

// Delete removes a document from the bucket.
func (s *DocumentStore) Delete(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}
