package objectstore

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"interview-platform/backend/internal/config"
)

// MinioStore keeps raw media in a MinIO bucket. Uploads are spooled to local disk
// first because the normalizer needs a file path; the spool also holds derived audio.
type MinioStore struct {
	Client     *minio.Client
	BucketName string
	spool      *DiskStore
}

// NewMinioStore connects to MinIO, making sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg config.MinioConfig, spool *DiskStore) (*MinioStore, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.BucketName == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT, MINIO_ACCESS_KEY_ID, MINIO_SECRET_ACCESS_KEY, and MINIO_BUCKET_NAME must be set")
	}
	if spool == nil {
		return nil, fmt.Errorf("MinioStore requires a local spool directory")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if MinIO bucket '%s' exists: %w", cfg.BucketName, err)
	}
	if !exists {
		log.Printf("MinIO bucket '%s' does not exist. Attempting to create it.", cfg.BucketName)
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create MinIO bucket '%s': %w", cfg.BucketName, err)
		}
		log.Printf("MinIO bucket '%s' created successfully.", cfg.BucketName)
	}

	log.Printf("MinIO media store initialized (endpoint: %s, bucket: %s).", cfg.Endpoint, cfg.BucketName)
	return &MinioStore{Client: client, BucketName: cfg.BucketName, spool: spool}, nil
}

func (mc *MinioStore) Backend() string { return "minio" }

// Put spools r to local disk and uploads the spooled file to the bucket.
func (mc *MinioStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	localPath, err := mc.spool.Put(ctx, name, r)
	if err != nil {
		return "", err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to reopen spooled media '%s': %w", localPath, err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat spooled media '%s': %w", localPath, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadInfo, err := mc.Client.PutObject(ctx, mc.BucketName, name, f, stat.Size(), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to MinIO (bucket: %s, object: %s): %w", mc.BucketName, name, err)
	}

	log.Printf("Successfully uploaded '%s' of size %d to MinIO. ETag: %s", name, uploadInfo.Size, uploadInfo.ETag)
	return localPath, nil
}

// Open streams the object from the bucket.
func (mc *MinioStore) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	if err := ValidateName(name); err != nil {
		return nil, 0, err
	}

	object, err := mc.Client.GetObject(ctx, mc.BucketName, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get object '%s' from bucket '%s': %w", name, mc.BucketName, err)
	}

	stat, err := object.Stat()
	if err != nil {
		object.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, 0, fmt.Errorf("media '%s': %w", name, ErrObjectNotFound)
		}
		return nil, 0, fmt.Errorf("failed to get object stats for '%s': %w", name, err)
	}

	return object, stat.Size, nil
}

// Delete removes the object from the bucket and its spooled copies.
func (mc *MinioStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := mc.Client.RemoveObject(ctx, mc.BucketName, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object '%s' from MinIO bucket '%s': %w", name, mc.BucketName, err)
	}
	log.Printf("Successfully deleted object '%s' from MinIO bucket '%s'.", name, mc.BucketName)
	return mc.spool.Delete(ctx, name)
}

func (mc *MinioStore) AudioPath(videoName string) (string, error) {
	return mc.spool.AudioPath(videoName)
}
