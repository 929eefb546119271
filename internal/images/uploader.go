package images

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"mdcsite/api/internal/config"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.]`)

// uploadPath builds a collision-resistant destination from the creation
// timestamp and a sanitized original filename.
func uploadPath(fileName string, now time.Time) string {
	clean := unsafeNameChars.ReplaceAllString(fileName, "_")
	if clean == "" {
		clean = "upload"
	}
	return fmt.Sprintf("public/uploads/%d_%s", now.UnixMilli(), clean)
}

// ObjectStore is the subset of the remote content client needed to
// store an upload and address it afterwards.
type ObjectStore interface {
	PutFile(ctx context.Context, path string, content []byte, sha, message string) error
	RawURL(path string) string
}

// GitHubUploader stores images as new objects in the configured
// repository and returns raw-content URLs.
type GitHubUploader struct {
	client ObjectStore
	now    func() time.Time
}

func NewGitHubUploader(client ObjectStore) *GitHubUploader {
	return &GitHubUploader{client: client, now: time.Now}
}

func (u *GitHubUploader) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	path := uploadPath(fileName, u.now())
	message := "Upload image: " + strings.TrimPrefix(path, "public/uploads/")
	if err := u.client.PutFile(ctx, path, data, "", message); err != nil {
		return "", err
	}
	return u.client.RawURL(path), nil
}

// MinioUploader is the alternate object-storage backend for deployments
// that run their own MinIO/S3 instead of a GitHub repository.
type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewMinioUploader initializes the client and ensures the bucket exists.
func NewMinioUploader(cfg config.Config) (*MinioUploader, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.MinIOBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.MinIOBucket, err)
		}
	}

	publicURL := strings.TrimRight(cfg.MinIOPublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.MinIOUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.MinIOEndpoint)
	}

	return &MinioUploader{
		client:    client,
		bucket:    cfg.MinIOBucket,
		publicURL: publicURL,
		now:       time.Now,
	}, nil
}

func (u *MinioUploader) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	objectName := strings.TrimPrefix(uploadPath(fileName, u.now()), "public/")
	contentType := http.DetectContentType(data)

	_, err := u.client.PutObject(ctx, u.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", objectName, err)
	}
	return fmt.Sprintf("%s/%s/%s", u.publicURL, u.bucket, objectName), nil
}
