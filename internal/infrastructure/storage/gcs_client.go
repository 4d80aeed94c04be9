package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"bartertrade/pkg/logger"
)

const (
	uploadMaxRetries = 3
	uploadRetryDelay = 2 * time.Second
)

// UploadResult describes a stored image: its public URL plus metadata read
// from the bytes themselves.
type UploadResult struct {
	URL    string
	Format string
	Width  int
	Height int
}

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName, credentialsPath string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// UploadImage stores the image under folder with a name derived from ownerID
// and index, retrying transient failures. The returned URL is publicly
// readable.
func (c *CloudStorageClient) UploadImage(ctx context.Context, data []byte, folder, ownerID string, index int) (*UploadResult, error) {
	format, width, height := imageMeta(data)

	ext := ".bin"
	contentType := "application/octet-stream"
	switch format {
	case "jpeg":
		ext = ".jpg"
		contentType = "image/jpeg"
	case "png":
		ext = ".png"
		contentType = "image/png"
	case "gif":
		ext = ".gif"
		contentType = "image/gif"
	}

	objectName := fmt.Sprintf("%s/%s_%d-%s%s", folder, ownerID, index, uuid.New().String(), ext)

	var lastErr error
	for attempt := 1; attempt <= uploadMaxRetries; attempt++ {
		if err := c.writeObject(ctx, objectName, contentType, data); err != nil {
			lastErr = err
			logger.Warn("Upload attempt %d for %s failed: %v", attempt, objectName, err)
			if attempt < uploadMaxRetries {
				select {
				case <-time.After(uploadRetryDelay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			continue
		}

		return &UploadResult{
			URL:    fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectName),
			Format: format,
			Width:  width,
			Height: height,
		}, nil
	}

	return nil, fmt.Errorf("image upload failed after %d attempts: %w", uploadMaxRetries, lastErr)
}

func (c *CloudStorageClient) writeObject(ctx context.Context, objectName, contentType string, data []byte) error {
	obj := c.client.Bucket(c.bucketName).Object(objectName)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, bytes.NewReader(data)); err != nil {
		wc.Close()
		return fmt.Errorf("failed to copy file to GCS: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return fmt.Errorf("failed to set ACL: %v", err)
	}

	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}

func imageMeta(data []byte) (format string, width, height int) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0
	}
	return format, cfg.Width, cfg.Height
}
