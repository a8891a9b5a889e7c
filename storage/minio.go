// Package storage uploads message media to a MinIO bucket and builds the
// public URLs persisted alongside messages.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

type Client struct {
	mc       *minio.Client
	endpoint string
	bucket   string
	useSSL   bool
}

func NewClient(endpoint, accessKey, secretKey string, useSSL bool, region, bucket string) (*Client, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	log.Info().
		Str("endpoint", endpoint).
		Str("bucket", bucket).
		Str("region", region).
		Msg("MinIO client created")

	return &Client{
		mc:       mc,
		endpoint: endpoint,
		bucket:   bucket,
		useSSL:   useSSL,
	}, nil
}

// UploadImage decodes a base64-encoded image and stores it under a
// phone-scoped path. Returns the public URL of the uploaded object.
func (c *Client) UploadImage(ctx context.Context, base64Image, telefone string) (string, error) {
	imageData, err := decodeBase64(base64Image)
	if err != nil {
		return "", fmt.Errorf("failed to decode image payload: %w", err)
	}

	fileName := generateFileName(telefone, "jpg")
	objectPath := generateFilePath(telefone, fileName)

	log.Info().
		Str("bucket", c.bucket).
		Str("key", objectPath).
		Int("content_size", len(imageData)).
		Msg("Uploading image to MinIO")

	_, err = c.mc.PutObject(ctx, c.bucket, objectPath, bytes.NewReader(imageData), int64(len(imageData)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("bucket", c.bucket).
			Str("key", objectPath).
			Msg("MinIO upload failed")
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	publicURL := c.objectURL(objectPath)

	log.Info().
		Str("url", publicURL).
		Msg("Image uploaded to MinIO")

	return publicURL, nil
}

// CheckConnection probes the configured bucket for the health endpoint.
func (c *Client) CheckConnection(ctx context.Context) error {
	_, err := c.mc.BucketExists(ctx, c.bucket)
	return err
}

func (c *Client) objectURL(objectPath string) string {
	scheme := "http"
	if c.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, c.endpoint, c.bucket, objectPath)
}

func generateFileName(telefone, extension string) string {
	return fmt.Sprintf("%d_%s.%s", time.Now().UnixMilli(), telefone, extension)
}

func generateFilePath(telefone, fileName string) string {
	return fmt.Sprintf("mensagens/%s/%s", telefone, fileName)
}

// decodeBase64 decodes a base64 string, tolerating a data-URL prefix.
func decodeBase64(data string) ([]byte, error) {
	if strings.HasPrefix(data, "data:") {
		if idx := strings.Index(data, ","); idx != -1 {
			data = data[idx+1:]
		}
	}
	return base64.StdEncoding.DecodeString(data)
}
