package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"inspection-api/pkg/config"
)

var ErrNotConfigured = errors.New("object store is not configured")

// GCSStore keeps image objects in one Google Cloud Storage bucket
type GCSStore struct {
	client  *gcs.Client
	bucket  string
	baseURL string
}

func NewGCSStore(ctx context.Context, cfg config.StorageConfig) (*GCSStore, error) {
	if cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}

	opts := []option.ClientOption{option.WithScopes(gcs.ScopeReadWrite)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Put uploads data under key and returns its public URL
func (s *GCSStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return publicURL(s.baseURL, key), nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

func (s *GCSStore) KeyFromURL(url string) (string, bool) {
	return keyFromURL(s.baseURL, url)
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func publicURL(baseURL, key string) string {
	return baseURL + "/" + strings.TrimLeft(key, "/")
}

func keyFromURL(baseURL, url string) (string, bool) {
	prefix := baseURL + "/"
	if baseURL == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key, key != ""
}

// Unconfigured stands in when no bucket is set; every write fails
type Unconfigured struct{}

func (Unconfigured) Put(context.Context, string, []byte, string) (string, error) {
	return "", ErrNotConfigured
}

func (Unconfigured) Delete(context.Context, string) error {
	return ErrNotConfigured
}

func (Unconfigured) KeyFromURL(string) (string, bool) {
	return "", false
}
