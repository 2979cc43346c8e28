// Package gcs serves product images from a Cloud Storage bucket: public
// URLs for storefront responses and signed PUT URLs for seller uploads.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

const signedUploadTTL = 15 * time.Minute

var ErrBucketNotConfigured = errors.New("gcs: image bucket is not configured")

// ProductImageStore resolves product image paths against one bucket.
type ProductImageStore struct {
	Client *storage.Client
	Bucket string
}

func NewProductImageStore(client *storage.Client, bucket string) *ProductImageStore {
	return &ProductImageStore{Client: client, Bucket: strings.TrimSpace(bucket)}
}

// PublicURL turns an object path into the public serving URL.
// Returns "" for empty paths so handlers can emit null images.
func (s *ProductImageStore) PublicURL(objectPath string) string {
	p := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if p == "" || s == nil || s.Bucket == "" {
		return ""
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.Bucket, p)
}

// SignedUploadURL issues a short-lived PUT URL for objectPath.
// The upload's Content-Type must match contentType exactly.
func (s *ProductImageStore) SignedUploadURL(ctx context.Context, objectPath, contentType string) (string, error) {
	if s == nil || s.Client == nil || s.Bucket == "" {
		return "", ErrBucketNotConfigured
	}
	p := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if p == "" {
		return "", errors.New("gcs: object path is empty")
	}

	url, err := s.Client.Bucket(s.Bucket).SignedURL(p, &storage.SignedURLOptions{
		Method:      "PUT",
		Expires:     time.Now().UTC().Add(signedUploadTTL),
		ContentType: contentType,
		Scheme:      storage.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("gcs: sign upload url: %w", err)
	}
	return url, nil
}
