package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	firebasestorage "firebase.google.com/go/v4/storage"
	"go.uber.org/zap"
)

// GCSStore implements Store on Google Cloud Storage through the Firebase
// storage client.
type GCSStore struct {
	client *firebasestorage.Client
	log    *zap.Logger
}

// NewGCSStore wraps an initialized Firebase storage client.
func NewGCSStore(client *firebasestorage.Client, log *zap.Logger) *GCSStore {
	return &GCSStore{client: client, log: log}
}

// Upload writes the blob and makes it publicly readable.
func (s *GCSStore) Upload(ctx context.Context, bucket, object, contentType string, r io.Reader) (string, error) {
	handle, err := s.client.Bucket(bucket)
	if err != nil {
		return "", fmt.Errorf("bucket %s: %w", bucket, err)
	}

	obj := handle.Object(object)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object: %w", err)
	}

	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", fmt.Errorf("set public acl: %w", err)
	}

	url := s.PublicURL(bucket, object)
	s.log.Debug("blob uploaded", zap.String("bucket", bucket), zap.String("object", object))
	return url, nil
}

// PublicURL returns the canonical public URL for a stored object.
func (s *GCSStore) PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}
