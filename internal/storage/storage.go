package storage

import (
	"context"
	"io"
)

// Bucket names used by the app.
const (
	BucketAvatars = "avatars"
	BucketPosts   = "posts"
	BucketStories = "stories"
)

// Store uploads media blobs and resolves their public URLs. Uploads happen
// before the row insert that references them; a failed upload abandons the
// insert, a failed insert leaves the blob orphaned.
type Store interface {
	// Upload writes the blob under bucket/object and returns its public URL.
	Upload(ctx context.Context, bucket, object, contentType string, r io.Reader) (string, error)

	// PublicURL returns the URL a stored object is served from.
	PublicURL(bucket, object string) string
}
