package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"

	"cloud.google.com/go/storage"
)

// GCS is a Sink writing objects into a Google Cloud Storage bucket.
// It uses Application Default Credentials.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCS opens a storage client for bucket. Objects are stored under prefix.
func NewGCS(ctx context.Context, bucket, prefix string) (*GCS, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs sink: bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket, prefix: prefix}, nil
}

// ObjectName returns the object a file called name is stored as.
func (g *GCS) ObjectName(name string) string {
	if g.prefix == "" {
		return name
	}
	return path.Join(g.prefix, name)
}

// Put uploads data as a new object. The object is only created when the
// upload completes; a failed upload is aborted by cancelling its context.
func (g *GCS) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	object := g.ObjectName(name)
	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = "text/csv"

	if _, err := w.Write(data); err != nil {
		cancel()
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload %s: %w", object, err)
	}
	return fmt.Sprintf("gs://%s/%s", g.bucket, object), nil
}

// Remove deletes the object stored for name.
func (g *GCS) Remove(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	object := g.ObjectName(name)
	err := g.client.Bucket(g.bucket).Object(object).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", object, err)
	}
	return nil
}

// URL returns the HTTPS address of the object stored for name. Reading it
// requires access to the bucket.
func (g *GCS) URL(name string) string {
	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + g.bucket + "/" + g.ObjectName(name)}
	return u.String()
}

// Close releases the storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}
