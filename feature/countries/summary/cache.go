package summary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"country-catalog/core/storage"

	"github.com/minio/minio-go/v7"
)

// ErrNotFound signals that no artifact is currently cached.
var ErrNotFound = errors.New("summary artifact not found")

// Cache stores the single summary artifact, replacing any prior one. It is a
// disposable projection: the artifact may be deleted or regenerated at any
// time without data loss.
type Cache interface {
	// Get returns the cached artifact bytes, or ErrNotFound.
	Get(ctx context.Context) ([]byte, error)
	// Put replaces the cached artifact.
	Put(ctx context.Context, data []byte) error
	// Remove drops the cached artifact; removing an absent artifact is not
	// an error.
	Remove(ctx context.Context) error
}

// NewCache builds the cache for the configured backend.
func NewCache(cfg Config, client storage.Client, bucket string) (Cache, error) {
	switch cfg.Backend {
	case "", "fs":
		return &fsCache{dir: cfg.Dir, name: cfg.Object}, nil
	case "s3":
		if client == nil {
			return nil, errors.New("s3 summary backend requires a storage client")
		}
		return &objectCache{client: client, bucket: bucket, object: cfg.Object}, nil
	default:
		return nil, fmt.Errorf("unknown summary backend: %s", cfg.Backend)
	}
}

// fsCache keeps the artifact on the local filesystem. Writes go through a
// temp file plus rename so a concurrent reader never observes a partial file.
type fsCache struct {
	dir  string
	name string
}

func (c *fsCache) Get(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, c.name))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *fsCache) Put(_ context.Context, data []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, c.name+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(c.dir, c.name))
}

func (c *fsCache) Remove(_ context.Context) error {
	err := os.Remove(filepath.Join(c.dir, c.name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// objectCache keeps the artifact in object storage.
type objectCache struct {
	client storage.Client
	bucket string
	object string
}

func (c *objectCache) Get(ctx context.Context) ([]byte, error) {
	if _, err := c.client.StatObject(ctx, c.bucket, c.object, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	obj, err := c.client.GetObject(ctx, c.bucket, c.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

func (c *objectCache) Put(ctx context.Context, data []byte) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}
	_, err = c.client.PutObject(ctx, c.bucket, c.object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/png"})
	return err
}

func (c *objectCache) Remove(ctx context.Context) error {
	return c.client.RemoveObject(ctx, c.bucket, c.object, minio.RemoveObjectOptions{})
}
