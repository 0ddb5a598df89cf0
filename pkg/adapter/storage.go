package adapter

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tamarin/pkg/model"
)

// Storage is the interface for fetching raw lab result files
type Storage interface {
	// Get loads an object from the given bucket
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// storageClient implements Storage interface using Cloud Storage
type storageClient struct {
	client *storage.Client
}

// NewStorage creates a new Cloud Storage client
func NewStorage(ctx context.Context) (Storage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &storageClient{client: client}, nil
}

func (s *storageClient) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj := s.client.Bucket(bucket).Object(key)
	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(model.ErrUpstreamUnavailable, "failed to read from storage",
			goerr.V("bucket", bucket), goerr.V("key", key), goerr.V("cause", err.Error()))
	}

	return reader, nil
}
