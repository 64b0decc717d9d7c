package definitionstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/option"

	"cloud.google.com/go/storage"
)

// componentMetadataKey is the custom object-metadata key carrying a file's
// component token.
const componentMetadataKey = "component"

// gcsObjectHandleAdapter wraps a *storage.ObjectHandle to conform to our
// DefinitionObjectHandle interface.
type gcsObjectHandleAdapter struct {
	handle *storage.ObjectHandle
}

func (a *gcsObjectHandleAdapter) Read(ctx context.Context) ([]byte, error) {
	reader, err := a.handle.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: object is missing from storage", ErrDefinitionNotExist)
		}
		return nil, err
	}
	defer func() { _ = reader.Close() }()
	return io.ReadAll(reader)
}

func (a *gcsObjectHandleAdapter) Write(ctx context.Context, data []byte, component string) error {
	writer := a.handle.NewWriter(ctx)
	writer.Metadata = map[string]string{componentMetadataKey: component}
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

func (a *gcsObjectHandleAdapter) Delete(ctx context.Context) error {
	err := a.handle.Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%w: object is missing from storage", ErrDefinitionNotExist)
	}
	return err
}

// gcsObjectIteratorAdapter converts GCS object attributes into our ObjectInfo
// as the iteration advances.
type gcsObjectIteratorAdapter struct {
	it     *storage.ObjectIterator
	prefix string
}

func (a *gcsObjectIteratorAdapter) Next() (*ObjectInfo, error) {
	attrs, err := a.it.Next()
	if err != nil {
		return nil, err // iterator.Done passes through as our Done sentinel.
	}
	return fromGCSObjectAttrs(attrs, a.prefix), nil
}

func fromGCSObjectAttrs(attrs *storage.ObjectAttrs, prefix string) *ObjectInfo {
	if attrs == nil {
		return nil
	}
	name := strings.TrimPrefix(attrs.Name, prefix)
	component := attrs.Metadata[componentMetadataKey]
	if component == "" {
		component = componentToken(name)
	}
	return &ObjectInfo{Name: name, Component: component}
}

// gcsBucketAdapter wraps a *storage.BucketHandle to conform to our
// DefinitionBucket interface.
type gcsBucketAdapter struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

func (a *gcsBucketAdapter) Object(name string) DefinitionObjectHandle {
	return &gcsObjectHandleAdapter{handle: a.bucket.Object(name)}
}

func (a *gcsBucketAdapter) Objects(ctx context.Context, prefix string) ObjectIterator {
	it := a.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	return &gcsObjectIteratorAdapter{it: it, prefix: prefix}
}

func (a *gcsBucketAdapter) Close() error {
	return a.client.Close()
}

// CreateGoogleDefinitionBucket creates a real GCS-backed bucket wrapped in the
// DefinitionBucket interface.
func CreateGoogleDefinitionBucket(ctx context.Context, bucketName string, clientOpts ...option.ClientOption) (DefinitionBucket, error) {
	realClient, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &gcsBucketAdapter{client: realClient, bucket: realClient.Bucket(bucketName)}, nil
}
