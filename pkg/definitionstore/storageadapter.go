package definitionstore

import (
	"context"

	"google.golang.org/api/iterator" // For the Done error
)

// ObjectInfo describes one stored object of an application definition.
type ObjectInfo struct {
	// Name is the object name relative to the definition's storage prefix.
	Name string
	// Component is the component token the object belongs to, e.g. "PAGE:1".
	Component string
}

// DefinitionObjectHandle defines an interface for reading and writing a single
// stored definition object. It is the seam that lets mocks stand in for the
// real storage client in tests.
type DefinitionObjectHandle interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte, component string) error
	Delete(ctx context.Context) error
}

// ObjectIterator defines a generic interface for enumerating stored objects
// under a prefix.
type ObjectIterator interface {
	// Next returns the next object's info in storage enumeration order. When
	// there are no more objects it returns Done.
	Next() (*ObjectInfo, error)
}

// DefinitionBucket defines a generic interface over the container holding all
// application definitions.
type DefinitionBucket interface {
	Object(name string) DefinitionObjectHandle
	Objects(ctx context.Context, prefix string) ObjectIterator
	Close() error
}

// Done is the sentinel error returned by ObjectIterator.Next when iteration is
// finished. Re-exported from the google iterator package to avoid a direct
// dependency in consumers.
var Done = iterator.Done
