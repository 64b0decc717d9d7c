// Package definitionstore defines the contracts the transfer orchestrators
// depend on — the definition source holding application definitions and the
// scope resolver selecting a workspace for each request — together with the
// Google-backed adapters that implement them.
package definitionstore

import (
	"context"
	"errors"

	"github.com/illmade-knight/go-app-transfer/pkg/transfer"
)

// ErrDefinitionNotExist is a standard error returned when no application
// definition is stored at the requested identifier. This allows callers to
// check for the condition without depending on a specific backend's error
// types.
var ErrDefinitionNotExist = errors.New("definitionstore: application definition does not exist")

// InstallOptions controls how an incoming definition is applied to the store.
type InstallOptions struct {
	// Overwrite replaces an existing definition at the resolved identifier in
	// place rather than failing with a conflict.
	Overwrite bool
	// ForcedID, when set, overrides whatever identifier is embedded in the
	// definition's own metadata.
	ForcedID *int
}

// DefinitionSource is the store of application definitions. The workspace is
// threaded explicitly through every call: implementations must not keep an
// ambient "current workspace" that could leak between concurrent requests.
type DefinitionSource interface {
	// GetDefinition returns the definition at applicationID as a file
	// collection. With split=true the stored files are returned individually;
	// with split=false they are merged into a single document. A non-nil
	// filter restricts the result to the selected components.
	GetDefinition(ctx context.Context, workspace string, applicationID int, filter transfer.ComponentFilter, split bool) (transfer.FileCollection, error)

	// Install applies a file collection to the store, honoring the options'
	// overwrite and forced-identifier semantics.
	Install(ctx context.Context, workspace string, files transfer.FileCollection, opts InstallOptions) error

	// RemoveDefinition deletes the definition at applicationID. Removing a
	// definition that does not exist returns ErrDefinitionNotExist.
	RemoveDefinition(ctx context.Context, workspace string, applicationID int) error
}

// ScopeResolver selects the workspace a request operates in. An explicit,
// non-empty name is selected as given; an empty name falls back to the
// caller's first-assigned workspace. When neither yields a workspace the
// resolver fails with transfer.ErrScopeResolution.
type ScopeResolver interface {
	Resolve(ctx context.Context, explicit string) (string, error)
}
