package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/illmade-knight/go-app-transfer/pkg/definitionstore"
	"github.com/rs/zerolog"
)

// DeleteRequest describes one delete operation.
type DeleteRequest struct {
	// Workspace optionally names an explicit workspace.
	Workspace string
	// ApplicationID is the definition to remove.
	ApplicationID int
}

// Deleter removes an application definition from a resolved workspace.
type Deleter struct {
	source definitionstore.DefinitionSource
	scopes definitionstore.ScopeResolver
	logger zerolog.Logger
}

// NewDeleter creates a new delete orchestrator.
func NewDeleter(source definitionstore.DefinitionSource, scopes definitionstore.ScopeResolver, logger zerolog.Logger) (*Deleter, error) {
	if source == nil {
		return nil, errors.New("definition source (DefinitionSource interface) cannot be nil")
	}
	if scopes == nil {
		return nil, errors.New("scope resolver (ScopeResolver interface) cannot be nil")
	}
	return &Deleter{
		source: source,
		scopes: scopes,
		logger: logger.With().Str("component", "Deleter").Logger(),
	}, nil
}

// Delete resolves the workspace and removes the definition. The store's own
// error semantics for a missing definition are propagated, not swallowed.
func (d *Deleter) Delete(ctx context.Context, req DeleteRequest) error {
	workspace, err := d.scopes.Resolve(ctx, req.Workspace)
	if err != nil {
		return err
	}

	if err := d.source.RemoveDefinition(ctx, workspace, req.ApplicationID); err != nil {
		return fmt.Errorf("failed to remove definition %d: %w", req.ApplicationID, err)
	}

	d.logger.Info().Str("workspace", workspace).Int("application_id", req.ApplicationID).Msg("Definition removed.")
	return nil
}
