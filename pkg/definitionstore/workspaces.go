package definitionstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/illmade-knight/go-app-transfer/pkg/transfer"
	"github.com/rs/zerolog"
)

// WorkspaceDirectory looks up the workspaces a caller is assigned to, in
// assignment order. The first entry is the caller's default workspace.
type WorkspaceDirectory interface {
	Assignments(ctx context.Context, caller string) ([]string, error)
}

// DirectoryScopeResolver implements ScopeResolver over a WorkspaceDirectory.
// Resolution is request-local: the selected workspace is returned to the
// caller rather than being stored on the resolver, so concurrent requests
// cannot observe each other's selection.
type DirectoryScopeResolver struct {
	directory WorkspaceDirectory
	caller    string
	logger    zerolog.Logger
}

// NewDirectoryScopeResolver creates a resolver for the given caller identity.
func NewDirectoryScopeResolver(directory WorkspaceDirectory, caller string, logger zerolog.Logger) (*DirectoryScopeResolver, error) {
	if directory == nil {
		return nil, errors.New("workspace directory (WorkspaceDirectory interface) cannot be nil")
	}
	if caller == "" {
		return nil, errors.New("caller identity cannot be empty")
	}
	return &DirectoryScopeResolver{
		directory: directory,
		caller:    caller,
		logger:    logger.With().Str("component", "DirectoryScopeResolver").Logger(),
	}, nil
}

// Resolve returns the explicit workspace when one is named, otherwise the
// caller's first-assigned workspace. Falling back to the default assignment is
// a mode, not an error; only the absence of any workspace fails.
func (r *DirectoryScopeResolver) Resolve(ctx context.Context, explicit string) (string, error) {
	if workspace := strings.TrimSpace(explicit); workspace != "" {
		return workspace, nil
	}

	assignments, err := r.directory.Assignments(ctx, r.caller)
	if err != nil {
		return "", fmt.Errorf("%w: %s", transfer.ErrScopeResolution, err)
	}
	if len(assignments) == 0 {
		return "", fmt.Errorf("%w: caller '%s' has no workspace assignments", transfer.ErrScopeResolution, r.caller)
	}

	r.logger.Debug().Str("workspace", assignments[0]).Msg("Resolved default workspace from first assignment.")
	return assignments[0], nil
}
