package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/illmade-knight/go-app-transfer/pkg/definitionstore"
	"github.com/illmade-knight/go-app-transfer/pkg/transfer"
	"github.com/rs/zerolog"
)

// ImportRequest describes one import operation. Uploads carry no filename, so
// the media type alone decides the transfer mode.
type ImportRequest struct {
	Payload   []byte
	MediaType string
	// Workspace optionally names an explicit target workspace.
	Workspace string
	// TargetApplicationID, when set, forces the incoming definition onto that
	// identifier regardless of the id embedded in its own metadata.
	TargetApplicationID *int
}

// Importer applies an uploaded definition payload to the target environment.
type Importer struct {
	source definitionstore.DefinitionSource
	scopes definitionstore.ScopeResolver
	logger zerolog.Logger
}

// NewImporter creates a new import orchestrator.
func NewImporter(source definitionstore.DefinitionSource, scopes definitionstore.ScopeResolver, logger zerolog.Logger) (*Importer, error) {
	if source == nil {
		return nil, errors.New("definition source (DefinitionSource interface) cannot be nil")
	}
	if scopes == nil {
		return nil, errors.New("scope resolver (ScopeResolver interface) cannot be nil")
	}
	return &Importer{
		source: source,
		scopes: scopes,
		logger: logger.With().Str("component", "Importer").Logger(),
	}, nil
}

// Import reconstructs the canonical file collection from the payload and
// installs it with overwrite semantics. Store diagnostics are surfaced
// unchanged; a failed install never reports success.
func (i *Importer) Import(ctx context.Context, req ImportRequest) error {
	workspace, err := i.scopes.Resolve(ctx, req.Workspace)
	if err != nil {
		return err
	}

	mode := transfer.ResolveMode("", req.MediaType)
	log := i.logger.With().Str("workspace", workspace).Str("mode", string(mode)).Logger()

	var files transfer.FileCollection
	if mode == transfer.ModeArchive {
		files, err = transfer.Unpack(req.Payload)
		if err != nil {
			return err
		}
	} else {
		text, err := transfer.ToText(req.Payload)
		if err != nil {
			return err
		}
		files = transfer.FileCollection{{Name: transfer.DefaultDocumentName, Contents: text}}
	}

	opts := definitionstore.InstallOptions{
		Overwrite: true,
		ForcedID:  req.TargetApplicationID,
	}
	if err := i.source.Install(ctx, workspace, files, opts); err != nil {
		return fmt.Errorf("failed to install definition: %w", err)
	}

	log.Info().Int("files", len(files)).Msg("Definition import complete.")
	return nil
}
