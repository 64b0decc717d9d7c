// Package orchestration drives the export, import and delete flows of the
// transfer service. Each orchestrator is a stateless unit of work over the
// definition store: a request is resolved, executed, and discarded, with the
// workspace passed explicitly into every store call.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/illmade-knight/go-app-transfer/pkg/definitionstore"
	"github.com/illmade-knight/go-app-transfer/pkg/transfer"
	"github.com/rs/zerolog"
)

// ExportRequest describes one export operation.
type ExportRequest struct {
	// TargetFile identifies the application as "<id>[.ext]"; the suffix sets
	// the default transfer mode.
	TargetFile string
	// Components is the comma-separated component filter wire form; empty
	// exports everything.
	Components string
	// MediaTypeHint, when present, overrides the filename suffix.
	MediaTypeHint string
	// Workspace optionally names an explicit workspace to read from.
	Workspace string
}

// ExportResult carries the produced payload and its response metadata.
type ExportResult struct {
	Payload   []byte
	Filename  string
	MediaType string
}

// Exporter produces an application definition in its requested wire form.
type Exporter struct {
	source definitionstore.DefinitionSource
	scopes definitionstore.ScopeResolver
	logger zerolog.Logger
}

// NewExporter creates a new export orchestrator.
func NewExporter(source definitionstore.DefinitionSource, scopes definitionstore.ScopeResolver, logger zerolog.Logger) (*Exporter, error) {
	if source == nil {
		return nil, errors.New("definition source (DefinitionSource interface) cannot be nil")
	}
	if scopes == nil {
		return nil, errors.New("scope resolver (ScopeResolver interface) cannot be nil")
	}
	return &Exporter{
		source: source,
		scopes: scopes,
		logger: logger.With().Str("component", "Exporter").Logger(),
	}, nil
}

// Export resolves the request's mode, reads the definition from the store and
// packs it into the requested representation. No partial payload is ever
// returned: any failure yields a nil result.
func (e *Exporter) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	base, _ := transfer.SplitTarget(req.TargetFile)
	mode := transfer.ResolveMode(req.TargetFile, req.MediaTypeHint)
	filter := transfer.ParseComponentFilter(req.Components)

	applicationID, err := strconv.Atoi(base)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s'", transfer.ErrInvalidIdentifier, base)
	}

	workspace, err := e.scopes.Resolve(ctx, req.Workspace)
	if err != nil {
		return nil, err
	}

	log := e.logger.With().
		Str("workspace", workspace).
		Int("application_id", applicationID).
		Str("mode", string(mode)).
		Logger()
	log.Info().Int("filter_selectors", len(filter)).Msg("Starting definition export.")

	files, err := e.source.GetDefinition(ctx, workspace, applicationID, filter, mode == transfer.ModeArchive)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %d: %w", applicationID, err)
	}

	if mode == transfer.ModeArchive {
		blob, err := transfer.Pack(files)
		if err != nil {
			return nil, fmt.Errorf("failed to pack definition %d: %w", applicationID, err)
		}
		log.Info().Int("entries", len(files)).Int("bytes", len(blob)).Msg("Definition export complete.")
		return &ExportResult{
			Payload:   blob,
			Filename:  fmt.Sprintf("%s.%s", base, transfer.ArchiveExtension),
			MediaType: transfer.ArchiveMediaType,
		}, nil
	}

	// The definition source contract guarantees a single document when split
	// was not requested; anything else is a store defect, not a caller error.
	if len(files) != 1 {
		return nil, fmt.Errorf("definition source returned %d documents for an unsplit export of %d", len(files), applicationID)
	}
	payload := transfer.ToBinary(files[0].Contents)
	log.Info().Int("bytes", len(payload)).Msg("Definition export complete.")
	return &ExportResult{
		Payload:   payload,
		Filename:  fmt.Sprintf("%s.%s", base, transfer.DocumentExtension),
		MediaType: transfer.DocumentMediaType,
	}, nil
}
