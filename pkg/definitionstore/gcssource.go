package definitionstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/illmade-knight/go-app-transfer/pkg/transfer"
	"github.com/rs/zerolog"
)

// applicationIDHeader is the comment prefix a single-document definition uses
// to declare its own application identifier, e.g. "-- application: 101".
const applicationIDHeader = "-- application:"

// GCSDefinitionSource stores application definitions as objects laid out under
// "<workspace>/applications/<id>/<file>". It implements DefinitionSource over
// the generic DefinitionBucket interface so the backend can be mocked.
type GCSDefinitionSource struct {
	bucket DefinitionBucket
	logger zerolog.Logger
}

// NewGCSDefinitionSource creates a definition source backed by a storage bucket.
func NewGCSDefinitionSource(bucket DefinitionBucket, logger zerolog.Logger) (*GCSDefinitionSource, error) {
	if bucket == nil {
		return nil, errors.New("definition bucket (DefinitionBucket interface) cannot be nil")
	}
	return &GCSDefinitionSource{
		bucket: bucket,
		logger: logger.With().Str("component", "GCSDefinitionSource").Logger(),
	}, nil
}

// GetDefinition reads the stored definition, applying the component filter and
// merging the files into one document when split is false.
func (s *GCSDefinitionSource) GetDefinition(ctx context.Context, workspace string, applicationID int, filter transfer.ComponentFilter, split bool) (transfer.FileCollection, error) {
	prefix := definitionPrefix(workspace, applicationID)
	log := s.logger.With().Str("workspace", workspace).Int("application_id", applicationID).Logger()

	infos, err := s.listObjects(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list definition objects under '%s': %w", prefix, err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: application %d in workspace '%s'", ErrDefinitionNotExist, applicationID, workspace)
	}

	var files transfer.FileCollection
	for _, info := range infos {
		if !filter.Contains(info.Component) {
			continue
		}
		data, err := s.bucket.Object(prefix + info.Name).Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read definition object '%s': %w", info.Name, err)
		}
		text, err := transfer.ToText(data)
		if err != nil {
			return nil, fmt.Errorf("definition object '%s': %w", info.Name, err)
		}
		files = append(files, transfer.ExportFile{Name: info.Name, Contents: text})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no components of application %d match the filter", ErrDefinitionNotExist, applicationID)
	}

	if !split {
		files = mergeCollection(applicationID, files)
	}
	log.Info().Int("files", len(files)).Bool("split", split).Msg("Definition read from store.")
	return files, nil
}

// Install writes the incoming collection to the store. The target identifier
// is the forced id when given, otherwise the identifier embedded in the
// definition's own header comment.
func (s *GCSDefinitionSource) Install(ctx context.Context, workspace string, files transfer.FileCollection, opts InstallOptions) error {
	if err := files.Validate(); err != nil {
		return fmt.Errorf("refusing to install invalid definition: %w", err)
	}

	applicationID, err := resolveInstallID(files, opts)
	if err != nil {
		return err
	}
	prefix := definitionPrefix(workspace, applicationID)
	log := s.logger.With().Str("workspace", workspace).Int("application_id", applicationID).Logger()

	existing, err := s.listObjects(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to check for existing definition under '%s': %w", prefix, err)
	}
	if len(existing) > 0 {
		if !opts.Overwrite {
			return fmt.Errorf("definition %d already exists in workspace '%s'", applicationID, workspace)
		}
		// Overwrite-in-place: clear the old objects so removed files do not
		// survive alongside the new definition.
		for _, info := range existing {
			if err := s.bucket.Object(prefix + info.Name).Delete(ctx); err != nil {
				return fmt.Errorf("failed to clear existing definition object '%s': %w", info.Name, err)
			}
		}
		log.Info().Int("cleared", len(existing)).Msg("Existing definition cleared before install.")
	}

	for _, file := range files {
		handle := s.bucket.Object(prefix + file.Name)
		if err := handle.Write(ctx, transfer.ToBinary(file.Contents), componentToken(file.Name)); err != nil {
			return fmt.Errorf("failed to write definition object '%s': %w", file.Name, err)
		}
	}
	log.Info().Int("files", len(files)).Msg("Definition installed.")
	return nil
}

// RemoveDefinition deletes every stored object of the definition.
func (s *GCSDefinitionSource) RemoveDefinition(ctx context.Context, workspace string, applicationID int) error {
	prefix := definitionPrefix(workspace, applicationID)

	infos, err := s.listObjects(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to list definition objects under '%s': %w", prefix, err)
	}
	if len(infos) == 0 {
		return fmt.Errorf("%w: application %d in workspace '%s'", ErrDefinitionNotExist, applicationID, workspace)
	}

	for _, info := range infos {
		if err := s.bucket.Object(prefix + info.Name).Delete(ctx); err != nil {
			return fmt.Errorf("failed to delete definition object '%s': %w", info.Name, err)
		}
	}
	s.logger.Info().Str("workspace", workspace).Int("application_id", applicationID).Int("files", len(infos)).Msg("Definition removed.")
	return nil
}

func (s *GCSDefinitionSource) listObjects(ctx context.Context, prefix string) ([]*ObjectInfo, error) {
	it := s.bucket.Objects(ctx, prefix)
	var infos []*ObjectInfo
	for {
		info, err := it.Next()
		if errors.Is(err, Done) {
			return infos, nil
		}
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
}

func definitionPrefix(workspace string, applicationID int) string {
	return fmt.Sprintf("%s/applications/%d/", workspace, applicationID)
}

// mergeCollection folds a split definition into the single-document form: one
// file named "<id>.sql" with the parts joined in storage order.
func mergeCollection(applicationID int, files transfer.FileCollection) transfer.FileCollection {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		parts = append(parts, f.Contents)
	}
	return transfer.FileCollection{{
		Name:     fmt.Sprintf("%d.%s", applicationID, transfer.DocumentExtension),
		Contents: strings.Join(parts, "\n"),
	}}
}

// resolveInstallID picks the identifier the definition is installed at: the
// forced id when the caller supplied one, otherwise the id embedded in the
// definition's header comment.
func resolveInstallID(files transfer.FileCollection, opts InstallOptions) (int, error) {
	if opts.ForcedID != nil {
		return *opts.ForcedID, nil
	}
	if id, ok := embeddedApplicationID(files); ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: definition declares no application id and none was forced", transfer.ErrInvalidIdentifier)
}

// embeddedApplicationID scans the collection for the definition's own
// "-- application: <id>" header comment.
func embeddedApplicationID(files transfer.FileCollection) (int, bool) {
	for _, file := range files {
		for _, line := range strings.Split(file.Contents, "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, applicationIDHeader) {
				continue
			}
			raw := strings.TrimSpace(strings.TrimPrefix(line, applicationIDHeader))
			if id, err := strconv.Atoi(raw); err == nil && id > 0 {
				return id, true
			}
		}
	}
	return 0, false
}

// componentToken derives the component selector a stored file belongs to from
// its name: "application/pages/page_00001.sql" -> "PAGE:1". Files without a
// numeric suffix map to the upper-cased base name, e.g. "install.sql" ->
// "INSTALL".
func componentToken(name string) string {
	base := path.Base(name)
	base = strings.TrimSuffix(base, path.Ext(base))

	if idx := strings.LastIndex(base, "_"); idx > 0 {
		if n, err := strconv.Atoi(base[idx+1:]); err == nil {
			kind := strings.ToUpper(strings.TrimSuffix(base[:idx], "s"))
			return fmt.Sprintf("%s:%d", kind, n)
		}
	}
	return strings.ToUpper(base)
}
