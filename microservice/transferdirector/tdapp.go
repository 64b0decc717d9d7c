// Package transferdirector exposes the transfer orchestrators over HTTP. The
// boundary is deliberately thin: it maps request parts onto orchestrator
// requests and orchestrator errors onto status codes, nothing more.
package transferdirector

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/illmade-knight/go-app-transfer/microservice"
	"github.com/illmade-knight/go-app-transfer/pkg/definitionstore"
	"github.com/illmade-knight/go-app-transfer/pkg/orchestration"
	"github.com/illmade-knight/go-app-transfer/pkg/transfer"
	"github.com/rs/zerolog"
)

// workspaceHeader names the explicit target workspace of a request.
const workspaceHeader = "X-Workspace"

// Director implements the HTTP boundary of the transfer service.
type Director struct {
	*microservice.BaseServer
	exporter *orchestration.Exporter
	importer *orchestration.Importer
	deleter  *orchestration.Deleter
	config   *Config
	logger   zerolog.Logger
}

// NewTransferDirector creates and initializes a new Director instance.
func NewTransferDirector(cfg *Config, source definitionstore.DefinitionSource, scopes definitionstore.ScopeResolver, logger zerolog.Logger) (*Director, error) {
	directorLogger := logger.With().Str("component", "TransferDirector").Logger()

	exporter, err := orchestration.NewExporter(source, scopes, directorLogger)
	if err != nil {
		return nil, fmt.Errorf("director: failed to create exporter: %w", err)
	}
	importer, err := orchestration.NewImporter(source, scopes, directorLogger)
	if err != nil {
		return nil, fmt.Errorf("director: failed to create importer: %w", err)
	}
	deleter, err := orchestration.NewDeleter(source, scopes, directorLogger)
	if err != nil {
		return nil, fmt.Errorf("director: failed to create deleter: %w", err)
	}

	baseServer := microservice.NewBaseServer(directorLogger, cfg.HTTPPort)

	d := &Director{
		BaseServer: baseServer,
		exporter:   exporter,
		importer:   importer,
		deleter:    deleter,
		config:     cfg,
		logger:     directorLogger,
	}

	mux := baseServer.Mux()
	mux.HandleFunc("GET /applications/export/{target}", d.exportHandler)
	mux.HandleFunc("POST /applications/import", d.importHandler)
	mux.HandleFunc("DELETE /applications/{id}", d.deleteHandler)

	directorLogger.Info().Str("http_port", cfg.HTTPPort).Msg("Transfer director initialized.")
	return d, nil
}

func (d *Director) exportHandler(w http.ResponseWriter, r *http.Request) {
	log := d.requestLogger()
	target := r.PathValue("target")

	// A wildcard Accept carries no format preference and must not force
	// single-document mode over an archive suffix.
	accept := r.Header.Get("Accept")
	if accept == "*/*" {
		accept = ""
	}

	result, err := d.exporter.Export(r.Context(), orchestration.ExportRequest{
		TargetFile:    target,
		Components:    r.URL.Query().Get("components"),
		MediaTypeHint: accept,
		Workspace:     r.Header.Get(workspaceHeader),
	})
	if err != nil {
		d.writeError(w, log, err)
		return
	}

	w.Header().Set("Content-Type", result.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Payload)))
	_, _ = w.Write(result.Payload)
	log.Info().Str("target", target).Str("filename", result.Filename).Msg("Export request served.")
}

func (d *Director) importHandler(w http.ResponseWriter, r *http.Request) {
	log := d.requestLogger()

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var forcedID *int
	if raw := r.URL.Query().Get("app_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			d.writeError(w, log, fmt.Errorf("%w: '%s'", transfer.ErrInvalidIdentifier, raw))
			return
		}
		forcedID = &id
	}

	err = d.importer.Import(r.Context(), orchestration.ImportRequest{
		Payload:             payload,
		MediaType:           r.Header.Get("Content-Type"),
		Workspace:           r.Header.Get(workspaceHeader),
		TargetApplicationID: forcedID,
	})
	if err != nil {
		d.writeError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Definition imported successfully."))
	log.Info().Int("bytes", len(payload)).Msg("Import request served.")
}

func (d *Director) deleteHandler(w http.ResponseWriter, r *http.Request) {
	log := d.requestLogger()

	applicationID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		d.writeError(w, log, fmt.Errorf("%w: '%s'", transfer.ErrInvalidIdentifier, r.PathValue("id")))
		return
	}

	err = d.deleter.Delete(r.Context(), orchestration.DeleteRequest{
		Workspace:     r.Header.Get(workspaceHeader),
		ApplicationID: applicationID,
	})
	if err != nil {
		d.writeError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(fmt.Sprintf("Definition %d removed.", applicationID)))
	log.Info().Int("application_id", applicationID).Msg("Delete request served.")
}

// requestLogger derives a logger carrying a short per-request id.
func (d *Director) requestLogger() zerolog.Logger {
	return d.logger.With().Str("request_id", uuid.New().String()[:8]).Logger()
}

// writeError maps the transfer error taxonomy onto HTTP status codes. Headers
// are only written here, so a failed export never emits a partial payload.
func (d *Director) writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, transfer.ErrInvalidIdentifier),
		errors.Is(err, transfer.ErrArchiveFormat),
		errors.Is(err, transfer.ErrEncoding):
		status = http.StatusBadRequest
	case errors.Is(err, transfer.ErrScopeResolution):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, definitionstore.ErrDefinitionNotExist):
		status = http.StatusNotFound
	}

	log.Error().Err(err).Int("status", status).Msg("Request failed.")
	http.Error(w, err.Error(), status)
}
