package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/illmade-knight/go-app-transfer/microservice/transferdirector"
	"github.com/illmade-knight/go-app-transfer/pkg/definitionstore"
	"github.com/rs/zerolog"
)

// The transfer director serves export/import/delete of application
// definitions over HTTP, backed by a GCS definition bucket and a Firestore
// workspace directory.
func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := transferdirector.NewConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	resourcesPath := os.Getenv("RESOURCES_PATH")
	if resourcesPath == "" {
		resourcesPath = "resources.yaml"
	}
	yamlBytes, err := os.ReadFile(resourcesPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", resourcesPath).Msg("Failed to read resources spec")
	}
	resources, err := transferdirector.ReadResourcesYAML(yamlBytes)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to parse resources spec")
	}
	cfg.Resources = resources

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bucket, err := definitionstore.CreateGoogleDefinitionBucket(ctx, resources.DefinitionBucket)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create definition bucket client")
	}
	defer func() { _ = bucket.Close() }()

	source, err := definitionstore.NewGCSDefinitionSource(bucket, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create definition source")
	}

	directory, err := definitionstore.CreateGoogleWorkspaceDirectory(ctx, cfg.ProjectID, resources.WorkspaceCollection)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create workspace directory client")
	}
	defer func() { _ = directory.Close() }()

	scopes, err := definitionstore.NewDirectoryScopeResolver(directory, resources.CallerID, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create scope resolver")
	}

	director, err := transferdirector.NewTransferDirector(cfg, source, scopes, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create transfer director")
	}

	go func() {
		<-ctx.Done()
		logger.Info().Msg("Shutdown signal received.")
		director.Shutdown()
	}()

	if err := director.Start(); err != nil {
		logger.Fatal().Err(err).Msg("HTTP server failed")
	}
}
