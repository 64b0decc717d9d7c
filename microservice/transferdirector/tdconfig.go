package transferdirector

import (
	"flag"
	"fmt"
	"os"

	"github.com/illmade-knight/go-app-transfer/microservice"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ResourcesConfig names the backing resources the director operates on,
// discovered from the resources YAML shipped alongside the binary.
type ResourcesConfig struct {
	// DefinitionBucket is the storage bucket holding application definitions.
	DefinitionBucket string `yaml:"definition_bucket"`
	// WorkspaceCollection is the Firestore collection of workspace assignments.
	WorkspaceCollection string `yaml:"workspace_collection"`
	// CallerID identifies this service in the workspace directory; its first
	// assignment is the default workspace for requests naming none.
	CallerID string `yaml:"caller_id"`
}

// Config holds configuration that is NOT part of the resources spec: the
// runtime operational concerns of the service container itself.
type Config struct {
	microservice.BaseConfig
	Resources *ResourcesConfig
}

// NewConfig creates a Config from runtime flags and environment variables.
func NewConfig() (*Config, error) {
	cfg := &Config{
		BaseConfig: microservice.BaseConfig{
			LogLevel: "info",
			HTTPPort: ":8080",
		},
	}

	flag.StringVar(&cfg.HTTPPort, "http-port", cfg.HTTPPort, "HTTP port for the transfer director")
	flag.Parse()

	cfg.ProjectID = os.Getenv("PROJECT_ID")

	// Cloud Run's special 'PORT' variable takes highest precedence.
	if port := os.Getenv("PORT"); port != "" {
		newPort := ":" + port
		log.Info().Str("old_http_port", cfg.HTTPPort).Str("new_http_port", newPort).Msg("Overriding director HTTP port with Cloud Run PORT environment variable.")
		cfg.HTTPPort = newPort
	}

	return cfg, nil
}

// ReadResourcesYAML parses the resources spec into the config's resource block.
func ReadResourcesYAML(yamlBytes []byte) (*ResourcesConfig, error) {
	resources := &ResourcesConfig{}
	if err := yaml.Unmarshal(yamlBytes, resources); err != nil {
		return nil, fmt.Errorf("failed to parse resources.yaml: %w", err)
	}

	if resources.DefinitionBucket == "" {
		return nil, fmt.Errorf("failed to find definition_bucket in resources.yaml")
	}
	if resources.WorkspaceCollection == "" {
		return nil, fmt.Errorf("failed to find workspace_collection in resources.yaml")
	}
	if resources.CallerID == "" {
		resources.CallerID = "transfer-director"
	}
	return resources, nil
}
