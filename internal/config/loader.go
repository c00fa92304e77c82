package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "agentmesh.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "AGENTMESH_PORT")
	setString(&cfg.Server.CORSOrigin, "AGENTMESH_CORS_ORIGIN")

	setString(&cfg.Agent.Role, "AGENTMESH_ROLE")
	setString(&cfg.Agent.Name, "AGENTMESH_AGENT_NAME")
	setString(&cfg.Agent.Description, "AGENTMESH_AGENT_DESCRIPTION")
	setString(&cfg.Agent.BaseURL, "AGENTMESH_BASE_URL")

	setDuration(&cfg.Client.Timeout, "AGENTMESH_CLIENT_TIMEOUT")
	setDuration(&cfg.Client.PollInterval, "AGENTMESH_CLIENT_POLL_INTERVAL")
	setInt64(&cfg.Client.MaxDiscovery, "AGENTMESH_CLIENT_MAX_DISCOVERY")

	setString(&cfg.Orchestrator.ImageAgentURL, "IMAGE_AGENT_URL")
	setString(&cfg.Orchestrator.WriterAgentURL, "WRITER_AGENT_URL")
	setString(&cfg.Orchestrator.ResearchAgentURL, "RESEARCH_AGENT_URL")
	setString(&cfg.Orchestrator.ReportAgentURL, "REPORT_AGENT_URL")
	setDuration(&cfg.Orchestrator.MaxWait, "AGENTMESH_ORCH_MAX_WAIT")
	setInt(&cfg.Orchestrator.RetryAttempts, "AGENTMESH_ORCH_RETRY_ATTEMPTS")
	setDuration(&cfg.Orchestrator.RetryDelay, "AGENTMESH_ORCH_RETRY_DELAY")
	setInt(&cfg.Orchestrator.ContextLimit, "AGENTMESH_ORCH_CONTEXT_LIMIT")

	setString(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "GEMINI_MODEL_NAME")
	setString(&cfg.Gemini.ImageModel, "GEMINI_IMAGE_MODEL")

	setString(&cfg.Serper.APIKey, "SERPER_API_KEY")
	setString(&cfg.Serper.URL, "SERPER_URL")

	setString(&cfg.Storage.ImagesDir, "AGENTMESH_IMAGES_DIR")

	setBool(&cfg.NATS.Enabled, "AGENTMESH_NATS_ENABLED")
	setString(&cfg.NATS.URL, "NATS_URL")

	setInt64(&cfg.Cache.MaxSizeMB, "AGENTMESH_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.DescriptorTTL, "AGENTMESH_CACHE_DESCRIPTOR_TTL")

	setString(&cfg.Logging.Level, "AGENTMESH_LOG_LEVEL")
	setString(&cfg.Logging.Service, "AGENTMESH_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "AGENTMESH_LOG_ASYNC")

	setInt(&cfg.Breaker.MaxFailures, "AGENTMESH_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "AGENTMESH_BREAKER_TIMEOUT")
}

// validate checks that required fields are set and consistent.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Agent.BaseURL == "" {
		return errors.New("agent.base_url is required")
	}
	switch cfg.Agent.Role {
	case RoleAssistant, RoleResearch, RoleWriting, RoleImage, RoleReport:
	default:
		return fmt.Errorf("agent.role %q is not a known role", cfg.Agent.Role)
	}
	if cfg.Orchestrator.RetryAttempts < 1 {
		return errors.New("orchestrator.retry_attempts must be >= 1")
	}
	if cfg.Client.PollInterval <= 0 {
		return errors.New("client.poll_interval must be positive")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
