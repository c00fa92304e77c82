// Package config provides hierarchical configuration loading for AgentMesh.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Roles an agentmesh process can run as. Each role hosts exactly one
// capability behind the task protocol; the assistant additionally runs
// the orchestrator.
const (
	RoleAssistant = "assistant"
	RoleResearch  = "research"
	RoleWriting   = "writing"
	RoleImage     = "image"
	RoleReport    = "report"
)

// Config holds all runtime configuration for one agentmesh process.
type Config struct {
	Server       Server       `yaml:"server"`
	Agent        Agent        `yaml:"agent"`
	Client       Client       `yaml:"client"`
	Orchestrator Orchestrator `yaml:"orchestrator"`
	Gemini       Gemini       `yaml:"gemini"`
	Serper       Serper       `yaml:"serper"`
	Storage      Storage      `yaml:"storage"`
	NATS         NATS         `yaml:"nats"`
	Cache        Cache        `yaml:"cache"`
	Logging      Logging      `yaml:"logging"`
	Breaker      Breaker      `yaml:"breaker"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// Agent identifies the hosted agent and its advertised base URL.
type Agent struct {
	Role        string `yaml:"role"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"`
}

// Client holds protocol client configuration.
type Client struct {
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MaxDiscovery int64         `yaml:"max_discovery"` // concurrent discovery fan-out bound
}

// Orchestrator holds peer endpoints and step execution policy.
type Orchestrator struct {
	ImageAgentURL    string        `yaml:"image_agent_url"`
	WriterAgentURL   string        `yaml:"writer_agent_url"`
	ResearchAgentURL string        `yaml:"research_agent_url"`
	ReportAgentURL   string        `yaml:"report_agent_url"`
	MaxWait          time.Duration `yaml:"max_wait"`      // per-step completion budget
	RetryAttempts    int           `yaml:"retry_attempts"`
	RetryDelay       time.Duration `yaml:"retry_delay"`
	ContextLimit     int           `yaml:"context_limit"` // chars of prior-step context forwarded
}

// Gemini holds Google Gemini API configuration.
type Gemini struct {
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	ImageModel string `yaml:"image_model"`
}

// Serper holds Serper web search API configuration.
type Serper struct {
	APIKey string `yaml:"api_key"`
	URL    string `yaml:"url"`
}

// Storage holds filesystem artifact storage configuration.
type Storage struct {
	ImagesDir string `yaml:"images_dir"`
}

// NATS holds lifecycle event publishing configuration. Publishing is
// optional; with Enabled false the process runs without a broker.
type NATS struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// Cache holds descriptor cache configuration.
type Cache struct {
	MaxSizeMB     int64         `yaml:"max_size_mb"`
	DescriptorTTL time.Duration `yaml:"descriptor_ttl"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Breaker holds circuit breaker configuration for outbound API clients.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Defaults returns a Config with sensible default values for local
// development: the five roles on ports 8000-8004.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8000",
			CORSOrigin: "http://localhost:3000",
		},
		Agent: Agent{
			Role:        RoleAssistant,
			Name:        "Assistant Orchestrator",
			Description: "Coordinates multi-capability requests across the agent mesh",
			BaseURL:     "http://localhost:8000",
		},
		Client: Client{
			Timeout:      30 * time.Second,
			PollInterval: 2 * time.Second,
			MaxDiscovery: 8,
		},
		Orchestrator: Orchestrator{
			ImageAgentURL:    "http://localhost:8001",
			WriterAgentURL:   "http://localhost:8002",
			ResearchAgentURL: "http://localhost:8003",
			ReportAgentURL:   "http://localhost:8004",
			MaxWait:          60 * time.Second,
			RetryAttempts:    3,
			RetryDelay:       2 * time.Second,
			ContextLimit:     200,
		},
		Gemini: Gemini{
			Model:      "gemini-2.0-flash-exp",
			ImageModel: "imagen-3.0-generate-002",
		},
		Serper: Serper{
			URL: "https://google.serper.dev",
		},
		Storage: Storage{
			ImagesDir: "generated_images",
		},
		NATS: NATS{
			Enabled: false,
			URL:     "nats://localhost:4222",
		},
		Cache: Cache{
			MaxSizeMB:     16,
			DescriptorTTL: time.Hour,
		},
		Logging: Logging{
			Level:   "info",
			Service: "agentmesh",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
	}
}
