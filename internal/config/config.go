package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App       AppConfig       `toml:"app"`
	LLM       LLMConfig       `toml:"llm"`
	Embedding EmbeddingConfig `toml:"embedding"`
	RAG       RAGConfig       `toml:"rag"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

// LLMConfig points at an OpenAI-compatible completion endpoint. An empty
// BaseURL means the completion capability is absent and the server degrades
// to keyword and document answers.
type LLMConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

// EmbeddingConfig points at an OpenAI-compatible embedding endpoint. An
// empty BaseURL selects the deterministic hashing fallback.
type EmbeddingConfig struct {
	BaseURL     string `toml:"base_url"`
	APIKey      string `toml:"api_key"`
	Model       string `toml:"model"`
	FallbackDim int    `toml:"fallback_dim"`
}

type RAGConfig struct {
	PDFDir       string `toml:"pdf_dir"`
	ChunkSize    int    `toml:"chunk_size"`
	ChunkOverlap int    `toml:"chunk_overlap"`
	TargetDim    int    `toml:"target_dim"`
	TopK         int    `toml:"top_k"`
	BatchSize    int    `toml:"batch_size"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

// CompletionEnabled reports whether a completion endpoint is configured.
func (c *Config) CompletionEnabled() bool { return c.LLM.BaseURL != "" }

// EmbeddingEnabled reports whether a remote embedding endpoint is configured.
func (c *Config) EmbeddingEnabled() bool { return c.Embedding.BaseURL != "" }

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "polyi",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    5001,
			GinMode: "debug",
		},
		LLM: LLMConfig{
			BaseURL: "",
			APIKey:  "",
			Model:   "meta-llama-3.1-8b-instruct",
		},
		Embedding: EmbeddingConfig{
			BaseURL:     "",
			APIKey:      "",
			Model:       "qwen3-embedding-0.6b",
			FallbackDim: 512,
		},
		RAG: RAGConfig{
			PDFDir:       "docs",
			ChunkSize:    800,
			ChunkOverlap: 120,
			TargetDim:    256,
			TopK:         3,
			BatchSize:    10,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)

	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)

	cfg.Embedding.BaseURL = getEnv("EMBEDDING_BASE_URL", cfg.Embedding.BaseURL)
	cfg.Embedding.APIKey = getEnv("EMBEDDING_API_KEY", cfg.Embedding.APIKey)
	cfg.Embedding.Model = getEnv("EMBEDDING_MODEL", cfg.Embedding.Model)
	cfg.Embedding.FallbackDim = getEnvAsInt("EMBEDDING_FALLBACK_DIM", cfg.Embedding.FallbackDim)

	cfg.RAG.PDFDir = getEnv("RAG_PDF_DIR", cfg.RAG.PDFDir)
	cfg.RAG.ChunkSize = getEnvAsInt("RAG_CHUNK_SIZE", cfg.RAG.ChunkSize)
	cfg.RAG.ChunkOverlap = getEnvAsInt("RAG_CHUNK_OVERLAP", cfg.RAG.ChunkOverlap)
	cfg.RAG.TargetDim = getEnvAsInt("RAG_TARGET_DIM", cfg.RAG.TargetDim)
	cfg.RAG.TopK = getEnvAsInt("RAG_TOP_K", cfg.RAG.TopK)
	cfg.RAG.BatchSize = getEnvAsInt("RAG_BATCH_SIZE", cfg.RAG.BatchSize)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
