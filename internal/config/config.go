package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Auth
	DocpatchAPIKey string

	// Contract template
	TemplatePath string

	// Where generated and edited documents live
	DocumentDir string

	// Request limits
	MaxContentBytes int64
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		DocpatchAPIKey: os.Getenv("DOCPATCH_API_KEY"),

		TemplatePath: envOr("TEMPLATE_PATH", "templates/contract.docx"),
		DocumentDir:  envOr("DOCUMENT_DIR", os.TempDir()),

		MaxContentBytes: envInt64("MAX_CONTENT_BYTES", 10485760), // 10MB
	}

	if cfg.MaxContentBytes <= 0 {
		cfg.MaxContentBytes = 10485760
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DocpatchAPIKey == "" {
		return fmt.Errorf("DOCPATCH_API_KEY is required")
	}
	if c.TemplatePath == "" {
		return fmt.Errorf("TEMPLATE_PATH is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
