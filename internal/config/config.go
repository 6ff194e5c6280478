package config

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseDSN         string `json:"database_dsn"`
	ListenAddr          string `json:"listen_addr"`
	ChargeDetailBaseURL string `json:"charge_detail_base_url"`
	TemplatesGlob       string `json:"templates_glob"`
}

// LoadConfig reads the JSON config file, then lets the environment (after
// an optional .env load) override the deploy-specific fields so the DSN
// never has to live in a committed file.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Best effort: a missing .env is fine.
	_ = godotenv.Load()

	if dsn := os.Getenv("MACREPORTER_DATABASE_DSN"); dsn != "" {
		config.DatabaseDSN = dsn
	}
	if addr := os.Getenv("MACREPORTER_LISTEN_ADDR"); addr != "" {
		config.ListenAddr = addr
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}
	if config.TemplatesGlob == "" {
		config.TemplatesGlob = "templates/partials/*.html"
	}

	return &config, nil
}
