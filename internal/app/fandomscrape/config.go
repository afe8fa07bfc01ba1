package fandomscrape

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds fandom scrape settings.
type Config struct {
	BaseURL         string        `yaml:"base_url"         env:"FANDOM_BASE_URL"         env-default:"https://zenless-zone-zero.fandom.com"`
	OutputPath      string        `yaml:"output_path"      env:"FANDOM_OUTPUT_PATH"      env-default:"./output/fandom_glossary.csv"`
	RequestInterval time.Duration `yaml:"request_interval" env:"FANDOM_REQUEST_INTERVAL" env-default:"500ms"`
	Timeout         time.Duration `yaml:"timeout"          env:"FANDOM_TIMEOUT"          env-default:"15s"`
	UserAgent       string        `yaml:"user_agent"       env:"FANDOM_USER_AGENT"`
	TitleFallback   bool          `yaml:"title_fallback"   env:"FANDOM_TITLE_FALLBACK"`
	FlushEvery      int           `yaml:"flush_every"      env:"FANDOM_FLUSH_EVERY"      env-default:"30"`
	MaxPages        int           `yaml:"max_pages"        env:"FANDOM_MAX_PAGES"`
}

// LoadConfig reads fandom scrape configuration from a YAML file or environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("fandom config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("fandom config: file %s not found", path)
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("fandom config: read env: %w", err)
	}
	return &cfg, nil
}
