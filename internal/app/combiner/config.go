package combiner

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds combine settings.
type Config struct {
	Sources        []string      `yaml:"sources"          env:"COMBINE_SOURCES"          env-separator:","`
	OutputPath     string        `yaml:"output_path"      env:"COMBINE_OUTPUT_PATH"      env-default:"./output/glossary.csv"`
	CachePath      string        `yaml:"cache_path"       env:"COMBINE_CACHE_PATH"       env-default:"./output/cleaning_cache.csv"`
	BatchSize      int           `yaml:"batch_size"       env:"COMBINE_BATCH_SIZE"       env-default:"50"`
	BatchInterval  time.Duration `yaml:"batch_interval"   env:"COMBINE_BATCH_INTERVAL"   env-default:"10s"`
	MaxPluralWords int           `yaml:"max_plural_words" env:"COMBINE_MAX_PLURAL_WORDS" env-default:"4"`
	TargetScript   string        `yaml:"target_script"    env:"COMBINE_TARGET_SCRIPT"    env-default:"japanese"`
	SourceScript   string        `yaml:"source_script"    env:"COMBINE_SOURCE_SCRIPT"    env-default:"latin"`
}

// LoadConfig reads combine configuration from a YAML file or environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("combine config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("combine config: file %s not found", path)
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("combine config: read env: %w", err)
	}
	return &cfg, nil
}
