package publisher

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds publish settings.
type Config struct {
	GlossaryPath string `yaml:"glossary_path" env:"PUBLISH_GLOSSARY_PATH" env-default:"./output/glossary.csv"`
	GlossaryName string `yaml:"glossary_name" env:"PUBLISH_GLOSSARY_NAME" env-default:"zzz-en-ja"`
	SampleSize   int    `yaml:"sample_size"   env:"PUBLISH_SAMPLE_SIZE"   env-default:"5"`
	Migrate      bool   `yaml:"migrate"       env:"PUBLISH_MIGRATE"`
	DryRun       bool   `yaml:"dry_run"       env:"PUBLISH_DRY_RUN"`
}

// LoadConfig reads publish configuration from a YAML file or environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("publish config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("publish config: file %s not found", path)
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("publish config: read env: %w", err)
	}
	return &cfg, nil
}
