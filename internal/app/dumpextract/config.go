package dumpextract

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds dump extraction settings.
type Config struct {
	Source       string `yaml:"source"        env:"DUMP_SOURCE"`
	OutputPath   string `yaml:"output_path"   env:"DUMP_OUTPUT_PATH"   env-default:"./output/xml_glossary.csv"`
	TemplateName string `yaml:"template_name" env:"DUMP_TEMPLATE_NAME" env-default:"Other Languages"`
	SourceParam  string `yaml:"source_param"  env:"DUMP_SOURCE_PARAM"  env-default:"en"`
	TargetParam  string `yaml:"target_param"  env:"DUMP_TARGET_PARAM"  env-default:"ja"`
}

// LoadConfig reads dump extraction configuration from a YAML file or environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("dump config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("dump config: file %s not found", path)
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("dump config: read env: %w", err)
	}
	return &cfg, nil
}
