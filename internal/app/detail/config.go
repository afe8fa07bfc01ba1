package detail

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds detail pipeline settings.
type Config struct {
	SnapshotDir     string        `yaml:"snapshot_dir"     env:"DETAIL_SNAPSHOT_DIR"     env-default:"./snapshots"`
	EntryIDs        []string      `yaml:"entry_ids"        env:"DETAIL_ENTRY_IDS"        env-separator:","`
	SourceLocale    string        `yaml:"source_locale"    env:"DETAIL_SOURCE_LOCALE"    env-default:"en-us"`
	TargetLocale    string        `yaml:"target_locale"    env:"DETAIL_TARGET_LOCALE"    env-default:"ja-jp"`
	OutputPath      string        `yaml:"output_path"      env:"DETAIL_OUTPUT_PATH"      env-default:"./output/detail_glossary.csv"`
	CheckpointPath  string        `yaml:"checkpoint_path"  env:"DETAIL_CHECKPOINT_PATH"  env-default:"./output/detail_pairs.csv"`
	CheckpointEvery int           `yaml:"checkpoint_every" env:"DETAIL_CHECKPOINT_EVERY" env-default:"5"`
	BatchSize       int           `yaml:"batch_size"       env:"DETAIL_BATCH_SIZE"       env-default:"12"`
	BatchInterval   time.Duration `yaml:"batch_interval"   env:"DETAIL_BATCH_INTERVAL"   env-default:"2s"`
	MinBodyRunes    int           `yaml:"min_body_runes"   env:"DETAIL_MIN_BODY_RUNES"   env-default:"5"`
}

// LoadConfig reads detail pipeline configuration from a YAML file or environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("detail config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("detail config: file %s not found", path)
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("detail config: read env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SourceLocale == "" {
		c.SourceLocale = "en-us"
	}
	if c.TargetLocale == "" {
		c.TargetLocale = "ja-jp"
	}
	if c.CheckpointEvery <= 0 {
		c.CheckpointEvery = 5
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 12
	}
	if c.MinBodyRunes <= 0 {
		c.MinBodyRunes = 5
	}
}
