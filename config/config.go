package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds every operator-tunable parameter. Values come from the YAML
// config file, MEDIACURATOR_* environment variables, then these defaults.
type Config struct {
	ArchiveRoot string `mapstructure:"archive_root"`
	StagingDir  string `mapstructure:"staging_dir"`
	ReportDir   string `mapstructure:"report_dir"`
	CatalogPath string `mapstructure:"catalog_path"`

	// Skiplist entries match anywhere in a path, case-insensitive.
	Skiplist []string `mapstructure:"skiplist"`

	// Duplicate detection.
	SizeThresholdKB int `mapstructure:"size_threshold_kb"`
	PhashDistance   int `mapstructure:"phash_distance"`

	// Only media with a trusted capture time strictly before this date is
	// eligible for reingestion. Empty disables the gate.
	TransitionDate string `mapstructure:"transition_date"`

	DupeExtensions     []string `mapstructure:"dupe_extensions"`
	ReingestExtensions []string `mapstructure:"reingest_extensions"`
	VideoExtensions    []string `mapstructure:"video_extensions"`

	FFmpegPath  string `mapstructure:"ffmpeg_path"`
	FFprobePath string `mapstructure:"ffprobe_path"`

	Workers int `mapstructure:"workers"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mediacurator.yaml"
	}
	return filepath.Join(home, ".mediacurator.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("archive_root", "")
	v.SetDefault("staging_dir", "staging")
	v.SetDefault("report_dir", "report")
	v.SetDefault("catalog_path", "mediacurator.db")
	v.SetDefault("skiplist", []string{"Trash"})
	v.SetDefault("size_threshold_kb", 800)
	v.SetDefault("phash_distance", 5)
	v.SetDefault("transition_date", "")
	v.SetDefault("dupe_extensions", []string{"jpg", "jpeg", "png"})
	v.SetDefault("reingest_extensions", []string{"jpg", "jpeg"})
	v.SetDefault("video_extensions", []string{"mkv", "mp4", "mov"})
	v.SetDefault("ffmpeg_path", "ffmpeg")
	v.SetDefault("ffprobe_path", "ffprobe")
	v.SetDefault("workers", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// Load reads the config file at path. A missing file is not an error; the
// defaults plus environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("mediacurator")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if _, _, err := cfg.Transition(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Transition parses the configured transition date. ok is false when the
// gate is disabled.
func (c *Config) Transition() (t time.Time, ok bool, err error) {
	if c.TransitionDate == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse("2006-01-02", c.TransitionDate)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid transition_date %q (want YYYY-MM-DD): %w", c.TransitionDate, err)
	}
	return t, true, nil
}

// SizeThresholdBytes converts the configured threshold to bytes.
func (c *Config) SizeThresholdBytes() int64 {
	return int64(c.SizeThresholdKB) * 1024
}

// ValidateArchive verifies the archive root exists and is a directory.
func (c *Config) ValidateArchive() error {
	if c.ArchiveRoot == "" {
		return fmt.Errorf("archive_root is not configured")
	}
	info, err := os.Stat(c.ArchiveRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("archive root does not exist: %s", c.ArchiveRoot)
		}
		return fmt.Errorf("cannot access archive root %s: %w", c.ArchiveRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("archive root is not a directory: %s", c.ArchiveRoot)
	}
	return nil
}

// WriteDefault writes a starter config file at path, refusing to clobber an
// existing one.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	return v.WriteConfigAs(path)
}
