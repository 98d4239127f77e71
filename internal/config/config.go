// Package config loads resolverstatus settings from an optional YAML file,
// a .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/jward/resolverstatus/internal/extract"
	"github.com/jward/resolverstatus/internal/notion"
)

// ErrMissingCredential is returned by ValidateReconcile when the tracking
// database cannot be addressed.
var ErrMissingCredential = errors.New("config: missing tracking database credential")

// Environment variables read by Load.
const (
	EnvNotionToken      = "NOTION_API_KEY"
	EnvNotionDatabaseID = "NOTION_DATABASE_ID"
	EnvSourceDir        = "RESOLVERSTATUS_SOURCE_DIR"
	EnvSnapshotPath     = "RESOLVERSTATUS_SNAPSHOT"
)

type Config struct {
	SourceDir    string           `yaml:"source_dir"`
	Extensions   []string         `yaml:"extensions"`
	SnapshotPath string           `yaml:"snapshot_path"`
	AdminMarker  string           `yaml:"admin_marker"`
	HistoryDB    string           `yaml:"history_db"`
	Filter       string           `yaml:"filter"`
	Notion       NotionConfig     `yaml:"notion"`
	Properties   PropertiesConfig `yaml:"properties"`
}

type NotionConfig struct {
	// Token is only read from the environment.
	Token             string  `yaml:"-"`
	DatabaseID        string  `yaml:"database_id"`
	BaseURL           string  `yaml:"base_url"`
	Version           string  `yaml:"version"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// PropertiesConfig names the tracking database columns.
type PropertiesConfig struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Status string `yaml:"status"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SourceDir:    ".",
		Extensions:   []string{".ts"},
		SnapshotPath: "resolver-status.json",
		AdminMarker:  extract.DefaultAdminMarker,
		Notion: NotionConfig{
			BaseURL:           notion.DefaultBaseURL,
			Version:           notion.DefaultVersion,
			RequestsPerSecond: notion.DefaultRequestsPerSecond,
		},
		Properties: PropertiesConfig{Name: "Name", Type: "Type", Status: "Status"},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), a .env file in the working directory if present, and
// environment variables, in increasing order of precedence.
func Load(fsys afero.Fs, path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		var file Config
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.merge(&file)
	}

	if v := strings.TrimSpace(os.Getenv(EnvNotionToken)); v != "" {
		cfg.Notion.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvNotionDatabaseID)); v != "" {
		cfg.Notion.DatabaseID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSourceDir)); v != "" {
		cfg.SourceDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnapshotPath)); v != "" {
		cfg.SnapshotPath = v
	}
	cfg.Extensions = normalizeExtensions(cfg.Extensions)
	return cfg, nil
}

// merge copies the non-zero values of other into c.
func (c *Config) merge(other *Config) {
	setString(&c.SourceDir, other.SourceDir)
	setString(&c.SnapshotPath, other.SnapshotPath)
	setString(&c.AdminMarker, other.AdminMarker)
	setString(&c.HistoryDB, other.HistoryDB)
	setString(&c.Filter, other.Filter)
	if len(other.Extensions) > 0 {
		c.Extensions = other.Extensions
	}
	setString(&c.Notion.DatabaseID, other.Notion.DatabaseID)
	setString(&c.Notion.BaseURL, other.Notion.BaseURL)
	setString(&c.Notion.Version, other.Notion.Version)
	if other.Notion.RequestsPerSecond != 0 {
		c.Notion.RequestsPerSecond = other.Notion.RequestsPerSecond
	}
	setString(&c.Properties.Name, other.Properties.Name)
	setString(&c.Properties.Type, other.Properties.Type)
	setString(&c.Properties.Status, other.Properties.Status)
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// normalizeExtensions lowercases extensions and adds the leading dot.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// ValidateReconcile checks the settings needed to talk to the tracking
// database.
func (c *Config) ValidateReconcile() error {
	var missing []string
	if c.Notion.Token == "" {
		missing = append(missing, EnvNotionToken)
	}
	if c.Notion.DatabaseID == "" {
		missing = append(missing, EnvNotionDatabaseID)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s", ErrMissingCredential, strings.Join(missing, ", "))
	}
	return nil
}
