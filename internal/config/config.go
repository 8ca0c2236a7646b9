package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFilePath     = "links.md"
	DefaultBranchPrefix = "rss-update"
	DefaultBaseBranch   = "main"
	DefaultMaxLinks     = 10
	DefaultFetchTimeout = 30 * time.Second
)

// Config is the whole run's input surface, resolved once at the CLI
// boundary and passed by value into the pipeline. Nothing below cmd/ reads
// the process environment.
type Config struct {
	FeedURLs     []string
	MaxLinks     int
	FilePath     string
	BranchPrefix string
	BaseBranch   string
	Repository   string // owner/name slug
	Token        string
	FetchTimeout time.Duration
}

// fileConfig is the YAML shape. Feeds may be a newline- or comma-separated
// block, same as the FEED_URLS environment variable.
type fileConfig struct {
	Feeds        string `yaml:"feeds"`
	MaxLinks     int    `yaml:"max_links"`
	FilePath     string `yaml:"file_path"`
	BranchPrefix string `yaml:"branch_prefix"`
	BaseBranch   string `yaml:"base_branch"`
	Repository   string `yaml:"repository"`
}

// Load resolves the configuration: built-in defaults, then the YAML file at
// path (optional unless explicitly given), then environment overrides. The
// token only ever comes from the environment.
func Load(path string) (Config, error) {
	cfg := Config{
		MaxLinks:     DefaultMaxLinks,
		FilePath:     DefaultFilePath,
		BranchPrefix: DefaultBranchPrefix,
		BaseBranch:   DefaultBaseBranch,
		FetchTimeout: DefaultFetchTimeout,
	}

	explicit := path != ""
	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
		applyFile(&cfg, fc)
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; env alone can drive a run.
	default:
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	applyEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, fc fileConfig) {
	if fc.Feeds != "" {
		cfg.FeedURLs = SplitList(fc.Feeds)
	}
	if fc.MaxLinks > 0 {
		cfg.MaxLinks = fc.MaxLinks
	}
	if fc.FilePath != "" {
		cfg.FilePath = fc.FilePath
	}
	if fc.BranchPrefix != "" {
		cfg.BranchPrefix = fc.BranchPrefix
	}
	if fc.BaseBranch != "" {
		cfg.BaseBranch = fc.BaseBranch
	}
	if fc.Repository != "" {
		cfg.Repository = fc.Repository
	}
}

func applyEnv(cfg *Config) {
	if v := lookup("FEED_URLS"); v != "" {
		cfg.FeedURLs = SplitList(v)
	}
	if v := lookup("MAX_LINKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxLinks = n
		}
	}
	if v := lookup("FILE_PATH"); v != "" {
		cfg.FilePath = v
	}
	if v := lookup("BRANCH_PREFIX"); v != "" {
		cfg.BranchPrefix = v
	}
	if v := lookup("BASE_BRANCH"); v != "" {
		cfg.BaseBranch = v
	}
	if v := lookup("GITHUB_REPOSITORY"); v != "" {
		cfg.Repository = v
	}
	if v := lookup("GITHUB_TOKEN"); v != "" {
		cfg.Token = v
	}
}

// lookup honors the GitHub Actions INPUT_ prefix before the plain name, so
// the binary works both as an action step and standalone.
func lookup(name string) string {
	if v := os.Getenv("INPUT_" + name); v != "" {
		return v
	}
	return os.Getenv(name)
}

// SplitList parses a newline- or comma-separated URL list, dropping empty
// fields.
func SplitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ','
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func validate(cfg *Config) error {
	if len(cfg.FeedURLs) == 0 {
		return fmt.Errorf("no feed URLs configured (set feeds in the config file or FEED_URLS)")
	}
	for _, f := range cfg.FeedURLs {
		u, err := url.Parse(f)
		if err != nil {
			return fmt.Errorf("feed %q: invalid url: %w", f, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("feed %q: url scheme must be http or https, got %q", f, u.Scheme)
		}
	}
	if cfg.MaxLinks < 1 {
		cfg.MaxLinks = 1
	}
	return nil
}

// RequirePublish checks the fields a real (non-dry-run) publish needs.
func (c Config) RequirePublish() error {
	if c.Token == "" {
		return fmt.Errorf("GITHUB_TOKEN is required")
	}
	if c.Repository == "" {
		return fmt.Errorf("repository is required (owner/name, set repository or GITHUB_REPOSITORY)")
	}
	return nil
}

// Owner returns the owner half of the repository slug, for link decoration.
func (c Config) Owner() string {
	owner, _, _ := strings.Cut(c.Repository, "/")
	return owner
}

// RepoName returns the name half of the repository slug.
func (c Config) RepoName() string {
	_, name, _ := strings.Cut(c.Repository, "/")
	return name
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "rss-action", "config.yaml")
}

// HistoryPath is where the run journal lives.
func HistoryPath() string {
	return filepath.Join(xdg.DataHome, "rss-action", "history.db")
}
