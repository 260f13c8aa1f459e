package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/autopr/autopr/internal/common"
	"github.com/autopr/autopr/internal/spec"
)

// DefaultFileName is the merge PR template looked up at the repo root when
// no --config flag is given.
const DefaultFileName = ".autopr.yml"

// Config holds everything a dispatch needs: the platform connection and the
// merge PR template. The credential is an indirection resolved from the
// environment; it is never stored in the template file.
type Config struct {
	// Platform connection
	Token      string // GITHUB_TOKEN
	APIURL     string // GITHUB_API_URL, empty means the public API
	Repository string // owner/repo; GITHUB_REPOSITORY or resolved from the checkout

	// Merge PR template
	Source      string
	Destination string
	Title       string
	Body        string
	Assignees   []string
	Labels      []string
}

// fileConfig is the YAML shape of the template file. Title and body are
// pointers so an explicit empty string can override the default.
type fileConfig struct {
	Repository  string   `yaml:"repository"`
	Source      string   `yaml:"source"`
	Destination string   `yaml:"destination"`
	Title       *string  `yaml:"title"`
	Body        *string  `yaml:"body"`
	Assignees   []string `yaml:"assignees"`
	Labels      []string `yaml:"labels"`
}

// Load builds the configuration from built-in defaults, the template file,
// and the environment, in increasing precedence. A missing file at the
// default location is fine; an explicitly given path must exist.
func Load(path string) (*Config, error) {
	// Local .env, mainly for running outside CI. Absence is normal.
	_ = godotenv.Load()

	cfg := &Config{
		Source:      spec.DefaultSource,
		Destination: spec.DefaultDestination,
		Title:       spec.DefaultTitle,
		Body:        spec.DefaultBody,
		Assignees:   spec.DefaultAssignees,
		Labels:      spec.DefaultLabels,
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	if err := cfg.applyFile(path, explicit); err != nil {
		return nil, err
	}

	cfg.Token = os.Getenv("GITHUB_TOKEN")
	if v := os.Getenv("GITHUB_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("GITHUB_REPOSITORY"); v != "" {
		cfg.Repository = v
	}

	return cfg, nil
}

// applyFile overlays the YAML template file onto the config.
func (c *Config) applyFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if file.Repository != "" {
		c.Repository = file.Repository
	}
	if file.Source != "" {
		c.Source = file.Source
	}
	if file.Destination != "" {
		c.Destination = file.Destination
	}
	if file.Title != nil {
		c.Title = *file.Title
	}
	if file.Body != nil {
		c.Body = *file.Body
	}
	if file.Assignees != nil {
		c.Assignees = file.Assignees
	}
	if file.Labels != nil {
		c.Labels = file.Labels
	}

	return nil
}

// BuildSpec constructs the validated MergeRequestSpec for this run.
func (c *Config) BuildSpec() (spec.MergeRequestSpec, error) {
	return spec.New(c.Source, c.Destination, c.Title, c.Body, c.Assignees, c.Labels)
}

// HasToken reports whether a credential is available.
func (c *Config) HasToken() bool {
	return c.Token != ""
}

// SplitRepository splits the configured owner/repo path.
func (c *Config) SplitRepository() (owner, repo string, err error) {
	if c.Repository == "" {
		return "", "", fmt.Errorf("repository is not configured")
	}
	return common.SplitRepoPath(c.Repository)
}
