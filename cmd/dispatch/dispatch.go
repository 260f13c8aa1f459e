package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/autopr/autopr/internal/config"
	"github.com/autopr/autopr/internal/dispatcher"
	"github.com/autopr/autopr/internal/gh"
	"github.com/autopr/autopr/internal/git"
	"github.com/autopr/autopr/internal/logger"
	"github.com/autopr/autopr/internal/spec"
	"github.com/autopr/autopr/internal/ui"
)

// Command dispatches the automated merge PR
type Command struct {
	// Flags
	ConfigPath  string
	Source      string
	Destination string
	Title       string
	Body        string
	Assignees   []string
	Labels      []string
	DryRun      bool // Show what would be dispatched without calling the platform
	Verbose     bool

	titleSet bool // --title was given, even if empty
	bodySet  bool // --body was given, even if empty

	// Provider can be overridden in tests; a nil value means the GitHub
	// client built from configuration.
	Provider dispatcher.Provider
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Open the automated merge PR",
		Long: `Open a pull request merging the source branch into the destination branch.

Intended to run from a CI job on a tag-push event. The merge PR template
comes from ` + config.DefaultFileName + ` when present, falling back to built-in
defaults; flags override individual fields. If an open PR already exists for
the branch pair, its title and body are updated instead of creating a
duplicate.

Example:
  autopr dispatch                          # dispatch with the configured template
  autopr dispatch --dry-run                # show what would be dispatched
  autopr dispatch --source main --destination develop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.titleSet = cmd.Flags().Changed("title")
			c.bodySet = cmd.Flags().Changed("body")
			return c.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&c.ConfigPath, "config", "", "Path to the template file (default "+config.DefaultFileName+")")
	cmd.Flags().StringVar(&c.Source, "source", "", "Branch to merge from")
	cmd.Flags().StringVar(&c.Destination, "destination", "", "Branch to merge into")
	cmd.Flags().StringVar(&c.Title, "title", "", "PR title")
	cmd.Flags().StringVar(&c.Body, "body", "", "PR body (markdown)")
	cmd.Flags().StringSliceVar(&c.Assignees, "assignee", nil, "User to assign (repeatable)")
	cmd.Flags().StringSliceVar(&c.Labels, "label", nil, "Label to apply (repeatable)")
	cmd.Flags().BoolVar(&c.DryRun, "dry-run", false, "Show what would be dispatched without calling the platform")
	cmd.Flags().BoolVarP(&c.Verbose, "verbose", "v", false, "Enable debug logging")

	parent.AddCommand(cmd)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	log, err := logger.New(c.Verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)

	mergeSpec, err := cfg.BuildSpec()
	if err != nil {
		ui.Errorf("Invalid merge PR template: %v", err)
		return err
	}

	if err := c.resolveRepository(cfg, log); err != nil {
		return err
	}

	if c.DryRun {
		c.printPlan(cfg, mergeSpec)
		if !cfg.HasToken() {
			ui.Warning("GITHUB_TOKEN is not set; a real dispatch would fail")
		}
		return nil
	}

	if !cfg.HasToken() {
		ui.Error("GITHUB_TOKEN is not set")
		return fmt.Errorf("%w: GITHUB_TOKEN is not set", gh.ErrAuth)
	}

	provider, err := c.provider(cfg, log)
	if err != nil {
		return err
	}

	result, err := dispatcher.New(provider, log).Dispatch(ctx, mergeSpec)
	if err != nil {
		ui.Errorf("Dispatch failed: %v", err)
		return err
	}

	if result.Created {
		ui.Successf("Created PR #%d: %s", result.PR.Number, result.PR.Title)
	} else {
		ui.Successf("Updated existing PR #%d: %s", result.PR.Number, result.PR.Title)
	}
	ui.Print(ui.Dim(result.PR.URL))

	return nil
}

// applyOverrides folds the command flags into the loaded configuration.
// Title and body honor explicitly-set empty values.
func (c *Command) applyOverrides(cfg *config.Config) {
	if c.Source != "" {
		cfg.Source = c.Source
	}
	if c.Destination != "" {
		cfg.Destination = c.Destination
	}
	if c.titleSet {
		cfg.Title = c.Title
	}
	if c.bodySet {
		cfg.Body = c.Body
	}
	if len(c.Assignees) > 0 {
		cfg.Assignees = c.Assignees
	}
	if len(c.Labels) > 0 {
		cfg.Labels = c.Labels
	}
}

// resolveRepository fills in cfg.Repository from the checkout's origin
// remote when neither the environment nor the template named one.
func (c *Command) resolveRepository(cfg *config.Config, log *zap.Logger) error {
	if cfg.Repository != "" {
		return nil
	}

	gitClient, err := git.Open(".")
	if err != nil {
		ui.Error("Cannot determine repository: set GITHUB_REPOSITORY or run inside a checkout")
		return err
	}

	owner, name, err := gitClient.RemoteRepoPath()
	if err != nil {
		return err
	}
	cfg.Repository = owner + "/" + name

	if tag, err := gitClient.HeadTag(); err == nil && tag != "" {
		log.Debug("triggering tag", zap.String("tag", tag))
	}

	return nil
}

// provider returns the injected test provider or a GitHub client built from
// the configuration.
func (c *Command) provider(cfg *config.Config, log *zap.Logger) (dispatcher.Provider, error) {
	if c.Provider != nil {
		return c.Provider, nil
	}

	owner, repo, err := cfg.SplitRepository()
	if err != nil {
		return nil, err
	}

	return gh.NewClient(gh.ClientConfig{
		BaseURL: cfg.APIURL,
		Token:   cfg.Token,
		Owner:   owner,
		Repo:    repo,
	}, nil, log), nil
}

// printPlan reports the dispatch that would happen.
func (c *Command) printPlan(cfg *config.Config, s spec.MergeRequestSpec) {
	ui.Info("Dry run; nothing will be dispatched")
	ui.Printf("  Repository:  %s\n", cfg.Repository)
	ui.Printf("  Merge:       %s → %s\n", s.Source, s.Destination)
	ui.Printf("  Title:       %s\n", s.Title)
	if s.Body != "" {
		ui.Printf("  Body:        %s\n", s.Body)
	}
	if len(s.Assignees) > 0 {
		ui.Printf("  Assignees:   %s\n", strings.Join(s.Assignees, ", "))
	}
	if len(s.Labels) > 0 {
		ui.Printf("  Labels:      %s\n", strings.Join(s.Labels, ", "))
	}
}
