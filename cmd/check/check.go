package check

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autopr/autopr/internal/config"
	"github.com/autopr/autopr/internal/gh"
	"github.com/autopr/autopr/internal/git"
	"github.com/autopr/autopr/internal/logger"
	"github.com/autopr/autopr/internal/ui"
)

// Command verifies that a dispatch would succeed, without creating anything
type Command struct {
	// Flags
	ConfigPath string
	Verbose    bool
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify configuration, credential, and branches",
		Long: `Check everything a dispatch needs: the merge PR template validates, the
credential is accepted by the platform, and both branches exist. No pull
request is created.

Example:
  autopr check
  autopr check --config ci/autopr.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&c.ConfigPath, "config", "", "Path to the template file (default "+config.DefaultFileName+")")
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
		ui.Errorf("Configuration: %v", err)
		return err
	}

	failures := 0

	mergeSpec, err := cfg.BuildSpec()
	if err != nil {
		ui.Errorf("Template: %v", err)
		failures++
	} else {
		ui.Successf("Template: %s → %s", mergeSpec.Source, mergeSpec.Destination)
	}

	// A checkout is optional; when present it resolves the repository and
	// refines the branch report below.
	gitClient, _ := git.Open(".")

	if cfg.Repository == "" && gitClient != nil {
		if owner, name, pathErr := gitClient.RemoteRepoPath(); pathErr == nil {
			cfg.Repository = owner + "/" + name
		}
	}
	if cfg.Repository == "" {
		ui.Error("Repository: not configured and no checkout found")
		return fmt.Errorf("repository is not configured")
	}
	ui.Successf("Repository: %s", cfg.Repository)

	if !cfg.HasToken() {
		ui.Error("Credential: GITHUB_TOKEN is not set")
		return fmt.Errorf("%w: GITHUB_TOKEN is not set", gh.ErrAuth)
	}

	owner, repo, err := cfg.SplitRepository()
	if err != nil {
		ui.Errorf("Repository: %v", err)
		return err
	}

	client := gh.NewClient(gh.ClientConfig{
		BaseURL: cfg.APIURL,
		Token:   cfg.Token,
		Owner:   owner,
		Repo:    repo,
	}, nil, log)

	login, err := client.CheckCredential(ctx)
	if err != nil {
		ui.Errorf("Credential: %v", err)
		return err
	}
	ui.Successf("Credential: authenticated as %s", login)

	for _, branch := range []string{cfg.Source, cfg.Destination} {
		exists, err := client.BranchExists(ctx, branch)
		if err != nil {
			ui.Errorf("Branch %s: %v", branch, err)
			return err
		}
		if !exists {
			if gitClient != nil && gitClient.BranchExists(branch) {
				ui.Errorf("Branch %s: in the local checkout but not on the platform; push it", branch)
			} else {
				ui.Errorf("Branch %s: not found", branch)
			}
			failures++
			continue
		}
		ui.Successf("Branch %s: exists", branch)
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}

	ui.Success("Ready to dispatch")
	return nil
}
