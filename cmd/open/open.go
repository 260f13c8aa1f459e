package open

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sort"

	"github.com/spf13/cobra"

	"github.com/autopr/autopr/internal/config"
	"github.com/autopr/autopr/internal/gh"
	"github.com/autopr/autopr/internal/git"
	"github.com/autopr/autopr/internal/logger"
	"github.com/autopr/autopr/internal/ui"
)

// Command opens an automated PR in the browser
type Command struct {
	// Arguments
	Position string // Optional: "latest" to open the most recent PR

	// Flags
	ConfigPath string
	Verbose    bool
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "open [latest]",
		Short: "Open an automated PR in the browser",
		Long: `Open one of the automated pull requests in the browser.

Lists the open PRs carrying the configured label and presents a fuzzy finder
to pick one. If "latest" is provided, opens the most recently updated PR
without prompting.

Example:
  autopr open          # Select a PR interactively
  autopr open latest   # Open the most recent automated PR`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				if args[0] != "latest" {
					return fmt.Errorf("invalid argument %q: use 'latest' or no argument", args[0])
				}
				c.Position = args[0]
			}
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
		return err
	}

	if cfg.Repository == "" {
		gitClient, err := git.Open(".")
		if err != nil {
			return fmt.Errorf("cannot determine repository: %w", err)
		}
		owner, name, err := gitClient.RemoteRepoPath()
		if err != nil {
			return err
		}
		cfg.Repository = owner + "/" + name
	}

	if !cfg.HasToken() {
		return fmt.Errorf("%w: GITHUB_TOKEN is not set", gh.ErrAuth)
	}

	owner, repo, err := cfg.SplitRepository()
	if err != nil {
		return err
	}

	client := gh.NewClient(gh.ClientConfig{
		BaseURL: cfg.APIURL,
		Token:   cfg.Token,
		Owner:   owner,
		Repo:    repo,
	}, nil, log)

	label := ""
	if len(cfg.Labels) > 0 {
		label = cfg.Labels[0]
	}
	if label == "" {
		return fmt.Errorf("no label configured to identify automated PRs")
	}

	prs, err := client.ListPRsByLabel(ctx, label)
	if err != nil {
		return err
	}
	if len(prs) == 0 {
		return fmt.Errorf("no open PRs labeled %q in %s", label, cfg.Repository)
	}

	var selected *gh.PR
	if c.Position == "latest" {
		sort.Slice(prs, func(i, j int) bool {
			return prs[i].UpdatedAt.After(prs[j].UpdatedAt)
		})
		selected = &prs[0]
	} else {
		selected, err = ui.SelectPR(prs)
		if err != nil {
			return err
		}
		if selected == nil {
			// User cancelled
			return nil
		}
	}

	if err := openBrowser(selected.URL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	ui.Successf("Opening PR #%d: %s", selected.Number, selected.Title)
	return nil
}

// openBrowser launches the default browser for a URL.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
