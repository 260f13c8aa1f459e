package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/autopr/autopr/cmd/check"
	"github.com/autopr/autopr/cmd/dispatch"
	"github.com/autopr/autopr/cmd/open"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "autopr",
	Short: "Tag-triggered merge-PR dispatcher",
	Long: `Autopr opens an automated pull request merging one branch into another.

It is meant to run from a CI job on a tag-push event: the dispatch command
reads a small template (source branch, destination branch, title, body,
assignees, labels) and asks the hosting platform to open the merge PR.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
}

func init() {
	// Register all commands
	commands := []Command{
		&dispatch.Command{},
		&check.Command{},
		&open.Command{},
	}

	for _, cmd := range commands {
		cmd.Register(rootCmd)
	}
}
