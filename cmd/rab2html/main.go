// Package main provides the entry point for the rab2html CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

// Build info set via ldflags at build time.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	os.Exit(run(os.Args[1:], DefaultEnv()))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd := newRootCmd(env)
	cmd.SetArgs(args)
	err := fang.Execute(ctx, cmd,
		fang.WithVersion(buildVersion()),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			printError(w, err)
		}),
	)
	return exitCodeFor(err)
}

// newRootCmd creates the root command for the rab2html CLI.
func newRootCmd(env *Environment) *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "rab2html",
		Short: "Render Rabbit slide decks into static sites",
		Long: `rab2html renders Rabbit slide documents (.rab) into slide images and an
HTML deck, packaged as a rabbit-content container that pages can embed.

It builds whole sites (convert every deck, copy other files, sweep stale
output), converts single decks, extracts slides and title links from
generated pages, and serves the same operations over MCP.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
			// in which case Go runtime defaults apply and the program continues safely.
			logf := func(string, ...interface{}) {}
			if g.verbose {
				logf = func(format string, args ...interface{}) {
					fmt.Fprintf(env.Stderr, format+"\n", args...)
				}
			}
			_, _ = maxprocs.Set(maxprocs.Logger(logf))
			return g.validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	g.register(cmd)

	lipgloss.SetHasDarkBackground(true)

	cmd.AddGroup(&cobra.Group{ID: "site", Title: "Site Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "deck", Title: "Deck Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})

	addGroupedCommand(cmd, newBuildCmd(env, g), "site")
	addGroupedCommand(cmd, newConvertCmd(env, g), "deck")
	addGroupedCommand(cmd, newExtractCmd(env), "deck")
	addGroupedCommand(cmd, newRenderCmd(env, g), "deck")
	addGroupedCommand(cmd, newServeCmd(env, g), "admin")
	addGroupedCommand(cmd, newDoctorCmd(env, g), "admin")
	addGroupedCommand(cmd, newVersionCmd(env), "admin")

	return cmd
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}

// newVersionCmd prints the build version.
func newVersionCmd(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rab2html version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintf(env.Stdout, "rab2html %s\n", buildVersion())
			return nil
		},
	}
}
