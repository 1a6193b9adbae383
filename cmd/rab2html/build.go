package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/go-rab2html/internal/site"
)

// newBuildCmd creates the build command.
func newBuildCmd(env *Environment, g *globalFlags) *cobra.Command {
	var source, destination string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the site",
		Long: `Build the site from the source directory into the destination.

Every .rab document becomes a .html page holding its rabbit-content
container, with slide images under <destination>/rabbit-image/<digest>/.
Other files are copied as they are. Files in the destination that the
build did not produce are removed, except slide images still in use and
paths listed in keep_files.`,
		Example: `  rab2html build
  rab2html build -s talks -d public
  rab2html build -c work --workers 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(env, g)
			if err != nil {
				return err
			}
			if source != "" {
				s.cfg.Source = source
			}
			if destination != "" {
				s.cfg.Destination = destination
			}

			conv, closeConv, err := s.newConverter(cmd.Context(), env)
			if err != nil {
				return err
			}
			defer closeConv()

			b, err := site.NewBuilder(conv, site.Options{
				Source:      s.cfg.Source,
				Destination: s.cfg.Destination,
				Exclude:     s.cfg.Exclude,
				KeepFiles:   s.cfg.KeepFiles,
				Workers:     s.cfg.Workers,
				Render:      s.renderConfig(""),
				Logger:      s.logger,
			})
			if err != nil {
				return err
			}

			report, err := b.Build(cmd.Context())
			if err != nil {
				return err
			}
			if !g.quiet {
				fmt.Fprintf(env.Stdout, "Built %s: %d deck(s), %d file(s) copied, %d removed in %s\n",
					s.cfg.Destination, len(report.Converted), len(report.Copied), len(report.Removed),
					report.Duration.Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "source directory (default from config, \".\")")
	cmd.Flags().StringVarP(&destination, "destination", "d", "", "destination directory (default from config, \"_site\")")
	return cmd
}
