package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	rab2html "github.com/alnah/go-rab2html"
	"github.com/alnah/go-rab2html/internal/fileutil"
	"github.com/alnah/go-rab2html/internal/site"
)

// convertFlags holds the flags of the convert command.
type convertFlags struct {
	output      string
	destination string
	encoding    string
}

// newConvertCmd creates the convert command.
func newConvertCmd(env *Environment, g *globalFlags) *cobra.Command {
	f := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert one deck into a rabbit-content container",
		Long: `Convert one .rab document and print its rabbit-content container.

Slide images are written under <destination>/rabbit-image/<digest>/, where
destination defaults to the configured site destination.`,
		Example: `  rab2html convert talk.rab
  rab2html convert talk.rab -o talk.html -d _site`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, env, g, f, args[0])
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the container to a file instead of stdout")
	cmd.Flags().StringVarP(&f.destination, "destination", "d", "", "site directory receiving slide images")
	cmd.Flags().StringVarP(&f.encoding, "encoding", "e", "", "source encoding (default UTF-8)")
	return cmd
}

func runConvert(cmd *cobra.Command, env *Environment, g *globalFlags, f *convertFlags, input string) error {
	if !site.IsDeck(input) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(input))
	}

	s, err := loadSettings(env, g)
	if err != nil {
		return err
	}
	destination := f.destination
	if destination == "" {
		destination = s.cfg.Destination
	}

	data, err := os.ReadFile(input) // #nosec G304 -- user-provided input path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	conv, closeConv, err := s.newConverter(cmd.Context(), env)
	if err != nil {
		return err
	}
	defer closeConv()

	container, err := conv.Convert(cmd.Context(), rab2html.Source{
		Text:     string(data),
		Encoding: f.encoding,
		Dir:      filepath.Dir(input),
	}, s.renderConfig(destination))
	if err != nil {
		return err
	}

	if f.output == "" {
		_, err := fmt.Fprint(env.Stdout, container)
		return err
	}
	if err := fileutil.WriteFile(f.output, []byte(container)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if !g.quiet {
		fmt.Fprintf(env.Stderr, "Wrote %s\n", f.output)
	}
	return nil
}
