package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	rab2html "github.com/alnah/go-rab2html"
)

// newExtractCmd creates the extract command and its subcommands.
func newExtractCmd(env *Environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract parts of generated deck pages",
		Long: `Extract parts of the first rabbit-content container of a page.

Input that holds no container is printed unchanged.`,
	}
	cmd.AddCommand(newExtractSlideCmd(env), newExtractTitleCmd(env))
	return cmd
}

func newExtractSlideCmd(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "slide [FILE]",
		Short: "Print the slide HTML of a page",
		Example: `  rab2html extract slide _site/talk.html
  rab2html convert talk.rab | rab2html extract slide`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			text, err := readInput(env, args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(env.Stdout, rab2html.SlideOnly(text))
			return err
		},
	}
}

func newExtractTitleCmd(env *Environment) *cobra.Command {
	var url string
	var textLink bool

	cmd := &cobra.Command{
		Use:   "title [FILE]",
		Short: "Print a title-slide image link of a page",
		Example: `  rab2html extract title _site/talk.html --url /talk.html
  rab2html extract title _site/talk.html --url /talk.html --text-link`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			text, err := readInput(env, args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(env.Stdout, rab2html.TitleSlideLink(text, url, textLink))
			return err
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "link target, usually the deck page URL")
	cmd.Flags().BoolVar(&textLink, "text-link", false, "append a text link carrying the deck title")
	return cmd
}

// readInput reads the named file, or stdin without arguments or with "-".
func readInput(env *Environment, args []string) (string, error) {
	var data []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(env.Stdin)
	} else {
		data, err = os.ReadFile(args[0]) // #nosec G304 -- user-provided input path
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return string(data), nil
}
