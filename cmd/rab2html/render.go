package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	rab2html "github.com/alnah/go-rab2html"
	"github.com/alnah/go-rab2html/internal/rabbit"
)

// newRenderCmd creates the render command, which runs the slide renderer
// directly with its file saver.
func newRenderCmd(env *Environment, g *globalFlags) *cobra.Command {
	var outputDir, encoding string

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a deck into standalone slide pages",
		Long: `Render one .rab document into OUTPUT_DIR: one PNG image and one HTML
page per slide, plus slideindex.html linking them. No container is built
and no commentary is extracted.`,
		Example: `  rab2html render talk.rab -o out/`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir == "" {
				return fmt.Errorf("%w: --output is required", rabbit.ErrUsage)
			}
			s, err := loadSettings(env, g)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outputDir, 0o750); err != nil {
				return fmt.Errorf("%w: %v", ErrWriteOutput, err)
			}

			rasterizer := env.Rasterizer
			if rasterizer == nil {
				pool := rab2html.NewRasterizerPool(rab2html.ResolvePoolSize(min(s.cfg.Workers, rab2html.MaxPoolSize)), s.rasterTimeout())
				defer func() { _ = pool.Close() }()
				rasterizer = pool
			}

			renderArgs := []string{
				"-s",
				"-S", strconv.Itoa(s.cfg.Rabbit.Width) + "," + strconv.Itoa(s.cfg.Rabbit.Height),
				"-b", filepath.Join(outputDir, "slide"),
				"--output-html",
				"--log-level", s.cfg.LogLevel,
				"--base-dir", filepath.Dir(args[0]),
			}
			if encoding != "" {
				renderArgs = append(renderArgs, "-e", encoding)
			}
			renderArgs = append(renderArgs, "-T", rabbit.SourceFile, "--", args[0])

			return rabbit.Run(cmd.Context(), &rabbit.Env{
				Rasterizer: rasterizer,
				Stderr:     env.Stderr,
			}, renderArgs...)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (required)")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "", "source encoding (default UTF-8)")
	return cmd
}
