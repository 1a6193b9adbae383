package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	rabmcp "github.com/alnah/go-rab2html/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd(env *Environment, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run rab2html as a Model Context Protocol (MCP) server over stdio.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "rab2html": {
        "command": "rab2html",
        "args": ["serve"]
      }
    }
  }

Available tools: convert_deck, extract_slide, title_slide`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(env, g)
			if err != nil {
				return err
			}
			conv, closeConv, err := s.newConverter(cmd.Context(), env)
			if err != nil {
				return err
			}
			defer closeConv()

			server := rabmcp.NewServer(buildVersion(), conv)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
