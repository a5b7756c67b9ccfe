package mcp

import (
	"github.com/ka2n/cloudapp/api"
	"github.com/spf13/cobra"
)

// Command returns the MCP server command. newService builds the drop service
// once the command runs, after flags are parsed.
func Command(newService func() (*api.Service, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Serve drop operations as Model Context Protocol tools over standard input and output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newService()
			if err != nil {
				return err
			}
			return NewServer(s).Run()
		},
	}
}
