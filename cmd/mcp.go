package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/unfocus/internal/adapters/mcp"
	"github.com/xvierd/unfocus/internal/services"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server communicates over stdio. It exposes the timer state, session and
break transitions, settings and break history, and keeps time while it runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return errors.New("MCP server is disabled (set mcp.enabled = true in the config file)")
		}

		ctx, cancel := context.WithCancel(setupSignalHandler(cmd.Context()))
		defer cancel()
		app.logger.Info("starting MCP server", "transport", "stdio")

		// Create and start the MCP server
		server := mcp.NewServer(app.controller, app.controller)

		scheduler := services.NewScheduler(app.controller)
		scheduler.SetInterval(app.config.TickInterval())
		go func() {
			_ = scheduler.Run(ctx)
		}()
		defer func() { _ = server.Stop() }()

		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}
