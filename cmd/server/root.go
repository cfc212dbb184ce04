package main

import (
	"context"
	"fmt"
	"os"

	"github.com/iafnetworkspa/elsevier-mcp/internal/config"
	"github.com/iafnetworkspa/elsevier-mcp/internal/elsevier"
	"github.com/iafnetworkspa/elsevier-mcp/internal/mcp"
	"github.com/iafnetworkspa/elsevier-mcp/internal/tools"
	"github.com/iafnetworkspa/elsevier-mcp/pkg/version"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const serverName = "elsevier-mcp"

var (
	configFile string
	debug      bool
)

func init() {
	// windows only
	cobra.MousetrapHelpText = ""

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a JSON or YAML configuration file (environment variables ELSEVIER_* take precedence)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentPreRun = initLog
}

var rootCmd = &cobra.Command{
	Use:   serverName,
	Short: "MCP server for the Elsevier Scopus and SciVal APIs",
	Long: `elsevier-mcp exposes Scopus search, abstract retrieval, SciVal author
profiles and research trend analysis as MCP tools over stdio.`,
	Example:       `ELSEVIER_API_KEY=... elsevier-mcp`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	RunE: runStdio,
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runStdio(cmd *cobra.Command, args []string) error {
	server, _, err := newServer()
	if err != nil {
		return err
	}

	log.Info().Msg("Serving MCP over stdio")
	if err := server.Serve(cmd.Context(), os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("error running server: %w", err)
	}
	return nil
}

// newServer loads the configuration and wires the client, tool catalog and
// dispatcher together.
func newServer() (*mcp.Server, config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, cfg, fmt.Errorf("error loading configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel)

	client := elsevier.NewClient(cfg)
	registry := tools.NewCatalog(cfg, client)

	log.Info().
		Str("base_url", cfg.BaseURL).
		Bool("inst_token", cfg.HasInstToken()).
		Int("tools", registry.Len()).
		Str("version", version.Version).
		Msg("Server configured")

	return mcp.NewServer(registry, mcp.ServerInfo{
		Name:    serverName,
		Version: version.Version,
	}), cfg, nil
}
