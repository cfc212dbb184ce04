package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(httpCmd)
	httpCmd.Flags().StringVarP(&httpAddr, "addr", "a", "", "listen address (default from http_addr, 127.0.0.1:8080)")
}

var httpAddr string

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Serve MCP over HTTP (POST /mcp)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, cfg, err := newServer()
		if err != nil {
			return err
		}

		addr := httpAddr
		if addr == "" {
			addr = cfg.HTTPAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := server.ListenAndServe(ctx, addr); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	},
}
