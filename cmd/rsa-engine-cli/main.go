// Package main is the entry point for the rsa-engine-cli application.
// It initializes the root command, registers the key material and RSA
// operation sub-commands, then executes the command-line interface.
package main

import (
	"fmt"
	"log"

	commands "rsa_engine_service/cmd/rsa-engine-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "rsa-engine-cli",
		Short: "RSA operations CLI tool",
		Long: `rsa-engine-cli is a command-line tool for RSA operations built on a
self-contained multi-precision arithmetic engine. Supports key pair
generation, PKCS#1 v1.5 signing and verification, encryption and
decryption, and key inspection.`,
	}

	if err := commands.InitKeyCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize key commands: %w", err)
	}
	if err := commands.InitCryptoCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize crypto commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}
