package commands

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rsa_engine_service/internal/infrastructure/cryptography"
	"rsa_engine_service/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// KeyCommandHandler encapsulates logic for key material operations via CLI.
type KeyCommandHandler struct {
	logger logger.Logger
}

// NewKeyCommandHandler initializes a new KeyCommandHandler with logging.
func NewKeyCommandHandler() (*KeyCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &KeyCommandHandler{logger: loggerInstance.WithComponent("cli")}, nil
}

// GenerateKeysCmd generates an RSA key pair and persists it in a selected directory
func (commandHandler *KeyCommandHandler) GenerateKeysCmd(cmd *cobra.Command, _ []string) {
	keySize, err := cmd.Flags().GetInt("key-size")
	if err != nil {
		commandHandler.logger.Error("invalid key-size flag: ", err)
		return
	}
	keyDir, err := cmd.Flags().GetString("key-dir")
	if err != nil {
		commandHandler.logger.Error("invalid key-dir flag: ", err)
		return
	}
	timeoutSeconds, err := cmd.Flags().GetInt("timeout-seconds")
	if err != nil {
		commandHandler.logger.Error("invalid timeout-seconds flag: ", err)
		return
	}

	engine, err := cryptography.NewRSAEngine(commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() {
		if err := engine.Close(); err != nil {
			commandHandler.logger.Error("engine teardown: ", err)
		}
	}()

	if err := engine.GenerateKeys(keySize, time.Duration(timeoutSeconds)*time.Second); err != nil {
		commandHandler.logger.Error(err)
		return
	}

	uniqueID := uuid.New()

	privatePEM, err := engine.SavePrivateKeyPEM()
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	privateKeyFilePath := fmt.Sprintf("%s/%s-private-key.pem", keyDir, uniqueID.String())
	if err := os.WriteFile(privateKeyFilePath, []byte(privatePEM), 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}

	publicPEM, err := engine.SavePublicKeyPEM()
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	publicKeyFilePath := fmt.Sprintf("%s/%s-public-key.pem", keyDir, uniqueID.String())
	if err := os.WriteFile(publicKeyFilePath, []byte(publicPEM), 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.logger.Info("Saved key pair under ", keyDir)
}

// InspectKeyCmd prints the modulus size and components of a PEM key file
func (commandHandler *KeyCommandHandler) InspectKeyCmd(cmd *cobra.Command, _ []string) {
	keyFile, err := cmd.Flags().GetString("key-file")
	if err != nil {
		commandHandler.logger.Error("invalid key-file flag: ", err)
		return
	}

	pemData, err := os.ReadFile(filepath.Clean(keyFile))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	engine, err := cryptography.NewRSAEngine(commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() {
		if err := engine.Close(); err != nil {
			commandHandler.logger.Error("engine teardown: ", err)
		}
	}()

	if err := engine.LoadPrivateKeyPEM(string(pemData)); err == nil {
		commandHandler.logger.Info("Private key, modulus bits: ", engine.ModulusBits())
	} else if err := engine.LoadPublicKeyPEM(string(pemData)); err == nil {
		commandHandler.logger.Info("Public key, modulus bits: ", engine.ModulusBits())
	} else {
		commandHandler.logger.Error("file holds neither a private nor a public RSA key")
		return
	}

	rec, err := engine.SavePublicKeyRecord()
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Modulus: ", hex.EncodeToString(rec.Modulus))
	commandHandler.logger.Info("Exponent: ", hex.EncodeToString(rec.Exponent))
}

// InitKeyCommands registers key material commands
func InitKeyCommands(rootCmd *cobra.Command) error {
	handler, err := NewKeyCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create key command handler %w", err)
	}

	var generateKeysCmd = &cobra.Command{
		Use:   "generate-keys",
		Short: "Generate an RSA key pair",
		Run:   handler.GenerateKeysCmd,
	}
	generateKeysCmd.Flags().IntP("key-size", "", 2048, "RSA modulus size in bits")
	generateKeysCmd.Flags().StringP("key-dir", "", "", "Directory to store the RSA keys")
	generateKeysCmd.Flags().IntP("timeout-seconds", "", 60, "Prime search deadline in seconds")
	rootCmd.AddCommand(generateKeysCmd)

	var inspectKeyCmd = &cobra.Command{
		Use:   "inspect-key",
		Short: "Print the components of a PEM key file",
		Run:   handler.InspectKeyCmd,
	}
	inspectKeyCmd.Flags().StringP("key-file", "", "", "Path to PEM key file")
	rootCmd.AddCommand(inspectKeyCmd)

	return nil
}
