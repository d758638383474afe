package commands

import (
	"crypto"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"rsa_engine_service/internal/domain/keys"
	"rsa_engine_service/internal/infrastructure/cryptography"
	"rsa_engine_service/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// CryptoCommandHandler encapsulates logic for RSA operations via CLI.
type CryptoCommandHandler struct {
	logger logger.Logger
}

// NewCryptoCommandHandler initializes a new CryptoCommandHandler with logging.
func NewCryptoCommandHandler() (*CryptoCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &CryptoCommandHandler{logger: loggerInstance.WithComponent("cli")}, nil
}

// engineWithKey loads a PEM key file into a fresh engine.
func (commandHandler *CryptoCommandHandler) engineWithKey(keyPath string, private bool) (keys.RSAEngine, error) {
	pemData, err := os.ReadFile(filepath.Clean(keyPath))
	if err != nil {
		return nil, fmt.Errorf("unable to read key file: %w", err)
	}
	engine, err := cryptography.NewRSAEngine(commandHandler.logger)
	if err != nil {
		return nil, err
	}
	if private {
		err = engine.LoadPrivateKeyPEM(string(pemData))
	} else {
		err = engine.LoadPublicKeyPEM(string(pemData))
	}
	if err != nil {
		if closeErr := engine.Close(); closeErr != nil {
			commandHandler.logger.Error("engine teardown: ", closeErr)
		}
		return nil, err
	}
	return engine, nil
}

func (commandHandler *CryptoCommandHandler) closeEngine(engine keys.RSAEngine) {
	if err := engine.Close(); err != nil {
		commandHandler.logger.Error("engine teardown: ", err)
	}
}

// EncryptCmd encrypts a file using RSA
func (commandHandler *CryptoCommandHandler) EncryptCmd(cmd *cobra.Command, _ []string) {
	inputFile, err := cmd.Flags().GetString("input-file")
	if err != nil {
		commandHandler.logger.Error("invalid input-file flag: ", err)
		return
	}
	outputFile, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag: ", err)
		return
	}
	publicKeyPath, err := cmd.Flags().GetString("public-key")
	if err != nil {
		commandHandler.logger.Error("invalid public-key flag: ", err)
		return
	}

	engine, err := commandHandler.engineWithKey(publicKeyPath, false)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer commandHandler.closeEngine(engine)

	plainText, err := os.ReadFile(filepath.Clean(inputFile))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	// RSA can only carry modulus-size minus padding per block; larger
	// files are split into chunks
	maxChunk := engine.ModulusLen() - 11
	var encryptedData []byte
	for len(plainText) > 0 {
		chunkSize := maxChunk
		if len(plainText) < chunkSize {
			chunkSize = len(plainText)
		}
		encryptedChunk, err := engine.Encrypt(plainText[:chunkSize])
		if err != nil {
			commandHandler.logger.Error(err)
			return
		}
		encryptedData = append(encryptedData, encryptedChunk...)
		plainText = plainText[chunkSize:]
	}

	if err := os.WriteFile(outputFile, encryptedData, 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.logger.Info("Encrypted data path ", outputFile)
}

// DecryptCmd decrypts a file using RSA
func (commandHandler *CryptoCommandHandler) DecryptCmd(cmd *cobra.Command, _ []string) {
	inputFile, err := cmd.Flags().GetString("input-file")
	if err != nil {
		commandHandler.logger.Error("invalid input-file flag: ", err)
		return
	}
	outputFile, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag: ", err)
		return
	}
	privateKeyPath, err := cmd.Flags().GetString("private-key")
	if err != nil {
		commandHandler.logger.Error("invalid private-key flag: ", err)
		return
	}

	engine, err := commandHandler.engineWithKey(privateKeyPath, true)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer commandHandler.closeEngine(engine)

	encryptedData, err := os.ReadFile(filepath.Clean(inputFile))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	chunkSize := engine.ModulusLen()
	var decryptedData []byte
	for len(encryptedData) > 0 {
		if len(encryptedData) < chunkSize {
			commandHandler.logger.Error("truncated ciphertext")
			return
		}
		decryptedChunk, err := engine.Decrypt(encryptedData[:chunkSize])
		if err != nil {
			commandHandler.logger.Error(err)
			return
		}
		decryptedData = append(decryptedData, decryptedChunk...)
		encryptedData = encryptedData[chunkSize:]
	}

	if err := os.WriteFile(outputFile, decryptedData, 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.logger.Info("Decrypted data path ", outputFile)
}

// SignCmd signs a file using RSA and saves the signature
func (commandHandler *CryptoCommandHandler) SignCmd(cmd *cobra.Command, _ []string) {
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		commandHandler.logger.Error("invalid input-file flag: ", err)
		return
	}
	signatureFilePath, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag: ", err)
		return
	}
	privateKeyPath, err := cmd.Flags().GetString("private-key")
	if err != nil {
		commandHandler.logger.Error("invalid private-key flag: ", err)
		return
	}

	engine, err := commandHandler.engineWithKey(privateKeyPath, true)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer commandHandler.closeEngine(engine)

	data, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	digest := sha256.Sum256(data)
	signature, err := engine.Sign(digest[:], crypto.SHA256)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	if err := os.WriteFile(signatureFilePath, signature, 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.logger.Info("Signature saved at ", signatureFilePath)
}

// VerifyCmd verifies a signature using RSA
func (commandHandler *CryptoCommandHandler) VerifyCmd(cmd *cobra.Command, _ []string) {
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		commandHandler.logger.Error("invalid input-file flag: ", err)
		return
	}
	signatureFilePath, err := cmd.Flags().GetString("signature-file")
	if err != nil {
		commandHandler.logger.Error("invalid signature-file flag: ", err)
		return
	}
	publicKeyPath, err := cmd.Flags().GetString("public-key")
	if err != nil {
		commandHandler.logger.Error("invalid public-key flag: ", err)
		return
	}

	engine, err := commandHandler.engineWithKey(publicKeyPath, false)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer commandHandler.closeEngine(engine)

	data, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	signature, err := os.ReadFile(filepath.Clean(signatureFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	recovered, oid, err := engine.Verify(signature)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	digest := sha256.Sum256(data)
	if oid == "2.16.840.1.101.3.4.2.1" && len(recovered) == len(digest) && string(recovered) == string(digest[:]) {
		commandHandler.logger.Info("Signature is valid")
	} else {
		commandHandler.logger.Error("Signature is invalid")
	}
}

// InitCryptoCommands registers RSA operation commands
func InitCryptoCommands(rootCmd *cobra.Command) error {
	handler, err := NewCryptoCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create crypto command handler %w", err)
	}

	var encryptFileCmd = &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a file using RSA",
		Run:   handler.EncryptCmd,
	}
	encryptFileCmd.Flags().StringP("input-file", "", "", "Path to input file which needs to be encrypted")
	encryptFileCmd.Flags().StringP("output-file", "", "", "Path to encrypted output file")
	encryptFileCmd.Flags().StringP("public-key", "", "", "Path to RSA public key")
	rootCmd.AddCommand(encryptFileCmd)

	var decryptFileCmd = &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a file using RSA",
		Run:   handler.DecryptCmd,
	}
	decryptFileCmd.Flags().StringP("input-file", "", "", "Path to encrypted file")
	decryptFileCmd.Flags().StringP("output-file", "", "", "Path to decrypted output file")
	decryptFileCmd.Flags().StringP("private-key", "", "", "Path to RSA private key")
	rootCmd.AddCommand(decryptFileCmd)

	var signFileCmd = &cobra.Command{
		Use:   "sign",
		Short: "Sign a file using RSA",
		Run:   handler.SignCmd,
	}
	signFileCmd.Flags().StringP("input-file", "", "", "Path to file which needs to be signed")
	signFileCmd.Flags().StringP("output-file", "", "", "Path to signature output file")
	signFileCmd.Flags().StringP("private-key", "", "", "Path to RSA private key")
	rootCmd.AddCommand(signFileCmd)

	var verifyFileCmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify a file signature using RSA",
		Run:   handler.VerifyCmd,
	}
	verifyFileCmd.Flags().StringP("input-file", "", "", "Path to signed file")
	verifyFileCmd.Flags().StringP("signature-file", "", "", "Path to signature file")
	verifyFileCmd.Flags().StringP("public-key", "", "", "Path to RSA public key")
	rootCmd.AddCommand(verifyFileCmd)

	return nil
}
