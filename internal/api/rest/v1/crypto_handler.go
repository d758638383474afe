package v1

import (
	"crypto"
	"encoding/base64"
	"fmt"
	"net/http"

	"rsa_engine_service/internal/domain/cryptoalg"
	"rsa_engine_service/internal/domain/keys"

	"github.com/gin-gonic/gin"
)

// CryptoHandler defines the interface for signature operations over
// stored keys.
type CryptoHandler interface {
	Sign(ctx *gin.Context)
	Verify(ctx *gin.Context)
}

type cryptoHandler struct {
	algorithm          cryptoalg.SignatureAlgorithm
	keyDownloadService keys.KeyDownloadService
}

// NewCryptoHandler creates a new CryptoHandler signing with the given
// algorithm adapter.
func NewCryptoHandler(algorithm cryptoalg.SignatureAlgorithm, keyDownloadService keys.KeyDownloadService) CryptoHandler {
	return &cryptoHandler{
		algorithm:          algorithm,
		keyDownloadService: keyDownloadService,
	}
}

// Sign handles the POST request to sign a message with a stored key
// @Summary Sign a message
// @Description Sign a base64 message with the stored private key named by keyId.
// @Tags Crypto
// @Accept json
// @Produce json
// @Param requestBody body SignRequest true "Signing parameters"
// @Success 200 {object} SignResponse
// @Failure 400 {object} ErrorResponse
// @Router /sign [post]
func (handler *cryptoHandler) Sign(ctx *gin.Context) {
	var request SignRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("validation failed: %v", err)})
		return
	}

	message, err := base64.StdEncoding.DecodeString(request.Message)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid message encoding: %v", err)})
		return
	}

	privatePEM, err := handler.keyDownloadService.DownloadByID(ctx, request.KeyID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("key not found: %v", err)})
		return
	}

	signature, err := handler.algorithm.Sign(crypto.Hash(0), message, string(privatePEM))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("error signing: %v", err)})
		return
	}

	ctx.JSON(http.StatusOK, SignResponse{Signature: base64.StdEncoding.EncodeToString(signature)})
}

// Verify handles the POST request to verify a signature with a stored key
// @Summary Verify a signature
// @Description Verify a base64 signature over a base64 message with the stored public key named by keyId.
// @Tags Crypto
// @Accept json
// @Produce json
// @Param requestBody body VerifyRequest true "Verification parameters"
// @Success 200 {object} VerifyResponse
// @Failure 400 {object} ErrorResponse
// @Router /verify [post]
func (handler *cryptoHandler) Verify(ctx *gin.Context) {
	var request VerifyRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("validation failed: %v", err)})
		return
	}

	message, err := base64.StdEncoding.DecodeString(request.Message)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid message encoding: %v", err)})
		return
	}
	signature, err := base64.StdEncoding.DecodeString(request.Signature)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid signature encoding: %v", err)})
		return
	}

	publicPEM, err := handler.keyDownloadService.DownloadByID(ctx, request.KeyID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("key not found: %v", err)})
		return
	}

	valid, err := handler.algorithm.Verify(crypto.Hash(0), message, signature, string(publicPEM))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("error verifying: %v", err)})
		return
	}

	ctx.JSON(http.StatusOK, VerifyResponse{Valid: valid})
}
