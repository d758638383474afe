package v1

import (
	"rsa_engine_service/internal/domain/cryptoalg"
	"rsa_engine_service/internal/domain/keys"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	keyGenerationService keys.KeyGenerationService,
	keyMetadataService keys.KeyMetadataService,
	keyDownloadService keys.KeyDownloadService,
	signatureAlgorithm cryptoalg.SignatureAlgorithm) {

	v1 := r.Group(BasePath) // lookup in version file

	// Keys Routes
	keyHandler := NewKeyHandler(keyGenerationService, keyMetadataService, keyDownloadService)
	v1.POST("/keys", keyHandler.GenerateKeys)
	v1.GET("/keys", keyHandler.ListMetadata)
	v1.GET("/keys/:id", keyHandler.GetMetadataByID)
	v1.GET("/keys/:id/file", keyHandler.DownloadByID)
	v1.DELETE("/keys/:id", keyHandler.DeleteByID)

	// Crypto Routes
	cryptoHandler := NewCryptoHandler(signatureAlgorithm, keyDownloadService)
	v1.POST("/sign", cryptoHandler.Sign)
	v1.POST("/verify", cryptoHandler.Verify)
}
