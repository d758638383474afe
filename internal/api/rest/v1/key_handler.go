package v1

import (
	"fmt"
	"net/http"
	"time"

	"rsa_engine_service/internal/domain/keys"

	"github.com/gin-gonic/gin"
)

// KeyHandler defines the interface for handling key-related operations
type KeyHandler interface {
	GenerateKeys(ctx *gin.Context)
	ListMetadata(ctx *gin.Context)
	GetMetadataByID(ctx *gin.Context)
	DownloadByID(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
}

type keyHandler struct {
	keyGenerationService keys.KeyGenerationService
	keyMetadataService   keys.KeyMetadataService
	keyDownloadService   keys.KeyDownloadService
}

// NewKeyHandler creates a new KeyHandler
func NewKeyHandler(keyGenerationService keys.KeyGenerationService, keyMetadataService keys.KeyMetadataService, keyDownloadService keys.KeyDownloadService) KeyHandler {
	return &keyHandler{
		keyGenerationService: keyGenerationService,
		keyMetadataService:   keyMetadataService,
		keyDownloadService:   keyDownloadService,
	}
}

// GenerateKeys handles the POST request to generate and store a key pair
// @Summary Generate an RSA key pair
// @Description Generate an RSA key pair of the requested size and store both PEM halves.
// @Tags Key
// @Accept json
// @Produce json
// @Param requestBody body GenerateKeyRequest true "Key generation parameters"
// @Success 201 {array} KeyMetaResponse
// @Failure 400 {object} ErrorResponse
// @Router /keys [post]
func (handler *keyHandler) GenerateKeys(ctx *gin.Context) {
	var request GenerateKeyRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid key data: %v", err)})
		return
	}

	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("validation failed: %v", err)})
		return
	}

	keyMetas, err := handler.keyGenerationService.Generate(ctx, request.KeySize)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("error generating keys: %v", err)})
		return
	}

	listResponse := []KeyMetaResponse{}
	for _, keyMeta := range keyMetas {
		listResponse = append(listResponse, toKeyMetaResponse(keyMeta))
	}

	ctx.JSON(http.StatusCreated, listResponse)
}

// ListMetadata handles the GET request to list key metadata
// @Summary List key metadata based on query parameters
// @Description Fetch stored key metadata filtered by type and creation date, with pagination and sorting.
// @Tags Key
// @Accept json
// @Produce json
// @Param type query string false "Key Type"
// @Param dateTimeCreated query string false "Key Creation Date (RFC3339)"
// @Param limit query int false "Limit the number of results"
// @Param offset query int false "Offset the results"
// @Param sortBy query string false "Sort by a specific field"
// @Param sortOrder query string false "Sort order (asc/desc)"
// @Success 200 {array} KeyMetaResponse
// @Failure 400 {object} ErrorResponse
// @Router /keys [get]
func (handler *keyHandler) ListMetadata(ctx *gin.Context) {
	query := keys.NewKeyQuery()

	if keyType := ctx.Query("type"); len(keyType) > 0 {
		query.Type = keyType
	}

	if dateTimeCreated := ctx.Query("dateTimeCreated"); len(dateTimeCreated) > 0 {
		parsedTime, err := time.Parse(time.RFC3339, dateTimeCreated)
		if err == nil {
			query.DateTimeCreated = parsedTime
		}
	}

	if limit := ctx.Query("limit"); len(limit) > 0 {
		fmt.Sscanf(limit, "%d", &query.Limit)
	}
	if offset := ctx.Query("offset"); len(offset) > 0 {
		fmt.Sscanf(offset, "%d", &query.Offset)
	}
	if sortBy := ctx.Query("sortBy"); len(sortBy) > 0 {
		query.SortBy = sortBy
	}
	if sortOrder := ctx.Query("sortOrder"); len(sortOrder) > 0 {
		query.SortOrder = sortOrder
	}

	keyMetas, err := handler.keyMetadataService.List(ctx, query)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("error listing keys: %v", err)})
		return
	}

	listResponse := []KeyMetaResponse{}
	for _, keyMeta := range keyMetas {
		listResponse = append(listResponse, toKeyMetaResponse(keyMeta))
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// GetMetadataByID handles the GET request to fetch one key's metadata
// @Summary Get key metadata by ID
// @Tags Key
// @Produce json
// @Param id path string true "Key ID"
// @Success 200 {object} KeyMetaResponse
// @Failure 404 {object} ErrorResponse
// @Router /keys/{id} [get]
func (handler *keyHandler) GetMetadataByID(ctx *gin.Context) {
	keyID := ctx.Param("id")

	keyMeta, err := handler.keyMetadataService.GetByID(ctx, keyID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("key not found: %v", err)})
		return
	}

	ctx.JSON(http.StatusOK, toKeyMetaResponse(keyMeta))
}

// DownloadByID handles the GET request to download a stored key PEM
// @Summary Download a stored key
// @Tags Key
// @Produce application/x-pem-file
// @Param id path string true "Key ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /keys/{id}/file [get]
func (handler *keyHandler) DownloadByID(ctx *gin.Context) {
	keyID := ctx.Param("id")

	pemBytes, err := handler.keyDownloadService.DownloadByID(ctx, keyID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("key not found: %v", err)})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pem", keyID))
	ctx.Data(http.StatusOK, "application/x-pem-file", pemBytes)
}

// DeleteByID handles the DELETE request to remove a stored key
// @Summary Delete a stored key
// @Tags Key
// @Param id path string true "Key ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /keys/{id} [delete]
func (handler *keyHandler) DeleteByID(ctx *gin.Context) {
	keyID := ctx.Param("id")

	if err := handler.keyMetadataService.DeleteByID(ctx, keyID); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("error deleting key: %v", err)})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func toKeyMetaResponse(keyMeta *keys.KeyMeta) KeyMetaResponse {
	return KeyMetaResponse{
		ID:              keyMeta.ID,
		KeyPairID:       keyMeta.KeyPairID,
		Type:            keyMeta.Type,
		Algorithm:       keyMeta.Algorithm,
		KeySize:         keyMeta.KeySize,
		DateTimeCreated: keyMeta.DateTimeCreated,
	}
}
