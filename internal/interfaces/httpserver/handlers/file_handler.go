package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"whistlenet/services/report-api/internal/config"
	"whistlenet/services/report-api/internal/domain/attachment"
	"whistlenet/services/report-api/internal/interfaces/httpserver/responses"
	"whistlenet/services/report-api/internal/utils/platformerrors"
)

// FileHandler exposes standalone attachment endpoints. Reports and messages
// reference uploaded files by the att_* keys returned here.
type FileHandler struct {
	cfg     *config.Config
	service *attachment.Service
	log     zerolog.Logger
}

func NewFileHandler(cfg *config.Config, service *attachment.Service, log zerolog.Logger) *FileHandler {
	return &FileHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "file-handler").Logger(),
	}
}

// Upload accepts a single multipart file and stores it.
func (h *FileHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		platformerrors.WriteValidationError(c, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadBytes+1))
	if err != nil {
		platformerrors.WriteValidationError(c, "failed to read file")
		return
	}

	obj, err := h.service.Upload(c.Request.Context(), header.Filename, data)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusCreated, responses.UploadResponse{
		Key:      obj.Key,
		Filename: obj.Filename,
		Mime:     obj.MimeType,
		Bytes:    obj.Bytes,
	})
}

// PresignURL returns a temporary download URL for a stored attachment.
func (h *FileHandler) PresignURL(c *gin.Context) {
	key := c.Param("key")

	url, err := h.service.PresignURL(c.Request.Context(), key)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.PresignResponse{
		Key:       key,
		URL:       url,
		ExpiresIn: int(h.cfg.S3PresignTTL.Seconds()),
	})
}

// Download streams the attachment bytes through the API.
func (h *FileHandler) Download(c *gin.Context) {
	key := c.Param("key")

	reader, mime, err := h.service.Download(c.Request.Context(), key)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	defer reader.Close()

	if mime == "" {
		mime = "application/octet-stream"
	}

	c.Header("Content-Type", mime)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("stream error")
	}
}
