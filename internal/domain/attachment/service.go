package attachment

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"whistlenet/services/report-api/internal/config"
	"whistlenet/services/report-api/internal/infrastructure/metrics"
	"whistlenet/services/report-api/internal/utils/attachmentid"
	"whistlenet/services/report-api/internal/utils/platformerrors"
)

// Storage abstracts the blob backend attachments are written to.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

// Object describes a stored attachment.
type Object struct {
	Key      string `json:"key"`
	Filename string `json:"filename"`
	MimeType string `json:"mime"`
	Bytes    int64  `json:"bytes"`
}

// Service stores report attachments and mints time-limited download URLs.
// Attachments are referenced from reports and messages by their att_* keys.
type Service struct {
	cfg     *config.Config
	storage Storage
	log     zerolog.Logger
}

func NewService(cfg *config.Config, storage Storage, log zerolog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		storage: storage,
		log:     log.With().Str("component", "attachment-service").Logger(),
	}
}

// Upload stores a single attachment and returns its generated key. Content
// type is sniffed from the bytes, never trusted from the client.
func (s *Service) Upload(ctx context.Context, filename string, data []byte) (*Object, error) {
	if len(data) == 0 {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"attachment is empty",
			nil,
			"3e4f5a6b-7c8d-4e9f-a0b1-2c3d4e5f6a7b",
		)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("attachment exceeds the %d byte limit", s.cfg.MaxUploadBytes),
			nil,
			"5a6b7c8d-9e0f-4a1b-b2c3-4d5e6f7a8b9c",
		)
	}

	mime := mimetype.Detect(data)
	key := attachmentid.New()

	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), mime.String()); err != nil {
		metrics.AttachmentUploadsTotal.WithLabelValues(mime.String(), "error").Inc()
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal,
			"failed to store attachment",
			err,
			"7c8d9e0f-1a2b-4c3d-8e4f-5a6b7c8d9e0f",
		)
	}

	metrics.AttachmentUploadsTotal.WithLabelValues(mime.String(), "ok").Inc()
	s.log.Info().Str("key", key).Str("mime", mime.String()).Int("bytes", len(data)).Msg("attachment stored")
	return &Object{
		Key:      key,
		Filename: filename,
		MimeType: mime.String(),
		Bytes:    int64(len(data)),
	}, nil
}

// PresignURL returns a temporary download URL for a stored attachment.
func (s *Service) PresignURL(ctx context.Context, key string) (string, error) {
	if !attachmentid.IsValid(key) {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"invalid attachment key: "+key,
			nil,
			"9e0f1a2b-3c4d-4e5f-a6b7-8c9d0e1f2a3b",
		)
	}
	url, err := s.storage.PresignDownload(ctx, key)
	if err != nil {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal,
			"failed to presign attachment url",
			err,
			"1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d",
		)
	}
	return url, nil
}

// Download streams a stored attachment.
func (s *Service) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if !attachmentid.IsValid(key) {
		return nil, "", platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"invalid attachment key: "+key,
			nil,
			"2b3c4d5e-6f7a-4b8c-9d0e-1f2a3b4c5d6f",
		)
	}
	return s.storage.Download(ctx, key)
}
