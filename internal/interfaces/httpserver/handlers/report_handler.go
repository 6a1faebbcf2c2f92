package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"whistlenet/services/report-api/internal/config"
	"whistlenet/services/report-api/internal/domain/attachment"
	"whistlenet/services/report-api/internal/domain/report"
	"whistlenet/services/report-api/internal/interfaces/httpserver/requests"
	"whistlenet/services/report-api/internal/interfaces/httpserver/responses"
	"whistlenet/services/report-api/internal/utils/platformerrors"
)

// ReportHandler exposes the report and conversation endpoints.
type ReportHandler struct {
	cfg         *config.Config
	service     *report.Service
	attachments *attachment.Service
	log         zerolog.Logger
}

func NewReportHandler(cfg *config.Config, service *report.Service, attachments *attachment.Service, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		cfg:         cfg,
		service:     service,
		attachments: attachments,
		log:         log.With().Str("component", "report-handler").Logger(),
	}
}

// Create files a new anonymous report. Accepts either a JSON body with
// pre-uploaded att_* keys, or a multipart form whose files are uploaded
// inline and merged with any keys passed alongside.
func (h *ReportHandler) Create(c *gin.Context) {
	var params report.CreateParams
	var uploaded []string

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			platformerrors.WriteValidationError(c, "invalid multipart form")
			return
		}
		params.TenantID = formValue(form, "tenantId")
		params.Subject = formValue(form, "subject")
		params.Message = formValue(form, "message")
		params.Attachments = form.Value["attachments"]

		keys, err := h.uploadFiles(c, form.File["files"])
		if err != nil {
			platformerrors.WriteError(c, err, h.log)
			return
		}
		uploaded = keys
		params.Attachments = append(params.Attachments, keys...)
	} else {
		var req requests.CreateReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			platformerrors.WriteValidationError(c, err.Error())
			return
		}
		params = report.CreateParams{
			TenantID:    req.TenantID,
			Subject:     req.Subject,
			Message:     req.Message,
			Attachments: req.Attachments,
		}
	}

	r, err := h.service.Create(c.Request.Context(), params)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusCreated, responses.CreateReportResponse{
		ReportID:   r.ReportID,
		SecretKey:  r.SecretKey,
		Status:     r.Status.String(),
		DeadlineAt: r.DeadlineAt.Format(time.RFC3339),
		Uploaded:   uploaded,
	})
}

// ListForTenant returns the staff overview of all reports for a tenant. The
// secret key is stripped; it belongs to the reporter alone.
func (h *ReportHandler) ListForTenant(c *gin.Context) {
	tenantID := c.Param("tenantId")

	reports, err := h.service.ListForTenant(c.Request.Context(), tenantID)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	for _, r := range reports {
		r.SecretKey = ""
	}
	c.JSON(http.StatusOK, responses.ReportListResponse{
		Reports: reports,
		Count:   len(reports),
	})
}

// GetConversation is the staff view of a single report thread. The first
// view of a NEW report acknowledges receipt.
func (h *ReportHandler) GetConversation(c *gin.Context) {
	tenantID := c.Param("tenantId")
	reportID := c.Param("reportId")

	conv, err := h.service.GetReportWithConversation(c.Request.Context(), tenantID, reportID)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	conv.Report.SecretKey = ""
	c.JSON(http.StatusOK, conv)
}

// GetBySecretKey is the reporter view of their conversation.
func (h *ReportHandler) GetBySecretKey(c *gin.Context) {
	secretKey := c.Param("secretKey")

	conv, err := h.service.GetConversationBySecretKey(c.Request.Context(), secretKey)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, conv)
}

// AddMessage appends a follow-up message to a conversation.
func (h *ReportHandler) AddMessage(c *gin.Context) {
	reportID := c.Param("reportId")

	var sender, message string
	var attachments []string

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			platformerrors.WriteValidationError(c, "invalid multipart form")
			return
		}
		sender = formValue(form, "sender")
		message = formValue(form, "message")
		attachments = form.Value["attachments"]

		keys, err := h.uploadFiles(c, form.File["files"])
		if err != nil {
			platformerrors.WriteError(c, err, h.log)
			return
		}
		attachments = append(attachments, keys...)
	} else {
		var req requests.AddMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			platformerrors.WriteValidationError(c, err.Error())
			return
		}
		sender = req.Sender
		message = req.Message
		attachments = req.Attachments
	}

	m, err := h.service.AddMessage(c.Request.Context(), reportID, report.Sender(strings.ToUpper(sender)), message, attachments)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusCreated, m)
}

// UpdateStatus is the explicit administrative status override.
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	reportID := c.Param("reportId")

	var req requests.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	r, err := h.service.UpdateStatus(c.Request.Context(), reportID, req.Status)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	r.SecretKey = ""
	c.JSON(http.StatusOK, r)
}

func (h *ReportHandler) uploadFiles(c *gin.Context, files []*multipart.FileHeader) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return nil, platformerrors.NewError(
				c.Request.Context(),
				platformerrors.LayerHandler,
				platformerrors.ErrorTypeValidation,
				"failed to open uploaded file: "+header.Filename,
				err,
				"8b9c0d1e-2f3a-4b4c-8d5e-6f7a8b9c0d1e",
			)
		}
		data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadBytes+1))
		file.Close()
		if err != nil {
			return nil, platformerrors.NewError(
				c.Request.Context(),
				platformerrors.LayerHandler,
				platformerrors.ErrorTypeValidation,
				"failed to read uploaded file: "+header.Filename,
				err,
				"0d1e2f3a-4b5c-4d6e-9f7a-8b9c0d1e2f3a",
			)
		}
		obj, err := h.attachments.Upload(c.Request.Context(), header.Filename, data)
		if err != nil {
			return nil, err
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
