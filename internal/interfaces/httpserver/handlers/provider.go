package handlers

import (
	"github.com/rs/zerolog"

	"whistlenet/services/report-api/internal/config"
	"whistlenet/services/report-api/internal/domain/attachment"
	"whistlenet/services/report-api/internal/domain/report"
	"whistlenet/services/report-api/internal/domain/tenant"
)

// Provider wires HTTP handlers.
type Provider struct {
	Report *ReportHandler
	Tenant *TenantHandler
	File   *FileHandler
}

func NewProvider(
	cfg *config.Config,
	reportService *report.Service,
	tenantService *tenant.Service,
	attachmentService *attachment.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Report: NewReportHandler(cfg, reportService, attachmentService, log),
		Tenant: NewTenantHandler(tenantService, log),
		File:   NewFileHandler(cfg, attachmentService, log),
	}
}
