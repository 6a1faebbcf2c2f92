package report

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"whistlenet/services/report-api/internal/config"
	"whistlenet/services/report-api/internal/infrastructure/metrics"
	"whistlenet/services/report-api/internal/utils/platformerrors"
	"whistlenet/services/report-api/internal/utils/secretkey"
)

// Service owns the report lifecycle: creation, message threading, the status
// state machine and anonymous-identity access control.
type Service struct {
	cfg      *config.Config
	reports  Repository
	messages MessageRepository
	tenants  TenantDirectory
	log      zerolog.Logger
}

func NewService(cfg *config.Config, reports Repository, messages MessageRepository, tenants TenantDirectory, log zerolog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		reports:  reports,
		messages: messages,
		tenants:  tenants,
		log:      log.With().Str("component", "report-service").Logger(),
	}
}

// CreateParams carries an anonymous submission.
type CreateParams struct {
	TenantID    string
	Subject     string
	Message     string
	Attachments []string
}

// Create files a new report for a tenant. The returned report carries the
// secret key; this is the only time the service ever hands it out unasked.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Report, error) {
	exists, err := s.tenants.Exists(ctx, params.TenantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound,
			"tenant not found with id: "+params.TenantID,
			nil,
			"3f6c1d82-9a40-4e1b-b6d3-5a0c8e2f7d91",
		)
	}
	if strings.TrimSpace(params.Subject) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"subject must not be empty",
			nil,
			"a1e0b7c4-2d53-48f9-9e6a-7b8c1d2e3f40",
		)
	}
	if strings.TrimSpace(params.Message) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"message must not be empty",
			nil,
			"c2d94b5e-7f18-4a6c-8b3d-0e1f2a3b4c5d",
		)
	}

	key, err := secretkey.New()
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal,
			"failed to generate secret key",
			err,
			"8e5a2c1f-4b7d-4f39-a0e6-9d8c7b6a5f41",
		)
	}

	now := time.Now().UTC()
	r := &Report{
		ReportID:    uuid.New().String(),
		SecretKey:   key,
		TenantID:    params.TenantID,
		Subject:     params.Subject,
		Message:     params.Message,
		Attachments: params.Attachments,
		Status:      StatusNew,
		CreatedAt:   now,
		DeadlineAt:  now.Add(s.cfg.ReportDeadline),
		UpdatedAt:   now,
	}

	if err := s.reports.Save(ctx, r); err != nil {
		return nil, err
	}

	metrics.ReportsCreatedTotal.WithLabelValues(r.TenantID).Inc()
	s.log.Info().Str("report_id", r.ReportID).Str("tenant_id", r.TenantID).Msg("report created")
	return r, nil
}

// AddMessage appends a follow-up to an existing conversation. A compliance
// reply moves a non-terminal report to IN_PROGRESS; reporter replies never
// change status.
func (s *Service) AddMessage(ctx context.Context, reportID string, sender Sender, message string, attachments []string) (*ConversationMessage, error) {
	r, err := s.reports.FindByReportID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound,
			"report not found with id: "+reportID,
			nil,
			"5b4a3c2d-1e0f-4a9b-8c7d-6e5f4a3b2c1d",
		)
	}
	if !sender.IsValid() {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"message sender must be provided",
			nil,
			"7c6b5a49-3d2e-4f1a-b0c9-d8e7f6a5b4c3",
		)
	}
	if strings.TrimSpace(message) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"message must not be empty",
			nil,
			"9d8c7b6a-5f4e-4d3c-a2b1-c0d9e8f7a6b5",
		)
	}

	m := &ConversationMessage{
		ReportID:    r.ReportID,
		Sender:      sender,
		Message:     message,
		Attachments: attachments,
		Read:        false,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.messages.Save(ctx, m); err != nil {
		return nil, err
	}
	metrics.MessagesAddedTotal.WithLabelValues(string(sender)).Inc()

	trigger := TriggerReporterReplied
	if sender == SenderComplianceTeam {
		trigger = TriggerComplianceReplied
	}
	if next := NextStatus(r.Status, trigger); next != r.Status {
		r.Status = next
		r.UpdatedAt = time.Now().UTC()
		if err := s.reports.Save(ctx, r); err != nil {
			return nil, err
		}
		s.log.Info().Str("report_id", r.ReportID).Str("status", next.String()).Msg("report status advanced")
	}

	return m, nil
}

// GetReportWithConversation is the staff view. The first view of a NEW
// report acknowledges receipt: it moves to RECEIVED with ReceivedAt set,
// exactly once, and the transition is reflected in the returned report.
func (s *Service) GetReportWithConversation(ctx context.Context, tenantID, reportID string) (*Conversation, error) {
	r, err := s.reports.FindByReportIDAndTenantID(ctx, reportID, tenantID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound,
			"report not found for this tenant",
			nil,
			"b0a9c8d7-e6f5-4a4b-9c3d-2e1f0a9b8c7d",
		)
	}

	if next := NextStatus(r.Status, TriggerStaffViewed); next != r.Status {
		now := time.Now().UTC()
		r.Status = next
		r.ReceivedAt = &now
		r.UpdatedAt = now
		if err := s.reports.Save(ctx, r); err != nil {
			return nil, err
		}
		s.log.Info().Str("report_id", r.ReportID).Msg("report acknowledged on first staff view")
	}

	msgs, err := s.messages.FindByReportIDOrderByCreatedAtAsc(ctx, r.ReportID)
	if err != nil {
		return nil, err
	}
	return &Conversation{Report: r, Messages: msgs}, nil
}

// GetConversationBySecretKey is the reporter view. The error message for an
// unknown key deliberately does not distinguish malformed from unknown, to
// avoid giving guessers a signal. Read-only; no transition.
func (s *Service) GetConversationBySecretKey(ctx context.Context, secretKey string) (*Conversation, error) {
	r, err := s.reports.FindBySecretKey(ctx, secretKey)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound,
			"invalid secret key",
			nil,
			"d2c1b0a9-f8e7-4d6c-b5a4-3c2d1e0f9a8b",
		)
	}

	msgs, err := s.messages.FindByReportIDOrderByCreatedAtAsc(ctx, r.ReportID)
	if err != nil {
		return nil, err
	}
	return &Conversation{Report: r, Messages: msgs}, nil
}

// UpdateStatus is the explicit administrative override. It matches the
// status name case-insensitively and sets it unconditionally, including
// backward moves the implicit machine would never make.
func (s *Service) UpdateStatus(ctx context.Context, reportID, statusName string) (*Report, error) {
	r, err := s.reports.FindByReportID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound,
			"report not found with id: "+reportID,
			nil,
			"f4e3d2c1-b0a9-4f8e-a7d6-5c4b3a2d1e0f",
		)
	}

	next, err := ParseStatus(statusName)
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"invalid status: "+statusName,
			err,
			"1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5e",
		)
	}

	r.Status = next
	r.UpdatedAt = time.Now().UTC()
	if err := s.reports.Save(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info().Str("report_id", r.ReportID).Str("status", next.String()).Msg("report status overridden")
	return r, nil
}

// ListForTenant returns every report filed against a tenant, in storage order.
func (s *Service) ListForTenant(ctx context.Context, tenantID string) ([]*Report, error) {
	exists, err := s.tenants.Exists(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound,
			"tenant not found with id: "+tenantID,
			nil,
			"6f5e4d3c-2b1a-4c0d-9e8f-7a6b5c4d3e2f",
		)
	}
	return s.reports.FindAllByTenantID(ctx, tenantID)
}
