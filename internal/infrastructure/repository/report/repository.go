package report

import (
	"context"

	"gorm.io/gorm"

	domain "whistlenet/services/report-api/internal/domain/report"
	"whistlenet/services/report-api/internal/infrastructure/database/entities"
	"whistlenet/services/report-api/internal/utils/platformerrors"
)

// Repository handles whistleblower report persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save upserts the report document keyed by report_id.
func (r *Repository) Save(ctx context.Context, rep *domain.Report) error {
	entity := entities.WhistleblowerReport{
		ReportID:    rep.ReportID,
		SecretKey:   rep.SecretKey,
		TenantID:    rep.TenantID,
		Subject:     rep.Subject,
		Message:     rep.Message,
		Attachments: entities.StringSlice(rep.Attachments),
		Status:      rep.Status.String(),
		Read:        rep.Read,
		ReceivedAt:  rep.ReceivedAt,
		DeadlineAt:  rep.DeadlineAt,
		CreatedAt:   rep.CreatedAt,
		UpdatedAt:   rep.UpdatedAt,
	}

	var existing entities.WhistleblowerReport
	err := r.db.WithContext(ctx).Where("report_id = ?", rep.ReportID).First(&existing).Error
	if err == nil {
		entity.ID = existing.ID
		err = r.db.WithContext(ctx).Save(&entity).Error
	} else if err == gorm.ErrRecordNotFound {
		err = r.db.WithContext(ctx).Create(&entity).Error
	}
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to save report",
			err,
			"e1f2a3b4-c5d6-4e7f-8a9b-0c1d2e3f4a5b",
		)
	}
	return nil
}

func (r *Repository) FindByReportID(ctx context.Context, reportID string) (*domain.Report, error) {
	return r.findOne(ctx, "report_id = ?", reportID)
}

func (r *Repository) FindByReportIDAndTenantID(ctx context.Context, reportID, tenantID string) (*domain.Report, error) {
	return r.findOne(ctx, "report_id = ? AND tenant_id = ?", reportID, tenantID)
}

func (r *Repository) FindBySecretKey(ctx context.Context, secretKey string) (*domain.Report, error) {
	return r.findOne(ctx, "secret_key = ?", secretKey)
}

func (r *Repository) FindAllByTenantID(ctx context.Context, tenantID string) ([]*domain.Report, error) {
	var rows []entities.WhistleblowerReport
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list reports for tenant",
			err,
			"a3b4c5d6-e7f8-4a9b-8c0d-1e2f3a4b5c6d",
		)
	}
	reports := make([]*domain.Report, 0, len(rows))
	for i := range rows {
		rep := mapEntity(rows[i])
		reports = append(reports, &rep)
	}
	return reports, nil
}

func (r *Repository) findOne(ctx context.Context, query string, args ...any) (*domain.Report, error) {
	var entity entities.WhistleblowerReport
	err := r.db.WithContext(ctx).Where(query, args...).First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find report",
			err,
			"c5d6e7f8-a9b0-4c1d-9e2f-3a4b5c6d7e8f",
		)
	}
	rep := mapEntity(entity)
	return &rep, nil
}

func mapEntity(entity entities.WhistleblowerReport) domain.Report {
	return domain.Report{
		ReportID:    entity.ReportID,
		SecretKey:   entity.SecretKey,
		TenantID:    entity.TenantID,
		Subject:     entity.Subject,
		Message:     entity.Message,
		Attachments: []string(entity.Attachments),
		Status:      domain.Status(entity.Status),
		Read:        entity.Read,
		CreatedAt:   entity.CreatedAt,
		ReceivedAt:  entity.ReceivedAt,
		DeadlineAt:  entity.DeadlineAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}
