package tenant

import (
	"context"

	"gorm.io/gorm"

	domain "whistlenet/services/report-api/internal/domain/tenant"
	"whistlenet/services/report-api/internal/infrastructure/database/entities"
	"whistlenet/services/report-api/internal/utils/platformerrors"
)

// Repository handles tenant persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save upserts the tenant keyed by tenant_id.
func (r *Repository) Save(ctx context.Context, t *domain.Tenant) error {
	entity := entities.Tenant{
		TenantID:    t.TenantID,
		CompanyName: t.CompanyName,
		Email:       t.Email,
		Role:        t.Role,
		Active:      t.Active,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	var existing entities.Tenant
	err := r.db.WithContext(ctx).Where("tenant_id = ?", t.TenantID).First(&existing).Error
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
			"failed to save tenant",
			err,
			"d2e3f4a5-b6c7-4d8e-9f0a-1b2c3d4e5f6a",
		)
	}
	return nil
}

func (r *Repository) FindByTenantID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	return r.findOne(ctx, "tenant_id = ?", tenantID)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.Tenant, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *Repository) FindAll(ctx context.Context) ([]*domain.Tenant, error) {
	var rows []entities.Tenant
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list tenants",
			err,
			"f4a5b6c7-d8e9-4f0a-b1c2-3d4e5f6a7b8c",
		)
	}
	tenants := make([]*domain.Tenant, 0, len(rows))
	for i := range rows {
		t := mapEntity(rows[i])
		tenants = append(tenants, &t)
	}
	return tenants, nil
}

func (r *Repository) Delete(ctx context.Context, t *domain.Tenant) error {
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", t.TenantID).
		Delete(&entities.Tenant{}).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete tenant",
			err,
			"a5b6c7d8-e9f0-4a1b-8c2d-3e4f5a6b7c8d",
		)
	}
	return nil
}

func (r *Repository) findOne(ctx context.Context, query string, args ...any) (*domain.Tenant, error) {
	var entity entities.Tenant
	err := r.db.WithContext(ctx).Where(query, args...).First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find tenant",
			err,
			"c7d8e9f0-a1b2-4c3d-9e4f-5a6b7c8d9e0f",
		)
	}
	t := mapEntity(entity)
	return &t, nil
}

func mapEntity(entity entities.Tenant) domain.Tenant {
	return domain.Tenant{
		TenantID:    entity.TenantID,
		CompanyName: entity.CompanyName,
		Email:       entity.Email,
		Role:        entity.Role,
		Active:      entity.Active,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}
