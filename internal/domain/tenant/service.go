package tenant

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"whistlenet/services/report-api/internal/utils/platformerrors"
)

// Service handles tenant management. This is administrative glue around the
// conversation core; reports reference tenants by TenantID only.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "tenant-service").Logger(),
	}
}

// CreateParams carries a new tenant registration.
type CreateParams struct {
	CompanyName string
	Email       string
	Role        string
}

// Create registers a new tenant. Email is the unique business key.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Tenant, error) {
	if strings.TrimSpace(params.Email) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"email must not be empty",
			nil,
			"2b3c4d5e-6f7a-4b8c-9d0e-1f2a3b4c5d6e",
		)
	}
	if strings.TrimSpace(params.CompanyName) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"company name must not be empty",
			nil,
			"4d5e6f7a-8b9c-4d0e-a1f2-3b4c5d6e7f8a",
		)
	}

	existing, err := s.repo.FindByEmail(ctx, params.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeConflict,
			"tenant already exists with email: "+params.Email,
			nil,
			"6e7f8a9b-0c1d-4e2f-b3a4-5c6d7e8f9a0b",
		)
	}

	role := params.Role
	if strings.TrimSpace(role) == "" {
		role = "ADMIN"
	}

	t := &Tenant{
		TenantID:    uuid.New().String(),
		CompanyName: params.CompanyName,
		Email:       params.Email,
		Role:        role,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", t.TenantID).Msg("tenant created")
	return t, nil
}

// Get returns a tenant by id.
func (s *Service) Get(ctx context.Context, tenantID string) (*Tenant, error) {
	t, err := s.repo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound(ctx, tenantID)
	}
	return t, nil
}

// GetAll returns every registered tenant.
func (s *Service) GetAll(ctx context.Context) ([]*Tenant, error) {
	return s.repo.FindAll(ctx)
}

// Update changes the mutable tenant fields and refreshes UpdatedAt.
func (s *Service) Update(ctx context.Context, tenantID string, params UpdateParams) (*Tenant, error) {
	t, err := s.repo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound(ctx, tenantID)
	}

	t.CompanyName = params.CompanyName
	t.Email = params.Email
	t.Active = params.Active
	now := time.Now().UTC()
	t.UpdatedAt = &now

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a tenant and returns the removed record.
func (s *Service) Delete(ctx context.Context, tenantID string) (*Tenant, error) {
	t, err := s.repo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound(ctx, tenantID)
	}
	if err := s.repo.Delete(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Msg("tenant deleted")
	return t, nil
}

// FindByEmail returns the tenant owning an email address.
func (s *Service) FindByEmail(ctx context.Context, email string) (*Tenant, error) {
	t, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound,
			"tenant not found with email: "+email,
			nil,
			"8a9b0c1d-2e3f-4a4b-c5d6-7e8f9a0b1c2d",
		)
	}
	return t, nil
}

// Exists implements the directory lookup the report service depends on.
func (s *Service) Exists(ctx context.Context, tenantID string) (bool, error) {
	t, err := s.repo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return t != nil, nil
}

func notFound(ctx context.Context, tenantID string) error {
	return platformerrors.NewError(
		ctx,
		platformerrors.LayerDomain,
		platformerrors.ErrorTypeNotFound,
		"tenant not found with id: "+tenantID,
		nil,
		"0c1d2e3f-4a5b-4c6d-8e9f-0a1b2c3d4e5f",
	)
}
