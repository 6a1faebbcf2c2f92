package tenant

import "context"

// Repository defines tenant persistence.
type Repository interface {
	Save(ctx context.Context, t *Tenant) error
	FindByTenantID(ctx context.Context, tenantID string) (*Tenant, error)
	FindByEmail(ctx context.Context, email string) (*Tenant, error)
	FindAll(ctx context.Context) ([]*Tenant, error)
	Delete(ctx context.Context, t *Tenant) error
}
