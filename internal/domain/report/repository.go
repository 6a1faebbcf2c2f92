package report

import "context"

// Repository defines report persistence needed by the service. The store is
// assumed strongly consistent per document; no cross-document transactions
// are required, and concurrent writers on the same report resolve
// last-writer-wins.
type Repository interface {
	Save(ctx context.Context, r *Report) error
	FindByReportID(ctx context.Context, reportID string) (*Report, error)
	FindByReportIDAndTenantID(ctx context.Context, reportID, tenantID string) (*Report, error)
	FindBySecretKey(ctx context.Context, secretKey string) (*Report, error)
	FindAllByTenantID(ctx context.Context, tenantID string) ([]*Report, error)
}

// MessageRepository defines conversation message persistence.
type MessageRepository interface {
	Save(ctx context.Context, m *ConversationMessage) error
	FindByReportIDOrderByCreatedAtAsc(ctx context.Context, reportID string) ([]ConversationMessage, error)
}

// TenantDirectory is the narrow view of tenant storage the conversation
// service needs: existence checks when a report is filed or listed.
type TenantDirectory interface {
	Exists(ctx context.Context, tenantID string) (bool, error)
}
