package report

import (
	"context"

	"gorm.io/gorm"

	domain "whistlenet/services/report-api/internal/domain/report"
	"whistlenet/services/report-api/internal/infrastructure/database/entities"
	"whistlenet/services/report-api/internal/utils/platformerrors"
)

// MessageRepository handles conversation message persistence. Messages are
// append-only; there is no update path.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Save(ctx context.Context, m *domain.ConversationMessage) error {
	entity := entities.ConversationMessage{
		ReportID:    m.ReportID,
		Sender:      string(m.Sender),
		Message:     m.Message,
		Attachments: entities.StringSlice(m.Attachments),
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation message",
			err,
			"f8a9b0c1-d2e3-4f4a-b5c6-7d8e9f0a1b2c",
		)
	}
	return nil
}

func (r *MessageRepository) FindByReportIDOrderByCreatedAtAsc(ctx context.Context, reportID string) ([]domain.ConversationMessage, error) {
	var rows []entities.ConversationMessage
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversation messages",
			err,
			"b0c1d2e3-f4a5-4b6c-8d9e-0f1a2b3c4d5e",
		)
	}
	messages := make([]domain.ConversationMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, domain.ConversationMessage{
			ReportID:    row.ReportID,
			Sender:      domain.Sender(row.Sender),
			Message:     row.Message,
			Attachments: []string(row.Attachments),
			Read:        row.Read,
			CreatedAt:   row.CreatedAt,
		})
	}
	return messages, nil
}
