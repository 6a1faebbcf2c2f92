package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// WhistleblowerReport is the persisted report document.
type WhistleblowerReport struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	ReportID    string      `gorm:"type:varchar(40);uniqueIndex;not null"`
	SecretKey   string      `gorm:"type:char(64);uniqueIndex;not null"`
	TenantID    string      `gorm:"type:varchar(40);index;not null"`
	Subject     string      `gorm:"type:varchar(256);not null"`
	Message     string      `gorm:"type:text;not null"`
	Attachments StringSlice `gorm:"type:jsonb"`
	Status      string      `gorm:"type:varchar(20);not null"`
	Read        bool        `gorm:"not null;default:false"`
	ReceivedAt  *time.Time
	DeadlineAt  time.Time `gorm:"not null"`
}

func (WhistleblowerReport) TableName() string {
	return "whistleblower_reports"
}

// ConversationMessage is one persisted follow-up on a report. Rows are
// append-only; nothing updates them after insert.
type ConversationMessage struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index:idx_message_report_created"`

	ReportID    string      `gorm:"type:varchar(40);index:idx_message_report_created;not null"`
	Sender      string      `gorm:"type:varchar(20);not null"`
	Message     string      `gorm:"type:text;not null"`
	Attachments StringSlice `gorm:"type:jsonb"`
	Read        bool        `gorm:"not null;default:false"`
}

func (ConversationMessage) TableName() string {
	return "conversation_messages"
}

// StringSlice stores a list of attachment keys as JSON.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}
