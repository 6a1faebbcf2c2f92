package entities

import "time"

// WebsocketConnection is one registered realtime session. ConnectionID is
// the upsert key; many rows may share a ReportID.
type WebsocketConnection struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	ConnectionID string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	ReportID     string    `gorm:"type:varchar(40);index;not null"`
	UserType     string    `gorm:"type:varchar(20);not null"`
	ConnectedAt  time.Time `gorm:"not null"`
}

func (WebsocketConnection) TableName() string {
	return "websocket_connections"
}
