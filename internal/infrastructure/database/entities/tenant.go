package entities

import "time"

// Tenant is the persisted organization record.
type Tenant struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt *time.Time

	TenantID    string `gorm:"type:varchar(40);uniqueIndex;not null"`
	CompanyName string `gorm:"type:varchar(256);not null"`
	Email       string `gorm:"type:varchar(256);uniqueIndex;not null"`
	Role        string `gorm:"type:varchar(20);not null;default:'ADMIN'"`
	Active      bool   `gorm:"not null;default:true"`
}

func (Tenant) TableName() string {
	return "tenants"
}
