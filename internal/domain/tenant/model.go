package tenant

import "time"

// Tenant is an organization that receives whistleblower reports.
type Tenant struct {
	TenantID    string     `json:"tenantId"`
	CompanyName string     `json:"companyName"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// UpdateParams lists the only tenant fields staff may change.
type UpdateParams struct {
	CompanyName string
	Email       string
	Active      bool
}
