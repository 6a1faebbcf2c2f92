package requests

// CreateTenantRequest registers a new tenant organization.
type CreateTenantRequest struct {
	CompanyName string `json:"companyName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Role        string `json:"role"`
}

// UpdateTenantRequest changes the mutable tenant fields.
type UpdateTenantRequest struct {
	CompanyName string `json:"companyName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Active      bool   `json:"active"`
}
