package v1

import (
	"github.com/gin-gonic/gin"

	"whistlenet/services/report-api/internal/infrastructure/auth"
	"whistlenet/services/report-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
	auth     *auth.Validator
}

func NewRoutes(provider *handlers.Provider, authValidator *auth.Validator) *Routes {
	return &Routes{handlers: provider, auth: authValidator}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	// Reporter-facing endpoints. Anonymous by design; the secret key is the
	// only credential.
	group.POST("/reports", r.handlers.Report.Create)
	group.GET("/conversations/:secretKey", r.handlers.Report.GetBySecretKey)
	group.POST("/reports/:reportId/messages", r.handlers.Report.AddMessage)
	group.POST("/files", r.handlers.File.Upload)
	group.GET("/files/:key", r.handlers.File.Download)
	group.GET("/files/:key/url", r.handlers.File.PresignURL)

	// Compliance endpoints. Guarded when AUTH_ENABLED is set.
	staff := group.Group("/")
	if r.auth != nil {
		staff.Use(r.auth.Middleware())
	}
	staff.GET("/tenants/:tenantId/reports", r.handlers.Report.ListForTenant)
	staff.GET("/tenants/:tenantId/reports/:reportId/conversation", r.handlers.Report.GetConversation)
	staff.PUT("/reports/:reportId/status", r.handlers.Report.UpdateStatus)

	admin := staff.Group("/admin")
	admin.POST("/tenants", r.handlers.Tenant.Create)
	admin.GET("/tenants", r.handlers.Tenant.List)
	admin.GET("/tenants/:tenantId", r.handlers.Tenant.Get)
	admin.PUT("/tenants/:tenantId", r.handlers.Tenant.Update)
	admin.DELETE("/tenants/:tenantId", r.handlers.Tenant.Delete)
}
