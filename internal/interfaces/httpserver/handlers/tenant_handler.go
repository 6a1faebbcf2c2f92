package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"whistlenet/services/report-api/internal/domain/tenant"
	"whistlenet/services/report-api/internal/interfaces/httpserver/requests"
	"whistlenet/services/report-api/internal/utils/platformerrors"
)

// TenantHandler exposes the administrative tenant endpoints.
type TenantHandler struct {
	service *tenant.Service
	log     zerolog.Logger
}

func NewTenantHandler(service *tenant.Service, log zerolog.Logger) *TenantHandler {
	return &TenantHandler{
		service: service,
		log:     log.With().Str("component", "tenant-handler").Logger(),
	}
}

func (h *TenantHandler) Create(c *gin.Context) {
	var req requests.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	t, err := h.service.Create(c.Request.Context(), tenant.CreateParams{
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Role:        req.Role,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusCreated, t)
}

func (h *TenantHandler) Get(c *gin.Context) {
	t, err := h.service.Get(c.Request.Context(), c.Param("tenantId"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenants": tenants, "count": len(tenants)})
}

func (h *TenantHandler) Update(c *gin.Context) {
	var req requests.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	t, err := h.service.Update(c.Request.Context(), c.Param("tenantId"), tenant.UpdateParams{
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Active:      req.Active,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TenantHandler) Delete(c *gin.Context) {
	t, err := h.service.Delete(c.Request.Context(), c.Param("tenantId"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, t)
}
