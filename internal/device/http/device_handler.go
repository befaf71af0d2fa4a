// Package http provides HTTP handlers for device configuration operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/dicomconf/internal/device/http/dto"
	deviceUseCase "github.com/allisson/dicomconf/internal/device/usecase"
	"github.com/allisson/dicomconf/internal/httputil"
	customValidation "github.com/allisson/dicomconf/internal/validation"
)

// DeviceHandler handles HTTP requests for device configuration operations.
type DeviceHandler struct {
	deviceUseCase deviceUseCase.DeviceUseCase
	logger        *slog.Logger
}

// NewDeviceHandler creates a new device handler with required dependencies.
func NewDeviceHandler(deviceUseCase deviceUseCase.DeviceUseCase, logger *slog.Logger) *DeviceHandler {
	return &DeviceHandler{
		deviceUseCase: deviceUseCase,
		logger:        logger,
	}
}

// RegisterRoutes mounts the device endpoints on group.
func (h *DeviceHandler) RegisterRoutes(group *gin.RouterGroup) {
	devices := group.Group("/devices")
	{
		devices.GET("", h.ListHandler)
		devices.GET("/:name", h.GetHandler)
		devices.PUT("/:name", h.SaveHandler)
		devices.DELETE("/:name", h.DeleteHandler)
	}

	aets := group.Group("/aets")
	{
		aets.GET("", h.ListAETitlesHandler)
		aets.POST("", h.RegisterAETitleHandler)
		aets.GET("/:title", h.GetApplicationEntityHandler)
		aets.DELETE("/:title", h.UnregisterAETitleHandler)
	}

	webApps := group.Group("/webapps")
	{
		webApps.GET("", h.ListWebAppNamesHandler)
		webApps.GET("/:name", h.GetWebApplicationHandler)
	}
}

// ListHandler lists configured device names.
// GET /v1/devices?offset=0&limit=50 - Returns 200 OK with a page of names.
func (h *DeviceHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePage(c, httputil.DeviceNameWindow)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	names, err := h.deviceUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapNamesToListResponse(names, page))
}

// GetHandler loads a device with all its children.
// GET /v1/devices/:name - Returns 200 OK with the device document.
func (h *DeviceHandler) GetHandler(c *gin.Context) {
	device, err := h.deviceUseCase.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDeviceToDocument(device))
}

// SaveHandler creates the device or merges it into the stored configuration.
// PUT /v1/devices/:name - Returns 201 Created or 200 OK with the change log.
func (h *DeviceHandler) SaveHandler(c *gin.Context) {
	name := c.Param("name")

	var req dto.SaveDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if req.Name == "" {
		req.Name = name
	}
	if req.Name != name {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("device name %q does not match path %q", req.Name, name),
			h.logger,
		)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	device, err := req.ToDomain()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	changes, created, err := h.deviceUseCase.Save(c.Request.Context(), device)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.MapSaveDeviceResponse(device, created, changes))
}

// DeleteHandler removes a device and releases its registered names.
// DELETE /v1/devices/:name - Returns 200 OK with the change log.
func (h *DeviceHandler) DeleteHandler(c *gin.Context) {
	changes, err := h.deviceUseCase.Delete(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapChangeLogToResponse(changes))
}

// ListAETitlesHandler lists registered AE titles.
// GET /v1/aets?offset=0&limit=100 - Returns 200 OK with a page of titles.
func (h *DeviceHandler) ListAETitlesHandler(c *gin.Context) {
	page, err := httputil.ParsePage(c, httputil.AETitleWindow)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	titles, err := h.deviceUseCase.ListAETitles(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapNamesToListResponse(titles, page))
}

// RegisterAETitleHandler reserves an AE title without configuring an AE.
// POST /v1/aets - Returns 201 Created.
func (h *DeviceHandler) RegisterAETitleHandler(c *gin.Context) {
	var req dto.RegisterAETitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.deviceUseCase.RegisterAETitle(c.Request.Context(), req.AETitle); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, req)
}

// UnregisterAETitleHandler releases a reserved AE title.
// DELETE /v1/aets/:title - Returns 204 No Content.
func (h *DeviceHandler) UnregisterAETitleHandler(c *gin.Context) {
	if err := h.deviceUseCase.UnregisterAETitle(c.Request.Context(), c.Param("title")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// GetApplicationEntityHandler returns the AE with the given title.
// GET /v1/aets/:title - Returns 200 OK with the AE and its device name.
func (h *DeviceHandler) GetApplicationEntityHandler(c *gin.Context) {
	ae, device, err := h.deviceUseCase.GetApplicationEntity(c.Request.Context(), c.Param("title"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ApplicationEntityResponse{
		Device:     device.Name,
		AEDocument: dto.MapApplicationEntity(ae),
	})
}

// ListWebAppNamesHandler lists registered web application names.
// GET /v1/webapps?offset=0&limit=50 - Returns 200 OK with a page of names.
func (h *DeviceHandler) ListWebAppNamesHandler(c *gin.Context) {
	page, err := httputil.ParsePage(c, httputil.WebAppNameWindow)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	names, err := h.deviceUseCase.ListWebAppNames(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapNamesToListResponse(names, page))
}

// GetWebApplicationHandler returns the web application with the given name.
// GET /v1/webapps/:name - Returns 200 OK with the web application and its device name.
func (h *DeviceHandler) GetWebApplicationHandler(c *gin.Context) {
	wa, device, err := h.deviceUseCase.GetWebApplication(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.WebApplicationResponse{
		Device:         device.Name,
		WebAppDocument: dto.MapWebApplication(wa),
	})
}
