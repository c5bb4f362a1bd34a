package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mfirdaus-dev/petrostaff-api/internal/service"
	appErrors "github.com/mfirdaus-dev/petrostaff-api/pkg/errors"
	"github.com/mfirdaus-dev/petrostaff-api/pkg/response"
)

// ScheduleHandler wires the scheduling engine to HTTP routes.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler constructs a new ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// Build godoc
// @Summary Generate a schedule for a date range
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body service.BuildScheduleRequest true "Schedule range"
// @Success 201 {object} response.Envelope
// @Router /schedule/build [post]
func (h *ScheduleHandler) Build(c *gin.Context) {
	var req service.BuildScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	schedule, err := h.schedules.Build(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Current godoc
// @Summary Get the stored schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Current(c *gin.Context) {
	schedule, err := h.schedules.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Shortages godoc
// @Summary List understaffed slots in the stored schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/shortages [get]
func (h *ScheduleHandler) Shortages(c *gin.Context) {
	report, err := h.schedules.ShortageReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil, map[string]interface{}{"total": len(report)})
}

// ExportCSV godoc
// @Summary Export the stored schedule as CSV
// @Tags Schedule
// @Produce text/csv
// @Success 200 {file} file
// @Router /schedule/export/csv [get]
func (h *ScheduleHandler) ExportCSV(c *gin.Context) {
	payload, filename, err := h.schedules.ExportCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", payload)
}

// ExportShortageCSV godoc
// @Summary Export the shortage report as CSV
// @Tags Schedule
// @Produce text/csv
// @Success 200 {file} file
// @Router /schedule/shortages/export/csv [get]
func (h *ScheduleHandler) ExportShortageCSV(c *gin.Context) {
	payload, filename, err := h.schedules.ExportShortageCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", payload)
}

// ExportShortagePDF godoc
// @Summary Export the shortage report as PDF
// @Tags Schedule
// @Produce application/pdf
// @Success 200 {file} file
// @Router /schedule/shortages/export/pdf [get]
func (h *ScheduleHandler) ExportShortagePDF(c *gin.Context) {
	payload, filename, err := h.schedules.ExportShortagePDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}

// ExportPDF godoc
// @Summary Export the stored schedule as PDF
// @Tags Schedule
// @Produce application/pdf
// @Success 200 {file} file
// @Router /schedule/export/pdf [get]
func (h *ScheduleHandler) ExportPDF(c *gin.Context) {
	payload, filename, err := h.schedules.ExportPDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}
