package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mfirdaus-dev/petrostaff-api/internal/models"
	"github.com/mfirdaus-dev/petrostaff-api/internal/service"
	appErrors "github.com/mfirdaus-dev/petrostaff-api/pkg/errors"
	"github.com/mfirdaus-dev/petrostaff-api/pkg/response"
)

// LeaveHandler wires the leave request lifecycle to HTTP routes.
type LeaveHandler struct {
	leaves *service.LeaveService
}

// NewLeaveHandler constructs a new LeaveHandler.
func NewLeaveHandler(leaves *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaves: leaves}
}

// List godoc
// @Summary List leave requests
// @Tags Leave
// @Produce json
// @Param employee_id query string false "Filter by employee"
// @Param status query string false "Filter by status (PENDING/APPROVED/REJECTED)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /leave-requests [get]
func (h *LeaveHandler) List(c *gin.Context) {
	filter := models.LeaveFilter{
		EmployeeID: strings.TrimSpace(c.Query("employee_id")),
		SortBy:     c.Query("sort"),
		SortOrder:  c.Query("order"),
	}
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		val := models.LeaveStatus(status)
		filter.Status = &val
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	requests, pagination, err := h.leaves.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, pagination)
}

// Get godoc
// @Summary Get leave request detail
// @Tags Leave
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 200 {object} response.Envelope
// @Router /leave-requests/{id} [get]
func (h *LeaveHandler) Get(c *gin.Context) {
	req, err := h.leaves.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, req, nil)
}

// Submit godoc
// @Summary Submit leave request
// @Tags Leave
// @Accept json
// @Produce json
// @Param payload body service.SubmitLeaveRequest true "Leave payload"
// @Success 201 {object} response.Envelope
// @Router /leave-requests [post]
func (h *LeaveHandler) Submit(c *gin.Context) {
	var req service.SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid leave payload"))
		return
	}
	leave, err := h.leaves.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, leave)
}

// Approve godoc
// @Summary Approve leave request and reallocate affected slots
// @Tags Leave
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 200 {object} response.Envelope
// @Router /leave-requests/{id}/approve [post]
func (h *LeaveHandler) Approve(c *gin.Context) {
	decision, err := h.leaves.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decision, nil)
}

// Reject godoc
// @Summary Reject leave request
// @Tags Leave
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 200 {object} response.Envelope
// @Router /leave-requests/{id}/reject [post]
func (h *LeaveHandler) Reject(c *gin.Context) {
	decision, err := h.leaves.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decision, nil)
}
