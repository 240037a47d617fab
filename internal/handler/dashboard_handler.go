package handler

import (
	"net/http"

	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DashboardHandler handles admin dashboard endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboardData godoc
// GET /api/admin/dashboard?exam_id=
// Returns headline counts and the top performers, across all exams or scoped to one.
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	var examID *uuid.UUID
	if raw := c.Query("exam_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		examID = &id
	}

	data, err := h.dashboardService.GetDashboard(c.Request.Context(), examID)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, data)
}
