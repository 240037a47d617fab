package handler

import (
	"net/http"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ResultHandler exposes graded responses to admins.
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// ListResults godoc
// GET /api/admin/exams/:id/results
// Ranked by total marks, earliest submission first on ties. Answers are omitted.
func (h *ResultHandler) ListResults(c *gin.Context) {
	examID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	results, err := h.resultService.ListByExam(c.Request.Context(), examID)
	if err != nil {
		failWithError(c, err)
		return
	}

	if results == nil {
		results = []model.Response{}
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// GetResult godoc
// GET /api/admin/results/:id
// Returns one response with its per-question breakdown.
func (h *ResultHandler) GetResult(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.resultService.Get(c.Request.Context(), id)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// DeleteResult godoc
// DELETE /api/admin/results/:id
// Deletes the response and reopens the attempt so the student can sit the exam once more.
func (h *ResultHandler) DeleteResult(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.resultService.Delete(c.Request.Context(), id); err != nil {
		failWithError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Result deleted. The student may retake the exam.", nil)
}
