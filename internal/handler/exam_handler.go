package handler

import (
	"net/http"
	"strconv"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// ExamHandler handles exam management endpoints.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// ListExams godoc
// GET /api/admin/exams
// Lists exams newest first. Pagination is applied when ?page= is given.
func (h *ExamHandler) ListExams(c *gin.Context) {
	exams, err := h.examService.List(c.Request.Context())
	if err != nil {
		failWithError(c, err)
		return
	}

	if c.Query("page") == "" {
		response.Success(c, http.StatusOK, gin.H{"exams": exams})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	page = max(page, 1)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	pagination := response.NewPagination(page, perPage, len(exams))

	start := min((pagination.Page-1)*pagination.PerPage, len(exams))
	end := min(start+pagination.PerPage, len(exams))

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"exams": exams[start:end]}, pagination)
}

// GetExam godoc
// GET /api/admin/exams/:id
func (h *ExamHandler) GetExam(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), id)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// CreateExam godoc
// POST /api/admin/exams
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), &req)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"exam": exam})
}

// UpdateExam godoc
// PUT /api/admin/exams/:id
// Only fields present in the body are changed. The exam code is immutable.
func (h *ExamHandler) UpdateExam(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// SetActive godoc
// PATCH /api/admin/exams/:id/active
// Opens or closes the exam for student logins.
func (h *ExamHandler) SetActive(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.SetActiveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// DeleteExam godoc
// DELETE /api/admin/exams/:id
// Removes the exam together with its questions, students, responses and events.
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.examService.Delete(c.Request.Context(), id); err != nil {
		failWithError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Exam deleted.", nil)
}
