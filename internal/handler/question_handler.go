package handler

import (
	"net/http"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// QuestionHandler handles question management endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListQuestions godoc
// GET /api/admin/exams/:id/questions
// Lists all questions for an exam, correct answers included.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	examID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	questions, err := h.questionService.ListByExam(c.Request.Context(), examID)
	if err != nil {
		failWithError(c, err)
		return
	}

	if questions == nil {
		questions = []model.Question{}
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// AddQuestion godoc
// POST /api/admin/exams/:id/questions
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	examID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), examID, &req)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// UpdateQuestion godoc
// PUT /api/admin/questions/:id
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// DeleteQuestion godoc
// DELETE /api/admin/questions/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		failWithError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Question deleted.", nil)
}
