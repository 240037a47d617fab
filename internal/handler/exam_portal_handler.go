package handler

import (
	"net/http"

	"github.com/examhall/examhall-backend/internal/middleware"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// ExamPortalHandler serves the student side of a running exam.
type ExamPortalHandler struct {
	attempts  StudentAttempts
	submitter Submitter
	events    EventReporter
}

// NewExamPortalHandler creates a new ExamPortalHandler.
func NewExamPortalHandler(attempts StudentAttempts, submitter Submitter, events EventReporter) *ExamPortalHandler {
	return &ExamPortalHandler{
		attempts:  attempts,
		submitter: submitter,
		events:    events,
	}
}

// GetQuestions godoc
// GET /api/exam/questions
// Returns the paper without correct answers. The first call starts the exam clock.
func (h *ExamPortalHandler) GetQuestions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	payload, err := h.attempts.Questions(c.Request.Context(), claims)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, payload)
}

// Submit godoc
// POST /api/exam/submit
// Grades and records the attempt. The score is never returned to the student.
func (h *ExamPortalHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.submitter.Submit(c.Request.Context(), claims, &req); err != nil {
		failWithError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Exam submitted successfully.", nil)
}

// ReportEvent godoc
// POST /api/exam/events
// Records a tab switch or fullscreen exit.
func (h *ExamPortalHandler) ReportEvent(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.ReportEventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.events.Report(c.Request.Context(), claims, req.EventType); err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"recorded": true})
}
