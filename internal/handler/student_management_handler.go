package handler

import (
	"net/http"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// StudentManagementHandler handles admin operations on exam candidates.
type StudentManagementHandler struct {
	studentService *service.StudentService
}

// NewStudentManagementHandler creates a new StudentManagementHandler.
func NewStudentManagementHandler(studentService *service.StudentService) *StudentManagementHandler {
	return &StudentManagementHandler{studentService: studentService}
}

// ListStudents godoc
// GET /api/admin/exams/:id/students
// Lists everyone who logged in to the exam with their attempt state.
func (h *StudentManagementHandler) ListStudents(c *gin.Context) {
	examID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	students, err := h.studentService.ListByExam(c.Request.Context(), examID)
	if err != nil {
		failWithError(c, err)
		return
	}

	if students == nil {
		students = []model.Student{}
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// GetStudent godoc
// GET /api/admin/students/:id
func (h *StudentManagementHandler) GetStudent(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	student, err := h.studentService.Get(c.Request.Context(), id)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student, "state": student.State()})
}

// DeleteStudent godoc
// DELETE /api/admin/students/:id
// Removes the student and ends their session. Their response, if any, is kept.
func (h *StudentManagementHandler) DeleteStudent(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
		failWithError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Student deleted.", nil)
}

// ListEvents godoc
// GET /api/admin/students/:id/events
// Returns the tab switch and fullscreen exit history of a student.
func (h *StudentManagementHandler) ListEvents(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	events, err := h.studentService.Events(c.Request.Context(), id)
	if err != nil {
		failWithError(c, err)
		return
	}

	if events == nil {
		events = []model.AttemptEvent{}
	}

	response.Success(c, http.StatusOK, gin.H{"events": events})
}
