package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/examhall/examhall-backend/internal/export"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler streams xlsx workbooks of results and rosters.
type ExportHandler struct {
	examService    *service.ExamService
	resultService  *service.ResultService
	studentService *service.StudentService
	loc            *time.Location
	log            zerolog.Logger
}

// NewExportHandler creates a new ExportHandler. Timestamps in the workbook are
// rendered in loc.
func NewExportHandler(
	examService *service.ExamService,
	resultService *service.ResultService,
	studentService *service.StudentService,
	loc *time.Location,
	log zerolog.Logger,
) *ExportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportHandler{
		examService:    examService,
		resultService:  resultService,
		studentService: studentService,
		loc:            loc,
		log:            log.With().Str("component", "export_handler").Logger(),
	}
}

// ExportResults godoc
// GET /api/admin/exams/:id/export/results
func (h *ExportHandler) ExportResults(c *gin.Context) {
	examID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	exam, err := h.examService.GetByID(ctx, examID)
	if err != nil {
		failWithError(c, err)
		return
	}

	responses, err := h.resultService.ListByExam(ctx, examID)
	if err != nil {
		failWithError(c, err)
		return
	}

	data, err := export.ResultsWorkbook(export.ResultRows(responses, h.loc))
	if err != nil {
		failWithError(c, err)
		return
	}

	h.log.Info().Str("exam_code", exam.ExamCode).Int("rows", len(responses)).Msg("Results exported")
	h.attach(c, export.Filename(exam.ExamCode, "results"), data)
}

// ExportStudents godoc
// GET /api/admin/exams/:id/export/students
func (h *ExportHandler) ExportStudents(c *gin.Context) {
	examID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	exam, err := h.examService.GetByID(ctx, examID)
	if err != nil {
		failWithError(c, err)
		return
	}

	students, err := h.studentService.ListByExam(ctx, examID)
	if err != nil {
		failWithError(c, err)
		return
	}

	data, err := export.StudentsWorkbook(export.StudentRows(students, h.loc))
	if err != nil {
		failWithError(c, err)
		return
	}

	h.log.Info().Str("exam_code", exam.ExamCode).Int("rows", len(students)).Msg("Students exported")
	h.attach(c, export.Filename(exam.ExamCode, "students"), data)
}

func (h *ExportHandler) attach(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, export.ContentType, data)
}
