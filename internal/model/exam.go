package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultInstructions is shown to students when an exam has none configured.
const DefaultInstructions = "Read all questions carefully before answering."

// Exam represents an exam definition.
type Exam struct {
	ID              uuid.UUID `json:"id"`
	ExamCode        string    `json:"exam_code"`
	Title           string    `json:"title"`
	DurationMinutes int       `json:"duration_minutes"`
	IsActive        bool      `json:"is_active"`
	Instructions    string    `json:"instructions"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Settings returns the student-facing view of the exam.
func (e *Exam) Settings() ExamSettings {
	return ExamSettings{
		ExamCode:        e.ExamCode,
		Title:           e.Title,
		DurationMinutes: e.DurationMinutes,
		Instructions:    e.Instructions,
	}
}

// ExamSettings is what a student sees about the exam they logged into.
type ExamSettings struct {
	ExamCode        string `json:"exam_code"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
	Instructions    string `json:"instructions"`
}

// CreateExamRequest is the payload for creating a new exam.
type CreateExamRequest struct {
	ExamCode        string `json:"exam_code" binding:"required,min=2,max=64,examcode"`
	Title           string `json:"title" binding:"required,min=3,max=255"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=1,max=600"`
	IsActive        bool   `json:"is_active"`
	Instructions    string `json:"instructions" binding:"max=5000"`
}

// UpdateExamRequest is the payload for updating an existing exam.
// Nil fields are left untouched.
type UpdateExamRequest struct {
	Title           *string `json:"title" binding:"omitempty,min=3,max=255"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,min=1,max=600"`
	IsActive        *bool   `json:"is_active"`
	Instructions    *string `json:"instructions" binding:"omitempty,max=5000"`
}

// SetActiveRequest toggles whether students can log into an exam.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ExamPaper is the cached, student-facing question list (no correct answers).
type ExamPaper struct {
	ExamID    uuid.UUID            `json:"exam_id"`
	Questions []QuestionForStudent `json:"questions"`
}
