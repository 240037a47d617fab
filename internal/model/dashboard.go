package model

import "github.com/google/uuid"

// DashboardSummary holds the high-level counters for the admin dashboard.
// When scoped to an exam, TotalExams and ActiveExams describe that exam only.
type DashboardSummary struct {
	TotalExams     int            `json:"total_exams"`
	ActiveExams    int            `json:"active_exams"`
	TotalStudents  int            `json:"total_students"`
	Attempted      int            `json:"attempted"`
	TotalQuestions int            `json:"total_questions"`
	ExamActive     *bool          `json:"exam_active,omitempty"`
	TopPerformers  []TopPerformer `json:"top_performers"`
}

// TopPerformer is one row of the dashboard leaderboard.
type TopPerformer struct {
	ExamID     uuid.UUID `json:"exam_id"`
	RollNumber string    `json:"roll_number"`
	FullName   string    `json:"full_name"`
	TotalMarks int       `json:"total_marks"`
	MaxMarks   int       `json:"max_marks"`
	Percentage float64   `json:"percentage"`
}
