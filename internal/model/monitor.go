package model

import (
	"time"

	"github.com/google/uuid"
)

// MonitorStudent is one row of the live monitor roster.
type MonitorStudent struct {
	StudentID       uuid.UUID    `json:"student_id"`
	RollNumber      string       `json:"roll_number"`
	FullName        string       `json:"full_name"`
	State           AttemptState `json:"state"`
	LoginTime       *time.Time   `json:"login_time"`
	ExamStartTime   *time.Time   `json:"exam_start_time"`
	TabSwitches     int64        `json:"tab_switches"`
	FullscreenExits int64        `json:"fullscreen_exits"`
}

// MonitorStats aggregates the roster.
type MonitorStats struct {
	TotalJoined     int   `json:"total_joined"`
	TotalInProgress int   `json:"total_in_progress"`
	TotalSubmitted  int   `json:"total_submitted"`
	TotalViolations int64 `json:"total_violations"`
}

// MonitorSnapshot is the first message an admin receives on the live monitor.
type MonitorSnapshot struct {
	ExamID         uuid.UUID        `json:"exam_id"`
	Title          string           `json:"title"`
	Duration       int              `json:"duration_minutes"`
	TotalQuestions int              `json:"total_questions"`
	Stats          MonitorStats     `json:"stats"`
	Students       []MonitorStudent `json:"students"`
}
