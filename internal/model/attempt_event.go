package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptEventType is an integrity signal reported by the exam client.
type AttemptEventType string

const (
	EventTabSwitch      AttemptEventType = "tab_switch"
	EventFullscreenExit AttemptEventType = "fullscreen_exit"
)

// AttemptEvent is one recorded integrity signal.
type AttemptEvent struct {
	ID         int64            `json:"id"`
	ExamID     uuid.UUID        `json:"exam_id"`
	StudentID  uuid.UUID        `json:"student_id"`
	EventType  AttemptEventType `json:"event_type"`
	RecordedAt time.Time        `json:"recorded_at"`
}

// ReportEventRequest is the payload for reporting an integrity event.
type ReportEventRequest struct {
	EventType AttemptEventType `json:"eventType" binding:"required,oneof=tab_switch fullscreen_exit"`
}

// MonitorEvent is published to the exam's live monitor channel.
type MonitorEvent struct {
	Type       string    `json:"type"`
	ExamID     uuid.UUID `json:"exam_id"`
	StudentID  uuid.UUID `json:"student_id"`
	RollNumber string    `json:"roll_number"`
	FullName   string    `json:"full_name"`
	Detail     string    `json:"detail,omitempty"`
	At         time.Time `json:"at"`
}

const (
	MonitorLogin     = "login"
	MonitorStarted   = "started"
	MonitorSubmitted = "submitted"
	MonitorViolation = "violation"
)
