package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SubmissionType records what caused a submission.
type SubmissionType string

const (
	SubmissionManual         SubmissionType = "manual"
	SubmissionAutoTimer      SubmissionType = "auto_timer"
	SubmissionAutoTabSwitch  SubmissionType = "auto_tab_switch"
	SubmissionAutoFullscreen SubmissionType = "auto_fullscreen"
)

// Valid reports whether t is one of the known submission causes.
func (t SubmissionType) Valid() bool {
	switch t {
	case SubmissionManual, SubmissionAutoTimer, SubmissionAutoTabSwitch, SubmissionAutoFullscreen:
		return true
	}
	return false
}

// EvaluatedAnswer is the per-question grading breakdown kept for audit.
type EvaluatedAnswer struct {
	QuestionID   uuid.UUID `json:"question_id"`
	QuestionText string    `json:"question_text"`
	GivenAnswer  string    `json:"given_answer"`
	IsCorrect    bool      `json:"is_correct"`
	MarksAwarded int       `json:"marks_awarded"`
}

// Response is the immutable graded record of one completed attempt.
type Response struct {
	ID                  uuid.UUID         `json:"id"`
	ExamID              uuid.UUID         `json:"exam_id"`
	StudentID           *uuid.UUID        `json:"student_id"`
	RollNumber          string            `json:"roll_number"`
	FullName            string            `json:"full_name"`
	Answers             []EvaluatedAnswer `json:"answers,omitempty"`
	TotalMarks          int               `json:"total_marks"`
	MaxMarks            int               `json:"max_marks"`
	Percentage          float64           `json:"percentage"`
	SubmissionType      SubmissionType    `json:"submission_type"`
	TabSwitchCount      int               `json:"tab_switch_count"`
	FullscreenExitCount int               `json:"fullscreen_exit_count"`
	ExamStartTime       *time.Time        `json:"exam_start_time"`
	ExamEndTime         time.Time         `json:"exam_end_time"`
	TimeTakenSeconds    *int64            `json:"time_taken_seconds"`
	SubmittedAt         time.Time         `json:"submitted_at"`
}

// SubmittedAnswer is one answer as posted by the client.
type SubmittedAnswer struct {
	QuestionID  string     `json:"questionId"`
	GivenAnswer AnswerText `json:"givenAnswer" binding:"max=5000"`
}

// SubmitRequest is the payload for submitting an exam.
type SubmitRequest struct {
	Answers             []SubmittedAnswer `json:"answers" binding:"max=1000,dive"`
	SubmissionType      SubmissionType    `json:"submissionType" binding:"omitempty,oneof=manual auto_timer auto_tab_switch auto_fullscreen"`
	TabSwitchCount      int               `json:"tabSwitchCount" binding:"min=0"`
	FullscreenExitCount int               `json:"fullscreenExitCount" binding:"min=0"`
}

// AnswerText is a given answer as text. Number inputs post bare JSON numbers
// and toggles post booleans; both keep their literal spelling.
type AnswerText string

func (a *AnswerText) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		*a = ""
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*a = AnswerText(s)
	case bytes.Equal(raw, []byte("true")), bytes.Equal(raw, []byte("false")):
		*a = AnswerText(raw)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("answer must be a string, number or boolean: %w", err)
		}
		*a = AnswerText(n.String())
	}
	return nil
}
