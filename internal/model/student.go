package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AttemptState is the lifecycle position of one student on one exam.
type AttemptState string

const (
	AttemptNotLoggedIn AttemptState = "NOT_LOGGED_IN"
	AttemptLoggedIn    AttemptState = "LOGGED_IN"
	AttemptInProgress  AttemptState = "IN_PROGRESS"
	AttemptSubmitted   AttemptState = "SUBMITTED"
)

// Student is a roll number registered against exactly one exam.
// The pair (ExamID, RollNumber) is unique.
type Student struct {
	ID            uuid.UUID  `json:"id"`
	ExamID        uuid.UUID  `json:"exam_id"`
	RollNumber    string     `json:"roll_number"`
	FullName      string     `json:"full_name"`
	HasAttempted  bool       `json:"has_attempted"`
	LoginTime     *time.Time `json:"login_time"`
	ExamStartTime *time.Time `json:"exam_start_time"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// State derives the attempt state from the persisted fields.
func (s *Student) State() AttemptState {
	switch {
	case s == nil:
		return AttemptNotLoggedIn
	case s.HasAttempted:
		return AttemptSubmitted
	case s.ExamStartTime != nil:
		return AttemptInProgress
	case s.LoginTime != nil:
		return AttemptLoggedIn
	default:
		return AttemptNotLoggedIn
	}
}

// CanFetchQuestions reports whether the student may receive the paper.
func (s *Student) CanFetchQuestions() bool {
	st := s.State()
	return st == AttemptLoggedIn || st == AttemptInProgress
}

// CanSubmit reports whether a submission would be accepted. Students who never
// fetched the paper may still submit; their time taken is left empty.
func (s *Student) CanSubmit() bool {
	return s.CanFetchQuestions()
}

// NormalizeRollNumber trims and upper-cases a roll number.
func NormalizeRollNumber(roll string) string {
	return strings.ToUpper(strings.TrimSpace(roll))
}

// NormalizeFullName trims a student's name.
func NormalizeFullName(name string) string {
	return strings.TrimSpace(name)
}

// StudentLoginRequest is the payload for student authentication.
type StudentLoginRequest struct {
	RollNumber string `json:"rollNumber" binding:"required,max=64"`
	FullName   string `json:"fullName" binding:"required,max=255"`
}

// StudentLoginResponse is returned after successful student login.
type StudentLoginResponse struct {
	Token        string       `json:"token"`
	Student      StudentBrief `json:"student"`
	ExamSettings ExamSettings `json:"examSettings"`
}

// StudentBrief is the identity echoed back to a logged-in student.
type StudentBrief struct {
	RollNumber string `json:"rollNumber"`
	FullName   string `json:"fullName"`
}
