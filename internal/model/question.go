package model

import (
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "mcq"
	QuestionTypeFillIn         QuestionType = "fill"
)

// Question represents a single exam question including its authoritative answer.
// It must never be serialized to a student-facing endpoint; use ForStudent.
type Question struct {
	ID            uuid.UUID    `json:"id"`
	ExamID        uuid.UUID    `json:"exam_id"`
	QuestionText  string       `json:"question_text"`
	QuestionType  QuestionType `json:"question_type"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Marks         int          `json:"marks"`
	OrderNum      int          `json:"order_num"`
	ImageURL      *string      `json:"image_url,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// QuestionForStudent is a question without the correct answer.
type QuestionForStudent struct {
	ID           uuid.UUID    `json:"id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	Options      []string     `json:"options"`
	Marks        int          `json:"marks"`
	OrderNum     int          `json:"order_num"`
	ImageURL     *string      `json:"image_url,omitempty"`
}

// ForStudent strips the correct answer.
func (q *Question) ForStudent() QuestionForStudent {
	opts := q.Options
	if opts == nil {
		opts = []string{}
	}
	return QuestionForStudent{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		QuestionType: q.QuestionType,
		Options:      opts,
		Marks:        q.Marks,
		OrderNum:     q.OrderNum,
		ImageURL:     q.ImageURL,
	}
}

// DefaultMarks is awarded when a question request leaves marks out.
const DefaultMarks = 1

// MarksOf returns n as a QuestionRequest.Marks value.
func MarksOf(n int) *int { return &n }

// QuestionRequest is the payload for creating or replacing a question.
type QuestionRequest struct {
	QuestionText  string   `json:"question_text" binding:"required,min=1,max=5000"`
	QuestionType  string   `json:"question_type" binding:"required,oneof=mcq fill"`
	Options       []string `json:"options" binding:"required_if=QuestionType mcq,max=10,dive,required,max=1000"`
	CorrectAnswer string   `json:"correct_answer" binding:"required,max=1000"`
	Marks         *int     `json:"marks" binding:"omitempty,min=0,max=1000"`
	OrderNum      int      `json:"order_num" binding:"min=0"`
	ImageURL      *string  `json:"image_url" binding:"omitempty,max=512"`
}

// ToQuestion builds a Question for the given exam, applying defaults.
func (r *QuestionRequest) ToQuestion(examID uuid.UUID) *Question {
	q := &Question{
		ExamID:        examID,
		QuestionText:  r.QuestionText,
		QuestionType:  QuestionType(r.QuestionType),
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		Marks:         DefaultMarks,
		OrderNum:      r.OrderNum,
		ImageURL:      r.ImageURL,
	}
	if r.Marks != nil {
		q.Marks = *r.Marks
	}
	if q.QuestionType == QuestionTypeFillIn || q.Options == nil {
		q.Options = []string{}
	}
	return q
}
