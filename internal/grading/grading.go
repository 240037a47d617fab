// Package grading scores submitted answers against an authoritative question bank.
//
// Grade is a pure function: it performs no I/O and never trusts anything the
// client says about correctness or marks.
package grading

import (
	"math"
	"strings"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
)

// Answer is a client answer keyed by the question id string the client sent.
type Answer struct {
	QuestionID  string
	GivenAnswer string
}

// Result is the scored outcome of one submission.
type Result struct {
	Answers          []model.EvaluatedAnswer
	TotalMarks       int
	MaxMarks         int
	Percentage       float64
	TimeTakenSeconds *int64
}

// Normalize trims surrounding whitespace and lower-cases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsCorrect compares a given answer with the authoritative one,
// case-insensitive and ignoring surrounding whitespace.
func IsCorrect(given, correct string) bool {
	return Normalize(given) == Normalize(correct)
}

// Grade scores answers against questions.
//
// Answers whose question id is malformed or not in the bank are dropped.
// A question answered more than once counts only its first answer.
// MaxMarks sums the marks of every resolved question; TotalMarks sums only
// the correct ones. Percentage is 0 when MaxMarks is 0.
func Grade(questions []model.Question, answers []Answer, startedAt *time.Time, submittedAt time.Time) Result {
	bank := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		bank[questions[i].ID] = &questions[i]
	}

	seen := make(map[uuid.UUID]struct{}, len(answers))
	res := Result{Answers: make([]model.EvaluatedAnswer, 0, len(answers))}

	for _, a := range answers {
		id, err := uuid.Parse(strings.TrimSpace(a.QuestionID))
		if err != nil {
			continue
		}
		q, ok := bank[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		marks := q.Marks
		if marks < 0 {
			marks = 0
		}
		res.MaxMarks += marks

		ev := model.EvaluatedAnswer{
			QuestionID:   q.ID,
			QuestionText: q.QuestionText,
			GivenAnswer:  a.GivenAnswer,
			IsCorrect:    IsCorrect(a.GivenAnswer, q.CorrectAnswer),
		}
		if ev.IsCorrect {
			ev.MarksAwarded = marks
			res.TotalMarks += marks
		}
		res.Answers = append(res.Answers, ev)
	}

	res.Percentage = Percentage(res.TotalMarks, res.MaxMarks)
	res.TimeTakenSeconds = TimeTaken(startedAt, submittedAt)
	return res
}

// Percentage returns total/max*100 rounded to two decimals, or 0 when max is 0.
func Percentage(total, max int) float64 {
	if max <= 0 {
		return 0
	}
	p := float64(total) / float64(max) * 100
	return math.Round(p*100) / 100
}

// TimeTaken returns whole seconds between start and end, or nil without a start.
// A clock skew that puts end before start yields 0.
func TimeTaken(start *time.Time, end time.Time) *int64 {
	if start == nil {
		return nil
	}
	secs := int64(math.Floor(end.Sub(*start).Seconds()))
	if secs < 0 {
		secs = 0
	}
	return &secs
}
