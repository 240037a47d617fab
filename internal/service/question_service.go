package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/examhall/examhall-backend/internal/grading"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaperInvalidator drops cached papers after question changes.
type PaperInvalidator interface {
	InvalidatePaper(ctx context.Context, examID uuid.UUID)
}

// QuestionService handles admin question management.
type QuestionService struct {
	exams     ExamStore
	questions QuestionStore
	papers    PaperInvalidator
	log       zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(exams ExamStore, questions QuestionStore, papers PaperInvalidator, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		exams:     exams,
		questions: questions,
		papers:    papers,
		log:       log.With().Str("component", "question_service").Logger(),
	}
}

// ListByExam returns the full questions of an exam, correct answers included.
func (s *QuestionService) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		return nil, examErr(err)
	}
	return s.questions.ListByExam(ctx, examID)
}

// Create adds a question to an exam.
func (s *QuestionService) Create(ctx context.Context, examID uuid.UUID, req *model.QuestionRequest) (*model.Question, error) {
	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		return nil, examErr(err)
	}

	q := req.ToQuestion(examID)
	if err := prepareQuestion(q); err != nil {
		return nil, err
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	s.papers.InvalidatePaper(ctx, examID)
	return q, nil
}

// Update replaces a question's content.
func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, req *model.QuestionRequest) (*model.Question, error) {
	q := req.ToQuestion(uuid.Nil)
	q.ID = id
	if err := prepareQuestion(q); err != nil {
		return nil, err
	}

	if err := s.questions.Update(ctx, q); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("update question: %w", err)
	}

	s.papers.InvalidatePaper(ctx, q.ExamID)
	return q, nil
}

// Delete removes a question.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	examID, err := s.questions.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("delete question: %w", err)
	}

	s.papers.InvalidatePaper(ctx, examID)
	return nil
}

// prepareQuestion trims text fields and checks multiple choice options.
func prepareQuestion(q *model.Question) error {
	q.QuestionText = strings.TrimSpace(q.QuestionText)
	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)

	if q.QuestionType != model.QuestionTypeMultipleChoice {
		q.Options = []string{}
		return nil
	}

	opts := make([]string, 0, len(q.Options))
	hasAnswer := false
	for _, o := range q.Options {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if grading.IsCorrect(o, q.CorrectAnswer) {
			hasAnswer = true
		}
		opts = append(opts, o)
	}
	if len(opts) < 2 || !hasAnswer {
		return ErrInvalidOptions
	}
	q.Options = opts
	return nil
}
