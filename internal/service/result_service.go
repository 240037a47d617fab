package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ResultService exposes graded responses to administrators.
type ResultService struct {
	exams     ExamStore
	responses ResponseStore
	log       zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(exams ExamStore, responses ResponseStore, log zerolog.Logger) *ResultService {
	return &ResultService{
		exams:     exams,
		responses: responses,
		log:       log.With().Str("component", "result_service").Logger(),
	}
}

// ListByExam returns an exam's results ranked by total marks.
func (s *ResultService) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Response, error) {
	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		return nil, examErr(err)
	}
	return s.responses.ListByExam(ctx, examID)
}

// Get returns one result with its per-question breakdown.
func (s *ResultService) Get(ctx context.Context, id uuid.UUID) (*model.Response, error) {
	resp, err := s.responses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return resp, nil
}

// Delete removes a result and reopens the student's attempt, allowing exactly one retake.
func (s *ResultService) Delete(ctx context.Context, id uuid.UUID) error {
	studentID, err := s.responses.DeleteAndReset(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResultNotFound
		}
		return fmt.Errorf("delete result: %w", err)
	}

	evt := s.log.Info().Str("response_id", id.String())
	if studentID != nil {
		evt = evt.Str("student_id", studentID.String())
	}
	evt.Msg("Result deleted, attempt reopened")
	return nil
}
