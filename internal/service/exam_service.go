package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultDurationMinutes = 60

// ExamService handles exam business logic and the redacted paper cache.
type ExamService struct {
	exams     ExamStore
	questions QuestionStore
	papers    PaperCache
	paperTTL  time.Duration
	log       zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	exams ExamStore,
	questions QuestionStore,
	papers PaperCache,
	paperTTL time.Duration,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		exams:     exams,
		questions: questions,
		papers:    papers,
		paperTTL:  paperTTL,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

func examErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrExamNotFound
	case errors.Is(err, repository.ErrDuplicateExamCode):
		return ErrDuplicateExamCode
	}
	return err
}

// NormalizeExamCode trims and lower-cases an exam code.
func NormalizeExamCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// GetByID retrieves an exam by its UUID.
func (s *ExamService) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		return nil, examErr(err)
	}
	return exam, nil
}

// GetByCode retrieves an exam by its code, case-insensitively.
func (s *ExamService) GetByCode(ctx context.Context, code string) (*model.Exam, error) {
	exam, err := s.exams.GetByCode(ctx, NormalizeExamCode(code))
	if err != nil {
		return nil, examErr(err)
	}
	return exam, nil
}

// List returns every exam.
func (s *ExamService) List(ctx context.Context) ([]model.Exam, error) {
	return s.exams.List(ctx)
}

// Create validates and stores a new exam.
func (s *ExamService) Create(ctx context.Context, req *model.CreateExamRequest) (*model.Exam, error) {
	exam := &model.Exam{
		ExamCode:        NormalizeExamCode(req.ExamCode),
		Title:           strings.TrimSpace(req.Title),
		DurationMinutes: req.DurationMinutes,
		IsActive:        req.IsActive,
		Instructions:    strings.TrimSpace(req.Instructions),
	}
	if !validator.IsExamCode(exam.ExamCode) {
		return nil, ErrInvalidExamCode
	}
	if exam.DurationMinutes <= 0 {
		exam.DurationMinutes = defaultDurationMinutes
	}
	if exam.Instructions == "" {
		exam.Instructions = model.DefaultInstructions
	}

	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", examErr(err))
	}
	s.log.Info().Str("exam_id", exam.ID.String()).Str("exam_code", exam.ExamCode).Msg("Exam created")
	return exam, nil
}

// Update applies the non-nil fields of req.
func (s *ExamService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateExamRequest) (*model.Exam, error) {
	exam, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		exam.Title = strings.TrimSpace(*req.Title)
	}
	if req.DurationMinutes != nil {
		exam.DurationMinutes = *req.DurationMinutes
	}
	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}
	if req.Instructions != nil {
		exam.Instructions = strings.TrimSpace(*req.Instructions)
	}

	if err := s.exams.Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("update exam: %w", examErr(err))
	}
	s.InvalidatePaper(ctx, id)
	return exam, nil
}

// SetActive opens or closes an exam for student logins.
func (s *ExamService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.Exam, error) {
	if err := s.exams.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("set active: %w", examErr(err))
	}
	s.log.Info().Str("exam_id", id.String()).Bool("is_active", active).Msg("Exam availability changed")
	return s.GetByID(ctx, id)
}

// Delete removes an exam and everything attached to it.
func (s *ExamService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.exams.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete exam: %w", examErr(err))
	}
	s.InvalidatePaper(ctx, id)
	return nil
}

// Paper returns the student-facing question list of an exam, served from
// the cache when possible. Correct answers are never part of it.
func (s *ExamService) Paper(ctx context.Context, examID uuid.UUID) (*model.ExamPaper, error) {
	if paper, ok, err := s.papers.Get(ctx, examID); err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID.String()).Msg("Paper cache read failed")
	} else if ok {
		return paper, nil
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	paper := &model.ExamPaper{
		ExamID:    examID,
		Questions: make([]model.QuestionForStudent, 0, len(questions)),
	}
	for i := range questions {
		paper.Questions = append(paper.Questions, questions[i].ForStudent())
	}

	if err := s.papers.Set(ctx, paper, s.paperTTL); err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID.String()).Msg("Paper cache write failed")
	}
	return paper, nil
}

// InvalidatePaper drops the cached paper so the next read rebuilds it.
func (s *ExamService) InvalidatePaper(ctx context.Context, examID uuid.UUID) {
	if err := s.papers.Invalidate(ctx, examID); err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID.String()).Msg("Paper cache invalidation failed")
	}
}
