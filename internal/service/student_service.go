package service

import (
	"context"
	"fmt"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StudentService handles administrative student management.
type StudentService struct {
	exams    ExamStore
	students StudentStore
	events   AttemptEventStore
	auth     *AuthService
	log      zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(exams ExamStore, students StudentStore, events AttemptEventStore, auth *AuthService, log zerolog.Logger) *StudentService {
	return &StudentService{
		exams:    exams,
		students: students,
		events:   events,
		auth:     auth,
		log:      log.With().Str("component", "student_service").Logger(),
	}
}

// ListByExam returns the students registered against an exam.
func (s *StudentService) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Student, error) {
	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		return nil, examErr(err)
	}
	return s.students.ListByExam(ctx, examID)
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	st, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, studentErr(err)
	}
	return st, nil
}

// Delete removes a student and ends any session they hold.
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.students.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete student: %w", studentErr(err))
	}
	if err := s.auth.RevokeStudentSession(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("student_id", id.String()).Msg("Session revoke failed")
	}
	return nil
}

// Events returns the integrity events recorded for a student.
func (s *StudentService) Events(ctx context.Context, id uuid.UUID) ([]model.AttemptEvent, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.events.ListByStudent(ctx, id)
}
