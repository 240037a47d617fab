package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaperSource supplies redacted exam papers.
type PaperSource interface {
	Paper(ctx context.Context, examID uuid.UUID) (*model.ExamPaper, error)
}

// QuestionsPayload is what a student receives when the exam starts.
type QuestionsPayload struct {
	Questions     []model.QuestionForStudent `json:"questions"`
	ExamSettings  model.ExamSettings         `json:"examSettings"`
	ExamStartTime *time.Time                 `json:"examStartTime"`
}

// AttemptService drives a student from login to the start of the exam.
type AttemptService struct {
	exams    ExamStore
	students StudentStore
	papers   PaperSource
	auth     *AuthService
	monitor  MonitorPublisher
	log      zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	exams ExamStore,
	students StudentStore,
	papers PaperSource,
	auth *AuthService,
	monitor MonitorPublisher,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		exams:    exams,
		students: students,
		papers:   papers,
		auth:     auth,
		monitor:  monitor,
		log:      log.With().Str("component", "attempt_service").Logger(),
	}
}

// Login registers a student against an active exam and issues their token.
// Students who already submitted are refused.
func (s *AttemptService) Login(ctx context.Context, examCode, rollNumber, fullName string) (*model.StudentLoginResponse, error) {
	roll := model.NormalizeRollNumber(rollNumber)
	name := model.NormalizeFullName(fullName)
	if roll == "" || name == "" {
		return nil, ErrInvalidStudentInput
	}

	exam, err := s.exams.GetByCode(ctx, NormalizeExamCode(examCode))
	if err != nil {
		return nil, examErr(err)
	}
	if !exam.IsActive {
		return nil, ErrExamInactive
	}

	student, err := s.students.UpsertForLogin(ctx, exam.ID, roll, name)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyAttempted) {
			return nil, ErrAlreadyAttempted
		}
		return nil, fmt.Errorf("register student: %w", err)
	}

	token, err := s.auth.GenerateStudentToken(ctx, student, exam)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("exam_code", exam.ExamCode).
		Str("roll_number", student.RollNumber).
		Msg("Student logged in")
	s.publish(ctx, model.MonitorLogin, student, "")

	return &model.StudentLoginResponse{
		Token:        token,
		Student:      model.StudentBrief{RollNumber: student.RollNumber, FullName: student.FullName},
		ExamSettings: exam.Settings(),
	}, nil
}

// Questions returns the redacted paper and starts the exam clock on first call.
func (s *AttemptService) Questions(ctx context.Context, claims *Claims) (*QuestionsPayload, error) {
	student, err := s.students.GetByID(ctx, claims.StudentUUID())
	if err != nil {
		return nil, studentErr(err)
	}
	if student.State() == model.AttemptSubmitted {
		return nil, ErrAlreadySubmitted
	}
	if !student.CanFetchQuestions() {
		return nil, ErrNotLoggedIn
	}

	exam, err := s.exams.GetByID(ctx, student.ExamID)
	if err != nil {
		return nil, examErr(err)
	}

	if student.ExamStartTime == nil {
		started, err := s.students.MarkStarted(ctx, student.ID)
		if err != nil {
			if errors.Is(err, repository.ErrAlreadyAttempted) {
				return nil, ErrAlreadySubmitted
			}
			return nil, studentErr(err)
		}
		student = started
		s.publish(ctx, model.MonitorStarted, student, "")
	}

	paper, err := s.papers.Paper(ctx, exam.ID)
	if err != nil {
		return nil, err
	}

	return &QuestionsPayload{
		Questions:     paper.Questions,
		ExamSettings:  exam.Settings(),
		ExamStartTime: student.ExamStartTime,
	}, nil
}

func (s *AttemptService) publish(ctx context.Context, kind string, student *model.Student, detail string) {
	publishMonitor(ctx, s.monitor, s.log, kind, student, detail)
}

// publishMonitor is best effort: a monitor outage never fails the student request.
func publishMonitor(ctx context.Context, pub MonitorPublisher, log zerolog.Logger, kind string, student *model.Student, detail string) {
	if pub == nil {
		return
	}
	evt := model.MonitorEvent{
		Type:       kind,
		ExamID:     student.ExamID,
		StudentID:  student.ID,
		RollNumber: student.RollNumber,
		FullName:   student.FullName,
		Detail:     detail,
		At:         time.Now().UTC(),
	}
	if err := pub.Publish(ctx, evt); err != nil {
		log.Warn().Err(err).Str("type", kind).Msg("Monitor publish failed")
	}
}

func studentErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrStudentNotFound
	}
	return err
}
