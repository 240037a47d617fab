package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/examhall/examhall-backend/internal/grading"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/rs/zerolog"
)

// SubmissionService grades and records a student's final answers.
type SubmissionService struct {
	students  StudentStore
	questions QuestionStore
	responses ResponseStore
	monitor   MonitorPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	students StudentStore,
	questions QuestionStore,
	responses ResponseStore,
	monitor MonitorPublisher,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		students:  students,
		questions: questions,
		responses: responses,
		monitor:   monitor,
		log:       log.With().Str("component", "submission_service").Logger(),
		now:       time.Now,
	}
}

// Submit grades the answers against the stored question bank and records the
// result. A second submission for the same attempt fails with ErrAlreadySubmitted.
// The caller learns nothing about the score.
func (s *SubmissionService) Submit(ctx context.Context, claims *Claims, req *model.SubmitRequest) error {
	student, err := s.students.GetByID(ctx, claims.StudentUUID())
	if err != nil {
		return studentErr(err)
	}
	if student.State() == model.AttemptSubmitted {
		return ErrAlreadySubmitted
	}
	if !student.CanSubmit() {
		return ErrNotLoggedIn
	}

	questions, err := s.questions.ListByExam(ctx, student.ExamID)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}

	answers := make([]grading.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, grading.Answer{QuestionID: a.QuestionID, GivenAnswer: string(a.GivenAnswer)})
	}

	submittedAt := s.now().UTC()
	result := grading.Grade(questions, answers, student.ExamStartTime, submittedAt)

	subType := req.SubmissionType
	if !subType.Valid() {
		subType = model.SubmissionManual
	}

	studentID := student.ID
	resp := &model.Response{
		ExamID:              student.ExamID,
		StudentID:           &studentID,
		RollNumber:          student.RollNumber,
		FullName:            student.FullName,
		Answers:             result.Answers,
		TotalMarks:          result.TotalMarks,
		MaxMarks:            result.MaxMarks,
		Percentage:          result.Percentage,
		SubmissionType:      subType,
		TabSwitchCount:      max(req.TabSwitchCount, 0),
		FullscreenExitCount: max(req.FullscreenExitCount, 0),
		ExamStartTime:       student.ExamStartTime,
		ExamEndTime:         submittedAt,
		TimeTakenSeconds:    result.TimeTakenSeconds,
		SubmittedAt:         submittedAt,
	}

	if err := s.responses.CompleteAttempt(ctx, resp); err != nil {
		if errors.Is(err, repository.ErrAlreadySubmitted) {
			return ErrAlreadySubmitted
		}
		return fmt.Errorf("store response: %w", err)
	}

	s.log.Info().
		Str("student_id", student.ID.String()).
		Str("submission_type", string(subType)).
		Int("total_marks", result.TotalMarks).
		Int("max_marks", result.MaxMarks).
		Msg("Exam submitted")
	publishMonitor(ctx, s.monitor, s.log, model.MonitorSubmitted, student, string(subType))
	return nil
}
