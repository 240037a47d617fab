package service

import (
	"context"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
)

// The interfaces below are satisfied by the pgx repositories in internal/repository
// and by in-memory fakes in tests.

type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	GetByCode(ctx context.Context, code string) (*model.Exam, error)
	List(ctx context.Context) ([]model.Exam, error)
	Create(ctx context.Context, e *model.Exam) error
	Update(ctx context.Context, e *model.Exam) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type QuestionStore interface {
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	Create(ctx context.Context, q *model.Question) error
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

type StudentStore interface {
	UpsertForLogin(ctx context.Context, examID uuid.UUID, rollNumber, fullName string) (*model.Student, error)
	MarkStarted(ctx context.Context, id uuid.UUID) (*model.Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Student, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ResponseStore interface {
	CompleteAttempt(ctx context.Context, resp *model.Response) error
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Response, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Response, error)
	DeleteAndReset(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
}

type AttemptEventStore interface {
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.AttemptEvent, error)
}

type DashboardStore interface {
	GetSummaryCounts(ctx context.Context, examID *uuid.UUID) (*model.DashboardSummary, error)
	GetTopPerformers(ctx context.Context, examID *uuid.UUID, limit int) ([]model.TopPerformer, error)
}

type MonitorStore interface {
	GetViolationCounts(ctx context.Context, examID uuid.UUID) (map[uuid.UUID]repository.ViolationCounts, error)
	CountQuestions(ctx context.Context, examID uuid.UUID) (int, error)
}

// SessionRegistry remembers the token id of each student's current login.
type SessionRegistry interface {
	Register(ctx context.Context, studentID uuid.UUID, jti string, ttl time.Duration) error
	// Current returns "" when the student has no registered session.
	Current(ctx context.Context, studentID uuid.UUID) (string, error)
	Revoke(ctx context.Context, studentID uuid.UUID) error
}

// PaperCache stores redacted exam papers.
type PaperCache interface {
	Get(ctx context.Context, examID uuid.UUID) (*model.ExamPaper, bool, error)
	Set(ctx context.Context, paper *model.ExamPaper, ttl time.Duration) error
	Invalidate(ctx context.Context, examID uuid.UUID) error
}

// MonitorPublisher fans attempt lifecycle events out to live monitors.
type MonitorPublisher interface {
	Publish(ctx context.Context, evt model.MonitorEvent) error
}

// EventQueue buffers integrity events for the background writer.
type EventQueue interface {
	Enqueue(ctx context.Context, evt model.AttemptEvent) error
}
