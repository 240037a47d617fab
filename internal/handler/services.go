package handler

import (
	"context"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/service"
)

// The exam portal depends on these narrow views of the services so handler
// tests can drive it without a database.

// StudentAttempts is implemented by *service.AttemptService.
type StudentAttempts interface {
	Login(ctx context.Context, examCode, rollNumber, fullName string) (*model.StudentLoginResponse, error)
	Questions(ctx context.Context, claims *service.Claims) (*service.QuestionsPayload, error)
}

// Submitter is implemented by *service.SubmissionService.
type Submitter interface {
	Submit(ctx context.Context, claims *service.Claims, req *model.SubmitRequest) error
}

// EventReporter is implemented by *service.EventService.
type EventReporter interface {
	Report(ctx context.Context, claims *service.Claims, eventType model.AttemptEventType) error
}
