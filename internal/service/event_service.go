package service

import (
	"context"
	"fmt"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/rs/zerolog"
)

// EventService accepts integrity events from students taking an exam.
type EventService struct {
	students StudentStore
	queue    EventQueue
	monitor  MonitorPublisher
	log      zerolog.Logger
}

// NewEventService creates a new EventService.
func NewEventService(students StudentStore, queue EventQueue, monitor MonitorPublisher, log zerolog.Logger) *EventService {
	return &EventService{
		students: students,
		queue:    queue,
		monitor:  monitor,
		log:      log.With().Str("component", "event_service").Logger(),
	}
}

// Report queues an event for persistence and notifies live monitors.
func (s *EventService) Report(ctx context.Context, claims *Claims, eventType model.AttemptEventType) error {
	student, err := s.students.GetByID(ctx, claims.StudentUUID())
	if err != nil {
		return studentErr(err)
	}
	if student.State() == model.AttemptSubmitted {
		return ErrAlreadySubmitted
	}
	if !student.CanFetchQuestions() {
		return ErrNotLoggedIn
	}

	evt := model.AttemptEvent{
		ExamID:     student.ExamID,
		StudentID:  student.ID,
		EventType:  eventType,
		RecordedAt: time.Now().UTC(),
	}
	if err := s.queue.Enqueue(ctx, evt); err != nil {
		return fmt.Errorf("enqueue event: %w", err)
	}

	publishMonitor(ctx, s.monitor, s.log, model.MonitorViolation, student, string(eventType))
	return nil
}
