package repository

import (
	"context"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttemptEventRepository handles integrity event data access.
type AttemptEventRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptEventRepository creates a new AttemptEventRepository.
func NewAttemptEventRepository(pool *pgxpool.Pool) *AttemptEventRepository {
	return &AttemptEventRepository{pool: pool}
}

// ListByStudent returns a student's recorded events in chronological order.
func (r *AttemptEventRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.AttemptEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, student_id, event_type, recorded_at
		 FROM attempt_events WHERE student_id = $1
		 ORDER BY recorded_at`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.AttemptEvent{}
	for rows.Next() {
		var e model.AttemptEvent
		if err := rows.Scan(&e.ID, &e.ExamID, &e.StudentID, &e.EventType, &e.RecordedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// BulkInsert copies a batch of events in one round trip.
func (r *AttemptEventRepository) BulkInsert(ctx context.Context, events []model.AttemptEvent) (int64, error) {
	return r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"attempt_events"},
		[]string{"exam_id", "student_id", "event_type", "recorded_at"},
		pgx.CopyFromSlice(len(events), func(i int) ([]interface{}, error) {
			e := events[i]
			at := e.RecordedAt
			if at.IsZero() {
				at = time.Now()
			}
			return []interface{}{e.ExamID, e.StudentID, string(e.EventType), at}, nil
		}),
	)
}

// Insert stores a single event. Used when a bulk copy is rejected.
func (r *AttemptEventRepository) Insert(ctx context.Context, e model.AttemptEvent) error {
	at := e.RecordedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attempt_events (exam_id, student_id, event_type, recorded_at)
		 VALUES ($1, $2, $3, $4)`,
		e.ExamID, e.StudentID, string(e.EventType), at)
	return err
}
