package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const responseSummaryColumns = `id, exam_id, student_id, roll_number, full_name, total_marks, max_marks,
	percentage, submission_type, tab_switch_count, fullscreen_exit_count,
	exam_start_time, exam_end_time, time_taken_seconds, submitted_at`

// ResponseRepository handles graded response data access.
type ResponseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository creates a new ResponseRepository.
func NewResponseRepository(pool *pgxpool.Pool) *ResponseRepository {
	return &ResponseRepository{pool: pool}
}

func responseSummaryDest(r *model.Response) []interface{} {
	return []interface{}{&r.ID, &r.ExamID, &r.StudentID, &r.RollNumber, &r.FullName,
		&r.TotalMarks, &r.MaxMarks, &r.Percentage, &r.SubmissionType,
		&r.TabSwitchCount, &r.FullscreenExitCount, &r.ExamStartTime, &r.ExamEndTime,
		&r.TimeTakenSeconds, &r.SubmittedAt}
}

// CompleteAttempt flips the student to submitted and stores the graded response
// in a single transaction. It returns ErrAlreadySubmitted when the student was
// already marked as attempted, so at most one response exists per attempt.
func (r *ResponseRepository) CompleteAttempt(ctx context.Context, resp *model.Response) error {
	if resp.StudentID == nil {
		return fmt.Errorf("complete attempt: missing student id")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked uuid.UUID
	err = tx.QueryRow(ctx,
		`UPDATE students SET has_attempted = TRUE, updated_at = NOW()
		 WHERE id = $1 AND has_attempted = FALSE
		 RETURNING id`, *resp.StudentID,
	).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAlreadySubmitted
		}
		return fmt.Errorf("mark attempted: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO responses (exam_id, student_id, roll_number, full_name, answers, total_marks, max_marks,
		                        percentage, submission_type, tab_switch_count, fullscreen_exit_count,
		                        exam_start_time, exam_end_time, time_taken_seconds, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		resp.ExamID, resp.StudentID, resp.RollNumber, resp.FullName, resp.Answers,
		resp.TotalMarks, resp.MaxMarks, resp.Percentage, resp.SubmissionType,
		resp.TabSwitchCount, resp.FullscreenExitCount, resp.ExamStartTime, resp.ExamEndTime,
		resp.TimeTakenSeconds, resp.SubmittedAt,
	).Scan(&resp.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadySubmitted
		}
		return fmt.Errorf("insert response: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListByExam returns the results of an exam ranked by total marks (ties by earliest submission).
// The per-question breakdown is not loaded.
func (r *ResponseRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Response, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+responseSummaryColumns+`
		 FROM responses WHERE exam_id = $1
		 ORDER BY total_marks DESC, submitted_at ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []model.Response{}
	for rows.Next() {
		var resp model.Response
		if err := rows.Scan(responseSummaryDest(&resp)...); err != nil {
			return nil, err
		}
		results = append(results, resp)
	}
	return results, rows.Err()
}

// GetByID returns a single response including its per-question breakdown.
func (r *ResponseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Response, error) {
	resp := &model.Response{}
	dest := append(responseSummaryDest(resp), &resp.Answers)
	err := r.pool.QueryRow(ctx,
		`SELECT `+responseSummaryColumns+`, answers FROM responses WHERE id = $1`, id,
	).Scan(dest...)
	if err != nil {
		return nil, notFound(err)
	}
	return resp, nil
}

// DeleteAndReset removes a response and, in the same transaction, reopens the
// attempt of the student it belonged to so they can sit the exam once more.
func (r *ResponseRepository) DeleteAndReset(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var studentID *uuid.UUID
	err = tx.QueryRow(ctx,
		`DELETE FROM responses WHERE id = $1 RETURNING student_id`, id,
	).Scan(&studentID)
	if err != nil {
		return nil, notFound(err)
	}

	if studentID != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE students
			 SET has_attempted = FALSE, exam_start_time = NULL, updated_at = NOW()
			 WHERE id = $1`, *studentID); err != nil {
			return nil, fmt.Errorf("reset student: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return studentID, nil
}
