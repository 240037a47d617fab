package repository

import (
	"context"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const examColumns = `id, exam_code, title, duration_minutes, is_active, instructions, created_at, updated_at`

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

func scanExam(row pgx.Row) (*model.Exam, error) {
	e := &model.Exam{}
	err := row.Scan(&e.ID, &e.ExamCode, &e.Title, &e.DurationMinutes, &e.IsActive,
		&e.Instructions, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
}

// GetByCode retrieves an exam by its lowercase code.
func (r *ExamRepository) GetByCode(ctx context.Context, code string) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE exam_code = $1`, code))
}

// List returns every exam, newest first.
func (r *ExamRepository) List(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exams := []model.Exam{}
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.ExamCode, &e.Title, &e.DurationMinutes, &e.IsActive,
			&e.Instructions, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exams (exam_code, title, duration_minutes, is_active, instructions)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		e.ExamCode, e.Title, e.DurationMinutes, e.IsActive, e.Instructions,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateExamCode
		}
		return err
	}
	return nil
}

// Update writes the mutable fields of an exam.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE exams
		 SET title = $1, duration_minutes = $2, is_active = $3, instructions = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING updated_at`,
		e.Title, e.DurationMinutes, e.IsActive, e.Instructions, e.ID,
	).Scan(&e.UpdatedAt)
	return notFound(err)
}

// SetActive toggles whether students may log in.
func (r *ExamRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exams SET is_active = $1, updated_at = NOW() WHERE id = $2`,
		active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an exam along with its questions, students, responses and events.
func (r *ExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
