package repository

import (
	"context"
	"errors"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const studentColumns = `id, exam_id, roll_number, full_name, has_attempted, login_time, exam_start_time, created_at, updated_at`

// StudentRepository handles student (exam registration) data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func scanStudent(row pgx.Row, s *model.Student) error {
	return row.Scan(&s.ID, &s.ExamID, &s.RollNumber, &s.FullName, &s.HasAttempted,
		&s.LoginTime, &s.ExamStartTime, &s.CreatedAt, &s.UpdatedAt)
}

// UpsertForLogin registers or re-stamps a student's login for an exam.
// The row is only written while the student has not attempted the exam;
// otherwise ErrAlreadyAttempted is returned and nothing changes.
func (r *StudentRepository) UpsertForLogin(ctx context.Context, examID uuid.UUID, rollNumber, fullName string) (*model.Student, error) {
	s := &model.Student{}
	err := scanStudent(r.pool.QueryRow(ctx,
		`INSERT INTO students (exam_id, roll_number, full_name, login_time)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (exam_id, roll_number) DO UPDATE
		 SET full_name = EXCLUDED.full_name, login_time = NOW(), updated_at = NOW()
		 WHERE students.has_attempted = FALSE
		 RETURNING `+studentColumns,
		examID, rollNumber, fullName), s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlreadyAttempted
		}
		return nil, err
	}
	return s, nil
}

// MarkStarted stamps exam_start_time the first time the paper is fetched.
// Later calls leave the original start time in place. Returns ErrAlreadyAttempted
// for submitted students and ErrNotFound for unknown ids.
func (r *StudentRepository) MarkStarted(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	s := &model.Student{}
	err := scanStudent(r.pool.QueryRow(ctx,
		`UPDATE students
		 SET exam_start_time = COALESCE(exam_start_time, NOW()), updated_at = NOW()
		 WHERE id = $1 AND has_attempted = FALSE
		 RETURNING `+studentColumns, id), s)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	existing, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if existing.HasAttempted {
		return nil, ErrAlreadyAttempted
	}
	return nil, ErrNotFound
}

// GetByID retrieves a student by its UUID.
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	s := &model.Student{}
	if err := scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id), s); err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// ListByExam returns the students registered against an exam, newest first.
func (r *StudentRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+`
		 FROM students WHERE exam_id = $1
		 ORDER BY created_at DESC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Delete removes a student. Their response, if any, keeps its snapshot with student_id cleared.
func (r *StudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
