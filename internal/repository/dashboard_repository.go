package repository

import (
	"context"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository handles admin dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the dashboard.
// A nil examID aggregates across every exam.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context, examID *uuid.UUID) (*model.DashboardSummary, error) {
	s := &model.DashboardSummary{}
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM exams WHERE $1::uuid IS NULL OR id = $1),
			(SELECT COUNT(*) FROM exams WHERE is_active AND ($1::uuid IS NULL OR id = $1)),
			(SELECT COUNT(*) FROM students WHERE $1::uuid IS NULL OR exam_id = $1),
			(SELECT COUNT(*) FROM students WHERE has_attempted AND ($1::uuid IS NULL OR exam_id = $1)),
			(SELECT COUNT(*) FROM questions WHERE $1::uuid IS NULL OR exam_id = $1)`,
		examID,
	).Scan(&s.TotalExams, &s.ActiveExams, &s.TotalStudents, &s.Attempted, &s.TotalQuestions)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetTopPerformers returns the highest scoring responses.
func (r *DashboardRepository) GetTopPerformers(ctx context.Context, examID *uuid.UUID, limit int) ([]model.TopPerformer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT exam_id, roll_number, full_name, total_marks, max_marks, percentage
		 FROM responses
		 WHERE $1::uuid IS NULL OR exam_id = $1
		 ORDER BY total_marks DESC, submitted_at ASC
		 LIMIT $2`,
		examID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := []model.TopPerformer{}
	for rows.Next() {
		var p model.TopPerformer
		if err := rows.Scan(&p.ExamID, &p.RollNumber, &p.FullName, &p.TotalMarks, &p.MaxMarks, &p.Percentage); err != nil {
			return nil, err
		}
		top = append(top, p)
	}
	return top, rows.Err()
}
