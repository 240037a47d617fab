package repository

import (
	"context"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MonitorRepository provides data access for the live exam monitor.
type MonitorRepository struct {
	pool *pgxpool.Pool
}

// NewMonitorRepository creates a new MonitorRepository.
func NewMonitorRepository(pool *pgxpool.Pool) *MonitorRepository {
	return &MonitorRepository{pool: pool}
}

// ViolationCounts holds per-type integrity event counts for one student.
type ViolationCounts struct {
	TabSwitches     int64
	FullscreenExits int64
}

// GetViolationCounts returns integrity event counts for every student of the exam
// who has at least one recorded event.
func (r *MonitorRepository) GetViolationCounts(ctx context.Context, examID uuid.UUID) (map[uuid.UUID]ViolationCounts, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT student_id,
		        COUNT(*) FILTER (WHERE event_type = $2),
		        COUNT(*) FILTER (WHERE event_type = $3)
		 FROM attempt_events
		 WHERE exam_id = $1
		 GROUP BY student_id`,
		examID, string(model.EventTabSwitch), string(model.EventFullscreenExit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]ViolationCounts)
	for rows.Next() {
		var sid uuid.UUID
		var vc ViolationCounts
		if err := rows.Scan(&sid, &vc.TabSwitches, &vc.FullscreenExits); err != nil {
			return nil, err
		}
		counts[sid] = vc
	}
	return counts, rows.Err()
}

// CountQuestions returns how many questions the exam has.
func (r *MonitorRepository) CountQuestions(ctx context.Context, examID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE exam_id = $1`, examID,
	).Scan(&n)
	return n, err
}
