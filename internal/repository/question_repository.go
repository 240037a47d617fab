package repository

import (
	"context"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const questionColumns = `id, exam_id, question_text, question_type, options, correct_answer,
	marks, order_num, image_url, created_at, updated_at`

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func scanQuestion(row pgx.Row, q *model.Question) error {
	return row.Scan(&q.ID, &q.ExamID, &q.QuestionText, &q.QuestionType, &q.Options,
		&q.CorrectAnswer, &q.Marks, &q.OrderNum, &q.ImageURL, &q.CreatedAt, &q.UpdatedAt)
}

// ListByExam retrieves all questions of an exam ordered by order_num, then creation time.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions WHERE exam_id = $1
		 ORDER BY order_num, created_at`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	if err := scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id), q); err != nil {
		return nil, notFound(err)
	}
	return q, nil
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (exam_id, question_text, question_type, options, correct_answer, marks, order_num, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		q.ExamID, q.QuestionText, q.QuestionType, q.Options, q.CorrectAnswer, q.Marks, q.OrderNum, q.ImageURL,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// Update replaces the content of an existing question. ExamID is filled from storage.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE questions
		 SET question_text = $1, question_type = $2, options = $3, correct_answer = $4,
		     marks = $5, order_num = $6, image_url = $7, updated_at = NOW()
		 WHERE id = $8
		 RETURNING exam_id, created_at, updated_at`,
		q.QuestionText, q.QuestionType, q.Options, q.CorrectAnswer, q.Marks, q.OrderNum, q.ImageURL, q.ID,
	).Scan(&q.ExamID, &q.CreatedAt, &q.UpdatedAt)
	return notFound(err)
}

// Delete removes a question and returns the exam it belonged to.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var examID uuid.UUID
	err := r.pool.QueryRow(ctx,
		`DELETE FROM questions WHERE id = $1 RETURNING exam_id`, id,
	).Scan(&examID)
	return examID, notFound(err)
}
