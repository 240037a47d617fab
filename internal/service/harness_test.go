package service

import (
	"context"
	"testing"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type harness struct {
	store       *memStore
	sessions    *memSessions
	papers      *memPapers
	pub         *recordingPublisher
	auth        *AuthService
	exams       *ExamService
	questions   *QuestionService
	attempts    *AttemptService
	submissions *SubmissionService
	results     *ResultService
	students    *StudentService
	events      *EventService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		store:    newMemStore(),
		sessions: newMemSessions(),
		papers:   newMemPapers(),
		pub:      &recordingPublisher{},
	}
	log := zerolog.Nop()

	auth, err := NewAuthService(testConfig(), h.sessions)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	h.auth = auth

	exams := memExams{h.store}
	questions := memQuestions{h.store}
	students := memStudents{h.store}
	responses := memResponses{h.store}
	events := memEvents{h.store}

	h.exams = NewExamService(exams, questions, h.papers, testConfig().PaperCacheTTL, log)
	h.questions = NewQuestionService(exams, questions, h.exams, log)
	h.attempts = NewAttemptService(exams, students, h.exams, h.auth, h.pub, log)
	h.submissions = NewSubmissionService(students, questions, responses, h.pub, log)
	h.results = NewResultService(exams, responses, log)
	h.students = NewStudentService(exams, students, events, h.auth, log)
	h.events = NewEventService(students, events, h.pub, log)
	return h
}

// seedExam creates an active exam with a fill-in and a multiple choice question.
func (h *harness) seedExam(t *testing.T, code string) (*model.Exam, []model.Question) {
	t.Helper()
	ctx := context.Background()

	exam, err := h.exams.Create(ctx, &model.CreateExamRequest{
		ExamCode:        code,
		Title:           "General Knowledge",
		DurationMinutes: 30,
		IsActive:        true,
	})
	if err != nil {
		t.Fatalf("create exam: %v", err)
	}

	fill, err := h.questions.Create(ctx, exam.ID, &model.QuestionRequest{
		QuestionText:  "Capital of France?",
		QuestionType:  "fill",
		CorrectAnswer: "Paris",
		Marks:         model.MarksOf(2),
		OrderNum:      1,
	})
	if err != nil {
		t.Fatalf("create fill question: %v", err)
	}

	mcq, err := h.questions.Create(ctx, exam.ID, &model.QuestionRequest{
		QuestionText:  "2 + 2 = ?",
		QuestionType:  "mcq",
		Options:       []string{"3", "4", "5"},
		CorrectAnswer: "4",
		Marks:         model.MarksOf(3),
		OrderNum:      2,
	})
	if err != nil {
		t.Fatalf("create mcq question: %v", err)
	}

	return exam, []model.Question{*fill, *mcq}
}

// login logs a student in and returns the validated claims of their token.
func (h *harness) login(t *testing.T, code, roll, name string) *Claims {
	t.Helper()
	res, err := h.attempts.Login(context.Background(), code, roll, name)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := h.auth.ValidateToken(res.Token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	return claims
}

func answersFor(qs []model.Question, given ...string) []model.SubmittedAnswer {
	out := make([]model.SubmittedAnswer, 0, len(given))
	for i, g := range given {
		out = append(out, model.SubmittedAnswer{QuestionID: qs[i].ID.String(), GivenAnswer: model.AnswerText(g)})
	}
	return out
}

func (h *harness) onlyResponse(t *testing.T, examID uuid.UUID) model.Response {
	t.Helper()
	list, err := h.results.ListByExam(context.Background(), examID)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one response, got %d", len(list))
	}
	return list[0]
}
