package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
)

func TestSubmit_GradesAgainstStoredAnswers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exam, qs := h.seedExam(t, "gk-2026")
	claims := h.login(t, "gk-2026", "R1", "Ann")

	if _, err := h.attempts.Questions(ctx, claims); err != nil {
		t.Fatal(err)
	}

	req := &model.SubmitRequest{
		Answers: append(answersFor(qs, "  paris ", "5"),
			model.SubmittedAnswer{QuestionID: uuid.NewString(), GivenAnswer: "ghost"}),
		SubmissionType: model.SubmissionAutoTabSwitch,
		TabSwitchCount: 3,
	}
	if err := h.submissions.Submit(ctx, claims, req); err != nil {
		t.Fatalf("submit: %v", err)
	}

	resp := h.onlyResponse(t, exam.ID)
	if resp.TotalMarks != 2 || resp.MaxMarks != 5 {
		t.Fatalf("marks = %d/%d, want 2/5", resp.TotalMarks, resp.MaxMarks)
	}
	if resp.Percentage != 40 {
		t.Fatalf("percentage = %v, want 40", resp.Percentage)
	}
	if resp.SubmissionType != model.SubmissionAutoTabSwitch || resp.TabSwitchCount != 3 {
		t.Fatalf("unexpected integrity fields: %+v", resp)
	}
	if resp.TimeTakenSeconds == nil || resp.ExamStartTime == nil {
		t.Fatal("time taken should be recorded once the exam started")
	}
	if len(resp.Answers) != 2 {
		t.Fatalf("breakdown has %d entries, want 2", len(resp.Answers))
	}
	if resp.RollNumber != "R1" || resp.FullName != "Ann" {
		t.Fatalf("identity snapshot missing: %+v", resp)
	}
}

func TestSubmit_WithoutStartLeavesTimeEmpty(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exam, qs := h.seedExam(t, "gk-2026")
	claims := h.login(t, "gk-2026", "R1", "Ann")

	if err := h.submissions.Submit(ctx, claims, &model.SubmitRequest{Answers: answersFor(qs, "Paris", "4")}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	resp := h.onlyResponse(t, exam.ID)
	if resp.TimeTakenSeconds != nil {
		t.Fatalf("time taken = %d, want nil", *resp.TimeTakenSeconds)
	}
	if resp.SubmissionType != model.SubmissionManual {
		t.Fatalf("submission type = %q, want manual", resp.SubmissionType)
	}
	if resp.Percentage != 100 {
		t.Fatalf("percentage = %v, want 100", resp.Percentage)
	}
}

func TestSubmit_SecondSubmissionRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exam, qs := h.seedExam(t, "gk-2026")
	claims := h.login(t, "gk-2026", "R1", "Ann")

	if err := h.submissions.Submit(ctx, claims, &model.SubmitRequest{Answers: answersFor(qs, "x")}); err != nil {
		t.Fatal(err)
	}
	err := h.submissions.Submit(ctx, claims, &model.SubmitRequest{Answers: answersFor(qs, "Paris", "4")})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("err = %v, want ErrAlreadySubmitted", err)
	}

	resp := h.onlyResponse(t, exam.ID)
	if resp.TotalMarks != 0 {
		t.Fatalf("first submission should stand, got total %d", resp.TotalMarks)
	}
	// The token stays current so later requests reach the attempt checks.
	if err := h.auth.ValidateStudentSession(ctx, claims); err != nil {
		t.Fatalf("session after submit: %v", err)
	}
	if _, err := h.attempts.Questions(ctx, claims); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("questions after submit: err = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSubmit_ConcurrentSubmissionsStoreOneResponse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exam, qs := h.seedExam(t, "gk-2026")
	claims := h.login(t, "gk-2026", "R1", "Ann")

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := h.submissions.Submit(ctx, claims, &model.SubmitRequest{Answers: answersFor(qs, "Paris")})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !errors.Is(err, ErrAlreadySubmitted) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("%d submissions succeeded, want 1", successes)
	}
	h.onlyResponse(t, exam.ID)
}

func TestResultDelete_AllowsExactlyOneRetake(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	exam, qs := h.seedExam(t, "gk-2026")

	claims := h.login(t, "gk-2026", "R1", "Ann")
	if _, err := h.attempts.Questions(ctx, claims); err != nil {
		t.Fatal(err)
	}
	if err := h.submissions.Submit(ctx, claims, &model.SubmitRequest{Answers: answersFor(qs, "x")}); err != nil {
		t.Fatal(err)
	}

	resp := h.onlyResponse(t, exam.ID)
	if err := h.results.Delete(ctx, resp.ID); err != nil {
		t.Fatalf("delete result: %v", err)
	}
	if err := h.results.Delete(ctx, resp.ID); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("second delete: err = %v, want ErrResultNotFound", err)
	}

	st, err := h.students.Get(ctx, claims.StudentUUID())
	if err != nil {
		t.Fatal(err)
	}
	if st.State() != model.AttemptLoggedIn || st.ExamStartTime != nil {
		t.Fatalf("student not reset: state %s", st.State())
	}

	retake := h.login(t, "gk-2026", "R1", "Ann")
	if err := h.submissions.Submit(ctx, retake, &model.SubmitRequest{Answers: answersFor(qs, "Paris", "4")}); err != nil {
		t.Fatalf("retake submit: %v", err)
	}
	if got := h.onlyResponse(t, exam.ID); got.TotalMarks != 5 {
		t.Fatalf("retake total = %d, want 5", got.TotalMarks)
	}

	if _, err := h.attempts.Login(ctx, "gk-2026", "R1", "Ann"); !errors.Is(err, ErrAlreadyAttempted) {
		t.Fatalf("third login: err = %v, want ErrAlreadyAttempted", err)
	}
}

func TestReportEvent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedExam(t, "gk-2026")
	claims := h.login(t, "gk-2026", "R1", "Ann")

	if err := h.events.Report(ctx, claims, model.EventTabSwitch); err != nil {
		t.Fatalf("report: %v", err)
	}
	events, err := h.students.Events(ctx, claims.StudentUUID())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].EventType != model.EventTabSwitch {
		t.Fatalf("unexpected events: %+v", events)
	}

	if err := h.submissions.Submit(ctx, claims, &model.SubmitRequest{}); err != nil {
		t.Fatal(err)
	}
	if err := h.events.Report(ctx, claims, model.EventFullscreenExit); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("after submit: err = %v, want ErrAlreadySubmitted", err)
	}
}
