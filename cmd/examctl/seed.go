package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/database"
	"github.com/examhall/examhall-backend/internal/logger"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var demoQuestions = []model.QuestionRequest{
	{QuestionText: "What is the capital of France?", QuestionType: "fill", CorrectAnswer: "Paris", Marks: model.MarksOf(1)},
	{QuestionText: "2 + 2 = ?", QuestionType: "mcq", Options: []string{"3", "4", "5", "22"}, CorrectAnswer: "4", Marks: model.MarksOf(1)},
	{QuestionText: "Which planet is known as the Red Planet?", QuestionType: "mcq", Options: []string{"Venus", "Mars", "Jupiter"}, CorrectAnswer: "Mars", Marks: model.MarksOf(2)},
	{QuestionText: "Chemical symbol for water?", QuestionType: "fill", CorrectAnswer: "H2O", Marks: model.MarksOf(2)},
	{QuestionText: "How many continents are there?", QuestionType: "mcq", Options: []string{"5", "6", "7", "8"}, CorrectAnswer: "7", Marks: model.MarksOf(1)},
}

var demoNames = []string{
	"Asha Mensah", "Bruno Costa", "Chen Wei", "Dana Levi", "Emeka Obi",
	"Farah Haddad", "Gustav Berg", "Hana Sato", "Ivan Petrov", "Julia Rossi",
}

func seedDemoCmd() *cobra.Command {
	var (
		code     string
		students int
	)

	cmd := &cobra.Command{
		Use:   "seed-demo",
		Short: "Create an active demo exam with sample questions and registered students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			pool, err := database.NewPostgresPool(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			rdb, err := database.NewRedisClient(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer rdb.Close()

			examRepo := repository.NewExamRepository(pool)
			questionRepo := repository.NewQuestionRepository(pool)
			studentRepo := repository.NewStudentRepository(pool)

			examService := service.NewExamService(examRepo, questionRepo, service.NewRedisPaperCache(rdb), cfg.PaperCacheTTL, log)
			questionService := service.NewQuestionService(examRepo, questionRepo, examService, log)

			exam, err := examService.Create(ctx, &model.CreateExamRequest{
				ExamCode:        code,
				Title:           "General Knowledge Demo",
				DurationMinutes: 30,
				IsActive:        true,
			})
			if err != nil {
				if errors.Is(err, service.ErrDuplicateExamCode) {
					return fmt.Errorf("exam code %q already exists, pick another with --code", code)
				}
				return err
			}
			color.Green("Created exam %s (%s)", exam.ExamCode, exam.ID)

			for i := range demoQuestions {
				req := demoQuestions[i]
				req.OrderNum = i + 1
				if _, err := questionService.Create(ctx, exam.ID, &req); err != nil {
					return fmt.Errorf("question %d: %w", i+1, err)
				}
			}
			fmt.Printf("Added %d questions\n", len(demoQuestions))

			for i := 0; i < students; i++ {
				roll := fmt.Sprintf("DEMO%03d", i+1)
				name := demoNames[i%len(demoNames)]
				if _, err := studentRepo.UpsertForLogin(ctx, exam.ID, roll, name); err != nil {
					return fmt.Errorf("student %s: %w", roll, err)
				}
			}
			if students > 0 {
				fmt.Printf("Registered %d students (DEMO001..DEMO%03d)\n", students, students)
			}

			color.Cyan("Students log in at POST /api/student/%s/login", exam.ExamCode)
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "demo-gk", "Exam code for the demo exam")
	cmd.Flags().IntVar(&students, "students", 0, "Number of demo students to register")
	return cmd
}
