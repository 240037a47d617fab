package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/database"
	"github.com/examhall/examhall-backend/internal/export"
	"github.com/examhall/examhall-backend/internal/logger"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func resultsCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "results <exam-code>",
		Short: "Print the ranked results of an exam, optionally writing an xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.Setup("warn", cfg.LogFormat)

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			pool, err := database.NewPostgresPool(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			exam, err := repository.NewExamRepository(pool).GetByCode(ctx, service.NormalizeExamCode(args[0]))
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("no exam with code %q", args[0])
				}
				return err
			}

			responses, err := repository.NewResponseRepository(pool).ListByExam(ctx, exam.ID)
			if err != nil {
				return err
			}
			rows := export.ResultRows(responses, time.Local)

			color.Cyan("\n=== %s (%s) ===", exam.Title, exam.ExamCode)
			if len(rows) == 0 {
				color.Yellow("No submissions yet.")
				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Rank", "Roll Number", "Name", "Marks", "Percentage", "Submitted At", "Type", "Violations"})
			for _, r := range rows {
				table.Append([]string{
					strconv.Itoa(r.Rank),
					r.RollNumber,
					r.FullName,
					fmt.Sprintf("%d/%d", r.TotalMarks, r.MaxMarks),
					fmt.Sprintf("%.2f%%", r.Percentage),
					r.SubmittedAt,
					r.SubmissionType,
					strconv.Itoa(r.TabSwitches + r.FullscreenExits),
				})
			}
			table.Render()

			if outFile != "" {
				data, err := export.ResultsWorkbook(rows)
				if err != nil {
					return err
				}
				if err := os.WriteFile(outFile, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", outFile, err)
				}
				color.Green("Wrote %s", outFile)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Also write the results workbook to this path")
	return cmd
}
