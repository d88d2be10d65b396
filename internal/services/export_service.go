package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/quizcraft/quiz-service/internal/repositories"
	"github.com/quizcraft/quiz-service/internal/repositories/postgres"
	"github.com/xuri/excelize/v2"
)

// ExportService produces admin spreadsheets from recorded attempts.
type ExportService interface {
	// ExportQuizAttempts renders every attempt of one quiz into an xlsx workbook.
	ExportQuizAttempts(ctx context.Context, quizID uint) ([]byte, error)

	// ExportLeaderboard renders the current ranking into an xlsx workbook.
	ExportLeaderboard(ctx context.Context, limit int) ([]byte, error)
}

type exportService struct {
	repo        repositories.Repository
	leaderboard LeaderboardService
	logger      *slog.Logger
}

func NewExportService(repo repositories.Repository, leaderboard LeaderboardService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:        repo,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

func (s *exportService) ExportQuizAttempts(ctx context.Context, quizID uint) ([]byte, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	attempts, _, err := s.repo.Attempt().GetByQuiz(ctx, quizID, repositories.AttemptFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Attempts"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Attempt ID", "User ID", "Score", "Passed", "Points Earned",
		"Time Spent (s)", "Time Limit (s)", "End Reason", "Completed At",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write Excel header: %w", err)
		}
	}

	for row, attempt := range attempts {
		values := []interface{}{
			attempt.ID,
			attempt.UserID,
			attempt.Score,
			attempt.Passed,
			attempt.PointsEarned,
			attempt.TimeSpent,
			attempt.TimeLimit,
			string(attempt.EndReason),
			attempt.CompletedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write Excel row: %w", err)
			}
		}
	}

	s.logger.Info("Exported quiz attempts",
		"quiz_id", quizID, "quiz_title", quiz.Title, "rows", len(attempts))

	return writeWorkbook(f)
}

func (s *exportService) ExportLeaderboard(ctx context.Context, limit int) ([]byte, error) {
	rows, err := s.leaderboard.GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leaderboard"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Rank", "User ID", "Name", "Points", "Level", "Badges", "Quizzes Completed"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write Excel header: %w", err)
		}
	}

	for rowIdx, row := range rows {
		values := []interface{}{
			row.Rank, row.UserID, row.Name, row.Points, row.Level, row.BadgeCount, row.QuizzesCompleted,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write Excel row: %w", err)
			}
		}
	}

	return writeWorkbook(f)
}

func writeWorkbook(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
