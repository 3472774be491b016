package services

import (
	"context"
	"time"

	"github.com/hamzakhalil/iman-score-engine/internal/core/domain"
)

type StatsService struct {
	repo domain.SnapshotRepository
}

func NewStatsService(repo domain.SnapshotRepository) *StatsService {
	return &StatsService{repo: repo}
}

// GetWeeklyStats aggregates the mirrored snapshots of a date range into
// per-section averages. Days without a snapshot count as zero, matching the
// use-it-or-lose-it reading of the score.
func (s *StatsService) GetWeeklyStats(ctx context.Context, input domain.StatsInput) (*domain.WeeklyStats, error) {
	if input.UserID == "" {
		return nil, domain.ErrInvalidUserID
	}

	startDate := input.StartDate.Truncate(24 * time.Hour)
	endDate := input.EndDate.Truncate(24 * time.Hour)

	snaps, err := s.repo.ListByUserAndRange(ctx, input.UserID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	// Latest score per section per day; pushes within a day overwrite.
	scoreMap := make(map[domain.Section]map[string]float64)
	for _, snap := range snaps {
		dateKey := snap.PeriodDate.Format("2006-01-02")
		if _, exists := scoreMap[snap.Section]; !exists {
			scoreMap[snap.Section] = make(map[string]float64)
		}
		scoreMap[snap.Section][dateKey] = snap.Score
	}

	stats := &domain.WeeklyStats{
		StartDate: startDate.Format("2006-01-02"),
		EndDate:   endDate.Format("2006-01-02"),
		Sections:  make([]domain.SectionStats, 0, len(domain.Sections)),
	}

	var sectionAvgSum float64

	for _, section := range domain.Sections {
		sStats := domain.SectionStats{
			Section:     section,
			DailyScores: make([]float64, 0),
		}

		days := 0
		var total float64

		currentDate := startDate
		for !currentDate.After(endDate) {
			dateKey := currentDate.Format("2006-01-02")

			score, reported := scoreMap[section][dateKey]
			if reported {
				sStats.DaysReported++
			}
			if score > sStats.BestScore {
				sStats.BestScore = score
			}

			sStats.DailyScores = append(sStats.DailyScores, score)
			total += score
			days++

			currentDate = currentDate.AddDate(0, 0, 1)
		}

		if days > 0 {
			sStats.AvgScore = total / float64(days)
		}
		sectionAvgSum += sStats.AvgScore

		stats.Sections = append(stats.Sections, sStats)
	}

	if len(domain.Sections) > 0 {
		stats.OverallAvg = sectionAvgSum / float64(len(domain.Sections))
	}

	return stats, nil
}
