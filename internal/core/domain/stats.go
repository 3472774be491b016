package domain

import "time"

type WeeklyStats struct {
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	OverallAvg float64        `json:"overall_average"`
	Sections   []SectionStats `json:"sections"`
}

type SectionStats struct {
	Section      Section   `json:"section"`
	AvgScore     float64   `json:"average_score"`
	BestScore    float64   `json:"best_score"`
	DaysReported int       `json:"days_reported"`
	DailyScores  []float64 `json:"daily_scores"`
}

type StatsInput struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
	Location  *time.Location
}
