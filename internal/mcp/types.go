package mcp

import "github.com/ganot/rota/internal/domain/stats"

// CandidateParam is one eligible item supplied by the caller.
type CandidateParam struct {
	Key                string   `json:"key"`
	DisplayName        string   `json:"display_name,omitempty"`
	BaseScoreOverride  *float64 `json:"base_score_override,omitempty"`
	LastKnownTimestamp string   `json:"last_known_timestamp,omitempty"`
}

type SelectNextParams struct {
	Candidates []CandidateParam `json:"candidates"`
}

type SelectNextResult struct {
	Key string `json:"key"`
}

type RecordActionParams struct {
	Key    string `json:"key"`
	Action string `json:"action"`
}

type GetStatsParams struct {
	Key string `json:"key"`
}

// ProjectStatsResult mirrors the durable per-item record.
type ProjectStatsResult struct {
	Key            string              `json:"key"`
	CurrentScore   float64             `json:"current_score"`
	RotationBonus  float64             `json:"rotation_bonus"`
	TotalReviews   int                 `json:"total_reviews"`
	Seen           bool                `json:"seen"`
	LastReviewDate string              `json:"last_review_date,omitempty"`
	ReviewHistory  []stats.ReviewEntry `json:"review_history,omitempty"`
}

type LoadAllStatsParams struct{}

type LoadAllStatsResult struct {
	Projects []ProjectStatsResult `json:"projects"`
	Global   stats.GlobalStats    `json:"global"`
}

type IgnoreItemParams struct {
	Key string `json:"key"`
}

type IgnoreItemResult struct {
	Status string `json:"status"`
}

type StartTimedActivityParams struct {
	DurationMS int64 `json:"duration_ms"`
}

type StartTimedActivityResult struct {
	ActivityID string `json:"activity_id"`
	Started    bool   `json:"started"`
}

type CancelTimedActivityParams struct{}

type CancelTimedActivityResult struct {
	Status string `json:"status"`
}

type TickTimedActivityParams struct {
	// Now overrides the clock instant used for the tick (RFC 3339).
	Now string `json:"now,omitempty"`
}

type TickTimedActivityResult struct {
	Active          bool    `json:"active"`
	ActivityID      string  `json:"activity_id,omitempty"`
	RemainingMS     int64   `json:"remaining_ms,omitempty"`
	PercentComplete float64 `json:"percent_complete,omitempty"`
}

type AddReviewMinutesParams struct {
	Minutes float64 `json:"minutes"`
}

type AddReviewMinutesResult struct {
	Status string `json:"status"`
}

func projectStatsResult(key string, rec *stats.ProjectStats) ProjectStatsResult {
	return ProjectStatsResult{
		Key:            key,
		CurrentScore:   rec.CurrentScore,
		RotationBonus:  rec.RotationBonus,
		TotalReviews:   rec.TotalReviews,
		Seen:           rec.Seen,
		LastReviewDate: rec.LastReviewDate,
		ReviewHistory:  rec.ReviewHistory,
	}
}
