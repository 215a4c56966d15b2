package stats

import (
	"encoding/json"
	"time"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 2

// HistoryLimit caps the per-project review history. Oldest entries are
// dropped first once the cap is reached.
const HistoryLimit = 100

// ReviewEntry is one appended review outcome. History is observational
// only; selection never reads it.
type ReviewEntry struct {
	Date       string  `json:"date"`
	Action     string  `json:"action"`
	ScoreAfter float64 `json:"scoreAfter"`
}

// ProjectStats holds the durable per-item scheduling state.
type ProjectStats struct {
	// CurrentScore is the persistent base priority, always in [1, 100]
	// after any write.
	CurrentScore float64 `json:"currentScore"`

	// RotationBonus accrues while other items are reviewed and resets to 0
	// on this item's own counted review.
	RotationBonus float64 `json:"rotationBonus"`

	// TotalReviews counts counted reviews only. The first click on a new
	// item is not counted; Seen marks the item as no longer new instead.
	TotalReviews int `json:"totalReviews"`

	// Seen is set on the item's first recorded action. The selector
	// partitions new vs. reviewed on this flag, not on TotalReviews.
	Seen bool `json:"seen"`

	LastReviewDate string        `json:"lastReviewDate,omitempty"`
	ReviewHistory  []ReviewEntry `json:"reviewHistory,omitempty"`
}

// AppendHistory appends an entry, dropping the oldest beyond HistoryLimit.
func (p *ProjectStats) AppendHistory(entry ReviewEntry) {
	p.ReviewHistory = append(p.ReviewHistory, entry)
	if excess := len(p.ReviewHistory) - HistoryLimit; excess > 0 {
		p.ReviewHistory = append([]ReviewEntry(nil), p.ReviewHistory[excess:]...)
	}
}

// GlobalStats aggregates across all items, incremented on counted reviews.
type GlobalStats struct {
	TotalReviews       int     `json:"totalReviews"`
	TotalReviewMinutes float64 `json:"totalReviewMinutes"`
}

// StatsPayload is the whole durable scheduling state, always mutated as a
// unit via load → modify → save.
type StatsPayload struct {
	Projects map[string]*ProjectStats `json:"projects"`
	Global   GlobalStats              `json:"global"`
}

// MigrationFlags gate the one-shot schema migrations. Each flag is set the
// first time its step runs; a set flag makes the step a no-op.
type MigrationFlags struct {
	LegacyStatsMerged bool `json:"legacyStatsMerged,omitempty"`
	ScoresSeeded      bool `json:"scoresSeeded,omitempty"`
	ScoresNormalized  bool `json:"scoresNormalized,omitempty"`
}

// Document is the single versioned persisted document. Settings belong to
// the host and pass through untouched.
type Document struct {
	Version    int             `json:"version"`
	Settings   json.RawMessage `json:"settings,omitempty"`
	Stats      StatsPayload    `json:"stats"`
	Migrations MigrationFlags  `json:"migrations,omitempty"`

	// legacyScores holds item-keyed scores found in a legacy flat layout
	// at decode time. Consumed by migration, never re-persisted.
	legacyScores map[string]float64
}

// NewDocument returns an empty current-version document.
func NewDocument() *Document {
	return &Document{
		Version: CurrentVersion,
		Stats: StatsPayload{
			Projects: map[string]*ProjectStats{},
		},
	}
}

// Project returns the stats record for key, or nil if absent.
func (d *Document) Project(key string) *ProjectStats {
	return d.Stats.Projects[key]
}

func (d *Document) ensureProjects() {
	if d.Stats.Projects == nil {
		d.Stats.Projects = map[string]*ProjectStats{}
	}
}

// FormatDate renders review dates the way they are persisted.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
