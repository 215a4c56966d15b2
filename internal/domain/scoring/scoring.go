// Package scoring implements the pure score math of the review scheduler:
// action transforms, rotation bonus, and the session recency penalty. All
// functions are deterministic given their inputs and never fail.
package scoring

import "math"

// Score bounds for the persistent base priority.
const (
	ScoreFloor   = 1.0
	ScoreCeiling = 100.0
)

// Action is a review outcome chosen by the user.
type Action string

const (
	ActionLessOften   Action = "less-often"
	ActionOK          Action = "ok"
	ActionMoreOften   Action = "more-often"
	ActionPriorityMax Action = "priority-max"
	ActionFinished    Action = "finished"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionLessOften, ActionOK, ActionMoreOften, ActionPriorityMax, ActionFinished:
		return true
	}
	return false
}

// Params configures the engine. Zero values are not usable; construct via
// config defaults.
type Params struct {
	// DefaultScore seeds lazily created stats records.
	DefaultScore float64

	// RapprochementFactor is the fraction of the gap toward the floor or
	// ceiling closed by less-often / more-often, in (0, 1).
	RapprochementFactor float64

	// RotationBonus is added to every other item's bonus on each counted
	// review.
	RotationBonus float64

	// SessionPenaltyWeight scales how many less-often applications the
	// session recency penalty performs per prior in-session review.
	SessionPenaltyWeight float64
}

// Clamp constrains a score to [ScoreFloor, ScoreCeiling].
func Clamp(score float64) float64 {
	return math.Min(ScoreCeiling, math.Max(ScoreFloor, score))
}

// Engine computes scores. It holds parameters only; no state.
type Engine struct {
	params Params
}

// NewEngine creates an engine with the given parameters.
func NewEngine(params Params) Engine {
	return Engine{params: params}
}

// Params returns the engine's parameters.
func (e Engine) Params() Params {
	return e.params
}

// ApplyAction returns the new base score after one review action. The
// result is clamped to [1, 100]. Finished leaves the score untouched.
func (e Engine) ApplyAction(currentScore float64, action Action) float64 {
	switch action {
	case ActionLessOften:
		return Clamp(currentScore - e.params.RapprochementFactor*(currentScore-ScoreFloor))
	case ActionMoreOften:
		return Clamp(currentScore + e.params.RapprochementFactor*(ScoreCeiling-currentScore))
	case ActionPriorityMax:
		return ScoreCeiling
	default:
		// ok, finished: unchanged.
		return Clamp(currentScore)
	}
}

// EffectiveScore ranks an item for selection: base plus rotation bonus,
// reduced by the session recency penalty. sessionReviews is the number of
// counted reviews of this item earlier in the current session.
//
// The penalty applies the less-often transform round(n*w) whole times.
// It is never persisted.
func (e Engine) EffectiveScore(base, rotationBonus float64, sessionReviews int) float64 {
	effective := base + rotationBonus
	if sessionReviews <= 0 {
		return effective
	}
	reps := int(math.Round(float64(sessionReviews) * e.params.SessionPenaltyWeight))
	for i := 0; i < reps; i++ {
		effective -= e.params.RapprochementFactor * (effective - ScoreFloor)
	}
	return effective
}

// RotationBonusDelta is the amount added to every other item's rotation
// bonus when a counted review occurs.
func (e Engine) RotationBonusDelta() float64 {
	return e.params.RotationBonus
}
