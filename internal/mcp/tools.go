package mcp

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ganot/rota/internal/domain/scoring"
	"github.com/ganot/rota/internal/domain/selector"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools registers the scheduler tool surface on the MCP server.
func registerTools(server *sdkmcp.Server, svcs Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_next",
		Description: "Pick the next item due for review from the supplied eligible candidates",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params SelectNextParams) (*sdkmcp.CallToolResult, SelectNextResult, error) {
		candidates := make([]selector.Candidate, 0, len(params.Candidates))
		for _, cand := range params.Candidates {
			parsed := selector.Candidate{
				Key:               cand.Key,
				DisplayName:       cand.DisplayName,
				BaseScoreOverride: cand.BaseScoreOverride,
			}
			if cand.LastKnownTimestamp != "" {
				ts, err := time.Parse(time.RFC3339, cand.LastKnownTimestamp)
				if err != nil {
					return nil, SelectNextResult{}, fmt.Errorf("invalid last_known_timestamp for %q: %w", cand.Key, err)
				}
				parsed.LastKnownTimestamp = &ts
			}
			candidates = append(candidates, parsed)
		}

		key, err := svcs.Selector.SelectNext(ctx, svcs.Session, candidates)
		if err != nil {
			return nil, SelectNextResult{}, mapError(err)
		}
		return nil, SelectNextResult{Key: key}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "record_action",
		Description: "Record the outcome of a review (less-often, ok, more-often, priority-max, finished) and persist the score change",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params RecordActionParams) (*sdkmcp.CallToolResult, ProjectStatsResult, error) {
		rec, err := svcs.Review.RecordAction(ctx, svcs.Session, params.Key, scoring.Action(params.Action))
		if err != nil {
			return nil, ProjectStatsResult{}, mapError(err)
		}
		return nil, projectStatsResult(params.Key, rec), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_stats",
		Description: "Get the persisted statistics for one item, creating a default record on first access",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params GetStatsParams) (*sdkmcp.CallToolResult, ProjectStatsResult, error) {
		rec, err := svcs.Stats.GetOrCreate(ctx, params.Key, nil)
		if err != nil {
			return nil, ProjectStatsResult{}, mapError(err)
		}
		return nil, projectStatsResult(params.Key, rec), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "load_all_stats",
		Description: "Load the full statistics payload for reporting and charting",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params LoadAllStatsParams) (*sdkmcp.CallToolResult, LoadAllStatsResult, error) {
		doc, err := svcs.Stats.Load(ctx)
		if err != nil {
			return nil, LoadAllStatsResult{}, mapError(err)
		}
		result := LoadAllStatsResult{
			Projects: make([]ProjectStatsResult, 0, len(doc.Stats.Projects)),
			Global:   doc.Stats.Global,
		}
		for key, rec := range doc.Stats.Projects {
			result.Projects = append(result.Projects, projectStatsResult(key, rec))
		}
		sort.Slice(result.Projects, func(i, j int) bool {
			return result.Projects[i].Key < result.Projects[j].Key
		})
		return nil, result, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ignore_item",
		Description: "Skip an item for the remainder of this session",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params IgnoreItemParams) (*sdkmcp.CallToolResult, IgnoreItemResult, error) {
		svcs.Session.Ignore(params.Key)
		return nil, IgnoreItemResult{Status: "ignored"}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_timed_activity",
		Description: "Start the single timed review countdown; a no-op if one is already running",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params StartTimedActivityParams) (*sdkmcp.CallToolResult, StartTimedActivityResult, error) {
		if params.DurationMS <= 0 {
			return nil, StartTimedActivityResult{}, fmt.Errorf("duration_ms must be positive")
		}
		id, started := svcs.Session.StartTimedActivity(time.Duration(params.DurationMS) * time.Millisecond)
		return nil, StartTimedActivityResult{ActivityID: id, Started: started}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "cancel_timed_activity",
		Description: "Cancel the running timed review countdown, if any",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params CancelTimedActivityParams) (*sdkmcp.CallToolResult, CancelTimedActivityResult, error) {
		svcs.Session.CancelTimedActivity()
		return nil, CancelTimedActivityResult{Status: "cancelled"}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "tick_timed_activity",
		Description: "Report countdown progress of the timed review, if one is active",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params TickTimedActivityParams) (*sdkmcp.CallToolResult, TickTimedActivityResult, error) {
		now := time.Now()
		if params.Now != "" {
			parsed, err := time.Parse(time.RFC3339, params.Now)
			if err != nil {
				return nil, TickTimedActivityResult{}, fmt.Errorf("invalid now timestamp: %w", err)
			}
			now = parsed
		}
		status, active := svcs.Session.TickTimedActivity(now)
		if !active {
			return nil, TickTimedActivityResult{Active: false}, nil
		}
		return nil, TickTimedActivityResult{
			Active:          true,
			ActivityID:      status.ActivityID,
			RemainingMS:     status.RemainingMS,
			PercentComplete: status.PercentComplete,
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_review_minutes",
		Description: "Add completed review minutes to the global aggregates",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params AddReviewMinutesParams) (*sdkmcp.CallToolResult, AddReviewMinutesResult, error) {
		if params.Minutes < 0 {
			return nil, AddReviewMinutesResult{}, fmt.Errorf("minutes must not be negative")
		}
		if err := svcs.Review.AddReviewMinutes(ctx, params.Minutes); err != nil {
			return nil, AddReviewMinutesResult{}, mapError(err)
		}
		return nil, AddReviewMinutesResult{Status: "ok"}, nil
	})
}
