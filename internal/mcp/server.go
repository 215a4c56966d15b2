package mcp

import (
	"context"
	"log/slog"

	"github.com/ganot/rota/internal/domain/scoring"
	"github.com/ganot/rota/internal/domain/selector"
	"github.com/ganot/rota/internal/domain/session"
	"github.com/ganot/rota/internal/domain/stats"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `rota schedules long-lived projects for periodic review.
Call select_next with the eligible candidates to get the item due for review,
present it, then report the outcome with record_action. New items are served
first; reviewed items rotate by effective score. Items can be muted for the
rest of the session with ignore_item. A single countdown for a timed review
is available via start_timed_activity / tick_timed_activity /
cancel_timed_activity.`

// SelectorService defines selection operations needed by MCP.
type SelectorService interface {
	SelectNext(ctx context.Context, sess *session.Context, candidates []selector.Candidate) (string, error)
}

// ReviewService defines review operations needed by MCP.
type ReviewService interface {
	RecordAction(ctx context.Context, sess *session.Context, key string, action scoring.Action) (*stats.ProjectStats, error)
	AddReviewMinutes(ctx context.Context, minutes float64) error
}

// StatsStore defines stats store operations needed by MCP.
type StatsStore interface {
	Load(ctx context.Context) (*stats.Document, error)
	GetOrCreate(ctx context.Context, key string, seed *float64) (*stats.ProjectStats, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Selector SelectorService
	Review   ReviewService
	Stats    StatsStore
	Session  *session.Context
}

// Config contains server configuration.
type Config struct {
	Services      Services
	AuthEnabled   bool
	AuthToken     string
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "rota",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	// Stdio mode is local only and never authenticated.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.AuthToken))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
