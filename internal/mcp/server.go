package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
	"github.com/streakkeeper/streakkeeper/internal/database"
	"github.com/streakkeeper/streakkeeper/internal/datewindow"
	"github.com/streakkeeper/streakkeeper/internal/usecase"
)

// Options configure the collection the server works on and the defaults
// applied to every tool call.
type Options struct {
	CollectionPath string
	Version        string
	Rollover       int
	AnkiRollover   bool
	Backup         bool
	BackupKeep     int
	Location       *time.Location
	Now            func() time.Time
	Logger         *zap.Logger
}

// Server exposes the migration operations as MCP tools. The collection is
// opened for each call and closed again, so Anki can use it in between.
type Server struct {
	server *mcp.Server
	opts   Options
	logger *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	// Fail early on a wrong path instead of on the first tool call.
	dbCtx, err := database.OpenCollection(context.Background(), opts.CollectionPath)
	if err != nil {
		return nil, err
	}
	_ = database.CloseDatabase(dbCtx)

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "streakkeeper",
		Version: opts.Version,
	}, nil)

	s := &Server{
		server: mcpServer,
		opts:   opts,
		logger: opts.Logger,
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server with stdio transport
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session over t.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "streak_decks",
		Description: "List the decks of the Anki collection with their review count on one day",
	}, s.handleDecks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "streak_plan",
		Description: "Preview moving a day's reviews to another day without changing the collection",
	}, s.handlePlan)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "streak_shift",
		Description: "Move a day's reviews to another day. Anki must be closed. Requires confirm=true",
	}, s.handleShift)
}

// Input/Output types for each tool

type DecksInput struct {
	Day *string `json:"day,omitempty" jsonschema:"Day to count reviews on: YYYY-MM-DD, YYYYMMDD, today or yesterday (default today)"`
}

type PlanInput struct {
	Deck  *string `json:"deck,omitempty" jsonschema:"Deck name, matched case-insensitively and including subdecks; omit for every deck"`
	From  *string `json:"from,omitempty" jsonschema:"Day the reviews were done: YYYY-MM-DD, YYYYMMDD, today or yesterday (default today)"`
	To    *string `json:"to,omitempty" jsonschema:"Day the reviews should move to (default the day before from)"`
	Limit *int    `json:"limit,omitempty" jsonschema:"Move only the earliest N reviews"`
}

type ShiftInput struct {
	Deck    *string `json:"deck,omitempty" jsonschema:"Deck name, matched case-insensitively and including subdecks; omit for every deck"`
	From    *string `json:"from,omitempty" jsonschema:"Day the reviews were done: YYYY-MM-DD, YYYYMMDD, today or yesterday (default today)"`
	To      *string `json:"to,omitempty" jsonschema:"Day the reviews should move to (default the day before from)"`
	Limit   *int    `json:"limit,omitempty" jsonschema:"Move only the earliest N reviews"`
	Backup  *bool   `json:"backup,omitempty" jsonschema:"Copy the collection before writing (default from server settings)"`
	Confirm bool    `json:"confirm,omitempty" jsonschema:"Must be true; the collection is modified"`
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (s *Server) dates(from, to *string) datewindow.Options {
	return datewindow.Options{
		From:     stringValue(from),
		To:       stringValue(to),
		Rollover: s.opts.Rollover,
		Location: s.opts.Location,
		Now:      s.opts.Now,
	}
}

func (s *Server) withCollection(ctx context.Context, fn func(dbCtx *database.Context) error) error {
	dbCtx, err := database.OpenCollection(ctx, s.opts.CollectionPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.CloseDatabase(dbCtx)
	}()
	return fn(dbCtx)
}

// Tool handlers

func (s *Server) handleDecks(ctx context.Context, req *mcp.CallToolRequest, input DecksInput) (*mcp.CallToolResult, usecase.DeckList, error) {
	var list *usecase.DeckList
	err := s.withCollection(ctx, func(dbCtx *database.Context) error {
		var err error
		list, err = usecase.NewCatalog(dbCtx, s.logger).List(ctx, usecase.DeckListInput{
			Dates:        s.dates(input.Day, nil),
			AnkiRollover: s.opts.AnkiRollover,
		})
		return err
	})
	if err != nil {
		return nil, usecase.DeckList{}, fmt.Errorf("failed to list decks: %w", err)
	}
	return nil, *list, nil
}

func (s *Server) handlePlan(ctx context.Context, req *mcp.CallToolRequest, input PlanInput) (*mcp.CallToolResult, usecase.PlanReport, error) {
	migrateInput := usecase.MigrateInput{
		Deck:         stringValue(input.Deck),
		Dates:        s.dates(input.From, input.To),
		Simulate:     true,
		AnkiRollover: s.opts.AnkiRollover,
	}
	if input.Limit != nil {
		migrateInput.Limit = *input.Limit
	}

	var result *usecase.MigrateResult
	err := s.withCollection(ctx, func(dbCtx *database.Context) error {
		var err error
		result, err = usecase.NewMigration(dbCtx, s.logger).Plan(ctx, migrateInput)
		return err
	})
	// A plan where everything collides is still worth showing.
	if err != nil && (result == nil || !errors.Is(err, apperr.ErrTimestampCollision)) {
		return nil, usecase.PlanReport{}, fmt.Errorf("failed to plan migration: %w", err)
	}
	return nil, result.Report(s.opts.CollectionPath, s.opts.Location), nil
}

func (s *Server) handleShift(ctx context.Context, req *mcp.CallToolRequest, input ShiftInput) (*mcp.CallToolResult, usecase.PlanReport, error) {
	if !input.Confirm {
		return nil, usecase.PlanReport{}, errors.New("refusing to modify the collection without confirm=true; use streak_plan to preview")
	}

	migrateInput := usecase.MigrateInput{
		Deck:         stringValue(input.Deck),
		Dates:        s.dates(input.From, input.To),
		Backup:       s.opts.Backup,
		BackupKeep:   s.opts.BackupKeep,
		AnkiRollover: s.opts.AnkiRollover,
	}
	if input.Limit != nil {
		migrateInput.Limit = *input.Limit
	}
	if input.Backup != nil {
		migrateInput.Backup = *input.Backup
	}

	var result *usecase.MigrateResult
	err := s.withCollection(ctx, func(dbCtx *database.Context) error {
		var err error
		result, err = usecase.NewMigration(dbCtx, s.logger).Run(ctx, migrateInput)
		return err
	})
	if err != nil {
		return nil, usecase.PlanReport{}, fmt.Errorf("failed to move reviews: %w", err)
	}
	return nil, result.Report(s.opts.CollectionPath, s.opts.Location), nil
}
