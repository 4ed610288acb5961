// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/ports"
	"github.com/xvierd/wod-cli/internal/timer"
)

const timeLayout = "2006-01-02T15:04:05"

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"wod",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"list_blocks",
			mcp.WithDescription("List all workout blocks with their timer settings"),
		),
		s.handleListBlocks,
	)

	getBlockTool := mcp.NewTool(
		"get_block",
		mcp.WithDescription("Get a workout block by ID, ID prefix or title"),
		mcp.WithString(
			"ref",
			mcp.Required(),
			mcp.Description("Block ID, the first characters of it, or words from the title"),
		),
	)
	s.server.AddTool(getBlockTool, s.handleGetBlock)

	createBlockTool := mcp.NewTool(
		"create_block",
		mcp.WithDescription("Create a workout block. Timer settings are read from the title unless given explicitly"),
		mcp.WithString(
			"title",
			mcp.Required(),
			mcp.Description("Block title, e.g. 'EMOM 10' or '40/20 x 6 burpees'"),
		),
		mcp.WithString(
			"mode",
			mcp.Description("Timer mode"),
			mcp.Enum("interval", "tabata", "amrap", "emom", "timecap", "stopwatch", "notimer"),
		),
		mcp.WithNumber("work_time", mcp.Description("Work phase length in seconds")),
		mcp.WithNumber("rest_time", mcp.Description("Rest phase length in seconds")),
		mcp.WithNumber("rounds", mcp.Description("Number of rounds")),
	)
	s.server.AddTool(createBlockTool, s.handleCreateBlock)

	parseTool := mcp.NewTool(
		"parse_title",
		mcp.WithDescription("Show the timer settings a block title would produce"),
		mcp.WithString(
			"title",
			mcp.Required(),
			mcp.Description("The title to parse"),
		),
	)
	s.server.AddTool(parseTool, s.handleParseTitle)

	previewTool := mcp.NewTool(
		"preview_block",
		mcp.WithDescription("List the phases a run of the block goes through"),
		mcp.WithString(
			"ref",
			mcp.Required(),
			mcp.Description("Block ID, ID prefix or title"),
		),
	)
	s.server.AddTool(previewTool, s.handlePreviewBlock)

	historyTool := mcp.NewTool(
		"get_history",
		mcp.WithDescription("Get the most recent workout runs"),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of runs to return (default: 10)"),
		),
	)
	s.server.AddTool(historyTool, s.handleGetHistory)

	statsTool := mcp.NewTool(
		"get_stats",
		mcp.WithDescription("Get workout statistics for a day"),
		mcp.WithString(
			"date",
			mcp.Description("Day in YYYY-MM-DD format (default: today)"),
		),
	)
	s.server.AddTool(statsTool, s.handleGetStats)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func blockData(b *domain.WorkoutBlock) map[string]interface{} {
	return map[string]interface{}{
		"id":         b.ID,
		"title":      b.Title,
		"settings":   b.Settings,
		"summary":    b.Settings.Summary(),
		"duration":   domain.FormatSeconds(b.Settings.TotalDuration()),
		"exercises":  b.Exercises,
		"notes":      b.Notes,
		"created_at": b.CreatedAt.Format(timeLayout),
		"updated_at": b.UpdatedAt.Format(timeLayout),
	}
}

func textResult(v interface{}, what string) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleListBlocks handles the list_blocks tool.
func (s *Server) handleListBlocks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blocks, err := s.stateProvider.ListBlocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}

	list := make([]map[string]interface{}, 0, len(blocks))
	for _, b := range blocks {
		list = append(list, blockData(b))
	}

	return textResult(map[string]interface{}{
		"blocks":      list,
		"total_count": len(list),
	}, "blocks")
}

// handleGetBlock handles the get_block tool.
func (s *Server) handleGetBlock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("ref")
	if err != nil {
		return mcp.NewToolResultError("ref is required: " + err.Error()), nil
	}

	block, err := s.stateProvider.GetBlock(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get block: %v", err)), nil
	}

	return textResult(blockData(block), "block")
}

// handleCreateBlock handles the create_block tool.
func (s *Server) handleCreateBlock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required: " + err.Error()), nil
	}

	var settings *domain.TimerSettings
	rawMode := request.GetString("mode", "")
	work := numberArg(request, "work_time")
	rest := numberArg(request, "rest_time")
	rounds := numberArg(request, "rounds")

	if rawMode != "" || work != nil || rest != nil || rounds != nil {
		// Explicit values override what the title implies.
		base, _, err := s.stateProvider.ParseTitle(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("failed to parse title: %w", err)
		}
		if rawMode != "" {
			mode, err := domain.ValidateTimerMode(rawMode)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			base.Mode = mode
		}
		if work != nil {
			base.WorkTime = *work
		}
		if rest != nil {
			base.RestTime = *rest
		}
		if rounds != nil {
			base.Rounds = *rounds
		}
		settings = &base
	}

	block, err := s.stateProvider.CreateBlock(ctx, title, settings)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create block: %v", err)), nil
	}

	return textResult(blockData(block), "block")
}

// numberArg reads an optional integer argument sent either as a JSON
// number or as a numeric string. Numbers outside the int32 range are
// clamped to it.
func numberArg(request mcp.CallToolRequest, name string) *int {
	args := request.GetArguments()
	raw, ok := args[name]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) {
			return nil
		}
		n := int(math.Max(math.MinInt32, math.Min(math.MaxInt32, v)))
		return &n
	case int:
		return &v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}

// handleParseTitle handles the parse_title tool.
func (s *Server) handleParseTitle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required: " + err.Error()), nil
	}

	settings, fields, err := s.stateProvider.ParseTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to parse title: %w", err)
	}
	if fields == nil {
		fields = []string{}
	}

	return textResult(map[string]interface{}{
		"title":      title,
		"matched":    len(fields) > 0,
		"recognised": fields,
		"settings":   settings,
		"summary":    settings.Summary(),
	}, "settings")
}

// handlePreviewBlock handles the preview_block tool.
func (s *Server) handlePreviewBlock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("ref")
	if err != nil {
		return mcp.NewToolResultError("ref is required: " + err.Error()), nil
	}

	block, err := s.stateProvider.GetBlock(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get block: %v", err)), nil
	}

	segments := timer.Schedule(block.Settings)
	if segments == nil {
		segments = []timer.Segment{}
	}

	return textResult(map[string]interface{}{
		"id":             block.ID,
		"title":          block.Title,
		"segments":       segments,
		"total_seconds":  block.Settings.TotalDuration(),
		"total_duration": domain.FormatSeconds(block.Settings.TotalDuration()),
	}, "schedule")
}

// handleGetHistory handles the get_history tool.
func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", 10))
	if limit <= 0 {
		limit = 10
	}

	runs, err := s.stateProvider.GetRecentRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	list := make([]map[string]interface{}, 0, len(runs))
	var totalSeconds int
	for _, r := range runs {
		data := map[string]interface{}{
			"id":                  r.ID,
			"block_title":         r.BlockTitle,
			"mode":                string(r.Mode),
			"status":              string(r.Status),
			"completed_intervals": r.CompletedIntervals,
			"total_intervals":     r.TotalIntervals,
			"elapsed":             domain.FormatSeconds(r.ElapsedSeconds),
			"started_at":          r.StartedAt.Format(timeLayout),
			"finished_at":         r.FinishedAt.Format(timeLayout),
		}
		if r.BlockID != nil {
			data["block_id"] = *r.BlockID
		}
		list = append(list, data)
		totalSeconds += r.ElapsedSeconds
	}

	return textResult(map[string]interface{}{
		"runs":       list,
		"total_runs": len(list),
		"total_time": domain.FormatSeconds(totalSeconds),
		"limit":      limit,
	}, "history")
}

// handleGetStats handles the get_stats tool.
func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := time.Now()
	if raw := request.GetString("date", ""); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return mcp.NewToolResultError("date must be YYYY-MM-DD: " + err.Error()), nil
		}
		date = parsed
	}

	stats, err := s.stateProvider.GetDailyStats(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return textResult(map[string]interface{}{
		"date":           date.Format("2006-01-02"),
		"runs":           stats.Runs,
		"completed_runs": stats.CompletedRuns,
		"intervals":      stats.Intervals,
		"total_time":     domain.FormatSeconds(int(stats.TotalTime.Seconds())),
	}, "stats")
}
