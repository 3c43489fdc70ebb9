// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/unfocus/internal/domain"
	"github.com/xvierd/unfocus/internal/ports"
)

// maxHistoryDays caps get_history lookbacks.
const maxHistoryDays = 365

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server  *server.MCPServer
	ctrl    ports.Controller
	history ports.HistoryProvider
	ctx     context.Context
	cancel  context.CancelFunc
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// NewServer creates a new MCP server instance. history may be nil, in which
// case get_history reports an error.
func NewServer(ctrl ports.Controller, history ports.HistoryProvider) *Server {
	s := &Server{
		ctrl:    ctrl,
		history: history,
	}

	s.server = server.NewMCPServer(
		"unfocus",
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
			"get_state",
			mcp.WithDescription("Get the current unfocus state: screen, countdown to the next break, active break, settings and today's stats"),
		),
		s.handleGetState,
	)

	s.server.AddTool(
		mcp.NewTool(
			"start_session",
			mcp.WithDescription("Start a focus session. The countdown to the first break begins at the configured interval"),
		),
		s.handleStartSession,
	)

	breakTypes := make([]string, 0, len(domain.ValidBreakTypes))
	for _, t := range domain.ValidBreakTypes {
		breakTypes = append(breakTypes, string(t))
	}
	s.server.AddTool(
		mcp.NewTool(
			"trigger_break",
			mcp.WithDescription("Start a break now. Without a type, a break different from the previous one is picked at random"),
			mcp.WithString(
				"type",
				mcp.Description("Break type to start"),
				mcp.Enum(breakTypes...),
			),
		),
		s.handleTriggerBreak,
	)

	s.server.AddTool(
		mcp.NewTool(
			"complete_break",
			mcp.WithDescription("Finish the active break and credit it to today's stats"),
		),
		s.handleCompleteBreak,
	)

	s.server.AddTool(
		mcp.NewTool(
			"skip_break",
			mcp.WithDescription("Dismiss the active break without credit"),
		),
		s.handleSkipBreak,
	)

	s.server.AddTool(
		mcp.NewTool(
			"repeat_break",
			mcp.WithDescription("Restart the active break from zero"),
		),
		s.handleRepeatBreak,
	)

	s.server.AddTool(
		mcp.NewTool(
			"end_session",
			mcp.WithDescription("End the focus session and return its summary"),
		),
		s.handleEndSession,
	)

	s.server.AddTool(
		mcp.NewTool(
			"update_settings",
			mcp.WithDescription("Change preferences. Omitted fields are left unchanged"),
			mcp.WithNumber(
				"interval",
				mcp.Description("Minutes between breaks (1-1440)"),
			),
			mcp.WithBoolean(
				"sound",
				mcp.Description("Play a chime when a break starts"),
			),
			mcp.WithBoolean(
				"notifications",
				mcp.Description("Show a desktop notification when a break starts"),
			),
			mcp.WithString(
				"theme",
				mcp.Description("Theme id, see list_themes"),
			),
		),
		s.handleUpdateSettings,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_themes",
			mcp.WithDescription("List available color themes and mark the selected one"),
		),
		s.handleListThemes,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_history",
			mcp.WithDescription("Get recorded breaks and per-day totals"),
			mcp.WithNumber(
				"days",
				mcp.Description("Number of days to look back, including today (default: 7)"),
			),
		),
		s.handleGetHistory,
	)
}

// Start begins serving MCP requests over stdio.
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
	return s.ctx != nil && s.ctx.Err() == nil
}

// stateView is the JSON shape returned by state-changing tools.
type stateView struct {
	Screen           string          `json:"screen"`
	RemainingSeconds int             `json:"remaining_seconds,omitempty"`
	Countdown        string          `json:"countdown,omitempty"`
	Break            *breakView      `json:"break,omitempty"`
	LastBreakType    string          `json:"last_break_type,omitempty"`
	Session          *sessionView    `json:"session,omitempty"`
	Settings         domain.Settings `json:"settings"`
	Today            domain.Stats    `json:"today"`
	Hint             string          `json:"hint,omitempty"`
}

type breakView struct {
	Type             string  `json:"type"`
	Label            string  `json:"label"`
	Noticing         string  `json:"noticing"`
	Invitation       string  `json:"invitation"`
	DurationSeconds  int     `json:"duration_seconds"`
	ElapsedSeconds   int     `json:"elapsed_seconds"`
	RemainingSeconds int     `json:"remaining_seconds"`
	Progress         float64 `json:"progress"`
}

type sessionView struct {
	ID            string `json:"id"`
	StartedAt     string `json:"started_at"`
	Elapsed       string `json:"elapsed"`
	BreaksTaken   int    `json:"breaks_taken"`
	BreaksSkipped int    `json:"breaks_skipped"`
	GitBranch     string `json:"git_branch,omitempty"`
	GitRepository string `json:"git_repository,omitempty"`
}

func newStateView(snap domain.Snapshot) stateView {
	v := stateView{
		Screen:        string(snap.Screen),
		LastBreakType: string(snap.LastBreakType),
		Settings:      snap.Settings,
		Today:         snap.Stats,
		Hint:          snap.NotificationsHint,
	}
	if snap.Screen == domain.ScreenAmbient {
		v.RemainingSeconds = snap.RemainingSeconds
		v.Countdown = domain.FormatClock(snap.RemainingSeconds)
	}
	if b := snap.ActiveBreak; b != nil {
		v.Break = &breakView{
			Type:             string(b.Type),
			Label:            b.Type.Label(),
			Noticing:         b.Noticing,
			Invitation:       b.Invitation,
			DurationSeconds:  b.DurationSeconds,
			ElapsedSeconds:   snap.BreakElapsedSecs,
			RemainingSeconds: snap.BreakRemainingSeconds(),
			Progress:         snap.BreakProgress(),
		}
	}
	if sess := snap.Session; sess != nil {
		v.Session = &sessionView{
			ID:            sess.ID,
			StartedAt:     sess.StartedAt.Format(time.RFC3339),
			Elapsed:       domain.FormatElapsed(snap.SessionElapsed()),
			BreaksTaken:   sess.BreaksTaken,
			BreaksSkipped: sess.BreaksSkipped,
			GitBranch:     sess.GitBranch,
			GitRepository: sess.GitRepository,
		}
	}
	return v
}

// stateResult renders the controller snapshot as the tool result.
func (s *Server) stateResult() (*mcp.CallToolResult, error) {
	return jsonResult(newStateView(s.ctrl.Snapshot()))
}

// transition runs a controller operation and reports the resulting state.
// Rejected transitions become tool errors, not protocol errors.
func (s *Server) transition(ctx context.Context, op func(context.Context) error) (*mcp.CallToolResult, error) {
	if err := op(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.stateResult()
}

// handleGetState handles the get_state tool.
func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.stateResult()
}

// handleStartSession handles the start_session tool.
func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.transition(ctx, s.ctrl.StartSession)
}

// handleTriggerBreak handles the trigger_break tool.
func (s *Server) handleTriggerBreak(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("type", "")
	if name == "" {
		return s.transition(ctx, s.ctrl.TriggerBreak)
	}

	t, err := domain.ParseBreakType(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.transition(ctx, func(ctx context.Context) error {
		return s.ctrl.TriggerSpecificBreak(ctx, t)
	})
}

// handleCompleteBreak handles the complete_break tool.
func (s *Server) handleCompleteBreak(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.transition(ctx, s.ctrl.CompleteBreak)
}

// handleSkipBreak handles the skip_break tool.
func (s *Server) handleSkipBreak(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.transition(ctx, s.ctrl.SkipBreak)
}

// handleRepeatBreak handles the repeat_break tool.
func (s *Server) handleRepeatBreak(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.transition(ctx, s.ctrl.RepeatBreak)
}

// handleEndSession handles the end_session tool.
func (s *Server) handleEndSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.ctrl.EndSession(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap := s.ctrl.Snapshot()
	summary := map[string]interface{}{
		"date":             snap.Now.Format("Monday, January 2, 2006"),
		"breaks_taken":     snap.Stats.BreaksTaken,
		"presence_minutes": snap.Stats.PresenceMinutes(),
		"streak_days":      snap.Stats.StreakDays,
	}
	if snap.Session != nil {
		summary["session_elapsed"] = domain.FormatElapsed(snap.SessionElapsed())
		summary["breaks_skipped"] = snap.Session.BreaksSkipped
	}
	return jsonResult(summary)
}

// handleUpdateSettings handles the update_settings tool.
func (s *Server) handleUpdateSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	var patch domain.SettingsPatch
	if _, ok := args["interval"]; ok {
		interval := int(request.GetFloat("interval", 0))
		patch.Interval = &interval
	}
	if _, ok := args["sound"]; ok {
		sound := request.GetBool("sound", false)
		patch.SoundEnabled = &sound
	}
	if _, ok := args["notifications"]; ok {
		notify := request.GetBool("notifications", false)
		patch.NotificationsEnabled = &notify
	}
	if theme := strings.TrimSpace(request.GetString("theme", "")); theme != "" {
		patch.ThemeID = &theme
	}

	if patch.IsEmpty() {
		return mcp.NewToolResultError("no settings provided: pass interval, sound, notifications or theme"), nil
	}

	if err := s.ctrl.UpdateSettings(ctx, patch); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.ctrl.Snapshot().Settings)
}

// handleListThemes handles the list_themes tool.
func (s *Server) handleListThemes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current := s.ctrl.Snapshot().Settings.ThemeID

	type themeView struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Accent   string `json:"accent"`
		Selected bool   `json:"selected"`
	}
	themes := domain.Themes()
	out := make([]themeView, 0, len(themes))
	for _, t := range themes {
		out = append(out, themeView{ID: t.ID, Name: t.Name, Accent: t.Accent, Selected: t.ID == current})
	}
	return jsonResult(out)
}

// handleGetHistory handles the get_history tool.
func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("history is not available"), nil
	}

	days := int(request.GetFloat("days", 7))
	if days < 1 {
		days = 1
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}

	now := s.ctrl.Snapshot().Now
	if now.IsZero() {
		now = time.Now()
	}
	since := domain.DaysBack(now, days)

	breaks, err := s.history.RecentBreaks(ctx, since)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load breaks: %v", err)), nil
	}
	totals, err := s.history.DailyTotals(ctx, since)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load daily totals: %v", err)), nil
	}

	if breaks == nil {
		breaks = []domain.BreakRecord{}
	}
	if totals == nil {
		totals = []domain.DailyTotal{}
	}
	return jsonResult(map[string]interface{}{
		"days":   days,
		"since":  since.Format("2006-01-02"),
		"totals": totals,
		"breaks": breaks,
	})
}

// jsonResult marshals v as an indented text result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
