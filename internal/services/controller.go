package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/xvierd/unfocus/internal/adapters/storage"
	"github.com/xvierd/unfocus/internal/domain"
	"github.com/xvierd/unfocus/internal/ports"
)

// Controller is the session/break state machine. It exclusively owns
// settings, stats and the running session; every exported method is safe
// for concurrent use.
type Controller struct {
	mu sync.Mutex

	kv       ports.KeyValueStore
	history  ports.HistoryRepository
	notifier ports.Notifier
	chime    ports.Chime
	git      ports.GitDetector

	workingDir string
	logger     *slog.Logger
	now        func() time.Time
	rnd        domain.RandSource
	catalog    []domain.BreakContent
	defaults   domain.Settings

	screen            domain.Screen
	settings          domain.Settings
	stats             domain.Stats
	session           *domain.Session
	remaining         int
	activeBreak       *domain.BreakContent
	breakElapsed      int
	lastBreakType     domain.BreakType
	notificationsHint string
}

// Ensure Controller implements the driven ports.
var (
	_ ports.Controller      = (*Controller)(nil)
	_ ports.HistoryProvider = (*Controller)(nil)
)

// NewController creates a controller on the setup screen with default
// settings. Call Load to hydrate persisted state.
func NewController(kv ports.KeyValueStore, history ports.HistoryRepository) *Controller {
	defaults := domain.DefaultSettings()
	return &Controller{
		kv:       kv,
		history:  history,
		logger:   slog.Default(),
		now:      time.Now,
		rnd:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x756e666f637573)),
		catalog:  domain.DefaultCatalog(),
		defaults: defaults,
		screen:   domain.ScreenSetup,
		settings: defaults,
	}
}

// SetNotifier sets the desktop notifier.
func (c *Controller) SetNotifier(n ports.Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifier = n
}

// SetChime sets the break chime.
func (c *Controller) SetChime(ch ports.Chime) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chime = ch
}

// SetGitDetector sets the detector used to tag sessions with git context.
func (c *Controller) SetGitDetector(g ports.GitDetector, workingDir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.git = g
	c.workingDir = workingDir
}

// SetLogger sets the logger for best-effort failures.
func (c *Controller) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = l
}

// SetClock replaces the wall clock.
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// SetRandom replaces the random source used for break selection.
func (c *Controller) SetRandom(r domain.RandSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rnd = r
}

// SetCatalog replaces the break catalog.
func (c *Controller) SetCatalog(catalog []domain.BreakContent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog = catalog
}

// SetDefaults sets the settings used when nothing valid is persisted.
func (c *Controller) SetDefaults(d domain.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaults = d.Sanitize(domain.DefaultSettings())
	if c.screen == domain.ScreenSetup {
		c.settings = c.defaults
	}
}

// Load hydrates settings and stats from storage and applies the daily
// rollover. Failures fall back to defaults.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settings = storage.Load(ctx, c.kv, storage.KeySettings, c.defaults).Sanitize(c.defaults)
	c.stats = storage.Load(ctx, c.kv, storage.KeyStats, domain.Stats{}).Rollover(c.today())
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		Screen:            c.screen,
		Settings:          c.settings,
		Theme:             domain.ThemeOrDefault(c.settings.ThemeID),
		Stats:             c.stats,
		RemainingSeconds:  c.remaining,
		BreakElapsedSecs:  c.breakElapsed,
		LastBreakType:     c.lastBreakType,
		NotificationsHint: c.notificationsHint,
		Now:               c.now(),
	}
	if c.session != nil {
		s := *c.session
		if c.session.EndedAt != nil {
			end := *c.session.EndedAt
			s.EndedAt = &end
		}
		snap.Session = &s
	}
	if c.activeBreak != nil {
		b := *c.activeBreak
		snap.ActiveBreak = &b
	}
	return snap
}

// StartSession begins a focus session from setup or summary.
func (c *Controller) StartSession(ctx context.Context) error {
	c.mu.Lock()
	if c.screen.IsActive() {
		c.mu.Unlock()
		return domain.ErrSessionAlreadyActive
	}
	detector, workingDir := c.git, c.workingDir
	c.mu.Unlock()

	// Opening a repository can be slow; keep it outside the lock.
	var info *ports.GitInfo
	if detector != nil && detector.IsAvailable() {
		if found, err := detector.Detect(ctx, workingDir); err == nil {
			info = found
		}
	}

	c.mu.Lock()
	if c.screen.IsActive() {
		c.mu.Unlock()
		return domain.ErrSessionAlreadyActive
	}

	now := c.now()
	session := domain.NewSession(now)
	if info != nil {
		session.SetGitContext(info.Branch, info.Repository)
	}

	c.session = session
	c.stats = c.stats.BeginSession(domain.DateOf(now))
	c.screen = domain.ScreenAmbient
	c.remaining = c.settings.IntervalSeconds()
	c.activeBreak = nil
	c.breakElapsed = 0
	c.notificationsHint = ""
	c.saveStatsLocked(ctx)

	wantPermission := c.settings.NotificationsEnabled && c.notifier != nil
	notifier := c.notifier
	c.mu.Unlock()

	if wantPermission {
		if err := notifier.RequestPermission(); err != nil {
			c.mu.Lock()
			c.notificationsHint = "notifications unavailable: " + err.Error()
			c.logger.Warn("notification permission denied", "error", err)
			c.mu.Unlock()
		}
	}

	return nil
}

// Tick advances the machine by one second.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()

	if c.rollDayLocked() {
		c.saveStatsLocked(ctx)
	}

	var fx effects
	switch c.screen {
	case domain.ScreenAmbient:
		c.remaining--
		if c.remaining <= 0 {
			var err error
			fx, err = c.triggerLocked(nil)
			if err != nil {
				c.logger.Warn("failed to trigger break", "error", err)
			}
			c.remaining = c.settings.IntervalSeconds()
		}
	case domain.ScreenBreak:
		c.breakElapsed++
		if c.activeBreak != nil && c.breakElapsed >= c.activeBreak.DurationSeconds {
			c.completeLocked(ctx)
		}
	}

	c.mu.Unlock()
	fx.run()
}

// TriggerBreak starts a randomly selected break from the ambient screen.
func (c *Controller) TriggerBreak(ctx context.Context) error {
	c.mu.Lock()
	if err := c.requireScreen("trigger a break", domain.ScreenAmbient); err != nil {
		c.mu.Unlock()
		return err
	}
	fx, err := c.triggerLocked(nil)
	c.mu.Unlock()

	fx.run()
	return err
}

// TriggerSpecificBreak starts a break of the given type from the ambient
// screen.
func (c *Controller) TriggerSpecificBreak(ctx context.Context, t domain.BreakType) error {
	c.mu.Lock()
	if err := c.requireScreen("trigger a break", domain.ScreenAmbient); err != nil {
		c.mu.Unlock()
		return err
	}
	b, ok := domain.FindBreak(c.catalog, t)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", domain.ErrUnknownBreakType, t)
	}
	fx, err := c.triggerLocked(&b)
	c.mu.Unlock()

	fx.run()
	return err
}

// triggerLocked enters the break screen. When b is nil the break is chosen
// from the catalog excluding the previous type.
func (c *Controller) triggerLocked(b *domain.BreakContent) (effects, error) {
	if b == nil {
		next, err := domain.SelectNext(c.catalog, c.lastBreakType, c.rnd)
		if err != nil {
			return nil, err
		}
		b = &next
	}

	c.activeBreak = b
	c.lastBreakType = b.Type
	c.breakElapsed = 0
	c.screen = domain.ScreenBreak

	var fx effects
	if c.settings.SoundEnabled && c.chime != nil {
		fx = append(fx, c.chime.Play)
	}
	if c.settings.NotificationsEnabled && c.notifier != nil {
		notifier, logger := c.notifier, c.logger
		body := "time to " + string(b.Type)
		fx = append(fx, func() {
			if err := notifier.Notify("unfocus", body); err != nil {
				logger.Warn("failed to send notification", "error", err)
			}
		})
	}
	return fx, nil
}

// CompleteBreak credits the active break and returns to the ambient screen.
func (c *Controller) CompleteBreak(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireScreen("complete a break", domain.ScreenBreak); err != nil {
		return err
	}
	c.completeLocked(ctx)
	return nil
}

func (c *Controller) completeLocked(ctx context.Context) {
	b := c.activeBreak
	if b != nil {
		c.rollDayLocked()
		c.stats = c.stats.CreditBreak(b.DurationSeconds)
		if c.session != nil {
			c.session.BreaksTaken++
			c.session.PresenceSecs += b.DurationSeconds
		}
		c.recordBreakLocked(ctx, *b, domain.OutcomeCompleted)
	}
	c.leaveBreakLocked()
	c.saveStatsLocked(ctx)
}

// SkipBreak abandons the active break without credit.
func (c *Controller) SkipBreak(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireScreen("skip a break", domain.ScreenBreak); err != nil {
		return err
	}
	if c.activeBreak != nil {
		if c.session != nil {
			c.session.BreaksSkipped++
		}
		c.recordBreakLocked(ctx, *c.activeBreak, domain.OutcomeSkipped)
	}
	c.leaveBreakLocked()
	return nil
}

// RepeatBreak restarts the active break from zero.
func (c *Controller) RepeatBreak(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireScreen("repeat a break", domain.ScreenBreak); err != nil {
		return err
	}
	if c.activeBreak == nil {
		return domain.ErrNoActiveBreak
	}
	c.breakElapsed = 0
	return nil
}

func (c *Controller) leaveBreakLocked() {
	c.activeBreak = nil
	c.breakElapsed = 0
	c.remaining = c.settings.IntervalSeconds()
	c.screen = domain.ScreenAmbient
}

// EndSession stops the running session and shows the summary.
func (c *Controller) EndSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireScreen("end a session", domain.ScreenAmbient, domain.ScreenBreak); err != nil {
		return err
	}

	c.activeBreak = nil
	c.breakElapsed = 0
	c.screen = domain.ScreenSummary

	if c.session != nil {
		c.session.End(c.now())
		if c.history != nil {
			if err := c.history.RecordSession(ctx, c.session.Record()); err != nil {
				c.logger.Warn("failed to record session", "error", err)
			}
		}
	}
	return nil
}

// ReturnToSetup leaves the summary for the setup screen.
func (c *Controller) ReturnToSetup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireScreen("return to setup", domain.ScreenSummary); err != nil {
		return err
	}
	c.screen = domain.ScreenSetup
	return nil
}

// UpdateSettings validates and merges a partial settings update. A rejected
// patch changes nothing.
func (c *Controller) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.settings
	c.settings = patch.Apply(c.settings)
	if c.settings.Interval != prev.Interval && c.screen == domain.ScreenAmbient {
		c.remaining = c.settings.IntervalSeconds()
	}
	c.saveSettingsLocked(ctx)
	return nil
}

// CycleTheme switches to the next theme in cycling order.
func (c *Controller) CycleTheme(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settings.ThemeID = domain.NextThemeID(c.settings.ThemeID)
	c.saveSettingsLocked(ctx)
	return nil
}

// ResetStats zeroes the counters and the streak.
func (c *Controller) ResetStats(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats = domain.Stats{}
	if err := storage.Save(ctx, c.kv, storage.KeyStats, c.stats); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}
	return nil
}

// RecentBreaks returns break history since the given time.
func (c *Controller) RecentBreaks(ctx context.Context, since time.Time) ([]domain.BreakRecord, error) {
	if c.history == nil {
		return nil, nil
	}
	return c.history.FindBreaks(ctx, since)
}

// DailyTotals returns per-day break totals since the given time.
func (c *Controller) DailyTotals(ctx context.Context, since time.Time) ([]domain.DailyTotal, error) {
	if c.history == nil {
		return nil, nil
	}
	return c.history.DailyTotals(ctx, since)
}

func (c *Controller) requireScreen(action string, allowed ...domain.Screen) error {
	for _, s := range allowed {
		if c.screen == s {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s from %s", domain.ErrInvalidTransition, action, c.screen)
}

func (c *Controller) today() domain.Date {
	return domain.DateOf(c.now())
}

// rollDayLocked moves the stats onto today when a running session has
// crossed midnight. Today then counts as a session day for the streak.
func (c *Controller) rollDayLocked() bool {
	if c.session == nil || !c.screen.IsActive() {
		return false
	}
	today := c.today()
	if c.stats.LastSessionDate == today {
		return false
	}
	c.stats = c.stats.BeginSession(today)
	return true
}

func (c *Controller) recordBreakLocked(ctx context.Context, b domain.BreakContent, outcome domain.BreakOutcome) {
	if c.history == nil {
		return
	}
	sessionID := ""
	if c.session != nil {
		sessionID = c.session.ID
	}
	if err := c.history.RecordBreak(ctx, domain.NewBreakRecord(sessionID, b, outcome, c.now())); err != nil {
		c.logger.Warn("failed to record break", "error", err)
	}
}

func (c *Controller) saveStatsLocked(ctx context.Context) {
	if err := storage.Save(ctx, c.kv, storage.KeyStats, c.stats); err != nil {
		c.logger.Warn("failed to save stats", "error", err)
	}
}

func (c *Controller) saveSettingsLocked(ctx context.Context) {
	if err := storage.Save(ctx, c.kv, storage.KeySettings, c.settings); err != nil {
		c.logger.Warn("failed to save settings", "error", err)
	}
}

// effects are side effects collected under the lock and run after it is
// released.
type effects []func()

func (fx effects) run() {
	for _, f := range fx {
		f()
	}
}

// IsInvalidTransition reports whether err was caused by calling an
// operation from a screen where it does not apply.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, domain.ErrInvalidTransition)
}
