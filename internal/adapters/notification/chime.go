package notification

import (
	"log/slog"
	"sync/atomic"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/unfocus/internal/ports"
)

// Tone is one beep of the chime.
type Tone struct {
	Freq       float64
	DurationMs int
}

// DefaultTones is the rising A4, C#5, E5 sequence played at break start.
var DefaultTones = []Tone{
	{Freq: 440, DurationMs: 120},
	{Freq: 554, DurationMs: 120},
	{Freq: 659, DurationMs: 200},
}

// Chime plays a short tone sequence through the system speaker.
type Chime struct {
	tones   []Tone
	enabled bool
	logger  *slog.Logger
	beep    func(freq float64, durationMs int) error
	playing atomic.Bool
	done    func()
}

// Ensure Chime implements ports.Chime.
var _ ports.Chime = (*Chime)(nil)

// NewChime creates a chime. A disabled chime never makes a sound, which is
// what the notifications.enabled master switch maps to.
func NewChime(enabled bool, logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chime{
		tones:   DefaultTones,
		enabled: enabled,
		logger:  logger,
		beep:    beeep.Beep,
	}
}

// Play starts the tone sequence in the background and returns at once.
// A chime that is still playing is not restarted.
func (c *Chime) Play() {
	if !c.enabled || len(c.tones) == 0 {
		return
	}
	if !c.playing.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer func() {
			c.playing.Store(false)
			if c.done != nil {
				c.done()
			}
		}()
		for _, t := range c.tones {
			if err := c.beep(t.Freq, t.DurationMs); err != nil {
				c.logger.Debug("chime unavailable", "error", err)
				return
			}
		}
	}()
}
