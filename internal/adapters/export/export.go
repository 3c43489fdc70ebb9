// Package export writes break history and today's stats in the formats
// offered by `unfocus export`.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/xvierd/unfocus/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatMarkdown, FormatCSV, FormatJSON, FormatYAML, FormatTOML}

// ParseFormat validates a format name. "markdown" and "yml" are accepted
// as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown", "":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Today is the stats block of an export.
type Today struct {
	BreaksTaken     int    `json:"breaks_taken" yaml:"breaks_taken" toml:"breaks_taken"`
	PresenceSeconds int    `json:"presence_seconds" yaml:"presence_seconds" toml:"presence_seconds"`
	StreakDays      int    `json:"streak_days" yaml:"streak_days" toml:"streak_days"`
	LastSessionDate string `json:"last_session_date,omitempty" yaml:"last_session_date,omitempty" toml:"last_session_date,omitempty"`
}

// Document is everything an export contains.
type Document struct {
	GeneratedAt time.Time              `json:"generated_at" yaml:"generated_at" toml:"generated_at"`
	Since       string                 `json:"since,omitempty" yaml:"since,omitempty" toml:"since,omitempty"`
	Today       Today                  `json:"today" yaml:"today" toml:"today"`
	Totals      []domain.DailyTotal    `json:"totals" yaml:"totals" toml:"totals"`
	Sessions    []domain.SessionRecord `json:"sessions" yaml:"sessions" toml:"sessions"`
	Breaks      []domain.BreakRecord   `json:"breaks" yaml:"breaks" toml:"breaks"`
}

// NewDocument assembles an export. A zero since means all history.
func NewDocument(now, since time.Time, stats domain.Stats, totals []domain.DailyTotal, sessions []domain.SessionRecord, breaks []domain.BreakRecord) Document {
	doc := Document{
		GeneratedAt: now.Truncate(time.Second),
		Today: Today{
			BreaksTaken:     stats.BreaksTaken,
			PresenceSeconds: stats.PresenceSeconds,
			StreakDays:      stats.StreakDays,
			LastSessionDate: stats.LastSessionDate.String(),
		},
		Totals:   totals,
		Sessions: sessions,
		Breaks:   breaks,
	}
	if !since.IsZero() {
		doc.Since = since.Format("2006-01-02")
	}
	if doc.Totals == nil {
		doc.Totals = []domain.DailyTotal{}
	}
	if doc.Sessions == nil {
		doc.Sessions = []domain.SessionRecord{}
	}
	if doc.Breaks == nil {
		doc.Breaks = []domain.BreakRecord{}
	}
	return doc
}

// Write encodes doc to w in the given format.
func Write(w io.Writer, format Format, doc Document) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("failed to encode toml: %w", err)
		}
		return nil
	case FormatCSV:
		return writeCSV(w, doc)
	case FormatMarkdown:
		return writeMarkdown(w, doc)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// csvHeader is the column order of CSV exports, one row per break.
var csvHeader = []string{"date", "time", "type", "outcome", "duration_sec", "session_id"}

func writeCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range doc.Breaks {
		local := b.At.Local()
		if err := cw.Write([]string{
			local.Format("2006-01-02"),
			local.Format("15:04:05"),
			string(b.Type),
			string(b.Outcome),
			strconv.Itoa(b.DurationSeconds),
			b.SessionID,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeMarkdown(w io.Writer, doc Document) error {
	var sb strings.Builder

	sb.WriteString("# unfocus export\n\n")
	fmt.Fprintf(&sb, "Generated: %s\n", doc.GeneratedAt.Local().Format("2006-01-02 15:04"))
	if doc.Since != "" {
		fmt.Fprintf(&sb, "Since: %s\n", doc.Since)
	}
	sb.WriteString("\n## Today\n\n")
	fmt.Fprintf(&sb, "- Breaks taken: %d\n", doc.Today.BreaksTaken)
	fmt.Fprintf(&sb, "- Presence: %d min\n", doc.Today.PresenceSeconds/60)
	fmt.Fprintf(&sb, "- Streak: %d %s\n", doc.Today.StreakDays, plural(doc.Today.StreakDays, "day", "days"))

	if len(doc.Totals) > 0 {
		sb.WriteString("\n## Daily totals\n\n")
		sb.WriteString("| Date | Taken | Skipped | Presence |\n")
		sb.WriteString("|------|------:|--------:|---------:|\n")
		for _, t := range doc.Totals {
			fmt.Fprintf(&sb, "| %s | %d | %d | %d min |\n", t.Date, t.BreaksTaken, t.BreaksSkipped, t.PresenceSeconds/60)
		}
	}

	byDay := groupBreaks(doc.Breaks)
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	for _, d := range days {
		fmt.Fprintf(&sb, "\n## %s\n\n", d)
		for _, b := range byDay[d] {
			mark := "x"
			if b.Outcome == domain.OutcomeSkipped {
				mark = " "
			}
			fmt.Fprintf(&sb, "- [%s] %s %s (%ds)\n", mark, b.At.Local().Format("15:04"), b.Type.Label(), b.DurationSeconds)
		}
	}

	if len(doc.Sessions) > 0 {
		sb.WriteString("\n## Sessions\n\n")
		for _, s := range doc.Sessions {
			fmt.Fprintf(&sb, "- %s, %s, %d taken, %d skipped",
				s.StartedAt.Local().Format("2006-01-02 15:04"),
				domain.FormatElapsed(s.Duration()),
				s.BreaksTaken, s.BreaksSkipped)
			if s.GitRepository != "" {
				fmt.Fprintf(&sb, " (%s", s.GitRepository)
				if s.GitBranch != "" {
					fmt.Fprintf(&sb, "@%s", s.GitBranch)
				}
				sb.WriteString(")")
			}
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// groupBreaks buckets breaks by local calendar day, keeping input order
// within a day.
func groupBreaks(breaks []domain.BreakRecord) map[string][]domain.BreakRecord {
	out := make(map[string][]domain.BreakRecord)
	for _, b := range breaks {
		d := b.At.Local().Format("2006-01-02")
		out[d] = append(out[d], b)
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
