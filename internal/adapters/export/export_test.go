package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/unfocus/internal/domain"
	"gopkg.in/yaml.v3"
)

func sampleDocument() Document {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	stats := domain.Stats{
		BreaksTaken:     1,
		PresenceSeconds: 20,
		StreakDays:      3,
		LastSessionDate: domain.DateOf(start),
	}
	totals := []domain.DailyTotal{
		{Date: "2026-03-14", BreaksTaken: 1, BreaksSkipped: 1, PresenceSeconds: 20},
	}
	sessions := []domain.SessionRecord{{
		ID:            "s1",
		StartedAt:     start,
		EndedAt:       start.Add(95 * time.Minute),
		GitBranch:     "main",
		GitRepository: "xvierd/unfocus",
		BreaksTaken:   1,
		BreaksSkipped: 1,
	}}
	breaks := []domain.BreakRecord{
		{ID: "b1", SessionID: "s1", Type: domain.BreakEyes, DurationSeconds: 20, Outcome: domain.OutcomeCompleted, At: start.Add(45 * time.Minute)},
		{ID: "b2", SessionID: "s1", Type: domain.BreakBreath, DurationSeconds: 15, Outcome: domain.OutcomeSkipped, At: start.Add(90 * time.Minute)},
	}
	return NewDocument(start.Add(2*time.Hour), start.AddDate(0, 0, -6), stats, totals, sessions, breaks)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"", FormatMarkdown, false},
		{"CSV", FormatCSV, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"toml", FormatTOML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDocument_EmptyHistory(t *testing.T) {
	doc := NewDocument(time.Now(), time.Time{}, domain.Stats{}, nil, nil, nil)

	assert.Empty(t, doc.Since)
	assert.Empty(t, doc.Today.LastSessionDate)
	assert.NotNil(t, doc.Totals)
	assert.NotNil(t, doc.Sessions)
	assert.NotNil(t, doc.Breaks)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, doc))
	assert.Contains(t, buf.String(), `"breaks": []`)
}

func TestWrite_StructuredFormatsAreParseable(t *testing.T) {
	doc := sampleDocument()

	decoders := map[Format]func([]byte, interface{}) error{
		FormatJSON: json.Unmarshal,
		FormatYAML: yaml.Unmarshal,
		FormatTOML: toml.Unmarshal,
	}

	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, format, doc))

			var got Document
			require.NoError(t, decode(buf.Bytes(), &got))

			assert.Equal(t, doc.Since, got.Since)
			assert.Equal(t, doc.Today, got.Today)
			assert.Equal(t, doc.Totals, got.Totals)
			require.Len(t, got.Breaks, 2)
			assert.Equal(t, domain.BreakBreath, got.Breaks[1].Type)
			assert.Equal(t, domain.OutcomeSkipped, got.Breaks[1].Outcome)
			assert.True(t, doc.Breaks[0].At.Equal(got.Breaks[0].At))
			require.Len(t, got.Sessions, 1)
			assert.Equal(t, "xvierd/unfocus", got.Sessions[0].GitRepository)
		})
	}
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleDocument()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"2026-03-14", "09:45:00", "eyes", "completed", "20", "s1"}, rows[1])
	assert.Equal(t, []string{"2026-03-14", "10:30:00", "breath", "skipped", "15", "s1"}, rows[2])
}

func TestWrite_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatMarkdown, sampleDocument()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# unfocus export\n"))
	assert.Contains(t, out, "Since: 2026-03-08")
	assert.Contains(t, out, "- Streak: 3 days")
	assert.Contains(t, out, "| 2026-03-14 | 1 | 1 | 0 min |")
	assert.Contains(t, out, "- [x] 09:45 Eye rest (20s)")
	assert.Contains(t, out, "- [ ] 10:30 Breathing (15s)")
	assert.Contains(t, out, "1h 35m, 1 taken, 1 skipped (xvierd/unfocus@main)")
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, Format("xml"), sampleDocument()))
}
