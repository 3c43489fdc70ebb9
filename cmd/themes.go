package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/unfocus/internal/domain"
)

var themesCmd = &cobra.Command{
	Use:   "themes [id]",
	Short: "List color themes, or switch to one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			id := args[0]
			if err := app.controller.UpdateSettings(cmd.Context(), domain.SettingsPatch{ThemeID: &id}); err != nil {
				return fmt.Errorf("failed to set theme: %w", err)
			}
		}

		current := app.controller.Snapshot().Settings.ThemeID
		if jsonOutput {
			return outputThemesJSON(out, current)
		}
		renderThemes(out, current)
		return nil
	},
}

// renderThemes prints every theme with a swatch in its own colors.
func renderThemes(w io.Writer, current string) {
	fmt.Fprintln(w)
	for _, t := range domain.Themes() {
		marker := "  "
		if t.ID == current {
			marker = "> "
		}
		swatch := lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Background(lipgloss.Color(t.Bg)).
			Render(" ███ ")
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)).Render(fmt.Sprintf("%-12s", t.Name))
		fmt.Fprintf(w, "  %s%s %s %s\n", marker, swatch, name, t.ID)
	}
	fmt.Fprintln(w)
}

// themeJSON is one entry of the --json theme list.
type themeJSON struct {
	domain.Theme
	Selected bool `json:"selected"`
}

func outputThemesJSON(w io.Writer, current string) error {
	var list []themeJSON
	for _, t := range domain.Themes() {
		list = append(list, themeJSON{Theme: t, Selected: t.ID == current})
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal themes: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
