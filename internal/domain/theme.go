package domain

// Theme is a named palette of hex colors.
type Theme struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Bg      string `json:"bg"`
	Text    string `json:"text"`
	Accent  string `json:"accent"`
	Muted   string `json:"muted"`
	Success string `json:"success"`
}

var themes = []Theme{
	{ID: "dracula", Name: "Dracula", Bg: "#282a36", Text: "#f8f8f2", Accent: "#bd93f9", Muted: "#6272a4", Success: "#50fa7b"},
	{ID: "nord", Name: "Nord", Bg: "#2e3440", Text: "#eceff4", Accent: "#88c0d0", Muted: "#4c566a", Success: "#a3be8c"},
	{ID: "gruvbox", Name: "Gruvbox", Bg: "#282828", Text: "#ebdbb2", Accent: "#fe8019", Muted: "#928374", Success: "#b8bb26"},
	{ID: "tokyoNight", Name: "Tokyo Night", Bg: "#1a1b26", Text: "#c0caf5", Accent: "#7aa2f7", Muted: "#565f89", Success: "#9ece6a"},
	{ID: "catppuccin", Name: "Catppuccin", Bg: "#1e1e2e", Text: "#cdd6f4", Accent: "#cba6f7", Muted: "#6c7086", Success: "#a6e3a1"},
	{ID: "synthwave", Name: "Synthwave", Bg: "#262335", Text: "#ffffff", Accent: "#ff7edb", Muted: "#848bbd", Success: "#72f1b8"},
	{ID: "greenTerminal", Name: "Green", Bg: "#0a0a0a", Text: "#00ff00", Accent: "#00ff00", Muted: "#006600", Success: "#00ff00"},
	{ID: "amber", Name: "Amber", Bg: "#0a0a0a", Text: "#ffb000", Accent: "#ffb000", Muted: "#805800", Success: "#ffb000"},
}

// Themes returns the theme catalog in cycling order.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// LookupTheme finds a theme by id.
func LookupTheme(id string) (Theme, bool) {
	for _, t := range themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// ThemeOrDefault returns the theme for id, or the default theme.
func ThemeOrDefault(id string) Theme {
	if t, ok := LookupTheme(id); ok {
		return t
	}
	t, _ := LookupTheme(DefaultThemeID)
	return t
}

// NextThemeID returns the theme after id in cycling order, wrapping around.
// Unknown ids start the cycle from the beginning.
func NextThemeID(id string) string {
	for i, t := range themes {
		if t.ID == id {
			return themes[(i+1)%len(themes)].ID
		}
	}
	return themes[0].ID
}
