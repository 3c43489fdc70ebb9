package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/unfocus/internal/config"
	"github.com/xvierd/unfocus/internal/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change your saved settings",
	Long: `Show the saved interval, sound, notification and theme settings.
Use "unfocus config set <key> <value>" to change one of them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		snap := app.controller.Snapshot()

		if jsonOutput {
			return outputStatusJSON(out, snap)
		}

		s := snap.Settings
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Current settings:")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "    interval       %d min\n", s.Interval)
		fmt.Fprintf(out, "    sound          %s\n", onOff(s.SoundEnabled))
		fmt.Fprintf(out, "    notifications  %s\n", onOff(s.NotificationsEnabled))
		fmt.Fprintf(out, "    theme          %s\n", s.ThemeID)
		fmt.Fprintln(out)
		if path, err := config.GetConfigPath(); err == nil {
			fmt.Fprintf(out, "  First-run defaults and break types live in %s\n", path)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one setting (interval, sound, notifications, theme)",
	Args:      cobra.ExactArgs(2),
	ValidArgs: settingKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := parseSettingsPatch(args[0], args[1])
		if err != nil {
			return err
		}
		if err := app.controller.UpdateSettings(cmd.Context(), patch); err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "  Saved: %s = %s\n", strings.ToLower(args[0]), settingValue(app.controller.Snapshot().Settings, args[0]))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

var settingKeys = []string{"interval", "sound", "notifications", "theme"}

// parseSettingsPatch turns a key/value pair from the command line into a
// settings patch. Validation of the value's range is left to the
// controller.
func parseSettingsPatch(key, value string) (domain.SettingsPatch, error) {
	var patch domain.SettingsPatch
	value = strings.TrimSpace(value)

	switch strings.ToLower(key) {
	case "interval":
		minutes, err := strconv.Atoi(strings.TrimSuffix(value, "m"))
		if err != nil {
			return patch, fmt.Errorf("%w: %q is not a number of minutes", domain.ErrInvalidInterval, value)
		}
		patch.Interval = &minutes
	case "sound":
		on, err := parseOnOff(value)
		if err != nil {
			return patch, err
		}
		patch.SoundEnabled = &on
	case "notifications", "notify":
		on, err := parseOnOff(value)
		if err != nil {
			return patch, err
		}
		patch.NotificationsEnabled = &on
	case "theme":
		patch.ThemeID = &value
	default:
		return patch, fmt.Errorf("unknown setting %q (want one of %s)", key, strings.Join(settingKeys, ", "))
	}
	return patch, nil
}

func parseOnOff(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q (want on or off)", value)
}

func settingValue(s domain.Settings, key string) string {
	switch strings.ToLower(key) {
	case "interval":
		return fmt.Sprintf("%d min", s.Interval)
	case "sound":
		return onOff(s.SoundEnabled)
	case "notifications", "notify":
		return onOff(s.NotificationsEnabled)
	case "theme":
		return s.ThemeID
	}
	return ""
}
