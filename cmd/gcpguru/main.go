// Package main provides the CLI entrypoint for gcp-guru.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/artkel/gcp-guru/internal/api"
	"github.com/artkel/gcp-guru/internal/config"
	"github.com/artkel/gcp-guru/internal/logging"
	"github.com/artkel/gcp-guru/internal/model"
	"github.com/artkel/gcp-guru/internal/state"
	"github.com/artkel/gcp-guru/internal/tui"
)

const (
	defaultAPIURL         = "http://localhost:8000"
	defaultTimeoutSeconds = 15
	defaultTheme          = "light"
)

var (
	apiURL         string
	timeoutSeconds int
	theme          string
	logLevel       string

	resetScores  bool
	resetHistory bool
	resetStars   bool
	resetNotes   bool
	resetTime    bool
	resetAll     bool
	resetYes     bool

	fileCfg config.FileConfig
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gcpguru",
		Short:         "TUI flashcard trainer for the GCP certification exam",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, "")
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultAPIURL, "backend base URL")
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", defaultTimeoutSeconds, "request timeout in seconds")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", defaultTheme, "color theme (light or dark)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "debug log level")

	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newTagsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and search questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, model.ScreenBrowse)
		},
	}
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show study progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, model.ScreenProgress)
		},
	}
}

// loadSettings resolves the effective settings: flags > environment > file.
func loadSettings(cmd *cobra.Command) error {
	// A local .env is a development convenience; a missing one is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logErrf("failed to load .env: %v\n", err)
	}

	var err error
	fileCfg, err = config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return err
	}

	applyStringConfig(cmd, "api-url", &apiURL, fileCfg.API.BaseURL)
	applyIntConfig(cmd, "timeout", &timeoutSeconds, fileCfg.API.TimeoutSeconds)
	applyStringConfig(cmd, "theme", &theme, fileCfg.UI.Theme)

	if !cmd.Flags().Changed("api-url") && envCfg.APIBaseURL != "" {
		apiURL = envCfg.APIBaseURL
	}
	if !cmd.Flags().Changed("timeout") && envCfg.APITimeoutSeconds > 0 {
		timeoutSeconds = envCfg.APITimeoutSeconds
	}
	if !cmd.Flags().Changed("theme") && envCfg.Theme != "" {
		theme = envCfg.Theme
	}
	if !cmd.Flags().Changed("log-level") && envCfg.LogLevel != "" {
		logLevel = envCfg.LogLevel
	}

	if timeoutSeconds <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	if theme != string(model.ThemeLight) && theme != string(model.ThemeDark) {
		return fmt.Errorf("--theme must be light or dark")
	}
	return nil
}

func runApp(cmd *cobra.Command, initialScreen model.Screen) error {
	if err := loadSettings(cmd); err != nil {
		return err
	}

	logger, closer, err := logging.Open(config.DefaultLogPath(), logLevel)
	if err != nil {
		logErrf("failed to open log file: %v\n", err)
		logger = logging.Nop()
	}
	if closer != nil {
		defer func() {
			if cerr := closer.Close(); cerr != nil {
				// Best-effort log close.
				_ = cerr
			}
		}()
	}

	st, err := state.Open(config.DefaultStatePath())
	if err != nil {
		return fmt.Errorf("failed to open state db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close state db: %v\n", cerr)
		}
	}()

	client := api.New(apiURL, time.Duration(timeoutSeconds)*time.Second, logger)
	app := tui.New(client, st, logger, initialScreen, stateDefaults(cmd))
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// stateDefaults builds the snapshot used when a persisted key is
// missing, seeded from the config file and flags.
func stateDefaults(_ *cobra.Command) state.Snapshot {
	defaults := state.DefaultSnapshot()
	defaults.Theme = model.Theme(theme)
	if len(fileCfg.Training.Domains) > 0 {
		defaults.SelectedDomains = fileCfg.Training.Domains
	}
	if fileCfg.Training.ShuffleAnswers != nil {
		defaults.ShuffleAnswers = *fileCfg.Training.ShuffleAnswers
	}
	if fileCfg.Training.MasteryFilter != nil && *fileCfg.Training.MasteryFilter != "" {
		defaults.MasteryFilter = *fileCfg.Training.MasteryFilter
	}
	return defaults
}

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List available topic tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadSettings(cmd); err != nil {
				return err
			}
			client := api.New(apiURL, time.Duration(timeoutSeconds)*time.Second, logging.Nop())
			tags, err := client.GetTags(context.Background())
			if err != nil {
				return fmt.Errorf("failed to fetch tags: %w", err)
			}
			for _, tag := range tags {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), tag); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset progress data server-side",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetScores, "scores", false, "reset question scores")
	cmd.Flags().BoolVar(&resetHistory, "history", false, "reset session history")
	cmd.Flags().BoolVar(&resetStars, "stars", false, "remove stars")
	cmd.Flags().BoolVar(&resetNotes, "notes", false, "remove notes")
	cmd.Flags().BoolVar(&resetTime, "time", false, "reset training time")
	cmd.Flags().BoolVar(&resetAll, "all", false, "reset everything")
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if err := loadSettings(cmd); err != nil {
		return err
	}
	opts := model.ResetOptions{
		Scores:         resetScores || resetAll,
		SessionHistory: resetHistory || resetAll,
		Stars:          resetStars || resetAll,
		Notes:          resetNotes || resetAll,
		TrainingTime:   resetTime || resetAll,
	}
	if !opts.Any() {
		return fmt.Errorf("nothing selected; pass --scores, --history, --stars, --notes, --time, or --all")
	}
	if !resetYes {
		fmt.Fprint(cmd.OutOrStdout(), "This wipes the selected progress data on the server. Continue? [y/N] ")
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}
	client := api.New(apiURL, time.Duration(timeoutSeconds)*time.Second, logging.Nop())
	if err := client.ResetProgress(context.Background(), opts); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# gcp-guru configuration
# Uncomment a value to enable it. CLI flags override config values.

[api]
# base-url = %q        # Backend base URL
# timeout-seconds = %d # Request timeout

[training]
# domains = []                 # Topic tags to study ([] means all)
# shuffle-answers = true       # Shuffle answer display order
# mastery-filter = "all"       # Browse filter: all, mistakes, learning, mastered, perfected

[ui]
# theme = %q                   # light or dark
`, defaultAPIURL, defaultTimeoutSeconds, defaultTheme)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
