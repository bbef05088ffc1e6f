// Package commands implements the CLI commands for skill-thief.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/skillthief/internal/config"
	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/logging"
	"github.com/thoreinstein/skillthief/internal/paths"
)

// debugEnv raises the log level when no -v flag is given.
const debugEnv = "SKILL_THIEF_DEBUG"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// projectDir holds the value of the -C/--dir flag.
var projectDir string

// toolConfig holds the loaded tool settings; nil until initConfig runs.
var toolConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", "",
		"project directory holding the manifest (default: current directory)")

	rootCmd.SetVersionTemplate("skill-thief version {{.Version}}\n")

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	toolConfig, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "skill-thief",
	Short: "Install agent skills declared in a project manifest",
	Long: `skill-thief installs skill directories into a project.

Skills are declared in .skill-thief.yaml. Each entry names a local path or
a git repository (optionally pinned to a branch, tag or commit and narrowed
to a subdirectory). Installing copies the skill into the install path,
replacing any previous copy, and checks its SKILL.md frontmatter.`,
	Example: `  # Create a starter manifest
  skill-thief init

  # Install every declared skill
  skill-thief install

  # Install only some skills
  skill-thief install alpha beta

  # Show what is installed
  skill-thief list`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv(debugEnv); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handler := primaryHandler
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "Check the --log-file path")
		}
		// File output uses JSON format
		handler = logging.NewTeeHandler(primaryHandler, slog.NewJSONHandler(f, opts))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig reports tool config problems for every command that uses it.
func checkConfig(cmd *cobra.Command) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}
	if configLoadErr != nil {
		return &errors.ExitError{
			Err:        configLoadErr,
			Code:       errors.ExitUser,
			Label:      errors.LabelConfig,
			Suggestion: "Check config.yaml and SKILL_THIEF_* environment variables",
		}
	}
	return nil
}

// tools returns the loaded tool settings, or the defaults when loading has
// not happened.
func tools() *config.Config {
	if toolConfig != nil {
		return toolConfig
	}
	return &config.Config{
		Version:   1,
		Git:       config.GitConfig{Binary: config.DefaultGitBinary},
		Validator: config.ValidatorConfig{Command: config.DefaultValidatorCommand, Enabled: true},
		Manifest:  paths.ManifestFilename,
	}
}

// out returns where progress output goes; --quiet discards it.
func out(cmd *cobra.Command) io.Writer {
	if quiet {
		return io.Discard
	}
	return cmd.OutOrStdout()
}

// Execute runs the root command.
func Execute() error {
	return errors.Wrap(rootCmd.Execute(), "executing root command")
}
