package cli

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-vadsplit/internal/audio"
	"github.com/alnah/go-vadsplit/internal/config"
	"github.com/alnah/go-vadsplit/internal/pipeline"
	"github.com/alnah/go-vadsplit/internal/vad"
)

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/go-vadsplit/config.
Command-line flags take precedence over the file, and the file over
environment variables.

Supported settings:
  output-dir      Directory for saved chunks     (env: VADSPLIT_OUTPUT_DIR)
  ffmpeg-path     Path to the ffmpeg binary      (env: VADSPLIT_FFMPEG_PATH)
  frame-duration  Frame length in ms: 10, 20, 30 (env: VADSPLIT_FRAME_DURATION)
  aggressiveness  VAD aggressiveness 0-3         (env: VADSPLIT_AGGRESSIVENESS)
  min-duration    Minimum chunk length           (env: VADSPLIT_MIN_DURATION)
  format          mp3, ogg, wav or flac          (env: VADSPLIT_FORMAT)`,
		Example: `  vadsplit config set output-dir ~/voice_chunks
  vadsplit config set aggressiveness 2
  vadsplit config get min-duration
  vadsplit config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Values are validated before they are saved. Setting output-dir creates the
directory if it doesn't exist.`,
		Example: `  vadsplit config set output-dir ~/voice_chunks
  vadsplit config set min-duration 1.5
  vadsplit config set format ogg`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set. Falls back to the
environment variable when the file has no value.`,
		Example: `  vadsplit config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable fallbacks.`,
		Example: `  vadsplit config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if err := config.CheckKey(key); err != nil {
		return err
	}

	value, err := normalizeConfigValue(key, value)
	if err != nil {
		return err
	}

	if err := env.ConfigStore.Set(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// normalizeConfigValue validates value for key and returns the form to store.
func normalizeConfigValue(key, value string) (string, error) {
	value = strings.TrimSpace(value)

	switch key {
	case config.KeyOutputDir:
		expanded := config.ExpandPath(value)
		if _, err := config.EnsureOutputDir(expanded); err != nil {
			return "", fmt.Errorf("invalid %s: %w", key, err)
		}
		return expanded, nil

	case config.KeyFFmpegPath:
		expanded := config.ExpandPath(value)
		info, err := os.Stat(expanded)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("invalid %s: %s is not a file", key, expanded)
		}
		return expanded, nil

	case config.KeyFrameDuration:
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidValue, key, value)
		}
		if err := vad.ValidateConfig(pipeline.DefaultSampleRate, n, pipeline.DefaultAggressiveness); err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil

	case config.KeyAggressiveness:
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidValue, key, value)
		}
		if err := vad.ValidateConfig(pipeline.DefaultSampleRate, pipeline.DefaultFrameDuration, n); err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil

	case config.KeyMinDuration:
		if _, err := parseMinDuration(value); err != nil {
			return "", err
		}
		return value, nil

	case config.KeyFormat:
		f, err := audio.ParseFormat(value)
		if err != nil {
			return "", err
		}
		return string(f), nil
	}

	return value, nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if err := config.CheckKey(key); err != nil {
		return err
	}

	value, err := env.ConfigStore.Get(key)
	if err != nil {
		return err
	}

	// Check environment variable fallback.
	if value == "" {
		value = env.Getenv(config.EnvVar(key))
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}

	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := env.ConfigStore.List()
	if err != nil {
		return err
	}

	// Add environment variable values for completeness.
	for _, key := range config.Keys() {
		if _, ok := data[key]; ok {
			continue
		}
		if envVal := env.Getenv(config.EnvVar(key)); envVal != "" {
			data[key] = envVal + " (from env)"
		}
	}

	if len(data) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range config.Keys() {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		fmt.Fprintf(env.Stdout, "%s=%s\n", key, data[key])
	}

	return nil
}
