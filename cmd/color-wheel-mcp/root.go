package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ironsheep/color-wheel-mcp/internal/config"
)

var (
	cfgFile string
	v       = config.New()
	cfg     config.Config
	logger  *slog.Logger
)

// rootCmd serves MCP when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "color-wheel-mcp",
	Short: "MCP server that counts image colors and draws them as a color wheel",
	Long: `color-wheel-mcp counts every distinct color in an image and draws the
result as a radial chart with one equal-angle wedge per color.

Without a subcommand it serves MCP over stdin/stdout; configure it in
your MCP client. Logs go to stderr.

Settings are read from color-wheel.yaml (working directory, user config
directory or home) and COLOR_WHEEL_* environment variables, e.g.
COLOR_WHEEL_LOG_LEVEL=debug.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: search for color-wheel.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	bindFlag(rootCmd, config.KeyLogLevel, "log-level")
}

// bindFlag makes a flag override the config key when it is set.
func bindFlag(cmd *cobra.Command, key, flag string) {
	f := cmd.Flags().Lookup(flag)
	if f == nil {
		f = cmd.PersistentFlags().Lookup(flag)
	}
	if err := v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	logger = cfg.Logger(cmd.ErrOrStderr())
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "file", used)
	}
	return nil
}
