package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ludo-technologies/fsdscan/internal/config"
	"github.com/ludo-technologies/fsdscan/internal/constants"
	"github.com/ludo-technologies/fsdscan/internal/version"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version

	verbose bool
	logger  *zap.Logger

	buildLogger = newLogger
)

// ExitError carries the process exit code of a command
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command line and returns the process exit code. The
// logger is flushed on every path, including failed commands.
func run(args []string, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	_ = currentLogger().Sync()
	if err == nil {
		return constants.ExitPass
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintf(stderr, "Error: %s\n", exitErr.Message)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return constants.ExitFatal
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.ToolName,
		Short: "fsdscan - feature-sliced architecture auditor for JavaScript/TypeScript",
		Long: `fsdscan audits a JavaScript/TypeScript project against feature-sliced and
feature-first architecture rules: naming, layering, placement, responsibility
and consumer counts. It reports prioritized violations with suggested fixes
and exits non-zero when a violation reaches the configured fail threshold.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv("."); err != nil {
				return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
			}
			l, err := buildLogger(verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(auditCmd())
	rootCmd.AddCommand(graphCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(scaffoldCmd())
	rootCmd.AddCommand(mcpCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

// newLogger builds a console logger on stderr, warn level unless debug is set
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// currentLogger returns the command logger, or a no-op logger when a
// subcommand runs without the root command
func currentLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			full, _ := cmd.Flags().GetBool("full")
			if full {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", constants.ToolName, version.GetVersion())
			}
		},
	}

	cmd.Flags().Bool("full", false, "Show commit and build date")
	return cmd
}
