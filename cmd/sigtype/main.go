package main

import (
	"os"

	"github.com/spf13/cobra"

	"sigtype/internal/version"
)

// newRootCmd builds the command tree; tests build a fresh one per run.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sigtype",
		Short: "Type annotations from method signatures",
		Long: `sigtype reads method definitions annotated with inline types, e.g.
  def initialize(String name, ?Integer age = nil) => void
and reports their arguments, return types and spans.`,
		Version:      version.Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	flags.String("config", "", "path to sigtype.toml (default: search upwards from the working directory)")
	flags.String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")

	// Профилирование
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	// Трассировка
	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept in ring mode")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 disables)")

	return rootCmd
}

// main executes the root command; on error the process exits with status 1.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
