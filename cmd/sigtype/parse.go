package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sigtype/internal/diagfmt"
	"sigtype/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] SIGNATURE...",
		Short: "Parse a single method signature",
		Long: `Parse reads one signature, for example
  sigtype parse 'def initialize(String name, ?Integer age = nil) => void'
Several arguments are joined with spaces.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runParse,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|sig)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "sig":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var result *driver.ParseResult
	_ = s.timer.Measure("parse", func() error {
		result = driver.ParseText("<arg>", strings.Join(args, " "), s.driverOptions())
		return nil
	})
	result.Bag.Sort()

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		sigs := result.Signatures()
		payload := diagfmt.BuildFileOutput("<arg>", result.File, sigs, result.Bag, s.jsonOpts())
		if err := diagfmt.WriteJSON(out, payload); err != nil {
			return err
		}
	default:
		s.printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.File)
		if result.Signature != nil {
			if format == "sig" {
				diagfmt.FormatSignatureComment(out, result.Signature)
			} else {
				diagfmt.FormatSignaturePretty(out, result.Signature, nil, s.prettyOpts(s.color))
			}
		}
	}
	s.reportTimings(cmd.ErrOrStderr(), format == "json")

	if result.Bag.HasErrors() {
		return errors.New("parse failed")
	}
	return nil
}
