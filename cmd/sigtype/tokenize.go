package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sigtype/internal/diagfmt"
	"sigtype/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] [TEXT]",
		Short: "Show the delimiter token tree of a text or file",
		Long: `Tokenize splits the input into text runs, quoted literals, comments and
nested (), [] and {} groups, and prints the resulting tree.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().String("file", "", "tokenize the whole content of this file instead of TEXT")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	filePath, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
	}
	if (filePath == "") == (len(args) == 0) {
		return errors.New("expected either TEXT or --file")
	}

	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := s.driverOptions()
	var result *driver.TokenizeResult
	err = s.timer.Measure("tokenize", func() error {
		if filePath != "" {
			var loadErr error
			result, loadErr = driver.TokenizeFile(filePath, opts)
			return loadErr
		}
		result = driver.TokenizeText("<arg>", args[0], opts)
		return nil
	})
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	s.printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.File)

	if result.OK {
		switch format {
		case "pretty":
			err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Root, result.File)
		case "json":
			err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Root)
		}
		if err != nil {
			return err
		}
	}
	s.reportTimings(cmd.ErrOrStderr(), format == "json")

	if result.Bag.HasErrors() {
		return errors.New("tokenization failed")
	}
	return nil
}
