package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sigtype/internal/diagfmt"
	"sigtype/internal/version"
)

type versionOptions struct {
	format   string
	showHash bool
	showDate bool
}

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show sigtype build information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("hash", false, "include git commit hash")
	cmd.Flags().Bool("date", false, "include build timestamp")
	cmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	hash, _ := cmd.Flags().GetBool("hash")
	date, _ := cmd.Flags().GetBool("date")
	full, _ := cmd.Flags().GetBool("full")
	opts := versionOptions{
		format:   strings.ToLower(format),
		showHash: hash || full,
		showDate: date || full,
	}

	switch opts.format {
	case "pretty", "json":
		// supported
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	if opts.format == "json" {
		return renderVersionJSON(cmd.OutOrStdout(), opts)
	}
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	colored, err := useColor(colorFlag, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	renderVersionPretty(cmd.OutOrStdout(), opts, colored)
	return nil
}

func renderVersionPretty(out io.Writer, opts versionOptions, colored bool) {
	if opts.showHash && opts.showDate {
		fmt.Fprintln(out, version.Describe(colored))
		return
	}
	fmt.Fprintf(out, "sigtype %s\n", version.Colored(colored))
	if opts.showHash {
		fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(version.GitCommit))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(version.BuildDate))
	}
}

func renderVersionJSON(out io.Writer, opts versionOptions) error {
	payload := versionPayload{
		Tool:    "sigtype",
		Version: strings.TrimSpace(version.Version),
	}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(version.GitCommit)
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(version.BuildDate)
	}
	return diagfmt.WriteJSON(out, payload)
}

func valueOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
