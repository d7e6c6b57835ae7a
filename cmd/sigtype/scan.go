package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"sigtype/internal/diagfmt"
	"sigtype/internal/driver"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [flags] [PATH...]",
		Short: "Extract annotated signatures from source files",
		Long: `Scan walks the given files and directories (default: the current
directory), finds every method definition and prints its typed signature.
Directories are filtered by the extensions listed in sigtype.toml;
--exclude adds doublestar patterns ("vendor/**") to [scan].exclude.
With --watch the scan is repeated after every change until interrupted.`,
		RunE: runScan,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|sig)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=config or auto)")
	cmd.Flags().Bool("cache", false, "reuse results from the disk cache")
	cmd.Flags().Bool("clear-cache", false, "drop the disk cache before scanning")
	cmd.Flags().String("ui", "auto", "progress UI mode (auto|on|off)")
	cmd.Flags().StringSlice("exclude", nil, "skip paths matching these glob patterns inside scanned directories")
	cmd.Flags().Bool("watch", false, "rescan whenever a matching file changes (Ctrl-C to stop)")
	cmd.Flags().Duration("debounce", driver.DefaultDebounce, "quiet period before a rescan in --watch mode")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "sig":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	uiValue, _ := cmd.Flags().GetString("ui")
	mode, err := parseSwitch("ui", uiValue)
	if err != nil {
		return err
	}

	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := s.driverOptions()
	if cmd.Flags().Changed("jobs") {
		jobs, _ := cmd.Flags().GetInt("jobs")
		if jobs < 0 {
			return fmt.Errorf("--jobs must be >= 0, got %d", jobs)
		}
		opts.Jobs = jobs
	}
	extra, _ := cmd.Flags().GetStringSlice("exclude")
	for _, pat := range extra {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("--exclude: malformed pattern %q", pat)
		}
	}
	opts.Exclude = append(slices.Clone(opts.Exclude), extra...)
	if err := setupCache(cmd, s, &opts); err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		debounce, _ := cmd.Flags().GetDuration("debounce")
		return watchScan(cmd, s, paths, opts, format, debounce)
	}

	var res *driver.ScanResult
	err = s.timer.Measure("scan", func() error {
		var scanErr error
		if format == "pretty" && !s.quiet && mode.enabled(cmd.OutOrStdout()) {
			res, scanErr = runScanWithUI(cmd.Context(), cmd.OutOrStdout(), "sigtype scan", paths, opts)
		} else {
			res, scanErr = driver.ScanPaths(cmd.Context(), paths, opts)
		}
		return scanErr
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	stopRender := s.timer.Start("render")
	err = renderScan(cmd, res, s, format)
	stopRender(format)
	if err != nil {
		return err
	}
	s.reportTimings(cmd.ErrOrStderr(), format == "json")

	if res.HasErrors() {
		return errors.New("scan finished with errors")
	}
	return nil
}

func renderScan(cmd *cobra.Command, res *driver.ScanResult, s *settings, format string) error {
	switch format {
	case "json":
		return renderScanJSON(cmd.OutOrStdout(), res, s)
	case "sig":
		renderScanComments(cmd.OutOrStdout(), res, s)
		renderScanDiagnostics(cmd.ErrOrStderr(), res, s)
	default:
		renderScanPretty(cmd.OutOrStdout(), res, s)
		renderScanDiagnostics(cmd.ErrOrStderr(), res, s)
		if !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "scanned %d files, %d signatures, %d diagnostics\n",
				len(res.Files), res.Signatures(), countDiagnostics(res))
		}
	}
	return nil
}

// watchScan повторяет скан при изменениях, пока не придёт Ctrl-C.
func watchScan(cmd *cobra.Command, s *settings, paths []string, opts driver.Options, format string, debounce time.Duration) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var renderErr error
	err := driver.Watch(ctx, paths, opts, debounce, func(res *driver.ScanResult, err error) {
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "scan failed: %v\n", err)
			}
			return
		}
		if rerr := renderScan(cmd, res, s, format); rerr != nil && renderErr == nil {
			renderErr = rerr
		}
	})
	return errors.Join(err, renderErr)
}

// setupCache открывает дисковый кэш, если он включён флагом или конфигом.
func setupCache(cmd *cobra.Command, s *settings, opts *driver.Options) error {
	enabled := s.cfg.Scan.Cache
	if cmd.Flags().Changed("cache") {
		enabled, _ = cmd.Flags().GetBool("cache")
	}
	dropCache, _ := cmd.Flags().GetBool("clear-cache")
	if !enabled && !dropCache {
		return nil
	}

	var (
		cache *driver.DiskCache
		err   error
	)
	if s.cfg.Scan.CacheDir != "" {
		cache, err = driver.NewDiskCache(s.cfg.Scan.CacheDir)
	} else {
		cache, err = driver.OpenDiskCache("sigtype")
	}
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if dropCache {
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	if enabled {
		opts.Cache = cache
	}
	return nil
}

func renderScanPretty(w io.Writer, res *driver.ScanResult, s *settings) {
	for _, fr := range res.Files {
		if !fr.Loaded {
			continue
		}
		file := res.FileSet.Get(fr.FileID)
		for _, sig := range fr.Signatures {
			diagfmt.FormatSignaturePretty(w, sig, file, s.prettyOpts(s.color))
		}
	}
}

// renderScanComments печатает "# @sig" аннотации с позицией определения.
func renderScanComments(w io.Writer, res *driver.ScanResult, s *settings) {
	for _, fr := range res.Files {
		if !fr.Loaded {
			continue
		}
		file := res.FileSet.Get(fr.FileID)
		for _, sig := range fr.Signatures {
			start, _ := file.Resolve(sig.Span)
			fmt.Fprintf(w, "%s:%d: ", displayPath(fr, res, s), start.Line)
			diagfmt.FormatSignatureComment(w, sig)
		}
	}
}

func renderScanDiagnostics(w io.Writer, res *driver.ScanResult, s *settings) {
	for _, fr := range res.Files {
		if !fr.Loaded {
			// позиции нет, печатаем только путь
			for _, d := range fr.Bag.Items() {
				fmt.Fprintf(w, "%s: %s %s: %s\n", fr.Path, d.Severity, d.Code.ID(), d.Message)
			}
			continue
		}
		s.printDiagnostics(w, fr.Bag, res.FileSet.Get(fr.FileID))
	}
}

func renderScanJSON(w io.Writer, res *driver.ScanResult, s *settings) error {
	out := make([]diagfmt.FileOutput, 0, len(res.Files))
	for _, fr := range res.Files {
		fr.Bag.Sort()
		var payload diagfmt.FileOutput
		if fr.Loaded {
			payload = diagfmt.BuildFileOutput(fr.Path, res.FileSet.Get(fr.FileID), fr.Signatures, fr.Bag, s.jsonOpts())
		} else {
			payload = diagfmt.BuildFileOutput(fr.Path, nil, fr.Signatures, fr.Bag, s.jsonOpts())
		}
		payload.Cached = fr.Cached
		out = append(out, payload)
	}
	return diagfmt.WriteJSON(w, out)
}

func displayPath(fr driver.FileResult, res *driver.ScanResult, s *settings) string {
	if !fr.Loaded {
		return fr.Path
	}
	return diagfmt.DisplayPath(res.FileSet.Get(fr.FileID), s.pathMode)
}

func countDiagnostics(res *driver.ScanResult) int {
	n := 0
	for _, fr := range res.Files {
		n += fr.Bag.Len()
	}
	return n
}
