package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sigtype/internal/config"
	"sigtype/internal/diag"
	"sigtype/internal/diagfmt"
	"sigtype/internal/driver"
	"sigtype/internal/observ"
	"sigtype/internal/source"
	"sigtype/internal/trace"
)

// settings собирает всё, что нужно подкоманде: конфиг, трассировку, цвета.
type settings struct {
	cfg      config.Config
	tracer   trace.Tracer
	timer    *observ.Timer
	color    bool
	errColor bool
	quiet    bool
	timings  bool
	pathMode diagfmt.PathMode
}

// loadSettings reads the global flags and sigtype.toml. The returned cleanup
// must run after the command finished, it flushes the tracer and stops
// the profilers.
func loadSettings(cmd *cobra.Command) (*settings, func(), error) {
	root := cmd.Root().PersistentFlags()
	colorFlag, _ := root.GetString("color")
	quiet, _ := root.GetBool("quiet")
	timings, _ := root.GetBool("timings")
	configPath, _ := root.GetString("config")
	pathModeStr, _ := root.GetString("path-mode")

	s := &settings{timer: observ.NewTimer(), quiet: quiet, timings: timings}

	var err error
	if s.color, err = useColor(colorFlag, cmd.OutOrStdout()); err != nil {
		return nil, nil, err
	}
	if s.errColor, err = useColor(colorFlag, cmd.ErrOrStderr()); err != nil {
		return nil, nil, err
	}
	mode, ok := diagfmt.ParsePathMode(pathModeStr)
	if !ok {
		return nil, nil, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", pathModeStr)
	}
	s.pathMode = mode

	err = s.timer.Measure("config", func() error {
		var loadErr error
		if configPath != "" {
			s.cfg, loadErr = config.Load(configPath)
		} else {
			s.cfg, loadErr = config.Discover(".")
		}
		return loadErr
	})
	if err != nil {
		return nil, nil, err
	}
	if root.Changed("max-diagnostics") {
		s.cfg.Scan.MaxDiagnostics, _ = root.GetInt("max-diagnostics")
		if err := s.cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return nil, nil, err
	}
	stopTracing, err := setupTracing(cmd)
	if err != nil {
		stopProfiling()
		return nil, nil, err
	}
	s.tracer = trace.FromContext(cmd.Context())
	return s, func() {
		stopTracing()
		stopProfiling()
	}, nil
}

func (s *settings) driverOptions() driver.Options {
	return driver.OptionsFromConfig(s.cfg, s.tracer)
}

func (s *settings) prettyOpts(colored bool) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{Color: colored, PathMode: s.pathMode, ShowNotes: true}
}

func (s *settings) jsonOpts() diagfmt.JSONOpts {
	return diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         s.pathMode,
		Max:              s.cfg.Scan.MaxDiagnostics,
		IncludeNotes:     true,
	}
}

// printDiagnostics печатает bag в stderr-формате. С --quiet остаются
// только ошибки.
func (s *settings) printDiagnostics(w io.Writer, bag *diag.Bag, file *source.File) {
	if s.quiet {
		bag.Filter(diag.SevError)
	}
	if bag.Len() == 0 {
		return
	}
	bag.Sort()
	diagfmt.Pretty(w, bag, file, s.prettyOpts(s.errColor))
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "%s: %d more diagnostics not shown (--max-diagnostics=%d)\n",
			diagfmt.DisplayPath(file, s.pathMode), n, bag.Cap())
	}
}

// reportTimings печатает сводку фаз, если включён --timings.
// При JSON-выводе сводка тоже уходит в JSON.
func (s *settings) reportTimings(w io.Writer, asJSON bool) {
	if !s.timings {
		return
	}
	if asJSON {
		_ = diagfmt.WriteJSON(w, s.timer.Report())
		return
	}
	fmt.Fprint(w, s.timer.Summary())
}
