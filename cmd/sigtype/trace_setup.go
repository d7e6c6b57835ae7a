package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"sigtype/internal/trace"
)

// traceFlags mirrors the --trace* persistent flags.
type traceFlags struct {
	output    string
	level     string
	mode      string
	ringSize  int
	heartbeat time.Duration
}

func readTraceFlags(flags *pflag.FlagSet) (traceFlags, error) {
	var tf traceFlags
	var errs []error
	get := func(v string, err error) string {
		errs = append(errs, err)
		return v
	}
	tf.output = get(flags.GetString("trace"))
	tf.level = get(flags.GetString("trace-level"))
	tf.mode = get(flags.GetString("trace-mode"))
	size, err := flags.GetInt("trace-ring-size")
	errs = append(errs, err)
	tf.ringSize = size
	hb, err := flags.GetDuration("trace-heartbeat")
	errs = append(errs, err)
	tf.heartbeat = hb
	return tf, errors.Join(errs...)
}

// toStderr: пустой путь и "-" означают stderr.
func (tf traceFlags) toStderr() bool { return tf.output == "" || tf.output == "-" }

// setupTracing attaches a tracer built from the flags to the command context.
// Passing --trace without --trace-level traces phases.
func setupTracing(cmd *cobra.Command) (func(), error) {
	tf, err := readTraceFlags(cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	level, err := trace.ParseLevel(tf.level)
	if err != nil {
		return nil, fmt.Errorf("--trace-level: %w", err)
	}
	if level == trace.LevelOff && tf.output == "" {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	if level == trace.LevelOff {
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(tf.mode)
	if err != nil {
		return nil, fmt.Errorf("--trace-mode: %w", err)
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: tf.output,
		RingSize:   tf.ringSize,
		Heartbeat:  tf.heartbeat,
	}
	stderr := cmd.ErrOrStderr()
	if tf.toStderr() {
		cfg.Output = stderr
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	hb := trace.StartHeartbeat(tracer, tf.heartbeat)

	return func() {
		hb.Stop()
		var errs []error
		// кольцо пишется целиком только при завершении
		if ring, ok := tracer.(*trace.RingTracer); ok {
			errs = append(errs, dumpRing(ring, tf, stderr))
		}
		errs = append(errs, tracer.Flush(), tracer.Close())
		if err := errors.Join(errs...); err != nil {
			fmt.Fprintf(stderr, "trace: %v\n", err)
		}
	}, nil
}

func dumpRing(ring *trace.RingTracer, tf traceFlags, stderr io.Writer) error {
	if tf.toStderr() {
		return ring.Dump(stderr, trace.FormatText)
	}
	f, err := os.Create(tf.output)
	if err != nil {
		return err
	}
	return errors.Join(ring.Dump(f, trace.FormatForPath(tf.output)), f.Close())
}
