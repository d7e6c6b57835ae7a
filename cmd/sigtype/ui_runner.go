package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"sigtype/internal/driver"
	"sigtype/internal/ui"
)

type scanOutcome struct {
	result *driver.ScanResult
	err    error
}

// runScanWithUI runs the scan in the background while the progress model
// renders its events. Quitting the UI cancels the remaining files.
func runScanWithUI(ctx context.Context, out io.Writer, title string, paths []string, opts driver.Options) (*driver.ScanResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan scanOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.ScanPaths(ctx, paths, optsCopy)
		outcomeCh <- scanOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(out))
	_, uiErr := program.Run()

	// UI мог завершиться раньше: отменяем скан и вычитываем хвост событий
	cancel()
	go func() {
		for range events {
		}
	}()

	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
