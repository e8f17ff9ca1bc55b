package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"glint/internal/driver"
	"glint/internal/pipeline"
	"glint/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

// runWithUI executes the driver in a goroutine while a Bubble Tea program
// renders its progress events. The event channel is closed when the run
// finishes, which quits the program.
func runWithUI(cmd *cobra.Command, opts driver.Options) (*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.Run(cmd.Context(), optsCopy)
		close(events)
		outcomeCh <- runOutcome{result: res, err: err}
	}()

	model := ui.NewProgressModel("glint "+cmd.Name(), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(cmd.Context()))
	_, uiErr := program.Run()
	// keep draining so workers never block on a full event channel after
	// the program has quit
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if outcome.err != nil {
		return outcome.result, outcome.err
	}
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, nil
}
