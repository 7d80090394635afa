// Package app provides TUI application adapters for command wiring.
package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/tui/state"
)

// Client defines dependencies needed by the tui command.
type Client interface {
	CreateModel(deps state.Deps) (tea.Model, error)
	RunProgram(model tea.Model) error
}

// ProgramRunner defines the interface for running a bubbletea program.
type ProgramRunner interface {
	Run(model tea.Model) error
}

// DefaultProgramRunner runs the model full screen.
type DefaultProgramRunner struct{}

// NewDefaultProgramRunner creates a new DefaultProgramRunner.
func NewDefaultProgramRunner() *DefaultProgramRunner {
	return &DefaultProgramRunner{}
}

// Run starts a bubbletea program on the alternate screen.
func (r *DefaultProgramRunner) Run(model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// DefaultClient is the default adapter-based implementation used by CLI wiring.
type DefaultClient struct {
	programRunner ProgramRunner
}

// NewDefaultClient creates a default TUI client adapter.
// If programRunner is nil, a DefaultProgramRunner will be used.
func NewDefaultClient(programRunner ProgramRunner) *DefaultClient {
	if programRunner == nil {
		programRunner = NewDefaultProgramRunner()
	}
	return &DefaultClient{programRunner: programRunner}
}

// CreateModel builds the console model.
func (d *DefaultClient) CreateModel(deps state.Deps) (tea.Model, error) {
	return state.NewModel(deps)
}

// RunProgram starts the program. Structured stderr logging is paused while
// the console owns the terminal.
func (d *DefaultClient) RunProgram(model tea.Model) error {
	colors.DisableStructuredLogging()
	defer colors.EnableStructuredLogging()

	if err := d.programRunner.Run(model); err != nil {
		colors.Error(fmt.Sprintf("Error running TUI: %v", err))
		return err
	}
	return nil
}
