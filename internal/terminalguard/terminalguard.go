// Package terminalguard gives the TUI scoped, exclusive ownership of
// the terminal: alternate screen and raw mode are requested on
// construction and guaranteed released when the run ends, on every
// exit path including a panic inside a bubbletea Update or View. The
// teacher's cmd/sweep/tui.Run hands this off to tea.Program implicitly
// because it never shares the terminal with another caller in the same
// process; spec.md §4.9 makes the guarantee explicit instead.
package terminalguard

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cachesweep/cachesweep/internal/logging"
)

// Guard wraps a tea.Program with a guaranteed terminal release.
type Guard struct {
	program *tea.Program
	logger  *logging.Logger
	once    sync.Once
}

// New configures model for exclusive alternate-screen ownership. Extra
// options are appended after the alt-screen/mouse defaults, so a caller
// can override them (e.g. tea.WithInput for tests).
func New(model tea.Model, opts ...tea.ProgramOption) *Guard {
	all := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, opts...)
	return &Guard{
		program: tea.NewProgram(model, all...),
		logger:  logging.Get("terminalguard"),
	}
}

// Program returns the underlying bubbletea program so a caller can Send
// messages into it from another goroutine. internal/tui does not use it:
// its Model pulls Snapshot values from the loop with a tea.Cmd.
func (g *Guard) Program() *tea.Program {
	return g.program
}

// Run drives the program to completion. The terminal is released before
// Run returns and before a panic from inside the program continues
// unwinding, so the caller's terminal is never left in raw/alt-screen
// mode by an aborted run.
func (g *Guard) Run() (tea.Model, error) {
	defer g.release()

	defer func() {
		if r := recover(); r != nil {
			g.release()
			g.logger.Error("tui panic, terminal released", "recovered", r)
			panic(r)
		}
	}()

	return g.program.Run()
}

// Kill forcibly stops the program without waiting for its final render,
// releasing the terminal. Used by callers that need to abort the TUI
// from outside its own event loop (e.g. an OS signal handler).
func (g *Guard) Kill() {
	g.program.Kill()
	g.release()
}

func (g *Guard) release() {
	g.once.Do(func() {
		g.program.ReleaseTerminal()
	})
}
