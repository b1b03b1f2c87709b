package eventloop

// InputKind names the actions the terminal-facing layer can inject into
// the loop. Translating raw keystrokes into these is the TUI's job; the
// loop itself knows nothing about key bindings.
type InputKind int

const (
	InputNone InputKind = iota
	InputQuit
	InputUp
	InputDown
	InputPageUp
	InputPageDown
	InputHome
	InputEnd
	InputToggleMark
	InputSelectAll
	InputSelectNone
	InputDelete
	InputDeleteMarked
	InputConfirm
	InputCancel
	InputCycleSort
	InputFilterAll
	InputFilterTarget
	InputFilterSearch
	InputToggleShowProtected
	InputResize
)

// Input is one event injected into the loop via Loop.Send.
type Input struct {
	Kind   InputKind
	Text   string // target name (InputFilterTarget) or substring (InputFilterSearch)
	Height int    // visible row count (InputResize)
}
