package tui

import (
	"context"
	"time"

	"github.com/cachesweep/cachesweep/internal/eventloop"
	"github.com/cachesweep/cachesweep/internal/terminalguard"
)

// Run drives loop and its terminal rendering together until the user
// quits or ctx is cancelled. It owns the pairing between the headless
// eventloop.Loop and the terminalguard-wrapped bubbletea program: the
// loop runs on its own goroutine, the program renders the snapshots it
// emits. Run returns once the program has exited and the loop has
// returned; after a clean program exit it waits at most three seconds
// for the loop and then returns nil without it.
func Run(ctx context.Context, loop *eventloop.Loop) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopErr := make(chan error, 1)
	go func() { loopErr <- loop.Run(ctx) }()

	guard := terminalguard.New(New(loop, cancel))
	if _, err := guard.Run(); err != nil {
		cancel()
		<-loopErr
		return err
	}

	cancel()
	select {
	case err := <-loopErr:
		return err
	case <-time.After(3 * time.Second):
		return nil
	}
}
