package reports

import "sync/atomic"

// Guard suppresses a second export while one is being built.
type Guard struct {
	busy atomic.Bool
}

// Run calls fn unless another call is in progress.
func (g *Guard) Run(fn func() error) error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrExportInProgress
	}
	defer g.busy.Store(false)
	return fn()
}

func (g *Guard) Busy() bool {
	return g.busy.Load()
}
