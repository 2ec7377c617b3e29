package main

import (
	"fmt"

	"github.com/gofrs/flock"
)

type outputLock struct {
	path string
	lock *flock.Flock
}

// acquireOutputLock takes the advisory lock guarding one output file. The lock
// file stays on disk after release; only the flock on it matters.
func acquireOutputLock(path string) (*outputLock, error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		_ = lock.Close()
		return nil, fmt.Errorf("another videogrid run is writing this output (lock %s held)", path)
	}
	return &outputLock{path: path, lock: lock}, nil
}

func (l *outputLock) release() error {
	if l == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release output lock: %w", err)
	}
	return nil
}
