package store

import (
	"fmt"

	"github.com/gofrs/flock"

	"github.com/amishk599/internscout/internal/model"
)

// RunLock enforces single-writer access to the ledger across processes.
type RunLock struct {
	fl *flock.Flock
}

// AcquireRunLock takes an exclusive, non-blocking file lock next to the
// ledger. A lock held by another run is a configuration error: the new run
// must not proceed.
func AcquireRunLock(ledgerPath string) (*RunLock, error) {
	fl := flock.New(ledgerPath + ".lock")
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: locking ledger: %w", model.ErrConfiguration, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: another run holds %s", model.ErrConfiguration, fl.Path())
	}
	return &RunLock{fl: fl}, nil
}

// Release unlocks the ledger.
func (l *RunLock) Release() error {
	return l.fl.Unlock()
}
