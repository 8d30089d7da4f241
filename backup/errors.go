package backup

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("backup not found")
	ErrCorrupt  = errors.New("backup is corrupted")
)

// StoreError wraps a failure of a store operation on a named save.
type StoreError struct {
	Op   string
	Name string
	Sum  uint64
	Err  error
}

func storeErr(op, name string, sum uint64, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Name: name, Sum: sum, Err: err}
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Error() string {
	if e.Sum != 0 {
		return fmt.Sprintf("backup %s %s@%s: %v", e.Op, e.Name, FormatSum(e.Sum), e.Err)
	}
	return fmt.Sprintf("backup %s %s: %v", e.Op, e.Name, e.Err)
}
