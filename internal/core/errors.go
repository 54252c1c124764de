package core

import "errors"

// ErrStorageUnavailable is the single failure kind of the data layer: the
// store could not be opened or a statement failed.
var ErrStorageUnavailable = errors.New("storage unavailable")

// StorageError records the operation that failed against the store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return ErrStorageUnavailable.Error() + ": " + e.Op
	}
	return ErrStorageUnavailable.Error() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorageUnavailable) hold for every StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

// Unavailable wraps err as a StorageError for op. A nil err stays nil.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
