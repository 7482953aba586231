package journal

import "fmt"

// StorageError reports a failed database operation.
type StorageError struct {
	Driver    string
	Operation string
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("journal [driver=%s, operation=%s]: %v", e.Driver, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func storageErr(driver, op string, cause error) *StorageError {
	return &StorageError{Driver: driver, Operation: op, Cause: cause}
}
