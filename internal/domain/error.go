package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrValidation         = errors.New("invalid input")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid query execution context")
	ErrOperationFailed    = errors.New("store operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Reconciliation errors
	ErrUnknownTransaction = errors.New("no payment matches transaction id")
	ErrAlreadyReconciled  = errors.New("payment already reconciled")
	ErrPartialPropagation = errors.New("payment completed but order update pending")
)
