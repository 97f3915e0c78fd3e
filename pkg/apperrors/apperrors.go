package apperrors

import (
	"errors"
)

// Sentinel errors shared by all services. Handlers match them with
// errors.Is and translate to HTTP status codes at the boundary.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrBookNotAvailable    = errors.New("book is currently not available for loan")
	ErrLoanAlreadyReturned = errors.New("book has already been returned")
	ErrDataIntegrity       = errors.New("data integrity violation")
)
