// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrMissingName is returned when a create or query lacks the name field.
var ErrMissingName = errors.New("missing name")

// ErrCustomerNotFound is returned when no customer carries the requested id.
type ErrCustomerNotFound struct {
	CustomerID int
}

func (e *ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer with ID %d not found", e.CustomerID)
}

// Helper constructor
func NewCustomerNotFound(id int) error {
	return &ErrCustomerNotFound{CustomerID: id}
}

// IsCustomerNotFound reports whether err wraps an ErrCustomerNotFound.
func IsCustomerNotFound(err error) bool {
	var nf *ErrCustomerNotFound
	return errors.As(err, &nf)
}
