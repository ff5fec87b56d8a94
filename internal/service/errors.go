package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Domain error taxonomy. Handlers map these to HTTP statuses; everything else
// that bubbles up from repositories is treated as an infrastructure error and
// propagated unchanged.
var (
	// ErrScheduleNotFound — referenced production schedule does not exist.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrProductNotFound — referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrComponentNotFound — referenced component does not exist.
	ErrComponentNotFound = errors.New("component not found")

	// ErrNoComponents — the product has no bill of materials. Surfaced
	// distinctly from stock shortages: it means missing configuration, and
	// scheduling production for such a product is a data-integrity problem.
	ErrNoComponents = errors.New("product has no components defined")

	// ErrProductMismatch — the product named in a completion request is not
	// the one the schedule was committed for.
	ErrProductMismatch = errors.New("product does not match schedule")

	// ErrScheduleAlreadyCompleted — the schedule's materials were already
	// consumed; a second completion would decrement stock twice.
	ErrScheduleAlreadyCompleted = errors.New("schedule already completed")
)

// ComponentShortage describes one component that cannot cover the requested
// consumption.
type ComponentShortage struct {
	ComponentID   uuid.UUID
	ComponentCode string
	Required      int
	Available     int
	Shortage      int
}

// InsufficientInventoryError is returned when a production decrement would
// drive any component's stock negative. It carries every short component, and
// its presence guarantees that zero writes happened.
type InsufficientInventoryError struct {
	Shortages []ComponentShortage
}

func (e *InsufficientInventoryError) Error() string {
	codes := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		codes = append(codes, fmt.Sprintf("%s (need %d, have %d)", s.ComponentCode, s.Required, s.Available))
	}
	return fmt.Sprintf("insufficient inventory for %d component(s): %s",
		len(e.Shortages), strings.Join(codes, ", "))
}
