package register

import (
	"errors"
	"fmt"
)

// ErrNoVersions marks a qualification that reached the funding pass with no
// version rows. Treated as fatal for the whole pass, not skipped.
var ErrNoVersions = errors.New("qualification has no versions")

// NotFoundError reports a reference-data name that could not be resolved to
// an identifier.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}
