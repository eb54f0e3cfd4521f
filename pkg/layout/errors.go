package layout

import (
	"errors"
	"fmt"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
)

// ErrPrecedence matches any [PrecedenceError] through errors.Is.
var ErrPrecedence = errors.New("return to fixation with no prior fixation")

// PrecedenceError reports a ReturnToFixation step that is not preceded by
// any Fixation step. Index is the 0-based position of the offending step.
type PrecedenceError struct {
	Index int
}

func (e *PrecedenceError) Error() string {
	return fmt.Sprintf("invalid gesture: step %d: %v", e.Index+1, ErrPrecedence)
}

// Is reports whether target is [ErrPrecedence].
func (e *PrecedenceError) Is(target error) bool {
	return target == ErrPrecedence
}

// Code lets pkg/errors classify the failure.
func (e *PrecedenceError) Code() gserrors.Code {
	return gserrors.ErrCodePrecedence
}
