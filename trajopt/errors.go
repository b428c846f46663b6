package trajopt

import "github.com/pkg/errors"

// ErrNoSteps is returned when a problem has no time steps.
var ErrNoSteps = errors.New("problem must have at least one time step")

// NewUnknownTermKindError is returned when decoding a term of an unknown kind.
func NewUnknownTermKindError(kind string) error {
	return errors.Errorf("unknown term kind %q", kind)
}

// NewDuplicateTermNameError is returned when two terms of a problem share a name.
func NewDuplicateTermNameError(name string) error {
	return errors.Errorf("more than one term named %q", name)
}

// NewStepOutOfRangeError is returned when a term refers to time steps outside of the problem.
func NewStepOutOfRangeError(name string, first, last, nSteps int) error {
	return errors.Errorf("term %q spans steps %d..%d, problem has steps 0..%d", name, first, last, nSteps-1)
}

// NewManipulatorMismatchError is returned when the kinematics do not belong to the named manipulator.
func NewManipulatorMismatchError(manip, kinematics string) error {
	return errors.Errorf("problem is for manipulator %q but kinematics are for %q", manip, kinematics)
}
