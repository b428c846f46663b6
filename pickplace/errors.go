package pickplace

import "github.com/pkg/errors"

// NewTooFewStepsError is returned when a linear motion is asked for fewer than two steps.
func NewTooFewStepsError(numSteps int) error {
	return errors.Errorf("linear motion needs at least 2 steps, got %d", numSteps)
}

// NewStepsPerPhaseError is returned when a phase is too short to hold a linear motion.
func NewStepsPerPhaseError(stepsPerPhase int) error {
	return errors.Errorf("steps per phase must be at least 2, got %d", stepsPerPhase)
}
