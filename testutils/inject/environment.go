package inject

import (
	"go.viam.com/pickplace/environment"
)

// Environment is an injected environment.
type Environment struct {
	environment.Environment
	ManipulatorFunc            func(name string) (environment.Manipulator, error)
	CurrentJointValuesFunc     func() []float64
	ManipulatorJointValuesFunc func(name string) ([]float64, error)
	StateFunc                  func() *environment.State
}

// Manipulator calls the injected Manipulator or the real version.
func (e *Environment) Manipulator(name string) (environment.Manipulator, error) {
	if e.ManipulatorFunc == nil {
		return e.Environment.Manipulator(name)
	}
	return e.ManipulatorFunc(name)
}

// CurrentJointValues calls the injected CurrentJointValues or the real version.
func (e *Environment) CurrentJointValues() []float64 {
	if e.CurrentJointValuesFunc == nil {
		return e.Environment.CurrentJointValues()
	}
	return e.CurrentJointValuesFunc()
}

// ManipulatorJointValues calls the injected ManipulatorJointValues or the real version.
func (e *Environment) ManipulatorJointValues(name string) ([]float64, error) {
	if e.ManipulatorJointValuesFunc == nil {
		return e.Environment.ManipulatorJointValues(name)
	}
	return e.ManipulatorJointValuesFunc(name)
}

// State calls the injected State or the real version.
func (e *Environment) State() *environment.State {
	if e.StateFunc == nil {
		return e.Environment.State()
	}
	return e.StateFunc()
}
