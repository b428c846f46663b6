// Package environment defines the collaborators a problem builder reads the robot from: an
// Environment holding manipulators and their current joint state, and the Manipulator handle
// used for forward kinematics.
package environment

import (
	"github.com/pkg/errors"

	"go.viam.com/pickplace/spatialmath"
)

// Environment is a read view of a scene with one or more manipulators.
type Environment interface {
	// Manipulator resolves a manipulator by name.
	Manipulator(name string) (Manipulator, error)
	// CurrentJointValues returns the values of every active joint of the scene.
	CurrentJointValues() []float64
	// ManipulatorJointValues returns the current joint values of the named manipulator, in chain order.
	ManipulatorJointValues(name string) ([]float64, error)
	// State returns a snapshot of the scene.
	State() *State
}

// Manipulator is a handle to a kinematic chain.
type Manipulator interface {
	Name() string
	// JointNames returns the names of the chain's joints, base first.
	JointNames() []string
	// BaseLinkName is the link the chain's forward kinematics are expressed relative to.
	BaseLinkName() string
	// CalcFwdKin computes the world pose of `link` given the world pose of the base link and a
	// set of joint values. A nil base is looked up from the state.
	CalcFwdKin(base spatialmath.Pose, joints []float64, link string, state *State) (spatialmath.Pose, error)
}

// State is a snapshot of a scene: the world transform of every known link and object, and the
// value of every joint.
type State struct {
	Transforms  map[string]spatialmath.Pose
	JointValues map[string]float64
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		Transforms:  map[string]spatialmath.Pose{},
		JointValues: map[string]float64{},
	}
}

// Copy returns a deep copy of the state. Poses are immutable so they are shared.
func (s *State) Copy() *State {
	out := &State{
		Transforms:  make(map[string]spatialmath.Pose, len(s.Transforms)),
		JointValues: make(map[string]float64, len(s.JointValues)),
	}
	for k, v := range s.Transforms {
		out.Transforms[k] = v
	}
	for k, v := range s.JointValues {
		out.JointValues[k] = v
	}
	return out
}

// Transform returns the world transform of a link or object.
func (s *State) Transform(name string) (spatialmath.Pose, error) {
	if s == nil {
		return nil, errors.New("no state given")
	}
	pose, ok := s.Transforms[name]
	if !ok {
		return nil, NewLinkNotFoundError(name)
	}
	return pose, nil
}

// NewManipulatorNotFoundError is returned when a manipulator name does not resolve.
func NewManipulatorNotFoundError(name string) error {
	return errors.Errorf("manipulator %q not found in environment", name)
}

// NewLinkNotFoundError is returned when a link or object is not present in a state.
func NewLinkNotFoundError(name string) error {
	return errors.Errorf("link %q not found in environment state", name)
}

// NewDuplicateNameError is returned when a name is registered twice in an environment.
func NewDuplicateNameError(kind, name string) error {
	return errors.Errorf("environment already has a %s named %q", kind, name)
}
