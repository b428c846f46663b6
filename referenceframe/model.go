package referenceframe

import (
	"strings"
	"sync"

	"go.uber.org/multierr"

	"go.viam.com/pickplace/spatialmath"
)

// A Model is a frame built from an ordered kinematic chain of named links and joints.
type Model interface {
	Frame
	// JointNames returns the names of the moving frames, in chain order.
	JointNames() []string
	// LinkNames returns the names of every frame of the chain, in chain order.
	LinkNames() []string
	// LinkTransform is the pose of the named frame relative to the model base.
	LinkTransform(inputs []Input, link string) (spatialmath.Pose, error)
	ChangeName(name string)
}

// SimpleModel is a serial chain of frames.
// Generally speaking, a Joint will attach a Body to a Frame
// And a Fixed will attach a Frame to a Body
// Exceptions are the head of the tree where we are just starting the robot from World.
type SimpleModel struct {
	name string // the name of the arm
	// OrdTransforms is the list of transforms ordered from base to end effector
	OrdTransforms []Frame
	limits        []Limit
	lock          sync.RWMutex
}

// NewSimpleModel constructs a new model.
func NewSimpleModel(name string) *SimpleModel {
	return &SimpleModel{name: name}
}

// NewSerialModel builds a model from frames ordered from base to end effector.
func NewSerialModel(name string, frames ...Frame) (*SimpleModel, error) {
	seen := make(map[string]bool, len(frames))
	for _, f := range frames {
		if seen[f.Name()] {
			return nil, NewDuplicateFrameNameError(f.Name())
		}
		seen[f.Name()] = true
	}
	m := NewSimpleModel(name)
	m.setOrdTransforms(frames)
	return m, nil
}

func (m *SimpleModel) setOrdTransforms(frames []Frame) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.OrdTransforms = frames
	m.limits = nil
}

// Name returns the name of this model.
func (m *SimpleModel) Name() string {
	return m.name
}

// ChangeName changes the name of this model.
func (m *SimpleModel) ChangeName(name string) {
	m.name = name
}

// Transform takes a list of joint angles in radians and computes the pose of the end effector
// relative to the model base.
func (m *SimpleModel) Transform(inputs []Input) (spatialmath.Pose, error) {
	if len(m.OrdTransforms) == 0 {
		return spatialmath.NewZeroPose(), nil
	}
	return m.LinkTransform(inputs, m.OrdTransforms[len(m.OrdTransforms)-1].Name())
}

// LinkTransform computes the pose of the named frame relative to the model base. Out of bounds
// inputs still produce a pose, alongside a non-nil error.
func (m *SimpleModel) LinkTransform(inputs []Input, link string) (spatialmath.Pose, error) {
	poses, err := m.linkPoses(inputs)
	if poses == nil {
		return nil, err
	}
	pose, ok := poses[link]
	if !ok {
		return nil, NewFrameMissingError(link)
	}
	return pose, err
}

// LinkPoses returns the pose of every frame of the chain relative to the model base.
func (m *SimpleModel) LinkPoses(inputs []Input) (map[string]spatialmath.Pose, error) {
	return m.linkPoses(inputs)
}

func (m *SimpleModel) linkPoses(inputs []Input) (map[string]spatialmath.Pose, error) {
	if dof := len(m.DoF()); len(inputs) != dof {
		return nil, NewIncorrectDoFError(len(inputs), dof)
	}

	var err error
	poses := make(map[string]spatialmath.Pose, len(m.OrdTransforms))
	composedTransformation := spatialmath.NewZeroPose()
	posIdx := 0
	// compose from the base outwards.
	for _, transform := range m.OrdTransforms {
		dof := len(transform.DoF()) + posIdx
		input := inputs[posIdx:dof]
		posIdx = dof

		pose, errNew := transform.Transform(input)
		// Fail if inputs are incorrect and pose is nil, but allow querying out-of-bounds positions
		if pose == nil {
			return nil, errNew
		}
		if errNew != nil && !strings.Contains(errNew.Error(), OOBErrString) {
			return nil, errNew
		}
		multierr.AppendInto(&err, errNew)
		composedTransformation = spatialmath.Compose(composedTransformation, pose)
		poses[transform.Name()] = composedTransformation
	}
	return poses, err
}

// JointNames returns the names of the frames that have degrees of freedom, base first.
func (m *SimpleModel) JointNames() []string {
	names := make([]string, 0, len(m.OrdTransforms))
	for _, transform := range m.OrdTransforms {
		if len(transform.DoF()) > 0 {
			names = append(names, transform.Name())
		}
	}
	return names
}

// LinkNames returns the names of all frames of the chain, base first.
func (m *SimpleModel) LinkNames() []string {
	names := make([]string, 0, len(m.OrdTransforms))
	for _, transform := range m.OrdTransforms {
		names = append(names, transform.Name())
	}
	return names
}

// AreJointPositionsValid checks whether the given array of joint positions violates any joint limits.
func (m *SimpleModel) AreJointPositionsValid(pos []float64) bool {
	limits := m.DoF()
	if len(pos) != len(limits) {
		return false
	}
	for i := 0; i < len(limits); i++ {
		if pos[i] < limits[i].Min || pos[i] > limits[i].Max {
			return false
		}
	}
	return true
}

// DoF returns the number of degrees of freedom within an arm.
func (m *SimpleModel) DoF() []Limit {
	m.lock.RLock()
	if m.limits != nil {
		defer m.lock.RUnlock()
		return m.limits
	}
	m.lock.RUnlock()

	limits := make([]Limit, 0, len(m.OrdTransforms))
	for _, transform := range m.OrdTransforms {
		if len(transform.DoF()) > 0 {
			limits = append(limits, transform.DoF()...)
		}
	}
	m.lock.Lock()
	m.limits = limits
	m.lock.Unlock()
	return limits
}

// AlmostEquals returns true if the only difference between this model and another is floating point inprecision.
func (m *SimpleModel) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*SimpleModel)
	if !ok {
		return false
	}

	if m.name != other.name {
		return false
	}

	if len(m.OrdTransforms) != len(other.OrdTransforms) {
		return false
	}

	for idx, f := range m.OrdTransforms {
		if !f.AlmostEquals(other.OrdTransforms[idx]) {
			return false
		}
	}

	return true
}
