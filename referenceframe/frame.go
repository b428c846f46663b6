// Package referenceframe defines kinematic frames and chains of frames, and does the math of
// composing them. A model of a robot arm is an ordered chain of static links and moving joints;
// evaluating it at a set of joint inputs is forward kinematics.
package referenceframe

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/pickplace/spatialmath"
	"go.viam.com/pickplace/utils"
)

// World is the name of the root frame every model is ultimately attached to.
const World = "world"

// OOBErrString is a string that all OOB errors should contain, so that they can be checked for distinct from other Transform errors.
const OOBErrString = "input out of bounds"

// Limit represents the limits of motion for a referenceframe.
type Limit struct {
	Min float64
	Max float64
}

func limitsAlmostEqual(a, b []Limit) bool {
	if len(a) != len(b) {
		return false
	}

	const epsilon = 1e-5
	for idx, x := range a {
		if !utils.Float64AlmostEqual(x.Min, b[idx].Min, epsilon) ||
			!utils.Float64AlmostEqual(x.Max, b[idx].Max, epsilon) {
			return false
		}
	}

	return true
}

// Frame represents a reference frame, e.g. a link or a joint of an arm.
type Frame interface {
	// Name returns the name of the referenceframe.
	Name() string

	// Transform is the pose (rotation and translation) that goes FROM current frame TO parent's referenceframe.
	Transform([]Input) (spatialmath.Pose, error)

	// DoF will return a slice with length equal to the number of joints/degrees of freedom.
	// Each element describes the min and max movement limit of that joint/degree of freedom.
	// For robot parts that don't move, it returns an empty slice.
	DoF() []Limit

	// AlmostEquals returns if the otherFrame is close to the referenceframe.
	// differences should just be things like floating point inprecision
	AlmostEquals(otherFrame Frame) bool
}

// a static Frame is a simple corrdinate system that encodes a fixed translation and rotation
// from the current Frame to the parent referenceframe.
type staticFrame struct {
	name      string
	transform spatialmath.Pose
}

// NewStaticFrame creates a frame given a pose relative to its parent. The pose is fixed for all time.
// Pose is not allowed to be nil.
func NewStaticFrame(name string, pose spatialmath.Pose) (Frame, error) {
	if pose == nil {
		return nil, errors.New("pose is not allowed to be nil")
	}
	return &staticFrame{name, pose}, nil
}

// NewZeroStaticFrame creates a frame with no translation or orientation changes.
func NewZeroStaticFrame(name string) Frame {
	return &staticFrame{name, spatialmath.NewZeroPose()}
}

// FrameFromPoint creates a new Frame from a 3D point.
func FrameFromPoint(name string, point r3.Vector) (Frame, error) {
	return NewStaticFrame(name, spatialmath.NewPoseFromPoint(point))
}

// Name is the name of the referenceframe.
func (sf *staticFrame) Name() string {
	return sf.name
}

// Transform returns the pose associated with this static referenceframe.
func (sf *staticFrame) Transform(input []Input) (spatialmath.Pose, error) {
	if len(input) != 0 {
		return nil, NewIncorrectDoFError(len(input), 0)
	}
	return sf.transform, nil
}

// DoF are the degrees of freedom of the transform. In the staticFrame, it is always 0.
func (sf *staticFrame) DoF() []Limit {
	return []Limit{}
}

func (sf *staticFrame) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*staticFrame)
	return ok && sf.name == other.name && spatialmath.PoseAlmostEqual(sf.transform, other.transform)
}

// a prismatic Frame is a frame that can translate without rotation along a fixed axis.
type translationalFrame struct {
	name      string
	transAxis r3.Vector
	limit     []Limit
}

// NewTranslationalFrame creates a frame given a name and the axis in which to translate.
func NewTranslationalFrame(name string, axis r3.Vector, limit Limit) (Frame, error) {
	if spatialmath.R3VectorAlmostEqual(r3.Vector{}, axis, 1e-8) {
		return nil, errors.New("cannot use zero vector as translation axis")
	}
	return &translationalFrame{name: name, transAxis: axis.Normalize(), limit: []Limit{limit}}, nil
}

// Name is the name of the frame.
func (pf *translationalFrame) Name() string {
	return pf.name
}

// Transform returns a pose translated by the amount specified in the inputs.
func (pf *translationalFrame) Transform(input []Input) (spatialmath.Pose, error) {
	var err error
	if len(input) != 1 {
		return nil, NewIncorrectDoFError(len(input), 1)
	}

	// We allow out-of-bounds calculations, but will return a non-nil error
	if input[0].Value < pf.limit[0].Min || input[0].Value > pf.limit[0].Max {
		err = fmt.Errorf("%.5f %s %v", input[0].Value, OOBErrString, pf.limit[0])
	}
	return spatialmath.NewPoseFromPoint(pf.transAxis.Mul(input[0].Value)), err
}

// DoF are the degrees of freedom of the transform.
func (pf *translationalFrame) DoF() []Limit {
	return pf.limit
}

func (pf *translationalFrame) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*translationalFrame)
	return ok && pf.name == other.name &&
		spatialmath.R3VectorAlmostEqual(pf.transAxis, other.transAxis, 1e-8) &&
		limitsAlmostEqual(pf.DoF(), other.DoF())
}

type rotationalFrame struct {
	name    string
	rotAxis r3.Vector
	limit   []Limit
}

// NewRotationalFrame creates a new rotationalFrame struct.
// A standard revolute joint will have 1 DoF.
func NewRotationalFrame(name string, axis spatialmath.R4AA, limit Limit) (Frame, error) {
	axis.Normalize()
	return &rotationalFrame{
		name:    name,
		rotAxis: r3.Vector{X: axis.RX, Y: axis.RY, Z: axis.RZ},
		limit:   []Limit{limit},
	}, nil
}

// Transform returns the Pose representing the frame's 6DoF motion in space. Requires a slice
// of inputs that has length equal to the degrees of freedom of the referenceframe.
func (rf *rotationalFrame) Transform(input []Input) (spatialmath.Pose, error) {
	var err error
	if len(input) != 1 {
		return nil, NewIncorrectDoFError(len(input), 1)
	}
	// We allow out-of-bounds calculations, but will return a non-nil error
	if input[0].Value < rf.limit[0].Min || input[0].Value > rf.limit[0].Max {
		err = fmt.Errorf("%.5f %s %.5f", input[0].Value, OOBErrString, rf.limit[0])
	}
	// Create a copy of the r4aa for thread safety
	return spatialmath.NewPoseFromOrientation(
		&spatialmath.R4AA{Theta: input[0].Value, RX: rf.rotAxis.X, RY: rf.rotAxis.Y, RZ: rf.rotAxis.Z},
	), err
}

// DoF returns the number of degrees of freedom that a joint has. This would be 1 for a standard revolute joint.
func (rf *rotationalFrame) DoF() []Limit {
	return rf.limit
}

// Name returns the name of the referenceframe.
func (rf *rotationalFrame) Name() string {
	return rf.name
}

func (rf *rotationalFrame) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*rotationalFrame)
	return ok && rf.name == other.name &&
		spatialmath.R3VectorAlmostEqual(rf.rotAxis, other.rotAxis, 1e-8) &&
		limitsAlmostEqual(rf.DoF(), other.DoF())
}
