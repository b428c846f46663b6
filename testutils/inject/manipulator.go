package inject

import (
	"go.viam.com/pickplace/environment"
	"go.viam.com/pickplace/spatialmath"
)

// Manipulator is an injected manipulator.
type Manipulator struct {
	environment.Manipulator
	NameFunc         func() string
	JointNamesFunc   func() []string
	BaseLinkNameFunc func() string
	CalcFwdKinFunc   func(
		base spatialmath.Pose,
		joints []float64,
		link string,
		state *environment.State,
	) (spatialmath.Pose, error)
}

// Name calls the injected Name or the real version.
func (m *Manipulator) Name() string {
	if m.NameFunc == nil {
		return m.Manipulator.Name()
	}
	return m.NameFunc()
}

// JointNames calls the injected JointNames or the real version.
func (m *Manipulator) JointNames() []string {
	if m.JointNamesFunc == nil {
		return m.Manipulator.JointNames()
	}
	return m.JointNamesFunc()
}

// BaseLinkName calls the injected BaseLinkName or the real version.
func (m *Manipulator) BaseLinkName() string {
	if m.BaseLinkNameFunc == nil {
		return m.Manipulator.BaseLinkName()
	}
	return m.BaseLinkNameFunc()
}

// CalcFwdKin calls the injected CalcFwdKin or the real version.
func (m *Manipulator) CalcFwdKin(
	base spatialmath.Pose,
	joints []float64,
	link string,
	state *environment.State,
) (spatialmath.Pose, error) {
	if m.CalcFwdKinFunc == nil {
		return m.Manipulator.CalcFwdKin(base, joints, link, state)
	}
	return m.CalcFwdKinFunc(base, joints, link, state)
}
