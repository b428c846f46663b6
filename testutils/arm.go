package testutils

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/pickplace/environment"
	"go.viam.com/pickplace/logging"
	"go.viam.com/pickplace/referenceframe"
	"go.viam.com/pickplace/spatialmath"
	"go.viam.com/pickplace/testutils/inject"
)

// UR5eModelFile is a six joint arm model shared by tests.
const UR5eModelFile = "referenceframe/testjson/ur5e.json"

// NewArmEnvironment returns a KinematicEnvironment with a six joint arm named `name` mounted at
// the world origin.
func NewArmEnvironment(t *testing.T, name string) *environment.KinematicEnvironment {
	t.Helper()
	model, err := referenceframe.ParseModelJSONFile(ResolveFile(UR5eModelFile), name)
	test.That(t, err, test.ShouldBeNil)
	env := environment.NewKinematicEnvironment(logging.NewTestLogger(t))
	test.That(t, env.AddManipulator(name, model, spatialmath.NewZeroPose()), test.ShouldBeNil)
	return env
}

// NewFakeManipulator returns an injected manipulator with the given joints whose forward
// kinematics always return the base pose.
func NewFakeManipulator(name string, joints ...string) *inject.Manipulator {
	return &inject.Manipulator{
		NameFunc:         func() string { return name },
		JointNamesFunc:   func() []string { return joints },
		BaseLinkNameFunc: func() string { return "base_link" },
		CalcFwdKinFunc: func(
			base spatialmath.Pose,
			_ []float64,
			_ string,
			_ *environment.State,
		) (spatialmath.Pose, error) {
			return base, nil
		},
	}
}
