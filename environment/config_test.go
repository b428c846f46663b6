package environment

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/pickplace/logging"
	"go.viam.com/pickplace/spatialmath"
	"go.viam.com/pickplace/utils"
)

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	test.That(t, cfg.Validate("env"), test.ShouldBeError, utils.NewConfigValidationFieldRequiredError("env", "manipulators"))

	cfg.Manipulators = []ManipulatorConfig{{}}
	test.That(t, cfg.Validate("env"), test.ShouldBeError,
		utils.NewConfigValidationFieldRequiredError("env.manipulators.0", "name"))

	cfg.Manipulators[0].Name = "arm"
	test.That(t, cfg.Validate("env"), test.ShouldBeError,
		utils.NewConfigValidationFieldRequiredError("env.manipulators.0", "model_file"))

	cfg.Manipulators[0].ModelFile = ur5eFile
	test.That(t, cfg.Validate("env"), test.ShouldBeNil)

	cfg.Objects = []ObjectConfig{{}}
	test.That(t, cfg.Validate("env"), test.ShouldBeError,
		utils.NewConfigValidationFieldRequiredError("env.objects.0", "name"))
}

func TestNewKinematicEnvironmentFromConfig(t *testing.T) {
	logger := logging.NewTestLogger(t)
	cfg := &Config{
		Manipulators: []ManipulatorConfig{{
			Name:        "arm",
			ModelFile:   ur5eFile,
			Mount:       &spatialmath.PoseConfig{Translation: spatialmath.Translation{X: 100, Z: 50}},
			JointValues: []float64{0, 0, 0, 0, 0, 0.5},
		}},
		Objects: []ObjectConfig{{Name: "part", Pose: spatialmath.PoseConfig{Translation: spatialmath.Translation{X: 400}}}},
	}
	env, err := NewKinematicEnvironmentFromConfig(cfg, logger)
	test.That(t, err, test.ShouldBeNil)

	values, err := env.ManipulatorJointValues("arm")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, values[5], test.ShouldEqual, 0.5)

	part, err := env.State().Transform("part")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, part.Point(), test.ShouldResemble, r3.Vector{X: 400})

	cfg.Manipulators[0].JointValues = []float64{1, 2}
	_, err = NewKinematicEnvironmentFromConfig(cfg, logger)
	test.That(t, err, test.ShouldNotBeNil)

	cfg.Manipulators[0].JointValues = nil
	cfg.Manipulators[0].ModelFile = "missing.json"
	_, err = NewKinematicEnvironmentFromConfig(cfg, logger)
	test.That(t, err, test.ShouldNotBeNil)
}
