package environment

import (
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/pickplace/logging"
	"go.viam.com/pickplace/referenceframe"
	"go.viam.com/pickplace/spatialmath"
	"go.viam.com/pickplace/utils"
)

// Config describes a KinematicEnvironment.
type Config struct {
	Manipulators []ManipulatorConfig `json:"manipulators"`
	Objects      []ObjectConfig      `json:"objects,omitempty"`
}

// ManipulatorConfig describes one mounted manipulator. The kinematics come either inline or from
// a model file.
type ManipulatorConfig struct {
	Name      string                          `json:"name"`
	ModelFile string                          `json:"model_file,omitempty"`
	Model     *referenceframe.ModelConfigJSON `json:"model,omitempty"`
	Mount     *spatialmath.PoseConfig         `json:"mount,omitempty"`
	// JointValues are the current joint values, radians for revolute joints and mm for prismatic.
	JointValues []float64 `json:"joint_values,omitempty"`
}

// ObjectConfig is a named static object in the world.
type ObjectConfig struct {
	Name string                 `json:"name"`
	Pose spatialmath.PoseConfig `json:"pose"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if len(cfg.Manipulators) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "manipulators")
	}
	for i, m := range cfg.Manipulators {
		if err := m.Validate(fmt.Sprintf("%s.manipulators.%d", path, i)); err != nil {
			return err
		}
	}
	for i, o := range cfg.Objects {
		if o.Name == "" {
			return utils.NewConfigValidationFieldRequiredError(fmt.Sprintf("%s.objects.%d", path, i), "name")
		}
	}
	return nil
}

// Validate ensures all parts of the config are valid.
func (cfg *ManipulatorConfig) Validate(path string) error {
	if cfg.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if cfg.ModelFile == "" && cfg.Model == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "model_file")
	}
	if cfg.ModelFile != "" && cfg.Model != nil {
		return utils.NewConfigValidationError(path, errors.New("only one of model_file and model may be set"))
	}
	return nil
}

func (cfg *ManipulatorConfig) parseModel() (referenceframe.Model, error) {
	if cfg.Model != nil {
		return cfg.Model.ParseConfig(cfg.Name)
	}
	return referenceframe.ParseModelJSONFile(cfg.ModelFile, cfg.Name)
}

// NewKinematicEnvironmentFromConfig builds an environment from its config.
func NewKinematicEnvironmentFromConfig(cfg *Config, logger logging.Logger) (*KinematicEnvironment, error) {
	if err := cfg.Validate("environment"); err != nil {
		return nil, err
	}
	env := NewKinematicEnvironment(logger)
	for _, mc := range cfg.Manipulators {
		model, err := mc.parseModel()
		if err != nil {
			return nil, errors.Wrapf(err, "manipulator %q", mc.Name)
		}
		mount := spatialmath.NewZeroPose()
		if mc.Mount != nil {
			if mount, err = mc.Mount.ParseConfig(); err != nil {
				return nil, errors.Wrapf(err, "manipulator %q mount", mc.Name)
			}
		}
		if err := env.AddManipulator(mc.Name, model, mount); err != nil {
			return nil, err
		}
		if mc.JointValues != nil {
			if err := env.SetJointValues(mc.Name, mc.JointValues); err != nil {
				return nil, errors.Wrapf(err, "manipulator %q joint values", mc.Name)
			}
		}
	}
	for _, oc := range cfg.Objects {
		pose, err := oc.Pose.ParseConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "object %q", oc.Name)
		}
		if err := env.AddObject(oc.Name, pose); err != nil {
			return nil, err
		}
	}
	return env, nil
}
