// Package config defines the file format of a pick and place session: the world the
// manipulator lives in, the builder settings, the pick and place targets and log levels.
package config

import (
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/pickplace/environment"
	"go.viam.com/pickplace/logging"
	"go.viam.com/pickplace/pickplace"
	"go.viam.com/pickplace/spatialmath"
	"go.viam.com/pickplace/utils"
)

// A Config describes the configuration of a pick and place session.
type Config struct {
	Environment environment.Config            `json:"environment"`
	Builder     BuilderConfig                 `json:"builder"`
	Pick        *PickConfig                   `json:"pick,omitempty"`
	Place       *PlaceConfig                  `json:"place,omitempty"`
	Options     map[string]interface{}        `json:"options,omitempty"`
	Log         []logging.LoggerPatternConfig `json:"log,omitempty"`

	// ConfigFilePath is the path this config was read from, if any.
	ConfigFilePath string `json:"-"`
}

// BuilderConfig selects the manipulator and link problems are built for.
type BuilderConfig struct {
	Manipulator string                  `json:"manipulator"`
	EELink      string                  `json:"ee_link"`
	PickObject  string                  `json:"pick_object,omitempty"`
	TCP         *spatialmath.PoseConfig `json:"tcp,omitempty"`
}

// PickConfig holds the targets of a pick problem.
type PickConfig struct {
	Approach      spatialmath.PoseConfig `json:"approach"`
	Final         spatialmath.PoseConfig `json:"final"`
	StepsPerPhase int                    `json:"steps_per_phase"`
}

// PlaceConfig holds the targets of a place problem.
type PlaceConfig struct {
	Retreat       spatialmath.PoseConfig `json:"retreat"`
	Approach      spatialmath.PoseConfig `json:"approach"`
	Final         spatialmath.PoseConfig `json:"final"`
	StepsPerPhase int                    `json:"steps_per_phase"`
}

// Ensure validates every section of the config.
func (c *Config) Ensure() error {
	if err := c.Environment.Validate("environment"); err != nil {
		return err
	}
	if err := c.Builder.Validate("builder"); err != nil {
		return err
	}
	if c.Pick != nil {
		if err := c.Pick.Validate("pick"); err != nil {
			return err
		}
	}
	if c.Place != nil {
		if err := c.Place.Validate("place"); err != nil {
			return err
		}
	}
	if _, err := c.BuilderOptions(); err != nil {
		return utils.NewConfigValidationError("options", err)
	}
	for i, lcfg := range c.Log {
		path := fmt.Sprintf("log.%d", i)
		if !logging.ValidatePattern(lcfg.Pattern) {
			return utils.NewConfigValidationError(path, errors.Errorf("invalid logger pattern %q", lcfg.Pattern))
		}
		if _, err := logging.LevelFromString(lcfg.Level); err != nil {
			return utils.NewConfigValidationError(path, err)
		}
	}
	return nil
}

// BuilderOptions returns the term weights, defaults overridden by the options section.
func (c *Config) BuilderOptions() (*pickplace.Options, error) {
	return pickplace.NewOptionsFromExtra(c.Options)
}

// Validate ensures all parts of the config are valid.
func (cfg *BuilderConfig) Validate(path string) error {
	if cfg.Manipulator == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "manipulator")
	}
	if cfg.EELink == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "ee_link")
	}
	if _, err := cfg.ParseTCP(); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

// ParseTCP returns the tool center point, the identity when none is configured.
func (cfg *BuilderConfig) ParseTCP() (spatialmath.Pose, error) {
	if cfg.TCP == nil {
		return spatialmath.NewZeroPose(), nil
	}
	return cfg.TCP.ParseConfig()
}

// Validate ensures all parts of the config are valid.
func (cfg *PickConfig) Validate(path string) error {
	if cfg.StepsPerPhase < 2 {
		return utils.NewConfigValidationError(path, pickplace.NewStepsPerPhaseError(cfg.StepsPerPhase))
	}
	if _, _, err := cfg.Poses(); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

// Poses returns the approach and final poses.
func (cfg *PickConfig) Poses() (approach, final spatialmath.Pose, err error) {
	if approach, err = cfg.Approach.ParseConfig(); err != nil {
		return nil, nil, errors.Wrap(err, "approach")
	}
	if final, err = cfg.Final.ParseConfig(); err != nil {
		return nil, nil, errors.Wrap(err, "final")
	}
	return approach, final, nil
}

// Validate ensures all parts of the config are valid.
func (cfg *PlaceConfig) Validate(path string) error {
	if cfg.StepsPerPhase < 2 {
		return utils.NewConfigValidationError(path, pickplace.NewStepsPerPhaseError(cfg.StepsPerPhase))
	}
	if _, _, _, err := cfg.Poses(); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

// Poses returns the retreat, approach and final poses.
func (cfg *PlaceConfig) Poses() (retreat, approach, final spatialmath.Pose, err error) {
	if retreat, err = cfg.Retreat.ParseConfig(); err != nil {
		return nil, nil, nil, errors.Wrap(err, "retreat")
	}
	if approach, err = cfg.Approach.ParseConfig(); err != nil {
		return nil, nil, nil, errors.Wrap(err, "approach")
	}
	if final, err = cfg.Final.ParseConfig(); err != nil {
		return nil, nil, nil, errors.Wrap(err, "final")
	}
	return retreat, approach, final, nil
}
