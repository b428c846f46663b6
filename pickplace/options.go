package pickplace

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// Default weights of the generated terms.
const (
	defaultJointVelCoeff    = 5.0
	defaultCollisionDistPen = 0.025
	defaultCollisionCoeff   = 20.0
	defaultPoseCoeff        = 10.0
)

// Options are the weights the builder puts on generated terms.
type Options struct {
	// JointVelCoeff weights every joint velocity cost.
	JointVelCoeff float64 `json:"joint_vel_coeff"`
	// CollisionDistPen is the safety distance of the collision cost.
	CollisionDistPen float64 `json:"collision_dist_pen"`
	// CollisionCoeff weights the collision cost.
	CollisionCoeff float64 `json:"collision_coeff"`
	// PosCoeff and RotCoeff weight each axis of a pose constraint.
	PosCoeff float64 `json:"pos_coeff"`
	RotCoeff float64 `json:"rot_coeff"`
}

// NewDefaultOptions returns the default weights.
func NewDefaultOptions() *Options {
	return &Options{
		JointVelCoeff:    defaultJointVelCoeff,
		CollisionDistPen: defaultCollisionDistPen,
		CollisionCoeff:   defaultCollisionCoeff,
		PosCoeff:         defaultPoseCoeff,
		RotCoeff:         defaultPoseCoeff,
	}
}

// NewOptionsFromExtra returns the default options overridden by any keys of `extra` that match
// an Options json tag. Values may be strings or numbers.
func NewOptionsFromExtra(extra map[string]interface{}) (*Options, error) {
	opts := NewDefaultOptions()
	if len(extra) == 0 {
		return opts, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           opts,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(extra); err != nil {
		return nil, errors.Wrap(err, "invalid builder options")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate ensures the weights are usable.
func (o *Options) Validate() error {
	for name, v := range map[string]float64{
		"joint_vel_coeff":    o.JointVelCoeff,
		"collision_dist_pen": o.CollisionDistPen,
		"collision_coeff":    o.CollisionCoeff,
		"pos_coeff":          o.PosCoeff,
		"rot_coeff":          o.RotCoeff,
	} {
		if v < 0 {
			return errors.Errorf("%s must not be negative, got %f", name, v)
		}
	}
	return nil
}

// Option configures a Constructor.
type Option func(*Constructor)

// WithOptions sets the term weights.
func WithOptions(opts *Options) Option {
	return func(c *Constructor) {
		c.opts = *opts
	}
}
