package spatialmath

import (
	"encoding/json"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// OrientationType defines what orientation representations are known.
type OrientationType string

// The set of allowed representations for orientation.
const (
	NoOrientation          = OrientationType("")
	QuaternionType         = OrientationType("quaternion")
	AxisAnglesType         = OrientationType("axis_angles")
	EulerAnglesType        = OrientationType("euler_angles")
	RotationMatrixType     = OrientationType("rotation_matrix")
	defaultOrientationType = QuaternionType
)

// OrientationConfig holds the underlying type of orientation, and the value.
type OrientationConfig struct {
	Type  OrientationType `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// quaternionJSON is the serialized form of a quaternion, scalar part first.
type quaternionJSON struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Translation is the translation between two objects in the grid system. It is always in millimeters.
type Translation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PoseConfig is the serialized form of a Pose.
type PoseConfig struct {
	Translation Translation        `json:"translation"`
	Orientation *OrientationConfig `json:"orientation,omitempty"`
}

// NewOrientationConfig encodes the orientation interface to something serializable and human readable.
func NewOrientationConfig(o Orientation) (*OrientationConfig, error) {
	q := Normalize(o.Quaternion())
	bytes, err := json.Marshal(quaternionJSON{W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag})
	if err != nil {
		return nil, err
	}
	return &OrientationConfig{Type: QuaternionType, Value: json.RawMessage(bytes)}, nil
}

// ParseConfig will use the Type in OrientationConfig and convert into the correct struct that implements Orientation.
func (config *OrientationConfig) ParseConfig() (Orientation, error) {
	var err error
	// use the default type if the OrientationType is not specified
	if config.Type == NoOrientation {
		config.Type = defaultOrientationType
	}
	if len(config.Value) == 0 {
		return NewZeroOrientation(), nil
	}

	switch config.Type {
	case QuaternionType:
		var q quaternionJSON
		if err = json.Unmarshal(config.Value, &q); err != nil {
			return nil, err
		}
		n := quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
		if quat.Abs(n) == 0 {
			return nil, errors.New("quaternion orientation must be non-zero")
		}
		o := Quaternion(Normalize(n))
		return &o, nil
	case AxisAnglesType:
		var o R4AA
		if err = json.Unmarshal(config.Value, &o); err != nil {
			return nil, err
		}
		o.Normalize()
		return &o, nil
	case EulerAnglesType:
		var o EulerAngles
		if err = json.Unmarshal(config.Value, &o); err != nil {
			return nil, err
		}
		return &o, nil
	case RotationMatrixType:
		var m []float64
		if err = json.Unmarshal(config.Value, &m); err != nil {
			return nil, err
		}
		return NewRotationMatrix(m)
	default:
		return nil, newOrientationTypeUnsupportedError(string(config.Type))
	}
}

// NewPoseConfig encodes a pose to a PoseConfig.
func NewPoseConfig(p Pose) (*PoseConfig, error) {
	oc, err := NewOrientationConfig(p.Orientation())
	if err != nil {
		return nil, err
	}
	pt := p.Point()
	return &PoseConfig{Translation: Translation{X: pt.X, Y: pt.Y, Z: pt.Z}, Orientation: oc}, nil
}

// ParseConfig converts a PoseConfig into a Pose.
func (config *PoseConfig) ParseConfig() (Pose, error) {
	pt := r3.Vector{X: config.Translation.X, Y: config.Translation.Y, Z: config.Translation.Z}
	if config.Orientation == nil {
		return NewPoseFromPoint(pt), nil
	}
	o, err := config.Orientation.ParseConfig()
	if err != nil {
		return nil, err
	}
	return NewPose(pt, o), nil
}

func newOrientationTypeUnsupportedError(orientationType string) error {
	return errors.Errorf("orientation type %s not supported", orientationType)
}
