package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/pickplace/utils"
)

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
// The Point() method returns the position in (x,y,z) mm coordinates,
// and the Orientation() method returns an Orientation object.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

type basePose struct {
	point       r3.Vector
	orientation Quaternion
}

// NewZeroPose returns a pose at (0,0,0) with same orientation as whatever frame it is placed in.
func NewZeroPose() Pose {
	return &basePose{orientation: Quaternion{Real: 1}}
}

// NewPose takes in a position and orientation and returns a Pose.
func NewPose(p r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(p)
	}
	return &basePose{point: p, orientation: Quaternion(Normalize(o.Quaternion()))}
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in.
func NewPoseFromPoint(point r3.Vector) Pose {
	return &basePose{point: point, orientation: Quaternion{Real: 1}}
}

// NewPoseFromOrientation takes in an orientation and returns a pose at the origin.
func NewPoseFromOrientation(o Orientation) Pose {
	return NewPose(r3.Vector{}, o)
}

// Point returns the position of the pose.
func (p *basePose) Point() r3.Vector {
	return p.point
}

// Orientation returns the orientation of the pose.
func (p *basePose) Orientation() Orientation {
	q := p.orientation
	return &q
}

func (p *basePose) String() string {
	aa := p.orientation.AxisAngles()
	return fmt.Sprintf("{X:%.3f Y:%.3f Z:%.3f TH:%.4f RX:%.3f RY:%.3f RZ:%.3f}",
		p.point.X, p.point.Y, p.point.Z, aa.Theta, aa.RX, aa.RY, aa.RZ)
}

// Compose takes two poses, converts them to rigid transforms, and multiplies them together.
// The result is the pose b expressed in the frame a is expressed in.
func Compose(a, b Pose) Pose {
	aq := Normalize(a.Orientation().Quaternion())
	bq := Normalize(b.Orientation().Quaternion())
	bp := b.Point()
	x, y, z := rotateVector(aq, bp.X, bp.Y, bp.Z)
	return &basePose{
		point:       a.Point().Add(r3.Vector{X: x, Y: y, Z: z}),
		orientation: Quaternion(Normalize(quat.Mul(aq, bq))),
	}
}

// PoseInverse will return the inverse of a pose. So if a given pose p is the pose of A relative to B, PoseInverse(p) will give
// the pose of B relative to A.
func PoseInverse(p Pose) Pose {
	conj := quat.Conj(Normalize(p.Orientation().Quaternion()))
	pt := p.Point()
	x, y, z := rotateVector(conj, pt.X, pt.Y, pt.Z)
	return &basePose{
		point:       r3.Vector{X: -x, Y: -y, Z: -z},
		orientation: Quaternion(conj),
	}
}

// PoseBetween returns the difference between two Poses, such that Compose(a, PoseBetween(a, b)) == b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same, within the given epsilon.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) &&
		OrientationAlmostEqualEps(a.Orientation(), b.Orientation(), epsilon)
}

// PoseAlmostCoincident will return a bool describing whether 2 poses approximately are at the same 3D coordinate location.
// This uses the same epsilon as the default value for the Viam IK solver.
func PoseAlmostCoincident(a, b Pose) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), 1e-8)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, epsilon)
}
