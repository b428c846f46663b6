// Package spatialmath defines spatial mathematical operations.
// Positions are in millimeters and angles are in radians unless noted otherwise.
package spatialmath

import (
	"gonum.org/v1/gonum/num/quat"
)

// Orientation is an interface used to express the different parameterizations of the orientation
// of a rigid object or a frame of reference in 3D Euclidean space.
type Orientation interface {
	AxisAngles() *R4AA
	Quaternion() quat.Number
	EulerAngles() *EulerAngles
	RotationMatrix() *RotationMatrix
}

// NewZeroOrientation returns an orientatation which signifies no rotation.
func NewZeroOrientation() Orientation {
	return &Quaternion{1, 0, 0, 0}
}

// OrientationAlmostEqual will return a bool describing whether 2 poses have approximately the same orientation.
func OrientationAlmostEqual(o1, o2 Orientation) bool {
	return QuaternionAlmostEqual(o1.Quaternion(), o2.Quaternion(), 1e-5)
}

// OrientationAlmostEqualEps will return a bool describing whether 2 poses have approximately the same orientation,
// within the given tolerance.
func OrientationAlmostEqualEps(o1, o2 Orientation, epsilon float64) bool {
	return QuaternionAlmostEqual(o1.Quaternion(), o2.Quaternion(), epsilon)
}

// OrientationBetween returns the orientation representing the difference between the two given Orientations,
// expressed in the frame both are measured in, such that Compose(OrientationBetween(o1, o2), o1) == o2.
func OrientationBetween(o1, o2 Orientation) Orientation {
	q := Quaternion(Normalize(quat.Mul(o2.Quaternion(), quat.Conj(o1.Quaternion()))))
	return &q
}

// OrientationInverse returns the orientation representing the opposite rotation of the given orientation.
func OrientationInverse(o Orientation) Orientation {
	q := Quaternion(quat.Conj(o.Quaternion()))
	return &q
}
