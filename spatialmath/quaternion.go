package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/pickplace/utils"
)

// Quaternion is an orientation in quaternion representation.
type Quaternion quat.Number

// AxisAngles returns the orientation in axis angle representation.
func (q *Quaternion) AxisAngles() *R4AA {
	aa := QuatToR4AA(q.Quaternion())
	return &aa
}

// Quaternion returns orientation in quaternion representation.
func (q *Quaternion) Quaternion() quat.Number {
	return quat.Number(*q)
}

// EulerAngles returns orientation in Euler angle representation.
func (q *Quaternion) EulerAngles() *EulerAngles {
	return QuatToEulerAngles(q.Quaternion())
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (q *Quaternion) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(q.Quaternion())
}

// Normalize a quaternion, returning its versor (unit quaternion).
func Normalize(q quat.Number) quat.Number {
	norm := quat.Abs(q)
	if norm == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/norm, q)
}

// Norm returns the norm of the quaternion, i.e. the sqrt of the squares of the imaginary parts.
func Norm(q quat.Number) float64 {
	return math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
}

// Flip will multiply a quaternion by -1, returning a quaternion representing the same orientation but in the opposing octant.
func Flip(q quat.Number) quat.Number {
	return quat.Number{Real: -q.Real, Imag: -q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
}

// QuaternionAlmostEqual is an equality test for all the float components of a quaternion. Quaternions have double coverage, q == -q, and
// this function will *not* account for this. Use OrientationAlmostEqual unless you're certain this is what you want.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	if utils.Float64AlmostEqual(a.Real, b.Real, tol) &&
		utils.Float64AlmostEqual(a.Imag, b.Imag, tol) &&
		utils.Float64AlmostEqual(a.Jmag, b.Jmag, tol) &&
		utils.Float64AlmostEqual(a.Kmag, b.Kmag, tol) {
		return true
	}
	// q and -q describe the same rotation
	return utils.Float64AlmostEqual(a.Real, -b.Real, tol) &&
		utils.Float64AlmostEqual(a.Imag, -b.Imag, tol) &&
		utils.Float64AlmostEqual(a.Jmag, -b.Jmag, tol) &&
		utils.Float64AlmostEqual(a.Kmag, -b.Kmag, tol)
}

// QuatToR4AA converts a quat to an R4 axis angle in the same way the C++ Eigen library does.
// https://eigen.tuxfamily.org/dox/AngleAxis_8h_source.html
func QuatToR4AA(q quat.Number) R4AA {
	denom := Norm(q)

	angle := 2 * math.Atan2(denom, math.Abs(q.Real))
	if q.Real < 0 {
		angle *= -1
	}

	if denom < 1e-6 {
		return R4AA{Theta: angle, RX: 1, RY: 0, RZ: 0}
	}
	return R4AA{Theta: angle, RX: q.Imag / denom, RY: q.Jmag / denom, RZ: q.Kmag / denom}
}

// QuatToEulerAngles converts a quaternion to the euler angle representation. Algorithm from Wikipedia.
// https://en.wikipedia.org/wiki/Conversion_between_quaternions_and_Euler_angles#Quaternion_to_Euler_angles_conversion
func QuatToEulerAngles(q quat.Number) *EulerAngles {
	angles := EulerAngles{}

	// roll (x-axis rotation)
	sinrCosp := 2 * (q.Real*q.Imag + q.Jmag*q.Kmag)
	cosrCosp := 1 - 2*(q.Imag*q.Imag+q.Jmag*q.Jmag)
	angles.Roll = math.Atan2(sinrCosp, cosrCosp)

	// pitch (y-axis rotation)
	sinp := 2 * (q.Real*q.Jmag - q.Kmag*q.Imag)
	if math.Abs(sinp) >= 1 {
		angles.Pitch = math.Copysign(math.Pi/2., sinp) // use 90 degrees if out of range
	} else {
		angles.Pitch = math.Asin(sinp)
	}

	// yaw (z-axis rotation)
	sinyCosp := 2 * (q.Real*q.Kmag + q.Imag*q.Jmag)
	cosyCosp := 1 - 2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag)
	angles.Yaw = math.Atan2(sinyCosp, cosyCosp)

	return &angles
}

// rotateVector applies the rotation of the unit quaternion q to the point v.
func rotateVector(q quat.Number, x, y, z float64) (float64, float64, float64) {
	rotated := quat.Mul(quat.Mul(q, quat.Number{Imag: x, Jmag: y, Kmag: z}), quat.Conj(q))
	return rotated.Imag, rotated.Jmag, rotated.Kmag
}
