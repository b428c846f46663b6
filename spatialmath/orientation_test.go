package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

// represent a 45 degree rotation around the x axis in all the representations
var (
	th    = math.Pi / 4.
	q45x  = quat.Number{Real: math.Cos(th / 2.), Imag: math.Sin(th / 2.)} // in quaternion representation
	aa45x = &R4AA{th, 1., 0., 0.}                                         // in axis-angle representation
	ea45x = &EulerAngles{Roll: th, Pitch: 0, Yaw: 0}                      // in euler angle representation
	rm45x = &RotationMatrix{[9]float64{
		1, 0, 0,
		0, math.Cos(th), -math.Sin(th),
		0, math.Sin(th), math.Cos(th),
	}} // in rotation matrix representation
)

func TestZeroOrientation(t *testing.T) {
	zero := NewZeroOrientation()
	test.That(t, zero.AxisAngles(), test.ShouldResemble, &R4AA{0, 1, 0, 0})
	test.That(t, zero.Quaternion(), test.ShouldResemble, quat.Number{Real: 1})
	test.That(t, zero.EulerAngles(), test.ShouldResemble, NewEulerAngles())
}

func checkQuaternion(t *testing.T, q quat.Number) {
	t.Helper()
	test.That(t, q.Real, test.ShouldAlmostEqual, q45x.Real)
	test.That(t, q.Imag, test.ShouldAlmostEqual, q45x.Imag)
	test.That(t, q.Jmag, test.ShouldAlmostEqual, q45x.Jmag)
	test.That(t, q.Kmag, test.ShouldAlmostEqual, q45x.Kmag)
}

func checkAxisAngles(t *testing.T, aa *R4AA) {
	t.Helper()
	test.That(t, aa.Theta, test.ShouldAlmostEqual, aa45x.Theta)
	test.That(t, aa.RX, test.ShouldAlmostEqual, aa45x.RX)
	test.That(t, aa.RY, test.ShouldAlmostEqual, aa45x.RY)
	test.That(t, aa.RZ, test.ShouldAlmostEqual, aa45x.RZ)
}

func checkEulerAngles(t *testing.T, ea *EulerAngles) {
	t.Helper()
	test.That(t, ea.Roll, test.ShouldAlmostEqual, ea45x.Roll)
	test.That(t, ea.Pitch, test.ShouldAlmostEqual, ea45x.Pitch)
	test.That(t, ea.Yaw, test.ShouldAlmostEqual, ea45x.Yaw)
}

func checkRotationMatrix(t *testing.T, rm *RotationMatrix) {
	t.Helper()
	for i := 0; i < 9; i++ {
		test.That(t, rm.mat[i], test.ShouldAlmostEqual, rm45x.mat[i])
	}
}

func TestQuaternions(t *testing.T) {
	qq45x := Quaternion(q45x)
	checkQuaternion(t, qq45x.Quaternion())
	checkAxisAngles(t, qq45x.AxisAngles())
	checkEulerAngles(t, qq45x.EulerAngles())
	checkRotationMatrix(t, qq45x.RotationMatrix())
}

func TestEulerAngles(t *testing.T) {
	checkQuaternion(t, ea45x.Quaternion())
	checkAxisAngles(t, ea45x.AxisAngles())
	checkEulerAngles(t, ea45x.EulerAngles())
	checkRotationMatrix(t, ea45x.RotationMatrix())
}

func TestAxisAngles(t *testing.T) {
	checkQuaternion(t, aa45x.Quaternion())
	checkAxisAngles(t, aa45x.AxisAngles())
	checkEulerAngles(t, aa45x.EulerAngles())
	checkRotationMatrix(t, aa45x.RotationMatrix())

	r3aa := aa45x.ToR3()
	test.That(t, r3aa.X, test.ShouldAlmostEqual, th)
	back := R3ToR4(r3aa)
	checkAxisAngles(t, back)
	test.That(t, R3ToR4(r3aa.Mul(0)), test.ShouldResemble, NewR4AA())
}

func TestRotationMatrix(t *testing.T) {
	checkQuaternion(t, rm45x.Quaternion())
	checkAxisAngles(t, rm45x.AxisAngles())
	checkEulerAngles(t, rm45x.EulerAngles())
	checkRotationMatrix(t, rm45x.RotationMatrix())

	test.That(t, rm45x.At(1, 2), test.ShouldAlmostEqual, -math.Sin(th))
	test.That(t, rm45x.Row(0).X, test.ShouldEqual, 1.)
	test.That(t, rm45x.Col(0).X, test.ShouldEqual, 1.)

	_, err := NewRotationMatrix([]float64{1, 0, 0})
	test.That(t, err, test.ShouldNotBeNil)
	rm, err := NewRotationMatrix(rm45x.mat[:])
	test.That(t, err, test.ShouldBeNil)
	checkQuaternion(t, rm.Quaternion())
}

func TestAxisAngleNormalizeZeroAxis(t *testing.T) {
	aa := &R4AA{Theta: 1}
	q := aa.ToQuat()
	test.That(t, aa.RZ, test.ShouldEqual, 1.)
	test.That(t, quat.Abs(q), test.ShouldAlmostEqual, 1.)
}

func TestOrientationBetween(t *testing.T) {
	o1 := &EulerAngles{Roll: 0.3, Pitch: -0.2, Yaw: 1.1}
	o2 := &R4AA{Theta: 2.0, RX: 0.2, RY: 1, RZ: -0.4}

	between := OrientationBetween(o1, o2)
	composed := Compose(NewPoseFromOrientation(between), NewPoseFromOrientation(o1))
	test.That(t, OrientationAlmostEqual(composed.Orientation(), o2), test.ShouldBeTrue)

	inv := OrientationInverse(o2)
	identity := Compose(NewPoseFromOrientation(o2), NewPoseFromOrientation(inv))
	test.That(t, OrientationAlmostEqual(identity.Orientation(), NewZeroOrientation()), test.ShouldBeTrue)
}

func TestQuaternionDoubleCover(t *testing.T) {
	test.That(t, QuaternionAlmostEqual(q45x, Flip(q45x), 1e-9), test.ShouldBeTrue)
	test.That(t, QuaternionAlmostEqual(q45x, quat.Number{Real: 1}, 1e-9), test.ShouldBeFalse)
	test.That(t, Normalize(quat.Number{}), test.ShouldResemble, quat.Number{Real: 1})
	test.That(t, quat.Abs(Normalize(quat.Number{Real: 2, Imag: 2})), test.ShouldAlmostEqual, 1.)
}
