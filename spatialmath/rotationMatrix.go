package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 matrix in row major order.
// m[3*r + c] is the element in the r'th row and c'th column.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates the rotation matrix from a slice of floats, in row major order.
func NewRotationMatrix(m []float64) (*RotationMatrix, error) {
	if len(m) != 9 {
		return nil, errors.Errorf("input slice has %d elements, need exactly 9", len(m))
	}
	mat := [9]float64{}
	copy(mat[:], m)
	return &RotationMatrix{mat}, nil
}

// AxisAngles returns the orientation in axis angle representation.
func (rm *RotationMatrix) AxisAngles() *R4AA {
	aa := QuatToR4AA(rm.Quaternion())
	return &aa
}

// Quaternion returns orientation in quaternion representation.
func (rm *RotationMatrix) Quaternion() quat.Number {
	// mgl64 matrices are column major
	m := mgl64.Mat4{
		rm.mat[0], rm.mat[3], rm.mat[6], 0,
		rm.mat[1], rm.mat[4], rm.mat[7], 0,
		rm.mat[2], rm.mat[5], rm.mat[8], 0,
		0, 0, 0, 1,
	}
	q := mgl64.Mat4ToQuat(m)
	return Normalize(quat.Number{Real: q.W, Imag: q.X(), Jmag: q.Y(), Kmag: q.Z()})
}

// EulerAngles returns orientation in Euler angle representation.
func (rm *RotationMatrix) EulerAngles() *EulerAngles {
	return QuatToEulerAngles(rm.Quaternion())
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (rm *RotationMatrix) RotationMatrix() *RotationMatrix {
	return rm
}

// At returns the float corresponding to the element at the specified location.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[row*3+col]
}

// Row returns the a 3 element vector corresponding to the specified row.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat[row*3], Y: rm.mat[row*3+1], Z: rm.mat[row*3+2]}
}

// Col returns the a 3 element vector corresponding to the specified col.
func (rm *RotationMatrix) Col(col int) r3.Vector {
	return r3.Vector{X: rm.mat[col], Y: rm.mat[col+3], Z: rm.mat[col+6]}
}

// QuatToRotationMatrix converts a quat to a Rotation Matrix.
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	m := mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}.Normalize().Mat4()
	mat := [9]float64{}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			mat[row*3+col] = m.At(row, col)
		}
	}
	return &RotationMatrix{mat}
}
