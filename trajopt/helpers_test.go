package trajopt_test

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/pickplace/spatialmath"
	"go.viam.com/pickplace/testutils"
	"go.viam.com/pickplace/trajopt"
)

var testJoints = []string{"j0", "j1", "j2"}

// newTestDescription returns a valid four step description with one term of every kind.
func newTestDescription() *trajopt.ProblemDescription {
	desc := trajopt.NewProblemDescription()
	desc.BasicInfo = trajopt.BasicInfo{NSteps: 4, Manip: "arm"}
	desc.Kinematics = testutils.NewFakeManipulator("arm", testJoints...)
	desc.InitInfo = trajopt.InitInfo{Type: trajopt.Stationary, Data: []float64{0.1, 0.2, 0.3}}
	for _, joint := range testJoints {
		desc.AddCost(&trajopt.JointVelTermInfo{
			Name:      joint + "_vel",
			Type:      trajopt.TTCost,
			JointName: joint,
			FirstStep: 0,
			LastStep:  3,
			Coeffs:    []float64{5},
			Penalty:   trajopt.SquaredPenalty,
		})
	}
	desc.AddConstraint(&trajopt.JointPosTermInfo{
		Name:   "start_pos_constraint",
		Type:   trajopt.TTCnt,
		Values: []float64{0.1, 0.2, 0.3},
	})
	for i := 2; i < 4; i++ {
		desc.AddConstraint(&trajopt.CartPoseTermInfo{
			Name:      fmt.Sprintf("pose_%d", i),
			Type:      trajopt.TTCnt,
			Link:      "ee_link",
			Timestep:  i,
			Xyz:       [3]float64{float64(i), 0, 100},
			Wxyz:      [4]float64{1, 0, 0, 0},
			PosCoeffs: [3]float64{10, 10, 10},
			RotCoeffs: [3]float64{10, 10, 10},
			TCP:       spatialmath.NewPoseFromPoint(r3.Vector{Z: 20}),
		})
	}
	desc.AddCost(&trajopt.CollisionTermInfo{
		Name:      "collision",
		Type:      trajopt.TTCost,
		FirstStep: 0,
		LastStep:  2,
		Gap:       1,
		Info:      trajopt.CreateSafetyMarginDataVector(3, 0.025, 20),
	})
	return desc
}
