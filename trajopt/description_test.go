package trajopt_test

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/pickplace/trajopt"
)

func TestTermOrder(t *testing.T) {
	desc := newTestDescription()
	test.That(t, len(desc.CostInfos), test.ShouldEqual, 4)
	test.That(t, len(desc.CntInfos), test.ShouldEqual, 3)

	terms := desc.Terms()
	test.That(t, len(terms), test.ShouldEqual, 7)
	test.That(t, terms[0].TermName(), test.ShouldEqual, "j0_vel")
	test.That(t, terms[3].TermName(), test.ShouldEqual, "collision")
	test.That(t, terms[4].TermName(), test.ShouldEqual, "start_pos_constraint")
	test.That(t, terms[6].TermName(), test.ShouldEqual, "pose_3")

	test.That(t, len(desc.TermsOfKind(trajopt.JointVelKind)), test.ShouldEqual, 3)
	test.That(t, len(desc.TermsOfKind(trajopt.CartPoseKind)), test.ShouldEqual, 2)
	test.That(t, len(desc.TermsOfKind(trajopt.CollisionKind)), test.ShouldEqual, 1)
	test.That(t, desc.TermsOfKind(trajopt.JointPosKind)[0].TermType(), test.ShouldEqual, trajopt.TTCnt)

	first, last := desc.CostInfos[3].StepRange()
	test.That(t, first, test.ShouldEqual, 0)
	test.That(t, last, test.ShouldEqual, 2)
}

func TestSafetyMarginDataVector(t *testing.T) {
	info := trajopt.CreateSafetyMarginDataVector(11, 0.025, 20)
	test.That(t, len(info), test.ShouldEqual, 11)
	for _, margin := range info {
		test.That(t, margin, test.ShouldResemble, trajopt.SafetyMarginData{DistPen: 0.025, Coeff: 20})
	}
	test.That(t, trajopt.CreateSafetyMarginDataVector(-1, 0.025, 20), test.ShouldBeEmpty)
}

func TestInitialTrajectory(t *testing.T) {
	desc := newTestDescription()

	t.Run("stationary", func(t *testing.T) {
		traj, err := desc.InitialTrajectory()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(traj), test.ShouldEqual, 4)
		for _, row := range traj {
			test.That(t, row, test.ShouldResemble, []float64{0.1, 0.2, 0.3})
		}
		traj[0][0] = 7
		test.That(t, desc.InitInfo.Data[0], test.ShouldEqual, 0.1)
	})

	t.Run("joint interpolated", func(t *testing.T) {
		desc.InitInfo = trajopt.InitInfo{Type: trajopt.JointInterpolated, Data: []float64{0, 0, 0}, EndData: []float64{3, 6, 9}}
		traj, err := desc.InitialTrajectory()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, traj[0], test.ShouldResemble, []float64{0, 0, 0})
		test.That(t, traj[1], test.ShouldResemble, []float64{1, 2, 3})
		test.That(t, traj[3], test.ShouldResemble, []float64{3, 6, 9})

		desc.InitInfo.EndData = []float64{1}
		_, err = desc.InitialTrajectory()
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("given", func(t *testing.T) {
		desc.InitInfo = trajopt.InitInfo{Type: trajopt.GivenTraj, Trajectory: [][]float64{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}, {3, 3, 3}}}
		traj, err := desc.InitialTrajectory()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, traj, test.ShouldResemble, desc.InitInfo.Trajectory)

		desc.InitInfo.Trajectory = desc.InitInfo.Trajectory[:2]
		_, err = desc.InitialTrajectory()
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("unknown", func(t *testing.T) {
		desc.InitInfo = trajopt.InitInfo{Type: "random"}
		_, err := desc.InitialTrajectory()
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestDescriptionString(t *testing.T) {
	out := newTestDescription().String()
	for _, s := range []string{"arm: 4 steps", "j2_vel", "start_pos_constraint", "pose_2", "collision", "0-3", "link: ee_link"} {
		test.That(t, out, test.ShouldContainSubstring, s)
	}
}
