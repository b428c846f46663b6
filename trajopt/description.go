// Package trajopt describes trajectory optimization problems as ordered lists of weighted cost and
// constraint terms, and turns a description into a validated problem ready for an optimizer.
package trajopt

import (
	"github.com/pkg/errors"

	"go.viam.com/pickplace/environment"
	"go.viam.com/pickplace/referenceframe"
)

// BasicInfo is the scalar configuration of a problem.
type BasicInfo struct {
	NSteps     int    `json:"n_steps"`
	StartFixed bool   `json:"start_fixed"`
	Manip      string `json:"manip"`
}

// InitType is how the initial trajectory guess is seeded.
type InitType string

// Initial trajectory types.
const (
	// Stationary repeats Data at every time step.
	Stationary InitType = "stationary"
	// JointInterpolated interpolates from Data to EndData.
	JointInterpolated InitType = "joint_interpolated"
	// GivenTraj uses Trajectory as is.
	GivenTraj InitType = "given_traj"
)

// InitInfo seeds the optimizer's initial trajectory.
type InitInfo struct {
	Type       InitType    `json:"type"`
	Data       []float64   `json:"data,omitempty"`
	EndData    []float64   `json:"end_data,omitempty"`
	Trajectory [][]float64 `json:"trajectory,omitempty"`
}

// ProblemDescription is a trajectory optimization problem: scalar configuration, the kinematics
// it is solved for, an initial guess, and ordered cost and constraint terms.
type ProblemDescription struct {
	BasicInfo  BasicInfo
	Kinematics environment.Manipulator
	InitInfo   InitInfo
	CostInfos  []TermInfo
	CntInfos   []TermInfo
}

// NewProblemDescription returns an empty description.
func NewProblemDescription() *ProblemDescription {
	return &ProblemDescription{}
}

// AddCost appends a cost term.
func (desc *ProblemDescription) AddCost(term TermInfo) {
	desc.CostInfos = append(desc.CostInfos, term)
}

// AddConstraint appends a constraint term.
func (desc *ProblemDescription) AddConstraint(term TermInfo) {
	desc.CntInfos = append(desc.CntInfos, term)
}

// Terms returns all costs followed by all constraints, each in insertion order.
func (desc *ProblemDescription) Terms() []TermInfo {
	terms := make([]TermInfo, 0, len(desc.CostInfos)+len(desc.CntInfos))
	terms = append(terms, desc.CostInfos...)
	return append(terms, desc.CntInfos...)
}

// TermsOfKind returns the terms of the given kind, costs first.
func (desc *ProblemDescription) TermsOfKind(kind TermKind) []TermInfo {
	var out []TermInfo
	for _, term := range desc.Terms() {
		if term.TermKind() == kind {
			out = append(out, term)
		}
	}
	return out
}

// NumDoF is the number of joints of the problem: the kinematics' joint count, or the initial
// guess's dimension when there are no kinematics.
func (desc *ProblemDescription) NumDoF() int {
	if desc.Kinematics != nil {
		return len(desc.Kinematics.JointNames())
	}
	return len(desc.InitInfo.Data)
}

// InitialTrajectory expands the initial guess to one row of joint values per time step.
func (desc *ProblemDescription) InitialTrajectory() ([][]float64, error) {
	n := desc.BasicInfo.NSteps
	dof := desc.NumDoF()
	init := desc.InitInfo
	switch init.Type {
	case Stationary:
		if len(init.Data) != dof {
			return nil, newInitDimensionError(len(init.Data), dof)
		}
		traj := make([][]float64, n)
		for i := range traj {
			traj[i] = append([]float64(nil), init.Data...)
		}
		return traj, nil
	case JointInterpolated:
		if len(init.Data) != dof {
			return nil, newInitDimensionError(len(init.Data), dof)
		}
		if len(init.EndData) != dof {
			return nil, newInitDimensionError(len(init.EndData), dof)
		}
		from := referenceframe.FloatsToInputs(init.Data)
		to := referenceframe.FloatsToInputs(init.EndData)
		traj := make([][]float64, n)
		for i := range traj {
			by := 0.
			if n > 1 {
				by = float64(i) / float64(n-1)
			}
			traj[i] = referenceframe.InputsToFloats(referenceframe.InterpolateInputs(from, to, by))
		}
		return traj, nil
	case GivenTraj:
		if len(init.Trajectory) != n {
			return nil, errors.Errorf("given trajectory has %d steps, problem has %d", len(init.Trajectory), n)
		}
		traj := make([][]float64, n)
		for i, row := range init.Trajectory {
			if len(row) != dof {
				return nil, newInitDimensionError(len(row), dof)
			}
			traj[i] = append([]float64(nil), row...)
		}
		return traj, nil
	default:
		return nil, errors.Errorf("unknown init type %q", init.Type)
	}
}

func newInitDimensionError(actual, expected int) error {
	return errors.Errorf("initial trajectory has %d joint values, kinematics have %d joints", actual, expected)
}
