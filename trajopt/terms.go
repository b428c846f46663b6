package trajopt

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/pickplace/spatialmath"
)

// TermType says whether a term is a weighted cost or a hard constraint.
type TermType string

// The two term types.
const (
	TTCost TermType = "cost"
	TTCnt  TermType = "constraint"
)

// TermKind tags the kind of a term.
type TermKind string

// Known term kinds.
const (
	JointPosKind  TermKind = "joint_pos"
	JointVelKind  TermKind = "joint_vel"
	CartPoseKind  TermKind = "cart_pose"
	CollisionKind TermKind = "collision"
)

// PenaltyType is how a cost term penalizes its error.
type PenaltyType string

// Penalty types.
const (
	SquaredPenalty PenaltyType = "squared"
	AbsPenalty     PenaltyType = "abs"
	HingePenalty   PenaltyType = "hinge"
)

// TermInfo is a cost or constraint over trajectory variables at a range of time steps.
type TermInfo interface {
	TermName() string
	TermKind() TermKind
	TermType() TermType
	// StepRange is the inclusive range of time steps the term applies to.
	StepRange() (first, last int)

	validate(desc *ProblemDescription) error
}

// JointPosTermInfo pins the joint values at a single time step.
type JointPosTermInfo struct {
	Name     string    `json:"-"`
	Type     TermType  `json:"-"`
	Timestep int       `json:"timestep"`
	Values   []float64 `json:"vals"`
	// Coeffs weights each joint; empty means a weight of 1 for every joint.
	Coeffs []float64 `json:"coeffs,omitempty"`
}

// TermName returns the term's name.
func (t *JointPosTermInfo) TermName() string { return t.Name }

// TermKind returns JointPosKind.
func (t *JointPosTermInfo) TermKind() TermKind { return JointPosKind }

// TermType returns whether the term is a cost or a constraint.
func (t *JointPosTermInfo) TermType() TermType { return t.Type }

// StepRange returns the single time step.
func (t *JointPosTermInfo) StepRange() (int, int) { return t.Timestep, t.Timestep }

func (t *JointPosTermInfo) validate(desc *ProblemDescription) error {
	if len(t.Values) != desc.NumDoF() {
		return newTermError(t, errors.Errorf("has %d values for %d joints", len(t.Values), desc.NumDoF()))
	}
	if len(t.Coeffs) != 0 && len(t.Coeffs) != len(t.Values) {
		return newTermError(t, errors.Errorf("has %d coefficients for %d values", len(t.Coeffs), len(t.Values)))
	}
	return nil
}

// JointVelTermInfo penalizes the velocity of one joint between consecutive time steps.
type JointVelTermInfo struct {
	Name      string      `json:"-"`
	Type      TermType    `json:"-"`
	JointName string      `json:"joint_name"`
	FirstStep int         `json:"first_step"`
	LastStep  int         `json:"last_step"`
	Coeffs    []float64   `json:"coeffs"`
	Penalty   PenaltyType `json:"penalty_type"`
}

// TermName returns the term's name.
func (t *JointVelTermInfo) TermName() string { return t.Name }

// TermKind returns JointVelKind.
func (t *JointVelTermInfo) TermKind() TermKind { return JointVelKind }

// TermType returns whether the term is a cost or a constraint.
func (t *JointVelTermInfo) TermType() TermType { return t.Type }

// StepRange returns the first and last step.
func (t *JointVelTermInfo) StepRange() (int, int) { return t.FirstStep, t.LastStep }

func (t *JointVelTermInfo) validate(desc *ProblemDescription) error {
	if desc.Kinematics != nil && !lo.Contains(desc.Kinematics.JointNames(), t.JointName) {
		return newTermError(t, errors.Errorf("references unknown joint %q", t.JointName))
	}
	if len(t.Coeffs) != 1 {
		return newTermError(t, errors.Errorf("needs exactly one coefficient, has %d", len(t.Coeffs)))
	}
	switch t.Penalty {
	case SquaredPenalty, AbsPenalty, HingePenalty:
	default:
		return newTermError(t, errors.Errorf("unknown penalty type %q", t.Penalty))
	}
	return nil
}

// CartPoseTermInfo fixes the pose of a link at a single time step.
type CartPoseTermInfo struct {
	Name     string
	Type     TermType
	Link     string
	Timestep int
	// Xyz is the target position and Wxyz the target orientation as a unit quaternion, scalar first.
	Xyz       [3]float64
	Wxyz      [4]float64
	PosCoeffs [3]float64
	RotCoeffs [3]float64
	// TCP is the tool center point relative to Link. A nil TCP is the link frame itself.
	TCP spatialmath.Pose
}

// TermName returns the term's name.
func (t *CartPoseTermInfo) TermName() string { return t.Name }

// TermKind returns CartPoseKind.
func (t *CartPoseTermInfo) TermKind() TermKind { return CartPoseKind }

// TermType returns whether the term is a cost or a constraint.
func (t *CartPoseTermInfo) TermType() TermType { return t.Type }

// StepRange returns the single time step.
func (t *CartPoseTermInfo) StepRange() (int, int) { return t.Timestep, t.Timestep }

// Pose returns the target as a Pose.
func (t *CartPoseTermInfo) Pose() spatialmath.Pose {
	q := spatialmath.Quaternion(quat.Number{Real: t.Wxyz[0], Imag: t.Wxyz[1], Jmag: t.Wxyz[2], Kmag: t.Wxyz[3]})
	return spatialmath.NewPose(r3.Vector{X: t.Xyz[0], Y: t.Xyz[1], Z: t.Xyz[2]}, &q)
}

func (t *CartPoseTermInfo) validate(desc *ProblemDescription) error {
	if t.Link == "" {
		return newTermError(t, errors.New("has no link"))
	}
	q := quat.Number{Real: t.Wxyz[0], Imag: t.Wxyz[1], Jmag: t.Wxyz[2], Kmag: t.Wxyz[3]}
	if norm := quat.Abs(q); norm < 1-unitTolerance || norm > 1+unitTolerance {
		return newTermError(t, errors.Errorf("orientation is not a unit quaternion, norm %f", norm))
	}
	return nil
}

// SafetyMarginData is the collision distance penalty and coefficient applied at one time step.
type SafetyMarginData struct {
	DistPen float64 `json:"dist_pen"`
	Coeff   float64 `json:"coeff"`
}

// CreateSafetyMarginDataVector returns n identical safety margins.
func CreateSafetyMarginDataVector(n int, distPen, coeff float64) []SafetyMarginData {
	if n < 0 {
		n = 0
	}
	info := make([]SafetyMarginData, n)
	for i := range info {
		info[i] = SafetyMarginData{DistPen: distPen, Coeff: coeff}
	}
	return info
}

// CollisionTermInfo penalizes proximity to obstacles over a range of time steps.
type CollisionTermInfo struct {
	Name       string             `json:"-"`
	Type       TermType           `json:"-"`
	Continuous bool               `json:"continuous"`
	FirstStep  int                `json:"first_step"`
	LastStep   int                `json:"last_step"`
	Gap        int                `json:"gap"`
	Info       []SafetyMarginData `json:"info"`
}

// TermName returns the term's name.
func (t *CollisionTermInfo) TermName() string { return t.Name }

// TermKind returns CollisionKind.
func (t *CollisionTermInfo) TermKind() TermKind { return CollisionKind }

// TermType returns whether the term is a cost or a constraint.
func (t *CollisionTermInfo) TermType() TermType { return t.Type }

// StepRange returns the first and last step.
func (t *CollisionTermInfo) StepRange() (int, int) { return t.FirstStep, t.LastStep }

func (t *CollisionTermInfo) validate(desc *ProblemDescription) error {
	if t.Gap < 1 {
		return newTermError(t, errors.Errorf("gap must be at least 1, is %d", t.Gap))
	}
	if want := t.LastStep - t.FirstStep + 1; len(t.Info) != want {
		return newTermError(t, errors.Errorf("has %d safety margins for %d steps", len(t.Info), want))
	}
	return nil
}

const unitTolerance = 1e-6

func newTermError(t TermInfo, err error) error {
	return errors.Wrap(err, fmt.Sprintf("%s %s %q", t.TermKind(), t.TermType(), t.TermName()))
}
