// Package pickplace builds pick and place trajectory optimization problems for a manipulator:
// a start configuration constraint, joint velocity smoothing, straight line end effector motions
// and collision avoidance, assembled into a trajopt.ProblemDescription.
package pickplace

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/pickplace/environment"
	"go.viam.com/pickplace/logging"
	"go.viam.com/pickplace/spatialmath"
	"go.viam.com/pickplace/trajopt"
	"go.viam.com/pickplace/utils"
)

// Constructor builds pick and place problems for one manipulator. It is read only after
// construction and safe for concurrent use when its environment is.
type Constructor struct {
	env         environment.Environment
	manipulator string
	eeLink      string
	pickObject  string
	tcp         spatialmath.Pose
	kin         environment.Manipulator
	solver      trajopt.ProblemConstructor
	opts        Options
	logger      logging.Logger
}

// NewConstructor resolves the named manipulator in the environment and returns a builder for it.
func NewConstructor(
	env environment.Environment,
	manipulator, eeLink, pickObject string,
	tcp spatialmath.Pose,
	solver trajopt.ProblemConstructor,
	logger logging.Logger,
	opts ...Option,
) (*Constructor, error) {
	if env == nil {
		return nil, errors.New("no environment given")
	}
	if solver == nil {
		return nil, errors.New("no problem constructor given")
	}
	kin, err := env.Manipulator(manipulator)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot resolve manipulator %q", manipulator)
	}
	if logger == nil {
		logger = logging.NewBlankLogger("pickplace.builder")
	}
	if tcp == nil {
		tcp = spatialmath.NewZeroPose()
	}
	c := &Constructor{
		env:         env,
		manipulator: manipulator,
		eeLink:      eeLink,
		pickObject:  pickObject,
		tcp:         tcp,
		kin:         kin,
		solver:      solver,
		opts:        *NewDefaultOptions(),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Manipulator returns the name of the manipulator problems are built for.
func (c *Constructor) Manipulator() string {
	return c.manipulator
}

// EELink returns the end effector link pose constraints apply to.
func (c *Constructor) EELink() string {
	return c.eeLink
}

// PickObject returns the identifier of the manipulated object.
func (c *Constructor) PickObject() string {
	return c.pickObject
}

// TCP returns the tool center point relative to the end effector link.
func (c *Constructor) TCP() spatialmath.Pose {
	return c.tcp
}

// Options returns a copy of the term weights.
func (c *Constructor) Options() Options {
	return c.opts
}

// AddInitialJointPosConstraint pins time step 0 to the environment's current joint values.
func (c *Constructor) AddInitialJointPosConstraint(desc *trajopt.ProblemDescription) {
	values := append([]float64(nil), c.env.CurrentJointValues()...)
	desc.AddConstraint(&trajopt.JointPosTermInfo{
		Name:     "start_pos_constraint",
		Type:     trajopt.TTCnt,
		Timestep: 0,
		Values:   values,
	})
}

// AddJointVelCost adds a squared velocity cost with weight `coeff` for every joint of the
// manipulator, spanning every time step of the description.
func (c *Constructor) AddJointVelCost(desc *trajopt.ProblemDescription, coeff float64) {
	for _, joint := range c.kin.JointNames() {
		desc.AddCost(&trajopt.JointVelTermInfo{
			Name:      joint + "_vel",
			Type:      trajopt.TTCost,
			JointName: joint,
			FirstStep: 0,
			LastStep:  desc.BasicInfo.NSteps - 1,
			Coeffs:    []float64{coeff},
			Penalty:   trajopt.SquaredPenalty,
		})
	}
}

// AddCollisionCost adds a discrete collision cost over steps firstStep..lastStep inclusive,
// checking every consecutive pair of steps.
func (c *Constructor) AddCollisionCost(desc *trajopt.ProblemDescription, distPen, coeff float64, firstStep, lastStep int) {
	desc.AddCost(&trajopt.CollisionTermInfo{
		Name:       "collision",
		Type:       trajopt.TTCost,
		Continuous: false,
		FirstStep:  firstStep,
		LastStep:   lastStep,
		Gap:        1,
		Info:       trajopt.CreateSafetyMarginDataVector(lastStep-firstStep+1, distPen, coeff),
	})
}

// AddLinearMotion constrains the end effector to a straight line from start to end over numSteps
// time steps beginning at firstTimeStep. Positions advance in equal increments; orientations
// rotate in equal angle increments about the fixed axis of the minimal rotation from start to end.
func (c *Constructor) AddLinearMotion(
	desc *trajopt.ProblemDescription,
	start, end spatialmath.Pose,
	numSteps, firstTimeStep int,
) error {
	if numSteps < 2 {
		return NewTooFewStepsError(numSteps)
	}
	span := float64(numSteps - 1)
	startPt, endPt := start.Point(), end.Point()
	xyzDelta := endPt.Sub(startPt).Mul(1 / span)

	startRot := spatialmath.Normalize(start.Orientation().Quaternion())
	// The difference is taken in the world frame (end·start⁻¹) because each step is pre-multiplied
	// onto start. The body frame difference start⁻¹·end misses end whenever the axes differ.
	rotationDiff := spatialmath.QuatToR4AA(spatialmath.OrientationBetween(start.Orientation(), end.Orientation()).Quaternion())
	angleDelta := rotationDiff.Theta / span

	c.logger.Debugw("adding linear motion",
		"from", formatPoint(startPt),
		"to", formatPoint(endPt),
		"steps", numSteps,
		"first_step", firstTimeStep,
		"angle_deg", utils.RadToDeg(rotationDiff.Theta))

	for i := 0; i < numSteps; i++ {
		xyz := startPt.Add(xyzDelta.Mul(float64(i)))
		if i == numSteps-1 {
			xyz = endPt
		}
		stepRot := &spatialmath.R4AA{
			Theta: angleDelta * float64(i),
			RX:    rotationDiff.RX,
			RY:    rotationDiff.RY,
			RZ:    rotationDiff.RZ,
		}
		rot := spatialmath.Normalize(quat.Mul(stepRot.ToQuat(), startRot))
		timestep := firstTimeStep + i
		desc.AddConstraint(&trajopt.CartPoseTermInfo{
			Name:      fmt.Sprintf("pose_%d", timestep),
			Type:      trajopt.TTCnt,
			Link:      c.eeLink,
			Timestep:  timestep,
			Xyz:       vecToArray(xyz),
			Wxyz:      [4]float64{rot.Real, rot.Imag, rot.Jmag, rot.Kmag},
			PosCoeffs: [3]float64{c.opts.PosCoeff, c.opts.PosCoeff, c.opts.PosCoeff},
			RotCoeffs: [3]float64{c.opts.RotCoeff, c.opts.RotCoeff, c.opts.RotCoeff},
			TCP:       c.tcp,
		})
	}
	return nil
}

// newDescription returns a description of nSteps steps seeded with a stationary trajectory at
// the manipulator's current joint values.
func (c *Constructor) newDescription(nSteps int) (*trajopt.ProblemDescription, error) {
	desc := trajopt.NewProblemDescription()
	desc.BasicInfo = trajopt.BasicInfo{
		NSteps:     nSteps,
		StartFixed: false,
		Manip:      c.manipulator,
	}
	desc.Kinematics = c.kin

	seed, err := c.env.ManipulatorJointValues(c.kin.Name())
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read joint values of %q", c.kin.Name())
	}
	desc.InitInfo = trajopt.InitInfo{Type: trajopt.Stationary, Data: seed}
	return desc, nil
}

// GeneratePickProblem builds a problem of 2·stepsPerPhase steps: free motion over the first half
// with collision checking on steps 0..stepsPerPhase, then a straight line from approach to final
// over the second half.
func (c *Constructor) GeneratePickProblem(approach, final spatialmath.Pose, stepsPerPhase int) (*trajopt.Problem, error) {
	if stepsPerPhase < 2 {
		return nil, NewStepsPerPhaseError(stepsPerPhase)
	}
	desc, err := c.newDescription(2 * stepsPerPhase)
	if err != nil {
		return nil, err
	}

	c.AddJointVelCost(desc, c.opts.JointVelCoeff)
	c.AddInitialJointPosConstraint(desc)
	if err := c.AddLinearMotion(desc, approach, final, stepsPerPhase, stepsPerPhase); err != nil {
		return nil, err
	}
	c.AddCollisionCost(desc, c.opts.CollisionDistPen, c.opts.CollisionCoeff, 0, stepsPerPhase)

	c.logger.Debugw("generated pick problem", "object", c.pickObject, "steps", desc.BasicInfo.NSteps)
	return c.construct(desc)
}

// GeneratePlaceProblem builds a problem of 3·stepsPerPhase steps: a straight line from the
// current end effector pose to retreat, free motion with collision checking over the middle
// phase, then a straight line from approach to final.
func (c *Constructor) GeneratePlaceProblem(
	retreat, approach, final spatialmath.Pose,
	stepsPerPhase int,
) (*trajopt.Problem, error) {
	if stepsPerPhase < 2 {
		return nil, NewStepsPerPhaseError(stepsPerPhase)
	}
	desc, err := c.newDescription(3 * stepsPerPhase)
	if err != nil {
		return nil, err
	}

	c.AddJointVelCost(desc, c.opts.JointVelCoeff)
	c.AddInitialJointPosConstraint(desc)

	state := c.env.State()
	base, err := state.Transform(c.kin.BaseLinkName())
	if err != nil {
		return nil, errors.Wrap(err, "cannot find manipulator base")
	}
	start, err := c.kin.CalcFwdKin(base, c.env.CurrentJointValues(), c.eeLink, state)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot compute pose of %q", c.eeLink)
	}

	if err := c.AddLinearMotion(desc, start, retreat, stepsPerPhase, 0); err != nil {
		return nil, err
	}
	if err := c.AddLinearMotion(desc, approach, final, stepsPerPhase, 2*stepsPerPhase); err != nil {
		return nil, err
	}
	c.AddCollisionCost(desc, c.opts.CollisionDistPen, c.opts.CollisionCoeff, stepsPerPhase, 2*stepsPerPhase-1)

	c.logger.Debugw("generated place problem", "object", c.pickObject, "steps", desc.BasicInfo.NSteps)
	return c.construct(desc)
}

func (c *Constructor) construct(desc *trajopt.ProblemDescription) (*trajopt.Problem, error) {
	problem, err := c.solver.ConstructProblem(desc)
	if err != nil {
		return nil, errors.Wrap(err, "cannot construct problem")
	}
	return problem, nil
}

// formatPoint renders a point in millimeters to a tenth of a millimeter.
func formatPoint(v r3.Vector) string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", v.X, v.Y, v.Z)
}

func vecToArray(v r3.Vector) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
