package trajopt

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/pickplace/logging"
)

// ProblemConstructor turns a description into a problem an optimizer can solve.
type ProblemConstructor interface {
	ConstructProblem(desc *ProblemDescription) (*Problem, error)
}

// Problem is a validated problem description together with its expanded initial trajectory.
type Problem struct {
	ID             uuid.UUID
	Description    *ProblemDescription
	NumDoF         int
	NumSteps       int
	NumCosts       int
	NumConstraints int
	// InitTrajectory has one row of joint values per time step.
	InitTrajectory [][]float64
}

// Constructor is the default ProblemConstructor. It validates descriptions and does not solve them.
type Constructor struct {
	logger logging.Logger
}

// NewConstructor returns a new Constructor.
func NewConstructor(logger logging.Logger) *Constructor {
	return &Constructor{logger: logger}
}

// ConstructProblem validates the description and returns a problem that owns it.
func (c *Constructor) ConstructProblem(desc *ProblemDescription) (*Problem, error) {
	if err := Validate(desc); err != nil {
		return nil, errors.Wrap(err, "invalid problem description")
	}
	traj, err := desc.InitialTrajectory()
	if err != nil {
		return nil, err
	}
	problem := &Problem{
		ID:             uuid.New(),
		Description:    desc,
		NumDoF:         desc.NumDoF(),
		NumSteps:       desc.BasicInfo.NSteps,
		NumCosts:       len(desc.CostInfos),
		NumConstraints: len(desc.CntInfos),
		InitTrajectory: traj,
	}
	c.logger.Debugw("constructed problem",
		"id", problem.ID.String(),
		"manip", desc.BasicInfo.Manip,
		"steps", problem.NumSteps,
		"costs", problem.NumCosts,
		"constraints", problem.NumConstraints,
	)
	return problem, nil
}

// Validate checks a description for internal consistency and returns every problem found.
func Validate(desc *ProblemDescription) error {
	if desc == nil {
		return errors.New("no problem description given")
	}
	var errAll error
	if desc.BasicInfo.NSteps < 1 {
		multierr.AppendInto(&errAll, ErrNoSteps)
	}
	if desc.BasicInfo.Manip == "" {
		multierr.AppendInto(&errAll, errors.New("manipulator name is required"))
	}
	if desc.Kinematics == nil {
		multierr.AppendInto(&errAll, errors.New("kinematics are required"))
	} else if desc.Kinematics.Name() != desc.BasicInfo.Manip {
		multierr.AppendInto(&errAll, NewManipulatorMismatchError(desc.BasicInfo.Manip, desc.Kinematics.Name()))
	}
	if desc.BasicInfo.NSteps >= 1 {
		if _, err := desc.InitialTrajectory(); err != nil {
			multierr.AppendInto(&errAll, err)
		}
	}

	terms := desc.Terms()
	names := lo.Map(terms, func(term TermInfo, _ int) string { return term.TermName() })
	for _, name := range lo.FindDuplicates(names) {
		multierr.AppendInto(&errAll, NewDuplicateTermNameError(name))
	}
	for _, term := range terms {
		if term.TermName() == "" {
			multierr.AppendInto(&errAll, errors.Errorf("%s term has no name", term.TermKind()))
		}
		if term.TermType() != TTCost && term.TermType() != TTCnt {
			multierr.AppendInto(&errAll, errors.Errorf("term %q has unknown type %q", term.TermName(), term.TermType()))
		}
		first, last := term.StepRange()
		if first < 0 || last >= desc.BasicInfo.NSteps || first > last {
			multierr.AppendInto(&errAll, NewStepOutOfRangeError(term.TermName(), first, last, desc.BasicInfo.NSteps))
		}
		multierr.AppendInto(&errAll, term.validate(desc))
	}
	return errAll
}
