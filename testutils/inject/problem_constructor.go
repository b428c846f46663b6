package inject

import (
	"go.viam.com/pickplace/trajopt"
)

// ProblemConstructor is an injected problem constructor.
type ProblemConstructor struct {
	trajopt.ProblemConstructor
	ConstructProblemFunc func(desc *trajopt.ProblemDescription) (*trajopt.Problem, error)
}

// ConstructProblem calls the injected ConstructProblem or the real version.
func (pc *ProblemConstructor) ConstructProblem(desc *trajopt.ProblemDescription) (*trajopt.Problem, error) {
	if pc.ConstructProblemFunc == nil {
		return pc.ProblemConstructor.ConstructProblem(desc)
	}
	return pc.ConstructProblemFunc(desc)
}
