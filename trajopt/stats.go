package trajopt

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// StepStats summarizes the Cartesian distance the end effector targets move per time step.
type StepStats struct {
	Count int
	Mean  float64
	Max   float64
	P95   float64
}

// StepLengthStats computes StepStats over StepLengths.
func StepLengthStats(desc *ProblemDescription) (StepStats, error) {
	lengths := stats.Float64Data(StepLengths(desc))
	if len(lengths) == 0 {
		return StepStats{}, errors.New("problem has no consecutive pose terms")
	}
	mean, err := lengths.Mean()
	if err != nil {
		return StepStats{}, err
	}
	maxLength, err := lengths.Max()
	if err != nil {
		return StepStats{}, err
	}
	p95, err := lengths.PercentileNearestRank(95)
	if err != nil {
		return StepStats{}, err
	}
	return StepStats{Count: len(lengths), Mean: mean, Max: maxLength, P95: p95}, nil
}
