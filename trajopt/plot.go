package trajopt

import (
	"io"
	"sort"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotCartesianPath plots the target position of every pose term against its time step. The
// image format is chosen by the file extension, e.g. ".png" or ".svg".
func PlotCartesianPath(desc *ProblemDescription, path string) error {
	poses := sortedPoses(desc)
	if len(poses) == 0 {
		return errors.New("problem has no pose terms to plot")
	}

	p := plot.New()
	p.Title.Text = desc.BasicInfo.Manip + " end effector targets"
	p.X.Label.Text = "time step"
	p.Y.Label.Text = "position (mm)"
	p.X.Min = 0
	p.X.Max = float64(desc.BasicInfo.NSteps - 1)

	for axis, label := range []string{"x", "y", "z"} {
		xys := make(plotter.XYs, len(poses))
		for i, cp := range poses {
			xys[i].X = float64(cp.Timestep)
			xys[i].Y = cp.Xyz[axis]
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = plotutil.Color(axis)
		scatter.GlyphStyle.Shape = plotutil.Shape(axis)
		p.Add(scatter)
		p.Legend.Add(label, scatter)
	}

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// StepLengths returns the distance in mm between the targets of pose terms on consecutive time
// steps.
func StepLengths(desc *ProblemDescription) []float64 {
	poses := sortedPoses(desc)
	var lengths []float64
	for i := 1; i < len(poses); i++ {
		if poses[i].Timestep != poses[i-1].Timestep+1 {
			continue
		}
		lengths = append(lengths, arrayToVec(poses[i].Xyz).Distance(arrayToVec(poses[i-1].Xyz)))
	}
	return lengths
}

// FprintStepLengths writes a text histogram of StepLengths to w.
func FprintStepLengths(w io.Writer, desc *ProblemDescription, bins, width int) error {
	lengths := StepLengths(desc)
	if len(lengths) == 0 {
		return errors.New("problem has no consecutive pose terms")
	}
	return histogram.Fprint(w, histogram.Hist(bins, lengths), histogram.Linear(width))
}

func sortedPoses(desc *ProblemDescription) []*CartPoseTermInfo {
	var poses []*CartPoseTermInfo
	for _, term := range desc.TermsOfKind(CartPoseKind) {
		if cp, ok := term.(*CartPoseTermInfo); ok {
			poses = append(poses, cp)
		}
	}
	sort.SliceStable(poses, func(i, j int) bool { return poses[i].Timestep < poses[j].Timestep })
	return poses
}

func arrayToVec(a [3]float64) r3.Vector {
	return r3.Vector{X: a[0], Y: a[1], Z: a[2]}
}
