package trajopt

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// String prints out a table of each term of the problem, costs first, with columns of name,
// kind, type, step range and a kind specific detail.
func (desc *ProblemDescription) String() string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s: %d steps, start fixed %t, init %s",
		desc.BasicInfo.Manip, desc.BasicInfo.NSteps, desc.BasicInfo.StartFixed, desc.InitInfo.Type))
	t.AppendHeader(table.Row{"#", "Name", "Kind", "Type", "Steps", "Detail"})
	for i, term := range desc.Terms() {
		first, last := term.StepRange()
		steps := fmt.Sprintf("%d", first)
		if last != first {
			steps = fmt.Sprintf("%d-%d", first, last)
		}
		t.AppendRow(table.Row{i + 1, term.TermName(), term.TermKind(), term.TermType(), steps, termDetail(term)})
	}
	t.AppendFooter(table.Row{"", "", "", "", "costs", len(desc.CostInfos)})
	t.AppendFooter(table.Row{"", "", "", "", "constraints", len(desc.CntInfos)})
	return t.Render()
}

func termDetail(term TermInfo) string {
	switch t := term.(type) {
	case *JointPosTermInfo:
		vals := make([]string, 0, len(t.Values))
		for _, v := range t.Values {
			vals = append(vals, fmt.Sprintf("%.3f", v))
		}
		return "vals: " + strings.Join(vals, ", ")
	case *JointVelTermInfo:
		return fmt.Sprintf("joint: %s, coeff: %v, penalty: %s", t.JointName, t.Coeffs, t.Penalty)
	case *CartPoseTermInfo:
		return fmt.Sprintf("link: %s, X:%.1f, Y:%.1f, Z:%.1f, W:%.3f, I:%.3f, J:%.3f, K:%.3f",
			t.Link, t.Xyz[0], t.Xyz[1], t.Xyz[2], t.Wxyz[0], t.Wxyz[1], t.Wxyz[2], t.Wxyz[3])
	case *CollisionTermInfo:
		if len(t.Info) == 0 {
			return fmt.Sprintf("continuous: %t, gap: %d", t.Continuous, t.Gap)
		}
		return fmt.Sprintf("continuous: %t, gap: %d, dist_pen: %g, coeff: %g",
			t.Continuous, t.Gap, t.Info[0].DistPen, t.Info[0].Coeff)
	default:
		return ""
	}
}
