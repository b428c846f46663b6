package trajopt

import (
	"encoding/json"

	"github.com/pkg/errors"

	"go.viam.com/pickplace/spatialmath"
)

type termJSON struct {
	Type   TermKind        `json:"type"`
	Name   string          `json:"name"`
	Params json.RawMessage `json:"params"`
}

type descriptionJSON struct {
	BasicInfo   BasicInfo  `json:"basic_info"`
	InitInfo    InitInfo   `json:"init_info"`
	Costs       []termJSON `json:"costs"`
	Constraints []termJSON `json:"constraints"`
}

type cartPoseParams struct {
	Link      string                  `json:"link"`
	Timestep  int                     `json:"timestep"`
	Xyz       [3]float64              `json:"xyz"`
	Wxyz      [4]float64              `json:"wxyz"`
	PosCoeffs [3]float64              `json:"pos_coeffs"`
	RotCoeffs [3]float64              `json:"rot_coeffs"`
	TCP       *spatialmath.PoseConfig `json:"tcp,omitempty"`
}

// MarshalJSON encodes the description in the optimizer's JSON problem format. The kinematics
// handle is not serialized; it is identified by BasicInfo.Manip.
func (desc *ProblemDescription) MarshalJSON() ([]byte, error) {
	costs, err := termsToJSON(desc.CostInfos)
	if err != nil {
		return nil, err
	}
	cnts, err := termsToJSON(desc.CntInfos)
	if err != nil {
		return nil, err
	}
	return json.Marshal(descriptionJSON{
		BasicInfo:   desc.BasicInfo,
		InitInfo:    desc.InitInfo,
		Costs:       costs,
		Constraints: cnts,
	})
}

// UnmarshalJSON decodes a description written by MarshalJSON. Kinematics are left unset.
func (desc *ProblemDescription) UnmarshalJSON(data []byte) error {
	var raw descriptionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	costs, err := termsFromJSON(raw.Costs, TTCost)
	if err != nil {
		return err
	}
	cnts, err := termsFromJSON(raw.Constraints, TTCnt)
	if err != nil {
		return err
	}
	*desc = ProblemDescription{
		BasicInfo: raw.BasicInfo,
		InitInfo:  raw.InitInfo,
		CostInfos: costs,
		CntInfos:  cnts,
	}
	return nil
}

func termsToJSON(terms []TermInfo) ([]termJSON, error) {
	out := make([]termJSON, 0, len(terms))
	for _, term := range terms {
		var params interface{} = term
		if cp, ok := term.(*CartPoseTermInfo); ok {
			p := cartPoseParams{
				Link:      cp.Link,
				Timestep:  cp.Timestep,
				Xyz:       cp.Xyz,
				Wxyz:      cp.Wxyz,
				PosCoeffs: cp.PosCoeffs,
				RotCoeffs: cp.RotCoeffs,
			}
			if cp.TCP != nil {
				tcp, err := spatialmath.NewPoseConfig(cp.TCP)
				if err != nil {
					return nil, err
				}
				p.TCP = tcp
			}
			params = p
		}
		bytes, err := json.Marshal(params)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding term %q", term.TermName())
		}
		out = append(out, termJSON{Type: term.TermKind(), Name: term.TermName(), Params: bytes})
	}
	return out, nil
}

func termsFromJSON(raw []termJSON, termType TermType) ([]TermInfo, error) {
	out := make([]TermInfo, 0, len(raw))
	for _, rt := range raw {
		var term TermInfo
		var err error
		switch rt.Type {
		case JointPosKind:
			t := &JointPosTermInfo{Name: rt.Name, Type: termType}
			err = json.Unmarshal(rt.Params, t)
			term = t
		case JointVelKind:
			t := &JointVelTermInfo{Name: rt.Name, Type: termType}
			err = json.Unmarshal(rt.Params, t)
			term = t
		case CollisionKind:
			t := &CollisionTermInfo{Name: rt.Name, Type: termType}
			err = json.Unmarshal(rt.Params, t)
			term = t
		case CartPoseKind:
			var p cartPoseParams
			if err = json.Unmarshal(rt.Params, &p); err != nil {
				break
			}
			t := &CartPoseTermInfo{
				Name:      rt.Name,
				Type:      termType,
				Link:      p.Link,
				Timestep:  p.Timestep,
				Xyz:       p.Xyz,
				Wxyz:      p.Wxyz,
				PosCoeffs: p.PosCoeffs,
				RotCoeffs: p.RotCoeffs,
			}
			if p.TCP != nil {
				t.TCP, err = p.TCP.ParseConfig()
			}
			term = t
		default:
			return nil, NewUnknownTermKindError(string(rt.Type))
		}
		if err != nil {
			return nil, errors.Wrapf(err, "decoding term %q", rt.Name)
		}
		out = append(out, term)
	}
	return out, nil
}
