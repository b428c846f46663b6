package spatialmath

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestPoseConfigRoundTrip(t *testing.T) {
	p := NewPose(r3.Vector{X: 400, Y: -100, Z: 250}, &EulerAngles{Roll: math.Pi, Pitch: 0.2, Yaw: 0.5})
	cfg, err := NewPoseConfig(p)
	test.That(t, err, test.ShouldBeNil)

	data, err := json.Marshal(cfg)
	test.That(t, err, test.ShouldBeNil)

	var parsedCfg PoseConfig
	test.That(t, json.Unmarshal(data, &parsedCfg), test.ShouldBeNil)
	parsed, err := parsedCfg.ParseConfig()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, PoseAlmostEqual(parsed, p), test.ShouldBeTrue)
}

func TestOrientationConfigTypes(t *testing.T) {
	for _, tc := range []struct {
		name string
		cfg  string
	}{
		{"quaternion", `{"type": "quaternion", "value": {"w": 0.9238795325112867, "x": 0.3826834323650898, "y": 0, "z": 0}}`},
		{"axis angles", `{"type": "axis_angles", "value": {"th": 0.7853981633974483, "x": 2, "y": 0, "z": 0}}`},
		{"euler angles", `{"type": "euler_angles", "value": {"roll": 0.7853981633974483, "pitch": 0, "yaw": 0}}`},
		{"rotation matrix", `{"type": "rotation_matrix", "value": [1, 0, 0, 0, 0.7071067811865476, -0.7071067811865476, 0, 0.7071067811865476, 0.7071067811865476]}`},
		{"default type", `{"value": {"w": 0.9238795325112867, "x": 0.3826834323650898, "y": 0, "z": 0}}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var oc OrientationConfig
			test.That(t, json.Unmarshal([]byte(tc.cfg), &oc), test.ShouldBeNil)
			o, err := oc.ParseConfig()
			test.That(t, err, test.ShouldBeNil)
			test.That(t, OrientationAlmostEqual(o, aa45x), test.ShouldBeTrue)
		})
	}
}

func TestOrientationConfigErrors(t *testing.T) {
	oc := OrientationConfig{Type: "orientation_vector_degrees", Value: json.RawMessage(`{}`)}
	_, err := oc.ParseConfig()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "not supported")

	oc = OrientationConfig{Type: QuaternionType, Value: json.RawMessage(`{"w": 0}`)}
	_, err = oc.ParseConfig()
	test.That(t, err, test.ShouldNotBeNil)

	oc = OrientationConfig{Type: EulerAnglesType}
	o, err := oc.ParseConfig()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, OrientationAlmostEqual(o, NewZeroOrientation()), test.ShouldBeTrue)
}

func TestPoseConfigWithoutOrientation(t *testing.T) {
	cfg := PoseConfig{Translation: Translation{X: 1, Y: 2, Z: 3}}
	p, err := cfg.ParseConfig()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Point(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, OrientationAlmostEqual(p.Orientation(), NewZeroOrientation()), test.ShouldBeTrue)
}
