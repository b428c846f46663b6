package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/pickplace/testutils"
	"go.viam.com/pickplace/trajopt"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(&out, &errOut)
	err := app.Run(append([]string{"pickplace"}, args...))
	return out.String(), errOut.String(), err
}

func exampleConfig() string {
	return testutils.ResolveFile("etc/pickplace.yaml")
}

func TestPickCommand(t *testing.T) {
	out, _, err := runApp(t, "--config", exampleConfig(), "pick")
	test.That(t, err, test.ShouldBeNil)

	desc := trajopt.NewProblemDescription()
	test.That(t, json.Unmarshal([]byte(out), desc), test.ShouldBeNil)
	test.That(t, desc.BasicInfo.NSteps, test.ShouldEqual, 20)
	test.That(t, desc.BasicInfo.Manip, test.ShouldEqual, "arm")
	test.That(t, len(desc.TermsOfKind(trajopt.CartPoseKind)), test.ShouldEqual, 10)
	test.That(t, len(desc.TermsOfKind(trajopt.JointVelKind)), test.ShouldEqual, 6)

	t.Run("summary", func(t *testing.T) {
		out, _, err := runApp(t, "--config", exampleConfig(), "pick", "--summary")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "start_pos_constraint")
		test.That(t, out, test.ShouldContainSubstring, "pose_19")
		test.That(t, out, test.ShouldContainSubstring, "step lengths (mm)")
	})

	t.Run("output and plot", func(t *testing.T) {
		dir := t.TempDir()
		output := filepath.Join(dir, "pick.json")
		plotPath := filepath.Join(dir, "pick.png")
		out, errOut, err := runApp(t, "--config", exampleConfig(), "pick", "--output", output, "--plot", plotPath)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldBeEmpty)
		test.That(t, errOut, test.ShouldContainSubstring, "wrote problem to")

		data, err := os.ReadFile(output)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, json.Unmarshal(data, trajopt.NewProblemDescription()), test.ShouldBeNil)
		info, err := os.Stat(plotPath)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)
	})
}

func TestPlaceAndHistory(t *testing.T) {
	dir := t.TempDir()
	out, errOut, err := runApp(t, "--config", exampleConfig(), "--archive", dir, "place")
	test.That(t, err, test.ShouldBeNil)
	desc := trajopt.NewProblemDescription()
	test.That(t, json.Unmarshal([]byte(out), desc), test.ShouldBeNil)
	test.That(t, desc.BasicInfo.NSteps, test.ShouldEqual, 30)

	id := regexp.MustCompile(`archived place problem as ([0-9A-Z]{26})`).FindStringSubmatch(errOut)
	test.That(t, len(id), test.ShouldEqual, 2)

	out, _, err = runApp(t, "--archive", dir, "history")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, id[1])
	test.That(t, strings.ToLower(out), test.ShouldContainSubstring, "place")

	out, _, err = runApp(t, "--archive", dir, "show", id[1])
	test.That(t, err, test.ShouldBeNil)
	shown := trajopt.NewProblemDescription()
	test.That(t, json.Unmarshal([]byte(out), shown), test.ShouldBeNil)
	test.That(t, len(shown.CntInfos), test.ShouldEqual, len(desc.CntInfos))

	_, _, err = runApp(t, "--archive", dir, "show", "not-an-id")
	test.That(t, err, test.ShouldNotBeNil)
	_, _, err = runApp(t, "history")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSchemaCommand(t *testing.T) {
	out, _, err := runApp(t, "schema")
	test.That(t, err, test.ShouldBeNil)
	var schema map[string]interface{}
	test.That(t, json.Unmarshal([]byte(out), &schema), test.ShouldBeNil)
	test.That(t, schema["title"], test.ShouldEqual, "pickplace config")
}

func TestMissingConfig(t *testing.T) {
	_, _, err := runApp(t, "pick")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "--config")

	_, _, err = runApp(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "place")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "pickplace.log")
	_, _, err := runApp(t, "--debug", "--log-file", logFile, "--config", exampleConfig(), "pick", "--summary")
	test.That(t, err, test.ShouldBeNil)

	data, err := os.ReadFile(logFile)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, "read config")
}
