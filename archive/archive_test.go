package archive

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/oklog/ulid/v2"
	"go.viam.com/test"

	"go.viam.com/pickplace/logging"
	"go.viam.com/pickplace/testutils"
	"go.viam.com/pickplace/trajopt"
)

func newTestProblem(t *testing.T, nSteps int) *trajopt.Problem {
	t.Helper()
	desc := trajopt.NewProblemDescription()
	desc.BasicInfo = trajopt.BasicInfo{NSteps: nSteps, Manip: "arm"}
	desc.Kinematics = testutils.NewFakeManipulator("arm", "j0", "j1")
	desc.InitInfo = trajopt.InitInfo{Type: trajopt.Stationary, Data: []float64{0.5, -0.5}}
	desc.AddConstraint(&trajopt.JointPosTermInfo{
		Name:   "start_pos_constraint",
		Type:   trajopt.TTCnt,
		Values: []float64{0.5, -0.5},
	})
	desc.AddCost(&trajopt.CollisionTermInfo{
		Name:      "collision",
		Type:      trajopt.TTCost,
		FirstStep: 0,
		LastStep:  nSteps - 1,
		Gap:       1,
		Info:      trajopt.CreateSafetyMarginDataVector(nSteps, 0.025, 20),
	})
	problem, err := trajopt.NewConstructor(logging.NewTestLogger(t)).ConstructProblem(desc)
	test.That(t, err, test.ShouldBeNil)
	return problem
}

func TestArchive(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)
	dir := filepath.Join(t.TempDir(), "archive")

	a, err := Open(dir, logger)
	test.That(t, err, test.ShouldBeNil)

	records, err := a.List(ctx, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records, test.ShouldBeEmpty)

	pick := newTestProblem(t, 4)
	place := newTestProblem(t, 6)
	pickID, err := a.Put(ctx, KindPick, pick)
	test.That(t, err, test.ShouldBeNil)
	placeID, err := a.Put(ctx, KindPlace, place)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, placeID.Compare(pickID), test.ShouldEqual, 1)

	t.Run("get", func(t *testing.T) {
		rec, err := a.Get(ctx, pickID)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, rec.ID, test.ShouldEqual, pickID)
		test.That(t, rec.ProblemID, test.ShouldEqual, pick.ID.String())
		test.That(t, rec.Kind, test.ShouldEqual, KindPick)
		test.That(t, rec.Manipulator, test.ShouldEqual, "arm")
		test.That(t, rec.NumSteps, test.ShouldEqual, 4)
		test.That(t, rec.NumCosts, test.ShouldEqual, 1)
		test.That(t, rec.NumConstraints, test.ShouldEqual, 1)
		test.That(t, rec.Description.Kinematics, test.ShouldBeNil)

		diff := cmp.Diff(pick.Description, rec.Description,
			cmpopts.IgnoreFields(trajopt.ProblemDescription{}, "Kinematics"))
		test.That(t, diff, test.ShouldBeEmpty)
	})

	t.Run("list", func(t *testing.T) {
		records, err := a.List(ctx, 0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(records), test.ShouldEqual, 2)
		test.That(t, records[0].ID, test.ShouldEqual, placeID)
		test.That(t, records[0].Kind, test.ShouldEqual, KindPlace)
		test.That(t, records[0].Description, test.ShouldBeNil)
		test.That(t, records[1].ID, test.ShouldEqual, pickID)

		records, err = a.List(ctx, 1)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(records), test.ShouldEqual, 1)
		test.That(t, records[0].ID, test.ShouldEqual, placeID)
	})

	t.Run("missing", func(t *testing.T) {
		missing := ulid.Make()
		_, err := a.Get(ctx, missing)
		test.That(t, err, test.ShouldBeError, NewRecordNotFoundError(missing))
	})

	t.Run("empty problem", func(t *testing.T) {
		_, err := a.Put(ctx, KindPick, nil)
		test.That(t, err, test.ShouldNotBeNil)
		_, err = a.Put(ctx, KindPick, &trajopt.Problem{})
		test.That(t, err, test.ShouldNotBeNil)
	})

	test.That(t, a.Close(), test.ShouldBeNil)

	t.Run("reopen", func(t *testing.T) {
		reopened, err := Open(dir, logger)
		test.That(t, err, test.ShouldBeNil)
		defer func() {
			test.That(t, reopened.Close(), test.ShouldBeNil)
		}()
		records, err := reopened.List(ctx, 10)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(records), test.ShouldEqual, 2)
	})
}

func TestOpenNewerSchema(t *testing.T) {
	dir := t.TempDir()
	db, err := sql.Open("sqlite", filepath.Join(dir, FileName))
	test.That(t, err, test.ShouldBeNil)
	_, err = db.Exec("PRAGMA user_version = 9;")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, db.Close(), test.ShouldBeNil)

	_, err = Open(dir, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "newer")
}

func TestArchiveClock(t *testing.T) {
	ctx := context.Background()
	mockClock := clock.NewMock()
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	mockClock.Set(created)

	a, err := Open(t.TempDir(), logging.NewTestLogger(t), WithClock(mockClock))
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, a.Close(), test.ShouldBeNil)
	}()

	first, err := a.Put(ctx, KindPick, newTestProblem(t, 4))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ulid.Time(first.Time()).Equal(created), test.ShouldBeTrue)

	mockClock.Add(time.Minute)
	second, err := a.Put(ctx, KindPlace, newTestProblem(t, 6))
	test.That(t, err, test.ShouldBeNil)

	rec, err := a.Get(ctx, first)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rec.CreatedAt.Equal(created), test.ShouldBeTrue)

	records, err := a.List(ctx, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(records), test.ShouldEqual, 2)
	test.That(t, records[0].ID, test.ShouldEqual, second)
	test.That(t, records[0].CreatedAt.Sub(records[1].CreatedAt), test.ShouldEqual, time.Minute)
}
