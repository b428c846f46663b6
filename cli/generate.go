package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/pickplace/archive"
	"go.viam.com/pickplace/config"
	"go.viam.com/pickplace/environment"
	"go.viam.com/pickplace/logging"
	"go.viam.com/pickplace/pickplace"
	"go.viam.com/pickplace/trajopt"
)

// session is a loaded config with the builder it describes.
type session struct {
	cfg     *config.Config
	env     *environment.KinematicEnvironment
	builder *pickplace.Constructor
	logger  logging.Logger
}

func newSession(c *cli.Context) (*session, error) {
	logger := loggerFrom(c)
	path := c.String(flagConfig)
	if path == "" {
		return nil, errors.Errorf("no session config given, use --%s", flagConfig)
	}
	cfg, err := config.Read(path, logger)
	if err != nil {
		return nil, err
	}
	if len(cfg.Log) > 0 {
		if err := logging.UpdateLoggerConfig(cfg.Log, logger); err != nil {
			return nil, err
		}
	}

	env, err := environment.NewKinematicEnvironmentFromConfig(&cfg.Environment, logger.Sublogger("environment"))
	if err != nil {
		return nil, err
	}
	tcp, err := cfg.Builder.ParseTCP()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.BuilderOptions()
	if err != nil {
		return nil, err
	}
	builder, err := pickplace.NewConstructor(
		env,
		cfg.Builder.Manipulator,
		cfg.Builder.EELink,
		cfg.Builder.PickObject,
		tcp,
		trajopt.NewConstructor(logger.Sublogger("trajopt")),
		logger.Sublogger("builder"),
		pickplace.WithOptions(opts),
	)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, env: env, builder: builder, logger: logger}, nil
}

// PickAction generates the pick problem of the session config.
func PickAction(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	if s.cfg.Pick == nil {
		return errors.New("session config has no pick section")
	}
	approach, final, err := s.cfg.Pick.Poses()
	if err != nil {
		return err
	}
	problem, err := s.builder.GeneratePickProblem(approach, final, s.cfg.Pick.StepsPerPhase)
	if err != nil {
		return err
	}
	return s.emit(c, archive.KindPick, problem)
}

// PlaceAction generates the place problem of the session config.
func PlaceAction(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	if s.cfg.Place == nil {
		return errors.New("session config has no place section")
	}
	retreat, approach, final, err := s.cfg.Place.Poses()
	if err != nil {
		return err
	}
	problem, err := s.builder.GeneratePlaceProblem(retreat, approach, final, s.cfg.Place.StepsPerPhase)
	if err != nil {
		return err
	}
	return s.emit(c, archive.KindPlace, problem)
}

func (s *session) emit(c *cli.Context, kind archive.Kind, problem *trajopt.Problem) error {
	if dir := c.String(flagArchive); dir != "" {
		id, err := archiveProblem(c.Context, dir, kind, problem, s.logger)
		if err != nil {
			return err
		}
		infof(c.App.ErrWriter, "archived %s problem as %s", kind, id)
	}

	if path := c.String(flagPlot); path != "" {
		if err := trajopt.PlotCartesianPath(problem.Description, path); err != nil {
			return errors.Wrap(err, "cannot plot problem")
		}
		successf(c.App.ErrWriter, "plotted end effector targets to %s", path)
	}

	if c.Bool(flagSummary) {
		printSummary(c, problem.Description)
		return nil
	}
	return writeProblem(c, problem.Description)
}

func printSummary(c *cli.Context, desc *trajopt.ProblemDescription) {
	printf(c.App.Writer, "%s", desc.String())
	if len(trajopt.StepLengths(desc)) == 0 {
		return
	}
	stepStats, err := trajopt.StepLengthStats(desc)
	if err != nil {
		warningf(c.App.ErrWriter, "cannot summarize step lengths: %v", err)
		return
	}
	printf(c.App.Writer, "\nstep lengths (mm): %d steps, mean %.2f, p95 %.2f, max %.2f",
		stepStats.Count, stepStats.Mean, stepStats.P95, stepStats.Max)
	if err := trajopt.FprintStepLengths(c.App.Writer, desc, 8, 40); err != nil {
		warningf(c.App.ErrWriter, "cannot print step lengths: %v", err)
	}
}

func writeProblem(c *cli.Context, desc *trajopt.ProblemDescription) error {
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	path := c.String(flagOutput)
	if path == "" {
		printf(c.App.Writer, "%s", data)
		return nil
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return errors.Wrapf(err, "cannot write %s", path)
	}
	successf(c.App.ErrWriter, "wrote problem to %s", path)
	return nil
}

func archiveProblem(
	ctx context.Context,
	dir string,
	kind archive.Kind,
	problem *trajopt.Problem,
	logger logging.Logger,
) (id string, err error) {
	a, err := archive.Open(dir, logger.Sublogger("archive"))
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	archiveID, err := a.Put(ctx, kind, problem)
	if err != nil {
		return "", err
	}
	return archiveID.String(), nil
}
