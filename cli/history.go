package cli

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/pickplace/archive"
)

func openArchive(c *cli.Context) (*archive.Archive, error) {
	dir := c.String(flagArchive)
	if dir == "" {
		return nil, errors.Errorf("no archive given, use --%s", flagArchive)
	}
	return archive.Open(dir, loggerFrom(c).Sublogger("archive"))
}

// HistoryAction lists archived problems, newest first.
func HistoryAction(c *cli.Context) (err error) {
	a, err := openArchive(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, a.Close())
	}()

	records, err := a.List(c.Context, c.Int(flagLimit))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		infof(c.App.ErrWriter, "no archived problems")
		return nil
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Kind", "Manipulator", "Steps", "Costs", "Constraints", "Created"})
	for _, rec := range records {
		t.AppendRow(table.Row{
			rec.ID.String(), rec.Kind, rec.Manipulator, rec.NumSteps, rec.NumCosts, rec.NumConstraints,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// ShowAction prints one archived problem.
func ShowAction(c *cli.Context) (err error) {
	if c.NArg() != 1 {
		return errors.New("show takes exactly one archive id")
	}
	id, err := ulid.Parse(c.Args().First())
	if err != nil {
		return errors.Wrapf(err, "invalid archive id %q", c.Args().First())
	}
	a, err := openArchive(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, a.Close())
	}()

	rec, err := a.Get(c.Context, id)
	if err != nil {
		return err
	}
	if c.Bool(flagSummary) {
		printSummary(c, rec.Description)
		return nil
	}
	data, err := json.MarshalIndent(rec.Description, "", "  ")
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", data)
	return nil
}
