// Package cli contains the pickplace command line tool.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/pickplace/logging"
)

const (
	// Global flags.
	flagConfig  = "config"
	flagDebug   = "debug"
	flagArchive = "archive"
	flagLogFile = "log-file"

	// Generate flags.
	flagSummary = "summary"
	flagPlot    = "plot"
	flagOutput  = "output"

	// History flags.
	flagLimit = "limit"

	loggerMetadataKey  = "logger"
	logFileMetadataKey = "log-file"
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "pickplace",
		Usage:     "build pick and place trajectory optimization problems",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load the session from `FILE` (json or yaml)",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:    flagArchive,
				Usage:   "archive generated problems in `DIR`",
				EnvVars: []string{"PICKPLACE_ARCHIVE"},
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "also write logs to `FILE`, rotated by size",
			},
		},
		Before: func(c *cli.Context) error {
			logger := logging.NewBlankLogger("pickplace")
			logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
			if !c.Bool(flagDebug) {
				logger.SetLevel(logging.INFO)
			}
			c.App.Metadata = map[string]interface{}{loggerMetadataKey: logger}
			if path := c.String(flagLogFile); path != "" {
				appender, closer := logging.NewFileAppender(path)
				logger.AddAppender(appender)
				c.App.Metadata[logFileMetadataKey] = closer
			}
			return nil
		},
		After: func(c *cli.Context) error {
			err := loggerFrom(c).Sync()
			if closer, ok := c.App.Metadata[logFileMetadataKey].(io.Closer); ok {
				err = multierr.Combine(err, closer.Close())
			}
			return err
		},
		Commands: []*cli.Command{
			{
				Name:      "pick",
				Usage:     "generate the pick problem of the session",
				UsageText: "pickplace --config session.yaml pick [--summary] [--plot FILE] [--output FILE]",
				Flags:     generateFlags(),
				Action:    PickAction,
			},
			{
				Name:      "place",
				Usage:     "generate the place problem of the session",
				UsageText: "pickplace --config session.yaml place [--summary] [--plot FILE] [--output FILE]",
				Flags:     generateFlags(),
				Action:    PlaceAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of the session config",
				Action: SchemaAction,
			},
			{
				Name:      "history",
				Usage:     "list archived problems",
				UsageText: "pickplace --archive DIR history [--limit N]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagLimit,
						Value: 20,
						Usage: "show at most `N` problems, 0 for all",
					},
				},
				Action: HistoryAction,
			},
			{
				Name:      "show",
				Usage:     "print an archived problem",
				UsageText: "pickplace --archive DIR show <id> [--summary]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagSummary,
						Usage: "print a term table instead of JSON",
					},
				},
				Action: ShowAction,
			},
		},
	}
}

func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  flagSummary,
			Usage: "print a term table and step length histogram instead of JSON",
		},
		&cli.StringFlag{
			Name:  flagPlot,
			Usage: "plot the end effector targets to `FILE` (.png, .svg or .pdf)",
		},
		&cli.StringFlag{
			Name:    flagOutput,
			Aliases: []string{"o"},
			Usage:   "write the problem JSON to `FILE` instead of stdout",
		},
	}
}

func loggerFrom(c *cli.Context) logging.Logger {
	if logger, ok := c.App.Metadata[loggerMetadataKey].(logging.Logger); ok {
		return logger
	}
	return logging.NewBlankLogger("pickplace")
}

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// infof prints a message prefixed with a bold cyan "Info: ".
func infof(w io.Writer, format string, a ...interface{}) {
	if _, err := color.New(color.Bold, color.FgCyan).Fprint(w, "Info: "); err != nil {
		printf(w, "error while printing info %v", err)
	}
	printf(w, format, a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	if _, err := color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: "); err != nil {
		printf(w, "error while printing warning %v", err)
	}
	printf(w, format, a...)
}

// successf prints a message with a green check mark.
func successf(w io.Writer, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	if _, err := color.New(color.FgGreen).Fprintln(w, msg); err != nil {
		printf(w, "error while printing %v", err)
	}
}
