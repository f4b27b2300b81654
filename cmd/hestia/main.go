package main

import (
	"context"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Verbose []bool `short:"v" long:"verbose" description:"enables verbose logging, repeat for debug output"`
	Quiet   bool   `short:"q" long:"quiet" description:"only log warnings and errors"`
}

var opts = &Options{}

var parser = flags.NewParser(opts, flags.Default)

var instrumentationName = "github.com/formicidae-tracker/hestia/cmd/hestia"

func (o *Options) setUpLogging() {
	switch {
	case o.Quiet == true:
		logrus.SetLevel(logrus.WarnLevel)
	case len(o.Verbose) == 0:
		logrus.SetLevel(logrus.InfoLevel)
	default:
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func Execute() error {
	shutdown, err := setUpTelemetry(context.Background(), telemetryArgsFromEnv(), os.Stderr)
	if err != nil {
		logrus.WithError(err).Warn("telemetry disabled")
	}
	defer shutdown()

	parser.CommandHandler = func(command flags.Commander, args []string) error {
		opts.setUpLogging()
		return command.Execute(args)
	}
	if _, err := parser.Parse(); err != nil {
		return err
	}

	return nil
}

func main() {
	if err := Execute(); err != nil {
		if ferr, ok := err.(*flags.Error); ok == true && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}
