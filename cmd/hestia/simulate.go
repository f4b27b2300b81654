package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/formicidae-tracker/hestia/internal/hestia"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type SimulateCommand struct {
	Args struct {
		Layout flags.Filename
	} `positional-args:"yes" required:"yes"`

	Steps          int     `short:"n" long:"steps" description:"number of steps to simulate" default:"1000"`
	Dt             float64 `long:"dt" description:"time step in seconds" default:"1.0"`
	Workers        int     `short:"j" long:"workers" description:"number of rooms updated concurrently" default:"1"`
	Output         string  `short:"o" long:"output" description:"output directory, defaults to $XDG_DATA_HOME/hestia"`
	Name           string  `long:"name" description:"basename of output files, defaults to the layout file name"`
	Progress       int     `long:"progress" description:"logs progress every N steps, 0 disables it" default:"100"`
	Metrics        string  `long:"metrics" description:"writes prometheus metrics in text format to this file at the end of the run"`
	NoEnergyReport bool    `long:"no-energy-report" description:"do not write the energy report"`
	NoField        bool    `long:"no-field" description:"do not write the final temperature field"`
	RejectUnstable bool    `long:"reject-unstable" description:"fails if the time step breaks the stability bound of the explicit scheme"`
}

func (c *SimulateCommand) outputDirectory() string {
	if len(c.Output) > 0 {
		return c.Output
	}
	return filepath.Join(xdg.DataHome, "hestia")
}

func (c *SimulateCommand) basename() string {
	if len(c.Name) > 0 {
		return c.Name
	}
	base := filepath.Base(string(c.Args.Layout))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func openModel(filename string, logger *logrus.Entry, configure func(*hestia.Config)) (*hestia.Model, error) {
	layout, err := hestia.ReadLayoutFile(filename, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("could not read '%s': %w", filename, err)
	}
	config, err := layout.Config(logger)
	if err != nil {
		return nil, err
	}
	if configure != nil {
		configure(&config)
	}
	return hestia.NewModel(config)
}

func roomNames(r *hestia.Registry) []string {
	rooms := r.Rooms()
	res := make([]string, len(rooms))
	for i, room := range rooms {
		res[i] = room.Name
	}
	return res
}

func (c *SimulateCommand) Execute(args []string) (err error) {
	ctx, span := startCommandSpan("Simulate",
		attribute.String("layout", string(c.Args.Layout)),
		attribute.Int("steps", c.Steps),
		attribute.Float64("dt", c.Dt))
	defer func() { endCommandSpan(span, err) }()

	logger := hestia.NewLogger("simulate")

	model, err := openModel(string(c.Args.Layout), logger, func(config *hestia.Config) {
		config.Workers = c.Workers
		config.RejectUnstable = c.RejectUnstable
	})
	if err != nil {
		return err
	}

	outdir := c.outputDirectory()
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return err
	}

	if c.Progress > 0 {
		model.AddObserver(newProgressLogger(logger, model.Steps(), c.Steps, c.Progress))
	}

	if c.NoEnergyReport == false {
		var reporter *hestia.EnergyReporter
		var fname string
		reporter, fname, err = hestia.NewEnergyReporter(
			filepath.Join(outdir, c.basename()+".energy.txt"),
			model.CurrentTime(),
			roomNames(model.Registry()))
		if err != nil {
			return err
		}
		defer func() {
			if cerr := reporter.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("could not write energy report: %w", cerr)
			}
		}()
		logger.WithField("file", fname).Info("writing energy report")
		model.AddObserver(reporter)
	}

	if len(c.Metrics) > 0 {
		var metrics *hestia.MetricsCollector
		metrics, err = hestia.NewMetricsCollector(prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer func() {
			if werr := metrics.WriteTextfile(c.Metrics); werr != nil && err == nil {
				err = fmt.Errorf("could not write metrics: %w", werr)
			}
		}()
		model.AddObserver(metrics)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger.WithFields(logrus.Fields{
		"steps":       c.Steps,
		"dt":          c.Dt,
		"coefficient": model.Coefficient(c.Dt),
		"workers":     c.Workers,
	}).Info("starting simulation")

	res, err := model.Run(ctx, c.Steps, c.Dt)
	if err != nil {
		return err
	}

	fields := logrus.Fields{"time": res.Time}
	if len(res.Energy) > 0 {
		fields["energy"] = res.Energy[len(res.Energy)-1]
		span.SetAttributes(attribute.Float64("energy", res.Energy[len(res.Energy)-1]))
	}

	if c.NoField == false {
		fname, err := hestia.WriteField(filepath.Join(outdir, c.basename()+".field.txt"), res.Temperature)
		if err != nil {
			return fmt.Errorf("could not write final field: %w", err)
		}
		fields["field"] = fname
	}

	logger.WithFields(fields).Info("simulation done")
	return nil
}

func init() {
	_, err := parser.AddCommand("simulate",
		"runs a simulation",
		"runs a heat diffusion simulation of a layout file and saves the energy report and final temperature field",
		&SimulateCommand{})
	if err != nil {
		panic(err.Error())
	}
}
