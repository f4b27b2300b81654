package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/formicidae-tracker/hestia/internal/hestia"
	"github.com/jessevdk/go-flags"
	"go.opentelemetry.io/otel/attribute"
)

type CheckCommand struct {
	Args struct {
		Layouts []flags.Filename
	} `positional-args:"yes" required:"1"`

	Dt float64 `long:"dt" description:"time step to check the stability bound against" default:"1.0"`
}

func (c *CheckCommand) Execute(args []string) (err error) {
	_, span := startCommandSpan("Check",
		attribute.Int("layouts", len(c.Args.Layouts)),
		attribute.Float64("dt", c.Dt))
	defer func() { endCommandSpan(span, err) }()

	return c.check(os.Stdout)
}

func (c *CheckCommand) check(out io.Writer) error {
	var errs []error
	for _, l := range c.Args.Layouts {
		model, err := openModel(string(l), hestia.NewLogger("check"), nil)
		if err != nil {
			fmt.Fprintf(out, "%s: %s\n", l, err)
			errs = append(errs, fmt.Errorf("%s: %w", l, err))
			continue
		}
		r := model.Registry()
		status := "ok"
		coeff := model.Coefficient(c.Dt)
		if coeff > hestia.StableCoefficient {
			status = fmt.Sprintf("unstable for dt=%gs", c.Dt)
		}
		fmt.Fprintf(out, "%s: %s (grid %s, %d rooms, %d walls, %d windows, %d doors, %d radiators, coefficient %.4g)\n",
			l, status, r.Grid(),
			r.Len(hestia.Room), r.Len(hestia.Wall), r.Len(hestia.Window), r.Len(hestia.Door), r.Len(hestia.Radiator),
			coeff)
	}
	return errors.Join(errs...)
}

func init() {
	_, err := parser.AddCommand("check",
		"checks layout files",
		"parses and validates layout files, and reports the stability of the explicit scheme for a time step",
		&CheckCommand{})
	if err != nil {
		panic(err.Error())
	}
}
