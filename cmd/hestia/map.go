package main

import (
	"fmt"
	"math"
	"os"

	"github.com/formicidae-tracker/hestia/internal/hestia"
	"github.com/jessevdk/go-flags"
	"go.opentelemetry.io/otel/attribute"
)

type MapCommand struct {
	Args struct {
		Layout flags.Filename
	} `positional-args:"yes" required:"yes"`

	Temperature bool    `short:"t" long:"temperature" description:"renders temperatures instead of the apartment structure"`
	Steps       int     `short:"n" long:"steps" description:"steps to simulate before rendering temperatures" default:"0"`
	Dt          float64 `long:"dt" description:"time step in seconds" default:"1.0"`
	Low         float64 `long:"min" description:"lowest temperature of the scale, in Kelvin, defaults to the field minimum" default:"NaN"`
	High        float64 `long:"max" description:"highest temperature of the scale, in Kelvin, defaults to the field maximum" default:"NaN"`
}

func (c *MapCommand) Execute(args []string) (err error) {
	ctx, span := startCommandSpan("Map",
		attribute.String("layout", string(c.Args.Layout)),
		attribute.Bool("temperature", c.Temperature))
	defer func() { endCommandSpan(span, err) }()

	model, err := openModel(string(c.Args.Layout), hestia.NewLogger("map"), nil)
	if err != nil {
		return err
	}

	if c.Temperature == false {
		return renderLabels(os.Stdout, model.Labels())
	}

	if c.Steps > 0 {
		if _, err := model.Run(ctx, c.Steps, c.Dt); err != nil {
			return err
		}
	}

	field := model.Temperature()
	low, high := field.MinMax()
	if math.IsNaN(c.Low) == false {
		low = c.Low
	}
	if math.IsNaN(c.High) == false {
		high = c.High
	}
	if err := renderField(os.Stdout, field, low, high); err != nil {
		return err
	}
	fmt.Println(legend(low, high))
	return nil
}

func init() {
	_, err := parser.AddCommand("map",
		"renders a layout",
		"renders the apartment map of a layout file, or its temperature field after some steps, as text",
		&MapCommand{})
	if err != nil {
		panic(err.Error())
	}
}
