package hestia

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	. "gopkg.in/check.v1"
)

type StepperSuite struct{}

var _ = Suite(&StepperSuite{})

func newTestModel(c *C, config Config) *Model {
	if config.Logger == nil {
		config.Logger, _ = nullLogger()
	}
	if config.Dx == 0 {
		config.Dx = 1.0
	}
	m, err := NewModel(config)
	c.Assert(err, IsNil)
	return m
}

func checkerboard(row, col int) float64 {
	return 300 + 10*float64((row+col)%2)
}

func (s *StepperSuite) TestUniformFieldIsSteady(c *C) {
	m := newTestModel(c, Config{
		Grid:        Grid{Rows: 10, Cols: 10},
		Regions:     []Region{NewRoom("A", Rect(0, 10, 0, 10), ConstantInitializer(300), 400)},
		Diffusivity: 0.1,
	})
	for i := 0; i < 5; i++ {
		c.Assert(m.Step(0.1), IsNil)
	}
	for _, v := range m.Temperature().Cells() {
		c.Assert(v, Equals, 300.0)
	}
	c.Check(m.Steps(), Equals, 5)
	c.Check(m.CurrentTime(), IsCloseTo, 0.5, 1e-12)
	c.Check(m.RawEnergy(), DeepEquals, []float64{0, 0, 0, 0, 0})
}

func (s *StepperSuite) TestPerturbationSpreads(c *C) {
	m := newTestModel(c, Config{
		Grid: Grid{Rows: 10, Cols: 10},
		Regions: []Region{NewRoom("A", Rect(0, 10, 0, 10), InitializerFunc(func(row, col int) float64 {
			if row == 4 && col == 4 {
				return 310
			}
			return 300
		}), 400)},
		Diffusivity: 0.1,
	})
	c.Check(m.Coefficient(1.0), IsCloseTo, 0.1, 1e-12)
	c.Assert(m.Step(1.0), IsNil)

	t := m.Temperature()
	c.Check(t.At(4, 4), IsCloseTo, 306.0, 1e-9)
	c.Check(t.At(3, 4), IsCloseTo, 301.0, 1e-9)
	c.Check(t.At(5, 4), IsCloseTo, 301.0, 1e-9)
	c.Check(t.At(4, 3), IsCloseTo, 301.0, 1e-9)
	c.Check(t.At(4, 5), IsCloseTo, 301.0, 1e-9)
	c.Check(t.At(3, 3), Equals, 300.0)

	mean, err := m.RoomMean("A")
	c.Check(err, IsNil)
	c.Check(mean, IsCloseTo, 300.1, 1e-9)
}

func (s *StepperSuite) TestWindowsAreDirichletBoundaries(c *C) {
	m := newTestModel(c, Config{
		Grid: Grid{Rows: 10, Cols: 10},
		Regions: []Region{
			NewRoom("A", Rect(2, 10, 0, 10), ConstantInitializer(300), 400),
			NewWindow("O1", Rect(0, 2, 0, 10)),
		},
		Diffusivity:       0.1,
		WindowTemperature: ConstantSchedule(280),
	})

	for i := 0; i < 3; i++ {
		c.Assert(m.Step(1.0), IsNil)
		t := m.Temperature()
		for row := 0; row < 2; row++ {
			for col := 0; col < 10; col++ {
				c.Check(t.At(row, col), Equals, 280.0)
			}
		}
		c.Check(t.At(5, 5), Equals, 300.0)
	}
}

func (s *StepperSuite) TestWindowWriteHappensBeforeDiffusion(c *C) {
	m := newTestModel(c, Config{
		Grid: Grid{Rows: 10, Cols: 10},
		Regions: []Region{
			NewRoom("A", Rect(0, 10, 0, 10), ConstantInitializer(300), 400),
			NewWindow("O1", Rect(0, 1, 0, 10)),
		},
		Diffusivity:       0.1,
		WindowTemperature: ConstantSchedule(280),
	})

	m.stepper.applyWindows(0)
	c.Check(m.store.Global().MeanRect(Rect(0, 1, 0, 10)), Equals, 280.0)
	c.Check(m.store.Consistent(), Equals, false)

	m = newTestModel(c, Config{
		Grid: Grid{Rows: 10, Cols: 10},
		Regions: []Region{
			NewRoom("A", Rect(0, 10, 0, 10), ConstantInitializer(300), 400),
			NewWindow("O1", Rect(0, 1, 0, 10)),
		},
		Diffusivity:       0.1,
		WindowTemperature: ConstantSchedule(280),
	})
	c.Assert(m.Step(1.0), IsNil)
	t := m.Temperature()
	// the first interior row sees the window, the room edge then copies it
	c.Check(t.At(1, 5), IsCloseTo, 298.0, 1e-9)
	c.Check(t.At(0, 5), IsCloseTo, 298.0, 1e-9)
	c.Check(t.At(2, 5), Equals, 300.0)
}

func (s *StepperSuite) TestDoorsAverageTheirCells(c *C) {
	m := newTestModel(c, Config{
		Grid: Grid{Rows: 10, Cols: 20},
		Regions: []Region{
			NewRoom("A", Rect(0, 10, 0, 10), ConstantInitializer(300), 400),
			NewRoom("B", Rect(0, 10, 10, 20), ConstantInitializer(320), 400),
			NewDoor("D1", Rect(4, 6, 9, 11)),
		},
		Diffusivity: 0.1,
	})
	c.Assert(m.Step(0.1), IsNil)

	t := m.Temperature()
	for row := 4; row < 6; row++ {
		for col := 9; col < 11; col++ {
			c.Check(t.At(row, col), Equals, 310.0)
		}
	}
	c.Check(t.At(3, 9), Equals, 300.0)
	c.Check(t.At(3, 10), Equals, 320.0)

	a, err := m.store.Partial("A")
	c.Assert(err, IsNil)
	c.Check(a.At(4, 9), Equals, 310.0)
	c.Check(m.store.Consistent(), Equals, true)
}

func radiatorRoom(initial, target Temperature) []Region {
	return []Region{
		NewRoom("A", Rect(0, 10, 0, 10), ConstantInitializer(initial), target),
		NewRadiator("R1", Rect(4, 6, 4, 6), 0, 0.5),
	}
}

var strengthForcing = ForcingFunc(func(zone int, strength, t float64) float64 {
	return strength
})

func (s *StepperSuite) TestEnergyTimeSeries(c *C) {
	m := newTestModel(c, Config{
		Grid:        Grid{Rows: 10, Cols: 10},
		Regions:     radiatorRoom(290, 300),
		Diffusivity: 0.1,
		Forcing:     strengthForcing,
	})
	res, err := m.Run(context.Background(), 3, 1.0)
	c.Assert(err, IsNil)

	c.Check(m.RawEnergy(), DeepEquals, []float64{2, 2, 2})
	c.Check(m.EnergyTimeSeries(), DeepEquals, []float64{2, 4, 6})
	c.Check(res.Energy, DeepEquals, []float64{2, 4, 6})
	c.Check(res.Time, IsCloseTo, 3.0, 1e-12)
	c.Check(res.Temperature.Sum(), IsCloseTo, 29006.0, 1e-6)

	mean, err := m.RoomMean("A")
	c.Check(err, IsNil)
	c.Check(mean, IsCloseTo, 290.06, 1e-9)

	report, ok := m.LastReport()
	c.Assert(ok, Equals, true)
	c.Check(report.Index, Equals, 2)
	c.Check(report.Energy, Equals, 2.0)
	c.Check(report.Cumulative, Equals, 6.0)
	c.Assert(report.Rooms, HasLen, 1)
	c.Check(report.Rooms[0].Power, Equals, 2.0)
	c.Check(report.Rooms[0].Heating, Equals, true)
}

func (s *StepperSuite) TestThermostatCutsRadiatorsOff(c *C) {
	m := newTestModel(c, Config{
		Grid:        Grid{Rows: 10, Cols: 10},
		Regions:     radiatorRoom(310, 300),
		Diffusivity: 0.1,
		Forcing:     strengthForcing,
	})
	c.Assert(m.Step(1.0), IsNil)
	c.Check(m.RawEnergy(), DeepEquals, []float64{0})
	for _, v := range m.Temperature().Cells() {
		c.Check(v, Equals, 310.0)
	}
	report, ok := m.LastReport()
	c.Assert(ok, Equals, true)
	c.Check(report.Rooms[0].Heating, Equals, false)

	m = newTestModel(c, Config{
		Grid:              Grid{Rows: 10, Cols: 10},
		Regions:           radiatorRoom(310, 300),
		Diffusivity:       0.1,
		Forcing:           strengthForcing,
		DisableThermostat: true,
	})
	c.Assert(m.Step(1.0), IsNil)
	c.Check(m.RawEnergy(), DeepEquals, []float64{2})
}

func (s *StepperSuite) TestThermostatSwitchesAreLogged(c *C) {
	logger, hook := nullLogger()
	m := newTestModel(c, Config{
		Grid: Grid{Rows: 10, Cols: 10},
		Regions: []Region{
			NewRoom("A", Rect(0, 10, 0, 10), ConstantInitializer(299.99), 300),
			NewRadiator("R1", Rect(1, 9, 1, 9), 0, 1.0),
		},
		Diffusivity: 0.1,
		Forcing:     strengthForcing,
		Logger:      logger,
	})
	_, err := m.Run(context.Background(), 3, 1.0)
	c.Assert(err, IsNil)
	c.Check(m.RawEnergy(), DeepEquals, []float64{64, 0, 0})

	switched := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "radiators switched" {
			switched++
			c.Check(e.Level, Equals, logrus.DebugLevel)
			c.Check(e.Data["room"], Equals, "A")
			c.Check(e.Data["on"], Equals, false)
		}
	}
	c.Check(switched, Equals, 1)
}

func (s *StepperSuite) TestMaximumPrinciple(c *C) {
	m := newTestModel(c, Config{
		Grid: Grid{Rows: 12, Cols: 12},
		Regions: []Region{
			NewRoom("A", Rect(0, 12, 0, 12), NoiseInitializer{Base: 290, Amplitude: 20, Seed: 42}, 400),
		},
		Diffusivity: 0.1,
	})
	min, max := m.Temperature().MinMax()
	for i := 0; i < 50; i++ {
		c.Assert(m.Step(2.5), IsNil)
		cmin, cmax := m.Temperature().MinMax()
		c.Assert(cmin >= min-1e-9, Equals, true, Commentf("step %d: %g < %g", i, cmin, min))
		c.Assert(cmax <= max+1e-9, Equals, true, Commentf("step %d: %g > %g", i, cmax, max))
	}
}

func (s *StepperSuite) TestParallelUpdatesAreDeterministic(c *C) {
	f, err := ReadLayoutFile("testdata/apartment.yml", nil)
	c.Assert(err, IsNil)

	run := func(workers int) *Model {
		config, err := f.Config(nil)
		c.Assert(err, IsNil)
		config.Workers = workers
		m := newTestModel(c, config)
		_, err = m.Run(context.Background(), 20, 1.0)
		c.Assert(err, IsNil)
		return m
	}

	sequential := run(0)
	parallel := run(4)
	c.Check(parallel.Temperature().Cells(), DeepEquals, sequential.Temperature().Cells())
	c.Check(parallel.RawEnergy(), DeepEquals, sequential.RawEnergy())
	c.Check(sequential.store.Consistent(), Equals, true)
	c.Check(parallel.store.Consistent(), Equals, true)
}

func (s *StepperSuite) TestUnstableCoefficientIsRejected(c *C) {
	m := newTestModel(c, Config{
		Grid:           Grid{Rows: 10, Cols: 10},
		Regions:        []Region{NewRoom("A", Rect(0, 10, 0, 10), ConstantInitializer(300), 400)},
		Diffusivity:    0.1,
		RejectUnstable: true,
	})
	err := m.Step(3.0)
	c.Check(err, ErrorMatches, `step 0 \(t=0s\): coefficient .* exceeds stability bound 0.25`)
	var ierr *NumericalInstabilityError
	c.Assert(errors.As(err, &ierr), Equals, true)
	c.Check(ierr.Row, Equals, -1)
	c.Check(ierr.Coefficient, IsCloseTo, 0.3, 1e-9)
	c.Check(m.Steps(), Equals, 0)
	c.Check(m.Step(2.5), IsNil)
}

func (s *StepperSuite) TestUnstableCoefficientIsWarnedOnce(c *C) {
	logger, hook := nullLogger()
	m := newTestModel(c, Config{
		Grid:        Grid{Rows: 10, Cols: 10},
		Regions:     []Region{NewRoom("A", Rect(0, 10, 0, 10), ConstantInitializer(300), 400)},
		Diffusivity: 0.1,
		Logger:      logger,
	})
	c.Assert(m.Step(3.0), IsNil)
	c.Assert(m.Step(3.0), IsNil)

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
			c.Check(e.Message, Equals, "explicit scheme is unstable for this time step")
		}
	}
	c.Check(warnings, Equals, 1)
}

func (s *StepperSuite) TestDivergenceIsReported(c *C) {
	m := newTestModel(c, Config{
		Grid:        Grid{Rows: 10, Cols: 10},
		Regions:     []Region{NewRoom("A", Rect(0, 10, 0, 10), InitializerFunc(checkerboard), 400)},
		Diffusivity: 0.1,
	})
	_, err := m.Run(context.Background(), 1000, 100.0)
	c.Assert(err, Not(IsNil))
	var ierr *NumericalInstabilityError
	c.Assert(errors.As(err, &ierr), Equals, true)
	c.Check(ierr.Row >= 0, Equals, true)
	c.Check(ierr.Coefficient, IsCloseTo, 10.0, 1e-9)
	c.Check(m.Steps() < 1000, Equals, true)
	c.Check(m.Steps(), Equals, ierr.Step)
	c.Check(err, ErrorMatches, `step [0-9]+/1000: step [0-9]+ \(t=.*s\): non-finite temperature .*`)
}

func (s *StepperSuite) TestEdgeReplication(c *C) {
	p, err := NewFieldFromRows([][]float64{
		{0, 0, 0, 0},
		{0, 1, 2, 0},
		{0, 3, 4, 0},
		{0, 0, 0, 0},
	})
	c.Assert(err, IsNil)
	replicateEdges(p)
	c.Check(p.Rows2D(), DeepEquals, [][]float64{
		{1, 1, 2, 2},
		{1, 1, 2, 2},
		{3, 3, 4, 4},
		{3, 3, 4, 4},
	})
}
