package hestia

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/barkimedes/go-deepcopy"
	"github.com/sirupsen/logrus"
)

// Config is everything needed to build a Model.
type Config struct {
	// Grid defaults to DefaultGrid when left zero.
	Grid    Grid
	Regions []Region

	Diffusivity float64
	Dx          float64

	Forcing           ForcingTerm
	WindowTemperature Schedule

	StartTime float64

	// DisableThermostat keeps radiators on regardless of room targets.
	DisableThermostat bool
	// RejectUnstable makes Step fail when diffusivity*dt/dx² exceeds
	// StableCoefficient instead of only logging it.
	RejectUnstable bool
	// Workers bounds the number of rooms updated concurrently. Values
	// below 2 update rooms sequentially.
	Workers int

	Logger    *logrus.Entry
	Observers []StepObserver
}

func (c Config) check() error {
	if c.Dx <= 0 || math.IsNaN(c.Dx) || math.IsInf(c.Dx, 0) {
		return configurationErrorf("invalid spatial step dx=%g", c.Dx)
	}
	if c.Diffusivity < 0 || math.IsNaN(c.Diffusivity) || math.IsInf(c.Diffusivity, 0) {
		return configurationErrorf("invalid diffusivity %g", c.Diffusivity)
	}
	if math.IsNaN(c.StartTime) || math.IsInf(c.StartTime, 0) {
		return configurationErrorf("invalid start time %g", c.StartTime)
	}
	if err := validate(c.WindowTemperature); err != nil {
		return configurationErrorf("window temperature: %s", err)
	}
	if err := validate(c.Forcing); err != nil {
		return configurationErrorf("forcing term: %s", err)
	}
	return nil
}

// Model is the simulation driver. It owns the region registry, the
// derived maps, the field store and the simulation clock.
type Model struct {
	registry *Registry
	labels   *LabelMap
	zones    *ZoneMask
	store    *FieldStore
	stepper  *stepper
	state    simulationState

	rejectUnstable bool
	warnedUnstable bool

	observers []StepObserver
	last      *StepReport
	logger    *logrus.Entry
}

// RunResult is the outcome of Model.Run.
type RunResult struct {
	Temperature *Field
	// Energy is the cumulative injected energy, one value per step taken
	// since the model was built.
	Energy []float64
	Time   float64
}

func NewModel(c Config) (*Model, error) {
	if c.Grid == (Grid{}) {
		c.Grid = DefaultGrid
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	registry, err := NewRegistry(c.Grid, c.DisableThermostat == false, c.Regions...)
	if err != nil {
		return nil, err
	}
	if registry.Len(Window) > 0 && c.WindowTemperature == nil {
		return nil, configurationErrorf("%d windows but no window temperature schedule", registry.Len(Window))
	}
	if c.Forcing == nil {
		c.Forcing = NoForcing
	}
	if c.Logger == nil {
		c.Logger = NewLogger("hestia")
	}

	labels, zones := Rasterize(registry)
	store := NewFieldStore(registry)
	store.Initialize()

	m := &Model{
		registry:       registry,
		labels:         labels,
		zones:          zones,
		store:          store,
		stepper:        newStepper(registry, zones, store, c, c.Logger),
		state:          simulationState{time: c.StartTime},
		rejectUnstable: c.RejectUnstable,
		observers:      append([]StepObserver(nil), c.Observers...),
		logger:         c.Logger,
	}

	m.logger.WithFields(logrus.Fields{
		"grid":      c.Grid.String(),
		"rooms":     registry.Len(Room),
		"walls":     registry.Len(Wall),
		"windows":   registry.Len(Window),
		"doors":     registry.Len(Door),
		"radiators": registry.Len(Radiator),
		"forcing":   c.Forcing.String(),
	}).Info("model ready")

	return m, nil
}

// AddObserver registers o for every following step.
func (m *Model) AddObserver(o StepObserver) {
	m.observers = append(m.observers, o)
}

// Coefficient returns diffusivity*dt/dx² for a step of dt seconds.
func (m *Model) Coefficient(dt float64) float64 {
	return m.stepper.coefficient(dt)
}

func (m *Model) checkCoefficient(dt float64) error {
	coeff := m.Coefficient(dt)
	if coeff <= StableCoefficient {
		return nil
	}
	if m.rejectUnstable == true {
		return &NumericalInstabilityError{
			Step:        m.state.steps,
			Time:        m.state.time,
			Row:         -1,
			Col:         -1,
			Value:       math.NaN(),
			Coefficient: coeff,
		}
	}
	if m.warnedUnstable == false {
		m.warnedUnstable = true
		m.logger.WithFields(logrus.Fields{
			"coefficient": coeff,
			"bound":       StableCoefficient,
			"dt":          dt,
		}).Warn("explicit scheme is unstable for this time step")
	}
	return nil
}

// Step advances the simulation by dt seconds.
func (m *Model) Step(dt float64) error {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("invalid time step %g", dt)
	}
	if err := m.checkCoefficient(dt); err != nil {
		return err
	}

	start := time.Now()
	if err := m.stepper.step(&m.state, dt); err != nil {
		return err
	}

	n := len(m.state.energy)
	report := StepReport{
		Index:    n - 1,
		Time:     m.state.time,
		Energy:   m.state.energy[n-1],
		Duration: time.Since(start),
		Rooms:    m.stepper.roomReports(),
	}
	if m.last != nil {
		report.Cumulative = m.last.Cumulative
	}
	report.Cumulative += report.Energy
	m.last = &report

	for _, o := range m.observers {
		o.ObserveStep(report)
	}
	return nil
}

// Run takes exactly nSteps steps of dt seconds, unless a step fails or ctx
// is done, and returns the final field with the cumulative energy
// series.
func (m *Model) Run(ctx context.Context, nSteps int, dt float64) (*RunResult, error) {
	if nSteps < 0 {
		return nil, fmt.Errorf("invalid number of steps %d", nSteps)
	}
	for i := 0; i < nSteps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := m.Step(dt); err != nil {
			return nil, fmt.Errorf("step %d/%d: %w", i+1, nSteps, err)
		}
	}

	res := &RunResult{
		Temperature: m.Temperature(),
		Energy:      m.EnergyTimeSeries(),
		Time:        m.state.time,
	}
	fields := logrus.Fields{
		"steps": nSteps,
		"time":  res.Time,
	}
	if len(res.Energy) > 0 {
		fields["energy"] = res.Energy[len(res.Energy)-1]
	}
	m.logger.WithFields(fields).Info("run completed")

	return res, nil
}

// Temperature returns a copy of the current temperature field.
func (m *Model) Temperature() *Field {
	return m.store.Global().Clone()
}

// Labels returns the apartment map.
func (m *Model) Labels() *LabelMap { return m.labels }

// Zones returns the radiator zone mask.
func (m *Model) Zones() *ZoneMask { return m.zones }

func (m *Model) Registry() *Registry { return m.registry }

// EnergyTimeSeries returns the running cumulative sum of the energy
// injected at every step.
func (m *Model) EnergyTimeSeries() []float64 {
	return cumulative(m.state.energy)
}

// RawEnergy returns the energy injected at every step.
func (m *Model) RawEnergy() []float64 {
	return append([]float64(nil), m.state.energy...)
}

func (m *Model) CurrentTime() float64 { return m.state.time }

func (m *Model) Steps() int { return m.state.steps }

func (m *Model) RoomMean(name string) (float64, error) {
	p, err := m.store.Partial(name)
	if err != nil {
		return math.NaN(), err
	}
	return p.Mean(), nil
}

// LastReport returns a copy of the report of the last successful step.
func (m *Model) LastReport() (StepReport, bool) {
	if m.last == nil {
		return StepReport{}, false
	}
	return deepcopy.MustAnything(*m.last).(StepReport), true
}
