package hestia

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// StableCoefficient is the stability bound of the explicit 5-point scheme
// in two dimensions.
const StableCoefficient = 0.25

// simulationState is the mutable clock and energy bookkeeping of a run.
// It belongs to the Model and is lent to the stepper for each step.
type simulationState struct {
	time   float64
	steps  int
	energy []float64
}

// stepper advances a FieldStore by one time increment.
type stepper struct {
	registry  *Registry
	zones     *ZoneMask
	store     *FieldStore
	rooms     []Region
	windows   []Region
	doors     []Region
	strengths map[int]float64

	diffusivity, dx float64
	forcingTerm     ForcingTerm
	window          Schedule
	workers         int

	forcing  *Field
	scratch  []*Field
	power    []float64
	heating  []bool
	observed bool

	logger *logrus.Entry
}

func newStepper(r *Registry, zones *ZoneMask, store *FieldStore, c Config, logger *logrus.Entry) *stepper {
	s := &stepper{
		registry:    r,
		zones:       zones,
		store:       store,
		rooms:       r.Rooms(),
		windows:     r.Windows(),
		doors:       r.Doors(),
		strengths:   r.Strengths(),
		diffusivity: c.Diffusivity,
		dx:          c.Dx,
		forcingTerm: c.Forcing,
		window:      c.WindowTemperature,
		workers:     c.Workers,
		forcing:     NewField(r.Grid().Rows, r.Grid().Cols),
		logger:      logger,
	}
	s.scratch = make([]*Field, len(s.rooms))
	s.power = make([]float64, len(s.rooms))
	s.heating = make([]bool, len(s.rooms))
	for i, room := range s.rooms {
		s.scratch[i] = NewField(room.Bounds.Rows(), room.Bounds.Cols())
	}
	return s
}

func (s *stepper) coefficient(dt float64) float64 {
	return s.diffusivity * dt / (s.dx * s.dx)
}

// evaluateForcing fills the forcing array from the radiator zone mask.
// Cells outside any zone get 0.
func (s *stepper) evaluateForcing(t float64) {
	powers := make(map[int]float64, len(s.strengths))
	for zone, strength := range s.strengths {
		powers[zone] = s.forcingTerm.Power(zone, strength, t)
	}
	for i, zone := range s.zones.data {
		if zone == 0 {
			s.forcing.data[i] = 0
			continue
		}
		s.forcing.data[i] = powers[zone]
	}
}

// applyWindows writes the window temperature at t on every window
// rectangle of the global field.
func (s *stepper) applyWindows(t float64) {
	if s.window == nil {
		return
	}
	v := float64(s.window.At(t))
	for _, w := range s.windows {
		s.store.global.FillRect(w.Bounds, v)
	}
}

// applyDoors collapses every door rectangle of the global field to its
// own mean.
func (s *stepper) applyDoors() {
	for _, d := range s.doors {
		s.store.global.FillRect(d.Bounds, s.store.global.MeanRect(d.Bounds))
	}
}

func (s *stepper) updateRooms(coeff float64) error {
	if s.workers <= 1 || len(s.rooms) <= 1 {
		for i := range s.rooms {
			s.updateRoom(i, coeff)
		}
		return nil
	}
	g := errgroup.Group{}
	g.SetLimit(s.workers)
	for i := range s.rooms {
		i := i
		g.Go(func() error {
			s.updateRoom(i, coeff)
			return nil
		})
	}
	return g.Wait()
}

// updateRoom applies the thermostat cutoff, the explicit diffusion update
// on the room interior and the zero-gradient edge replication. It only
// touches the room partial and the forcing array over the room interior.
func (s *stepper) updateRoom(i int, coeff float64) {
	room := s.rooms[i]
	p := s.store.partials[i]
	interior := room.Bounds.Interior()

	if s.registry.Thermostat() == true && p.Mean() > float64(room.Target) {
		s.forcing.FillRect(interior, 0)
	}
	s.power[i] = s.forcing.SumRect(interior)

	old := s.scratch[i]
	copy(old.data, p.data)
	cols := p.cols
	for r := 1; r < p.rows-1; r++ {
		frow := (room.Bounds.RowMin + r) * s.forcing.cols
		for c := 1; c < cols-1; c++ {
			idx := r*cols + c
			laplacian := old.data[idx-cols] + old.data[idx+cols] + old.data[idx-1] + old.data[idx+1] - 4*old.data[idx]
			p.data[idx] = old.data[idx] + coeff*laplacian + s.forcing.data[frow+room.Bounds.ColMin+c]
		}
	}

	replicateEdges(p)
}

// replicateEdges copies the first and last rows, then the first and last
// columns, from their inner neighbours.
func replicateEdges(p *Field) {
	rows, cols := p.rows, p.cols
	copy(p.data[0:cols], p.data[cols:2*cols])
	copy(p.data[(rows-1)*cols:rows*cols], p.data[(rows-2)*cols:(rows-1)*cols])
	for r := 0; r < rows; r++ {
		line := p.data[r*cols : (r+1)*cols]
		line[0] = line[1]
		line[cols-1] = line[cols-2]
	}
}

func (s *stepper) logThermostat() {
	for i, room := range s.rooms {
		heating := s.power[i] > 0
		if s.observed == true && heating == s.heating[i] {
			continue
		}
		s.heating[i] = heating
		if s.observed == false {
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"room":   room.Name,
			"mean":   s.store.partials[i].Mean(),
			"target": room.Target,
			"on":     heating,
		}).Debug("radiators switched")
	}
	s.observed = true
}

// step runs the fixed sequence: forcing evaluation, window write, partial
// resync, per-room update, global resync, door averaging, partial resync,
// energy bookkeeping and clock advance.
func (s *stepper) step(state *simulationState, dt float64) error {
	coeff := s.coefficient(dt)

	s.evaluateForcing(state.time)
	s.applyWindows(state.time)
	s.store.SyncPartialFromGlobal()

	if err := s.updateRooms(coeff); err != nil {
		return err
	}

	s.store.SyncGlobalFromPartial()
	s.applyDoors()
	s.store.SyncPartialFromGlobal()

	if row, col, ok := s.store.global.FirstNonFinite(); ok == true {
		return &NumericalInstabilityError{
			Step:        state.steps,
			Time:        state.time,
			Row:         row,
			Col:         col,
			Value:       s.store.global.At(row, col),
			Coefficient: coeff,
		}
	}

	s.logThermostat()

	state.energy = append(state.energy, s.forcing.Sum())
	state.time += dt
	state.steps++
	return nil
}

func (s *stepper) roomReports() []RoomReport {
	res := make([]RoomReport, len(s.rooms))
	for i, room := range s.rooms {
		res[i] = RoomReport{
			Name:    room.Name,
			Mean:    s.store.partials[i].Mean(),
			Target:  room.Target,
			Power:   s.power[i],
			Heating: s.power[i] > 0,
		}
	}
	return res
}
