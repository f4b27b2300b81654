package hestia

//go:generate mockgen -source=observer.go -destination=mock_step_observer_test.go -package=hestia

import "time"

// RoomReport is the state of a room at the end of a step.
type RoomReport struct {
	Name   string
	Mean   float64
	Target Temperature
	// Power is the forcing applied to the room interior during the step.
	Power   float64
	Heating bool
}

type StepReport struct {
	Index      int
	Time       float64
	Energy     float64
	Cumulative float64
	Duration   time.Duration
	Rooms      []RoomReport
}

// StepObserver is notified synchronously after every successful step.
type StepObserver interface {
	ObserveStep(r StepReport)
}

type StepObserverFunc func(r StepReport)

func (fn StepObserverFunc) ObserveStep(r StepReport) { fn(r) }

func cumulative(raw []float64) []float64 {
	res := make([]float64, len(raw))
	sum := 0.0
	for i, v := range raw {
		sum += v
		res[i] = sum
	}
	return res
}
