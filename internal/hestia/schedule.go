package hestia

import (
	"fmt"
	"math"
)

// Schedule gives the window temperature at simulation time t, in seconds.
type Schedule interface {
	At(t float64) Temperature
	String() string
}

// validator is implemented by strategies whose parameters can be
// checked before the first step.
type validator interface {
	Validate() error
}

func validate(strategy interface{}) error {
	if v, ok := strategy.(validator); ok == true {
		return v.Validate()
	}
	return nil
}

func finite(v float64) bool {
	return math.IsNaN(v) == false && math.IsInf(v, 0) == false
}

func validateTemperature(t Temperature) error {
	if finite(float64(t)) == false || t < 0 {
		return fmt.Errorf("invalid temperature %s", t)
	}
	return nil
}

type ConstantSchedule Temperature

func (s ConstantSchedule) At(float64) Temperature {
	return Temperature(s)
}

func (s ConstantSchedule) String() string {
	return fmt.Sprintf("constant %s", Temperature(s))
}

func (s ConstantSchedule) Validate() error {
	return validateTemperature(Temperature(s))
}

// SinusoidalSchedule is Base - Amplitude*sin(2πt/Period).
type SinusoidalSchedule struct {
	Base      Temperature
	Amplitude float64
	Period    float64
}

func (s SinusoidalSchedule) At(t float64) Temperature {
	return s.Base - Temperature(s.Amplitude*math.Sin(2*math.Pi*t/s.Period))
}

func (s SinusoidalSchedule) String() string {
	return fmt.Sprintf("%s - %g*sin(2πt/%gs)", s.Base, s.Amplitude, s.Period)
}

func (s SinusoidalSchedule) Validate() error {
	if err := validateTemperature(s.Base); err != nil {
		return err
	}
	if finite(s.Amplitude) == false {
		return fmt.Errorf("invalid sinusoidal amplitude %g", s.Amplitude)
	}
	if finite(s.Period) == false || s.Period <= 0 {
		return fmt.Errorf("invalid sinusoidal period %g", s.Period)
	}
	return nil
}

type ScheduleFunc func(t float64) Temperature

func (fn ScheduleFunc) At(t float64) Temperature { return fn(t) }

func (fn ScheduleFunc) String() string { return "custom" }

// ForcingTerm is the power injected per cell of a radiator zone at time
// t. strength is the zone's configured constant.
type ForcingTerm interface {
	Power(zone int, strength, t float64) float64
	String() string
}

// RadiatorSchedule is (sin²(2πt/Period) + strength) / Scale, a diurnal
// heating profile shifted per zone.
type RadiatorSchedule struct {
	Period float64
	Scale  float64
}

func (s RadiatorSchedule) Power(zone int, strength, t float64) float64 {
	if zone == 0 {
		return 0
	}
	sin := math.Sin(2 * math.Pi * t / s.Period)
	return (sin*sin + strength) / s.Scale
}

func (s RadiatorSchedule) String() string {
	return fmt.Sprintf("(sin²(2πt/%gs) + k)/%g", s.Period, s.Scale)
}

func (s RadiatorSchedule) Validate() error {
	if finite(s.Period) == false || s.Period <= 0 {
		return fmt.Errorf("invalid heating period %g", s.Period)
	}
	if s.Scale == 0 {
		return fmt.Errorf("heating scale must not be zero")
	}
	if finite(s.Scale) == false {
		return fmt.Errorf("invalid heating scale %g", s.Scale)
	}
	return nil
}

type ForcingFunc func(zone int, strength, t float64) float64

func (fn ForcingFunc) Power(zone int, strength, t float64) float64 {
	if zone == 0 {
		return 0
	}
	return fn(zone, strength, t)
}

func (fn ForcingFunc) String() string { return "custom" }

type noForcing struct{}

func (noForcing) Power(int, float64, float64) float64 { return 0 }

func (noForcing) String() string { return "none" }

// NoForcing injects no power anywhere.
var NoForcing ForcingTerm = noForcing{}
