package hestia

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const celsiusOffset = 273.15

// Temperature is an absolute temperature in Kelvin.
type Temperature float64

var UndefinedTemperature = Temperature(math.Inf(-1))

func Celsius(c float64) Temperature {
	return Temperature(c + celsiusOffset)
}

func (t Temperature) Value() float64 { return float64(t) }

func (t Temperature) Celsius() float64 { return float64(t) - celsiusOffset }

func (t Temperature) IsUndefined() bool {
	return math.IsInf(float64(t), -1)
}

func (t Temperature) String() string {
	if t.IsUndefined() {
		return "undefined"
	}
	return fmt.Sprintf("%.2fK", float64(t))
}

// ParseTemperature accepts a bare number (Kelvin), a number suffixed by
// `K`, or a number suffixed by `°C` / `C`.
func ParseTemperature(s string) (Temperature, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return UndefinedTemperature, fmt.Errorf("empty temperature")
	}
	celsius := false
	switch {
	case strings.HasSuffix(s, "°C"):
		s, celsius = strings.TrimSuffix(s, "°C"), true
	case strings.HasSuffix(s, "C"):
		s, celsius = strings.TrimSuffix(s, "C"), true
	case strings.HasSuffix(s, "K"):
		s = strings.TrimSuffix(s, "K")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return UndefinedTemperature, fmt.Errorf("invalid temperature '%s': %w", s, err)
	}
	res, unit := Temperature(v), "K"
	if celsius == true {
		res, unit = Celsius(v), "°C"
	}
	if res < 0 {
		return UndefinedTemperature, fmt.Errorf("invalid temperature %g%s: below absolute zero", v, unit)
	}
	return res, nil
}

func (t *Temperature) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var asString string
	if err := unmarshal(&asString); err != nil {
		return err
	}
	res, err := ParseTemperature(asString)
	if err != nil {
		return err
	}
	*t = res
	return nil
}

func (t Temperature) MarshalYAML() (interface{}, error) {
	if t.IsUndefined() {
		return nil, nil
	}
	return float64(t), nil
}
