package hestia

import (
	"fmt"
	"strings"
)

type Category int

const (
	Room Category = iota
	Window
	Wall
	Door
	Radiator
)

// Categories lists every category in rasterization order.
var Categories = []Category{Room, Window, Wall, Door, Radiator}

func (c Category) String() string {
	switch c {
	case Room:
		return "room"
	case Window:
		return "window"
	case Wall:
		return "wall"
	case Door:
		return "door"
	case Radiator:
		return "radiator"
	default:
		return fmt.Sprintf("<unknown category %d>", int(c))
	}
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		name := c.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name+"s") {
			return c, nil
		}
	}
	return Room, fmt.Errorf("unknown region category '%s'", s)
}

// Region is a named rectangle of the floor plan. Initial, Target and
// Heated only apply to rooms, Zone and Strength only to radiators.
type Region struct {
	Name     string
	Category Category
	Bounds   Bounds

	Initial Initializer
	Target  Temperature
	Heated  bool

	Zone     int
	Strength float64
}

func NewRoom(name string, b Bounds, initial Initializer, target Temperature) Region {
	return Region{Name: name, Category: Room, Bounds: b, Initial: initial, Target: target}
}

func NewWall(name string, b Bounds) Region {
	return Region{Name: name, Category: Wall, Bounds: b, Target: UndefinedTemperature}
}

func NewWindow(name string, b Bounds) Region {
	return Region{Name: name, Category: Window, Bounds: b, Target: UndefinedTemperature}
}

func NewDoor(name string, b Bounds) Region {
	return Region{Name: name, Category: Door, Bounds: b, Target: UndefinedTemperature}
}

// NewRadiator creates a radiator region. A zero zone asks the registry to
// assign one.
func NewRadiator(name string, b Bounds, zone int, strength float64) Region {
	return Region{Name: name, Category: Radiator, Bounds: b, Zone: zone, Strength: strength, Target: UndefinedTemperature}
}

func (r Region) String() string {
	return fmt.Sprintf("%s '%s' %s", r.Category, r.Name, r.Bounds)
}

func (r Region) checkAttributes(thermostat bool) error {
	if r.Category != Room {
		if r.Initial != nil {
			return fmt.Errorf("initial temperature is only allowed for rooms")
		}
		if r.Target != 0 && r.Target.IsUndefined() == false {
			return fmt.Errorf("target temperature is only allowed for rooms")
		}
		if r.Heated == true {
			return fmt.Errorf("heated marking is only allowed for rooms")
		}
	}
	if r.Category != Radiator && (r.Zone != 0 || r.Strength != 0) {
		return fmt.Errorf("zone and strength are only allowed for radiators")
	}

	switch r.Category {
	case Room:
		if r.Bounds.Rows() < 3 || r.Bounds.Cols() < 3 {
			return fmt.Errorf("room %s is smaller than 3x3 and has no interior", r.Bounds)
		}
		if r.Initial == nil {
			return fmt.Errorf("missing initial temperature")
		}
		if err := validate(r.Initial); err != nil {
			return err
		}
		if thermostat == true && (r.Target.IsUndefined() || r.Target == 0) {
			return fmt.Errorf("missing target temperature")
		}
	case Radiator:
		if r.Zone < 0 {
			return fmt.Errorf("invalid zone %d", r.Zone)
		}
	}
	return nil
}
