package hestia

import (
	"fmt"
	"strings"
	"unicode"
)

// Registry holds the validated, immutable floor plan: one ordered
// collection of regions per category, each keyed by a unique name.
type Registry struct {
	grid       Grid
	thermostat bool
	regions    map[Category][]Region
	index      map[Category]map[string]int
}

// NewRegistry validates regions against grid and freezes them. Every
// failure is a *ConfigurationError naming the offending region.
func NewRegistry(grid Grid, thermostat bool, regions ...Region) (*Registry, error) {
	if grid.Rows <= 0 || grid.Cols <= 0 {
		return nil, configurationErrorf("invalid grid %s", grid)
	}
	r := &Registry{
		grid:       grid,
		thermostat: thermostat,
		regions:    make(map[Category][]Region),
		index:      make(map[Category]map[string]int),
	}
	for _, c := range Categories {
		r.index[c] = make(map[string]int)
	}

	for _, region := range regions {
		if err := r.add(region); err != nil {
			return nil, err
		}
	}

	if err := r.assignZones(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) add(region Region) error {
	wrap := func(err error) error {
		return &ConfigurationError{Category: region.Category, Region: region.Name, Err: err}
	}
	index, ok := r.index[region.Category]
	if ok == false {
		return wrap(fmt.Errorf("unknown category %d", int(region.Category)))
	}
	if len(region.Name) == 0 {
		return wrap(fmt.Errorf("empty name"))
	}
	if strings.IndexFunc(region.Name, unicode.IsSpace) >= 0 {
		return wrap(fmt.Errorf("name must not contain whitespace"))
	}
	if _, ok := index[region.Name]; ok == true {
		return wrap(fmt.Errorf("duplicated name"))
	}
	if region.Bounds.Empty() == true {
		return wrap(fmt.Errorf("degenerate bounds %s", region.Bounds))
	}
	if region.Bounds.Inside(r.grid.Bounds()) == false {
		return wrap(fmt.Errorf("%s exceeds grid %s: %w", region.Bounds, r.grid, ErrOutOfBounds))
	}
	if err := region.checkAttributes(r.thermostat); err != nil {
		return wrap(err)
	}
	for _, other := range r.regions[region.Category] {
		if other.Bounds.Overlaps(region.Bounds) {
			return wrap(fmt.Errorf("%s intersects %s '%s' %s: %w",
				region.Bounds, other.Category, other.Name, other.Bounds, ErrOverlap))
		}
	}

	index[region.Name] = len(r.regions[region.Category])
	r.regions[region.Category] = append(r.regions[region.Category], region)
	return nil
}

// assignZones gives a zone id to every radiator without one, in
// registry order, skipping ids that are explicitly used.
func (r *Registry) assignZones() error {
	used := make(map[int]string)
	for _, rad := range r.regions[Radiator] {
		if rad.Zone == 0 {
			continue
		}
		if other, ok := used[rad.Zone]; ok == true {
			return &ConfigurationError{
				Category: Radiator,
				Region:   rad.Name,
				Err:      fmt.Errorf("zone %d is already used by radiator '%s'", rad.Zone, other),
			}
		}
		used[rad.Zone] = rad.Name
	}
	next := 1
	radiators := r.regions[Radiator]
	for i := range radiators {
		if radiators[i].Zone != 0 {
			continue
		}
		for ; len(used[next]) > 0; next++ {
		}
		radiators[i].Zone = next
		used[next] = radiators[i].Name
	}
	return nil
}

func (r *Registry) Grid() Grid { return r.grid }

// Thermostat reports if rooms shut their radiators off above target.
func (r *Registry) Thermostat() bool { return r.thermostat }

func (r *Registry) category(c Category) []Region {
	res := make([]Region, len(r.regions[c]))
	copy(res, r.regions[c])
	return res
}

func (r *Registry) Rooms() []Region { return r.category(Room) }

func (r *Registry) Walls() []Region { return r.category(Wall) }

func (r *Registry) Windows() []Region { return r.category(Window) }

func (r *Registry) Doors() []Region { return r.category(Door) }

func (r *Registry) Radiators() []Region { return r.category(Radiator) }

func (r *Registry) Region(c Category, name string) (Region, bool) {
	idx, ok := r.index[c][name]
	if ok == false {
		return Region{}, false
	}
	return r.regions[c][idx], true
}

// Len returns the number of regions in category c.
func (r *Registry) Len(c Category) int {
	return len(r.regions[c])
}

// Strengths maps every radiator zone to its strength constant.
func (r *Registry) Strengths() map[int]float64 {
	res := make(map[int]float64, len(r.regions[Radiator]))
	for _, rad := range r.regions[Radiator] {
		res[rad.Zone] = rad.Strength
	}
	return res
}
