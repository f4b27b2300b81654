package hestia

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// LayoutFile is the YAML description of a floor plan and of its thermal
// parameters.
type LayoutFile struct {
	Version     string  `yaml:"version,omitempty"`
	Grid        Grid    `yaml:"grid"`
	Dx          float64 `yaml:"dx"`
	Diffusivity float64 `yaml:"diffusivity"`
	StartTime   float64 `yaml:"start-time,omitempty"`
	Thermostat  *bool   `yaml:"thermostat,omitempty"`

	WindowTemperature *ScheduleDefinition `yaml:"window-temperature,omitempty"`
	Heating           *HeatingDefinition  `yaml:"heating,omitempty"`

	Rooms     []RegionDefinition `yaml:"rooms,omitempty"`
	Walls     []RegionDefinition `yaml:"walls,omitempty"`
	Windows   []RegionDefinition `yaml:"windows,omitempty"`
	Doors     []RegionDefinition `yaml:"doors,omitempty"`
	Radiators []RegionDefinition `yaml:"radiators,omitempty"`
}

type RegionDefinition struct {
	Name     string             `yaml:"name"`
	Bounds   Bounds             `yaml:"bounds"`
	Initial  *InitialDefinition `yaml:"initial,omitempty"`
	Target   *Temperature       `yaml:"target,omitempty"`
	Heated   bool               `yaml:"heated,omitempty"`
	Zone     int                `yaml:"zone,omitempty"`
	Strength float64            `yaml:"strength,omitempty"`
}

// InitialDefinition describes a room initializer: `constant` uses Value,
// `noise` uses Base, Amplitude and Seed.
type InitialDefinition struct {
	Kind      string       `yaml:"kind"`
	Value     *Temperature `yaml:"value,omitempty"`
	Base      *Temperature `yaml:"base,omitempty"`
	Amplitude float64      `yaml:"amplitude,omitempty"`
	Seed      int64        `yaml:"seed,omitempty"`
}

// ScheduleDefinition describes the window temperature: `constant` uses
// Value, `sinusoidal` uses Base, Amplitude and Period.
type ScheduleDefinition struct {
	Kind      string       `yaml:"kind"`
	Value     *Temperature `yaml:"value,omitempty"`
	Base      *Temperature `yaml:"base,omitempty"`
	Amplitude float64      `yaml:"amplitude,omitempty"`
	Period    float64      `yaml:"period,omitempty"`
}

// HeatingDefinition describes the radiator forcing term: `radiator` or
// `none`.
type HeatingDefinition struct {
	Kind   string  `yaml:"kind"`
	Period float64 `yaml:"period,omitempty"`
	Scale  float64 `yaml:"scale,omitempty"`
}

func (d InitialDefinition) Initializer() (Initializer, error) {
	switch d.Kind {
	case "constant":
		if d.Value == nil {
			return nil, fmt.Errorf("constant initial temperature requires 'value'")
		}
		return ConstantInitializer(*d.Value), nil
	case "noise":
		if d.Base == nil {
			return nil, fmt.Errorf("noise initial temperature requires 'base'")
		}
		res := NoiseInitializer{Base: *d.Base, Amplitude: d.Amplitude, Seed: d.Seed}
		return res, res.Validate()
	default:
		return nil, fmt.Errorf("unknown initial temperature kind '%s'", d.Kind)
	}
}

func (d ScheduleDefinition) Schedule() (Schedule, error) {
	switch d.Kind {
	case "constant":
		if d.Value == nil {
			return nil, fmt.Errorf("constant schedule requires 'value'")
		}
		return ConstantSchedule(*d.Value), nil
	case "sinusoidal":
		if d.Base == nil {
			return nil, fmt.Errorf("sinusoidal schedule requires 'base'")
		}
		res := SinusoidalSchedule{Base: *d.Base, Amplitude: d.Amplitude, Period: d.Period}
		return res, res.Validate()
	default:
		return nil, fmt.Errorf("unknown schedule kind '%s'", d.Kind)
	}
}

func (d HeatingDefinition) ForcingTerm() (ForcingTerm, error) {
	switch d.Kind {
	case "none", "":
		return NoForcing, nil
	case "radiator":
		res := RadiatorSchedule{Period: d.Period, Scale: d.Scale}
		return res, res.Validate()
	default:
		return nil, fmt.Errorf("unknown heating kind '%s'", d.Kind)
	}
}

func (d RegionDefinition) region(c Category) (Region, error) {
	res := Region{
		Name:     d.Name,
		Category: c,
		Bounds:   d.Bounds,
		Target:   UndefinedTemperature,
		Heated:   d.Heated,
		Zone:     d.Zone,
		Strength: d.Strength,
	}
	if d.Target != nil {
		res.Target = *d.Target
	}
	if d.Initial != nil {
		var err error
		res.Initial, err = d.Initial.Initializer()
		if err != nil {
			return res, &ConfigurationError{Category: c, Region: d.Name, Err: err}
		}
	}
	return res, nil
}

func (f LayoutFile) definitions() map[Category][]RegionDefinition {
	return map[Category][]RegionDefinition{
		Room:     f.Rooms,
		Window:   f.Windows,
		Wall:     f.Walls,
		Door:     f.Doors,
		Radiator: f.Radiators,
	}
}

// Regions converts every region definition, in rasterization order.
func (f LayoutFile) Regions() ([]Region, error) {
	var res []Region
	defs := f.definitions()
	for _, c := range Categories {
		for _, d := range defs[c] {
			r, err := d.region(c)
			if err != nil {
				return nil, err
			}
			res = append(res, r)
		}
	}
	return res, nil
}

// Config builds a model configuration from the file. logger may be nil.
func (f LayoutFile) Config(logger *logrus.Entry) (Config, error) {
	if err := checkLayoutVersion(f.Version); err != nil {
		return Config{}, err
	}

	regions, err := f.Regions()
	if err != nil {
		return Config{}, err
	}

	c := Config{
		Grid:        f.Grid,
		Regions:     regions,
		Diffusivity: f.Diffusivity,
		Dx:          f.Dx,
		StartTime:   f.StartTime,
		Forcing:     NoForcing,
		Logger:      logger,
	}
	if f.Thermostat != nil {
		c.DisableThermostat = !*f.Thermostat
	}
	if f.WindowTemperature != nil {
		c.WindowTemperature, err = f.WindowTemperature.Schedule()
		if err != nil {
			return Config{}, configurationErrorf("window-temperature: %s", err)
		}
	}
	if f.Heating != nil {
		c.Forcing, err = f.Heating.ForcingTerm()
		if err != nil {
			return Config{}, configurationErrorf("heating: %s", err)
		}
	}
	return c, nil
}

type deprecatedLine struct {
	name, comment string
	isError       bool
}

var deprecatedRegionKeys = map[string]deprecatedLine{
	"rowmin":      {comment: "use 'bounds.rows'", isError: true},
	"rowmax":      {comment: "use 'bounds.rows'", isError: true},
	"colmin":      {comment: "use 'bounds.cols'", isError: true},
	"colmax":      {comment: "use 'bounds.cols'", isError: true},
	"init_func":   {comment: "code values are not supported, use 'initial'", isError: true},
	"temp":        {comment: "use 'target'", isError: true},
	"mask_values": {comment: "value ignored, zones are assigned in order or with 'zone'", isError: false},
}

var deprecatedTopLevelKeys = map[string]deprecatedLine{
	"mask":         {comment: "value ignored, use 'heated' on rooms", isError: false},
	"current_time": {comment: "use 'start-time'", isError: true},
	"current-time": {comment: "use 'start-time'", isError: true},
	"domain":       {comment: "use 'grid' and 'dx'", isError: true},
	"diffusion":    {comment: "use 'diffusivity'", isError: true},
	"force_term":   {comment: "code values are not supported, use 'heating'", isError: true},
	"window_temp":  {comment: "code values are not supported, use 'window-temperature'", isError: true},
}

func checkDeprecatedLinesInRegion(prefix string, items yaml.MapSlice) []deprecatedLine {
	var res []deprecatedLine = nil
	for _, item := range items {
		key := fmt.Sprint(item.Key)
		if l, ok := deprecatedRegionKeys[key]; ok == true {
			l.name = prefix + "." + key
			res = append(res, l)
		}
	}
	return res
}

func checkDeprecatedLinesInCategory(category string, value interface{}) []deprecatedLine {
	var res []deprecatedLine = nil
	switch v := value.(type) {
	case yaml.MapSlice:
		res = append(res, deprecatedLine{
			name:    category,
			comment: "a mapping of regions is not supported, use a list of regions with a 'name'",
			isError: true,
		})
		for _, item := range v {
			if items, ok := item.Value.(yaml.MapSlice); ok == true {
				res = append(res, checkDeprecatedLinesInRegion(category+"."+fmt.Sprint(item.Key), items)...)
			}
		}
	case []interface{}:
		for i, item := range v {
			items, ok := item.(yaml.MapSlice)
			if ok == false {
				continue
			}
			name := fmt.Sprintf("%s[%d]", category, i)
			for _, kv := range items {
				if fmt.Sprint(kv.Key) == "name" {
					name = category + "." + fmt.Sprint(kv.Value)
				}
			}
			res = append(res, checkDeprecatedLinesInRegion(name, items)...)
		}
	}
	return res
}

func checkDeprecatedLines(data []byte) ([]deprecatedLine, error) {
	parsed := yaml.MapSlice{}
	err := yaml.Unmarshal(data, &parsed)
	if err != nil {
		return nil, err
	}
	var res []deprecatedLine = nil

	for _, item := range parsed {
		key := fmt.Sprint(item.Key)
		if l, ok := deprecatedTopLevelKeys[key]; ok == true {
			l.name = key
			res = append(res, l)
			continue
		}
		if _, err := ParseCategory(key); err == nil {
			res = append(res, checkDeprecatedLinesInCategory(key, item.Value)...)
		}
	}

	return res, nil
}

func formatDeprecatedLines(lines []deprecatedLine, writer io.Writer) error {
	var errs []error
	for _, l := range lines {
		if l.isError == true {
			errs = append(errs, fmt.Errorf("%s is deprecated: %s", l.name, l.comment))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid layout file: %w", errors.Join(errs...))
	}

	if writer == nil {
		return nil
	}

	log := logrus.New()
	log.SetOutput(writer)

	for _, l := range lines {
		log.WithFields(logrus.Fields{
			"field":   l.name,
			"comment": l.comment,
		}).Warn("deprecated field")
	}

	return nil
}

func ParseLayoutFile(content []byte) (*LayoutFile, error) {
	f := &LayoutFile{}

	err := yaml.Unmarshal(content, f)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// ReadLayoutFile reads and parses filename. Deprecated fields are
// reported as warnings on writer, or fail the read when they cannot be
// honored.
func ReadLayoutFile(filename string, writer io.Writer) (*LayoutFile, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	lines, err := checkDeprecatedLines(data)
	if err != nil {
		return nil, err
	}
	if err := formatDeprecatedLines(lines, writer); err != nil {
		return nil, err
	}

	return ParseLayoutFile(data)
}

func (f LayoutFile) WriteFile(filename string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, data, 0644)
}
