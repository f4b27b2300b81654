package hestia

import (
	"gopkg.in/yaml.v2"
	. "gopkg.in/check.v1"
)

type UnitsSuite struct{}

var _ = Suite(&UnitsSuite{})

func (s *UnitsSuite) TestParseTemperature(c *C) {
	testdata := []struct {
		Input    string
		Expected float64
	}{
		{"296", 296.0},
		{"296.15K", 296.15},
		{" 300 K ", 300.0},
		{"23°C", 296.15},
		{"-5C", 268.15},
		{"0C", 273.15},
		{"-273.15°C", 0.0},
		{"0K", 0.0},
	}

	for _, d := range testdata {
		t, err := ParseTemperature(d.Input)
		if c.Check(err, IsNil, Commentf("input: '%s'", d.Input)) == false {
			continue
		}
		c.Check(t.Value(), IsCloseTo, d.Expected, 1e-9, Commentf("input: '%s'", d.Input))
	}
}

func (s *UnitsSuite) TestParseTemperatureErrors(c *C) {
	testdata := []struct {
		Input   string
		Message string
	}{
		{"", "empty temperature"},
		{"abc", "invalid temperature 'abc': .*"},
		{"12F", "invalid temperature '12F': .*"},
		{"-3", "invalid temperature -3K: below absolute zero"},
		{"-300°C", "invalid temperature -300°C: below absolute zero"},
		{"-273.2C", "invalid temperature -273.2°C: below absolute zero"},
	}

	for _, d := range testdata {
		t, err := ParseTemperature(d.Input)
		c.Check(err, ErrorMatches, d.Message, Commentf("input: '%s'", d.Input))
		c.Check(t.IsUndefined(), Equals, true)
	}
}

func (s *UnitsSuite) TestFormatting(c *C) {
	c.Check(UndefinedTemperature.String(), Equals, "undefined")
	c.Check(Temperature(296.15).String(), Equals, "296.15K")
	c.Check(Celsius(21).Celsius(), IsCloseTo, 21.0, 1e-9)
	c.Check(Temperature(0).IsUndefined(), Equals, false)
}

func (s *UnitsSuite) TestYAML(c *C) {
	var v struct {
		T *Temperature `yaml:"t"`
		U *Temperature `yaml:"u,omitempty"`
	}
	c.Assert(yaml.Unmarshal([]byte("t: 21°C\n"), &v), IsNil)
	c.Assert(v.T, Not(IsNil))
	c.Check(*v.T, IsCloseTo, 294.15, 1e-9)
	c.Check(v.U, IsNil)

	c.Check(yaml.Unmarshal([]byte("t: hot\n"), &v), ErrorMatches, "invalid temperature 'hot': .*")

	out, err := yaml.Marshal(struct {
		T Temperature `yaml:"t"`
		U Temperature `yaml:"u"`
	}{T: 296, U: UndefinedTemperature})
	c.Check(err, IsNil)
	c.Check(string(out), Equals, "t: 296\nu: null\n")
}
