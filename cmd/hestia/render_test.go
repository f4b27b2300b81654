package main

import (
	"bytes"
	"math"

	"github.com/formicidae-tracker/hestia/internal/hestia"
	. "gopkg.in/check.v1"
)

type RenderSuite struct{}

var _ = Suite(&RenderSuite{})

func (s *RenderSuite) TestRampIndex(c *C) {
	testdata := []struct {
		V, Low, High float64
		Expected     int
	}{
		{280, 280, 300, 0},
		{289.9, 280, 300, 4},
		{290, 280, 300, 5},
		{299.99, 280, 300, 9},
		{300, 280, 300, 9},
		{250, 280, 300, 0},
		{1e300, 280, 300, 9},
		{math.Inf(-1), 280, 300, 0},
	}
	for _, d := range testdata {
		c.Check(rampIndex(d.V, d.Low, d.High, 10), Equals, d.Expected, Commentf("%+v", d))
	}
	c.Check(rampIndex(float32(0.5), 0, 1, 4), Equals, 2)
}

func (s *RenderSuite) TestLabels(c *C) {
	heated := hestia.NewRoom("A", hestia.Rect(0, 4, 0, 5), hestia.ConstantInitializer(300), 296)
	heated.Heated = true
	r, err := hestia.NewRegistry(hestia.Grid{Rows: 4, Cols: 8}, true,
		heated,
		hestia.NewRoom("B", hestia.Rect(0, 4, 5, 8), hestia.ConstantInitializer(300), 296),
		hestia.NewWall("W1", hestia.Rect(0, 1, 0, 8)),
		hestia.NewWindow("O1", hestia.Rect(0, 1, 1, 3)),
		hestia.NewDoor("D1", hestia.Rect(1, 3, 4, 6)),
		hestia.NewRadiator("R1", hestia.Rect(3, 4, 1, 3), 0, 0),
	)
	c.Assert(err, IsNil)
	labels, _ := hestia.Rasterize(r)

	buffer := bytes.NewBuffer(nil)
	c.Assert(renderLabels(buffer, labels), IsNil)
	c.Check(buffer.String(), Equals, `########
::::DD..
::::DD..
:RR::...
`)
}

func (s *RenderSuite) TestShades(c *C) {
	c.Check(shade(280, 280, 300), Equals, byte(' '))
	c.Check(shade(300, 280, 300), Equals, byte('@'))
	c.Check(shade(310, 280, 300), Equals, byte('@'))
	c.Check(shade(250, 280, 300), Equals, byte(' '))
	c.Check(shade(290, 280, 300), Equals, byte('+'))
	c.Check(shade(290, 290, 290), Equals, byte('+'))
	c.Check(shade(math.NaN(), 280, 300), Equals, byte('?'))

	f, err := hestia.NewFieldFromRows([][]float64{{280, 290, 300}})
	c.Assert(err, IsNil)
	buffer := bytes.NewBuffer(nil)
	c.Assert(renderField(buffer, f, 280, 300), IsNil)
	c.Check(buffer.String(), Equals, " +@\n")
	c.Check(legend(280, 300), Equals, "280.00K ' .:-=+*#%@' 300.00K")
}
