package main

import (
	"fmt"
	"io"
	"math"

	"github.com/formicidae-tracker/hestia/internal/hestia"
)

var labelGlyphs = map[hestia.Label]byte{
	hestia.LabelInterior:   '.',
	hestia.LabelWindow:     'O',
	hestia.LabelWall:       '#',
	hestia.LabelDoor:       'D',
	hestia.LabelHeatedRoom: ':',
	hestia.LabelRadiator:   'R',
}

func renderLabels(w io.Writer, m *hestia.LabelMap) error {
	line := make([]byte, m.Cols()+1)
	line[m.Cols()] = '\n'
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			g, ok := labelGlyphs[m.At(i, j)]
			if ok == false {
				g = '?'
			}
			line[j] = g
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

// shades goes from coldest to hottest.
const shades = " .:-=+*#%@"

func shade(v, low, high float64) byte {
	if math.IsNaN(v) {
		return '?'
	}
	if high <= low {
		return shades[len(shades)/2]
	}
	return shades[rampIndex(v, low, high, len(shades))]
}

func renderField(w io.Writer, f *hestia.Field, low, high float64) error {
	line := make([]byte, f.Cols()+1)
	line[f.Cols()] = '\n'
	for i := 0; i < f.Rows(); i++ {
		for j := 0; j < f.Cols(); j++ {
			line[j] = shade(f.At(i, j), low, high)
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

func legend(low, high float64) string {
	return fmt.Sprintf("%s '%s' %s", hestia.Temperature(low), shades, hestia.Temperature(high))
}
