package hestia

import (
	"fmt"
	"math/rand"
)

// Initializer produces the initial temperature of a room. It receives a
// field shaped like the room, indexed in room-local coordinates.
type Initializer interface {
	Initialize(local *Field)
	String() string
}

type ConstantInitializer Temperature

func (c ConstantInitializer) Initialize(local *Field) {
	local.Fill(float64(c))
}

func (c ConstantInitializer) String() string {
	return fmt.Sprintf("constant %s", Temperature(c))
}

func (c ConstantInitializer) Validate() error {
	return validateTemperature(Temperature(c))
}

// NoiseInitializer fills a room with Base plus a uniform draw in
// [0,Amplitude). A given Seed always yields the same field.
type NoiseInitializer struct {
	Base      Temperature
	Amplitude float64
	Seed      int64
}

func (n NoiseInitializer) Initialize(local *Field) {
	rng := rand.New(rand.NewSource(n.Seed))
	for i := range local.data {
		local.data[i] = float64(n.Base) + n.Amplitude*rng.Float64()
	}
}

func (n NoiseInitializer) Validate() error {
	if err := validateTemperature(n.Base); err != nil {
		return err
	}
	if finite(n.Amplitude) == false || n.Amplitude < 0 {
		return fmt.Errorf("invalid noise amplitude %g", n.Amplitude)
	}
	return nil
}

func (n NoiseInitializer) String() string {
	return fmt.Sprintf("noise %s + U[0;%g[ (seed %d)", n.Base, n.Amplitude, n.Seed)
}

// InitializerFunc evaluates a function on every room-local cell.
type InitializerFunc func(row, col int) float64

func (fn InitializerFunc) Initialize(local *Field) {
	for i := 0; i < local.rows; i++ {
		for j := 0; j < local.cols; j++ {
			local.data[i*local.cols+j] = fn(i, j)
		}
	}
}

func (fn InitializerFunc) String() string {
	return "custom"
}
