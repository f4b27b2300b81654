package hestia

import (
	"fmt"
	"math"
)

// Field is a dense row-major grid of temperatures in Kelvin.
type Field struct {
	rows, cols int
	data       []float64
}

func NewField(rows, cols int) *Field {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Field{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// NewFieldFromRows copies rows into a new Field. All rows must have the
// same length.
func NewFieldFromRows(rows [][]float64) (*Field, error) {
	if len(rows) == 0 {
		return NewField(0, 0), nil
	}
	f := NewField(len(rows), len(rows[0]))
	for i, r := range rows {
		if len(r) != f.cols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(r), f.cols)
		}
		copy(f.data[i*f.cols:], r)
	}
	return f, nil
}

func (f *Field) Rows() int { return f.rows }

func (f *Field) Cols() int { return f.cols }

func (f *Field) Index(row, col int) int { return row*f.cols + col }

func (f *Field) At(row, col int) float64 { return f.data[row*f.cols+col] }

func (f *Field) Set(row, col int, v float64) { f.data[row*f.cols+col] = v }

// Cells exposes the backing slice.
func (f *Field) Cells() []float64 { return f.data }

func (f *Field) Fill(v float64) {
	for i := range f.data {
		f.data[i] = v
	}
}

func (f *Field) FillRect(b Bounds, v float64) {
	for i := b.RowMin; i < b.RowMax; i++ {
		line := f.data[i*f.cols : (i+1)*f.cols]
		for j := b.ColMin; j < b.ColMax; j++ {
			line[j] = v
		}
	}
}

func (f *Field) Sum() float64 {
	res := 0.0
	for _, v := range f.data {
		res += v
	}
	return res
}

func (f *Field) SumRect(b Bounds) float64 {
	res := 0.0
	for i := b.RowMin; i < b.RowMax; i++ {
		for _, v := range f.data[i*f.cols+b.ColMin : i*f.cols+b.ColMax] {
			res += v
		}
	}
	return res
}

func (f *Field) Mean() float64 {
	if len(f.data) == 0 {
		return math.NaN()
	}
	return f.Sum() / float64(len(f.data))
}

func (f *Field) MeanRect(b Bounds) float64 {
	if b.Empty() {
		return math.NaN()
	}
	return f.SumRect(b) / float64(b.Area())
}

func (f *Field) MinMax() (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range f.data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// FirstNonFinite returns the position of the first NaN or infinite
// cell, if any.
func (f *Field) FirstNonFinite() (int, int, bool) {
	for idx, v := range f.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return idx / f.cols, idx % f.cols, true
		}
	}
	return -1, -1, false
}

func (f *Field) Clone() *Field {
	res := &Field{rows: f.rows, cols: f.cols, data: make([]float64, len(f.data))}
	copy(res.data, f.data)
	return res
}

func (f *Field) CopyFrom(o *Field) error {
	if f.rows != o.rows || f.cols != o.cols {
		return fmt.Errorf("shape mismatch %dx%d != %dx%d", f.rows, f.cols, o.rows, o.cols)
	}
	copy(f.data, o.data)
	return nil
}

// Extract copies the rectangle b of f into dst, whose shape must match b.
func (f *Field) Extract(b Bounds, dst *Field) {
	for i := 0; i < b.Rows(); i++ {
		src := (b.RowMin+i)*f.cols + b.ColMin
		copy(dst.data[i*dst.cols:(i+1)*dst.cols], f.data[src:src+b.Cols()])
	}
}

// Paste writes src, whose shape must match b, into the rectangle b of f.
func (f *Field) Paste(b Bounds, src *Field) {
	for i := 0; i < b.Rows(); i++ {
		dst := (b.RowMin+i)*f.cols + b.ColMin
		copy(f.data[dst:dst+b.Cols()], src.data[i*src.cols:(i+1)*src.cols])
	}
}

func (f *Field) Rows2D() [][]float64 {
	res := make([][]float64, f.rows)
	for i := range res {
		res[i] = make([]float64, f.cols)
		copy(res[i], f.data[i*f.cols:(i+1)*f.cols])
	}
	return res
}
