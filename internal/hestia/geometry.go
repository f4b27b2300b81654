package hestia

import "fmt"

// Grid is the extent of the simulation domain, in cells.
type Grid struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

var DefaultGrid = Grid{Rows: 100, Cols: 100}

func (g Grid) Bounds() Bounds {
	return Bounds{RowMin: 0, RowMax: g.Rows, ColMin: 0, ColMax: g.Cols}
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Cols)
}

// Bounds is an axis-aligned half-open rectangle [RowMin,RowMax) x
// [ColMin,ColMax) in grid-cell coordinates.
type Bounds struct {
	RowMin, RowMax int
	ColMin, ColMax int
}

func Rect(rowMin, rowMax, colMin, colMax int) Bounds {
	return Bounds{RowMin: rowMin, RowMax: rowMax, ColMin: colMin, ColMax: colMax}
}

func (b Bounds) Rows() int { return b.RowMax - b.RowMin }

func (b Bounds) Cols() int { return b.ColMax - b.ColMin }

func (b Bounds) Area() int { return b.Rows() * b.Cols() }

func (b Bounds) Empty() bool {
	return b.RowMin >= b.RowMax || b.ColMin >= b.ColMax
}

func (b Bounds) Contains(row, col int) bool {
	return row >= b.RowMin && row < b.RowMax && col >= b.ColMin && col < b.ColMax
}

// Inside reports if b lies fully inside o.
func (b Bounds) Inside(o Bounds) bool {
	return b.RowMin >= o.RowMin && b.RowMax <= o.RowMax &&
		b.ColMin >= o.ColMin && b.ColMax <= o.ColMax
}

func (b Bounds) Overlaps(o Bounds) bool {
	if b.Empty() || o.Empty() {
		return false
	}
	return b.RowMin < o.RowMax && o.RowMin < b.RowMax &&
		b.ColMin < o.ColMax && o.ColMin < b.ColMax
}

// Interior is b shrunk by one cell on every side. It is empty for
// rectangles thinner than three cells.
func (b Bounds) Interior() Bounds {
	return Bounds{RowMin: b.RowMin + 1, RowMax: b.RowMax - 1, ColMin: b.ColMin + 1, ColMax: b.ColMax - 1}
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%d;%d[x[%d;%d[", b.RowMin, b.RowMax, b.ColMin, b.ColMax)
}

type boundsYAML struct {
	Rows []int `yaml:"rows,flow"`
	Cols []int `yaml:"cols,flow"`
}

func (b *Bounds) UnmarshalYAML(unmarshal func(interface{}) error) error {
	shadow := boundsYAML{}
	if err := unmarshal(&shadow); err != nil {
		return err
	}
	if len(shadow.Rows) != 2 || len(shadow.Cols) != 2 {
		return fmt.Errorf("'rows' and 'cols' require exactly two values")
	}
	*b = Rect(shadow.Rows[0], shadow.Rows[1], shadow.Cols[0], shadow.Cols[1])
	return nil
}

func (b Bounds) MarshalYAML() (interface{}, error) {
	return boundsYAML{
		Rows: []int{b.RowMin, b.RowMax},
		Cols: []int{b.ColMin, b.ColMax},
	}, nil
}
