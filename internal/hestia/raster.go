package hestia

// Label is the structural category code painted in the apartment map.
type Label uint8

const (
	LabelInterior   Label = 0
	LabelWindow     Label = 1
	LabelWall       Label = 2
	LabelDoor       Label = 3
	LabelHeatedRoom Label = 4
	LabelRadiator   Label = 5
)

func (l Label) String() string {
	switch l {
	case LabelInterior:
		return "interior"
	case LabelWindow:
		return "window"
	case LabelWall:
		return "wall"
	case LabelDoor:
		return "door"
	case LabelHeatedRoom:
		return "heated-room"
	case LabelRadiator:
		return "radiator"
	default:
		return "unknown"
	}
}

var categoryLabels = map[Category]Label{
	Window:   LabelWindow,
	Wall:     LabelWall,
	Door:     LabelDoor,
	Radiator: LabelRadiator,
}

// LabelMap is the immutable apartment map, stored in row-major order.
type LabelMap struct {
	rows, cols int
	data       []Label
}

func newLabelMap(g Grid) *LabelMap {
	return &LabelMap{rows: g.Rows, cols: g.Cols, data: make([]Label, g.Rows*g.Cols)}
}

func (m *LabelMap) Rows() int { return m.rows }

func (m *LabelMap) Cols() int { return m.cols }

func (m *LabelMap) At(row, col int) Label { return m.data[row*m.cols+col] }

func (m *LabelMap) paint(b Bounds, l Label) {
	for i := b.RowMin; i < b.RowMax; i++ {
		line := m.data[i*m.cols : (i+1)*m.cols]
		for j := b.ColMin; j < b.ColMax; j++ {
			line[j] = l
		}
	}
}

// Count returns the number of cells labeled l.
func (m *LabelMap) Count(l Label) int {
	res := 0
	for _, v := range m.data {
		if v == l {
			res++
		}
	}
	return res
}

// Rows2D returns a copy of the map as a slice of rows.
func (m *LabelMap) Rows2D() [][]Label {
	res := make([][]Label, m.rows)
	for i := range res {
		res[i] = make([]Label, m.cols)
		copy(res[i], m.data[i*m.cols:(i+1)*m.cols])
	}
	return res
}

// ZoneMask maps every cell to the radiator zone covering it, 0 meaning
// no radiator.
type ZoneMask struct {
	rows, cols int
	data       []int
}

func newZoneMask(g Grid) *ZoneMask {
	return &ZoneMask{rows: g.Rows, cols: g.Cols, data: make([]int, g.Rows*g.Cols)}
}

func (m *ZoneMask) Rows() int { return m.rows }

func (m *ZoneMask) Cols() int { return m.cols }

func (m *ZoneMask) At(row, col int) int { return m.data[row*m.cols+col] }

// Cells returns the number of cells covered by zone.
func (m *ZoneMask) Cells(zone int) int {
	res := 0
	for _, v := range m.data {
		if v == zone {
			res++
		}
	}
	return res
}

func (m *ZoneMask) Rows2D() [][]int {
	res := make([][]int, m.rows)
	for i := range res {
		res[i] = make([]int, m.cols)
		copy(res[i], m.data[i*m.cols:(i+1)*m.cols])
	}
	return res
}

// Rasterize paints rooms, then windows, walls, doors and radiators, each
// category overwriting the previous ones where they share cells.
func Rasterize(r *Registry) (*LabelMap, *ZoneMask) {
	labels := newLabelMap(r.Grid())
	zones := newZoneMask(r.Grid())

	for _, c := range Categories {
		for _, region := range r.regions[c] {
			l := categoryLabels[c]
			if c == Room {
				l = LabelInterior
				if region.Heated == true {
					l = LabelHeatedRoom
				}
			}
			labels.paint(region.Bounds, l)
		}
	}

	for _, rad := range r.regions[Radiator] {
		b := rad.Bounds
		for i := b.RowMin; i < b.RowMax; i++ {
			for j := b.ColMin; j < b.ColMax; j++ {
				zones.data[i*zones.cols+j] = rad.Zone
			}
		}
	}

	return labels, zones
}
