package hestia

import "fmt"

// FieldStore owns the global temperature field and one partial field per
// room. Partials are scratch copies of their room rectangle, never views
// on the global field: they only change through the two sync methods or
// the stepper.
type FieldStore struct {
	registry *Registry
	global   *Field
	partials []*Field
	rooms    []Region
}

func NewFieldStore(r *Registry) *FieldStore {
	s := &FieldStore{
		registry: r,
		global:   NewField(r.Grid().Rows, r.Grid().Cols),
		rooms:    r.Rooms(),
	}
	s.partials = make([]*Field, len(s.rooms))
	for i, room := range s.rooms {
		s.partials[i] = NewField(room.Bounds.Rows(), room.Bounds.Cols())
	}
	return s
}

// Initialize evaluates every room initializer over the room-local grid
// and writes the result into the global field.
func (s *FieldStore) Initialize() {
	for i, room := range s.rooms {
		room.Initial.Initialize(s.partials[i])
		s.global.Paste(room.Bounds, s.partials[i])
	}
}

// SyncPartialFromGlobal refreshes every partial from the global field,
// picking up boundary writes made directly on it.
func (s *FieldStore) SyncPartialFromGlobal() {
	for i, room := range s.rooms {
		s.global.Extract(room.Bounds, s.partials[i])
	}
}

// SyncGlobalFromPartial writes every partial back into the global field.
func (s *FieldStore) SyncGlobalFromPartial() {
	for i, room := range s.rooms {
		s.global.Paste(room.Bounds, s.partials[i])
	}
}

// Global returns the authoritative field. Callers outside the stepper
// must not modify it.
func (s *FieldStore) Global() *Field { return s.global }

func (s *FieldStore) Partial(name string) (*Field, error) {
	for i, room := range s.rooms {
		if room.Name == name {
			return s.partials[i], nil
		}
	}
	return nil, fmt.Errorf("%w '%s'", ErrUnknownRoom, name)
}

// Consistent reports if every partial equals its rectangle of the global
// field.
func (s *FieldStore) Consistent() bool {
	for i, room := range s.rooms {
		p := s.partials[i]
		for r := 0; r < p.rows; r++ {
			for c := 0; c < p.cols; c++ {
				if p.At(r, c) != s.global.At(room.Bounds.RowMin+r, room.Bounds.ColMin+c) {
					return false
				}
			}
		}
	}
	return true
}
