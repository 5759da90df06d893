package floorplan

import "github.com/yeremiapane/floorplan-admin/models"

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	}
	return "idle"
}

// PositionChange is a move or rotation that has not been committed yet.
type PositionChange struct {
	X        float64
	Y        float64
	Rotation *int
}

func (p PositionChange) equal(o PositionChange) bool {
	if p.X != o.X || p.Y != o.Y {
		return false
	}
	if p.Rotation == nil || o.Rotation == nil {
		return p.Rotation == o.Rotation
	}
	return *p.Rotation == *o.Rotation
}

func (p PositionChange) clone() PositionChange {
	if p.Rotation != nil {
		r := *p.Rotation
		p.Rotation = &r
	}
	return p
}

// session is everything the editor holds for one selected zone. A zone switch
// replaces the whole session.
type session struct {
	zone     models.Zone
	state    State
	order    []string
	tables   map[string]*Table
	pending  map[string]PositionChange
	selected string
}

func newSession(zone models.Zone) *session {
	return &session{
		zone:    zone,
		state:   StateLoading,
		tables:  make(map[string]*Table),
		pending: make(map[string]PositionChange),
	}
}

func (s *session) replaceTables(tables []Table) {
	s.order = s.order[:0]
	s.tables = make(map[string]*Table, len(tables))
	s.pending = make(map[string]PositionChange)
	s.selected = ""
	for _, t := range tables {
		s.add(t)
	}
}

func (s *session) add(t Table) {
	if _, exists := s.tables[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	tc := t
	s.tables[t.ID] = &tc
}

func (s *session) remove(id string) {
	delete(s.tables, id)
	delete(s.pending, id)
	if s.selected == id {
		s.selected = ""
	}
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *session) snapshot(keep func(Table) bool) []Table {
	out := make([]Table, 0, len(s.order))
	for _, id := range s.order {
		t := *s.tables[id]
		if keep == nil || keep(t) {
			out = append(out, t)
		}
	}
	return out
}
