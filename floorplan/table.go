package floorplan

import "github.com/yeremiapane/floorplan-admin/models"

// Placement is where a table sits on its zone canvas, or Unplaced when it only
// lives in the library.
type Placement struct {
	placed bool
	x, y   float64
}

func PlacedAt(x, y float64) Placement {
	return Placement{placed: true, x: x, y: y}
}

func Unplaced() Placement {
	return Placement{}
}

func (p Placement) IsPlaced() bool { return p.placed }

// Coords returns the canvas coordinates; ok is false for an unplaced table.
func (p Placement) Coords() (x, y float64, ok bool) {
	return p.x, p.y, p.placed
}

func placementFromWire(x, y float64) Placement {
	if x == models.UnplacedCoord || y == models.UnplacedCoord {
		return Unplaced()
	}
	return PlacedAt(x, y)
}

func (p Placement) wire(rotation int) models.Position {
	if !p.placed {
		return models.UnplacedPosition()
	}
	return models.Position{X: p.x, Y: p.y, Rotation: rotation}
}

// Table is the working copy of a table held by the editor.
type Table struct {
	ID          string
	Name        string
	Seats       int
	Shape       Shape
	Status      Status
	ZoneID      string
	ZoneLabel   string
	Notes       string
	CanBeMerged bool
	Placement   Placement
	// Rotation is the only stored rotation; Position derives from it.
	Rotation int
	Size     Size
}

// Position is the wire form of the table's geometry. Unplaced tables report
// (-1, -1, 0).
func (t Table) Position() models.Position {
	return t.Placement.wire(t.Rotation)
}

func (t Table) IsPlaced() bool { return t.Placement.IsPlaced() }

// refreshDerived recomputes everything that follows from shape and seats.
func (t *Table) refreshDerived() {
	t.Size = CalculateTableSize(t.Shape, t.Seats)
	t.CanBeMerged = t.Shape == ShapeRectangle
}

// setGeometry is the single write path for placement and rotation.
func (t *Table) setGeometry(p Placement, rotation int) {
	t.Placement = p
	if !p.placed {
		t.Rotation = 0
		return
	}
	t.Rotation = NormalizeRotation(float64(rotation))
}

// TableUpdates carries a partial edit. Nil fields are left as they are.
type TableUpdates struct {
	Name      *string
	Seats     *int
	Shape     *Shape
	Status    *Status
	ZoneID    *string
	Notes     *string
	Placement *Placement
	Rotation  *int
}

func (u TableUpdates) touchesGeometry() bool {
	return u.Placement != nil || u.Rotation != nil
}

func (u TableUpdates) validate() error {
	if u.Seats != nil && *u.Seats < 1 {
		return &ValidationError{Field: "seats", Reason: "must be at least 1"}
	}
	if u.Name != nil && *u.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if u.Placement != nil {
		if x, y, ok := u.Placement.Coords(); ok && (x < 0 || y < 0) {
			return &ValidationError{Field: "position", Reason: "coordinates must not be negative"}
		}
	}
	return nil
}

func (u TableUpdates) apply(t *Table) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Seats != nil {
		t.Seats = *u.Seats
	}
	if u.Shape != nil {
		t.Shape = MapShape(string(*u.Shape))
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.ZoneID != nil {
		t.ZoneID = *u.ZoneID
	}
	if u.Notes != nil {
		t.Notes = *u.Notes
	}
	if u.touchesGeometry() {
		placement := t.Placement
		if u.Placement != nil {
			placement = *u.Placement
		}
		rotation := t.Rotation
		if u.Rotation != nil {
			rotation = *u.Rotation
		}
		t.setGeometry(placement, rotation)
	}
	t.refreshDerived()
}

// updateRequest builds the full remote payload for t.
func (t Table) updateRequest() models.UpdateTableRequest {
	name := t.Name
	seats := t.Seats
	zoneID := t.ZoneID
	shape := MapShapeToBackend(t.Shape)
	status := MapStatusToBackend(t.Status)
	notes := t.Notes
	pos := t.Position()
	return models.UpdateTableRequest{
		TableNumber: &name,
		Capacity:    &seats,
		ZoneID:      &zoneID,
		Shape:       &shape,
		Status:      &status,
		Notes:       &notes,
		Position:    &pos,
	}
}
