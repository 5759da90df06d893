package models

// Position is the persisted geometry of a table. X and Y equal UnplacedCoord
// when the table is not placed.
type Position struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation int     `json:"rotation"`
}

func UnplacedPosition() Position {
	return Position{X: UnplacedCoord, Y: UnplacedCoord, Rotation: 0}
}

// LayoutPosition is Position as read from a layout, where rotation may be absent.
type LayoutPosition struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Rotation *float64 `json:"rotation,omitempty"`
}

// LayoutTable is one table inside a zone layout. Area is the legacy name of Zone.
type LayoutTable struct {
	ID          string          `json:"id"`
	TableNumber string          `json:"table_number"`
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Seats       int             `json:"seats"`
	Zone        string          `json:"zone,omitempty"`
	Area        string          `json:"area,omitempty"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes,omitempty"`
	Position    *LayoutPosition `json:"position,omitempty"`
}

type ZoneLayout struct {
	Zone   string        `json:"zone"`
	ZoneID string        `json:"zone_id,omitempty"`
	Tables []LayoutTable `json:"tables"`
}

type CreateTableRequest struct {
	TableNumber string   `json:"table_number" binding:"required"`
	Capacity    int      `json:"capacity" binding:"required"`
	ZoneID      string   `json:"zone_id"`
	Shape       string   `json:"shape"`
	Status      string   `json:"status"`
	IsActive    *bool    `json:"is_active"`
	Notes       string   `json:"notes,omitempty"`
	Position    Position `json:"position"`
}

// UpdateTableRequest is a partial update; nil fields are left untouched.
type UpdateTableRequest struct {
	TableNumber *string   `json:"table_number,omitempty"`
	Capacity    *int      `json:"capacity,omitempty"`
	ZoneID      *string   `json:"zone_id,omitempty"`
	Shape       *string   `json:"shape,omitempty"`
	Status      *string   `json:"status,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	Position    *Position `json:"position,omitempty"`
}

type PositionUpdate struct {
	TableID  string   `json:"table_id"`
	Position Position `json:"position"`
}

type BatchPositionRequest struct {
	Updates []PositionUpdate `json:"updates" binding:"required"`
}

type TablePosition struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
}

type BatchPositionResponse struct {
	UpdatedCount int             `json:"updated_count"`
	Tables       []TablePosition `json:"tables"`
}

type CreateZoneRequest struct {
	Name string `json:"name" binding:"required"`
}
