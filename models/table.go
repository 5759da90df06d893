package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnplacedCoord is the wire value of x and y for a table that is not on any canvas.
const UnplacedCoord = -1.0

type Table struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TableNumber string    `gorm:"type:varchar(50);not null" json:"table_number"`
	Capacity    int       `gorm:"not null;default:2" json:"capacity"`
	ZoneID      string    `gorm:"type:varchar(36);index" json:"zone_id"`
	Shape       string    `gorm:"type:varchar(20);not null;default:'rectangle'" json:"shape"`
	Status      string    `gorm:"type:varchar(50);not null;default:'available'" json:"status"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	Notes       string    `gorm:"type:text" json:"notes"`
	PosX        float64   `gorm:"not null" json:"-"`
	PosY        float64   `gorm:"not null" json:"-"`
	Rotation    int       `gorm:"not null" json:"-"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// BeforeCreate assigns an opaque id when the caller did not supply one.
func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t Table) Position() Position {
	return Position{X: t.PosX, Y: t.PosY, Rotation: t.Rotation}
}

func (t *Table) SetPosition(p Position) {
	t.PosX = p.X
	t.PosY = p.Y
	t.Rotation = p.Rotation
}

// TableRecord is the JSON shape returned by the table endpoints.
type TableRecord struct {
	Table
	Position Position `json:"position"`
}

func (t Table) Record() TableRecord {
	return TableRecord{Table: t, Position: t.Position()}
}
