package floorplan

import "github.com/yeremiapane/floorplan-admin/models"

// ToWorkingTable converts one record of a zone layout into the editor's table.
func ToWorkingTable(zoneID string, rec models.LayoutTable) Table {
	name := rec.Name
	if name == "" {
		name = rec.TableNumber
	}
	label := rec.Zone
	if label == "" {
		label = rec.Area
	}

	t := Table{
		ID:        rec.ID,
		Name:      name,
		Seats:     rec.Seats,
		Shape:     MapShape(rec.Type),
		Status:    MapStatus(rec.Status),
		ZoneID:    zoneID,
		ZoneLabel: label,
		Notes:     rec.Notes,
	}

	placement := Unplaced()
	rotation := 0.0
	if rec.Position != nil {
		placement = placementFromWire(rec.Position.X, rec.Position.Y)
		if rec.Position.Rotation != nil {
			rotation = *rec.Position.Rotation
		}
	}
	t.setGeometry(placement, NormalizeRotation(rotation))
	t.refreshDerived()
	return t
}

func ToWorkingTables(layout *models.ZoneLayout, zoneID string) []Table {
	if layout == nil {
		return nil
	}
	if layout.ZoneID != "" {
		zoneID = layout.ZoneID
	}
	tables := make([]Table, 0, len(layout.Tables))
	for _, rec := range layout.Tables {
		if rec.Zone == "" && rec.Area == "" {
			rec.Zone = layout.Zone
		}
		tables = append(tables, ToWorkingTable(zoneID, rec))
	}
	return tables
}

// fromTableRecord converts a create/update response into a working table.
func fromTableRecord(rec models.TableRecord, zoneLabel string) Table {
	rotation := float64(rec.Position.Rotation)
	return ToWorkingTable(rec.ZoneID, models.LayoutTable{
		ID:          rec.ID,
		TableNumber: rec.TableNumber,
		Type:        rec.Shape,
		Seats:       rec.Capacity,
		Zone:        zoneLabel,
		Status:      rec.Status,
		Notes:       rec.Notes,
		Position: &models.LayoutPosition{
			X:        rec.Position.X,
			Y:        rec.Position.Y,
			Rotation: &rotation,
		},
	})
}
