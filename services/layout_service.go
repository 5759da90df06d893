package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/floorplan-admin/cache"
	"github.com/yeremiapane/floorplan-admin/floorplan"
	"github.com/yeremiapane/floorplan-admin/metrics"
	"github.com/yeremiapane/floorplan-admin/models"
	"github.com/yeremiapane/floorplan-admin/utils"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid request")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}

// LayoutService stores zones and tables and serves zone layouts.
type LayoutService struct {
	db    *gorm.DB
	cache *cache.LayoutCache
}

func NewLayoutService(db *gorm.DB, layoutCache *cache.LayoutCache) *LayoutService {
	return &LayoutService{db: db, cache: layoutCache}
}

func (s *LayoutService) ListZones(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone
	if err := s.db.WithContext(ctx).Order("name").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// CreateZone rejects a name that already exists in any letter case.
func (s *LayoutService) CreateZone(ctx context.Context, name string) (*models.Zone, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("zone name is required")
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Zone{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, invalid("zone %q already exists", name)
	}
	zone := models.Zone{Name: name}
	if err := s.db.WithContext(ctx).Create(&zone).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

// FindZone resolves a zone by id, then by name in any letter case.
func (s *LayoutService) FindZone(ctx context.Context, ref string) (*models.Zone, error) {
	var zone models.Zone
	err := s.db.WithContext(ctx).Where("id = ?", ref).Or("LOWER(name) = LOWER(?)", ref).First(&zone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("zone", ref)
	}
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

// ZoneLayout returns every active table of a zone with its position.
func (s *LayoutService) ZoneLayout(ctx context.Context, ref string) (*models.ZoneLayout, error) {
	zone, err := s.FindZone(ctx, ref)
	if err != nil {
		return nil, err
	}

	if layout, ok, err := s.cache.Get(ctx, zone.ID); err != nil {
		utils.ErrorLogger.Printf("layout cache read for zone %s: %v", zone.ID, err)
	} else if ok {
		metrics.LayoutCacheLookups.WithLabelValues("hit").Inc()
		return layout, nil
	} else if s.cache.Enabled() {
		metrics.LayoutCacheLookups.WithLabelValues("miss").Inc()
	}

	// read before the query; a mutation committed after this point makes the fill a no-op
	gen, genErr := s.cache.Generation(ctx, zone.ID)
	if genErr != nil {
		utils.ErrorLogger.Printf("layout cache generation for zone %s: %v", zone.ID, genErr)
	}

	var tables []models.Table
	if err := s.db.WithContext(ctx).
		Where("zone_id = ? AND is_active = ?", zone.ID, true).
		Order("table_number").
		Find(&tables).Error; err != nil {
		return nil, err
	}

	layout := &models.ZoneLayout{
		Zone:   zone.Name,
		ZoneID: zone.ID,
		Tables: make([]models.LayoutTable, 0, len(tables)),
	}
	for _, t := range tables {
		rotation := float64(t.Rotation)
		layout.Tables = append(layout.Tables, models.LayoutTable{
			ID:          t.ID,
			TableNumber: t.TableNumber,
			Type:        t.Shape,
			Name:        t.TableNumber,
			Seats:       t.Capacity,
			Zone:        zone.Name,
			Status:      t.Status,
			Notes:       t.Notes,
			Position:    &models.LayoutPosition{X: t.PosX, Y: t.PosY, Rotation: &rotation},
		})
	}

	if genErr == nil {
		if _, err := s.cache.Set(ctx, zone.ID, gen, layout); err != nil {
			utils.ErrorLogger.Printf("layout cache write for zone %s: %v", zone.ID, err)
		}
	}
	return layout, nil
}

func (s *LayoutService) invalidate(ctx context.Context, zoneIDs ...string) {
	if err := s.cache.Invalidate(ctx, zoneIDs...); err != nil {
		utils.ErrorLogger.Printf("layout cache invalidate %v: %v", zoneIDs, err)
	}
}

// ListTables returns all tables, or only those of zoneID when it is set.
func (s *LayoutService) ListTables(ctx context.Context, zoneID string) ([]models.Table, error) {
	q := s.db.WithContext(ctx).Order("table_number")
	if zoneID != "" {
		q = q.Where("zone_id = ?", zoneID)
	}
	var tables []models.Table
	if err := q.Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (s *LayoutService) GetTable(ctx context.Context, id string) (*models.Table, error) {
	return s.getTable(s.db.WithContext(ctx), id)
}

func (s *LayoutService) getTable(tx *gorm.DB, id string) (*models.Table, error) {
	var table models.Table
	err := tx.First(&table, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("table", id)
	}
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// normalizePosition maps any coordinate on the unplaced sentinel to the full
// sentinel and snaps rotation to a quarter turn.
func normalizePosition(p models.Position) (models.Position, error) {
	if p.X == models.UnplacedCoord || p.Y == models.UnplacedCoord {
		return models.UnplacedPosition(), nil
	}
	if p.X < 0 || p.Y < 0 {
		return p, invalid("position (%g, %g) is outside the canvas", p.X, p.Y)
	}
	p.Rotation = floorplan.NormalizeRotation(float64(p.Rotation))
	return p, nil
}

func (s *LayoutService) checkZone(tx *gorm.DB, zoneID string) error {
	if zoneID == "" {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Zone{}).Where("id = ?", zoneID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound("zone", zoneID)
	}
	return nil
}

func (s *LayoutService) CreateTable(ctx context.Context, req models.CreateTableRequest) (*models.Table, error) {
	if strings.TrimSpace(req.TableNumber) == "" {
		return nil, invalid("table_number is required")
	}
	if req.Capacity < 1 {
		return nil, invalid("capacity must be at least 1")
	}
	if req.Shape == "" {
		req.Shape = string(floorplan.ShapeRectangle)
	}
	if !floorplan.IsKnownRemoteShape(req.Shape) {
		return nil, invalid("unknown shape %q", req.Shape)
	}
	if req.Status == "" {
		req.Status = floorplan.RemoteStatusAvailable
	}
	if !floorplan.IsKnownRemoteStatus(req.Status) {
		return nil, invalid("unknown status %q", req.Status)
	}
	// an omitted position decodes as (0, 0, 0); new tables start unplaced
	if req.Position == (models.Position{}) {
		req.Position = models.UnplacedPosition()
	}
	pos, err := normalizePosition(req.Position)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := s.checkZone(db, req.ZoneID); err != nil {
		return nil, err
	}
	if req.ZoneID != "" {
		var count int64
		if err := db.Model(&models.Table{}).Where("zone_id = ?", req.ZoneID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count >= floorplan.MaxTablesPerZone {
			return nil, invalid("zone already holds %d tables", floorplan.MaxTablesPerZone)
		}
	}

	table := models.Table{
		TableNumber: strings.TrimSpace(req.TableNumber),
		Capacity:    req.Capacity,
		ZoneID:      req.ZoneID,
		Shape:       req.Shape,
		Status:      req.Status,
		IsActive:    req.IsActive == nil || *req.IsActive,
		Notes:       req.Notes,
	}
	table.SetPosition(pos)
	if err := db.Create(&table).Error; err != nil {
		return nil, err
	}

	s.invalidate(ctx, table.ZoneID)
	utils.InfoLogger.Printf("Table %s created in zone %q", table.ID, table.ZoneID)
	return &table, nil
}

func (s *LayoutService) UpdateTable(ctx context.Context, id string, req models.UpdateTableRequest) (*models.Table, error) {
	db := s.db.WithContext(ctx)
	table, err := s.getTable(db, id)
	if err != nil {
		return nil, err
	}
	prevZone := table.ZoneID

	if req.TableNumber != nil {
		if strings.TrimSpace(*req.TableNumber) == "" {
			return nil, invalid("table_number must not be empty")
		}
		table.TableNumber = strings.TrimSpace(*req.TableNumber)
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, invalid("capacity must be at least 1")
		}
		table.Capacity = *req.Capacity
	}
	if req.ZoneID != nil {
		if err := s.checkZone(db, *req.ZoneID); err != nil {
			return nil, err
		}
		table.ZoneID = *req.ZoneID
	}
	if req.Shape != nil {
		if !floorplan.IsKnownRemoteShape(*req.Shape) {
			return nil, invalid("unknown shape %q", *req.Shape)
		}
		table.Shape = *req.Shape
	}
	if req.Status != nil {
		if !floorplan.IsKnownRemoteStatus(*req.Status) {
			return nil, invalid("unknown status %q", *req.Status)
		}
		table.Status = *req.Status
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}
	if req.Notes != nil {
		table.Notes = *req.Notes
	}
	if req.Position != nil {
		pos, err := normalizePosition(*req.Position)
		if err != nil {
			return nil, err
		}
		table.SetPosition(pos)
	}

	if err := db.Save(table).Error; err != nil {
		return nil, err
	}

	s.invalidate(ctx, prevZone, table.ZoneID)
	return table, nil
}

func (s *LayoutService) DeleteTable(ctx context.Context, id string) (*models.Table, error) {
	db := s.db.WithContext(ctx)
	table, err := s.getTable(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Delete(table).Error; err != nil {
		return nil, err
	}
	s.invalidate(ctx, table.ZoneID)
	return table, nil
}

// BatchUpdatePositions writes every position in one transaction. Any unknown
// table or invalid position rolls the whole batch back. The returned zone ids
// are the zones whose layout changed.
func (s *LayoutService) BatchUpdatePositions(ctx context.Context, req models.BatchPositionRequest) (*models.BatchPositionResponse, []string, error) {
	if len(req.Updates) == 0 {
		return nil, nil, invalid("updates must not be empty")
	}

	resp := &models.BatchPositionResponse{Tables: make([]models.TablePosition, 0, len(req.Updates))}
	zones := make(map[string]struct{})

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range req.Updates {
			pos, err := normalizePosition(u.Position)
			if err != nil {
				return fmt.Errorf("table %s: %w", u.TableID, err)
			}
			table, err := s.getTable(tx, u.TableID)
			if err != nil {
				return err
			}
			if err := tx.Model(table).Updates(map[string]interface{}{
				"pos_x":    pos.X,
				"pos_y":    pos.Y,
				"rotation": pos.Rotation,
			}).Error; err != nil {
				return err
			}
			zones[table.ZoneID] = struct{}{}
			resp.Tables = append(resp.Tables, models.TablePosition{ID: table.ID, Position: pos})
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	resp.UpdatedCount = len(resp.Tables)
	zoneIDs := make([]string, 0, len(zones))
	for id := range zones {
		zoneIDs = append(zoneIDs, id)
	}
	s.invalidate(ctx, zoneIDs...)
	metrics.BatchPositionSize.Observe(float64(resp.UpdatedCount))
	return resp, zoneIDs, nil
}
