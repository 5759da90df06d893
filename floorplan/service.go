package floorplan

import (
	"context"

	"github.com/yeremiapane/floorplan-admin/models"
)

// FloorService is the remote table and zone store used by the Controller.
type FloorService interface {
	ListZones(ctx context.Context) ([]models.Zone, error)
	GetZoneLayout(ctx context.Context, zoneID string) (*models.ZoneLayout, error)
	CreateTable(ctx context.Context, req models.CreateTableRequest) (*models.TableRecord, error)
	UpdateTable(ctx context.Context, id string, req models.UpdateTableRequest) (*models.TableRecord, error)
	DeleteTable(ctx context.Context, id string) error
	BatchUpdatePositions(ctx context.Context, req models.BatchPositionRequest) (*models.BatchPositionResponse, error)
}
