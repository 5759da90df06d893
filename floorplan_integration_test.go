package main

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/floorplan-admin/client"
	"github.com/yeremiapane/floorplan-admin/config"
	"github.com/yeremiapane/floorplan-admin/floorplan"
	"github.com/yeremiapane/floorplan-admin/models"
	"github.com/yeremiapane/floorplan-admin/router"
	"github.com/yeremiapane/floorplan-admin/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger("warn")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestServer runs the API on a private in-memory database.
func setupTestServer(t *testing.T) (*client.FloorClient, *gorm.DB) {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.AutoMigrate(db))

	srv := httptest.NewServer(router.SetupRouter(db, router.Options{}))
	t.Cleanup(func() {
		srv.Close()
		sqlDB.Close()
	})
	return client.NewFloorClient(srv.URL), db
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// TestEditorSession walks one editing session end to end:
// 1. Select a zone by name
// 2. Add a table to the library and place it
// 3. Drag tables and commit the batch
// 4. Reload and check the persisted layout
// 5. Reset the whole layout
func TestEditorSession(t *testing.T) {
	api, db := setupTestServer(t)
	ctx := context.Background()

	zone, err := api.CreateZone(ctx, "Main Hall")
	require.NoError(t, err)
	seeded, err := api.CreateTable(ctx, models.CreateTableRequest{
		TableNumber: "A1", Capacity: 4, ZoneID: zone.ID,
		Position: models.Position{X: 100, Y: 100},
	})
	require.NoError(t, err)

	ctrl := floorplan.NewController(api, quietLogger())

	// 1
	require.NoError(t, ctrl.SelectZone(ctx, "main hall"))
	assert.Equal(t, floorplan.StateReady, ctrl.State())
	require.Len(t, ctrl.PlacedTables(), 1)

	// 2
	added, err := ctrl.AddTable(ctx, floorplan.TableTemplate{Name: "A2", Seats: 6, Shape: floorplan.ShapeOval})
	require.NoError(t, err)
	assert.False(t, added.IsPlaced())
	require.Len(t, ctrl.LibraryTables(), 1)
	assert.Equal(t, floorplan.Size{Width: 150, Height: 90}, added.Size)

	target := floorplan.PlacedAt(300, 200)
	require.NoError(t, ctrl.SaveTable(ctx, added.ID, floorplan.TableUpdates{Placement: &target}))
	assert.Empty(t, ctrl.LibraryTables())

	// 3
	canvas := floorplan.Canvas{Zoom: 1, Width: 1000, Height: 800}
	p, err := ctrl.DropTable(seeded.ID, canvas, floorplan.Point{X: 140, Y: 205})
	require.NoError(t, err)
	assert.Equal(t, floorplan.Point{X: 140, Y: 200}, p)
	require.NoError(t, ctrl.RotateTable(seeded.ID))
	assert.True(t, ctrl.HasPendingChanges())

	res, err := ctrl.CommitPendingPositions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Saved)
	assert.False(t, ctrl.HasPendingChanges())

	res, err = ctrl.CommitPendingPositions(ctx)
	require.NoError(t, err)
	assert.True(t, res.NothingToSave)

	// 4
	require.NoError(t, ctrl.DiscardPendingAndReload(ctx))
	reloaded, ok := ctrl.Table(seeded.ID)
	require.True(t, ok)
	assert.Equal(t, models.Position{X: 140, Y: 200, Rotation: 90}, reloaded.Position())

	var stored models.Table
	require.NoError(t, db.First(&stored, "id = ?", added.ID).Error)
	assert.Equal(t, models.Position{X: 300, Y: 200}, stored.Position())

	// 5
	outcomes, err := ctrl.ResetEntireLayout(ctx)
	require.NoError(t, err)
	assert.Len(t, outcomes, 2)
	assert.Empty(t, ctrl.PlacedTables())

	var placed int64
	require.NoError(t, db.Model(&models.Table{}).Where("pos_x <> ?", models.UnplacedCoord).Count(&placed).Error)
	assert.Zero(t, placed)
}

func TestEditorSession_RemoteFailureKeepsPending(t *testing.T) {
	api, db := setupTestServer(t)
	ctx := context.Background()

	zone, err := api.CreateZone(ctx, "Terrace")
	require.NoError(t, err)
	rec, err := api.CreateTable(ctx, models.CreateTableRequest{
		TableNumber: "T1", Capacity: 2, ZoneID: zone.ID,
		Position: models.Position{X: 40, Y: 40},
	})
	require.NoError(t, err)

	ctrl := floorplan.NewController(api, quietLogger())
	require.NoError(t, ctrl.SelectZone(ctx, zone.ID))
	require.NoError(t, ctrl.MoveOrRotate(rec.ID, floorplan.PositionChange{X: 80, Y: 80}))

	// the table vanishes server-side, so the batch is rejected as a whole
	require.NoError(t, db.Delete(&models.Table{}, "id = ?", rec.ID).Error)

	_, err = ctrl.CommitPendingPositions(ctx)
	var remote *floorplan.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.True(t, ctrl.HasPendingChanges())
	assert.Contains(t, floorplan.UserMessage(err), "Failed to save layout")
}
