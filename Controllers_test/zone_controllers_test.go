package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/floorplan-admin/models"
)

func TestZones_ListAndCreate(t *testing.T) {
	db, _, _ := setupTestDB(t)
	r := setupRouter(db)

	w, resp := doRequest(t, r, "GET", "/zones", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var zones []models.Zone
	decodeData(t, resp, &zones)
	assert.Len(t, zones, 2)

	w, resp = doRequest(t, r, "POST", "/zones", map[string]string{"name": "Bar"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Zone created successfully", resp.Message)
	var zone models.Zone
	decodeData(t, resp, &zone)
	assert.NotEmpty(t, zone.ID)
	assert.Equal(t, "Bar", zone.Name)

	w, _ = doRequest(t, r, "POST", "/zones", map[string]string{"name": "Bar"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, r, "POST", "/zones", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestZoneLayout_ByIDAndName(t *testing.T) {
	db, hall, terrace := setupTestDB(t)
	r := setupRouter(db)

	placed := models.Table{TableNumber: "A1", Capacity: 4, ZoneID: hall.ID, Shape: "rectangle", Status: "available", IsActive: true}
	placed.SetPosition(models.Position{X: 100, Y: 120, Rotation: 90})
	library := models.Table{TableNumber: "A2", Capacity: 2, ZoneID: hall.ID, Shape: "circle", Status: "occupied", IsActive: true}
	library.SetPosition(models.UnplacedPosition())
	inactive := models.Table{TableNumber: "A3", Capacity: 2, ZoneID: hall.ID, Shape: "circle", Status: "available", IsActive: false}
	elsewhere := models.Table{TableNumber: "T1", Capacity: 2, ZoneID: terrace.ID, Shape: "oval", Status: "available", IsActive: true}
	for _, tbl := range []*models.Table{&placed, &library, &inactive, &elsewhere} {
		require.NoError(t, db.Create(tbl).Error)
	}

	for _, ref := range []string{hall.ID, "Main%20Hall", "main%20hall"} {
		w, resp := doRequest(t, r, "GET", "/zones/"+ref+"/layout", nil)
		require.Equal(t, http.StatusOK, w.Code, ref)

		var layout models.ZoneLayout
		decodeData(t, resp, &layout)
		assert.Equal(t, "Main Hall", layout.Zone)
		assert.Equal(t, hall.ID, layout.ZoneID)
		require.Len(t, layout.Tables, 2)

		first := layout.Tables[0]
		assert.Equal(t, "A1", first.Name)
		assert.Equal(t, "rectangle", first.Type)
		assert.Equal(t, 4, first.Seats)
		require.NotNil(t, first.Position)
		assert.Equal(t, 100.0, first.Position.X)
		require.NotNil(t, first.Position.Rotation)
		assert.Equal(t, 90.0, *first.Position.Rotation)

		second := layout.Tables[1]
		assert.Equal(t, -1.0, second.Position.X)
		assert.Equal(t, -1.0, second.Position.Y)
	}
}

func TestZoneLayout_UnknownZone(t *testing.T) {
	db, _, _ := setupTestDB(t)
	r := setupRouter(db)

	w, resp := doRequest(t, r, "GET", "/zones/nowhere/layout", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, resp.Status)
}
