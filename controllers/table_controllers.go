package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/floorplan-admin/hub"
	"github.com/yeremiapane/floorplan-admin/metrics"
	"github.com/yeremiapane/floorplan-admin/models"
	"github.com/yeremiapane/floorplan-admin/services"
	"github.com/yeremiapane/floorplan-admin/utils"
)

type TableController struct {
	Service *services.LayoutService
}

func NewTableController(svc *services.LayoutService) *TableController {
	return &TableController{Service: svc}
}

// CreateTable -> menambahkan meja baru, langsung di canvas atau di library
func (tc *TableController) CreateTable(c *gin.Context) {
	var req models.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Service.CreateTable(c.Request.Context(), req)
	metrics.ObserveTableOperation("create", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	hub.BroadcastTableCreate(*table)
	utils.InfoLogger.Printf("New table created: %s in zone %s", table.TableNumber, table.ZoneID)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table.Record())
}

// GetAllTables -> seluruh meja, bisa difilter dengan ?zone_id=
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Service.ListTables(c.Request.Context(), c.Query("zone_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	records := make([]models.TableRecord, 0, len(tables))
	for _, t := range tables {
		records = append(records, t.Record())
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", records)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	table, err := tc.Service.GetTable(c.Request.Context(), c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table.Record())
}

// UpdateTable applies a partial update. Omitted fields keep their value.
func (tc *TableController) UpdateTable(c *gin.Context) {
	var req models.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Service.UpdateTable(c.Request.Context(), c.Param("table_id"), req)
	metrics.ObserveTableOperation("update", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	hub.BroadcastTableUpdate(*table)
	utils.InfoLogger.Printf("Table %s updated", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table updated successfully", table.Record())
}

// DeleteTable -> menghapus meja
func (tc *TableController) DeleteTable(c *gin.Context) {
	table, err := tc.Service.DeleteTable(c.Request.Context(), c.Param("table_id"))
	metrics.ObserveTableOperation("delete", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	hub.BroadcastTableDelete(*table)
	utils.InfoLogger.Printf("Table %s deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted successfully", gin.H{"id": table.ID})
}

// BatchUpdatePositions saves several table positions in one transaction.
func (tc *TableController) BatchUpdatePositions(c *gin.Context) {
	var req models.BatchPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	resp, zoneIDs, err := tc.Service.BatchUpdatePositions(c.Request.Context(), req)
	metrics.ObserveTableOperation("batch_positions", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	for _, zoneID := range zoneIDs {
		hub.BroadcastLayoutUpdate(zoneID, resp)
	}
	utils.InfoLogger.Printf("Batch position update: %d tables", resp.UpdatedCount)
	utils.RespondJSON(c, http.StatusOK, "Table positions updated", resp)
}
