package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/floorplan-admin/hub"
	"github.com/yeremiapane/floorplan-admin/models"
	"github.com/yeremiapane/floorplan-admin/services"
	"github.com/yeremiapane/floorplan-admin/utils"
)

type ZoneController struct {
	Service *services.LayoutService
}

func NewZoneController(svc *services.LayoutService) *ZoneController {
	return &ZoneController{Service: svc}
}

// GetAllZones -> daftar zona yang punya layout
func (zc *ZoneController) GetAllZones(c *gin.Context) {
	zones, err := zc.Service.ListZones(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of zones", zones)
}

func (zc *ZoneController) CreateZone(c *gin.Context) {
	var req models.CreateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	zone, err := zc.Service.CreateZone(c.Request.Context(), req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	hub.BroadcastZoneCreate(*zone)
	utils.InfoLogger.Printf("New zone created: %s (%s)", zone.Name, zone.ID)
	utils.RespondJSON(c, http.StatusCreated, "Zone created successfully", zone)
}

// GetZoneLayout accepts either the zone id or its name.
func (zc *ZoneController) GetZoneLayout(c *gin.Context) {
	layout, err := zc.Service.ZoneLayout(c.Request.Context(), c.Param("zone_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Zone layout", layout)
}
