package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/floorplan-admin/metrics"
	"github.com/yeremiapane/floorplan-admin/models"
)

// Event types
const (
	EventTableCreate  = "table_create"
	EventTableUpdate  = "table_update"
	EventTableDelete  = "table_delete"
	EventLayoutUpdate = "layout_update"
	EventZoneCreate   = "zone_create"
)

// writeWait bounds a single send; a client that cannot take a message in time is dropped.
var writeWait = 5 * time.Second

type Message struct {
	Event  string      `json:"event"`
	ZoneID string      `json:"zone_id,omitempty"`
	Data   interface{} `json:"data"`
}

// client is one websocket subscriber, optionally filtered to a single zone.
type client struct {
	zoneID string
}

// FloorHub tracks websocket subscribers of floor-plan events.
type FloorHub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
}

var floorHub = FloorHub{
	clients: make(map[*websocket.Conn]client),
}

// RegisterClient subscribes conn. An empty zoneID receives events of every zone.
func RegisterClient(conn *websocket.Conn, zoneID string) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	floorHub.clients[conn] = client{zoneID: zoneID}
	metrics.FloorSubscribers.Set(float64(len(floorHub.clients)))
}

func UnregisterClient(conn *websocket.Conn) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	delete(floorHub.clients, conn)
	metrics.FloorSubscribers.Set(float64(len(floorHub.clients)))
	conn.Close()
}

func ClientCount() int {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	return len(floorHub.clients)
}

func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, ZoneID: table.ZoneID, Data: table.Record()})
}

func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, ZoneID: table.ZoneID, Data: table.Record()})
}

func BroadcastTableDelete(table models.Table) {
	broadcast(Message{Event: EventTableDelete, ZoneID: table.ZoneID, Data: map[string]interface{}{
		"table_id": table.ID,
	}})
}

// BroadcastLayoutUpdate announces a batch position change in one zone.
func BroadcastLayoutUpdate(zoneID string, resp *models.BatchPositionResponse) {
	broadcast(Message{Event: EventLayoutUpdate, ZoneID: zoneID, Data: resp})
}

func BroadcastZoneCreate(zone models.Zone) {
	broadcast(Message{Event: EventZoneCreate, Data: zone})
}

func broadcast(msg Message) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()

	if len(floorHub.clients) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logrus.WithError(err).Error("marshal floor event")
		return
	}

	for conn, c := range floorHub.clients {
		if c.zoneID != "" && msg.ZoneID != "" && c.zoneID != msg.ZoneID {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logrus.WithError(err).WithField("event", msg.Event).Warn("send floor event, dropping client")
			delete(floorHub.clients, conn)
			conn.Close()
		}
	}
	metrics.FloorSubscribers.Set(float64(len(floorHub.clients)))
}
