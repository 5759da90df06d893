package floorplan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/floorplan-admin/models"
)

var errRemoteDown = errors.New("service unavailable")

type updateCall struct {
	id  string
	req models.UpdateTableRequest
}

// fakeService keeps zone layouts in memory and records every call.
type fakeService struct {
	mu sync.Mutex

	zones   []models.Zone
	layouts map[string][]models.LayoutTable

	// gates blocks GetZoneLayout for a zone until the channel is closed;
	// entered receives the zone id once the call is blocked.
	gates   map[string]chan struct{}
	entered chan string

	// listGate blocks the next ListZones call only; listEntered is closed once
	// that call is blocked.
	listGate    chan struct{}
	listEntered chan struct{}

	listErr   error
	layoutErr error
	createErr error
	batchErr  error
	updateErr map[string]error

	layoutCalls int
	updates     []updateCall
	creates     []models.CreateTableRequest
	batches     []models.BatchPositionRequest
	nextID      int
}

func rot(v float64) *float64 { return &v }

func newFakeService() *fakeService {
	return &fakeService{
		zones: []models.Zone{
			{ID: "z-main", Name: "Main Hall"},
			{ID: "z-terrace", Name: "Terrace"},
		},
		layouts: map[string][]models.LayoutTable{
			"z-main": {
				{ID: "t1", TableNumber: "A1", Type: "rectangle", Seats: 4, Zone: "Main Hall", Status: "available",
					Position: &models.LayoutPosition{X: 100, Y: 100, Rotation: rot(0)}},
				{ID: "t2", TableNumber: "A2", Type: "circle", Seats: 2, Zone: "Main Hall", Status: "occupied",
					Position: &models.LayoutPosition{X: 300, Y: 200, Rotation: rot(90)}},
				{ID: "t3", TableNumber: "A3", Type: "oval", Seats: 6, Zone: "Main Hall", Status: "maintenance",
					Position: &models.LayoutPosition{X: -1, Y: -1}},
			},
			"z-terrace": {
				{ID: "t9", TableNumber: "T1", Type: "circle", Seats: 2, Area: "Terrace", Status: "available",
					Position: &models.LayoutPosition{X: 40, Y: 40}},
			},
		},
		gates:     make(map[string]chan struct{}),
		updateErr: make(map[string]error),
	}
}

func (f *fakeService) ListZones(ctx context.Context) ([]models.Zone, error) {
	f.mu.Lock()
	gate := f.listGate
	f.listGate = nil
	f.mu.Unlock()

	if gate != nil {
		if f.listEntered != nil {
			close(f.listEntered)
		}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Zone(nil), f.zones...), nil
}

func (f *fakeService) GetZoneLayout(ctx context.Context, zoneID string) (*models.ZoneLayout, error) {
	f.mu.Lock()
	gate := f.gates[zoneID]
	f.layoutCalls++
	f.mu.Unlock()

	if gate != nil {
		if f.entered != nil {
			f.entered <- zoneID
		}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.layoutErr != nil {
		return nil, f.layoutErr
	}
	name := ""
	for _, z := range f.zones {
		if z.ID == zoneID {
			name = z.Name
		}
	}
	tables := make([]models.LayoutTable, 0, len(f.layouts[zoneID]))
	for _, t := range f.layouts[zoneID] {
		if t.Position != nil {
			p := *t.Position
			t.Position = &p
		}
		tables = append(tables, t)
	}
	return &models.ZoneLayout{Zone: name, ZoneID: zoneID, Tables: tables}, nil
}

func (f *fakeService) CreateTable(ctx context.Context, req models.CreateTableRequest) (*models.TableRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	t := models.Table{
		ID:          fmt.Sprintf("new-%d", f.nextID),
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		ZoneID:      req.ZoneID,
		Shape:       req.Shape,
		Status:      req.Status,
		IsActive:    true,
	}
	t.SetPosition(req.Position)
	rec := t.Record()
	return &rec, nil
}

func (f *fakeService) UpdateTable(ctx context.Context, id string, req models.UpdateTableRequest) (*models.TableRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{id: id, req: req})
	if err := f.updateErr[id]; err != nil {
		return nil, err
	}
	for zoneID, tables := range f.layouts {
		for i := range tables {
			if tables[i].ID != id {
				continue
			}
			if req.Position != nil {
				r := float64(req.Position.Rotation)
				tables[i].Position = &models.LayoutPosition{X: req.Position.X, Y: req.Position.Y, Rotation: &r}
			}
			t := models.Table{ID: id, TableNumber: tables[i].TableNumber, ZoneID: zoneID}
			if req.Position != nil {
				t.SetPosition(*req.Position)
			}
			rec := t.Record()
			return &rec, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeService) DeleteTable(ctx context.Context, id string) error {
	return nil
}

func (f *fakeService) BatchUpdatePositions(ctx context.Context, req models.BatchPositionRequest) (*models.BatchPositionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, req)
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	resp := &models.BatchPositionResponse{UpdatedCount: len(req.Updates)}
	for _, u := range req.Updates {
		resp.Tables = append(resp.Tables, models.TablePosition{ID: u.TableID, Position: u.Position})
	}
	return resp, nil
}

func (f *fakeService) remoteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates) + len(f.creates) + len(f.batches)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
