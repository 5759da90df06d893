package floorplan

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yeremiapane/floorplan-admin/models"
)

// MaxConcurrentResets bounds the number of in-flight clears during ResetEntireLayout.
const MaxConcurrentResets = 8

type Operation int

const (
	OpFetchLayout Operation = iota
	OpCommitPositions
	OpSaveTable
	OpResetLayout
	opCount
)

// Flags reports which kinds of remote operation are currently in flight.
type Flags struct {
	FetchingLayout  bool
	CommittingBatch bool
	SavingTable     bool
	ResettingLayout bool
}

// CommitResult describes a CommitPendingPositions call that did not fail.
type CommitResult struct {
	Saved         int
	NothingToSave bool
}

func (r CommitResult) Message() string {
	if r.NothingToSave {
		return NothingToSaveMessage
	}
	return "Layout saved."
}

// TableTemplate is what AddTable needs to create a table in the active zone.
type TableTemplate struct {
	Name  string
	Seats int
	Shape Shape
	Notes string
}

// Controller owns the working set of tables for the selected zone and
// reconciles it with a FloorService. It is safe for concurrent use; the lock
// is never held across a remote call.
type Controller struct {
	svc FloorService
	log logrus.FieldLogger

	mu       sync.Mutex
	sess     *session
	inflight [opCount]int

	// selection counts SelectZone calls; only the latest may install a session.
	selection uint64
}

func NewController(svc FloorService, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{svc: svc, log: log}
}

func (c *Controller) begin(op Operation) func() {
	c.mu.Lock()
	c.inflight[op]++
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		c.inflight[op]--
		c.mu.Unlock()
	}
}

func (c *Controller) Flags() Flags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Flags{
		FetchingLayout:  c.inflight[OpFetchLayout] > 0,
		CommittingBatch: c.inflight[OpCommitPositions] > 0,
		SavingTable:     c.inflight[OpSaveTable] > 0,
		ResettingLayout: c.inflight[OpResetLayout] > 0,
	}
}

func (c *Controller) Zones(ctx context.Context) ([]models.Zone, error) {
	zones, err := c.svc.ListZones(ctx)
	if err != nil {
		return nil, &RemoteError{Op: "list zones", Err: err}
	}
	return zones, nil
}

func resolveZone(zones []models.Zone, ref string) (models.Zone, bool) {
	for _, z := range zones {
		if z.ID == ref {
			return z, true
		}
	}
	for _, z := range zones {
		if strings.EqualFold(z.Name, ref) {
			return z, true
		}
	}
	return models.Zone{}, false
}

// SelectZone makes ref (a zone id or name) the active zone and loads its
// layout. Everything held for the previous zone is dropped.
func (c *Controller) SelectZone(ctx context.Context, ref string) error {
	c.mu.Lock()
	c.selection++
	seq := c.selection
	c.mu.Unlock()

	zones, err := c.Zones(ctx)
	if err != nil {
		return err
	}
	zone, ok := resolveZone(zones, ref)
	if !ok {
		return ErrZoneNotFound
	}

	sess := newSession(zone)
	c.mu.Lock()
	if c.selection != seq {
		c.mu.Unlock()
		c.log.WithField("zone_id", zone.ID).Warn("dropping superseded zone selection")
		return ErrStaleLayout
	}
	c.sess = sess
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{"zone_id": zone.ID, "zone": zone.Name}).Info("zone selected")
	return c.load(ctx, sess)
}

// load fetches the layout for sess and applies it only if sess is still the
// active session.
func (c *Controller) load(ctx context.Context, sess *session) error {
	done := c.begin(OpFetchLayout)
	defer done()

	layout, err := c.svc.GetZoneLayout(ctx, sess.zone.ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != sess {
		c.log.WithField("zone_id", sess.zone.ID).Warn("dropping stale zone layout")
		return ErrStaleLayout
	}
	sess.state = StateReady
	if err != nil {
		return &RemoteError{Op: "load zone layout", Err: err}
	}
	if layout == nil {
		layout = &models.ZoneLayout{}
	}
	if layout.Zone != "" {
		sess.zone.Name = layout.Zone
	}
	sess.replaceTables(ToWorkingTables(layout, sess.zone.ID))
	c.log.WithFields(logrus.Fields{"zone_id": sess.zone.ID, "tables": len(sess.order)}).Debug("zone layout loaded")
	return nil
}

// DiscardPendingAndReload refetches the active zone and replaces the working
// set, pending changes and selection. On failure nothing is discarded.
func (c *Controller) DiscardPendingAndReload(ctx context.Context) error {
	c.mu.Lock()
	sess := c.sess
	if sess == nil {
		c.mu.Unlock()
		return ErrNoActiveZone
	}
	sess.state = StateLoading
	c.mu.Unlock()

	return c.load(ctx, sess)
}

func (c *Controller) lookupLocked(tableID string) (*session, *Table, error) {
	if c.sess == nil {
		return nil, nil, ErrNoActiveZone
	}
	t, ok := c.sess.tables[tableID]
	if !ok {
		return c.sess, nil, ErrTableNotFound
	}
	return c.sess, t, nil
}

// MoveOrRotate records a pending position for a placed table and applies it to
// the working set. A nil rotation keeps the table's current rotation.
func (c *Controller) MoveOrRotate(tableID string, to PositionChange) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moveLocked(tableID, to)
}

func (c *Controller) moveLocked(tableID string, to PositionChange) error {
	sess, t, err := c.lookupLocked(tableID)
	if err != nil {
		return err
	}
	if !t.IsPlaced() {
		return ErrTableUnplaced
	}
	if to.X < 0 || to.Y < 0 {
		return &ValidationError{Field: "position", Reason: "coordinates must not be negative"}
	}

	rotation := t.Rotation
	if to.Rotation != nil {
		rotation = NormalizeRotation(float64(*to.Rotation))
	}
	t.setGeometry(PlacedAt(to.X, to.Y), rotation)
	sess.pending[tableID] = PositionChange{X: to.X, Y: to.Y, Rotation: &rotation}
	return nil
}

// DragTable applies a pointer drag of (dx, dy) screen pixels on canvas.
func (c *Controller) DragTable(tableID string, canvas Canvas, dx, dy float64) (Point, error) {
	if err := canvas.Validate(); err != nil {
		return Point{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	_, t, err := c.lookupLocked(tableID)
	if err != nil {
		return Point{}, err
	}
	x, y, ok := t.Placement.Coords()
	if !ok {
		return Point{}, ErrTableUnplaced
	}
	p := canvas.Drag(Point{X: x, Y: y}, dx, dy, t.Size)
	return p, c.moveLocked(tableID, PositionChange{X: p.X, Y: p.Y})
}

// DropTable moves a placed table to a zone-local target after grid snapping
// and clamping.
func (c *Controller) DropTable(tableID string, canvas Canvas, target Point) (Point, error) {
	if err := canvas.Validate(); err != nil {
		return Point{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	_, t, err := c.lookupLocked(tableID)
	if err != nil {
		return Point{}, err
	}
	p := canvas.Resolve(target, t.Size)
	return p, c.moveLocked(tableID, PositionChange{X: p.X, Y: p.Y})
}

// RotateTable turns a placed table by one quarter.
func (c *Controller) RotateTable(tableID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, t, err := c.lookupLocked(tableID)
	if err != nil {
		return err
	}
	x, y, ok := t.Placement.Coords()
	if !ok {
		return ErrTableUnplaced
	}
	next := NextRotation(t.Rotation)
	return c.moveLocked(tableID, PositionChange{X: x, Y: y, Rotation: &next})
}

// UpdateProperties edits the working table only. Use SaveTable to persist.
func (c *Controller) UpdateProperties(tableID string, u TableUpdates) error {
	if err := u.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sess, t, err := c.lookupLocked(tableID)
	if err != nil {
		return err
	}
	u.apply(t)
	if u.touchesGeometry() {
		if x, y, ok := t.Placement.Coords(); ok {
			rotation := t.Rotation
			sess.pending[tableID] = PositionChange{X: x, Y: y, Rotation: &rotation}
		} else {
			delete(sess.pending, tableID)
		}
	}
	return nil
}

// SaveTable persists the working table with u applied, then applies u locally.
// On failure the working set is not touched.
func (c *Controller) SaveTable(ctx context.Context, tableID string, u TableUpdates) error {
	if err := u.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	sess, t, err := c.lookupLocked(tableID)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	candidate := *t
	u.apply(&candidate)
	req := candidate.updateRequest()
	c.mu.Unlock()

	done := c.begin(OpSaveTable)
	defer done()

	if _, err := c.svc.UpdateTable(ctx, tableID, req); err != nil {
		return &RemoteError{Op: "save table", TableID: tableID, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != sess {
		return nil
	}
	t, ok := sess.tables[tableID]
	if !ok {
		return nil
	}
	u.apply(t)
	if u.touchesGeometry() {
		delete(sess.pending, tableID)
	}
	if t.ZoneID != sess.zone.ID {
		sess.remove(tableID)
		c.log.WithFields(logrus.Fields{"table_id": tableID, "zone_id": t.ZoneID}).Info("table moved to another zone")
	}
	return nil
}

// RemoveFromCanvas sends a table back to the library.
func (c *Controller) RemoveFromCanvas(ctx context.Context, tableID string) error {
	unplaced := Unplaced()
	zero := 0
	if err := c.SaveTable(ctx, tableID, TableUpdates{Placement: &unplaced, Rotation: &zero}); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != nil && c.sess.selected == tableID {
		c.sess.selected = ""
	}
	return nil
}

// DeleteTable drops a table from the working set. The remote delete is the
// caller's job.
func (c *Controller) DeleteTable(tableID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, _, err := c.lookupLocked(tableID)
	if err != nil {
		return err
	}
	sess.remove(tableID)
	sess.selected = ""
	return nil
}

// AddTable creates an unplaced table in the active zone and appends the
// service's record to the working set.
func (c *Controller) AddTable(ctx context.Context, tmpl TableTemplate) (Table, error) {
	if tmpl.Name == "" {
		return Table{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if tmpl.Seats < 1 {
		return Table{}, &ValidationError{Field: "seats", Reason: "must be at least 1"}
	}

	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return Table{}, ErrNoActiveZone
	}

	active := true
	rec, err := c.svc.CreateTable(ctx, models.CreateTableRequest{
		TableNumber: tmpl.Name,
		Capacity:    tmpl.Seats,
		ZoneID:      sess.zone.ID,
		Shape:       MapShapeToBackend(tmpl.Shape),
		Status:      RemoteStatusAvailable,
		IsActive:    &active,
		Notes:       tmpl.Notes,
		Position:    models.UnplacedPosition(),
	})
	if err != nil {
		return Table{}, &RemoteError{Op: "create table", Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	t := fromTableRecord(*rec, sess.zone.Name)
	if c.sess == sess && t.ZoneID == sess.zone.ID {
		sess.add(t)
	}
	return t, nil
}

// CommitPendingPositions sends every pending change in one batch call.
// Pending changes survive a failure so the save can be retried.
func (c *Controller) CommitPendingPositions(ctx context.Context) (CommitResult, error) {
	c.mu.Lock()
	sess := c.sess
	if sess == nil {
		c.mu.Unlock()
		return CommitResult{}, ErrNoActiveZone
	}
	if len(sess.pending) == 0 {
		c.mu.Unlock()
		return CommitResult{NothingToSave: true}, nil
	}

	sent := make(map[string]PositionChange, len(sess.pending))
	updates := make([]models.PositionUpdate, 0, len(sess.pending))
	for id, change := range sess.pending {
		t, ok := sess.tables[id]
		if !ok {
			continue
		}
		rotation := t.Rotation
		if change.Rotation != nil {
			rotation = *change.Rotation
		}
		sent[id] = change.clone()
		updates = append(updates, models.PositionUpdate{
			TableID:  id,
			Position: models.Position{X: change.X, Y: change.Y, Rotation: NormalizeRotation(float64(rotation))},
		})
	}
	c.mu.Unlock()

	sort.Slice(updates, func(i, j int) bool { return updates[i].TableID < updates[j].TableID })

	done := c.begin(OpCommitPositions)
	defer done()

	resp, err := c.svc.BatchUpdatePositions(ctx, models.BatchPositionRequest{Updates: updates})
	if err != nil {
		c.log.WithFields(logrus.Fields{"zone_id": sess.zone.ID, "pending": len(updates)}).WithError(err).Error("batch position save failed")
		return CommitResult{}, &RemoteError{Op: "save layout", Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == sess {
		for id, change := range sent {
			// a newer move made while the batch was in flight stays pending
			if cur, ok := sess.pending[id]; ok && cur.equal(change) {
				delete(sess.pending, id)
			}
		}
	}

	saved := len(updates)
	if resp != nil {
		saved = resp.UpdatedCount
	}
	c.log.WithFields(logrus.Fields{"zone_id": sess.zone.ID, "saved": saved}).Info("layout positions committed")
	return CommitResult{Saved: saved}, nil
}

// ResetEntireLayout clears every table of the active zone with one update
// call per table, run concurrently. Every outcome is returned; if any failed
// the error is a *PartialBatchFailure and the successful clears are kept.
func (c *Controller) ResetEntireLayout(ctx context.Context) ([]ResetOutcome, error) {
	c.mu.Lock()
	sess := c.sess
	if sess == nil {
		c.mu.Unlock()
		return nil, ErrNoActiveZone
	}
	ids := append([]string(nil), sess.order...)
	c.mu.Unlock()

	done := c.begin(OpResetLayout)
	defer done()

	outcomes := make([]ResetOutcome, len(ids))
	var g errgroup.Group
	g.SetLimit(MaxConcurrentResets)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			pos := models.UnplacedPosition()
			_, err := c.svc.UpdateTable(ctx, id, models.UpdateTableRequest{Position: &pos})
			outcomes[i] = ResetOutcome{TableID: id}
			if err != nil {
				outcomes[i].Err = &RemoteError{Op: "clear table", TableID: id, Err: err}
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	c.mu.Lock()
	if c.sess == sess {
		for _, o := range outcomes {
			if !o.OK() {
				failed++
				continue
			}
			if t, ok := sess.tables[o.TableID]; ok {
				t.setGeometry(Unplaced(), 0)
			}
			delete(sess.pending, o.TableID)
		}
		sess.selected = ""
	} else {
		for _, o := range outcomes {
			if !o.OK() {
				failed++
			}
		}
	}
	c.mu.Unlock()

	if failed > 0 {
		for _, o := range outcomes {
			if !o.OK() {
				c.log.WithField("table_id", o.TableID).WithError(o.Err).Warn("table could not be cleared")
			}
		}
		return outcomes, &PartialBatchFailure{Outcomes: outcomes}
	}
	c.log.WithFields(logrus.Fields{"zone_id": sess.zone.ID, "tables": len(ids)}).Info("layout reset")
	return outcomes, nil
}

func (c *Controller) Select(tableID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, _, err := c.lookupLocked(tableID)
	if err != nil {
		return err
	}
	sess.selected = tableID
	return nil
}

func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != nil {
		c.sess.selected = ""
	}
}

func (c *Controller) Selected() (Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil || c.sess.selected == "" {
		return Table{}, false
	}
	t, ok := c.sess.tables[c.sess.selected]
	if !ok {
		return Table{}, false
	}
	return *t, true
}

func (c *Controller) Table(tableID string) (Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, t, err := c.lookupLocked(tableID)
	if err != nil {
		return Table{}, false
	}
	return *t, true
}

func (c *Controller) Tables() []Table {
	return c.tables(nil)
}

// PlacedTables are the tables rendered on the canvas.
func (c *Controller) PlacedTables() []Table {
	return c.tables(Table.IsPlaced)
}

// LibraryTables are the tables waiting in the library.
func (c *Controller) LibraryTables() []Table {
	return c.tables(func(t Table) bool { return !t.IsPlaced() })
}

func (c *Controller) tables(keep func(Table) bool) []Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return nil
	}
	return c.sess.snapshot(keep)
}

func (c *Controller) PendingChanges() map[string]PositionChange {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]PositionChange)
	if c.sess == nil {
		return out
	}
	for id, p := range c.sess.pending {
		out[id] = p.clone()
	}
	return out
}

func (c *Controller) HasPendingChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess != nil && len(c.sess.pending) > 0
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return StateIdle
	}
	return c.sess.state
}

func (c *Controller) ActiveZone() (models.Zone, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return models.Zone{}, false
	}
	return c.sess.zone, true
}
