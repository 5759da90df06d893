package floorplan

import "math"

// Status is the operational status shown in the editor.
type Status string

const (
	StatusAvailable      Status = "Available"
	StatusOccupied       Status = "Occupied"
	StatusWaitingForBill Status = "Waiting for bill"
	StatusDisabled       Status = "Disabled"
)

// Remote status values stored by the table service.
const (
	RemoteStatusAvailable         = "available"
	RemoteStatusOccupied          = "occupied"
	RemoteStatusWaitingForPayment = "waiting_for_payment"
	RemoteStatusMaintenance       = "maintenance"
)

type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeCircle    Shape = "circle"
	ShapeOval      Shape = "oval"
)

var remoteToStatus = map[string]Status{
	RemoteStatusAvailable:         StatusAvailable,
	RemoteStatusOccupied:          StatusOccupied,
	RemoteStatusWaitingForPayment: StatusWaitingForBill,
	RemoteStatusMaintenance:       StatusDisabled,
}

var statusToRemote = map[Status]string{
	StatusAvailable:      RemoteStatusAvailable,
	StatusOccupied:       RemoteStatusOccupied,
	StatusWaitingForBill: RemoteStatusWaitingForPayment,
	StatusDisabled:       RemoteStatusMaintenance,
}

// MapStatus converts a remote status into its editor form. Unknown values map to Available.
func MapStatus(remote string) Status {
	if s, ok := remoteToStatus[remote]; ok {
		return s
	}
	return StatusAvailable
}

// MapStatusToBackend is the inverse of MapStatus. Unknown values map to "available".
func MapStatusToBackend(s Status) string {
	if r, ok := statusToRemote[s]; ok {
		return r
	}
	return RemoteStatusAvailable
}

func IsKnownRemoteStatus(remote string) bool {
	_, ok := remoteToStatus[remote]
	return ok
}

// MapShape converts a remote shape. Empty or unknown values become rectangle.
func MapShape(remote string) Shape {
	switch Shape(remote) {
	case ShapeCircle, ShapeOval, ShapeRectangle:
		return Shape(remote)
	}
	return ShapeRectangle
}

func MapShapeToBackend(s Shape) string {
	return string(MapShape(string(s)))
}

func IsKnownRemoteShape(remote string) bool {
	switch Shape(remote) {
	case ShapeCircle, ShapeOval, ShapeRectangle:
		return true
	}
	return false
}

// Size is the derived on-canvas footprint of a table. It is never persisted.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type sizeStep struct {
	seats int
	size  Size
}

type sizeFamily struct {
	steps []sizeStep
	// growth per two seats beyond the last step
	extra Size
}

var sizeFamilies = map[Shape]sizeFamily{
	ShapeRectangle: {
		steps: []sizeStep{
			{2, Size{80, 60}},
			{4, Size{120, 80}},
			{6, Size{160, 80}},
			{8, Size{200, 100}},
			{10, Size{240, 100}},
		},
		extra: Size{40, 10},
	},
	ShapeCircle: {
		steps: []sizeStep{
			{2, Size{70, 70}},
			{4, Size{90, 90}},
			{6, Size{110, 110}},
			{8, Size{130, 130}},
			{10, Size{150, 150}},
		},
		extra: Size{20, 20},
	},
	ShapeOval: {
		steps: []sizeStep{
			{2, Size{90, 60}},
			{4, Size{120, 75}},
			{6, Size{150, 90}},
			{8, Size{180, 100}},
			{10, Size{210, 110}},
		},
		extra: Size{30, 10},
	},
}

// CalculateTableSize returns the footprint for a shape and seat count. Seat
// counts round up to the next step; beyond the last step the size grows by a
// fixed amount for every two additional seats.
func CalculateTableSize(shape Shape, seats int) Size {
	family := sizeFamilies[MapShape(string(shape))]
	for _, step := range family.steps {
		if seats <= step.seats {
			return step.size
		}
	}

	last := family.steps[len(family.steps)-1]
	pairs := (seats - last.seats + 1) / 2
	return Size{
		Width:  last.size.Width + pairs*family.extra.Width,
		Height: last.size.Height + pairs*family.extra.Height,
	}
}

// NormalizeRotation reduces any angle to one of 0, 90, 180 or 270, snapping to
// the nearest quarter turn.
func NormalizeRotation(deg float64) int {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	mod := math.Mod(deg, 360)
	if mod < 0 {
		mod += 360
	}
	quarter := int(math.Round(mod/90)) % 4
	return quarter * 90
}
