// Package gesture turns raw pointer samples into drag and pinch updates for
// the placement proposal.
package gesture

import (
	"scene-studio/pkg/geometry"
)

// Mode is the current interaction mode of the tracker.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrag
	ModePinch
)

func (m Mode) String() string {
	switch m {
	case ModeDrag:
		return "Drag"
	case ModePinch:
		return "Pinch"
	default:
		return "Idle"
	}
}

// Update is the tracker's output for one pointer sample. At most one of the
// fields is set: a drag produces a new position, a pinch a new scale.
type Update struct {
	Position *geometry.Point2D // placement percent
	Scale    *float64
}

// Tracker is a small state machine over 1-2 simultaneous pointer contacts.
// One contact drags the placement; a second contact arriving mid-drag
// switches to pinch and suspends translation until the pinch ends. Drag
// positions are computed from the position captured at gesture start, never
// accumulated frame to frame.
type Tracker struct {
	mode      Mode
	container geometry.Size

	points map[int]geometry.Point2D
	order  []int

	// Drag baseline.
	dragStart      geometry.Point2D // pointer position at drag start
	startPlacement geometry.Point2D // placement percent at drag start

	// Pinch baseline.
	pinchStartDist float64
	startScale     float64
	curScale       float64
	curPlacement   geometry.Point2D
}

// NewTracker creates an idle tracker. container must be set before use.
func NewTracker() *Tracker {
	return &Tracker{points: make(map[int]geometry.Point2D)}
}

// SetContainer records the display container size used to convert drag
// deltas to percent.
func (t *Tracker) SetContainer(size geometry.Size) {
	t.container = size
}

// Mode returns the current interaction mode.
func (t *Tracker) Mode() Mode {
	return t.mode
}

// Down registers a pointer contact. placement and scale are the proposal
// values at the moment the contact lands; they become the baseline the
// gesture is computed against.
func (t *Tracker) Down(id int, pos geometry.Point2D, placement geometry.Point2D, scale float64) {
	if _, exists := t.points[id]; !exists {
		t.order = append(t.order, id)
	}
	t.points[id] = pos

	switch len(t.points) {
	case 1:
		t.mode = ModeDrag
		t.dragStart = pos
		t.startPlacement = placement
		t.curPlacement = placement
		t.curScale = scale
	case 2:
		// Second contact mid-drag: switch to pinch, suspend translation.
		t.mode = ModePinch
		t.pinchStartDist = t.contactDistance()
		t.startScale = scale
		t.curScale = scale
	default:
		// Additional contacts are ignored; the first two drive the pinch.
	}
}

// Move updates a contact position and returns the resulting placement update.
func (t *Tracker) Move(id int, pos geometry.Point2D) Update {
	if _, exists := t.points[id]; !exists {
		return Update{}
	}
	t.points[id] = pos

	switch t.mode {
	case ModeDrag:
		if id != t.primary() {
			return Update{}
		}
		delta := geometry.DragDeltaPercent(pos.Sub(t.dragStart), t.container)
		newPos := geometry.ClampPercent(t.startPlacement.Add(delta))
		t.curPlacement = newPos
		return Update{Position: &newPos}

	case ModePinch:
		dist := t.contactDistance()
		if t.pinchStartDist <= 0 {
			// Coincident contacts at pinch start: treat as factor 1 and
			// re-baseline once the contacts separate.
			if dist > 0 {
				t.pinchStartDist = dist
			}
			return Update{}
		}
		scale := geometry.PinchScale(t.startScale, t.pinchStartDist, dist)
		t.curScale = scale
		return Update{Scale: &scale}
	}
	return Update{}
}

// Up removes a contact. Ending a pinch re-baselines the remaining contact as
// a fresh drag start so translation resumes without jumping.
func (t *Tracker) Up(id int) {
	if _, exists := t.points[id]; !exists {
		return
	}
	delete(t.points, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}

	switch len(t.points) {
	case 0:
		t.mode = ModeIdle
	case 1:
		t.mode = ModeDrag
		t.dragStart = t.points[t.primary()]
		t.startPlacement = t.curPlacement
	}
}

// Reset drops all contacts and returns to idle.
func (t *Tracker) Reset() {
	t.points = make(map[int]geometry.Point2D)
	t.order = nil
	t.mode = ModeIdle
}

// primary returns the id of the oldest active contact.
func (t *Tracker) primary() int {
	if len(t.order) == 0 {
		return -1
	}
	return t.order[0]
}

// contactDistance returns the distance between the two oldest contacts.
func (t *Tracker) contactDistance() float64 {
	if len(t.order) < 2 {
		return 0
	}
	return t.points[t.order[0]].Distance(t.points[t.order[1]])
}
