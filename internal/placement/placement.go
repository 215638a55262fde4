// Package placement holds the not-yet-committed product placement proposal.
package placement

import (
	"errors"

	"github.com/google/uuid"

	"scene-studio/pkg/geometry"
)

// ErrNoProposal is returned when an operation needs an active proposal and
// none exists.
var ErrNoProposal = errors.New("no active placement proposal")

// Source identifies which of the two product slots a proposal places.
type Source int

const (
	SourceProductA Source = iota
	SourceProductB
)

func (s Source) String() string {
	switch s {
	case SourceProductA:
		return "Product A"
	case SourceProductB:
		return "Product B"
	default:
		return "Unknown"
	}
}

// Proposal is a pending placement: which product, where (image-relative
// percent, origin top-left of the content), and at what scale. It exists
// only between a placement gesture and its confirmation or cancellation and
// is never persisted into history directly.
type Proposal struct {
	Source   Source
	Position geometry.Point2D
	Scale    float64
}

// Request is the immutable snapshot handed to the generation service when a
// proposal is confirmed.
type Request struct {
	ID       uuid.UUID
	Source   Source
	Position geometry.Point2D
	Scale    float64
}

// Delta is a partial update to a proposal; nil fields are left unchanged.
type Delta struct {
	Position *geometry.Point2D
	Scale    *float64
}

// Model tracks the single active proposal. The session controller is
// responsible for rejecting a new proposal while one is active; the model
// itself just stores whatever it is told.
type Model struct {
	active *Proposal
}

// NewModel creates an empty placement model.
func NewModel() *Model {
	return &Model{}
}

// Active returns the current proposal, or nil.
func (m *Model) Active() *Proposal {
	return m.active
}

// Propose starts a proposal at the given position with the default scale 1.0.
func (m *Model) Propose(source Source, position geometry.Point2D) *Proposal {
	m.active = &Proposal{
		Source:   source,
		Position: geometry.ClampPercent(position),
		Scale:    1.0,
	}
	return m.active
}

// Update applies a partial update to the active proposal.
func (m *Model) Update(delta Delta) (*Proposal, error) {
	if m.active == nil {
		return nil, ErrNoProposal
	}
	if delta.Position != nil {
		m.active.Position = geometry.ClampPercent(*delta.Position)
	}
	if delta.Scale != nil {
		m.active.Scale = geometry.ClampScale(*delta.Scale)
	}
	return m.active, nil
}

// Cancel discards the active proposal, if any.
func (m *Model) Cancel() {
	m.active = nil
}

// Restore reinstates a proposal, used by the session controller when a
// confirmed placement fails remotely and the user should be able to retry
// without re-placing the product.
func (m *Model) Restore(p Proposal) {
	restored := p
	m.active = &restored
}

// Confirm snapshots the active proposal into a Request and clears it.
func (m *Model) Confirm() (Request, error) {
	if m.active == nil {
		return Request{}, ErrNoProposal
	}
	req := Request{
		ID:       uuid.New(),
		Source:   m.active.Source,
		Position: m.active.Position,
		Scale:    m.active.Scale,
	}
	m.active = nil
	return req, nil
}
