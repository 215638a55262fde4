package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-studio/pkg/geometry"
)

func TestModel_ProposeStartsAtDefaultScale(t *testing.T) {
	m := NewModel()

	p := m.Propose(SourceProductA, geometry.NewPoint2D(25, 75))

	require.NotNil(t, m.Active())
	assert.Equal(t, SourceProductA, p.Source)
	assert.Equal(t, 1.0, p.Scale)
	assert.Equal(t, geometry.Point2D{X: 25, Y: 75}, p.Position)
}

func TestModel_ProposeClampsPosition(t *testing.T) {
	m := NewModel()
	p := m.Propose(SourceProductB, geometry.NewPoint2D(-10, 140))
	assert.Equal(t, geometry.Point2D{X: 0, Y: 100}, p.Position)
}

func TestModel_UpdatePartialDelta(t *testing.T) {
	m := NewModel()
	m.Propose(SourceProductA, geometry.NewPoint2D(50, 50))

	scale := 2.5
	p, err := m.Update(Delta{Scale: &scale})
	require.NoError(t, err)
	assert.Equal(t, 2.5, p.Scale)
	assert.Equal(t, geometry.Point2D{X: 50, Y: 50}, p.Position, "nil position leaves it unchanged")

	pos := geometry.NewPoint2D(10, 20)
	p, err = m.Update(Delta{Position: &pos})
	require.NoError(t, err)
	assert.Equal(t, pos, p.Position)
	assert.Equal(t, 2.5, p.Scale)
}

func TestModel_UpdateClampsScale(t *testing.T) {
	m := NewModel()
	m.Propose(SourceProductA, geometry.NewPoint2D(50, 50))

	tooBig := 50.0
	p, err := m.Update(Delta{Scale: &tooBig})
	require.NoError(t, err)
	assert.Equal(t, geometry.MaxPlacementScale, p.Scale)

	tooSmall := 0.0001
	p, err = m.Update(Delta{Scale: &tooSmall})
	require.NoError(t, err)
	assert.Equal(t, geometry.MinPlacementScale, p.Scale)
}

func TestModel_UpdateWithoutProposal(t *testing.T) {
	m := NewModel()
	_, err := m.Update(Delta{})
	assert.ErrorIs(t, err, ErrNoProposal)
}

func TestModel_ConfirmSnapshotsAndClears(t *testing.T) {
	m := NewModel()
	m.Propose(SourceProductB, geometry.NewPoint2D(30, 60))

	req, err := m.Confirm()
	require.NoError(t, err)

	assert.NotZero(t, req.ID)
	assert.Equal(t, SourceProductB, req.Source)
	assert.Equal(t, geometry.Point2D{X: 30, Y: 60}, req.Position)
	assert.Equal(t, 1.0, req.Scale)
	assert.Nil(t, m.Active(), "confirm clears the proposal")

	_, err = m.Confirm()
	assert.ErrorIs(t, err, ErrNoProposal)
}

func TestModel_CancelDiscards(t *testing.T) {
	m := NewModel()
	m.Propose(SourceProductA, geometry.NewPoint2D(50, 50))

	m.Cancel()
	assert.Nil(t, m.Active())

	m.Cancel() // cancel with nothing active is harmless
	assert.Nil(t, m.Active())
}

func TestModel_RestoreReinstatesCopy(t *testing.T) {
	m := NewModel()
	m.Propose(SourceProductA, geometry.NewPoint2D(40, 40))
	snapshot := *m.Active()

	_, err := m.Confirm()
	require.NoError(t, err)
	require.Nil(t, m.Active())

	m.Restore(snapshot)

	restored := m.Active()
	require.NotNil(t, restored)
	assert.Equal(t, snapshot, *restored)
	assert.NotSame(t, &snapshot, restored, "restore must store its own copy")
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "Product A", SourceProductA.String())
	assert.Equal(t, "Product B", SourceProductB.String())
	assert.Equal(t, "Unknown", Source(7).String())
}
