package engine

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ckbaskerville/proper-job-sub000/internal/model"
)

func rect(id string, w, h float64) model.Rectangle {
	return model.Rectangle{ID: id, Width: w, Height: h}
}

func TestBottomLeftFill_FirstRectangleAtOrigin(t *testing.T) {
	blf := NewBottomLeftFill(1000, 600, false, 0)

	sheets, unplaced := blf.Pack([]model.Rectangle{rect("a", 400, 300)})

	require.Len(t, sheets, 1)
	require.Empty(t, unplaced)
	require.Len(t, sheets[0].Placements, 1)

	p := sheets[0].Placements[0]
	assert.Equal(t, 0.0, p.X)
	assert.Equal(t, 0.0, p.Y)
	assert.Equal(t, "a", p.ID)
}

func TestBottomLeftFill_PrefersLowestThenLeftmost(t *testing.T) {
	blf := NewBottomLeftFill(1000, 600, false, 0)

	sheets, unplaced := blf.Pack([]model.Rectangle{
		rect("a", 400, 300),
		rect("b", 400, 200),
	})

	require.Len(t, sheets, 1)
	require.Empty(t, unplaced)

	// Second rectangle fits both right of and above the first; the
	// right position has the lower y and must win.
	b := sheets[0].Placements[1]
	assert.Equal(t, 400.0, b.X)
	assert.Equal(t, 0.0, b.Y)
}

func TestBottomLeftFill_RotatesToFit(t *testing.T) {
	blf := NewBottomLeftFill(500, 1000, true, 0)

	// 800x400 only fits the 500-wide sheet rotated to 400x800.
	sheets, unplaced := blf.Pack([]model.Rectangle{rect("tall", 800, 400)})

	require.Len(t, sheets, 1)
	require.Empty(t, unplaced)

	p := sheets[0].Placements[0]
	assert.Equal(t, 400.0, p.Width)
	assert.Equal(t, 800.0, p.Height)
	assert.True(t, p.Rotated)
}

func TestBottomLeftFill_RotationDisabled(t *testing.T) {
	blf := NewBottomLeftFill(500, 1000, false, 0)

	sheets, unplaced := blf.Pack([]model.Rectangle{rect("tall", 800, 400)})

	assert.Empty(t, sheets)
	require.Len(t, unplaced, 1)
	assert.Equal(t, "tall", unplaced[0].ID)
}

func TestBottomLeftFill_OpensNewSheetWhenFull(t *testing.T) {
	blf := NewBottomLeftFill(1000, 500, false, 0)

	sheets, unplaced := blf.Pack([]model.Rectangle{
		rect("a", 1000, 500),
		rect("b", 1000, 500),
	})

	require.Empty(t, unplaced)
	require.Len(t, sheets, 2)
	assert.Len(t, sheets[0].Placements, 1)
	assert.Len(t, sheets[1].Placements, 1)
}

func TestBottomLeftFill_BackfillsEarlierSheet(t *testing.T) {
	blf := NewBottomLeftFill(1000, 500, false, 0)

	// The big rectangle forces a second sheet; the small one placed
	// afterwards still fits sheet one and must land there.
	sheets, unplaced := blf.Pack([]model.Rectangle{
		rect("wide", 900, 500),
		rect("big", 800, 400),
		rect("small", 100, 100),
	})

	require.Empty(t, unplaced)
	require.Len(t, sheets, 2)
	require.Len(t, sheets[0].Placements, 2)
	assert.Equal(t, "small", sheets[0].Placements[1].ID)
}

func TestBottomLeftFill_KerfKeepsClearance(t *testing.T) {
	const margin = 4.0
	blf := NewBottomLeftFill(1000, 600, false, margin)

	sheets, unplaced := blf.Pack([]model.Rectangle{
		rect("a", 400, 300),
		rect("b", 400, 300),
	})

	require.Empty(t, unplaced)
	require.Len(t, sheets, 1)
	require.Len(t, sheets[0].Placements, 2)

	a, b := sheets[0].Placements[0], sheets[0].Placements[1]
	assert.Equal(t, 0.0, a.X)
	assert.Equal(t, a.X+a.Width+margin, b.X, "one full margin between adjacent parts")
	assert.Equal(t, 0.0, b.Y)
}

func TestBottomLeftFill_KerfDoesNotShrinkSheetEdges(t *testing.T) {
	// A part exactly the sheet size still fits: the margin applies
	// between parts, not against the sheet boundary.
	blf := NewBottomLeftFill(1000, 500, false, 3)

	sheets, unplaced := blf.Pack([]model.Rectangle{rect("full", 1000, 500)})

	require.Empty(t, unplaced)
	require.Len(t, sheets, 1)
}

func TestBottomLeftFill_ExactFitNoGap(t *testing.T) {
	blf := NewBottomLeftFill(1000, 500, false, 0)

	sheets, unplaced := blf.Pack([]model.Rectangle{
		rect("left", 500, 500),
		rect("right", 500, 500),
	})

	require.Empty(t, unplaced)
	require.Len(t, sheets, 1, "touching edges must not count as overlap")
	require.Len(t, sheets[0].Placements, 2)
	assert.Equal(t, 500.0, sheets[0].Placements[1].X)
}

func TestBottomLeftFill_DeterministicForFixedOrder(t *testing.T) {
	blf := NewBottomLeftFill(1220, 2440, true, 3)
	rects := []model.Rectangle{
		rect("p1", 600, 400), rect("p2", 300, 700), rect("p3", 450, 450),
		rect("p4", 800, 200), rect("p5", 350, 350), rect("p6", 900, 600),
	}

	first, _ := blf.Pack(rects)
	second, _ := blf.Pack(rects)

	assert.True(t, reflect.DeepEqual(first, second), "identical input order must produce identical layouts")
}

func TestBottomLeftFill_LayoutIsSound(t *testing.T) {
	blf := NewBottomLeftFill(1220, 2440, true, 3)
	rects := []model.Rectangle{
		rect("p1", 600, 400), rect("p2", 300, 700), rect("p3", 450, 450),
		rect("p4", 800, 200), rect("p5", 350, 350), rect("p6", 900, 600),
		rect("p7", 1200, 300), rect("p8", 150, 150),
	}

	sheets, unplaced := blf.Pack(rects)

	require.Empty(t, unplaced)
	assert.Empty(t, ValidateLayout(sheets))
	assert.Empty(t, CheckConservation(rects, sheets, nil))
}

func TestFitsSheet(t *testing.T) {
	blf := NewBottomLeftFill(1000, 500, false, 0)
	assert.True(t, blf.FitsSheet(rect("ok", 1000, 500)))
	assert.False(t, blf.FitsSheet(rect("tall", 400, 600)))

	rotating := NewBottomLeftFill(1000, 500, true, 0)
	assert.True(t, rotating.FitsSheet(rect("tall", 400, 600)))
	assert.False(t, rotating.FitsSheet(rect("huge", 1100, 600)))
}
