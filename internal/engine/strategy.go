// Package engine implements the packing and optimization core: the
// Bottom-Left Fill placement strategy, the bin packer that drives it
// across sheets, and the genetic algorithm that searches over part
// orderings and rotations to minimize the number of sheets used.
package engine

import (
	"sort"

	"github.com/ckbaskerville/proper-job-sub000/internal/model"
)

// placementEpsilon absorbs floating-point noise in bounds checks.
const placementEpsilon = 1e-9

// Strategy places an ordered list of rectangles onto sheets of a fixed
// size. The order is the caller's decision; the strategy never reorders.
// Rectangles that cannot fit an empty sheet in any permitted orientation
// are returned as unplaced.
type Strategy interface {
	Pack(ordered []model.Rectangle) (sheets []model.Sheet, unplaced []model.Rectangle)
}

// BottomLeftFill places each rectangle at the lowest, then left-most,
// feasible position. Candidate positions are the origin plus the three
// corners adjacent to every already-placed rectangle.
type BottomLeftFill struct {
	sheetWidth    float64
	sheetHeight   float64
	allowRotation bool
	margin        float64 // kerf clearance between placements
}

// NewBottomLeftFill builds a strategy for the given sheet dimensions.
func NewBottomLeftFill(sheetWidth, sheetHeight float64, allowRotation bool, margin float64) *BottomLeftFill {
	return &BottomLeftFill{
		sheetWidth:    sheetWidth,
		sheetHeight:   sheetHeight,
		allowRotation: allowRotation,
		margin:        margin,
	}
}

// Pack processes rectangles strictly in the given order, scanning sheets
// in creation order and opening a new sheet only when no existing sheet
// can take the rectangle.
func (b *BottomLeftFill) Pack(ordered []model.Rectangle) ([]model.Sheet, []model.Rectangle) {
	var sheets []model.Sheet
	var unplaced []model.Rectangle

	for _, rect := range ordered {
		placed := false
		for i := range sheets {
			if b.placeInSheet(&sheets[i], rect) {
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		fresh := model.Sheet{Width: b.sheetWidth, Height: b.sheetHeight}
		if b.placeInSheet(&fresh, rect) {
			sheets = append(sheets, fresh)
		} else {
			// Does not fit an empty sheet in any permitted orientation.
			unplaced = append(unplaced, rect)
		}
	}

	return sheets, unplaced
}

// placeInSheet tries the rectangle in its given orientation, then
// rotated if rotation is allowed and the rectangle is not square.
func (b *BottomLeftFill) placeInSheet(sheet *model.Sheet, rect model.Rectangle) bool {
	if x, y, ok := b.findPosition(sheet, rect.Width, rect.Height); ok {
		sheet.Placements = append(sheet.Placements, model.PlacedRectangle{
			X: x, Y: y, Width: rect.Width, Height: rect.Height, ID: rect.ID,
		})
		return true
	}
	if b.allowRotation && !rect.IsSquare() {
		if x, y, ok := b.findPosition(sheet, rect.Height, rect.Width); ok {
			sheet.Placements = append(sheet.Placements, model.PlacedRectangle{
				X: x, Y: y, Width: rect.Height, Height: rect.Width, ID: rect.ID, Rotated: true,
			})
			return true
		}
	}
	return false
}

// findPosition returns the bottom-left-most feasible position for a
// w x h rectangle in the sheet, or ok=false if none exists.
func (b *BottomLeftFill) findPosition(sheet *model.Sheet, w, h float64) (float64, float64, bool) {
	if len(sheet.Placements) == 0 {
		if b.canPlaceAt(sheet, 0, 0, w, h) {
			return 0, 0, true
		}
		return 0, 0, false
	}

	candidates := b.candidatePositions(sheet)
	for _, c := range candidates {
		if b.canPlaceAt(sheet, c.x, c.y, w, h) {
			return c.x, c.y, true
		}
	}
	return 0, 0, false
}

type candidate struct {
	x, y float64
}

// candidatePositions generates the origin plus the right-edge, top-edge,
// and top-right positions of every placement, deduplicated and sorted
// ascending by (y, x).
func (b *BottomLeftFill) candidatePositions(sheet *model.Sheet) []candidate {
	candidates := make([]candidate, 0, 1+3*len(sheet.Placements))
	candidates = append(candidates, candidate{0, 0})
	for _, p := range sheet.Placements {
		right := p.X + p.Width + b.margin
		top := p.Y + p.Height + b.margin
		candidates = append(candidates,
			candidate{right, p.Y},
			candidate{p.X, top},
			candidate{right, top},
		)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].y != candidates[j].y {
			return candidates[i].y < candidates[j].y
		}
		return candidates[i].x < candidates[j].x
	})

	// Deduplicate adjacent equal positions.
	deduped := candidates[:1]
	for _, c := range candidates[1:] {
		last := deduped[len(deduped)-1]
		if c.x != last.x || c.y != last.y {
			deduped = append(deduped, c)
		}
	}
	return deduped
}

// canPlaceAt checks sheet bounds and overlap against every existing
// placement. The kerf margin inflates both rectangles on their right and
// top edges, which keeps at least one margin's clearance between parts.
func (b *BottomLeftFill) canPlaceAt(sheet *model.Sheet, x, y, w, h float64) bool {
	if x < 0 || y < 0 {
		return false
	}
	if x+w > b.sheetWidth+placementEpsilon || y+h > b.sheetHeight+placementEpsilon {
		return false
	}
	test := model.PlacedRectangle{X: x, Y: y, Width: w + b.margin, Height: h + b.margin}
	for _, p := range sheet.Placements {
		grown := model.PlacedRectangle{X: p.X, Y: p.Y, Width: p.Width + b.margin, Height: p.Height + b.margin}
		if test.Overlaps(grown) {
			return false
		}
	}
	return true
}

// FitsSheet reports whether the rectangle fits an empty sheet in its
// given orientation or, when rotation is allowed, rotated.
func (b *BottomLeftFill) FitsSheet(rect model.Rectangle) bool {
	if rect.Width <= b.sheetWidth+placementEpsilon && rect.Height <= b.sheetHeight+placementEpsilon {
		return true
	}
	if b.allowRotation {
		return rect.Height <= b.sheetWidth+placementEpsilon && rect.Width <= b.sheetHeight+placementEpsilon
	}
	return false
}
